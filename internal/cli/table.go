package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/voeis/seqplot/internal/tui/theme"
)

// StyledTable renders a terminal table with rounded box-drawing borders.
type StyledTable struct {
	headers []string
	rows    [][]string
	widths  []int
	title   string
	footer  string
}

// NewStyledTable creates a new styled table with headers
func NewStyledTable(headers ...string) *StyledTable {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	return &StyledTable{headers: headers, widths: widths}
}

// WithTitle adds a title to the table
func (t *StyledTable) WithTitle(title string) *StyledTable {
	t.title = title
	return t
}

// WithFooter adds a footer to the table
func (t *StyledTable) WithFooter(footer string) *StyledTable {
	t.footer = footer
	return t
}

// AddRow adds a row to the table
func (t *StyledTable) AddRow(cols ...string) {
	for i, c := range cols {
		if i < len(t.widths) {
			t.widths[i] = max(t.widths[i], cellWidth(c))
		}
	}
	t.rows = append(t.rows, cols)
}

// RowCount returns the number of rows
func (t *StyledTable) RowCount() int {
	return len(t.rows)
}

// Render returns the table as a styled string
func (t *StyledTable) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	th := theme.Current()
	border := lipgloss.NewStyle().Foreground(th.Surface2)
	header := lipgloss.NewStyle().Foreground(th.Primary).Bold(true)
	text := lipgloss.NewStyle().Foreground(th.Text)

	hline := func(left, mid, right string) string {
		var line strings.Builder
		line.WriteString(left)
		for i, w := range t.widths {
			line.WriteString(strings.Repeat("─", w+2))
			if i < len(t.widths)-1 {
				line.WriteString(mid)
			}
		}
		line.WriteString(right)
		return border.Render(line.String())
	}
	row := func(cells []string, style lipgloss.Style) string {
		var line strings.Builder
		line.WriteString(border.Render("│"))
		for i := range t.headers {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			line.WriteString(" " + style.Render(padRight(cell, t.widths[i])) + " ")
			line.WriteString(border.Render("│"))
		}
		return line.String()
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(th.Primary).Bold(true).Render(t.title) + "\n")
	}
	sb.WriteString(hline("╭", "┬", "╮") + "\n")
	sb.WriteString(row(t.headers, header) + "\n")
	sb.WriteString(hline("├", "┼", "┤") + "\n")
	for _, r := range t.rows {
		sb.WriteString(row(r, text) + "\n")
	}
	sb.WriteString(hline("╰", "┴", "╯") + "\n")
	if t.footer != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(th.Subtext).Render(t.footer) + "\n")
	}
	return sb.String()
}

// String implements fmt.Stringer
func (t *StyledTable) String() string {
	return t.Render()
}

func cellWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func padRight(s string, width int) string {
	if w := cellWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// SuccessMessage renders a success message with icon
func SuccessMessage(msg string) string {
	return lipgloss.NewStyle().Foreground(theme.Current().Green).Render("✓ " + msg)
}

// ErrorMessage renders an error message with icon
func ErrorMessage(msg string) string {
	return lipgloss.NewStyle().Foreground(theme.Current().Red).Render("✗ " + msg)
}

// SubtleText renders subtle/muted text
func SubtleText(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Current().Subtext).Render(text)
}
