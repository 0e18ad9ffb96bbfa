// Package gridview draws plot panels as styled terminal text. A View is a
// plot.Renderer that keeps what it was last told to draw and renders it on
// demand.
package gridview

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/output"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/series"
	"github.com/voeis/seqplot/internal/tui/theme"
)

const (
	// CellWidth is the number of terminal columns per grid column.
	CellWidth = 3
	// gutter holds the row labels and the axis line.
	gutter = 4
	// yLabelWidth is the width of the value axis labels of plots.
	yLabelWidth = 9
)

// ColumnsForWidth returns how many grid columns fit in width terminal
// columns.
func ColumnsForWidth(width int) int {
	return max(1, (width-gutter)/CellWidth)
}

// View renders one panel.
type View struct {
	theme  theme.Theme
	width  int
	height int

	axes   plot.Axes
	series map[int]*series.Series
	extent extent.Global

	window    grid.Window
	hasWindow bool
	highlight int

	cursorCol, cursorRow int

	// Names labels series in the cell info. Nil shows "sequence N".
	Names func(index int) string
}

// New creates a view of the given size.
func New(t theme.Theme, width, height int) *View {
	return &View{
		theme:     t,
		width:     width,
		height:    height,
		series:    make(map[int]*series.Series),
		highlight: -1,
	}
}

// SetSize changes the drawing area.
func (v *View) SetSize(width, height int) {
	v.width, v.height = width, height
}

// Size returns the drawing area.
func (v *View) Size() (int, int) {
	return v.width, v.height
}

// DrawAxes implements plot.Renderer. A new title or kind means the panel
// switched options, so everything drawn before is dropped.
func (v *View) DrawAxes(a plot.Axes) {
	if a.Kind != v.axes.Kind || a.Title != v.axes.Title {
		v.series = make(map[int]*series.Series)
		v.hasWindow = false
	}
	v.axes = a
	v.extent = a.Extent
}

// DrawSeries implements plot.Renderer.
func (v *View) DrawSeries(index int, s *series.Series, g extent.Global) {
	v.extent = g
	if s == nil {
		delete(v.series, index)
		return
	}
	v.series[index] = s
}

// DrawGrid implements plot.Renderer.
func (v *View) DrawGrid(w grid.Window, index int) {
	v.window = w
	v.hasWindow = true
	v.highlight = index
	v.clampCursor()
}

// Axes returns the axes last drawn.
func (v *View) Axes() plot.Axes {
	return v.axes
}

// Window returns the grid window last drawn.
func (v *View) Window() (grid.Window, bool) {
	return v.window, v.hasWindow
}

// SeriesCount returns the number of series drawn.
func (v *View) SeriesCount() int {
	return len(v.series)
}

// Cursor returns the grid cursor as window column and row.
func (v *View) Cursor() (col, row int) {
	return v.cursorCol, v.cursorRow
}

// MoveCursor moves the grid cursor, staying inside the window.
func (v *View) MoveCursor(dCol, dRow int) {
	v.cursorCol += dCol
	v.cursorRow += dRow
	v.clampCursor()
}

func (v *View) clampCursor() {
	if !v.hasWindow {
		return
	}
	v.cursorCol = min(max(v.cursorCol, 0), v.window.NumCols-1)
	v.cursorRow = min(max(v.cursorRow, 0), v.window.Base-1)
}

// CellInfo describes the cell under the cursor: its value and how often
// each selected series contains it. Empty cells give nil.
func (v *View) CellInfo() []string {
	if !v.hasWindow {
		return nil
	}
	c := v.window.Cell(v.cursorCol, v.cursorRow)
	if c.Kind != grid.CellPopulated {
		return nil
	}
	lines := []string{strconv.FormatInt(c.Value, 10)}
	for _, o := range c.Occurrences {
		name := fmt.Sprintf("In selected sequence %d", o.Series+1)
		if v.Names != nil {
			if n := v.Names(o.Series); n != "" {
				name = "In " + n
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, output.CountStr(len(o.Positions), "time", "times")))
	}
	return lines
}

// View renders the panel at its current size.
func (v *View) View() string {
	t := v.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Lavender).Render(v.axes.Title)
	if v.axes.Kind == plot.KindGrid {
		title += lipgloss.NewStyle().Foreground(t.Subtext).Render(fmt.Sprintf("  (base %d)", v.axes.Base))
	}

	var body string
	if v.axes.Kind == plot.KindGrid {
		body = v.renderGrid()
	} else {
		body = v.renderPlot(v.height - 1)
	}
	return FitToHeight(title+"\n"+body, v.height)
}

func (v *View) renderGrid() string {
	t := v.theme
	if !v.hasWindow {
		return lipgloss.NewStyle().Foreground(t.Overlay).Italic(true).Render("No sequences selected")
	}
	w := v.window
	dim := lipgloss.NewStyle().Foreground(t.Overlay)
	axis := lipgloss.NewStyle().Foreground(t.Surface2)

	c := newCanvas(gutter+w.NumCols*CellWidth, w.Base+2)
	mid := w.Base / 2
	for y := 0; y < w.Base; y++ {
		row := w.Base - 1 - y
		if w.Base <= 12 || row%2 == 0 {
			c.text(0, y, fmt.Sprintf("%2s", strconv.FormatInt(int64(row), w.Base)))
		}
		c.set(gutter-1, y, axis.Render("│"))
		for col := 0; col < w.NumCols; col++ {
			x := gutter + col*CellWidth + 1
			cell := w.Cell(col, row)
			if cell.Kind == grid.CellPopulated {
				c.set(x, y, v.cellGlyph(cell, col, row))
			} else if col == v.cursorCol && row == v.cursorRow {
				c.set(x, y, lipgloss.NewStyle().Reverse(true).Render(" "))
			}
		}
	}
	for _, e := range w.Ellipses {
		for _, d := range e.Dots {
			x := gutter + int(math.Round(d*CellWidth))
			c.set(x, w.Base-1-mid, dim.Render("·"))
		}
	}

	c.set(gutter-1, w.Base, axis.Render("└"))
	for x := gutter; x < c.w; x++ {
		c.set(x, w.Base, axis.Render("─"))
	}
	next := gutter
	for col, label := range w.ColumnLabels {
		if w.Cell(col, 0).Kind == grid.CellCollapsed {
			continue
		}
		x := gutter + col*CellWidth
		s := strconv.FormatInt(label, 10)
		if x < next || x+len(s) > c.w {
			continue
		}
		for i, r := range s {
			c.set(x+i, w.Base+1, dim.Render(string(r)))
		}
		next = x + len(s) + 1
	}
	return c.String()
}

// cellGlyph marks values shared by several series with a diamond and
// colors each value by the series that caused the last redraw when it
// contains the value.
func (v *View) cellGlyph(cell grid.Cell, col, row int) string {
	owner := cell.Occurrences[0].Series
	for _, o := range cell.Occurrences {
		if o.Series == v.highlight {
			owner = o.Series
		}
	}
	glyph := "●"
	if len(cell.Occurrences) > 1 {
		glyph = "◆"
	}
	style := lipgloss.NewStyle().Foreground(v.theme.Series(owner))
	if col == v.cursorCol && row == v.cursorRow {
		style = style.Reverse(true)
	}
	return style.Render(glyph)
}

func (v *View) renderPlot(height int) string {
	t := v.theme
	if len(v.series) == 0 {
		return lipgloss.NewStyle().Foreground(t.Overlay).Italic(true).Render("No series plotted")
	}
	axis := lipgloss.NewStyle().Foreground(t.Surface2)

	ph := max(height-2, 2)
	pw := max(v.width-yLabelWidth-1, 2)
	c := newCanvas(yLabelWidth+1+pw, ph+2)
	ox := yLabelWidth + 1
	g := v.extent

	toX := func(x float64) int { return ox + scale(x, g.X, pw) }
	toY := func(y float64) int { return ph - 1 - scale(y, g.Y, ph) }

	for y := 0; y < ph; y++ {
		c.set(ox-1, y, axis.Render("│"))
	}
	c.set(ox-1, ph, axis.Render("└"))
	for x := ox; x < c.w; x++ {
		c.set(x, ph, axis.Render("─"))
	}
	c.text(0, 0, fmt.Sprintf("%*s", yLabelWidth-1, formatTick(g.Y.Max, yLabelWidth-1)))
	c.text(0, ph-1, fmt.Sprintf("%*s", yLabelWidth-1, formatTick(g.Y.Min, yLabelWidth-1)))
	lo, hi := formatTick(g.X.Min, pw/2), formatTick(g.X.Max, pw/2)
	c.text(ox, ph+1, lo)
	c.text(c.w-len(hi), ph+1, hi)

	indices := make([]int, 0, len(v.series))
	for i := range v.series {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		s := v.series[i]
		style := lipgloss.NewStyle().Foreground(t.Series(i))
		switch v.axes.Kind {
		case plot.KindBar:
			base := toY(math.Max(g.Y.Min, math.Min(0, g.Y.Max)))
			for k := range s.X {
				x, y := toX(s.X[k]), toY(s.Y[k])
				for r := min(y, base); r <= max(y, base); r++ {
					c.set(x, r, style.Render("█"))
				}
			}
		case plot.KindLine:
			for k := 1; k < len(s.X); k++ {
				x0, y0 := toX(s.X[k-1]), toY(s.Y[k-1])
				x1, y1 := toX(s.X[k]), toY(s.Y[k])
				for x := x0 + 1; x < x1; x++ {
					y := y0 + int(math.Round(float64((y1-y0)*(x-x0))/float64(x1-x0)))
					c.set(x, y, style.Render("·"))
				}
			}
			fallthrough
		default:
			for k := range s.X {
				c.set(toX(s.X[k]), toY(s.Y[k]), style.Render("•"))
			}
		}
	}
	return c.String()
}

// scale maps v in r onto [0, n).
func scale(v float64, r series.Range, n int) int {
	if n <= 1 || r.Span() <= 0 {
		return 0
	}
	p := int(math.Round((v - r.Min) / r.Span() * float64(n-1)))
	return min(max(p, 0), n-1)
}

func formatTick(f float64, width int) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if len(s) > width {
		s = strconv.FormatFloat(f, 'g', 3, 64)
	}
	return strings.TrimSpace(s)
}
