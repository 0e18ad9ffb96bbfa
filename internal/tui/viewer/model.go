// Package viewer is the interactive terminal front end: a list of records
// on the left and the plot panels of the current view on the right.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/voeis/seqplot/internal/config"
	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/output"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/selection"
	"github.com/voeis/seqplot/internal/series"
	"github.com/voeis/seqplot/internal/tui/gridview"
	"github.com/voeis/seqplot/internal/tui/theme"
)

const (
	sidebarWidth  = 28
	infoHeight    = 3
	defaultWidth  = 80
	defaultHeight = 24
)

// CatalogMsg is sent when the database files were reloaded.
type CatalogMsg struct {
	Catalog *oeis.Catalog
	Err     error
}

// PresetsMsg is sent when the preset files changed.
type PresetsMsg struct {
	Presets []config.Preset
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme. The default is theme.Current().
func WithTheme(t theme.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithGridOptions sets the grid geometry. NumCols 0 fits the panel width.
func WithGridOptions(opts grid.Options) Option {
	return func(m *Model) { m.gridOpts = opts }
}

// WithDefaultExtent sets the axis range of empty panels.
func WithDefaultExtent(r series.Range) Option {
	return func(m *Model) { m.def = r }
}

// WithCapacity limits the number of simultaneous selections.
func WithCapacity(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithView sets the initial view.
func WithView(v plot.View) Option {
	return func(m *Model) { m.view = v }
}

// WithPresets sets the presets cycled with the preset key.
func WithPresets(p []config.Preset) Option {
	return func(m *Model) { m.presets = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the bubbletea model of the viewer.
type Model struct {
	keys   KeyMap
	help   help.Model
	theme  theme.Theme
	logger *slog.Logger

	catalog *oeis.Catalog
	view    plot.View
	items   []oeis.Record
	cursor  int
	offset  int

	gridOpts grid.Options
	def      series.Range
	capacity int
	group    *plot.Group
	views    []*gridview.View
	focus    int

	presets    []config.Preset
	nextPreset int

	width, height int
	status        string
	statusErr     bool
	quitting      bool
}

// New creates a viewer over catalog. A nil catalog starts empty.
func New(catalog *oeis.Catalog, opts ...Option) *Model {
	if catalog == nil {
		catalog = oeis.NewCatalog()
	}
	m := &Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		theme:    theme.Current(),
		logger:   slog.Default(),
		catalog:  catalog,
		view:     plot.ViewLocal,
		def:      extent.DefaultRange,
		capacity: selection.DefaultCapacity,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Group returns the panels of the current view.
func (m *Model) Group() *plot.Group { return m.group }

// Panel returns the renderer of panel i.
func (m *Model) Panel(i int) *gridview.View { return m.views[i] }

// Focus returns the index of the panel on screen.
func (m *Model) Focus() int { return m.focus }

// Mode returns the current view.
func (m *Model) Mode() plot.View { return m.view }

// Items returns the records listed in the sidebar.
func (m *Model) Items() []oeis.Record { return m.items }

// Cursor returns the sidebar cursor.
func (m *Model) Cursor() int { return m.cursor }

// Status returns the status line and whether it reports an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

// Select adds rec to the plots, e.g. for records given on the command line.
func (m *Model) Select(rec oeis.Record) error {
	_, err := m.group.Select(rec)
	return err
}

// ApplyPreset replaces the selection with the named preset.
func (m *Model) ApplyPreset(name string) error {
	p, ok := config.FindPreset(m.presets, name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	return m.applyPreset(p)
}

func (m *Model) rebuild() {
	layout, err := plot.Layout(m.view)
	if err != nil {
		m.setError(err)
		m.view = plot.ViewLocal
		layout, _ = plot.Layout(m.view)
	}
	m.items = m.records()
	m.cursor, m.offset = 0, 0

	pw, ph := m.panelSize()
	m.views = make([]*gridview.View, len(layout))
	panels := make([]*plot.Panel, len(layout))
	for i, o := range layout {
		v := gridview.New(m.theme, pw, ph)
		v.Names = m.seriesName
		m.views[i] = v
		panels[i] = plot.New(fmt.Sprintf("%s/%s", m.view, o.ID), v,
			plot.WithOption(o),
			plot.WithGridOptions(m.gridOptions()),
			plot.WithDefaultExtent(m.def),
			plot.WithLogger(m.logger),
		)
	}
	m.group = plot.NewGroup(m.capacity, panels...)
	m.group.Logger = m.logger
	m.focus = 0
}

func (m *Model) records() []oeis.Record {
	var out []oeis.Record
	if m.view == plot.ViewFixed {
		for _, n := range m.catalog.Numbers() {
			out = append(out, oeis.NumberRecord(n))
		}
		return out
	}
	for _, s := range m.catalog.Sequences() {
		out = append(out, oeis.SequenceRecord(s))
	}
	return out
}

func (m *Model) seriesName(index int) string {
	for _, s := range m.group.Selected() {
		if s.Index == index {
			return s.Record.Key()
		}
	}
	return ""
}

// panelSize leaves room for the sidebar, the tab line, the info box, the
// status line and the help line.
func (m *Model) panelSize() (int, int) {
	return max(m.width-sidebarWidth-2, 10), max(m.height-infoHeight-3, 3)
}

func (m *Model) listHeight() int {
	_, ph := m.panelSize()
	return ph + 1 + infoHeight
}

func (m *Model) gridOptions() grid.Options {
	o := m.gridOpts
	if o.NumCols <= 0 {
		pw, _ := m.panelSize()
		o.NumCols = gridview.ColumnsForWidth(pw)
	}
	return o
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		pw, ph := m.panelSize()
		for _, v := range m.views {
			v.SetSize(pw, ph)
		}
		m.group.SetGridOptions(m.gridOptions())
		m.group.Resize()
		m.moveCursor(0)

	case CatalogMsg:
		m.reload(msg)

	case PresetsMsg:
		m.presets = msg.Presets
		if m.nextPreset >= len(m.presets) {
			m.nextPreset = 0
		}
		m.setStatus(output.CountStr(len(m.presets), "preset", "presets") + " loaded")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Clear):
		m.clear()
		m.setStatus("selection cleared")
	case key.Matches(msg, m.keys.NextPanel):
		m.focus = (m.focus + 1) % len(m.views)
	case key.Matches(msg, m.keys.PrevPanel):
		m.focus = (m.focus - 1 + len(m.views)) % len(m.views)
	case key.Matches(msg, m.keys.NextOption):
		m.cycleOption()
	case key.Matches(msg, m.keys.BaseUp):
		m.shiftBase(1)
	case key.Matches(msg, m.keys.BaseDown):
		m.shiftBase(-1)
	case key.Matches(msg, m.keys.CellLeft):
		m.views[m.focus].MoveCursor(-1, 0)
	case key.Matches(msg, m.keys.CellRight):
		m.views[m.focus].MoveCursor(1, 0)
	case key.Matches(msg, m.keys.CellUp):
		m.views[m.focus].MoveCursor(0, 1)
	case key.Matches(msg, m.keys.CellDown):
		m.views[m.focus].MoveCursor(0, -1)
	case key.Matches(msg, m.keys.Preset):
		m.cyclePreset()
	case key.Matches(msg, m.keys.SwitchView):
		if m.view == plot.ViewLocal {
			m.view = plot.ViewFixed
		} else {
			m.view = plot.ViewLocal
		}
		m.rebuild()
		m.setStatus(fmt.Sprintf("%s view", m.view))
	}
	return m, nil
}

func (m *Model) moveCursor(d int) {
	if len(m.items) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor+d, 0), len(m.items)-1)
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *Model) toggle() {
	if len(m.items) == 0 {
		return
	}
	rec := m.items[m.cursor]
	index, selected, err := m.group.Toggle(rec)
	switch {
	case err != nil:
		m.setError(err)
	case selected:
		m.setStatus(fmt.Sprintf("selected %s as series %d", rec.Key(), index+1))
	default:
		m.setStatus("deselected " + rec.Key())
	}
}

func (m *Model) clear() {
	for _, s := range m.group.Selected() {
		if err := m.group.Deselect(s.Record.Key()); err != nil {
			m.logger.Debug("deselect failed", "record", s.Record.Key(), "error", err)
		}
	}
}

func (m *Model) cycleOption() {
	layout, _ := plot.Layout(m.view)
	p := m.group.Panels()[m.focus]
	next := layout[0]
	for i, o := range layout {
		if o == p.Option() {
			next = layout[(i+1)%len(layout)]
		}
	}
	p.SetOption(next)
	m.setStatus(fmt.Sprintf("panel %d shows %s", m.focus+1, next.MenuTitle))
}

func (m *Model) shiftBase(d int) {
	b := m.group.Panels()[m.focus].Base() + d
	if err := m.group.SetBase(b); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("base %d", b))
}

func (m *Model) cyclePreset() {
	if len(m.presets) == 0 {
		m.setStatus("no presets")
		return
	}
	p := m.presets[m.nextPreset]
	m.nextPreset = (m.nextPreset + 1) % len(m.presets)
	_ = m.applyPreset(p)
}

func (m *Model) applyPreset(p config.Preset) error {
	recs, missing, err := m.presetRecords(p)
	if err != nil {
		m.setError(fmt.Errorf("preset %s: %w", p.Name, err))
		return err
	}
	if p.View() != m.view {
		m.view = p.View()
		m.rebuild()
	} else {
		m.clear()
	}
	if err := m.group.SetBase(p.Base); err != nil {
		m.setError(err)
		return err
	}
	if o, ok := plot.LookupOption(p.Option); ok {
		m.focusOption(o)
	}

	var errs []error
	selected := 0
	for _, rec := range recs {
		if _, err := m.group.Select(rec); err != nil {
			errs = append(errs, err)
			continue
		}
		selected++
	}
	if err := errors.Join(errs...); err != nil {
		m.setError(fmt.Errorf("preset %s: %w", p.Name, err))
		return err
	}

	status := fmt.Sprintf("preset %s: %s selected", p.Name, output.CountStr(selected, "series", "series"))
	if len(missing) > 0 {
		status += ", not in database: " + strings.Join(missing, " ")
	}
	m.setStatus(status)
	return nil
}

func (m *Model) presetRecords(p config.Preset) (recs []oeis.Record, missing []string, err error) {
	anums, err := p.ANums()
	if err != nil {
		return nil, nil, err
	}
	for i, a := range anums {
		if s, ok := m.catalog.Sequence(a); ok {
			recs = append(recs, oeis.SequenceRecord(s))
		} else {
			missing = append(missing, p.Sequences[i])
		}
	}
	for _, n := range p.Numbers {
		if num, ok := m.catalog.Number(n); ok {
			recs = append(recs, oeis.NumberRecord(num))
		} else {
			missing = append(missing, strconv.FormatInt(n, 10))
		}
	}
	return recs, missing, nil
}

// focusOption shows the panel with option o, switching the focused panel
// to o when no panel has it.
func (m *Model) focusOption(o *plot.Option) {
	for i, p := range m.group.Panels() {
		if p.Option() == o {
			m.focus = i
			return
		}
	}
	m.group.Panels()[m.focus].SetOption(o)
}

// reload swaps in a new catalog. Selected records are replaced by their new
// version and dropped when they disappeared.
func (m *Model) reload(msg CatalogMsg) {
	if msg.Err != nil {
		m.setError(fmt.Errorf("reload: %w", msg.Err))
		return
	}
	m.catalog = msg.Catalog
	m.items = m.records()
	m.moveCursor(0)

	for _, s := range m.group.Selected() {
		key := s.Record.Key()
		fresh, ok := m.lookup(s.Record)
		if !ok {
			if err := m.group.Deselect(key); err != nil {
				m.logger.Debug("deselect failed", "record", key, "error", err)
			}
			continue
		}
		if err := m.group.Replace(fresh); err != nil {
			m.logger.Warn("replot failed", "record", key, "error", err)
		}
	}

	seqs, nums := m.catalog.Len()
	m.setStatus(fmt.Sprintf("reloaded %s and %s",
		output.CountStr(seqs, "sequence", "sequences"), output.CountStr(nums, "number", "numbers")))
}

// lookup finds the catalog version of rec. Sequences given as literal terms
// are not in any catalog and stay as they are.
func (m *Model) lookup(rec oeis.Record) (oeis.Record, bool) {
	switch {
	case rec.Sequence != nil && rec.Sequence.ANum > 0:
		s, ok := m.catalog.Sequence(rec.Sequence.ANum)
		return oeis.SequenceRecord(s), ok
	case rec.Number != nil:
		n, ok := m.catalog.Number(rec.Number.Num)
		return oeis.NumberRecord(n), ok
	}
	return rec, true
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
	m.logger.Debug("viewer error", "error", err)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.theme
	h := m.listHeight()
	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(h).
		MaxHeight(h).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(t.Surface1).
		Render(m.renderList(h))
	main := lipgloss.NewStyle().PaddingLeft(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.views[m.focus].View(),
		m.renderInfo(),
	))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main),
		m.renderStatus(),
		m.help.View(m.keys),
	)
}

func (m *Model) renderList(h int) string {
	t := m.theme
	if len(m.items) == 0 {
		return lipgloss.NewStyle().Foreground(t.Overlay).Italic(true).Render("No data loaded")
	}
	lines := make([]string, 0, h)
	end := min(len(m.items), m.offset+h)
	for i := m.offset; i < end; i++ {
		rec := m.items[i]
		marker := "  "
		if idx, ok := m.group.Index(rec.Key()); ok {
			marker = lipgloss.NewStyle().Foreground(t.Series(idx)).Render("●") + " "
		}
		label := truncate.StringWithTail(itemLabel(rec), uint(sidebarWidth-3), "…")
		style := lipgloss.NewStyle().Foreground(t.Text)
		if i == m.cursor {
			style = style.Bold(true).Foreground(t.Primary)
			label = "›" + label
		} else {
			label = " " + label
		}
		lines = append(lines, marker+style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func itemLabel(rec oeis.Record) string {
	switch {
	case rec.Sequence != nil:
		return strings.TrimSpace(rec.Sequence.ID() + " " + rec.Sequence.Name)
	case rec.Number != nil:
		return fmt.Sprintf("%d (%s)", rec.Number.Num, output.CountStr(rec.Number.TotalSequences, "seq", "seqs"))
	}
	return rec.Key()
}

func (m *Model) renderTabs() string {
	t := m.theme
	tabs := make([]string, 0, len(m.views))
	for i, p := range m.group.Panels() {
		style := lipgloss.NewStyle().Foreground(t.Subtext).Padding(0, 1)
		if i == m.focus {
			style = style.Bold(true).Underline(true).Foreground(t.Primary)
		}
		tabs = append(tabs, style.Render(p.Option().MenuTitle))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderInfo() string {
	v := m.views[m.focus]
	var lines []string
	if v.Axes().Kind == plot.KindGrid {
		lines = v.CellInfo()
		if lines == nil {
			lines = []string{"No value under the cursor"}
		}
	} else {
		g := m.group.Panels()[m.focus].Extent()
		lines = []string{fmt.Sprintf("x %s  y %s", g.X, g.Y)}
	}
	pw, _ := m.panelSize()
	text := wordwrap.String(strings.Join(lines, "\n"), pw)
	return lipgloss.NewStyle().Foreground(m.theme.Subtext).Render(gridview.FitToHeight(text, infoHeight))
}

func (m *Model) renderStatus() string {
	t := m.theme
	left := fmt.Sprintf("%s view · %s", m.view, output.CountStr(len(m.group.Selected()), "selected", "selected"))
	line := lipgloss.NewStyle().Foreground(t.Overlay).Render(left)
	if m.status != "" {
		style := lipgloss.NewStyle().Foreground(t.Subtext)
		if m.statusErr {
			style = style.Foreground(t.Red)
		}
		line += "  " + style.Render(m.status)
	}
	return line
}
