package plot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/series"
)

// ErrNotSelected is returned when deselecting an index the panel does not show.
var ErrNotSelected = errors.New("series not selected")

// Axes describes everything a renderer needs to draw a panel's frame.
type Axes struct {
	Title  string
	XLabel string
	YLabel string
	Kind   Kind
	Extent extent.Global
	// Base is the grid base; zero for non-grid panels.
	Base int
}

// Renderer draws a panel. Implementations keep whatever they need between
// calls; the panel only reports what changed.
type Renderer interface {
	// DrawAxes redraws the frame after the option or the extent changed.
	DrawAxes(axes Axes)
	// DrawSeries draws series index scaled to g. A nil series removes it.
	DrawSeries(index int, s *series.Series, g extent.Global)
	// DrawGrid replaces the grid with w. index is the series whose
	// selection caused the redraw, or -1.
	DrawGrid(w grid.Window, index int)
}

// Panel is one plot: an option, its active series and their extent.
type Panel struct {
	// Logger receives debug events. Nil means slog.Default().
	Logger *slog.Logger

	id       string
	renderer Renderer
	option   *Option
	def      series.Range
	gridOpts grid.Options

	agg     *extent.Aggregator
	grid    *grid.Compactor
	records map[int]oeis.Record
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithOption sets the initial option. The default is Terms.
func WithOption(o *Option) PanelOption {
	return func(p *Panel) {
		p.option = o
	}
}

// WithGridOptions sets the geometry of the grid window.
func WithGridOptions(opts grid.Options) PanelOption {
	return func(p *Panel) {
		p.gridOpts = opts
	}
}

// WithDefaultExtent sets the extent shown with no series selected.
func WithDefaultExtent(r series.Range) PanelOption {
	return func(p *Panel) {
		p.def = r
	}
}

// WithLogger sets the panel logger.
func WithLogger(l *slog.Logger) PanelOption {
	return func(p *Panel) {
		p.Logger = l
	}
}

// New creates a panel and draws its empty axes.
func New(id string, r Renderer, opts ...PanelOption) *Panel {
	p := &Panel{
		id:       id,
		renderer: r,
		option:   Terms,
		def:      extent.DefaultRange,
		gridOpts: grid.DefaultOptions(),
		records:  make(map[int]oeis.Record),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.agg = extent.NewWithDefault(p.def)
	p.grid = grid.New(p.gridOpts)
	p.drawAxes()
	return p
}

func (p *Panel) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// ID returns the panel ID.
func (p *Panel) ID() string { return p.id }

// Option returns the current option.
func (p *Panel) Option() *Option { return p.option }

// Extent returns the current global extent.
func (p *Panel) Extent() extent.Global { return p.agg.Extent() }

// Active returns the plotted series ordered by index.
func (p *Panel) Active() []extent.Entry { return p.agg.Active() }

// Base returns the grid base.
func (p *Panel) Base() int { return p.grid.Base() }

// Compactor exposes the grid state, e.g. for occurrence lookups.
func (p *Panel) Compactor() *grid.Compactor { return p.grid }

// Window computes the current grid window.
func (p *Panel) Window() grid.Window { return p.grid.ComputeWindow() }

// Selected reports whether index is plotted.
func (p *Panel) Selected(index int) bool {
	_, ok := p.agg.Series(index)
	return ok
}

// SetOption switches the statistic shown. Every series is dropped and
// replotted with the new option. Records the new option cannot plot are
// skipped.
func (p *Panel) SetOption(o *Option) {
	records := p.records
	p.option = o
	p.records = make(map[int]oeis.Record)
	p.agg.Reset()
	base := p.grid.Base()
	p.grid = grid.New(p.gridOpts)
	if err := p.grid.SetBase(base); err != nil {
		p.logger().Warn("base not carried over", "panel", p.id, "base", base, "error", err)
	}
	p.drawAxes()
	p.logger().Debug("panel option changed", "panel", p.id, "option", o.ID)

	for _, i := range sortedKeys(records) {
		if err := p.Select(i, records[i]); err != nil {
			p.logger().Debug("record dropped on option change", "panel", p.id, "series", i, "error", err)
		}
	}
}

// SetGridOptions changes the grid geometry, e.g. after a resize, and
// replots every series.
func (p *Panel) SetGridOptions(opts grid.Options) {
	if opts == p.gridOpts {
		return
	}
	p.gridOpts = opts
	p.SetOption(p.option)
}

// GridOptions returns the grid geometry the panel was configured with.
func (p *Panel) GridOptions() grid.Options { return p.gridOpts }

// Select plots rec as series index. Selecting an index again replaces it.
func (p *Panel) Select(index int, rec oeis.Record) error {
	s, err := p.option.Calculate(rec)
	if err != nil {
		return fmt.Errorf("panel %s: %s of %s: %w", p.id, p.option.ID, rec.Key(), err)
	}

	if p.option.Kind == KindGrid {
		if p.grid.HasSeries(index) {
			if err := p.grid.RemoveSeries(index); err != nil {
				return err
			}
		}
		if err := p.grid.AddSeries(index, s.Ints()); err != nil {
			return err
		}
	}
	p.records[index] = rec
	changed := p.agg.Upsert(index, s)
	p.logger().Debug("series selected", "panel", p.id, "series", index, "record", rec.Key(), "rescaled", changed)
	p.redraw(index, s, changed)
	return nil
}

// Deselect removes series index.
func (p *Panel) Deselect(index int) error {
	if !p.Selected(index) {
		return fmt.Errorf("panel %s: series %d: %w", p.id, index, ErrNotSelected)
	}
	if p.option.Kind == KindGrid {
		if err := p.grid.RemoveSeries(index); err != nil {
			return err
		}
	}
	delete(p.records, index)
	changed := p.agg.Upsert(index, nil)
	p.logger().Debug("series deselected", "panel", p.id, "series", index, "rescaled", changed)
	p.redraw(index, nil, changed)
	return nil
}

// SetBase changes the grid base and redraws a grid panel.
func (p *Panel) SetBase(b int) error {
	if err := p.grid.SetBase(b); err != nil {
		return fmt.Errorf("panel %s: %w", p.id, err)
	}
	if p.option.Kind == KindGrid {
		p.drawAxes()
		p.renderer.DrawGrid(p.grid.ComputeWindow(), -1)
	}
	return nil
}

// Resize redraws the axes after the drawing area changed size.
func (p *Panel) Resize() {
	p.drawAxes()
	switch {
	case p.option.Kind == KindGrid:
		p.renderer.DrawGrid(p.grid.ComputeWindow(), -1)
	case p.option.RedrawOnResize:
		g := p.agg.Extent()
		for _, e := range p.agg.Active() {
			p.renderer.DrawSeries(e.Index, e.Series, g)
		}
	}
}

// redraw issues the draw calls for a change to series index. When the
// extent changed every other series moves to the new scale first.
func (p *Panel) redraw(index int, s *series.Series, rescaled bool) {
	if p.option.Kind == KindGrid {
		if rescaled {
			p.drawAxes()
		}
		p.renderer.DrawGrid(p.grid.ComputeWindow(), index)
		return
	}

	g := p.agg.Extent()
	if rescaled {
		p.drawAxes()
		for _, e := range p.agg.Active() {
			if e.Index == index {
				continue
			}
			p.renderer.DrawSeries(e.Index, e.Series, g)
		}
	}
	p.renderer.DrawSeries(index, s, g)
}

func (p *Panel) drawAxes() {
	axes := Axes{
		Title:  p.option.Title,
		XLabel: p.option.XLabel,
		YLabel: p.option.YLabel,
		Kind:   p.option.Kind,
		Extent: p.agg.Extent(),
	}
	if p.option.Kind == KindGrid {
		axes.Base = p.grid.Base()
	}
	p.renderer.DrawAxes(axes)
}
