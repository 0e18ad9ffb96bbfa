package plot

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/selection"
	"github.com/voeis/seqplot/internal/series"
)

// Selected is one record shown by a group.
type Selected struct {
	Index  int
	Record oeis.Record
}

// Group keeps several panels showing the same selections. Series indices
// are allocated from a shared pool so each record keeps one index, and so
// one color, in every panel.
type Group struct {
	Logger *slog.Logger

	panels  []*Panel
	slots   *selection.Slots
	records map[int]oeis.Record
}

// NewGroup creates a group over panels with room for capacity selections.
func NewGroup(capacity int, panels ...*Panel) *Group {
	return &Group{
		panels:  panels,
		slots:   selection.New(capacity),
		records: make(map[int]oeis.Record),
	}
}

func (g *Group) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Panels returns the panels of the group.
func (g *Group) Panels() []*Panel {
	return g.panels
}

// Selected returns the selections ordered by index.
func (g *Group) Selected() []Selected {
	out := make([]Selected, 0, len(g.records))
	for _, i := range sortedKeys(g.records) {
		out = append(out, Selected{Index: i, Record: g.records[i]})
	}
	return out
}

// IsSelected reports whether a record with key is selected.
func (g *Group) IsSelected(key string) bool {
	_, ok := g.slots.Index(key)
	return ok
}

// Index returns the series index of the record with key.
func (g *Group) Index(key string) (int, bool) {
	return g.slots.Index(key)
}

// Select plots rec in every panel and returns its index. Panels whose
// option has nothing to plot for rec are left unchanged.
func (g *Group) Select(rec oeis.Record) (int, error) {
	key := rec.Key()
	if _, ok := g.slots.Index(key); ok {
		return -1, fmt.Errorf("select %s: already selected", key)
	}
	index, err := g.slots.Acquire(key)
	if err != nil {
		return -1, err
	}
	g.records[index] = rec
	if err := g.each(func(p *Panel) error { return p.Select(index, rec) }); err != nil {
		return index, err
	}
	return index, nil
}

// Deselect removes the record with key from every panel.
func (g *Group) Deselect(key string) error {
	index, ok := g.slots.Release(key)
	if !ok {
		return fmt.Errorf("deselect %s: %w", key, ErrNotSelected)
	}
	delete(g.records, index)
	return g.each(func(p *Panel) error {
		if !p.Selected(index) {
			return nil
		}
		return p.Deselect(index)
	})
}

// Toggle selects rec, or deselects it when already selected.
func (g *Group) Toggle(rec oeis.Record) (index int, selected bool, err error) {
	key := rec.Key()
	if i, ok := g.slots.Index(key); ok {
		return i, false, g.Deselect(key)
	}
	index, err = g.Select(rec)
	return index, err == nil, err
}

// Replace swaps the record behind an existing selection, keeping its index.
func (g *Group) Replace(rec oeis.Record) error {
	key := rec.Key()
	index, ok := g.slots.Index(key)
	if !ok {
		return fmt.Errorf("replace %s: %w", key, ErrNotSelected)
	}
	g.records[index] = rec
	return g.each(func(p *Panel) error {
		if p.Selected(index) {
			if err := p.Deselect(index); err != nil {
				return err
			}
		}
		return p.Select(index, rec)
	})
}

// SetBase changes the base of every panel.
func (g *Group) SetBase(b int) error {
	return g.each(func(p *Panel) error { return p.SetBase(b) })
}

// SetGridOptions changes the grid geometry of every panel.
func (g *Group) SetGridOptions(opts grid.Options) {
	for _, p := range g.panels {
		p.SetGridOptions(opts)
	}
}

// Resize redraws every panel.
func (g *Group) Resize() {
	for _, p := range g.panels {
		p.Resize()
	}
}

// each applies fn to every panel. Records a panel cannot plot are not an
// error for the group.
func (g *Group) each(fn func(p *Panel) error) error {
	var errs []error
	for _, p := range g.panels {
		err := fn(p)
		if errors.Is(err, series.ErrNoData) {
			g.logger().Debug("panel skipped record", "panel", p.ID(), "error", err)
			continue
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
