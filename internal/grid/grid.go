// Package grid lays out the integers drawn from the selected series on a
// column-major grid of base rows, where the cell at (column, row) holds the
// value column*base+row. Long runs of empty columns are collapsed so that a
// bounded number of columns covers widely spread values.
package grid

import (
	"fmt"
	"sort"
)

// Defaults for Options and the base.
const (
	DefaultBase         = 10
	DefaultNumCols      = 80
	DefaultMaxEmptyCols = 2
	DefaultEllipsisCols = 2
	DefaultEllipsisDots = 3

	MinBase = 2
	MaxBase = 16
)

// Options controls the window geometry. A field left at zero, or set
// negative, takes its Default value, so every field is at least 1 in use.
// To collapse every empty run, set MaxEmptyCols to 1 and EllipsisCols to 1.
type Options struct {
	// NumCols is the number of columns in a computed window.
	NumCols int
	// MaxEmptyCols is the longest run of empty columns shown as-is. Zero
	// means DefaultMaxEmptyCols.
	MaxEmptyCols int
	// EllipsisCols is the width of a collapsed run.
	EllipsisCols int
	// EllipsisDots is the number of dots drawn in a collapsed run.
	EllipsisDots int
}

// DefaultOptions returns the standard 80-column layout.
func DefaultOptions() Options {
	return Options{
		NumCols:      DefaultNumCols,
		MaxEmptyCols: DefaultMaxEmptyCols,
		EllipsisCols: DefaultEllipsisCols,
		EllipsisDots: DefaultEllipsisDots,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NumCols <= 0 {
		o.NumCols = d.NumCols
	}
	if o.MaxEmptyCols <= 0 {
		o.MaxEmptyCols = d.MaxEmptyCols
	}
	if o.EllipsisCols <= 0 {
		o.EllipsisCols = d.EllipsisCols
	}
	if o.EllipsisDots <= 0 {
		o.EllipsisDots = d.EllipsisDots
	}
	return o
}

// Row returns the row of v in a grid of base b. It is always in [0, b).
func Row(v int64, b int) int {
	bb := int64(b)
	return int(((v % bb) + bb) % bb)
}

// Column returns floor(v / b).
func Column(v int64, b int) int {
	bb := int64(b)
	q := v / bb
	if v%bb != 0 && (v < 0) != (bb < 0) {
		q--
	}
	return int(q)
}

// Occurrence lists the positions at which one series contains a value.
type Occurrence struct {
	Series    int   `json:"series" yaml:"series"`
	Positions []int `json:"positions" yaml:"positions"`
}

// Compactor owns the value occurrences of every series shown in one grid
// panel. It is not safe for concurrent use.
type Compactor struct {
	opts Options
	base int

	// cells maps value -> series index -> positions of value in that series.
	cells map[int64]map[int][]int
	// seriesValues keeps each series' values so removal can find its cells.
	seriesValues map[int][]int64
}

// New returns an empty compactor with base DefaultBase. Zero fields of opts
// take their defaults.
func New(opts Options) *Compactor {
	return &Compactor{
		opts:         opts.withDefaults(),
		base:         DefaultBase,
		cells:        make(map[int64]map[int][]int),
		seriesValues: make(map[int][]int64),
	}
}

// Options returns the effective options.
func (c *Compactor) Options() Options {
	return c.opts
}

// Base returns the current base.
func (c *Compactor) Base() int {
	return c.base
}

// SetBase changes the base. Stored occurrences are kept and regrouped on the
// next ComputeWindow.
func (c *Compactor) SetBase(b int) error {
	if b < MinBase || b > MaxBase {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBase, b, MinBase, MaxBase)
	}
	c.base = b
	return nil
}

// AddSeries records every occurrence of values under index.
func (c *Compactor) AddSeries(index int, values []int64) error {
	if _, ok := c.seriesValues[index]; ok {
		return &InvalidStateError{Op: "add", Series: index, Err: ErrDuplicateSeries}
	}
	for p, v := range values {
		bySeries, ok := c.cells[v]
		if !ok {
			bySeries = make(map[int][]int)
			c.cells[v] = bySeries
		}
		bySeries[index] = append(bySeries[index], p)
	}
	c.seriesValues[index] = append([]int64(nil), values...)
	return nil
}

// RemoveSeries drops every occurrence contributed by index. Values no other
// series refers to are forgotten.
func (c *Compactor) RemoveSeries(index int) error {
	values, ok := c.seriesValues[index]
	if !ok {
		return &InvalidStateError{Op: "remove", Series: index, Err: ErrUnknownSeries}
	}
	for _, v := range values {
		bySeries, ok := c.cells[v]
		if !ok {
			continue
		}
		delete(bySeries, index)
		if len(bySeries) == 0 {
			delete(c.cells, v)
		}
	}
	delete(c.seriesValues, index)
	return nil
}

// HasSeries reports whether index has been added.
func (c *Compactor) HasSeries(index int) bool {
	_, ok := c.seriesValues[index]
	return ok
}

// Len returns the number of distinct values held.
func (c *Compactor) Len() int {
	return len(c.cells)
}

// Values returns the distinct values held, ascending.
func (c *Compactor) Values() []int64 {
	out := make([]int64, 0, len(c.cells))
	for v := range c.cells {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Occurrences returns the occurrences of v ordered by series index, or nil
// when no series contains v.
func (c *Compactor) Occurrences(v int64) []Occurrence {
	bySeries, ok := c.cells[v]
	if !ok {
		return nil
	}
	out := make([]Occurrence, 0, len(bySeries))
	for s, pos := range bySeries {
		out = append(out, Occurrence{Series: s, Positions: append([]int(nil), pos...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Series < out[j].Series })
	return out
}
