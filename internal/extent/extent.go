// Package extent tracks the shared axis extents of one plot panel across
// every series currently selected into it.
package extent

import (
	"math"
	"sort"

	"github.com/voeis/seqplot/internal/series"
)

// DefaultRange is used on both axes when no series is active.
var DefaultRange = series.Range{Min: 0, Max: 12}

// Global is the union of the extents of all active series.
type Global struct {
	X series.Range `json:"x" yaml:"x"`
	Y series.Range `json:"y" yaml:"y"`
}

// Entry is one active series and its selection index.
type Entry struct {
	Index  int
	Series *series.Series
}

// Aggregator owns the active series of a panel and their global extent.
// It is not safe for concurrent use.
type Aggregator struct {
	def    series.Range
	active map[int]*series.Series
	global Global
}

// New creates an aggregator that falls back to DefaultRange.
func New() *Aggregator {
	return NewWithDefault(DefaultRange)
}

// NewWithDefault creates an aggregator that falls back to def on both axes.
func NewWithDefault(def series.Range) *Aggregator {
	return &Aggregator{
		def:    def,
		active: make(map[int]*series.Series),
		global: Global{X: def, Y: def},
	}
}

// Upsert adds s under index, or removes index when s is nil, and reports
// whether the global extent changed. Adding a series widens the extent
// incrementally; removing one recomputes it from the remaining series since
// shrinking the set may shrink the extent.
func (a *Aggregator) Upsert(index int, s *series.Series) bool {
	var candidate Global
	if s != nil {
		_, replaced := a.active[index]
		a.active[index] = s
		switch {
		case replaced:
			candidate = a.recompute()
		case len(a.active) > 1:
			candidate = Global{
				X: a.global.X.Union(s.XExtent),
				Y: a.global.Y.Union(s.YExtent),
			}
		default:
			candidate = Global{X: s.XExtent, Y: s.YExtent}
		}
	} else {
		delete(a.active, index)
		candidate = a.recompute()
	}

	if candidate == a.global {
		return false
	}
	a.global = candidate
	return true
}

func (a *Aggregator) recompute() Global {
	if len(a.active) == 0 {
		return Global{X: a.def, Y: a.def}
	}
	g := Global{
		X: series.Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: series.Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	for _, s := range a.active {
		g.X = g.X.Union(s.XExtent)
		g.Y = g.Y.Union(s.YExtent)
	}
	return g
}

// Extent returns the current global extent.
func (a *Aggregator) Extent() Global {
	return a.global
}

// Len returns the number of active series.
func (a *Aggregator) Len() int {
	return len(a.active)
}

// Series returns the active series for index.
func (a *Aggregator) Series(index int) (*series.Series, bool) {
	s, ok := a.active[index]
	return s, ok
}

// Active returns the active series ordered by index.
func (a *Aggregator) Active() []Entry {
	out := make([]Entry, 0, len(a.active))
	for i, s := range a.active {
		out = append(out, Entry{Index: i, Series: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Reset drops every series and restores the default extent.
func (a *Aggregator) Reset() {
	a.active = make(map[int]*series.Series)
	a.global = Global{X: a.def, Y: a.def}
}
