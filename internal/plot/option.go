// Package plot composes the extent aggregator and grid compactor into plot
// panels. A panel turns select and deselect events into draw calls on a
// Renderer and never draws anything itself.
package plot

import (
	"fmt"
	"sort"

	"github.com/voeis/seqplot/internal/series"
)

// Kind is the way a panel draws its series.
type Kind int

const (
	KindScatter Kind = iota
	KindLine
	KindBar
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindScatter:
		return "scatter"
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	case KindGrid:
		return "grid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Option is a statistic a panel can show.
type Option struct {
	ID        string
	MenuTitle string
	Title     string
	XLabel    string
	YLabel    string
	Kind      Kind
	Calculate series.Calculator
	// RedrawOnResize asks for every series to be redrawn with the axes.
	RedrawOnResize bool
}

var (
	// Terms plots the terms of a sequence.
	Terms = &Option{
		ID:        "terms",
		MenuTitle: "Sequence Terms",
		Title:     "Sequence Terms",
		XLabel:    "Index",
		YLabel:    "Term",
		Kind:      KindScatter,
		Calculate: series.Terms,
	}

	// LastDigit lays the terms of a sequence out on the remainder grid.
	LastDigit = &Option{
		ID:        "last-digit",
		MenuTitle: "Last Digit",
		Title:     "Last-Digit Distribution",
		YLabel:    "Last Digit",
		Kind:      KindGrid,
		Calculate: series.Terms,
	}

	GrowthRate = &Option{
		ID:             "growth-rate",
		MenuTitle:      "Growth Rate",
		Title:          "Growth Rate",
		XLabel:         "Index",
		YLabel:         "Growth Rate",
		Kind:           KindLine,
		Calculate:      series.GrowthRate,
		RedrawOnResize: true,
	}

	RunningSum = &Option{
		ID:             "running-sum",
		MenuTitle:      "Running Sum",
		Title:          "Running Sum",
		XLabel:         "Index",
		YLabel:         "Sum of First n Terms",
		Kind:           KindLine,
		Calculate:      series.RunningSum,
		RedrawOnResize: true,
	}

	Neighbors = &Option{
		ID:        "neighbors",
		MenuTitle: "Neighbors",
		Title:     "Most Frequent Neighbors",
		XLabel:    "Neighbor Distance",
		YLabel:    "Neighbor",
		Kind:      KindScatter,
		Calculate: series.Neighbors,
	}

	IndexCounts = &Option{
		ID:        "index-counts",
		MenuTitle: "Index Counts",
		Title:     "Index Counts in all Sequences",
		XLabel:    "Index",
		YLabel:    "Occurrence Frequency",
		Kind:      KindBar,
		Calculate: series.IndexCounts,
	}
)

// Options returns every option sorted by ID.
func Options() []*Option {
	opts := []*Option{Terms, LastDigit, GrowthRate, RunningSum, Neighbors, IndexCounts}
	sort.Slice(opts, func(i, j int) bool { return opts[i].ID < opts[j].ID })
	return opts
}

// LookupOption finds an option by ID.
func LookupOption(id string) (*Option, bool) {
	for _, o := range Options() {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// View selects which kind of record the panels show.
type View string

const (
	// ViewLocal shows sequences.
	ViewLocal View = "local"
	// ViewFixed shows single numbers.
	ViewFixed View = "fixed"
)

// Layout returns the initial option of each panel of a view.
func Layout(v View) ([]*Option, error) {
	switch v {
	case ViewLocal:
		return []*Option{Terms, LastDigit, GrowthRate, RunningSum}, nil
	case ViewFixed:
		return []*Option{Neighbors, IndexCounts}, nil
	default:
		return nil, fmt.Errorf("unknown view %q", v)
	}
}
