// Package series defines the plotted datasets shared by every panel and the
// calculators that derive them from raw sequence and number records.
package series

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch indicates X, Y and Magnitudes of different lengths.
var ErrLengthMismatch = errors.New("lengths of data points do not match")

// Range is a closed [Min, Max] interval on one axis.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{Min: math.Min(r.Min, o.Min), Max: math.Max(r.Max, o.Max)}
}

// Contains reports whether o lies within r.
func (r Range) Contains(o Range) bool {
	return o.Min >= r.Min && o.Max <= r.Max
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Series is one plotted dataset. It is immutable once built; a changed
// selection is modeled as removing the old series and adding a new one.
type Series struct {
	X          []float64 `json:"x" yaml:"x"`
	Y          []float64 `json:"y" yaml:"y"`
	Magnitudes []float64 `json:"magnitudes,omitempty" yaml:"magnitudes,omitempty"`
	XExtent    Range     `json:"x_extent" yaml:"x_extent"`
	YExtent    Range     `json:"y_extent" yaml:"y_extent"`
	// Values holds the exact integers behind Y when the series plots terms.
	// float64 cannot represent every int64 beyond 2^53.
	Values     []int64   `json:"values,omitempty" yaml:"values,omitempty"`
}

// New builds a series from precomputed extents. magnitudes may be nil.
func New(xExtent, yExtent Range, x, y, magnitudes []float64) (*Series, error) {
	if len(x) != len(y) || (magnitudes != nil && len(magnitudes) != len(x)) {
		return nil, fmt.Errorf("%w: x=%d y=%d magnitudes=%d", ErrLengthMismatch, len(x), len(y), len(magnitudes))
	}
	return &Series{
		X:          x,
		Y:          y,
		Magnitudes: magnitudes,
		XExtent:    xExtent,
		YExtent:    yExtent,
	}, nil
}

// Len returns the number of data points.
func (s *Series) Len() int {
	return len(s.X)
}

// MaxMagnitude returns the largest magnitude, or 0 when none are set.
func (s *Series) MaxMagnitude() float64 {
	m := 0.0
	for _, v := range s.Magnitudes {
		m = math.Max(m, v)
	}
	return m
}

// Ints returns the integers the grid view buckets by remainder: Values when
// set, otherwise the Y values truncated.
func (s *Series) Ints() []int64 {
	if s.Values != nil {
		return append([]int64(nil), s.Values...)
	}
	out := make([]int64, len(s.Y))
	for i, v := range s.Y {
		out[i] = int64(v)
	}
	return out
}
