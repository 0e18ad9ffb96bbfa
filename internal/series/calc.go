package series

import (
	"errors"
	"math"
	"sort"

	"github.com/voeis/seqplot/internal/oeis"
)

// ErrNoData indicates a record without the data a calculator needs.
var ErrNoData = errors.New("record has no data to plot")

// Calculator derives a plottable series from a raw record.
type Calculator func(rec oeis.Record) (*Series, error)

func sequenceOf(rec oeis.Record) (*oeis.Sequence, error) {
	if rec.Sequence == nil {
		return nil, ErrNoData
	}
	return rec.Sequence, nil
}

func numberOf(rec oeis.Record) (*oeis.Number, error) {
	if rec.Number == nil {
		return nil, ErrNoData
	}
	return rec.Number, nil
}

// Terms plots the terms themselves against their 1-based index.
func Terms(rec oeis.Record) (*Series, error) {
	seq, err := sequenceOf(rec)
	if err != nil {
		return nil, err
	}
	n := len(seq.Terms)
	x := make([]float64, n)
	y := make([]float64, n)
	yr := emptyRange()
	for i, t := range seq.Terms {
		x[i] = float64(i + 1)
		y[i] = float64(t)
		yr = yr.include(y[i])
	}
	s, err := New(Range{0, float64(n)}, yr.orZero(), x, y, nil)
	if err != nil {
		return nil, err
	}
	s.Values = append([]int64(nil), seq.Terms...)
	return s, nil
}

// GrowthRate plots the ratio of each term to the previous one. A zero term
// yields a ratio of 0.
func GrowthRate(rec oeis.Record) (*Series, error) {
	seq, err := sequenceOf(rec)
	if err != nil {
		return nil, err
	}
	n := len(seq.Terms) - 1
	if n < 0 {
		n = 0
	}
	x := make([]float64, n)
	y := make([]float64, n)
	yr := emptyRange()
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		if seq.Terms[i] != 0 {
			y[i] = float64(seq.Terms[i+1]) / float64(seq.Terms[i])
		}
		yr = yr.include(y[i])
	}
	return New(Range{0, float64(n)}, yr.orZero(), x, y, nil)
}

// RunningSum plots the sum of the first n terms.
func RunningSum(rec oeis.Record) (*Series, error) {
	seq, err := sequenceOf(rec)
	if err != nil {
		return nil, err
	}
	n := len(seq.Terms)
	x := make([]float64, n)
	y := make([]float64, n)
	yr := emptyRange()
	var sum float64
	for i, t := range seq.Terms {
		sum += float64(t)
		x[i] = float64(i + 1)
		y[i] = sum
		yr = yr.include(sum)
	}
	return New(Range{1, float64(n)}, yr.orZero(), x, y, nil)
}

// IndexCounts plots how often a number appears at each index across all
// sequences. Indices with no record count as zero.
func IndexCounts(rec oeis.Record) (*Series, error) {
	num, err := numberOf(rec)
	if err != nil {
		return nil, err
	}
	n := 0
	for idx := range num.IndexCounts {
		if idx+1 > n {
			n = idx + 1
		}
	}
	x := make([]float64, n)
	y := make([]float64, n)
	yMax := 0.0
	for i := 0; i < n; i++ {
		x[i] = float64(i + 1)
		y[i] = float64(num.IndexCounts[i])
		yMax = math.Max(yMax, y[i])
	}
	return New(Range{0, float64(n)}, Range{0, yMax}, x, y, nil)
}

// Neighbors plots the most frequent neighbors of a number by offset, sized
// by frequency. The number itself sits at offset 0 with twice the largest
// neighbor magnitude.
func Neighbors(rec oeis.Record) (*Series, error) {
	num, err := numberOf(rec)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, 0, len(num.Neighbors))
	for off := range num.Neighbors {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool {
		ai, aj := abs(offsets[i]), abs(offsets[j])
		if ai != aj {
			return ai < aj
		}
		return offsets[i] < offsets[j]
	})

	x := []float64{0}
	y := []float64{float64(num.Num)}
	mags := []float64{0}
	xr, yr := emptyRange(), emptyRange()
	maxMag := 0.0
	for _, off := range offsets {
		counts := num.Neighbors[off]
		neighbors := make([]int64, 0, len(counts))
		for nb := range counts {
			neighbors = append(neighbors, nb)
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		for _, nb := range neighbors {
			c := float64(counts[nb])
			xr = xr.include(float64(off))
			yr = yr.include(float64(nb))
			maxMag = math.Max(maxMag, c)
			x = append(x, float64(off))
			y = append(y, float64(nb))
			mags = append(mags, c)
		}
	}
	mags[0] = maxMag * 2

	xr = xr.orZero()
	return New(Range{xr.Min - 1, xr.Max + 1}, yr.orZero(), x, y, mags)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// emptyRange is the identity for include: [+Inf, -Inf].
func emptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (r Range) include(v float64) Range {
	return Range{Min: math.Min(r.Min, v), Max: math.Max(r.Max, v)}
}

// orZero collapses a range that saw no values to [0, 0].
func (r Range) orZero() Range {
	if r.Min > r.Max {
		return Range{}
	}
	return r
}
