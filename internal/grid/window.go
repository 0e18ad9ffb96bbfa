package grid

// CellKind classifies a window slot.
type CellKind int

const (
	// CellEmpty is a slot with no value in the window.
	CellEmpty CellKind = iota
	// CellPopulated holds a value contained in at least one series.
	CellPopulated
	// CellCollapsed belongs to a column hidden behind an ellipsis.
	CellCollapsed
)

func (k CellKind) String() string {
	switch k {
	case CellPopulated:
		return "populated"
	case CellCollapsed:
		return "collapsed"
	default:
		return "empty"
	}
}

// Cell is one slot of a window. Only populated cells carry a value, its true
// grid coordinates and its occurrences.
type Cell struct {
	Kind        CellKind     `json:"kind" yaml:"kind"`
	Value       int64        `json:"value,omitempty" yaml:"value,omitempty"`
	Column      int          `json:"column,omitempty" yaml:"column,omitempty"`
	Row         int          `json:"row,omitempty" yaml:"row,omitempty"`
	Occurrences []Occurrence `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
}

// Ellipsis marks a run of collapsed window columns.
type Ellipsis struct {
	Column int `json:"column" yaml:"column"`
	Span   int `json:"span" yaml:"span"`
	// Dots are the horizontal dot centers in window column units.
	Dots []float64 `json:"dots" yaml:"dots"`
}

// Window is a snapshot of the grid ready for display: NumCols columns of
// Base cells each, stored column-major.
type Window struct {
	Base         int        `json:"base" yaml:"base"`
	NumCols      int        `json:"num_cols" yaml:"num_cols"`
	Cells        []Cell     `json:"cells" yaml:"cells"`
	Ellipses     []Ellipsis `json:"ellipses,omitempty" yaml:"ellipses,omitempty"`
	ColumnLabels []int64    `json:"column_labels" yaml:"column_labels"`

	slots map[int64]int
}

// Cell returns the cell at window column col and row row.
func (w Window) Cell(col, row int) Cell {
	return w.Cells[col*w.Base+row]
}

// Lookup returns the slot holding value, if it is in the window.
func (w Window) Lookup(value int64) (int, bool) {
	i, ok := w.slots[value]
	return i, ok
}

// Populated returns the number of populated cells.
func (w Window) Populated() int {
	return len(w.slots)
}

type slot struct {
	kind  CellKind
	value int64
}

// ComputeWindow lays out the current values.
//
// Non-negative values are placed outward from column 0 and negative values
// outward from column -1. Whenever more than MaxEmptyCols empty columns would
// separate two placed columns, the gap is replaced by EllipsisCols collapsed
// columns and every later column on that side shifts inward by the same
// amount. Both sides are laid out in a buffer of 2*NumCols columns, and the
// window is then aligned to the left edge of the populated range, or to its
// right edge when negative values reach beyond the middle of the left half.
func (c *Compactor) ComputeWindow() Window {
	n, b := c.opts.NumCols, c.base
	numCells := n * b

	w := Window{
		Base:    b,
		NumCols: n,
		Cells:   make([]Cell, numCells),
		slots:   make(map[int64]int),
	}
	if len(c.cells) == 0 {
		w.ColumnLabels = columnLabels(w)
		return w
	}

	values := c.Values()
	zero := len(values)
	for i, v := range values {
		if v >= 0 {
			zero = i
			break
		}
	}

	buf := make([]slot, 2*numCells)
	collapse := func(col int) {
		for r := 0; r < b; r++ {
			buf[(n+col)*b+r] = slot{kind: CellCollapsed}
		}
	}
	place := func(col int, v int64) {
		buf[(n+col)*b+Row(v, b)] = slot{kind: CellPopulated, value: v}
	}

	maxEmpty, ell := c.opts.MaxEmptyCols, c.opts.EllipsisCols

	prevTrue, prevCol := 0, 0
	for _, v := range values[zero:] {
		trueCol := Column(v, b)
		var col int
		if trueCol > prevTrue+maxEmpty+1 {
			col = prevCol + ell + 1
			if col >= n {
				break
			}
			for j := 1; j <= ell; j++ {
				collapse(prevCol + j)
			}
		} else {
			col = prevCol + trueCol - prevTrue
			if col >= n {
				break
			}
		}
		prevTrue, prevCol = trueCol, col
		place(col, v)
	}

	prevTrue, prevCol = -1, -1
	for i := zero - 1; i >= 0; i-- {
		v := values[i]
		trueCol := Column(v, b)
		var col int
		if trueCol < prevTrue-maxEmpty-1 {
			col = prevCol - ell - 1
			if col < -n {
				break
			}
			for j := 1; j <= ell; j++ {
				collapse(prevCol - j)
			}
		} else {
			col = prevCol - (prevTrue - trueCol)
			if col < -n {
				break
			}
		}
		prevTrue, prevCol = trueCol, col
		place(col, v)
	}

	populated := func(col int) bool {
		for r := 0; r < b; r++ {
			if buf[col*b+r].kind == CellPopulated {
				return true
			}
		}
		return false
	}
	end := n
	for col := 2*n - 1; col >= n; col-- {
		if populated(col) {
			end = col + 1
			break
		}
	}
	start := n
	for col := 0; col < n; col++ {
		if populated(col) {
			start = col
			break
		}
	}

	lo := start
	if 2*start < n {
		end = min(end, 3*n/2)
		lo = end - n
	}

	for i, s := range buf[lo*b : lo*b+numCells] {
		switch s.kind {
		case CellPopulated:
			w.Cells[i] = Cell{
				Kind:        CellPopulated,
				Value:       s.value,
				Column:      Column(s.value, b),
				Row:         Row(s.value, b),
				Occurrences: c.Occurrences(s.value),
			}
			w.slots[s.value] = i
		case CellCollapsed:
			w.Cells[i] = Cell{Kind: CellCollapsed}
		}
	}

	w.Ellipses = c.ellipses(w)
	w.ColumnLabels = columnLabels(w)
	return w
}

func (c *Compactor) ellipses(w Window) []Ellipsis {
	var out []Ellipsis
	dots := c.opts.EllipsisDots
	for col := 0; col < w.NumCols; {
		if w.Cell(col, 0).Kind != CellCollapsed {
			col++
			continue
		}
		span := 0
		for col+span < w.NumCols && w.Cell(col+span, 0).Kind == CellCollapsed {
			span++
		}
		e := Ellipsis{Column: col, Span: span, Dots: make([]float64, dots)}
		for j := 1; j <= dots; j++ {
			e.Dots[j-1] = float64(col) + float64(j)*float64(span)/float64(dots+1)
		}
		out = append(out, e)
		col += span
	}
	return out
}

// columnLabels names each window column by the multiple of base its first
// populated value falls in. Columns without a value continue the nearest
// labelled column in steps of base.
func columnLabels(w Window) []int64 {
	labels := make([]int64, w.NumCols)
	labelled := make([]bool, w.NumCols)
	first := -1
	for col := 0; col < w.NumCols; col++ {
		for row := 0; row < w.Base; row++ {
			cell := w.Cell(col, row)
			if cell.Kind == CellPopulated {
				labels[col] = int64(cell.Column) * int64(w.Base)
				labelled[col] = true
				break
			}
		}
		if labelled[col] && first < 0 {
			first = col
		}
	}

	base := int64(w.Base)
	if first < 0 {
		for col := range labels {
			labels[col] = int64(col) * base
		}
		return labels
	}
	for col := first - 1; col >= 0; col-- {
		labels[col] = labels[col+1] - base
	}
	for col := first + 1; col < w.NumCols; col++ {
		if !labelled[col] {
			labels[col] = labels[col-1] + base
		}
	}
	return labels
}
