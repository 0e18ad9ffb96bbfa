package output

import (
	"io"
	"strconv"

	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/series"
)

// ExtentStep is one select or deselect and the extent after it.
type ExtentStep struct {
	Step    int          `json:"step" yaml:"step"`
	Op      string       `json:"op" yaml:"op"`
	Index   int          `json:"index" yaml:"index"`
	Key     string       `json:"key" yaml:"key"`
	Changed bool         `json:"changed" yaml:"changed"`
	X       series.Range `json:"x" yaml:"x"`
	Y       series.Range `json:"y" yaml:"y"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewExtentStep records g as the extent after a step.
func NewExtentStep(step int, op string, index int, key string, changed bool, g extent.Global) ExtentStep {
	return ExtentStep{
		Step:    step,
		Op:      op,
		Index:   index,
		Key:     key,
		Changed: changed,
		X:       g.X,
		Y:       g.Y,
	}
}

// ExtentTable renders steps as a text table.
func ExtentTable(w io.Writer, steps []ExtentStep) {
	t := NewTable(w, "STEP", "OP", "INDEX", "KEY", "CHANGED", "X", "Y")
	for _, s := range steps {
		changed, x, y := "no", s.X.String(), s.Y.String()
		if s.Changed {
			changed = "yes"
		}
		if s.Error != "" {
			changed, x, y = "-", s.Error, ""
		}
		t.AddRow(strconv.Itoa(s.Step), s.Op, strconv.Itoa(s.Index), s.Key, changed, x, y)
	}
	t.Render()
}
