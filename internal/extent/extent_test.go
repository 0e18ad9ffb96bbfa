package extent

import (
	"math"
	"math/rand"
	"testing"

	"github.com/voeis/seqplot/internal/series"
)

func mk(x0, x1, y0, y1 float64) *series.Series {
	return &series.Series{
		XExtent: series.Range{Min: x0, Max: x1},
		YExtent: series.Range{Min: y0, Max: y1},
	}
}

func TestDefaultExtent(t *testing.T) {
	a := New()
	want := Global{X: DefaultRange, Y: DefaultRange}
	if got := a.Extent(); got != want {
		t.Errorf("Extent() = %+v, want %+v", got, want)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
}

func TestUpsertScenario(t *testing.T) {
	a := New()

	steps := []struct {
		name    string
		index   int
		s       *series.Series
		changed bool
		want    Global
	}{
		{"first series replaces default", 0, mk(0, 10, 1, 55), true, Global{series.Range{Min: 0, Max: 10}, series.Range{Min: 1, Max: 55}}},
		{"second widens", 1, mk(0, 20, -5, 30), true, Global{series.Range{Min: 0, Max: 20}, series.Range{Min: -5, Max: 55}}},
		{"contained third is no-op", 2, mk(1, 5, 0, 10), false, Global{series.Range{Min: 0, Max: 20}, series.Range{Min: -5, Max: 55}}},
		{"remove widest shrinks", 1, nil, true, Global{series.Range{Min: 0, Max: 10}, series.Range{Min: 0, Max: 55}}},
		{"remove contained restores first", 2, nil, true, Global{series.Range{Min: 0, Max: 10}, series.Range{Min: 1, Max: 55}}},
		{"remove last restores default", 0, nil, true, Global{DefaultRange, DefaultRange}},
	}

	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			changed := a.Upsert(st.index, st.s)
			if changed != st.changed {
				t.Errorf("Upsert() changed = %v, want %v", changed, st.changed)
			}
			if got := a.Extent(); got != st.want {
				t.Errorf("Extent() = %+v, want %+v", got, st.want)
			}
		})
	}
}

func TestUpsertSameExtentReportsUnchanged(t *testing.T) {
	a := New()
	a.Upsert(0, mk(0, 12, 0, 12))
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	if a.Upsert(1, mk(0, 12, 0, 12)) {
		t.Error("identical series should not change the extent")
	}
}

func TestUpsertFirstSeriesEqualToDefault(t *testing.T) {
	a := New()
	if a.Upsert(0, mk(0, 12, 0, 12)) {
		t.Error("series matching the default extent should report no change")
	}
}

func TestUpsertReplaceRecomputes(t *testing.T) {
	a := New()
	a.Upsert(0, mk(0, 100, 0, 100))
	a.Upsert(1, mk(0, 10, 0, 10))
	if !a.Upsert(0, mk(0, 5, 0, 5)) {
		t.Fatal("replacing the widest series should shrink the extent")
	}
	want := Global{series.Range{Min: 0, Max: 10}, series.Range{Min: 0, Max: 10}}
	if got := a.Extent(); got != want {
		t.Errorf("Extent() = %+v, want %+v", got, want)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestRemoveUnknownIndex(t *testing.T) {
	a := New()
	a.Upsert(3, mk(0, 1, 0, 1))
	if a.Upsert(7, nil) {
		t.Error("removing an unknown index should not change the extent")
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}

func TestActiveSortedByIndex(t *testing.T) {
	a := New()
	for _, i := range []int{9, 2, 5} {
		a.Upsert(i, mk(0, float64(i), 0, 1))
	}
	got := a.Active()
	if len(got) != 3 {
		t.Fatalf("Active() len = %d, want 3", len(got))
	}
	for i, want := range []int{2, 5, 9} {
		if got[i].Index != want {
			t.Errorf("Active()[%d].Index = %d, want %d", i, got[i].Index, want)
		}
	}
	if s, ok := a.Series(5); !ok || s.XExtent.Max != 5 {
		t.Errorf("Series(5) = %v, %v", s, ok)
	}
}

func TestNewWithDefault(t *testing.T) {
	def := series.Range{Min: -1, Max: 1}
	a := NewWithDefault(def)
	a.Upsert(0, mk(0, 3, 0, 3))
	a.Upsert(0, nil)
	if got := a.Extent(); got != (Global{def, def}) {
		t.Errorf("Extent() = %+v", got)
	}
}

func TestReset(t *testing.T) {
	a := New()
	a.Upsert(0, mk(-4, 3, 0, 3))
	a.Reset()
	if a.Len() != 0 || a.Extent() != (Global{DefaultRange, DefaultRange}) {
		t.Errorf("Reset left %d series, extent %+v", a.Len(), a.Extent())
	}
}

// bruteForce computes the expected extent directly from the active set.
func bruteForce(active map[int]*series.Series) Global {
	if len(active) == 0 {
		return Global{DefaultRange, DefaultRange}
	}
	g := Global{
		X: series.Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: series.Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	for _, s := range active {
		g.X.Min = math.Min(g.X.Min, s.XExtent.Min)
		g.X.Max = math.Max(g.X.Max, s.XExtent.Max)
		g.Y.Min = math.Min(g.Y.Min, s.YExtent.Min)
		g.Y.Max = math.Max(g.Y.Max, s.YExtent.Max)
	}
	return g
}

func TestRandomOperationsMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := New()
	active := make(map[int]*series.Series)

	for step := 0; step < 2000; step++ {
		index := rng.Intn(10)
		before := a.Extent()

		var s *series.Series
		if _, ok := active[index]; !ok || rng.Intn(3) == 0 {
			x0 := float64(rng.Intn(200) - 100)
			y0 := float64(rng.Intn(200) - 100)
			s = mk(x0, x0+float64(rng.Intn(50)), y0, y0+float64(rng.Intn(50)))
			active[index] = s
		} else {
			delete(active, index)
		}

		changed := a.Upsert(index, s)
		want := bruteForce(active)
		got := a.Extent()
		if got != want {
			t.Fatalf("step %d: Extent() = %+v, want %+v", step, got, want)
		}
		if changed != (before != got) {
			t.Fatalf("step %d: changed = %v but extent went %+v -> %+v", step, changed, before, got)
		}
		if a.Len() != len(active) {
			t.Fatalf("step %d: Len() = %d, want %d", step, a.Len(), len(active))
		}
	}
}

func TestActiveExtentsContained(t *testing.T) {
	a := New()
	a.Upsert(0, mk(-3, 8, 2, 4))
	a.Upsert(1, mk(1, 2, -9, 100))
	g := a.Extent()
	for _, e := range a.Active() {
		if !g.X.Contains(e.Series.XExtent) || !g.Y.Contains(e.Series.YExtent) {
			t.Errorf("series %d not contained in %+v", e.Index, g)
		}
	}
}
