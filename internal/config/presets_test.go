package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voeis/seqplot/internal/plot"
)

func TestParsePresets_Basic(t *testing.T) {
	t.Setenv("SEQPLOT_TEST_ANUM", "A000079")

	presets, err := ParsePresets([]byte(`
other:
  ignored: true
presets:
  - name: powers
    description: Powers of two
    sequences: [a000045, "${SEQPLOT_TEST_ANUM}"]
    option: growth-rate
  - name: famous
    numbers: [42, 1729]
    base: 7
`))
	if err != nil {
		t.Fatalf("ParsePresets failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}

	p := presets[0]
	if p.Sequences[0] != "A000045" || p.Sequences[1] != "A000079" {
		t.Errorf("Sequences = %v", p.Sequences)
	}
	if p.View() != plot.ViewLocal || p.Option != "growth-rate" || p.Base != 10 {
		t.Errorf("preset = %+v", p)
	}
	nums, err := p.ANums()
	if err != nil || len(nums) != 2 || nums[0] != 45 || nums[1] != 79 {
		t.Errorf("ANums() = %v, %v", nums, err)
	}

	q := presets[1]
	if q.View() != plot.ViewFixed || q.Option != plot.Neighbors.ID || q.Base != 7 {
		t.Errorf("preset = %+v", q)
	}
}

func TestParsePresets_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n", "other: 1\n"} {
		presets, err := ParsePresets([]byte(in))
		if err != nil || presets != nil {
			t.Errorf("ParsePresets(%q) = %v, %v", in, presets, err)
		}
	}
}

func TestParsePresets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"not a list", "presets: {name: x}", "expected a list"},
		{"unknown field", "presets:\n  - name: x\n    sequences: [A000045]\n    colour: red\n", "colour"},
		{"missing name", "presets:\n  - sequences: [A000045]\n", "name is required"},
		{"empty", "presets:\n  - name: x\n", "sequences or numbers"},
		{"mixed", "presets:\n  - name: x\n    sequences: [A000045]\n    numbers: [1]\n", "cannot be mixed"},
		{"bad anum", "presets:\n  - name: x\n    sequences: [fib]\n", "invalid A-number"},
		{"unknown option", "presets:\n  - name: x\n    sequences: [A000045]\n    option: sloane\n", "unknown option"},
		{"wrong view", "presets:\n  - name: x\n    numbers: [7]\n    option: terms\n", "not available in the fixed view"},
		{"bad base", "presets:\n  - name: x\n    sequences: [A000045]\n    base: 40\n", "invalid base"},
		{"duplicate", "presets:\n  - name: x\n    numbers: [1]\n  - name: x\n    numbers: [2]\n", "duplicate"},
		{"missing env", "presets:\n  - name: ${SEQPLOT_TEST_UNSET_VAR}\n    numbers: [1]\n", "SEQPLOT_TEST_UNSET_VAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePresets([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPresetsValid(t *testing.T) {
	presets := DefaultPresets()
	if len(presets) == 0 {
		t.Fatal("no default presets")
	}
	for _, p := range presets {
		if err := p.ValidateConfig(); err != nil {
			t.Errorf("default preset %s: %v", p.Name, err)
		}
	}
	fib, ok := FindPreset(presets, "fibonacci")
	if !ok || fib.Sequences[0] != "A000045" || fib.Sequences[1] != "A000032" {
		t.Errorf("fibonacci preset = %+v, %v", fib, ok)
	}
	if _, ok := FindPreset(presets, "nope"); ok {
		t.Error("unknown preset found")
	}
}

func TestMergePresets(t *testing.T) {
	base := []Preset{{Name: "b", Numbers: []int64{1}}, {Name: "a", Numbers: []int64{2}}}
	merged := MergePresets(base, []Preset{{Name: "b", Numbers: []int64{3}}, {Name: "c", Numbers: []int64{4}}})
	if len(merged) != 3 {
		t.Fatalf("merged = %+v", merged)
	}
	if merged[0].Name != "a" || merged[1].Name != "b" || merged[2].Name != "c" {
		t.Errorf("merged not sorted: %+v", merged)
	}
	if merged[1].Numbers[0] != 3 {
		t.Errorf("override lost: %+v", merged[1])
	}
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	presets, err := LoadPresets(dir)
	if err != nil || presets != nil {
		t.Fatalf("LoadPresets(empty dir) = %v, %v", presets, err)
	}

	content := "presets:\n  - name: mine\n    sequences: [A000040]\n"
	if err := os.WriteFile(filepath.Join(dir, ".seqplot.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	presets, err = LoadPresets(dir)
	if err != nil || len(presets) != 1 || presets[0].Name != "mine" {
		t.Errorf("LoadPresets = %v, %v", presets, err)
	}
}

func TestWatchPresets(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".seqplot.yaml")
	if err := os.WriteFile(path, []byte("presets: []\n"), 0644); err != nil {
		t.Fatalf("write initial presets: %v", err)
	}

	updates := make(chan []Preset, 10)
	closeFn, err := WatchPresets(tmpDir, nil, func(presets []Preset) {
		updates <- presets
	})
	if err != nil {
		t.Fatalf("WatchPresets failed: %v", err)
	}
	t.Cleanup(closeFn)

	select {
	case presets := <-updates:
		if len(presets) != len(DefaultPresets()) {
			t.Errorf("initial presets = %d, want the defaults", len(presets))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for initial presets")
	}

	if err := os.WriteFile(path, []byte(`
presets:
  - name: mine
    sequences: [A000040]
`), 0644); err != nil {
		t.Fatalf("write updated presets: %v", err)
	}

	select {
	case presets := <-updates:
		if _, ok := FindPreset(presets, "mine"); !ok {
			t.Fatalf("reloaded presets missing %q: %+v", "mine", presets)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for preset reload")
	}
}
