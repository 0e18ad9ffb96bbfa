package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/series"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SEQPLOT_CONFIG", "SEQPLOT_GRID_BASE", "SEQPLOT_GRID_COLS", "SEQPLOT_DATA",
		"SEQPLOT_NUMBERS", "SEQPLOT_NO_COLOR", "NO_COLOR", "SEQPLOT_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "seqplot-config-*.toml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		t.Fatalf("Failed to write temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Base != grid.DefaultBase {
		t.Errorf("Grid.Base = %d, want %d", cfg.Grid.Base, grid.DefaultBase)
	}
	if cfg.Plot.MaxSelections != 144 {
		t.Errorf("Plot.MaxSelections = %d", cfg.Plot.MaxSelections)
	}
	if cfg.Plot.DefaultRange() != (series.Range{Min: 0, Max: 12}) {
		t.Errorf("DefaultRange() = %v", cfg.Plot.DefaultRange())
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get user home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~", home},
		{"~/foo", filepath.Join(home, "foo")},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExpandHome(tt.input)
			if got != tt.expected {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent config: %v", err)
	}
	if cfg == nil || cfg.Grid.Base != grid.DefaultBase {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := createTempConfig(t, `
[grid]
base = 7
num_cols = 40

[plot]
default_max = 20.0
option = "growth-rate"

[data]
sequences_path = "/data/sequences.txt"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Grid.Base != 7 || cfg.Grid.NumCols != 40 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Grid.MaxEmptyCols != grid.DefaultMaxEmptyCols {
		t.Errorf("missing field should keep default, got %d", cfg.Grid.MaxEmptyCols)
	}
	if cfg.Plot.Option != "growth-rate" || cfg.Plot.DefaultMax != 20 {
		t.Errorf("plot = %+v", cfg.Plot)
	}
	if cfg.Data.SequencesPath != "/data/sequences.txt" {
		t.Errorf("Data.SequencesPath = %q", cfg.Data.SequencesPath)
	}
	lvl, err := cfg.Log.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", lvl, err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := createTempConfig(t, "[grid\nbase = ")
	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := createTempConfig(t, "[grid]\nbase = 7\n")
	t.Setenv("SEQPLOT_GRID_BASE", "12")
	t.Setenv("SEQPLOT_GRID_COLS", "33")
	t.Setenv("SEQPLOT_DATA", "/tmp/s.txt")
	t.Setenv("SEQPLOT_NUMBERS", "/tmp/n.txt")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("SEQPLOT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Base != 12 || cfg.Grid.NumCols != 33 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Data.SequencesPath != "/tmp/s.txt" || cfg.Data.NumbersPath != "/tmp/n.txt" {
		t.Errorf("data = %+v", cfg.Data)
	}
	if !cfg.UI.NoColor {
		t.Error("NO_COLOR should disable color")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEQPLOT_GRID_BASE", "ten")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Base != grid.DefaultBase {
		t.Errorf("Grid.Base = %d", cfg.Grid.Base)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("SEQPLOT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	path := DefaultPath()
	if !strings.HasSuffix(path, filepath.Join(".config", "seqplot", "config.toml")) {
		t.Errorf("DefaultPath() = %s", path)
	}
}

func TestDefaultPathWithXDG(t *testing.T) {
	t.Setenv("SEQPLOT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := DefaultPath(); got != "/custom/config/seqplot/config.toml" {
		t.Errorf("DefaultPath() = %s", got)
	}
}

func TestDefaultPathWithEnv(t *testing.T) {
	t.Setenv("SEQPLOT_CONFIG", "/etc/seqplot.toml")
	if got := DefaultPath(); got != "/etc/seqplot.toml" {
		t.Errorf("DefaultPath() = %s", got)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(Default(), &buf); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	output := buf.String()
	for _, section := range []string{"[grid]", "[plot]", "[data]", "[ui]", "[log]", "start_hue = 210.0"} {
		if !strings.Contains(output, section) {
			t.Errorf("Expected output to contain %s", section)
		}
	}
}

func TestPrintRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Grid.Base = 3
	cfg.Plot.DefaultMax = 99.5
	cfg.Data.NumbersPath = "/srv/numbers.txt"

	var buf bytes.Buffer
	if err := Print(cfg, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := Load(createTempConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("printed config does not load: %v", err)
	}
	if got.Grid.Base != 3 || got.Plot.DefaultMax != 99.5 || got.Data.NumbersPath != "/srv/numbers.txt" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestCreateDefaultAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SEQPLOT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "seqplot")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("# existing"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := CreateDefault(); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestCreateDefaultSuccess(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := CreateDefault()
	if err != nil {
		t.Fatalf("CreateDefault failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Created config is not valid: %v", err)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"base too small", func(c *Config) { c.Grid.Base = 1 }, "grid.base"},
		{"base too large", func(c *Config) { c.Grid.Base = 17 }, "grid.base"},
		{"negative cols", func(c *Config) { c.Grid.NumCols = -1 }, "grid.num_cols"},
		{"ellipsis wider than gap", func(c *Config) { c.Grid.EllipsisCols = 3 }, "grid.ellipsis_cols"},
		{"no dots", func(c *Config) { c.Grid.EllipsisDots = 0 }, "grid.ellipsis_dots"},
		{"inverted range", func(c *Config) { c.Plot.DefaultMin = 20 }, "plot.default_min"},
		{"no selections", func(c *Config) { c.Plot.MaxSelections = 0 }, "plot.max_selections"},
		{"unknown option", func(c *Config) { c.Plot.Option = "sloane" }, "plot.option"},
		{"missing data file", func(c *Config) { c.Data.SequencesPath = "/nonexistent/sequences.txt" }, "data.sequences_path"},
		{"saturation", func(c *Config) { c.UI.Saturation = 1.5 }, "ui.saturation"},
		{"lightness", func(c *Config) { c.UI.Lightness = -0.1 }, "ui.lightness"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := Validate(cfg)
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 || !strings.Contains(errs[0].Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want one error mentioning %s", errs, tt.wantErr)
			}
		})
	}

	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v", errs)
	}
}

func TestGridOptions(t *testing.T) {
	g := Default().Grid
	if got := g.Options(120).NumCols; got != 120 {
		t.Errorf("auto width NumCols = %d", got)
	}
	g.NumCols = 30
	opts := g.Options(120)
	if opts.NumCols != 30 || opts.MaxEmptyCols != grid.DefaultMaxEmptyCols {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestPalette(t *testing.T) {
	p := Default().UI.Palette()
	if p.StartHue != 210 || p.Saturation != 1 || p.Lightness != 0.5 {
		t.Errorf("Palette() = %+v", p)
	}
}
