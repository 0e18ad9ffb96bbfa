package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/voeis/seqplot/internal/color"
	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/selection"
	"github.com/voeis/seqplot/internal/series"
	"github.com/voeis/seqplot/internal/util"
)

// Config represents the main configuration
type Config struct {
	Grid GridConfig `toml:"grid"`
	Plot PlotConfig `toml:"plot"`
	Data DataConfig `toml:"data"`
	UI   UIConfig   `toml:"ui"`
	Log  LogConfig  `toml:"log"`
}

// GridConfig holds the layout of the remainder grid.
type GridConfig struct {
	Base int `toml:"base"`
	// NumCols is the window width in columns; 0 fits the terminal.
	NumCols      int `toml:"num_cols"`
	MaxEmptyCols int `toml:"max_empty_cols"`
	EllipsisCols int `toml:"ellipsis_cols"`
	EllipsisDots int `toml:"ellipsis_dots"`
}

// Options converts the config to compactor options. width is used when
// NumCols is 0.
func (g GridConfig) Options(width int) grid.Options {
	cols := g.NumCols
	if cols <= 0 {
		cols = width
	}
	return grid.Options{
		NumCols:      cols,
		MaxEmptyCols: g.MaxEmptyCols,
		EllipsisCols: g.EllipsisCols,
		EllipsisDots: g.EllipsisDots,
	}
}

// PlotConfig holds panel defaults.
type PlotConfig struct {
	DefaultMin    float64 `toml:"default_min"`
	DefaultMax    float64 `toml:"default_max"`
	MaxSelections int     `toml:"max_selections"`
	Option        string  `toml:"option"`
}

// DefaultRange is the extent of an empty panel.
func (p PlotConfig) DefaultRange() series.Range {
	return series.Range{Min: p.DefaultMin, Max: p.DefaultMax}
}

// DataConfig locates the flat-file database.
type DataConfig struct {
	SequencesPath string `toml:"sequences_path"`
	NumbersPath   string `toml:"numbers_path"`
}

// UIConfig holds colors.
type UIConfig struct {
	StartHue   float64 `toml:"start_hue"`
	Saturation float64 `toml:"saturation"`
	Lightness  float64 `toml:"lightness"`
	NoColor    bool    `toml:"no_color"`
}

// Palette returns the series palette.
func (u UIConfig) Palette() color.Palette {
	return color.Palette{StartHue: u.StartHue, Saturation: u.Saturation, Lightness: u.Lightness}
}

// LogConfig holds the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if env := os.Getenv("SEQPLOT_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "seqplot", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "seqplot", "config.toml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Base:         grid.DefaultBase,
			NumCols:      0,
			MaxEmptyCols: grid.DefaultMaxEmptyCols,
			EllipsisCols: grid.DefaultEllipsisCols,
			EllipsisDots: grid.DefaultEllipsisDots,
		},
		Plot: PlotConfig{
			DefaultMin:    0,
			DefaultMax:    12,
			MaxSelections: selection.DefaultCapacity,
			Option:        plot.Terms.ID,
		},
		UI: UIConfig{
			StartHue:   color.DefaultStartHue,
			Saturation: 1,
			Lightness:  0.5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from path, or DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	// 1. Initialize with defaults
	cfg := Default()

	// 2. Read and unmarshal TOML over defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Env > TOML > Default
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SEQPLOT_GRID_BASE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.Base = n
		}
	}
	if v := os.Getenv("SEQPLOT_GRID_COLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Grid.NumCols = n
		}
	}
	if v := os.Getenv("SEQPLOT_DATA"); v != "" {
		cfg.Data.SequencesPath = v
	}
	if v := os.Getenv("SEQPLOT_NUMBERS"); v != "" {
		cfg.Data.NumbersPath = v
	}
	if v := os.Getenv("SEQPLOT_NO_COLOR"); v != "" {
		cfg.UI.NoColor = v == "1" || v == "true"
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.NoColor = true
	}
	if v := os.Getenv("SEQPLOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// CreateDefault writes the default config to DefaultPath. It refuses to
// overwrite an existing file.
func CreateDefault() (string, error) {
	path := DefaultPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	var buffer strings.Builder
	if err := Print(Default(), &buffer); err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(path, []byte(buffer.String()), 0644); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes cfg as a commented TOML file.
func Print(cfg *Config, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, "# seqplot configuration")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[grid]")
	fmt.Fprintln(&b, "# Modulus of the remainder grid (2-16)")
	fmt.Fprintf(&b, "base = %d\n", cfg.Grid.Base)
	fmt.Fprintln(&b, "# Window width in columns, 0 fits the terminal")
	fmt.Fprintf(&b, "num_cols = %d\n", cfg.Grid.NumCols)
	fmt.Fprintln(&b, "# Longest run of empty columns shown before collapsing")
	fmt.Fprintf(&b, "max_empty_cols = %d\n", cfg.Grid.MaxEmptyCols)
	fmt.Fprintf(&b, "ellipsis_cols = %d\n", cfg.Grid.EllipsisCols)
	fmt.Fprintf(&b, "ellipsis_dots = %d\n", cfg.Grid.EllipsisDots)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[plot]")
	fmt.Fprintln(&b, "# Axis range of an empty panel")
	fmt.Fprintf(&b, "default_min = %s\n", formatFloat(cfg.Plot.DefaultMin))
	fmt.Fprintf(&b, "default_max = %s\n", formatFloat(cfg.Plot.DefaultMax))
	fmt.Fprintf(&b, "max_selections = %d\n", cfg.Plot.MaxSelections)
	ids := make([]string, 0, len(plot.Options()))
	for _, o := range plot.Options() {
		ids = append(ids, o.ID)
	}
	fmt.Fprintf(&b, "# Statistic of the main panel (%s)\n", strings.Join(ids, ", "))
	fmt.Fprintf(&b, "option = %q\n", cfg.Plot.Option)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[data]")
	fmt.Fprintln(&b, "# sequences.txt: a_num<TAB>name<TAB>terms")
	if cfg.Data.SequencesPath != "" {
		fmt.Fprintf(&b, "sequences_path = %q\n", cfg.Data.SequencesPath)
	} else {
		fmt.Fprintln(&b, "# sequences_path = \"~/voeis/sequences.txt\"")
	}
	fmt.Fprintln(&b, "# numbers.txt: num total seqs<TAB>index counts<TAB>neighbors")
	if cfg.Data.NumbersPath != "" {
		fmt.Fprintf(&b, "numbers_path = %q\n", cfg.Data.NumbersPath)
	} else {
		fmt.Fprintln(&b, "# numbers_path = \"~/voeis/numbers.txt\"")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[ui]")
	fmt.Fprintln(&b, "# Hue of the first series; later ones step by the golden angle")
	fmt.Fprintf(&b, "start_hue = %s\n", formatFloat(cfg.UI.StartHue))
	fmt.Fprintf(&b, "saturation = %s\n", formatFloat(cfg.UI.Saturation))
	fmt.Fprintf(&b, "lightness = %s\n", formatFloat(cfg.UI.Lightness))
	fmt.Fprintf(&b, "no_color = %t\n", cfg.UI.NoColor)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[log]")
	fmt.Fprintln(&b, "# debug, info, warn, error")
	fmt.Fprintf(&b, "level = %q\n", cfg.Log.Level)

	_, err := io.WriteString(w, b.String())
	return err
}

// formatFloat keeps a decimal point so TOML reads the value back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ExpandHome expands the tilde (~) in a path to the user's home directory.
// Supports "~" and "~/path" formats.
func ExpandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	return path
}

// Validate checks the configuration for errors and returns all issues found
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{fmt.Errorf("config is nil")}
	}

	var errs []error

	if cfg.Grid.Base < grid.MinBase || cfg.Grid.Base > grid.MaxBase {
		errs = append(errs, fmt.Errorf("grid.base: must be between %d and %d, got %d", grid.MinBase, grid.MaxBase, cfg.Grid.Base))
	}
	if cfg.Grid.NumCols < 0 {
		errs = append(errs, fmt.Errorf("grid.num_cols: must be non-negative, got %d", cfg.Grid.NumCols))
	}
	if cfg.Grid.MaxEmptyCols < 1 {
		errs = append(errs, fmt.Errorf("grid.max_empty_cols: must be at least 1, got %d", cfg.Grid.MaxEmptyCols))
	}
	if cfg.Grid.EllipsisCols < 1 || cfg.Grid.EllipsisCols > cfg.Grid.MaxEmptyCols {
		errs = append(errs, fmt.Errorf("grid.ellipsis_cols: must be between 1 and max_empty_cols (%d), got %d", cfg.Grid.MaxEmptyCols, cfg.Grid.EllipsisCols))
	}
	if cfg.Grid.EllipsisDots < 1 {
		errs = append(errs, fmt.Errorf("grid.ellipsis_dots: must be at least 1, got %d", cfg.Grid.EllipsisDots))
	}

	if cfg.Plot.DefaultMin > cfg.Plot.DefaultMax {
		errs = append(errs, fmt.Errorf("plot.default_min: must not exceed default_max (%g), got %g", cfg.Plot.DefaultMax, cfg.Plot.DefaultMin))
	}
	if cfg.Plot.MaxSelections < 1 {
		errs = append(errs, fmt.Errorf("plot.max_selections: must be at least 1, got %d", cfg.Plot.MaxSelections))
	}
	if _, ok := plot.LookupOption(cfg.Plot.Option); !ok {
		errs = append(errs, fmt.Errorf("plot.option: unknown option %q", cfg.Plot.Option))
	}

	for name, p := range map[string]string{"data.sequences_path": cfg.Data.SequencesPath, "data.numbers_path": cfg.Data.NumbersPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(ExpandHome(p)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if cfg.UI.Saturation < 0 || cfg.UI.Saturation > 1 {
		errs = append(errs, fmt.Errorf("ui.saturation: must be between 0.0 and 1.0, got %.2f", cfg.UI.Saturation))
	}
	if cfg.UI.Lightness < 0 || cfg.UI.Lightness > 1 {
		errs = append(errs, fmt.Errorf("ui.lightness: must be between 0.0 and 1.0, got %.2f", cfg.UI.Lightness))
	}

	if _, err := cfg.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errs
}
