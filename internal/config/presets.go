package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/selection"
	"github.com/voeis/seqplot/internal/watcher"
)

// PresetFiles are the project files presets are read from, in order.
var PresetFiles = []string{".seqplot.yaml", ".seqplot.yml"}

// Preset is a named selection that can be plotted in one step.
type Preset struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Sequences   []string `json:"sequences,omitempty" yaml:"sequences"`
	Numbers     []int64  `json:"numbers,omitempty" yaml:"numbers"`
	Option      string   `json:"option" yaml:"option"`
	Base        int      `json:"base" yaml:"base"`
}

// View is the view a preset selects into.
func (p *Preset) View() plot.View {
	if len(p.Numbers) > 0 {
		return plot.ViewFixed
	}
	return plot.ViewLocal
}

// ANums returns the parsed A-numbers of the preset's sequences.
func (p *Preset) ANums() ([]int, error) {
	out := make([]int, 0, len(p.Sequences))
	for _, s := range p.Sequences {
		n, err := oeis.ParseANum(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Preset) ValidateConfig() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if len(p.Sequences) == 0 && len(p.Numbers) == 0 {
		return errors.New("sequences or numbers are required")
	}
	if len(p.Sequences) > 0 && len(p.Numbers) > 0 {
		return errors.New("sequences and numbers cannot be mixed")
	}
	if n := len(p.Sequences) + len(p.Numbers); n > selection.DefaultCapacity {
		return fmt.Errorf("too many entries (%d, max %d)", n, selection.DefaultCapacity)
	}
	for _, s := range p.Sequences {
		if !oeis.LooksLikeANum(s) {
			return fmt.Errorf("invalid A-number %q", s)
		}
	}

	o, ok := plot.LookupOption(p.Option)
	if !ok {
		return fmt.Errorf("unknown option %q", p.Option)
	}
	layout, _ := plot.Layout(p.View())
	allowed := false
	for _, l := range layout {
		if l == o {
			allowed = true
		}
	}
	if !allowed {
		return fmt.Errorf("option %q is not available in the %s view", p.Option, p.View())
	}

	if p.Base < grid.MinBase || p.Base > grid.MaxBase {
		return fmt.Errorf("invalid base %d (must be between %d and %d)", p.Base, grid.MinBase, grid.MaxBase)
	}
	return nil
}

func (p *Preset) applyDefaults() {
	p.Name = strings.TrimSpace(p.Name)
	for i, s := range p.Sequences {
		p.Sequences[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if strings.TrimSpace(p.Option) == "" {
		if p.View() == plot.ViewFixed {
			p.Option = plot.Neighbors.ID
		} else {
			p.Option = plot.Terms.ID
		}
	}
	if p.Base == 0 {
		p.Base = grid.DefaultBase
	}
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() []Preset {
	presets := []Preset{
		{Name: "primes", Description: "The primes next to A050503", Sequences: []string{"A000040", "A050503"}},
		{Name: "fibonacci", Description: "Fibonacci and Lucas numbers", Sequences: []string{"A000045", "A000032"}},
		{Name: "factorials", Description: "Factorials and highly composite numbers", Sequences: []string{"A000142", "A002182"}},
		{Name: "collatz", Description: "Collatz steps and the signed integers", Sequences: []string{"A006370", "A001057"}, Option: plot.LastDigit.ID},
		{
			Name:        "history",
			Description: "A mixed bag of well-known sequences",
			Sequences:   []string{"A000040", "A050503", "A000045", "A000032", "A002182", "A000142", "A000079", "A000396", "A006370", "A007318"},
		},
		{
			Name:        "numbers",
			Description: "Well-known numbers",
			Numbers:     []int64{2, 7, 42, 144, 284, 496, 1729, 5040, 1048576, 2147483647},
		},
	}
	for i := range presets {
		presets[i].applyDefaults()
	}
	return presets
}

// ParsePresets extracts and validates the `presets:` list from a
// .seqplot.yaml file. Other top-level keys are ignored.
func ParsePresets(yamlBytes []byte) ([]Preset, error) {
	if len(bytes.TrimSpace(yamlBytes)) == 0 {
		return nil, nil
	}

	expanded, err := expandEnvPlaceholders(yamlBytes)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(expanded, &root); err != nil {
		return nil, err
	}

	presetsNode := findTopLevelYAMLKey(&root, "presets")
	if presetsNode == nil {
		return nil, nil
	}
	if presetsNode.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("presets: expected a list")
	}

	out := make([]Preset, 0, len(presetsNode.Content))
	seen := make(map[string]int)
	for idx, item := range presetsNode.Content {
		raw, err := yaml.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("presets[%d]: marshal: %w", idx, err)
		}

		var p Preset
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("presets[%d]: %w", idx, err)
		}

		p.applyDefaults()
		if err := p.ValidateConfig(); err != nil {
			name := p.Name
			if name == "" {
				name = "(unnamed)"
			}
			return nil, fmt.Errorf("presets[%d] %s: %w", idx, name, err)
		}
		if prev, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("presets[%d] %s: duplicate of presets[%d]", idx, p.Name, prev)
		}
		seen[p.Name] = idx

		out = append(out, p)
	}

	return out, nil
}

// LoadPresets loads presets from .seqplot.yaml/.seqplot.yml in dir. If no
// file exists, it returns an empty list.
func LoadPresets(dir string) ([]Preset, error) {
	for _, name := range PresetFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		return ParsePresets(data)
	}
	return nil, nil
}

// MergePresets returns base with overrides applied by name, sorted by name.
func MergePresets(base, overrides []Preset) []Preset {
	byName := make(map[string]Preset, len(base)+len(overrides))
	for _, p := range base {
		byName[p.Name] = p
	}
	for _, p := range overrides {
		byName[p.Name] = p
	}
	out := make([]Preset, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindPreset looks a preset up by name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// WatchPresets watches the preset files in dir and calls onChange with the
// built-in presets merged with the project ones after every change. It
// returns a close function to stop watching.
func WatchPresets(dir string, logger *slog.Logger, onChange func([]Preset)) (func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving preset dir: %w", err)
	}
	dir = absDir

	var lastNames string
	emit := func(presets []Preset) {
		merged := MergePresets(DefaultPresets(), presets)
		if onChange != nil {
			onChange(merged)
		}
		names := presetNames(presets)
		if names != lastNames {
			logger.Info("presets reloaded", "count", len(presets), "names", names)
			lastNames = names
		}
	}

	w, err := watcher.New(func(events []watcher.Event) {
		if !touchesPresetFile(events) {
			return
		}
		presets, err := LoadPresets(dir)
		if err != nil {
			logger.Warn("reloading presets", "dir", dir, "error", err)
			return
		}
		emit(presets)
	}, watcher.WithDebounceDuration(500*time.Millisecond), watcher.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating presets watcher: %w", err)
	}

	// Watch the directory so files created later are seen too.
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching preset dir %s: %w", dir, err)
	}

	presets, err := LoadPresets(dir)
	if err != nil {
		w.Close()
		return nil, err
	}
	emit(presets)

	return func() { w.Close() }, nil
}

func touchesPresetFile(events []watcher.Event) bool {
	for _, ev := range events {
		base := filepath.Base(ev.Path)
		for _, name := range PresetFiles {
			if base == name {
				return true
			}
		}
	}
	return false
}

func presetNames(presets []Preset) string {
	if len(presets) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func findTopLevelYAMLKey(root *yaml.Node, key string) *yaml.Node {
	n := root
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		v := n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return v
		}
	}
	return nil
}

var envPlaceholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvPlaceholders(in []byte) ([]byte, error) {
	missing := make(map[string]struct{})

	out := envPlaceholderRe.ReplaceAllStringFunc(string(in), func(m string) string {
		key := m[2 : len(m)-1]
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		missing[key] = struct{}{}
		return m
	})

	if len(missing) == 0 {
		return []byte(out), nil
	}

	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return nil, fmt.Errorf("missing environment variables: %s", strings.Join(keys, ", "))
}
