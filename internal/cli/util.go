package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voeis/seqplot/internal/config"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/output"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/util"
)

const fallbackWidth = 80

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadCatalog reads the configured data files. With no files configured the
// catalog is empty and only literal terms can be plotted.
func loadCatalog() (*oeis.Catalog, error) {
	seqs := config.ExpandHome(cfg.Data.SequencesPath)
	nums := config.ExpandHome(cfg.Data.NumbersPath)
	c, err := oeis.LoadFiles(seqs, nums)
	if err != nil {
		return nil, fmt.Errorf("loading database: %w", err)
	}
	s, n := c.Len()
	slog.Debug("database loaded", "sequences", s, "numbers", n)
	return c, nil
}

// loadPresets returns the built-in presets merged with those of the current
// directory.
func loadPresets() ([]config.Preset, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	project, err := config.LoadPresets(wd)
	if err != nil {
		return nil, err
	}
	return config.MergePresets(config.DefaultPresets(), project), nil
}

func findPreset(name string) (config.Preset, error) {
	presets, err := loadPresets()
	if err != nil {
		return config.Preset{}, err
	}
	p, ok := config.FindPreset(presets, name)
	if !ok {
		return config.Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// presetArgs turns a preset into record arguments.
func presetArgs(p config.Preset) []string {
	if len(p.Numbers) == 0 {
		return p.Sequences
	}
	args := make([]string, len(p.Numbers))
	for i, n := range p.Numbers {
		args[i] = strconv.FormatInt(n, 10)
	}
	return args
}

// readArgs returns args, or one argument per non-empty stdin line when args
// is empty and stdin is piped.
func readArgs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 || isTerminal(cmd.InOrStdin()) {
		return args, nil
	}
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return lines, nil
}

// resolveRecords turns arguments into records. For the local view an
// argument is an A-number looked up in c or a literal term list; for the
// fixed view it is an integer looked up in c.
func resolveRecords(c *oeis.Catalog, view plot.View, args []string) ([]oeis.Record, error) {
	recs := make([]oeis.Record, 0, len(args))
	for i, arg := range args {
		if view == plot.ViewFixed {
			v, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, arg)
			}
			n, ok := c.Number(v)
			if !ok {
				return nil, fmt.Errorf("number %d is not in the database", v)
			}
			recs = append(recs, oeis.NumberRecord(n))
			continue
		}

		if oeis.LooksLikeANum(arg) {
			a, err := oeis.ParseANum(arg)
			if err != nil {
				return nil, err
			}
			s, ok := c.Sequence(a)
			if !ok {
				return nil, fmt.Errorf("sequence %s is not in the database", oeis.FormatANum(a))
			}
			recs = append(recs, oeis.SequenceRecord(s))
			continue
		}
		terms, err := oeis.ParseTerms(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		recs = append(recs, oeis.SequenceRecord(&oeis.Sequence{Name: fmt.Sprintf("#%d", i+1), Terms: terms}))
	}
	return recs, nil
}

// gatherRecords resolves the records of a command from a preset, the
// arguments or stdin, in that order.
func gatherRecords(cmd *cobra.Command, args []string, preset string, view plot.View) ([]oeis.Record, error) {
	if preset != "" {
		p, err := findPreset(preset)
		if err != nil {
			return nil, err
		}
		if p.View() != view {
			return nil, fmt.Errorf("preset %s selects %s records, not %s", p.Name, p.View(), view)
		}
		args = append(presetArgs(p), args...)
	}
	args, err := readArgs(cmd, args)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("nothing to plot: pass sequences as arguments, on stdin or with --preset")
	}
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return resolveRecords(c, view, args)
}

// writeOutput renders with render and sends the result to path, or to the
// command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, format output.Format, render func(io.Writer) error) error {
	if path == "" {
		if format.Binary() && isTerminal(cmd.OutOrStdout()) {
			return fmt.Errorf("refusing to write %s to a terminal, use -o FILE", format)
		}
		return render(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(config.ExpandHome(path), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), SubtleText("Wrote "+path))
	return nil
}
