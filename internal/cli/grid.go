package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/output"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/tui/gridview"
	"github.com/voeis/seqplot/internal/tui/theme"
)

func newGridCmd() *cobra.Command {
	var (
		base    int
		cols    int
		format  string
		outPath string
		preset  string
	)
	cmd := &cobra.Command{
		Use:   "grid [SEQ...]",
		Short: "Lay sequences out on the remainder grid",
		Long: `Select each SEQ into a grid panel and print the window.

The value v sits in column floor(v/base) and row v mod base, so each row
collects the values with one last digit. Long runs of empty columns are
collapsed into a dotted gap.

SEQ is an A-number looked up in the sequences file, or a literal list of
terms like 2,3,5,7. Without SEQ, each line of piped stdin is one sequence.

Examples:
  seqplot grid A000040 A000045 --base 6
  seqplot grid 1,4,9,16,25,36 --cols 20
  seqplot grid --preset fibonacci -f xlsx -o fib.xlsx
  seq 100 | paste -sd, | seqplot grid -f yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			b := cfg.Grid.Base
			if preset != "" {
				p, err := findPreset(preset)
				if err != nil {
					return err
				}
				b = p.Base
			}
			if cmd.Flags().Changed("base") {
				b = base
			}
			recs, err := gatherRecords(cmd, args, preset, plot.ViewLocal)
			if err != nil {
				return err
			}
			return runGrid(cmd, recs, b, cols, f, outPath)
		},
	}
	cmd.Flags().IntVarP(&base, "base", "b", 10, "grid base (2-16)")
	cmd.Flags().IntVar(&cols, "cols", 0, "window columns (default: [grid] num_cols, or fit the terminal)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml or xlsx")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to FILE instead of stdout")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "select the sequences of a preset")
	return cmd
}

func runGrid(cmd *cobra.Command, recs []oeis.Record, base, cols int, f output.Format, outPath string) error {
	width := terminalWidth()
	opts := cfg.Grid.Options(gridview.ColumnsForWidth(width))
	if cols > 0 {
		opts.NumCols = cols
	}

	th := theme.Current()
	v := gridview.New(th, width, base+3)
	p := plot.New("grid", v,
		plot.WithOption(plot.LastDigit),
		plot.WithGridOptions(opts),
		plot.WithLogger(slog.Default()),
	)
	if err := p.SetBase(base); err != nil {
		return err
	}
	g := plot.NewGroup(cfg.Plot.MaxSelections, p)
	g.Logger = slog.Default()

	infos := make([]output.SeriesInfo, 0, len(recs))
	for _, rec := range recs {
		index, err := g.Select(rec)
		if err != nil {
			return err
		}
		infos = append(infos, seriesInfo(index, rec, th))
	}
	w := p.Window()
	slog.Debug("grid window computed", "base", w.Base, "cols", w.NumCols, "populated", w.Populated(), "ellipses", len(w.Ellipses))

	return writeOutput(cmd, outPath, f, func(out io.Writer) error {
		switch {
		case f == output.FormatXLSX:
			return output.WriteXLSX(out, w, infos)
		case f == output.FormatJSON || f == output.FormatYAML:
			return output.New(out, f).Encode(output.NewGridReport(w, infos))
		}
		fmt.Fprintln(out, strings.TrimRight(v.View(), "\n"))
		fmt.Fprintln(out)
		for _, s := range infos {
			dot := lipgloss.NewStyle().Foreground(th.Series(s.Index)).Render("●")
			line := fmt.Sprintf("%s %s", dot, s.Key)
			if s.Name != "" && s.Name != s.Key {
				line += " " + s.Name
			}
			fmt.Fprintf(out, "%s %s\n", line, SubtleText("("+output.CountStr(s.Terms, "term", "terms")+")"))
		}
		return nil
	})
}

func seriesInfo(index int, rec oeis.Record, th theme.Theme) output.SeriesInfo {
	info := output.SeriesInfo{
		Index: index,
		Key:   rec.Key(),
		Color: th.Palette.Hex(index),
	}
	if s := rec.Sequence; s != nil {
		info.Name = s.Name
		info.Terms = len(s.Terms)
	}
	return info
}
