package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/oeis"
	"github.com/voeis/seqplot/internal/output"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/series"
)

// extentResult is the structured output of the extent command.
type extentResult struct {
	Option string              `json:"option" yaml:"option"`
	Steps  []output.ExtentStep `json:"steps" yaml:"steps"`
	Final  extent.Global       `json:"final" yaml:"final"`
}

func newExtentCmd() *cobra.Command {
	var (
		option   string
		deselect []int
		format   string
		preset   string
	)
	cmd := &cobra.Command{
		Use:   "extent [SEQ...]",
		Short: "Trace the shared axis extent as series are selected",
		Long: `Select each SEQ in turn under one plot option and print the global
extent after every step, marking the steps that rescaled the axes.
--deselect then removes series by index, recomputing the extent.

For the neighbors and index-counts options SEQ is an integer from the
numbers file.

Examples:
  seqplot extent A000045 A000032 --option running-sum
  seqplot extent 1,2,3 10,20 --deselect 1 -f json
  seqplot extent 7 42 --option index-counts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == output.FormatXLSX {
				return fmt.Errorf("extent supports text, json and yaml output")
			}
			if option == "" {
				option = cfg.Plot.Option
			}
			o, ok := plot.LookupOption(option)
			if !ok {
				return fmt.Errorf("unknown option %q", option)
			}
			recs, err := gatherRecords(cmd, args, preset, viewOf(o))
			if err != nil {
				return err
			}

			res := traceExtent(o, recs, deselect, cfg.Plot.DefaultRange())
			out := output.New(cmd.OutOrStdout(), f)
			if out.IsStructured() {
				return out.Encode(res)
			}
			output.ExtentTable(out.Writer(), res.Steps)
			out.Line()
			out.Textln("%s: x %s  y %s", o.Title, res.Final.X, res.Final.Y)
			return nil
		},
	}
	cmd.Flags().StringVar(&option, "option", "", fmt.Sprintf("plot option: %s (default: [plot] option)", optionIDs()))
	cmd.Flags().IntSliceVar(&deselect, "deselect", nil, "series indices to deselect after selecting all")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "select the records of a preset")
	return cmd
}

// traceExtent selects recs as series 0..n-1 and then deselects the given
// indices, recording the extent after each step. Records the option cannot
// plot are reported and skipped.
func traceExtent(o *plot.Option, recs []oeis.Record, deselect []int, def series.Range) extentResult {
	agg := extent.NewWithDefault(def)
	res := extentResult{Option: o.ID, Steps: []output.ExtentStep{}}
	step := 0
	keys := make(map[int]string, len(recs))

	for i, rec := range recs {
		step++
		keys[i] = rec.Key()
		s, err := o.Calculate(rec)
		if err != nil {
			st := output.NewExtentStep(step, "select", i, rec.Key(), false, agg.Extent())
			st.Error = err.Error()
			res.Steps = append(res.Steps, st)
			continue
		}
		changed := agg.Upsert(i, s)
		slog.Debug("series selected", "series", i, "record", rec.Key(), "rescaled", changed)
		res.Steps = append(res.Steps, output.NewExtentStep(step, "select", i, rec.Key(), changed, agg.Extent()))
	}

	for _, i := range deselect {
		step++
		if _, ok := agg.Series(i); !ok {
			st := output.NewExtentStep(step, "deselect", i, keys[i], false, agg.Extent())
			st.Error = plot.ErrNotSelected.Error()
			res.Steps = append(res.Steps, st)
			continue
		}
		changed := agg.Upsert(i, nil)
		slog.Debug("series deselected", "series", i, "rescaled", changed)
		res.Steps = append(res.Steps, output.NewExtentStep(step, "deselect", i, keys[i], changed, agg.Extent()))
	}

	res.Final = agg.Extent()
	return res
}

// viewOf returns the view whose records option o plots.
func viewOf(o *plot.Option) plot.View {
	fixed, _ := plot.Layout(plot.ViewFixed)
	for _, f := range fixed {
		if f == o {
			return plot.ViewFixed
		}
	}
	return plot.ViewLocal
}

func optionIDs() string {
	ids := make([]string, 0, len(plot.Options()))
	for _, o := range plot.Options() {
		ids = append(ids, o.ID)
	}
	return strings.Join(ids, ", ")
}
