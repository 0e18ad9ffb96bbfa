package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/output"
)

type gapEntry struct {
	Num       int64 `json:"num" yaml:"num"`
	Sequences int   `json:"sequences" yaml:"sequences"`
}

func newGapsCmd() *cobra.Command {
	var (
		from, to int64
		format   string
	)
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Count the sequences each number appears in",
		Long: `Print how many sequences of the numbers file contain each integer in
[--from, --to]. Plotted against the number, the counts split into two
bands separated by Sloane's gap.

Examples:
  seqplot gaps --to 100
  seqplot gaps --from 1000 --to 1100 -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == output.FormatXLSX {
				return fmt.Errorf("gaps supports text, json and yaml output")
			}
			if from > to {
				return fmt.Errorf("--from %d is greater than --to %d", from, to)
			}
			c, err := loadCatalog()
			if err != nil {
				return err
			}
			if _, n := c.Len(); n == 0 {
				return fmt.Errorf("no numbers loaded (set --numbers or [data] numbers_path)")
			}

			counts := c.SloanesGap(from, to)
			entries := make([]gapEntry, 0, len(counts))
			for num, seqs := range counts {
				entries = append(entries, gapEntry{Num: num, Sequences: seqs})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Num < entries[j].Num })

			out := output.New(cmd.OutOrStdout(), f)
			if out.IsStructured() {
				return out.Encode(entries)
			}
			t := NewStyledTable("NUMBER", "SEQUENCES").
				WithTitle(fmt.Sprintf("Sequence counts in [%d, %d]", from, to))
			for _, e := range entries {
				t.AddRow(strconv.FormatInt(e.Num, 10), strconv.Itoa(e.Sequences))
			}
			missing := (to - from + 1) - int64(len(entries))
			t.WithFooter(fmt.Sprintf("%s, %d not in the database",
				output.CountStr(len(entries), "number", "numbers"), missing))
			fmt.Fprint(out.Writer(), t.Render())
			return nil
		},
	}
	cmd.Flags().Int64Var(&from, "from", 0, "smallest number")
	cmd.Flags().Int64Var(&to, "to", 1000, "largest number")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
