package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/output"
)

func newPresetsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in and project presets",
		Long: `List the presets usable with --preset and the viewer's preset key.

Project presets are read from .seqplot.yaml in the current directory and
override built-in presets of the same name:

  presets:
    - name: squares
      description: Squares and cubes
      sequences: [A000290, A000578]
      option: last-digit
      base: 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == output.FormatXLSX {
				return fmt.Errorf("presets supports text, json and yaml output")
			}
			presets, err := loadPresets()
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout(), f)
			if out.IsStructured() {
				return out.Encode(presets)
			}
			t := NewStyledTable("NAME", "VIEW", "OPTION", "BASE", "RECORDS", "DESCRIPTION").WithTitle("Presets")
			for _, p := range presets {
				t.AddRow(p.Name, string(p.View()), p.Option, strconv.Itoa(p.Base),
					output.Truncate(strings.Join(presetArgs(p), " "), 40), p.Description)
			}
			t.WithFooter(output.CountStr(t.RowCount(), "preset", "presets"))
			fmt.Fprint(out.Writer(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
