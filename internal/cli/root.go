package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/color"
	"github.com/voeis/seqplot/internal/config"
	"github.com/voeis/seqplot/internal/tui/theme"
)

var (
	cfgFile     string
	cfg         *config.Config
	cfgErr      error
	noColor     bool
	verbose     bool
	dataPath    string
	numbersPath string

	// Build information - set via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cfgFile, cfg, cfgErr = "", nil, nil
	noColor, verbose = false, false
	dataPath, numbersPath = "", ""

	cmd := &cobra.Command{
		Use:   "seqplot",
		Short: "Plot integer sequences in the terminal",
		Long: `seqplot plots integer sequences from a flat-file OEIS extract and lays
their terms out on a remainder grid, collapsing long empty stretches.

Quick Start:
  seqplot grid A000040 --base 6          # Primes on a base-6 grid
  seqplot grid 1,1,2,3,5,8,13 -f json    # Literal terms as JSON
  seqplot extent A000045 A000032 --option running-sum
  seqplot view --preset primes           # Interactive viewer`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				theme.SetNoColor(true)
			}

			cfg, cfgErr = config.Load(cfgFile)
			if cfgErr != nil {
				// Use defaults so config init/validate still work on a broken file.
				cfg = config.Default()
			}
			if dataPath != "" {
				cfg.Data.SequencesPath = dataPath
			}
			if numbersPath != "" {
				cfg.Data.NumbersPath = numbersPath
			}
			if cfg.UI.NoColor {
				theme.SetNoColor(true)
			}

			if err := setupLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if cfgErr != nil {
				slog.Warn("config not loaded, using defaults", "error", cfgErr)
			}

			if !theme.NoColorEnabled() && cfg.UI.Palette() != color.DefaultPalette() {
				t := theme.Current()
				t.Palette = cfg.UI.Palette()
				theme.Set(&t)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/seqplot/config.toml)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors (also NO_COLOR or SEQPLOT_NO_COLOR)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug events to stderr")
	cmd.PersistentFlags().StringVar(&dataPath, "data", "", "sequences file (overrides [data] sequences_path)")
	cmd.PersistentFlags().StringVar(&numbersPath, "numbers", "", "numbers file (overrides [data] numbers_path)")

	cmd.AddCommand(
		newGridCmd(),
		newExtentCmd(),
		newGapsCmd(),
		newPresetsCmd(),
		newViewCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setupLogging installs the default logger. --verbose wins over [log] level.
func setupLogging(w io.Writer) error {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		// SilenceErrors is set so errors are printed once, here.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, Version)
				return
			}
			fmt.Fprintf(out, "seqplot %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", Commit)
			fmt.Fprintf(out, "  built:  %s\n", Date)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
