package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			if cfgFile != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Print(cfg, cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cfgErr != nil {
				fmt.Fprintln(out, ErrorMessage(cfgErr.Error()))
				return fmt.Errorf("config is invalid")
			}
			errs := config.Validate(cfg)
			if len(errs) == 0 {
				fmt.Fprintln(out, SuccessMessage("config is valid"))
				return nil
			}
			for _, err := range errs {
				fmt.Fprintln(out, ErrorMessage(err.Error()))
			}
			return fmt.Errorf("config has %d error(s)", len(errs))
		},
	})

	return cmd
}
