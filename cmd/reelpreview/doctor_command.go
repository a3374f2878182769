package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelpreview/internal/deps"
	"reelpreview/internal/preflight"
)

func newDoctorCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools and directories reelpreview needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := deps.WithVersions(cmd.Context(), preflight.CheckSystemDeps(cfg))
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Paths", colorize) {
				fmt.Fprintln(out, line)
			}
			checks := []preflight.Result{
				preflight.CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
				preflight.CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
				preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
				preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
			}
			rows := make([][]string, 0, len(checks))
			for _, check := range checks {
				rows = append(rows, []string{check.Name, yesNo(check.Passed), check.Detail})
			}
			fmt.Fprintln(out, renderTable(cols("Check", "OK", "Detail"), rows))

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Config:  %s\n", cc.configPath)
			fmt.Fprintf(out, "Ledger:  %s (enabled: %s)\n", cfg.LedgerPath(), yesNo(cfg.Ledger.Enabled))
			fmt.Fprintf(out, "Log:     %s\n", cfg.LogPath())

			for _, status := range statuses {
				if !status.Available && !status.Optional {
					return errors.New("required tools are missing")
				}
			}
			return nil
		},
	}
}
