package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelpreview/internal/ledger"
)

func newHistoryCommand(cc *commandContext) *cobra.Command {
	var limit int
	var outcome string
	var runs bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent batch runs and per-asset results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("run ledger is disabled (ledger.enabled = false)")
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runs {
				list, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, run := range list {
					finished := "running"
					if run.Finished() {
						finished = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
					}
					rows = append(rows, []string{
						shortID(run.ID),
						run.Kind,
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						finished,
						strconv.Itoa(run.Totals.Generated),
						strconv.Itoa(run.Totals.Skipped),
						strconv.Itoa(run.Totals.Failed),
						run.Root,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{Title: "Run"},
					{Title: "Kind"},
					{Title: "Started"},
					{Title: "Took", Right: true},
					{Title: "Generated", Right: true},
					{Title: "Skipped", Right: true},
					{Title: "Failed", Right: true},
					{Title: "Root", MaxWidth: pathColumnWidth},
				}, rows))
				return nil
			}

			entries, err := store.RecentResults(cmd.Context(), limit, outcome)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No results recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.Reason
				if e.Error != "" {
					detail = e.Error
				}
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Kind,
					e.Outcome,
					e.Source,
					detail,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{Title: "When"},
				{Title: "Kind"},
				{Title: "Outcome"},
				{Title: "Source", MaxWidth: pathColumnWidth},
				{Title: "Detail", MaxWidth: 60},
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Filter results by outcome (generated, skipped, failed)")
	cmd.Flags().BoolVar(&runs, "runs", false, "List runs instead of per-asset results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
