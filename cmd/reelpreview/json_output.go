package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"reelpreview/internal/batch"
	"reelpreview/internal/services"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type resultJSON struct {
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Target      string `json:"target,omitempty"`
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
	FailureKind string `json:"failure_kind,omitempty"`
	Error       string `json:"error,omitempty"`
	ElapsedMS   int64  `json:"elapsed_ms"`
}

type summaryJSON struct {
	RunID     string       `json:"run_id,omitempty"`
	Kind      string       `json:"kind"`
	Root      string       `json:"root"`
	Generated int          `json:"generated"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Results   []resultJSON `json:"results"`
}

func summaryToJSON(summary batch.Summary) summaryJSON {
	out := summaryJSON{
		RunID:     summary.RunID,
		Kind:      string(summary.Kind),
		Root:      summary.Root,
		Generated: summary.Generated,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		ElapsedMS: summary.Elapsed.Milliseconds(),
		Results:   make([]resultJSON, 0, len(summary.Results)),
	}
	for _, res := range summary.Results {
		item := resultJSON{
			Kind:      string(res.Kind),
			Source:    res.Source,
			Target:    res.Target,
			Outcome:   string(res.Outcome),
			Reason:    res.Reason,
			ElapsedMS: res.Elapsed.Milliseconds(),
		}
		if res.Err != nil {
			item.FailureKind = services.FailureKind(res.Err)
			item.Error = res.Err.Error()
		}
		out.Results = append(out.Results, item)
	}
	return out
}
