package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelpreview/internal/config"
)

func newInspectCommand(cc *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show ffprobe metadata for a video or preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			result, err := cc.prober().Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:      %s\n", path)
			fmt.Fprintf(out, "Container: %s\n", result.Format.FormatName)
			fmt.Fprintf(out, "Duration:  %.3fs\n", result.DurationSeconds())
			fmt.Fprintf(out, "Size:      %d bytes\n", result.SizeBytes())
			if len(result.Streams) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(result.Streams))
			for _, s := range result.Streams {
				dims := ""
				if s.Width > 0 && s.Height > 0 {
					dims = fmt.Sprintf("%dx%d", s.Width, s.Height)
				}
				fps := ""
				if rate := s.FrameRate(); rate > 0 {
					fps = strconv.FormatFloat(rate, 'f', 2, 64)
				}
				rows = append(rows, []string{
					strconv.Itoa(s.Index),
					s.CodecType,
					s.CodecName,
					dims,
					s.PixFmt,
					fps,
					s.NBFrames,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{Title: "#", Right: true},
				{Title: "Type"},
				{Title: "Codec"},
				{Title: "Size"},
				{Title: "Pixel format"},
				{Title: "FPS", Right: true},
				{Title: "Frames", Right: true},
			}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw probe result as JSON")
	return cmd
}
