// Package services defines shared utilities consumed by the preview pipeline
// stages and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, asset paths, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is instead of inspecting messages.
//   - ToolError, which records the exit code and stderr tail of a failed
//     ffmpeg/ffprobe invocation.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
