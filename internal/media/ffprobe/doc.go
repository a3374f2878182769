// Package ffprobe wraps the ffprobe binary for duration probing and JSON
// inspection.
//
// Key types:
//   - Prober: binds a binary and an optional per-call timeout
//   - Result: parsed ffprobe output containing streams and format metadata
//
// Primary entry points:
//   - Duration: reads the scalar container duration used for clip planning
//   - Inspect: executes ffprobe and returns parsed Result
//
// Duration failures carry the services.ErrProbe marker. No default duration
// is ever substituted for an unreadable asset.
package ffprobe
