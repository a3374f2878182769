// Package ffmpeg builds ffmpeg argument lists for the preview pipeline and
// runs them.
//
// Builders are pure functions returning []string so callers and tests can
// inspect the exact invocation. Runner is the seam between the pipeline and
// the binary: ExecRunner shells out, while tests substitute fakes that
// record arguments and fabricate outputs.
package ffmpeg
