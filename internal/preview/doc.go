// Package preview turns one source video into an animated WebP preview.
//
// A Job flows through five steps in program order: probe the source
// duration, plan ClipCount random windows, extract each window as a lossless
// intermediate, concatenate the intermediates in window-index order, and
// encode the joined sequence under the job's Profile. Every intermediate is
// registered with the job's Scratch, which is released on every exit path.
//
// Key types:
//   - Planner: samples clip windows through an injectable Sampler
//   - Scratch: per-job temp namespace with idempotent Release
//   - Generator: runs the pipeline against an ffmpeg.Runner
//   - Profile: quality-first or size-optimized encode settings
package preview
