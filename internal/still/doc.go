// Package still derives single-frame static artifacts from animated previews.
//
// Extract never returns an error: every configured encoding gets its own
// FormatResult so one failing encoding never blocks its siblings. Two
// strategies exist. The codec strategy asks ffmpeg for exactly the first
// frame. The decode strategy decodes the frame in-process, flattens
// transparent frames onto white for JPEG, and only shells out for WebP. When
// decoding is impossible (animated WebP, for instance) the extractor falls
// back to the codec strategy for everything still pending.
package still
