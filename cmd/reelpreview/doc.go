// Package main hosts the reelpreview CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, wires the ffmpeg
// runner, ffprobe prober, run ledger and batch lock, and hands the work to
// internal/batch. Commands only translate flags into driver options and
// render results; everything that touches media lives in the internal
// packages.
package main
