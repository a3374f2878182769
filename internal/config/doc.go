// Package config loads, normalizes, and validates reelpreview configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELPREVIEW_FFMPEG. The Config type centralizes every knob the batch
// commands need: clip sampling, encoding profile, static frame formats, the
// category allow-lists, and the external tool binaries.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical profile names, and clear validation errors.
package config
