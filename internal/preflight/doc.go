// Package preflight provides readiness checks for the binaries and
// filesystem paths reelpreview depends on.
//
// The CLI doctor command renders every check; batch commands call RunAll
// before touching the library and refuse to start when a required path is
// unusable.
package preflight
