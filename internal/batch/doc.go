// Package batch drives preview and static derivation across a library.
//
// A Driver discovers assets under a root (or under an explicit list of
// category folders), applies the existence-based idempotency rule, hands each
// pending asset to the preview generator or still extractor, and turns every
// outcome into a Result. A failing asset never halts the batch. Results are
// optionally mirrored into the run ledger and streamed to an Observer so the
// CLI can render progress.
//
// Lock guards a state directory so two batches cannot interleave.
package batch
