// Package ledger persists batch run history in SQLite.
//
// A run is one invocation of a batch entry point (previews, statics, category
// variants, or a single convert). Every asset the run touched is recorded as
// a result row with its outcome, failure classification, and elapsed time so
// `reelpreview history` can show what happened without re-reading logs.
//
// The ledger is advisory: artifact existence on disk remains the only
// idempotency signal, and batch code keeps working when the ledger is
// disabled.
package ledger
