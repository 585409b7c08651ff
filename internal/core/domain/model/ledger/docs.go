// Package ledger is the per-order payment timeline: append-only entries that move from pending
// to completed exactly once, plus the driver earnings that follow the delivery and pickup fee entries.
//
// Which entries finance staff see in the external mirror is decided by IsReportable and nowhere
// else.
package ledger
