package ledger

import (
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// IsReportable decides whether an entry appears in the external mirror and in admin listings.
// Security deposits and delivery fees are shown only while the owning order is a return.
// The rule filters reads; storage always keeps every entry.
func IsReportable(e *Entry, orderType kernel.OrderType) bool {
	if e == nil {
		return false
	}
	return IsReportableKind(e.entryType, e.cause, orderType)
}

// IsReportableKind is IsReportable for read models that carry the raw columns.
func IsReportableKind(entryType EntryType, cause string, orderType kernel.OrderType) bool {
	if cause == CauseSecurityDeposits || entryType == TypeDeliveryFee {
		return orderType == kernel.OrderTypeReturn
	}
	return true
}

// Totals sums entries by status.
func Totals(entries []*Entry) (pending, completed decimal.Decimal) {
	pending, completed = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.status {
		case StatusPending:
			pending = pending.Add(e.amount)
		case StatusCompleted:
			completed = completed.Add(e.amount)
		}
	}
	return pending, completed
}
