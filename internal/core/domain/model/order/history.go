package order

import (
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
)

// HistoryEntry is one line of the append-only status audit trail.
type HistoryEntry struct {
	Status Status
	At     time.Time
	Actor  kernel.Actor
	Note   string
}
