package queries

import (
	"errors"

	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

const (
	DefaultPaymentsLimit = 100
	MaxPaymentsLimit     = 500
)

var ErrListPaymentsQueryIsNotConstructed = errors.New(
	"ListPaymentsQuery must be created via NewListPaymentsQuery constructor",
)

// ListPaymentsQuery pages through reportable ledger entries across orders, newest first.
// An empty status lists both pending and completed entries.
type ListPaymentsQuery struct {
	status ledger.EntryStatus
	limit  int
	offset int
	guard  guard.ConstructorGuard
}

func NewListPaymentsQuery(status string, limit, offset int) (ListPaymentsQuery, error) {
	q := ListPaymentsQuery{limit: limit, offset: offset, guard: guard.NewConstructorGuard()}
	if status != "" {
		parsed, err := ledger.ParseEntryStatus(status)
		if err != nil {
			return ListPaymentsQuery{}, err
		}
		q.status = parsed
	}
	if q.limit == 0 {
		q.limit = DefaultPaymentsLimit
	}
	if q.limit < 0 || q.limit > MaxPaymentsLimit {
		return ListPaymentsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPaymentsLimit)
	}
	if q.offset < 0 {
		return ListPaymentsQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	return q, nil
}

func (q ListPaymentsQuery) Validate() error {
	return q.guard.Validate(ErrListPaymentsQueryIsNotConstructed)
}

func (q ListPaymentsQuery) Status() ledger.EntryStatus {
	return q.status
}

func (q ListPaymentsQuery) Limit() int {
	return q.limit
}

func (q ListPaymentsQuery) Offset() int {
	return q.offset
}
