package ledger

import (
	"errors"
	"fmt"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrAlreadyCleared is returned when clearing an entry that is no longer pending.
	ErrAlreadyCleared = errors.New("timeline entry already cleared")

	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")
)

// Entry is one line of an order's payment timeline. Only the settlement fields
// (status, referenceID, processedBy, processedAt, notes) ever change after creation.
type Entry struct {
	timelineID    kernel.UUID
	entryType     EntryType
	cause         string
	amount        decimal.Decimal
	liability     LiabilityType
	paymentMethod PaymentMethod
	status        EntryStatus
	driverID      *kernel.UUID
	createdAt     time.Time
	referenceID   string
	processedBy   string
	processedAt   *time.Time
	notes         string
	guard         guard.ConstructorGuard
}

// NewEntry creates a pending entry with a fresh timeline id.
func NewEntry(
	entryType EntryType,
	cause string,
	amount decimal.Decimal,
	liability LiabilityType,
	method PaymentMethod,
	createdAt time.Time,
) (*Entry, error) {
	e := &Entry{
		timelineID:    kernel.NewUUID(),
		status:        StatusPending,
		paymentMethod: method,
		createdAt:     createdAt.UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setType(entryType),
		e.setCause(cause),
		e.setAmount(amount),
		e.setLiability(liability),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEntry rebuilds a persisted entry.
func RestoreEntry(
	timelineID kernel.UUID,
	entryType EntryType,
	cause string,
	amount decimal.Decimal,
	liability LiabilityType,
	method PaymentMethod,
	status EntryStatus,
	driverID *kernel.UUID,
	createdAt time.Time,
	referenceID, processedBy string,
	processedAt *time.Time,
	notes string,
) (*Entry, error) {
	e := &Entry{
		paymentMethod: method,
		status:        status,
		driverID:      driverID,
		createdAt:     createdAt,
		referenceID:   referenceID,
		processedBy:   processedBy,
		processedAt:   processedAt,
		notes:         notes,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		timelineID.Validate(),
		e.setType(entryType),
		e.setCause(cause),
		e.setAmount(amount),
		e.setLiability(liability),
	); err != nil {
		return nil, err
	}
	e.timelineID = timelineID

	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) TimelineID() kernel.UUID {
	return e.timelineID
}

func (e *Entry) Type() EntryType {
	return e.entryType
}

func (e *Entry) Cause() string {
	return e.cause
}

func (e *Entry) Amount() decimal.Decimal {
	return e.amount
}

func (e *Entry) Liability() LiabilityType {
	return e.liability
}

func (e *Entry) PaymentMethod() PaymentMethod {
	return e.paymentMethod
}

func (e *Entry) Status() EntryStatus {
	return e.status
}

func (e *Entry) DriverID() *kernel.UUID {
	return e.driverID
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) ReferenceID() string {
	return e.referenceID
}

func (e *Entry) ProcessedBy() string {
	return e.processedBy
}

func (e *Entry) ProcessedAt() *time.Time {
	return e.processedAt
}

func (e *Entry) Notes() string {
	return e.notes
}

func (e *Entry) IsPending() bool {
	return e.status == StatusPending
}

// AttributeTo records the driver who collects or earns this entry.
func (e *Entry) AttributeTo(driverID kernel.UUID) {
	id := driverID
	e.driverID = &id
}

// Clear settles a pending entry.
func (e *Entry) Clear(referenceID, notes, processedBy string, at time.Time) error {
	if e.status != StatusPending {
		return fmt.Errorf("%w: %s", ErrAlreadyCleared, e.timelineID)
	}

	processedAt := at.UTC()
	e.status = StatusCompleted
	e.referenceID = referenceID
	e.notes = notes
	e.processedBy = processedBy
	e.processedAt = &processedAt
	return nil
}

func (e *Entry) setType(t EntryType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.entryType = t
	return nil
}

func (e *Entry) setCause(cause string) error {
	if cause == "" {
		return errs.NewValueIsRequiredError("cause")
	}
	e.cause = cause
	return nil
}

func (e *Entry) setAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	e.amount = amount
	return nil
}

func (e *Entry) setLiability(l LiabilityType) error {
	if err := l.Validate(); err != nil {
		return err
	}
	e.liability = l
	return nil
}
