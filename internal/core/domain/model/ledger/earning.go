package ledger

import (
	"errors"
	"fmt"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type EarningStatus string

const (
	EarningPending EarningStatus = "pending"
	EarningPaid    EarningStatus = "paid"
)

// ErrEarningAlreadyPaid is returned by Pay on a paid earning.
var ErrEarningAlreadyPaid = errors.New("driver earning already paid")

// DriverEarning is what a driver is owed for one leg of an order. It is linked to the fee entry
// of that leg and carries the same amount.
type DriverEarning struct {
	id         kernel.UUID
	driverID   kernel.UUID
	timelineID kernel.UUID
	amount     decimal.Decimal
	status     EarningStatus
	createdAt  time.Time
	paidAt     *time.Time
}

// NewDriverEarning seeds a pending earning for the fee entry a driver collects.
func NewDriverEarning(driverID kernel.UUID, fee *Entry, createdAt time.Time) (*DriverEarning, error) {
	if fee == nil || (fee.Type() != TypeDeliveryFee && fee.Type() != TypePickupFee) {
		return nil, errs.NewValueIsInvalidErrorWithCause("timelineId", errors.New("earning needs a delivery or pickup fee entry"))
	}
	return RestoreDriverEarning(kernel.NewUUID(), driverID, fee.TimelineID(), fee.Amount(), EarningPending, createdAt.UTC(), nil)
}

func RestoreDriverEarning(
	id, driverID, timelineID kernel.UUID,
	amount decimal.Decimal,
	status EarningStatus,
	createdAt time.Time,
	paidAt *time.Time,
) (*DriverEarning, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), timelineID.Validate()); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	if status != EarningPending && status != EarningPaid {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an earning status", string(status)))
	}
	return &DriverEarning{
		id:         id,
		driverID:   driverID,
		timelineID: timelineID,
		amount:     amount,
		status:     status,
		createdAt:  createdAt,
		paidAt:     paidAt,
	}, nil
}

func (d *DriverEarning) ID() kernel.UUID         { return d.id }
func (d *DriverEarning) DriverID() kernel.UUID   { return d.driverID }
func (d *DriverEarning) TimelineID() kernel.UUID { return d.timelineID }
func (d *DriverEarning) Amount() decimal.Decimal { return d.amount }
func (d *DriverEarning) Status() EarningStatus   { return d.status }
func (d *DriverEarning) CreatedAt() time.Time    { return d.createdAt }
func (d *DriverEarning) PaidAt() *time.Time      { return d.paidAt }

func (d *DriverEarning) Pay(at time.Time) error {
	if d.status == EarningPaid {
		return ErrEarningAlreadyPaid
	}
	paidAt := at.UTC()
	d.status = EarningPaid
	d.paidAt = &paidAt
	return nil
}
