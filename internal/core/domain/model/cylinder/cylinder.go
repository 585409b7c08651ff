// Package cylinder tracks physical cylinders by their printed QR code.
//
// A cylinder belongs to at most one buyer at a time. Its status only follows the order it is
// bound to; nothing moves a cylinder on its own.
package cylinder

import (
	"errors"
	"fmt"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusEmpty        Status = "empty"
	StatusInRefill     Status = "in_refill"
	StatusReturned     Status = "returned"
	StatusRefillReturn Status = "refill_return"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusEmpty, StatusInRefill, StatusReturned, StatusRefillReturn:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a cylinder status", string(s)))
	}
}

var (
	ErrCylinderIsNotConstructed = errors.New("Cylinder must be created via NewCylinder constructor")

	// ErrOwnedByAnotherBuyer is returned when binding a cylinder that another buyer still holds.
	ErrOwnedByAnotherBuyer = errors.New("cylinder is owned by another buyer")

	// ErrSizeMismatch is returned when a cylinder's size differs from the order's.
	ErrSizeMismatch = errors.New("cylinder size does not match the order")
)

type Cylinder struct {
	qrCode    string
	size      kernel.CylinderSize
	status    Status
	buyerID   *kernel.UUID
	orderID   *kernel.UUID
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewCylinder registers a cylinder seen for the first time.
func NewCylinder(qrCode string, size kernel.CylinderSize, now time.Time) (*Cylinder, error) {
	return RestoreCylinder(qrCode, size, StatusActive, nil, nil, now.UTC())
}

func RestoreCylinder(
	qrCode string,
	size kernel.CylinderSize,
	status Status,
	buyerID, orderID *kernel.UUID,
	updatedAt time.Time,
) (*Cylinder, error) {
	if qrCode == "" {
		return nil, errs.NewValueIsRequiredError("qrCode")
	}
	if err := errors.Join(size.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	return &Cylinder{
		qrCode:    qrCode,
		size:      size,
		status:    status,
		buyerID:   buyerID,
		orderID:   orderID,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *Cylinder) Validate() error {
	if c == nil {
		return ErrCylinderIsNotConstructed
	}
	return c.guard.Validate(ErrCylinderIsNotConstructed)
}

func (c *Cylinder) QRCode() string {
	return c.qrCode
}

func (c *Cylinder) Size() kernel.CylinderSize {
	return c.size
}

func (c *Cylinder) Status() Status {
	return c.status
}

func (c *Cylinder) BuyerID() *kernel.UUID {
	return c.buyerID
}

func (c *Cylinder) OrderID() *kernel.UUID {
	return c.orderID
}

func (c *Cylinder) UpdatedAt() time.Time {
	return c.updatedAt
}

// CanBindTo checks ownership and size before a driver accepts the cylinder for an order.
func (c *Cylinder) CanBindTo(buyerID kernel.UUID, size kernel.CylinderSize) error {
	if c.size != size {
		return fmt.Errorf("%w: %s is %s, order needs %s", ErrSizeMismatch, c.qrCode, c.size, size)
	}
	if c.buyerID != nil && !c.buyerID.IsEqual(buyerID) {
		return fmt.Errorf("%w: %s", ErrOwnedByAnotherBuyer, c.qrCode)
	}
	return nil
}

// BindTo hands the cylinder to a buyer for an order and marks it active.
func (c *Cylinder) BindTo(buyerID, orderID kernel.UUID, size kernel.CylinderSize, now time.Time) error {
	if err := c.CanBindTo(buyerID, size); err != nil {
		return err
	}
	b, o := buyerID, orderID
	c.buyerID = &b
	c.orderID = &o
	c.moveTo(StatusActive, now)
	return nil
}

// MarkActive is applied when full cylinders reach the buyer.
func (c *Cylinder) MarkActive(now time.Time) {
	c.moveTo(StatusActive, now)
}

// MarkEmpty is applied when the buyer asks for a refill or a return.
func (c *Cylinder) MarkEmpty(now time.Time) {
	c.moveTo(StatusEmpty, now)
}

// MarkInRefill is applied when empties are picked up for refilling.
func (c *Cylinder) MarkInRefill(now time.Time) {
	c.moveTo(StatusInRefill, now)
}

// MarkRefillReturn is applied once empties reach the store and wait to go back full.
func (c *Cylinder) MarkRefillReturn(now time.Time) {
	c.moveTo(StatusRefillReturn, now)
}

// MarkReturned ends the buyer's ownership.
func (c *Cylinder) MarkReturned(now time.Time) {
	c.buyerID = nil
	c.orderID = nil
	c.moveTo(StatusReturned, now)
}

func (c *Cylinder) moveTo(s Status, now time.Time) {
	c.status = s
	c.updatedAt = now.UTC()
}
