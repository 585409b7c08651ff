package services

import (
	"errors"
	"fmt"
	"time"

	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
)

// HandoffProtocol binds physical cylinder records to order transitions.
type HandoffProtocol struct{}

func NewHandoffProtocol() HandoffProtocol {
	return HandoffProtocol{}
}

// VerifyAndBind checks the cylinders a driver scanned when accepting an order and binds them to
// the order's buyer. known holds the cylinders already on record, keyed by QR code; codes that
// are not known are registered. The returned slice follows codes.
func (HandoffProtocol) VerifyAndBind(
	ord *order.Order,
	codes []string,
	known map[string]*cylinder.Cylinder,
	now time.Time,
) ([]*cylinder.Cylinder, error) {
	out := make([]*cylinder.Cylinder, 0, len(codes))
	var verifyErr error

	for _, code := range codes {
		c, ok := known[code]
		if !ok {
			created, err := cylinder.NewCylinder(code, ord.CylinderSize(), now)
			if err != nil {
				verifyErr = errors.Join(verifyErr, err)
				continue
			}
			c = created
		}

		if err := c.BindTo(ord.BuyerID(), ord.ID(), ord.CylinderSize(), now); err != nil {
			verifyErr = errors.Join(verifyErr, err)
			continue
		}
		out = append(out, c)
	}

	if verifyErr != nil {
		return nil, fmt.Errorf("%w: %w", order.ErrCylinderCodesInvalid, verifyErr)
	}
	return out, nil
}

// AfterTransition moves the order's cylinders to match the state the order just reached.
// previousType is the order type before the transition, since a finished leg rewrites it.
func (HandoffProtocol) AfterTransition(
	ord *order.Order,
	previousType kernel.OrderType,
	cylinders []*cylinder.Cylinder,
	now time.Time,
) {
	for _, c := range cylinders {
		switch ord.Status() {
		case order.RefillRequested, order.ReturnRequested:
			c.MarkEmpty(now)
		case order.InTransit:
			if previousType == kernel.OrderTypeRefill {
				c.MarkInRefill(now)
			}
		case order.RefillInStore:
			c.MarkRefillReturn(now)
		case order.Completed:
			if previousType == kernel.OrderTypeReturn {
				c.MarkReturned(now)
			}
		case order.Returned, order.Cancelled:
			c.MarkReturned(now)
		case order.Delivered:
			c.MarkActive(now)
		}
	}
}
