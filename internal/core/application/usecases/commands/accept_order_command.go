package commands

import (
	"errors"
	"slices"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand is the assigned driver confirming the order with the QR codes printed on the
// cylinders they loaded.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	driverID      kernel.UUID
	cylinderCodes []string
	actor         kernel.Actor

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(orderID, driverID kernel.UUID, cylinderCodes []string, actor kernel.Actor) (AcceptOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return AcceptOrderCommand{}, err
	}
	if len(cylinderCodes) == 0 {
		return AcceptOrderCommand{}, errs.NewValueIsRequiredError("cylinderCodes")
	}

	return AcceptOrderCommand{
		orderID:       orderID,
		driverID:      driverID,
		cylinderCodes: slices.Clone(cylinderCodes),
		actor:         actor,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AcceptOrderCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c AcceptOrderCommand) CylinderCodes() []string {
	return slices.Clone(c.cylinderCodes)
}

func (c AcceptOrderCommand) Actor() kernel.Actor {
	return c.actor
}
