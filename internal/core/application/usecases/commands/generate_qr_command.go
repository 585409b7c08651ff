package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/guard"
)

var ErrGenerateQRCommandIsNotConstructed = errors.New(
	"GenerateQRCommand must be created via NewGenerateQRCommand constructor",
)

// GenerateQRCommand asks for the pickup token of an accepted order.
type GenerateQRCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewGenerateQRCommand(orderID, driverID kernel.UUID, actor kernel.Actor) (GenerateQRCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return GenerateQRCommand{}, err
	}
	return GenerateQRCommand{orderID: orderID, driverID: driverID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c GenerateQRCommand) Validate() error {
	return c.guard.Validate(ErrGenerateQRCommandIsNotConstructed)
}

func (c GenerateQRCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c GenerateQRCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c GenerateQRCommand) Actor() kernel.Actor {
	return c.actor
}
