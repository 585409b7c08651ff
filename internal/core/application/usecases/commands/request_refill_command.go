package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/guard"
)

var ErrRequestRefillCommandIsNotConstructed = errors.New(
	"RequestRefillCommand must be created via NewRequestRefillCommand constructor",
)

// RequestRefillCommand is a buyer asking for their empty cylinders to be collected and refilled.
type RequestRefillCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewRequestRefillCommand(orderID kernel.UUID, actor kernel.Actor) (RequestRefillCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RequestRefillCommand{}, err
	}
	return RequestRefillCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c RequestRefillCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefillCommandIsNotConstructed)
}

func (c RequestRefillCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestRefillCommand) Actor() kernel.Actor {
	return c.actor
}
