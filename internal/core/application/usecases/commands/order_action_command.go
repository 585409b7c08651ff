package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"OrderActionCommand must be created via NewOrderActionCommand constructor",
)

// OrderActionCommand carries the order and the actor for the transitions that need nothing else:
// completing, cancelling and recording a walk-in return. Note ends up in the status history.
type OrderActionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	note    string

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(orderID kernel.UUID, actor kernel.Actor, note string) (OrderActionCommand, error) {
	if err := orderID.Validate(); err != nil {
		return OrderActionCommand{}, err
	}
	if _, err := kernel.NewActor(actor.ID, actor.Role); err != nil {
		return OrderActionCommand{}, err
	}
	return OrderActionCommand{orderID: orderID, actor: actor, note: note, guard: guard.NewConstructorGuard()}, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c OrderActionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c OrderActionCommand) Note() string {
	return c.note
}
