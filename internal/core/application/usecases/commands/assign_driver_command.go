package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand hands an order to a driver. Without a driver id the geofenced dispatcher
// picks the first available driver covering the delivery point; with one, an admin forces the
// choice and the same guards apply.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID *kernel.UUID
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(orderID kernel.UUID, actor kernel.Actor) (AssignDriverCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func NewManualAssignDriverCommand(orderID, driverID kernel.UUID, actor kernel.Actor) (AssignDriverCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{orderID: orderID, driverID: &driverID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID is nil for automatic dispatch.
func (c AssignDriverCommand) DriverID() *kernel.UUID {
	return c.driverID
}

func (c AssignDriverCommand) Actor() kernel.Actor {
	return c.actor
}
