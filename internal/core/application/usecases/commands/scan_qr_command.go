package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var ErrScanQRCommandIsNotConstructed = errors.New(
	"ScanQRCommand must be created via NewScanQRCommand constructor",
)

// ScanQRCommand is a driver scanning the order's token, either at pickup or at drop-off.
type ScanQRCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	code     string
	actor    kernel.Actor

	guard guard.ConstructorGuard
}

func NewScanQRCommand(orderID, driverID kernel.UUID, code string, actor kernel.Actor) (ScanQRCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return ScanQRCommand{}, err
	}
	if code == "" {
		return ScanQRCommand{}, errs.NewValueIsRequiredError("qrCode")
	}
	return ScanQRCommand{orderID: orderID, driverID: driverID, code: code, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c ScanQRCommand) Validate() error {
	return c.guard.Validate(ErrScanQRCommandIsNotConstructed)
}

func (c ScanQRCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ScanQRCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c ScanQRCommand) Code() string {
	return c.code
}

func (c ScanQRCommand) Actor() kernel.Actor {
	return c.actor
}
