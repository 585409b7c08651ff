package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/services"
)

// AssignDriverCommandHandler assigns one order. Both the order and the driver are written with
// compare-and-swap, so of two dispatchers racing for either one only the first commit wins; the
// loser gets a version conflict and changes nothing.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	effects    Effects
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, effects Effects) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
		effects:    effects,
	}
}

// Handle returns services.ErrDriverUnavailable when no driver covers the order. That is not a
// failure of the order, which simply waits for the next attempt.
func (h *AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	var assigned *driver.Driver
	if cmd.DriverID() == nil {
		drivers, getErr := uow.DriverRepository().GetDispatchable(ctx)
		if getErr != nil {
			return getErr
		}
		if assigned, err = h.dispatcher.Dispatch(ord, drivers, cmd.Actor(), now); err != nil {
			return err
		}
	} else {
		if assigned, err = uow.DriverRepository().Get(ctx, *cmd.DriverID()); err != nil {
			return err
		}
		if err = services.Bind(ord, assigned, cmd.Actor(), now); err != nil {
			return err
		}
	}

	if err = uow.DriverRepository().Update(ctx, assigned); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.OrderChanged(ctx, ord, driverAssignedEvent(ord, assigned))
	return nil
}

// DispatchOrder runs an automatic assignment as the dispatcher.
func (h *AssignDriverCommandHandler) DispatchOrder(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := NewAssignDriverCommand(orderID, kernel.SystemActor("dispatcher"))
	if err != nil {
		return err
	}
	return h.Handle(ctx, cmd)
}
