package commands

import (
	"context"
	"time"
)

// CompleteOrderCommandHandler lets the seller close a delivered order.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	effects    Effects
}

func NewCompleteOrderCommandHandler(uowFactory UoWFactory, effects Effects) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{uowFactory: uowFactory, effects: effects}
}

func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
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
	if err = ensureSeller(ord, cmd.Actor()); err != nil {
		return err
	}

	if err = ord.Complete(cmd.Actor(), time.Now()); err != nil {
		return err
	}

	if err = releaseDriver(ctx, uow.DriverRepository(), ord); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.OrderChanged(ctx, ord)
	return nil
}
