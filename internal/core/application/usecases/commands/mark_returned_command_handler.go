package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/services"
)

// MarkReturnedCommandHandler records cylinders the buyer brought back to the shop themselves.
// The cylinders go back into stock.
type MarkReturnedCommandHandler struct {
	uowFactory UoWFactory
	handoff    services.HandoffProtocol
	effects    Effects
}

func NewMarkReturnedCommandHandler(uowFactory UoWFactory, effects Effects) MarkReturnedCommandHandler {
	return MarkReturnedCommandHandler{uowFactory: uowFactory, handoff: services.NewHandoffProtocol(), effects: effects}
}

func (h *MarkReturnedCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
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
	previousType := ord.OrderType()
	if err = ord.MarkReturned(cmd.Actor(), now); err != nil {
		return err
	}

	cylinders, err := uow.CylinderRepository().GetByOrder(ctx, ord.ID())
	if err != nil {
		return err
	}
	h.handoff.AfterTransition(ord, previousType, cylinders, now)
	if err = uow.CylinderRepository().Save(ctx, cylinders...); err != nil {
		return err
	}

	if err = releaseStock(ctx, uow.InventoryRepository(), ord); err != nil {
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
