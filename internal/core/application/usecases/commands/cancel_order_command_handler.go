package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels an order before pickup. The reserved stock goes back in the
// same transaction; the payment timeline is left untouched.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	handoff    services.HandoffProtocol
	effects    Effects
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, effects Effects) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, handoff: services.NewHandoffProtocol(), effects: effects}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
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
	if cmd.Actor().Role != kernel.RoleSeller {
		if err = ensureBuyer(ord, cmd.Actor()); err != nil {
			return err
		}
	} else if err = ensureSeller(ord, cmd.Actor()); err != nil {
		return err
	}

	now := time.Now()
	previousType := ord.OrderType()
	if err = ord.Cancel(cmd.Note(), cmd.Actor(), now); err != nil {
		return err
	}

	if err = releaseStock(ctx, uow.InventoryRepository(), ord); err != nil {
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
