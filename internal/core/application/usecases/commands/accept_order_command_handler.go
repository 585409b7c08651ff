package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
)

// AcceptOrderCommandHandler verifies the loaded cylinders and binds them to the buyer.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	handoff    services.HandoffProtocol
	effects    Effects
}

func NewAcceptOrderCommandHandler(uowFactory UoWFactory, effects Effects) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		handoff:    services.NewHandoffProtocol(),
		effects:    effects,
	}
}

func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var accepted *order.Order
	err := retryOnConflict(func(int) error {
		ord, err := h.accept(ctx, cmd)
		accepted = ord
		return err
	})
	if err != nil {
		return err
	}

	h.effects.OrderChanged(ctx, accepted)
	return nil
}

func (h *AcceptOrderCommandHandler) accept(ctx context.Context, cmd AcceptOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = ord.Accept(cmd.DriverID(), cmd.CylinderCodes(), cmd.Actor(), now); err != nil {
		return nil, err
	}

	known, err := uow.CylinderRepository().GetByCodes(ctx, cmd.CylinderCodes())
	if err != nil {
		return nil, err
	}

	bound, err := h.handoff.VerifyAndBind(ord, cmd.CylinderCodes(), known, now)
	if err != nil {
		return nil, err
	}

	if err = uow.CylinderRepository().Save(ctx, bound...); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ord, nil
}
