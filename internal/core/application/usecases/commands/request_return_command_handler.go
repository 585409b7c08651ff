package commands

import (
	"context"
	"log/slog"
	"time"

	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
)

// RequestReturnCommandHandler stores the rating and opens the return leg in one transaction.
type RequestReturnCommandHandler struct {
	uowFactory UoWFactory
	seeder     services.LedgerSeeder
	handoff    services.HandoffProtocol
	dispatcher DriverDispatcher
	effects    Effects
	logger     *slog.Logger
}

func NewRequestReturnCommandHandler(
	uowFactory UoWFactory,
	dispatcher DriverDispatcher,
	effects Effects,
	logger *slog.Logger,
) RequestReturnCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return RequestReturnCommandHandler{
		uowFactory: uowFactory,
		seeder:     services.NewLedgerSeeder(),
		handoff:    services.NewHandoffProtocol(),
		dispatcher: dispatcher,
		effects:    effects,
		logger:     logger.With("component", "request-return"),
	}
}

func (h *RequestReturnCommandHandler) Handle(ctx context.Context, cmd RequestReturnCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	ord, err := h.request(ctx, cmd)
	if err != nil {
		return order.Unknown, err
	}

	// The order is a return now, so its deposit and delivery rows become visible in the mirror.
	h.effects.OrderChanged(ctx, ord)
	if h.dispatcher != nil {
		if err = h.dispatcher.DispatchOrder(ctx, ord.ID()); err != nil {
			h.logger.InfoContext(ctx, "return pickup left for the assignment job", "orderId", ord.ID().String(), "reason", err)
		}
	}
	return ord.Status(), nil
}

func (h *RequestReturnCommandHandler) request(ctx context.Context, cmd RequestReturnCommand) (*order.Order, error) {
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
	if err = ensureBuyer(ord, cmd.Actor()); err != nil {
		return nil, err
	}

	now := time.Now()
	previousType := ord.OrderType()
	if err = ord.RequestReturn(cmd.Rating(), cmd.Review(), cmd.Actor(), now); err != nil {
		return nil, err
	}
	if _, err = h.seeder.SeedReturn(ord, now); err != nil {
		return nil, err
	}

	cylinders, err := uow.CylinderRepository().GetByOrder(ctx, ord.ID())
	if err != nil {
		return nil, err
	}
	h.handoff.AfterTransition(ord, previousType, cylinders, now)
	if err = uow.CylinderRepository().Save(ctx, cylinders...); err != nil {
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
