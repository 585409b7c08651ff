package commands

import (
	"context"
	"log/slog"
	"time"

	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
)

// RequestRefillCommandHandler reopens a delivered order for a refill leg and charges it.
type RequestRefillCommandHandler struct {
	uowFactory UoWFactory
	calculator services.PriceCalculator
	seeder     services.LedgerSeeder
	handoff    services.HandoffProtocol
	dispatcher DriverDispatcher
	effects    Effects
	logger     *slog.Logger
}

func NewRequestRefillCommandHandler(
	uowFactory UoWFactory,
	calculator services.PriceCalculator,
	dispatcher DriverDispatcher,
	effects Effects,
	logger *slog.Logger,
) RequestRefillCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return RequestRefillCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		seeder:     services.NewLedgerSeeder(),
		handoff:    services.NewHandoffProtocol(),
		dispatcher: dispatcher,
		effects:    effects,
		logger:     logger.With("component", "request-refill"),
	}
}

func (h *RequestRefillCommandHandler) Handle(ctx context.Context, cmd RequestRefillCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	ord, err := h.request(ctx, cmd)
	if err != nil {
		return order.Unknown, err
	}

	h.effects.OrderChanged(ctx, ord)
	if h.dispatcher != nil {
		if err = h.dispatcher.DispatchOrder(ctx, ord.ID()); err != nil {
			h.logger.InfoContext(ctx, "refill pickup left for the assignment job", "orderId", ord.ID().String(), "reason", err)
		}
	}
	return ord.Status(), nil
}

func (h *RequestRefillCommandHandler) request(ctx context.Context, cmd RequestRefillCommand) (*order.Order, error) {
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

	inv, err := uow.InventoryRepository().Get(ctx, ord.WarehouseID())
	if err != nil {
		return nil, err
	}
	unitPrice, err := h.calculator.RefillUnitPrice(inv, ord.CylinderSize())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	previousType := ord.OrderType()
	if err = ord.RequestRefill(cmd.Actor(), now); err != nil {
		return nil, err
	}
	if _, err = h.seeder.SeedRefill(ord, unitPrice, now); err != nil {
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
