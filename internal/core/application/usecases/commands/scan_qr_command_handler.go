package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
)

// ScanQRResult is where the order ended up after the scan.
type ScanQRResult struct {
	Status    order.Status
	OrderType kernel.OrderType
}

// ScanQRCommandHandler applies a scan with optimistic concurrency. The status read on the first
// attempt is the one the scan targets; if a concurrent scan commits first, the retry sees a
// different status and fails with an invalid transition instead of advancing the order twice.
type ScanQRCommandHandler struct {
	uowFactory UoWFactory
	handoff    services.HandoffProtocol
	effects    Effects
}

func NewScanQRCommandHandler(uowFactory UoWFactory, effects Effects) ScanQRCommandHandler {
	return ScanQRCommandHandler{
		uowFactory: uowFactory,
		handoff:    services.NewHandoffProtocol(),
		effects:    effects,
	}
}

func (h *ScanQRCommandHandler) Handle(ctx context.Context, cmd ScanQRCommand) (ScanQRResult, error) {
	if err := cmd.Validate(); err != nil {
		return ScanQRResult{}, err
	}

	var (
		expected order.Status
		scanned  *order.Order
	)
	err := retryOnConflict(func(attempt int) error {
		ord, err := h.scan(ctx, cmd, attempt == 0, &expected)
		scanned = ord
		return err
	})
	if err != nil {
		return ScanQRResult{}, err
	}

	h.effects.OrderChanged(ctx, scanned)
	return ScanQRResult{Status: scanned.Status(), OrderType: scanned.OrderType()}, nil
}

func (h *ScanQRCommandHandler) scan(
	ctx context.Context,
	cmd ScanQRCommand,
	first bool,
	expected *order.Status,
) (*order.Order, error) {
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
	if first {
		*expected = ord.Status()
	}
	if err = ensureDriver(ord, cmd.DriverID()); err != nil {
		return nil, err
	}

	now := time.Now()
	previousType := ord.OrderType()
	if err = ord.ScanQR(*expected, cmd.Code(), cmd.Actor(), now); err != nil {
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

	if ord.Status() == order.Completed && previousType == kernel.OrderTypeReturn {
		if err = releaseStock(ctx, uow.InventoryRepository(), ord); err != nil {
			return nil, err
		}
	}

	if err = releaseDriver(ctx, uow.DriverRepository(), ord); err != nil {
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
