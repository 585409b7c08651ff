package commands

import (
	"context"
	"time"
)

type GenerateQRCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    Effects
}

func NewGenerateQRCommandHandler(uowFactory OrderUoWFactory, effects Effects) GenerateQRCommandHandler {
	return GenerateQRCommandHandler{uowFactory: uowFactory, effects: effects}
}

// Handle returns the opaque token the driver shows at pickup.
func (h *GenerateQRCommandHandler) Handle(ctx context.Context, cmd GenerateQRCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if err = ensureDriver(ord, cmd.DriverID()); err != nil {
		return "", err
	}

	code, err := ord.GenerateQR(cmd.Actor(), time.Now())
	if err != nil {
		return "", err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.effects.Publish(ctx, statusChangedEvent(ord))
	return code, nil
}
