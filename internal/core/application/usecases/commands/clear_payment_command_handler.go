package commands

import (
	"context"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/ports"
)

// ClearPaymentResult is the entry after clearing.
type ClearPaymentResult struct {
	OrderID kernel.UUID
	Entry   ledger.Entry
}

type ClearPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    Effects
}

func NewClearPaymentCommandHandler(uowFactory OrderUoWFactory, effects Effects) ClearPaymentCommandHandler {
	return ClearPaymentCommandHandler{uowFactory: uowFactory, effects: effects}
}

// Handle moves the entry from pending to completed. An entry that is already completed fails
// with ledger.ErrAlreadyCleared and nothing is written.
func (h *ClearPaymentCommandHandler) Handle(ctx context.Context, cmd ClearPaymentCommand) (ClearPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return ClearPaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ClearPaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().GetByTimelineID(ctx, cmd.TimelineID())
	if err != nil {
		return ClearPaymentResult{}, err
	}

	entry, err := ord.ClearPayment(cmd.TimelineID(), cmd.ReferenceID(), cmd.Notes(), cmd.ProcessedBy(), time.Now())
	if err != nil {
		return ClearPaymentResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return ClearPaymentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ClearPaymentResult{}, err
	}

	h.effects.Publish(ctx, newEvent(ports.EventPaymentCleared, ord, map[string]any{
		"timelineId":  entry.TimelineID().String(),
		"type":        string(entry.Type()),
		"amount":      entry.Amount().String(),
		"referenceId": entry.ReferenceID(),
	}))
	h.effects.PushLedger(ord)

	return ClearPaymentResult{OrderID: ord.ID(), Entry: *entry}, nil
}
