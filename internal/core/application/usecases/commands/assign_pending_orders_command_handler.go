package commands

import (
	"context"
	"errors"
	"log/slog"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/pkg/errs"
)

// AssignPendingOrdersResult counts what one sweep did.
type AssignPendingOrdersResult struct {
	Scanned    int
	Assigned   int
	Unassigned int
	Failed     int
}

// AssignPendingOrdersCommandHandler sweeps orders awaiting a driver. Each order gets its own
// transaction so one failure does not hold back the rest.
type AssignPendingOrdersCommandHandler struct {
	uowFactory UoWFactory
	assign     AssignDriverCommandHandler
	logger     *slog.Logger
}

func NewAssignPendingOrdersCommandHandler(
	uowFactory UoWFactory,
	assign AssignDriverCommandHandler,
	logger *slog.Logger,
) AssignPendingOrdersCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AssignPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		assign:     assign,
		logger:     logger.With("component", "assign-pending-orders"),
	}
}

func (h *AssignPendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AssignPendingOrdersCommand,
) (AssignPendingOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignPendingOrdersResult{}, err
	}

	waiting, err := h.uowFactory.Create().OrderRepository().GetAwaitingDriver(ctx, cmd.Limit())
	if err != nil {
		return AssignPendingOrdersResult{}, err
	}

	res := AssignPendingOrdersResult{Scanned: len(waiting)}
	actor := kernel.SystemActor("assignment-job")
	for _, ord := range waiting {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		assignCmd, cmdErr := NewAssignDriverCommand(ord.ID(), actor)
		if cmdErr != nil {
			return res, cmdErr
		}

		err = h.assign.Handle(ctx, assignCmd)
		switch {
		case err == nil:
			res.Assigned++
		case errors.Is(err, services.ErrDriverUnavailable):
			res.Unassigned++
		case errors.Is(err, errs.ErrVersionConflict):
			// Another dispatcher got there first; the order or driver moved on.
			res.Unassigned++
		default:
			res.Failed++
			h.logger.ErrorContext(ctx, "assign order", "orderId", ord.ID().String(), "error", err)
		}
	}

	return res, nil
}
