package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrPaymentDeclined is returned when the gateway refused the charge. Nothing is stored.
	ErrPaymentDeclined = errors.New("payment was not authorized")

	// ErrRequestInProgress is returned for a repeated Idempotency-Key whose first request is still running.
	ErrRequestInProgress = errors.New("a request with this idempotency key is still in progress")
)

// CreateOrderResult describes the stored order. Replayed is set when an Idempotency-Key matched an
// earlier request and no new order was created.
type CreateOrderResult struct {
	OrderID    kernel.UUID
	Status     order.Status
	GrandTotal decimal.Decimal
	Replayed   bool
}

// CreateOrderCommandHandler reserves stock, authorizes the payment and stores the order together
// with its seeded payment timeline, all in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory  UoWFactory
	calculator  services.PriceCalculator
	seeder      services.LedgerSeeder
	payments    ports.PaymentAuthorizer
	idempotency ports.IdempotencyStore
	dispatcher  DriverDispatcher
	effects     Effects
	logger      *slog.Logger
}

// NewCreateOrderCommandHandler wires the handler. idempotency and dispatcher may be nil.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	calculator services.PriceCalculator,
	payments ports.PaymentAuthorizer,
	idempotency ports.IdempotencyStore,
	dispatcher DriverDispatcher,
	effects Effects,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		calculator:  calculator,
		seeder:      services.NewLedgerSeeder(),
		payments:    payments,
		idempotency: idempotency,
		dispatcher:  dispatcher,
		effects:     effects,
		logger:      logger.With("component", "create-order"),
	}
}

// Handle places the order. After the commit it publishes order.created, pushes the ledger to the
// mirror and makes one immediate dispatch attempt; none of these can fail the request.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	if replay, done, err := h.claim(ctx, cmd.IdempotencyKey()); done || err != nil {
		return replay, err
	}

	ord, err := h.create(ctx, cmd)
	if err != nil {
		h.abandon(ctx, cmd.IdempotencyKey())
		return CreateOrderResult{}, err
	}

	if h.idempotency != nil && cmd.IdempotencyKey() != "" {
		if err = h.idempotency.Complete(ctx, cmd.IdempotencyKey(), ord.ID().String()); err != nil {
			h.logger.WarnContext(ctx, "store idempotency key", "error", err, "orderId", ord.ID().String())
		}
	}

	created := newEvent(ports.EventOrderCreated, ord, map[string]any{
		"buyerId":    ord.BuyerID().String(),
		"sellerId":   ord.SellerID().String(),
		"grandTotal": ord.Pricing().GrandTotal().String(),
	})
	h.effects.Publish(ctx, created)
	h.effects.PushLedger(ord)

	result := CreateOrderResult{OrderID: ord.ID(), Status: ord.Status(), GrandTotal: ord.Pricing().GrandTotal()}
	if h.dispatcher != nil {
		if err = h.dispatcher.DispatchOrder(ctx, ord.ID()); err != nil {
			h.logger.InfoContext(ctx, "order left for the assignment job", "orderId", ord.ID().String(), "reason", err)
		}
	}

	return result, nil
}

func (h *CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	inv, err := uow.InventoryRepository().GetForUpdate(ctx, cmd.WarehouseID())
	if err != nil {
		return nil, err
	}
	if !inv.SellerID().IsEqual(cmd.SellerID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("sellerId",
			fmt.Errorf("warehouse %s belongs to another seller", cmd.WarehouseID()))
	}

	pricing, err := h.calculator.Quote(inv, cmd.CylinderSize(), cmd.Quantity(), cmd.OrderType(), cmd.AddOnsTotal(), cmd.Urgent())
	if err != nil {
		return nil, err
	}

	if err = inv.Reserve(cmd.CylinderSize(), cmd.Quantity()); err != nil {
		return nil, err
	}

	orderID := kernel.NewUUID()
	payment, err := h.payments.Authorize(ctx, ports.PaymentRequest{
		OrderID: orderID,
		BuyerID: cmd.BuyerID(),
		Amount:  pricing.GrandTotal(),
		Method:  cmd.PaymentMethod(),
	})
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	if !payment.Success {
		return nil, ErrPaymentDeclined
	}

	now := time.Now()
	ord, err := order.NewOrder(order.NewOrderParams{
		ID:            orderID,
		BuyerID:       cmd.BuyerID(),
		SellerID:      cmd.SellerID(),
		WarehouseID:   cmd.WarehouseID(),
		OrderType:     cmd.OrderType(),
		CylinderSize:  cmd.CylinderSize(),
		Quantity:      cmd.Quantity(),
		DeliveryPoint: cmd.DeliveryPoint(),
		Pricing:       pricing,
		PaymentMethod: cmd.PaymentMethod(),
		TransactionID: payment.TransactionID,
		Actor:         cmd.Actor(),
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	if _, err = h.seeder.SeedCreation(ord, now); err != nil {
		return nil, err
	}

	if err = uow.InventoryRepository().Update(ctx, inv); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Add(ctx, ord); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ord, nil
}

// claim returns done=true when the request must not create an order.
func (h *CreateOrderCommandHandler) claim(ctx context.Context, key string) (CreateOrderResult, bool, error) {
	if h.idempotency == nil || key == "" {
		return CreateOrderResult{}, false, nil
	}

	claimed, existing, err := h.idempotency.Claim(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "idempotency store unavailable, creating without it", "error", err)
		return CreateOrderResult{}, false, nil
	}
	if claimed {
		return CreateOrderResult{}, false, nil
	}
	if existing == "" {
		return CreateOrderResult{}, true, ErrRequestInProgress
	}

	id, err := kernel.UUIDFromString(existing)
	if err != nil {
		return CreateOrderResult{}, true, err
	}
	return h.replay(ctx, id)
}

func (h *CreateOrderCommandHandler) replay(ctx context.Context, id kernel.UUID) (CreateOrderResult, bool, error) {
	ord, err := h.uowFactory.Create().OrderRepository().Get(ctx, id)
	if err != nil {
		return CreateOrderResult{}, true, err
	}
	return CreateOrderResult{
		OrderID:    ord.ID(),
		Status:     ord.Status(),
		GrandTotal: ord.Pricing().GrandTotal(),
		Replayed:   true,
	}, true, nil
}

func (h *CreateOrderCommandHandler) abandon(ctx context.Context, key string) {
	if h.idempotency == nil || key == "" {
		return
	}
	if err := h.idempotency.Abandon(ctx, key); err != nil {
		h.logger.WarnContext(ctx, "release idempotency key", "error", err)
	}
}
