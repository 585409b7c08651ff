package commands

import (
	"errors"
	"fmt"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderParams are the checkout inputs of a buyer.
type CreateOrderParams struct {
	Actor          kernel.Actor
	BuyerID        kernel.UUID
	SellerID       kernel.UUID
	WarehouseID    kernel.UUID
	OrderType      kernel.OrderType
	CylinderSize   kernel.CylinderSize
	Quantity       int
	AddOnsTotal    decimal.Decimal
	Urgent         bool
	PaymentMethod  ledger.PaymentMethod
	DeliveryPoint  kernel.Location
	IdempotencyKey string
}

// CreateOrderCommand represents a buyer placing an order for new cylinders or for a supplier
// change. The warehouse stock is reserved in the same transaction that stores the order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderParams{
//	    Actor:         buyer,
//	    BuyerID:       buyerID,
//	    SellerID:      sellerID,
//	    WarehouseID:   warehouseID,
//	    OrderType:     kernel.OrderTypeNew,
//	    CylinderSize:  kernel.Size11_8Kg,
//	    Quantity:      2,
//	    PaymentMethod: ledger.PaymentCash,
//	    DeliveryPoint: point,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	res, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	params CreateOrderParams

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout inputs.
func NewCreateOrderCommand(p CreateOrderParams) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParties(p),
		cmd.setItems(p),
		cmd.setPayment(p),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.params = p
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.params.Actor
}

func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.params.BuyerID
}

func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.params.SellerID
}

func (c CreateOrderCommand) WarehouseID() kernel.UUID {
	return c.params.WarehouseID
}

func (c CreateOrderCommand) OrderType() kernel.OrderType {
	return c.params.OrderType
}

func (c CreateOrderCommand) CylinderSize() kernel.CylinderSize {
	return c.params.CylinderSize
}

func (c CreateOrderCommand) Quantity() int {
	return c.params.Quantity
}

func (c CreateOrderCommand) AddOnsTotal() decimal.Decimal {
	return c.params.AddOnsTotal
}

func (c CreateOrderCommand) Urgent() bool {
	return c.params.Urgent
}

func (c CreateOrderCommand) PaymentMethod() ledger.PaymentMethod {
	return c.params.PaymentMethod
}

func (c CreateOrderCommand) DeliveryPoint() kernel.Location {
	return c.params.DeliveryPoint
}

// IdempotencyKey is empty when the caller did not send one.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.params.IdempotencyKey
}

func (c *CreateOrderCommand) setParties(p CreateOrderParams) error {
	if _, err := kernel.NewActor(p.Actor.ID, p.Actor.Role); err != nil {
		return err
	}
	return errors.Join(
		p.BuyerID.Validate(),
		p.SellerID.Validate(),
		p.WarehouseID.Validate(),
	)
}

func (c *CreateOrderCommand) setItems(p CreateOrderParams) error {
	if p.OrderType != kernel.OrderTypeNew && p.OrderType != kernel.OrderTypeSupplierChange {
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%s orders cannot be placed directly", p.OrderType))
	}
	if err := p.CylinderSize.Validate(); err != nil {
		return err
	}
	if p.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", p.Quantity))
	}
	if p.AddOnsTotal.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("addOnsTotal", fmt.Errorf("%s is negative", p.AddOnsTotal))
	}
	if err := p.DeliveryPoint.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryPoint", err)
	}
	return nil
}

func (c *CreateOrderCommand) setPayment(p CreateOrderParams) error {
	if _, err := ledger.ParsePaymentMethod(string(p.PaymentMethod)); err != nil {
		return err
	}
	return nil
}
