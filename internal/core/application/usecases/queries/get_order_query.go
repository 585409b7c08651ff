package queries

import (
	"errors"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)

	// ErrForbidden is returned when the caller is not a party to the order.
	ErrForbidden = errors.New("actor may not read this order")
)

// GetOrderQuery reads one order as its buyer, seller, assigned driver or an admin sees it.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if _, err := kernel.NewActor(actor.ID, actor.Role); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

// GetOrderQueryResponse is the read model of an order. Timeline holds only reportable entries.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	BuyerID       kernel.UUID
	SellerID      kernel.UUID
	WarehouseID   kernel.UUID
	DriverID      *kernel.UUID
	OrderType     string
	CylinderSize  string
	Quantity      int
	Status        string
	DeliveryPoint kernel.Location
	QRCode        string
	Pricing       PricingView
	PaymentMethod string
	TransactionID string
	CylinderCodes []string
	Rating        int
	Review        string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	History       []HistoryView
	Timeline      []PaymentView
}

type PricingView struct {
	CylinderPrice     decimal.Decimal
	SecurityCharges   decimal.Decimal
	DeliveryCharges   decimal.Decimal
	UrgentDeliveryFee decimal.Decimal
	AddOnsTotal       decimal.Decimal
	Subtotal          decimal.Decimal
	GrandTotal        decimal.Decimal
}

type HistoryView struct {
	Status    string
	At        time.Time
	ActorID   string
	ActorRole string
	Note      string
}

// PaymentView is one ledger entry on the read side.
type PaymentView struct {
	TimelineID    kernel.UUID
	OrderID       kernel.UUID
	OrderType     string
	Type          string
	Cause         string
	Amount        decimal.Decimal
	Liability     string
	PaymentMethod string
	Status        string
	DriverID      *kernel.UUID
	CreatedAt     time.Time
	ReferenceID   string
	ProcessedBy   string
	ProcessedAt   *time.Time
	Notes         string
}
