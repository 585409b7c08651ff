package http

import (
	"time"

	"gasdelivery/internal/core/application/usecases/queries"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response. Status carries the order's current status when a
// transition was refused.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateOrderRequest struct {
	BuyerID       uuid.UUID       `json:"buyerId"`
	SellerID      uuid.UUID       `json:"sellerId"`
	WarehouseID   uuid.UUID       `json:"warehouseId"`
	CylinderSize  string          `json:"cylinderSize"`
	Quantity      int             `json:"quantity"`
	OrderType     string          `json:"orderType"`
	AddOnsTotal   decimal.Decimal `json:"addOnsTotal"`
	Urgent        bool            `json:"urgent"`
	PaymentMethod string          `json:"paymentMethod"`
	DeliveryPoint Location        `json:"deliveryPoint"`
}

type CreateOrderResponse struct {
	OrderID    uuid.UUID `json:"orderId"`
	Status     string    `json:"status"`
	GrandTotal string    `json:"grandTotal"`
	Replayed   bool      `json:"replayed"`
}

type OrderRef struct {
	OrderID uuid.UUID `json:"orderId"`
}

type ReturnRequest struct {
	OrderID uuid.UUID `json:"orderId"`
	Rating  int       `json:"rating"`
	Review  string    `json:"review"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type AcceptRequest struct {
	CylinderCodes []string `json:"cylinderCodes"`
}

type ScanRequest struct {
	Code string `json:"code"`
}

type AssignRequest struct {
	DriverID uuid.UUID `json:"driverId"`
}

type ClearPaymentRequest struct {
	ReferenceID string `json:"referenceId"`
	Notes       string `json:"notes"`
}

type SyncWebhookRequest struct {
	SystemID    string `json:"systemId"`
	Status      string `json:"status"`
	ReferenceID string `json:"referenceId"`
}

type SyncWebhookResponse struct {
	Applied bool `json:"applied"`
}

type SyncResponse struct {
	Seen    int `json:"seen"`
	Cleared int `json:"cleared"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type OrderStatus struct {
	OrderID   uuid.UUID `json:"orderId"`
	Status    string    `json:"status"`
	OrderType string    `json:"orderType,omitempty"`
}

type QRCode struct {
	OrderID uuid.UUID `json:"orderId"`
	QRCode  string    `json:"qrCode"`
}

type Pricing struct {
	CylinderPrice     string `json:"cylinderPrice"`
	SecurityCharges   string `json:"securityCharges"`
	DeliveryCharges   string `json:"deliveryCharges"`
	UrgentDeliveryFee string `json:"urgentDeliveryFee"`
	AddOnsTotal       string `json:"addOnsTotal"`
	Subtotal          string `json:"subtotal"`
	GrandTotal        string `json:"grandTotal"`
}

type HistoryEntry struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorID   string    `json:"actorId"`
	ActorRole string    `json:"actorRole"`
	Note      string    `json:"note,omitempty"`
}

type Payment struct {
	TimelineID    uuid.UUID  `json:"timelineId"`
	OrderID       uuid.UUID  `json:"orderId"`
	OrderType     string     `json:"orderType,omitempty"`
	Type          string     `json:"type"`
	Cause         string     `json:"cause"`
	Amount        string     `json:"amount"`
	Liability     string     `json:"liability"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	DriverID      *uuid.UUID `json:"driverId"`
	CreatedAt     time.Time  `json:"createdAt"`
	ReferenceID   string     `json:"referenceId"`
	ProcessedBy   string     `json:"processedBy"`
	ProcessedAt   *time.Time `json:"processedAt"`
	Notes         string     `json:"notes"`
}

type Order struct {
	ID            uuid.UUID      `json:"id"`
	BuyerID       uuid.UUID      `json:"buyerId"`
	SellerID      uuid.UUID      `json:"sellerId"`
	WarehouseID   uuid.UUID      `json:"warehouseId"`
	DriverID      *uuid.UUID     `json:"driverId"`
	OrderType     string         `json:"orderType"`
	CylinderSize  string         `json:"cylinderSize"`
	Quantity      int            `json:"quantity"`
	Status        string         `json:"status"`
	DeliveryPoint Location       `json:"deliveryPoint"`
	QRCode        string         `json:"qrCode,omitempty"`
	Pricing       Pricing        `json:"pricing"`
	PaymentMethod string         `json:"paymentMethod"`
	TransactionID string         `json:"transactionId,omitempty"`
	CylinderCodes []string       `json:"cylinderCodes"`
	Rating        int            `json:"rating,omitempty"`
	Review        string         `json:"review,omitempty"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	History       []HistoryEntry `json:"history"`
	Timeline      []Payment      `json:"timeline"`
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.Bytes()
	return &v
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toPayment(p queries.PaymentView) Payment {
	return Payment{
		TimelineID:    p.TimelineID.Bytes(),
		OrderID:       p.OrderID.Bytes(),
		OrderType:     p.OrderType,
		Type:          p.Type,
		Cause:         p.Cause,
		Amount:        money(p.Amount),
		Liability:     p.Liability,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		DriverID:      optionalUUID(p.DriverID),
		CreatedAt:     p.CreatedAt,
		ReferenceID:   p.ReferenceID,
		ProcessedBy:   p.ProcessedBy,
		ProcessedAt:   p.ProcessedAt,
		Notes:         p.Notes,
	}
}

func toOrder(o queries.GetOrderQueryResponse) Order {
	history := make([]HistoryEntry, len(o.History))
	for i, h := range o.History {
		history[i] = HistoryEntry{Status: h.Status, At: h.At, ActorID: h.ActorID, ActorRole: h.ActorRole, Note: h.Note}
	}
	timeline := make([]Payment, len(o.Timeline))
	for i, p := range o.Timeline {
		timeline[i] = toPayment(p)
	}
	codes := o.CylinderCodes
	if codes == nil {
		codes = []string{}
	}

	return Order{
		ID:            o.ID.Bytes(),
		BuyerID:       o.BuyerID.Bytes(),
		SellerID:      o.SellerID.Bytes(),
		WarehouseID:   o.WarehouseID.Bytes(),
		DriverID:      optionalUUID(o.DriverID),
		OrderType:     o.OrderType,
		CylinderSize:  o.CylinderSize,
		Quantity:      o.Quantity,
		Status:        o.Status,
		DeliveryPoint: Location{Lat: o.DeliveryPoint.Lat(), Lng: o.DeliveryPoint.Lng()},
		QRCode:        o.QRCode,
		Pricing: Pricing{
			CylinderPrice:     money(o.Pricing.CylinderPrice),
			SecurityCharges:   money(o.Pricing.SecurityCharges),
			DeliveryCharges:   money(o.Pricing.DeliveryCharges),
			UrgentDeliveryFee: money(o.Pricing.UrgentDeliveryFee),
			AddOnsTotal:       money(o.Pricing.AddOnsTotal),
			Subtotal:          money(o.Pricing.Subtotal),
			GrandTotal:        money(o.Pricing.GrandTotal),
		},
		PaymentMethod: o.PaymentMethod,
		TransactionID: o.TransactionID,
		CylinderCodes: codes,
		Rating:        o.Rating,
		Review:        o.Review,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		History:       history,
		Timeline:      timeline,
	}
}
