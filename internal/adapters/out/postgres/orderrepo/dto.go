package orderrepo

import (
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BuyerID       uuid.UUID      `gorm:"type:uuid;index;not null"`
	SellerID      uuid.UUID      `gorm:"type:uuid;index;not null"`
	WarehouseID   uuid.UUID      `gorm:"type:uuid;not null"`
	DriverID      *uuid.UUID     `gorm:"type:uuid;index"`
	OrderType     string         `gorm:"size:32;not null"`
	CylinderSize  string         `gorm:"size:16;not null"`
	Quantity      int            `gorm:"not null"`
	DeliveryPoint LocationDTO    `gorm:"embedded;embeddedPrefix:delivery_"`
	Status        string         `gorm:"size:32;index;not null"`
	QRCode        string         `gorm:"column:qr_code;size:64"`
	Pricing       PricingDTO     `gorm:"embedded"`
	PaymentMethod string         `gorm:"size:16;not null"`
	TransactionID string         `gorm:"size:128"`
	CylinderCodes pq.StringArray `gorm:"type:text[]"`
	Rating        int
	Review        string
	Version       int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`

	History  []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Timeline []PaymentEntryDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Earnings []DriverEarningDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LocationDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lng float64 `gorm:"type:double precision"`
}

// PricingDTO stores the grand total next to its parts so read models can filter on it.
type PricingDTO struct {
	CylinderPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SecurityCharges   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DeliveryCharges   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UrgentDeliveryFee decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AddOnsTotal       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GrandTotal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

type StatusHistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Status    string    `gorm:"size:32;not null"`
	At        time.Time `gorm:"not null"`
	ActorID   string    `gorm:"size:64"`
	ActorRole string    `gorm:"size:16"`
	Note      string
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

type PaymentEntryDTO struct {
	TimelineID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Seq           int             `gorm:"not null"`
	EntryType     string          `gorm:"size:32;not null"`
	Cause         string          `gorm:"size:64;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LiabilityType string          `gorm:"size:16;not null"`
	PaymentMethod string          `gorm:"size:16;not null"`
	Status        string          `gorm:"size:16;index;not null"`
	DriverID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false"`
	ReferenceID   string          `gorm:"size:128"`
	ProcessedBy   string          `gorm:"size:64"`
	ProcessedAt   *time.Time
	Notes         string
}

func (PaymentEntryDTO) TableName() string {
	return "payment_timeline_entries"
}

type DriverEarningDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Seq        int             `gorm:"not null"`
	DriverID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	TimelineID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status     string          `gorm:"size:16;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime:false"`
	PaidAt     *time.Time
}

func (DriverEarningDTO) TableName() string {
	return "driver_earnings"
}

func fromDomain(o *order.Order) OrderDTO {
	p := o.Pricing()
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		BuyerID:       o.BuyerID().Bytes(),
		SellerID:      o.SellerID().Bytes(),
		WarehouseID:   o.WarehouseID().Bytes(),
		DriverID:      optionalID(o.DriverID()),
		OrderType:     o.OrderType().String(),
		CylinderSize:  o.CylinderSize().String(),
		Quantity:      o.Quantity(),
		DeliveryPoint: LocationDTO{Lat: o.DeliveryPoint().Lat(), Lng: o.DeliveryPoint().Lng()},
		Status:        o.Status().String(),
		QRCode:        o.QRCode(),
		Pricing: PricingDTO{
			CylinderPrice:     p.CylinderPrice(),
			SecurityCharges:   p.SecurityCharges(),
			DeliveryCharges:   p.DeliveryCharges(),
			UrgentDeliveryFee: p.UrgentDeliveryFee(),
			AddOnsTotal:       p.AddOnsTotal(),
			GrandTotal:        p.GrandTotal(),
		},
		PaymentMethod: string(o.PaymentMethod()),
		TransactionID: o.TransactionID(),
		CylinderCodes: pq.StringArray(o.CylinderCodes()),
		Rating:        o.Rating(),
		Review:        o.Review(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	for i, h := range o.StatusHistory() {
		dto.History = append(dto.History, StatusHistoryDTO{
			OrderID:   dto.ID,
			Seq:       i,
			Status:    h.Status.String(),
			At:        h.At,
			ActorID:   h.Actor.ID,
			ActorRole: string(h.Actor.Role),
			Note:      h.Note,
		})
	}
	for i, e := range o.PaymentTimeline() {
		dto.Timeline = append(dto.Timeline, entryFromDomain(dto.ID, i, e))
	}
	for i, e := range o.DriverEarnings() {
		dto.Earnings = append(dto.Earnings, DriverEarningDTO{
			ID:         e.ID().Bytes(),
			OrderID:    dto.ID,
			Seq:        i,
			DriverID:   e.DriverID().Bytes(),
			TimelineID: e.TimelineID().Bytes(),
			Amount:     e.Amount(),
			Status:     string(e.Status()),
			CreatedAt:  e.CreatedAt(),
			PaidAt:     e.PaidAt(),
		})
	}
	return dto
}

func entryFromDomain(orderID uuid.UUID, seq int, e *ledger.Entry) PaymentEntryDTO {
	return PaymentEntryDTO{
		TimelineID:    e.TimelineID().Bytes(),
		OrderID:       orderID,
		Seq:           seq,
		EntryType:     string(e.Type()),
		Cause:         e.Cause(),
		Amount:        e.Amount(),
		LiabilityType: string(e.Liability()),
		PaymentMethod: string(e.PaymentMethod()),
		Status:        string(e.Status()),
		DriverID:      optionalID(e.DriverID()),
		CreatedAt:     e.CreatedAt(),
		ReferenceID:   e.ReferenceID(),
		ProcessedBy:   e.ProcessedBy(),
		ProcessedAt:   e.ProcessedAt(),
		Notes:         e.Notes(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.BuyerID, dto.SellerID, dto.WarehouseID)
	if err != nil {
		return nil, err
	}
	driverID, err := restoreOptionalID(dto.DriverID)
	if err != nil {
		return nil, err
	}

	orderType, err := kernel.ParseOrderType(dto.OrderType)
	if err != nil {
		return nil, err
	}
	size, err := kernel.ParseCylinderSize(dto.CylinderSize)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	point, err := kernel.NewLocation(dto.DeliveryPoint.Lat, dto.DeliveryPoint.Lng)
	if err != nil {
		return nil, err
	}
	pricing, err := order.NewPricing(
		dto.Pricing.CylinderPrice,
		dto.Pricing.SecurityCharges,
		dto.Pricing.DeliveryCharges,
		dto.Pricing.UrgentDeliveryFee,
		dto.Pricing.AddOnsTotal,
	)
	if err != nil {
		return nil, err
	}
	method, err := ledger.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	history, err := historyToDomain(dto.History)
	if err != nil {
		return nil, err
	}
	timeline, err := timelineToDomain(dto.Timeline)
	if err != nil {
		return nil, err
	}
	earnings, err := earningsToDomain(dto.Earnings)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:              ids[0],
		BuyerID:         ids[1],
		SellerID:        ids[2],
		WarehouseID:     ids[3],
		DriverID:        driverID,
		OrderType:       orderType,
		CylinderSize:    size,
		Quantity:        dto.Quantity,
		DeliveryPoint:   point,
		Status:          status,
		StatusHistory:   history,
		QRCode:          dto.QRCode,
		Pricing:         pricing,
		PaymentMethod:   method,
		TransactionID:   dto.TransactionID,
		PaymentTimeline: timeline,
		DriverEarnings:  earnings,
		CylinderCodes:   []string(dto.CylinderCodes),
		Rating:          dto.Rating,
		Review:          dto.Review,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	})
}

func historyToDomain(rows []StatusHistoryDTO) ([]order.HistoryEntry, error) {
	out := make([]order.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		status, err := order.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		out = append(out, order.HistoryEntry{
			Status: status,
			At:     row.At,
			Actor:  kernel.Actor{ID: row.ActorID, Role: kernel.Role(row.ActorRole)},
			Note:   row.Note,
		})
	}
	return out, nil
}

func timelineToDomain(rows []PaymentEntryDTO) ([]*ledger.Entry, error) {
	out := make([]*ledger.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := entryToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func entryToDomain(row PaymentEntryDTO) (*ledger.Entry, error) {
	id, err := kernel.UUIDFromBytes(row.TimelineID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := restoreOptionalID(row.DriverID)
	if err != nil {
		return nil, err
	}
	status, err := ledger.ParseEntryStatus(row.Status)
	if err != nil {
		return nil, err
	}
	method, err := ledger.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return ledger.RestoreEntry(
		id,
		ledger.EntryType(row.EntryType),
		row.Cause,
		row.Amount,
		ledger.LiabilityType(row.LiabilityType),
		method,
		status,
		driverID,
		row.CreatedAt,
		row.ReferenceID,
		row.ProcessedBy,
		row.ProcessedAt,
		row.Notes,
	)
}

func earningsToDomain(rows []DriverEarningDTO) ([]*ledger.DriverEarning, error) {
	out := make([]*ledger.DriverEarning, 0, len(rows))
	for _, row := range rows {
		ids, err := parseIDs(row.ID, row.DriverID, row.TimelineID)
		if err != nil {
			return nil, err
		}
		e, err := ledger.RestoreDriverEarning(ids[0], ids[1], ids[2], row.Amount, ledger.EarningStatus(row.Status), row.CreatedAt, row.PaidAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Models lists the tables owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&OrderDTO{}, &StatusHistoryDTO{}, &PaymentEntryDTO{}, &DriverEarningDTO{}}
}
