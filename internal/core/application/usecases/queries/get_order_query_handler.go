package queries

import (
	"context"
	"database/sql"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads orders straight from the tables, bypassing the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}
	db := h.db.WithContext(ctx)

	resp, err := h.readOrder(db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !canRead(query.Actor(), resp) {
		return GetOrderQueryResponse{}, ErrForbidden
	}
	if query.Actor().Role == kernel.RoleDriver {
		resp.QRCode = ""
	}

	if resp.History, err = h.readHistory(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	timeline, err := scanPayments(db.Raw(paymentsSelect+`
		WHERE p.order_id = ?
		ORDER BY p.seq
	`, query.OrderID().Bytes()))
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Timeline = timeline

	return resp, nil
}

func canRead(actor kernel.Actor, o GetOrderQueryResponse) bool {
	switch actor.Role {
	case kernel.RoleAdmin, kernel.RoleSystem:
		return true
	case kernel.RoleBuyer:
		return actor.ID == o.BuyerID.String()
	case kernel.RoleSeller:
		return actor.ID == o.SellerID.String()
	case kernel.RoleDriver:
		return o.DriverID != nil && actor.ID == o.DriverID.String()
	default:
		return false
	}
}

func (h GetOrderQueryHandler) readOrder(db *gorm.DB, id kernel.UUID) (GetOrderQueryResponse, error) {
	rows, err := db.Raw(`
		SELECT
			id, buyer_id, seller_id, warehouse_id, driver_id,
			order_type, cylinder_size, quantity, status,
			delivery_lat, delivery_lng, qr_code,
			cylinder_price, security_charges, delivery_charges, urgent_delivery_fee, add_ons_total, grand_total,
			payment_method, transaction_id, cylinder_codes, rating, review, version, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, id.Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", id.String())
	}

	var (
		resp                                  GetOrderQueryResponse
		orderID, buyerID, sellerID, warehouse uuid.UUID
		driverID                              uuid.NullUUID
		lat, lng                              float64
		codes                                 pq.StringArray
		qrCode, transactionID, review         sql.NullString
	)
	err = rows.Scan(
		&orderID, &buyerID, &sellerID, &warehouse, &driverID,
		&resp.OrderType, &resp.CylinderSize, &resp.Quantity, &resp.Status,
		&lat, &lng, &qrCode,
		&resp.Pricing.CylinderPrice, &resp.Pricing.SecurityCharges, &resp.Pricing.DeliveryCharges,
		&resp.Pricing.UrgentDeliveryFee, &resp.Pricing.AddOnsTotal, &resp.Pricing.GrandTotal,
		&resp.PaymentMethod, &transactionID, &codes, &resp.Rating, &review, &resp.Version, &resp.CreatedAt, &resp.UpdatedAt,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.WarehouseID, err = kernel.UUIDFromBytes(warehouse[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DriverID, err = nullableID(driverID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DeliveryPoint, err = kernel.NewLocation(lat, lng); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Pricing.Subtotal = resp.Pricing.CylinderPrice.Add(resp.Pricing.AddOnsTotal)
	resp.QRCode = qrCode.String
	resp.TransactionID = transactionID.String
	resp.Review = review.String
	resp.CylinderCodes = []string(codes)
	return resp, nil
}

func (h GetOrderQueryHandler) readHistory(db *gorm.DB, id kernel.UUID) ([]HistoryView, error) {
	rows, err := db.Raw(`
		SELECT status, at, actor_id, actor_role, note
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]HistoryView, 0)
	for rows.Next() {
		var item HistoryView
		var note sql.NullString
		if err = rows.Scan(&item.Status, &item.At, &item.ActorID, &item.ActorRole, &note); err != nil {
			return nil, err
		}
		item.Note = note.String
		history = append(history, item)
	}
	return history, rows.Err()
}

const paymentsSelect = `
	SELECT
		p.timeline_id, p.order_id, o.order_type, p.entry_type, p.cause, p.amount, p.liability_type,
		p.payment_method, p.status, p.driver_id, p.created_at, p.reference_id, p.processed_by,
		p.processed_at, p.notes
	FROM payment_timeline_entries p
	JOIN orders o ON o.id = p.order_id`

// scanPayments runs query and keeps only entries the projection rule reports.
func scanPayments(query *gorm.DB) ([]PaymentView, error) {
	rows, err := query.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]PaymentView, 0)
	for rows.Next() {
		var (
			v                               PaymentView
			timelineID, orderID             uuid.UUID
			driverID                        uuid.NullUUID
			referenceID, processedBy, notes sql.NullString
			processedAt                     sql.NullTime
		)
		err = rows.Scan(
			&timelineID, &orderID, &v.OrderType, &v.Type, &v.Cause, &v.Amount, &v.Liability,
			&v.PaymentMethod, &v.Status, &driverID, &v.CreatedAt, &referenceID, &processedBy,
			&processedAt, &notes,
		)
		if err != nil {
			return nil, err
		}

		orderType, err := kernel.ParseOrderType(v.OrderType)
		if err != nil {
			return nil, err
		}
		if !ledger.IsReportableKind(ledger.EntryType(v.Type), v.Cause, orderType) {
			continue
		}

		if v.TimelineID, err = kernel.UUIDFromBytes(timelineID[:]); err != nil {
			return nil, err
		}
		if v.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if v.DriverID, err = nullableID(driverID); err != nil {
			return nil, err
		}
		v.ReferenceID = referenceID.String
		v.ProcessedBy = processedBy.String
		v.Notes = notes.String
		if processedAt.Valid {
			at := processedAt.Time
			v.ProcessedAt = &at
		}
		payments = append(payments, v)
	}
	return payments, rows.Err()
}

func nullableID(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
