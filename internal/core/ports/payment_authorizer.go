package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	OrderID kernel.UUID
	BuyerID kernel.UUID
	Amount  decimal.Decimal
	Method  ledger.PaymentMethod
}

// PaymentResult is the gateway's opaque answer.
type PaymentResult struct {
	Success       bool
	TransactionID string
}

// PaymentAuthorizer is asked before an order is committed.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}
