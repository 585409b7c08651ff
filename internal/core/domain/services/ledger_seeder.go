package services

import (
	"time"

	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// LedgerSeeder appends the payment timeline entries of each leg.
type LedgerSeeder struct{}

func NewLedgerSeeder() LedgerSeeder {
	return LedgerSeeder{}
}

// SeedCreation writes the checkout entries. Their sum equals the order's grand total. Online
// payments were captured by the gateway, so their entries start completed.
func (LedgerSeeder) SeedCreation(ord *order.Order, now time.Time) ([]*ledger.Entry, error) {
	p := ord.Pricing()
	method := ord.PaymentMethod()

	drafts := []draft{
		{ledger.TypeSale, ledger.CauseGasAndAddons, p.Subtotal(), ledger.LiabilityRevenue},
		{ledger.TypeOther, ledger.CauseSecurityDeposits, p.SecurityCharges(), ledger.LiabilityLiability},
		{ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, p.DeliveryTotal(), ledger.LiabilityLiability},
	}

	entries, err := appendDrafts(ord, drafts, method, now)
	if err != nil {
		return nil, err
	}

	if method.IsOnline() {
		for _, e := range entries {
			if err = e.Clear(ord.TransactionID(), "", ledger.ProcessedByGateway, now); err != nil {
				return nil, err
			}
		}
	}

	return entries, nil
}

// SeedRefill charges the refill and the pickup trip. Both are collected in cash on pickup.
func (LedgerSeeder) SeedRefill(ord *order.Order, unitPrice decimal.Decimal, now time.Time) ([]*ledger.Entry, error) {
	refill := unitPrice.Mul(decimal.NewFromInt(int64(ord.Quantity())))
	drafts := []draft{
		{ledger.TypeSale, ledger.CauseRefill, refill, ledger.LiabilityRevenue},
		{ledger.TypePickupFee, ledger.CausePickupCharges, ord.Pricing().DeliveryCharges(), ledger.LiabilityLiability},
	}
	return appendDrafts(ord, drafts, ledger.PaymentCash, now)
}

// SeedReturn owes the buyer the security deposit back.
func (LedgerSeeder) SeedReturn(ord *order.Order, now time.Time) ([]*ledger.Entry, error) {
	drafts := []draft{
		{ledger.TypeRefund, ledger.CauseSecurityDeposits, ord.Pricing().SecurityCharges(), ledger.LiabilityRefundable},
	}
	return appendDrafts(ord, drafts, ord.PaymentMethod(), now)
}

type draft struct {
	entryType ledger.EntryType
	cause     string
	amount    decimal.Decimal
	liability ledger.LiabilityType
}

// appendDrafts skips drafts without a positive amount.
func appendDrafts(ord *order.Order, drafts []draft, method ledger.PaymentMethod, now time.Time) ([]*ledger.Entry, error) {
	out := make([]*ledger.Entry, 0, len(drafts))
	for _, d := range drafts {
		if !d.amount.IsPositive() {
			continue
		}
		e, err := ledger.NewEntry(d.entryType, d.cause, d.amount, d.liability, method, now)
		if err != nil {
			return nil, err
		}
		if err = ord.AppendEntry(e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
