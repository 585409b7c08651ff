package ledger

import (
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

// EntryType classifies a timeline entry.
type EntryType string

const (
	TypeSale        EntryType = "sale"
	TypeDeliveryFee EntryType = "delivery_fee"
	TypeRefund      EntryType = "refund"
	TypePickupFee   EntryType = "pickup_fee"
	TypeOther       EntryType = "other"
)

func (t EntryType) Validate() error {
	switch t {
	case TypeSale, TypeDeliveryFee, TypeRefund, TypePickupFee, TypeOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a timeline entry type", string(t)))
	}
}

// LiabilityType says whose money an entry is.
type LiabilityType string

const (
	LiabilityRevenue    LiabilityType = "revenue"
	LiabilityLiability  LiabilityType = "liability"
	LiabilityRefundable LiabilityType = "refundable"
)

func (l LiabilityType) Validate() error {
	switch l {
	case LiabilityRevenue, LiabilityLiability, LiabilityRefundable:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("liabilityType", fmt.Errorf("%q is not a liability type", string(l)))
	}
}

type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
)

func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case StatusPending, StatusCompleted:
		return EntryStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a timeline status", s))
	}
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentWallet:
		return PaymentMethod(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a payment method", s))
	}
}

// IsOnline reports whether money was already captured by the gateway at checkout.
func (m PaymentMethod) IsOnline() bool {
	return m == PaymentCard || m == PaymentWallet
}

// Causes used when seeding timelines.
const (
	CauseGasAndAddons     = "Gas & Addons"
	CauseSecurityDeposits = "Security Deposits"
	CauseDeliveryCharges  = "Delivery Charges"
	CauseRefill           = "Refill"
	CausePickupCharges    = "Pickup Charges"
)

// ProcessedByGateway marks entries settled by the payment gateway at checkout.
const ProcessedByGateway = "payment-gateway"
