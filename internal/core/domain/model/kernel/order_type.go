package kernel

import (
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

// OrderType says which leg of the cylinder's life an order is currently serving.
// It changes as the order moves: a refill becomes new again once the cylinders are back in store,
// a return becomes refill once the cylinders reach the seller.
type OrderType int

const (
	OrderTypeUnknown OrderType = iota
	OrderTypeNew
	OrderTypeRefill
	OrderTypeReturn
	OrderTypeSupplierChange
)

func getOrderTypeStrings() map[OrderType]string {
	return map[OrderType]string{
		OrderTypeNew:            "new",
		OrderTypeRefill:         "refill",
		OrderTypeReturn:         "return",
		OrderTypeSupplierChange: "supplier_change",
	}
}

func ParseOrderType(s string) (OrderType, error) {
	for t, str := range getOrderTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return OrderTypeUnknown, errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%q is not a known order type", s))
}

func (t OrderType) Validate() error {
	if _, ok := getOrderTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

func (t OrderType) String() string {
	if str, ok := getOrderTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
