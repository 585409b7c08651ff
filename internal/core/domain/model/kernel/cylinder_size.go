package kernel

import (
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

// CylinderSize is one of the four sizes the marketplace trades.
type CylinderSize int

const (
	SizeUnknown CylinderSize = iota
	Size15Kg
	Size11_8Kg
	Size6Kg
	Size4_5Kg
)

// CylinderSizes lists the tradable sizes in catalogue order.
func CylinderSizes() []CylinderSize {
	return []CylinderSize{Size15Kg, Size11_8Kg, Size6Kg, Size4_5Kg}
}

func getCylinderSizeStrings() map[CylinderSize]string {
	return map[CylinderSize]string{
		Size15Kg:   "15kg",
		Size11_8Kg: "11.8kg",
		Size6Kg:    "6kg",
		Size4_5Kg:  "4.5kg",
	}
}

// ParseCylinderSize accepts the wire form ("15kg", "11.8kg", "6kg", "4.5kg").
func ParseCylinderSize(s string) (CylinderSize, error) {
	for size, str := range getCylinderSizeStrings() {
		if str == s {
			return size, nil
		}
	}
	return SizeUnknown, errs.NewValueIsInvalidErrorWithCause("cylinderSize", fmt.Errorf("%q is not a known size", s))
}

func (s CylinderSize) Validate() error {
	if _, ok := getCylinderSizeStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("cylinderSize", fmt.Errorf("%d is not a valid size", s))
	}
	return nil
}

func (s CylinderSize) String() string {
	if str, ok := getCylinderSizeStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Kg returns the nominal filling weight.
func (s CylinderSize) Kg() float64 {
	switch s {
	case Size15Kg:
		return 15
	case Size11_8Kg:
		return 11.8
	case Size6Kg:
		return 6
	case Size4_5Kg:
		return 4.5
	default:
		return 0
	}
}
