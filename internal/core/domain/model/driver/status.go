package driver

import (
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusBusy
	StatusOffline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusAvailable: "available",
		StatusBusy:      "busy",
		StatusOffline:   "offline",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a driver status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a driver status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
