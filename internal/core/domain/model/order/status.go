package order

import (
	"errors"
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

// Status is the position of an order in its handoff lifecycle.
type Status int

const (
	Unknown Status = iota
	Pending
	Assigned
	Accepted
	QRGenerated
	InTransit
	Delivered
	Completed
	RefillRequested
	RefillPickup
	RefillInStore
	ReturnRequested
	ReturnPickup
	Returned
	Cancelled
)

var (
	// ErrInvalidTransition is the sentinel behind TransitionIsInvalidError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrQRMismatch is returned when the scanned token is not the order's current token.
	ErrQRMismatch = errors.New("qr code does not match")
)

// TransitionIsInvalidError reports an event that the current status does not accept.
type TransitionIsInvalidError struct {
	Current Status
	Event   string
}

func NewTransitionIsInvalidError(current Status, event string) *TransitionIsInvalidError {
	return &TransitionIsInvalidError{Current: current, Event: event}
}

func (e *TransitionIsInvalidError) Error() string {
	return fmt.Sprintf("%s: cannot %s an order in status %s", ErrInvalidTransition, e.Event, e.Current)
}

func (e *TransitionIsInvalidError) Unwrap() error {
	return ErrInvalidTransition
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "unknown",
		Pending:         "pending",
		Assigned:        "assigned",
		Accepted:        "accepted",
		QRGenerated:     "qrgenerated",
		InTransit:       "in_transit",
		Delivered:       "delivered",
		Completed:       "completed",
		RefillRequested: "refill_requested",
		RefillPickup:    "refill_pickup",
		RefillInStore:   "refill_in_store",
		ReturnRequested: "return_requested",
		ReturnPickup:    "return_pickup",
		Returned:        "returned",
		Cancelled:       "cancelled",
	}
}

// ParseStatus accepts the wire form of a status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// NeedsDriver reports whether the dispatcher should look for a driver.
func (s Status) NeedsDriver() bool {
	switch s {
	case Pending, RefillRequested, ReturnRequested, RefillInStore:
		return true
	default:
		return false
	}
}

// ReleasesDriver reports whether reaching s ends the assigned driver's leg.
func (s Status) ReleasesDriver() bool {
	switch s {
	case Delivered, RefillInStore, Completed, Returned, Cancelled:
		return true
	default:
		return false
	}
}

// IsPickupScannable reports whether a matching scan moves the order into transit.
func (s Status) IsPickupScannable() bool {
	switch s {
	case QRGenerated, Assigned, RefillRequested, ReturnRequested, RefillPickup, ReturnPickup:
		return true
	default:
		return false
	}
}

func (s Status) Assign() (Status, error) {
	switch s {
	case Pending, RefillInStore:
		return Assigned, nil
	case RefillRequested:
		return RefillPickup, nil
	case ReturnRequested:
		return ReturnPickup, nil
	default:
		return Unknown, NewTransitionIsInvalidError(s, "assign a driver to")
	}
}

func (s Status) Accept() (Status, error) {
	if s != Assigned {
		return Unknown, NewTransitionIsInvalidError(s, "accept")
	}
	return Accepted, nil
}

func (s Status) GenerateQR() (Status, error) {
	if s != Accepted {
		return Unknown, NewTransitionIsInvalidError(s, "generate a qr code for")
	}
	return QRGenerated, nil
}

func (s Status) Complete() (Status, error) {
	if s != Delivered {
		return Unknown, NewTransitionIsInvalidError(s, "complete")
	}
	return Completed, nil
}

func (s Status) RequestRefill() (Status, error) {
	if s != Delivered && s != Completed {
		return Unknown, NewTransitionIsInvalidError(s, "request a refill for")
	}
	return RefillRequested, nil
}

func (s Status) RequestReturn() (Status, error) {
	if s != Delivered && s != Completed {
		return Unknown, NewTransitionIsInvalidError(s, "request a return for")
	}
	return ReturnRequested, nil
}

func (s Status) MarkReturned() (Status, error) {
	if s != ReturnRequested && s != ReturnPickup {
		return Unknown, NewTransitionIsInvalidError(s, "mark as returned")
	}
	return Returned, nil
}

func (s Status) Cancel() (Status, error) {
	switch s {
	case Pending, Assigned, Accepted, QRGenerated:
		return Cancelled, nil
	default:
		return Unknown, NewTransitionIsInvalidError(s, "cancel")
	}
}
