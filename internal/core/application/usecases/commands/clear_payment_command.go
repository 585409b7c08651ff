package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var ErrClearPaymentCommandIsNotConstructed = errors.New(
	"ClearPaymentCommand must be created via NewClearPaymentCommand constructor",
)

// ClearPaymentCommand settles one pending timeline entry. ProcessedBy names who settled it: an
// admin, or the mirror reconciliation.
type ClearPaymentCommand struct { //nolint:recvcheck //using for validation
	timelineID  kernel.UUID
	referenceID string
	notes       string
	processedBy string

	guard guard.ConstructorGuard
}

func NewClearPaymentCommand(timelineID kernel.UUID, referenceID, notes, processedBy string) (ClearPaymentCommand, error) {
	if err := timelineID.Validate(); err != nil {
		return ClearPaymentCommand{}, err
	}
	if processedBy == "" {
		return ClearPaymentCommand{}, errs.NewValueIsRequiredError("processedBy")
	}
	return ClearPaymentCommand{
		timelineID:  timelineID,
		referenceID: referenceID,
		notes:       notes,
		processedBy: processedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ClearPaymentCommand) Validate() error {
	return c.guard.Validate(ErrClearPaymentCommandIsNotConstructed)
}

func (c ClearPaymentCommand) TimelineID() kernel.UUID {
	return c.timelineID
}

func (c ClearPaymentCommand) ReferenceID() string {
	return c.referenceID
}

func (c ClearPaymentCommand) Notes() string {
	return c.notes
}

func (c ClearPaymentCommand) ProcessedBy() string {
	return c.processedBy
}
