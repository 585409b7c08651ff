package commands

import (
	"errors"
	"fmt"

	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var ErrAssignPendingOrdersCommandIsNotConstructed = errors.New(
	"AssignPendingOrdersCommand must be created via NewAssignPendingOrdersCommand constructor",
)

// AssignPendingOrdersCommand retries dispatch for up to Limit orders still waiting for a driver.
type AssignPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

func NewAssignPendingOrdersCommand(limit int) (AssignPendingOrdersCommand, error) {
	if limit <= 0 {
		return AssignPendingOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("limit",
			fmt.Errorf("%d is not greater than 0", limit))
	}
	return AssignPendingOrdersCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c AssignPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingOrdersCommandIsNotConstructed)
}

func (c AssignPendingOrdersCommand) Limit() int {
	return c.limit
}
