package commands

import (
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var ErrRequestReturnCommandIsNotConstructed = errors.New(
	"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
)

// RequestReturnCommand is a buyer rating the order and handing the cylinders back for the deposit.
type RequestReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	rating  int
	review  string
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewRequestReturnCommand(orderID kernel.UUID, rating int, review string, actor kernel.Actor) (RequestReturnCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RequestReturnCommand{}, err
	}
	if rating < order.RatingMin || rating > order.RatingMax {
		return RequestReturnCommand{}, errs.NewValueIsOutOfRangeError("rating", rating, order.RatingMin, order.RatingMax)
	}
	return RequestReturnCommand{
		orderID: orderID,
		rating:  rating,
		review:  review,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}

func (c RequestReturnCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestReturnCommand) Rating() int {
	return c.rating
}

func (c RequestReturnCommand) Review() string {
	return c.review
}

func (c RequestReturnCommand) Actor() kernel.Actor {
	return c.actor
}
