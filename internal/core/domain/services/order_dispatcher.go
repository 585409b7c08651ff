package services

import (
	"errors"
	"time"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
)

// ErrDriverUnavailable means no driver covers the order right now. The order stays unassigned.
var ErrDriverUnavailable = errors.New("no available driver covers the delivery point")

type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Dispatch assigns the order to the first suitable driver and marks that driver busy.
func (o OrderDispatcher) Dispatch(ord *order.Order, drivers []*driver.Driver, actor kernel.Actor, now time.Time) (*driver.Driver, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	if !ord.Status().NeedsDriver() {
		return nil, order.NewTransitionIsInvalidError(ord.Status(), "dispatch")
	}

	found, err := o.FindDriver(ord.DeliveryPoint(), drivers)
	if err != nil {
		return nil, err
	}

	if err = Bind(ord, found, actor, now); err != nil {
		return nil, err
	}

	return found, nil
}

// FindDriver returns the first dispatchable driver whose zone contains point.
func (o OrderDispatcher) FindDriver(point kernel.Location, drivers []*driver.Driver) (*driver.Driver, error) {
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}

		if d.IsDispatchable() && d.Covers(point) {
			return d, nil
		}
	}

	return nil, ErrDriverUnavailable
}

// Bind assigns a specific driver, as done by manual admin assignment. Both guards apply.
func Bind(ord *order.Order, d *driver.Driver, actor kernel.Actor, now time.Time) error {
	if _, err := ord.Status().Assign(); err != nil {
		return err
	}

	if err := d.Occupy(ord.ID()); err != nil {
		return err
	}

	return ord.Assign(d.ID(), actor, now)
}
