package driver

import (
	"errors"
	"fmt"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

	// ErrDriverNotAvailable is returned when occupying a driver that is busy or offline.
	ErrDriverNotAvailable = errors.New("driver is not available")
)

type Driver struct {
	id               kernel.UUID
	name             string
	phone            string
	status           Status
	autoAssignOrders bool
	zone             *Zone
	currentOrderID   *kernel.UUID
	version          int
	guard            guard.ConstructorGuard
}

// NewDriver registers an available driver who accepts automatic assignment.
func NewDriver(id kernel.UUID, name, phone string, zone *Zone) (*Driver, error) {
	return RestoreDriver(id, name, phone, StatusAvailable, true, zone, nil, 1)
}

func RestoreDriver(
	id kernel.UUID,
	name, phone string,
	status Status,
	autoAssignOrders bool,
	zone *Zone,
	currentOrderID *kernel.UUID,
	version int,
) (*Driver, error) {
	d := &Driver{
		phone:            phone,
		autoAssignOrders: autoAssignOrders,
		currentOrderID:   currentOrderID,
		version:          version,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setStatus(status),
		d.setZone(zone),
	); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Phone() string {
	return d.phone
}

func (d *Driver) Status() Status {
	return d.status
}

func (d *Driver) AutoAssignOrders() bool {
	return d.autoAssignOrders
}

func (d *Driver) Zone() *Zone {
	return d.zone
}

func (d *Driver) CurrentOrderID() *kernel.UUID {
	return d.currentOrderID
}

func (d *Driver) Version() int {
	return d.version
}

// IncrementVersion is called by the repository after a successful compare-and-swap write.
func (d *Driver) IncrementVersion() {
	d.version++
}

// IsDispatchable reports whether automatic dispatch may consider this driver.
func (d *Driver) IsDispatchable() bool {
	return d.status == StatusAvailable && d.autoAssignOrders && d.zone != nil
}

// Covers reports whether the driver's zone contains point.
func (d *Driver) Covers(point kernel.Location) bool {
	return d.zone != nil && d.zone.Contains(point)
}

// Occupy marks the driver busy with an order.
func (d *Driver) Occupy(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.status != StatusAvailable {
		return fmt.Errorf("%w: %s is %s", ErrDriverNotAvailable, d.id, d.status)
	}
	id := orderID
	d.status = StatusBusy
	d.currentOrderID = &id
	return nil
}

// Release frees the driver if it is still busy with orderID. It reports whether anything changed.
func (d *Driver) Release(orderID kernel.UUID) bool {
	if d.status != StatusBusy || d.currentOrderID == nil || !d.currentOrderID.IsEqual(orderID) {
		return false
	}
	d.status = StatusAvailable
	d.currentOrderID = nil
	return true
}

func (d *Driver) GoOffline() error {
	if d.status == StatusBusy {
		return fmt.Errorf("%w: finish order %s first", ErrDriverNotAvailable, d.currentOrderID)
	}
	d.status = StatusOffline
	return nil
}

func (d *Driver) GoOnline() {
	if d.status == StatusOffline {
		d.status = StatusAvailable
	}
}

func (d *Driver) SetAutoAssign(enabled bool) {
	d.autoAssignOrders = enabled
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

func (d *Driver) setZone(zone *Zone) error {
	if zone == nil {
		return nil
	}
	if err := zone.Validate(); err != nil {
		return err
	}
	d.zone = zone
	return nil
}
