package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"
)

// ErrForbidden is returned when the actor is not a party to the order.
var ErrForbidden = errors.New("actor may not act on this order")

// MirrorPusher queues an order's ledger for the external mirror. It must not block.
type MirrorPusher interface {
	Push(ord *order.Order)
}

// DriverDispatcher tries to assign a driver to one order right away.
type DriverDispatcher interface {
	DispatchOrder(ctx context.Context, orderID kernel.UUID) error
}

// Effects bundles what happens after a commit. Every member is best effort.
type Effects struct {
	publisher ports.EventPublisher
	mirror    MirrorPusher
	logger    *slog.Logger
}

func NewEffects(publisher ports.EventPublisher, mirror MirrorPusher, logger *slog.Logger) Effects {
	if logger == nil {
		logger = slog.Default()
	}
	return Effects{publisher: publisher, mirror: mirror, logger: logger.With("component", "command-effects")}
}

// OrderChanged publishes a status change for ord and pushes its ledger to the mirror.
func (e Effects) OrderChanged(ctx context.Context, ord *order.Order, extra ...ports.Event) {
	events := append([]ports.Event{statusChangedEvent(ord)}, extra...)
	e.Publish(ctx, events...)
	e.PushLedger(ord)
}

func (e Effects) Publish(ctx context.Context, events ...ports.Event) {
	if e.publisher == nil || len(events) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, events...); err != nil {
		e.logger.WarnContext(ctx, "publish events", "error", err, "count", len(events), "type", events[0].Type)
	}
}

func (e Effects) PushLedger(ord *order.Order) {
	if e.mirror != nil {
		e.mirror.Push(ord)
	}
}

func newEvent(eventType string, ord *order.Order, data map[string]any) ports.Event {
	if data == nil {
		data = map[string]any{}
	}
	data["orderId"] = ord.ID().String()
	data["status"] = ord.Status().String()
	data["orderType"] = ord.OrderType().String()
	return ports.Event{
		ID:         kernel.NewUUID().String(),
		Type:       eventType,
		Key:        ord.ID().String(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func statusChangedEvent(ord *order.Order) ports.Event {
	data := map[string]any{"buyerId": ord.BuyerID().String(), "sellerId": ord.SellerID().String()}
	if ord.DriverID() != nil {
		data["driverId"] = ord.DriverID().String()
	}
	return newEvent(ports.EventOrderStatusChanged, ord, data)
}

func driverAssignedEvent(ord *order.Order, d *driver.Driver) ports.Event {
	return newEvent(ports.EventDriverAssigned, ord, map[string]any{
		"driverId":   d.ID().String(),
		"driverName": d.Name(),
	})
}

// releaseDriver frees the order's driver once the order reached a status that ends the leg.
func releaseDriver(ctx context.Context, repo ports.DriverRepository, ord *order.Order) error {
	if !ord.Status().ReleasesDriver() || ord.DriverID() == nil {
		return nil
	}

	d, err := repo.Get(ctx, *ord.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if d.Release(ord.ID()) {
		return repo.Update(ctx, d)
	}
	return nil
}

// releaseStock puts the order's cylinders back into its warehouse.
func releaseStock(ctx context.Context, repo ports.InventoryRepository, ord *order.Order) error {
	inv, err := repo.GetForUpdate(ctx, ord.WarehouseID())
	if err != nil {
		return err
	}
	if err = inv.Release(ord.CylinderSize(), ord.Quantity()); err != nil {
		return err
	}
	return repo.Update(ctx, inv)
}

func ensureBuyer(ord *order.Order, actor kernel.Actor) error {
	if actor.Role == kernel.RoleAdmin || actor.Role == kernel.RoleSystem {
		return nil
	}
	if actor.Role != kernel.RoleBuyer || actor.ID != ord.BuyerID().String() {
		return ErrForbidden
	}
	return nil
}

func ensureSeller(ord *order.Order, actor kernel.Actor) error {
	if actor.Role == kernel.RoleAdmin || actor.Role == kernel.RoleSystem {
		return nil
	}
	if actor.Role != kernel.RoleSeller || actor.ID != ord.SellerID().String() {
		return ErrForbidden
	}
	return nil
}

// ensureDriver lets the driver act only on orders assigned to them, or on unassigned pickups.
func ensureDriver(ord *order.Order, driverID kernel.UUID) error {
	if ord.DriverID() != nil && !ord.DriverID().IsEqual(driverID) {
		return order.ErrDriverMismatch
	}
	return nil
}
