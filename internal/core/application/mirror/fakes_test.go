package mirror_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	buyerID = kernel.MustUUIDFromString("6f1c3a52-8f0e-4d7b-9a51-2d3c4b5a6e70")
)

// memTable is an in-memory sheet that counts writes.
type memTable struct {
	mu     sync.Mutex
	views  map[ports.MirrorView][]ports.MirrorRow
	writes int
	fail   error
}

func newMemTable() *memTable {
	return &memTable{views: map[ports.MirrorView][]ports.MirrorRow{}}
}

func (t *memTable) List(_ context.Context, view ports.MirrorView) ([]ports.MirrorRow, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail != nil {
		return nil, t.fail
	}
	return slices.Clone(t.views[view]), nil
}

func (t *memTable) Append(_ context.Context, view ports.MirrorView, rows ...ports.MirrorRow) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes++
	t.views[view] = append(t.views[view], rows...)
	return nil
}

func (t *memTable) Update(_ context.Context, view ports.MirrorView, row ports.MirrorRow) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes++
	for i, r := range t.views[view] {
		if r.SystemID == row.SystemID {
			t.views[view][i] = row
			return nil
		}
	}
	return errors.New("row not found")
}

func (t *memTable) Delete(_ context.Context, view ports.MirrorView, systemID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes++
	t.views[view] = slices.DeleteFunc(t.views[view], func(r ports.MirrorRow) bool { return r.SystemID == systemID })
	return nil
}

func (t *memTable) Replace(_ context.Context, view ports.MirrorView, rows []ports.MirrorRow) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes++
	t.views[view] = slices.Clone(rows)
	return nil
}

func (t *memTable) rows(view ports.MirrorView) []ports.MirrorRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.views[view])
}

func (t *memTable) writeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes
}

type people map[kernel.UUID]ports.Person

func (p people) Find(_ context.Context, id kernel.UUID) (ports.Person, error) {
	if person, ok := p[id]; ok {
		return person, nil
	}
	return ports.Person{}, errs.NewObjectNotFoundError("person", id.String())
}

// memOrders is the order store; ClearPayment mutates it like the command handler would.
type memOrders struct {
	orders []*order.Order
}

func (m *memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	for _, o := range m.orders {
		if o.ID() == id {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (m *memOrders) GetAll(_ context.Context, fn func(*order.Order) error) error {
	for _, o := range m.orders {
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}

func (m *memOrders) ClearPayment(_ context.Context, timelineID kernel.UUID, referenceID, notes, processedBy string) error {
	for _, o := range m.orders {
		if _, err := o.FindEntry(timelineID); err == nil {
			_, err = o.ClearPayment(timelineID, referenceID, notes, processedBy, now)
			return err
		}
	}
	return errs.NewObjectNotFoundError("timelineId", timelineID.String())
}

// newOrder is a cash order with sale 5900, deposit 3000 and delivery 250.
func newOrder(t *testing.T) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(
		decimal.NewFromInt(5900), decimal.NewFromInt(3000), decimal.NewFromInt(250), decimal.Zero, decimal.Zero,
	)
	require.NoError(t, err)
	point, err := kernel.NewLocation(24.8607, 67.0011)
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:            kernel.NewUUID(),
		BuyerID:       buyerID,
		SellerID:      kernel.NewUUID(),
		WarehouseID:   kernel.NewUUID(),
		OrderType:     kernel.OrderTypeNew,
		CylinderSize:  kernel.Size11_8Kg,
		Quantity:      2,
		DeliveryPoint: point,
		Pricing:       pricing,
		PaymentMethod: ledger.PaymentCash,
		Actor:         kernel.Actor{ID: buyerID.String(), Role: kernel.RoleBuyer},
		Now:           now,
	})
	require.NoError(t, err)
	_, err = services.NewLedgerSeeder().SeedCreation(o, now)
	require.NoError(t, err)
	return o
}

// returnOrder walks an order to return_requested so its deposit and delivery rows become visible.
func returnOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t)
	driverID := kernel.NewUUID()
	driver := kernel.Actor{ID: driverID.String(), Role: kernel.RoleDriver}
	require.NoError(t, o.Assign(driverID, kernel.SystemActor("dispatcher"), now))
	require.NoError(t, o.Accept(driverID, []string{"CYL-A", "CYL-B"}, driver, now))
	_, err := o.GenerateQR(driver, now)
	require.NoError(t, err)
	require.NoError(t, o.ScanQR(order.QRGenerated, o.QRCode(), driver, now))
	require.NoError(t, o.ScanQR(order.InTransit, o.QRCode(), driver, now))
	require.NoError(t, o.RequestReturn(4, "", kernel.Actor{ID: buyerID.String(), Role: kernel.RoleBuyer}, now))
	_, err = services.NewLedgerSeeder().SeedReturn(o, now)
	require.NoError(t, err)
	return o
}

func systemIDs(rows []ports.MirrorRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SystemID)
	}
	return ids
}
