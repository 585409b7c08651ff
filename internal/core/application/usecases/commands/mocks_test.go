package commands_test

import (
	"context"
	"testing"
	"time"

	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByTimelineID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	o, _ := args.Get(0).([]*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context, fn func(*order.Order) error) error {
	return m.Called(ctx, fn).Error(0)
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Add(ctx context.Context, i *inventory.Inventory) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInventoryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*inventory.Inventory)
	return i, args.Error(1)
}

func (m *MockInventoryRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*inventory.Inventory)
	return i, args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, i *inventory.Inventory) error {
	return m.Called(ctx, i).Error(0)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*driver.Driver)
	return d, args.Error(1)
}

func (m *MockDriverRepository) GetDispatchable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]*driver.Driver)
	return d, args.Error(1)
}

type MockCylinderRepository struct{ mock.Mock }

func (m *MockCylinderRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*cylinder.Cylinder, error) {
	args := m.Called(ctx, codes)
	c, _ := args.Get(0).(map[string]*cylinder.Cylinder)
	return c, args.Error(1)
}

func (m *MockCylinderRepository) GetByOrder(ctx context.Context, id kernel.UUID) ([]*cylinder.Cylinder, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).([]*cylinder.Cylinder)
	return c, args.Error(1)
}

func (m *MockCylinderRepository) Save(ctx context.Context, cylinders ...*cylinder.Cylinder) error {
	return m.Called(ctx, cylinders).Error(0)
}

// MockUoW hands out the repositories it was built with.
type MockUoW struct {
	mock.Mock

	orders    *MockOrderRepository
	inventory *MockInventoryRepository
	drivers   *MockDriverRepository
	cylinders *MockCylinderRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:    new(MockOrderRepository),
		inventory: new(MockInventoryRepository),
		drivers:   new(MockDriverRepository),
		cylinders: new(MockCylinderRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository         { return m.orders }
func (m *MockUoW) InventoryRepository() ports.InventoryRepository { return m.inventory }
func (m *MockUoW) DriverRepository() ports.DriverRepository       { return m.drivers }
func (m *MockUoW) CylinderRepository() ports.CylinderRepository   { return m.cylinders }

// expectTx sets up a transaction that is expected to commit (or not) and always rolls back.
func (m *MockUoW) expectTx(ctx context.Context, commit bool) {
	m.On("Begin", ctx).Return(nil)
	if commit {
		m.On("Commit", ctx).Return(nil).Once()
	}
	m.On("Rollback", ctx).Return(nil)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

func factoryOf(uows ...*MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	for _, u := range uows {
		f.On("Create").Return(u).Once()
	}
	return f
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...ports.Event) error {
	return m.Called(ctx, events).Error(0)
}

// eventTypes collects the types of every event published so far.
func (m *MockEventPublisher) eventTypes() []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, e := range call.Arguments.Get(1).([]ports.Event) {
			out = append(out, e.Type)
		}
	}
	return out
}

type MockMirrorPusher struct{ mock.Mock }

func (m *MockMirrorPusher) Push(o *order.Order) {
	m.Called(o)
}

type MockPaymentAuthorizer struct{ mock.Mock }

func (m *MockPaymentAuthorizer) Authorize(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

type MockIdempotencyStore struct{ mock.Mock }

func (m *MockIdempotencyStore) Claim(ctx context.Context, key string) (bool, string, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return m.Called(ctx, key, orderID).Error(0)
}

func (m *MockIdempotencyStore) Abandon(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) DispatchOrder(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// quietEffects publishes into mocks that accept anything.
func quietEffects() (commands.Effects, *MockEventPublisher, *MockMirrorPusher) {
	pub := new(MockEventPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	mirror := new(MockMirrorPusher)
	mirror.On("Push", mock.Anything).Return()
	return commands.NewEffects(pub, mirror, nil), pub, mirror
}

var (
	buyerID   = kernel.MustUUIDFromString("6f1c2a8e-3b4d-4c5e-8f90-1a2b3c4d5e6f")
	sellerID  = kernel.MustUUIDFromString("0b9e8d7c-6a5f-4e3d-9c2b-1a0f9e8d7c6b")
	warehouse = kernel.MustUUIDFromString("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")

	buyer    = kernel.Actor{ID: buyerID.String(), Role: kernel.RoleBuyer}
	seller   = kernel.Actor{ID: sellerID.String(), Role: kernel.RoleSeller}
	admin    = kernel.Actor{ID: "admin-1", Role: kernel.RoleAdmin}
	earlier  = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	karachi  = mustLocation(24.8607, 67.0011)
	farPoint = mustLocation(31.5204, 74.3587)
)

func mustLocation(lat, lng float64) kernel.Location {
	l, err := kernel.NewLocation(lat, lng)
	if err != nil {
		panic(err)
	}
	return l
}

func newStock(t *testing.T, qty int, price int64) inventory.Stock {
	t.Helper()
	s, err := inventory.NewStock(qty, decimal.NewFromInt(price))
	require.NoError(t, err)
	return s
}

// newWarehouse stocks qty cylinders of 11.8kg at 2950 each.
func newWarehouse(t *testing.T, qty int) *inventory.Inventory {
	t.Helper()
	empty := newStock(t, 0, 0)
	inv, err := inventory.NewInventory(warehouse, sellerID, decimal.NewFromInt(250),
		inventory.NewCylinders(empty, newStock(t, qty, 2950), empty, empty))
	require.NoError(t, err)
	return inv
}

func newPendingOrder(t *testing.T, qty int) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(
		decimal.NewFromInt(2950*int64(qty)),
		decimal.NewFromInt(1500*int64(qty)),
		decimal.NewFromInt(250),
		decimal.Zero,
		decimal.Zero,
	)
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:            kernel.NewUUID(),
		BuyerID:       buyerID,
		SellerID:      sellerID,
		WarehouseID:   warehouse,
		OrderType:     kernel.OrderTypeNew,
		CylinderSize:  kernel.Size11_8Kg,
		Quantity:      qty,
		DeliveryPoint: karachi,
		Pricing:       pricing,
		PaymentMethod: "cash",
		Actor:         buyer,
		Now:           earlier,
	})
	require.NoError(t, err)
	return o
}

func newDriver(t *testing.T, center kernel.Location) *driver.Driver {
	t.Helper()
	zone, err := driver.NewCircleZone(center, 10)
	require.NoError(t, err)
	d, err := driver.NewDriver(kernel.NewUUID(), "Imran", "+92300000000", &zone)
	require.NoError(t, err)
	return d
}

func driverActor(d *driver.Driver) kernel.Actor {
	return kernel.Actor{ID: d.ID().String(), Role: kernel.RoleDriver}
}

// assignedOrder returns a pending order bound to a fresh driver.
func assignedOrder(t *testing.T, qty int) (*order.Order, *driver.Driver) {
	t.Helper()
	o := newPendingOrder(t, qty)
	d := newDriver(t, karachi)
	require.NoError(t, d.Occupy(o.ID()))
	require.NoError(t, o.Assign(d.ID(), kernel.SystemActor("dispatcher"), earlier))
	return o, d
}

// qrOrder is an order waiting for the pickup scan.
func qrOrder(t *testing.T, qty int) (*order.Order, *driver.Driver) {
	t.Helper()
	o, d := assignedOrder(t, qty)
	codes := make([]string, qty)
	for i := range codes {
		codes[i] = "CYL-" + string(rune('A'+i))
	}
	require.NoError(t, o.Accept(d.ID(), codes, driverActor(d), earlier))
	_, err := o.GenerateQR(driverActor(d), earlier)
	require.NoError(t, err)
	return o, d
}

// deliveredOrder is an order whose cylinders reached the buyer.
func deliveredOrder(t *testing.T, qty int) (*order.Order, *driver.Driver) {
	t.Helper()
	o, d := qrOrder(t, qty)
	require.NoError(t, o.ScanQR(order.QRGenerated, o.QRCode(), driverActor(d), earlier))
	require.NoError(t, o.ScanQR(order.InTransit, o.QRCode(), driverActor(d), earlier))
	d.Release(o.ID())
	return o, d
}

// cloneOrder restores a second copy of o, as a concurrent request would read it from storage.
func cloneOrder(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	c, err := order.RestoreOrder(order.RestoreParams{
		ID:              o.ID(),
		BuyerID:         o.BuyerID(),
		SellerID:        o.SellerID(),
		WarehouseID:     o.WarehouseID(),
		DriverID:        o.DriverID(),
		OrderType:       o.OrderType(),
		CylinderSize:    o.CylinderSize(),
		Quantity:        o.Quantity(),
		DeliveryPoint:   o.DeliveryPoint(),
		Status:          o.Status(),
		StatusHistory:   o.StatusHistory(),
		QRCode:          o.QRCode(),
		Pricing:         o.Pricing(),
		PaymentMethod:   o.PaymentMethod(),
		TransactionID:   o.TransactionID(),
		PaymentTimeline: o.PaymentTimeline(),
		DriverEarnings:  o.DriverEarnings(),
		CylinderCodes:   o.CylinderCodes(),
		Rating:          o.Rating(),
		Review:          o.Review(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	})
	require.NoError(t, err)
	return c
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}
