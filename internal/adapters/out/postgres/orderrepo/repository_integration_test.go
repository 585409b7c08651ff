package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"gasdelivery/internal/adapters/out/postgres/orderrepo"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	buyer  = kernel.Actor{ID: "buyer-1", Role: kernel.RoleBuyer}
	seller = kernel.Actor{ID: "seller-1", Role: kernel.RoleSeller}
	now    = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(orderrepo.Models()...))
	suite.repo = orderrepo.NewGormOrderRepository(db)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_status_history, payment_timeline_entries, driver_earnings",
	).Error)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(at time.Time) *order.Order {
	pricing, err := order.NewPricing(
		decimal.NewFromInt(5900),
		decimal.NewFromInt(3000),
		decimal.NewFromInt(250),
		decimal.NewFromInt(100),
		decimal.Zero,
	)
	suite.Require().NoError(err)
	point, err := kernel.NewLocation(24.8607, 67.0011)
	suite.Require().NoError(err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:            kernel.NewUUID(),
		BuyerID:       kernel.NewUUID(),
		SellerID:      kernel.NewUUID(),
		WarehouseID:   kernel.NewUUID(),
		OrderType:     kernel.OrderTypeNew,
		CylinderSize:  kernel.Size11_8Kg,
		Quantity:      2,
		DeliveryPoint: point,
		Pricing:       pricing,
		PaymentMethod: ledger.PaymentCash,
		Actor:         buyer,
		Now:           at,
	})
	suite.Require().NoError(err)
	_, err = services.NewLedgerSeeder().SeedCreation(o, at)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTripsChildren() {
	ctx := context.Background()
	o := suite.newOrder(now)

	suite.Require().NoError(suite.repo.Add(ctx, o))

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, got.Status())
	suite.True(o.Pricing().GrandTotal().Equal(got.Pricing().GrandTotal()))
	suite.Len(got.StatusHistory(), 1)
	suite.Require().Len(got.PaymentTimeline(), 3)
	for i, e := range o.PaymentTimeline() {
		suite.Equal(e.TimelineID(), got.PaymentTimeline()[i].TimelineID())
		suite.True(e.Amount().Equal(got.PaymentTimeline()[i].Amount()))
	}
	suite.Equal(1, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersionAndPersistsAssignment() {
	ctx := context.Background()
	o := suite.newOrder(now)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	driverID := kernel.NewUUID()
	suite.Require().NoError(loaded.Assign(driverID, kernel.SystemActor("dispatcher"), now.Add(time.Minute)))

	suite.Require().NoError(suite.repo.Update(ctx, loaded))
	suite.Equal(2, loaded.Version())

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, got.Status())
	suite.Require().NotNil(got.DriverID())
	suite.Equal(driverID, *got.DriverID())
	suite.Len(got.StatusHistory(), 2)
	suite.Require().Len(got.DriverEarnings(), 1)
	earning := got.DriverEarnings()[0]
	fee, err := got.FindEntry(earning.TimelineID())
	suite.Require().NoError(err)
	suite.Equal(ledger.TypeDeliveryFee, fee.Type())
	suite.True(earning.Amount().Equal(fee.Amount()))
	suite.NotEmpty(got.QRCode())
	suite.Equal(2, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionConflicts() {
	ctx := context.Background()
	o := suite.newOrder(now)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	first, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Cancel("changed my mind", buyer, now))
	suite.Require().NoError(suite.repo.Update(ctx, first))

	suite.Require().NoError(second.Assign(kernel.NewUUID(), kernel.SystemActor("dispatcher"), now))
	err = suite.repo.Update(ctx, second)
	suite.ErrorIs(err, errs.ErrVersionConflict)

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, got.Status())
	suite.Nil(got.DriverID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder() {
	err := suite.repo.Update(context.Background(), suite.newOrder(now))
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClearPayment_UpsertsEntry() {
	ctx := context.Background()
	o := suite.newOrder(now)
	suite.Require().NoError(suite.repo.Add(ctx, o))
	timelineID := o.PaymentTimeline()[0].TimelineID()

	loaded, err := suite.repo.GetByTimelineID(ctx, timelineID)
	suite.Require().NoError(err)
	suite.Equal(o.ID(), loaded.ID())

	_, err = loaded.ClearPayment(timelineID, "BANK-77", "paid at counter", seller.ID, now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, loaded))

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	entry, err := got.FindEntry(timelineID)
	suite.Require().NoError(err)
	suite.Equal(ledger.StatusCompleted, entry.Status())
	suite.Equal("BANK-77", entry.ReferenceID())
	suite.Equal(seller.ID, entry.ProcessedBy())
	suite.NotNil(entry.ProcessedAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByTimelineID_Unknown() {
	_, err := suite.repo.GetByTimelineID(context.Background(), kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAwaitingDriver_OldestFirstWithLimit() {
	ctx := context.Background()
	newest := suite.newOrder(now.Add(2 * time.Minute))
	oldest := suite.newOrder(now)
	middle := suite.newOrder(now.Add(time.Minute))
	cancelled := suite.newOrder(now.Add(-time.Hour))
	suite.Require().NoError(cancelled.Cancel("", buyer, now))
	for _, o := range []*order.Order{newest, oldest, middle, cancelled} {
		suite.Require().NoError(suite.repo.Add(ctx, o))
	}

	got, err := suite.repo.GetAwaitingDriver(ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal(oldest.ID(), got[0].ID())
	suite.Equal(middle.ID(), got[1].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAll_VisitsEveryOrder() {
	ctx := context.Background()
	want := map[kernel.UUID]bool{}
	for i := 0; i < 3; i++ {
		o := suite.newOrder(now.Add(time.Duration(i) * time.Minute))
		suite.Require().NoError(suite.repo.Add(ctx, o))
		want[o.ID()] = true
	}

	seen := map[kernel.UUID]bool{}
	suite.Require().NoError(suite.repo.GetAll(ctx, func(o *order.Order) error {
		seen[o.ID()] = true
		return nil
	}))
	suite.Equal(want, seen)
}

func TestOrderRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
