package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"foodrelay/internal/adapters/out/postgres/orderrepo"
	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	alice      order.Partner
	bob        order.Partner
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.alice, err = order.NewPartner(1001, "Alice", "alice")
	suite.Require().NoError(err)
	suite.bob, err = order.NewPartner(1002, "Bob", "")
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders RESTART IDENTITY").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(address string, createdAt time.Time) *order.Order {
	o, err := order.NewOrder(order.Draft{
		RestaurantName:  "Pizza Bar",
		Address:         address,
		Phone:           "+36301234567",
		Details:         "2x margherita",
		GroupID:         -100123,
		GroupName:       "Pizza Bar",
		SourceMessageID: 77,
	}, createdAt)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) addOrder(address string, createdAt time.Time) *order.Order {
	o := suite.newOrder(address, createdAt)
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AssignsSequentialIDs() {
	first := suite.addOrder("Fő utca 1", t0)
	second := suite.addOrder("Fő utca 2", t0)

	suite.Equal(int64(1), first.ID())
	suite.Equal(int64(2), second.ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RejectsUnconstructedOrder() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.ErrorIs(err, order.ErrOrderIsNotConstructed)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsEveryField() {
	ctx := context.Background()
	o := suite.addOrder("1051 Budapest Váci utca 1", t0)
	suite.Require().NoError(o.Accept(suite.alice, 25, t0.Add(time.Minute)))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Pending))

	loaded, err := suite.repository.Get(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Equal(o.Snapshot(), loaded.Snapshot())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), 404)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_FullLifecycle() {
	ctx := context.Background()
	o := suite.addOrder("Fő utca 1", t0)

	suite.Require().NoError(o.Accept(suite.alice, 10, t0.Add(time.Minute)))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Pending))
	suite.Require().NoError(o.PickUp(suite.alice, t0.Add(5*time.Minute)))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Accepted))
	suite.Require().NoError(o.Deliver(suite.alice, t0.Add(20*time.Minute)))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.PickedUp))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, loaded.Status())
	suite.Require().NotNil(loaded.DeliveredAt())
	suite.Equal(t0.Add(20*time.Minute), *loaded.DeliveredAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_StaleStatusConflicts() {
	ctx := context.Background()
	o := suite.addOrder("Fő utca 1", t0)
	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(o.Accept(suite.alice, 10, t0))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Pending))

	suite.Require().NoError(stale.Accept(suite.bob, 15, t0))
	err = suite.repository.UpdateStatus(ctx, stale, order.Pending)

	suite.ErrorIs(err, ports.ErrStatusConflict)
	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	p, _ := loaded.Partner()
	suite.Equal(suite.alice.ID(), p.ID())
	suite.Equal(10, loaded.ETAMinutes())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_OtherPartnerConflicts() {
	ctx := context.Background()
	o := suite.addOrder("Fő utca 1", t0)
	suite.Require().NoError(o.Accept(suite.alice, 10, t0))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Pending))

	forged := o.Snapshot()
	forged.PartnerID = suite.bob.ID()
	forged.PartnerName = suite.bob.Name()
	impostor, err := order.RestoreOrder(forged)
	suite.Require().NoError(err)
	suite.Require().NoError(impostor.PickUp(suite.bob, t0))

	err = suite.repository.UpdateStatus(ctx, impostor, order.Accepted)

	suite.ErrorIs(err, ports.ErrStatusConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_MissingOrder() {
	o := suite.newOrder("Fő utca 1", t0)
	suite.Require().NoError(o.AssignID(99))
	suite.Require().NoError(o.Accept(suite.alice, 10, t0))

	err := suite.repository.UpdateStatus(context.Background(), o, order.Pending)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatus_NewestFirst() {
	ctx := context.Background()
	older := suite.addOrder("Fő utca 1", t0)
	newer := suite.addOrder("Fő utca 2", t0.Add(time.Minute))
	sameTime := suite.addOrder("Fő utca 3", t0.Add(time.Minute))
	accepted := suite.addOrder("Fő utca 4", t0)
	suite.Require().NoError(accepted.Accept(suite.alice, 5, t0))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, accepted, order.Pending))

	pending, err := suite.repository.ListByStatus(ctx, order.Pending, nil)

	suite.Require().NoError(err)
	suite.Require().Len(pending, 3)
	suite.Equal(sameTime.ID(), pending[0].ID())
	suite.Equal(newer.ID(), pending[1].ID())
	suite.Equal(older.ID(), pending[2].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByStatus_FiltersByPartner() {
	ctx := context.Background()
	mine := suite.addOrder("Fő utca 1", t0)
	theirs := suite.addOrder("Fő utca 2", t0)
	suite.Require().NoError(mine.Accept(suite.alice, 5, t0))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, mine, order.Pending))
	suite.Require().NoError(theirs.Accept(suite.bob, 5, t0))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, theirs, order.Pending))

	aliceID := suite.alice.ID()
	orders, err := suite.repository.ListByStatus(ctx, order.Accepted, &aliceID)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(mine.ID(), orders[0].ID())

	none, err := suite.repository.ListByStatus(ctx, order.Delivered, nil)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListAddressesForPartner_OldestFirst() {
	ctx := context.Background()
	for i, address := range []string{"Fő utca 3", "Fő utca 1", "Fő utca 2"} {
		o := suite.addOrder(address, t0.Add(time.Duration(i)*time.Minute))
		suite.Require().NoError(o.Accept(suite.alice, 5, t0.Add(time.Hour)))
		suite.Require().NoError(suite.repository.UpdateStatus(ctx, o, order.Pending))
	}
	suite.addOrder("Fő utca 9", t0)

	addresses, err := suite.repository.ListAddressesForPartner(ctx, suite.alice.ID(), order.Accepted)

	suite.Require().NoError(err)
	suite.Equal([]string{"Fő utca 3", "Fő utca 1", "Fő utca 2"}, addresses)

	empty, err := suite.repository.ListAddressesForPartner(ctx, suite.bob.ID(), order.Accepted)
	suite.Require().NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
