package order_test

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres/postgrestest"
	"gorm.io/gorm"
)

type orderServiceSuite struct {
	suite.Suite

	pg       *postgrestest.Container
	carts    *cart.Service
	orders   *order.Service
	products *product.Service
}

func TestOrderServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(orderServiceSuite))
}

func (s *orderServiceSuite) SetupSuite() {
	pg, err := postgrestest.Start(s.T().Context())
	s.Require().NoError(err)
	s.pg = pg

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.Require().NoError(postgres.NewMigration(pg.DB, logger).RunAutoMigrations())

	s.carts = cart.NewService(pg.DB, logger)
	s.orders = order.NewService(pg.DB, logger)
	s.products = product.NewService(pg.DB, logger)
}

func (s *orderServiceSuite) TearDownSuite() {
	if s.pg != nil {
		s.NoError(s.pg.Stop())
	}
}

func (s *orderServiceSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate("order_items", "orders", "cart_items", "carts", "products", "users"))
}

// line is the comparable part of a cart or order line
type line struct {
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
}

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func (s *orderServiceSuite) TestPlaceOrder() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	a := s.createProduct("10.00")
	b := s.createProduct("25.50")

	s.addToCart(u.ID, a.ID, 2)
	s.addToCart(u.ID, b.ID, 1)

	before, err := s.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)

	placed, err := s.orders.PlaceOrder(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, u.ID, placed.UserID)
	assert.True(t, decimal.RequireFromString("45.50").Equal(placed.Total), "total %s", placed.Total)

	wantLines := lo.Map(before.Items, func(i cart.CartItem, _ int) line {
		return line{ProductID: i.ProductID, Quantity: i.Quantity, Price: i.Price}
	})
	gotLines := lo.Map(placed.Items, func(i order.OrderItem, _ int) line {
		return line{ProductID: i.ProductID, Quantity: i.Quantity, Price: i.Price}
	})
	assert.Empty(t, cmp.Diff(wantLines, gotLines, decimalComparer))

	for _, item := range placed.Items {
		require.NotNil(t, item.Product)
		assert.Equal(t, item.ProductID, item.Product.ID)
	}

	sum := lo.Reduce(placed.Items, func(acc decimal.Decimal, i order.OrderItem, _ int) decimal.Decimal {
		return acc.Add(i.Subtotal())
	}, decimal.Zero)
	assert.True(t, sum.Equal(placed.Total))

	after, err := s.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Equal(t, before.ID, after.ID, "cart row is kept")
}

func (s *orderServiceSuite) TestPlaceOrder_EmptyCart() {
	tests := []struct {
		name    string
		prepare func(userID uint)
	}{
		{
			name:    "no cart: fail",
			prepare: func(uint) {},
		},
		{
			name: "cart without lines: fail",
			prepare: func(userID uint) {
				_, err := s.carts.GetCart(s.T().Context(), userID)
				s.Require().NoError(err)
			},
		},
		{
			name: "cart cleared: fail",
			prepare: func(userID uint) {
				s.addToCart(userID, s.createProduct("5.00").ID, 3)
				s.Require().NoError(s.carts.Clear(s.T().Context(), userID))
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			u := s.createUser()
			tt.prepare(u.ID)

			placed, err := s.orders.PlaceOrder(t.Context(), u.ID)
			require.ErrorIs(t, err, order.ErrEmptyCart)
			assert.Nil(t, placed)
			assert.Zero(t, s.count(&order.Order{}))
		})
	}
}

func (s *orderServiceSuite) TestPlaceOrder_SecondCallSeesEmptyCart() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	s.addToCart(u.ID, s.createProduct("12.00").ID, 1)

	_, err := s.orders.PlaceOrder(ctx, u.ID)
	require.NoError(t, err)

	_, err = s.orders.PlaceOrder(ctx, u.ID)
	require.ErrorIs(t, err, order.ErrEmptyCart)
	assert.EqualValues(t, 1, s.count(&order.Order{}))
}

func (s *orderServiceSuite) TestPlaceOrder_UsesPriceCapturedAtAdd() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	p := s.createProduct("10.00")
	s.addToCart(u.ID, p.ID, 3)

	newPrice := decimal.RequireFromString("99.99")
	_, err := s.products.UpdateProduct(ctx, p.ID, &product.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	placed, err := s.orders.PlaceOrder(ctx, u.ID)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("30.00").Equal(placed.Total), "total %s", placed.Total)
	require.Len(t, placed.Items, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(placed.Items[0].Price))
}

func (s *orderServiceSuite) TestPlaceOrder_RollsBackWhenItemsFail() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	s.addToCart(u.ID, s.createProduct("10.00").ID, 2)
	s.addToCart(u.ID, s.createProduct("25.50").ID, 1)

	injected := errors.New("injected failure")
	const callback = "test:fail_order_items"
	err := s.pg.DB.Callback().Create().Before("gorm:create").Register(callback, func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == "order_items" {
			_ = db.AddError(injected)
		}
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, s.pg.DB.Callback().Create().Remove(callback))
	}()

	placed, err := s.orders.PlaceOrder(ctx, u.ID)
	require.Error(t, err)
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, order.ErrOrderCreationFailed)
	assert.ErrorIs(t, err, injected)

	var creationErr *order.CreationError
	require.ErrorAs(t, err, &creationErr)

	assert.Zero(t, s.count(&order.Order{}))
	assert.Zero(t, s.count(&order.OrderItem{}))
	assert.EqualValues(t, 2, s.count(&cart.CartItem{}))
}

func (s *orderServiceSuite) TestPlaceOrder_ReloadFailureAfterCommit() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	s.addToCart(u.ID, s.createProduct("10.00").ID, 2)
	s.addToCart(u.ID, s.createProduct("25.50").ID, 1)

	db, err := s.pg.Open()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, postgrestest.FailQueries(db, "orders", errors.New("connection reset")))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	placed, err := order.NewService(db, logger).PlaceOrder(ctx, u.ID)
	require.NoError(t, err)
	require.NotZero(t, placed.ID)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.True(t, decimal.RequireFromString("45.50").Equal(placed.Total))
	require.Len(t, placed.Items, 2)
	assert.Equal(t, placed.ID, placed.Items[0].OrderID)

	assert.EqualValues(t, 1, s.count(&order.Order{}))
	assert.EqualValues(t, 2, s.count(&order.OrderItem{}))
	assert.Zero(t, s.count(&cart.CartItem{}))
}

func (s *orderServiceSuite) TestPlaceOrder_ConcurrentCheckouts() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	s.addToCart(u.ID, s.createProduct("10.00").ID, 1)
	s.addToCart(u.ID, s.createProduct("20.00").ID, 1)

	const attempts = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, attempts)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.orders.PlaceOrder(ctx, u.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := lo.CountBy(errs, func(err error) bool { return err == nil })
	empty := lo.CountBy(errs, func(err error) bool { return errors.Is(err, order.ErrEmptyCart) })
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, empty)

	assert.EqualValues(t, 1, s.count(&order.Order{}))
	assert.EqualValues(t, 2, s.count(&order.OrderItem{}))
}

func (s *orderServiceSuite) TestOrderSurvivesProductDeletion() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	p := s.createProduct("15.00")
	s.addToCart(u.ID, p.ID, 2)

	placed, err := s.orders.PlaceOrder(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, s.products.DeleteProduct(ctx, p.ID))

	got, err := s.orders.GetUserOrder(ctx, u.ID, placed.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.Nil(t, got.Items[0].Product)
	assert.True(t, decimal.RequireFromString("30.00").Equal(got.Total))
}

func (s *orderServiceSuite) TestGetUserOrder() {
	t := s.T()
	ctx := t.Context()

	owner := s.createUser()
	other := s.createUser()
	placed := s.placeOrder(owner.ID)

	got, err := s.orders.GetUserOrder(ctx, owner.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)

	_, err = s.orders.GetUserOrder(ctx, other.ID, placed.ID)
	require.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = s.orders.GetUserOrder(ctx, owner.ID, placed.ID+1000)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func (s *orderServiceSuite) TestListUserOrders() {
	t := s.T()
	ctx := t.Context()

	u := s.createUser()
	var placed []uint
	for i := 0; i < 3; i++ {
		placed = append(placed, s.placeOrder(u.ID).ID)
	}
	s.placeOrder(s.createUser().ID)

	page, err := s.orders.ListUserOrders(ctx, u.ID, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, order.PerPage, page.PerPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, lo.Reverse(placed), lo.Map(page.Data, func(o order.Order, _ int) uint { return o.ID }))
	for _, o := range page.Data {
		assert.NotEmpty(t, o.Items)
	}

	empty, err := s.orders.ListUserOrders(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
	assert.EqualValues(t, 3, empty.Total)
}

func (s *orderServiceSuite) TestAdminListOrders() {
	t := s.T()

	first := s.placeOrder(s.createUser().ID)
	second := s.placeOrder(s.createUser().ID)

	orders, err := s.orders.AdminListOrders(t.Context())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	for _, o := range orders {
		require.NotNil(t, o.User)
		assert.Equal(t, o.UserID, o.User.ID)
	}
}

func (s *orderServiceSuite) TestUpdateStatus() {
	tests := []struct {
		name       string
		status     string
		missing    bool
		wantErr    error
		wantStored order.Status
	}{
		{
			name:       "known status: ok",
			status:     "shipped",
			wantStored: order.StatusShipped,
		},
		{
			name:       "cancelled: ok",
			status:     "cancelled",
			wantStored: order.StatusCancelled,
		},
		{
			name:       "unknown status: fail",
			status:     "refunded",
			wantErr:    order.ErrInvalidStatus,
			wantStored: order.StatusPending,
		},
		{
			name:       "wrong case: fail",
			status:     "Shipped",
			wantErr:    order.ErrInvalidStatus,
			wantStored: order.StatusPending,
		},
		{
			name:    "missing order: fail",
			status:  "paid",
			missing: true,
			wantErr: order.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			ctx := t.Context()

			placed := s.placeOrder(s.createUser().ID)
			id := placed.ID
			if tt.missing {
				id += 1000
			}

			updated, err := s.orders.UpdateStatus(ctx, id, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStored, updated.Status)
			}

			if tt.missing {
				return
			}
			stored, err := s.orders.AdminGetOrder(ctx, placed.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStored, stored.Status)
			assert.True(t, placed.Total.Equal(stored.Total))
		})
	}
}

func (s *orderServiceSuite) TestDeleteOrder() {
	t := s.T()
	ctx := t.Context()

	placed := s.placeOrder(s.createUser().ID)

	require.NoError(t, s.orders.DeleteOrder(ctx, placed.ID))
	assert.Zero(t, s.count(&order.Order{}))
	assert.Zero(t, s.count(&order.OrderItem{}))

	require.ErrorIs(t, s.orders.DeleteOrder(ctx, placed.ID), order.ErrOrderNotFound)

	_, err := s.orders.AdminGetOrder(ctx, placed.ID)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func (s *orderServiceSuite) placeOrder(userID uint) *order.Order {
	s.addToCart(userID, s.createProduct(randomPrice()).ID, gofakeit.Number(1, 5))
	placed, err := s.orders.PlaceOrder(s.T().Context(), userID)
	s.Require().NoError(err)
	return placed
}

func (s *orderServiceSuite) addToCart(userID, productID uint, quantity int) {
	_, err := s.carts.AddItem(s.T().Context(), userID, &cart.AddItemRequest{ProductID: productID, Quantity: quantity})
	s.Require().NoError(err)
}

func (s *orderServiceSuite) createUser() user.User {
	u := user.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.UUID() + "@example.com",
		Password: "not-a-real-hash",
	}
	s.Require().NoError(s.pg.DB.Create(&u).Error)
	return u
}

func (s *orderServiceSuite) createProduct(price string) product.Product {
	p := product.Product{
		Name:     gofakeit.ProductName(),
		SKU:      gofakeit.UUID(),
		Price:    decimal.RequireFromString(price),
		Stock:    gofakeit.Number(1, 100),
		IsActive: true,
		Rating:   decimal.Zero,
	}
	s.Require().NoError(s.pg.DB.Create(&p).Error)
	return p
}

func (s *orderServiceSuite) count(model interface{}) int64 {
	var n int64
	s.Require().NoError(s.pg.DB.Model(model).Count(&n).Error)
	return n
}

func randomPrice() string {
	return decimal.NewFromFloat(gofakeit.Price(1, 500)).StringFixed(2)
}
