package cart_test

import (
	"io"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres/postgrestest"
	"gorm.io/gorm/clause"
)

type cartServiceSuite struct {
	suite.Suite

	pg    *postgrestest.Container
	carts *cart.Service
}

func TestCartServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(cartServiceSuite))
}

func (s *cartServiceSuite) SetupSuite() {
	pg, err := postgrestest.Start(s.T().Context())
	s.Require().NoError(err)
	s.pg = pg

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.Require().NoError(postgres.NewMigration(pg.DB, logger).RunAutoMigrations())
	s.carts = cart.NewService(pg.DB, logger)
}

func (s *cartServiceSuite) TearDownSuite() {
	if s.pg != nil {
		s.NoError(s.pg.Stop())
	}
}

func (s *cartServiceSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate("cart_items", "carts", "products"))
}

func (s *cartServiceSuite) TestGetCart_CreatesOnce() {
	t := s.T()
	ctx := t.Context()
	userID := uint(gofakeit.Number(1, 1_000_000))

	first, err := s.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, first.UserID)
	assert.Empty(t, first.Items)
	assert.True(t, first.Total.IsZero())

	second, err := s.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, s.pg.DB.Model(&cart.Cart{}).Where("user_id = ?", userID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func (s *cartServiceSuite) TestAddItem() {
	t := s.T()
	ctx := t.Context()
	userID := uint(1)

	a := s.createProduct("10.00")
	b := s.createProduct("25.50")

	_, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)

	c, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, a.ID, c.Items[0].ProductID)
	assert.Equal(t, 2, c.Items[0].Quantity)
	require.NotNil(t, c.Items[0].Product)
	assert.Equal(t, a.Name, c.Items[0].Product.Name)
	assert.True(t, decimal.RequireFromString("45.50").Equal(c.Total), "total %s", c.Total)
}

func (s *cartServiceSuite) TestAddItem_MergesKeepingPrice() {
	t := s.T()
	ctx := t.Context()
	userID := uint(2)

	p := s.createProduct("10.00")

	_, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, s.pg.DB.Model(&product.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("12.00")).Error)

	c, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("10.00").Equal(c.Items[0].Price))
	assert.True(t, decimal.RequireFromString("40.00").Equal(c.Total))
}

func (s *cartServiceSuite) TestAddItem_UnknownProduct() {
	t := s.T()
	ctx := t.Context()

	_, err := s.carts.AddItem(ctx, 3, &cart.AddItemRequest{ProductID: 999_999, Quantity: 1})
	require.ErrorIs(t, err, cart.ErrUnknownProduct)

	c, err := s.carts.GetCart(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func (s *cartServiceSuite) TestAddItem_ProductDeletedConcurrently() {
	t := s.T()
	ctx := t.Context()
	p := s.createProduct("5.00")

	db, err := s.pg.Open()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, postgrestest.BeforeCreate(db, "cart_items", func() {
		require.NoError(t, s.pg.DB.Exec("DELETE FROM products WHERE id = ?", p.ID).Error)
	}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err = cart.NewService(db, logger).AddItem(ctx, 4, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.ErrorIs(t, err, cart.ErrUnknownProduct)
}

func (s *cartServiceSuite) TestQuantityLimit() {
	t := s.T()
	ctx := t.Context()
	userID := uint(5)
	p := s.createProduct("1.00")

	c, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: cart.MaxQuantity - 1})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.ErrorIs(t, err, cart.ErrQuantityLimit)

	_, err = s.carts.UpdateItem(ctx, userID, &cart.UpdateItemRequest{ItemID: itemID, Quantity: cart.MaxQuantity + 1})
	require.ErrorIs(t, err, cart.ErrQuantityLimit)

	c, err = s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, cart.MaxQuantity, c.Items[0].Quantity)
}

func (s *cartServiceSuite) TestAddItem_WaitsForCartLock() {
	t := s.T()
	ctx := t.Context()
	userID := uint(6)
	p := s.createProduct("10.00")

	_, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	// hold the lock checkout takes
	tx := s.pg.DB.Begin()
	require.NoError(t, tx.Error)
	var locked cart.Cart
	require.NoError(t, tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&locked).Error)

	done := make(chan error, 1)
	go func() {
		_, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
		done <- err
	}()

	select {
	case err := <-done:
		tx.Rollback()
		t.Fatalf("AddItem finished while the cart was locked: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, tx.Where("cart_id = ?", locked.ID).Delete(&cart.CartItem{}).Error)
	require.NoError(t, tx.Commit().Error)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("AddItem did not resume after the lock was released")
	}

	c, err := s.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity, "merge must not land on lines removed by checkout")
}

func (s *cartServiceSuite) TestUpdateAndRemoveItem_Ownership() {
	t := s.T()
	ctx := t.Context()
	owner, intruder := uint(10), uint(11)

	c, err := s.carts.AddItem(ctx, owner, &cart.AddItemRequest{ProductID: s.createProduct("3.00").ID, Quantity: 1})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = s.carts.UpdateItem(ctx, intruder, &cart.UpdateItemRequest{ItemID: itemID, Quantity: 5})
	require.ErrorIs(t, err, cart.ErrCartItemNotFound)

	_, err = s.carts.RemoveItem(ctx, intruder, itemID)
	require.ErrorIs(t, err, cart.ErrCartItemNotFound)

	c, err = s.carts.UpdateItem(ctx, owner, &cart.UpdateItemRequest{ItemID: itemID, Quantity: 5})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("15.00").Equal(c.Total))

	c, err = s.carts.RemoveItem(ctx, owner, itemID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = s.carts.RemoveItem(ctx, owner, itemID)
	require.ErrorIs(t, err, cart.ErrCartItemNotFound)
}

func (s *cartServiceSuite) TestClear() {
	t := s.T()
	ctx := t.Context()
	userID, neighbour := uint(20), uint(21)

	for i := 0; i < 3; i++ {
		_, err := s.carts.AddItem(ctx, userID, &cart.AddItemRequest{ProductID: s.createProduct("1.00").ID, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := s.carts.AddItem(ctx, neighbour, &cart.AddItemRequest{ProductID: s.createProduct("1.00").ID, Quantity: 1})
	require.NoError(t, err)

	before, err := s.carts.GetCart(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, s.carts.Clear(ctx, userID))

	after, err := s.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Equal(t, before.ID, after.ID)

	other, err := s.carts.GetCart(ctx, neighbour)
	require.NoError(t, err)
	assert.Len(t, other.Items, 1)

	// clearing a user without a cart is a no-op
	require.NoError(t, s.carts.Clear(ctx, 999))
}

func (s *cartServiceSuite) TestDeletingProductRemovesCartLines() {
	t := s.T()
	ctx := t.Context()

	p := s.createProduct("9.99")
	_, err := s.carts.AddItem(ctx, 30, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, s.pg.DB.Delete(&product.Product{}, p.ID).Error)

	c, err := s.carts.GetCart(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func (s *cartServiceSuite) createProduct(price string) product.Product {
	p := product.Product{
		Name:     gofakeit.ProductName(),
		SKU:      gofakeit.UUID(),
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		IsActive: true,
		Rating:   decimal.Zero,
	}
	s.Require().NoError(s.pg.DB.Create(&p).Error)
	return p
}
