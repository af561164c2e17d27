package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetCartItemByBuyerAndProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "buyer_id", "product_id", "quantity", "created_at", "updated_at"}).
			AddRow(4, 1, 10, 2, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT id, buyer_id, product_id, quantity, created_at, updated_at\s+FROM carts\s+WHERE buyer_id = \$1 AND product_id = \$2`).
			WithArgs(uint(1), uint(10)).
			WillReturnRows(rows)

		item, err := repo.GetCartItemByBuyerAndProduct(ctx, 1, 10)
		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("NotFoundIsNilNil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, buyer_id, product_id, quantity`).
			WithArgs(uint(1), uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		item, err := repo.GetCartItemByBuyerAndProduct(ctx, 1, 99)
		assert.NoError(t, err)
		assert.Nil(t, item)
	})
}

func TestRepository_CreateCartItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO carts \(buyer_id, product_id, quantity\)`).
			WithArgs(uint(1), uint(10), 3).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(4, time.Now(), time.Now()))

		item, err := repo.CreateCartItem(ctx, AddToCartParams{BuyerID: 1, ProductID: 10, Quantity: 3})
		assert.NoError(t, err)
		assert.Equal(t, uint(4), item.ID)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO carts`).
			WillReturnError(errors.New("db error"))

		_, err := repo.CreateCartItem(ctx, AddToCartParams{BuyerID: 1, ProductID: 10, Quantity: 3})
		assert.Error(t, err)
	})
}

func TestRepository_GetCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "buyer_id", "product_id", "quantity", "created_at", "updated_at",
		"name", "waste_type", "unit_price", "delivery_fee", "stock", "district", "farmer_id",
	}).AddRow(
		4, 1, 10, 2, time.Now(), time.Now(),
		"Paddy straw", "straw", "100", "50", 8, "Anuradhapura", 7,
	)

	mock.ExpectQuery(`SELECT c.id, c.buyer_id, .* FROM carts c\s+JOIN products p ON p.id = c.product_id\s+WHERE c.buyer_id = \$1`).
		WithArgs(uint(1)).
		WillReturnRows(rows)

	items, err := repo.GetCart(ctx, 1)
	assert.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Paddy straw", items[0].Product.Name)
	assert.Equal(t, uint(10), items[0].Product.ID)
}

func TestRepository_RemoveCartItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM carts WHERE buyer_id = \$1 AND product_id = \$2`).
			WithArgs(uint(1), uint(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.RemoveCartItem(ctx, 1, 10))
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM carts`).
			WithArgs(uint(1), uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.RemoveCartItem(ctx, 1, 99), ErrCartItemNotFound)
	})
}

func TestRepository_ClearCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM carts WHERE buyer_id = \$1`).
		WithArgs(uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.ClearCart(context.Background(), 1))
}
