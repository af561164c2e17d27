package cart

import (
	"context"
	"database/sql"
	"errors"

	"agrocycle-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCartItemByBuyerAndProduct(ctx context.Context, buyerID, productID uint) (*CartItem, error)
	CreateCartItem(ctx context.Context, params AddToCartParams) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id uint, quantity int) (*CartItem, error)
	GetCart(ctx context.Context, buyerID uint) ([]*CartItem, error)
	RemoveCartItem(ctx context.Context, buyerID, productID uint) error
	ClearCart(ctx context.Context, buyerID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCartItemByBuyerAndProduct(ctx context.Context, buyerID, productID uint) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, product_id, quantity, created_at, updated_at
		FROM carts
		WHERE buyer_id = $1 AND product_id = $2
	`, buyerID, productID).Scan(
		&item.ID, &item.BuyerID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateCartItem(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	item := CartItem{
		BuyerID:   params.BuyerID,
		ProductID: params.ProductID,
		Quantity:  params.Quantity,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (buyer_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, params.BuyerID, params.ProductID, params.Quantity).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to create cart item",
			zap.Uint("buyer_id", params.BuyerID),
			zap.Uint("product_id", params.ProductID),
			zap.Error(err),
		)
		return nil, err
	}

	return &item, nil
}

func (r *repository) UpdateCartItemQuantity(ctx context.Context, id uint, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, buyer_id, product_id, quantity, created_at, updated_at
	`, quantity, id).Scan(
		&item.ID, &item.BuyerID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) GetCart(ctx context.Context, buyerID uint) ([]*CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.buyer_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		       p.name, p.waste_type, p.unit_price, p.delivery_fee, p.stock, p.district, p.farmer_id
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.buyer_id = $1
		ORDER BY c.created_at
	`, buyerID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get cart rows", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.BuyerID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Product.Name, &item.Product.WasteType, &item.Product.UnitPrice,
			&item.Product.DeliveryFee, &item.Product.Stock, &item.Product.District,
			&item.Product.FarmerID,
		); err != nil {
			return nil, err
		}
		item.Product.ID = item.ProductID
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *repository) RemoveCartItem(ctx context.Context, buyerID, productID uint) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM carts WHERE buyer_id = $1 AND product_id = $2`,
		buyerID, productID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) ClearCart(ctx context.Context, buyerID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE buyer_id = $1`, buyerID)
	return err
}
