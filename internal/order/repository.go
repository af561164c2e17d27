package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrocycle-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CheckoutTx(ctx context.Context, buyerID uint) ([]*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, filter *OrderFilter) ([]*Order, error)

	// UpdateStatus performs the compare-and-set write backing every order
	// transition: the row is only touched when its current status still
	// equals from.
	UpdateStatus(ctx context.Context, id uint, from, to OrderStatus) error

	// CancelTx cancels an order and, when a captured payment exists for it,
	// creates a pending refund request in the same transaction. Returns the
	// refund id when one was created.
	CancelTx(ctx context.Context, id uint, reason string) (*uuid.UUID, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CheckoutTx(ctx context.Context, buyerID uint) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CheckoutTx"),
		zap.Uint("buyer_id", buyerID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback checkout transaction", zap.Error(rbErr))
			}
		}
	}()

	// Lock the product rows so stock cannot change under us.
	rows, err := tx.QueryContext(ctx, `
		SELECT c.product_id, c.quantity, p.farmer_id, p.name, p.unit_price, p.delivery_fee, p.stock
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.buyer_id = $1
		ORDER BY c.product_id
		FOR UPDATE OF p
	`, buyerID)
	if err != nil {
		return nil, err
	}

	var lines []*Order
	for rows.Next() {
		o := &Order{BuyerID: buyerID, Status: StatusToDeliver}
		var stock int
		if err := rows.Scan(
			&o.ProductID, &o.Quantity, &o.FarmerID, &o.ProductName,
			&o.UnitPrice, &o.DeliveryCost, &stock,
		); err != nil {
			rows.Close()
			return nil, err
		}
		if stock < o.Quantity {
			rows.Close()
			return nil, ErrInsufficientStock
		}
		o.TotalPrice = ComputeTotal(o.Quantity, o.UnitPrice, o.DeliveryCost)
		lines = append(lines, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	for _, o := range lines {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (buyer_id, product_id, farmer_id, quantity, unit_price, delivery_cost, total_price, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, order_date
		`,
			o.BuyerID, o.ProductID, o.FarmerID, o.Quantity,
			o.UnitPrice, o.DeliveryCost, o.TotalPrice, o.Status,
		).Scan(&o.ID, &o.OrderDate)
		if err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, o.Quantity, o.ProductID)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, ErrInsufficientStock
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE buyer_id = $1`, buyerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("checkout committed", zap.Int("order_count", len(lines)))
	return lines, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.buyer_id, o.product_id, o.farmer_id, o.quantity,
		       o.unit_price, o.delivery_cost, o.total_price, o.order_date, o.status, o.updated_at,
		       p.name
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE o.id = $1
	`, id).Scan(
		&o.ID, &o.BuyerID, &o.ProductID, &o.FarmerID, &o.Quantity,
		&o.UnitPrice, &o.DeliveryCost, &o.TotalPrice, &o.OrderDate, &o.Status, &o.UpdatedAt,
		&o.ProductName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, filter *OrderFilter) ([]*Order, error) {
	query := `
		SELECT o.id, o.buyer_id, o.product_id, o.farmer_id, o.quantity,
		       o.unit_price, o.delivery_cost, o.total_price, o.order_date, o.status, o.updated_at,
		       p.name
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.BuyerID != nil {
			query += fmt.Sprintf(" AND o.buyer_id = $%d", argIndex)
			args = append(args, *filter.BuyerID)
			argIndex++
		}
		if filter.FarmerID != nil {
			query += fmt.Sprintf(" AND o.farmer_id = $%d", argIndex)
			args = append(args, *filter.FarmerID)
			argIndex++
		}
		if filter.Status != nil {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}
		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.order_date >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}
		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.order_date <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	query += " ORDER BY o.order_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.ProductID, &o.FarmerID, &o.Quantity,
			&o.UnitPrice, &o.DeliveryCost, &o.TotalPrice, &o.OrderDate, &o.Status, &o.UpdatedAt,
			&o.ProductName,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 1 {
		return nil
	}

	// Nothing written: the order is either gone or no longer in `from`.
	// Re-read once so the caller gets the precise failure.
	var current OrderStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	return ErrInvalidTransition
}

func (r *repository) CancelTx(ctx context.Context, id uint, reason string) (*uuid.UUID, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelTx"),
		zap.Uint("order_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback cancel transaction", zap.Error(rbErr))
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusCancelled, id, StatusToDeliver)
	if err != nil {
		return nil, err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		var current OrderStatus
		err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	// The refund workflow only owes money back when a payment was captured.
	var captured bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM stripe_payments WHERE order_id = $1 AND captured)
	`, id).Scan(&captured)
	if err != nil {
		return nil, err
	}

	var refundID *uuid.UUID
	if captured {
		newID := uuid.New()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO refund_requests (id, user_id, product_name, quantity, total_price, order_id, order_date, canceled_date, refund_status, refund_reason)
			SELECT $1, o.buyer_id, p.name, o.quantity, o.total_price, o.id, o.order_date, NOW(), 'pending', $2
			FROM orders o
			JOIN products p ON p.id = o.product_id
			WHERE o.id = $3
			ON CONFLICT (order_id) DO NOTHING
		`, newID, reason, id)
		if err != nil {
			return nil, err
		}
		refundID = &newID
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("order cancelled",
		zap.Bool("refund_created", refundID != nil),
		zap.String("reason", reason),
	)
	return refundID, nil
}
