package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrocycle-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, filter *ProductFilter) ([]*Product, error)
	SetStatus(ctx context.Context, id, farmerID uint, status string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (farmer_id, name, waste_type, unit_price, delivery_fee, stock, district, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		p.FarmerID, p.Name, p.WasteType, p.UnitPrice, p.DeliveryFee, p.Stock, p.District, StatusActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert product",
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return err
	}
	p.Status = StatusActive
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, farmer_id, name, waste_type, unit_price, delivery_fee, stock, district, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.WasteType, &p.UnitPrice, &p.DeliveryFee,
		&p.Stock, &p.District, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter *ProductFilter) ([]*Product, error) {
	query := `
		SELECT id, farmer_id, name, waste_type, unit_price, delivery_fee, stock, district, status, created_at, updated_at
		FROM products
		WHERE status = 'active'
	`
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.WasteType != nil && *filter.WasteType != "" {
			query += fmt.Sprintf(" AND waste_type = $%d", argIndex)
			args = append(args, *filter.WasteType)
			argIndex++
		}
		if filter.District != nil && *filter.District != "" {
			query += fmt.Sprintf(" AND district = $%d", argIndex)
			args = append(args, *filter.District)
			argIndex++
		}
		if filter.FarmerID != nil {
			query += fmt.Sprintf(" AND farmer_id = $%d", argIndex)
			args = append(args, *filter.FarmerID)
			argIndex++
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.FarmerID, &p.Name, &p.WasteType, &p.UnitPrice, &p.DeliveryFee,
			&p.Stock, &p.District, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

func (r *repository) SetStatus(ctx context.Context, id, farmerID uint, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET status = $1, updated_at = NOW()
		WHERE id = $2 AND farmer_id = $3
	`, status, id, farmerID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
