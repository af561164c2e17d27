package refund

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*RefundRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	List(ctx context.Context, filter Filter) ([]RefundRequest, error)

	// ApproveTx locks the pending request, runs payout inside the transaction
	// scope, and commits the approved status only when payout succeeded.
	ApproveTx(ctx context.Context, id uuid.UUID, payout func(ctx context.Context, req *RefundRequest) error) error

	Reject(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const refundColumns = `id, order_id, user_id, product_name, quantity, total_price,
	order_date, canceled_date, refund_status, refund_reason, created_at, updated_at`

func scanRefund(row interface{ Scan(...any) error }) (*RefundRequest, error) {
	var r RefundRequest
	var orderID sql.NullInt64
	err := row.Scan(&r.ID, &orderID, &r.UserID, &r.ProductName, &r.Quantity,
		&r.TotalPrice, &r.OrderDate, &r.CanceledDate, &r.Status, &r.Reason,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		id := uint(orderID.Int64)
		r.OrderID = &id
	}
	return &r, nil
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*RefundRequest, error) {
	query := `
		INSERT INTO refund_requests
			(id, order_id, user_id, product_name, quantity, total_price,
			 order_date, canceled_date, refund_status, refund_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9)
		RETURNING ` + refundColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New(), params.OrderID, params.UserID, params.ProductName,
		params.Quantity, params.TotalPrice, params.OrderDate, StatusPending, params.Reason)

	req, err := scanRefund(row)
	if err != nil {
		return nil, fmt.Errorf("create refund request: %w", err)
	}
	return req, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	query := `SELECT ` + refundColumns + ` FROM refund_requests WHERE id = $1`

	req, err := scanRefund(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRefundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get refund request: %w", err)
	}
	return req, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]RefundRequest, error) {
	query := `SELECT ` + refundColumns + ` FROM refund_requests`

	var conds []string
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("refund_status = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY canceled_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list refund requests: %w", err)
	}
	defer rows.Close()

	var out []RefundRequest
	for rows.Next() {
		req, err := scanRefund(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund request: %w", err)
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *repository) ApproveTx(ctx context.Context, id uuid.UUID, payout func(ctx context.Context, req *RefundRequest) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	// Row lock blocks a concurrent approve/reject until this one resolves.
	row := tx.QueryRowContext(ctx,
		`SELECT `+refundColumns+` FROM refund_requests WHERE id = $1 FOR UPDATE`, id)
	req, err := scanRefund(row)
	if err == sql.ErrNoRows {
		return ErrRefundNotFound
	}
	if err != nil {
		return fmt.Errorf("lock refund request: %w", err)
	}
	if req.Status != StatusPending {
		return ErrAlreadyResolved
	}

	// Payout failure rolls everything back: the request stays pending and a
	// later approve retries the transfer.
	if err := payout(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutInitiationFailed, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE refund_requests SET refund_status = $1, updated_at = NOW() WHERE id = $2
	`, StatusApproved, id)
	if err != nil {
		return fmt.Errorf("approve refund request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approve tx: %w", err)
	}
	committed = true
	return nil
}

func (r *repository) Reject(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE refund_requests
		SET refund_status = $1, updated_at = NOW()
		WHERE id = $2 AND refund_status = $3`

	res, err := r.db.ExecContext(ctx, query, StatusRejected, id, StatusPending)
	if err != nil {
		return fmt.Errorf("reject refund request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject refund request: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refund_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete refund request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete refund request: %w", err)
	}
	if affected == 0 {
		return ErrRefundNotFound
	}
	return nil
}
