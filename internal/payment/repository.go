package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	MarkCaptured(ctx context.Context, sessionID string) error
	GetByOrder(ctx context.Context, orderID uint) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListCaptured(ctx context.Context) ([]Payment, error)

	SaveWebhookEvent(ctx context.Context, eventID, eventType string,
		payload json.RawMessage) (webhookID int64, isDuplicate bool, err error)
	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO stripe_payments
			(order_id, session_id, driver_name, pay_amount, pay_date, captured)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		p.OrderID, p.SessionID, p.DriverName, p.PayAmount, p.PayDate, p.Captured,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (r *repository) MarkCaptured(ctx context.Context, sessionID string) error {
	query := `UPDATE stripe_payments SET captured = TRUE, updated_at = NOW() WHERE session_id = $1`

	res, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("mark payment captured: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark payment captured: %w", err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

const paymentColumns = `id, order_id, session_id, driver_name, pay_amount, pay_date, captured, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*Payment, error) {
	var p Payment
	var orderID sql.NullInt64
	err := row.Scan(&p.ID, &orderID, &p.SessionID, &p.DriverName,
		&p.PayAmount, &p.PayDate, &p.Captured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		id := uint(orderID.Int64)
		p.OrderID = &id
	}
	return &p, nil
}

func (r *repository) GetByOrder(ctx context.Context, orderID uint) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM stripe_payments WHERE order_id = $1`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment by order: %w", err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM stripe_payments ORDER BY pay_date DESC`)
}

func (r *repository) ListCaptured(ctx context.Context) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM stripe_payments WHERE captured ORDER BY pay_date DESC`)
}

func (r *repository) list(ctx context.Context, query string) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SaveWebhookEvent records an incoming event exactly once. A replayed event
// id hits the unique constraint and reports a duplicate instead of an error.
func (r *repository) SaveWebhookEvent(ctx context.Context, eventID, eventType string,
	payload json.RawMessage) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (provider, event_id, event_type, payload)
	VALUES ('STRIPE', $1, $2, $3)
	ON CONFLICT (provider, event_id)
	DO NOTHING
	RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, q, eventID, eventType, payload).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `UPDATE payment_webhooks SET processed_at = NOW() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `UPDATE payment_webhooks SET process_error = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}
