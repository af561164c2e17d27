package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "session_id", "driver_name", "pay_amount",
		"pay_date", "captured", "created_at", "updated_at",
	})
}

func TestRepository_SavePayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	orderID := uint(101)
	payDate := time.Now()
	p := &Payment{
		OrderID:   &orderID,
		SessionID: "cs_test_123",
		PayAmount: decimal.NewFromInt(350),
		PayDate:   payDate,
		Captured:  false,
	}

	mock.ExpectQuery(`INSERT INTO stripe_payments`).
		WithArgs(int64(101), "cs_test_123", "", p.PayAmount, payDate, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, repo.SavePayment(context.Background(), p))
	assert.Equal(t, uint(1), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkCaptured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE stripe_payments SET captured = TRUE`).
			WithArgs("cs_test_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkCaptured(ctx, "cs_test_123"))
	})

	t.Run("UnknownSession", func(t *testing.T) {
		mock.ExpectExec(`UPDATE stripe_payments SET captured = TRUE`).
			WithArgs("cs_missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkCaptured(ctx, "cs_missing"), ErrPaymentNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCaptured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, order_id, session_id, driver_name, pay_amount, pay_date, captured, created_at, updated_at FROM stripe_payments WHERE captured`).
		WillReturnRows(paymentRows().
			AddRow(1, int64(101), "cs_1", "Budi", "350", now, true, now, now).
			AddRow(2, nil, "cs_2", "Sari", "21000", now, true, now, now))

	out, err := repo.ListCaptured(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(101), *out[0].OrderID)
	assert.Nil(t, out[1].OrderID)
	assert.True(t, out[1].PayAmount.Equal(decimal.NewFromInt(21000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveWebhookEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	payload := json.RawMessage(`{"id":"evt_1"}`)

	t.Run("FirstDelivery", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs("evt_1", "checkout.session.completed", payload).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		id, dup, err := repo.SaveWebhookEvent(ctx, "evt_1", "checkout.session.completed", payload)
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, int64(7), id)
	})

	t.Run("Replay", func(t *testing.T) {
		// ON CONFLICT DO NOTHING returns no row for a replayed event id.
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs("evt_1", "checkout.session.completed", payload).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, dup, err := repo.SaveWebhookEvent(ctx, "evt_1", "checkout.session.completed", payload)
		require.NoError(t, err)
		assert.True(t, dup)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
