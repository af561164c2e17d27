package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "farmer_id", "driver_id", "district", "waste_type", "pickup_date",
		"emergency_contact", "lat", "lng", "status", "created_at", "updated_at",
	})
}

func addRequestRow(rows *sqlmock.Rows, id uuid.UUID, farmerID uint, driverID any, status Status) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, farmerID, driverID, "Bandung", "rice husk", now,
		"+62811111111", -6.9, 107.6, string(status), now, now)
}

func TestRepository_Accept(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("CASWins", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests\s+SET status = \$1, driver_id = \$2, updated_at = NOW\(\)\s+WHERE id = \$3 AND status = \$4`).
			WithArgs(StatusAccepted, uint(9), id, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Accept(ctx, id, 9))
	})

	t.Run("CASLosesToOtherDriver", func(t *testing.T) {
		// Zero rows written because another driver's accept landed first;
		// the re-read finds the request accepted.
		mock.ExpectExec(`UPDATE delivery_requests`).
			WithArgs(StatusAccepted, uint(10), id, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, int64(9), StatusAccepted))

		assert.ErrorIs(t, repo.Accept(ctx, id, 10), ErrConcurrentModification)
	})

	t.Run("RequestGone", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests`).
			WithArgs(StatusAccepted, uint(9), id, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(requestRows())

		assert.ErrorIs(t, repo.Accept(ctx, id, 9), ErrRequestNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Complete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("HoldingDriver", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND status = \$3 AND driver_id = \$4`).
			WithArgs(StatusCompleted, id, StatusAccepted, uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Complete(ctx, id, 9))
	})

	t.Run("OtherDriver", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests`).
			WithArgs(StatusCompleted, id, StatusAccepted, uint(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, int64(9), StatusAccepted))

		assert.ErrorIs(t, repo.Complete(ctx, id, 10), ErrNotAssignedDriver)
	})

	t.Run("StillPending", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests`).
			WithArgs(StatusCompleted, id, StatusAccepted, uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, nil, StatusPending))

		assert.ErrorIs(t, repo.Complete(ctx, id, 9), ErrInvalidTransition)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()
	district := "Garut"

	t.Run("WhilePending", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests SET district = \$1, updated_at = NOW\(\) WHERE id = \$2 AND farmer_id = \$3 AND status = 'Pending'`).
			WithArgs(district, id, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, id, 7, UpdateParams{District: &district}))
	})

	t.Run("LockedAfterAccept", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests SET district = \$1`).
			WithArgs(district, id, uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, int64(9), StatusAccepted))

		assert.ErrorIs(t, repo.Update(ctx, id, 7, UpdateParams{District: &district}), ErrLockedForEditing)
	})

	t.Run("NotOwner", func(t *testing.T) {
		mock.ExpectExec(`UPDATE delivery_requests SET district = \$1`).
			WithArgs(district, id, uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, nil, StatusPending))

		assert.ErrorIs(t, repo.Update(ctx, id, 8, UpdateParams{District: &district}), ErrNotRequestOwner)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("WhilePending", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM delivery_requests WHERE id = \$1 AND farmer_id = \$2 AND status = \$3`).
			WithArgs(id, uint(7), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, id, 7))
	})

	t.Run("LockedAfterAccept", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM delivery_requests`).
			WithArgs(id, uint(7), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, farmer_id, driver_id`).
			WithArgs(id).
			WillReturnRows(addRequestRow(requestRows(), id, 7, int64(9), StatusAccepted))

		assert.ErrorIs(t, repo.Delete(ctx, id, 7), ErrLockedForEditing)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO delivery_requests`).
		WithArgs(sqlmock.AnyArg(), uint(7), "Bandung", "rice husk", pickup,
			"+62811111111", -6.9, 107.6, StatusPending).
		WillReturnRows(addRequestRow(requestRows(), uuid.New(), 7, nil, StatusPending))

	req, err := repo.Create(context.Background(), CreateParams{
		FarmerID:         7,
		District:         "Bandung",
		WasteType:        "rice husk",
		PickupDate:       pickup,
		EmergencyContact: "+62811111111",
		Lat:              -6.9,
		Lng:              107.6,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Nil(t, req.DriverID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("ByStatus", func(t *testing.T) {
		pending := StatusPending
		mock.ExpectQuery(`FROM delivery_requests WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs(pending).
			WillReturnRows(addRequestRow(requestRows(), uuid.New(), 7, nil, StatusPending))

		out, err := repo.List(ctx, Filter{Status: &pending})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("ByFarmerAndDistrict", func(t *testing.T) {
		farmerID := uint(7)
		district := "Bandung"
		mock.ExpectQuery(`FROM delivery_requests WHERE farmer_id = \$1 AND district = \$2`).
			WithArgs(farmerID, district).
			WillReturnRows(requestRows())

		out, err := repo.List(ctx, Filter{FarmerID: &farmerID, District: &district})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
