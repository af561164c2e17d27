package delivery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*DeliveryRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error)
	List(ctx context.Context, filter Filter) ([]DeliveryRequest, error)
	Update(ctx context.Context, id uuid.UUID, farmerID uint, params UpdateParams) error
	Delete(ctx context.Context, id uuid.UUID, farmerID uint) error
	Accept(ctx context.Context, id uuid.UUID, driverID uint) error
	Complete(ctx context.Context, id uuid.UUID, driverID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `id, farmer_id, driver_id, district, waste_type, pickup_date,
	emergency_contact, lat, lng, status, created_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }) (*DeliveryRequest, error) {
	var r DeliveryRequest
	var driverID sql.NullInt64
	err := row.Scan(&r.ID, &r.FarmerID, &driverID, &r.District, &r.WasteType,
		&r.PickupDate, &r.EmergencyContact, &r.Lat, &r.Lng, &r.Status,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		id := uint(driverID.Int64)
		r.DriverID = &id
	}
	return &r, nil
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*DeliveryRequest, error) {
	query := `
		INSERT INTO delivery_requests
			(id, farmer_id, district, waste_type, pickup_date, emergency_contact, lat, lng, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + requestColumns

	id := uuid.New()
	row := r.db.QueryRowContext(ctx, query,
		id, params.FarmerID, params.District, params.WasteType, params.PickupDate,
		params.EmergencyContact, params.Lat, params.Lng, StatusPending)

	req, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("create delivery request: %w", err)
	}
	return req, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delivery_requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery request: %w", err)
	}
	return req, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delivery_requests`

	var conds []string
	var args []any
	if filter.FarmerID != nil {
		args = append(args, *filter.FarmerID)
		conds = append(conds, fmt.Sprintf("farmer_id = $%d", len(args)))
	}
	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		conds = append(conds, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.District != nil {
		args = append(args, *filter.District)
		conds = append(conds, fmt.Sprintf("district = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list delivery requests: %w", err)
	}
	defer rows.Close()

	var out []DeliveryRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery request: %w", err)
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// Update changes farmer-editable fields. The status guard in the WHERE clause
// makes the edit atomic with respect to a driver accepting the request: once
// a request leaves Pending no farmer edit lands.
func (r *repository) Update(ctx context.Context, id uuid.UUID, farmerID uint, params UpdateParams) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if params.District != nil {
		add("district", *params.District)
	}
	if params.WasteType != nil {
		add("waste_type", *params.WasteType)
	}
	if params.PickupDate != nil {
		add("pickup_date", *params.PickupDate)
	}
	if params.EmergencyContact != nil {
		add("emergency_contact", *params.EmergencyContact)
	}
	if params.Lat != nil {
		add("lat", *params.Lat)
	}
	if params.Lng != nil {
		add("lng", *params.Lng)
	}
	if len(sets) == 0 {
		return ErrEmptyUpdate
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	idPos := len(args)
	args = append(args, farmerID)
	farmerPos := len(args)

	query := fmt.Sprintf(`UPDATE delivery_requests SET %s WHERE id = $%d AND farmer_id = $%d AND status = '%s'`,
		strings.Join(sets, ", "), idPos, farmerPos, StatusPending)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update delivery request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update delivery request: %w", err)
	}
	if affected == 0 {
		return r.classifyOwnerFailure(ctx, id, farmerID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID, farmerID uint) error {
	query := `DELETE FROM delivery_requests WHERE id = $1 AND farmer_id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, id, farmerID, StatusPending)
	if err != nil {
		return fmt.Errorf("delete delivery request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete delivery request: %w", err)
	}
	if affected == 0 {
		return r.classifyOwnerFailure(ctx, id, farmerID)
	}
	return nil
}

// classifyOwnerFailure re-reads the request to turn a zero-row farmer write
// into the precise failure: gone, someone else's, or no longer Pending.
func (r *repository) classifyOwnerFailure(ctx context.Context, id uuid.UUID, farmerID uint) error {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.FarmerID != farmerID {
		return ErrNotRequestOwner
	}
	return ErrLockedForEditing
}

// Accept assigns the request to driverID with a compare-and-swap on the
// Pending status. Of two drivers racing for the same request exactly one
// update lands; the loser's re-read sees an accepted request.
func (r *repository) Accept(ctx context.Context, id uuid.UUID, driverID uint) error {
	query := `
		UPDATE delivery_requests
		SET status = $1, driver_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, StatusAccepted, driverID, id, StatusPending)
	if err != nil {
		return fmt.Errorf("accept delivery request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("accept delivery request: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConcurrentModification
	}
	return nil
}

// Complete marks the request done. Only the driver holding the request may
// complete it, enforced in the same statement as the status check.
func (r *repository) Complete(ctx context.Context, id uuid.UUID, driverID uint) error {
	query := `
		UPDATE delivery_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND driver_id = $4`

	res, err := r.db.ExecContext(ctx, query, StatusCompleted, id, StatusAccepted, driverID)
	if err != nil {
		return fmt.Errorf("complete delivery request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete delivery request: %w", err)
	}
	if affected == 0 {
		req, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Status != StatusAccepted {
			return ErrInvalidTransition
		}
		return ErrNotAssignedDriver
	}
	return nil
}
