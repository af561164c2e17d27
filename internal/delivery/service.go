package delivery

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/utils"
)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*DeliveryRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error)
	List(ctx context.Context, filter Filter) ([]DeliveryRequest, error)

	// Update and Delete are farmer operations, legal only while the request
	// is still Pending.
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Accept and Complete are driver operations. Accept races: of several
	// drivers accepting the same Pending request exactly one wins.
	Accept(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*DeliveryRequest, error) {
	farmerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	params.FarmerID = farmerID

	req, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("delivery request created",
		zap.String("request_id", req.ID.String()),
		zap.Uint("farmer_id", farmerID),
		zap.String("district", req.District),
	)
	return req, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DeliveryRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// List scopes by role: farmers see their own requests, drivers see the open
// pool or their own assignments, admins see everything.
func (s *service) List(ctx context.Context, filter Filter) ([]DeliveryRequest, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	switch utils.GetUserRoleFromContext(ctx) {
	case utils.RoleAdmin:
		// unscoped
	case utils.RoleFarmer:
		filter.FarmerID = &userID
	case utils.RoleDriver:
		if filter.Status == nil {
			pending := StatusPending
			filter.Status = &pending
		}
		// The pending pool is the only view a driver gets of requests that
		// are not theirs; any other status is scoped to their assignments.
		if *filter.Status == StatusPending {
			filter.DriverID = nil
		} else {
			filter.DriverID = &userID
		}
	default:
		return nil, ErrUnauthorized
	}

	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	farmerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if params.Empty() {
		return ErrEmptyUpdate
	}

	if err := s.repo.Update(ctx, id, farmerID, params); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("delivery request updated",
		zap.String("request_id", id.String()),
		zap.Uint("farmer_id", farmerID),
	)
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	farmerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, farmerID); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("delivery request deleted",
		zap.String("request_id", id.String()),
		zap.Uint("farmer_id", farmerID),
	)
	return nil
}

func (s *service) Accept(ctx context.Context, id uuid.UUID) error {
	driverID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("request_id", id.String()),
		zap.Uint("driver_id", driverID),
	)

	if err := s.repo.Accept(ctx, id, driverID); err != nil {
		log.Warn("delivery request accept failed", zap.Error(err))
		return err
	}

	log.Info("delivery request accepted")
	return nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) error {
	driverID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("request_id", id.String()),
		zap.Uint("driver_id", driverID),
	)

	if err := s.repo.Complete(ctx, id, driverID); err != nil {
		log.Warn("delivery request complete failed", zap.Error(err))
		return err
	}

	log.Info("delivery request completed")
	return nil
}
