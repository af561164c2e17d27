package product

import (
	"context"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	List(ctx context.Context, filter *ProductFilter) ([]*Product, error)
	Get(ctx context.Context, id uint) (*Product, error)
	Disable(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "Create"),
		zap.Uint("farmer_id", params.FarmerID),
		zap.String("waste_type", params.WasteType),
	)

	if !params.UnitPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if params.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p := &Product{
		FarmerID:    params.FarmerID,
		Name:        params.Name,
		WasteType:   params.WasteType,
		UnitPrice:   params.UnitPrice,
		DeliveryFee: params.DeliveryFee,
		Stock:       params.Stock,
		District:    params.District,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create listing", zap.Error(err))
		return nil, err
	}

	log.Info("listing created", zap.Uint("product_id", p.ID))
	return p, nil
}

func (s *service) List(ctx context.Context, filter *ProductFilter) ([]*Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Disable takes a listing off the marketplace. Only the owning farmer may do
// it; ownership is enforced in the status update itself.
func (s *service) Disable(ctx context.Context, id uint) error {
	farmerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrNotListingOwner
	}
	return s.repo.SetStatus(ctx, id, farmerID, StatusDisabled)
}
