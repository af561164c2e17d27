package cart

import (
	"context"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error)
	GetCart(ctx context.Context, buyerID uint) ([]*CartItem, error)
	UpdateCartQuantity(ctx context.Context, params UpdateCartParams) (*CartItem, error)
	RemoveFromCart(ctx context.Context, buyerID, productID uint) error
	ClearCart(ctx context.Context, buyerID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

// NewService creates a new cart service
func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddToCart adds a waste listing to a buyer's cart, merging with an existing
// line when the product is already carted.
func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "AddToCart"),
		zap.Uint("buyer_id", params.BuyerID),
		zap.Uint("product_id", params.ProductID),
	)

	if params.BuyerID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.GetCartItemByBuyerAndProduct(ctx, params.BuyerID, params.ProductID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if p.Stock < finalQty {
		log.Warn("insufficient stock",
			zap.Int("stock", p.Stock),
			zap.Int("requested", finalQty),
		)
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		return s.repo.CreateCartItem(ctx, params)
	}
	return s.repo.UpdateCartItemQuantity(ctx, existing.ID, finalQty)
}

func (s *service) GetCart(ctx context.Context, buyerID uint) ([]*CartItem, error) {
	if buyerID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetCart(ctx, buyerID)
}

func (s *service) UpdateCartQuantity(ctx context.Context, params UpdateCartParams) (*CartItem, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	existing, err := s.repo.GetCartItemByBuyerAndProduct(ctx, params.BuyerID, params.ProductID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemNotFound
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if p.Stock < params.Quantity {
		return nil, ErrInsufficientStock
	}

	return s.repo.UpdateCartItemQuantity(ctx, existing.ID, params.Quantity)
}

func (s *service) RemoveFromCart(ctx context.Context, buyerID, productID uint) error {
	if buyerID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.RemoveCartItem(ctx, buyerID, productID)
}

func (s *service) ClearCart(ctx context.Context, buyerID uint) error {
	if buyerID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.ClearCart(ctx, buyerID)
}
