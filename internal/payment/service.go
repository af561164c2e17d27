package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

type Service interface {
	// CreateCheckoutSession opens a Stripe checkout for an order owned by the
	// acting buyer and records the pending payment row.
	CreateCheckoutSession(ctx context.Context, orderID uint) (*CheckoutSession, error)
	ListPayments(ctx context.Context) ([]Payment, error)
}

type service struct {
	gateway Gateway
	repo    Repository
	orders  order.Repository
}

func NewService(gateway Gateway, repo Repository, orders order.Repository) Service {
	return &service{gateway: gateway, repo: repo, orders: orders}
}

func (s *service) CreateCheckoutSession(ctx context.Context, orderID uint) (*CheckoutSession, error) {
	buyerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != buyerID {
		return nil, ErrUnauthorized
	}

	email := utils.GetUserEmailFromContext(ctx)

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		OrderID:     ord.ID,
		Amount:      ord.TotalPrice,
		ProductName: ord.ProductName,
		BuyerEmail:  email,
	})
	if err != nil {
		return nil, err
	}

	payment := &Payment{
		OrderID:   &ord.ID,
		SessionID: session.SessionID,
		PayAmount: ord.TotalPrice,
		PayDate:   time.Now(),
		Captured:  false,
	}
	if err := s.repo.SavePayment(ctx, payment); err != nil {
		// The session exists at Stripe but has no local row; the webhook
		// insert-or-capture path recovers it on completion.
		logger.FromCtx(ctx).Error("failed recording pending payment",
			zap.Uint("order_id", ord.ID),
			zap.String("session_id", session.SessionID),
			zap.Error(err),
		)
	}

	logger.FromCtx(ctx).Info("checkout session opened",
		zap.Uint("order_id", ord.ID),
		zap.String("session_id", session.SessionID),
	)
	return session, nil
}

func (s *service) ListPayments(ctx context.Context) ([]Payment, error) {
	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx)
}
