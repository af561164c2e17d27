package order

import (
	"context"
	"errors"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context) ([]*Order, error)
	List(ctx context.Context, filter *OrderFilter) ([]*Order, error)
	Get(ctx context.Context, id uint) (*Order, error)

	// Accept moves toDeliver -> toReceive.
	Accept(ctx context.Context, id uint) error
	// Decline moves toDeliver -> cancelled and raises a refund request when a
	// captured payment exists for the order.
	Decline(ctx context.Context, id uint, reason string) error
	// MarkDone moves toReceive -> completed.
	MarkDone(ctx context.Context, id uint) error
	// Cancel is the buyer-initiated cancellation, legal only while the order
	// is still toDeliver.
	Cancel(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Checkout(ctx context.Context) ([]*Order, error) {
	buyerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("method", "Checkout"),
		zap.Uint("buyer_id", buyerID),
	)

	orders, err := s.repo.CheckoutTx(ctx, buyerID)
	if err != nil {
		log.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	log.Info("checkout completed", zap.Int("orders", len(orders)))
	return orders, nil
}

// List applies role-based scoping: buyers see their purchases, farmers their
// sales, admins everything.
func (s *service) List(ctx context.Context, filter *OrderFilter) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if filter == nil {
		filter = &OrderFilter{}
	}

	switch utils.GetUserRoleFromContext(ctx) {
	case utils.RoleAdmin:
		// unscoped
	case utils.RoleFarmer:
		filter.FarmerID = &userID
	default:
		filter.BuyerID = &userID
	}

	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	role := utils.GetUserRoleFromContext(ctx)
	if role != utils.RoleAdmin && o.BuyerID != userID && o.FarmerID != userID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) Accept(ctx context.Context, id uint) error {
	return s.transition(ctx, id, StatusToDeliver, StatusToReceive, sideFarmer)
}

func (s *service) MarkDone(ctx context.Context, id uint) error {
	return s.transition(ctx, id, StatusToReceive, StatusCompleted, sideBuyer)
}

type orderSide int

const (
	sideFarmer orderSide = iota
	sideBuyer
)

// authorize checks that the actor sits on the right side of the order.
// Admins pass unconditionally.
func (s *service) authorize(ctx context.Context, id uint, side orderSide) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if utils.GetUserRoleFromContext(ctx) == utils.RoleAdmin {
		return nil
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	owner := o.FarmerID
	if side == sideBuyer {
		owner = o.BuyerID
	}
	if owner != userID {
		return ErrUnauthorized
	}
	return nil
}

func (s *service) transition(ctx context.Context, id uint, from, to OrderStatus, side orderSide) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	if err := s.authorize(ctx, id, side); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, from, to); err != nil {
		log.Warn("order transition rejected", zap.Error(err))
		return err
	}

	log.Info("order transitioned")
	return nil
}

func (s *service) Decline(ctx context.Context, id uint, reason string) error {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", id))

	if err := s.authorize(ctx, id, sideFarmer); err != nil {
		return err
	}

	if reason == "" {
		reason = "order declined by delivery actor"
	}

	refundID, err := s.repo.CancelTx(ctx, id, reason)
	if err != nil {
		log.Warn("decline rejected", zap.Error(err))
		return err
	}

	if refundID != nil {
		log.Info("decline raised refund request", zap.String("refund_id", refundID.String()))
	}
	return nil
}

func (s *service) Cancel(ctx context.Context, id uint) error {
	buyerID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.BuyerID != buyerID {
		return ErrUnauthorized
	}
	if o.Status != StatusToDeliver {
		return ErrOrderNotCancellable
	}

	_, err = s.repo.CancelTx(ctx, id, "cancelled by buyer")
	if errors.Is(err, ErrInvalidTransition) {
		// Lost a race with another transition; the order is no longer
		// cancellable.
		return ErrOrderNotCancellable
	}
	return err
}
