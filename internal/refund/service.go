package refund

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/payment"
	"agrocycle-be/internal/utils"
)

const payoutTimeout = 10 * time.Second

type Service interface {
	Create(ctx context.Context, params CreateParams) (*RefundRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	List(ctx context.Context, filter Filter) ([]RefundRequest, error)

	// Approve initiates the payout and marks the request approved in one
	// transaction. When the payout cannot be initiated the request stays
	// pending so the admin can retry.
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
	// Delete removes a request in any status. It never reverses a payout.
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	gateway payment.Gateway
}

func NewService(repo Repository, gateway payment.Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*RefundRequest, error) {
	req, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("refund request created",
		zap.String("refund_id", req.ID.String()),
		zap.Uint("user_id", req.UserID),
		zap.String("total_price", req.TotalPrice.String()),
	)
	return req, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]RefundRequest, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		filter.UserID = &userID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) error {
	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(zap.String("refund_id", id.String()))

	err := s.repo.ApproveTx(ctx, id, func(ctx context.Context, req *RefundRequest) error {
		payoutCtx, cancel := context.WithTimeout(ctx, payoutTimeout)
		defer cancel()

		_, err := s.gateway.CreatePayout(payoutCtx, payment.PayoutParams{
			Amount:      req.TotalPrice,
			Description: "refund for " + req.ProductName,
			ReferenceID: utils.GeneratePayoutReference(),
		})
		return err
	})
	if err != nil {
		log.Warn("refund approve failed", zap.Error(err))
		return err
	}

	log.Info("refund approved")
	return nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) error {
	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return ErrUnauthorized
	}

	if err := s.repo.Reject(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("refund rejected", zap.String("refund_id", id.String()))
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("refund request deleted", zap.String("refund_id", id.String()))
	return nil
}
