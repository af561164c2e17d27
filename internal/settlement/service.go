package settlement

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/payment"
	"agrocycle-be/internal/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

// Totals is the settlement view over captured payments.
type Totals struct {
	TotalRevenue   decimal.Decimal
	FarmerPayable  decimal.Decimal
	PlatformProfit decimal.Decimal

	// HighValueDriverPayments holds the captured payments at or above the
	// configured threshold, for the driver-salary review view.
	HighValueDriverPayments []payment.Payment
}

type Service interface {
	Summary(ctx context.Context) (*Totals, error)
}

type service struct {
	payments        payment.Repository
	farmerShareRate decimal.Decimal
	highValueThresh decimal.Decimal
}

func NewService(payments payment.Repository, farmerShareRate, highValueThreshold decimal.Decimal) Service {
	return &service{
		payments:        payments,
		farmerShareRate: farmerShareRate,
		highValueThresh: highValueThreshold,
	}
}

func (s *service) Summary(ctx context.Context) (*Totals, error) {
	if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		return nil, ErrUnauthorized
	}

	captured, err := s.payments.ListCaptured(ctx)
	if err != nil {
		return nil, err
	}

	totals := Aggregate(captured, s.farmerShareRate, s.highValueThresh)

	logger.FromCtx(ctx).Info("settlement summary computed",
		zap.Int("captured_payments", len(captured)),
		zap.String("total_revenue", totals.TotalRevenue.String()),
	)
	return totals, nil
}

// Aggregate folds the captured payments into settlement totals. It is a pure
// function of its inputs: the same slice and rates always give the same
// totals.
func Aggregate(captured []payment.Payment, farmerShareRate, highValueThreshold decimal.Decimal) *Totals {
	totals := &Totals{
		TotalRevenue:   decimal.Zero,
		FarmerPayable:  decimal.Zero,
		PlatformProfit: decimal.Zero,
	}

	for _, p := range captured {
		totals.TotalRevenue = totals.TotalRevenue.Add(p.PayAmount)

		farmerShare, platformProfit := Split(p.PayAmount, farmerShareRate)
		totals.FarmerPayable = totals.FarmerPayable.Add(farmerShare)
		totals.PlatformProfit = totals.PlatformProfit.Add(platformProfit)

		// Inclusive boundary: a payment exactly at the threshold counts.
		if p.PayAmount.GreaterThanOrEqual(highValueThreshold) {
			totals.HighValueDriverPayments = append(totals.HighValueDriverPayments, p)
		}
	}
	return totals
}
