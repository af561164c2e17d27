package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"agrocycle-be/internal/settlement"
	"agrocycle-be/internal/utils"
)

type SettlementHandler struct {
	svc settlement.Service
}

func NewSettlementHandler(svc settlement.Service) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

type settlementResponse struct {
	TotalRevenue            decimal.Decimal   `json:"totalRevenue"`
	FarmerPayable           decimal.Decimal   `json:"farmerPayable"`
	PlatformProfit          decimal.Decimal   `json:"platformProfit"`
	HighValueDriverPayments []paymentResponse `json:"highValueDriverPayments"`
}

func (h *SettlementHandler) Summary(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	highValue := make([]paymentResponse, 0, len(totals.HighValueDriverPayments))
	for _, p := range totals.HighValueDriverPayments {
		highValue = append(highValue, paymentResponse{
			ID:         p.ID,
			OrderID:    p.OrderID,
			DriverName: p.DriverName,
			PayAmount:  p.PayAmount,
			PayDate:    p.PayDate,
			Captured:   p.Captured,
		})
	}

	utils.WriteJSON(w, http.StatusOK, settlementResponse{
		TotalRevenue:            totals.TotalRevenue,
		FarmerPayable:           totals.FarmerPayable,
		PlatformProfit:          totals.PlatformProfit,
		HighValueDriverPayments: highValue,
	})
}
