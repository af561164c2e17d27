package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"agrocycle-be/internal/payment"
	"agrocycle-be/internal/utils"
)

type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID uint `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	session, err := h.svc.CreateCheckoutSession(r.Context(), body.OrderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"sessionId": session.SessionID,
		"url":       session.URL,
	})
}

type paymentResponse struct {
	ID         uint            `json:"id"`
	OrderID    *uint           `json:"orderId,omitempty"`
	DriverName string          `json:"driverName"`
	PayAmount  decimal.Decimal `json:"payAmount"`
	PayDate    time.Time       `json:"payDate"`
	Captured   bool            `json:"captured"`
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayments(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse{
			ID:         p.ID,
			OrderID:    p.OrderID,
			DriverName: p.DriverName,
			PayAmount:  p.PayAmount,
			PayDate:    p.PayDate,
			Captured:   p.Captured,
		})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
