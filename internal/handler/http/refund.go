package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"agrocycle-be/internal/refund"
	"agrocycle-be/internal/utils"
)

type RefundHandler struct {
	svc refund.Service
}

func NewRefundHandler(svc refund.Service) *RefundHandler {
	return &RefundHandler{svc: svc}
}

type refundResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      *uint           `json:"orderId,omitempty"`
	UserID       uint            `json:"userId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	OrderDate    time.Time       `json:"orderDate"`
	CanceledDate time.Time       `json:"canceledDate"`
	Status       string          `json:"status"`
	Reason       string          `json:"reason"`
}

func toRefundResponse(r refund.RefundRequest) refundResponse {
	return refundResponse{
		ID:           r.ID,
		OrderID:      r.OrderID,
		UserID:       r.UserID,
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		TotalPrice:   r.TotalPrice,
		OrderDate:    r.OrderDate,
		CanceledDate: r.CanceledDate,
		Status:       string(r.Status),
		Reason:       r.Reason,
	}
}

func (h *RefundHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := refund.Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := refund.Status(s)
		filter.Status = &status
	}

	requests, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]refundResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRefundResponse(req))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

type createRefundRequest struct {
	OrderID     *uint           `json:"orderId"`
	UserID      uint            `json:"userId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	OrderDate   time.Time       `json:"orderDate"`
	Reason      string          `json:"reason"`
}

func (h *RefundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	req, err := h.svc.Create(r.Context(), refund.CreateParams{
		OrderID:     body.OrderID,
		UserID:      body.UserID,
		ProductName: body.ProductName,
		Quantity:    body.Quantity,
		TotalPrice:  body.TotalPrice,
		OrderDate:   body.OrderDate,
		Reason:      body.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRefundResponse(*req))
}

// UpdateStatus resolves a pending request: approved initiates the payout,
// rejected closes it without one.
func (h *RefundHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid refund id", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	switch refund.Status(body.Status) {
	case refund.StatusApproved:
		err = h.svc.Approve(r.Context(), id)
	case refund.StatusRejected:
		err = h.svc.Reject(r.Context(), id)
	default:
		utils.WriteJSONError(w, "unknown status", http.StatusBadRequest)
		return
	}

	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

func (h *RefundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid refund id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
