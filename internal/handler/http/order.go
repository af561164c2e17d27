package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"agrocycle-be/internal/order"
	"agrocycle-be/internal/utils"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	OrderDate    time.Time       `json:"orderDate"`
	Status       string          `json:"status"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		ProductID:    o.ProductID,
		ProductName:  o.ProductName,
		Quantity:     o.Quantity,
		UnitPrice:    o.UnitPrice,
		DeliveryCost: o.DeliveryCost,
		TotalPrice:   o.TotalPrice,
		OrderDate:    o.OrderDate,
		Status:       string(o.Status),
	}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context(), nil)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Checkout(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	utils.WriteJSON(w, http.StatusCreated, out)
}

func (h *OrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Accept)
}

func (h *OrderHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.MarkDone)
}

func (h *OrderHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional; the service fills a default reason.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.svc.Decline(r.Context(), id, body.Reason); err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": string(order.StatusCancelled)})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Cancel(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": string(order.StatusCancelled)})
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uint) error) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
