package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"agrocycle-be/internal/product"
	"agrocycle-be/internal/utils"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productResponse struct {
	ID          uint            `json:"id"`
	FarmerID    uint            `json:"farmerId"`
	Name        string          `json:"name"`
	WasteType   string          `json:"wasteType"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Stock       int             `json:"stock"`
	District    string          `json:"district"`
	Status      string          `json:"status"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		FarmerID:    p.FarmerID,
		Name:        p.Name,
		WasteType:   p.WasteType,
		UnitPrice:   p.UnitPrice,
		DeliveryFee: p.DeliveryFee,
		Stock:       p.Stock,
		District:    p.District,
		Status:      p.Status,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := &product.ProductFilter{}
	if wt := r.URL.Query().Get("wasteType"); wt != "" {
		filter.WasteType = &wt
	}
	if d := r.URL.Query().Get("district"); d != "" {
		filter.District = &d
	}

	products, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name        string          `json:"name"`
		WasteType   string          `json:"wasteType"`
		UnitPrice   decimal.Decimal `json:"unitPrice"`
		DeliveryFee decimal.Decimal `json:"deliveryFee"`
		Stock       int             `json:"stock"`
		District    string          `json:"district"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), product.CreateProductParams{
		FarmerID:    farmerID,
		Name:        body.Name,
		WasteType:   body.WasteType,
		UnitPrice:   body.UnitPrice,
		DeliveryFee: body.DeliveryFee,
		Stock:       body.Stock,
		District:    body.District,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) Disable(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Disable(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
