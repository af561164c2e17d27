package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"agrocycle-be/internal/cart"
	"agrocycle-be/internal/utils"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartItemResponse struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	WasteType   string          `json:"wasteType"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

func toCartItemResponse(item *cart.CartItem) cartItemResponse {
	return cartItemResponse{
		ProductID:   item.Product.ID,
		ProductName: item.Product.Name,
		WasteType:   item.Product.WasteType,
		UnitPrice:   item.Product.UnitPrice,
		Quantity:    item.Quantity,
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.svc.GetCart(r.Context(), buyerID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCartItemResponse(item))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ProductID uint `json:"productId"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	item, err := h.svc.AddToCart(r.Context(), cart.AddToCartParams{
		BuyerID:   buyerID,
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toCartItemResponse(item))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := utils.ToUint(chi.URLParam(r, "productId"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	item, err := h.svc.UpdateCartQuantity(r.Context(), cart.UpdateCartParams{
		BuyerID:   buyerID,
		ProductID: productID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCartItemResponse(item))
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := utils.ToUint(chi.URLParam(r, "productId"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveFromCart(r.Context(), buyerID, productID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.ClearCart(r.Context(), buyerID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
