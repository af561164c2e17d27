package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agrocycle-be/internal/delivery"
	"agrocycle-be/internal/utils"
)

type DeliveryHandler struct {
	svc delivery.Service
}

func NewDeliveryHandler(svc delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

type deliveryRequestResponse struct {
	ID               uuid.UUID `json:"id"`
	FarmerID         uint      `json:"farmerId"`
	DriverID         *uint     `json:"driverId,omitempty"`
	District         string    `json:"district"`
	WasteType        string    `json:"wasteType"`
	PickupDate       time.Time `json:"pickupDate"`
	EmergencyContact string    `json:"emergencyContact"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	Status           string    `json:"status"`
}

func toDeliveryResponse(r delivery.DeliveryRequest) deliveryRequestResponse {
	return deliveryRequestResponse{
		ID:               r.ID,
		FarmerID:         r.FarmerID,
		DriverID:         r.DriverID,
		District:         r.District,
		WasteType:        r.WasteType,
		PickupDate:       r.PickupDate,
		EmergencyContact: r.EmergencyContact,
		Lat:              r.Lat,
		Lng:              r.Lng,
		Status:           string(r.Status),
	}
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := delivery.Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := delivery.Status(s)
		filter.Status = &status
	}
	if d := r.URL.Query().Get("district"); d != "" {
		filter.District = &d
	}

	requests, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]deliveryRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toDeliveryResponse(req))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

type createDeliveryRequest struct {
	District         string    `json:"district"`
	WasteType        string    `json:"wasteType"`
	PickupDate       time.Time `json:"pickupDate"`
	EmergencyContact string    `json:"emergencyContact"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	req, err := h.svc.Create(r.Context(), delivery.CreateParams{
		District:         body.District,
		WasteType:        body.WasteType,
		PickupDate:       body.PickupDate,
		EmergencyContact: body.EmergencyContact,
		Lat:              body.Lat,
		Lng:              body.Lng,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toDeliveryResponse(*req))
}

// UpdateStatus is the driver-side transition: accepted claims the request,
// completed closes it out.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	switch delivery.Status(body.Status) {
	case delivery.StatusAccepted:
		err = h.svc.Accept(r.Context(), id)
	case delivery.StatusCompleted:
		err = h.svc.Complete(r.Context(), id)
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

func (h *DeliveryHandler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var body delivery.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := h.svc.Update(r.Context(), id, body); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *DeliveryHandler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
