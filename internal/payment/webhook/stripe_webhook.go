package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/payment"
)

// Handler receives Stripe events. It only records money movement: order
// status never changes from here, transitions stay with their actors.
type Handler struct {
	Gateway payment.Gateway
	Repo    payment.Repository
}

func NewHandler(gateway payment.Gateway, repo payment.Repository) *Handler {
	return &Handler{Gateway: gateway, Repo: repo}
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Gateway.VerifySignature(r, body); err != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event payment.Event
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log := logger.FromCtx(r.Context()).With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
	)

	webhookID, duplicate, err := h.Repo.SaveWebhookEvent(r.Context(), event.ID, event.Type, body)
	if err != nil {
		log.Error("failed recording webhook event", zap.Error(err))
		http.Error(w, "failed to record event", http.StatusInternalServerError)
		return
	}
	if duplicate {
		log.Info("duplicate webhook event ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.recordCapture(r, event)
	default:
		// Not a money-moving event for this service.
		err = nil
	}

	if err != nil {
		log.Error("webhook processing failed", zap.Error(err))
		if markErr := h.Repo.MarkWebhookFailed(r.Context(), webhookID, err.Error()); markErr != nil {
			log.Error("failed marking webhook failed", zap.Error(markErr))
		}
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.MarkWebhookProcessed(r.Context(), webhookID); err != nil {
		log.Error("failed marking webhook processed", zap.Error(err))
	}

	log.Info("webhook event processed")
	w.WriteHeader(http.StatusOK)
}

// recordCapture flips the pending payment row to captured, or inserts a
// captured row when checkout was opened without one.
func (h *Handler) recordCapture(r *http.Request, event payment.Event) error {
	session := event.Data.Object

	err := h.Repo.MarkCaptured(r.Context(), session.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, payment.ErrPaymentNotFound) {
		return err
	}

	p := &payment.Payment{
		SessionID:  session.ID,
		DriverName: session.Metadata.DriverName,
		PayAmount:  decimal.New(session.AmountTotal, -2),
		PayDate:    time.Unix(event.Created, 0),
		Captured:   true,
	}
	if session.Metadata.OrderID != "" {
		id, err := strconv.ParseUint(session.Metadata.OrderID, 10, 64)
		if err == nil {
			orderID := uint(id)
			p.OrderID = &orderID
		}
	}
	return h.Repo.SavePayment(r.Context(), p)
}
