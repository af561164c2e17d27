package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"agrocycle-be/internal/cart"
	"agrocycle-be/internal/delivery"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/payment"
	"agrocycle-be/internal/product"
	"agrocycle-be/internal/refund"
	"agrocycle-be/internal/settlement"
	"agrocycle-be/internal/user"
	"agrocycle-be/internal/utils"
)

// respondError maps domain sentinels onto HTTP statuses. Unknown errors stay
// opaque 500s so internals never leak to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isNotFound(err):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case isConflict(err):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, refund.ErrPayoutInitiationFailed):
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
	case isForbidden(err):
		utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
	case isBadRequest(err):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	default:
		logger.FromCtx(r.Context()).Error("unhandled error", zap.Error(err))
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, order.ErrOrderNotFound) ||
		errors.Is(err, delivery.ErrRequestNotFound) ||
		errors.Is(err, refund.ErrRefundNotFound) ||
		errors.Is(err, product.ErrProductNotFound) ||
		errors.Is(err, payment.ErrPaymentNotFound) ||
		errors.Is(err, cart.ErrCartItemNotFound) ||
		errors.Is(err, cart.ErrProductNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, order.ErrOrderNotCancellable) ||
		errors.Is(err, delivery.ErrInvalidTransition) ||
		errors.Is(err, delivery.ErrConcurrentModification) ||
		errors.Is(err, delivery.ErrLockedForEditing) ||
		errors.Is(err, refund.ErrAlreadyResolved) ||
		errors.Is(err, user.ErrEmailExists)
}

func isForbidden(err error) bool {
	return errors.Is(err, order.ErrUnauthorized) ||
		errors.Is(err, delivery.ErrUnauthorized) ||
		errors.Is(err, delivery.ErrNotRequestOwner) ||
		errors.Is(err, delivery.ErrNotAssignedDriver) ||
		errors.Is(err, refund.ErrUnauthorized) ||
		errors.Is(err, payment.ErrUnauthorized) ||
		errors.Is(err, settlement.ErrUnauthorized) ||
		errors.Is(err, cart.ErrUserNotAuthenticated) ||
		errors.Is(err, product.ErrNotListingOwner)
}

func isBadRequest(err error) bool {
	return errors.Is(err, order.ErrCartEmpty) ||
		errors.Is(err, order.ErrInsufficientStock) ||
		errors.Is(err, delivery.ErrEmptyUpdate) ||
		errors.Is(err, product.ErrInvalidPrice) ||
		errors.Is(err, product.ErrInvalidStock) ||
		errors.Is(err, cart.ErrInvalidQuantity) ||
		errors.Is(err, cart.ErrCartEmpty) ||
		errors.Is(err, cart.ErrInsufficientStock) ||
		errors.Is(err, user.ErrInvalidRole)
}
