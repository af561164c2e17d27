package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("order status does not permit this transition")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient stock")
)
