package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/middleware"
	"agrocycle-be/internal/payment/webhook"
	"agrocycle-be/internal/utils"
)

type Handlers struct {
	User       *UserHandler
	Product    *ProductHandler
	Cart       *CartHandler
	Order      *OrderHandler
	Delivery   *DeliveryHandler
	Refund     *RefundHandler
	Payment    *PaymentHandler
	Settlement *SettlementHandler
	Webhook    *webhook.Handler
}

// NewRouter assembles the route tree. The webhook stays outside the auth
// gate: Stripe authenticates with its signature, not a bearer token.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.AuthMiddleware)

	r.Post("/register", h.User.Register)
	r.Post("/login", h.User.Login)
	r.Post("/webhook/payment", h.Webhook.HandleWebhook)

	r.Get("/products", h.Product.List)
	r.Get("/products/{id}", h.Product.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/order-history", func(r chi.Router) {
			r.Get("/", h.Order.List)
			r.Post("/checkout", h.Order.Checkout)
			r.Put("/{id}/accept", h.Order.Accept)
			r.Put("/{id}/decline", h.Order.Decline)
			r.Put("/{id}/mark-done", h.Order.MarkDone)
			r.Delete("/cancel/{id}", h.Order.Cancel)
		})

		r.Route("/deliveryReq", func(r chi.Router) {
			r.Get("/get-delivery-requests", h.Delivery.List)
			r.With(middleware.RequireRole(utils.RoleFarmer)).Post("/create", h.Delivery.Create)
			r.With(middleware.RequireRole(utils.RoleDriver)).Put("/update-delivery-requests/{id}", h.Delivery.UpdateStatus)
			r.With(middleware.RequireRole(utils.RoleFarmer)).Put("/update-farmer/{id}", h.Delivery.UpdateFarmer)
			r.With(middleware.RequireRole(utils.RoleFarmer)).Delete("/delete-farmer/{id}", h.Delivery.DeleteFarmer)
		})

		r.Route("/refunds", func(r chi.Router) {
			r.Get("/", h.Refund.List)
			r.Post("/", h.Refund.Create)
			r.With(middleware.RequireRole(utils.RoleAdmin)).Patch("/{id}/status", h.Refund.UpdateStatus)
			r.With(middleware.RequireRole(utils.RoleAdmin)).Delete("/{id}", h.Refund.Delete)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Post("/", h.Cart.Add)
			r.Put("/{productId}", h.Cart.UpdateQuantity)
			r.Delete("/{productId}", h.Cart.Remove)
			r.Delete("/", h.Cart.Clear)
		})

		r.With(middleware.RequireRole(utils.RoleFarmer)).Post("/products", h.Product.Create)
		r.With(middleware.RequireRole(utils.RoleFarmer)).Delete("/products/{id}", h.Product.Disable)

		r.Post("/create-checkout-session", h.Payment.CreateCheckoutSession)
		r.With(middleware.RequireRole(utils.RoleAdmin)).Get("/stripe-payments", h.Payment.List)
		r.With(middleware.RequireRole(utils.RoleAdmin)).Get("/settlement/summary", h.Settlement.Summary)
	})

	return r
}
