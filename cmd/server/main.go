package main

import (
	"net/http"

	"go.uber.org/zap"

	"agrocycle-be/internal/cart"
	"agrocycle-be/internal/config"
	"agrocycle-be/internal/db"
	"agrocycle-be/internal/delivery"
	handler "agrocycle-be/internal/handler/http"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/payment"
	"agrocycle-be/internal/payment/webhook"
	"agrocycle-be/internal/product"
	"agrocycle-be/internal/refund"
	"agrocycle-be/internal/settlement"
	"agrocycle-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookKey)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	deliveryRepo := delivery.NewRepository(database)
	deliverySvc := delivery.NewService(deliveryRepo)

	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(gateway, paymentRepo, orderRepo)

	refundRepo := refund.NewRepository(database)
	refundSvc := refund.NewService(refundRepo, gateway)

	settlementSvc := settlement.NewService(paymentRepo, cfg.FarmerShareRate, cfg.HighValueThreshold)

	router := handler.NewRouter(handler.Handlers{
		User:       handler.NewUserHandler(userSvc),
		Product:    handler.NewProductHandler(productSvc),
		Cart:       handler.NewCartHandler(cartSvc),
		Order:      handler.NewOrderHandler(orderSvc),
		Delivery:   handler.NewDeliveryHandler(deliverySvc),
		Refund:     handler.NewRefundHandler(refundSvc),
		Payment:    handler.NewPaymentHandler(paymentSvc),
		Settlement: handler.NewSettlementHandler(settlementSvc),
		Webhook:    webhook.NewHandler(gateway, paymentRepo),
	})

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
