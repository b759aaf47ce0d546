package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/settings"
	"github.com/jhoicas/storefront-api/internal/application/shipping"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AvailabilityUC *inventory.AvailabilityUseCase
	ReservationUC  *inventory.ReservationUseCase
	StockAdminUC   *inventory.StockAdminUseCase
	ShippingUC     *shipping.ShippingUseCase
	CheckoutUC     *checkout.CheckoutUseCase
	SettingsUC     *settings.SettingsUseCase
	AuthUC         *auth.AuthUseCase
	Metrics        *metrics.Metrics
	Log            *logger.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	stockHandler := NewStockHandler(deps.AvailabilityUC, deps.ReservationUC, deps.StockAdminUC, deps.Metrics, log)
	shippingHandler := NewShippingHandler(deps.ShippingUC, deps.Metrics, log)
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC, log)
	settingsHandler := NewSettingsHandler(deps.SettingsUC, log)
	authHandler := NewAuthHandler(deps.AuthUC, log)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Storefront (público)
	api.Get("/stock/:itemId", stockHandler.GetAvailable)
	api.Post("/stock/availability", stockHandler.BatchAvailable)
	api.Post("/reservations", stockHandler.Reserve)
	api.Delete("/reservations/:sessionId", stockHandler.Release)
	api.Get("/shipping/rate", shippingHandler.ResolveRate)
	api.Post("/checkout/quote", checkoutHandler.Quote)

	// Admin (Bearer Token con rol admin)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(auth.RoleAdmin))
	admin.Get("/settings", settingsHandler.Get)
	admin.Put("/settings", settingsHandler.Update)
	admin.Put("/stock/:itemId", stockHandler.SetPhysical)
	admin.Get("/shipping/zones", shippingHandler.ListZones)
	admin.Post("/shipping/zones", shippingHandler.CreateZone)
	admin.Post("/shipping/zones/:id/rates", shippingHandler.CreateRate)
	admin.Post("/discounts/:code/redeem", checkoutHandler.Redeem)
}
