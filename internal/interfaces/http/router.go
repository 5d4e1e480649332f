package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/application/auth"
	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/application/metrics"
	"github.com/jhoicas/taller-erp/internal/application/reservation"
	"github.com/jhoicas/taller-erp/internal/application/sale"
	"github.com/jhoicas/taller-erp/internal/application/stockcheck"
	"github.com/jhoicas/taller-erp/internal/application/usecase"
	"github.com/jhoicas/taller-erp/internal/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	ProductUC     *usecase.ProductUseCase
	LedgerUC      *ledger.UseCase
	StockCheckUC  *stockcheck.UseCase
	MetricsUC     *metrics.UseCase
	ReservationUC *reservation.UseCase
	SaleUC        *sale.UseCase
	Hub           *ws.Hub
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; el alta es de admin/bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin", "bodeguero"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Movements: el ledger (protegido; escribir es de admin/bodeguero)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Post("/", RequireRole("admin", "bodeguero"), movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/stats", movementHandler.Stats)
	movements.Get("/:id", movementHandler.GetByID)
	products.Get("/:id/movements", movementHandler.ListByProduct)

	// Stock: disponibilidad, métricas, alertas, historial (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockCheckUC, deps.MetricsUC)
	stockGroup.Get("/low", stockHandler.GetLowStock)
	stockGroup.Get("/attention", stockHandler.GetAttention)
	stockGroup.Post("/validate-batch", stockHandler.ValidateBatch)
	stockGroup.Get("/:id/availability", stockHandler.ValidateAvailability)
	stockGroup.Get("/:id/status", stockHandler.GetStatus)
	stockGroup.Get("/:id/metrics", stockHandler.GetMetrics)
	stockGroup.Get("/:id/alerts", stockHandler.GetAlerts)
	stockGroup.Get("/:id/optimize", stockHandler.OptimizeLevels)
	stockGroup.Get("/:id/history", stockHandler.GetHistory)

	// Reservations (protegido)
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Post("/:id/release", reservationHandler.Release)
	products.Get("/:id/reservations", reservationHandler.ListActiveByProduct)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)

	// Feed websocket de movimientos confirmados
	if deps.Hub != nil {
		app.Use("/ws/stock", WSUpgrade)
		app.Get("/ws/stock", StockFeed(deps.Hub))
	}
}
