package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taller-erp/internal/application/auth"
	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/application/metrics"
	"github.com/jhoicas/taller-erp/internal/application/reservation"
	"github.com/jhoicas/taller-erp/internal/application/sale"
	"github.com/jhoicas/taller-erp/internal/application/stockcheck"
	"github.com/jhoicas/taller-erp/internal/application/usecase"
	"github.com/jhoicas/taller-erp/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/taller-erp/internal/interfaces/http"
	"github.com/jhoicas/taller-erp/internal/ws"
	"github.com/jhoicas/taller-erp/pkg/config"
	"github.com/jhoicas/taller-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	hub := ws.NewHub(log)
	go hub.Run()
	notifier := ws.NewStockNotifier(hub, log)

	ledgerUC := ledger.NewUseCase(txRunner, movementRepo, productRepo, userRepo, notifier)
	stockCheckUC := stockcheck.NewUseCase(productRepo)
	metricsUC := metrics.NewUseCase(txRunner, productRepo, movementRepo, log)
	reservationUC := reservation.NewUseCase(txRunner, productRepo, reservationRepo, userRepo, notifier)
	saleUC := sale.NewUseCase(txRunner, userRepo, saleRepo, notifier)
	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		LedgerUC:      ledgerUC,
		StockCheckUC:  stockCheckUC,
		MetricsUC:     metricsUC,
		ReservationUC: reservationUC,
		SaleUC:        saleUC,
		Hub:           hub,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
