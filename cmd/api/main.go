package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/gestion-comercial/internal/application/analytics"
	"github.com/jhoicas/gestion-comercial/internal/application/auth"
	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/application/orders"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	infrapdf "github.com/jhoicas/gestion-comercial/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestion-comercial/internal/interfaces/http"
	"github.com/jhoicas/gestion-comercial/pkg/config"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración")
		}
		log.Info().Msg("esquema aplicado")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool, time.Duration(cfg.DB.LockTimeoutMS)*time.Millisecond)
	ledger := inventory.NewStockLedger(txRunner, repos, log.Component("ledger"))

	pdfGenerator := infrapdf.NewOrderGenerator()
	salesSvc := orders.NewService(orders.Config{
		Kind:   entity.OrderSales,
		Prefix: cfg.Documents.SalesPrefix,
		Issuer: cfg.App.Name,
	}, txRunner, repos, ledger, pdfGenerator, log.Component("orders"))
	purchaseSvc := orders.NewService(orders.Config{
		Kind:   entity.OrderPurchase,
		Prefix: cfg.Documents.PurchasePrefix,
		Issuer: cfg.App.Name,
	}, txRunner, repos, ledger, pdfGenerator, log.Component("orders"))

	productUC := usecase.NewProductUseCase(txRunner, repos, ledger)
	categoryUC := usecase.NewCategoryUseCase(repos)
	clientUC := usecase.NewPartyUseCase(entity.PartyClient, repos)
	supplierUC := usecase.NewPartyUseCase(entity.PartySupplier, repos)
	dashboardUC := appanalytics.NewDashboardUseCase(
		postgres.NewAnalyticsRepository(pool), repos.Products(), cfg.Documents.LowStockThreshold,
	)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestión Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		ClientUC:       clientUC,
		SupplierUC:     supplierUC,
		SalesOrders:    salesSvc,
		PurchaseOrders: purchaseSvc,
		Ledger:         ledger,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
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
