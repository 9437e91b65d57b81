// seed aplica el esquema y crea el usuario administrador inicial.
//
// Uso: go run ./cmd/seed [demo]
// Con "demo" además carga un catálogo de ejemplo (categoría, proveedor, cliente, productos).
// Es idempotente: un administrador o categoría ya existente no es un error.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/application/auth"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-comercial/pkg/config"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración")
	}
	log.Info().Msg("esquema aplicado")

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_PASSWORD es requerido")
	}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	admin, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Username: cfg.Seed.AdminUsername,
		Password: cfg.Seed.AdminPassword,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("username", cfg.Seed.AdminUsername).Msg("administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Int64("id", admin.ID).Str("username", admin.Username).Msg("administrador creado")
	}

	if len(os.Args) > 1 && os.Args[1] == "demo" {
		repos := postgres.NewRepos(pool)
		tx := postgres.NewTxRunner(pool, time.Duration(cfg.DB.LockTimeoutMS)*time.Millisecond)
		ledger := inventory.NewStockLedger(tx, repos, log.Component("ledger"))
		if err := seedDemo(ctx, repos, tx, ledger); err != nil {
			log.Fatal().Err(err).Msg("catálogo de ejemplo")
		}
		log.Info().Msg("catálogo de ejemplo cargado")
	}
}

func seedDemo(ctx context.Context, repos *postgres.Repos, tx *postgres.TxRunner, ledger *inventory.StockLedger) error {
	category, err := usecase.NewCategoryUseCase(repos).Create(ctx, dto.CategoryRequest{Name: "Abarrotes", Description: "Granos y básicos"})
	if errors.Is(err, domain.ErrDuplicate) {
		// Ya sembrado en una ejecución anterior.
		return nil
	}
	if err != nil {
		return err
	}
	supplier, err := usecase.NewPartyUseCase(entity.PartySupplier, repos).Create(ctx, dto.PartyRequest{
		Name: "Distribuidora Andina", ContactName: "Marta Ríos", Phone: "3001234567",
	})
	if err != nil {
		return err
	}
	if _, err := usecase.NewPartyUseCase(entity.PartyClient, repos).Create(ctx, dto.PartyRequest{
		Name: "Tienda El Sol", Phone: "3109876543", Address: "Cra 7 # 12-30",
	}); err != nil {
		return err
	}

	products := usecase.NewProductUseCase(tx, repos, ledger)
	for _, p := range []dto.CreateProductRequest{
		{Code: "ARR-500", Name: "Arroz 500 g", SalePrice: decimal.RequireFromString("3200"), PurchasePrice: decimal.RequireFromString("2500"), InitialStock: 40},
		{Code: "FRI-500", Name: "Fríjol 500 g", SalePrice: decimal.RequireFromString("5400"), PurchasePrice: decimal.RequireFromString("4100"), InitialStock: 12},
		{Code: "ACE-1L", Name: "Aceite 1 L", SalePrice: decimal.RequireFromString("11900"), PurchasePrice: decimal.RequireFromString("9300"), InitialStock: 3},
	} {
		p.SupplierID = supplier.ID
		p.CategoryID = category.ID
		if _, err := products.Create(ctx, 0, p); err != nil {
			return err
		}
	}
	return nil
}
