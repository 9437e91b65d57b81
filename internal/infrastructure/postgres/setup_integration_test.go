package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/application/orders"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-comercial/pkg/config"
)

// Las pruebas de integración necesitan una base dedicada: TRUNCATE borra todos los datos.
// Sin TEST_DATABASE_URL se omiten.

type dbFixture struct {
	pool       *pgxpool.Pool
	tx         *postgres.TxRunner
	repos      *postgres.Repos
	ledger     *inventory.StockLedger
	sales      *orders.Service
	clientID   int64
	supplierID int64
	categoryID int64
}

func setupTestDB(t *testing.T) *dbFixture {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL no definido; se omite la prueba de integración")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dbURL, MaxConns: 30})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE inventory_movements, sales_order_lines, sales_orders,
			purchase_order_lines, purchase_orders, products, categories, clients, suppliers
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	f := &dbFixture{
		pool:  pool,
		tx:    postgres.NewTxRunner(pool, 5*time.Second),
		repos: postgres.NewRepos(pool),
	}
	f.ledger = inventory.NewStockLedger(f.tx, f.repos, zerolog.Nop())
	f.sales = orders.NewService(orders.Config{Kind: entity.OrderSales, Prefix: "V-", Issuer: "Test"},
		f.tx, f.repos, f.ledger, nil, zerolog.Nop())

	client := &entity.Party{Name: "Ana Pérez", Phone: "3001234567"}
	require.NoError(t, f.repos.Parties(entity.PartyClient).Create(ctx, client))
	supplier := &entity.Party{Name: "Distribuidora Norte", ContactName: "Luis"}
	require.NoError(t, f.repos.Parties(entity.PartySupplier).Create(ctx, supplier))
	cat := &entity.Category{Name: "Bebidas"}
	require.NoError(t, f.repos.Categories().Create(ctx, cat))
	f.clientID, f.supplierID, f.categoryID = client.ID, supplier.ID, cat.ID
	return f
}

func (f *dbFixture) product(t *testing.T, code string, stock int64) int64 {
	t.Helper()
	p := &entity.Product{
		Code:          code,
		Name:          "Producto " + code,
		SalePrice:     decimal.RequireFromString("10.00"),
		PurchasePrice: decimal.RequireFromString("6.00"),
		StockQuantity: stock,
		SupplierID:    f.supplierID,
		CategoryID:    f.categoryID,
		Active:        true,
	}
	require.NoError(t, f.repos.Products().Create(context.Background(), p))
	return p.ID
}

func (f *dbFixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	p, err := f.repos.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (f *dbFixture) movementCount(t *testing.T, productID int64) int {
	t.Helper()
	list, err := f.repos.Movements().List(context.Background(), entity.MovementFilter{ProductID: &productID})
	require.NoError(t, err)
	return len(list)
}
