// Package analytics contiene el caso de uso del tablero principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

const dashboardLowStockItems = 5 // productos en el widget de stock bajo

// DashboardUseCase genera el resumen del tablero.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el listado de productos.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	products      repository.ProductRepository
	lowStock      int64
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. lowStock es el umbral inclusivo de stock bajo.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, products repository.ProductRepository, lowStock int64) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, products: products, lowStock: lowStock, now: time.Now}
}

// GetSummary ejecuta las consultas en paralelo:
//  1. pedidos de venta pendientes
//  2. órdenes de compra pendientes
//  3. ventas completadas de hoy
//  4. ventas completadas del mes
//  5. stock total
//  6. productos activos con stock bajo (los 5 de menor stock)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	// Las fechas de documento se guardan como fecha UTC sin hora.
	y, m, d := uc.now().Date()
	todayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	var (
		out      dto.DashboardDTO
		low      []*entity.Product
		today    decimal.Decimal
		month    decimal.Decimal
		active   = true
		maxStock = uc.lowStock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.PendingSales, err = uc.analyticsRepo.CountOrders(gctx, entity.OrderSales, entity.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		out.PendingPurchases, err = uc.analyticsRepo.CountOrders(gctx, entity.OrderPurchase, entity.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		today, err = uc.analyticsRepo.OrdersTotal(gctx, entity.OrderSales, entity.StatusFinalized, todayStart, todayEnd)
		return err
	})
	g.Go(func() (err error) {
		month, err = uc.analyticsRepo.OrdersTotal(gctx, entity.OrderSales, entity.StatusFinalized, monthStart, todayEnd)
		return err
	})
	g.Go(func() (err error) {
		out.TotalStock, err = uc.analyticsRepo.TotalStock(gctx)
		return err
	})
	g.Go(func() (err error) {
		low, err = uc.products.List(gctx, entity.ProductFilter{
			MaxStock: &maxStock,
			Active:   &active,
			ByStock:  true,
			Limit:    dashboardLowStockItems,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	out.SalesToday = dto.NewMoney(today)
	out.SalesMonth = dto.NewMoney(month)
	out.LowStock = make([]dto.LowStockItemDTO, 0, len(low))
	for _, p := range low {
		out.LowStock = append(out.LowStock, dto.LowStockItemDTO{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
		})
	}
	return &out, nil
}

