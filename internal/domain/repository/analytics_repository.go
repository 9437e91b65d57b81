package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// AnalyticsRepository consultas agregadas de solo lectura para el tablero.
type AnalyticsRepository interface {
	CountOrders(ctx context.Context, kind entity.OrderKind, status entity.OrderStatus) (int64, error)
	// OrdersTotal suma de líneas de pedidos en el estado dado con fecha en [from, to].
	OrdersTotal(ctx context.Context, kind entity.OrderKind, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error)
	TotalStock(ctx context.Context) (int64, error)
}
