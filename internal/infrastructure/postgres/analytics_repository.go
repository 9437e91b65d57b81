package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

func (r *AnalyticsRepo) CountOrders(ctx context.Context, kind entity.OrderKind, status entity.OrderStatus) (int64, error) {
	t := tablesByKind[kind]
	var n int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = $1`, t.orders)
	if err := r.q.QueryRow(ctx, query, kind.StatusLabel(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// OrdersTotal suma cantidad × precio de las líneas; el total no se almacena.
func (r *AnalyticsRepo) OrdersTotal(ctx context.Context, kind entity.OrderKind, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error) {
	t := tablesByKind[kind]
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(l.quantity * l.unit_amount), 0)
		FROM %s o
		JOIN %s l ON l.order_id = o.id
		WHERE o.status = $1 AND o.date >= $2::date AND o.date <= $3::date`, t.orders, t.lines)
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, kind.StatusLabel(status), from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("orders total: %w", err)
	}
	return total.Round(2), nil
}

func (r *AnalyticsRepo) TotalStock(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(stock_quantity), 0)::bigint FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("total stock: %w", err)
	}
	return n, nil
}
