package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// OrderRepository persistencia de una serie documental (ventas o compras).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe; ambos cargan las líneas.
type OrderRepository interface {
	// LockSeries bloquea la serie hasta el fin de la transacción; serializa la numeración.
	LockSeries(ctx context.Context) error
	// MaxNumberSuffix mayor sufijo numérico de los números existentes (0 si no hay).
	MaxNumberSuffix(ctx context.Context) (int64, error)

	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	UpdateHeader(ctx context.Context, order *entity.Order) error
	ReplaceLines(ctx context.Context, orderID int64, lines []entity.OrderLine) error
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
}
