package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update modifica datos de catálogo; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste el nuevo stock (uso exclusivo del libro de inventario).
	UpdateStock(ctx context.Context, id, quantity int64) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
