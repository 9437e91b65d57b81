package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro de inventario: solo alta y consulta.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryMovement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.InventoryMovement, error)
}
