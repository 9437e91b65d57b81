package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// PartyRepository persistencia de clientes o proveedores.
// Delete devuelve domain.ErrInUse si la contraparte está referenciada.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	GetByID(ctx context.Context, id int64) (*entity.Party, error)
	Update(ctx context.Context, party *entity.Party) error
	List(ctx context.Context, limit, offset int) ([]*entity.Party, error)
	Delete(ctx context.Context, id int64) error
}
