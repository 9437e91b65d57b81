package postgres

import (
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.Repos = (*Repos)(nil)

// Repos fábrica de repositorios sobre un mismo Querier (pool o tx).
type Repos struct {
	q Querier
}

// NewRepos construye la fábrica. Pasar pool o tx (Querier).
func NewRepos(q Querier) *Repos {
	return &Repos{q: q}
}

func (r *Repos) Products() repository.ProductRepository {
	return NewProductRepository(r.q)
}

func (r *Repos) Movements() repository.InventoryMovementRepository {
	return NewInventoryMovementRepository(r.q)
}

func (r *Repos) Orders(kind entity.OrderKind) repository.OrderRepository {
	return NewOrderRepository(r.q, kind)
}

func (r *Repos) Parties(kind entity.PartyKind) repository.PartyRepository {
	return NewPartyRepository(r.q, kind)
}

func (r *Repos) Categories() repository.CategoryRepository {
	return NewCategoryRepository(r.q)
}
