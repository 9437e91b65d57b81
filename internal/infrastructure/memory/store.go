// Package memory implementa los puertos de repositorio sobre estructuras en memoria.
//
// Las transacciones se serializan con un único mutex y trabajan sobre una copia del
// estado que solo se publica al confirmar; un error en fn descarta la copia entera.
// Se usa en pruebas de casos de uso y como almacenamiento efímero.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

type state struct {
	nextID     int64
	products   map[int64]entity.Product
	movements  []entity.InventoryMovement
	orders     map[entity.OrderKind]map[int64]entity.Order
	parties    map[entity.PartyKind]map[int64]entity.Party
	categories map[int64]entity.Category
	users      map[int64]entity.User
}

func newState() *state {
	return &state{
		products: map[int64]entity.Product{},
		orders: map[entity.OrderKind]map[int64]entity.Order{
			entity.OrderSales:    {},
			entity.OrderPurchase: {},
		},
		parties: map[entity.PartyKind]map[int64]entity.Party{
			entity.PartyClient:   {},
			entity.PartySupplier: {},
		},
		categories: map[int64]entity.Category{},
		users:      map[int64]entity.User{},
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *state) clone() *state {
	c := &state{
		nextID:     s.nextID,
		products:   make(map[int64]entity.Product, len(s.products)),
		movements:  make([]entity.InventoryMovement, len(s.movements)),
		orders:     make(map[entity.OrderKind]map[int64]entity.Order, len(s.orders)),
		parties:    make(map[entity.PartyKind]map[int64]entity.Party, len(s.parties)),
		categories: make(map[int64]entity.Category, len(s.categories)),
		users:      make(map[int64]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	copy(c.movements, s.movements)
	for kind, m := range s.orders {
		cm := make(map[int64]entity.Order, len(m))
		for k, v := range m {
			v.Lines = append([]entity.OrderLine(nil), v.Lines...)
			cm[k] = v
		}
		c.orders[kind] = cm
	}
	for kind, m := range s.parties {
		cm := make(map[int64]entity.Party, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.parties[kind] = cm
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacenamiento en memoria con transacciones serializadas.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado; la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&repos{store: s, tx: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción: cada llamada ve el último estado confirmado.
func (s *Store) Repos() repository.Repos {
	return &repos{store: s}
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{base{store: s}}
}

// Analytics consultas agregadas.
func (s *Store) Analytics() repository.AnalyticsRepository {
	return &analyticsRepo{base{store: s}}
}

type repos struct {
	store *Store
	tx    *state
}

func (r *repos) base() base { return base{store: r.store, tx: r.tx} }

func (r *repos) Products() repository.ProductRepository {
	return &productRepo{r.base()}
}

func (r *repos) Movements() repository.InventoryMovementRepository {
	return &movementRepo{r.base()}
}

func (r *repos) Orders(kind entity.OrderKind) repository.OrderRepository {
	return &orderRepo{base: r.base(), kind: kind}
}

func (r *repos) Parties(kind entity.PartyKind) repository.PartyRepository {
	return &partyRepo{base: r.base(), kind: kind}
}

func (r *repos) Categories() repository.CategoryRepository {
	return &categoryRepo{r.base()}
}

// base resuelve el estado sobre el que opera una llamada. Dentro de una transacción
// el mutex ya está tomado por Run.
type base struct {
	store *Store
	tx    *state
}

func (b base) with(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	// Escritura fuera de transacción: confirmación inmediata y atómica.
	work := b.store.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	b.store.st = work
	return nil
}
