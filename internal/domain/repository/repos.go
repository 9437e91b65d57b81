package repository

import "github.com/jhoicas/gestion-comercial/internal/domain/entity"

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos interface {
	Products() ProductRepository
	Movements() InventoryMovementRepository
	Orders(kind entity.OrderKind) OrderRepository
	Parties(kind entity.PartyKind) PartyRepository
	Categories() CategoryRepository
}
