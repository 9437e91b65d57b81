package entity

import "time"

// MovementKind tipo de movimiento de inventario.
type MovementKind string

const (
	MovementEntry MovementKind = "entrada"
	MovementExit  MovementKind = "salida"
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k == MovementEntry || k == MovementExit
}

// InventoryMovement es un asiento inmutable del libro de inventario.
// Su único efecto es el ajuste de stock aplicado en la misma transacción que lo crea.
type InventoryMovement struct {
	ID              int64
	BatchID         string // agrupa los movimientos de una misma transición
	Kind            MovementKind
	ProductID       int64
	ProductName     string
	Quantity        int64 // siempre positiva
	Reference       string
	Note            string
	SalesOrderID    *int64
	PurchaseOrderID *int64
	CreatedBy       *int64
	CreatedAt       time.Time
}

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	Kind              *MovementKind
	ProductID         *int64
	DateFrom          *time.Time
	DateTo            *time.Time
	ReferenceContains string
	Limit             int
	Offset            int
}
