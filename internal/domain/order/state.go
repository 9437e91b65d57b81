// Package order reúne las reglas del agregado Pedido compartidas por ventas y compras:
// máquina de estados, validación de líneas y plan de movimientos al finalizar.
package order

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// CheckTransition valida Pending → Finalized | Cancelled. Los estados terminales son absorbentes
// y cualquier otro destino es un error de estado.
func CheckTransition(kind entity.OrderKind, from, to entity.OrderStatus) error {
	if from != entity.StatusPending {
		return &domain.StateError{Current: kind.StatusLabel(from), Action: "cambiar el estado"}
	}
	if to != entity.StatusFinalized && to != entity.StatusCancelled {
		return &domain.StateError{Current: kind.StatusLabel(from), Action: "pasar a " + kind.StatusLabel(to)}
	}
	return nil
}

// EnsureEditable solo los pedidos pendientes admiten edición.
func EnsureEditable(o *entity.Order) error {
	if o.Status != entity.StatusPending {
		return &domain.StateError{Current: o.Kind.StatusLabel(o.Status), Action: "editar el documento"}
	}
	return nil
}

// EnsureDeletable solo los pedidos pendientes pueden eliminarse.
func EnsureDeletable(o *entity.Order) error {
	if o.Status != entity.StatusPending {
		return &domain.StateError{Current: o.Kind.StatusLabel(o.Status), Action: "eliminar el documento"}
	}
	return nil
}

// ValidateLines exige al menos una línea, cantidades y montos positivos con 2 decimales
// como máximo y un producto distinto por línea.
func ValidateLines(lines []entity.OrderLine) error {
	if len(lines) == 0 {
		return domain.Invalid("lines", "el documento debe tener al menos una línea")
	}
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.ProductID <= 0 {
			return domain.Invalid("lines.product_id", "debe seleccionar un producto en cada línea")
		}
		if l.Quantity <= 0 {
			return domain.Invalid("lines.quantity", "la cantidad debe ser positiva")
		}
		if !l.UnitAmount.GreaterThan(decimal.Zero) {
			return domain.Invalid("lines.unit_amount", "el precio unitario debe ser positivo")
		}
		if !l.UnitAmount.Equal(l.UnitAmount.Round(2)) {
			return domain.Invalid("lines.unit_amount", "el precio unitario admite máximo 2 decimales")
		}
		if _, dup := seen[l.ProductID]; dup {
			return domain.Invalid("lines.product_id", "no se puede repetir el producto %d en el documento", l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

// SortedProductIDs ids de producto de las líneas en orden ascendente (orden de bloqueo).
func SortedProductIDs(lines []entity.OrderLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CheckStock verifica cada línea contra el stock bloqueado. Devuelve el primer faltante
// en orden de producto; sin efectos.
func CheckStock(lines []entity.OrderLine, products map[int64]*entity.Product) error {
	byProduct := make(map[int64]entity.OrderLine, len(lines))
	for _, l := range lines {
		byProduct[l.ProductID] = l
	}
	for _, id := range SortedProductIDs(lines) {
		l := byProduct[id]
		p, ok := products[id]
		if !ok || p == nil {
			return domain.ErrNotFound
		}
		if l.Quantity > p.StockQuantity {
			return &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   l.Quantity,
				Available:   p.StockQuantity,
			}
		}
	}
	return nil
}

// FinalizationMovements un movimiento por línea (salida para ventas, entrada para compras),
// referenciando el número y el id del pedido, en orden ascendente de producto.
func FinalizationMovements(o *entity.Order, batchID string, userID *int64) []entity.InventoryMovement {
	kind, note := o.Kind.FinalizeMovement()
	byProduct := make(map[int64]entity.OrderLine, len(o.Lines))
	for _, l := range o.Lines {
		byProduct[l.ProductID] = l
	}
	movs := make([]entity.InventoryMovement, 0, len(o.Lines))
	for _, id := range SortedProductIDs(o.Lines) {
		l := byProduct[id]
		orderID := o.ID
		m := entity.InventoryMovement{
			BatchID:     batchID,
			Kind:        kind,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Reference:   o.Number,
			Note:        note,
			CreatedBy:   userID,
		}
		if o.Kind == entity.OrderPurchase {
			m.PurchaseOrderID = &orderID
		} else {
			m.SalesOrderID = &orderID
		}
		movs = append(movs, m)
	}
	return movs
}
