package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind serie documental: venta o compra.
type OrderKind string

const (
	OrderSales    OrderKind = "venta"
	OrderPurchase OrderKind = "compra"
)

// OrderStatus estado canónico del pedido. Pending es el único estado no terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusFinalized OrderStatus = "finalized"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal indica si el estado es absorbente.
func (s OrderStatus) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

var statusLabels = map[OrderKind]map[OrderStatus]string{
	OrderSales: {
		StatusPending:   "pendiente",
		StatusFinalized: "completado",
		StatusCancelled: "cancelado",
	},
	OrderPurchase: {
		StatusPending:   "pendiente",
		StatusFinalized: "recibida",
		StatusCancelled: "cancelada",
	},
}

// Valid indica si la serie es conocida.
func (k OrderKind) Valid() bool {
	_, ok := statusLabels[k]
	return ok
}

// StatusLabel devuelve la etiqueta persistida/expuesta del estado ("pendiente", "completado", ...).
func (k OrderKind) StatusLabel(s OrderStatus) string {
	return statusLabels[k][s]
}

// ParseStatus acepta la etiqueta de la serie o el nombre canónico.
func (k OrderKind) ParseStatus(label string) (OrderStatus, bool) {
	for st, l := range statusLabels[k] {
		if l == label || string(st) == label {
			return st, true
		}
	}
	return "", false
}

// CounterpartyKind contraparte de la serie: clientes para ventas, proveedores para compras.
func (k OrderKind) CounterpartyKind() PartyKind {
	if k == OrderPurchase {
		return PartySupplier
	}
	return PartyClient
}

// FinalizeMovement tipo de movimiento y nota que genera la finalización.
func (k OrderKind) FinalizeMovement() (MovementKind, string) {
	if k == OrderPurchase {
		return MovementEntry, "Compra recibida"
	}
	return MovementExit, "Venta completada"
}

// Order cabecera + líneas de un pedido de venta u orden de compra.
type Order struct {
	ID               int64
	Kind             OrderKind
	Number           string // asignado una sola vez al crear
	Date             time.Time
	CounterpartyID   int64
	CounterpartyName string
	Status           OrderStatus
	CreatedBy        *int64
	Lines            []OrderLine
}

// Total suma de subtotales; no se almacena.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// OrderLine línea de pedido con el precio/costo capturado al crearla.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitAmount  decimal.Decimal
}

// Subtotal cantidad × precio unitario.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitAmount.Mul(decimal.NewFromInt(l.Quantity))
}

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	Status         *OrderStatus
	CounterpartyID *int64
	ProductID      *int64
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
	Offset         int
}
