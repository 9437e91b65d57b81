package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de entrada. UnitAmount vacío toma el precio vigente del producto.
type OrderLineRequest struct {
	ProductID  int64            `json:"product_id"`
	Quantity   int64            `json:"quantity"`
	UnitAmount *decimal.Decimal `json:"unit_amount,omitempty"`
}

// CreateOrderRequest body de creación (ventas: counterparty_id = cliente; compras: proveedor).
type CreateOrderRequest struct {
	CounterpartyID int64              `json:"counterparty_id"`
	Lines          []OrderLineRequest `json:"lines"`
}

// UpdateOrderRequest parche de cabecera y/o reemplazo completo de líneas.
type UpdateOrderRequest struct {
	CounterpartyID *int64             `json:"counterparty_id,omitempty"`
	Lines          []OrderLineRequest `json:"lines,omitempty"`
}

// TransitionRequest body de POST /:id/transition. Target admite la etiqueta de la serie
// ("completado", "recibida", "cancelado", ...) o el nombre canónico ("finalized", "cancelled").
type TransitionRequest struct {
	Target string `json:"target"`
}

// OrderFilterRequest filtros de listado.
type OrderFilterRequest struct {
	Status         string
	CounterpartyID *int64
	ProductID      *int64
	DateFrom       *time.Time
	DateTo         *time.Time
	PageRequest
}

// OrderLineResponse línea de salida.
type OrderLineResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitAmount  Money  `json:"unit_amount"`
	Subtotal    Money  `json:"subtotal"`
}

// OrderResponse salida de un pedido de venta u orden de compra.
type OrderResponse struct {
	ID               int64               `json:"id"`
	Kind             string              `json:"kind"`
	DocumentNumber   string              `json:"document_number"`
	Date             string              `json:"date"`
	CounterpartyID   int64               `json:"counterparty_id"`
	CounterpartyName string              `json:"counterparty_name"`
	Status           string              `json:"status"`
	Total            Money               `json:"total"`
	Lines            []OrderLineResponse `json:"lines"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
