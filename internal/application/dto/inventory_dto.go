package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements (movimiento manual).
type RegisterMovementRequest struct {
	Kind      string `json:"kind"` // entrada | salida
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// MovementFilterRequest filtros de GET /api/inventory/movements.
type MovementFilterRequest struct {
	Kind              string
	ProductID         *int64
	DateFrom          *time.Time
	DateTo            *time.Time
	ReferenceContains string
	PageRequest
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Kind            string    `json:"kind"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int64     `json:"quantity"`
	Reference       string    `json:"reference"`
	Note            string    `json:"note"`
	BatchID         string    `json:"batch_id,omitempty"`
	SalesOrderID    *int64    `json:"sales_order_id,omitempty"`
	PurchaseOrderID *int64    `json:"purchase_order_id,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
