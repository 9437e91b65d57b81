package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto. InitialStock se registra como entrada de inventario.
type CreateProductRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	InitialStock  int64           `json:"initial_stock"`
	SupplierID    int64           `json:"supplier_id"`
	CategoryID    int64           `json:"category_id"`
	Active        *bool           `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock solo cambia vía movimientos).
type UpdateProductRequest struct {
	Code          *string          `json:"code"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SupplierID    *int64           `json:"supplier_id"`
	CategoryID    *int64           `json:"category_id"`
	Active        *bool            `json:"active"`
}

// ProductFilterRequest filtros de GET /api/products.
type ProductFilterRequest struct {
	CategoryID *int64
	SupplierID *int64
	MaxStock   *int64
	Active     *bool
	Search     string
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SalePrice     Money  `json:"sale_price"`
	PurchasePrice Money  `json:"purchase_price"`
	StockQuantity int64  `json:"stock_quantity"`
	SupplierID    int64  `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name"`
	Active        bool   `json:"active"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
