package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo.
// StockQuantity solo lo modifica el libro de inventario (movimientos); nunca es negativo.
type Product struct {
	ID            int64
	Code          string // único
	Name          string
	Description   string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	StockQuantity int64
	SupplierID    int64
	SupplierName  string
	CategoryID    int64
	CategoryName  string
	Active        bool
}

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	CategoryID *int64
	SupplierID *int64
	MaxStock   *int64 // stock_quantity <= MaxStock
	Active     *bool
	Search     string // código o nombre, contiene
	ByStock    bool   // ordena por stock ascendente en lugar de id
	Limit      int
	Offset     int
}
