package dto

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	PendingSales     int64 `json:"pending_sales"`
	PendingPurchases int64 `json:"pending_purchases"`

	// Ventas completadas (suma de totales) del día y del mes en curso
	SalesToday Money `json:"sales_today"`
	SalesMonth Money `json:"sales_month"`

	TotalStock int64             `json:"total_stock"`
	LowStock   []LowStockItemDTO `json:"low_stock"`
}

// LowStockItemDTO producto con stock bajo el umbral configurado.
type LowStockItemDTO struct {
	ProductID     int64  `json:"product_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
}
