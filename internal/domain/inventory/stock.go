package inventory

import (
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ApplyMovement calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// Una salida mayor que el stock actual devuelve *domain.InsufficientStockError y no altera nada.
func ApplyMovement(product *entity.Product, kind entity.MovementKind, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.Invalid("quantity", "la cantidad debe ser positiva")
	}
	switch kind {
	case entity.MovementEntry:
		return product.StockQuantity + quantity, nil
	case entity.MovementExit:
		if quantity > product.StockQuantity {
			return 0, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.StockQuantity,
			}
		}
		return product.StockQuantity - quantity, nil
	}
	return 0, domain.Invalid("kind", "tipo de movimiento desconocido %q", kind)
}
