package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/inventory"
)

func TestApplyMovement(t *testing.T) {
	p := &entity.Product{ID: 3, Name: "Tornillo", StockQuantity: 5}

	tests := []struct {
		name    string
		kind    entity.MovementKind
		qty     int64
		want    int64
		wantErr error
	}{
		{name: "entrada suma", kind: entity.MovementEntry, qty: 4, want: 9},
		{name: "salida resta", kind: entity.MovementExit, qty: 2, want: 3},
		{name: "salida exacta deja cero", kind: entity.MovementExit, qty: 5, want: 0},
		{name: "salida excede stock", kind: entity.MovementExit, qty: 6, wantErr: domain.ErrInsufficientStock},
		{name: "cantidad cero", kind: entity.MovementEntry, qty: 0, wantErr: domain.ErrInvalidInput},
		{name: "cantidad negativa", kind: entity.MovementExit, qty: -1, wantErr: domain.ErrInvalidInput},
		{name: "tipo desconocido", kind: "ajuste", qty: 1, wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.ApplyMovement(p, tt.kind, tt.qty)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, int64(5), p.StockQuantity, "ApplyMovement no modifica el producto")
}

func TestApplyMovement_IdentificaProducto(t *testing.T) {
	p := &entity.Product{ID: 7, Name: "Tuerca", StockQuantity: 1}
	_, err := inventory.ApplyMovement(p, entity.MovementExit, 2)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(7), stockErr.ProductID)
	assert.Equal(t, int64(2), stockErr.Requested)
	assert.Equal(t, int64(1), stockErr.Available)
}
