package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

func TestOrder_Total(t *testing.T) {
	o := &entity.Order{Lines: []entity.OrderLine{
		{Quantity: 2, UnitAmount: decimal.RequireFromString("10.00")},
		{Quantity: 3, UnitAmount: decimal.RequireFromString("0.35")},
	}}
	assert.Equal(t, "21.05", o.Total().StringFixed(2))
	assert.Equal(t, "0.00", (&entity.Order{}).Total().StringFixed(2))
}

func TestOrderKind_Labels(t *testing.T) {
	assert.Equal(t, "pendiente", entity.OrderSales.StatusLabel(entity.StatusPending))
	assert.Equal(t, "completado", entity.OrderSales.StatusLabel(entity.StatusFinalized))
	assert.Equal(t, "recibida", entity.OrderPurchase.StatusLabel(entity.StatusFinalized))
	assert.Equal(t, "cancelada", entity.OrderPurchase.StatusLabel(entity.StatusCancelled))

	st, ok := entity.OrderSales.ParseStatus("completado")
	assert.True(t, ok)
	assert.Equal(t, entity.StatusFinalized, st)

	st, ok = entity.OrderPurchase.ParseStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, entity.StatusCancelled, st)

	_, ok = entity.OrderPurchase.ParseStatus("completado")
	assert.False(t, ok, "completado no es etiqueta de compras")

	assert.Equal(t, entity.PartySupplier, entity.OrderPurchase.CounterpartyKind())
	assert.Equal(t, entity.PartyClient, entity.OrderSales.CounterpartyKind())
	assert.False(t, entity.OrderKind("x").Valid())
}
