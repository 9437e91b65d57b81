package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/sequence"
)

// ── numeración ───────────────────────────────────────────────────────────────

func TestIntegration_CreateConcurrenteNumerosDistintos(t *testing.T) {
	f := setupTestDB(t)
	p := f.product(t, "P-1", 5)
	const n = 20

	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			o, err := f.sales.Create(context.Background(), 0, dto.CreateOrderRequest{
				CounterpartyID: f.clientID,
				Lines:          []dto.OrderLineRequest{{ProductID: p, Quantity: 1}},
			})
			if err != nil {
				return err
			}
			numbers[i] = o.DocumentNumber
			return nil
		})
	}
	require.NoError(t, g.Wait(), "el bloqueo de la serie serializa las creaciones sin conflictos")

	seen := make(map[string]bool, n)
	for _, num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("V-%04d", i)], "falta V-%04d", i)
	}
}

func TestIntegration_MaxNumberSuffixIgualAlDominio(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	numbers := []string{"V-0041", "V-manual", "V-1234567890123456789", "2025-V-7"}
	for _, num := range numbers {
		_, err := f.pool.Exec(ctx,
			`INSERT INTO sales_orders (number, client_id, status) VALUES ($1, $2, 'pendiente')`, num, f.clientID)
		require.NoError(t, err)
	}

	got, err := f.repos.Orders(entity.OrderSales).MaxNumberSuffix(ctx)
	require.NoError(t, err)
	assert.Equal(t, sequence.MaxSuffix(numbers), got)
	assert.Equal(t, int64(41), got, "un sufijo de más de 18 dígitos cuenta como 0")

	p := f.product(t, "P-1", 1)
	o, err := f.sales.Create(ctx, 0, dto.CreateOrderRequest{
		CounterpartyID: f.clientID,
		Lines:          []dto.OrderLineRequest{{ProductID: p, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "V-0042", o.DocumentNumber)
	assert.Equal(t, "10.00", o.Total.StringFixed(2))
}

// ── finalización ─────────────────────────────────────────────────────────────

func TestIntegration_FinalizacionConcurrenteNuncaStockNegativo(t *testing.T) {
	f := setupTestDB(t)
	p := f.product(t, "P-1", 5)
	const n = 12

	ids := make([]int64, n)
	for i := range ids {
		o, err := f.sales.Create(context.Background(), 0, dto.CreateOrderRequest{
			CounterpartyID: f.clientID,
			Lines:          []dto.OrderLineRequest{{ProductID: p, Quantity: 1}},
		})
		require.NoError(t, err)
		ids[i] = o.ID
	}

	var ok, short int64
	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := f.sales.Transition(context.Background(), 0, id, "completado")
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt64(&short, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(5), ok)
	assert.Equal(t, int64(n-5), short)
	assert.Equal(t, int64(0), f.stock(t, p))
	assert.Equal(t, 5, f.movementCount(t, p))

	pending, err := f.sales.List(context.Background(), dto.OrderFilterRequest{Status: "pendiente"})
	require.NoError(t, err)
	assert.Len(t, pending.Items, n-5, "los rechazados siguen pendientes")
}

func TestIntegration_FinalizacionConcurrenteSinInterbloqueo(t *testing.T) {
	f := setupTestDB(t)
	a := f.product(t, "P-A", 100)
	b := f.product(t, "P-B", 100)
	const n = 10

	// Mitad de los pedidos con líneas A,B y mitad B,A: el bloqueo por id ascendente evita ciclos.
	ids := make([]int64, n)
	for i := range ids {
		lines := []dto.OrderLineRequest{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 2}}
		if i%2 == 1 {
			lines[0], lines[1] = lines[1], lines[0]
		}
		o, err := f.sales.Create(context.Background(), 0, dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: lines})
		require.NoError(t, err)
		ids[i] = o.ID
	}

	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := f.sales.Transition(context.Background(), 0, id, "completado")
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(100-n), f.stock(t, a))
	assert.Equal(t, int64(100-2*n), f.stock(t, b))
}

func TestIntegration_TransicionDobleSoloUnaGana(t *testing.T) {
	f := setupTestDB(t)
	p := f.product(t, "P-1", 10)
	o, err := f.sales.Create(context.Background(), 0, dto.CreateOrderRequest{
		CounterpartyID: f.clientID,
		Lines:          []dto.OrderLineRequest{{ProductID: p, Quantity: 3}},
	})
	require.NoError(t, err)

	targets := []string{"completado", "cancelado", "completado", "cancelado"}
	var won, rejected int64
	var g errgroup.Group
	for _, target := range targets {
		target := target
		g.Go(func() error {
			_, err := f.sales.Transition(context.Background(), 0, o.ID, target)
			switch {
			case err == nil:
				atomic.AddInt64(&won, 1)
			case errors.Is(err, domain.ErrInvalidState):
				atomic.AddInt64(&rejected, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), won)
	assert.Equal(t, int64(len(targets)-1), rejected)

	got, err := f.sales.Get(context.Background(), o.ID)
	require.NoError(t, err)
	switch got.Status {
	case "completado":
		assert.Equal(t, int64(7), f.stock(t, p))
		assert.Equal(t, 1, f.movementCount(t, p))
	case "cancelado":
		assert.Equal(t, int64(10), f.stock(t, p))
		assert.Equal(t, 0, f.movementCount(t, p))
	default:
		t.Fatalf("estado inesperado %q", got.Status)
	}
}
