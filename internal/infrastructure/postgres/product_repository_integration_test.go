package postgres_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

func TestIntegration_SalidasConcurrentesRespetanStock(t *testing.T) {
	f := setupTestDB(t)
	p := f.product(t, "P-1", 10)
	const n = 15

	var ok, short int64
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.ledger.Register(context.Background(), inventory.MovementInput{
				Kind: entity.MovementExit, ProductID: p, Quantity: 1, Reference: "AJUSTE",
			})
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

	assert.Equal(t, int64(10), ok)
	assert.Equal(t, int64(n-10), short)
	assert.Equal(t, int64(0), f.stock(t, p))
	assert.Equal(t, 10, f.movementCount(t, p))
}

func TestIntegration_GetForUpdateBloqueaLaFila(t *testing.T) {
	f := setupTestDB(t)
	p := f.product(t, "P-1", 4)
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		return f.tx.Run(ctx, func(r repository.Repos) error {
			if _, err := r.Products().GetForUpdate(ctx, p); err != nil {
				return err
			}
			close(locked)
			<-release
			return r.Products().UpdateStock(ctx, p, 1)
		})
	})

	<-locked
	done := make(chan int64, 1)
	g.Go(func() error {
		return f.tx.Run(ctx, func(r repository.Repos) error {
			prod, err := r.Products().GetForUpdate(ctx, p)
			if err != nil {
				return err
			}
			done <- prod.StockQuantity
			return nil
		})
	})

	select {
	case <-done:
		t.Fatal("la segunda transacción leyó la fila sin esperar el bloqueo")
	case <-time.After(300 * time.Millisecond):
	}
	close(release)
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(1), <-done, "tras el bloqueo se lee el stock confirmado")
}
