package orders_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/application/orders"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/pdf"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID int64 = 1

type fixture struct {
	store      *memory.Store
	sales      *orders.Service
	purchases  *orders.Service
	clientID   int64
	supplierID int64
	categoryID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewStockLedger(store, store.Repos(), zerolog.Nop())
	gen := pdf.NewOrderGenerator()

	f := &fixture{
		store: store,
		sales: orders.NewService(orders.Config{Kind: entity.OrderSales, Prefix: "V-", Issuer: "Test"},
			store, store.Repos(), ledger, gen, zerolog.Nop()),
		purchases: orders.NewService(orders.Config{Kind: entity.OrderPurchase, Prefix: "OC-", Issuer: "Test"},
			store, store.Repos(), ledger, gen, zerolog.Nop()),
	}

	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		client := &entity.Party{Name: "Ana Pérez", Phone: "3001234567", Address: "Calle 1"}
		if err := r.Parties(entity.PartyClient).Create(ctx, client); err != nil {
			return err
		}
		supplier := &entity.Party{Name: "Distribuidora Norte", ContactName: "Luis", Phone: "6011234"}
		if err := r.Parties(entity.PartySupplier).Create(ctx, supplier); err != nil {
			return err
		}
		cat := &entity.Category{Name: "Bebidas"}
		if err := r.Categories().Create(ctx, cat); err != nil {
			return err
		}
		f.clientID, f.supplierID, f.categoryID = client.ID, supplier.ID, cat.ID
		return nil
	}))
	return f
}

// product crea un producto con precio de venta price y el stock indicado.
func (f *fixture) product(t *testing.T, code, price string, stock int64) int64 {
	t.Helper()
	p := &entity.Product{
		Code:          code,
		Name:          "Producto " + code,
		SalePrice:     decimal.RequireFromString(price),
		PurchasePrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)).Round(2),
		StockQuantity: stock,
		SupplierID:    f.supplierID,
		CategoryID:    f.categoryID,
		Active:        true,
	}
	require.NoError(t, f.store.Repos().Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	p, err := f.store.Repos().Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (f *fixture) movements(t *testing.T) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.store.Repos().Movements().List(context.Background(), entity.MovementFilter{})
	require.NoError(t, err)
	return list
}

func (f *fixture) createSale(t *testing.T, lines ...dto.OrderLineRequest) *dto.OrderResponse {
	t.Helper()
	o, err := f.sales.Create(context.Background(), testUserID, dto.CreateOrderRequest{
		CounterpartyID: f.clientID,
		Lines:          lines,
	})
	require.NoError(t, err)
	return o
}

func line(productID, qty int64) dto.OrderLineRequest {
	return dto.OrderLineRequest{ProductID: productID, Quantity: qty}
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SerieVaciaAsignaPrimerNumero(t *testing.T) {
	f := newFixture(t)
	p3 := f.product(t, "P-3", "10.00", 5)

	o := f.createSale(t, line(p3, 2))

	assert.Equal(t, "V-0001", o.DocumentNumber)
	assert.Equal(t, "pendiente", o.Status)
	assert.Equal(t, "20.00", o.Total.StringFixed(2))
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "10", o.Lines[0].UnitAmount.String(), "sin monto se toma el precio de venta")
	assert.Equal(t, "Ana Pérez", o.CounterpartyName)
	assert.Equal(t, int64(5), f.stock(t, p3), "crear no mueve stock")
	assert.Empty(t, f.movements(t))
}

func TestCreate_MontosConDosDecimalesEnJSON(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-9", "10.00", 5)

	o := f.createSale(t, line(p, 2))

	raw, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total":"20.00"`)
	assert.Contains(t, string(raw), `"unit_amount":"10.00"`)
	assert.Contains(t, string(raw), `"subtotal":"20.00"`)
}

func TestCreate_NumeracionPorSerie(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	ctx := context.Background()

	assert.Equal(t, "V-0001", f.createSale(t, line(p, 1)).DocumentNumber)
	assert.Equal(t, "V-0002", f.createSale(t, line(p, 1)).DocumentNumber)

	oc, err := f.purchases.Create(ctx, testUserID, dto.CreateOrderRequest{
		CounterpartyID: f.supplierID,
		Lines:          []dto.OrderLineRequest{line(p, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, "OC-0001", oc.DocumentNumber)
	assert.Equal(t, "15.00", oc.Total.StringFixed(2), "compras toman el precio de compra")
}

func TestCreate_NumeroSigueAlMayorSufijo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	ctx := context.Background()

	first := f.createSale(t, line(p, 1))
	second := f.createSale(t, line(p, 1))
	require.NoError(t, f.sales.Delete(ctx, first.ID))

	third := f.createSale(t, line(p, 1))
	assert.Equal(t, "V-0002", second.DocumentNumber)
	assert.Equal(t, "V-0003", third.DocumentNumber)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	q := f.product(t, "P-2", "4.50", 5)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   dto.CreateOrderRequest
		isErr error
	}{
		{"sin líneas", dto.CreateOrderRequest{CounterpartyID: f.clientID}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{line(p, 0)}}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{line(p, -1)}}, domain.ErrInvalidInput},
		{"producto repetido", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{line(p, 1), line(q, 1), line(p, 2)}}, domain.ErrInvalidInput},
		{"monto cero", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{{ProductID: p, Quantity: 1, UnitAmount: amount("0")}}}, domain.ErrInvalidInput},
		{"monto con tres decimales", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{{ProductID: p, Quantity: 1, UnitAmount: amount("1.005")}}}, domain.ErrInvalidInput},
		{"sin contraparte", dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line(p, 1)}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateOrderRequest{CounterpartyID: f.clientID, Lines: []dto.OrderLineRequest{line(9999, 1)}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateOrderRequest{CounterpartyID: 9999, Lines: []dto.OrderLineRequest{line(p, 1)}}, domain.ErrNotFound},
		{"proveedor como cliente", dto.CreateOrderRequest{CounterpartyID: f.supplierID, Lines: []dto.OrderLineRequest{line(p, 1)}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sales.Create(ctx, testUserID, tc.req)
			assert.ErrorIs(t, err, tc.isErr)
		})
	}

	// Ningún intento fallido consumió número.
	assert.Equal(t, "V-0001", f.createSale(t, line(p, 1)).DocumentNumber)
}

func TestCreate_MontoExplicito(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)

	o := f.createSale(t, dto.OrderLineRequest{ProductID: p, Quantity: 3, UnitAmount: amount("7.25")})
	assert.Equal(t, "21.75", o.Total.StringFixed(2))
	assert.Equal(t, "21.75", o.Lines[0].Subtotal.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FinalizarVentaDescuentaStock(t *testing.T) {
	f := newFixture(t)
	p3 := f.product(t, "P-3", "10.00", 5)
	o := f.createSale(t, line(p3, 2))

	done, err := f.sales.Transition(context.Background(), testUserID, o.ID, "completado")
	require.NoError(t, err)

	assert.Equal(t, "completado", done.Status)
	assert.Equal(t, int64(3), f.stock(t, p3))

	movs := f.movements(t)
	require.Len(t, movs, 1)
	m := movs[0]
	assert.Equal(t, entity.MovementExit, m.Kind)
	assert.Equal(t, int64(2), m.Quantity)
	assert.Equal(t, "V-0001", m.Reference)
	assert.Equal(t, "Venta completada", m.Note)
	require.NotNil(t, m.SalesOrderID)
	assert.Equal(t, o.ID, *m.SalesOrderID)
	assert.Nil(t, m.PurchaseOrderID)
	assert.NotEmpty(t, m.BatchID)
}

func TestTransition_StockInsuficienteNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	p3 := f.product(t, "P-3", "10.00", 1)
	o := f.createSale(t, line(p3, 2))

	_, err := f.sales.Transition(context.Background(), testUserID, o.ID, "completado")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, p3, short.ProductID)
	assert.Equal(t, int64(2), short.Requested)
	assert.Equal(t, int64(1), short.Available)

	assert.Equal(t, int64(1), f.stock(t, p3))
	assert.Empty(t, f.movements(t))

	got, err := f.sales.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pendiente", got.Status)
}

func TestTransition_TodoONada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "10.00", 10)
	b := f.product(t, "B", "10.00", 1)
	o := f.createSale(t, line(a, 2), line(b, 5))

	_, err := f.sales.Transition(context.Background(), testUserID, o.ID, "finalized")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, b, short.ProductID)

	assert.Equal(t, int64(10), f.stock(t, a), "la línea que pasaba no debe descontar")
	assert.Equal(t, int64(1), f.stock(t, b))
	assert.Empty(t, f.movements(t))
}

func TestTransition_RecibirCompraSumaStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 0)
	q := f.product(t, "P-2", "8.00", 4)
	ctx := context.Background()

	oc, err := f.purchases.Create(ctx, testUserID, dto.CreateOrderRequest{
		CounterpartyID: f.supplierID,
		Lines:          []dto.OrderLineRequest{line(q, 6), line(p, 10)},
	})
	require.NoError(t, err)

	done, err := f.purchases.Transition(ctx, testUserID, oc.ID, "recibida")
	require.NoError(t, err)
	assert.Equal(t, "recibida", done.Status)
	assert.Equal(t, int64(10), f.stock(t, p))
	assert.Equal(t, int64(10), f.stock(t, q))

	movs := f.movements(t)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementEntry, m.Kind)
		assert.Equal(t, "OC-0001", m.Reference)
		assert.Equal(t, "Compra recibida", m.Note)
		require.NotNil(t, m.PurchaseOrderID)
		assert.Equal(t, oc.ID, *m.PurchaseOrderID)
		assert.Equal(t, movs[0].BatchID, m.BatchID, "una transición comparte lote")
	}
}

func TestTransition_CancelarNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	o := f.createSale(t, line(p, 2))

	got, err := f.sales.Transition(context.Background(), testUserID, o.ID, "cancelado")
	require.NoError(t, err)
	assert.Equal(t, "cancelado", got.Status)
	assert.Equal(t, int64(5), f.stock(t, p))
	assert.Empty(t, f.movements(t))
}

func TestTransition_EstadosTerminalesAbsorben(t *testing.T) {
	for _, first := range []string{"completado", "cancelado"} {
		for _, next := range []string{"completado", "cancelado", "pendiente"} {
			t.Run(first+"->"+next, func(t *testing.T) {
				f := newFixture(t)
				p := f.product(t, "P-1", "10.00", 50)
				o := f.createSale(t, line(p, 1))
				ctx := context.Background()

				_, err := f.sales.Transition(ctx, testUserID, o.ID, first)
				require.NoError(t, err)
				stockAfter := f.stock(t, p)

				_, err = f.sales.Transition(ctx, testUserID, o.ID, next)
				assert.ErrorIs(t, err, domain.ErrInvalidState)

				got, err := f.sales.Get(ctx, o.ID)
				require.NoError(t, err)
				assert.Equal(t, first, got.Status)
				assert.Equal(t, stockAfter, f.stock(t, p))
			})
		}
	}
}

func TestTransition_DestinoInvalido(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	o := f.createSale(t, line(p, 1))
	ctx := context.Background()

	_, err := f.sales.Transition(ctx, testUserID, o.ID, "pendiente")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "pendiente no es un destino permitido")
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	got, err := f.sales.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pendiente", got.Status)
	assert.Equal(t, int64(5), f.stock(t, p))

	_, err = f.sales.Transition(ctx, testUserID, o.ID, "recibida")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "etiqueta de compras en serie de ventas")
	_, err = f.sales.Transition(ctx, testUserID, 9999, "completado")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ReemplazaLineasYContraparte(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	q := f.product(t, "P-2", "3.00", 5)
	ctx := context.Background()
	o := f.createSale(t, line(p, 1))

	var other int64
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		c := &entity.Party{Name: "Carlos Ruiz"}
		err := r.Parties(entity.PartyClient).Create(ctx, c)
		other = c.ID
		return err
	}))

	got, err := f.sales.Update(ctx, o.ID, dto.UpdateOrderRequest{
		CounterpartyID: &other,
		Lines:          []dto.OrderLineRequest{line(q, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "V-0001", got.DocumentNumber, "el número no cambia")
	assert.Equal(t, "Carlos Ruiz", got.CounterpartyName)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, q, got.Lines[0].ProductID)
	assert.Equal(t, "12.00", got.Total.StringFixed(2))
}

func TestUpdate_LineasInvalidasNoModifican(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	ctx := context.Background()
	o := f.createSale(t, line(p, 1))

	_, err := f.sales.Update(ctx, o.ID, dto.UpdateOrderRequest{Lines: []dto.OrderLineRequest{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.sales.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
}

func TestUpdate_FinalizadoEsInvalidState(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	ctx := context.Background()
	o := f.createSale(t, line(p, 2))
	_, err := f.sales.Transition(ctx, testUserID, o.ID, "completado")
	require.NoError(t, err)

	_, err = f.sales.Update(ctx, o.ID, dto.UpdateOrderRequest{Lines: []dto.OrderLineRequest{line(p, 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.sales.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(2), got.Lines[0].Quantity)
	assert.Equal(t, "completado", got.Status)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	ctx := context.Background()

	pending := f.createSale(t, line(p, 1))
	require.NoError(t, f.sales.Delete(ctx, pending.ID))
	_, err := f.sales.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cancelled := f.createSale(t, line(p, 1))
	_, err = f.sales.Transition(ctx, testUserID, cancelled.ID, "cancelado")
	require.NoError(t, err)
	assert.ErrorIs(t, f.sales.Delete(ctx, cancelled.ID), domain.ErrInvalidState)

	assert.ErrorIs(t, f.sales.Delete(ctx, 9999), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestList_Filtros(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 50)
	q := f.product(t, "P-2", "10.00", 50)
	ctx := context.Background()

	a := f.createSale(t, line(p, 1))
	f.createSale(t, line(q, 1))
	f.createSale(t, line(p, 1), line(q, 1))
	_, err := f.sales.Transition(ctx, testUserID, a.ID, "completado")
	require.NoError(t, err)

	all, err := f.sales.List(ctx, dto.OrderFilterRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "V-0003", all.Items[0].DocumentNumber, "más reciente primero")

	done, err := f.sales.List(ctx, dto.OrderFilterRequest{Status: "completado"})
	require.NoError(t, err)
	require.Len(t, done.Items, 1)
	assert.Equal(t, a.ID, done.Items[0].ID)

	withQ, err := f.sales.List(ctx, dto.OrderFilterRequest{ProductID: &q})
	require.NoError(t, err)
	assert.Len(t, withQ.Items, 2)

	_, err = f.sales.List(ctx, dto.OrderFilterRequest{Status: "recibida"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPDF(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	o := f.createSale(t, line(p, 2))

	out, name, err := f.sales.PDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "V-0001.pdf", name)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, _, err = f.sales.PDF(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConcurrenteNumerosDistintos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	const n = 25

	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			o, err := f.sales.Create(context.Background(), testUserID, dto.CreateOrderRequest{
				CounterpartyID: f.clientID,
				Lines:          []dto.OrderLineRequest{line(p, 1)},
			})
			if err != nil {
				return err
			}
			numbers[i] = o.DocumentNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool, n)
	for _, num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("V-%04d", i)])
	}
}

func TestTransition_ConcurrenteNuncaStockNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "P-1", "10.00", 5)
	const n = 12

	ids := make([]int64, n)
	for i := range ids {
		ids[i] = f.createSale(t, line(p, 1)).ID
	}

	var ok, short int64
	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := f.sales.Transition(context.Background(), testUserID, id, "completado")
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
	assert.Len(t, f.movements(t), 5)
}
