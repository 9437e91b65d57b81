package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ── where ────────────────────────────────────────────────────────────────────

func TestWhere_Placeholders(t *testing.T) {
	var w where
	w.add("a = ?", 1)
	w.add("(b ILIKE ? OR c ILIKE ?)", "%x%")
	page := w.page(20, 40)

	assert.Equal(t, " WHERE a = $1 AND (b ILIKE $2 OR c ILIKE $2)", w.sql())
	assert.Equal(t, " LIMIT $3 OFFSET $4", page)
	assert.Equal(t, []any{1, "%x%", 20, 40}, w.args)
}

func TestWhere_Vacio(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())
	assert.Equal(t, "", w.page(0, 0))
	assert.Empty(t, w.args)
}

func TestLikePattern_Escapa(t *testing.T) {
	assert.Equal(t, `%50\%\_a\\b%`, likePattern(`50%_a\b`))
}

// ── wrap ─────────────────────────────────────────────────────────────────────

func TestWrap_Codigos(t *testing.T) {
	fk := errors.New("fk")
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeForeignKeyViolation, fk},
		{codeCheckViolation, domain.ErrInvalidInput},
		{codeSerialization, domain.ErrConflict},
		{codeDeadlock, domain.ErrConflict},
		{codeLockNotAvailable, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := wrap("op", &pgconn.PgError{Code: tc.code}, fk)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, strings.HasPrefix(err.Error(), "op: "))
		})
	}
}

func TestWrap_Otros(t *testing.T) {
	assert.NoError(t, wrap("op", nil, nil))

	base := errors.New("boom")
	err := wrap("op", base, nil)
	assert.ErrorIs(t, err, base)

	// Sin error de FK configurado se conserva el error original.
	pg := &pgconn.PgError{Code: codeForeignKeyViolation}
	assert.ErrorIs(t, wrap("op", pg, nil), pg)
}

// ── tablas por serie ─────────────────────────────────────────────────────────

func TestOrderRepository_TablasPorSerie(t *testing.T) {
	sales := NewOrderRepository(nil, entity.OrderSales)
	assert.Contains(t, sales.headerSelect(), "FROM sales_orders o")
	assert.Contains(t, sales.headerSelect(), "JOIN clients c ON c.id = o.client_id")

	purchases := NewOrderRepository(nil, entity.OrderPurchase)
	assert.Contains(t, purchases.headerSelect(), "FROM purchase_orders o")
	assert.Contains(t, purchases.headerSelect(), "JOIN suppliers c ON c.id = o.supplier_id")
}

func TestSchema_SembraSeries(t *testing.T) {
	assert.Contains(t, Schema(), "INSERT INTO document_series (series) VALUES ('venta'), ('compra')")
	assert.Contains(t, Schema(), "CHECK (stock_quantity >= 0)")
}
