package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial/internal/domain/sequence"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderTables nombres fijos por serie; nunca provienen de la entrada del usuario.
type orderTables struct {
	orders     string
	lines      string
	partyCol   string
	partyTable string
}

var tablesByKind = map[entity.OrderKind]orderTables{
	entity.OrderSales:    {orders: "sales_orders", lines: "sales_order_lines", partyCol: "client_id", partyTable: "clients"},
	entity.OrderPurchase: {orders: "purchase_orders", lines: "purchase_order_lines", partyCol: "supplier_id", partyTable: "suppliers"},
}

// OrderRepo persistencia de una serie documental (pedidos de venta u órdenes de compra).
type OrderRepo struct {
	q    Querier
	kind entity.OrderKind
	t    orderTables
}

func NewOrderRepository(q Querier, kind entity.OrderKind) *OrderRepo {
	return &OrderRepo{q: q, kind: kind, t: tablesByKind[kind]}
}

func (r *OrderRepo) headerSelect() string {
	return fmt.Sprintf(`
	SELECT o.id, o.number, o.date, o.%[2]s, c.name, o.status, o.created_by
	FROM %[1]s o
	JOIN %[3]s c ON c.id = o.%[2]s`, r.t.orders, r.t.partyCol, r.t.partyTable)
}

func (r *OrderRepo) scanHeader(row pgx.Row) (*entity.Order, error) {
	o := entity.Order{Kind: r.kind}
	var status string
	if err := row.Scan(&o.ID, &o.Number, &o.Date, &o.CounterpartyID, &o.CounterpartyName, &status, &o.CreatedBy); err != nil {
		return nil, err
	}
	st, ok := r.kind.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("estado desconocido %q en %s %d", status, r.t.orders, o.ID)
	}
	o.Status = st
	return &o, nil
}

func (r *OrderRepo) LockSeries(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `INSERT INTO document_series (series) VALUES ($1) ON CONFLICT DO NOTHING`, string(r.kind)); err != nil {
		return wrap("ensure series", err, nil)
	}
	var series string
	err := r.q.QueryRow(ctx, `SELECT series FROM document_series WHERE series = $1 FOR UPDATE`, string(r.kind)).Scan(&series)
	return wrap("lock series", err, nil)
}

// MaxNumberSuffix mayor sufijo numérico de la serie con las reglas de sequence.Suffix.
func (r *OrderRepo) MaxNumberSuffix(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(CASE WHEN length(d) > %d THEN 0 ELSE CAST(d AS BIGINT) END), 0)
		FROM (SELECT substring(number from '[0-9]+$') AS d FROM %s) s`, sequence.MaxDigits, r.t.orders)
	var max int64
	if err := r.q.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("max number: %w", err)
	}
	return max, nil
}

// Create inserta cabecera y líneas. Un número ya usado devuelve domain.ErrConflict.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (number, date, %s, status, created_by)
		VALUES ($1, COALESCE($2::date, CURRENT_DATE), $3, $4, $5)
		RETURNING id, date`, r.t.orders, r.t.partyCol)
	var date any
	if !o.Date.IsZero() {
		date = o.Date
	}
	if o.Status == "" {
		o.Status = entity.StatusPending
	}
	err := r.q.QueryRow(ctx, query, o.Number, date, o.CounterpartyID, r.kind.StatusLabel(o.Status), o.CreatedBy).
		Scan(&o.ID, &o.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert order %s: %w", o.Number, domain.ErrConflict)
		}
		return wrap("insert order", err, domain.Invalid("counterparty_id", "%s %d no existe", r.kind.CounterpartyKind(), o.CounterpartyID))
	}
	o.Kind = r.kind
	return r.insertLines(ctx, o.ID, o.Lines)
}

func (r *OrderRepo) insertLines(ctx context.Context, orderID int64, lines []entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (order_id, product_id, quantity, unit_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, r.t.lines)
	b := &pgx.Batch{}
	for _, l := range lines {
		b.Queue(query, orderID, l.ProductID, l.Quantity, l.UnitAmount)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for i := range lines {
		if err := br.QueryRow().Scan(&lines[i].ID); err != nil {
			return wrap("insert order line", err, domain.Invalid("lines.product_id", "producto %d no existe", lines[i].ProductID))
		}
		lines[i].OrderID = orderID
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.get(ctx, r.headerSelect()+` WHERE o.id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las líneas solo cambian con la cabecera bloqueada.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.get(ctx, r.headerSelect()+` WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *OrderRepo) get(ctx context.Context, query string, id int64) (*entity.Order, error) {
	o, err := r.scanHeader(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get order", err, nil)
	}
	if err := r.loadLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// loadLines carga las líneas de todos los pedidos con una sola consulta.
func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Lines = nil
	}
	query := fmt.Sprintf(`
		SELECT l.id, l.order_id, l.product_id, p.name, l.quantity, l.unit_amount
		FROM %s l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.id`, r.t.lines)
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitAmount); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

// UpdateHeader solo cambia la contraparte; número, fecha y estado son inmutables aquí.
func (r *OrderRepo) UpdateHeader(ctx context.Context, o *entity.Order) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE id = $1`, r.t.orders, r.t.partyCol)
	tag, err := r.q.Exec(ctx, query, o.ID, o.CounterpartyID)
	if err != nil {
		return wrap("update order", err, domain.Invalid("counterparty_id", "%s %d no existe", r.kind.CounterpartyKind(), o.CounterpartyID))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) ReplaceLines(ctx context.Context, orderID int64, lines []entity.OrderLine) error {
	if _, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE order_id = $1`, r.t.lines), orderID); err != nil {
		return wrap("delete order lines", err, nil)
	}
	return r.insertLines(ctx, orderID, lines)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET status = $2 WHERE id = $1`, r.t.orders), id, r.kind.StatusLabel(status))
	if err != nil {
		return wrap("update order status", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el pedido; las líneas se borran en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.orders), id)
	if err != nil {
		return wrap("delete order", err, domain.ErrInUse)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los pedidos más recientes primero, con sus líneas.
func (r *OrderRepo) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	var w where
	if f.Status != nil {
		w.add("o.status = ?", r.kind.StatusLabel(*f.Status))
	}
	if f.CounterpartyID != nil {
		w.add("o."+r.t.partyCol+" = ?", *f.CounterpartyID)
	}
	if f.ProductID != nil {
		w.add(fmt.Sprintf("EXISTS (SELECT 1 FROM %s l WHERE l.order_id = o.id AND l.product_id = ?)", r.t.lines), *f.ProductID)
	}
	if f.DateFrom != nil {
		w.add("o.date >= ?::date", *f.DateFrom)
	}
	if f.DateTo != nil {
		w.add("o.date <= ?::date", *f.DateTo)
	}
	query := r.headerSelect() + w.sql() + " ORDER BY o.id DESC"
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var out []*entity.Order
	for rows.Next() {
		o, err := r.scanHeader(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	// Las filas deben cerrarse antes de reutilizar la conexión de la tx.
	if err := r.loadLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
