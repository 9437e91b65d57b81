package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo libro de inventario sobre PostgreSQL. Solo INSERT y SELECT.
type InventoryMovementRepo struct {
	q Querier
}

func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, COALESCE(m.batch_id::text, ''), m.kind, m.product_id, p.name, m.quantity,
	       m.reference, m.note, m.sales_order_id, m.purchase_order_id, m.created_by, m.created_at
	FROM inventory_movements m
	JOIN products p ON p.id = m.product_id`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var kind string
	err := row.Scan(&m.ID, &m.BatchID, &kind, &m.ProductID, &m.ProductName, &m.Quantity,
		&m.Reference, &m.Note, &m.SalesOrderID, &m.PurchaseOrderID, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}

// Create registra el movimiento. No toca el stock: eso lo hace el libro en la misma tx.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (batch_id, kind, product_id, quantity, reference, note,
		                                 sales_order_id, purchase_order_id, created_by, created_at)
		VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.BatchID, string(m.Kind), m.ProductID, m.Quantity, m.Reference, m.Note,
		m.SalesOrderID, m.PurchaseOrderID, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	return wrap("insert movement", err, domain.Invalid("product_id", "producto %d no existe", m.ProductID))
}

func (r *InventoryMovementRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve los movimientos del más reciente al más antiguo.
func (r *InventoryMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	var w where
	if f.Kind != nil {
		w.add("m.kind = ?", string(*f.Kind))
	}
	if f.ProductID != nil {
		w.add("m.product_id = ?", *f.ProductID)
	}
	if f.DateFrom != nil {
		w.add("m.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		w.add("m.created_at <= ?", *f.DateTo)
	}
	if f.ReferenceContains != "" {
		w.add("m.reference ILIKE ?", likePattern(f.ReferenceContains))
	}
	query := movementSelect + w.sql() + " ORDER BY m.created_at DESC, m.id DESC"
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
