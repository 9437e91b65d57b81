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

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo clientes o proveedores; comparten estructura y difieren solo en la tabla.
type PartyRepo struct {
	q     Querier
	kind  entity.PartyKind
	table string
}

func NewPartyRepository(q Querier, kind entity.PartyKind) *PartyRepo {
	table := "clients"
	if kind == entity.PartySupplier {
		table = "suppliers"
	}
	return &PartyRepo{q: q, kind: kind, table: table}
}

func (r *PartyRepo) scan(row pgx.Row) (*entity.Party, error) {
	p := entity.Party{Kind: r.kind}
	if err := row.Scan(&p.ID, &p.Name, &p.ContactName, &p.Phone, &p.Address, &p.Email); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, contact_name, phone, address, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, r.table)
	err := r.q.QueryRow(ctx, query, p.Name, p.ContactName, p.Phone, p.Address, p.Email).Scan(&p.ID)
	if err != nil {
		return wrap("insert "+string(r.kind), err, nil)
	}
	p.Kind = r.kind
	return nil
}

func (r *PartyRepo) GetByID(ctx context.Context, id int64) (*entity.Party, error) {
	query := fmt.Sprintf(`SELECT id, name, contact_name, phone, address, email FROM %s WHERE id = $1`, r.table)
	p, err := r.scan(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.kind, err)
	}
	return p, nil
}

func (r *PartyRepo) Update(ctx context.Context, p *entity.Party) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, contact_name = $3, phone = $4, address = $5, email = $6
		WHERE id = $1`, r.table)
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.ContactName, p.Phone, p.Address, p.Email)
	if err != nil {
		return wrap("update "+string(r.kind), err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Party, error) {
	var w where
	query := fmt.Sprintf(`SELECT id, name, contact_name, phone, address, email FROM %s ORDER BY name, id`, r.table)
	query += w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	defer rows.Close()
	var out []*entity.Party
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete devuelve domain.ErrInUse si hay productos o pedidos que lo referencian.
func (r *PartyRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return wrap("delete "+string(r.kind), err, domain.ErrInUse)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
