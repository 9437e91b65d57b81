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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.code, p.name, p.description, p.sale_price, p.purchase_price, p.stock_quantity,
	       p.supplier_id, s.name, p.category_id, c.name, p.active
	FROM products p
	JOIN suppliers s ON s.id = p.supplier_id
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.SalePrice, &p.PurchasePrice, &p.StockQuantity,
		&p.SupplierID, &p.SupplierName, &p.CategoryID, &p.CategoryName, &p.Active)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var errProductRefs = domain.Invalid("product", "proveedor o categoría inexistente")

// Create persiste un nuevo producto con el stock indicado (normalmente 0).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (code, name, description, sale_price, purchase_price, stock_quantity, supplier_id, category_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.Code, product.Name, product.Description, product.SalePrice, product.PurchasePrice,
		product.StockQuantity, product.SupplierID, product.CategoryID, product.Active,
	).Scan(&product.ID)
	return wrap("insert product", err, errProductRefs)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea solo la fila del producto, no las de proveedor/categoría.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("lock product", err, nil)
	}
	return p, nil
}

// Update actualiza datos de catálogo. El stock no se toca.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET code = $2, name = $3, description = $4, sale_price = $5, purchase_price = $6,
		    supplier_id = $7, category_id = $8, active = $9, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Name, product.Description, product.SalePrice, product.PurchasePrice,
		product.SupplierID, product.CategoryID, product.Active,
	)
	if err != nil {
		return wrap("update product", err, errProductRefs)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return wrap("update stock", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	var w where
	if f.CategoryID != nil {
		w.add("p.category_id = ?", *f.CategoryID)
	}
	if f.SupplierID != nil {
		w.add("p.supplier_id = ?", *f.SupplierID)
	}
	if f.MaxStock != nil {
		w.add("p.stock_quantity <= ?", *f.MaxStock)
	}
	if f.Active != nil {
		w.add("p.active = ?", *f.Active)
	}
	if f.Search != "" {
		w.add("(p.code ILIKE ? OR p.name ILIKE ?)", likePattern(f.Search))
	}
	order := " ORDER BY p.id"
	if f.ByStock {
		order = " ORDER BY p.stock_quantity, p.id"
	}
	query := productSelect + w.sql() + order
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete elimina el producto; si tiene líneas de pedido o movimientos devuelve domain.ErrInUse.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrap("delete product", err, domain.ErrInUse)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
