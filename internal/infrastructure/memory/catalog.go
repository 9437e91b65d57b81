package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

type productRepo struct{ base }

func (st *state) joinProduct(p entity.Product) *entity.Product {
	if s, ok := st.parties[entity.PartySupplier][p.SupplierID]; ok {
		p.SupplierName = s.Name
	}
	if c, ok := st.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	return &p
}

func (st *state) checkProductRefs(p *entity.Product) error {
	if _, ok := st.parties[entity.PartySupplier][p.SupplierID]; !ok {
		return domain.Invalid("supplier_id", "proveedor %d no existe", p.SupplierID)
	}
	if _, ok := st.categories[p.CategoryID]; !ok {
		return domain.Invalid("category_id", "categoría %d no existe", p.CategoryID)
	}
	for id, other := range st.products {
		if id != p.ID && strings.EqualFold(other.Code, p.Code) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.with(func(st *state) error {
		if err := st.checkProductRefs(p); err != nil {
			return err
		}
		p.ID = st.id()
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.joinProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.with(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := st.checkProductRefs(p); err != nil {
			return err
		}
		next := *p
		next.StockQuantity = cur.StockQuantity
		st.products[p.ID] = next
		return nil
	})
}

func (r *productRepo) UpdateStock(_ context.Context, id, quantity int64) error {
	return r.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if quantity < 0 {
			return domain.Invalid("stock_quantity", "el stock no puede ser negativo")
		}
		p.StockQuantity = quantity
		st.products[id] = p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with(func(st *state) error {
		q := strings.ToLower(strings.TrimSpace(f.Search))
		for _, p := range st.products {
			if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
				continue
			}
			if f.SupplierID != nil && p.SupplierID != *f.SupplierID {
				continue
			}
			if f.MaxStock != nil && p.StockQuantity > *f.MaxStock {
				continue
			}
			if f.Active != nil && p.Active != *f.Active {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Code), q) && !strings.Contains(strings.ToLower(p.Name), q) {
				continue
			}
			out = append(out, st.joinProduct(p))
		}
		sort.Slice(out, func(i, j int) bool {
			if f.ByStock && out[i].StockQuantity != out[j].StockQuantity {
				return out[i].StockQuantity < out[j].StockQuantity
			}
			return out[i].ID < out[j].ID
		})
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range st.orders {
			for _, o := range m {
				for _, l := range o.Lines {
					if l.ProductID == id {
						return domain.ErrInUse
					}
				}
			}
		}
		for _, mv := range st.movements {
			if mv.ProductID == id {
				return domain.ErrInUse
			}
		}
		delete(st.products, id)
		return nil
	})
}

type partyRepo struct {
	base
	kind entity.PartyKind
}

func (r *partyRepo) Create(_ context.Context, p *entity.Party) error {
	return r.with(func(st *state) error {
		p.ID = st.id()
		p.Kind = r.kind
		st.parties[r.kind][p.ID] = *p
		return nil
	})
}

func (r *partyRepo) GetByID(_ context.Context, id int64) (*entity.Party, error) {
	var out *entity.Party
	err := r.with(func(st *state) error {
		if p, ok := st.parties[r.kind][id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *partyRepo) Update(_ context.Context, p *entity.Party) error {
	return r.with(func(st *state) error {
		if _, ok := st.parties[r.kind][p.ID]; !ok {
			return domain.ErrNotFound
		}
		p.Kind = r.kind
		st.parties[r.kind][p.ID] = *p
		return nil
	})
}

func (r *partyRepo) List(_ context.Context, limit, offset int) ([]*entity.Party, error) {
	var out []*entity.Party
	err := r.with(func(st *state) error {
		for _, p := range st.parties[r.kind] {
			p := p
			out = append(out, &p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

func (r *partyRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		if _, ok := st.parties[r.kind][id]; !ok {
			return domain.ErrNotFound
		}
		orderKind := entity.OrderSales
		if r.kind == entity.PartySupplier {
			orderKind = entity.OrderPurchase
			for _, p := range st.products {
				if p.SupplierID == id {
					return domain.ErrInUse
				}
			}
		}
		for _, o := range st.orders[orderKind] {
			if o.CounterpartyID == id {
				return domain.ErrInUse
			}
		}
		delete(st.parties[r.kind], id)
		return nil
	})
}

type categoryRepo struct{ base }

func (st *state) categoryNameTaken(c *entity.Category) bool {
	for id, other := range st.categories {
		if id != c.ID && strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.with(func(st *state) error {
		if st.categoryNameTaken(c) {
			return domain.ErrDuplicate
		}
		c.ID = st.id()
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.with(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.with(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if st.categoryNameTaken(c) {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.with(func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.CategoryID == id {
				return domain.ErrInUse
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
