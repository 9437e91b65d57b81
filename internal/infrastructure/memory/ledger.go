package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/sequence"
)

type movementRepo struct{ base }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.with(func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.Invalid("product_id", "producto %d no existe", m.ProductID)
		}
		m.ID = st.id()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id int64) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				m := m
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.with(func(st *state) error {
		ref := strings.ToLower(f.ReferenceContains)
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.Kind != nil && m.Kind != *f.Kind {
				continue
			}
			if f.ProductID != nil && m.ProductID != *f.ProductID {
				continue
			}
			if f.DateFrom != nil && m.CreatedAt.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && m.CreatedAt.After(*f.DateTo) {
				continue
			}
			if ref != "" && !strings.Contains(strings.ToLower(m.Reference), ref) {
				continue
			}
			out = append(out, &m)
		}
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

type orderRepo struct {
	base
	kind entity.OrderKind
}

func (r *orderRepo) join(st *state, o entity.Order) *entity.Order {
	if p, ok := st.parties[r.kind.CounterpartyKind()][o.CounterpartyID]; ok {
		o.CounterpartyName = p.Name
	}
	lines := make([]entity.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		if p, ok := st.products[l.ProductID]; ok {
			l.ProductName = p.Name
		}
		lines[i] = l
	}
	o.Lines = lines
	return &o
}

func (r *orderRepo) checkRefs(st *state, counterpartyID int64, lines []entity.OrderLine) error {
	if _, ok := st.parties[r.kind.CounterpartyKind()][counterpartyID]; !ok {
		return domain.Invalid("counterparty_id", "%s %d no existe", r.kind.CounterpartyKind(), counterpartyID)
	}
	for _, l := range lines {
		if _, ok := st.products[l.ProductID]; !ok {
			return domain.Invalid("lines.product_id", "producto %d no existe", l.ProductID)
		}
	}
	return nil
}

func (r *orderRepo) storeLines(st *state, orderID int64, lines []entity.OrderLine) []entity.OrderLine {
	out := make([]entity.OrderLine, len(lines))
	for i, l := range lines {
		l.ID = st.id()
		l.OrderID = orderID
		out[i] = l
	}
	return out
}

// LockSeries no hace nada: las transacciones ya están serializadas.
func (r *orderRepo) LockSeries(context.Context) error { return nil }

func (r *orderRepo) MaxNumberSuffix(context.Context) (int64, error) {
	var max int64
	err := r.with(func(st *state) error {
		numbers := make([]string, 0, len(st.orders[r.kind]))
		for _, o := range st.orders[r.kind] {
			numbers = append(numbers, o.Number)
		}
		max = sequence.MaxSuffix(numbers)
		return nil
	})
	return max, err
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.with(func(st *state) error {
		if err := r.checkRefs(st, o.CounterpartyID, o.Lines); err != nil {
			return err
		}
		for _, other := range st.orders[r.kind] {
			if other.Number == o.Number {
				return domain.ErrConflict
			}
		}
		o.ID = st.id()
		o.Kind = r.kind
		if o.Date.IsZero() {
			o.Date = time.Now()
		}
		o.Lines = r.storeLines(st, o.ID, o.Lines)
		st.orders[r.kind][o.ID] = *r.join(st, *o)
		*o = *r.join(st, *o)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := r.with(func(st *state) error {
		if o, ok := st.orders[r.kind][id]; ok {
			out = r.join(st, o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) UpdateHeader(_ context.Context, o *entity.Order) error {
	return r.with(func(st *state) error {
		cur, ok := st.orders[r.kind][o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := r.checkRefs(st, o.CounterpartyID, nil); err != nil {
			return err
		}
		cur.CounterpartyID = o.CounterpartyID
		st.orders[r.kind][o.ID] = cur
		return nil
	})
}

func (r *orderRepo) ReplaceLines(_ context.Context, orderID int64, lines []entity.OrderLine) error {
	return r.with(func(st *state) error {
		cur, ok := st.orders[r.kind][orderID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := r.checkRefs(st, cur.CounterpartyID, lines); err != nil {
			return err
		}
		cur.Lines = r.storeLines(st, orderID, lines)
		st.orders[r.kind][orderID] = cur
		return nil
	})
}

func (r *orderRepo) UpdateStatus(_ context.Context, id int64, status entity.OrderStatus) error {
	return r.with(func(st *state) error {
		cur, ok := st.orders[r.kind][id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = status
		st.orders[r.kind][id] = cur
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		if _, ok := st.orders[r.kind][id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orders[r.kind], id)
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.with(func(st *state) error {
		for _, o := range st.orders[r.kind] {
			if f.Status != nil && o.Status != *f.Status {
				continue
			}
			if f.CounterpartyID != nil && o.CounterpartyID != *f.CounterpartyID {
				continue
			}
			if f.DateFrom != nil && o.Date.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && o.Date.After(*f.DateTo) {
				continue
			}
			if f.ProductID != nil && !hasProduct(o.Lines, *f.ProductID) {
				continue
			}
			out = append(out, r.join(st, o))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func hasProduct(lines []entity.OrderLine, productID int64) bool {
	for _, l := range lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

type userRepo struct{ base }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.with(func(st *state) error {
		for _, other := range st.users {
			if strings.EqualFold(other.Username, u.Username) {
				return domain.ErrDuplicate
			}
		}
		u.ID = st.id()
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

type analyticsRepo struct{ base }

func (r *analyticsRepo) CountOrders(_ context.Context, kind entity.OrderKind, status entity.OrderStatus) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		for _, o := range st.orders[kind] {
			if o.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *analyticsRepo) OrdersTotal(_ context.Context, kind entity.OrderKind, status entity.OrderStatus, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.with(func(st *state) error {
		for _, o := range st.orders[kind] {
			if o.Status != status || o.Date.Before(from) || o.Date.After(to) {
				continue
			}
			total = total.Add(o.Total())
		}
		return nil
	})
	return total, err
}

func (r *analyticsRepo) TotalStock(context.Context) (int64, error) {
	var n int64
	err := r.with(func(st *state) error {
		for _, p := range st.products {
			n += p.StockQuantity
		}
		return nil
	})
	return n, err
}
