// Package orders orquesta el ciclo de vida de pedidos de venta y órdenes de compra:
// numeración, edición mientras están pendientes y transición a estado terminal con
// su asiento en el libro de inventario. Cada operación que escribe es una transacción.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/order"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial/internal/domain/sequence"
)

// DateLayout formato de la fecha del documento en los DTO.
const DateLayout = "2006-01-02"

// Service casos de uso de una serie documental (ventas o compras).
type Service struct {
	kind   entity.OrderKind
	prefix string
	tx     inventory.TxRunner
	repos  repository.Repos
	ledger *inventory.StockLedger
	pdf    PDFGenerator
	issuer string
	log    zerolog.Logger

	now     func() time.Time
	batchID func() string
}

// Config parámetros de la serie.
type Config struct {
	Kind   entity.OrderKind
	Prefix string // "V-" | "OC-"
	Issuer string // encabezado del PDF
}

// NewService construye el servicio de una serie. pdf puede ser nil si no se exponen documentos.
func NewService(
	cfg Config,
	tx inventory.TxRunner,
	repos repository.Repos,
	ledger *inventory.StockLedger,
	pdf PDFGenerator,
	log zerolog.Logger,
) *Service {
	return &Service{
		kind:    cfg.Kind,
		prefix:  cfg.Prefix,
		issuer:  cfg.Issuer,
		tx:      tx,
		repos:   repos,
		ledger:  ledger,
		pdf:     pdf,
		log:     log.With().Str("series", string(cfg.Kind)).Logger(),
		now:     time.Now,
		batchID: func() string { return uuid.New().String() },
	}
}

// Kind serie que atiende el servicio.
func (s *Service) Kind() entity.OrderKind { return s.kind }

// Create valida las líneas, asigna el siguiente número de la serie y guarda el pedido pendiente.
func (s *Service) Create(ctx context.Context, userID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CounterpartyID <= 0 {
		return nil, domain.Invalid("counterparty_id", "debe indicar el %s", s.kind.CounterpartyKind())
	}
	var created *entity.Order
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		if err := s.ensureCounterparty(ctx, repos, in.CounterpartyID); err != nil {
			return err
		}
		lines, err := s.buildLines(ctx, repos, in.Lines)
		if err != nil {
			return err
		}
		orders := repos.Orders(s.kind)
		number, err := s.nextNumber(ctx, orders)
		if err != nil {
			return err
		}
		o := &entity.Order{
			Kind:           s.kind,
			Number:         number,
			Date:           s.today(),
			CounterpartyID: in.CounterpartyID,
			Status:         entity.StatusPending,
			CreatedBy:      optionalID(userID),
			Lines:          lines,
		}
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		created, err = s.reload(ctx, orders, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("order_id", created.ID).
		Str("number", created.Number).
		Int("lines", len(created.Lines)).
		Str("total", created.Total().StringFixed(2)).
		Msg("documento creado")
	return ToOrderResponse(created), nil
}

// Update modifica la contraparte y/o reemplaza todas las líneas de un pedido pendiente.
func (s *Service) Update(ctx context.Context, id int64, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var updated *entity.Order
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		orders := repos.Orders(s.kind)
		o, err := s.lock(ctx, orders, id)
		if err != nil {
			return err
		}
		if err := order.EnsureEditable(o); err != nil {
			return err
		}
		if in.CounterpartyID != nil && *in.CounterpartyID != o.CounterpartyID {
			if err := s.ensureCounterparty(ctx, repos, *in.CounterpartyID); err != nil {
				return err
			}
			o.CounterpartyID = *in.CounterpartyID
			if err := orders.UpdateHeader(ctx, o); err != nil {
				return err
			}
		}
		if in.Lines != nil {
			lines, err := s.buildLines(ctx, repos, in.Lines)
			if err != nil {
				return err
			}
			if err := orders.ReplaceLines(ctx, o.ID, lines); err != nil {
				return err
			}
		}
		updated, err = s.reload(ctx, orders, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// Transition lleva un pedido pendiente a finalizado o cancelado. Finalizar asienta un
// movimiento por línea en el libro de inventario dentro de la misma transacción; si
// alguna línea de venta no tiene stock no se asienta nada y el pedido sigue pendiente.
func (s *Service) Transition(ctx context.Context, userID, id int64, target string) (*dto.OrderResponse, error) {
	to, ok := s.kind.ParseStatus(strings.ToLower(strings.TrimSpace(target)))
	if !ok {
		return nil, domain.Invalid("target", "estado destino desconocido %q", target)
	}
	var result *entity.Order
	var posted int
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		orders := repos.Orders(s.kind)
		o, err := s.lock(ctx, orders, id)
		if err != nil {
			return err
		}
		if err := order.CheckTransition(s.kind, o.Status, to); err != nil {
			return err
		}
		if to == entity.StatusFinalized {
			if posted, err = s.finalize(ctx, repos, o, optionalID(userID)); err != nil {
				return err
			}
		}
		if err := orders.UpdateStatus(ctx, o.ID, to); err != nil {
			return err
		}
		result, err = s.reload(ctx, orders, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("order_id", result.ID).
		Str("number", result.Number).
		Str("status", s.kind.StatusLabel(result.Status)).
		Int("movements", posted).
		Msg("transición de estado")
	return ToOrderResponse(result), nil
}

// finalize bloquea los productos en orden ascendente, verifica el stock de todas las
// líneas (solo ventas) y luego asienta los movimientos.
func (s *Service) finalize(ctx context.Context, repos repository.Repos, o *entity.Order, userID *int64) (int, error) {
	locked := make(map[int64]*entity.Product, len(o.Lines))
	for _, pid := range order.SortedProductIDs(o.Lines) {
		p, err := repos.Products().GetForUpdate(ctx, pid)
		if err != nil {
			return 0, err
		}
		if p == nil {
			return 0, fmt.Errorf("%w: producto %d", domain.ErrNotFound, pid)
		}
		locked[pid] = p
	}
	if o.Kind == entity.OrderSales {
		if err := order.CheckStock(o.Lines, locked); err != nil {
			return 0, err
		}
	}
	movs := order.FinalizationMovements(o, s.batchID(), userID)
	for _, m := range movs {
		_, err := s.ledger.Append(ctx, repos, inventory.MovementInput{
			Kind:            m.Kind,
			ProductID:       m.ProductID,
			Quantity:        m.Quantity,
			Reference:       m.Reference,
			Note:            m.Note,
			BatchID:         m.BatchID,
			SalesOrderID:    m.SalesOrderID,
			PurchaseOrderID: m.PurchaseOrderID,
			UserID:          m.CreatedBy,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(movs), nil
}

// Delete elimina un pedido pendiente junto con sus líneas.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		orders := repos.Orders(s.kind)
		o, err := s.lock(ctx, orders, id)
		if err != nil {
			return err
		}
		if err := order.EnsureDeletable(o); err != nil {
			return err
		}
		return orders.Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int64("order_id", id).Msg("documento eliminado")
	return nil
}

// Get obtiene un pedido con sus líneas y total.
func (s *Service) Get(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	o, err := s.reload(ctx, s.repos.Orders(s.kind), id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// List lista pedidos del más reciente al más antiguo.
func (s *Service) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	filter := entity.OrderFilter{
		CounterpartyID: in.CounterpartyID,
		ProductID:      in.ProductID,
		DateFrom:       in.DateFrom,
		DateTo:         in.DateTo,
		Limit:          in.Limit,
		Offset:         in.Offset,
	}
	if in.Status != "" {
		st, ok := s.kind.ParseStatus(strings.ToLower(in.Status))
		if !ok {
			return nil, domain.Invalid("status", "estado desconocido %q", in.Status)
		}
		filter.Status = &st
	}
	list, err := s.repos.Orders(s.kind).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (s *Service) nextNumber(ctx context.Context, orders repository.OrderRepository) (string, error) {
	if err := orders.LockSeries(ctx); err != nil {
		return "", err
	}
	max, err := orders.MaxNumberSuffix(ctx)
	if err != nil {
		return "", err
	}
	return sequence.Next(s.prefix, max), nil
}

func (s *Service) ensureCounterparty(ctx context.Context, repos repository.Repos, id int64) error {
	p, err := repos.Parties(s.kind.CounterpartyKind()).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, s.kind.CounterpartyKind(), id)
	}
	return nil
}

// buildLines resuelve los productos y completa el monto unitario con el precio vigente
// (venta o compra) cuando no viene informado.
func (s *Service) buildLines(ctx context.Context, repos repository.Repos, in []dto.OrderLineRequest) ([]entity.OrderLine, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("lines", "el documento debe tener al menos una línea")
	}
	lines := make([]entity.OrderLine, 0, len(in))
	for _, l := range in {
		if l.ProductID <= 0 {
			return nil, domain.Invalid("lines.product_id", "debe seleccionar un producto en cada línea")
		}
		p, err := repos.Products().GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, l.ProductID)
		}
		line := entity.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
		}
		switch {
		case l.UnitAmount != nil:
			line.UnitAmount = *l.UnitAmount
		case s.kind == entity.OrderPurchase:
			line.UnitAmount = p.PurchasePrice
		default:
			line.UnitAmount = p.SalePrice
		}
		lines = append(lines, line)
	}
	if err := order.ValidateLines(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) lock(ctx context.Context, orders repository.OrderRepository, id int64) (*entity.Order, error) {
	o, err := orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) reload(ctx context.Context, orders repository.OrderRepository, id int64) (*entity.Order, error) {
	o, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// ToOrderResponse convierte el agregado al DTO de salida con la etiqueta de estado de su serie.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitAmount:  dto.NewMoney(l.UnitAmount),
			Subtotal:    dto.NewMoney(l.Subtotal()),
		})
	}
	return &dto.OrderResponse{
		ID:               o.ID,
		Kind:             string(o.Kind),
		DocumentNumber:   o.Number,
		Date:             o.Date.Format(DateLayout),
		CounterpartyID:   o.CounterpartyID,
		CounterpartyName: o.CounterpartyName,
		Status:           o.Kind.StatusLabel(o.Status),
		Total:            dto.NewMoney(o.Total()),
		Lines:            lines,
	}
}
