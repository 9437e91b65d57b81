package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/inventory"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// MovementInput datos de un movimiento a asentar en el libro.
type MovementInput struct {
	Kind            entity.MovementKind
	ProductID       int64
	Quantity        int64
	Reference       string
	Note            string
	BatchID         string
	SalesOrderID    *int64
	PurchaseOrderID *int64
	UserID          *int64
}

// StockLedger es el único escritor de stock_quantity. Cada movimiento bloquea la fila
// del producto (SELECT FOR UPDATE), valida que el stock no quede negativo, inserta el
// asiento y actualiza el stock, todo en la transacción del llamador.
type StockLedger struct {
	tx    TxRunner
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

// NewStockLedger construye el libro. repos se usa para las consultas fuera de transacción.
func NewStockLedger(tx TxRunner, repos repository.Repos, log zerolog.Logger) *StockLedger {
	return &StockLedger{tx: tx, repos: repos, log: log, now: time.Now}
}

// Append asienta un movimiento usando los repositorios de la transacción en curso.
func (l *StockLedger) Append(ctx context.Context, repos repository.Repos, in MovementInput) (*entity.InventoryMovement, error) {
	if !in.Kind.Valid() {
		return nil, domain.Invalid("kind", "tipo de movimiento desconocido %q", in.Kind)
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "la cantidad debe ser positiva")
	}
	if in.ProductID <= 0 {
		return nil, domain.Invalid("product_id", "producto requerido")
	}

	product, err := repos.Products().GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newQty, err := inventory.ApplyMovement(product, in.Kind, in.Quantity)
	if err != nil {
		var short *domain.InsufficientStockError
		if errors.As(err, &short) {
			l.log.Warn().
				Int64("product_id", short.ProductID).
				Int64("requested", short.Requested).
				Int64("available", short.Available).
				Str("reference", in.Reference).
				Msg("salida rechazada por stock insuficiente")
		}
		return nil, err
	}

	mov := &entity.InventoryMovement{
		BatchID:         in.BatchID,
		Kind:            in.Kind,
		ProductID:       product.ID,
		ProductName:     product.Name,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
		Note:            in.Note,
		SalesOrderID:    in.SalesOrderID,
		PurchaseOrderID: in.PurchaseOrderID,
		CreatedBy:       in.UserID,
		CreatedAt:       l.now(),
	}
	if err := repos.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := repos.Products().UpdateStock(ctx, product.ID, newQty); err != nil {
		return nil, err
	}

	l.log.Debug().
		Int64("movement_id", mov.ID).
		Str("kind", string(mov.Kind)).
		Int64("product_id", mov.ProductID).
		Int64("quantity", mov.Quantity).
		Int64("stock", newQty).
		Str("reference", mov.Reference).
		Msg("movimiento asentado")
	return mov, nil
}

// Register asienta un movimiento en su propia transacción (ajustes manuales).
func (l *StockLedger) Register(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	var mov *entity.InventoryMovement
	err := l.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		mov, err = l.Append(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RegisterFromRequest adapta el request HTTP a Register.
func (l *StockLedger) RegisterFromRequest(ctx context.Context, userID int64, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		Kind:      entity.MovementKind(strings.ToLower(strings.TrimSpace(in.Kind))),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reference: strings.TrimSpace(in.Reference),
		Note:      strings.TrimSpace(in.Note),
	}
	if userID > 0 {
		input.UserID = &userID
	}
	mov, err := l.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// GetMovement obtiene un movimiento por ID.
func (l *StockLedger) GetMovement(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	mov, err := l.repos.Movements().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovementResponse(mov), nil
}

// ListMovements lista movimientos del más reciente al más antiguo.
func (l *StockLedger) ListMovements(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter := entity.MovementFilter{
		ProductID:         in.ProductID,
		DateFrom:          in.DateFrom,
		DateTo:            in.DateTo,
		ReferenceContains: strings.TrimSpace(in.ReferenceContains),
		Limit:             in.Limit,
		Offset:            in.Offset,
	}
	if in.Kind != "" {
		kind := entity.MovementKind(strings.ToLower(in.Kind))
		if !kind.Valid() {
			return nil, domain.Invalid("kind", "tipo de movimiento desconocido %q", in.Kind)
		}
		filter.Kind = &kind
	}
	list, err := l.repos.Movements().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:              m.ID,
		Timestamp:       m.CreatedAt,
		Kind:            string(m.Kind),
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		Reference:       m.Reference,
		Note:            m.Note,
		BatchID:         m.BatchID,
		SalesOrderID:    m.SalesOrderID,
		PurchaseOrderID: m.PurchaseOrderID,
	}
}
