package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/inventory"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// InitialStockReference referencia del movimiento que registra el stock inicial de un producto.
const InitialStockReference = "INICIAL"

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	tx     inventory.TxRunner
	repos  repository.Repos
	ledger *inventory.StockLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx inventory.TxRunner, repos repository.Repos, ledger *inventory.StockLedger) *ProductUseCase {
	return &ProductUseCase{tx: tx, repos: repos, ledger: ledger}
}

// Create crea un producto. Si trae stock inicial se asienta como entrada "INICIAL"
// en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Code:          strings.TrimSpace(in.Code),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		SalePrice:     in.SalePrice,
		PurchasePrice: in.PurchasePrice,
		SupplierID:    in.SupplierID,
		CategoryID:    in.CategoryID,
		Active:        true,
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if in.InitialStock < 0 {
		return nil, domain.Invalid("initial_stock", "el stock inicial no puede ser negativo")
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var created *entity.Product
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		if err := ensureProductRefs(ctx, repos, product); err != nil {
			return err
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock > 0 {
			mov := inventory.MovementInput{
				Kind:      entity.MovementEntry,
				ProductID: product.ID,
				Quantity:  in.InitialStock,
				Reference: InitialStockReference,
				Note:      "Stock inicial",
			}
			if userID > 0 {
				mov.UserID = &userID
			}
			if _, err := uc.ledger.Append(ctx, repos, mov); err != nil {
				return err
			}
		}
		var err error
		created, err = repos.Products().GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(created), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := ensureProductRefs(ctx, uc.repos, product); err != nil {
		return nil, err
	}
	if err := uc.repos.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista productos con filtros de categoría, proveedor, stock máximo, estado y texto.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repos.Products().List(ctx, entity.ProductFilter{
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		MaxStock:   in.MaxStock,
		Active:     in.Active,
		Search:     strings.TrimSpace(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un producto. Devuelve domain.ErrInUse si tiene pedidos o movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repos.Products().Delete(ctx, id)
}

func validateProduct(p *entity.Product) error {
	if p.Code == "" {
		return domain.Invalid("code", "el código es obligatorio")
	}
	if p.Name == "" {
		return domain.Invalid("name", "el nombre es obligatorio")
	}
	if err := validPrice("sale_price", p.SalePrice); err != nil {
		return err
	}
	return validPrice("purchase_price", p.PurchasePrice)
}

func validPrice(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.Invalid(field, "el precio no puede ser negativo")
	}
	if !d.Equal(d.Round(2)) {
		return domain.Invalid(field, "el precio admite máximo 2 decimales")
	}
	return nil
}

func ensureProductRefs(ctx context.Context, repos repository.Repos, p *entity.Product) error {
	if p.SupplierID <= 0 {
		return domain.Invalid("supplier_id", "el proveedor es obligatorio")
	}
	if p.CategoryID <= 0 {
		return domain.Invalid("category_id", "la categoría es obligatoria")
	}
	sup, err := repos.Parties(entity.PartySupplier).GetByID(ctx, p.SupplierID)
	if err != nil {
		return err
	}
	if sup == nil {
		return fmt.Errorf("%w: proveedor %d", domain.ErrNotFound, p.SupplierID)
	}
	cat, err := repos.Categories().GetByID(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		SalePrice:     dto.NewMoney(p.SalePrice),
		PurchasePrice: dto.NewMoney(p.PurchasePrice),
		StockQuantity: p.StockQuantity,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		Active:        p.Active,
	}
}
