package http

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
)

//go:generate mockgen -source=ports.go -destination=ports_mock.go -package=http

// AuthService registro, login y perfil.
type AuthService interface {
	RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// ProductService catálogo de productos.
type ProductService interface {
	Create(ctx context.Context, userID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryService interface {
	Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
}

// PartyService clientes o proveedores.
type PartyService interface {
	Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.PartyResponse, error)
	Update(ctx context.Context, id int64, in dto.PartyRequest) (*dto.PartyResponse, error)
	List(ctx context.Context, page dto.PageRequest) ([]dto.PartyResponse, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService una serie documental (pedidos de venta u órdenes de compra).
type OrderService interface {
	Create(ctx context.Context, userID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	Transition(ctx context.Context, userID, id int64, target string) (*dto.OrderResponse, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*dto.OrderResponse, error)
	List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error)
	PDF(ctx context.Context, id int64) ([]byte, string, error)
}

// MovementService libro de inventario.
type MovementService interface {
	RegisterFromRequest(ctx context.Context, userID int64, in dto.RegisterMovementRequest) (*dto.MovementResponse, error)
	GetMovement(ctx context.Context, id int64) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error)
}

type DashboardService interface {
	GetSummary(ctx context.Context) (*dto.DashboardDTO, error)
}
