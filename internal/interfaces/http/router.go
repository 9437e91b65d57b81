package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         AuthService
	ProductUC      ProductService
	CategoryUC     CategoryService
	ClientUC       PartyService
	SupplierUC     PartyService
	SalesOrders    OrderService
	PurchaseOrders OrderService
	Ledger         MovementService
	DashboardUC    DashboardService
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	admin := RequireRole(entity.RoleAdmin)
	sales := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	purchases := RequireRole(entity.RoleAdmin, entity.RoleComprador)

	// Auth: login público; el alta de usuarios es del administrador.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", admin, authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	// Catálogo: lectura para todos los roles
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", purchases, productHandler.Create)
	products.Put("/:id", purchases, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Put("/:id", admin, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	mountParty(protected.Group("/clients"), NewPartyHandler(deps.ClientUC), sales)
	mountParty(protected.Group("/suppliers"), NewPartyHandler(deps.SupplierUC), purchases)

	// Pedidos
	mountOrders(protected.Group("/sales-orders", sales), NewOrderHandler(deps.SalesOrders))
	mountOrders(protected.Group("/purchase-orders", purchases), NewOrderHandler(deps.PurchaseOrders))

	// Libro de inventario: movimientos manuales solo administrador
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/:id", inventoryHandler.GetMovement)
	inv.Post("/movements", admin, inventoryHandler.RegisterMovement)

	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
}

func mountParty(g fiber.Router, h *PartyHandler, write fiber.Handler) {
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Post("/", write, h.Create)
	g.Put("/:id", write, h.Update)
	g.Delete("/:id", write, h.Delete)
}

func mountOrders(g fiber.Router, h *OrderHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Put("/:id", h.Update)
	g.Post("/:id/transition", h.Transition)
	g.Delete("/:id", h.Delete)
	g.Get("/:id/pdf", h.PDF)
}
