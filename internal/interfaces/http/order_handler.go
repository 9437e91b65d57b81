package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
)

// OrderHandler expone una serie documental. Se monta en /sales-orders y /purchase-orders
// con el servicio de cada serie.
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create godoc
// @Summary      Crear pedido (queda pendiente, numerado V-NNNN u OC-NNNN)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "counterparty_id y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
// @Router       /api/purchase-orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos (más recientes primero)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "pendiente | completado | recibida | cancelado | cancelada"
// @Param        counterparty_id  query  int     false  "Cliente o proveedor"
// @Param        product_id       query  int     false  "Pedidos que incluyen el producto"
// @Param        date_from        query  string  false  "YYYY-MM-DD"
// @Param        date_to          query  string  false  "YYYY-MM-DD"
// @Success      200              {object}  dto.OrderListResponse
// @Router       /api/sales-orders [get]
// @Router       /api/purchase-orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	in := dto.OrderFilterRequest{Status: c.Query("status"), PageRequest: queryPage(c)}
	var err error
	if in.CounterpartyID, err = queryInt64(c, "counterparty_id"); err != nil {
		return respondError(c, err)
	}
	if in.ProductID, err = queryInt64(c, "product_id"); err != nil {
		return respondError(c, err)
	}
	// La fecha del pedido es un día; basta comparar con el inicio de cada día.
	if in.DateFrom, err = queryDate(c, "date_from", false); err != nil {
		return respondError(c, err)
	}
	if in.DateTo, err = queryDate(c, "date_to", false); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar pedido pendiente (contraparte y/o reemplazo de líneas)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "Cambios"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_STATE si no está pendiente"
// @Router       /api/sales-orders/{id} [put]
// @Router       /api/purchase-orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado (completar/recibir o cancelar)
// @Description  Completar una venta descuenta stock; recibir una compra lo suma. Todo o nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del pedido"
// @Param        body  body  dto.TransitionRequest  true  "target"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_STATE, INSUFFICIENT_STOCK o CONFLICT"
// @Router       /api/sales-orders/{id}/transition [post]
// @Router       /api/purchase-orders/{id}/transition [post]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Transition(c.UserContext(), GetUserID(c), id, in.Target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF descarga el documento imprimible del pedido.
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, filename, err := h.svc.PDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
