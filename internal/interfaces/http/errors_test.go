package http

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("quantity", "debe ser mayor que 0"), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("crear: %w", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("get: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{&domain.StateError{Current: "cancelado", Action: "completar"}, fiber.StatusConflict, "INVALID_STATE"},
		{&domain.InsufficientStockError{ProductID: 1}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("tx: %w", domain.ErrConflict), fiber.StatusConflict, "CONFLICT"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("pool cerrado"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestMapError_InternoNoExponeDetalle(t *testing.T) {
	_, body := mapError(fmt.Errorf("dial tcp 10.0.0.5:5432: refused"))
	assert.NotContains(t, body.Message, "10.0.0.5")
}
