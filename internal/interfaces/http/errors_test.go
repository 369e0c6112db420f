package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
)

func respondWith(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return handleError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// Los códigos de estado son parte del contrato de la API: cada error de la
// taxonomía tiene exactamente una traducción HTTP.
func TestHandleError_TaxonomiaCompleta(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validacion", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no autenticado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"usuario inexistente", domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"transicion ilegal", domain.ErrIllegalTransition, fiber.StatusConflict, "ILLEGAL_TRANSITION"},
		{"transicion concurrente", domain.ErrConflictingTransition, fiber.StatusConflict, "CONFLICTING_TRANSITION"},
		{"no elegible", domain.ErrDeviceNotEligible, fiber.StatusUnprocessableEntity, "NOT_ELIGIBLE"},
		{"pago excedido", domain.ErrPaymentExceedsTotal, fiber.StatusUnprocessableEntity, "PAYMENT_EXCEEDS_TOTAL"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"email duplicado", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondWith(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestHandleError_ErrorEnvuelto_ConservaElMapeo(t *testing.T) {
	status, body := respondWith(t, fmt.Errorf("cargar dispositivo: %w", domain.ErrNotFound))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestHandleError_ErrorDesconocido_Retorna500(t *testing.T) {
	status, body := respondWith(t, errors.New("se cayó la base"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
}
