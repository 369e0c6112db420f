package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/finance"
)

// FinanceHandler maneja las peticiones HTTP del dashboard financiero (protegido).
type FinanceHandler struct {
	uc *finance.UseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.UseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// Dashboard devuelve el resumen financiero de la empresa.
// GET /api/finance/dashboard
func (h *FinanceHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Dashboard(c.Context(), actor)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
