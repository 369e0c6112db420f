package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
)

// InspectionHandler maneja las peticiones HTTP del libro de inspecciones (protegido).
type InspectionHandler struct {
	uc *inspection.UseCase
}

// NewInspectionHandler construye el handler.
func NewInspectionHandler(uc *inspection.UseCase) *InspectionHandler {
	return &InspectionHandler{uc: uc}
}

// RecordPhysical registra la inspección física y avanza el dispositivo.
// POST /api/devices/:id/inspections/physical
func (h *InspectionHandler) RecordPhysical(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.RecordPhysicalRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.RecordPhysical(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordTechnical registra la inspección técnica; el veredicto decide la
// transición del dispositivo.
// POST /api/devices/:id/inspections/technical
func (h *InspectionHandler) RecordTechnical(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.RecordTechnicalRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.RecordTechnical(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History devuelve el historial completo de inspecciones del dispositivo.
// GET /api/devices/:id/inspections
func (h *InspectionHandler) History(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := h.uc.History(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
