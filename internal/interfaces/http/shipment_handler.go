package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/shipments"
)

// ShipmentHandler maneja las peticiones HTTP de envíos (protegido).
type ShipmentHandler struct {
	uc *shipments.UseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipments.UseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create da de alta un envío vacío.
// POST /api/shipments
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateShipmentRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IntakeDevices recibe un lote de dispositivos contra el envío.
// POST /api/shipments/:id/devices
func (h *ShipmentHandler) IntakeDevices(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.IntakeDevicesRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.IntakeDevices(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene el envío con su rollup derivado.
// GET /api/shipments/:id
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := h.uc.Get(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// List lista los envíos de la empresa.
// GET /api/shipments
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.List(c.Context(), actor, pageFromQuery(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
