package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/repairs"
)

// RepairHandler maneja las peticiones HTTP del flujo de reparación (protegido).
type RepairHandler struct {
	uc *repairs.UseCase
}

// NewRepairHandler construye el handler.
func NewRepairHandler(uc *repairs.UseCase) *RepairHandler {
	return &RepairHandler{uc: uc}
}

// Create abre una orden de reparación sobre un dispositivo en needs_repair.
// POST /api/repairs
func (h *RepairHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateRepairRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una orden.
// GET /api/repairs/:id
func (h *RepairHandler) GetByID(c *fiber.Ctx) error {
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

// List lista órdenes con filtros opcionales.
// GET /api/repairs
func (h *RepairHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	in := dto.ListRepairsRequest{
		PageRequest: pageFromQuery(c),
		Status:      c.Query("status"),
		AssignedTo:  c.Query("assigned_to"),
	}
	out, err := h.uc.List(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Assign asigna la orden a un usuario con rol capaz de reparar.
// POST /api/repairs/:id/assign
func (h *RepairHandler) Assign(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.AssignRepairRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Assign(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Start pasa la orden de pending a in_progress.
// POST /api/repairs/:id/start
func (h *RepairHandler) Start(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := h.uc.Start(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Complete cierra la orden con nota y re-inspección técnica.
// POST /api/repairs/:id/complete
func (h *RepairHandler) Complete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.CompleteRepairRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Complete(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Cancel anula una orden no terminal.
// POST /api/repairs/:id/cancel
func (h *RepairHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := h.uc.Cancel(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
