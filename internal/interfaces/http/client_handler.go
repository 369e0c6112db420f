package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
)

// ClientHandler maneja las peticiones HTTP de clientes (protegido).
type ClientHandler struct {
	uc *billing.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *billing.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create da de alta un cliente.
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateClientRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un cliente.
// GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
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

// List lista clientes de la empresa.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
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
