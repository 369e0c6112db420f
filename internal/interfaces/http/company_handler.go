package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/company"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
)

// CompanyHandler maneja las peticiones HTTP para Company (protegido).
type CompanyHandler struct {
	uc *company.UseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *company.UseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create da de alta una empresa (solo super_admin).
// POST /api/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCompanyRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una empresa.
// GET /api/companies/:id
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := h.uc.Get(actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// List lista empresas (solo super_admin).
// GET /api/companies
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := pageFromQuery(c)
	out, err := h.uc.List(actor, page)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset con defaults y tope.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return dto.PageRequest{Limit: limit, Offset: offset}
}
