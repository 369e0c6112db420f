package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create crea una factura y vende los dispositivos referenciados.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateInvoiceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
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

// List lista facturas de la empresa.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
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

// RecordPayment registra un abono a la factura.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.RecordPaymentRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.RecordPayment(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF descarga el comprobante imprimible de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	pdfBytes, err := h.uc.PDF(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factura-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}
