package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
)

var validate = validator.New()

// parseBody decodifica y valida el cuerpo JSON contra los tags `validate`.
// Devuelve false si ya respondió con 400.
func parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		return false
	}
	return true
}

// requireParam lee un parámetro de ruta obligatorio. Devuelve "" si ya
// respondió con 400.
func requireParam(c *fiber.Ctx, name string) string {
	v := c.Params(name)
	if v == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
	}
	return v
}
