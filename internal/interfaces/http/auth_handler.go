package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/auth"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
)

// AuthHandler maneja las peticiones HTTP de autenticación (público).
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register registra un usuario dentro de una empresa.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.RegisterUser(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login verifica credenciales y emite el token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
