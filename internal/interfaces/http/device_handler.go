package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// DeviceHandler maneja las peticiones HTTP del registro de dispositivos (protegido).
type DeviceHandler struct {
	uc *registry.DeviceUseCase
}

// NewDeviceHandler construye el handler.
func NewDeviceHandler(uc *registry.DeviceUseCase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

// Create godoc
// @Summary      Alta manual de dispositivo
// @Tags         devices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeviceRequest  true  "Datos del dispositivo"
// @Success      201   {object}  dto.DeviceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/devices [post]
func (h *DeviceHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDeviceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener dispositivo por ID
// @Tags         devices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del dispositivo"
// @Success      200  {object}  dto.DeviceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/devices/{id} [get]
func (h *DeviceHandler) GetByID(c *fiber.Ctx) error {
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

// List godoc
// @Summary      Listar dispositivos
// @Tags         devices
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Filtro por estado"
// @Param        shipment_id  query  string  false  "Filtro por envío"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.DeviceResponse
// @Router       /api/devices [get]
func (h *DeviceHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	in := dto.ListDevicesRequest{
		PageRequest: pageFromQuery(c),
		Status:      c.Query("status"),
		ShipmentID:  c.Query("shipment_id"),
	}
	out, err := h.uc.List(c.Context(), actor, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update edita campos descriptivos (nunca el estado).
// PUT /api/devices/:id
func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.UpdateDeviceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// QueueInspection encola el dispositivo para inspección.
// POST /api/devices/:id/queue-inspection
func (h *DeviceHandler) QueueInspection(c *fiber.Ctx) error {
	return h.simpleTransition(c, h.uc.QueueInspection)
}

// StartInspection marca el inicio de la revisión física.
// POST /api/devices/:id/start-inspection
func (h *DeviceHandler) StartInspection(c *fiber.Ctx) error {
	return h.simpleTransition(c, h.uc.StartInspection)
}

// TransferToBranch traslada el dispositivo a una sucursal.
// POST /api/devices/:id/transfer
func (h *DeviceHandler) TransferToBranch(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.TransferDeviceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.TransferToBranch(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Scrap da de baja el dispositivo.
// POST /api/devices/:id/scrap
func (h *DeviceHandler) Scrap(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	var in dto.ScrapDeviceRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Scrap(c.Context(), actor, id, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete borra físicamente un dispositivo no vendido.
// DELETE /api/devices/:id
func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// simpleTransition factoriza las transiciones sin cuerpo.
func (h *DeviceHandler) simpleTransition(
	c *fiber.Ctx,
	fn func(ctx context.Context, actor entity.Actor, id string) (*dto.DeviceResponse, error),
) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := requireParam(c, "id")
	if id == "" {
		return nil
	}
	out, err := fn(c.Context(), actor, id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
