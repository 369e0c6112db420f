package registry

import (
	"context"

	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de dispositivos atado a esa tx. Toda transición de estado pasa
// por aquí: el cambio de estado y su registro disparador se escriben como
// una sola unidad.
type TxRunner interface {
	RunDevice(ctx context.Context, fn func(devices repository.DeviceRepository) error) error
}
