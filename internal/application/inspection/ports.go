package inspection

import (
	"context"

	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de dispositivos e inspecciones atados a esa tx. El registro
// de inspección y la transición del dispositivo se escriben como una sola
// unidad: aplicación parcial es un defecto.
type TxRunner interface {
	RunInspection(ctx context.Context, fn func(
		devices repository.DeviceRepository,
		inspections repository.InspectionRepository,
	) error) error
}
