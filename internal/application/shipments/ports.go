package shipments

import (
	"context"

	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// TxRunner ejecuta la recepción de dispositivos dentro de una transacción:
// o se crean todos los dispositivos del lote, o ninguno.
type TxRunner interface {
	RunIntake(ctx context.Context, fn func(
		devices repository.DeviceRepository,
		shipmentsRepo repository.ShipmentRepository,
	) error) error
}
