package repairs

import (
	"context"

	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del flujo de reparación atados a esa tx. La mutación de la
// orden y la transición del dispositivo son una sola unidad; la finalización
// incluye además la re-inspección técnica.
type TxRunner interface {
	RunRepair(ctx context.Context, fn func(
		devices repository.DeviceRepository,
		repairsRepo repository.RepairRepository,
		inspections repository.InspectionRepository,
	) error) error
}
