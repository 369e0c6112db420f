package repository

import "github.com/jhoicas/Renovatec-api/internal/domain/entity"

// DeviceFilter filtros opcionales para listados de dispositivos.
type DeviceFilter struct {
	Status     string
	ShipmentID string
}

// DeviceRepository define el puerto de persistencia para Device.
type DeviceRepository interface {
	Create(device *entity.Device) error
	GetByID(id string) (*entity.Device, error)
	// GetForUpdate bloquea la fila del dispositivo dentro de la tx actual
	// (SELECT FOR UPDATE). Serializa transiciones concurrentes.
	GetForUpdate(id string) (*entity.Device, error)
	GetByCompanyAndAssetID(companyID, assetID string) (*entity.Device, error)
	Update(device *entity.Device) error
	// UpdateStatus escribe el nuevo estado solo si el actual coincide con
	// expected. Cero filas afectadas significa que otra transacción ganó la
	// carrera: el caller lo reporta como ErrConflictingTransition.
	UpdateStatus(id, expected, next string) (bool, error)
	// UpdateLocation cambia la ubicación junto con el estado (traslados).
	UpdateLocation(id, location string) error
	ListByCompany(companyID string, f DeviceFilter, limit, offset int) ([]*entity.Device, error)
	Delete(id string) error

	// Derivados para el agregador de envíos: el conteo nunca se almacena.
	CountByShipment(shipmentID string) (int, error)
	StatusBreakdownByShipment(shipmentID string) (map[string]int, error)
}
