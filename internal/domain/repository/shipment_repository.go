package repository

import "github.com/jhoicas/Renovatec-api/internal/domain/entity"

// ShipmentRepository define el puerto de persistencia para Shipment.
type ShipmentRepository interface {
	Create(shipment *entity.Shipment) error
	GetByID(id string) (*entity.Shipment, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Shipment, error)
}
