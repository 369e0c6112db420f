package repository

import "github.com/jhoicas/Renovatec-api/internal/domain/entity"

// InspectionRepository define el puerto para el libro de inspecciones.
// Solo inserta y consulta: los registros son inmutables (append-only).
type InspectionRepository interface {
	CreatePhysical(ins *entity.PhysicalInspection) error
	CreateTechnical(ins *entity.TechnicalInspection) error
	ListPhysicalByDevice(deviceID string) ([]*entity.PhysicalInspection, error)
	ListTechnicalByDevice(deviceID string) ([]*entity.TechnicalInspection, error)
}
