package repository

import (
	"time"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// RepairFilter filtros opcionales para listados de reparaciones.
type RepairFilter struct {
	Status     string
	AssignedTo string
}

// RepairRepository define el puerto de persistencia para Repair.
type RepairRepository interface {
	Create(repair *entity.Repair) error
	GetByID(id string) (*entity.Repair, error)
	Update(repair *entity.Repair) error
	ListByCompany(companyID string, f RepairFilter, limit, offset int) ([]*entity.Repair, error)
	// ListPendingOlderThan devuelve reparaciones en pending creadas antes del
	// corte (para la escalación programada de prioridad).
	ListPendingOlderThan(cutoff time.Time) ([]*entity.Repair, error)
}
