package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.InspectionRepository = (*InspectionRepo)(nil)

// InspectionRepo implementación del libro de inspecciones sobre PostgreSQL.
// Las tablas no tienen UPDATE ni DELETE en ningún camino de código:
// el libro es append-only.
type InspectionRepo struct {
	q Querier
}

// NewInspectionRepository construye el adaptador del libro de inspecciones.
func NewInspectionRepository(q Querier) *InspectionRepo {
	return &InspectionRepo{q: q}
}

// CreatePhysical inserta un registro de inspección física.
func (r *InspectionRepo) CreatePhysical(ins *entity.PhysicalInspection) error {
	query := `
		INSERT INTO physical_inspections (id, device_id, inspector_id, chassis_ok, screen_ok, keyboard_ok, ports_ok, condition, passed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		ins.ID, ins.DeviceID, ins.InspectorID, ins.ChassisOK, ins.ScreenOK, ins.KeyboardOK,
		ins.PortsOK, ins.Condition, ins.Passed, ins.Notes, ins.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert physical inspection: %w", err)
	}
	return nil
}

// CreateTechnical inserta un registro de inspección técnica.
func (r *InspectionRepo) CreateTechnical(ins *entity.TechnicalInspection) error {
	query := `
		INSERT INTO technical_inspections (id, device_id, inspector_id, cpu_ok, ram_ok, disk_ok, battery_health, os_ok, verdict, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		ins.ID, ins.DeviceID, ins.InspectorID, ins.CPUOK, ins.RAMOK, ins.DiskOK,
		ins.BatteryHealth, ins.OSOK, ins.Verdict, ins.Notes, ins.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert technical inspection: %w", err)
	}
	return nil
}

// ListPhysicalByDevice devuelve el historial físico de un dispositivo,
// del más reciente al más antiguo.
func (r *InspectionRepo) ListPhysicalByDevice(deviceID string) ([]*entity.PhysicalInspection, error) {
	query := `
		SELECT id, device_id, inspector_id, chassis_ok, screen_ok, keyboard_ok, ports_ok, condition, passed, notes, created_at
		FROM physical_inspections WHERE device_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list physical inspections: %w", err)
	}
	defer rows.Close()
	var list []*entity.PhysicalInspection
	for rows.Next() {
		var ins entity.PhysicalInspection
		if err := rows.Scan(&ins.ID, &ins.DeviceID, &ins.InspectorID, &ins.ChassisOK, &ins.ScreenOK,
			&ins.KeyboardOK, &ins.PortsOK, &ins.Condition, &ins.Passed, &ins.Notes, &ins.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan physical inspection: %w", err)
		}
		list = append(list, &ins)
	}
	return list, rows.Err()
}

// ListTechnicalByDevice devuelve el historial técnico de un dispositivo,
// del más reciente al más antiguo.
func (r *InspectionRepo) ListTechnicalByDevice(deviceID string) ([]*entity.TechnicalInspection, error) {
	query := `
		SELECT id, device_id, inspector_id, cpu_ok, ram_ok, disk_ok, battery_health, os_ok, verdict, notes, created_at
		FROM technical_inspections WHERE device_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list technical inspections: %w", err)
	}
	defer rows.Close()
	var list []*entity.TechnicalInspection
	for rows.Next() {
		var ins entity.TechnicalInspection
		if err := rows.Scan(&ins.ID, &ins.DeviceID, &ins.InspectorID, &ins.CPUOK, &ins.RAMOK,
			&ins.DiskOK, &ins.BatteryHealth, &ins.OSOK, &ins.Verdict, &ins.Notes, &ins.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan technical inspection: %w", err)
		}
		list = append(list, &ins)
	}
	return list, rows.Err()
}
