// Package inspection implementa el libro de inspecciones: registros
// inmutables físicos y técnicos que disparan las transiciones del
// dispositivo en la misma transacción.
package inspection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/device"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// UseCase casos de uso del libro de inspecciones.
type UseCase struct {
	deviceRepo     repository.DeviceRepository
	inspectionRepo repository.InspectionRepository
	txRunner       TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(deviceRepo repository.DeviceRepository, inspectionRepo repository.InspectionRepository, txRunner TxRunner) *UseCase {
	return &UseCase{deviceRepo: deviceRepo, inspectionRepo: inspectionRepo, txRunner: txRunner}
}

// RecordPhysical registra la inspección física y avanza el dispositivo
// (in_physical_inspection → in_technical_inspection) atómicamente.
func (uc *UseCase) RecordPhysical(ctx context.Context, actor entity.Actor, deviceID string, in dto.RecordPhysicalRequest) (*dto.PhysicalInspectionResponse, error) {
	if !entity.CanInspect(actor.Role) {
		return nil, domain.ErrForbidden
	}
	observed, err := uc.ownedDevice(actor, deviceID)
	if err != nil {
		return nil, err
	}
	if err := device.Validate(observed.Status, entity.StatusTechInspection); err != nil {
		return nil, err
	}

	record := &entity.PhysicalInspection{
		ID:          uuid.New().String(),
		DeviceID:    deviceID,
		InspectorID: actor.UserID,
		ChassisOK:   in.ChassisOK,
		ScreenOK:    in.ScreenOK,
		KeyboardOK:  in.KeyboardOK,
		PortsOK:     in.PortsOK,
		Condition:   in.Condition,
		Passed:      in.Passed,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}
	err = uc.txRunner.RunInspection(ctx, func(devices repository.DeviceRepository, inspections repository.InspectionRepository) error {
		if err := lockAndCheck(devices, deviceID, observed.Status); err != nil {
			return err
		}
		if err := inspections.CreatePhysical(record); err != nil {
			return err
		}
		return applyStatus(devices, deviceID, observed.Status, entity.StatusTechInspection)
	})
	if err != nil {
		return nil, err
	}
	return toPhysicalResponse(record), nil
}

// RecordTechnical registra la inspección técnica. El veredicto decide la
// transición: ready → ready_for_sale, needs_repair → needs_repair.
func (uc *UseCase) RecordTechnical(ctx context.Context, actor entity.Actor, deviceID string, in dto.RecordTechnicalRequest) (*dto.TechnicalInspectionResponse, error) {
	if !entity.CanInspect(actor.Role) {
		return nil, domain.ErrForbidden
	}
	target, err := TargetForVerdict(in.Verdict)
	if err != nil {
		return nil, err
	}
	observed, err := uc.ownedDevice(actor, deviceID)
	if err != nil {
		return nil, err
	}
	if err := device.Validate(observed.Status, target); err != nil {
		return nil, err
	}

	record := NewTechnicalRecord(deviceID, actor.UserID, in)
	err = uc.txRunner.RunInspection(ctx, func(devices repository.DeviceRepository, inspections repository.InspectionRepository) error {
		if err := lockAndCheck(devices, deviceID, observed.Status); err != nil {
			return err
		}
		if err := inspections.CreateTechnical(record); err != nil {
			return err
		}
		return applyStatus(devices, deviceID, observed.Status, target)
	})
	if err != nil {
		return nil, err
	}
	return toTechnicalResponse(record), nil
}

// History devuelve todas las inspecciones del dispositivo, ordenadas por
// fecha de creación (orden que garantiza el repositorio).
func (uc *UseCase) History(ctx context.Context, actor entity.Actor, deviceID string) (*dto.InspectionHistoryResponse, error) {
	if _, err := uc.ownedDevice(actor, deviceID); err != nil {
		return nil, err
	}
	physical, err := uc.inspectionRepo.ListPhysicalByDevice(deviceID)
	if err != nil {
		return nil, err
	}
	technical, err := uc.inspectionRepo.ListTechnicalByDevice(deviceID)
	if err != nil {
		return nil, err
	}
	out := &dto.InspectionHistoryResponse{DeviceID: deviceID}
	for _, p := range physical {
		out.Physical = append(out.Physical, *toPhysicalResponse(p))
	}
	for _, t := range technical {
		out.Technical = append(out.Technical, *toTechnicalResponse(t))
	}
	return out, nil
}

// TargetForVerdict traduce el veredicto técnico al estado destino.
func TargetForVerdict(verdict string) (string, error) {
	switch verdict {
	case entity.VerdictReady:
		return entity.StatusReadyForSale, nil
	case entity.VerdictNeedsRepair:
		return entity.StatusNeedsRepair, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// NewTechnicalRecord construye el registro técnico a partir del request.
// Lo reutiliza la finalización de reparaciones (re-inspección en la misma tx).
func NewTechnicalRecord(deviceID, inspectorID string, in dto.RecordTechnicalRequest) *entity.TechnicalInspection {
	return &entity.TechnicalInspection{
		ID:            uuid.New().String(),
		DeviceID:      deviceID,
		InspectorID:   inspectorID,
		CPUOK:         in.CPUOK,
		RAMOK:         in.RAMOK,
		DiskOK:        in.DiskOK,
		BatteryHealth: in.BatteryHealth,
		OSOK:          in.OSOK,
		Verdict:       in.Verdict,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	}
}

func (uc *UseCase) ownedDevice(actor entity.Actor, id string) (*entity.Device, error) {
	d, err := uc.deviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(d.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

// lockAndCheck bloquea la fila del dispositivo y verifica que el estado siga
// siendo el observado fuera de la tx.
func lockAndCheck(devices repository.DeviceRepository, id, expected string) error {
	locked, err := devices.GetForUpdate(id)
	if err != nil {
		return err
	}
	if locked == nil {
		return domain.ErrNotFound
	}
	if locked.Status != expected {
		return domain.ErrConflictingTransition
	}
	return nil
}

// applyStatus escribe el nuevo estado de forma condicional al esperado.
func applyStatus(devices repository.DeviceRepository, id, expected, next string) error {
	ok, err := devices.UpdateStatus(id, expected, next)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflictingTransition
	}
	return nil
}

func toPhysicalResponse(p *entity.PhysicalInspection) *dto.PhysicalInspectionResponse {
	return &dto.PhysicalInspectionResponse{
		ID:          p.ID,
		DeviceID:    p.DeviceID,
		InspectorID: p.InspectorID,
		ChassisOK:   p.ChassisOK,
		ScreenOK:    p.ScreenOK,
		KeyboardOK:  p.KeyboardOK,
		PortsOK:     p.PortsOK,
		Condition:   p.Condition,
		Passed:      p.Passed,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

func toTechnicalResponse(t *entity.TechnicalInspection) *dto.TechnicalInspectionResponse {
	return &dto.TechnicalInspectionResponse{
		ID:            t.ID,
		DeviceID:      t.DeviceID,
		InspectorID:   t.InspectorID,
		CPUOK:         t.CPUOK,
		RAMOK:         t.RAMOK,
		DiskOK:        t.DiskOK,
		BatteryHealth: t.BatteryHealth,
		OSOK:          t.OSOK,
		Verdict:       t.Verdict,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}
