// Package repairs implementa el flujo de reparaciones: apertura sobre
// dispositivos en needs_repair, asignación a roles capaces de reparar y
// finalización con re-inspección técnica en la misma transacción.
package repairs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/device"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// UseCase casos de uso del flujo de reparación.
type UseCase struct {
	repairRepo repository.RepairRepository
	deviceRepo repository.DeviceRepository
	userRepo   repository.UserRepository
	txRunner   TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repairRepo repository.RepairRepository,
	deviceRepo repository.DeviceRepository,
	userRepo repository.UserRepository,
	txRunner TxRunner,
) *UseCase {
	return &UseCase{repairRepo: repairRepo, deviceRepo: deviceRepo, userRepo: userRepo, txRunner: txRunner}
}

// Create abre una orden de reparación. El dispositivo debe estar en
// needs_repair (ErrDeviceNotEligible si no) y pasa a in_repair en la misma
// transacción que persiste la orden.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateRepairRequest) (*dto.RepairResponse, error) {
	if !entity.CanManageRepairs(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.IssueDescription) == "" {
		return nil, domain.ErrInvalidInput
	}
	observed, err := uc.ownedDevice(actor, in.DeviceID)
	if err != nil {
		return nil, err
	}
	if observed.Status != entity.StatusNeedsRepair {
		return nil, domain.ErrDeviceNotEligible
	}
	if in.AssignedTo != "" {
		if err := uc.checkAssignee(actor, in.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}
	repair := &entity.Repair{
		ID:               uuid.New().String(),
		CompanyID:        observed.CompanyID,
		DeviceID:         in.DeviceID,
		IssueDescription: in.IssueDescription,
		AssignedTo:       in.AssignedTo,
		Priority:         priority,
		Status:           entity.RepairPending,
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.txRunner.RunRepair(ctx, func(devices repository.DeviceRepository, repairsRepo repository.RepairRepository, _ repository.InspectionRepository) error {
		if err := lockAndCheck(devices, in.DeviceID, observed.Status); err != nil {
			return err
		}
		if err := repairsRepo.Create(repair); err != nil {
			return err
		}
		return applyStatus(devices, in.DeviceID, entity.StatusNeedsRepair, entity.StatusInRepair)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// Assign asigna (o reasigna) la orden a un usuario con rol capaz de reparar.
func (uc *UseCase) Assign(ctx context.Context, actor entity.Actor, repairID string, in dto.AssignRepairRequest) (*dto.RepairResponse, error) {
	if !entity.CanManageRepairs(actor.Role) {
		return nil, domain.ErrForbidden
	}
	repair, err := uc.ownedRepair(actor, repairID)
	if err != nil {
		return nil, err
	}
	if repair.IsTerminal() {
		return nil, domain.ErrDeviceNotEligible
	}
	if err := uc.checkAssignee(actor, in.AssignedTo); err != nil {
		return nil, err
	}
	repair.AssignedTo = in.AssignedTo
	repair.UpdatedAt = time.Now()
	if err := uc.repairRepo.Update(repair); err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// Start pasa la orden de pending a in_progress.
func (uc *UseCase) Start(ctx context.Context, actor entity.Actor, repairID string) (*dto.RepairResponse, error) {
	if !entity.CanManageRepairs(actor.Role) {
		return nil, domain.ErrForbidden
	}
	repair, err := uc.ownedRepair(actor, repairID)
	if err != nil {
		return nil, err
	}
	if repair.Status != entity.RepairPending {
		return nil, domain.ErrDeviceNotEligible
	}
	repair.Status = entity.RepairInProgress
	repair.UpdatedAt = time.Now()
	if err := uc.repairRepo.Update(repair); err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// Complete cierra la orden. Exige nota de finalización; el veredicto de la
// re-inspección técnica decide si el dispositivo vuelve a ready_for_sale o a
// needs_repair. Orden, registro técnico y transición se escriben juntos.
func (uc *UseCase) Complete(ctx context.Context, actor entity.Actor, repairID string, in dto.CompleteRepairRequest) (*dto.RepairResponse, error) {
	if !entity.CanManageRepairs(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.CompletionNote) == "" {
		return nil, domain.ErrInvalidInput
	}
	target, err := inspection.TargetForVerdict(in.Recheck.Verdict)
	if err != nil {
		return nil, err
	}
	repair, err := uc.ownedRepair(actor, repairID)
	if err != nil {
		return nil, err
	}
	if repair.Status != entity.RepairInProgress {
		return nil, domain.ErrDeviceNotEligible
	}
	observed, err := uc.ownedDevice(actor, repair.DeviceID)
	if err != nil {
		return nil, err
	}
	if err := device.Validate(observed.Status, target); err != nil {
		return nil, err
	}

	now := time.Now()
	recheck := inspection.NewTechnicalRecord(repair.DeviceID, actor.UserID, in.Recheck)
	err = uc.txRunner.RunRepair(ctx, func(devices repository.DeviceRepository, repairsRepo repository.RepairRepository, inspections repository.InspectionRepository) error {
		if err := lockAndCheck(devices, repair.DeviceID, observed.Status); err != nil {
			return err
		}
		repair.Status = entity.RepairCompleted
		repair.CompletionNote = in.CompletionNote
		repair.CompletedAt = &now
		repair.UpdatedAt = now
		if err := repairsRepo.Update(repair); err != nil {
			return err
		}
		if err := inspections.CreateTechnical(recheck); err != nil {
			return err
		}
		return applyStatus(devices, repair.DeviceID, entity.StatusInRepair, target)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// Cancel anula una orden no terminal; el dispositivo vuelve a needs_repair.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, repairID string) (*dto.RepairResponse, error) {
	if !entity.CanManageRepairs(actor.Role) {
		return nil, domain.ErrForbidden
	}
	repair, err := uc.ownedRepair(actor, repairID)
	if err != nil {
		return nil, err
	}
	if repair.IsTerminal() {
		return nil, domain.ErrDeviceNotEligible
	}
	observed, err := uc.ownedDevice(actor, repair.DeviceID)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunRepair(ctx, func(devices repository.DeviceRepository, repairsRepo repository.RepairRepository, _ repository.InspectionRepository) error {
		if err := lockAndCheck(devices, repair.DeviceID, observed.Status); err != nil {
			return err
		}
		repair.Status = entity.RepairCancelled
		repair.UpdatedAt = time.Now()
		if err := repairsRepo.Update(repair); err != nil {
			return err
		}
		// Si el dispositivo sigue en reparación, vuelve a la cola de reparables.
		if observed.Status == entity.StatusInRepair {
			return applyStatus(devices, repair.DeviceID, entity.StatusInRepair, entity.StatusNeedsRepair)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// Get obtiene una orden de la empresa del actor.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, repairID string) (*dto.RepairResponse, error) {
	repair, err := uc.ownedRepair(actor, repairID)
	if err != nil {
		return nil, err
	}
	return toResponse(repair), nil
}

// List lista órdenes de la empresa con filtros opcionales.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, in dto.ListRepairsRequest) ([]*dto.RepairResponse, error) {
	in.DefaultPage()
	filter := repository.RepairFilter{Status: in.Status, AssignedTo: in.AssignedTo}
	list, err := uc.repairRepo.ListByCompany(actor.CompanyID, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RepairResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	return out, nil
}

// ownedRepair carga la orden y re-verifica que su dispositivo siga
// perteneciendo al tenant del actor. Se re-chequea en cada mutación.
func (uc *UseCase) ownedRepair(actor entity.Actor, id string) (*entity.Repair, error) {
	repair, err := uc.repairRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if repair == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(repair.CompanyID) {
		return nil, domain.ErrForbidden
	}
	d, err := uc.deviceRepo.GetByID(repair.DeviceID)
	if err != nil {
		return nil, err
	}
	if d == nil || !actor.SameTenant(d.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return repair, nil
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

// checkAssignee verifica que el asignado exista, sea del mismo tenant y
// tenga un rol capaz de reparar.
func (uc *UseCase) checkAssignee(actor entity.Actor, userID string) error {
	assignee, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if assignee == nil {
		return domain.ErrNotFound
	}
	if !actor.SameTenant(assignee.CompanyID) {
		return domain.ErrForbidden
	}
	if !entity.CanRepair(assignee.Role) {
		return domain.ErrInvalidInput
	}
	return nil
}

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

func toResponse(r *entity.Repair) *dto.RepairResponse {
	return &dto.RepairResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		DeviceID:         r.DeviceID,
		IssueDescription: r.IssueDescription,
		AssignedTo:       r.AssignedTo,
		Priority:         r.Priority,
		Status:           r.Status,
		CompletionNote:   r.CompletionNote,
		CompletedAt:      r.CompletedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
