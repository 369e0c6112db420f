// Package registry implementa el registro de dispositivos: alta, consulta y
// las transiciones del ciclo de vida que no dependen de otro agregado
// (encolar inspección, iniciar inspección, traslado, scrap, borrado).
package registry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/device"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// DeviceUseCase casos de uso del registro de dispositivos.
type DeviceUseCase struct {
	deviceRepo repository.DeviceRepository
	txRunner   TxRunner
}

// NewDeviceUseCase construye el caso de uso.
func NewDeviceUseCase(deviceRepo repository.DeviceRepository, txRunner TxRunner) *DeviceUseCase {
	return &DeviceUseCase{deviceRepo: deviceRepo, txRunner: txRunner}
}

// Create da de alta un dispositivo por ingreso manual, en estado received.
// AssetID es único por empresa.
func (uc *DeviceUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateDeviceRequest) (*dto.DeviceResponse, error) {
	if !entity.CanManageDevices(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.AssetID) == "" || strings.TrimSpace(in.Model) == "" || strings.TrimSpace(in.SerialNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.deviceRepo.GetByCompanyAndAssetID(actor.CompanyID, in.AssetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	d := &entity.Device{
		ID:              uuid.New().String(),
		CompanyID:       actor.CompanyID,
		AssetID:         in.AssetID,
		Model:           in.Model,
		SerialNumber:    in.SerialNumber,
		Manufacturer:    in.Manufacturer,
		Status:          entity.StatusReceived,
		Condition:       in.Condition,
		CurrentLocation: in.Location,
		PurchasePrice:   in.PurchasePrice,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.deviceRepo.Create(d); err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// Get obtiene un dispositivo de la empresa del actor.
func (uc *DeviceUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.DeviceResponse, error) {
	d, err := uc.ownedDevice(actor, id)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// List lista dispositivos de la empresa, con filtros opcionales.
func (uc *DeviceUseCase) List(ctx context.Context, actor entity.Actor, in dto.ListDevicesRequest) ([]*dto.DeviceResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !device.IsValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	filter := repository.DeviceFilter{Status: in.Status, ShipmentID: in.ShipmentID}
	list, err := uc.deviceRepo.ListByCompany(actor.CompanyID, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DeviceResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToDeviceResponse(d))
	}
	return out, nil
}

// Update edita campos descriptivos. El estado solo lo mutan las transiciones.
func (uc *DeviceUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateDeviceRequest) (*dto.DeviceResponse, error) {
	if !entity.CanManageDevices(actor.Role) {
		return nil, domain.ErrForbidden
	}
	d, err := uc.ownedDevice(actor, id)
	if err != nil {
		return nil, err
	}
	if in.Model != "" {
		d.Model = in.Model
	}
	if in.Manufacturer != "" {
		d.Manufacturer = in.Manufacturer
	}
	if in.Condition != "" {
		d.Condition = in.Condition
	}
	if in.Notes != "" {
		d.Notes = in.Notes
	}
	d.UpdatedAt = time.Now()
	if err := uc.deviceRepo.Update(d); err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// QueueInspection encola el dispositivo recibido para inspección
// (received → pending_inspection).
func (uc *DeviceUseCase) QueueInspection(ctx context.Context, actor entity.Actor, id string) (*dto.DeviceResponse, error) {
	if !entity.CanManageDevices(actor.Role) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, actor, id, entity.StatusPendingInspection, nil)
}

// StartInspection marca el inicio de la revisión física
// (pending_inspection → in_physical_inspection).
func (uc *DeviceUseCase) StartInspection(ctx context.Context, actor entity.Actor, id string) (*dto.DeviceResponse, error) {
	if !entity.CanInspect(actor.Role) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, actor, id, entity.StatusPhysicalInspection, nil)
}

// TransferToBranch traslada un dispositivo ready_for_sale a una sucursal
// (ready_for_sale → in_branch). La ubicación cambia en la misma transacción.
func (uc *DeviceUseCase) TransferToBranch(ctx context.Context, actor entity.Actor, id string, in dto.TransferDeviceRequest) (*dto.DeviceResponse, error) {
	if !entity.CanTransfer(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Branch) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transition(ctx, actor, id, entity.StatusInBranch, func(devices repository.DeviceRepository, d *entity.Device) error {
		d.CurrentLocation = in.Branch
		return devices.UpdateLocation(d.ID, in.Branch)
	})
}

// Scrap da de baja un dispositivo irrecuperable desde cualquier estado no
// terminal. Solo roles autorizados.
func (uc *DeviceUseCase) Scrap(ctx context.Context, actor entity.Actor, id string, in dto.ScrapDeviceRequest) (*dto.DeviceResponse, error) {
	if !entity.CanScrap(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transition(ctx, actor, id, entity.StatusScrap, func(devices repository.DeviceRepository, d *entity.Device) error {
		d.Notes = appendNote(d.Notes, "scrap: "+in.Reason)
		d.UpdatedAt = time.Now()
		return devices.Update(d)
	})
}

// Delete borra físicamente un dispositivo. Un dispositivo vendido nunca se
// borra (solo retiro lógico vía estados terminales).
func (uc *DeviceUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !entity.CanDeleteDevice(actor.Role) {
		return domain.ErrForbidden
	}
	d, err := uc.ownedDevice(actor, id)
	if err != nil {
		return err
	}
	if d.Status == entity.StatusSold {
		return domain.ErrDeviceNotEligible
	}
	return uc.deviceRepo.Delete(id)
}

// ownedDevice carga el dispositivo y verifica pertenencia al tenant del actor.
func (uc *DeviceUseCase) ownedDevice(actor entity.Actor, id string) (*entity.Device, error) {
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

// transition ejecuta una transición de estado de forma atómica. La arista se
// valida con el estado observado; dentro de la tx se re-lee la fila con lock
// y un estado distinto al observado aborta con ErrConflictingTransition.
func (uc *DeviceUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	id, target string,
	mutate func(devices repository.DeviceRepository, d *entity.Device) error,
) (*dto.DeviceResponse, error) {
	observed, err := uc.ownedDevice(actor, id)
	if err != nil {
		return nil, err
	}
	if err := device.Validate(observed.Status, target); err != nil {
		return nil, err
	}

	var result *entity.Device
	err = uc.txRunner.RunDevice(ctx, func(devices repository.DeviceRepository) error {
		locked, err := devices.GetForUpdate(id)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != observed.Status {
			return domain.ErrConflictingTransition
		}
		ok, err := devices.UpdateStatus(id, observed.Status, target)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflictingTransition
		}
		locked.Status = target
		if mutate != nil {
			if err := mutate(devices, locked); err != nil {
				return err
			}
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(result), nil
}

func appendNote(notes, extra string) string {
	if notes == "" {
		return extra
	}
	return notes + "\n" + extra
}

// ToDeviceResponse mapea la entidad al DTO de respuesta.
func ToDeviceResponse(d *entity.Device) *dto.DeviceResponse {
	if d == nil {
		return nil
	}
	return &dto.DeviceResponse{
		ID:            d.ID,
		CompanyID:     d.CompanyID,
		ShipmentID:    d.ShipmentID,
		AssetID:       d.AssetID,
		Model:         d.Model,
		SerialNumber:  d.SerialNumber,
		Manufacturer:  d.Manufacturer,
		Status:        d.Status,
		Condition:     d.Condition,
		Location:      d.CurrentLocation,
		PurchasePrice: d.PurchasePrice,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
