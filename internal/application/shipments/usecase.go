// Package shipments implementa el agregador de envíos: lotes de
// dispositivos recibidos en una misma entrega y sus rollups derivados.
package shipments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// UseCase casos de uso de envíos.
type UseCase struct {
	shipmentRepo repository.ShipmentRepository
	deviceRepo   repository.DeviceRepository
	txRunner     TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(shipmentRepo repository.ShipmentRepository, deviceRepo repository.DeviceRepository, txRunner TxRunner) *UseCase {
	return &UseCase{shipmentRepo: shipmentRepo, deviceRepo: deviceRepo, txRunner: txRunner}
}

// Create da de alta un envío vacío. Los dispositivos se adjuntan después
// vía IntakeDevices.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if !entity.CanManageDevices(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.VendorID) == "" || in.DeliveryDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Shipment{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		VendorID:     in.VendorID,
		VendorName:   in.VendorName,
		DeliveryDate: in.DeliveryDate,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.shipmentRepo.Create(s); err != nil {
		return nil, err
	}
	return uc.toResponse(s, 0, nil), nil
}

// IntakeDevices recibe un lote de dispositivos contra el envío. Todos se
// crean en estado received y con el ShipmentID del lote, en una sola
// transacción. El device_count del envío queda derivado automáticamente.
func (uc *UseCase) IntakeDevices(ctx context.Context, actor entity.Actor, shipmentID string, in dto.IntakeDevicesRequest) ([]*dto.DeviceResponse, error) {
	if !entity.CanManageDevices(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if len(in.Devices) == 0 {
		return nil, domain.ErrInvalidInput
	}
	shipment, err := uc.ownedShipment(actor, shipmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batch := make([]*entity.Device, 0, len(in.Devices))
	for _, line := range in.Devices {
		if strings.TrimSpace(line.AssetID) == "" || strings.TrimSpace(line.Model) == "" || strings.TrimSpace(line.SerialNumber) == "" {
			return nil, domain.ErrInvalidInput
		}
		batch = append(batch, &entity.Device{
			ID:            uuid.New().String(),
			CompanyID:     shipment.CompanyID,
			ShipmentID:    shipment.ID,
			AssetID:       line.AssetID,
			Model:         line.Model,
			SerialNumber:  line.SerialNumber,
			Manufacturer:  line.Manufacturer,
			Status:        entity.StatusReceived,
			PurchasePrice: line.PurchasePrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	err = uc.txRunner.RunIntake(ctx, func(devices repository.DeviceRepository, _ repository.ShipmentRepository) error {
		for _, d := range batch {
			if err := devices.Create(d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DeviceResponse, 0, len(batch))
	for _, d := range batch {
		out = append(out, registry.ToDeviceResponse(d))
	}
	return out, nil
}

// Get devuelve el envío con su rollup: conteo derivado y desglose por estado.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.ownedShipment(actor, id)
	if err != nil {
		return nil, err
	}
	count, err := uc.deviceRepo.CountByShipment(id)
	if err != nil {
		return nil, err
	}
	breakdown, err := uc.deviceRepo.StatusBreakdownByShipment(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(shipment, count, breakdown), nil
}

// List lista los envíos de la empresa con su conteo derivado.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]*dto.ShipmentResponse, error) {
	page.DefaultPage()
	list, err := uc.shipmentRepo.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		count, err := uc.deviceRepo.CountByShipment(s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, uc.toResponse(s, count, nil))
	}
	return out, nil
}

func (uc *UseCase) ownedShipment(actor entity.Actor, id string) (*entity.Shipment, error) {
	s, err := uc.shipmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(s.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

func (uc *UseCase) toResponse(s *entity.Shipment, count int, breakdown map[string]int) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		VendorID:     s.VendorID,
		VendorName:   s.VendorName,
		DeliveryDate: s.DeliveryDate,
		Notes:        s.Notes,
		DeviceCount:  count,
		ByStatus:     breakdown,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
