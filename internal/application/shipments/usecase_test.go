package shipments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/shipments"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
)

func warehouseActor() entity.Actor {
	return entity.Actor{UserID: "wh-1", CompanyID: companyA, Role: entity.RoleWarehouseManager}
}

func newUseCase() (*shipments.UseCase, *apptest.Store) {
	store := apptest.NewStore()
	uc := shipments.NewUseCase(
		apptest.NewShipmentRepo(store),
		apptest.NewDeviceRepo(store),
		apptest.NewTxRunner(store),
	)
	return uc, store
}

func seedShipment(store *apptest.Store, id, companyID string) {
	now := time.Now()
	store.Shipments[id] = &entity.Shipment{
		ID:           id,
		CompanyID:    companyID,
		VendorID:     "vendor-1",
		VendorName:   "Lotes del Norte",
		DeliveryDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func intakeLine(n string) dto.IntakeDeviceLine {
	return dto.IntakeDeviceLine{
		AssetID:       "AST-" + n,
		Model:         "ProBook 450",
		SerialNumber:  "SN-" + n,
		PurchasePrice: decimal.NewFromInt(180),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de envío
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EnvioNuevo_EmpiezaVacio(t *testing.T) {
	uc, _ := newUseCase()

	out, err := uc.Create(context.Background(), warehouseActor(), dto.CreateShipmentRequest{
		VendorID:     "vendor-1",
		VendorName:   "Lotes del Norte",
		DeliveryDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.DeviceCount)
	assert.Equal(t, companyA, out.CompanyID)
}

func TestCreate_SinVendor_RetornaInvalidInput(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), warehouseActor(), dto.CreateShipmentRequest{DeliveryDate: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de lote
// ──────────────────────────────────────────────────────────────────────────────

func TestIntake_LoteCompleto_TodosEnReceivedConShipmentID(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyA)

	out, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{
		Devices: []dto.IntakeDeviceLine{intakeLine("001"), intakeLine("002"), intakeLine("003")},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, d := range out {
		assert.Equal(t, entity.StatusReceived, d.Status)
		assert.Equal(t, "s1", d.ShipmentID)
	}
	assert.Len(t, store.Devices, 3)
}

func TestIntake_LineaInvalida_NoCreaNinguno(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyA)

	_, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{
		Devices: []dto.IntakeDeviceLine{intakeLine("001"), {AssetID: " ", Model: "X", SerialNumber: "Y"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Devices, "la recepción es todo o nada")
}

func TestIntake_LoteVacio_RetornaInvalidInput(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyA)

	_, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIntake_EnvioAjeno_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyB)

	_, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{
		Devices: []dto.IntakeDeviceLine{intakeLine("001")},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollup derivado: device_count y desglose nunca se almacenan
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_ConteoYDesglose_SeDerivanDeLosDispositivos(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyA)

	_, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{
		Devices: []dto.IntakeDeviceLine{intakeLine("001"), intakeLine("002")},
	})
	require.NoError(t, err)

	// Un dispositivo avanza: el desglose lo refleja sin tocar el envío.
	for _, d := range store.Devices {
		d.Status = entity.StatusPendingInspection
		break
	}

	out, err := uc.Get(context.Background(), warehouseActor(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.DeviceCount)
	assert.Equal(t, 1, out.ByStatus[entity.StatusReceived])
	assert.Equal(t, 1, out.ByStatus[entity.StatusPendingInspection])
}

func TestList_IncluyeConteoDerivadoPorEnvio(t *testing.T) {
	uc, store := newUseCase()
	seedShipment(store, "s1", companyA)
	seedShipment(store, "s2", companyA)
	seedShipment(store, "s-ajeno", companyB)

	_, err := uc.IntakeDevices(context.Background(), warehouseActor(), "s1", dto.IntakeDevicesRequest{
		Devices: []dto.IntakeDeviceLine{intakeLine("001"), intakeLine("002")},
	})
	require.NoError(t, err)

	out, err := uc.List(context.Background(), warehouseActor(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out, 2, "solo envíos de la empresa del actor")

	counts := map[string]int{}
	for _, s := range out {
		counts[s.ID] = s.DeviceCount
	}
	assert.Equal(t, 2, counts["s1"])
	assert.Equal(t, 0, counts["s2"])
}
