package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
)

func adminActor(companyID string) entity.Actor {
	return entity.Actor{UserID: "admin-1", CompanyID: companyID, Role: entity.RoleAdmin}
}

func newUseCase() (*registry.DeviceUseCase, *apptest.Store) {
	store := apptest.NewStore()
	uc := registry.NewDeviceUseCase(apptest.NewDeviceRepo(store), apptest.NewTxRunner(store))
	return uc, store
}

// seedDevice inserta un dispositivo directamente en el store.
func seedDevice(store *apptest.Store, id, companyID, status string) *entity.Device {
	now := time.Now()
	d := &entity.Device{
		ID:           id,
		CompanyID:    companyID,
		AssetID:      "AST-" + id,
		Model:        "ThinkPad T480",
		SerialNumber: "SN-" + id,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.Devices[id] = d
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AltaManual_QuedaEnReceived(t *testing.T) {
	uc, _ := newUseCase()

	out, err := uc.Create(context.Background(), adminActor(companyA), dto.CreateDeviceRequest{
		AssetID:       "AST-001",
		Model:         "Latitude 5490",
		SerialNumber:  "SN-001",
		PurchasePrice: decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, out.Status)
	assert.Equal(t, companyA, out.CompanyID)
	assert.Empty(t, out.ShipmentID, "alta manual no pertenece a ningún envío")
}

func TestCreate_AssetIDDuplicadoEnEmpresa_RetornaDuplicate(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)

	_, err := uc.Create(context.Background(), adminActor(companyA), dto.CreateDeviceRequest{
		AssetID:      "AST-d1",
		Model:        "Latitude 5490",
		SerialNumber: "SN-otro",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_MismoAssetIDEnOtraEmpresa_EsValido(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyB, entity.StatusReceived)

	_, err := uc.Create(context.Background(), adminActor(companyA), dto.CreateDeviceRequest{
		AssetID:      "AST-d1",
		Model:        "Latitude 5490",
		SerialNumber: "SN-otro",
	})
	assert.NoError(t, err, "la unicidad de AssetID es por empresa, no global")
}

func TestCreate_RolSinPermiso_RetornaForbidden(t *testing.T) {
	uc, _ := newUseCase()
	actor := entity.Actor{UserID: "u1", CompanyID: companyA, Role: entity.RoleSalesStaff}

	_, err := uc.Create(context.Background(), actor, dto.CreateDeviceRequest{
		AssetID:      "AST-001",
		Model:        "Latitude",
		SerialNumber: "SN-001",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_OtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyB, entity.StatusReceived)

	_, err := uc.Get(context.Background(), adminActor(companyA), "d1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_SuperAdminCruzaTenants(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyB, entity.StatusReceived)
	actor := entity.Actor{UserID: "root", Role: entity.RoleSuperAdmin}

	out, err := uc.Get(context.Background(), actor, "d1")
	require.NoError(t, err)
	assert.Equal(t, companyB, out.CompanyID)
}

func TestGet_Inexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Get(context.Background(), adminActor(companyA), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones del ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestQueueInspection_DesdeReceived_Avanza(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)

	out, err := uc.QueueInspection(context.Background(), adminActor(companyA), "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingInspection, out.Status)
	assert.Equal(t, entity.StatusPendingInspection, store.Devices["d1"].Status)
}

func TestQueueInspection_AristaIlegal_RetornaIllegalTransition(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale)

	_, err := uc.QueueInspection(context.Background(), adminActor(companyA), "d1")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, entity.StatusReadyForSale, store.Devices["d1"].Status, "una arista ilegal no muta el estado")
}

func TestStartInspection_DesdePendingInspection_Avanza(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusPendingInspection)

	out, err := uc.StartInspection(context.Background(), adminActor(companyA), "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPhysicalInspection, out.Status)
}

func TestTransfer_ReadyForSale_CambiaEstadoYUbicacion(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale)

	out, err := uc.TransferToBranch(context.Background(), adminActor(companyA), "d1", dto.TransferDeviceRequest{Branch: "Sucursal Centro"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInBranch, out.Status)
	assert.Equal(t, "Sucursal Centro", out.Location)
	assert.Equal(t, "Sucursal Centro", store.Devices["d1"].CurrentLocation)
}

func TestTransfer_SinSucursal_RetornaInvalidInput(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale)

	_, err := uc.TransferToBranch(context.Background(), adminActor(companyA), "d1", dto.TransferDeviceRequest{Branch: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScrap_DesdeNeedsRepair_EsTerminal(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusNeedsRepair)

	out, err := uc.Scrap(context.Background(), adminActor(companyA), "d1", dto.ScrapDeviceRequest{Reason: "placa madre quemada"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScrap, out.Status)
	assert.Contains(t, store.Devices["d1"].Notes, "placa madre quemada")
}

func TestScrap_DesdeSold_RetornaIllegalTransition(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusSold)

	_, err := uc.Scrap(context.Background(), adminActor(companyA), "d1", dto.ScrapDeviceRequest{Reason: "error"})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "los estados terminales no admiten más transiciones")
}

func TestScrap_RolSinPermiso_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)
	actor := entity.Actor{UserID: "u1", CompanyID: companyA, Role: entity.RoleWarehouseStaff}

	_, err := uc.Scrap(context.Background(), actor, "d1", dto.ScrapDeviceRequest{Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: el perdedor de la carrera recibe ErrConflictingTransition
// ──────────────────────────────────────────────────────────────────────────────

// racingRunner simula un rival que comete su transacción entre la lectura
// observada y la adquisición del lock: justo antes de entrar a la tx muta
// el estado del dispositivo.
type racingRunner struct {
	inner    registry.TxRunner
	store    *apptest.Store
	deviceID string
	rivalTo  string
	once     sync.Once
}

func (r *racingRunner) RunDevice(ctx context.Context, fn func(devices repository.DeviceRepository) error) error {
	r.once.Do(func() {
		r.store.Devices[r.deviceID].Status = r.rivalTo
	})
	return r.inner.RunDevice(ctx, fn)
}

func TestTransicion_RivalGanaLaCarrera_RetornaConflicting(t *testing.T) {
	store := apptest.NewStore()
	seedDevice(store, "d1", companyA, entity.StatusReceived)
	runner := &racingRunner{
		inner:    apptest.NewTxRunner(store),
		store:    store,
		deviceID: "d1",
		rivalTo:  entity.StatusPendingInspection,
	}
	uc := registry.NewDeviceUseCase(apptest.NewDeviceRepo(store), runner)

	_, err := uc.QueueInspection(context.Background(), adminActor(companyA), "d1")
	assert.ErrorIs(t, err, domain.ErrConflictingTransition)
	assert.Equal(t, entity.StatusPendingInspection, store.Devices["d1"].Status, "queda el resultado del rival, sin doble aplicación")
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DispositivoVendido_RetornaNotEligible(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusSold)

	err := uc.Delete(context.Background(), adminActor(companyA), "d1")
	assert.ErrorIs(t, err, domain.ErrDeviceNotEligible)
	assert.Contains(t, store.Devices, "d1", "un dispositivo vendido nunca se borra")
}

func TestDelete_NoVendido_Borra(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)

	err := uc.Delete(context.Background(), adminActor(companyA), "d1")
	require.NoError(t, err)
	assert.NotContains(t, store.Devices, "d1")
}

func TestDelete_RolSinPermiso_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)
	actor := entity.Actor{UserID: "u1", CompanyID: companyA, Role: entity.RoleWarehouseManager}

	err := uc.Delete(context.Background(), actor, "d1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstadoYEmpresa(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)
	seedDevice(store, "d2", companyA, entity.StatusReadyForSale)
	seedDevice(store, "d3", companyB, entity.StatusReceived)

	out, err := uc.List(context.Background(), adminActor(companyA), dto.ListDevicesRequest{Status: entity.StatusReceived})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "d1", out[0].ID)
}

func TestList_EstadoDesconocido_RetornaInvalidInput(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.List(context.Background(), adminActor(companyA), dto.ListDevicesRequest{Status: "flotando"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
