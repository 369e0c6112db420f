package inspection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
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

func inspectorActor() entity.Actor {
	return entity.Actor{UserID: "tech-1", CompanyID: companyA, Role: entity.RoleTechnician}
}

func newUseCase() (*inspection.UseCase, *apptest.Store) {
	store := apptest.NewStore()
	uc := inspection.NewUseCase(
		apptest.NewDeviceRepo(store),
		apptest.NewInspectionRepo(store),
		apptest.NewTxRunner(store),
	)
	return uc, store
}

func seedDevice(store *apptest.Store, id, companyID, status string) {
	now := time.Now()
	store.Devices[id] = &entity.Device{
		ID:           id,
		CompanyID:    companyID,
		AssetID:      "AST-" + id,
		Model:        "EliteBook 840",
		SerialNumber: "SN-" + id,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inspección física
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPhysical_AvanzaAInspeccionTecnica(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusPhysicalInspection)

	out, err := uc.RecordPhysical(context.Background(), inspectorActor(), "d1", dto.RecordPhysicalRequest{
		ChassisOK: true, ScreenOK: true, KeyboardOK: true, PortsOK: true,
		Condition: entity.ConditionB,
		Passed:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-1", out.InspectorID)
	assert.Equal(t, entity.StatusTechInspection, store.Devices["d1"].Status)
	require.Len(t, store.Physical, 1, "el registro físico queda en el libro")
}

func TestRecordPhysical_EstadoIncorrecto_NoEscribeNada(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReceived)

	_, err := uc.RecordPhysical(context.Background(), inspectorActor(), "d1", dto.RecordPhysicalRequest{Passed: true})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Empty(t, store.Physical, "transición ilegal no deja registro en el libro")
	assert.Equal(t, entity.StatusReceived, store.Devices["d1"].Status)
}

func TestRecordPhysical_RolSinPermiso_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusPhysicalInspection)
	actor := entity.Actor{UserID: "v1", CompanyID: companyA, Role: entity.RoleSalesStaff}

	_, err := uc.RecordPhysical(context.Background(), actor, "d1", dto.RecordPhysicalRequest{Passed: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordPhysical_OtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyB, entity.StatusPhysicalInspection)

	_, err := uc.RecordPhysical(context.Background(), inspectorActor(), "d1", dto.RecordPhysicalRequest{Passed: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inspección técnica: el veredicto decide la ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTechnical_VeredictoReady_PasaAReadyForSale(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusTechInspection)

	out, err := uc.RecordTechnical(context.Background(), inspectorActor(), "d1", dto.RecordTechnicalRequest{
		CPUOK: true, RAMOK: true, DiskOK: true, OSOK: true,
		BatteryHealth: 87,
		Verdict:       entity.VerdictReady,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.VerdictReady, out.Verdict)
	assert.Equal(t, entity.StatusReadyForSale, store.Devices["d1"].Status)
	require.Len(t, store.Technical, 1)
}

func TestRecordTechnical_VeredictoNeedsRepair_PasaANeedsRepair(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusTechInspection)

	_, err := uc.RecordTechnical(context.Background(), inspectorActor(), "d1", dto.RecordTechnicalRequest{
		CPUOK: true, RAMOK: false, DiskOK: true, OSOK: true,
		BatteryHealth: 42,
		Verdict:       entity.VerdictNeedsRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNeedsRepair, store.Devices["d1"].Status)
}

func TestRecordTechnical_VeredictoDesconocido_RetornaInvalidInput(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusTechInspection)

	_, err := uc.RecordTechnical(context.Background(), inspectorActor(), "d1", dto.RecordTechnicalRequest{Verdict: "tal_vez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Technical)
}

func TestRecordTechnical_FueraDeInspeccionTecnica_RetornaIllegal(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale)

	_, err := uc.RecordTechnical(context.Background(), inspectorActor(), "d1", dto.RecordTechnicalRequest{Verdict: entity.VerdictReady})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_AcumulaRegistrosInmutables(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyA, entity.StatusPhysicalInspection)

	// Pasada completa física + técnica
	_, err := uc.RecordPhysical(context.Background(), inspectorActor(), "d1", dto.RecordPhysicalRequest{Passed: true, Condition: entity.ConditionA})
	require.NoError(t, err)
	_, err = uc.RecordTechnical(context.Background(), inspectorActor(), "d1", dto.RecordTechnicalRequest{Verdict: entity.VerdictNeedsRepair, BatteryHealth: 30})
	require.NoError(t, err)

	history, err := uc.History(context.Background(), inspectorActor(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", history.DeviceID)
	assert.Len(t, history.Physical, 1)
	assert.Len(t, history.Technical, 1)
	assert.Equal(t, entity.VerdictNeedsRepair, history.Technical[0].Verdict)
}

func TestHistory_DispositivoAjeno_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedDevice(store, "d1", companyB, entity.StatusReceived)

	_, err := uc.History(context.Background(), inspectorActor(), "d1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Veredicto → estado destino
// ──────────────────────────────────────────────────────────────────────────────

func TestTargetForVerdict_Tabla(t *testing.T) {
	target, err := inspection.TargetForVerdict(entity.VerdictReady)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReadyForSale, target)

	target, err = inspection.TargetForVerdict(entity.VerdictNeedsRepair)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNeedsRepair, target)

	_, err = inspection.TargetForVerdict("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
