package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
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

func sellerActor() entity.Actor {
	return entity.Actor{UserID: "sales-1", CompanyID: companyA, Role: entity.RoleSalesStaff}
}

// stubPDF evita renderizar PDFs reales en los tests del caso de uso.
type stubPDF struct{ calls int }

func (s *stubPDF) GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company *entity.Company, client *entity.Client, items []billing.ItemForPDF) ([]byte, error) {
	s.calls++
	return []byte("%PDF-stub"), nil
}

func newUseCase() (*billing.InvoiceUseCase, *apptest.Store, *stubPDF) {
	store := apptest.NewStore()
	gen := &stubPDF{}
	uc := billing.NewInvoiceUseCase(
		apptest.NewInvoiceRepo(store),
		apptest.NewClientRepo(store),
		apptest.NewDeviceRepo(store),
		apptest.NewCompanyRepo(store),
		apptest.NewTxRunner(store),
		gen,
	)
	return uc, store, gen
}

func seedClient(store *apptest.Store, id, companyID string) {
	now := time.Now()
	store.Clients[id] = &entity.Client{
		ID:        id,
		CompanyID: companyID,
		Name:      "Comercial Pérez",
		Phone:     "300-" + id,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func seedDevice(store *apptest.Store, id, companyID, status string, purchase int64) {
	now := time.Now()
	store.Devices[id] = &entity.Device{
		ID:            id,
		CompanyID:     companyID,
		AssetID:       "AST-" + id,
		Model:         "ThinkPad X1",
		SerialNumber:  "SN-" + id,
		Status:        status,
		PurchasePrice: decimal.NewFromInt(purchase),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func item(deviceID string, price int64) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{DeviceID: deviceID, SalePrice: decimal.NewFromInt(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de factura (venta)
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_VentaCompleta_DispositivosASoldYBalanceAjustado(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)
	seedDevice(store, "d2", companyA, entity.StatusInBranch, 500)

	out, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID:       "c1",
		Items:          []dto.InvoiceItemRequest{item("d1", 600), item("d2", 900)},
		InitialPayment: decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceCompleted, out.Status)
	assert.True(t, decimal.NewFromInt(1500).Equal(out.TotalAmount))
	assert.True(t, decimal.NewFromInt(400).Equal(out.AmountPaid))
	assert.NotEmpty(t, out.Number, "sin número explícito se genera un consecutivo")

	assert.Equal(t, entity.StatusSold, store.Devices["d1"].Status)
	assert.Equal(t, entity.StatusSold, store.Devices["d2"].Status)
	assert.True(t, decimal.NewFromInt(1100).Equal(store.Clients["c1"].Balance), "el balance sube por lo pendiente")
	require.Len(t, store.Payments, 1, "el pago inicial queda registrado")
	assert.Equal(t, entity.PaymentCash, store.Payments[0].Method, "método por defecto")
}

func TestCreateInvoice_DispositivoNoElegible_RetornaNotEligible(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusNeedsRepair, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 600)},
	})
	assert.ErrorIs(t, err, domain.ErrDeviceNotEligible)
	assert.Empty(t, store.Invoices, "sin factura cuando algún dispositivo no es vendible")
	assert.Equal(t, entity.StatusNeedsRepair, store.Devices["d1"].Status)
}

func TestCreateInvoice_DispositivoRepetido_RetornaInvalidInput(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 600), item("d1", 700)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_PrecioCero_RetornaInvalidInput(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 0)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_PagoInicialMayorAlTotal_RetornaPaymentExceedsTotal(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID:       "c1",
		Items:          []dto.InvoiceItemRequest{item("d1", 600)},
		InitialPayment: decimal.NewFromInt(601),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)
}

func TestCreateInvoice_ClienteDeOtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyB)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 600)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_DispositivoDeOtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyB, entity.StatusReadyForSale, 300)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 600)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_RolSinVenta_RetornaForbidden(t *testing.T) {
	uc, store, _ := newUseCase()
	seedClient(store, "c1", companyA)
	actor := entity.Actor{UserID: "t1", CompanyID: companyA, Role: entity.RoleTechnician}

	_, err := uc.Create(context.Background(), actor, dto.CreateInvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{item("d1", 600)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ventaRival modela otra transacción que gana la carrera: cambia el estado de
// un dispositivo entre la validación de la venta y la toma de sus locks.
type ventaRival struct {
	inner    billing.TxRunner
	store    *apptest.Store
	deviceID string
	rivalTo  string
	once     sync.Once
}

func (r *ventaRival) RunBilling(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
) error) error {
	r.once.Do(func() { r.store.Devices[r.deviceID].Status = entity.StatusSold })
	return r.inner.RunBilling(ctx, fn)
}

func TestCreateInvoice_RivalVendeUnDispositivo_TodaLaVentaSeDeshace(t *testing.T) {
	store := apptest.NewStore()
	uc := billing.NewInvoiceUseCase(
		apptest.NewInvoiceRepo(store),
		apptest.NewClientRepo(store),
		apptest.NewDeviceRepo(store),
		apptest.NewCompanyRepo(store),
		&ventaRival{inner: apptest.NewTxRunner(store), store: store, deviceID: "d2"},
		&stubPDF{},
	)
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 300)
	seedDevice(store, "d2", companyA, entity.StatusReadyForSale, 500)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID:       "c1",
		Items:          []dto.InvoiceItemRequest{item("d1", 600), item("d2", 900)},
		InitialPayment: decimal.NewFromInt(400),
	})
	require.ErrorIs(t, err, domain.ErrConflictingTransition)

	assert.Equal(t, entity.StatusReadyForSale, store.Devices["d1"].Status, "un dispositivo ya marcado sold vuelve atrás")
	assert.Equal(t, entity.StatusSold, store.Devices["d2"].Status, "el estado que dejó el rival persiste")
	assert.Empty(t, store.Invoices, "la factura no se escribe a medias")
	assert.Empty(t, store.Items)
	assert.Empty(t, store.Payments)
	assert.True(t, store.Clients["c1"].Balance.IsZero(), "el balance del cliente no se toca")
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

// vendido prepara una venta de 1000 con abono inicial de 200.
func vendido(t *testing.T, uc *billing.InvoiceUseCase, store *apptest.Store) string {
	t.Helper()
	seedClient(store, "c1", companyA)
	seedDevice(store, "d1", companyA, entity.StatusReadyForSale, 400)
	out, err := uc.Create(context.Background(), sellerActor(), dto.CreateInvoiceRequest{
		ClientID:       "c1",
		Items:          []dto.InvoiceItemRequest{item("d1", 1000)},
		InitialPayment: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	return out.ID
}

func TestRecordPayment_AbonoParcial_ActualizaFacturaYBalance(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	out, err := uc.RecordPayment(context.Background(), sellerActor(), invoiceID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(300),
		Method: entity.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(out.AmountPaid))
	assert.True(t, decimal.NewFromInt(500).Equal(store.Clients["c1"].Balance), "el abono baja la deuda del cliente")
	require.Len(t, store.Payments, 2)
}

func TestRecordPayment_ExcedeElTotal_RetornaPaymentExceedsTotal(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	_, err := uc.RecordPayment(context.Background(), sellerActor(), invoiceID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(801),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)
	assert.True(t, decimal.NewFromInt(200).Equal(store.Invoices[invoiceID].AmountPaid), "un abono rechazado no muta la cabecera")
	require.Len(t, store.Payments, 1)
}

func TestRecordPayment_AbonoExacto_SaldaLaFactura(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	out, err := uc.RecordPayment(context.Background(), sellerActor(), invoiceID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(800),
	})
	require.NoError(t, err)
	assert.True(t, out.AmountPaid.Equal(out.TotalAmount))
	assert.True(t, store.Clients["c1"].Balance.IsZero())
}

func TestRecordPayment_MontoNoPositivo_RetornaInvalidInput(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	_, err := uc.RecordPayment(context.Background(), sellerActor(), invoiceID, dto.RecordPaymentRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta y PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoice_IncluyeLineasPagosYNombreDelCliente(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	out, err := uc.Get(context.Background(), sellerActor(), invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Comercial Pérez", out.ClientName)
	require.Len(t, out.Items, 1)
	require.Len(t, out.Payments, 1)
}

func TestInvoicePDF_GeneraDocumento(t *testing.T) {
	uc, store, gen := newUseCase()
	store.Companies[companyA] = &entity.Company{ID: companyA, Name: "Renovatec SAS"}
	invoiceID := vendido(t, uc, store)

	raw, err := uc.PDF(context.Background(), sellerActor(), invoiceID)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, 1, gen.calls)
}

func TestGetInvoice_DeOtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store, _ := newUseCase()
	invoiceID := vendido(t, uc, store)

	ajeno := entity.Actor{UserID: "x", CompanyID: companyB, Role: entity.RoleAdmin}
	_, err := uc.Get(context.Background(), ajeno, invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
