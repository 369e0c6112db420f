// Package billing implementa la venta: clientes, facturas con pagos
// parciales y el balance pendiente de cada cliente. Crear una factura vende
// los dispositivos referenciados: pasan a sold en la misma transacción.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturación.
type InvoiceUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	clientRepo   repository.ClientRepository
	deviceRepo   repository.DeviceRepository
	companyRepo  repository.CompanyRepository
	txRunner     TxRunner
	pdfGenerator InvoicePDFGenerator
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	deviceRepo repository.DeviceRepository,
	companyRepo repository.CompanyRepository,
	txRunner TxRunner,
	pdfGenerator InvoicePDFGenerator,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		deviceRepo:   deviceRepo,
		companyRepo:  companyRepo,
		txRunner:     txRunner,
		pdfGenerator: pdfGenerator,
	}
}

// Create crea la factura y vende los dispositivos referenciados. Cada
// dispositivo debe estar en ready_for_sale o in_branch y pertenecer a la
// empresa del actor. Dispositivos a sold, líneas, pago inicial y balance
// del cliente se escriben en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !entity.CanSell(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.ownedClient(actor, in.ClientID)
	if err != nil {
		return nil, err
	}

	// Validar dispositivos fuera de la tx (solo lectura); el estado se
	// re-verifica bajo lock dentro de la tx.
	observedStatus := make(map[string]string, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		if item.DeviceID == "" || !item.SalePrice.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := observedStatus[item.DeviceID]; dup {
			return nil, domain.ErrInvalidInput
		}
		d, err := uc.deviceRepo.GetByID(item.DeviceID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, domain.ErrNotFound
		}
		if !actor.SameTenant(d.CompanyID) {
			return nil, domain.ErrForbidden
		}
		if d.Status != entity.StatusReadyForSale && d.Status != entity.StatusInBranch {
			return nil, domain.ErrDeviceNotEligible
		}
		observedStatus[item.DeviceID] = d.Status
		total = total.Add(item.SalePrice)
	}
	if in.InitialPayment.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialPayment.GreaterThan(total) {
		return nil, domain.ErrPaymentExceedsTotal
	}

	now := time.Now()
	number := in.Number
	if number == "" {
		number = fmt.Sprintf("VTA-%d", now.Unix())
	}
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CompanyID:   client.CompanyID,
		ClientID:    client.ID,
		Number:      number,
		Status:      entity.InvoiceCompleted,
		TotalAmount: total,
		AmountPaid:  in.InitialPayment,
		Date:        now,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, &entity.InvoiceItem{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			DeviceID:  item.DeviceID,
			SalePrice: item.SalePrice,
		})
	}

	err = uc.txRunner.RunBilling(ctx, func(devices repository.DeviceRepository, invoices repository.InvoiceRepository, clients repository.ClientRepository) error {
		// Vender cada dispositivo: lock, re-verificación del estado observado
		// y transición condicional a sold. Un estado cambiado entre la
		// validación y el lock aborta toda la venta.
		for deviceID, expected := range observedStatus {
			locked, err := devices.GetForUpdate(deviceID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			if locked.Status != expected {
				return domain.ErrConflictingTransition
			}
			ok, err := devices.UpdateStatus(deviceID, expected, entity.StatusSold)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrConflictingTransition
			}
		}
		if err := invoices.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoices.CreateItem(item); err != nil {
				return err
			}
		}
		if in.InitialPayment.GreaterThan(decimal.Zero) {
			method := in.PaymentMethod
			if method == "" {
				method = entity.PaymentCash
			}
			payment := &entity.InvoicePayment{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				Amount:    in.InitialPayment,
				Method:    method,
				PaidAt:    now,
				CreatedBy: actor.UserID,
			}
			if err := invoices.CreatePayment(payment); err != nil {
				return err
			}
		}
		// El balance del cliente sube por lo que queda pendiente.
		return clients.AdjustBalance(client.ID, total.Sub(in.InitialPayment))
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, client.Name, items, nil), nil
}

// RecordPayment registra un abono. La suma de pagos nunca excede el total:
// se verifica bajo lock de la cabecera y se rechaza en escritura.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, actor entity.Actor, invoiceID string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if !entity.CanSell(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	observed, err := uc.ownedInvoice(actor, invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	method := in.Method
	if method == "" {
		method = entity.PaymentCash
	}
	var updated *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(_ repository.DeviceRepository, invoices repository.InvoiceRepository, clients repository.ClientRepository) error {
		locked, err := invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.AmountPaid.Add(in.Amount).GreaterThan(locked.TotalAmount) {
			return domain.ErrPaymentExceedsTotal
		}
		payment := &entity.InvoicePayment{
			ID:        uuid.New().String(),
			InvoiceID: invoiceID,
			Amount:    in.Amount,
			Method:    method,
			PaidAt:    now,
			CreatedBy: actor.UserID,
		}
		if err := invoices.CreatePayment(payment); err != nil {
			return err
		}
		locked.AmountPaid = locked.AmountPaid.Add(in.Amount)
		locked.UpdatedAt = now
		if err := invoices.UpdateAmountPaid(locked); err != nil {
			return err
		}
		updated = locked
		return clients.AdjustBalance(observed.ClientID, in.Amount.Neg())
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated, "", nil, nil), nil
}

// Get obtiene la factura completa con líneas y pagos.
func (uc *InvoiceUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(actor, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.invoiceRepo.GetPaymentsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(inv.ClientID); client != nil {
		clientName = client.Name
	}
	return uc.toResponse(inv, clientName, items, payments), nil
}

// List lista facturas de la empresa con paginación.
func (uc *InvoiceUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, uc.toResponse(inv, "", nil, nil))
	}
	return out, nil
}

// PDF genera la representación impresa de la factura.
func (uc *InvoiceUseCase) PDF(ctx context.Context, actor entity.Actor, id string) ([]byte, error) {
	inv, err := uc.ownedInvoice(actor, id)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(inv.CompanyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	forPDF := make([]ItemForPDF, 0, len(items))
	for _, item := range items {
		line := ItemForPDF{Item: item}
		if d, _ := uc.deviceRepo.GetByID(item.DeviceID); d != nil {
			line.DeviceAsset = d.AssetID
			line.DeviceModel = d.Model
			line.DeviceSerial = d.SerialNumber
		}
		forPDF = append(forPDF, line)
	}
	return uc.pdfGenerator.GenerateInvoicePDF(ctx, inv, company, client, forPDF)
}

func (uc *InvoiceUseCase) ownedClient(actor entity.Actor, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(client.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func (uc *InvoiceUseCase) ownedInvoice(actor entity.Actor, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(inv.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, clientName string, items []*entity.InvoiceItem, payments []*entity.InvoicePayment) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		CompanyID:   inv.CompanyID,
		ClientID:    inv.ClientID,
		ClientName:  clientName,
		Number:      inv.Number,
		Status:      inv.Status,
		TotalAmount: inv.TotalAmount,
		AmountPaid:  inv.AmountPaid,
		Date:        inv.Date,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:        item.ID,
			DeviceID:  item.DeviceID,
			SalePrice: item.SalePrice,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.InvoicePaymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: p.Method,
			PaidAt: p.PaidAt,
		})
	}
	return resp
}
