package billing

import (
	"context"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de venta atados a esa tx. La factura, sus líneas, el paso de
// los dispositivos a sold y el balance del cliente son una sola unidad.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		devices repository.DeviceRepository,
		invoices repository.InvoiceRepository,
		clients repository.ClientRepository,
	) error) error
}

// ItemForPDF línea de factura enriquecida para la representación impresa.
type ItemForPDF struct {
	Item         *entity.InvoiceItem
	DeviceAsset  string
	DeviceModel  string
	DeviceSerial string
}

// InvoicePDFGenerator genera la representación PDF de una factura de venta.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		client *entity.Client,
		items []ItemForPDF,
	) ([]byte, error)
}
