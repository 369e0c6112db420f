package repository

import "github.com/jhoicas/Renovatec-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas,
// líneas y pagos.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	CreatePayment(payment *entity.InvoicePayment) error
	GetByID(id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para que la suma
	// de pagos nunca exceda el total bajo concurrencia.
	GetForUpdate(id string) (*entity.Invoice, error)
	// UpdateAmountPaid persiste el acumulado pagado de la cabecera.
	UpdateAmountPaid(invoice *entity.Invoice) error
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
}
