package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura. La venta se completa al crear la factura: los
// dispositivos pasan a sold en la misma transacción.
const (
	InvoiceCompleted = "completed"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
)

// Invoice es la cabecera de una venta a un cliente. Invariante: la suma de
// pagos (AmountPaid) nunca excede TotalAmount.
type Invoice struct {
	ID          string
	CompanyID   string
	ClientID    string
	Number      string // consecutivo humano, único por empresa
	Status      string
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem es una línea de la factura: un dispositivo vendido a un precio.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	DeviceID  string
	SalePrice decimal.Decimal
}

// InvoicePayment registra un abono parcial o total a una factura.
type InvoicePayment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Method    string // cash, transfer, card
	PaidAt    time.Time
	CreatedBy string
}

// Outstanding devuelve el saldo pendiente de la factura.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}
