package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest alta de cliente (comprador).
type CreateClientRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InvoiceItemRequest línea de venta: un dispositivo a un precio.
type InvoiceItemRequest struct {
	DeviceID  string          `json:"device_id" validate:"required"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// CreateInvoiceRequest venta de uno o más dispositivos a un cliente.
// InitialPayment es opcional (abono al momento de la venta).
type CreateInvoiceRequest struct {
	ClientID       string               `json:"client_id" validate:"required"`
	Number         string               `json:"number"`
	Items          []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	InitialPayment decimal.Decimal      `json:"initial_payment"`
	PaymentMethod  string               `json:"payment_method" validate:"omitempty,oneof=cash transfer card"`
}

// RecordPaymentRequest abono a una factura existente.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"omitempty,oneof=cash transfer card"`
}

// InvoiceItemResponse línea de factura en respuestas.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	DeviceID  string          `json:"device_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// InvoicePaymentResponse pago en respuestas.
type InvoicePaymentResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID          string                   `json:"id"`
	CompanyID   string                   `json:"company_id"`
	ClientID    string                   `json:"client_id"`
	ClientName  string                   `json:"client_name,omitempty"`
	Number      string                   `json:"number"`
	Status      string                   `json:"status"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	AmountPaid  decimal.Decimal          `json:"amount_paid"`
	Date        time.Time                `json:"date"`
	Items       []InvoiceItemResponse    `json:"items,omitempty"`
	Payments    []InvoicePaymentResponse `json:"payments,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
