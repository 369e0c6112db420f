package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un comprador de la empresa. Balance es la deuda
// pendiente acumulada; solo lo mutan los eventos de factura y pago.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	Phone     string // único por empresa
	Email     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
