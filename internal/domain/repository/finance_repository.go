package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// InvoiceFinancialRow es una fila del agregado financiero: totales de una
// factura más el costo de adquisición de sus dispositivos. DeviceCost es
// cero cuando la factura no tiene dispositivos vinculados.
type InvoiceFinancialRow struct {
	InvoiceID   string
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
	DeviceCost  decimal.Decimal
}

// FinanceRepository consultas read-only para el dashboard financiero.
// Recibe ctx porque son lecturas potencialmente costosas y paralelizables.
type FinanceRepository interface {
	// GetInvoiceFinancials devuelve una fila por factura de la empresa.
	GetInvoiceFinancials(ctx context.Context, companyID string) ([]InvoiceFinancialRow, error)
	// GetOutstandingTotal suma los balances de los clientes de la empresa.
	GetOutstandingTotal(ctx context.Context, companyID string) (decimal.Decimal, error)
}
