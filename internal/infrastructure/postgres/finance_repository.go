package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo consultas read-only para el dashboard financiero.
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository construye el adaptador de consultas financieras.
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// GetInvoiceFinancials devuelve una fila por factura con su total, lo pagado
// y el costo de adquisición agregado de los dispositivos vendidos en ella.
// COALESCE cubre facturas sin líneas.
func (r *FinanceRepo) GetInvoiceFinancials(ctx context.Context, companyID string) ([]repository.InvoiceFinancialRow, error) {
	query := `
		SELECT i.id, i.total_amount, i.amount_paid, COALESCE(SUM(d.purchase_price), 0) AS device_cost
		FROM invoices i
		LEFT JOIN invoice_items it ON it.invoice_id = i.id
		LEFT JOIN devices d ON d.id = it.device_id
		WHERE i.company_id = $1
		GROUP BY i.id, i.total_amount, i.amount_paid`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("invoice financials: %w", err)
	}
	defer rows.Close()
	var list []repository.InvoiceFinancialRow
	for rows.Next() {
		var row repository.InvoiceFinancialRow
		if err := rows.Scan(&row.InvoiceID, &row.TotalAmount, &row.AmountPaid, &row.DeviceCost); err != nil {
			return nil, fmt.Errorf("scan invoice financials: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// GetOutstandingTotal suma los balances pendientes de los clientes de la empresa.
func (r *FinanceRepo) GetOutstandingTotal(ctx context.Context, companyID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM clients WHERE company_id = $1`, companyID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("outstanding total: %w", err)
	}
	return total, nil
}
