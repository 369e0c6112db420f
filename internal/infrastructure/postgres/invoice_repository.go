package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, client_id, number, status, total_amount, amount_paid, date, created_by, created_at, updated_at`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura. Number es único por empresa.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CompanyID, inv.ClientID, inv.Number, inv.Status,
		inv.TotalAmount, inv.AmountPaid, inv.Date, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, device_id, sale_price)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.InvoiceID, item.DeviceID, item.SalePrice)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// CreatePayment persiste un abono.
func (r *InvoiceRepo) CreatePayment(p *entity.InvoicePayment) error {
	query := `
		INSERT INTO invoice_payments (id, invoice_id, amount, method, paid_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query, p.ID, p.InvoiceID, p.Amount, p.Method, p.PaidAt, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert invoice payment: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get invoice")
}

// GetForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get invoice for update")
}

// UpdateAmountPaid persiste el acumulado pagado de la cabecera.
func (r *InvoiceRepo) UpdateAmountPaid(inv *entity.Invoice) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET amount_paid = $2, updated_at = $3 WHERE id = $1`,
		inv.ID, inv.AmountPaid, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice amount paid: %w", err)
	}
	return nil
}

// GetItemsByInvoiceID devuelve las líneas de una factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `SELECT id, invoice_id, device_id, sale_price FROM invoice_items WHERE invoice_id = $1`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.DeviceID, &item.SalePrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// GetPaymentsByInvoiceID devuelve los abonos de una factura en orden cronológico.
func (r *InvoiceRepo) GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error) {
	query := `
		SELECT id, invoice_id, amount, method, paid_at, created_by
		FROM invoice_payments WHERE invoice_id = $1 ORDER BY paid_at ASC`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoicePayment
	for rows.Next() {
		var p entity.InvoicePayment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.PaidAt, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListByCompany lista facturas por empresa con paginación.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE company_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) scanOne(row pgx.Row, op string) (*entity.Invoice, error) {
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Number, &inv.Status,
		&inv.TotalAmount, &inv.AmountPaid, &inv.Date, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
