package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente. El teléfono es único por empresa.
func (r *ClientRepo) Create(c *entity.Client) error {
	query := `
		INSERT INTO clients (id, company_id, name, phone, email, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.Name, c.Phone, c.Email, c.Balance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT id, company_id, name, phone, email, balance, created_at, updated_at FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get client")
}

// GetByCompanyAndPhone obtiene un cliente por empresa y teléfono.
func (r *ClientRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Client, error) {
	query := `SELECT id, company_id, name, phone, email, balance, created_at, updated_at FROM clients WHERE company_id = $1 AND phone = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, phone), "get client by phone")
}

// Update actualiza los datos de contacto del cliente. El balance no se toca
// aquí: solo lo muta AdjustBalance.
func (r *ClientRepo) Update(c *entity.Client) error {
	query := `UPDATE clients SET name = $2, phone = $3, email = $4, updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.Phone, c.Email, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// AdjustBalance suma delta al balance de forma atómica a nivel de fila.
func (r *ClientRepo) AdjustBalance(id string, delta decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE clients SET balance = balance + $2, updated_at = now() WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust client balance: %w", err)
	}
	return nil
}

// ListByCompany lista clientes por empresa con paginación.
func (r *ClientRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT id, company_id, name, phone, email, balance, created_at, updated_at
		FROM clients WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.Email, &c.Balance, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *ClientRepo) scanOne(row pgx.Row, op string) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.Email, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
