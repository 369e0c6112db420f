package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación del puerto ShipmentRepository sobre PostgreSQL.
// Nótese que no hay columna device_count: el conteo se deriva siempre desde
// la tabla devices.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador de persistencia para envíos.
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create persiste un nuevo envío.
func (r *ShipmentRepo) Create(s *entity.Shipment) error {
	query := `
		INSERT INTO shipments (id, company_id, vendor_id, vendor_name, delivery_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CompanyID, s.VendorID, s.VendorName, s.DeliveryDate, s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// GetByID obtiene un envío por ID.
func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	query := `
		SELECT id, company_id, vendor_id, vendor_name, delivery_date, notes, created_at, updated_at
		FROM shipments WHERE id = $1`
	var s entity.Shipment
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.VendorID, &s.VendorName, &s.DeliveryDate, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &s, nil
}

// ListByCompany lista envíos por empresa con paginación.
func (r *ShipmentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Shipment, error) {
	query := `
		SELECT id, company_id, vendor_id, vendor_name, delivery_date, notes, created_at, updated_at
		FROM shipments WHERE company_id = $1 ORDER BY delivery_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		var s entity.Shipment
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.VendorID, &s.VendorName, &s.DeliveryDate, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
