package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

var _ repository.RepairRepository = (*RepairRepo)(nil)

const repairColumns = `id, company_id, device_id, issue_description, assigned_to, priority,
		status, completion_note, completed_at, created_by, created_at, updated_at`

// RepairRepo implementación del puerto RepairRepository sobre PostgreSQL.
type RepairRepo struct {
	q Querier
}

// NewRepairRepository construye el adaptador de persistencia para reparaciones.
func NewRepairRepository(q Querier) *RepairRepo {
	return &RepairRepo{q: q}
}

// Create persiste una nueva orden de reparación.
func (r *RepairRepo) Create(rep *entity.Repair) error {
	query := `
		INSERT INTO repairs (` + repairColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		rep.ID, rep.CompanyID, rep.DeviceID, rep.IssueDescription, nullIfEmpty(rep.AssignedTo),
		rep.Priority, rep.Status, rep.CompletionNote, rep.CompletedAt, rep.CreatedBy, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert repair: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *RepairRepo) GetByID(id string) (*entity.Repair, error) {
	query := `SELECT ` + repairColumns + ` FROM repairs WHERE id = $1`
	rep, err := scanRepair(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get repair: %w", err)
	}
	return rep, nil
}

// Update actualiza una orden existente.
func (r *RepairRepo) Update(rep *entity.Repair) error {
	query := `
		UPDATE repairs SET issue_description = $2, assigned_to = $3, priority = $4, status = $5,
			completion_note = $6, completed_at = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		rep.ID, rep.IssueDescription, nullIfEmpty(rep.AssignedTo), rep.Priority, rep.Status,
		rep.CompletionNote, rep.CompletedAt, rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update repair: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes por empresa con filtros y paginación.
func (r *RepairRepo) ListByCompany(companyID string, f repository.RepairFilter, limit, offset int) ([]*entity.Repair, error) {
	query := `SELECT ` + repairColumns + ` FROM repairs WHERE company_id = $1`
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		query += fmt.Sprintf(" AND assigned_to = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list repairs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Repair
	for rows.Next() {
		rep, err := scanRepair(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repair: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// ListPendingOlderThan devuelve órdenes en pending creadas antes del corte.
func (r *RepairRepo) ListPendingOlderThan(cutoff time.Time) ([]*entity.Repair, error) {
	query := `SELECT ` + repairColumns + ` FROM repairs WHERE status = $1 AND created_at < $2`
	rows, err := r.q.Query(context.Background(), query, entity.RepairPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list pending repairs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Repair
	for rows.Next() {
		rep, err := scanRepair(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repair: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

func scanRepair(row pgx.Row) (*entity.Repair, error) {
	var rep entity.Repair
	var assignedTo *string
	err := row.Scan(
		&rep.ID, &rep.CompanyID, &rep.DeviceID, &rep.IssueDescription, &assignedTo, &rep.Priority,
		&rep.Status, &rep.CompletionNote, &rep.CompletedAt, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo != nil {
		rep.AssignedTo = *assignedTo
	}
	return &rep, nil
}
