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

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

const deviceColumns = `id, company_id, shipment_id, asset_id, model, serial_number, manufacturer,
		status, condition, current_location, purchase_price, notes, created_at, updated_at`

// DeviceRepo implementación del puerto DeviceRepository sobre PostgreSQL (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador de persistencia para dispositivos. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

// Create persiste un nuevo dispositivo. AssetID es único por empresa.
func (r *DeviceRepo) Create(d *entity.Device) error {
	query := `
		INSERT INTO devices (` + deviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.CompanyID, nullIfEmpty(d.ShipmentID), d.AssetID, d.Model, d.SerialNumber, d.Manufacturer,
		d.Status, nullIfEmpty(d.Condition), nullIfEmpty(d.CurrentLocation), d.PurchasePrice, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// GetByID obtiene un dispositivo por ID.
func (r *DeviceRepo) GetByID(id string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get device")
}

// GetForUpdate obtiene el dispositivo y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *DeviceRepo) GetForUpdate(id string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get device for update")
}

// GetByCompanyAndAssetID obtiene un dispositivo por empresa y AssetID.
func (r *DeviceRepo) GetByCompanyAndAssetID(companyID, assetID string) (*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE company_id = $1 AND asset_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, assetID), "get device by asset")
}

// Update actualiza los campos editables del dispositivo. El estado no se
// toca aquí: toda transición pasa por UpdateStatus.
func (r *DeviceRepo) Update(d *entity.Device) error {
	query := `
		UPDATE devices SET model = $2, serial_number = $3, manufacturer = $4, condition = $5,
			purchase_price = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Model, d.SerialNumber, d.Manufacturer, nullIfEmpty(d.Condition),
		d.PurchasePrice, d.Notes, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	return nil
}

// UpdateStatus escribe next solo si el estado actual es expected. Cero filas
// afectadas significa que otra transacción ganó la carrera.
func (r *DeviceRepo) UpdateStatus(id, expected, next string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE devices SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, expected, next,
	)
	if err != nil {
		return false, fmt.Errorf("update device status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateLocation cambia la ubicación actual (traslados a sucursal).
func (r *DeviceRepo) UpdateLocation(id, location string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE devices SET current_location = $2, updated_at = now() WHERE id = $1`,
		id, location,
	)
	if err != nil {
		return fmt.Errorf("update device location: %w", err)
	}
	return nil
}

// ListByCompany lista dispositivos por empresa con filtros y paginación.
func (r *DeviceRepo) ListByCompany(companyID string, f repository.DeviceFilter, limit, offset int) ([]*entity.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE company_id = $1`
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.ShipmentID != "" {
		args = append(args, f.ShipmentID)
		query += fmt.Sprintf(" AND shipment_id = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Device
	for rows.Next() {
		d, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina un dispositivo por ID.
func (r *DeviceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}

// CountByShipment cuenta los dispositivos adjuntos a un envío. El conteo
// del envío siempre se deriva de aquí, nunca de un campo almacenado.
func (r *DeviceRepo) CountByShipment(shipmentID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM devices WHERE shipment_id = $1`, shipmentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count devices by shipment: %w", err)
	}
	return count, nil
}

// StatusBreakdownByShipment agrupa los dispositivos de un envío por estado.
func (r *DeviceRepo) StatusBreakdownByShipment(shipmentID string) (map[string]int, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT status, COUNT(*) FROM devices WHERE shipment_id = $1 GROUP BY status`, shipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("status breakdown by shipment: %w", err)
	}
	defer rows.Close()
	breakdown := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		breakdown[status] = count
	}
	return breakdown, rows.Err()
}

func (r *DeviceRepo) scanOne(row pgx.Row, op string) (*entity.Device, error) {
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (r *DeviceRepo) scanRow(rows pgx.Rows) (*entity.Device, error) {
	d, err := scanDevice(rows)
	if err != nil {
		return nil, fmt.Errorf("scan device: %w", err)
	}
	return d, nil
}

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var d entity.Device
	var shipmentID, condition, location *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &shipmentID, &d.AssetID, &d.Model, &d.SerialNumber, &d.Manufacturer,
		&d.Status, &condition, &location, &d.PurchasePrice, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if shipmentID != nil {
		d.ShipmentID = *shipmentID
	}
	if condition != nil {
		d.Condition = *condition
	}
	if location != nil {
		d.CurrentLocation = *location
	}
	return &d, nil
}
