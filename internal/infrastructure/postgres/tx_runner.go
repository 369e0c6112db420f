package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/application/repairs"
	"github.com/jhoicas/Renovatec-api/internal/application/shipments"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// Un solo runner satisface los puertos transaccionales de todos los contextos.
var _ registry.TxRunner = (*TxRunner)(nil)
var _ inspection.TxRunner = (*TxRunner)(nil)
var _ repairs.TxRunner = (*TxRunner)(nil)
var _ shipments.TxRunner = (*TxRunner)(nil)
var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDevice inicia una transacción con el repositorio de dispositivos atado
// a la tx. Las transiciones de estado pasan por aquí (lock + update condicional).
func (r *TxRunner) RunDevice(ctx context.Context, fn func(devices repository.DeviceRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx))
	})
}

// RunInspection inicia una transacción para registrar una inspección junto
// con la transición del dispositivo.
func (r *TxRunner) RunInspection(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	inspections repository.InspectionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx), NewInspectionRepository(tx))
	})
}

// RunRepair inicia una transacción para el flujo de reparación: orden,
// dispositivo y re-inspección técnica en una sola unidad.
func (r *TxRunner) RunRepair(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	repairsRepo repository.RepairRepository,
	inspections repository.InspectionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx), NewRepairRepository(tx), NewInspectionRepository(tx))
	})
}

// RunIntake inicia una transacción para la recepción de lotes contra un envío.
func (r *TxRunner) RunIntake(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	shipmentsRepo repository.ShipmentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx), NewShipmentRepository(tx))
	})
}

// RunBilling inicia una transacción para la venta: factura, líneas, paso de
// dispositivos a sold y balance del cliente.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewDeviceRepository(tx), NewInvoiceRepository(tx), NewClientRepository(tx))
	})
}
