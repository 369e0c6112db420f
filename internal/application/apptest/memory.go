// Package apptest provee repositorios en memoria y un TxRunner falso para
// probar los casos de uso sin PostgreSQL. El TxRunner serializa los
// callbacks con un mutex, igual que lo haría el lock de fila en la BD, y
// restaura el estado previo cuando el callback falla, igual que un ROLLBACK.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria sobre un mismo estado.
type Store struct {
	mu sync.Mutex

	Companies   map[string]*entity.Company
	Users       map[string]*entity.User
	Devices     map[string]*entity.Device
	Shipments   map[string]*entity.Shipment
	Physical    []*entity.PhysicalInspection
	Technical   []*entity.TechnicalInspection
	Repairs     map[string]*entity.Repair
	Clients     map[string]*entity.Client
	Invoices    map[string]*entity.Invoice
	Items       []*entity.InvoiceItem
	Payments    []*entity.InvoicePayment
}

// NewStore construye el estado vacío.
func NewStore() *Store {
	return &Store{
		Companies: make(map[string]*entity.Company),
		Users:     make(map[string]*entity.User),
		Devices:   make(map[string]*entity.Device),
		Shipments: make(map[string]*entity.Shipment),
		Repairs:   make(map[string]*entity.Repair),
		Clients:   make(map[string]*entity.Client),
		Invoices:  make(map[string]*entity.Invoice),
	}
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner implementa los puertos transaccionales de todos los contextos
// sobre el Store. Un mutex serializa los callbacks: dos transacciones nunca
// corren a la vez, que es la garantía que da SELECT FOR UPDATE por fila.
// Si el callback devuelve error, el Store vuelve al estado previo: las
// escrituras parciales de una transacción fallida no son observables.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// snapshot captura el estado mutable del Store para deshacerlo en rollback.
type snapshot struct {
	companies map[string]*entity.Company
	users     map[string]*entity.User
	devices   map[string]*entity.Device
	shipments map[string]*entity.Shipment
	physical  []*entity.PhysicalInspection
	technical []*entity.TechnicalInspection
	repairs   map[string]*entity.Repair
	clients   map[string]*entity.Client
	invoices  map[string]*entity.Invoice
	items     []*entity.InvoiceItem
	payments  []*entity.InvoicePayment
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func cloneSlice[T any](s []*T) []*T {
	out := make([]*T, len(s))
	for i, v := range s {
		cp := *v
		out[i] = &cp
	}
	return out
}

// inTx corre fn con el mutex tomado; en error restaura el snapshot previo.
func (r *TxRunner) inTx(fn func() error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := snapshot{
		companies: cloneMap(s.Companies),
		users:     cloneMap(s.Users),
		devices:   cloneMap(s.Devices),
		shipments: cloneMap(s.Shipments),
		physical:  cloneSlice(s.Physical),
		technical: cloneSlice(s.Technical),
		repairs:   cloneMap(s.Repairs),
		clients:   cloneMap(s.Clients),
		invoices:  cloneMap(s.Invoices),
		items:     cloneSlice(s.Items),
		payments:  cloneSlice(s.Payments),
	}

	if err := fn(); err != nil {
		s.Companies = sn.companies
		s.Users = sn.users
		s.Devices = sn.devices
		s.Shipments = sn.shipments
		s.Physical = sn.physical
		s.Technical = sn.technical
		s.Repairs = sn.repairs
		s.Clients = sn.clients
		s.Invoices = sn.invoices
		s.Items = sn.items
		s.Payments = sn.payments
		return err
	}
	return nil
}

func (r *TxRunner) RunDevice(ctx context.Context, fn func(devices repository.DeviceRepository) error) error {
	return r.inTx(func() error {
		return fn(&DeviceRepo{store: r.store, locked: true})
	})
}

func (r *TxRunner) RunInspection(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	inspections repository.InspectionRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&DeviceRepo{store: r.store, locked: true}, &InspectionRepo{store: r.store, locked: true})
	})
}

func (r *TxRunner) RunRepair(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	repairsRepo repository.RepairRepository,
	inspections repository.InspectionRepository,
) error) error {
	return r.inTx(func() error {
		return fn(
			&DeviceRepo{store: r.store, locked: true},
			&RepairRepo{store: r.store, locked: true},
			&InspectionRepo{store: r.store, locked: true},
		)
	})
}

func (r *TxRunner) RunIntake(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	shipmentsRepo repository.ShipmentRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&DeviceRepo{store: r.store, locked: true}, &ShipmentRepo{store: r.store, locked: true})
	})
}

func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
) error) error {
	return r.inTx(func() error {
		return fn(
			&DeviceRepo{store: r.store, locked: true},
			&InvoiceRepo{store: r.store, locked: true},
			&ClientRepo{store: r.store, locked: true},
		)
	})
}

// lock toma el mutex solo fuera de transacción; dentro ya lo tiene el runner.
func lock(s *Store, locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ── DeviceRepo ────────────────────────────────────────────────────────────────

// DeviceRepo repositorio de dispositivos en memoria.
type DeviceRepo struct {
	store  *Store
	locked bool
}

// NewDeviceRepo repo fuera de transacción.
func NewDeviceRepo(store *Store) *DeviceRepo { return &DeviceRepo{store: store} }

func (r *DeviceRepo) Create(d *entity.Device) error {
	defer lock(r.store, r.locked)()
	cp := *d
	r.store.Devices[d.ID] = &cp
	return nil
}

func (r *DeviceRepo) GetByID(id string) (*entity.Device, error) {
	defer lock(r.store, r.locked)()
	d, ok := r.store.Devices[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *DeviceRepo) GetForUpdate(id string) (*entity.Device, error) {
	return r.GetByID(id)
}

func (r *DeviceRepo) GetByCompanyAndAssetID(companyID, assetID string) (*entity.Device, error) {
	defer lock(r.store, r.locked)()
	for _, d := range r.store.Devices {
		if d.CompanyID == companyID && d.AssetID == assetID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *DeviceRepo) Update(d *entity.Device) error {
	defer lock(r.store, r.locked)()
	if cur, ok := r.store.Devices[d.ID]; ok {
		cp := *d
		cp.Status = cur.Status // el estado solo lo muta UpdateStatus
		r.store.Devices[d.ID] = &cp
	}
	return nil
}

func (r *DeviceRepo) UpdateStatus(id, expected, next string) (bool, error) {
	defer lock(r.store, r.locked)()
	d, ok := r.store.Devices[id]
	if !ok || d.Status != expected {
		return false, nil
	}
	d.Status = next
	d.UpdatedAt = time.Now()
	return true, nil
}

func (r *DeviceRepo) UpdateLocation(id, location string) error {
	defer lock(r.store, r.locked)()
	if d, ok := r.store.Devices[id]; ok {
		d.CurrentLocation = location
	}
	return nil
}

func (r *DeviceRepo) ListByCompany(companyID string, f repository.DeviceFilter, limit, offset int) ([]*entity.Device, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Device
	for _, d := range r.store.Devices {
		if d.CompanyID != companyID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.ShipmentID != "" && d.ShipmentID != f.ShipmentID {
			continue
		}
		cp := *d
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func (r *DeviceRepo) Delete(id string) error {
	defer lock(r.store, r.locked)()
	delete(r.store.Devices, id)
	return nil
}

func (r *DeviceRepo) CountByShipment(shipmentID string) (int, error) {
	defer lock(r.store, r.locked)()
	count := 0
	for _, d := range r.store.Devices {
		if d.ShipmentID == shipmentID {
			count++
		}
	}
	return count, nil
}

func (r *DeviceRepo) StatusBreakdownByShipment(shipmentID string) (map[string]int, error) {
	defer lock(r.store, r.locked)()
	breakdown := make(map[string]int)
	for _, d := range r.store.Devices {
		if d.ShipmentID == shipmentID {
			breakdown[d.Status]++
		}
	}
	return breakdown, nil
}

// ── InspectionRepo ────────────────────────────────────────────────────────────

// InspectionRepo libro de inspecciones en memoria.
type InspectionRepo struct {
	store  *Store
	locked bool
}

// NewInspectionRepo repo fuera de transacción.
func NewInspectionRepo(store *Store) *InspectionRepo { return &InspectionRepo{store: store} }

func (r *InspectionRepo) CreatePhysical(ins *entity.PhysicalInspection) error {
	defer lock(r.store, r.locked)()
	cp := *ins
	r.store.Physical = append(r.store.Physical, &cp)
	return nil
}

func (r *InspectionRepo) CreateTechnical(ins *entity.TechnicalInspection) error {
	defer lock(r.store, r.locked)()
	cp := *ins
	r.store.Technical = append(r.store.Technical, &cp)
	return nil
}

func (r *InspectionRepo) ListPhysicalByDevice(deviceID string) ([]*entity.PhysicalInspection, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.PhysicalInspection
	for _, ins := range r.store.Physical {
		if ins.DeviceID == deviceID {
			cp := *ins
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *InspectionRepo) ListTechnicalByDevice(deviceID string) ([]*entity.TechnicalInspection, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.TechnicalInspection
	for _, ins := range r.store.Technical {
		if ins.DeviceID == deviceID {
			cp := *ins
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ── RepairRepo ────────────────────────────────────────────────────────────────

// RepairRepo repositorio de reparaciones en memoria.
type RepairRepo struct {
	store  *Store
	locked bool
}

// NewRepairRepo repo fuera de transacción.
func NewRepairRepo(store *Store) *RepairRepo { return &RepairRepo{store: store} }

func (r *RepairRepo) Create(rep *entity.Repair) error {
	defer lock(r.store, r.locked)()
	cp := *rep
	r.store.Repairs[rep.ID] = &cp
	return nil
}

func (r *RepairRepo) GetByID(id string) (*entity.Repair, error) {
	defer lock(r.store, r.locked)()
	rep, ok := r.store.Repairs[id]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (r *RepairRepo) Update(rep *entity.Repair) error {
	defer lock(r.store, r.locked)()
	cp := *rep
	r.store.Repairs[rep.ID] = &cp
	return nil
}

func (r *RepairRepo) ListByCompany(companyID string, f repository.RepairFilter, limit, offset int) ([]*entity.Repair, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Repair
	for _, rep := range r.store.Repairs {
		if rep.CompanyID != companyID {
			continue
		}
		if f.Status != "" && rep.Status != f.Status {
			continue
		}
		if f.AssignedTo != "" && rep.AssignedTo != f.AssignedTo {
			continue
		}
		cp := *rep
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func (r *RepairRepo) ListPendingOlderThan(cutoff time.Time) ([]*entity.Repair, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Repair
	for _, rep := range r.store.Repairs {
		if rep.Status == entity.RepairPending && rep.CreatedAt.Before(cutoff) {
			cp := *rep
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ── ShipmentRepo ──────────────────────────────────────────────────────────────

// ShipmentRepo repositorio de envíos en memoria.
type ShipmentRepo struct {
	store  *Store
	locked bool
}

// NewShipmentRepo repo fuera de transacción.
func NewShipmentRepo(store *Store) *ShipmentRepo { return &ShipmentRepo{store: store} }

func (r *ShipmentRepo) Create(s *entity.Shipment) error {
	defer lock(r.store, r.locked)()
	cp := *s
	r.store.Shipments[s.ID] = &cp
	return nil
}

func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	defer lock(r.store, r.locked)()
	s, ok := r.store.Shipments[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *ShipmentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Shipment, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Shipment
	for _, s := range r.store.Shipments {
		if s.CompanyID == companyID {
			cp := *s
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DeliveryDate.After(list[j].DeliveryDate) })
	return page(list, limit, offset), nil
}

// ── ClientRepo ────────────────────────────────────────────────────────────────

// ClientRepo repositorio de clientes en memoria.
type ClientRepo struct {
	store  *Store
	locked bool
}

// NewClientRepo repo fuera de transacción.
func NewClientRepo(store *Store) *ClientRepo { return &ClientRepo{store: store} }

func (r *ClientRepo) Create(c *entity.Client) error {
	defer lock(r.store, r.locked)()
	cp := *c
	r.store.Clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	defer lock(r.store, r.locked)()
	c, ok := r.store.Clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Client, error) {
	defer lock(r.store, r.locked)()
	for _, c := range r.store.Clients {
		if c.CompanyID == companyID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) Update(c *entity.Client) error {
	defer lock(r.store, r.locked)()
	if cur, ok := r.store.Clients[c.ID]; ok {
		cp := *c
		cp.Balance = cur.Balance // el balance solo lo muta AdjustBalance
		r.store.Clients[c.ID] = &cp
	}
	return nil
}

func (r *ClientRepo) AdjustBalance(id string, delta decimal.Decimal) error {
	defer lock(r.store, r.locked)()
	if c, ok := r.store.Clients[id]; ok {
		c.Balance = c.Balance.Add(delta)
	}
	return nil
}

func (r *ClientRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Client
	for _, c := range r.store.Clients {
		if c.CompanyID == companyID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

// ── InvoiceRepo ───────────────────────────────────────────────────────────────

// InvoiceRepo repositorio de facturas en memoria.
type InvoiceRepo struct {
	store  *Store
	locked bool
}

// NewInvoiceRepo repo fuera de transacción.
func NewInvoiceRepo(store *Store) *InvoiceRepo { return &InvoiceRepo{store: store} }

func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	defer lock(r.store, r.locked)()
	cp := *inv
	r.store.Invoices[inv.ID] = &cp
	return nil
}

func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	defer lock(r.store, r.locked)()
	cp := *item
	r.store.Items = append(r.store.Items, &cp)
	return nil
}

func (r *InvoiceRepo) CreatePayment(p *entity.InvoicePayment) error {
	defer lock(r.store, r.locked)()
	cp := *p
	r.store.Payments = append(r.store.Payments, &cp)
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	defer lock(r.store, r.locked)()
	inv, ok := r.store.Invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *InvoiceRepo) UpdateAmountPaid(inv *entity.Invoice) error {
	defer lock(r.store, r.locked)()
	if cur, ok := r.store.Invoices[inv.ID]; ok {
		cur.AmountPaid = inv.AmountPaid
		cur.UpdatedAt = inv.UpdatedAt
	}
	return nil
}

func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.InvoiceItem
	for _, item := range r.store.Items {
		if item.InvoiceID == invoiceID {
			cp := *item
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *InvoiceRepo) GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.InvoicePayment
	for _, p := range r.store.Payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	defer lock(r.store, r.locked)()
	var list []*entity.Invoice
	for _, inv := range r.store.Invoices {
		if inv.CompanyID == companyID {
			cp := *inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return page(list, limit, offset), nil
}

// ── UserRepo ──────────────────────────────────────────────────────────────────

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct {
	store *Store
}

// NewUserRepo repo fuera de transacción.
func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Create(u *entity.User) error {
	defer lock(r.store, false)()
	cp := *u
	r.store.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	defer lock(r.store, false)()
	u, ok := r.store.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	defer lock(r.store, false)()
	for _, u := range r.store.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	defer lock(r.store, false)()
	for _, u := range r.store.Users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	defer lock(r.store, false)()
	cp := *u
	r.store.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	defer lock(r.store, false)()
	var list []*entity.User
	for _, u := range r.store.Users {
		if u.CompanyID == companyID {
			cp := *u
			list = append(list, &cp)
		}
	}
	return page(list, limit, offset), nil
}

// ── CompanyRepo ───────────────────────────────────────────────────────────────

// CompanyRepo repositorio de empresas en memoria.
type CompanyRepo struct {
	store *Store
}

// NewCompanyRepo repo fuera de transacción.
func NewCompanyRepo(store *Store) *CompanyRepo { return &CompanyRepo{store: store} }

func (r *CompanyRepo) Create(c *entity.Company) error {
	defer lock(r.store, false)()
	cp := *c
	r.store.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	defer lock(r.store, false)()
	c, ok := r.store.Companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	defer lock(r.store, false)()
	var list []*entity.Company
	for _, c := range r.store.Companies {
		cp := *c
		list = append(list, &cp)
	}
	return page(list, limit, offset), nil
}

func (r *CompanyRepo) Update(c *entity.Company) error {
	defer lock(r.store, false)()
	cp := *c
	r.store.Companies[c.ID] = &cp
	return nil
}

// ── FinanceRepo ───────────────────────────────────────────────────────────────

// FinanceRepo agregados financieros en memoria, derivados del estado.
type FinanceRepo struct {
	store *Store
}

// NewFinanceRepo repo fuera de transacción.
func NewFinanceRepo(store *Store) *FinanceRepo { return &FinanceRepo{store: store} }

func (r *FinanceRepo) GetInvoiceFinancials(ctx context.Context, companyID string) ([]repository.InvoiceFinancialRow, error) {
	defer lock(r.store, false)()
	var rows []repository.InvoiceFinancialRow
	for _, inv := range r.store.Invoices {
		if inv.CompanyID != companyID {
			continue
		}
		cost := decimal.Zero
		for _, item := range r.store.Items {
			if item.InvoiceID != inv.ID {
				continue
			}
			if d, ok := r.store.Devices[item.DeviceID]; ok {
				cost = cost.Add(d.PurchasePrice)
			}
		}
		rows = append(rows, repository.InvoiceFinancialRow{
			InvoiceID:   inv.ID,
			TotalAmount: inv.TotalAmount,
			AmountPaid:  inv.AmountPaid,
			DeviceCost:  cost,
		})
	}
	return rows, nil
}

func (r *FinanceRepo) GetOutstandingTotal(ctx context.Context, companyID string) (decimal.Decimal, error) {
	defer lock(r.store, false)()
	total := decimal.Zero
	for _, c := range r.store.Clients {
		if c.CompanyID == companyID {
			total = total.Add(c.Balance)
		}
	}
	return total, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
