package entity

import "time"

// Tipos de inspección.
const (
	InspectionPhysical  = "physical"
	InspectionTechnical = "technical"
)

// Veredictos de inspección técnica.
const (
	VerdictReady       = "ready"
	VerdictNeedsRepair = "needs_repair"
)

// PhysicalInspection es el registro inmutable de una revisión física.
// Un dispositivo puede acumular varias (re-inspección tras reparación);
// cada registro es append-only y nunca se modifica.
type PhysicalInspection struct {
	ID          string
	DeviceID    string
	InspectorID string
	ChassisOK   bool
	ScreenOK    bool
	KeyboardOK  bool
	PortsOK     bool
	Condition   string // grado cosmético A, B, C
	Passed      bool
	Notes       string
	CreatedAt   time.Time
}

// TechnicalInspection es el registro inmutable de una revisión técnica.
// El veredicto decide la transición del dispositivo: ready → ready_for_sale,
// needs_repair → needs_repair.
type TechnicalInspection struct {
	ID            string
	DeviceID      string
	InspectorID   string
	CPUOK         bool
	RAMOK         bool
	DiskOK        bool
	BatteryHealth int // porcentaje 0-100
	OSOK          bool
	Verdict       string // ready, needs_repair
	Notes         string
	CreatedAt     time.Time
}
