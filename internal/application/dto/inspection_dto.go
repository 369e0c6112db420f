package dto

import "time"

// RecordPhysicalRequest resultado de una inspección física.
type RecordPhysicalRequest struct {
	ChassisOK  bool   `json:"chassis_ok"`
	ScreenOK   bool   `json:"screen_ok"`
	KeyboardOK bool   `json:"keyboard_ok"`
	PortsOK    bool   `json:"ports_ok"`
	Condition  string `json:"condition" validate:"omitempty,oneof=A B C"`
	Passed     bool   `json:"passed"`
	Notes      string `json:"notes"`
}

// RecordTechnicalRequest resultado de una inspección técnica. El veredicto
// decide la transición del dispositivo.
type RecordTechnicalRequest struct {
	CPUOK         bool   `json:"cpu_ok"`
	RAMOK         bool   `json:"ram_ok"`
	DiskOK        bool   `json:"disk_ok"`
	BatteryHealth int    `json:"battery_health" validate:"min=0,max=100"`
	OSOK          bool   `json:"os_ok"`
	Verdict       string `json:"verdict" validate:"required,oneof=ready needs_repair"`
	Notes         string `json:"notes"`
}

// PhysicalInspectionResponse registro físico en respuestas.
type PhysicalInspectionResponse struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"device_id"`
	InspectorID string    `json:"inspector_id"`
	ChassisOK   bool      `json:"chassis_ok"`
	ScreenOK    bool      `json:"screen_ok"`
	KeyboardOK  bool      `json:"keyboard_ok"`
	PortsOK     bool      `json:"ports_ok"`
	Condition   string    `json:"condition,omitempty"`
	Passed      bool      `json:"passed"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TechnicalInspectionResponse registro técnico en respuestas.
type TechnicalInspectionResponse struct {
	ID            string    `json:"id"`
	DeviceID      string    `json:"device_id"`
	InspectorID   string    `json:"inspector_id"`
	CPUOK         bool      `json:"cpu_ok"`
	RAMOK         bool      `json:"ram_ok"`
	DiskOK        bool      `json:"disk_ok"`
	BatteryHealth int       `json:"battery_health"`
	OSOK          bool      `json:"os_ok"`
	Verdict       string    `json:"verdict"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// InspectionHistoryResponse historial completo de un dispositivo, ordenado
// por fecha de creación.
type InspectionHistoryResponse struct {
	DeviceID  string                        `json:"device_id"`
	Physical  []PhysicalInspectionResponse  `json:"physical"`
	Technical []TechnicalInspectionResponse `json:"technical"`
}
