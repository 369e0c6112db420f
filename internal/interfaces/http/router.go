package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Renovatec-api/internal/application/auth"
	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/company"
	"github.com/jhoicas/Renovatec-api/internal/application/finance"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/application/repairs"
	"github.com/jhoicas/Renovatec-api/internal/application/shipments"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *company.UseCase
	DeviceUC     *registry.DeviceUseCase
	InspectionUC *inspection.UseCase
	RepairUC     *repairs.UseCase
	ShipmentUC   *shipments.UseCase
	ClientUC     *billing.ClientUseCase
	InvoiceUC    *billing.InvoiceUseCase
	FinanceUC    *finance.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies (protegido; alta y listado solo super_admin, lo decide el usecase)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Devices: registro y transiciones del ciclo de vida
	devices := protected.Group("/devices")
	deviceHandler := NewDeviceHandler(deps.DeviceUC)
	devices.Post("/", deviceHandler.Create)
	devices.Get("/", deviceHandler.List)
	devices.Get("/:id", deviceHandler.GetByID)
	devices.Put("/:id", deviceHandler.Update)
	devices.Delete("/:id", deviceHandler.Delete)
	devices.Post("/:id/queue-inspection", deviceHandler.QueueInspection)
	devices.Post("/:id/start-inspection", deviceHandler.StartInspection)
	devices.Post("/:id/transfer", deviceHandler.TransferToBranch)
	devices.Post("/:id/scrap", deviceHandler.Scrap)

	// Inspections: libro append-only colgado del dispositivo
	inspectionHandler := NewInspectionHandler(deps.InspectionUC)
	devices.Get("/:id/inspections", inspectionHandler.History)
	devices.Post("/:id/inspections/physical", inspectionHandler.RecordPhysical)
	devices.Post("/:id/inspections/technical", inspectionHandler.RecordTechnical)

	// Repairs
	repairsGroup := protected.Group("/repairs")
	repairHandler := NewRepairHandler(deps.RepairUC)
	repairsGroup.Post("/", repairHandler.Create)
	repairsGroup.Get("/", repairHandler.List)
	repairsGroup.Get("/:id", repairHandler.GetByID)
	repairsGroup.Post("/:id/assign", repairHandler.Assign)
	repairsGroup.Post("/:id/start", repairHandler.Start)
	repairsGroup.Post("/:id/complete", repairHandler.Complete)
	repairsGroup.Post("/:id/cancel", repairHandler.Cancel)

	// Shipments
	shipmentsGroup := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipmentsGroup.Post("/", shipmentHandler.Create)
	shipmentsGroup.Get("/", shipmentHandler.List)
	shipmentsGroup.Get("/:id", shipmentHandler.GetByID)
	shipmentsGroup.Post("/:id/devices", shipmentHandler.IntakeDevices)

	// Clients (facturación)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)

	// Finance
	financeGroup := protected.Group("/finance")
	financeHandler := NewFinanceHandler(deps.FinanceUC)
	financeGroup.Get("/dashboard", financeHandler.Dashboard)
}
