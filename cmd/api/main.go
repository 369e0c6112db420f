package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Renovatec-api/internal/application/auth"
	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/company"
	"github.com/jhoicas/Renovatec-api/internal/application/finance"
	"github.com/jhoicas/Renovatec-api/internal/application/inspection"
	"github.com/jhoicas/Renovatec-api/internal/application/registry"
	"github.com/jhoicas/Renovatec-api/internal/application/repairs"
	"github.com/jhoicas/Renovatec-api/internal/application/shipments"
	"github.com/jhoicas/Renovatec-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Renovatec-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Renovatec-api/internal/interfaces/http"
	"github.com/jhoicas/Renovatec-api/internal/jobs"
	"github.com/jhoicas/Renovatec-api/pkg/config"
	"github.com/jhoicas/Renovatec-api/pkg/logger"
)

// swaggerSpecFile se resuelve relativo al directorio de trabajo del binario
// (la raíz del repo); el middleware de swagger hace panic si no existe.
const swaggerSpecFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	deviceRepo := postgres.NewDeviceRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	inspectionRepo := postgres.NewInspectionRepository(pool)
	repairRepo := postgres.NewRepairRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	financeRepo := postgres.NewFinanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := company.NewUseCase(companyRepo)
	deviceUC := registry.NewDeviceUseCase(deviceRepo, txRunner)
	inspectionUC := inspection.NewUseCase(deviceRepo, inspectionRepo, txRunner)
	repairUC := repairs.NewUseCase(repairRepo, deviceRepo, userRepo, txRunner)
	shipmentUC := shipments.NewUseCase(shipmentRepo, deviceRepo, txRunner)
	clientUC := billing.NewClientUseCase(clientRepo)
	pdfGenerator := pdf.NewMarotoPDFGenerator()
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, clientRepo, deviceRepo, companyRepo, txRunner, pdfGenerator)
	financeUC := finance.NewUseCase(financeRepo)

	// Escalación programada de reparaciones estancadas
	escalation := jobs.NewRepairEscalation(repairRepo, cfg.Jobs, log)
	if err := escalation.Start(); err != nil {
		log.Fatal().Err(err).Msg("programar escalación de reparaciones")
	}
	defer escalation.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: swaggerSpecFile,
		Path:     "docs",
		Title:    "Renovatec API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	http.Router(app, http.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		DeviceUC:     deviceUC,
		InspectionUC: inspectionUC,
		RepairUC:     repairUC,
		ShipmentUC:   shipmentUC,
		ClientUC:     clientUC,
		InvoiceUC:    invoiceUC,
		FinanceUC:    financeUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
