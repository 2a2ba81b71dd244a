package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"clinicapi/internal/service"
)

// RegisterRoutes attaches every HTTP route to the provided Fiber app.
// Handlers stay thin; everything with behavior lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, patientSvc service.PatientService, recordSvc service.RecordService, authSvc service.AuthService) {
	// OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", APIDocs())

	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Post("/login", Login(authSvc))

	patients := api.Group("/patients")
	patients.Get("/", ListPatients(patientSvc))
	patients.Get("/:id", GetPatient(patientSvc))
	patients.Post("/", CreatePatient(patientSvc))
	patients.Put("/:id", UpdatePatient(patientSvc))
	patients.Delete("/:id", DeletePatient(patientSvc))

	records := api.Group("/records")
	records.Get("/", ListRecords(recordSvc))
	records.Get("/patient/:patientId", ListPatientRecords(recordSvc))
	records.Get("/:id", GetRecord(recordSvc))
	records.Post("/", CreateRecord(recordSvc))
	records.Put("/:id", UpdateRecord(recordSvc))
	records.Delete("/:id", DeleteRecord(recordSvc))
	records.Post("/:id/upload", UploadRecordFile(recordSvc))
	records.Get("/:id/files", ListRecordFiles(recordSvc))

	// Raw retrieval of stored attachments by generated name
	app.Get("/uploads/:storedName", DownloadFile(recordSvc))
}
