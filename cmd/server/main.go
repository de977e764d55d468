// CaseDesk API: role-gated case management, billing with derived financial
// fields, diary, lawyer marketplace profiles, bookings, and public intake.
package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/casedesk/casedesk-backend/pkg/database"
	"github.com/casedesk/casedesk-backend/pkg/models"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/internal/billing"
	"github.com/casedesk/casedesk-backend/internal/bookings"
	"github.com/casedesk/casedesk-backend/internal/cases"
	"github.com/casedesk/casedesk-backend/internal/clients"
	"github.com/casedesk/casedesk-backend/internal/diary"
	"github.com/casedesk/casedesk-backend/internal/intake"
	"github.com/casedesk/casedesk-backend/internal/lawyers"
	"github.com/casedesk/casedesk-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	db := database.Init()
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("migration failed:", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
	})

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigin,
		AllowCredentials: true,
	}))
	app.Use(logger.New())

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	requireAuth := auth.RequireAuth(db)

	// Auth
	authH := auth.NewHandler(db)
	api.Post("/auth/register", requireAuth, auth.RequireRole(models.RoleAdmin), authH.Register)
	api.Post("/auth/login", authH.Login)

	// Storage helper (uses SUPABASE_URL / SUPABASE_SERVICE_KEY / SUPABASE_BUCKET)
	sb := storage.NewSupabase()

	// Cases & documents
	caseH := cases.NewHandler(db, sb)
	api.Post("/cases", requireAuth, caseH.Create)
	api.Get("/cases", requireAuth, caseH.List)
	api.Get("/cases/mine", requireAuth, caseH.ListMine)
	api.Get("/cases/:id", requireAuth, caseH.GetByID)
	api.Patch("/cases/:id/status", requireAuth, caseH.UpdateStatus)
	api.Post("/cases/:id/documents", requireAuth, caseH.UploadDocuments)
	api.Get("/cases/:id/documents", requireAuth, caseH.ListDocuments)
	api.Get("/documents/:docID/signed-url", requireAuth, caseH.SignedDocumentURL)
	api.Delete("/documents/:docID", requireAuth, auth.RequireRole(models.RoleAdmin, models.RoleAttorney), caseH.DeleteDocument)

	// Clients
	clientH := clients.NewHandler(db)
	api.Get("/clients", requireAuth, clientH.List)
	api.Post("/clients", requireAuth, clientH.Create)
	api.Post("/clients/:id/cases", requireAuth, clientH.AttachCase)

	// Diary (scoped to caller)
	diaryH := diary.NewHandler(db)
	api.Get("/diary", requireAuth, diaryH.List)
	api.Post("/diary", requireAuth, diaryH.Create)

	// Billing
	billingH := billing.NewHandler(db)
	api.Post("/billing/time-entries", requireAuth, billingH.CreateTimeEntry)
	api.Get("/billing/time-entries", requireAuth, billingH.ListTimeEntries)
	api.Post("/billing/invoices", requireAuth, auth.RequireRole(models.RoleAdmin, models.RoleAttorney), billingH.CreateInvoice)
	api.Get("/billing/invoices", requireAuth, billingH.ListInvoices)
	api.Patch("/billing/invoices/:id/status", requireAuth, auth.RequireRole(models.RoleAdmin, models.RoleAttorney), billingH.UpdateInvoiceStatus)
	api.Post("/billing/expenses", requireAuth, billingH.RecordExpense)
	api.Get("/billing/expenses", requireAuth, billingH.ListExpenses)
	api.Get("/billing/audit", requireAuth, auth.RequireRole(models.RoleAdmin), billingH.AuditTrail)

	// Lawyer marketplace (listing is public)
	lawyerH := lawyers.NewHandler(db)
	api.Get("/lawyers", lawyerH.List)
	api.Get("/lawyers/:id", lawyerH.GetByID)
	api.Post("/lawyers", requireAuth, lawyerH.Upsert)
	api.Put("/lawyers/:id", requireAuth, lawyerH.Upsert)

	// Bookings (creation is public; identity recorded when present)
	bookingH := bookings.NewHandler(db)
	api.Post("/bookings", auth.OptionalAuth(db), bookingH.Create)
	api.Get("/bookings", requireAuth, bookingH.List)
	api.Patch("/bookings/:id", requireAuth, bookingH.Update)

	// Intake (submission is public)
	intakeH := intake.NewHandler(db)
	api.Post("/intake", intakeH.Create)
	api.Get("/intake", requireAuth, intakeH.List)
	api.Patch("/intake/:id", requireAuth, intakeH.UpdateStatus)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Server running on :" + port)
	log.Fatal(app.Listen(":" + port))
}
