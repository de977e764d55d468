package billing

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/pkg/audit"
	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// parseOptionalUUID turns an optional string field into *uuid.UUID.
func parseOptionalUUID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

/* ============================= Time entries ============================= */

type CreateTimeEntryRequest struct {
	CaseID      string     `json:"caseId" validate:"required,uuid4"`
	ClientID    string     `json:"clientId" validate:"omitempty,uuid4"`
	Description string     `json:"description" validate:"required,max=2000"`
	Rate        float64    `json:"rate" validate:"gte=0"`
	Hours       float64    `json:"hours" validate:"gte=0"`
	Billable    *bool      `json:"billable"`
	StartedAt   *time.Time `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
}

// CreateTimeEntry logs time against a case. totalAmount is derived server-side.
func (h *Handler) CreateTimeEntry(c *fiber.Ctx) error {
	var in CreateTimeEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	caseID, _ := uuid.Parse(in.CaseID)
	clientID, err := parseOptionalUUID(in.ClientID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid clientId")
	}
	userID, _ := uuid.Parse(auth.MustUserID(c))

	billable := true
	if in.Billable != nil {
		billable = *in.Billable
	}

	entry := models.TimeEntry{
		CaseID:      caseID,
		ClientID:    clientID,
		UserID:      userID,
		Description: strings.TrimSpace(in.Description),
		Rate:        in.Rate,
		Hours:       in.Hours,
		Billable:    billable,
		StartedAt:   in.StartedAt,
		EndedAt:     in.EndedAt,
	}
	DeriveTimeEntry(&entry)

	if err := h.db.Create(&entry).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	audit.Record(c.Context(), h.db, userID, "TIME_ENTRY_CREATED", "TimeEntry", &entry.ID, map[string]any{
		"caseId": entry.CaseID, "hours": entry.Hours, "rate": entry.Rate, "totalAmount": entry.TotalAmount,
	})
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListTimeEntries returns entries, optionally filtered by caseId, newest
// first, with case and user expanded.
func (h *Handler) ListTimeEntries(c *fiber.Ctx) error {
	q := h.db.Model(&models.TimeEntry{}).
		Preload("Case").
		Preload("User").
		Order("created_at DESC")

	if caseID := strings.TrimSpace(c.Query("caseId")); caseID != "" {
		if _, err := uuid.Parse(caseID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid caseId")
		}
		q = q.Where("case_id = ?", caseID)
	}

	entries := []models.TimeEntry{}
	if err := q.Find(&entries).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(entries)
}

/* =============================== Invoices =============================== */

type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

type CreateInvoiceRequest struct {
	ClientID  string               `json:"client" validate:"required,uuid4"`
	CaseID    string               `json:"case" validate:"omitempty,uuid4"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate   float64              `json:"taxRate" validate:"gte=0,lte=100"`
	Status    string               `json:"status" validate:"omitempty,oneof=DRAFT SENT PAID VOID"`
	DueDate   *time.Time           `json:"dueDate"`
	Currency  string               `json:"currency" validate:"omitempty,max=8"`
	GSTNumber string               `json:"gstNumber" validate:"omitempty,max=40"`
}

// CreateInvoice creates an invoice with all derived financial fields computed
// server-side. Caller-supplied subtotal/taxAmount/total values are ignored.
func (h *Handler) CreateInvoice(c *fiber.Ctx) error {
	var in CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	clientID, _ := uuid.Parse(in.ClientID)
	caseID, err := parseOptionalUUID(in.CaseID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}
	issuerID, _ := uuid.Parse(auth.MustUserID(c))

	items := make([]models.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, models.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}

	status := models.InvoiceDraft
	if in.Status != "" {
		status = models.InvoiceStatus(in.Status)
	}
	currency := "INR"
	if in.Currency != "" {
		currency = in.Currency
	}

	inv := models.Invoice{
		ClientID:   clientID,
		CaseID:     caseID,
		IssuedByID: issuerID,
		Items:      items,
		TaxRate:    in.TaxRate,
		Status:     status,
		DueDate:    in.DueDate,
		Currency:   currency,
		GSTNumber:  strings.TrimSpace(in.GSTNumber),
	}
	DeriveInvoice(&inv)

	if err := h.db.Create(&inv).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	audit.Record(c.Context(), h.db, issuerID, "INVOICE_CREATED", "Invoice", &inv.ID, map[string]any{
		"status": inv.Status, "total": inv.Total,
	})
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// ListInvoices returns all invoices, newest first, with related records expanded.
func (h *Handler) ListInvoices(c *fiber.Ctx) error {
	invoices := []models.Invoice{}
	if err := h.db.
		Preload("Client").
		Preload("Case").
		Preload("IssuedBy").
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(invoices)
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT SENT PAID VOID"`
}

// UpdateInvoiceStatus sets the status directly; any status may follow any other.
func (h *Handler) UpdateInvoiceStatus(c *fiber.Ctx) error {
	var in UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var inv models.Invoice
	if err := h.db.First(&inv, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		return fiber.ErrInternalServerError
	}

	inv.Status = models.InvoiceStatus(in.Status)
	if err := h.db.Model(&inv).Update("status", inv.Status).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	actorID, _ := uuid.Parse(auth.MustUserID(c))
	audit.Record(c.Context(), h.db, actorID, "INVOICE_STATUS_UPDATED", "Invoice", &inv.ID, map[string]any{
		"status": inv.Status,
	})
	return c.JSON(inv)
}

/* =============================== Expenses =============================== */

type RecordExpenseRequest struct {
	CaseID      string  `json:"caseId" validate:"omitempty,uuid4"`
	ClientID    string  `json:"clientId" validate:"omitempty,uuid4"`
	Description string  `json:"description" validate:"required,max=2000"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Category    string  `json:"category" validate:"omitempty,oneof=COURT_FEE TRAVEL FILING OTHER"`
	Billable    *bool   `json:"billable"`
	ReceiptURL  string  `json:"receiptUrl" validate:"omitempty,max=500"`
}

func (h *Handler) RecordExpense(c *fiber.Ctx) error {
	var in RecordExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	caseID, err := parseOptionalUUID(in.CaseID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid caseId")
	}
	clientID, err := parseOptionalUUID(in.ClientID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid clientId")
	}
	userID, _ := uuid.Parse(auth.MustUserID(c))

	category := models.ExpenseOther
	if in.Category != "" {
		category = models.ExpenseCategory(in.Category)
	}
	billable := true
	if in.Billable != nil {
		billable = *in.Billable
	}

	exp := models.Expense{
		CaseID:       caseID,
		ClientID:     clientID,
		IncurredByID: userID,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Category:     category,
		Billable:     billable,
		Status:       models.ExpenseRecorded,
		ReceiptURL:   strings.TrimSpace(in.ReceiptURL),
	}
	if err := h.db.Create(&exp).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	audit.Record(c.Context(), h.db, userID, "EXPENSE_RECORDED", "Expense", &exp.ID, map[string]any{
		"amount": exp.Amount, "category": exp.Category,
	})
	return c.Status(fiber.StatusCreated).JSON(exp)
}

func (h *Handler) ListExpenses(c *fiber.Ctx) error {
	expenses := []models.Expense{}
	if err := h.db.
		Preload("IncurredBy").
		Preload("Case").
		Preload("Client").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(expenses)
}

/* ============================== Audit trail ============================= */

// AuditTrail returns the full audit log, newest first, with the actor
// expanded. Read-only reporting; the log is never mutated.
func (h *Handler) AuditTrail(c *fiber.Ctx) error {
	logs := []models.AuditLog{}
	if err := h.db.
		Preload("Actor").
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(logs)
}
