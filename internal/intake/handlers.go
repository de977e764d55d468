package intake

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

type CreateIntakeRequest struct {
	ContactName            string   `json:"contactName" validate:"required,max=160"`
	ContactEmail           string   `json:"contactEmail" validate:"required,email,max=120"`
	PracticeArea           string   `json:"practiceArea" validate:"required,max=120"`
	CaseType               string   `json:"caseType" validate:"max=40"`
	Description            string   `json:"description" validate:"max=5000"`
	Budget                 float64  `json:"budget" validate:"gte=0"`
	Urgency                string   `json:"urgency" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Jurisdiction           string   `json:"jurisdiction" validate:"max=80"`
	PreferredContactMethod string   `json:"preferredContactMethod" validate:"omitempty,oneof=EMAIL PHONE VIDEO"`
	Documents              []string `json:"documents"`
}

// Create accepts a public inquiry. Status always starts at NEW.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateIntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	urgency := models.PriorityMedium
	if in.Urgency != "" {
		urgency = models.Priority(in.Urgency)
	}
	contactMethod := "EMAIL"
	if in.PreferredContactMethod != "" {
		contactMethod = in.PreferredContactMethod
	}

	form := models.IntakeForm{
		ContactName:            strings.TrimSpace(in.ContactName),
		ContactEmail:           strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		PracticeArea:           strings.TrimSpace(in.PracticeArea),
		CaseType:               strings.TrimSpace(in.CaseType),
		Description:            strings.TrimSpace(in.Description),
		Budget:                 in.Budget,
		Urgency:                urgency,
		Jurisdiction:           strings.TrimSpace(in.Jurisdiction),
		PreferredContactMethod: contactMethod,
		Status:                 models.IntakeNew,
		Documents:              in.Documents,
	}
	if err := h.db.Create(&form).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// List returns all intake forms, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	forms := []models.IntakeForm{}
	if err := h.db.Order("created_at DESC").Find(&forms).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(forms)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_REVIEW APPROVED DECLINED"`
}

// UpdateStatus sets the intake status directly; no transition table.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var in UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var form models.IntakeForm
	if err := h.db.First(&form, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Intake form not found")
		}
		return fiber.ErrInternalServerError
	}

	form.Status = models.IntakeStatus(in.Status)
	if err := h.db.Model(&form).Update("status", form.Status).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(form)
}
