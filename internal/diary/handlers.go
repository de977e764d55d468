package diary

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

type CreateEntryRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Note     string     `json:"note" validate:"required,max=5000"`
	Date     *time.Time `json:"date"`
	CaseID   string     `json:"caseId" validate:"omitempty,uuid4"`
	Priority string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// Create adds a diary entry owned by the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	ownerID, _ := uuid.Parse(auth.MustUserID(c))

	var caseID *uuid.UUID
	if s := strings.TrimSpace(in.CaseID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid caseId")
		}
		caseID = &id
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	priority := models.PriorityMedium
	if in.Priority != "" {
		priority = models.Priority(in.Priority)
	}

	entry := models.DiaryEntry{
		Title:    strings.TrimSpace(in.Title),
		Note:     strings.TrimSpace(in.Note),
		Date:     date,
		OwnerID:  ownerID,
		CaseID:   caseID,
		Priority: priority,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Preload("Case").First(&entry, "id = ?", entry.ID).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List returns the caller's entries, newest first, optionally filtered by case.
func (h *Handler) List(c *fiber.Ctx) error {
	ownerID := auth.MustUserID(c)

	q := h.db.Model(&models.DiaryEntry{}).
		Preload("Case").
		Where("owner_id = ?", ownerID).
		Order("date DESC, created_at DESC")

	if caseID := strings.TrimSpace(c.Query("caseId")); caseID != "" {
		if _, err := uuid.Parse(caseID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid caseId")
		}
		q = q.Where("case_id = ?", caseID)
	}

	entries := []models.DiaryEntry{}
	if err := q.Find(&entries).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(entries)
}
