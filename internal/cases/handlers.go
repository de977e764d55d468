package cases

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/internal/storage"
	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

// ===== DTOs =====

type PartyRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	Role string `json:"role" validate:"required,oneof=PLAINTIFF DEFENDANT CLIENT OTHER"`
}

type CreateCaseRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	Description  string         `json:"description" validate:"max=5000"`
	CaseType     string         `json:"caseType" validate:"required,oneof=LITIGATION INVESTIGATION REGULATORY DISPUTE"`
	Status       string         `json:"status" validate:"omitempty,oneof=INTAKE INVESTIGATION ACTIVE CLOSED"`
	Priority     string         `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Region       string         `json:"region" validate:"max=80"`
	Jurisdiction string         `json:"jurisdiction" validate:"max=80"`
	ClientID     string         `json:"clientId" validate:"omitempty,uuid4"`
	Parties      []PartyRequest `json:"parties" validate:"omitempty,dive"`
	SLADeadline  *time.Time     `json:"slaDeadline"`
	IsLegalHold  bool           `json:"isLegalHold"`
}

type Handler struct {
	db *gorm.DB
	sb *storage.Supabase
}

func NewHandler(db *gorm.DB, sb *storage.Supabase) *Handler {
	return &Handler{db: db, sb: sb}
}

// Create opens a new case assigned to the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	assignee, _ := uuid.Parse(auth.MustUserID(c))

	var clientID *uuid.UUID
	if s := strings.TrimSpace(in.ClientID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid clientId")
		}
		clientID = &id
	}

	status := models.CaseIntake
	if in.Status != "" {
		status = models.CaseStatus(in.Status)
	}
	priority := models.PriorityMedium
	if in.Priority != "" {
		priority = models.Priority(in.Priority)
	}

	parties := make([]models.Party, 0, len(in.Parties))
	for _, p := range in.Parties {
		parties = append(parties, models.Party{Name: strings.TrimSpace(p.Name), Role: p.Role})
	}

	cs := models.Case{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		CaseType:     models.CaseType(in.CaseType),
		Status:       status,
		Priority:     priority,
		Region:       strings.TrimSpace(in.Region),
		Jurisdiction: strings.TrimSpace(in.Jurisdiction),
		AssignedToID: &assignee,
		ClientID:     clientID,
		Parties:      parties,
		SLADeadline:  in.SLADeadline,
		IsLegalHold:  in.IsLegalHold,
	}
	if err := h.db.Create(&cs).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(cs)
}

// List returns every case with the assignee expanded.
func (h *Handler) List(c *fiber.Ctx) error {
	list := []models.Case{}
	if err := h.db.Preload("AssignedTo").Order("created_at DESC").Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(list)
}

// ListMine returns the cases assigned to the caller.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	list := []models.Case{}
	if err := h.db.
		Preload("AssignedTo").
		Where("assigned_to_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(list)
}

// GetByID returns a single case with the assignee expanded.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	var cs models.Case
	if err := h.db.Preload("AssignedTo").First(&cs, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Case not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(cs)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=INTAKE INVESTIGATION ACTIVE CLOSED"`
}

// UpdateStatus sets the case status directly; any status may follow any other.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var in UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Case not found")
		}
		return fiber.ErrInternalServerError
	}

	cs.Status = models.CaseStatus(in.Status)
	if err := h.db.Model(&cs).Update("status", cs.Status).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(cs)
}
