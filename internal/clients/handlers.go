package clients

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

type CreateClientRequest struct {
	Name         string `json:"name" validate:"required,max=160"`
	Organization string `json:"organization" validate:"max=160"`
	Email        string `json:"email" validate:"omitempty,email,max=120"`
	Phone        string `json:"phone" validate:"max=40"`
	Notes        string `json:"notes" validate:"max=5000"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	client := models.Client{
		Name:         strings.TrimSpace(in.Name),
		Organization: strings.TrimSpace(in.Organization),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		Notes:        strings.TrimSpace(in.Notes),
		CaseIDs:      []uuid.UUID{},
	}
	if err := h.db.Create(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// clientWithCases is the list/attach response shape: the stored client plus
// its referenced cases expanded.
type clientWithCases struct {
	models.Client
	Cases []models.Case `json:"cases"`
}

func (h *Handler) expandCases(client models.Client) (clientWithCases, error) {
	out := clientWithCases{Client: client, Cases: []models.Case{}}
	if len(client.CaseIDs) == 0 {
		return out, nil
	}
	if err := h.db.Where("id IN ?", client.CaseIDs).Find(&out.Cases).Error; err != nil {
		return out, err
	}
	return out, nil
}

// List returns all clients with their case references expanded.
func (h *Handler) List(c *fiber.Ctx) error {
	list := []models.Client{}
	if err := h.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	out := make([]clientWithCases, 0, len(list))
	for _, cl := range list {
		e, err := h.expandCases(cl)
		if err != nil {
			return fiber.ErrInternalServerError
		}
		out = append(out, e)
	}
	return c.JSON(out)
}

type AttachCaseRequest struct {
	CaseID string `json:"caseId" validate:"required,uuid4"`
}

// AttachCase links a case to a client in both directions, idempotently:
// the case id appears at most once in the client's list, and the case's
// client reference is set to this client.
func (h *Handler) AttachCase(c *fiber.Ctx) error {
	var in AttachCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var client models.Client
	if err := h.db.First(&client, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}
		return fiber.ErrInternalServerError
	}

	caseID, _ := uuid.Parse(in.CaseID)
	var matter models.Case
	if err := h.db.First(&matter, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Case not found")
		}
		return fiber.ErrInternalServerError
	}

	linked := false
	for _, id := range client.CaseIDs {
		if id == caseID {
			linked = true
			break
		}
	}
	if !linked {
		client.CaseIDs = append(client.CaseIDs, caseID)
		if err := h.db.Model(&client).Update("case_ids", client.CaseIDs).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	if matter.ClientID == nil || *matter.ClientID != client.ID {
		matter.ClientID = &client.ID
		if err := h.db.Model(&matter).Update("client_id", matter.ClientID).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	out, err := h.expandCases(client)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(out)
}
