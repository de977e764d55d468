package lawyers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

type AvailabilitySlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Timezone  string `json:"timezone" validate:"required,max=64"`
}

type UpsertProfileRequest struct {
	FullName        string                    `json:"fullName" validate:"required,max=160"`
	Headline        string                    `json:"headline" validate:"max=200"`
	Bio             string                    `json:"bio" validate:"max=5000"`
	PracticeAreas   []string                  `json:"practiceAreas"`
	Jurisdictions   []string                  `json:"jurisdictions"`
	Languages       []string                  `json:"languages"`
	RateType        string                    `json:"rateType" validate:"omitempty,oneof=HOURLY FLAT CONTINGENCY"`
	RateAmount      float64                   `json:"rateAmount" validate:"gte=0"`
	Availability    []AvailabilitySlotRequest `json:"availability" validate:"omitempty,dive"`
	YearsExperience int                       `json:"yearsExperience" validate:"gte=0"`
	Badges          []string                  `json:"badges"`
}

// Upsert creates or replaces the caller's marketplace profile. At most one
// profile exists per user; the profile is keyed on the caller, never on a
// client-supplied id. Verification status is not client-settable.
func (h *Handler) Upsert(c *fiber.Ctx) error {
	var in UpsertProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	userID, _ := uuid.Parse(auth.MustUserID(c))

	rateType := models.RateHourly
	if in.RateType != "" {
		rateType = models.RateType(in.RateType)
	}
	availability := make([]models.AvailabilitySlot, 0, len(in.Availability))
	for _, s := range in.Availability {
		availability = append(availability, models.AvailabilitySlot{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Timezone:  s.Timezone,
		})
	}

	var profile models.LawyerProfile
	err := h.db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.LawyerProfile{
			UserID:             userID,
			VerificationStatus: models.VerificationPending,
		}
	case err != nil:
		return fiber.ErrInternalServerError
	}

	profile.FullName = strings.TrimSpace(in.FullName)
	profile.Headline = strings.TrimSpace(in.Headline)
	profile.Bio = strings.TrimSpace(in.Bio)
	profile.PracticeAreas = in.PracticeAreas
	profile.Jurisdictions = in.Jurisdictions
	profile.Languages = in.Languages
	profile.RateType = rateType
	profile.RateAmount = in.RateAmount
	profile.Availability = availability
	profile.YearsExperience = in.YearsExperience
	profile.Badges = in.Badges

	if err := h.db.Save(&profile).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// List returns profiles matching the optional filter terms, with the backing
// user expanded. Store order; no pagination or ranking.
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		PracticeArea: strings.TrimSpace(c.Query("practiceArea")),
		Language:     strings.TrimSpace(c.Query("language")),
		Jurisdiction: strings.TrimSpace(c.Query("jurisdiction")),
		RateType:     strings.TrimSpace(c.Query("rateType")),
		Search:       strings.TrimSpace(c.Query("search")),
	}

	profiles := []models.LawyerProfile{}
	if err := h.db.Preload("User").Find(&profiles).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	out := make([]models.LawyerProfile, 0, len(profiles))
	for i := range profiles {
		if f.Matches(&profiles[i]) {
			out = append(out, profiles[i])
		}
	}
	return c.JSON(out)
}

// GetByID returns a single profile with the backing user expanded.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	var profile models.LawyerProfile
	if err := h.db.Preload("User").First(&profile, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lawyer profile not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(profile)
}
