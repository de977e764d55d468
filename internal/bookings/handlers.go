package bookings

import (
	"errors"
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

type CreateBookingRequest struct {
	LawyerProfileID string    `json:"lawyerProfile" validate:"required,uuid4"`
	ContactName     string    `json:"contactName" validate:"required,max=160"`
	ContactEmail    string    `json:"contactEmail" validate:"required,email,max=120"`
	PracticeArea    string    `json:"practiceArea" validate:"required,max=120"`
	Message         string    `json:"message" validate:"max=5000"`
	StartsAt        time.Time `json:"startsAt" validate:"required"`
	EndsAt          time.Time `json:"endsAt" validate:"required"`
	Timezone        string    `json:"timezone" validate:"required,max=64"`
	RateType        string    `json:"rateType" validate:"omitempty,oneof=HOURLY FLAT CONTINGENCY"`
	PriceQuote      float64   `json:"priceQuote" validate:"gte=0"`
	Currency        string    `json:"currency" validate:"omitempty,max=8"`
}

// Create requests a consultation against a lawyer profile. Public; when a
// valid bearer token is present the caller is recorded as the creator.
// Status always starts at REQUESTED.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateBookingRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var profile models.LawyerProfile
	if err := h.db.First(&profile, "id = ?", in.LawyerProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lawyer profile not found")
		}
		return fiber.ErrInternalServerError
	}

	var createdBy *uuid.UUID
	if s, ok := auth.UserID(c); ok {
		if id, err := uuid.Parse(s); err == nil {
			createdBy = &id
		}
	}

	rateType := models.RateHourly
	if in.RateType != "" {
		rateType = models.RateType(in.RateType)
	}
	currency := "USD"
	if in.Currency != "" {
		currency = in.Currency
	}

	booking := models.Booking{
		LawyerProfileID: profile.ID,
		CreatedByID:     createdBy,
		ContactName:     strings.TrimSpace(in.ContactName),
		ContactEmail:    strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		PracticeArea:    strings.TrimSpace(in.PracticeArea),
		Message:         strings.TrimSpace(in.Message),
		StartsAt:        in.StartsAt,
		EndsAt:          in.EndsAt,
		Timezone:        in.Timezone,
		Status:          models.BookingRequested,
		RateType:        rateType,
		PriceQuote:      in.PriceQuote,
		Currency:        currency,
	}
	if err := h.db.Create(&booking).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	booking.LawyerProfile = &profile
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// List returns bookings visible to the caller: ones they created, plus ones
// against their own lawyer profile.
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	q := h.db.Model(&models.Booking{}).
		Preload("LawyerProfile").
		Order("created_at DESC")

	var profile models.LawyerProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err == nil {
		q = q.Where("created_by_id = ? OR lawyer_profile_id = ?", userID, profile.ID)
	} else {
		q = q.Where("created_by_id = ?", userID)
	}

	bookings := []models.Booking{}
	if err := q.Find(&bookings).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(bookings)
}

type UpdateBookingRequest struct {
	Status     string `json:"status" validate:"omitempty,oneof=REQUESTED CONFIRMED DECLINED CANCELLED"`
	MeetingURL string `json:"meetingUrl" validate:"omitempty,max=500"`
}

// Update sets status and/or meeting URL directly; no transition table.
func (h *Handler) Update(c *fiber.Ctx) error {
	var in UpdateBookingRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var booking models.Booking
	if err := h.db.First(&booking, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Booking not found")
		}
		return fiber.ErrInternalServerError
	}

	updates := map[string]any{}
	if in.Status != "" {
		booking.Status = models.BookingStatus(in.Status)
		updates["status"] = booking.Status
	}
	if in.MeetingURL != "" {
		booking.MeetingURL = strings.TrimSpace(in.MeetingURL)
		updates["meeting_url"] = booking.MeetingURL
	}
	if len(updates) > 0 {
		if err := h.db.Model(&booking).Updates(updates).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	if err := h.db.Preload("LawyerProfile").First(&booking, "id = ?", booking.ID).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(booking)
}
