package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/pkg/models"
	"github.com/casedesk/casedesk-backend/pkg/validation"
)

/* ================================ DTOs ================================= */

// Request body for /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN ATTORNEY PARALEGAL VIEWER"`
}

// Request body for /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

// Public user shape embedded in auth responses.
type UserSummary struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Response for /auth/login
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

/* ============================== Handler ================================= */

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

/* =============================== Register =============================== */

// Register creates a staff user. The route is ADMIN-gated; self-signup is not
// offered.
func (h *Handler) Register(c *fiber.Ctx) error {
	var in RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var existing int64
	if err := h.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "User already exists")
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)

	role := models.RoleAttorney
	if in.Role != "" {
		role = models.Role(in.Role)
	}
	u := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := h.db.Create(&u).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "User already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(UserSummary{
		ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
	})
}

/* ================================ Login ================================= */

func (h *Handler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var u models.User
	if err := h.db.Where("email = ?", in.Email).First(&u).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, _ := IssueToken(u.ID.String(), string(u.Role))
	return c.JSON(LoginResponse{
		Token: token,
		User:  UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}
