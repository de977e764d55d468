package bookings

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/pkg/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedLawyer(t *testing.T, db *gorm.DB) (models.User, models.LawyerProfile) {
	t.Helper()
	u := models.User{
		Name:         "Lawyer",
		Email:        "l_" + uuid.NewString()[:8] + "@x.com",
		Role:         models.RoleAttorney,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	p := models.LawyerProfile{
		UserID:             u.ID,
		FullName:           "Priya Sharma",
		RateType:           models.RateHourly,
		VerificationStatus: models.VerificationPending,
	}
	require.NoError(t, db.Create(&p).Error)
	return u, p
}

// newApp mirrors the server wiring: POST is public with optional identity,
// GET and PATCH sit behind auth. callerID == uuid.Nil means anonymous.
func newApp(db *gorm.DB, callerID uuid.UUID) *fiber.App {
	h := NewHandler(db)
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if callerID != uuid.Nil {
			c.Locals("userID", callerID.String())
			c.Locals("role", string(models.RoleAttorney))
		}
		return c.Next()
	})
	app.Post("/api/bookings", h.Create)
	app.Get("/api/bookings", h.List)
	app.Patch("/api/bookings/:id", h.Update)
	return app
}

func createBody(profileID uuid.UUID) string {
	starts := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	ends := time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"lawyerProfile": %q,
		"contactName": "Ravi Kumar",
		"contactEmail": "Ravi@Example.com",
		"practiceArea": "Taxation",
		"startsAt": %q, "endsAt": %q, "timezone": "Asia/Kolkata"
	}`, profileID, starts, ends)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCreateBooking(t *testing.T) {
	db := openTestDB(t)
	_, profile := seedLawyer(t, db)

	t.Run("anonymous request starts REQUESTED with no creator", func(t *testing.T) {
		app := newApp(db, uuid.Nil)
		code, out := doJSON(t, app, "POST", "/api/bookings", createBody(profile.ID))
		require.Equal(t, 201, code, out)
		assert.Equal(t, "REQUESTED", out["status"])
		assert.Nil(t, out["createdById"])
		assert.Equal(t, "ravi@example.com", out["contactEmail"])
		assert.NotNil(t, out["lawyerProfile"], "profile expanded on create")
	})

	t.Run("authenticated caller is recorded as creator", func(t *testing.T) {
		caller := models.User{Name: "Client", Email: "c@x.com", Role: models.RoleViewer, PasswordHash: "x"}
		require.NoError(t, db.Create(&caller).Error)
		app := newApp(db, caller.ID)
		code, out := doJSON(t, app, "POST", "/api/bookings", createBody(profile.ID))
		require.Equal(t, 201, code)
		assert.Equal(t, caller.ID.String(), out["createdById"])
	})

	t.Run("unknown profile", func(t *testing.T) {
		app := newApp(db, uuid.Nil)
		code, out := doJSON(t, app, "POST", "/api/bookings", createBody(uuid.New()))
		require.Equal(t, 404, code)
		assert.Equal(t, "Lawyer profile not found", out["message"])
	})

	t.Run("missing contact fields rejected", func(t *testing.T) {
		app := newApp(db, uuid.Nil)
		code, _ := doJSON(t, app, "POST", "/api/bookings", fmt.Sprintf(`{"lawyerProfile":%q}`, profile.ID))
		assert.Equal(t, 400, code)
	})
}

// Listing is scoped to bookings the caller created plus bookings against the
// caller's own profile.
func TestListBookings(t *testing.T) {
	db := openTestDB(t)
	lawyer, profile := seedLawyer(t, db)
	_, otherProfile := seedLawyer(t, db)

	client := models.User{Name: "Client", Email: "cl@x.com", Role: models.RoleViewer, PasswordHash: "x"}
	require.NoError(t, db.Create(&client).Error)

	mk := func(p models.LawyerProfile, creator *uuid.UUID) models.Booking {
		b := models.Booking{
			LawyerProfileID: p.ID,
			CreatedByID:     creator,
			ContactName:     "X",
			ContactEmail:    "x@x.com",
			PracticeArea:    "Tax",
			StartsAt:        time.Now(),
			EndsAt:          time.Now().Add(time.Hour),
			Timezone:        "UTC",
			Status:          models.BookingRequested,
			RateType:        models.RateHourly,
		}
		require.NoError(t, db.Create(&b).Error)
		return b
	}

	mine := mk(otherProfile, &client.ID)  // created by client
	against := mk(profile, nil)           // anonymous, against lawyer's profile
	mk(otherProfile, nil)                 // unrelated

	list := func(caller uuid.UUID) []map[string]any {
		app := newApp(db, caller)
		req := httptest.NewRequest("GET", "/api/bookings", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		var out []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	got := list(client.ID)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID.String(), got[0]["id"])

	got = list(lawyer.ID)
	require.Len(t, got, 1)
	assert.Equal(t, against.ID.String(), got[0]["id"])
}

func TestUpdateBooking(t *testing.T) {
	db := openTestDB(t)
	lawyer, profile := seedLawyer(t, db)
	app := newApp(db, lawyer.ID)

	b := models.Booking{
		LawyerProfileID: profile.ID,
		ContactName:     "X", ContactEmail: "x@x.com", PracticeArea: "Tax",
		StartsAt: time.Now(), EndsAt: time.Now().Add(time.Hour), Timezone: "UTC",
		Status: models.BookingRequested, RateType: models.RateHourly,
	}
	require.NoError(t, db.Create(&b).Error)

	code, out := doJSON(t, app, "PATCH", "/api/bookings/"+b.ID.String(),
		`{"status":"CONFIRMED","meetingUrl":"https://meet.example.com/abc"}`)
	require.Equal(t, 200, code)
	assert.Equal(t, "CONFIRMED", out["status"])
	assert.Equal(t, "https://meet.example.com/abc", out["meetingUrl"])

	code, _ = doJSON(t, app, "PATCH", "/api/bookings/"+b.ID.String(), `{"status":"BOGUS"}`)
	assert.Equal(t, 400, code)

	code, out = doJSON(t, app, "PATCH", "/api/bookings/"+uuid.NewString(), `{"status":"DECLINED"}`)
	require.Equal(t, 404, code)
	assert.Equal(t, "Booking not found", out["message"])
}
