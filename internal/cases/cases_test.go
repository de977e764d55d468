package cases

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/internal/storage"
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

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{
		Name:         "Atty",
		Email:        "a_" + uuid.NewString()[:8] + "@x.com",
		Role:         models.RoleAttorney,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func newApp(db *gorm.DB, callerID uuid.UUID) *fiber.App {
	h := NewHandler(db, storage.NewSupabase())
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", callerID.String())
		c.Locals("role", string(models.RoleAttorney))
		return c.Next()
	})
	app.Post("/api/cases", h.Create)
	app.Get("/api/cases", h.List)
	app.Get("/api/cases/mine", h.ListMine)
	app.Get("/api/cases/:id", h.GetByID)
	app.Patch("/api/cases/:id/status", h.UpdateStatus)
	app.Post("/api/cases/:id/documents", h.UploadDocuments)
	app.Get("/api/cases/:id/documents", h.ListDocuments)
	app.Get("/api/documents/:docID/signed-url", h.SignedDocumentURL)
	app.Delete("/api/documents/:docID", h.DeleteDocument)
	return app
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

func TestCreateCase(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db)
	app := newApp(db, u.ID)

	code, out := doJSON(t, app, "POST", "/api/cases", `{
		"title": " Acme v. Doe ",
		"caseType": "LITIGATION",
		"parties": [{"name":"Acme Corp","role":"PLAINTIFF"},{"name":"John Doe","role":"DEFENDANT"}]
	}`)
	require.Equal(t, 201, code, out)
	assert.Equal(t, "Acme v. Doe", out["title"])
	assert.Equal(t, "INTAKE", out["status"], "status defaults")
	assert.Equal(t, "MEDIUM", out["priority"], "priority defaults")
	assert.Equal(t, u.ID.String(), out["assignedToId"], "assigned to the caller")
	assert.Len(t, out["parties"].([]any), 2)

	code, _ = doJSON(t, app, "POST", "/api/cases", `{"title":"X","caseType":"BOGUS"}`)
	assert.Equal(t, 400, code)

	code, _ = doJSON(t, app, "POST", "/api/cases", `{"caseType":"LITIGATION"}`)
	assert.Equal(t, 400, code) // title required
}

func TestListMineScoping(t *testing.T) {
	db := openTestDB(t)
	me, other := seedUser(t, db), seedUser(t, db)

	mine := models.Case{Title: "Mine", CaseType: models.CaseDispute, AssignedToID: &me.ID}
	theirs := models.Case{Title: "Theirs", CaseType: models.CaseDispute, AssignedToID: &other.ID}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	app := newApp(db, me.ID)

	req := httptest.NewRequest("GET", "/api/cases/mine", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0]["title"])

	// Unscoped listing still returns both.
	req = httptest.NewRequest("GET", "/api/cases", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestGetAndUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db)
	app := newApp(db, u.ID)

	cs := models.Case{Title: "X", CaseType: models.CaseRegulatory, Status: models.CaseIntake}
	require.NoError(t, db.Create(&cs).Error)

	code, out := doJSON(t, app, "GET", "/api/cases/"+cs.ID.String(), "")
	require.Equal(t, 200, code)
	assert.Equal(t, "X", out["title"])

	code, out = doJSON(t, app, "GET", "/api/cases/"+uuid.NewString(), "")
	require.Equal(t, 404, code)
	assert.Equal(t, "Case not found", out["message"])

	code, out = doJSON(t, app, "PATCH", "/api/cases/"+cs.ID.String()+"/status", `{"status":"ACTIVE"}`)
	require.Equal(t, 200, code)
	assert.Equal(t, "ACTIVE", out["status"])

	code, _ = doJSON(t, app, "PATCH", "/api/cases/"+cs.ID.String()+"/status", `{"status":"NOPE"}`)
	assert.Equal(t, 400, code)

	code, _ = doJSON(t, app, "PATCH", "/api/cases/"+uuid.NewString()+"/status", `{"status":"CLOSED"}`)
	assert.Equal(t, 404, code)
}

func multipartUpload(t *testing.T, files map[string]struct {
	contentType string
	data        []byte
}) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[]"; filename=%q`, name))
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

// Upload runs against unconfigured storage: objects are discarded, metadata
// rows are still written, and signed URLs come back as local placeholders.
func TestDocuments(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	db := openTestDB(t)
	u := seedUser(t, db)
	app := newApp(db, u.ID)

	cs := models.Case{Title: "Docs", CaseType: models.CaseLitigation}
	require.NoError(t, db.Create(&cs).Error)

	body, ct := multipartUpload(t, map[string]struct {
		contentType string
		data        []byte
	}{
		"brief.pdf":  {"application/pdf", []byte("%PDF-1.4 fake")},
		"photo.png":  {"image/png", []byte{0x89, 'P', 'N', 'G'}},
		"notes.docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("x")},
	})

	req := httptest.NewRequest("POST", "/api/cases/"+cs.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var out struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 3)

	okCount, errCount := 0, 0
	for _, r := range out.Results {
		if _, bad := r["error"]; bad {
			errCount++
			assert.Equal(t, "notes.docx", r["name"])
		} else {
			okCount++
		}
	}
	assert.Equal(t, 2, okCount)
	assert.Equal(t, 1, errCount)

	// Metadata rows exist only for the accepted files.
	var docs []models.Document
	require.NoError(t, db.Where("case_id = ?", cs.ID).Find(&docs).Error)
	require.Len(t, docs, 2)

	// Listing mirrors the stored rows.
	req = httptest.NewRequest("GET", "/api/cases/"+cs.ID.String()+"/documents", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 2)

	// Signed URL on unconfigured storage is a local placeholder.
	code, signed := doJSON(t, app, "GET", "/api/documents/"+docs[0].ID.String()+"/signed-url", "")
	require.Equal(t, 200, code)
	assert.True(t, strings.HasPrefix(signed["url"].(string), "local://"))

	code, _ = doJSON(t, app, "GET", "/api/documents/"+uuid.NewString()+"/signed-url", "")
	assert.Equal(t, 404, code)

	// Delete removes the metadata row.
	code, _ = doJSON(t, app, "DELETE", "/api/documents/"+docs[0].ID.String(), "")
	require.Equal(t, 204, code)
	var remaining int64
	require.NoError(t, db.Model(&models.Document{}).Where("case_id = ?", cs.ID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	code, _ = doJSON(t, app, "DELETE", "/api/documents/"+uuid.NewString(), "")
	assert.Equal(t, 404, code)

	// Unknown case rejects the upload outright.
	body, ct = multipartUpload(t, map[string]struct {
		contentType string
		data        []byte
	}{"a.pdf": {"application/pdf", []byte("x")}})
	req = httptest.NewRequest("POST", "/api/cases/"+uuid.NewString()+"/documents", body)
	req.Header.Set("Content-Type", ct)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
