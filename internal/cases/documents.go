package cases

import (
	"errors"
	"mime"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/internal/auth"
	"github.com/casedesk/casedesk-backend/pkg/models"
)

// UploadDocuments attaches up to 10 files (PDF/PNG, 10MB each) to a case.
// Objects go to Supabase Storage; metadata rows go to the documents table.
// Partial failures are reported per item; the response is still 201.
func (h *Handler) UploadDocuments(c *fiber.Ctx) error {
	userID, _ := uuid.Parse(auth.MustUserID(c))
	caseID := c.Params("id")

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Case not found")
		}
		return fiber.ErrInternalServerError
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form required; use files[]")
	}
	files := form.File["files[]"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "files are required (use key: files[])")
	}
	if len(files) > 10 {
		return fiber.NewError(fiber.StatusBadRequest, "max 10 files allowed")
	}

	results := make([]fiber.Map, 0, len(files))

	for _, fh := range files {
		res := fiber.Map{
			"name": fh.Filename,
			"size": fh.Size,
		}

		if fh.Size <= 0 {
			res["error"] = "empty file"
			results = append(results, res)
			continue
		}
		if fh.Size > 10*1024*1024 {
			res["error"] = "max 10MB per file"
			results = append(results, res)
			continue
		}

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = mime.TypeByExtension(filepath.Ext(fh.Filename))
		}
		switch ct {
		case "application/pdf", "image/png":
			// ok
		default:
			res["error"] = "only PDF or PNG are allowed"
			results = append(results, res)
			continue
		}

		f, err := fh.Open()
		if err != nil {
			res["error"] = "open failed"
			results = append(results, res)
			continue
		}
		defer f.Close()

		key := h.sb.MakeObjectKey(caseID, fh.Filename)

		if err := h.sb.Upload(key, f, ct, fh.Size); err != nil {
			res["error"] = "upload failed"
			results = append(results, res)
			continue
		}

		doc := models.Document{
			CaseID:       cs.ID,
			FileName:     fh.Filename,
			FileType:     ct,
			StorageKey:   key,
			Size:         fh.Size,
			UploadedByID: &userID,
		}
		if err := h.db.Create(&doc).Error; err != nil {
			res["error"] = "database error"
			results = append(results, res)
			continue
		}

		res["id"] = doc.ID
		res["key"] = doc.StorageKey
		results = append(results, res)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"results": results})
}

// ListDocuments returns document metadata for a case, oldest first.
func (h *Handler) ListDocuments(c *fiber.Ctx) error {
	caseID := c.Params("id")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	docs := []models.Document{}
	if err := h.db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(docs)
}

// SignedDocumentURL returns a short-lived download URL for a stored document.
func (h *Handler) SignedDocumentURL(c *fiber.Ctx) error {
	var doc models.Document
	if err := h.db.First(&doc, "id = ?", c.Params("docID")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		return fiber.ErrInternalServerError
	}

	url, err := h.sb.SignedURL(doc.StorageKey, 60) // seconds
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"url": url, "expires_in": 60, "now": time.Now().UTC()})
}

// DeleteDocument removes the metadata row and the stored object. The object
// delete is idempotent, so a missing object does not fail the request.
func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	var doc models.Document
	if err := h.db.First(&doc, "id = ?", c.Params("docID")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		return fiber.ErrInternalServerError
	}

	if err := h.sb.Delete(doc.StorageKey); err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.db.Delete(&doc).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.SendStatus(fiber.StatusNoContent)
}
