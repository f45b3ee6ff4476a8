package transcript

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/howdyplanner/api/services"
	"github.com/howdyplanner/api/services/spaces"
	"github.com/howdyplanner/api/utils/cache"
	"github.com/howdyplanner/api/utils/pdfvalidation"
	"github.com/howdyplanner/api/utils/response"
	"github.com/howdyplanner/api/utils/validation"
)

const uploadLockTTL = 2 * time.Minute

// TranscriptHandler handles transcript ingestion and retrieval
type TranscriptHandler struct {
	service   *services.TranscriptService
	archive   *spaces.ArchiveClient
	cache     *cache.RedisCache
	validator *validation.Validator
}

// NewTranscriptHandler creates a new transcript handler. The archive and
// cache clients may be nil.
func NewTranscriptHandler(svc *services.TranscriptService, archive *spaces.ArchiveClient, rc *cache.RedisCache) *TranscriptHandler {
	return &TranscriptHandler{
		service:   svc,
		archive:   archive,
		cache:     rc,
		validator: validation.NewValidator(),
	}
}

// SaveTranscriptRequest carries the optional identity fields that ride
// alongside the uploaded file.
type SaveTranscriptRequest struct {
	Email string `form:"email"`
	Name  string `form:"name" validate:"omitempty,max=255"`
}

// ParseTranscript handles POST /api/v1/transcripts/parse. It runs the
// ingestion pipeline without persisting anything.
func (h *TranscriptHandler) ParseTranscript(c *fiber.Ctx) error {
	content, err := h.readUpload(c)
	if err != nil {
		return err
	}

	result, err := h.service.ParseTranscript(c.Context(), content, uploadFilename(c))
	if err != nil {
		return h.mapParseError(c, err)
	}

	return response.Success(c, result)
}

// SaveTranscript handles POST /api/v1/transcripts. It parses the upload,
// resolves the student, replaces their stored transcript, and archives
// the raw PDF when an archive is configured.
func (h *TranscriptHandler) SaveTranscript(c *fiber.Ctx) error {
	content, err := h.readUpload(c)
	if err != nil {
		return err
	}

	var req SaveTranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)
	if req.Email != "" && !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	result, err := h.service.ParseTranscript(c.Context(), content, uploadFilename(c))
	if err != nil {
		return h.mapParseError(c, err)
	}

	student, err := h.service.GetOrCreateStudent(req.Email, req.Name)
	if err != nil {
		return response.InternalServerError(c, "Failed to resolve student")
	}

	// Serialize concurrent uploads for the same student.
	if h.cache != nil {
		lockKey := "transcript:lock:" + strconv.FormatUint(uint64(student.ID), 10)
		acquired, lockErr := h.cache.SetNX(c.Context(), lockKey, "1", uploadLockTTL)
		if lockErr == nil && !acquired {
			return response.Conflict(c, "A transcript upload for this student is already in progress")
		}
		if lockErr == nil {
			defer h.cache.Delete(c.Context(), lockKey)
		}
	}

	if err := h.service.SaveTerms(c.Context(), student.ID, result.Terms); err != nil {
		return response.InternalServerError(c, "Failed to save transcript")
	}

	if h.archive != nil {
		key := spaces.ArchiveKey(student.ID)
		if err := h.archive.UploadTranscript(c.Context(), key, content); err != nil {
			log.Printf("Transcript Handler: archive upload failed for student %d: %v", student.ID, err)
		}
	}

	return response.Created(c, fiber.Map{
		"student": student,
		"terms":   result.Terms,
		"totals":  result.Totals,
	})
}

// GetTranscript handles GET /api/v1/transcripts/:studentId
func (h *TranscriptHandler) GetTranscript(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	terms, err := h.service.LoadTerms(c.Context(), uint(studentID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load transcript")
	}
	if len(terms) == 0 {
		return response.NotFound(c, "No transcript stored for this student")
	}

	return response.Success(c, fiber.Map{
		"terms":          terms,
		"academic_years": services.NormalizeTranscript(terms),
	})
}

// ReparseTranscript handles POST /api/v1/transcripts/:studentId/reparse.
// It re-runs ingestion over the student's most recent archived PDF, so
// parser improvements reach stored transcripts without a fresh upload.
func (h *TranscriptHandler) ReparseTranscript(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}
	if h.archive == nil {
		return response.ServiceUnavailable(c, "Transcript archive is not configured")
	}

	objects, err := h.archive.ListArchived(c.Context(), fmt.Sprintf("transcripts/%d/", studentID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list archived transcripts")
	}
	var key string
	var newest time.Time
	for k, modified := range objects {
		if key == "" || modified.After(newest) {
			key, newest = k, modified
		}
	}
	if key == "" {
		return response.NotFound(c, "No archived transcript for this student")
	}

	content, err := h.archive.DownloadTranscript(c.Context(), key)
	if err != nil {
		return response.InternalServerError(c, "Failed to download archived transcript")
	}
	check, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.TranscriptLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to read archived transcript")
	}
	if !check.Valid {
		return response.UnprocessableEntity(c, check.Error, "INVALID_ARCHIVE")
	}

	result, err := h.service.ParseTranscript(c.Context(), content, path.Base(key))
	if err != nil {
		return h.mapParseError(c, err)
	}
	if err := h.service.SaveTerms(c.Context(), uint(studentID), result.Terms); err != nil {
		return response.InternalServerError(c, "Failed to save transcript")
	}

	return response.Success(c, fiber.Map{
		"terms":  result.Terms,
		"totals": result.Totals,
	})
}

// readUpload pulls the PDF out of the multipart form and validates it.
func (h *TranscriptHandler) readUpload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, response.BadRequest(c, "Missing transcript file")
	}

	check, err := pdfvalidation.ValidatePDFFile(fileHeader, pdfvalidation.TranscriptLimits)
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to read upload")
	}
	if !check.Valid {
		return nil, response.BadRequest(c, check.Error)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to read upload")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to read upload")
	}
	return content, nil
}

func (h *TranscriptHandler) mapParseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnreadableDocument):
		return response.BadRequest(c, "Unable to read this file")
	case errors.Is(err, services.ErrNoTermsDetected):
		return response.UnprocessableEntity(c, "No terms detected in transcript", "NO_TERMS_DETECTED")
	default:
		return response.InternalServerError(c, "Failed to parse transcript")
	}
}

func uploadFilename(c *fiber.Ctx) string {
	if fh, err := c.FormFile("file"); err == nil {
		return fh.Filename
	}
	return "upload.pdf"
}
