package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	cat "github.com/howdyplanner/api/catalog"
	"github.com/howdyplanner/api/services"
	"github.com/howdyplanner/api/utils/response"
)

// CatalogHandler serves the degree catalog and prerequisite lookups
type CatalogHandler struct {
	catalog     *cat.Catalog
	transcripts *services.TranscriptService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *cat.Catalog, transcripts *services.TranscriptService) *CatalogHandler {
	return &CatalogHandler{
		catalog:     catalog,
		transcripts: transcripts,
	}
}

// ListCourses handles GET /api/v1/catalog/courses
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	search := strings.ToUpper(strings.TrimSpace(c.Query("search", "")))

	codes := make([]string, 0, len(h.catalog.Courses))
	for code, entry := range h.catalog.Courses {
		if search != "" &&
			!strings.Contains(code, search) &&
			!strings.Contains(strings.ToUpper(entry.Title), search) {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)

	pagination := response.CalculatePagination(page, limit, int64(len(codes)))
	start := (pagination.CurrentPage - 1) * pagination.PerPage
	if start > len(codes) {
		start = len(codes)
	}
	end := start + pagination.PerPage
	if end > len(codes) {
		end = len(codes)
	}

	courses := make([]cat.Course, 0, end-start)
	for _, code := range codes[start:end] {
		courses = append(courses, h.catalog.Courses[code])
	}

	return response.Paginated(c, courses, pagination)
}

// GetUnmetPrerequisites handles GET /api/v1/catalog/courses/:code/unmet.
// With a studentId query the student's transcript satisfies prerequisites;
// without one only the catalog's own completion hints count.
func (h *CatalogHandler) GetUnmetPrerequisites(c *fiber.Ctx) error {
	code, err := url.PathUnescape(c.Params("code"))
	if err != nil {
		return response.BadRequest(c, "Invalid course code")
	}

	if _, ok := h.catalog.Lookup(code); !ok {
		return response.NotFound(c, "Course not found in catalog")
	}

	var index services.CourseStatusIndex
	if raw := c.Query("studentId", ""); raw != "" {
		studentID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid student id")
		}
		terms, err := h.transcripts.LoadTerms(c.Context(), uint(studentID))
		if err != nil {
			return response.InternalServerError(c, "Failed to load transcript")
		}
		index = services.BuildCourseStatusIndex(terms)
	}

	graph := services.NewPrereqGraph(h.catalog, index)
	unmet := graph.CollectUnmetPrerequisites(code)
	if unmet == nil {
		unmet = []string{}
	}

	return response.Success(c, fiber.Map{
		"course": code,
		"unmet":  unmet,
	})
}
