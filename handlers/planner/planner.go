package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/howdyplanner/api/catalog"
	"github.com/howdyplanner/api/services"
	"github.com/howdyplanner/api/utils/response"
	"github.com/howdyplanner/api/utils/validation"
)

// PlannerHandler handles planner state persistence and plan validation
type PlannerHandler struct {
	planner     *services.PlannerService
	transcripts *services.TranscriptService
	catalog     *catalog.Catalog
	planConfig  services.PlanConfig
	validator   *validation.Validator
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(planner *services.PlannerService, transcripts *services.TranscriptService, cat *catalog.Catalog, planConfig services.PlanConfig) *PlannerHandler {
	return &PlannerHandler{
		planner:     planner,
		transcripts: transcripts,
		catalog:     cat,
		planConfig:  planConfig,
		validator:   validation.NewValidator(),
	}
}

// PlannerPayload is the whole-document planner state the client owns.
// The server checks shape and editability, never merges.
type PlannerPayload struct {
	Plan services.SemesterPlan `json:"plan"`
}

// GetPlanner handles GET /api/v1/planner/:studentId
func (h *PlannerHandler) GetPlanner(c *fiber.Ctx) error {
	studentID, err := parseStudentID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	state, err := h.planner.Load(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No planner state stored for this student")
		}
		return response.InternalServerError(c, "Failed to load planner state")
	}

	return response.Success(c, state)
}

// SavePlanner handles POST /api/v1/planner/:studentId. The request body
// replaces the stored state wholesale.
func (h *PlannerHandler) SavePlanner(c *fiber.Ctx) error {
	studentID, err := parseStudentID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	var payload PlannerPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := h.checkPlanShape(payload.Plan); msg != "" {
		return response.UnprocessableEntity(c, msg, "INVALID_PLAN")
	}
	if msg := h.checkEditability(c, studentID, payload.Plan); msg != "" {
		return response.UnprocessableEntity(c, msg, "TERM_NOT_EDITABLE")
	}

	state, err := h.planner.Save(c.Context(), studentID, c.Body())
	if err != nil {
		return response.InternalServerError(c, "Failed to save planner state")
	}

	return response.Success(c, state)
}

// ValidatePlan handles POST /api/v1/planner/:studentId/validate. The plan
// in the body is checked against the student's transcript; nothing is
// persisted.
func (h *PlannerHandler) ValidatePlan(c *fiber.Ctx) error {
	studentID, err := parseStudentID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	var payload PlannerPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := h.checkPlanShape(payload.Plan); msg != "" {
		return response.UnprocessableEntity(c, msg, "INVALID_PLAN")
	}

	validator, err := h.buildValidator(c, studentID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load transcript")
	}

	results := validator.ValidatePlan(payload.Plan)

	editable := make(map[string]bool, len(payload.Plan))
	now := time.Now()
	for label := range payload.Plan {
		editable[label] = validator.CanEditTerm(label, now)
	}

	return response.Success(c, fiber.Map{
		"results":  results,
		"editable": editable,
	})
}

// buildValidator assembles a plan validator over the student's current
// transcript. A student with no stored transcript validates against an
// empty completion index.
func (h *PlannerHandler) buildValidator(c *fiber.Ctx, studentID uint) (*services.PlanValidator, error) {
	terms, err := h.transcripts.LoadTerms(c.Context(), studentID)
	if err != nil {
		return nil, err
	}

	index := services.BuildCourseStatusIndex(terms)
	graph := services.NewPrereqGraph(h.catalog, index)
	return services.NewPlanValidator(h.catalog, graph, h.planConfig), nil
}

// checkPlanShape verifies term labels and course codes without touching
// any reference data. Returns an empty string when the plan is well formed.
func (h *PlannerHandler) checkPlanShape(plan services.SemesterPlan) string {
	for label, codes := range plan {
		if h.validator.ValidateVar(label, "termlabel") != nil {
			return fmt.Sprintf("%q is not a term label like Fall 2024", label)
		}
		for _, code := range codes {
			if h.validator.ValidateVar(code, "coursecode") != nil {
				return fmt.Sprintf("%q is not a course code like CSCE 121", code)
			}
		}
	}
	return ""
}

// checkEditability rejects saves that change a term the policy locks.
// Terms carried over unchanged from the stored plan are always allowed
// through, so old states keep round-tripping as the policy tightens.
func (h *PlannerHandler) checkEditability(c *fiber.Ctx, studentID uint, plan services.SemesterPlan) string {
	validator := services.NewPlanValidator(h.catalog, services.NewPrereqGraph(h.catalog, nil), h.planConfig)

	stored := services.SemesterPlan{}
	if state, err := h.planner.Load(c.Context(), studentID); err == nil {
		var prev PlannerPayload
		if json.Unmarshal(state.Payload, &prev) == nil && prev.Plan != nil {
			stored = prev.Plan
		}
	}

	now := time.Now()
	for label, codes := range plan {
		if validator.CanEditTerm(label, now) {
			continue
		}
		if sameCourses(stored[label], codes) {
			continue
		}
		return fmt.Sprintf("%s is not editable under the current policy", label)
	}
	for label, codes := range stored {
		if _, present := plan[label]; present || len(codes) == 0 {
			continue
		}
		if !validator.CanEditTerm(label, now) {
			return fmt.Sprintf("%s is not editable under the current policy", label)
		}
	}
	return ""
}

func sameCourses(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func parseStudentID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("studentId"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
