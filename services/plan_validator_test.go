package services

import (
	"strings"
	"testing"
	"time"

	"github.com/howdyplanner/api/catalog"
)

// testCatalog returns a small catalog with no completion hints, so tests
// control standing purely through the status index.
func testCatalog() *catalog.Catalog {
	courses := []catalog.Course{
		{Code: "CSCE 221", Title: "Data Structures", Credits: 4, Difficulty: 5, Prereqs: []string{"CSCE 121"}, Status: catalog.StatusAvailable},
		{Code: "CSCE 312", Title: "Computer Organization", Credits: 4, Difficulty: 5, Prereqs: []string{"CSCE 221"}, Status: catalog.StatusAvailable},
		{Code: "CSCE 121", Title: "Intro to Program Design", Credits: 4, Difficulty: 3, Status: catalog.StatusAvailable},
		{Code: "MATH 151", Title: "Calc I", Credits: 4, Difficulty: 4, Status: catalog.StatusAvailable},
		{Code: "MATH 304", Title: "Linear Algebra", Credits: 3, Difficulty: 4, Status: catalog.StatusAvailable},
		{Code: "CSCE 314", Title: "Programming Languages", Credits: 3, Difficulty: 4, Prereqs: []string{"CSCE 221"}, Status: catalog.StatusAvailable},
		{Code: "CSCE 399", Title: "High Impact Experience", Credits: 1, Difficulty: 2, Status: catalog.StatusAvailable},
	}
	byCode := make(map[string]catalog.Course, len(courses))
	for _, c := range courses {
		byCode[c.Code] = c
	}
	return &catalog.Catalog{
		Courses: byCode,
		RiskyCombos: []catalog.RiskyCombo{
			{Courses: []string{"CSCE 221", "CSCE 312"}, Message: "High workload - both courses are very intensive", Severity: catalog.SeverityHigh},
			{Courses: []string{"CSCE 314", "MATH 304"}, Message: "Demanding combination", Severity: catalog.SeverityMedium},
		},
	}
}

func newValidator(index CourseStatusIndex) *PlanValidator {
	cat := testCatalog()
	return NewPlanValidator(cat, NewPrereqGraph(cat, index), DefaultPlanConfig())
}

func hasFinding(findings []string, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

func TestValidateSemesterReturnsAllFindings(t *testing.T) {
	v := newValidator(CourseStatusIndex{})
	plan := SemesterPlan{"Fall 2025": {"CSCE 221", "CSCE 312"}}

	result := v.ValidateSemester(plan, "Fall 2025")

	// Prereq error for CSCE 312 (needs CSCE 221, not completed) AND the
	// high-severity combo error arrive in the same call.
	if !hasFinding(result.Errors, "CSCE 312 requires CSCE 221 to be completed") {
		t.Errorf("missing prerequisite error, got %v", result.Errors)
	}
	if !hasFinding(result.Errors, "High workload") {
		t.Errorf("missing risky-combo error, got %v", result.Errors)
	}
	if result.TotalCredits != 8 {
		t.Errorf("expected 8 total credits, got %v", result.TotalCredits)
	}
	if result.TotalDifficulty != 10 {
		t.Errorf("expected total difficulty 10, got %v", result.TotalDifficulty)
	}
}

func TestValidateSemesterMediumComboWarns(t *testing.T) {
	index := CourseStatusIndex{"CSCE 221": {Status: CourseCompleted, Grade: "A"}}
	v := newValidator(index)
	plan := SemesterPlan{"Fall 2025": {"CSCE 314", "MATH 304"}}

	result := v.ValidateSemester(plan, "Fall 2025")
	if !hasFinding(result.Warnings, "Demanding combination") {
		t.Errorf("medium combo should warn, got warnings %v", result.Warnings)
	}
	if hasFinding(result.Errors, "Demanding combination") {
		t.Errorf("medium combo must not error, got errors %v", result.Errors)
	}
}

func TestValidateSemesterCreditBoundaries(t *testing.T) {
	index := CourseStatusIndex{}
	cat := testCatalog()

	// Synthetic single-course loads to hit the exact boundaries.
	cat.Courses["HEAVY 416"] = catalog.Course{Code: "HEAVY 416", Credits: 16, Difficulty: 1}
	cat.Courses["HEAVY 418"] = catalog.Course{Code: "HEAVY 418", Credits: 18, Difficulty: 1}
	cat.Courses["HEAVY 419"] = catalog.Course{Code: "HEAVY 419", Credits: 19, Difficulty: 1}
	v := NewPlanValidator(cat, NewPrereqGraph(cat, index), DefaultPlanConfig())

	warn := v.ValidateSemester(SemesterPlan{"Fall 2025": {"HEAVY 416"}}, "Fall 2025")
	if !hasFinding(warn.Warnings, "16 credits is a heavy load") {
		t.Errorf("16 credits should warn, got %v / %v", warn.Errors, warn.Warnings)
	}
	if len(warn.Errors) != 0 {
		t.Errorf("16 credits must not error, got %v", warn.Errors)
	}

	exact := v.ValidateSemester(SemesterPlan{"Fall 2025": {"HEAVY 418"}}, "Fall 2025")
	if len(exact.Errors) != 0 || len(exact.Warnings) != 0 {
		t.Errorf("18 credits sits exactly at the ceiling and must produce no findings, got %v / %v",
			exact.Errors, exact.Warnings)
	}

	over := v.ValidateSemester(SemesterPlan{"Fall 2025": {"HEAVY 419"}}, "Fall 2025")
	if !hasFinding(over.Errors, "19 credits exceeds recommended maximum of 18") {
		t.Errorf("19 credits should produce the ceiling error, got %v", over.Errors)
	}
}

func TestValidateSemesterRejectsCompletedAndInProgress(t *testing.T) {
	index := CourseStatusIndex{
		"MATH 151": {Status: CourseCompleted, Grade: "B"},
		"CSCE 121": {Status: CourseInProgress, Grade: "IP"},
	}
	v := newValidator(index)
	plan := SemesterPlan{"Fall 2025": {"MATH 151", "CSCE 121"}}

	result := v.ValidateSemester(plan, "Fall 2025")
	if !hasFinding(result.Errors, "MATH 151 is already completed") {
		t.Errorf("missing already-completed error: %v", result.Errors)
	}
	if !hasFinding(result.Errors, "CSCE 121 is already in progress") {
		t.Errorf("missing already-in-progress error: %v", result.Errors)
	}
}

func TestValidateSemesterEarlierPlacementError(t *testing.T) {
	v := newValidator(CourseStatusIndex{})
	plan := SemesterPlan{
		"Fall 2024":   {"CSCE 399"},
		"Spring 2025": {"CSCE 399"},
	}

	result := v.ValidateSemester(plan, "Spring 2025")
	if !hasFinding(result.Errors, "CSCE 399 is already planned in Fall 2024") {
		t.Errorf("expected earlier-placement error naming Fall 2024, got %v", result.Errors)
	}

	// Validating the earlier term itself reports nothing: placement is
	// monotonic forward, the later duplicate is the offender.
	earlier := v.ValidateSemester(plan, "Fall 2024")
	if hasFinding(earlier.Errors, "already planned") {
		t.Errorf("earlier term should not blame itself, got %v", earlier.Errors)
	}
}

func TestCanPlaceCourseMonotonicity(t *testing.T) {
	v := newValidator(CourseStatusIndex{})
	plan := SemesterPlan{"Fall 2024": {"CSCE 221"}}

	err := v.CanPlaceCourse(plan, "CSCE 221", "Spring 2025")
	if err == nil {
		t.Fatal("placing an already-planned course later must be rejected")
	}
	if !strings.Contains(err.Error(), "Fall 2024") {
		t.Errorf("rejection must name the prior term, got %q", err.Error())
	}

	err = v.CanPlaceCourse(plan, "CSCE 221", "Fall 2024")
	if err == nil {
		t.Fatal("re-adding to the same term must be rejected, not double-inserted")
	}

	if err := v.CanPlaceCourse(plan, "CSCE 314", "Spring 2025"); err != nil {
		t.Errorf("fresh placement should be allowed, got %v", err)
	}
}

func TestCanPlaceCourseRejectsTranscriptOccurrences(t *testing.T) {
	index := CourseStatusIndex{
		"MATH 151": {Status: CourseCompleted, Grade: "B"},
		"CSCE 121": {Status: CourseInProgress, Grade: "IP"},
	}
	v := newValidator(index)
	plan := SemesterPlan{}

	if err := v.CanPlaceCourse(plan, "MATH 151", "Fall 2025"); err == nil {
		t.Error("completed course must not be placeable")
	}
	if err := v.CanPlaceCourse(plan, "CSCE 121", "Fall 2025"); err == nil {
		t.Error("in-progress course must not be placeable")
	}
}

func TestValidatePlanCoversEveryTerm(t *testing.T) {
	v := newValidator(CourseStatusIndex{})
	plan := SemesterPlan{
		"Fall 2025":   {"CSCE 221"},
		"Spring 2026": {"CSCE 312"},
	}

	results := v.ValidatePlan(plan)
	if len(results) != 2 {
		t.Fatalf("expected results for both terms, got %d", len(results))
	}
	if _, ok := results["Fall 2025"]; !ok {
		t.Error("missing Fall 2025 result")
	}
	if _, ok := results["Spring 2026"]; !ok {
		t.Error("missing Spring 2026 result")
	}
}

func TestCanEditTermPolicies(t *testing.T) {
	cat := testCatalog()
	graph := NewPrereqGraph(cat, CourseStatusIndex{})
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	permissive := NewPlanValidator(cat, graph, DefaultPlanConfig())
	if !permissive.CanEditTerm("Fall 2021", now) {
		t.Error("all-terms policy must allow past terms")
	}

	futureCfg := DefaultPlanConfig()
	futureCfg.Editability = EditFutureOnly
	futureOnly := NewPlanValidator(cat, graph, futureCfg)
	if futureOnly.CanEditTerm("Fall 2025", now) {
		t.Error("future-only policy must reject the current term")
	}
	if !futureOnly.CanEditTerm("Spring 2026", now) {
		t.Error("future-only policy must allow future terms")
	}

	currentCfg := DefaultPlanConfig()
	currentCfg.Editability = EditCurrentIncluded
	currentIncluded := NewPlanValidator(cat, graph, currentCfg)
	if !currentIncluded.CanEditTerm("Fall 2025", now) {
		t.Error("current-included policy must allow the current term")
	}
	if currentIncluded.CanEditTerm("Spring 2025", now) {
		t.Error("current-included policy must reject past terms")
	}
}

func TestValidateSemesterDuplicateWithinTerm(t *testing.T) {
	v := newValidator(CourseStatusIndex{})
	plan := SemesterPlan{"Fall 2025": {"CSCE 399", "CSCE 399"}}

	result := v.ValidateSemester(plan, "Fall 2025")
	if !hasFinding(result.Errors, "listed more than once") {
		t.Errorf("expected duplicate-within-term error, got %v", result.Errors)
	}
	if result.TotalCredits != 1 {
		t.Errorf("duplicate must not double-count credits, got %v", result.TotalCredits)
	}
}
