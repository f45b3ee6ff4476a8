package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/howdyplanner/api/catalog"
)

// SemesterPlan is the student's proposed placements: term label to ordered
// course codes.
type SemesterPlan map[string][]string

// ValidationResult is the complete set of findings for one term. It is
// recomputed on every query and never persisted; either every check ran or
// the caller got no result at all.
type ValidationResult struct {
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	TotalCredits    float64  `json:"total_credits"`
	TotalDifficulty int      `json:"total_difficulty"`
}

// EditabilityPolicy selects which terms accept plan edits. The reference
// behavior drifted across revisions, so it is a rule, not a law.
type EditabilityPolicy string

const (
	EditAllTerms        EditabilityPolicy = "all"
	EditFutureOnly      EditabilityPolicy = "future-only"
	EditCurrentIncluded EditabilityPolicy = "current-included"
)

// PlanConfig carries the policy knobs of the validator. Thresholds are
// configuration, not mechanism; defaults mirror the advising guidance of a
// 16-hour heavy-load warning and an 18-hour ceiling.
type PlanConfig struct {
	SoftCreditLimit float64
	HardCreditLimit float64
	Editability     EditabilityPolicy
	RiskyCombos     []catalog.RiskyCombo
}

// DefaultPlanConfig returns the stock policy: warn at 16 credits, reject
// above 18, all terms editable.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		SoftCreditLimit: 16,
		HardCreditLimit: 18,
		Editability:     EditAllTerms,
	}
}

// PlanValidator checks semester plans against the transcript, the
// prerequisite graph and the configured planning policy.
type PlanValidator struct {
	catalog *catalog.Catalog
	graph   *PrereqGraph
	config  PlanConfig
}

// NewPlanValidator wires a validator over immutable reference data. A
// config without combination rules inherits the catalog's.
func NewPlanValidator(cat *catalog.Catalog, graph *PrereqGraph, config PlanConfig) *PlanValidator {
	if config.RiskyCombos == nil {
		config.RiskyCombos = cat.RiskyCombos
	}
	return &PlanValidator{catalog: cat, graph: graph, config: config}
}

// ValidateSemester runs every check for one term and returns the full set
// of findings. Violations are data, never errors; the caller renders all
// of them at once.
func (v *PlanValidator) ValidateSemester(plan SemesterPlan, termLabel string) ValidationResult {
	result := ValidationResult{}
	seen := make(map[string]bool)

	for _, code := range plan[termLabel] {
		if seen[code] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is listed more than once in %s", code, termLabel))
			continue
		}
		seen[code] = true

		if course, ok := v.catalog.Lookup(code); ok {
			result.TotalCredits += course.Credits
			result.TotalDifficulty += course.Difficulty
		}

		switch {
		case v.graph.IsCourseCompleted(code):
			result.Errors = append(result.Errors, fmt.Sprintf("%s is already completed", code))
		case v.graph.IsCourseInProgress(code):
			result.Errors = append(result.Errors, fmt.Sprintf("%s is already in progress", code))
		default:
			if prior, ok := v.plannedBefore(plan, code, termLabel); ok {
				result.Errors = append(result.Errors, fmt.Sprintf("%s is already planned in %s", code, prior))
			}
		}

		if course, ok := v.catalog.Lookup(code); ok {
			for _, prereq := range course.Prereqs {
				if !v.graph.IsCourseCompleted(prereq) {
					result.Errors = append(result.Errors, fmt.Sprintf("%s requires %s to be completed", code, prereq))
				}
			}
		}
	}

	for _, combo := range v.config.RiskyCombos {
		if !containsAll(seen, combo.Courses) {
			continue
		}
		if combo.Severity == catalog.SeverityHigh {
			result.Errors = append(result.Errors, combo.Message)
		} else {
			result.Warnings = append(result.Warnings, combo.Message)
		}
	}

	// A load exactly at the hard ceiling is acceptable without comment;
	// the warning band stops just below it.
	switch {
	case result.TotalCredits > v.config.HardCreditLimit:
		result.Errors = append(result.Errors, fmt.Sprintf("%s credits exceeds recommended maximum of %s",
			formatCredits(result.TotalCredits), formatCredits(v.config.HardCreditLimit)))
	case result.TotalCredits >= v.config.SoftCreditLimit && result.TotalCredits < v.config.HardCreditLimit:
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s credits is a heavy load", formatCredits(result.TotalCredits)))
	}

	return result
}

// ValidatePlan validates every term present in the plan.
func (v *PlanValidator) ValidatePlan(plan SemesterPlan) map[string]ValidationResult {
	results := make(map[string]ValidationResult, len(plan))
	for label := range plan {
		results[label] = v.ValidateSemester(plan, label)
	}
	return results
}

// CanPlaceCourse is the placement precheck used by plan editing. Placement
// is monotonic forward in time: a course already completed, in progress,
// or present anywhere in the plan cannot be placed again, and the error
// names the conflicting term.
func (v *PlanValidator) CanPlaceCourse(plan SemesterPlan, code, termLabel string) error {
	for _, existing := range plan[termLabel] {
		if existing == code {
			return fmt.Errorf("%s is already planned in %s", code, termLabel)
		}
	}
	if v.graph.IsCourseCompleted(code) {
		return fmt.Errorf("%s is already completed", code)
	}
	if v.graph.IsCourseInProgress(code) {
		return fmt.Errorf("%s is already in progress", code)
	}
	if prior, ok := v.plannedAnywhere(plan, code, termLabel); ok {
		return fmt.Errorf("%s is already planned in %s", code, prior)
	}
	return nil
}

// CanEditTerm applies the configured editability policy against an
// explicit clock.
func (v *PlanValidator) CanEditTerm(termLabel string, now time.Time) bool {
	switch v.config.Editability {
	case EditFutureOnly:
		state, err := ClassifyTermState(termLabel, now)
		return err == nil && state.Future
	case EditCurrentIncluded:
		state, err := ClassifyTermState(termLabel, now)
		return err == nil && (state.Future || state.Current)
	default:
		return true
	}
}

// plannedBefore finds an occurrence of code in a term calendar-earlier
// than termLabel.
func (v *PlanValidator) plannedBefore(plan SemesterPlan, code, termLabel string) (string, bool) {
	return v.findPlanned(plan, code, termLabel, true)
}

// plannedAnywhere finds an occurrence of code in any other term of the
// plan, preferring the earliest.
func (v *PlanValidator) plannedAnywhere(plan SemesterPlan, code, termLabel string) (string, bool) {
	return v.findPlanned(plan, code, termLabel, false)
}

func (v *PlanValidator) findPlanned(plan SemesterPlan, code, termLabel string, earlierOnly bool) (string, bool) {
	labels := make([]string, 0, len(plan))
	for label := range plan {
		if label == termLabel {
			continue
		}
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return CompareTerms(labels[i], labels[j]) < 0 })

	for _, label := range labels {
		if earlierOnly && CompareTerms(label, termLabel) >= 0 {
			continue
		}
		for _, existing := range plan[label] {
			if existing == code {
				return label, true
			}
		}
	}
	return "", false
}

func containsAll(seen map[string]bool, codes []string) bool {
	if len(codes) == 0 {
		return false
	}
	for _, code := range codes {
		if !seen[code] {
			return false
		}
	}
	return true
}

// formatCredits renders a credit total the way advisors write it: "19",
// not "19.000".
func formatCredits(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
