package services

import (
	"sort"
	"strings"
)

// AcademicYear is the Fall-through-Summer view bucket derived from parsed
// terms. It is recomputed whenever the term list changes and never mutated
// in place.
type AcademicYear struct {
	Year  string           `json:"year"` // "2024-2025"
	Terms []TranscriptTerm `json:"terms"`
}

// CourseStatusValue is the transcript-derived standing of one course code.
type CourseStatusValue string

const (
	CourseCompleted  CourseStatusValue = "completed"
	CourseInProgress CourseStatusValue = "in-progress"
)

// CourseStatus is one CourseStatusIndex entry.
type CourseStatus struct {
	Status   CourseStatusValue `json:"status"`
	Grade    string            `json:"grade"`
	Transfer bool              `json:"transfer"`
	Honors   bool              `json:"honors"`
}

// CourseStatusIndex maps a course code to its transcript-derived status.
type CourseStatusIndex map[string]CourseStatus

// NormalizeTranscript groups terms into academic-year buckets, sorts terms
// within a bucket Fall<Winter<Spring<Summer, sorts buckets by starting
// year, and drops malformed courses that carry neither code nor title.
// Pure function; callers recompute it freely.
func NormalizeTranscript(terms []TranscriptTerm) []AcademicYear {
	buckets := make(map[string][]TranscriptTerm)
	for _, term := range terms {
		yearLabel, err := AcademicYearForTerm(term.Label)
		if err != nil {
			continue
		}
		filtered := term
		filtered.Courses = nil
		for _, course := range term.Courses {
			if course.Code == "" && course.Title == "" {
				continue
			}
			filtered.Courses = append(filtered.Courses, course)
		}
		buckets[yearLabel] = append(buckets[yearLabel], filtered)
	}

	years := make([]AcademicYear, 0, len(buckets))
	for label, bucketTerms := range buckets {
		sort.SliceStable(bucketTerms, func(i, j int) bool {
			return CompareTerms(bucketTerms[i].Label, bucketTerms[j].Label) < 0
		})
		years = append(years, AcademicYear{Year: label, Terms: bucketTerms})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// BuildCourseStatusIndex folds every course observation across all terms
// into a per-code status. A code ever seen with grade "IP" stays
// in-progress no matter what other observations say; graded repeats of a
// course must not downgrade current enrollment.
func BuildCourseStatusIndex(terms []TranscriptTerm) CourseStatusIndex {
	index := make(CourseStatusIndex)
	for _, term := range terms {
		for _, course := range term.Courses {
			if course.Code == "" {
				continue
			}
			next := CourseStatus{
				Status:   CourseCompleted,
				Grade:    course.Grade,
				Transfer: course.Transfer,
				Honors:   isHonorsTitle(course.Title),
			}
			if course.Grade == "IP" {
				next.Status = CourseInProgress
			}
			if prev, ok := index[course.Code]; ok && prev.Status == CourseInProgress {
				continue
			}
			index[course.Code] = next
		}
	}
	return index
}

// isHonorsTitle detects the honors section marker registrars append to
// course titles.
func isHonorsTitle(title string) bool {
	upper := strings.ToUpper(title)
	return strings.Contains(upper, "HNR") || strings.Contains(upper, "HONORS")
}
