package services

import (
	"testing"
)

func TestNormalizeTranscriptBucketsAndOrder(t *testing.T) {
	terms := []TranscriptTerm{
		{Label: "Spring 2025", Courses: []TranscriptCourse{{Code: "CSCE 222", Title: "Discrete Structures"}}},
		{Label: "Fall 2024", Courses: []TranscriptCourse{{Code: "CSCE 221", Title: "Data Structures"}}},
		{Label: "Fall 2023", Courses: []TranscriptCourse{{Code: "MATH 151", Title: "Calc I"}}},
	}

	years := NormalizeTranscript(terms)
	if len(years) != 2 {
		t.Fatalf("expected 2 academic years, got %d", len(years))
	}
	if years[0].Year != "2023-2024" || years[1].Year != "2024-2025" {
		t.Errorf("buckets out of order: %q, %q", years[0].Year, years[1].Year)
	}

	// Fall 2024 and Spring 2025 share an academic year; Fall sorts first.
	second := years[1]
	if len(second.Terms) != 2 {
		t.Fatalf("expected 2 terms in 2024-2025, got %d", len(second.Terms))
	}
	if second.Terms[0].Label != "Fall 2024" || second.Terms[1].Label != "Spring 2025" {
		t.Errorf("terms out of season order: %q, %q", second.Terms[0].Label, second.Terms[1].Label)
	}
}

func TestNormalizeTranscriptDropsMalformedCourses(t *testing.T) {
	terms := []TranscriptTerm{
		{Label: "Fall 2024", Courses: []TranscriptCourse{
			{Code: "", Title: ""},
			{Code: "CSCE 221", Title: "Data Structures"},
			{Code: "", Title: "Orphan Title Row"},
		}},
	}

	years := NormalizeTranscript(terms)
	if len(years) != 1 {
		t.Fatalf("expected 1 academic year, got %d", len(years))
	}
	courses := years[0].Terms[0].Courses
	if len(courses) != 2 {
		t.Fatalf("only the fully empty course should drop: got %d courses", len(courses))
	}
}

func TestNormalizeTranscriptIsPure(t *testing.T) {
	terms := []TranscriptTerm{
		{Label: "Fall 2024", Courses: []TranscriptCourse{{Code: "CSCE 221", Title: "Data Structures"}}},
	}
	first := NormalizeTranscript(terms)
	second := NormalizeTranscript(terms)

	if len(first) != len(second) || first[0].Year != second[0].Year {
		t.Fatal("recomputation diverged")
	}
	if len(terms[0].Courses) != 1 {
		t.Fatal("input terms were mutated")
	}
}

func TestBuildCourseStatusIndexInProgressDominates(t *testing.T) {
	completedFirst := []TranscriptTerm{
		{Label: "Fall 2024", Courses: []TranscriptCourse{{Code: "CSCE 312", Grade: "B"}}},
		{Label: "Spring 2025", Courses: []TranscriptCourse{{Code: "CSCE 312", Grade: "IP"}}},
	}
	inProgressFirst := []TranscriptTerm{
		{Label: "Spring 2025", Courses: []TranscriptCourse{{Code: "CSCE 312", Grade: "IP"}}},
		{Label: "Fall 2024", Courses: []TranscriptCourse{{Code: "CSCE 312", Grade: "B"}}},
	}

	for name, terms := range map[string][]TranscriptTerm{
		"completed then IP": completedFirst,
		"IP then completed": inProgressFirst,
	} {
		index := BuildCourseStatusIndex(terms)
		status, ok := index["CSCE 312"]
		if !ok {
			t.Fatalf("%s: CSCE 312 missing from index", name)
		}
		if status.Status != CourseInProgress {
			t.Errorf("%s: expected in-progress, got %q", name, status.Status)
		}
	}
}

func TestBuildCourseStatusIndexFields(t *testing.T) {
	terms := []TranscriptTerm{
		{Label: "Fall 2020", Courses: []TranscriptCourse{
			{Code: "CHEM 119", Title: "Fund of Chemistry I", Grade: "TA", Transfer: true},
			{Code: "ENGL 104", Title: "HNR Composition & Rhetoric", Grade: "A"},
		}},
	}

	index := BuildCourseStatusIndex(terms)

	chem := index["CHEM 119"]
	if chem.Status != CourseCompleted || !chem.Transfer || chem.Grade != "TA" {
		t.Errorf("unexpected CHEM 119 entry: %+v", chem)
	}
	engl := index["ENGL 104"]
	if !engl.Honors {
		t.Errorf("HNR title should mark honors: %+v", engl)
	}
}
