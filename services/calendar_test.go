package services

import (
	"testing"
	"time"
)

func TestBuildSemesterRange(t *testing.T) {
	labels, err := BuildSemesterRange(2024, SeasonFall, 2026, SeasonSummer)
	if err != nil {
		t.Fatalf("BuildSemesterRange failed: %v", err)
	}

	want := []string{
		"Fall 2024", "Winter 2024", "Spring 2025", "Summer 2025",
		"Fall 2025", "Winter 2025", "Spring 2026", "Summer 2026",
	}
	if len(labels) != len(want) {
		t.Fatalf("expected %d terms, got %d: %v", len(want), len(labels), labels)
	}
	for i, label := range want {
		if labels[i] != label {
			t.Errorf("term %d: expected %q, got %q", i, label, labels[i])
		}
	}
}

func TestBuildSemesterRangeSingleTerm(t *testing.T) {
	labels, err := BuildSemesterRange(2025, SeasonSpring, 2025, SeasonSpring)
	if err != nil {
		t.Fatalf("BuildSemesterRange failed: %v", err)
	}
	if len(labels) != 1 || labels[0] != "Spring 2025" {
		t.Fatalf("expected [Spring 2025], got %v", labels)
	}
}

func TestBuildSemesterRangeUnreachableEnd(t *testing.T) {
	// End before start: the cycle can never reach it, so the ceiling
	// must trip and report a configuration error.
	if _, err := BuildSemesterRange(2025, SeasonFall, 2024, SeasonFall); err == nil {
		t.Fatal("expected error for unreachable end term, got nil")
	}
}

func TestBuildSemesterRangeInvalidSeason(t *testing.T) {
	if _, err := BuildSemesterRange(2024, "Autumn", 2025, SeasonSpring); err == nil {
		t.Fatal("expected error for unknown season, got nil")
	}
}

func TestAcademicYearForTerm(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Fall 2024", "2024-2025"},
		{"Winter 2024", "2024-2025"},
		{"Spring 2025", "2024-2025"},
		{"Summer 2025", "2024-2025"},
		{"Fall 2025", "2025-2026"},
	}
	for _, tc := range cases {
		got, err := AcademicYearForTerm(tc.label)
		if err != nil {
			t.Fatalf("AcademicYearForTerm(%q) failed: %v", tc.label, err)
		}
		if got != tc.want {
			t.Errorf("AcademicYearForTerm(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestAcademicYearRoundTrip(t *testing.T) {
	labels, err := BuildSemesterRange(2023, SeasonFall, 2027, SeasonSummer)
	if err != nil {
		t.Fatalf("BuildSemesterRange failed: %v", err)
	}

	for _, label := range labels {
		year, err := AcademicYearForTerm(label)
		if err != nil {
			t.Fatalf("AcademicYearForTerm(%q) failed: %v", label, err)
		}
		terms, err := TermsForAcademicYear(year)
		if err != nil {
			t.Fatalf("TermsForAcademicYear(%q) failed: %v", year, err)
		}
		if len(terms) != 4 {
			t.Fatalf("TermsForAcademicYear(%q) returned %d terms, want 4", year, len(terms))
		}
		found := false
		for _, term := range terms {
			if term == label {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("round trip lost %q: academic year %q resolved to %v", label, year, terms)
		}
	}
}

func TestTermsForAcademicYearShape(t *testing.T) {
	terms, err := TermsForAcademicYear("2024-2025")
	if err != nil {
		t.Fatalf("TermsForAcademicYear failed: %v", err)
	}
	want := []string{"Fall 2024", "Winter 2024", "Spring 2025", "Summer 2025"}
	for i, label := range want {
		if terms[i] != label {
			t.Errorf("position %d: expected %q, got %q", i, label, terms[i])
		}
	}

	if _, err := TermsForAcademicYear("2024-2026"); err == nil {
		t.Error("expected error for non-consecutive years, got nil")
	}
}

func TestCompareTerms(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"Fall 2024", "Spring 2025", -1}, // same academic year, Fall first
		{"Spring 2025", "Fall 2025", -1}, // next academic year starts with Fall
		{"Winter 2024", "Spring 2025", -1},
		{"Summer 2025", "Fall 2025", -1},
		{"Fall 2024", "Fall 2024", 0},
		{"Spring 2026", "Fall 2024", 1},
	}
	for _, tc := range cases {
		if got := CompareTerms(tc.a, tc.b); got != tc.want {
			t.Errorf("CompareTerms(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestClassifyTermState(t *testing.T) {
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

	current, err := ClassifyTermState("Fall 2025", now)
	if err != nil {
		t.Fatalf("ClassifyTermState failed: %v", err)
	}
	if !current.Current || current.Past || current.Future {
		t.Errorf("Fall 2025 at %v should be current, got %+v", now, current)
	}

	past, err := ClassifyTermState("Spring 2025", now)
	if err != nil {
		t.Fatalf("ClassifyTermState failed: %v", err)
	}
	if !past.Past || !past.Recent {
		t.Errorf("Spring 2025 at %v should be recent past, got %+v", now, past)
	}

	old, err := ClassifyTermState("Fall 2021", now)
	if err != nil {
		t.Fatalf("ClassifyTermState failed: %v", err)
	}
	if !old.Past || old.Recent {
		t.Errorf("Fall 2021 at %v should be non-recent past, got %+v", now, old)
	}

	future, err := ClassifyTermState("Spring 2026", now)
	if err != nil {
		t.Fatalf("ClassifyTermState failed: %v", err)
	}
	if !future.Future {
		t.Errorf("Spring 2026 at %v should be future, got %+v", now, future)
	}
}
