package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Season names in academic-year cycle order: a year starts with Fall and
// ends with the following Summer.
const (
	SeasonFall   = "Fall"
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
)

// maxRangeLength bounds BuildSemesterRange so a misconfigured end term
// (one that the cycle can never reach) fails instead of looping forever.
const maxRangeLength = 200

var seasonCycle = []string{SeasonFall, SeasonWinter, SeasonSpring, SeasonSummer}

// seasonOrder is the sort position of a season inside its academic year.
var seasonOrder = map[string]int{
	SeasonFall:   0,
	SeasonWinter: 1,
	SeasonSpring: 2,
	SeasonSummer: 3,
}

// TermLabel formats a season and calendar year as the canonical term label,
// e.g. "Fall 2024".
func TermLabel(season string, year int) string {
	return fmt.Sprintf("%s %d", season, year)
}

// ParseTermLabel splits a term label into its season and calendar year.
func ParseTermLabel(label string) (string, int, error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid term label %q", label)
	}
	season := parts[0]
	if _, ok := seasonOrder[season]; !ok {
		return "", 0, fmt.Errorf("invalid term label %q: unknown season %q", label, season)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid term label %q: %w", label, err)
	}
	return season, year, nil
}

// NextTerm advances one step in the cycle
// Fall y -> Winter y -> Spring y+1 -> Summer y+1 -> Fall y+1.
func NextTerm(season string, year int) (string, int) {
	switch season {
	case SeasonFall:
		return SeasonWinter, year
	case SeasonWinter:
		return SeasonSpring, year + 1
	case SeasonSpring:
		return SeasonSummer, year
	default:
		return SeasonFall, year
	}
}

// BuildSemesterRange generates the ordered, inclusive sequence of term
// labels from (startTerm startYear) to (endTerm endYear). The walk carries
// a hard ceiling; exceeding it means the end term is unreachable from the
// start and is reported as a configuration error.
func BuildSemesterRange(startYear int, startTerm string, endYear int, endTerm string) ([]string, error) {
	if _, ok := seasonOrder[startTerm]; !ok {
		return nil, fmt.Errorf("invalid start term %q", startTerm)
	}
	if _, ok := seasonOrder[endTerm]; !ok {
		return nil, fmt.Errorf("invalid end term %q", endTerm)
	}

	var labels []string
	season, year := startTerm, startYear
	for i := 0; i < maxRangeLength; i++ {
		labels = append(labels, TermLabel(season, year))
		if season == endTerm && year == endYear {
			return labels, nil
		}
		season, year = NextTerm(season, year)
	}
	return nil, fmt.Errorf("semester range from %s to %s exceeds %d terms; check the configured bounds",
		TermLabel(startTerm, startYear), TermLabel(endTerm, endYear), maxRangeLength)
}

// AcademicYearForTerm maps a term label to its academic-year label.
// Fall and Winter belong to the academic year starting in their calendar
// year; Spring and Summer to the one ending in theirs.
func AcademicYearForTerm(label string) (string, error) {
	season, year, err := ParseTermLabel(label)
	if err != nil {
		return "", err
	}
	if season == SeasonFall || season == SeasonWinter {
		return fmt.Sprintf("%d-%d", year, year+1), nil
	}
	return fmt.Sprintf("%d-%d", year-1, year), nil
}

// TermsForAcademicYear is the inverse of AcademicYearForTerm: for a label
// like "2024-2025" it returns [Fall 2024, Winter 2024, Spring 2025,
// Summer 2025].
func TermsForAcademicYear(yearLabel string) ([]string, error) {
	parts := strings.Split(yearLabel, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid academic year label %q", yearLabel)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid academic year label %q: %w", yearLabel, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid academic year label %q: %w", yearLabel, err)
	}
	if end != start+1 {
		return nil, fmt.Errorf("invalid academic year label %q: years must be consecutive", yearLabel)
	}
	return []string{
		TermLabel(SeasonFall, start),
		TermLabel(SeasonWinter, start),
		TermLabel(SeasonSpring, end),
		TermLabel(SeasonSummer, end),
	}, nil
}

// CompareTerms orders two term labels on the calendar. Negative means a is
// earlier than b. Labels that fail to parse sort last.
func CompareTerms(a, b string) int {
	ka := termSortKey(a)
	kb := termSortKey(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	return 0
}

// termSortKey collapses a label into an integer sort key on the academic
// calendar. Unparseable labels sort after everything real.
func termSortKey(label string) int {
	season, year, err := ParseTermLabel(label)
	if err != nil {
		return 1 << 30
	}
	// Key on the academic year start so Fall 2024 < Spring 2025 even
	// though Spring has the later calendar year.
	start := year
	if season == SeasonSpring || season == SeasonSummer {
		start = year - 1
	}
	return start*4 + seasonOrder[season]
}

// TermState classifies a term against an explicit clock.
type TermState struct {
	Past    bool `json:"past"`
	Current bool `json:"current"`
	Future  bool `json:"future"`
	Recent  bool `json:"recent"`
}

// seasonWindow returns the first and last day of a season's teaching
// window in its calendar year.
func seasonWindow(season string, year int) (time.Time, time.Time) {
	switch season {
	case SeasonSpring:
		return date(year, time.January, 1), date(year, time.May, 31)
	case SeasonSummer:
		return date(year, time.June, 1), date(year, time.August, 15)
	case SeasonFall:
		return date(year, time.August, 16), date(year, time.December, 15)
	default: // Winter minimester spans the year boundary
		return date(year, time.December, 16), date(year+1, time.January, 14)
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ClassifyTermState reports whether a term is past, current or future
// relative to now. Recent marks a past term that ended within the last
// twelve months. The clock is a parameter so callers can test
// deterministically.
func ClassifyTermState(label string, now time.Time) (TermState, error) {
	season, year, err := ParseTermLabel(label)
	if err != nil {
		return TermState{}, err
	}
	start, end := seasonWindow(season, year)
	switch {
	case now.Before(start):
		return TermState{Future: true}, nil
	case now.After(end):
		return TermState{Past: true, Recent: now.Sub(end) <= 365*24*time.Hour}, nil
	default:
		return TermState{Current: true}, nil
	}
}
