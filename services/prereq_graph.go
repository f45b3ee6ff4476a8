package services

import (
	"sort"

	"github.com/howdyplanner/api/catalog"
)

// PrereqGraph answers completion and prerequisite questions against the
// static catalog, deferring to transcript-derived status whenever the
// transcript has data for a code.
type PrereqGraph struct {
	catalog *catalog.Catalog
	index   CourseStatusIndex
}

// NewPrereqGraph builds a graph over the immutable catalog and a course
// status index. A nil index means no transcript is loaded; catalog hints
// then answer everything.
func NewPrereqGraph(cat *catalog.Catalog, index CourseStatusIndex) *PrereqGraph {
	return &PrereqGraph{catalog: cat, index: index}
}

// IsCourseCompleted reports whether a course counts as completed. The
// transcript wins over the catalog hint.
func (g *PrereqGraph) IsCourseCompleted(code string) bool {
	if status, ok := g.index[code]; ok {
		return status.Status == CourseCompleted
	}
	if course, ok := g.catalog.Lookup(code); ok {
		return course.Status == catalog.StatusCompleted
	}
	return false
}

// IsCourseInProgress reports whether a course is currently being taken.
func (g *PrereqGraph) IsCourseInProgress(code string) bool {
	if status, ok := g.index[code]; ok {
		return status.Status == CourseInProgress
	}
	if course, ok := g.catalog.Lookup(code); ok {
		return course.Status == catalog.StatusInProgress
	}
	return false
}

// CollectUnmetPrerequisites walks the prerequisite ancestry of a course
// and returns every unsatisfied ancestor code, sorted. Satisfied branches
// are not descended. The walk is an explicit stack with a visited set, so
// deep or even cyclic catalog data cannot overflow it; a cycle simply
// contributes nothing further.
func (g *PrereqGraph) CollectUnmetPrerequisites(code string) []string {
	visited := map[string]bool{code: true}
	unmet := make(map[string]bool)

	course, ok := g.catalog.Lookup(code)
	if !ok {
		return nil
	}
	stack := append([]string(nil), course.Prereqs...)

	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[next] {
			continue
		}
		visited[next] = true

		if g.IsCourseCompleted(next) {
			continue
		}
		unmet[next] = true

		if entry, ok := g.catalog.Lookup(next); ok {
			stack = append(stack, entry.Prereqs...)
		}
	}

	codes := make([]string, 0, len(unmet))
	for c := range unmet {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
