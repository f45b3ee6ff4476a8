package catalog

// CourseStatus is the static availability hint carried by the catalog.
// It is superseded by transcript-derived status whenever the transcript
// has data for the course.
type CourseStatus string

const (
	StatusCompleted  CourseStatus = "completed"
	StatusInProgress CourseStatus = "in-progress"
	StatusAvailable  CourseStatus = "available"
	StatusLocked     CourseStatus = "locked"
)

// Course is one catalog entry keyed by its code (e.g. "CSCE 221").
type Course struct {
	Code       string       `json:"code"`
	Title      string       `json:"title"`
	Credits    float64      `json:"credits"`
	Difficulty int          `json:"difficulty"` // 1-5 planning heuristic
	Prereqs    []string     `json:"prereqs"`
	Status     CourseStatus `json:"status"`
	Grade      string       `json:"grade,omitempty"`
}

// ComboSeverity classifies a risky combination rule.
type ComboSeverity string

const (
	SeverityHigh   ComboSeverity = "high"
	SeverityMedium ComboSeverity = "medium"
)

// RiskyCombo flags a set of courses as a heavy load when co-scheduled.
type RiskyCombo struct {
	Courses  []string      `json:"courses"`
	Message  string        `json:"message"`
	Severity ComboSeverity `json:"severity"`
}

// Catalog is the immutable planning reference data. It is loaded once at
// startup and passed by reference; nothing mutates it at runtime.
type Catalog struct {
	Courses     map[string]Course
	RiskyCombos []RiskyCombo
}

// Lookup returns the catalog entry for a code.
func (c *Catalog) Lookup(code string) (Course, bool) {
	course, ok := c.Courses[code]
	return course, ok
}

// Default returns the built-in CS catalog used when no external catalog
// file is configured.
func Default() *Catalog {
	courses := []Course{
		{Code: "CSCE 121", Title: "Intro to Program Design", Credits: 4, Difficulty: 3, Status: StatusCompleted, Grade: "A"},
		{Code: "CSCE 221", Title: "Data Structures & Algorithms", Credits: 4, Difficulty: 5, Prereqs: []string{"CSCE 121"}, Status: StatusCompleted, Grade: "B+"},
		{Code: "CSCE 222", Title: "Discrete Structures", Credits: 3, Difficulty: 4, Prereqs: []string{"MATH 151"}, Status: StatusCompleted, Grade: "A-"},
		{Code: "CSCE 310", Title: "Database Systems", Credits: 3, Difficulty: 3, Prereqs: []string{"CSCE 221"}, Status: StatusAvailable},
		{Code: "CSCE 312", Title: "Computer Organization", Credits: 4, Difficulty: 5, Prereqs: []string{"CSCE 221"}, Status: StatusInProgress},
		{Code: "CSCE 313", Title: "Intro to Computer Systems", Credits: 4, Difficulty: 4, Prereqs: []string{"CSCE 221"}, Status: StatusAvailable},
		{Code: "CSCE 314", Title: "Programming Languages", Credits: 3, Difficulty: 4, Prereqs: []string{"CSCE 221"}, Status: StatusAvailable},
		{Code: "CSCE 331", Title: "Foundations of Software Eng", Credits: 3, Difficulty: 4, Prereqs: []string{"CSCE 221"}, Status: StatusAvailable},
		{Code: "CSCE 399", Title: "High Impact Experience", Credits: 1, Difficulty: 2, Status: StatusAvailable},
		{Code: "CSCE 411", Title: "Design/Analysis of Algorithms", Credits: 3, Difficulty: 5, Prereqs: []string{"CSCE 221", "CSCE 222"}, Status: StatusAvailable},
		{Code: "CSCE 420", Title: "Artificial Intelligence", Credits: 3, Difficulty: 4, Prereqs: []string{"CSCE 221"}, Status: StatusAvailable},
		{Code: "CSCE 421", Title: "Machine Learning", Credits: 3, Difficulty: 5, Prereqs: []string{"CSCE 221", "MATH 304"}, Status: StatusLocked},
		{Code: "CSCE 463", Title: "Networks & Distributed Processing", Credits: 3, Difficulty: 4, Prereqs: []string{"CSCE 313"}, Status: StatusLocked},
		{Code: "MATH 151", Title: "Calculus I", Credits: 4, Difficulty: 4, Status: StatusCompleted, Grade: "B"},
		{Code: "MATH 152", Title: "Calculus II", Credits: 4, Difficulty: 4, Prereqs: []string{"MATH 151"}, Status: StatusCompleted, Grade: "B+"},
		{Code: "MATH 304", Title: "Linear Algebra", Credits: 3, Difficulty: 4, Prereqs: []string{"MATH 151"}, Status: StatusAvailable},
	}

	byCode := make(map[string]Course, len(courses))
	for _, course := range courses {
		byCode[course.Code] = course
	}

	return &Catalog{
		Courses: byCode,
		RiskyCombos: []RiskyCombo{
			{
				Courses:  []string{"CSCE 221", "CSCE 312"},
				Message:  "High workload - both courses are very intensive",
				Severity: SeverityHigh,
			},
			{
				Courses:  []string{"CSCE 313", "CSCE 331"},
				Message:  "Demanding combination - consider spreading across semesters",
				Severity: SeverityMedium,
			},
		},
	}
}
