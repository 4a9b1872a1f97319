package session

import (
	"fmt"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
)

// CourseView is a course joined with the student's state.
type CourseView struct {
	curriculum.Course
	Status     progress.Status `json:"status"`
	Missing    []string        `json:"missing,omitempty"`
	Unlocks    []string        `json:"unlocks,omitempty"`
	Critical   bool            `json:"critical"`
	PathLength int             `json:"pathLength"`
}

// Filter narrows Courses. Zero fields match everything.
type Filter struct {
	Area     curriculum.Area
	Semester int
	Query    string
	// OnlyAvailable keeps approved and available courses, hiding blocked ones.
	OnlyAvailable bool
}

func (f Filter) match(v CourseView) bool {
	switch {
	case f.Area != "" && v.Area != f.Area:
		return false
	case f.Semester > 0 && v.Semester != f.Semester:
		return false
	case f.OnlyAvailable && v.Status == progress.StatusBlocked:
		return false
	}
	return v.Matches(f.Query)
}

// Courses returns the courses passing f, ordered by semester and then by
// declaration.
func (s *Session) Courses(f Filter) []CourseView {
	var out []CourseView
	for _, sem := range s.graph.Semesters() {
		for _, c := range s.graph.BySemester(sem) {
			if v := s.view(c); f.match(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// Course returns the view of a single course.
func (s *Session) Course(code string) (CourseView, error) {
	c, err := s.graph.Course(code)
	if err != nil {
		return CourseView{}, err
	}
	return s.view(c), nil
}

// ResolveCode maps user input to a catalog code: an exact code, a code in
// any case, or a title matching without regard to case or accents.
func (s *Session) ResolveCode(input string) (string, error) {
	if s.graph.Has(input) {
		return input, nil
	}
	want := curriculum.Fold(input)
	var byTitle []string
	for _, c := range s.graph.Courses() {
		if curriculum.Fold(c.Code) == want {
			return c.Code, nil
		}
		if curriculum.Fold(c.Title) == want {
			byTitle = append(byTitle, c.Code)
		}
	}
	switch len(byTitle) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownCourse, input)
	case 1:
		return byTitle[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %v", input, byTitle)
	}
}

func (s *Session) view(c curriculum.Course) CourseView {
	st := s.progress.Status(c.Code)
	return CourseView{
		Course:     c,
		Status:     st.Status,
		Missing:    st.Missing,
		Unlocks:    s.graph.DependentCodes(c.Code),
		Critical:   s.analyzer.IsCritical(c.Code),
		PathLength: s.graph.CriticalPathLength(c.Code),
	}
}
