package delay

import (
	"github.com/abhisek/malla/internal/progress"
)

// BreakdownCourse is one course of a semester breakdown.
type BreakdownCourse struct {
	Code     string          `json:"code"`
	Title    string          `json:"title"`
	Credits  int             `json:"credits"`
	Status   progress.Status `json:"status"`
	Critical bool            `json:"critical"`
	Missing  []string        `json:"missing,omitempty"`
}

// SemesterBreakdown partitions the courses of one semester by status.
type SemesterBreakdown struct {
	Semester        int               `json:"semester"`
	Courses         []BreakdownCourse `json:"courses"`
	Total           int               `json:"total"`
	Approved        int               `json:"approved"`
	Available       int               `json:"available"`
	Blocked         int               `json:"blocked"`
	Credits         int               `json:"credits"`
	ApprovedCredits int               `json:"approvedCredits"`
	ApprovedPercent int               `json:"approvedPercent"`
	CreditPercent   int               `json:"creditPercent"`
}

// SemesterBreakdown returns the breakdown of the declared semester.
func (a *Analyzer) SemesterBreakdown() SemesterBreakdown {
	return a.BreakdownFor(a.progress.CurrentSemester())
}

// BreakdownFor returns the breakdown of semester s. Semesters without
// courses yield an empty breakdown.
func (a *Analyzer) BreakdownFor(s int) SemesterBreakdown {
	b := SemesterBreakdown{Semester: s}
	for _, c := range a.graph.BySemester(s) {
		st := a.progress.Status(c.Code)
		bc := BreakdownCourse{
			Code:    c.Code,
			Title:   c.Title,
			Credits: c.Credits,
			Status:  st.Status,
			Missing: st.Missing,
		}
		b.Total++
		b.Credits += c.Credits
		switch st.Status {
		case progress.StatusApproved:
			b.Approved++
			b.ApprovedCredits += c.Credits
		case progress.StatusAvailable:
			b.Available++
			bc.Critical = a.IsCritical(c.Code)
		default:
			b.Blocked++
			bc.Critical = a.IsCritical(c.Code)
		}
		b.Courses = append(b.Courses, bc)
	}
	b.ApprovedPercent = progress.Percent(b.Approved, b.Total)
	b.CreditPercent = progress.Percent(b.ApprovedCredits, b.Credits)
	return b
}
