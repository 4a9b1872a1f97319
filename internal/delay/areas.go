package delay

import (
	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
)

// AreaProgress is the approval count and credit total of one subject area.
type AreaProgress struct {
	Area            curriculum.Area `json:"area"`
	Name            string          `json:"name"`
	Courses         int             `json:"courses"`
	Approved        int             `json:"approved"`
	Credits         int             `json:"credits"`
	ApprovedCredits int             `json:"approvedCredits"`
	CoursePercent   int             `json:"coursePercent"`
	CreditPercent   int             `json:"creditPercent"`
}

// AreaProgress returns one entry per area in order of first appearance.
func (a *Analyzer) AreaProgress() []AreaProgress {
	var out []AreaProgress
	for _, area := range a.graph.Areas() {
		ap := AreaProgress{Area: area, Name: curriculum.AreaDisplayName(area)}
		for _, c := range a.graph.ByArea(area) {
			ap.Courses++
			ap.Credits += c.Credits
			if a.progress.IsApproved(c.Code) {
				ap.Approved++
				ap.ApprovedCredits += c.Credits
			}
		}
		ap.CoursePercent = progress.Percent(ap.Approved, ap.Courses)
		ap.CreditPercent = progress.Percent(ap.ApprovedCredits, ap.Credits)
		out = append(out, ap)
	}
	return out
}

// SemesterLoad is the approved load of one catalog semester.
type SemesterLoad struct {
	Semester        int `json:"semester"`
	Courses         int `json:"courses"`
	Approved        int `json:"approved"`
	Credits         int `json:"credits"`
	ApprovedCredits int `json:"approvedCredits"`
}

// LoadDistribution summarizes approved credits per catalog semester.
type LoadDistribution struct {
	Semesters []SemesterLoad `json:"semesters"`
	// Mean is the average approved credits over all catalog semesters.
	Mean float64 `json:"mean"`
	// LowLoad lists past semesters whose approved credits fall below
	// LowLoadRatio of the ideal pace.
	LowLoad []int `json:"lowLoad,omitempty"`
}

// LoadDistribution returns the approved load of every catalog semester.
func (a *Analyzer) LoadDistribution() LoadDistribution {
	var d LoadDistribution
	declared := a.progress.CurrentSemester()
	lowBelow := a.cfg.LowLoadRatio * float64(a.cfg.CreditsPerIdealSemester)

	total := 0
	for _, s := range a.graph.Semesters() {
		sl := SemesterLoad{Semester: s}
		for _, c := range a.graph.BySemester(s) {
			sl.Courses++
			sl.Credits += c.Credits
			if a.progress.IsApproved(c.Code) {
				sl.Approved++
				sl.ApprovedCredits += c.Credits
			}
		}
		total += sl.ApprovedCredits
		if s < declared && float64(sl.ApprovedCredits) < lowBelow {
			d.LowLoad = append(d.LowLoad, s)
		}
		d.Semesters = append(d.Semesters, sl)
	}
	if n := len(d.Semesters); n > 0 {
		d.Mean = float64(total) / float64(n)
	}
	return d
}

// LoadOf returns the approved credits of semester s, 0 outside the catalog.
func (d LoadDistribution) LoadOf(s int) int {
	for _, sl := range d.Semesters {
		if sl.Semester == s {
			return sl.ApprovedCredits
		}
	}
	return 0
}
