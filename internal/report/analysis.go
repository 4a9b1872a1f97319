package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/layout"
)

// Analysis is the full delay report, also used for JSON output.
type Analysis struct {
	Metrics           delay.Metrics           `json:"metrics"`
	CriticalThreshold int                     `json:"criticalThreshold"`
	CriticalCourses   []delay.CriticalCourse  `json:"criticalCourses"`
	BlockedSequences  []delay.BlockedSequence `json:"blockedSequences"`
	Breakdown         delay.SemesterBreakdown `json:"semesterBreakdown"`
	Load              delay.LoadDistribution  `json:"loadDistribution"`
	Recommendations   []delay.Recommendation  `json:"recommendations"`
}

// NewAnalysis collects every analyzer report of s.
func NewAnalysis(s *session.Session) Analysis {
	return Analysis{
		Metrics:           s.Metrics(),
		CriticalThreshold: s.CriticalThreshold(),
		CriticalCourses:   s.CriticalCourses(),
		BlockedSequences:  s.BlockedSequences(),
		Breakdown:         s.SemesterBreakdown(),
		Load:              s.LoadDistribution(),
		Recommendations:   s.Recommendations(),
	}
}

// Analysis renders the delay analysis.
func (r *Renderer) Analysis(a Analysis) {
	r.header("Delay analysis", fmt.Sprintf("semester %d", a.Metrics.RealSemester))

	r.section("Metrics")
	r.metricsSummary(a.Metrics)
	r.kv("Approved credits", fmt.Sprintf("%d", a.Metrics.ApprovedCredits))
	r.kv("Expected by now", fmt.Sprintf("%d", a.Metrics.ExpectedCreditsReal))
	r.kv("Remaining credits", fmt.Sprintf("%d", a.Metrics.RemainingCredits))

	r.section(fmt.Sprintf("Critical courses (threshold %d)", a.CriticalThreshold))
	if len(a.CriticalCourses) == 0 {
		r.println("  ", r.th.Hint.Render("No pending course blocks enough others to be critical."))
	}
	for _, c := range a.CriticalCourses {
		state := r.th.Blocked.Render("blocked")
		if c.Available {
			state = r.th.Available.Render("available")
		}
		r.println("  ",
			r.th.Critical.Render(fit(c.Code, codeWidth)), " ",
			fit(c.Title, titleWidth-8), " ",
			fmt.Sprintf("blocks %2d  path %d  ", c.Blocks, c.PathLength),
			state)
	}

	r.section("Blocked sequences")
	if len(a.BlockedSequences) == 0 {
		r.println("  ", r.th.Hint.Render("none"))
	}
	for _, seq := range a.BlockedSequences {
		r.println("  ", r.th.Warn.Render(fit(seq.Start, codeWidth)), " ",
			r.th.Hint.Render(fmt.Sprintf("%s, criticality %d: ", plural(seq.Length, "course", "courses"), seq.Criticality)),
			strings.Join(seq.Courses, " → "))
	}

	if len(a.Load.LowLoad) > 0 {
		r.section("Low-load semesters")
		for _, s := range a.Load.LowLoad {
			r.println("  ", r.th.Warn.Render(fmt.Sprintf("Semester %d", s)), " ",
				r.th.Hint.Render(fmt.Sprintf("%d credits approved", a.Load.LoadOf(s))))
		}
	}

	r.section("Recommendations")
	if len(a.Recommendations) == 0 {
		r.println("  ", r.th.Approved.Render("Nothing to flag. Keep going."))
	}
	for _, rec := range a.Recommendations {
		r.recommendation(rec)
	}

	r.footer(
		layout.Hint{Command: "malla plan", Description: "suggested courses"},
		layout.Hint{Command: "malla analyze --json", Description: "machine-readable"},
	)
}

func (r *Renderer) recommendation(rec delay.Recommendation) {
	tag := r.priorityStyle(rec.Priority).Render("[" + strings.ToUpper(string(rec.Priority)) + "]")
	r.println("  ", tag, " ", r.th.Body.Render(rec.Title))
	for _, act := range rec.Actions {
		r.println("     • ", r.th.Hint.Render(act))
	}
}

// Plan renders the suggested course selection for the next semester.
func (r *Renderer) Plan(p delay.Plan, limits delay.Config) {
	r.header("Next semester plan", fmt.Sprintf("semester %d", p.Semester))
	r.println()
	switch {
	case p.NeedsPrerequisites:
		r.println("  ", r.th.Warn.Render(fmt.Sprintf("Semester %d still has pending courses, but their prerequisites are not approved yet.", p.Semester)))
		return
	case len(p.Courses) == 0:
		r.println("  ", r.th.Hint.Render(fmt.Sprintf("Nothing left to take in semester %d.", p.Semester)))
		return
	}
	for i, c := range p.Courses {
		line := fmt.Sprintf("%d. %s %s %2d cr", i+1, fit(c.Code, codeWidth), fit(c.Title, titleWidth), c.Credits)
		if c.Critical {
			line = r.th.Critical.Render(line) + " " + r.th.Critical.Render("critical")
		} else {
			line = r.th.Available.Render(line)
		}
		r.println("  ", line)
	}
	r.println()
	r.println("  ", r.th.Hint.Render(fmt.Sprintf("%d of at most %d credits, %d of at most %d courses",
		p.Credits, limits.MaxPlannedCredits, len(p.Courses), limits.MaxPlannedCourses)))
}
