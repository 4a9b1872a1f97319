package report

import (
	"fmt"

	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/components"
	"github.com/abhisek/malla/internal/ui/layout"
)

// Status renders the overview: credit progress, delay summary and the
// declared semester at a glance.
func (r *Renderer) Status(s *session.Session) {
	credits := s.CreditSummary()
	m := s.Metrics()
	b := s.SemesterBreakdown()

	r.header(s.Graph().Name(), fmt.Sprintf("semester %d", s.CurrentSemester()))
	r.println()

	bar := components.NewProgressBar(r.th, "Credits", float64(credits.Percentage)/100, true, r.width-2)
	r.println("  ", bar.View())
	r.println("  ", r.th.Hint.Render(fmt.Sprintf("%d of %d credits approved", credits.Approved, credits.Total)))

	r.section("Progress")
	r.metricsSummary(m)

	r.section(fmt.Sprintf("Semester %d", b.Semester))
	if b.Total == 0 {
		r.println("  ", r.th.Hint.Render("No courses are scheduled for this semester."))
	} else {
		r.println("  ", fmt.Sprintf("%s  %s  %s",
			r.th.Approved.Render(fmt.Sprintf("%d approved", b.Approved)),
			r.th.Available.Render(fmt.Sprintf("%d available", b.Available)),
			r.th.Blocked.Render(fmt.Sprintf("%d blocked", b.Blocked))))
		r.println("  ", r.th.Hint.Render(fmt.Sprintf("%d%% of courses, %d%% of credits", b.ApprovedPercent, b.CreditPercent)))
	}

	if recs := s.Recommendations(); len(recs) > 0 {
		r.section("Top recommendation")
		r.recommendation(recs[0])
	}

	r.footer(
		layout.Hint{Command: "malla analyze", Description: "full delay analysis"},
		layout.Hint{Command: "malla plan", Description: "next semester"},
		layout.Hint{Command: "malla courses", Description: "browse"},
	)
}

func (r *Renderer) metricsSummary(m delay.Metrics) {
	delayText := "on track"
	if m.SemesterDelay > 0 {
		delayText = plural(m.SemesterDelay, "semester behind", "semesters behind")
	}
	r.kv("Ideal semester", fmt.Sprintf("%d", m.IdealSemester))
	r.kv("Declared semester", fmt.Sprintf("%d", m.RealSemester))
	r.kv("Delay", r.levelStyle(m.DelayLevel).Render(delayText))
	r.kv("Credit deficit", r.levelStyle(m.DeficitLevel).Render(
		fmt.Sprintf("%d (margin %d)", m.CreditDeficit, m.AdaptiveMargin)))
	r.kv("Critical courses", r.levelStyle(m.CriticalLevel).Render(fmt.Sprintf("%d", m.CriticalCount)))

	proj := fmt.Sprintf("semester %d", m.ProjectedFinalSemester)
	if m.ExceedsProgramLength {
		proj = r.th.Warn.Render(proj + " (beyond program length)")
	}
	r.kv("Projected finish", proj)
}

func (r *Renderer) kv(label, value string) {
	r.println("  ", r.th.Hint.Render(fit(label, 20)), value)
}

// Tunables renders the delay tunables in effect, marking user overrides.
func (r *Renderer) Tunables(cfg delay.Config, o delay.Overrides) {
	mark := func(set bool, v string) string {
		if set {
			return v + " " + r.th.Subtitle.Render("(override)")
		}
		return v
	}
	r.section("Delay tunables")
	r.kv("Credits/semester", mark(o.CreditsPerIdealSemester != nil, fmt.Sprintf("%d", cfg.CreditsPerIdealSemester)))
	r.kv("Total semesters", mark(o.TotalSemesters != nil, fmt.Sprintf("%d", cfg.TotalSemesters)))
	r.kv("Delay margin", mark(o.DelayMargin != nil, fmt.Sprintf("%d", cfg.DelayMargin)))
	r.kv("Critical base", fmt.Sprintf("%d", cfg.CriticalThresholdBase))
	r.kv("Critical ratio", fmt.Sprintf("%g", cfg.CriticalThresholdRatio))
	r.kv("Plan limits", fmt.Sprintf("%d courses, %d credits", cfg.MaxPlannedCourses, cfg.MaxPlannedCredits))
	r.kv("Cache TTL", cfg.CacheTTL.String())
}
