package report

import (
	"fmt"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/ui/components"
)

// Areas renders per-area progress bars and the approved load per semester.
func (r *Renderer) Areas(areas []delay.AreaProgress, load delay.LoadDistribution) {
	r.header("Areas", plural(len(areas), "area", "areas"))

	r.section("By area")
	for _, a := range areas {
		label := fit(a.Name, 22)
		bar := components.NewProgressBar(r.th, label, float64(a.CreditPercent)/100, true, r.width-20)
		r.println("  ", bar.View(), " ", r.th.Hint.Render(fmt.Sprintf("%d/%d", a.Approved, a.Courses)))
	}

	r.section("Approved credits per semester")
	for _, sl := range load.Semesters {
		pct := 0.0
		if sl.Credits > 0 {
			pct = float64(sl.ApprovedCredits) / float64(sl.Credits)
		}
		bar := components.NewProgressBar(r.th, fmt.Sprintf("S%-2d", sl.Semester), pct, false, r.width-20)
		note := fmt.Sprintf("%2d/%2d cr", sl.ApprovedCredits, sl.Credits)
		for _, low := range load.LowLoad {
			if low == sl.Semester {
				note = r.th.Warn.Render(note + " low")
			}
		}
		r.println("  ", bar.View(), " ", note)
	}
	r.println()
	r.println("  ", r.th.Hint.Render(fmt.Sprintf("mean %.1f credits per semester", load.Mean)))
}

// Validation renders catalog integrity issues.
func (r *Renderer) Validation(g *curriculum.Graph, rep curriculum.Report) {
	r.header("Catalog", g.Name())
	r.println()
	r.kv("Courses", fmt.Sprintf("%d", g.Len()))
	r.kv("Semesters", fmt.Sprintf("%d", g.MaxSemester()))
	r.kv("Total credits", fmt.Sprintf("%d", g.TotalCredits()))
	r.kv("Entry courses", fmt.Sprintf("%d", len(g.Roots())))

	if rep.OK() {
		r.println()
		r.Success("No integrity issues.")
		return
	}
	r.section(plural(len(rep.Issues), "issue", "issues"))
	for _, is := range rep.Issues {
		style := r.th.Warn
		if is.Kind == curriculum.IssueCycle || is.Kind == curriculum.IssueDanglingPrerequisite {
			style = r.th.Critical
		}
		r.println("  ", style.Render(fit(string(is.Kind), 22)), " ", is.Message)
	}
}
