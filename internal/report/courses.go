package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/session"
)

const (
	codeWidth  = 10
	titleWidth = 44
)

// Courses renders views grouped by semester. Views are expected in
// semester order, as Session.Courses returns them.
func (r *Renderer) Courses(views []session.CourseView) {
	if len(views) == 0 {
		r.println(r.th.Hint.Render("No courses match."))
		return
	}
	sem := 0
	for _, v := range views {
		if v.Semester != sem {
			sem = v.Semester
			r.section(fmt.Sprintf("Semester %d", sem))
		}
		r.courseLine(v)
	}
	r.println()
	r.println(r.th.Hint.Render(plural(len(views), "course", "courses")))
}

func (r *Renderer) courseLine(v session.CourseView) {
	style := r.statusStyle(v.Status)
	line := fmt.Sprintf("%s %s %s %2d cr",
		v.Status.Icon(),
		fit(v.Code, codeWidth),
		fit(v.Title, titleWidth),
		v.Credits)
	out := "  " + style.Render(line)
	if v.Critical {
		out += " " + r.th.Critical.Render("critical")
	}
	r.println(out)
}

// Course renders the detail view of a single course.
func (r *Renderer) Course(v session.CourseView, g *curriculum.Graph) {
	r.header(v.Code, v.Status.Label())
	r.println()
	r.println("  ", r.th.Title.Render(v.Title))
	r.kv("Semester", fmt.Sprintf("%d", v.Semester))
	r.kv("Credits", fmt.Sprintf("%d", v.Credits))
	r.kv("Area", curriculum.AreaDisplayName(v.Area))
	r.kv("Status", r.statusStyle(v.Status).Render(v.Status.Icon()+" "+v.Status.Label()))
	r.kv("Critical path", plural(v.PathLength, "step", "steps"))
	if v.Critical {
		r.kv("Critical", r.th.Critical.Render("yes"))
	}

	r.section("Prerequisites")
	r.codeList(g, v.Prerequisites, func(code string) string {
		for _, m := range v.Missing {
			if m == code {
				return "missing"
			}
		}
		return ""
	})

	r.section("Unlocks")
	r.codeList(g, v.Unlocks, nil)

	if all := g.AllDependents(v.Code); len(all) > len(v.Unlocks) {
		r.println()
		r.println("  ", r.th.Hint.Render(fmt.Sprintf("%s depend on it transitively.", plural(len(all), "course", "courses"))))
	}
}

func (r *Renderer) codeList(g *curriculum.Graph, codes []string, note func(string) string) {
	if len(codes) == 0 {
		r.println("  ", r.th.Hint.Render("none"))
		return
	}
	for _, code := range codes {
		title := ""
		if c, err := g.Course(code); err == nil {
			title = c.Title
		}
		line := "  " + fit(code, codeWidth) + " " + title
		if note != nil {
			if n := note(code); n != "" {
				line += "  " + r.th.Warn.Render(n)
			}
		}
		r.println(line)
	}
}

// ApproveResult renders the outcome of an approval.
func (r *Renderer) ApproveResult(res progress.ApproveResult) {
	switch {
	case res.AlreadyApproved:
		r.Message("%s was already approved.", res.Code)
	case res.Approved:
		r.Success("Approved %s.", res.Code)
	default:
		r.Warning("%s cannot be approved yet. Missing: %s", res.Code, strings.Join(res.Missing, ", "))
	}
}

// Unapproved renders the outcome of an unapproval.
func (r *Renderer) Unapproved(code string, wasApproved bool, removed []string) {
	if !wasApproved {
		r.Message("%s was not approved.", code)
		return
	}
	r.Success("Unapproved %s.", code)
	if len(removed) > 0 {
		r.Warning("Also unapproved %s: %s", plural(len(removed), "dependent", "dependents"), strings.Join(removed, ", "))
	}
}
