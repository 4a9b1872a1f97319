package delay

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/abhisek/malla/internal/progress"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Kind identifies the rule that produced a recommendation.
type Kind string

const (
	KindNoProgress        Kind = "no_progress"
	KindSemesterDelay     Kind = "semester_delay"
	KindCriticalAvailable Kind = "critical_available"
	KindNextSemesterPlan  Kind = "next_semester_plan"
	KindLoadImbalance     Kind = "load_imbalance"
)

// Recommendation is one advisory entry.
type Recommendation struct {
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Actions  []string `json:"actions"`
	Priority Priority `json:"priority"`
}

// PlannedCourse is a course picked for the next semester.
type PlannedCourse struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Credits    int    `json:"credits"`
	Critical   bool   `json:"critical"`
	PathLength int    `json:"pathLength"`
}

// Plan is the greedy course selection for the semester after the declared one.
type Plan struct {
	Semester int             `json:"semester"`
	Courses  []PlannedCourse `json:"courses"`
	Credits  int             `json:"credits"`
	// NeedsPrerequisites is set when the semester still has pending courses
	// but none of them can be taken yet.
	NeedsPrerequisites bool `json:"needsPrerequisites"`
}

// NextSemesterPlan picks up to MaxPlannedCourses available courses of the
// next semester, critical ones first, then by credits and path length,
// without exceeding MaxPlannedCredits.
func (a *Analyzer) NextSemesterPlan() Plan {
	next := a.progress.CurrentSemester() + 1
	plan := Plan{Semester: next}

	var candidates []PlannedCourse
	pending := 0
	for _, c := range a.graph.BySemester(next) {
		if a.progress.IsApproved(c.Code) {
			continue
		}
		pending++
		if !a.progress.IsAvailable(c.Code) {
			continue
		}
		candidates = append(candidates, PlannedCourse{
			Code:       c.Code,
			Title:      c.Title,
			Credits:    c.Credits,
			Critical:   a.IsCritical(c.Code),
			PathLength: a.graph.CriticalPathLength(c.Code),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.Critical != cj.Critical {
			return ci.Critical
		}
		if ci.Credits != cj.Credits {
			return ci.Credits > cj.Credits
		}
		return ci.PathLength > cj.PathLength
	})

	for _, c := range candidates {
		if len(plan.Courses) >= a.cfg.MaxPlannedCourses {
			break
		}
		if plan.Credits+c.Credits > a.cfg.MaxPlannedCredits {
			continue
		}
		plan.Courses = append(plan.Courses, c)
		plan.Credits += c.Credits
	}
	plan.NeedsPrerequisites = len(plan.Courses) == 0 && pending > 0
	return plan
}

// Recommendations returns the applicable advice in fixed rule order.
func (a *Analyzer) Recommendations() []Recommendation {
	return slices.Clone(cached(a, reportRecommendations, a.computeRecommendations))
}

func (a *Analyzer) computeRecommendations() []Recommendation {
	m := a.Metrics()
	current := a.SemesterBreakdown()
	var recs []Recommendation

	if m.RealSemester > 1 && current.Approved == 0 {
		recs = append(recs, a.noProgress(m, current))
	}

	if m.SemesterDelay > 0 {
		recs = append(recs, semesterDelay(m))
	}

	var available []CriticalCourse
	for _, c := range cached(a, reportCritical, a.computeCritical) {
		if c.Available {
			available = append(available, c)
		}
	}
	if len(available) > 0 {
		recs = append(recs, criticalAvailable(available))
	}

	if m.RealSemester < a.graph.MaxSemester() {
		if rec, ok := planRecommendation(a.NextSemesterPlan()); ok {
			recs = append(recs, rec)
		}
	}

	load := a.LoadDistribution()
	if cur := load.LoadOf(m.RealSemester); float64(cur) > a.cfg.LoadImbalanceFactor*load.Mean {
		recs = append(recs, Recommendation{
			Kind:  KindLoadImbalance,
			Title: "Heavy load this semester",
			Actions: []string{
				fmt.Sprintf("Current load: %d credits", cur),
				fmt.Sprintf("Average: %d credits", int(math.Round(load.Mean))),
				"Consider spreading your workload more evenly",
			},
			Priority: PriorityMedium,
		})
	}

	return recs
}

func (a *Analyzer) noProgress(m Metrics, b SemesterBreakdown) Recommendation {
	actions := []string{
		fmt.Sprintf("No course of semester %d is approved yet", m.RealSemester),
		fmt.Sprintf("Expected credits: %d", b.Credits),
		fmt.Sprintf("Focus on the %d available course(s)", b.Available),
	}
	switch {
	case b.Available > 0:
		var codes []string
		for _, c := range b.Courses {
			if c.Status == progress.StatusAvailable && len(codes) < 3 {
				codes = append(codes, c.Code)
			}
		}
		actions = append(actions, "Prioritize: "+strings.Join(codes, ", "))
	case b.Total == 0:
		actions = append(actions, "The catalog schedules no courses for this semester")
	default:
		actions = append(actions, "Review the prerequisites of blocked courses")
	}
	return Recommendation{
		Kind:     KindNoProgress,
		Title:    "No progress in the current semester",
		Actions:  actions,
		Priority: PriorityHigh,
	}
}

func semesterDelay(m Metrics) Recommendation {
	priority := PriorityMedium
	advice := "Try to approve one or two extra courses"
	if m.SemesterDelay > 1 {
		priority = PriorityHigh
		advice = "Consider a heavier course load this semester"
	}
	return Recommendation{
		Kind:  KindSemesterDelay,
		Title: fmt.Sprintf("%d semester(s) behind", m.SemesterDelay),
		Actions: []string{
			fmt.Sprintf("Ideal semester: %d (by credits)", m.IdealSemester),
			fmt.Sprintf("Current semester: %d", m.RealSemester),
			fmt.Sprintf("Deficit: %d credits", m.CreditDeficit),
			advice,
		},
		Priority: priority,
	}
}

func criticalAvailable(courses []CriticalCourse) Recommendation {
	var actions []string
	for _, c := range courses[:min(3, len(courses))] {
		actions = append(actions, fmt.Sprintf("%s - semester %d (blocks %d courses, %d credits)", c.Code, c.Semester, c.Blocks, c.Credits))
	}
	return Recommendation{
		Kind:     KindCriticalAvailable,
		Title:    fmt.Sprintf("%d critical course(s) available", len(courses)),
		Actions:  actions,
		Priority: PriorityHigh,
	}
}

func planRecommendation(p Plan) (Recommendation, bool) {
	var actions []string
	for _, c := range p.Courses {
		label := "recommended"
		if c.Critical {
			label = "CRITICAL"
		}
		actions = append(actions, fmt.Sprintf("%s - %d credits (%s)", c.Code, c.Credits, label))
	}
	if p.NeedsPrerequisites {
		actions = append(actions, "Approve the missing prerequisites first")
	}
	if len(actions) == 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		Kind:     KindNextSemesterPlan,
		Title:    fmt.Sprintf("Plan for semester %d", p.Semester),
		Actions:  actions,
		Priority: PriorityMedium,
	}, true
}
