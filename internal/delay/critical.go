package delay

import (
	"math"
	"slices"
	"sort"
)

// CriticalCourse is an unapproved course that holds back many others.
type CriticalCourse struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Semester int    `json:"semester"`
	Credits  int    `json:"credits"`

	// Blocks counts the unapproved courses reachable through unapproved
	// dependents.
	Blocks     int  `json:"blocks"`
	Available  bool `json:"available"`
	PathLength int  `json:"pathLength"`
	Impact     int  `json:"impact"`
}

// CriticalThreshold returns the effective-dependent count from which an
// unapproved course is critical. It grows with the remaining workload.
func (a *Analyzer) CriticalThreshold() int {
	pending := 0
	for _, c := range a.graph.Courses() {
		if !a.progress.IsApproved(c.Code) {
			pending++
		}
	}
	return a.thresholdFor(pending)
}

func (a *Analyzer) thresholdFor(pending int) int {
	// The epsilon keeps ratio*pending from rounding up on float noise,
	// e.g. 0.1*30 == 3.0000000000000004.
	scaled := int(math.Ceil(a.cfg.CriticalThresholdRatio*float64(pending) - 1e-9))
	return max(a.cfg.CriticalThresholdBase, scaled)
}

// CriticalCourses returns the critical courses by impact, highest first.
// Equal impacts keep catalog order.
func (a *Analyzer) CriticalCourses() []CriticalCourse {
	return slices.Clone(cached(a, reportCritical, a.computeCritical))
}

func (a *Analyzer) computeCritical() []CriticalCourse {
	threshold := a.CriticalThreshold()

	var out []CriticalCourse
	for _, c := range a.graph.Courses() {
		if a.progress.IsApproved(c.Code) {
			continue
		}
		blocks := len(a.EffectiveDependents(c.Code))
		if blocks < threshold {
			continue
		}
		pathLen := a.graph.CriticalPathLength(c.Code)
		out = append(out, CriticalCourse{
			Code:       c.Code,
			Title:      c.Title,
			Semester:   c.Semester,
			Credits:    c.Credits,
			Blocks:     blocks,
			Available:  a.progress.IsAvailable(c.Code),
			PathLength: pathLen,
			Impact:     blocks * (pathLen + 1),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Impact > out[j].Impact
	})
	return out
}

// IsCritical reports whether code is currently critical.
func (a *Analyzer) IsCritical(code string) bool {
	for _, c := range cached(a, reportCritical, a.computeCritical) {
		if c.Code == code {
			return true
		}
	}
	return false
}

// EffectiveDependents returns the unapproved courses reachable from code
// through unapproved dependents, in discovery order. Approved dependents
// stop the walk.
func (a *Analyzer) EffectiveDependents(code string) []string {
	visited := map[string]bool{code: true}
	stack := []string{code}
	var out []string
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range a.graph.DependentCodes(cur) {
			if visited[d] {
				continue
			}
			visited[d] = true
			if a.progress.IsApproved(d) {
				continue
			}
			out = append(out, d)
			stack = append(stack, d)
		}
	}
	return out
}
