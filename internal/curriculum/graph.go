package curriculum

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownCourse is returned when a course code is not in the catalog.
var ErrUnknownCourse = errors.New("unknown course")

// Graph is the prerequisite DAG derived from a Catalog. It is never mutated
// after Build, so every accessor is safe to call repeatedly.
type Graph struct {
	name    string
	courses []Course
	index   map[string]int

	prereqs    [][]int
	dependents [][]int

	bySemester  map[int][]int
	byArea      map[Area][]int
	areas       []Area
	maxSemester int

	totalCredits    int
	idealCumulative []int // index s holds credits of semesters 1..s

	topoOrder []int
	cyclic    []int
	pathLen   []int
	signature string
}

// Build derives a Graph from cat. Integrity problems are collected in the
// returned Report and never abort the build: duplicate codes keep their first
// declaration, unresolvable prerequisites are dropped, and out-of-range
// numbers are clamped.
func Build(cat Catalog) (*Graph, Report) {
	var rep Report
	g := &Graph{
		name:       cat.Name,
		index:      make(map[string]int, len(cat.Courses)),
		bySemester: make(map[int][]int),
		byArea:     make(map[Area][]int),
		signature:  cat.Signature(),
	}

	titles := make(map[string]string, len(cat.Courses))
	for _, c := range cat.Courses {
		if _, dup := g.index[c.Code]; dup {
			rep.add(IssueDuplicateCode, c.Code, "", "duplicate course code %q (later declaration ignored)", c.Code)
			continue
		}
		if other, dup := titles[c.Title]; dup {
			rep.add(IssueDuplicateTitle, c.Code, other, "course %q reuses title %q of %q", c.Code, c.Title, other)
		} else {
			titles[c.Title] = c.Code
		}
		if c.Semester < 1 {
			rep.add(IssueInvalidSemester, c.Code, "", "course %q has invalid semester %d", c.Code, c.Semester)
			c.Semester = 1
		}
		if c.Credits < 0 {
			rep.add(IssueNegativeCredits, c.Code, "", "course %q has negative credits %d", c.Code, c.Credits)
			c.Credits = 0
		}
		c.Prerequisites = slices.Clone(c.Prerequisites)
		g.index[c.Code] = len(g.courses)
		g.courses = append(g.courses, c)
	}

	n := len(g.courses)
	g.prereqs = make([][]int, n)
	g.dependents = make([][]int, n)
	for i := range g.courses {
		c := &g.courses[i]
		resolved := c.Prerequisites[:0]
		seen := make(map[int]bool, len(c.Prerequisites))
		for _, code := range c.Prerequisites {
			j, ok := g.index[code]
			switch {
			case !ok:
				rep.add(IssueDanglingPrerequisite, c.Code, code, "course %q requires unknown course %q", c.Code, code)
				continue
			case j == i:
				rep.add(IssueSelfPrerequisite, c.Code, code, "course %q lists itself as a prerequisite", c.Code)
				continue
			case seen[j]:
				continue
			}
			seen[j] = true
			resolved = append(resolved, code)
			g.prereqs[i] = append(g.prereqs[i], j)
		}
		c.Prerequisites = resolved
	}
	// Iterating i in order keeps every dependents list in catalog order.
	for i := range g.prereqs {
		for _, j := range g.prereqs[i] {
			g.dependents[j] = append(g.dependents[j], i)
		}
	}

	for i, c := range g.courses {
		g.bySemester[c.Semester] = append(g.bySemester[c.Semester], i)
		if _, ok := g.byArea[c.Area]; !ok {
			g.areas = append(g.areas, c.Area)
		}
		g.byArea[c.Area] = append(g.byArea[c.Area], i)
		g.maxSemester = max(g.maxSemester, c.Semester)
		g.totalCredits += c.Credits
	}

	g.idealCumulative = make([]int, g.maxSemester+1)
	for s := 1; s <= g.maxSemester; s++ {
		sum := g.idealCumulative[s-1]
		for _, i := range g.bySemester[s] {
			sum += g.courses[i].Credits
		}
		g.idealCumulative[s] = sum
	}

	g.topoOrder, g.cyclic = topoSort(g.prereqs, g.dependents)
	for _, i := range g.cyclic {
		rep.add(IssueCycle, g.courses[i].Code, "", "course %q is part of or depends on a prerequisite cycle", g.courses[i].Code)
	}

	g.computePathLengths()
	return g, rep
}

// computePathLengths fills the critical path memo. A node met again while it
// is still on the stack contributes 0, which bounds the walk on cyclic input.
func (g *Graph) computePathLengths() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(g.courses))
	g.pathLen = make([]int, len(g.courses))

	var visit func(i int) int
	visit = func(i int) int {
		switch state[i] {
		case done:
			return g.pathLen[i]
		case visiting:
			return 0
		}
		state[i] = visiting
		best := 0
		for _, d := range g.dependents[i] {
			best = max(best, 1+visit(d))
		}
		state[i] = done
		g.pathLen[i] = best
		return best
	}
	for i := range g.courses {
		visit(i)
	}
}

// Name returns the catalog name.
func (g *Graph) Name() string {
	return g.name
}

// Len returns the number of distinct courses.
func (g *Graph) Len() int {
	return len(g.courses)
}

// Courses returns every course in catalog order.
func (g *Graph) Courses() []Course {
	return slices.Clone(g.courses)
}

// Course looks up a course by code.
func (g *Graph) Course(code string) (Course, error) {
	i, ok := g.index[code]
	if !ok {
		return Course{}, fmt.Errorf("%w: %q", ErrUnknownCourse, code)
	}
	return g.courses[i], nil
}

// Has reports whether code is in the catalog.
func (g *Graph) Has(code string) bool {
	_, ok := g.index[code]
	return ok
}

// Index returns the catalog position of code.
func (g *Graph) Index(code string) (int, bool) {
	i, ok := g.index[code]
	return i, ok
}

// PrerequisiteCodes returns the resolved direct prerequisites of code in
// declared order.
func (g *Graph) PrerequisiteCodes(code string) []string {
	i, ok := g.index[code]
	if !ok {
		return nil
	}
	return g.codes(g.prereqs[i])
}

// Prerequisites returns the direct prerequisites of code.
func (g *Graph) Prerequisites(code string) []Course {
	i, ok := g.index[code]
	if !ok {
		return nil
	}
	return g.pick(g.prereqs[i])
}

// DependentCodes returns the courses that list code as a direct
// prerequisite, in catalog order.
func (g *Graph) DependentCodes(code string) []string {
	i, ok := g.index[code]
	if !ok {
		return nil
	}
	return g.codes(g.dependents[i])
}

// Dependents returns the courses code directly unlocks.
func (g *Graph) Dependents(code string) []Course {
	i, ok := g.index[code]
	if !ok {
		return nil
	}
	return g.pick(g.dependents[i])
}

// AllDependents returns the transitive dependents closure of code in
// catalog order. The walk is iterative and visit-guarded.
func (g *Graph) AllDependents(code string) []string {
	start, ok := g.index[code]
	if !ok {
		return nil
	}
	seen := make([]bool, len(g.courses))
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range g.dependents[i] {
			if !seen[d] {
				seen[d] = true
				stack = append(stack, d)
			}
		}
	}
	var out []string
	for i, s := range seen {
		if s && i != start {
			out = append(out, g.courses[i].Code)
		}
	}
	return out
}

// BySemester returns the courses declared for semester s in declaration order.
func (g *Graph) BySemester(s int) []Course {
	return g.pick(g.bySemester[s])
}

// Semesters returns 1..MaxSemester.
func (g *Graph) Semesters() []int {
	out := make([]int, g.maxSemester)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// MaxSemester returns the highest declared semester.
func (g *Graph) MaxSemester() int {
	return g.maxSemester
}

// TotalCredits returns the credit sum of the whole catalog.
func (g *Graph) TotalCredits() int {
	return g.totalCredits
}

// IdealCumulativeCredits returns the credits a student on pace has approved
// by the end of semester s.
func (g *Graph) IdealCumulativeCredits(s int) int {
	switch {
	case s < 1:
		return 0
	case s > g.maxSemester:
		return g.totalCredits
	}
	return g.idealCumulative[s]
}

// IdealSemesterFor returns the smallest semester whose cumulative ideal
// credits cover approvedCredits, or MaxSemester when none does.
func (g *Graph) IdealSemesterFor(approvedCredits int) int {
	for s := 1; s <= g.maxSemester; s++ {
		if approvedCredits <= g.idealCumulative[s] {
			return s
		}
	}
	return g.maxSemester
}

// CriticalPathLength returns the longest chain of dependent hops starting at
// code. Unknown codes have length 0.
func (g *Graph) CriticalPathLength(code string) int {
	i, ok := g.index[code]
	if !ok {
		return 0
	}
	return g.pathLen[i]
}

// Areas returns the distinct areas in order of first appearance.
func (g *Graph) Areas() []Area {
	return slices.Clone(g.areas)
}

// ByArea returns the courses tagged with area a in catalog order.
func (g *Graph) ByArea(a Area) []Course {
	return g.pick(g.byArea[a])
}

// Roots returns the courses without prerequisites.
func (g *Graph) Roots() []Course {
	var out []Course
	for i, c := range g.courses {
		if len(g.prereqs[i]) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// TopologicalOrder returns the acyclic part of the graph in prerequisite
// order, ties broken by catalog order. Courses on a cycle are omitted.
func (g *Graph) TopologicalOrder() []Course {
	return g.pick(g.topoOrder)
}

// HasCycle reports whether Build found a prerequisite cycle.
func (g *Graph) HasCycle() bool {
	return len(g.cyclic) > 0
}

// Signature returns the catalog signature the graph was built from.
func (g *Graph) Signature() string {
	return g.signature
}

func (g *Graph) pick(idx []int) []Course {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Course, len(idx))
	for k, i := range idx {
		out[k] = g.courses[i]
	}
	return out
}

func (g *Graph) codes(idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = g.courses[i].Code
	}
	return out
}
