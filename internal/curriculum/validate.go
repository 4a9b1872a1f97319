package curriculum

import (
	"fmt"
	"strings"
)

// IssueKind classifies a catalog integrity problem.
type IssueKind string

const (
	IssueDuplicateCode        IssueKind = "duplicate_code"
	IssueDuplicateTitle       IssueKind = "duplicate_title"
	IssueDanglingPrerequisite IssueKind = "dangling_prerequisite"
	IssueSelfPrerequisite     IssueKind = "self_prerequisite"
	IssueCycle                IssueKind = "cycle"
	IssueInvalidSemester      IssueKind = "invalid_semester"
	IssueNegativeCredits      IssueKind = "negative_credits"
)

// Issue is a single catalog integrity problem found while building a Graph.
type Issue struct {
	Kind    IssueKind
	Code    string // course the issue is attached to
	Ref     string // referenced code or title, if any
	Message string
}

func (i Issue) String() string {
	return i.Message
}

// Report collects every integrity issue found by Build. Issues never abort
// the build; the graph is constructed on a best-effort basis.
type Report struct {
	Issues []Issue
}

// OK reports whether the catalog had no issues.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// ByKind returns the issues of the given kind in discovery order.
func (r Report) ByKind(kind IssueKind) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Kind == kind {
			out = append(out, is)
		}
	}
	return out
}

// Err returns a combined error describing all issues, or nil if there are none.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Issues))
	for i, is := range r.Issues {
		msgs[i] = is.Message
	}
	return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

func (r *Report) add(kind IssueKind, code, ref, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Kind:    kind,
		Code:    code,
		Ref:     ref,
		Message: fmt.Sprintf(format, args...),
	})
}

// topoSort runs Kahn's algorithm over the resolved prerequisite edges.
// Ties are broken by catalog order. Courses left with positive in-degree sit
// on or behind a cycle and are returned separately.
func topoSort(prereqs, dependents [][]int) (order, cyclic []int) {
	n := len(prereqs)
	inDegree := make([]int, n)
	for i := range prereqs {
		inDegree[i] = len(prereqs[i])
	}

	// The queue is kept sorted by index so the order is deterministic.
	var queue []int
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, d := range dependents[i] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = insertSorted(queue, d)
			}
		}
	}

	if len(order) < n {
		for i := 0; i < n; i++ {
			if inDegree[i] > 0 {
				cyclic = append(cyclic, i)
			}
		}
	}
	return order, cyclic
}

func insertSorted(queue []int, v int) []int {
	pos := len(queue)
	for pos > 0 && queue[pos-1] > v {
		pos--
	}
	queue = append(queue, 0)
	copy(queue[pos+1:], queue[pos:])
	queue[pos] = v
	return queue
}
