package delay

import (
	"sort"
)

// BlockedSequence is a set of unapproved courses reachable from Start
// through unapproved dependents.
type BlockedSequence struct {
	Start       string   `json:"start"`
	Courses     []string `json:"courses"`
	Length      int      `json:"length"`
	Criticality int      `json:"criticality"`
}

// BlockedSequences returns sequences of at least two courses, most critical
// first. No course appears in more than one sequence.
func (a *Analyzer) BlockedSequences() []BlockedSequence {
	claimed := make(map[string]bool)
	var out []BlockedSequence
	for _, c := range a.graph.Courses() {
		if a.progress.IsApproved(c.Code) || claimed[c.Code] {
			continue
		}
		seq := a.walkSequence(c.Code, claimed)
		if len(seq) < 2 {
			continue
		}
		for _, code := range seq {
			claimed[code] = true
		}
		out = append(out, BlockedSequence{
			Start:       seq[0],
			Courses:     seq,
			Length:      len(seq),
			Criticality: len(seq) * 2,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Criticality > out[j].Criticality
	})
	return out
}

// walkSequence collects start and its unapproved dependents depth first,
// skipping courses already claimed by an earlier sequence.
func (a *Analyzer) walkSequence(start string, claimed map[string]bool) []string {
	seen := map[string]bool{}
	stack := []string{start}
	var seq []string
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		seq = append(seq, cur)
		for _, d := range a.graph.DependentCodes(cur) {
			if !seen[d] && !claimed[d] && !a.progress.IsApproved(d) {
				stack = append(stack, d)
			}
		}
	}
	return seq
}
