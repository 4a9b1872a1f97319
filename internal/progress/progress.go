// Package progress tracks which courses a student has approved and the
// semester they declare to be in.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/store"
)

// ErrInvalidSemester is returned for a current semester below 1.
var ErrInvalidSemester = errors.New("semester must be at least 1")

// Options configures a Store.
type Options struct {
	Logger *slog.Logger
}

// Store is the mutable progress state over one curriculum graph. It is not
// safe for concurrent use.
type Store struct {
	graph *curriculum.Graph
	kv    store.KV
	log   *slog.Logger

	approved   map[string]bool
	semester   int
	generation uint64

	credits   *CreditSummary
	available map[string]bool
}

// New returns an empty Store. A nil kv disables persistence.
func New(g *curriculum.Graph, kv store.KV, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		graph:     g,
		kv:        kv,
		log:       log,
		approved:  make(map[string]bool),
		semester:  1,
		available: make(map[string]bool),
	}
}

// Load builds a Store from persisted state. Persisted state from a different
// catalog is purged, and codes the catalog no longer has are dropped.
// Only read failures are returned as errors.
func Load(ctx context.Context, g *curriculum.Graph, kv store.KV, opts Options) (*Store, error) {
	s := New(g, kv, opts)
	if kv == nil {
		return s, nil
	}

	sig, ok, err := kv.Get(ctx, store.KeyCatalogSignature)
	if err != nil {
		return nil, fmt.Errorf("load catalog signature: %w", err)
	}
	if ok && sig != g.Signature() {
		s.log.Debug("catalog changed, purging saved progress")
		s.remove(ctx, store.KeyApprovedCodes)
		s.remove(ctx, store.KeyCurrentSemester)
	}
	s.persist(ctx, store.KeyCatalogSignature, g.Signature())

	raw, ok, err := kv.Get(ctx, store.KeyApprovedCodes)
	if err != nil {
		return nil, fmt.Errorf("load approved codes: %w", err)
	}
	if ok {
		var codes []string
		if err := json.Unmarshal([]byte(raw), &codes); err != nil {
			s.log.Warn("discarding malformed approved codes", "err", err)
			codes = nil
		}
		dropped := 0
		for _, code := range codes {
			if g.Has(code) {
				s.approved[code] = true
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			s.log.Debug("dropped unknown approved codes", "count", dropped)
			s.persistApproved(ctx)
		}
	}

	raw, ok, err = kv.Get(ctx, store.KeyCurrentSemester)
	if err != nil {
		return nil, fmt.Errorf("load current semester: %w", err)
	}
	if ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.log.Debug("invalid saved semester, using 1", "value", raw)
			n = 1
		}
		s.semester = n
	}

	return s, nil
}

// Graph returns the curriculum graph the store tracks.
func (s *Store) Graph() *curriculum.Graph {
	return s.graph
}

// Generation increases on every mutation.
func (s *Store) Generation() uint64 {
	return s.generation
}

// CurrentSemester returns the student's declared semester.
func (s *Store) CurrentSemester() int {
	return s.semester
}

// IsApproved reports whether code is approved.
func (s *Store) IsApproved(code string) bool {
	return s.approved[code]
}

// IsAvailable reports whether every direct prerequisite of code is approved.
// Unknown codes are never available.
func (s *Store) IsAvailable(code string) bool {
	if v, ok := s.available[code]; ok {
		return v
	}
	if !s.graph.Has(code) {
		return false
	}
	v := len(s.missing(code)) == 0
	s.available[code] = v
	return v
}

// Status returns the status of code together with its missing prerequisites.
func (s *Store) Status(code string) CourseStatus {
	cs := CourseStatus{Code: code}
	switch {
	case s.IsApproved(code):
		cs.Status = StatusApproved
	case s.IsAvailable(code):
		cs.Status = StatusAvailable
	default:
		cs.Status = StatusBlocked
		cs.Missing = s.missing(code)
	}
	return cs
}

// ApprovedCodes returns the approved codes in catalog order.
func (s *Store) ApprovedCodes() []string {
	codes := make([]string, 0, len(s.approved))
	for _, c := range s.graph.Courses() {
		if s.approved[c.Code] {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

// CreditSummary returns approved and total credits over the whole catalog.
func (s *Store) CreditSummary() CreditSummary {
	if s.credits != nil {
		return *s.credits
	}
	sum := CreditSummary{Total: s.graph.TotalCredits()}
	for code := range s.approved {
		if c, err := s.graph.Course(code); err == nil {
			sum.Approved += c.Credits
		}
	}
	sum.Percentage = Percent(sum.Approved, sum.Total)
	s.credits = &sum
	return sum
}

// Approve marks code approved when all its prerequisites are. Otherwise the
// result is declined and lists the missing prerequisites.
func (s *Store) Approve(ctx context.Context, code string) ApproveResult {
	res := ApproveResult{Code: code}
	switch {
	case !s.graph.Has(code):
		return res
	case s.approved[code]:
		res.Approved = true
		res.AlreadyApproved = true
		return res
	}
	if missing := s.missing(code); len(missing) > 0 {
		res.Missing = missing
		return res
	}

	s.approved[code] = true
	s.invalidate()
	s.persistApproved(ctx)
	res.Approved = true
	return res
}

// Unapprove removes code and every approved course in its transitive
// dependents closure. It returns the additionally removed codes in catalog
// order. Unapproving a course that is not approved changes nothing.
func (s *Store) Unapprove(ctx context.Context, code string) []string {
	if !s.approved[code] {
		return nil
	}
	delete(s.approved, code)

	var removed []string
	for _, d := range s.graph.AllDependents(code) {
		if s.approved[d] {
			delete(s.approved, d)
			removed = append(removed, d)
		}
	}

	s.invalidate()
	s.persistApproved(ctx)
	return removed
}

// SetCurrentSemester stores the student's declared semester. Approval
// caches stay valid; only the generation moves.
func (s *Store) SetCurrentSemester(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSemester, n)
	}
	s.semester = n
	s.generation++
	s.persist(ctx, store.KeyCurrentSemester, strconv.Itoa(n))
	return nil
}

// Reset clears every approval and returns to semester 1.
func (s *Store) Reset(ctx context.Context) {
	s.approved = make(map[string]bool)
	s.semester = 1
	s.invalidate()
	s.remove(ctx, store.KeyApprovedCodes)
	s.remove(ctx, store.KeyCurrentSemester)
}

// RestoreResult lists the codes Restore did not approve.
type RestoreResult struct {
	// Skipped lists codes the catalog does not have, in input order.
	Skipped []string
	// Unreachable lists catalog codes left unapproved because a
	// prerequisite is not in the restored set, in catalog order.
	Unreachable []string
}

// Restore replaces the whole state, as when importing a snapshot. Codes are
// approved in prerequisite order and only when every prerequisite is
// approved too, so the restored set is always closed under prerequisites.
func (s *Store) Restore(ctx context.Context, codes []string, semester int) (RestoreResult, error) {
	if semester < 1 {
		return RestoreResult{}, fmt.Errorf("%w: got %d", ErrInvalidSemester, semester)
	}
	var res RestoreResult
	requested := make(map[string]bool, len(codes))
	for _, code := range codes {
		if s.graph.Has(code) {
			requested[code] = true
		} else {
			res.Skipped = append(res.Skipped, code)
		}
	}

	approved := make(map[string]bool, len(requested))
	for _, c := range s.graph.TopologicalOrder() {
		if !requested[c.Code] {
			continue
		}
		ok := true
		for _, p := range s.graph.PrerequisiteCodes(c.Code) {
			if !approved[p] {
				ok = false
				break
			}
		}
		if ok {
			approved[c.Code] = true
		}
	}
	for _, c := range s.graph.Courses() {
		if requested[c.Code] && !approved[c.Code] {
			res.Unreachable = append(res.Unreachable, c.Code)
		}
	}

	s.approved = approved
	s.semester = semester
	s.invalidate()
	s.persistApproved(ctx)
	s.persist(ctx, store.KeyCurrentSemester, strconv.Itoa(semester))
	return res, nil
}

func (s *Store) missing(code string) []string {
	var out []string
	for _, p := range s.graph.PrerequisiteCodes(code) {
		if !s.approved[p] {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) invalidate() {
	s.credits = nil
	clear(s.available)
	s.generation++
}

func (s *Store) persistApproved(ctx context.Context) {
	data, err := json.Marshal(s.ApprovedCodes())
	if err != nil {
		s.log.Warn("encode approved codes", "err", err)
		return
	}
	s.persist(ctx, store.KeyApprovedCodes, string(data))
}

// persist and remove never fail the caller; the in-memory state stays
// authoritative for the session.
func (s *Store) persist(ctx context.Context, key, value string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.log.Warn("persist failed", "key", key, "err", err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Warn("remove failed", "key", key, "err", err)
	}
}
