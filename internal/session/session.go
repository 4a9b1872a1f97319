// Package session ties a curriculum graph, the student's progress and the
// delay analyzer to one persisted key-value store. Commands talk to a
// Session; nothing else reads or writes the store.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/store"
)

// Errors returned by Session operations, re-exported for callers that only
// import this package.
var (
	ErrUnknownCourse   = curriculum.ErrUnknownCourse
	ErrInvalidSemester = progress.ErrInvalidSemester
)

// Options configures Open. Zero values pick the embedded catalog, an
// in-memory store, the default tunables and the wall clock.
type Options struct {
	Catalog *curriculum.Catalog
	KV      store.KV
	Delay   *delay.Config
	Logger  *slog.Logger
	Clock   func() time.Time
}

// Session is the application state of one invocation. It is not safe for
// concurrent use.
type Session struct {
	graph    *curriculum.Graph
	report   curriculum.Report
	kv       store.KV
	progress *progress.Store
	analyzer *delay.Analyzer

	base      delay.Config
	overrides delay.Overrides

	log *slog.Logger
	now func() time.Time
}

// Open builds the graph, restores persisted progress and tunables, and
// prepares the analyzer. Catalog issues are logged and kept in Report; they
// never fail Open.
func Open(ctx context.Context, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	kv := opts.KV
	if kv == nil {
		kv = store.NewMemory()
	}
	cat := curriculum.DefaultCatalog()
	if opts.Catalog != nil {
		cat = *opts.Catalog
	}
	base := delay.DefaultConfig()
	if opts.Delay != nil {
		base = *opts.Delay
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("delay config: %w", err)
	}

	g, rep := curriculum.Build(cat)
	for _, is := range rep.Issues {
		log.Warn("catalog issue", "kind", is.Kind, "code", is.Code, "msg", is.Message)
	}

	p, err := progress.Load(ctx, g, kv, progress.Options{Logger: log})
	if err != nil {
		return nil, err
	}

	s := &Session{
		graph:    g,
		report:   rep,
		kv:       kv,
		progress: p,
		base:     base,
		log:      log,
		now:      now,
	}

	cfg := base
	raw, ok, err := kv.Get(ctx, store.KeyDelayConfig)
	if err != nil {
		return nil, fmt.Errorf("load delay overrides: %w", err)
	}
	if ok {
		o, err := delay.ParseOverrides(raw)
		if err == nil {
			merged := o.Apply(base)
			err = merged.Validate()
			if err == nil {
				s.overrides = o
				cfg = merged
			}
		}
		if err != nil {
			log.Warn("ignoring saved delay overrides", "err", err)
		}
	}

	s.analyzer = delay.New(g, p, cfg, delay.WithClock(now))
	log.Debug("session opened",
		"catalog", g.Name(),
		"courses", g.Len(),
		"approved", len(p.ApprovedCodes()),
		"semester", p.CurrentSemester())
	return s, nil
}

// Graph returns the curriculum graph.
func (s *Session) Graph() *curriculum.Graph {
	return s.graph
}

// Report returns the integrity issues found while building the graph.
func (s *Session) Report() curriculum.Report {
	return s.report
}

// KV returns the backing store.
func (s *Session) KV() store.KV {
	return s.kv
}

// CurrentSemester returns the declared semester.
func (s *Session) CurrentSemester() int {
	return s.progress.CurrentSemester()
}

// ApprovedCodes returns the approved codes in catalog order.
func (s *Session) ApprovedCodes() []string {
	return s.progress.ApprovedCodes()
}

// CreditSummary returns approved and total credits.
func (s *Session) CreditSummary() progress.CreditSummary {
	return s.progress.CreditSummary()
}

// Metrics returns the delay metrics for the declared semester.
func (s *Session) Metrics() delay.Metrics {
	return s.analyzer.Metrics()
}

// CriticalCourses returns the pending critical courses, highest impact first.
func (s *Session) CriticalCourses() []delay.CriticalCourse {
	return s.analyzer.CriticalCourses()
}

// CriticalThreshold returns the dependents count a course needs to be critical.
func (s *Session) CriticalThreshold() int {
	return s.analyzer.CriticalThreshold()
}

// Recommendations returns the current advice in rule order.
func (s *Session) Recommendations() []delay.Recommendation {
	return s.analyzer.Recommendations()
}

// AreaProgress returns per-area completion.
func (s *Session) AreaProgress() []delay.AreaProgress {
	return s.analyzer.AreaProgress()
}

// BlockedSequences returns the prerequisite chains held back by pending courses.
func (s *Session) BlockedSequences() []delay.BlockedSequence {
	return s.analyzer.BlockedSequences()
}

// SemesterBreakdown returns the course statuses of the declared semester.
func (s *Session) SemesterBreakdown() delay.SemesterBreakdown {
	return s.analyzer.SemesterBreakdown()
}

// BreakdownFor returns the breakdown of any catalog semester.
func (s *Session) BreakdownFor(semester int) delay.SemesterBreakdown {
	return s.analyzer.BreakdownFor(semester)
}

// LoadDistribution returns approved credits per catalog semester.
func (s *Session) LoadDistribution() delay.LoadDistribution {
	return s.analyzer.LoadDistribution()
}

// NextSemesterPlan suggests available courses for the following semester.
func (s *Session) NextSemesterPlan() delay.Plan {
	return s.analyzer.NextSemesterPlan()
}

// Approve approves code if its prerequisites allow it. A declined approval
// is reported in the result, not as an error.
func (s *Session) Approve(ctx context.Context, code string) (progress.ApproveResult, error) {
	if !s.graph.Has(code) {
		return progress.ApproveResult{Code: code}, fmt.Errorf("%w: %q", ErrUnknownCourse, code)
	}
	res := s.progress.Approve(ctx, code)
	if res.Approved && !res.AlreadyApproved {
		s.log.Debug("approved", "code", code)
	}
	return res, nil
}

// Unapprove withdraws code and returns the dependents withdrawn with it.
func (s *Session) Unapprove(ctx context.Context, code string) ([]string, error) {
	if !s.graph.Has(code) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCourse, code)
	}
	removed := s.progress.Unapprove(ctx, code)
	if len(removed) > 0 {
		s.log.Debug("cascade unapprove", "code", code, "removed", removed)
	}
	return removed, nil
}

// IsApproved reports whether code is approved.
func (s *Session) IsApproved(code string) bool {
	return s.progress.IsApproved(code)
}

// SetCurrentSemester declares the semester the student is in.
func (s *Session) SetCurrentSemester(ctx context.Context, n int) error {
	return s.progress.SetCurrentSemester(ctx, n)
}

// Reset clears all approvals and the declared semester. Tunables and theme
// preferences survive.
func (s *Session) Reset(ctx context.Context) {
	s.progress.Reset(ctx)
	s.log.Info("progress reset")
}

// DelayConfig returns the tunables in effect.
func (s *Session) DelayConfig() delay.Config { return s.analyzer.Config() }

// DelayOverrides returns the persisted user overrides.
func (s *Session) DelayOverrides() delay.Overrides { return s.overrides }

// SetDelayOverrides merges o over the saved overrides, validates the result
// and persists it. Nothing changes when validation fails.
func (s *Session) SetDelayOverrides(ctx context.Context, o delay.Overrides) error {
	next := s.overrides
	if o.CreditsPerIdealSemester != nil {
		next.CreditsPerIdealSemester = o.CreditsPerIdealSemester
	}
	if o.TotalSemesters != nil {
		next.TotalSemesters = o.TotalSemesters
	}
	if o.DelayMargin != nil {
		next.DelayMargin = o.DelayMargin
	}
	cfg := next.Apply(s.base)
	if err := cfg.Validate(); err != nil {
		return err
	}
	raw, err := next.Encode()
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.KeyDelayConfig, raw); err != nil {
		return fmt.Errorf("save delay overrides: %w", err)
	}
	s.overrides = next
	s.analyzer.SetConfig(cfg)
	return nil
}

// ClearDelayOverrides drops every override and returns to the configured
// tunables.
func (s *Session) ClearDelayOverrides(ctx context.Context) error {
	if err := s.kv.Remove(ctx, store.KeyDelayConfig); err != nil {
		return fmt.Errorf("clear delay overrides: %w", err)
	}
	s.overrides = delay.Overrides{}
	s.analyzer.SetConfig(s.base)
	return nil
}
