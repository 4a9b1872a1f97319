// Package delay measures how far a student is behind the ideal pace and
// derives critical courses, blocked sequences and recommendations.
package delay

import (
	"time"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
)

// Progress is the read side of the progress store the analyzer needs.
type Progress interface {
	IsApproved(code string) bool
	IsAvailable(code string) bool
	Status(code string) progress.CourseStatus
	CurrentSemester() int
	CreditSummary() progress.CreditSummary
	Generation() uint64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock replaces time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// Analyzer computes delay reports over a graph and a progress store. Reports
// are cached until the store mutates or the cache TTL expires.
type Analyzer struct {
	graph    *curriculum.Graph
	progress Progress
	cfg      Config
	now      func() time.Time

	cache  map[string]cacheEntry
	misses int
}

type cacheEntry struct {
	value      any
	computedAt time.Time
	generation uint64
}

// Cached report names.
const (
	reportMetrics         = "metrics"
	reportCritical        = "critical"
	reportRecommendations = "recommendations"
)

// New returns an Analyzer for g and p.
func New(g *curriculum.Graph, p Progress, cfg Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:    g,
		progress: p,
		cfg:      cfg,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the active tunables.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// SetConfig replaces the tunables and drops every cached report.
func (a *Analyzer) SetConfig(cfg Config) {
	a.cfg = cfg
	a.Invalidate()
}

// Invalidate drops every cached report.
func (a *Analyzer) Invalidate() {
	clear(a.cache)
}

// cached returns the entry for key while it belongs to the current store
// generation and is younger than the TTL; otherwise it recomputes.
func cached[T any](a *Analyzer, key string, compute func() T) T {
	now := a.now()
	gen := a.progress.Generation()
	if e, ok := a.cache[key]; ok && e.generation == gen && now.Sub(e.computedAt) < a.cfg.CacheTTL {
		return e.value.(T)
	}
	a.misses++
	v := compute()
	a.cache[key] = cacheEntry{value: v, computedAt: now, generation: gen}
	return v
}

// Level grades a metric for display.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

func grade(v, warnAbove, criticalAbove int) Level {
	switch {
	case v > criticalAbove:
		return LevelCritical
	case v > warnAbove:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// DelayLevel grades a semester delay.
func DelayLevel(semesters int) Level { return grade(semesters, 0, 1) }

// DeficitLevel grades a credit deficit.
func DeficitLevel(credits int) Level { return grade(credits, 8, 15) }

// CriticalCountLevel grades the number of critical courses.
func CriticalCountLevel(n int) Level { return grade(n, 2, 4) }

// Metrics is the delay summary for the declared semester.
type Metrics struct {
	IdealSemester          int  `json:"idealSemester"`
	RealSemester           int  `json:"realSemester"`
	SemesterDelay          int  `json:"semesterDelay"`
	CreditDeficit          int  `json:"creditDeficit"`
	AdaptiveMargin         int  `json:"adaptiveMargin"`
	IsBehind               bool `json:"isBehind"`
	ApprovedCredits        int  `json:"approvedCredits"`
	ExpectedCreditsIdeal   int  `json:"expectedCreditsIdeal"`
	ExpectedCreditsReal    int  `json:"expectedCreditsReal"`
	RemainingCredits       int  `json:"remainingCredits"`
	ProjectedFinalSemester int  `json:"projectedFinalSemester"`
	ExceedsProgramLength   bool `json:"exceedsProgramLength"`
	CriticalCount          int  `json:"criticalCount"`

	DelayLevel    Level `json:"delayLevel"`
	DeficitLevel  Level `json:"deficitLevel"`
	CriticalLevel Level `json:"criticalLevel"`
}

// Metrics compares the approved credits with the declared semester.
func (a *Analyzer) Metrics() Metrics {
	return cached(a, reportMetrics, a.computeMetrics)
}

func (a *Analyzer) computeMetrics() Metrics {
	credits := a.progress.CreditSummary()
	declared := a.progress.CurrentSemester()
	ideal := a.graph.IdealSemesterFor(credits.Approved)

	m := Metrics{
		IdealSemester:        ideal,
		RealSemester:         declared,
		SemesterDelay:        max(0, declared-ideal),
		ApprovedCredits:      credits.Approved,
		ExpectedCreditsIdeal: a.graph.IdealCumulativeCredits(ideal),
		ExpectedCreditsReal:  a.graph.IdealCumulativeCredits(declared),
		AdaptiveMargin:       max(a.cfg.DelayMargin, declared*2),
		RemainingCredits:     max(0, credits.Total-credits.Approved),
	}
	m.CreditDeficit = max(0, m.ExpectedCreditsReal-credits.Approved)
	m.IsBehind = m.SemesterDelay > 0 || m.CreditDeficit > m.AdaptiveMargin

	// The declared semester is assumed in progress, so it counts toward the
	// remaining load.
	m.ProjectedFinalSemester = declared
	if m.RemainingCredits > 0 && a.cfg.CreditsPerIdealSemester > 0 {
		m.ProjectedFinalSemester = declared - 1 + ceilDiv(m.RemainingCredits, a.cfg.CreditsPerIdealSemester)
		m.ProjectedFinalSemester = max(m.ProjectedFinalSemester, declared)
	}
	m.ExceedsProgramLength = m.ProjectedFinalSemester > a.cfg.TotalSemesters

	m.CriticalCount = len(a.CriticalCourses())
	m.DelayLevel = DelayLevel(m.SemesterDelay)
	m.DeficitLevel = DeficitLevel(m.CreditDeficit)
	m.CriticalLevel = CriticalCountLevel(m.CriticalCount)
	return m
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
