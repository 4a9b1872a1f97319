package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/progress"
)

// SchemaVersion is written into every exported snapshot.
const SchemaVersion = "v2.0.0"

// ErrIncompatibleSnapshot is returned when a snapshot's schema major version
// differs from SchemaVersion.
var ErrIncompatibleSnapshot = errors.New("incompatible snapshot")

// Snapshot is the portable export of a student's progress. Only
// ApprovedCodes and CurrentSemester are read back on import.
type Snapshot struct {
	ID              string                 `json:"id"`
	ApprovedCodes   []string               `json:"approvedCodes"`
	CreditSummary   progress.CreditSummary `json:"creditSummary"`
	CurrentSemester int                    `json:"currentSemester"`
	DelayMetrics    delay.Metrics          `json:"delayMetrics"`
	Timestamp       string                 `json:"timestamp"`
	SchemaVersion   string                 `json:"schemaVersion"`
}

// ImportResult describes what ImportSnapshot restored.
type ImportResult struct {
	Restored int
	Semester int
	// Skipped lists codes the current catalog does not have.
	Skipped []string
	// Unreachable lists known codes dropped because a prerequisite is
	// not approved in the snapshot.
	Unreachable []string
}

// ExportSnapshot captures the current state.
func (s *Session) ExportSnapshot() Snapshot {
	codes := s.progress.ApprovedCodes()
	if codes == nil {
		codes = []string{}
	}
	return Snapshot{
		ID:              uuid.New().String(),
		ApprovedCodes:   codes,
		CreditSummary:   s.progress.CreditSummary(),
		CurrentSemester: s.progress.CurrentSemester(),
		DelayMetrics:    s.analyzer.Metrics(),
		Timestamp:       s.now().UTC().Format(time.RFC3339),
		SchemaVersion:   SchemaVersion,
	}
}

// WriteSnapshot encodes a fresh snapshot to w as indented JSON.
func (s *Session) WriteSnapshot(w io.Writer) (Snapshot, error) {
	snap := s.ExportSnapshot()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return snap, nil
}

// ImportSnapshot replaces the approvals and declared semester with the ones
// in r. A missing semester restores semester 1. Codes whose prerequisites
// are not approved in the snapshot are dropped and reported.
func (s *Session) ImportSnapshot(ctx context.Context, r io.Reader) (ImportResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return ImportResult{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := checkSchemaVersion(snap.SchemaVersion); err != nil {
		return ImportResult{}, err
	}

	semester := snap.CurrentSemester
	if semester == 0 {
		semester = 1
	}
	rr, err := s.progress.Restore(ctx, snap.ApprovedCodes, semester)
	if err != nil {
		return ImportResult{}, fmt.Errorf("restore snapshot: %w", err)
	}
	if len(rr.Skipped) > 0 {
		s.log.Warn("snapshot codes not in catalog", "codes", rr.Skipped)
	}
	if len(rr.Unreachable) > 0 {
		s.log.Warn("snapshot codes missing prerequisites", "codes", rr.Unreachable)
	}
	res := ImportResult{
		Restored:    len(s.progress.ApprovedCodes()),
		Semester:    semester,
		Skipped:     rr.Skipped,
		Unreachable: rr.Unreachable,
	}
	s.log.Info("snapshot imported", "id", snap.ID, "restored", res.Restored, "semester", semester)
	return res, nil
}

// CanonicalVersion normalizes a schema version to semver form. The legacy
// "2.0" becomes "v2.0". The result is empty for unparseable input.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

func checkSchemaVersion(v string) error {
	c := CanonicalVersion(v)
	if c == "" {
		return fmt.Errorf("%w: invalid schema version %q", ErrIncompatibleSnapshot, v)
	}
	if semver.Major(c) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: schema %s, want %s", ErrIncompatibleSnapshot, c, semver.Major(SchemaVersion))
	}
	return nil
}
