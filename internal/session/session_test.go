package session

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func smallCatalog() *curriculum.Catalog {
	c := func(code string, credits, sem int, area curriculum.Area, prereqs ...string) curriculum.Course {
		return curriculum.Course{
			Code: code, Title: "Course " + code, Credits: credits,
			Semester: sem, Area: area, Prerequisites: prereqs,
		}
	}
	return &curriculum.Catalog{
		Name: "small",
		Courses: []curriculum.Course{
			c("A", 5, 1, curriculum.AreaEngineering),
			c("B", 5, 1, curriculum.AreaProgramming),
			c("C", 5, 2, curriculum.AreaEngineering, "A"),
			c("D", 5, 2, curriculum.AreaEngineering, "C"),
			c("E", 4, 3, curriculum.AreaProgramming, "B"),
		},
	}
}

func open(t *testing.T, kv store.KV, cat *curriculum.Catalog) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Catalog: cat,
		KV:      kv,
		Clock:   func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return s
}

func TestOpen_Defaults(t *testing.T) {
	s := open(t, nil, nil)

	assert.Equal(t, 58, s.Graph().Len())
	assert.True(t, s.Report().OK())
	assert.Equal(t, 1, s.CurrentSemester())
	assert.Empty(t, s.ApprovedCodes())
	assert.Equal(t, delay.DefaultConfig(), s.DelayConfig())
	assert.Equal(t, 212, s.CreditSummary().Total)
}

func TestOpen_RejectsInvalidDelayConfig(t *testing.T) {
	cfg := delay.DefaultConfig()
	cfg.TotalSemesters = 0
	_, err := Open(context.Background(), Options{Delay: &cfg})
	assert.Error(t, err)
}

func TestOpen_KeepsCatalogIssues(t *testing.T) {
	cat := smallCatalog()
	cat.Courses = append(cat.Courses, curriculum.Course{
		Code: "F", Title: "Course F", Credits: 3, Semester: 3,
		Area: curriculum.AreaEngineering, Prerequisites: []string{"ZZZ"},
	})
	s := open(t, nil, cat)

	issues := s.Report().ByKind(curriculum.IssueDanglingPrerequisite)
	require.Len(t, issues, 1)
	assert.Equal(t, "F", issues[0].Code)
	assert.Equal(t, progress.StatusAvailable, mustCourse(t, s, "F").Status)
}

func mustCourse(t *testing.T, s *Session, code string) CourseView {
	t.Helper()
	v, err := s.Course(code)
	require.NoError(t, err)
	return v
}

func TestApprove_UnknownCourse(t *testing.T) {
	ctx := context.Background()
	s := open(t, nil, smallCatalog())

	_, err := s.Approve(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrUnknownCourse)
	assert.ErrorContains(t, err, "NOPE")

	_, err = s.Unapprove(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrUnknownCourse)

	_, err = s.Course("NOPE")
	assert.ErrorIs(t, err, ErrUnknownCourse)
}

func TestApproveAndCascade(t *testing.T) {
	ctx := context.Background()
	s := open(t, nil, smallCatalog())

	res, err := s.Approve(ctx, "C")
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.Equal(t, []string{"A"}, res.Missing)

	for _, code := range []string{"A", "C", "D"} {
		res, err := s.Approve(ctx, code)
		require.NoError(t, err)
		require.True(t, res.Approved, code)
	}
	assert.Equal(t, []string{"A", "C", "D"}, s.ApprovedCodes())
	assert.Equal(t, 63, s.CreditSummary().Percentage)

	removed, err := s.Unapprove(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D"}, removed)
	assert.Empty(t, s.ApprovedCodes())
}

func TestCourses_Filter(t *testing.T) {
	ctx := context.Background()
	s := open(t, nil, smallCatalog())
	_, err := s.Approve(ctx, "A")
	require.NoError(t, err)

	codes := func(vs []CourseView) []string {
		var out []string
		for _, v := range vs {
			out = append(out, v.Code)
		}
		return out
	}

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, codes(s.Courses(Filter{})))
	assert.Equal(t, []string{"A", "B", "C"}, codes(s.Courses(Filter{OnlyAvailable: true})))
	assert.Equal(t, []string{"B", "E"}, codes(s.Courses(Filter{Area: curriculum.AreaProgramming})))
	assert.Equal(t, []string{"C", "D"}, codes(s.Courses(Filter{Semester: 2})))
	assert.Equal(t, []string{"E"}, codes(s.Courses(Filter{Query: "course e"})))
	assert.Empty(t, s.Courses(Filter{Semester: 9}))
}

func TestCourse_View(t *testing.T) {
	s := open(t, nil, smallCatalog())

	v := mustCourse(t, s, "C")
	assert.Equal(t, progress.StatusBlocked, v.Status)
	assert.Equal(t, []string{"A"}, v.Missing)
	assert.Equal(t, []string{"D"}, v.Unlocks)
	assert.Equal(t, 1, v.PathLength)

	a := mustCourse(t, s, "A")
	assert.Equal(t, progress.StatusAvailable, a.Status)
	assert.Equal(t, 2, a.PathLength)
}

func TestResolveCode(t *testing.T) {
	s := open(t, nil, nil)

	tests := []struct {
		input string
		want  string
	}{
		{"MAT1001", "MAT1001"},
		{"mat1001", "MAT1001"},
		{"algebra lineal", "MAT1004"},
		{"  Cálculo Diferencial e Integral ", "MAT1002"},
	}
	for _, tt := range tests {
		got, err := s.ResolveCode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := s.ResolveCode("underwater basket weaving")
	assert.ErrorIs(t, err, ErrUnknownCourse)
}

func TestState_PersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	s := open(t, kv, smallCatalog())
	_, err := s.Approve(ctx, "B")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentSemester(ctx, 3))

	again := open(t, kv, smallCatalog())
	assert.Equal(t, []string{"B"}, again.ApprovedCodes())
	assert.Equal(t, 3, again.CurrentSemester())

	again.Reset(ctx)
	third := open(t, kv, smallCatalog())
	assert.Empty(t, third.ApprovedCodes())
	assert.Equal(t, 1, third.CurrentSemester())
}

func TestSetCurrentSemester_Invalid(t *testing.T) {
	s := open(t, nil, smallCatalog())
	err := s.SetCurrentSemester(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidSemester)
	assert.Equal(t, 1, s.CurrentSemester())
}

func TestDelayOverrides(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := open(t, kv, nil)

	credits := 30
	require.NoError(t, s.SetDelayOverrides(ctx, delay.Overrides{CreditsPerIdealSemester: &credits}))
	assert.Equal(t, 30, s.DelayConfig().CreditsPerIdealSemester)

	margin := 10
	require.NoError(t, s.SetDelayOverrides(ctx, delay.Overrides{DelayMargin: &margin}))
	assert.Equal(t, 30, s.DelayConfig().CreditsPerIdealSemester, "earlier override kept")
	assert.Equal(t, 10, s.DelayConfig().DelayMargin)

	raw, ok, err := kv.Get(ctx, store.KeyDelayConfig)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"creditsPerIdealSemester":30,"delayMargin":10}`, raw)

	reopened := open(t, kv, nil)
	assert.Equal(t, 30, reopened.DelayConfig().CreditsPerIdealSemester)
	assert.Equal(t, 10, reopened.DelayConfig().DelayMargin)

	zero := 0
	err = reopened.SetDelayOverrides(ctx, delay.Overrides{TotalSemesters: &zero})
	assert.Error(t, err)
	assert.Equal(t, 11, reopened.DelayConfig().TotalSemesters)

	require.NoError(t, reopened.ClearDelayOverrides(ctx))
	assert.Equal(t, delay.DefaultConfig(), reopened.DelayConfig())
	assert.True(t, reopened.DelayOverrides().IsZero())
	_, ok, err = kv.Get(ctx, store.KeyDelayConfig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelayOverrides_BadSavedValueIgnored(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{", `{"totalSemesters":0}`} {
		kv := store.NewMemory()
		require.NoError(t, kv.Set(ctx, store.KeyDelayConfig, raw))
		s := open(t, kv, nil)
		assert.Equal(t, delay.DefaultConfig(), s.DelayConfig(), raw)
	}
}

func TestDelayOverrides_ChangeAnalysis(t *testing.T) {
	ctx := context.Background()
	s := open(t, nil, nil)
	require.NoError(t, s.SetCurrentSemester(ctx, 1))

	// 212 remaining credits at 22 per semester.
	assert.Equal(t, 10, s.Metrics().ProjectedFinalSemester)

	pace := 53
	require.NoError(t, s.SetDelayOverrides(ctx, delay.Overrides{CreditsPerIdealSemester: &pace}))
	assert.Equal(t, 4, s.Metrics().ProjectedFinalSemester)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := open(t, nil, smallCatalog())
	for _, code := range []string{"A", "C", "B"} {
		_, err := src.Approve(ctx, code)
		require.NoError(t, err)
	}
	require.NoError(t, src.SetCurrentSemester(ctx, 2))

	var buf bytes.Buffer
	snap, err := src.WriteSnapshot(&buf)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "2026-03-01T09:00:00Z", snap.Timestamp)
	assert.Equal(t, SchemaVersion, snap.SchemaVersion)
	assert.Equal(t, []string{"A", "B", "C"}, snap.ApprovedCodes)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{"id", "approvedCodes", "creditSummary", "currentSemester", "delayMetrics", "timestamp", "schemaVersion"} {
		assert.Contains(t, raw, key)
	}

	dst := open(t, nil, smallCatalog())
	res, err := dst.ImportSnapshot(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Restored)
	assert.Equal(t, 2, res.Semester)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, src.ApprovedCodes(), dst.ApprovedCodes())
	assert.Equal(t, src.CurrentSemester(), dst.CurrentSemester())
	assert.Equal(t, src.CreditSummary(), dst.CreditSummary())
	assert.Equal(t, src.Metrics(), dst.Metrics())
}

func TestSnapshot_EmptyExport(t *testing.T) {
	s := open(t, nil, smallCatalog())
	var buf bytes.Buffer
	_, err := s.WriteSnapshot(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"approvedCodes": []`)
}

func TestImportSnapshot(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		body         string
		wantErr      error
		wantApproved []string
		wantSemester int
		wantSkipped  []string
		wantDropped  []string
	}{
		{
			name:         "legacy version",
			body:         `{"approvedCodes":["A"],"currentSemester":2,"schemaVersion":"2.0"}`,
			wantApproved: []string{"A"},
			wantSemester: 2,
		},
		{
			name:         "newer minor",
			body:         `{"approvedCodes":["B","E"],"currentSemester":4,"schemaVersion":"v2.3.1"}`,
			wantApproved: []string{"B", "E"},
			wantSemester: 4,
		},
		{
			name:         "unknown codes skipped",
			body:         `{"approvedCodes":["A","GONE"],"schemaVersion":"v2.0.0"}`,
			wantApproved: []string{"A"},
			wantSemester: 1,
			wantSkipped:  []string{"GONE"},
		},
		{
			name:         "broken chain dropped",
			body:         `{"approvedCodes":["D","A"],"currentSemester":3,"schemaVersion":"v2.0.0"}`,
			wantApproved: []string{"A"},
			wantSemester: 3,
			wantDropped:  []string{"D"},
		},
		{
			name:    "other major",
			body:    `{"approvedCodes":["A"],"currentSemester":2,"schemaVersion":"v3.0.0"}`,
			wantErr: ErrIncompatibleSnapshot,
		},
		{
			name:    "missing version",
			body:    `{"approvedCodes":["A"]}`,
			wantErr: ErrIncompatibleSnapshot,
		},
		{
			name:    "negative semester",
			body:    `{"approvedCodes":["A"],"currentSemester":-1,"schemaVersion":"v2.0.0"}`,
			wantErr: ErrInvalidSemester,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t, nil, smallCatalog())
			_, err := s.Approve(ctx, "B")
			require.NoError(t, err)

			res, err := s.ImportSnapshot(ctx, strings.NewReader(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []string{"B"}, s.ApprovedCodes(), "state untouched on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantApproved, s.ApprovedCodes())
			assert.Equal(t, tt.wantSemester, s.CurrentSemester())
			assert.Equal(t, tt.wantSkipped, res.Skipped)
			assert.Equal(t, tt.wantDropped, res.Unreachable)
		})
	}
}

func TestImportSnapshot_KeepsPrerequisiteChains(t *testing.T) {
	ctx := context.Background()
	s := open(t, nil, nil)

	res, err := s.ImportSnapshot(ctx, strings.NewReader(
		`{"approvedCodes":["ICI2241"],"currentSemester":4,"schemaVersion":"2.0"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Restored)
	assert.Equal(t, 4, res.Semester)
	assert.Equal(t, []string{"ICI2241"}, res.Unreachable)
	assert.False(t, s.IsApproved("ICI2241"))

	for _, code := range s.ApprovedCodes() {
		for _, p := range s.Graph().PrerequisiteCodes(code) {
			assert.True(t, s.IsApproved(p), "%s approved without %s", code, p)
		}
	}
}

func TestImportSnapshot_Malformed(t *testing.T) {
	s := open(t, nil, smallCatalog())
	_, err := s.ImportSnapshot(context.Background(), strings.NewReader("not json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIncompatibleSnapshot)
}

func TestCanonicalVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v2.0.0", "v2.0.0"},
		{"2.0", "v2.0"},
		{"2", "v2"},
		{" v2.1 ", "v2.1"},
		{"", ""},
		{"two", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalVersion(tt.in), tt.in)
	}
}
