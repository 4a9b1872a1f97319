package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/report"
	"github.com/abhisek/malla/internal/session"
)

// testEnv isolates the config and data directories and returns a state
// path for --db.
func testEnv(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("MALLA_DB", "")
	t.Setenv("MALLA_CATALOG", "")
	t.Setenv("MALLA_LOG_LEVEL", "")
	return filepath.Join(dir, name)
}

// executeCmd runs the root command and captures stdout and stderr.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func run(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, errOut, err := executeCmd(t, append([]string{"--db", db}, args...)...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

func TestApproveAndStatus(t *testing.T) {
	for _, name := range []string{"state.json", "state.db"} {
		t.Run(name, func(t *testing.T) {
			db := testEnv(t, name)

			out := run(t, db, "approve", "MAT1001", "ici1241")
			assert.Contains(t, out, "Approved MAT1001.")
			assert.Contains(t, out, "Approved ICI1241.")

			out = run(t, db, "status")
			assert.Contains(t, out, "10 of 212 credits approved")
			assert.NotContains(t, out, "\x1b[")

			out = run(t, db)
			assert.Contains(t, out, "10 of 212 credits approved", "status is the default command")
		})
	}
}

func TestApprove_Declined(t *testing.T) {
	db := testEnv(t, "state.json")
	out := run(t, db, "approve", "MAT1003")
	assert.Contains(t, out, "MAT1003 cannot be approved yet. Missing: MAT1002")
}

func TestApprove_UnknownCourse(t *testing.T) {
	db := testEnv(t, "state.json")
	_, _, err := executeCmd(t, "--db", db, "approve", "NOPE999")
	assert.ErrorIs(t, err, session.ErrUnknownCourse)
}

func TestUnapprove_Cascade(t *testing.T) {
	db := testEnv(t, "state.json")
	run(t, db, "approve", "MAT1001", "MAT1002", "MAT1003")

	out := run(t, db, "unapprove", "MAT1001")
	assert.Contains(t, out, "Unapproved MAT1001.")
	assert.Contains(t, out, "MAT1002, MAT1003")

	out = run(t, db, "unapprove", "MAT1001")
	assert.Contains(t, out, "MAT1001 was not approved.")
}

func TestSemester(t *testing.T) {
	db := testEnv(t, "state.json")

	assert.Contains(t, run(t, db, "semester"), "Current semester: 1")
	assert.Contains(t, run(t, db, "semester", "4"), "Current semester set to 4.")
	assert.Contains(t, run(t, db, "semester"), "Current semester: 4")
	assert.Contains(t, run(t, db, "semester", "12"), "past its formal length")

	_, _, err := executeCmd(t, "--db", db, "semester", "0")
	assert.ErrorIs(t, err, session.ErrInvalidSemester)
	_, _, err = executeCmd(t, "--db", db, "semester", "abc")
	assert.Error(t, err)
}

func TestCourses_Filters(t *testing.T) {
	db := testEnv(t, "state.json")

	out := run(t, db, "courses", "--area", "matematicas", "--semester", "1")
	assert.Contains(t, out, "MAT1001")
	assert.NotContains(t, out, "MAT1002")
	assert.Contains(t, out, "1 course")

	out = run(t, db, "courses", "--search", "calculo")
	assert.Contains(t, out, "MAT1002")
	assert.Contains(t, out, "MAT1003")
	assert.Contains(t, out, "2 courses")

	out = run(t, db, "courses", "--area", "Mathematics", "--available")
	assert.Contains(t, out, "MAT1001")
	assert.NotContains(t, out, "MAT1002")

	_, _, err := executeCmd(t, "--db", db, "courses", "--area", "astrology")
	assert.ErrorContains(t, err, "unknown area")
}

func TestShow(t *testing.T) {
	db := testEnv(t, "state.json")
	out := run(t, db, "show", "algebra", "lineal")
	assert.Contains(t, out, "MAT1004")
	assert.Contains(t, out, "Álgebra Lineal")
	assert.Contains(t, out, "MAT1001")
}

func TestAnalyze_JSON(t *testing.T) {
	db := testEnv(t, "state.json")
	run(t, db, "semester", "3")

	out := run(t, db, "analyze", "--json")
	var a report.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 3, a.Metrics.RealSemester)
	assert.Equal(t, 1, a.Metrics.IdealSemester)
	assert.NotEmpty(t, a.CriticalCourses)
	assert.NotEmpty(t, a.Recommendations)

	out = run(t, db, "analyze")
	assert.Contains(t, out, "Delay analysis")
}

func TestPlanAndAreas(t *testing.T) {
	db := testEnv(t, "state.json")

	out := run(t, db, "plan", "--json")
	var p delay.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 2, p.Semester)
	assert.False(t, p.NeedsPrerequisites)
	var codes []string
	for _, c := range p.Courses {
		codes = append(codes, c.Code)
	}
	assert.Contains(t, codes, "FF1")
	assert.NotContains(t, codes, "MAT1002")

	out = run(t, db, "areas")
	assert.Contains(t, out, "Mathematics")
}

func TestExportImport(t *testing.T) {
	db := testEnv(t, "state.json")
	run(t, db, "approve", "MAT1001", "ICI1241")
	run(t, db, "semester", "2")

	snap := filepath.Join(filepath.Dir(db), "snap.json")
	out := run(t, db, "export", "--out", snap)
	assert.Contains(t, out, "Exported 2 approved courses")

	data, err := os.ReadFile(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schemaVersion": "v2.0.0"`)

	stdout := run(t, db, "export")
	assert.Contains(t, stdout, `"approvedCodes"`)

	_, _, err = executeCmd(t, "--db", db, "reset")
	assert.ErrorContains(t, err, "--yes")

	run(t, db, "reset", "--yes")
	assert.Contains(t, run(t, db, "semester"), "Current semester: 1")

	out = run(t, db, "import", snap)
	assert.Contains(t, out, "Imported 2 approved courses, semester 2.")
	assert.Contains(t, run(t, db, "status"), "10 of 212 credits approved")
}

func TestImport_Incompatible(t *testing.T) {
	db := testEnv(t, "state.json")
	snap := filepath.Join(filepath.Dir(db), "old.json")
	require.NoError(t, os.WriteFile(snap, []byte(`{"approvedCodes":[],"schemaVersion":"1.0"}`), 0o644))

	_, _, err := executeCmd(t, "--db", db, "import", snap)
	assert.ErrorIs(t, err, session.ErrIncompatibleSnapshot)
}

func TestTheme(t *testing.T) {
	db := testEnv(t, "state.json")

	assert.Contains(t, run(t, db, "theme"), "Theme: dark, palette Indigo")
	assert.Contains(t, run(t, db, "theme", "light", "--palette", "ocean"), "Theme: light, palette Ocean")
	assert.Contains(t, run(t, db, "theme"), "Theme: light, palette Ocean")
	assert.Contains(t, run(t, db, "theme", "toggle"), "Theme: dark")
	assert.Contains(t, run(t, db, "theme", "--list"), "sunset")

	_, _, err := executeCmd(t, "--db", db, "theme", "sepia")
	assert.Error(t, err)
}

func TestTune(t *testing.T) {
	db := testEnv(t, "state.json")

	out := run(t, db, "tune", "--credits-per-semester", "30")
	assert.Contains(t, out, "30 (override)")

	out = run(t, db, "tune")
	assert.Contains(t, out, "30 (override)")

	_, _, err := executeCmd(t, "--db", db, "tune", "--total-semesters", "0")
	assert.Error(t, err)

	out = run(t, db, "tune", "--reset")
	assert.NotContains(t, out, "(override)")
	assert.Contains(t, out, "22")
}

func TestConfigFile(t *testing.T) {
	db := testEnv(t, "state.json")
	cfgPath := filepath.Join(filepath.Dir(db), "malla.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[delay]\ncredits_per_ideal_semester = 25\n"), 0o644))

	out := run(t, db, "--config", cfgPath, "tune")
	assert.Contains(t, out, "25")
	assert.NotContains(t, out, "(override)")

	_, _, err := executeCmd(t, "--db", db, "--config", filepath.Join(filepath.Dir(db), "missing.toml"), "tune")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	db := testEnv(t, "state.json")

	out := run(t, db, "validate", "--strict")
	assert.Contains(t, out, "No integrity issues.")

	bad := filepath.Join(filepath.Dir(db), "bad.jsonc")
	require.NoError(t, os.WriteFile(bad, []byte(`{
  // two courses, one dangling prerequisite
  "courses": [
    {"code": "A", "title": "A", "credits": 3, "semester": 1, "area": "ingenieria"},
    {"code": "B", "title": "B", "credits": 3, "semester": 2, "area": "ingenieria", "prerequisites": ["Z"]},
  ]
}`), 0o644))

	out = run(t, db, "--catalog", bad, "validate")
	assert.Contains(t, out, "dangling_prerequisite")

	_, _, err := executeCmd(t, "--db", db, "--catalog", bad, "validate", "--strict")
	assert.ErrorContains(t, err, "catalog validation failed")
}

func TestVersion(t *testing.T) {
	out, _, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "malla (devel)\n", out)
}
