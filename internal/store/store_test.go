package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	f, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return map[string]KV{
		"sqlite": openTestStore(t),
		"file":   f,
		"memory": NewMemory(),
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, KeyApprovedCodes)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, KeyApprovedCodes, `["A"]`))
			v, ok, err := kv.Get(ctx, KeyApprovedCodes)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `["A"]`, v)

			require.NoError(t, kv.Set(ctx, KeyApprovedCodes, `["A","B"]`))
			v, _, err = kv.Get(ctx, KeyApprovedCodes)
			require.NoError(t, err)
			assert.Equal(t, `["A","B"]`, v)

			require.NoError(t, kv.Set(ctx, KeyCurrentSemester, ""))
			v, ok, err = kv.Get(ctx, KeyCurrentSemester)
			require.NoError(t, err)
			assert.True(t, ok, "empty values are still present")
			assert.Empty(t, v)

			require.NoError(t, kv.Remove(ctx, KeyApprovedCodes))
			_, ok, err = kv.Get(ctx, KeyApprovedCodes)
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, kv.Remove(ctx, "missing"), "removing a missing key is not an error")
		})
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "malla.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyThemeMode, "light"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, KeyThemeMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, KeyColorTheme, "ocean"))
	require.NoError(t, f.Set(ctx, KeyCurrentSemester, "3"))
	require.NoError(t, f.Remove(ctx, KeyCurrentSemester))

	f, err = OpenFile(path)
	require.NoError(t, err)
	v, ok, _ := f.Get(ctx, KeyColorTheme)
	assert.True(t, ok)
	assert.Equal(t, "ocean", v)
	_, ok, _ = f.Get(ctx, KeyCurrentSemester)
	assert.False(t, ok)
}

func TestOpenFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestOpenPath_PicksBackend(t *testing.T) {
	dir := t.TempDir()

	kv, err := OpenPath(filepath.Join(dir, "nested", "state.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	kv, err = OpenPath(filepath.Join(dir, "malla.db"))
	require.NoError(t, err)
	require.IsType(t, &Store{}, kv)
	kv.(*Store).Close()
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MALLA_DB", filepath.Join(dir, "env", "custom.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env", "custom.db"), p)
	assert.DirExists(t, filepath.Join(dir, "env"))

	t.Setenv("MALLA_DB", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg"))
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "xdg", "malla", "malla.db"), p)
}
