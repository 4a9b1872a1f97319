package curriculum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_JSONC(t *testing.T) {
	data := []byte(`
// two courses
{
  "name": "Tiny",
  "courses": [
    {"code": "A", "title": "A", "credits": 3, "semester": 1, "area": "fisica"},
    {"code": "B", "title": "B", "credits": 3, "semester": 2, "area": "fisica", "prerequisites": ["A"],},
  ],
}`)
	cat, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, "Tiny", cat.Name)
	require.Len(t, cat.Courses, 2)
	assert.Equal(t, []string{"A"}, cat.Courses[1].Prerequisites)
	assert.Equal(t, AreaPhysics, cat.Courses[0].Area)
}

func TestParseCatalog_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{courses: `},
		{"missing courses", `{"name": "x"}`},
		{"empty courses", `{"courses": []}`},
		{"missing credits", `{"courses": [{"code": "A", "title": "A", "semester": 1, "area": "x"}]}`},
		{"fractional credits", `{"courses": [{"code": "A", "title": "A", "credits": 1.5, "semester": 1, "area": "x"}]}`},
		{"unknown field", `{"courses": [{"code": "A", "title": "A", "credits": 1, "semester": 1, "area": "x", "extra": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"courses": [{"code": "A", "title": "A", "credits": 2, "semester": 1, "area": "x"}]}`), 0o644))

	cat, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, cat.Codes())

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSignature_SortedCodes(t *testing.T) {
	cat := Catalog{Courses: []Course{{Code: "C"}, {Code: "A"}, {Code: "B"}}}
	assert.Equal(t, `["A","B","C"]`, cat.Signature())

	g, _ := Build(DefaultCatalog())
	assert.Equal(t, DefaultCatalog().Signature(), g.Signature())
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	assert.Equal(t, "Ingeniería Civil Informática", cat.Name)
	assert.Len(t, cat.Courses, 58)
}
