package curriculum

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tailscale/hujson"
)

//go:embed default_catalog.jsonc
var defaultCatalogData []byte

//go:embed catalog.schema.json
var catalogSchemaData []byte

const catalogSchemaURL = "schema://catalog.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Catalog is the static course list a Graph is built from.
type Catalog struct {
	Name    string   `json:"name,omitempty"`
	Courses []Course `json:"courses"`
}

// DefaultCatalog returns the embedded curriculum.
func DefaultCatalog() Catalog {
	cat, err := ParseCatalog(defaultCatalogData)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return cat
}

// LoadCatalogFile reads and parses a catalog file. JSON with comments and
// trailing commas is accepted.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog standardizes JSONC input, validates it against the catalog
// schema, and decodes it.
func ParseCatalog(data []byte) (Catalog, error) {
	// Standardize works in place; never touch the caller's buffer.
	std, err := hujson.Standardize(slices.Clone(data))
	if err != nil {
		return Catalog{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(std))
	if err != nil {
		return Catalog{}, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := catalogSchema()
	if err != nil {
		return Catalog{}, fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Catalog{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(std, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return cat, nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaData))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(catalogSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(catalogSchemaURL)
	})
	return compiledSchema, schemaErr
}

// Codes returns every course code in declaration order, duplicates included.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c.Courses))
	for _, course := range c.Courses {
		codes = append(codes, course.Code)
	}
	return codes
}

// Signature returns the JSON array of all course codes, sorted. Two catalogs
// with the same signature accept the same persisted approvals.
func (c Catalog) Signature() string {
	codes := c.Codes()
	sort.Strings(codes)
	b, err := json.Marshal(codes)
	if err != nil {
		// []string always marshals.
		panic(err)
	}
	return string(b)
}
