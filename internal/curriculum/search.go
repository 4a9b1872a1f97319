package curriculum

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Cálculo" and "calculo"
// compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Matches reports whether query is an accent- and case-insensitive substring
// of the course code or title. An empty query matches everything.
func (c Course) Matches(query string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	return strings.Contains(Fold(c.Code), q) || strings.Contains(Fold(c.Title), q)
}

// Search returns the courses matching query in catalog order.
func (g *Graph) Search(query string) []Course {
	var out []Course
	for _, c := range g.courses {
		if c.Matches(query) {
			out = append(out, c)
		}
	}
	return out
}
