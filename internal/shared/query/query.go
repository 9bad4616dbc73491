// Package query narrows in-memory record collections: visibility first,
// then exact-match filters, then free-text search, then ordering.
package query

import (
	"sort"
	"strings"
)

// Predicate reports whether a record is kept
type Predicate[T any] func(T) bool

// Spec describes one listing request
type Spec[T any] struct {
	// Visible is applied before anything else; nil keeps every record
	Visible Predicate[T]

	// Filters are combined with AND. Nil entries impose no constraint.
	Filters []Predicate[T]

	// Text is matched case-insensitively as a substring of TextFields.
	// Blank text disables the text step.
	Text       string
	TextFields func(T) []string

	// Less sorts the result (stable). Nil keeps input order.
	Less func(a, b T) bool
}

// Apply runs spec over items and returns a new slice
func Apply[T any](items []T, spec Spec[T]) []T {
	needle := Normalize(spec.Text)
	result := make([]T, 0, len(items))

	for _, item := range items {
		// Step 1: visibility
		if spec.Visible != nil && !spec.Visible(item) {
			continue
		}

		// Step 2: exact-match filters (AND)
		if !matchAll(item, spec.Filters) {
			continue
		}

		// Step 3: free text
		if needle != "" && spec.TextFields != nil && !ContainsAny(needle, spec.TextFields(item)...) {
			continue
		}

		result = append(result, item)
	}

	// Step 4: ordering
	if spec.Less != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return spec.Less(result[i], result[j])
		})
	}

	return result
}

func matchAll[T any](item T, filters []Predicate[T]) bool {
	for _, filter := range filters {
		if filter != nil && !filter(item) {
			return false
		}
	}
	return true
}

// Normalize trims and lower-cases a search string
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ContainsAny reports whether the normalized needle is a substring of
// at least one field (case-insensitive)
func ContainsAny(needle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Equals builds an exact-match filter. A nil want means "not supplied"
// and yields a nil predicate.
func Equals[T any, V comparable](want *V, get func(T) V) Predicate[T] {
	if want == nil {
		return nil
	}
	expected := *want
	return func(item T) bool {
		return get(item) == expected
	}
}
