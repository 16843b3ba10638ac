// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Duplicates returns every value that occurs more than once, each reported a
// single time in order of its second occurrence.
//
// Example:
//
//	Duplicates([]string{"CS123", "MATH234", "CS123", "CS123"})
//	// Returns: []string{"CS123"}
func Duplicates[S ~string](values []S) []S {
	if len(values) < 2 {
		return nil
	}

	counts := make(map[S]int, len(values))
	var result []S
	for _, v := range values {
		counts[v]++
		if counts[v] == 2 {
			result = append(result, v)
		}
	}
	return result
}

// Intersect returns the values of candidates that are present in existing,
// preserving the order of candidates.
func Intersect[S ~string](candidates []S, existing []S) []S {
	if len(candidates) == 0 || len(existing) == 0 {
		return nil
	}

	set := make(map[S]struct{}, len(existing))
	for _, v := range existing {
		set[v] = struct{}{}
	}
	var result []S
	for _, v := range candidates {
		if _, ok := set[v]; ok {
			result = append(result, v)
		}
	}
	return result
}
