package scopes

import (
	"slices"
	"sort"
	"strings"
)

const (
	// Separator is used to separate multiple scopes in a serialized string.
	Separator = " "

	// Wildcard represents the scope that grants every capability.
	Wildcard = "*"
)

// Parse converts a space-separated string of scopes into a string slice.
//
// Trims spaces and removes empty entries. Returns nil for empty input.
//
// Example:
//
//	s := scopes.Parse("post:read post:write")
//	// Returns: []string{"post:read", "post:write"}
func Parse(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, Separator)
	out := make([]string, 0, len(parts))
	for i := range parts {
		if parts[i] = strings.TrimSpace(parts[i]); parts[i] != "" {
			out = append(out, parts[i])
		}
	}

	return out
}

// Join converts a slice of scopes back to a space-separated string.
// Returns an empty string if the input slice is empty or nil.
func Join(scopes []string) string {
	if len(scopes) == 0 {
		return ""
	}
	return strings.Join(scopes, Separator)
}

// HasWildcard reports whether the collection contains the global wildcard.
func HasWildcard(scopes []string) bool {
	return slices.Contains(scopes, Wildcard)
}

// Contains reports whether the collection grants the given scope.
//
// A collection grants a scope when it contains the scope verbatim or when it
// contains the global wildcard. An empty collection grants nothing.
func Contains(scopes []string, scope string) bool {
	if len(scopes) == 0 {
		return false
	}
	return HasWildcard(scopes) || slices.Contains(scopes, scope)
}

// ContainsAll reports whether the collection grants every required scope.
// An empty required set is always satisfied.
func ContainsAll(scopes, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(scopes) == 0 {
		return false
	}
	if HasWildcard(scopes) {
		return true
	}
	for _, req := range required {
		if !slices.Contains(scopes, req) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the collection grants at least one of the
// required scopes. An empty required set is always satisfied.
func ContainsAny(scopes, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(scopes) == 0 {
		return false
	}
	if HasWildcard(scopes) {
		return true
	}
	for _, req := range required {
		if slices.Contains(scopes, req) {
			return true
		}
	}
	return false
}

// Equal checks if two scope collections are identical regardless of order.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	s1 := make([]string, len(a))
	s2 := make([]string, len(b))
	copy(s1, a)
	copy(s2, b)
	sort.Strings(s1)
	sort.Strings(s2)

	return slices.Equal(s1, s2)
}

// Normalize removes duplicate scopes and sorts them alphabetically.
// Returns nil for empty input.
func Normalize(scopes []string) []string {
	if len(scopes) == 0 {
		return nil
	}

	unique := make(map[string]struct{}, len(scopes))
	for i := range scopes {
		unique[scopes[i]] = struct{}{}
	}

	out := make([]string, 0, len(unique))
	for scope := range unique {
		out = append(out, scope)
	}
	sort.Strings(out)

	return out
}
