package helpers

import "strings"

// Ptr returns a pointer to the provided value.
func Ptr[T any](val T) *T {
	return &val
}

// ValueOr returns the dereferenced value or the provided default if nil.
func ValueOr[T any](val *T, fallback T) T {
	if val == nil {
		return fallback
	}
	return *val
}

// NonEmpty returns nil for blank strings, otherwise a pointer to the trimmed value.
func NonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
