// Package term resolves the active academic term.
package term

import (
	"fmt"
	"time"
)

// Resolver returns the active term identifier, e.g. "2025-2".
type Resolver func() string

// New builds a resolver for the given timezone. The year is bisected into
// two terms: January–June is "-1", July–December is "-2". If override is
// non-empty it is returned verbatim, which pins the term for testing or
// for off-calendar enrollment windows.
func New(tz string, override string) (Resolver, error) {
	if override != "" {
		return func() string { return override }, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load term timezone %q: %w", tz, err)
	}
	return func() string {
		return FromTime(time.Now().In(loc))
	}, nil
}

// FromTime computes the term identifier for a point in time.
func FromTime(t time.Time) string {
	half := 1
	if t.Month() >= time.July {
		half = 2
	}
	return fmt.Sprintf("%d-%d", t.Year(), half)
}

// Fixed returns a resolver pinned to one term.
func Fixed(term string) Resolver {
	return func() string { return term }
}
