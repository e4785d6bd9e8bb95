package models

import "time"

// Window bounds the messages considered by a query. A zero Since is unbounded.
type Window struct {
	Since time.Time
}

// LastDays returns the window covering the days before now. Zero or negative
// days yield an unbounded window.
func LastDays(now time.Time, days int) Window {
	if days <= 0 {
		return Window{}
	}

	return Window{Since: now.AddDate(0, 0, -days)}
}

// LastHours returns the window covering the hours before now.
func LastHours(now time.Time, hours int) Window {
	if hours <= 0 {
		return Window{}
	}

	return Window{Since: now.Add(-time.Duration(hours) * time.Hour)}
}

// Bounded reports whether the window has a lower bound.
func (w Window) Bounded() bool { return !w.Since.IsZero() }

// SincePtr returns the lower bound for use as a nullable query parameter.
func (w Window) SincePtr() *time.Time {
	if !w.Bounded() {
		return nil
	}

	s := w.Since.UTC()

	return &s
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !w.Bounded() || !t.Before(w.Since)
}

// String renders the window for logs.
func (w Window) String() string {
	if !w.Bounded() {
		return "all"
	}

	return "since " + w.Since.UTC().Format(time.RFC3339)
}
