package domain

import "time"

// Subject is a course offering with a fixed seat capacity.
// Seats are a shared, decrementing resource: they are only ever mutated
// inside an enrollment transaction and can never go below zero.
type Subject struct {
	ID        string
	Code      string // unique, matched case-insensitively
	Name      string
	Semester  int
	Credits   int
	Seats     int
	Days      string
	Hours     string
	CareerID  string // owning career, optional
	CreatedAt time.Time
}

// HasSeats reports whether at least one seat remains.
func (s *Subject) HasSeats() bool {
	return s.Seats > 0
}

// Career is a degree program. A user may be bound to at most one,
// permanently.
type Career struct {
	ID        string
	Code      string // unique, matched case-insensitively
	Name      string
	CreatedAt time.Time
}
