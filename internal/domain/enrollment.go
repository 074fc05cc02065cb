package domain

import "time"

// PeriodStatus is the lifecycle state of an enrollment period.
type PeriodStatus string

// Possible period statuses.
const (
	PeriodActive PeriodStatus = "active"
	PeriodClosed PeriodStatus = "closed"
)

// EnrollmentPeriod is a user's enrollment for one academic term.
// TotalCredits always equals the sum of credits of the period's
// enrollment records; both are only mutated inside one transaction.
type EnrollmentPeriod struct {
	ID           string
	UserID       string
	Term         string
	Status       PeriodStatus
	TotalCredits int
	CreatedAt    time.Time
}

// EnrollmentRecord links one period to one subject. At most one record
// exists per (period, subject) pair.
type EnrollmentRecord struct {
	ID        string
	PeriodID  string
	SubjectID string
	CreatedAt time.Time
}

// CareerAssignment links an enrollment period to a career. The existence
// of any assignment for a user's periods means the user's career choice
// is permanent.
type CareerAssignment struct {
	ID        string
	PeriodID  string
	CareerID  string
	CreatedAt time.Time
}
