// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/acampos/matriculabot/internal/domain"
)

// Repository defines the interface for persisting academic data.
//
// Lookup methods return (nil, nil) when the record does not exist; the
// caller decides whether absence is an error. Create methods return
// domain.ErrDuplicate (wrapped) on unique-constraint violations.
type Repository interface {
	// UserByID retrieves a user by id.
	UserByID(ctx context.Context, id string) (*domain.User, error)

	// UserByEmail retrieves a user by email, case-insensitively.
	UserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UserByCredentials retrieves the user matching both email and
	// national id, the login check.
	UserByCredentials(ctx context.Context, email, nationalID string) (*domain.User, error)

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *domain.User) error

	// ListStudents returns all users with the student role.
	ListStudents(ctx context.Context) ([]*domain.User, error)

	// CreateSubject inserts a new subject.
	CreateSubject(ctx context.Context, subject *domain.Subject) error

	// SubjectByCode retrieves a subject by code, case-insensitively.
	SubjectByCode(ctx context.Context, code string) (*domain.Subject, error)

	// ListSubjects returns all subjects.
	ListSubjects(ctx context.Context) ([]*domain.Subject, error)

	// CreateCareer inserts a new career.
	CreateCareer(ctx context.Context, career *domain.Career) error

	// CareerByCode retrieves a career by code, case-insensitively.
	CareerByCode(ctx context.Context, code string) (*domain.Career, error)

	// PeriodByUserTerm retrieves a user's enrollment period for a term.
	PeriodByUserTerm(ctx context.Context, userID, term string) (*domain.EnrollmentPeriod, error)

	// SubjectsForPeriod returns the subjects enrolled in a period.
	SubjectsForPeriod(ctx context.Context, periodID string) ([]*domain.Subject, error)

	// InTx runs fn inside a single exclusive write transaction. The
	// transaction commits when fn returns nil and rolls back otherwise;
	// no partial writes survive an error on any exit path.
	InTx(ctx context.Context, fn func(tx *Tx) error) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
