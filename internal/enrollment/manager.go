// Package enrollment executes enroll and withdraw as atomic transactions
// against subject seat capacity and enrollment-period credit totals.
package enrollment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/store"
)

// Manager owns the only code paths allowed to mutate seat counters and
// credit totals. Both run inside a single store transaction, so any exit
// leaves the counters either fully updated or untouched.
type Manager struct {
	repo store.Repository
}

// New creates an enrollment manager.
func New(repo store.Repository) *Manager {
	return &Manager{repo: repo}
}

// Enroll registers the user in the subject for the given term. The term
// is an input, resolved by the caller, so the transaction logic stays
// independent of wall-clock time.
//
// Failure modes: domain.ErrNotFound (unknown subject), domain.ErrNoSeats,
// domain.ErrAlreadyEnrolled. On success the returned subject carries the
// seat count after the decrement.
func (m *Manager) Enroll(ctx context.Context, userID, subjectCode, term string) (*domain.Subject, error) {
	var enrolled *domain.Subject

	err := m.repo.InTx(ctx, func(tx *store.Tx) error {
		subject, err := tx.SubjectByCode(ctx, subjectCode)
		if err != nil {
			return err
		}
		if subject == nil {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrNotFound)
		}
		if !subject.HasSeats() {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrNoSeats)
		}

		period, err := tx.EnsurePeriod(ctx, userID, term)
		if err != nil {
			return err
		}

		exists, err := tx.HasEnrollment(ctx, period.ID, subject.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrAlreadyEnrolled)
		}

		if err := tx.InsertEnrollment(ctx, period.ID, subject.ID); err != nil {
			return err
		}
		if err := tx.AddCredits(ctx, period.ID, subject.Credits); err != nil {
			return err
		}

		// The seat check above ran in this same transaction, so the
		// conditional decrement can only miss if an invariant broke.
		taken, err := tx.TakeSeat(ctx, subject.ID)
		if err != nil {
			return err
		}
		if !taken {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrNoSeats)
		}

		subject.Seats--
		enrolled = subject
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Enrollment completed",
		"user_id", userID, "subject", enrolled.Code, "term", term, "seats_left", enrolled.Seats)
	return enrolled, nil
}

// Withdraw removes the user's enrollment in the subject for the term,
// restoring the seat and subtracting the credits, atomically.
//
// Failure modes: domain.ErrNotFound (unknown subject or no period for the
// term), domain.ErrNotEnrolled.
func (m *Manager) Withdraw(ctx context.Context, userID, subjectCode, term string) (*domain.Subject, error) {
	var withdrawn *domain.Subject

	err := m.repo.InTx(ctx, func(tx *store.Tx) error {
		subject, err := tx.SubjectByCode(ctx, subjectCode)
		if err != nil {
			return err
		}
		if subject == nil {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrNotFound)
		}

		// Withdraw never creates a period; no period means nothing to undo.
		period, err := tx.PeriodByUserTerm(ctx, userID, term)
		if err != nil {
			return err
		}
		if period == nil {
			return fmt.Errorf("period for term %q: %w", term, domain.ErrNotFound)
		}

		removed, err := tx.DeleteEnrollment(ctx, period.ID, subject.ID)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("subject %q: %w", subjectCode, domain.ErrNotEnrolled)
		}

		if err := tx.AddCredits(ctx, period.ID, -subject.Credits); err != nil {
			return err
		}
		if err := tx.ReturnSeat(ctx, subject.ID); err != nil {
			return err
		}

		subject.Seats++
		withdrawn = subject
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Withdrawal completed",
		"user_id", userID, "subject", withdrawn.Code, "term", term)
	return withdrawn, nil
}
