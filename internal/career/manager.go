// Package career executes the one-time career binding transaction.
package career

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/store"
)

// Manager binds users to careers. A binding is permanent: once either the
// user's direct career reference or any historical assignment exists, all
// further attempts are rejected.
type Manager struct {
	repo store.Repository
}

// New creates a career assignment manager.
func New(repo store.Repository) *Manager {
	return &Manager{repo: repo}
}

// Assign binds the user to the career identified by careerCode, creating
// the period for term if absent.
//
// The already-assigned check and the write happen inside the same
// transaction; two concurrent attempts cannot both pass the check.
// Failure modes: domain.ErrCareerAssigned, domain.ErrNotFound.
func (m *Manager) Assign(ctx context.Context, userID, careerCode, term string) (*domain.Career, error) {
	var assigned *domain.Career

	err := m.repo.InTx(ctx, func(tx *store.Tx) error {
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %q: %w", userID, domain.ErrNotFound)
		}
		if user.HasCareer() {
			return fmt.Errorf("user %q: %w", userID, domain.ErrCareerAssigned)
		}

		// A historical assignment on any period also counts, even if the
		// direct reference was somehow never set.
		has, err := tx.HasCareerAssignment(ctx, userID)
		if err != nil {
			return err
		}
		if has {
			return fmt.Errorf("user %q: %w", userID, domain.ErrCareerAssigned)
		}

		career, err := tx.CareerByCode(ctx, careerCode)
		if err != nil {
			return err
		}
		if career == nil {
			return fmt.Errorf("career %q: %w", careerCode, domain.ErrNotFound)
		}

		period, err := tx.EnsurePeriod(ctx, userID, term)
		if err != nil {
			return err
		}

		if err := tx.InsertCareerAssignment(ctx, period.ID, career.ID); err != nil {
			return err
		}

		set, err := tx.SetUserCareerIfUnset(ctx, userID, career.ID)
		if err != nil {
			return err
		}
		if !set {
			// Another writer won between our check and the conditional
			// update. The transaction serialization should make this
			// impossible; treat it as already assigned either way.
			return fmt.Errorf("user %q: %w", userID, domain.ErrCareerAssigned)
		}

		assigned = career
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Career assigned", "user_id", userID, "career", assigned.Code, "term", term)
	return assigned, nil
}
