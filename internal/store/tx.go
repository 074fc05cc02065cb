package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/acampos/matriculabot/internal/domain"
	"github.com/google/uuid"
)

// Tx exposes the primitives the transaction managers compose. Every method
// runs on the same underlying transaction; nothing is visible to other
// connections until InTx commits.
type Tx struct {
	tx *sql.Tx
}

// InTx runs fn inside a single exclusive write transaction.
//
// The store-level mutex is taken before the transaction begins and held
// until it ends. SQLite allows one writer at a time; serializing writers
// here means contended transactions queue instead of surfacing
// SQLITE_BUSY, which gives enroll and withdraw the row-lock semantics
// they need: the seat check and the seat mutation happen with no other
// writer in between. Rollback-or-commit is guaranteed on every exit path,
// including panics in fn.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			slog.Warn("transaction rollback failed", "error", rbErr)
		}
	}()

	if err = fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	committed = true
	return nil
}

// SubjectByCode retrieves a subject by code within the transaction.
// Returns (nil, nil) when no such subject exists.
func (t *Tx) SubjectByCode(ctx context.Context, code string) (*domain.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE code = ? COLLATE NOCASE`
	subject, err := scanSubjectRow(t.tx.QueryRowContext(ctx, query, code).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan subject row: %w", err)
	}
	return subject, nil
}

// UserByID retrieves a user by id within the transaction.
func (t *Tx) UserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(t.tx.QueryRowContext(ctx, query, id))
}

// CareerByCode retrieves a career by code within the transaction.
func (t *Tx) CareerByCode(ctx context.Context, code string) (*domain.Career, error) {
	query := `SELECT id, code, name, created_at FROM careers WHERE code = ? COLLATE NOCASE`
	var career domain.Career
	var createdAt int64
	err := t.tx.QueryRowContext(ctx, query, code).Scan(
		&career.ID, &career.Code, &career.Name, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan career row: %w", err)
	}
	career.CreatedAt = time.Unix(createdAt, 0)
	return &career, nil
}

// EnsurePeriod returns the user's enrollment period for term, creating it
// with zero credits if absent.
func (t *Tx) EnsurePeriod(ctx context.Context, userID, term string) (*domain.EnrollmentPeriod, error) {
	query := `
		SELECT id, user_id, term, status, total_credits, created_at
		FROM enrollment_periods WHERE user_id = ? AND term = ?`
	var period domain.EnrollmentPeriod
	var createdAt int64
	err := t.tx.QueryRowContext(ctx, query, userID, term).Scan(
		&period.ID, &period.UserID, &period.Term, &period.Status,
		&period.TotalCredits, &createdAt,
	)
	if err == nil {
		period.CreatedAt = time.Unix(createdAt, 0)
		return &period, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("scan period row: %w", err)
	}

	period = domain.EnrollmentPeriod{
		ID:        uuid.NewString(),
		UserID:    userID,
		Term:      term,
		Status:    domain.PeriodActive,
		CreatedAt: time.Now(),
	}
	insert := `
		INSERT INTO enrollment_periods (id, user_id, term, status, total_credits, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`
	if _, err := t.tx.ExecContext(ctx, insert,
		period.ID, period.UserID, period.Term, string(period.Status), period.CreatedAt.Unix(),
	); err != nil {
		return nil, mapError("insert period", err)
	}
	return &period, nil
}

// PeriodByUserTerm retrieves a user's enrollment period for a term within
// the transaction. Returns (nil, nil) when no period exists.
func (t *Tx) PeriodByUserTerm(ctx context.Context, userID, term string) (*domain.EnrollmentPeriod, error) {
	query := `
		SELECT id, user_id, term, status, total_credits, created_at
		FROM enrollment_periods WHERE user_id = ? AND term = ?`
	var period domain.EnrollmentPeriod
	var createdAt int64
	err := t.tx.QueryRowContext(ctx, query, userID, term).Scan(
		&period.ID, &period.UserID, &period.Term, &period.Status,
		&period.TotalCredits, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan period row: %w", err)
	}
	period.CreatedAt = time.Unix(createdAt, 0)
	return &period, nil
}

// HasEnrollment reports whether a record exists for (period, subject).
func (t *Tx) HasEnrollment(ctx context.Context, periodID, subjectID string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx,
		`SELECT 1 FROM enrollment_records WHERE period_id = ? AND subject_id = ?`,
		periodID, subjectID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query enrollment record: %w", err)
	}
	return true, nil
}

// InsertEnrollment creates the (period, subject) record.
func (t *Tx) InsertEnrollment(ctx context.Context, periodID, subjectID string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO enrollment_records (id, period_id, subject_id, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), periodID, subjectID, time.Now().Unix(),
	)
	return mapError("insert enrollment record", err)
}

// DeleteEnrollment removes the (period, subject) record, reporting whether
// a record existed.
func (t *Tx) DeleteEnrollment(ctx context.Context, periodID, subjectID string) (bool, error) {
	result, err := t.tx.ExecContext(ctx,
		`DELETE FROM enrollment_records WHERE period_id = ? AND subject_id = ?`,
		periodID, subjectID,
	)
	if err != nil {
		return false, mapError("delete enrollment record", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// AddCredits adjusts a period's total credits by delta (negative to subtract).
func (t *Tx) AddCredits(ctx context.Context, periodID string, delta int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE enrollment_periods SET total_credits = total_credits + ? WHERE id = ?`,
		delta, periodID,
	)
	return mapError("update period credits", err)
}

// TakeSeat decrements a subject's seat count if at least one seat remains.
// The conditional update means the count cannot go negative even outside
// the store's writer serialization.
func (t *Tx) TakeSeat(ctx context.Context, subjectID string) (bool, error) {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE subjects SET seats = seats - 1 WHERE id = ? AND seats > 0`,
		subjectID,
	)
	if err != nil {
		return false, mapError("take seat", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ReturnSeat increments a subject's seat count.
func (t *Tx) ReturnSeat(ctx context.Context, subjectID string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE subjects SET seats = seats + 1 WHERE id = ?`,
		subjectID,
	)
	return mapError("return seat", err)
}

// HasCareerAssignment reports whether any career assignment exists across
// any of the user's enrollment periods.
func (t *Tx) HasCareerAssignment(ctx context.Context, userID string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `
		SELECT 1 FROM career_assignments a
		JOIN enrollment_periods p ON p.id = a.period_id
		WHERE p.user_id = ?
		LIMIT 1`, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query career assignment: %w", err)
	}
	return true, nil
}

// InsertCareerAssignment links a period to a career.
func (t *Tx) InsertCareerAssignment(ctx context.Context, periodID, careerID string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO career_assignments (id, period_id, career_id, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), periodID, careerID, time.Now().Unix(),
	)
	return mapError("insert career assignment", err)
}

// SetUserCareerIfUnset sets the user's direct career reference only if it
// is still null, reporting whether the write happened. The condition
// guards against a concurrent writer even though InTx already serializes
// callers.
func (t *Tx) SetUserCareerIfUnset(ctx context.Context, userID, careerID string) (bool, error) {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE users SET career_id = ?, updated_at = ? WHERE id = ? AND career_id IS NULL`,
		careerID, time.Now().Unix(), userID,
	)
	if err != nil {
		return false, mapError("set user career", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}
