package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/acampos/matriculabot/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes write transactions to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		national_id TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		role TEXT NOT NULL,
		career_id TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS careers (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE COLLATE NOCASE,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS subjects (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE COLLATE NOCASE,
		name TEXT NOT NULL,
		semester INTEGER NOT NULL,
		credits INTEGER NOT NULL,
		seats INTEGER NOT NULL CHECK (seats >= 0),
		days TEXT NOT NULL,
		hours TEXT NOT NULL,
		career_id TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enrollment_periods (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		term TEXT NOT NULL,
		status TEXT NOT NULL,
		total_credits INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		UNIQUE(user_id, term)
	);

	CREATE TABLE IF NOT EXISTS enrollment_records (
		id TEXT PRIMARY KEY,
		period_id TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(period_id, subject_id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_period ON enrollment_records(period_id);

	CREATE TABLE IF NOT EXISTS career_assignments (
		id TEXT PRIMARY KEY,
		period_id TEXT NOT NULL,
		career_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_period ON career_assignments(period_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

const userColumns = `id, name, national_id, email, role, career_id, created_at, updated_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var careerID sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&user.ID, &user.Name, &user.NationalID, &user.Email,
		&user.Role, &careerID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.CareerID = careerID.String
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// UserByID retrieves a user by id.
func (s *SQLiteStore) UserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// UserByEmail retrieves a user by email, case-insensitively.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UserByCredentials retrieves the user matching both email and national id.
func (s *SQLiteStore) UserByCredentials(ctx context.Context, email, nationalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE AND national_id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, email, nationalID))
}

// CreateUser inserts a new user. The id is generated here if unset.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	var careerID interface{}
	if user.CareerID != "" {
		careerID = user.CareerID
	}

	query := `
	INSERT INTO users (id, name, national_id, email, role, career_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.NationalID, user.Email,
		string(user.Role), careerID, now.Unix(), now.Unix(),
	)
	return mapError("insert user", err)
}

// ListStudents returns all users with the student role, ordered by name.
func (s *SQLiteStore) ListStudents(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ? ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, string(domain.RoleStudent))
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var careerID sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&user.ID, &user.Name, &user.NationalID, &user.Email,
			&user.Role, &careerID, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan student row: %w", err)
		}
		user.CareerID = careerID.String
		user.CreatedAt = time.Unix(createdAt, 0)
		user.UpdatedAt = time.Unix(updatedAt, 0)
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return users, nil
}

// CreateSubject inserts a new subject.
func (s *SQLiteStore) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	subject.CreatedAt = time.Now()

	var careerID interface{}
	if subject.CareerID != "" {
		careerID = subject.CareerID
	}

	query := `
	INSERT INTO subjects (id, code, name, semester, credits, seats, days, hours, career_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		subject.ID, subject.Code, subject.Name, subject.Semester,
		subject.Credits, subject.Seats, subject.Days, subject.Hours,
		careerID, subject.CreatedAt.Unix(),
	)
	return mapError("insert subject", err)
}

const subjectColumns = `id, code, name, semester, credits, seats, days, hours, career_id, created_at`

func scanSubjectRow(scan func(dest ...interface{}) error) (*domain.Subject, error) {
	var subject domain.Subject
	var careerID sql.NullString
	var createdAt int64

	err := scan(
		&subject.ID, &subject.Code, &subject.Name, &subject.Semester,
		&subject.Credits, &subject.Seats, &subject.Days, &subject.Hours,
		&careerID, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	subject.CareerID = careerID.String
	subject.CreatedAt = time.Unix(createdAt, 0)
	return &subject, nil
}

// SubjectByCode retrieves a subject by code, case-insensitively.
func (s *SQLiteStore) SubjectByCode(ctx context.Context, code string) (*domain.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE code = ? COLLATE NOCASE`
	subject, err := scanSubjectRow(s.db.QueryRowContext(ctx, query, code).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan subject row: %w", err)
	}
	return subject, nil
}

// ListSubjects returns all subjects ordered by code.
func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]*domain.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects ORDER BY code`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		subject, err := scanSubjectRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

// CreateCareer inserts a new career.
func (s *SQLiteStore) CreateCareer(ctx context.Context, career *domain.Career) error {
	if career.ID == "" {
		career.ID = uuid.NewString()
	}
	career.CreatedAt = time.Now()

	query := `INSERT INTO careers (id, code, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		career.ID, career.Code, career.Name, career.CreatedAt.Unix(),
	)
	return mapError("insert career", err)
}

// CareerByCode retrieves a career by code, case-insensitively.
func (s *SQLiteStore) CareerByCode(ctx context.Context, code string) (*domain.Career, error) {
	query := `SELECT id, code, name, created_at FROM careers WHERE code = ? COLLATE NOCASE`
	var career domain.Career
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, code).Scan(
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

// PeriodByUserTerm retrieves a user's enrollment period for a term.
func (s *SQLiteStore) PeriodByUserTerm(ctx context.Context, userID, term string) (*domain.EnrollmentPeriod, error) {
	query := `
		SELECT id, user_id, term, status, total_credits, created_at
		FROM enrollment_periods WHERE user_id = ? AND term = ?`
	var period domain.EnrollmentPeriod
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, userID, term).Scan(
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

// SubjectsForPeriod returns the subjects enrolled in a period, ordered by code.
func (s *SQLiteStore) SubjectsForPeriod(ctx context.Context, periodID string) ([]*domain.Subject, error) {
	query := `
		SELECT s.id, s.code, s.name, s.semester, s.credits, s.seats, s.days, s.hours, s.career_id, s.created_at
		FROM subjects s
		JOIN enrollment_records r ON r.subject_id = s.id
		WHERE r.period_id = ?
		ORDER BY s.code`
	rows, err := s.db.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("query period subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		subject, err := scanSubjectRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan period subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate period subjects: %w", err)
	}
	return subjects, nil
}
