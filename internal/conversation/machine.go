// Package conversation implements the pre-authentication conversation
// state machine: role selection, admin key verification, login, and
// registration.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/i18n"
	"github.com/acampos/matriculabot/internal/store"
)

// Result is the outcome of one pre-authentication turn.
type Result struct {
	// ReplyKey is the i18n key of the reply to send.
	ReplyKey string
	// Params carries substitution values for the reply.
	Params i18n.Params
	// MenuKey, when set, is appended to the reply on its own line.
	MenuKey string
	// Discard tells the caller to forget the session entirely; the next
	// turn starts over at the menu.
	Discard bool
}

// Machine advances a session through the login and registration flow.
// User lookups and creation are its only storage touch points; everything
// else mutates the in-memory session.
type Machine struct {
	repo        store.Repository
	msgs        *i18n.Catalog
	adminSecret string
}

// New creates a conversation machine. adminSecret is the exact string an
// administrator must present at the AdminSecretPending state.
func New(repo store.Repository, msgs *i18n.Catalog, adminSecret string) *Machine {
	return &Machine{repo: repo, msgs: msgs, adminSecret: adminSecret}
}

// Step processes one turn for a non-authenticated session. It must not be
// called once the session reaches Authenticated.
func (m *Machine) Step(ctx context.Context, sess *domain.Session, input string) (Result, error) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	switch sess.State {
	case domain.StateAnonymous:
		return m.stepRoleMenu(sess, lower), nil
	case domain.StateAdminSecretPending:
		return m.stepAdminSecret(sess, trimmed), nil
	case domain.StateCredentialChoice:
		return m.stepCredentialChoice(sess, lower), nil
	case domain.StateVerifyingEmail:
		return m.stepVerifyEmail(sess, trimmed), nil
	case domain.StateVerifyingID:
		return m.stepVerifyID(ctx, sess, trimmed)
	case domain.StateRegisteringName:
		return m.stepRegisterName(sess, trimmed), nil
	case domain.StateRegisteringID:
		return m.stepRegisterID(sess, trimmed), nil
	case domain.StateRegisteringEmail:
		return m.stepRegisterEmail(ctx, sess, trimmed)
	default:
		return Result{}, fmt.Errorf("conversation machine called in state %d", sess.State)
	}
}

func (m *Machine) stepRoleMenu(sess *domain.Session, lower string) Result {
	switch lower {
	case "1":
		sess.RoleIntent = domain.IntentStudent
		sess.State = domain.StateCredentialChoice
		return Result{ReplyKey: "choice_menu"}
	case "2":
		sess.RoleIntent = domain.IntentAdmin
		sess.State = domain.StateAdminSecretPending
		return Result{ReplyKey: "ask_admin_secret"}
	default:
		return Result{ReplyKey: "role_menu"}
	}
}

// stepAdminSecret grants one attempt at the admin key. A mismatch drops
// the admin intent entirely; the user is back at the menu and a later
// correct key on this session cannot resurrect the attempt.
func (m *Machine) stepAdminSecret(sess *domain.Session, input string) Result {
	if input == m.adminSecret {
		sess.AdminKeyVerified = true
		sess.State = domain.StateCredentialChoice
		return Result{ReplyKey: "choice_menu"}
	}
	slog.Warn("Admin key rejected", "identity", sess.Identity)
	sess.ResetIntent()
	return Result{ReplyKey: "admin_secret_rejected", MenuKey: "role_menu"}
}

func (m *Machine) stepCredentialChoice(sess *domain.Session, lower string) Result {
	registered := m.matchPhrase(sess.Locale, "opt_registered", lower)
	register := m.matchPhrase(sess.Locale, "opt_register", lower)
	if !registered && !register {
		return Result{ReplyKey: "choice_menu"}
	}

	// Admin intent without a verified key cannot proceed. The machine
	// never reaches this state in that shape, but the check keeps the
	// invariant local instead of trusting the transition graph.
	if sess.RoleIntent == domain.IntentAdmin && !sess.AdminKeyVerified {
		sess.ResetIntent()
		return Result{ReplyKey: "role_menu"}
	}

	if registered {
		sess.State = domain.StateVerifyingEmail
		return Result{ReplyKey: "ask_email"}
	}
	sess.State = domain.StateRegisteringName
	return Result{ReplyKey: "ask_name"}
}

func (m *Machine) stepVerifyEmail(sess *domain.Session, input string) Result {
	if !domain.ValidEmail(input) {
		return Result{ReplyKey: "invalid_email"}
	}
	sess.Email = input
	sess.State = domain.StateVerifyingID
	return Result{ReplyKey: "ask_id"}
}

// stepVerifyID completes the login lookup. An unknown (email, id) pair is
// a hard failure: the session is forgotten, not retried.
func (m *Machine) stepVerifyID(ctx context.Context, sess *domain.Session, input string) (Result, error) {
	if !domain.ValidNationalID(input) {
		return Result{ReplyKey: "invalid_id"}, nil
	}
	sess.NationalID = input

	user, err := m.repo.UserByCredentials(ctx, sess.Email, sess.NationalID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup user by credentials: %w", err)
	}
	if user == nil {
		return Result{ReplyKey: "unrecognized", Discard: true}, nil
	}
	if sess.RoleIntent == domain.IntentAdmin && !user.IsAdmin() {
		slog.Warn("Admin login rejected for non-admin user", "identity", sess.Identity, "user_id", user.ID)
		return Result{ReplyKey: "admin_required", Discard: true}, nil
	}

	m.bind(sess, user)
	return Result{ReplyKey: "session_started"}, nil
}

func (m *Machine) stepRegisterName(sess *domain.Session, input string) Result {
	if input == "" {
		return Result{ReplyKey: "ask_name"}
	}
	sess.Name = input
	sess.State = domain.StateRegisteringID
	return Result{ReplyKey: "ask_id"}
}

func (m *Machine) stepRegisterID(sess *domain.Session, input string) Result {
	if !domain.ValidNationalID(input) {
		return Result{ReplyKey: "invalid_id"}
	}
	sess.NationalID = input
	sess.State = domain.StateRegisteringEmail
	return Result{ReplyKey: "ask_email"}
}

// stepRegisterEmail finishes registration. An email that already exists is
// not an error: the flow degrades to an implicit login on the existing
// account. The admin role is granted only when the session carries both
// the admin intent and a verified key; a client cannot self-grant it.
func (m *Machine) stepRegisterEmail(ctx context.Context, sess *domain.Session, input string) (Result, error) {
	if !domain.ValidEmail(input) {
		return Result{ReplyKey: "invalid_email"}, nil
	}
	sess.Email = input

	existing, err := m.repo.UserByEmail(ctx, sess.Email)
	if err != nil {
		return Result{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		m.bind(sess, existing)
		return Result{ReplyKey: "already_exist"}, nil
	}

	role := domain.RoleStudent
	if sess.RoleIntent == domain.IntentAdmin && sess.AdminKeyVerified {
		role = domain.RoleAdmin
	}
	user := &domain.User{
		Name:       sess.Name,
		NationalID: sess.NationalID,
		Email:      sess.Email,
		Role:       role,
	}
	if err := m.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Lost a race with a concurrent registration for the same email.
			return Result{ReplyKey: "register_fail", Discard: true}, nil
		}
		return Result{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID, "role", user.Role)
	m.bind(sess, user)

	key := "register_success_student"
	if role == domain.RoleAdmin {
		key = "register_success_admin"
	}
	return Result{ReplyKey: key, Params: i18n.Params{"name": user.Name}}, nil
}

func (m *Machine) bind(sess *domain.Session, user *domain.User) {
	sess.State = domain.StateAuthenticated
	sess.UserID = user.ID
	sess.Role = user.Role
}

// matchPhrase compares input against the localized phrase for key. Phrases
// live in the catalog so the machine itself stays locale-free.
func (m *Machine) matchPhrase(locale, key, lower string) bool {
	return lower == strings.ToLower(m.msgs.T(locale, key, nil))
}
