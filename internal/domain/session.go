package domain

import "time"

// ConversationState is the position of a conversation in the login and
// registration flow.
type ConversationState int

// Conversation states. Authenticated is terminal: once reached, turns are
// handled by the command router instead of the state machine.
const (
	StateAnonymous ConversationState = iota
	StateAdminSecretPending
	StateCredentialChoice
	StateVerifyingEmail
	StateVerifyingID
	StateRegisteringName
	StateRegisteringID
	StateRegisteringEmail
	StateAuthenticated
)

// RoleIntent is the role a conversation is trying to authenticate as.
type RoleIntent int

// Role intents chosen at the initial menu.
const (
	IntentNone RoleIntent = iota
	IntentStudent
	IntentAdmin
)

// Session is the per-identity conversation state. It lives only in memory:
// a process restart forgets every session and users start over at the menu.
type Session struct {
	Identity         string
	State            ConversationState
	RoleIntent       RoleIntent
	AdminKeyVerified bool
	Locale           string

	// Field buffer collected across registration/verification turns.
	Name       string
	NationalID string
	Email      string

	// Set once authenticated.
	UserID string
	Role   Role

	LastActive time.Time
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.UserID != ""
}

// ResetIntent clears the role intent and any verified admin key, returning
// the session to the initial menu.
func (s *Session) ResetIntent() {
	s.RoleIntent = IntentNone
	s.AdminKeyVerified = false
	s.State = StateAnonymous
}

// Touch records activity for TTL accounting.
func (s *Session) Touch(now time.Time) {
	s.LastActive = now
}
