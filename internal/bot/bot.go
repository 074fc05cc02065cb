// Package bot wires the session store, the conversation machine, and the
// command router into the single entry point the transport calls.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/acampos/matriculabot/internal/command"
	"github.com/acampos/matriculabot/internal/conversation"
	"github.com/acampos/matriculabot/internal/domain"
	"github.com/acampos/matriculabot/internal/i18n"
	"github.com/acampos/matriculabot/internal/session"
)

// Bot drives one conversational turn per inbound message.
type Bot struct {
	sessions *session.Store
	machine  *conversation.Machine
	router   *command.Router
	msgs     *i18n.Catalog
}

// New creates a bot.
func New(sessions *session.Store, machine *conversation.Machine, router *command.Router, msgs *i18n.Catalog) *Bot {
	return &Bot{
		sessions: sessions,
		machine:  machine,
		router:   router,
		msgs:     msgs,
	}
}

// HandleTurn processes one inbound message for an identity and returns
// the reply to deliver. Turns for the same identity serialize on the
// session; turns for different identities run concurrently.
//
// Business failures are localized replies, never errors. A non-nil error
// signals a storage or internal failure: the accompanying reply is still
// valid (a generic failure message) and the error is for the caller's log.
func (b *Bot) HandleTurn(ctx context.Context, identity, rawText string) (domain.Reply, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return domain.Reply{}, nil
	}

	sess, release := b.sessions.Acquire(identity)
	defer release()

	// Locale switching works at any state and never advances the machine.
	if locale, ok := localeCommand(strings.ToLower(text)); ok {
		sess.Locale = locale
		return domain.TextReply(b.msgs.T(sess.Locale, "lang_switched", nil)), nil
	}

	if sess.Authenticated() {
		return b.router.Dispatch(ctx, sess, text)
	}

	result, err := b.machine.Step(ctx, sess, text)
	if err != nil {
		slog.Error("Conversation step failed", "identity", identity, "error", err)
		return domain.TextReply(b.msgs.T(sess.Locale, "error_generic", nil)), err
	}

	reply := b.msgs.T(sess.Locale, result.ReplyKey, result.Params)
	if result.MenuKey != "" {
		reply += "\n\n" + b.msgs.T(sess.Locale, result.MenuKey, nil)
	}
	if result.Discard {
		b.sessions.Delete(identity)
	}
	return domain.TextReply(reply), nil
}

// localeCommand recognizes the language-switch commands in both wordings.
func localeCommand(lower string) (string, bool) {
	switch lower {
	case "lang en", "idioma en":
		return "en", true
	case "lang es", "idioma es":
		return "es", true
	default:
		return "", false
	}
}
