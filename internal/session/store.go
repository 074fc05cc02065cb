// Package session provides the in-memory conversation session store.
//
// One session exists per remote identity. Sessions are never persisted: a
// process restart forgets them all, and users start over at the menu.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/acampos/matriculabot/internal/domain"
)

type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// Store holds one conversation session per identity. It is safe for
// concurrent use across identities; turns for the same identity serialize
// on the entry's mutex via Acquire.
type Store struct {
	mu            sync.RWMutex
	entries       map[string]*entry
	defaultLocale string
	ttl           time.Duration
}

// New creates a session store. Sessions idle longer than ttl are evicted
// by the sweeper.
func New(defaultLocale string, ttl time.Duration) *Store {
	return &Store{
		entries:       make(map[string]*entry),
		defaultLocale: defaultLocale,
		ttl:           ttl,
	}
}

// Acquire returns the session for identity, creating it in the Anonymous
// state on first contact. The session is returned locked; the caller must
// invoke release when the turn is done. This serializes concurrent turns
// for the same identity, which the transport does not guarantee.
func (s *Store) Acquire(identity string) (*domain.Session, func()) {
	for {
		s.mu.Lock()
		e, ok := s.entries[identity]
		if !ok {
			e = &entry{session: &domain.Session{
				Identity:   identity,
				State:      domain.StateAnonymous,
				Locale:     s.defaultLocale,
				LastActive: time.Now(),
			}}
			s.entries[identity] = e
		}
		s.mu.Unlock()

		e.mu.Lock()

		// The sweeper (or Delete) may have removed the entry between the
		// map lookup and the lock. A turn must never run on an orphaned
		// session: its mutations would be lost.
		s.mu.RLock()
		current := s.entries[identity] == e
		s.mu.RUnlock()
		if !current {
			e.mu.Unlock()
			continue
		}

		e.session.Touch(time.Now())
		return e.session, e.mu.Unlock
	}
}

// Delete forgets the session for identity. The next turn starts a fresh
// Anonymous session.
func (s *Store) Delete(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identity)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweeper runs a background goroutine that periodically evicts
// sessions idle longer than the store's TTL. It stops when ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", s.ttl)

		for {
			select {
			case <-ticker.C:
				if evicted := s.sweep(time.Now()); evicted > 0 {
					slog.Info("Session sweeper evicted idle sessions", "count", evicted)
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for identity, e := range s.entries {
		// TryLock skips sessions mid-turn; they are active by definition.
		if !e.mu.TryLock() {
			continue
		}
		idle := now.Sub(e.session.LastActive)
		e.mu.Unlock()
		if idle > s.ttl {
			delete(s.entries, identity)
			evicted++
		}
	}
	return evicted
}
