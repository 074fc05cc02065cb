// Package gateway provides the websocket chat transport: it delivers
// inbound text to the bot and replies (text or file attachments) back to
// the remote identity.
package gateway

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Registry tracks the live connection per identity.
type Registry struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
}

// NewRegistry creates a connection registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*websocket.Conn)}
}

// Get returns the active connection for an identity, or nil.
func (r *Registry) Get(identity string) *websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[identity]
}

// Register adds a connection for an identity, closing any previous one.
func (r *Registry) Register(identity string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.active[identity]; ok && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "connection replaced")
	}
	r.active[identity] = conn
	slog.Info("Chat connection registered", "identity", identity)
}

// Unregister removes a connection for an identity if it is still current.
func (r *Registry) Unregister(identity string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.active[identity]; ok && current == conn {
		delete(r.active, identity)
		slog.Info("Chat connection unregistered", "identity", identity)
	}
}
