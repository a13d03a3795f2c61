package session

import (
	"context"
	"sync"

	"github.com/medtrack/bp-monitor/internal/domain"
)

// Store holds the ephemeral sessions of authenticated interactions.
type Store interface {
	Put(ctx context.Context, sess domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, bool)
	Delete(ctx context.Context, token string)
}

// Manager is the in-memory session store. Sessions live for the process
// lifetime; multi-instance deployments use the Redis store instead.
type Manager struct {
	sessions map[string]domain.Session
	mu       sync.RWMutex
}

// NewManager creates a new in-memory session store
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]domain.Session),
	}
}

// Put stores a session under its token
func (m *Manager) Put(_ context.Context, sess domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Token] = sess
	return nil
}

// Get looks up a session by token
func (m *Manager) Get(_ context.Context, token string) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, exists := m.sessions[token]
	if !exists {
		return nil, false
	}
	return &sess, true
}

// Delete discards a session
func (m *Manager) Delete(_ context.Context, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
