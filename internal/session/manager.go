// Package session maps session ids to conversation stores. A store lives
// as long as its session: created lazily on first use, evicted after the
// idle timeout.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inventory-analyzer/chat-platform/internal/store"
	"github.com/inventory-analyzer/chat-platform/pkg/logger"
	"github.com/inventory-analyzer/chat-platform/pkg/metrics"
)

type entry struct {
	convs    *store.Conversations
	lastSeen time.Time
}

// Manager owns all session stores.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	idleTimeout time.Duration
	logger      *logger.Logger
	stop        chan struct{}
	stopped     sync.Once
}

// NewManager creates a session manager and starts its eviction sweeper.
func NewManager(idleTimeout time.Duration, log *logger.Logger) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = 2 * time.Hour
	}
	m := &Manager{
		entries:     make(map[string]*entry),
		idleTimeout: idleTimeout,
		logger:      log,
		stop:        make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Store returns the conversation store for a session, creating it on
// first use.
func (m *Manager) Store(sessionID string) *store.Conversations {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{convs: store.New(m.logger.WithSession(sessionID))}
		m.entries[sessionID] = e
		metrics.SessionsActive.Set(float64(len(m.entries)))
		m.logger.Info("session created", zap.String("session_id", sessionID))
	}
	e.lastSeen = time.Now()
	return e.convs
}

// Close stops the eviction sweeper.
func (m *Manager) Close() {
	m.stopped.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	interval := m.idleTimeout / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTimeout)
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			m.logger.Info("session evicted", zap.String("session_id", id))
		}
	}
	metrics.SessionsActive.Set(float64(len(m.entries)))
}
