// Package session holds one grid per browser tab.
//
// A Session pairs a core.Grid with the state the engine deliberately does
// not own: the current ViewSpec and the cell a context menu was opened on.
// Every call on a Session is serialized by its mutex, which gives the
// engine the single-threaded execution it expects even when HTTP requests
// and a websocket arrive at once.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

var (
	// ErrSessionNotFound is returned for unknown, deleted or expired ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned by Create when MaxSessions are held.
	ErrTooManySessions = errors.New("too many sessions")
)

// Defaults applied when Options fields are zero.
const (
	DefaultTTL           = 2 * time.Hour
	DefaultMaxSessions   = 1000
	DefaultSweepInterval = 5 * time.Minute
)

// Options configures a Manager.
type Options struct {
	Grid        core.Options  // engine options for every new grid
	ViewMode    core.ViewMode // initial view mode of new sessions
	SeedSample  bool          // fill new grids with example rows
	TTL         time.Duration
	MaxSessions int
	Now         func() time.Time
	Logger      *slog.Logger
}

// Manager owns all live sessions.
type Manager struct {
	opts   Options
	now    func() time.Time
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Grid.Now == nil {
		opts.Grid.Now = opts.Now
	}
	opts.ViewMode = core.ParseViewMode(string(opts.ViewMode))

	return &Manager{
		opts:     opts,
		now:      opts.Now,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh grid.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.opts.MaxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, m.opts.MaxSessions)
	}

	id := uuid.NewString()
	gridOpts := m.opts.Grid
	gridOpts.Logger = m.logger.With("session_id", id)
	g := core.NewGrid(gridOpts)
	if m.opts.SeedSample {
		SeedSample(g)
	}

	now := m.now()
	s := &Session{
		id:       id,
		grid:     g,
		spec:     core.ViewSpec{ViewMode: m.opts.ViewMode},
		created:  now,
		now:      m.now,
		lastSeen: now,
	}
	m.sessions[id] = s

	m.logger.Info("session created", "session_id", id, "sessions", len(m.sessions))
	return s, nil
}

// Get returns the session with id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// Delete removes a session and disconnects its subscribers.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.close()
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes every session not used within the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.opts.TTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

// StartReaper sweeps expired sessions every interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (m *Manager) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	m.logger.Info("session reaper started", "ttl", m.opts.TTL, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("session reaper stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired sessions reaped",
					"sessions_reaped", n,
					"sessions_live", m.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

// CloseAll disconnects every session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
