package session

import (
	"sync"
	"time"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

// Session is one browser tab's grid plus its caller-owned view state.
type Session struct {
	id      string
	created time.Time
	now     func() time.Time

	mu       sync.Mutex
	grid     *core.Grid
	spec     core.ViewSpec
	menu     *core.MenuTarget
	lastSeen time.Time
	closed   bool

	listenerMu sync.Mutex
	listeners  []chan struct{}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Created returns when the session was started.
func (s *Session) Created() time.Time { return s.created }

// LastSeen returns the last time the session was used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Touch marks the session as used. Connections that stay open without
// sending commands call it to keep the session from being reaped.
func (s *Session) Touch() {
	s.touch(s.now())
}

// Spec returns the current view configuration.
func (s *Session) Spec() core.ViewSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// MenuTarget returns the cell the context menu was opened on, if open.
func (s *Session) MenuTarget() (core.MenuTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menu == nil {
		return core.MenuTarget{}, false
	}
	return *s.menu, true
}

// Project derives the current projection.
func (s *Session) Project() (*core.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}
	return s.grid.Project(s.spec)
}

// Read runs fn with the grid and view under the session lock. fn must not
// modify the grid.
func (s *Session) Read(fn func(g *core.Grid, spec core.ViewSpec) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotFound
	}
	return fn(s.grid, s.spec)
}

// Update runs fn with the grid under the session lock and notifies
// subscribers afterwards. Import uses it to populate the grid.
func (s *Session) Update(fn func(g *core.Grid) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.lastSeen = s.now()
	err := fn(s.grid)
	s.mu.Unlock()

	s.notify()
	return err
}

// Subscribe returns a channel that receives a signal after every change to
// the session. The channel is closed when the session ends or cancel is
// called.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.listenerMu.Lock()
	s.listeners = append(s.listeners, ch)
	s.listenerMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.listenerMu.Lock()
			defer s.listenerMu.Unlock()
			for i, l := range s.listeners {
				if l == ch {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					close(ch)
					return
				}
			}
		})
	}
	return ch, cancel
}

// notify signals every subscriber without blocking. A subscriber that has
// not consumed the previous signal already knows it must re-render.
func (s *Session) notify() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for _, l := range s.listeners {
		select {
		case l <- struct{}{}:
		default:
		}
	}
}

// close marks the session dead and closes every subscriber channel.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for _, l := range s.listeners {
		close(l)
	}
	s.listeners = nil
}
