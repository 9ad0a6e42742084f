package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/vancomm/minefield/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// Store keeps live game sessions. Games are only ever touched through With,
// which serialises access to each one.
type Store interface {
	Create(ctx context.Context, game *mines.Game) (*Session, error)
	With(ctx context.Context, id string, fn func(*Session) error) error
	Delete(ctx context.Context, id string) error
	Sweep(idle time.Duration) int
	Len() int
}

type Session struct {
	ID        string
	CreatedAt time.Time
	TouchedAt time.Time
	Game      *mines.Game

	mu sync.Mutex
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemory returns a Store that loses everything on restart. A nil now
// means [time.Now].
func NewMemory(now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memory{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (m *memory) Create(ctx context.Context, game *mines.Game) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := randomID()
	for _, taken := m.sessions[id]; taken; _, taken = m.sessions[id] {
		id = randomID()
	}

	now := m.now()
	s := &Session{ID: id, CreatedAt: now, TouchedAt: now, Game: game}
	m.sessions[id] = s
	return s, nil
}

// With runs fn while holding the session's lock.
func (m *memory) With(ctx context.Context, id string, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.TouchedAt = m.now()
	return fn(s)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops sessions that have not been touched for idle and reports how
// many were removed.
func (m *memory) Sweep(idle time.Duration) (n int) {
	deadline := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue /* in use */
		}
		if s.TouchedAt.Before(deadline) {
			delete(m.sessions, id)
			n++
		}
		s.mu.Unlock()
	}
	return
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
