package services

import (
	"context"
	"delivery-booking-service/internal/adapters/render"
	"delivery-booking-service/internal/platform/apperr"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultMaxSessions = 10000
)

// Session pairs a wizard with the scene its map is drawn into.
type Session struct {
	ID     string
	Wizard *Wizard
	Scene  *render.Scene

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionManager owns every live booking session. Sessions idle for longer
// than the TTL are closed by Sweep, which Run calls periodically.
type SessionManager struct {
	deps WizardDeps
	ttl  time.Duration
	max  int
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// deps.Renderer is ignored; every session gets its own scene. At most
// maxSessions sessions are live at once.
func NewSessionManager(deps WizardDeps, ttl time.Duration, maxSessions int) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		deps:     deps,
		ttl:      ttl,
		max:      maxSessions,
		now:      now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session. It fails with an unavailable error once the
// session limit is reached.
func (m *SessionManager) Create() (*Session, error) {
	id := uuid.NewString()
	scene := render.NewScene()

	deps := m.deps
	deps.Renderer = scene

	m.mu.Lock()
	if len(m.sessions) >= m.max {
		live := len(m.sessions)
		m.mu.Unlock()
		log.Printf("session limit reached live=%d max=%d", live, m.max)
		return nil, apperr.Unavailable("too many active bookings, please try again later").WithOp("create session")
	}
	s := &Session{
		ID:       id,
		Wizard:   NewWizard(id, deps),
		Scene:    scene,
		lastSeen: m.now(),
	}
	m.sessions[id] = s
	m.mu.Unlock()

	log.Printf("session=%s created", id)
	return s, nil
}

// Get returns a live session and marks it as used.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("session not found").WithOp("get session")
	}
	s.touch(m.now())
	return s, nil
}

func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return apperr.NotFound("session not found").WithOp("delete session")
	}
	s.Wizard.Close()
	log.Printf("session=%s deleted", id)
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many it closed.
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Wizard.Close()
	}
	if len(expired) > 0 {
		log.Printf("sessions expired count=%d", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *SessionManager) closeAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Wizard.Close()
	}
}
