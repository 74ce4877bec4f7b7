package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/wizard"
)

var ErrSessionNotFound = errors.New("wizard session not found or expired")

// Session is one visitor's wizard.
type Session struct {
	ID        string
	Wizard    *wizard.Controller
	ExpiresAt time.Time
}

// SessionService keeps wizard sessions in memory. Every lookup extends a
// session's lifetime by the configured timeout.
type SessionService struct {
	newWizard func() *wizard.Controller
	sessions  map[string]*Session
	mu        sync.RWMutex
	timeout   time.Duration
	now       func() time.Time
}

func NewSessionService(newWizard func() *wizard.Controller, timeout time.Duration) *SessionService {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SessionService{
		newWizard: newWizard,
		sessions:  make(map[string]*Session),
		timeout:   timeout,
		now:       time.Now,
	}
}

func (s *SessionService) Create() *Session {
	session := &Session{
		ID:     uuid.NewString(),
		Wizard: s.newWizard(),
	}

	s.mu.Lock()
	session.ExpiresAt = s.now().Add(s.timeout)
	s.sessions[session.ID] = session
	s.mu.Unlock()

	logger.Debug("Created wizard session %s", session.ID)
	return session
}

func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	session.ExpiresAt = now.Add(s.timeout)
	return session, nil
}

// Delete drops a session and reports whether it existed.
func (s *SessionService) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.sessions[id]
	delete(s.sessions, id)
	return exists
}

// Len returns the number of live sessions, expired ones included until purged.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *SessionService) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run purges expired sessions every interval until ctx is done.
func (s *SessionService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PurgeExpired(); n > 0 {
				logger.Debug("Purged %d expired wizard sessions, %d live", n, s.Len())
			}
		}
	}
}
