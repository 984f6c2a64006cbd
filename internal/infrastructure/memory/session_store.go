package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

type sessionEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in process memory; used when Redis is not configured.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]sessionEntry{}, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess entity.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sessionEntry{session: sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, userID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, userID)
		return nil, repository.ErrNotFound
	}
	sess := e.session
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var _ repository.SessionRepository = (*SessionStore)(nil)
