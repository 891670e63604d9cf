package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

var ErrSessionNotFound = errors.New("live queue session not found")

// SessionManager tracks active live queue sessions so the completion command
// can reach the right viewer's suppression set. Sessions are registered when
// the live view opens and removed when its poll loop ends.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*LiveQueueSession

	repo     ports.TicketRepository
	notifier ports.Notifier
	writer   StatusWriter
	cfg      SessionConfig
	log      zerolog.Logger
}

func NewSessionManager(
	repo ports.TicketRepository,
	notifier ports.Notifier,
	writer StatusWriter,
	cfg SessionConfig,
	log zerolog.Logger,
) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*LiveQueueSession),
		repo:     repo,
		notifier: notifier,
		writer:   writer,
		cfg:      cfg,
		log:      log,
	}
}

// Open creates and registers a new session for the given queue. The caller
// owns the session lifecycle: run its loop, then Close it.
func (m *SessionManager) Open(category domain.Category) *LiveQueueSession {
	session := NewLiveQueueSession(
		uuid.NewString(),
		category,
		m.repo,
		m.notifier,
		m.writer,
		m.cfg,
		m.log,
	)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.log.Debug().Str("session_id", session.ID()).Str("category", string(category)).Msg("live session opened")
	return session
}

// Close unregisters a session after its poll loop has stopped.
func (m *SessionManager) Close(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Get returns the session with the given id.
func (m *SessionManager) Get(sessionID string) (*LiveQueueSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
