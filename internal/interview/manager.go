package interview

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Manager keeps one interview session per case and serializes access to it.
type Manager struct {
	mu        sync.Mutex
	extractor NameExtractor
	sessions  map[uuid.UUID]*Session
}

// NewManager creates a session manager. The extractor is shared by all
// sessions; nil selects rule-based extraction.
func NewManager(extractor NameExtractor) *Manager {
	return &Manager{
		extractor: extractor,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Respond routes one message to the case's session, creating it on first
// contact. An empty message on a fresh session starts the interview.
func (m *Manager) Respond(ctx context.Context, caseID uuid.UUID, message string) (reply string, state State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[caseID]
	if !ok {
		session = NewSession(m.extractor)
		m.sessions[caseID] = session
	}

	if session.State() == StateInit {
		reply = session.Start()
		if message == "" {
			return reply, session.State(), nil
		}
	}

	reply, err = session.Respond(ctx, message)
	if err != nil {
		return "", session.State(), err
	}
	return reply, session.State(), nil
}

// Session returns the case's session, if any.
func (m *Manager) Session(caseID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[caseID]
	return s, ok
}

// Reset drops the case's session.
func (m *Manager) Reset(caseID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, caseID)
}
