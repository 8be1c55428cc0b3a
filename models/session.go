package models

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aukilabs/gecko/camera"
	"github.com/google/uuid"
)

// Session is the state attached to one connected camera client.
type Session struct {
	ID          uint32
	SessionUUID string
	ClientID    string
	StartedAt   time.Time

	cameraMutex sync.Mutex
	camera      *camera.Orbit

	moduleStates map[string]any
	moduleMutex  sync.RWMutex

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(id uint32, clientID string, cam *camera.Orbit) *Session {
	return &Session{
		ID:           id,
		SessionUUID:  uuid.New().String(),
		ClientID:     clientID,
		StartedAt:    time.Now(),
		camera:       cam,
		moduleStates: make(map[string]any),
		done:         make(chan struct{}),
	}
}

// Close marks the session as ended. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done returns a channel closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// UseCamera calls f with the session camera. Calls are serialized.
func (s *Session) UseCamera(f func(*camera.Orbit)) {
	s.cameraMutex.Lock()
	defer s.cameraMutex.Unlock()

	f(s.camera)
}

func (s *Session) SetModuleState(moduleName string, state any) {
	s.moduleMutex.Lock()
	defer s.moduleMutex.Unlock()

	s.moduleStates[moduleName] = state
}

func (s *Session) ModuleState(moduleName string) (any, bool) {
	s.moduleMutex.RLock()
	defer s.moduleMutex.RUnlock()

	state, ok := s.moduleStates[moduleName]
	return state, ok
}

// SessionStore keeps track of the running sessions. Its zero value is ready
// to use.
type SessionStore struct {
	// Prefix of the global session ids, identifying this server.
	ServerID string

	initOnce sync.Once
	mutex    sync.RWMutex
	sessions map[uint32]*Session
	ids      SequentialIDGenerator
}

func (s *SessionStore) init() {
	s.sessions = make(map[uint32]*Session)

	if s.ServerID == "" {
		s.ServerID = "gecko"
	}
}

func (s *SessionStore) NewID() uint32 {
	return s.ids.New()
}

func (s *SessionStore) Add(ctx context.Context, session *Session) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions[session.ID] = session

	instrumentIncreaseSessionGauge()
	instrumentCountSession()
}

// Remove closes the session and releases its id.
func (s *SessionStore) Remove(ctx context.Context, session *Session) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return
	}

	delete(s.sessions, session.ID)
	session.Close()
	s.ids.Reuse(session.ID)

	instrumentDecreaseSessionGauge(time.Since(session.StartedAt))
}

func (s *SessionStore) Get(id uint32) (*Session, bool) {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Count() int {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.sessions)
}

// GlobalSessionID returns the session id qualified with the server id.
func (s *SessionStore) GlobalSessionID(sessionID uint32) string {
	s.initOnce.Do(s.init)
	return fmt.Sprintf("%sx%x", s.ServerID, sessionID)
}
