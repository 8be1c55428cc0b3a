package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/gecko/camera"
	"github.com/aukilabs/gecko/featureflag"
	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

const (
	// HeaderClientID is the HTTP header a client identifies itself with. A
	// random id is used when it is missing.
	HeaderClientID = "X-Gecko-Client-Id"

	ErrTypeSessionNotStarted = "session_not_started"
)

// RealtimeHandler represents a service that serves a camera client over a
// WebSocket connection.
type RealtimeHandler struct {
	// The time a client is idle before being disconnected.
	ClientIdleTimeout time.Duration

	// The store that contains all the server sessions.
	Sessions *models.SessionStore

	// The modules that handle session messages.
	Modules []modules.Module

	FeatureFlags featureflag.FeatureFlag

	// The description of the served field, sent when a session starts.
	FieldInfo scalarfield.Info

	// Creates the camera of a new session.
	NewCamera func() *camera.Orbit

	conn           *websocket.Conn
	currentSession *models.Session

	clientID string
}

func (h *RealtimeHandler) HandleConnect(conn *websocket.Conn) {
	h.clientID = conn.Request().Header.Get(HeaderClientID)
	if h.clientID == "" {
		h.clientID = uuid.NewString()
	}

	h.conn = conn
}

func (h *RealtimeHandler) HandlePing(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	respond.Send(protocol.MsgTypePong, msg.RequestID, nil)
	return nil
}

func (h *RealtimeHandler) HandleSessionStart(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	if h.currentSession != nil {
		h.endSession()
	}

	session := models.NewSession(h.Sessions.NewID(), h.clientID, h.newCamera())
	h.Sessions.Add(ctx, session)
	h.currentSession = session

	for _, m := range h.Modules {
		m.Init(session)
	}

	respond.Send(protocol.MsgTypeSessionStartResponse, msg.RequestID, protocol.SessionStartResponse{
		SessionID:       session.ID,
		GlobalSessionID: h.Sessions.GlobalSessionID(session.ID),
		SessionUUID:     session.SessionUUID,
		Field:           h.FieldInfo,
	})
	return nil
}

func (h *RealtimeHandler) HandleWithModule(ctx context.Context, m modules.Module, respond protocol.ResponseSender, msg protocol.Msg) error {
	if h.CurrentSession() == nil {
		return modules.SkipMsg(m.Name(), msg)
	}

	err := m.HandleMsg(ctx, respond, msg)
	if errors.IsType(err, protocol.ErrTypeMsgSkip) {
		return err
	}
	if err != nil {
		return errors.New("handling message with module failed").
			WithTag("module", m.Name()).
			Wrap(err)
	}
	return nil
}

func (h *RealtimeHandler) HandleUnknownMsg(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	err := errors.New("unknown message type").
		WithType(protocol.ErrTypeUnknownMsg).
		WithTag("msg_type", msg.Type)

	if h.currentSession == nil {
		err = errors.New("session not started").
			WithType(ErrTypeSessionNotStarted).
			WithTag("msg_type", msg.Type)
	}

	protocol.SendError(respond, msg.RequestID, err)
	return nil
}

func (h *RealtimeHandler) HandleDisconnect(_ error) {
	if h.currentSession != nil {
		h.endSession()
	}
}

func (h *RealtimeHandler) Receiver() protocol.Receiver {
	return func() (protocol.Msg, int, error) {
		var b []byte
		if err := websocket.Message.Receive(h.conn, &b); err != nil {
			return protocol.Msg{}, 0, err
		}

		msg, err := protocol.Decode(b)
		return msg, len(b), err
	}
}

func (h *RealtimeHandler) Sender() protocol.Sender {
	return func(msg protocol.Msg) (int, error) {
		b, err := protocol.Encode(msg)
		if err != nil {
			return 0, err
		}

		if err := websocket.Message.Send(h.conn, string(b)); err != nil {
			return 0, err
		}
		return len(b), nil
	}
}

func (h *RealtimeHandler) Close() {
}

func (h *RealtimeHandler) IdleTimeout() time.Duration {
	return h.ClientIdleTimeout
}

func (h *RealtimeHandler) GetSessions() *models.SessionStore {
	return h.Sessions
}

func (h *RealtimeHandler) GetModules() []modules.Module {
	return h.Modules
}

func (h *RealtimeHandler) CurrentSession() *models.Session {
	return h.currentSession
}

func (h *RealtimeHandler) GetClientID() string {
	return h.clientID
}

func (h *RealtimeHandler) newCamera() *camera.Orbit {
	if h.NewCamera != nil {
		return h.NewCamera()
	}
	return camera.NewOrbit(camera.DefaultFrom, camera.DefaultAt)
}

func (h *RealtimeHandler) endSession() {
	for _, m := range h.Modules {
		m.HandleDisconnect()
	}

	// Here we use a context.Background to ensure the session is removed even
	// when the connection context is done.
	h.Sessions.Remove(context.Background(), h.currentSession)
	h.currentSession = nil
}
