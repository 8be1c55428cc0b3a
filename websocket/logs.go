package websocket

import (
	"context"
	stderrors "errors"
	"io"
	"maps"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
)

const (
	sessionIDTag   = "session_id"
	sessionUUIDTag = "session_uuid"
)

// HandlerWithLogs decorates h with connection logs and a periodic summary of
// the messages exchanged with the client.
func HandlerWithLogs(h Handler, summaryInterval time.Duration) Handler {
	ctx, cancel := context.WithCancel(context.Background())

	handler := &handlerWithLogs{
		Handler:            h,
		summaryInterval:    summaryInterval,
		closeSummaryWorker: cancel,
		received:           make(map[string]int),
		sent:               make(map[string]int),
	}

	go handler.startSummaryWorker(ctx)
	return handler
}

type handlerWithLogs struct {
	Handler

	request *http.Request

	summaryInterval    time.Duration
	closeSummaryWorker func()

	mutex       sync.Mutex
	received    map[string]int
	sent        map[string]int
	sessionID   string
	sessionUUID string
}

func (h *handlerWithLogs) HandleConnect(conn *websocket.Conn) {
	h.Handler.HandleConnect(conn)
	h.request = conn.Request()

	logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag("http_headers", h.httpHeaders()).
		Info("camera client connected")
}

func (h *handlerWithLogs) HandleSessionStart(ctx context.Context, respond protocol.ResponseSender, msg protocol.Msg) error {
	previousID, _ := h.session()

	if err := h.Handler.HandleSessionStart(ctx, respond, msg); err != nil {
		return err
	}

	session := h.CurrentSession()
	if session == nil {
		logs.WithTag(logs.ClientIDTag, h.GetClientID()).
			WithTag("request_id", msg.RequestID).
			Warn(errors.New("session start did not create a session"))
		return nil
	}

	id := h.GetSessions().GlobalSessionID(session.ID)
	h.setSession(id, session.SessionUUID)

	entry := logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag(sessionIDTag, id).
		WithTag(sessionUUIDTag, session.SessionUUID)
	if previousID != "" {
		entry = entry.WithTag("previous_session_id", previousID)
	}
	entry.Info("camera session started")
	return nil
}

func (h *handlerWithLogs) HandleDisconnect(err error) {
	h.Handler.HandleDisconnect(err)

	id, uuid := h.session()
	entry := logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag(sessionIDTag, id).
		WithTag(sessionUUIDTag, uuid)
	if err != nil {
		entry = entry.WithTag("reason", err.Error())
	}
	entry.Info("camera client disconnected")
}

func (h *handlerWithLogs) Receiver() protocol.Receiver {
	receive := h.Handler.Receiver()

	return func() (protocol.Msg, int, error) {
		msg, n, err := receive()
		switch {
		case err == nil:
			h.count(h.received, msg.Type)

		case errors.IsType(err, protocol.ErrTypeInvalidMsg):
			h.count(h.received, "invalid")

		case !isClosed(err):
			id, uuid := h.session()
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag(sessionIDTag, id).
				WithTag(sessionUUIDTag, uuid).
				Error(errors.New("receiving message failed").Wrap(err))
		}
		return msg, n, err
	}
}

func (h *handlerWithLogs) Sender() protocol.Sender {
	send := h.Handler.Sender()

	return func(msg protocol.Msg) (int, error) {
		n, err := send(msg)
		switch {
		case err == nil:
			h.count(h.sent, msg.Type)

		case !isClosed(err):
			id, uuid := h.session()
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag(sessionIDTag, id).
				WithTag(sessionUUIDTag, uuid).
				WithTag("msg_type", msg.Type).
				Error(errors.New("sending message failed").Wrap(err))
		}
		return n, err
	}
}

func (h *handlerWithLogs) Close() {
	h.Handler.Close()
	h.closeSummaryWorker()
	h.logSummary()
}

func (h *handlerWithLogs) httpHeaders() any {
	type headers struct {
		UserAgent     string `json:"user_agent,omitempty"`
		XForwardedFor string `json:"x_forwarded_for,omitempty"`
		Origin        string `json:"origin,omitempty"`
	}

	if h.request == nil {
		return headers{}
	}
	return headers{
		UserAgent:     h.request.UserAgent(),
		XForwardedFor: h.request.Header.Get("X-Forwarded-For"),
		Origin:        h.request.Header.Get("Origin"),
	}
}

func (h *handlerWithLogs) session() (id, uuid string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.sessionID, h.sessionUUID
}

func (h *handlerWithLogs) setSession(id, uuid string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.sessionID = id
	h.sessionUUID = uuid
}

func (h *handlerWithLogs) count(counter map[string]int, msgType string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	counter[msgType]++
}

func (h *handlerWithLogs) startSummaryWorker(ctx context.Context) {
	ticker := time.NewTicker(h.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			h.logSummary()
		}
	}
}

// logSummary logs and resets the message counters. Nothing is logged when no
// message went through since the last summary.
func (h *handlerWithLogs) logSummary() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if len(h.received) == 0 && len(h.sent) == 0 {
		return
	}

	logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag(sessionIDTag, h.sessionID).
		WithTag(sessionUUIDTag, h.sessionUUID).
		WithTag("time_interval", h.summaryInterval).
		WithTag("received", maps.Clone(h.received)).
		WithTag("sent", maps.Clone(h.sent)).
		Info("message summary")

	clear(h.received)
	clear(h.sent)
}

func isClosed(err error) bool {
	return stderrors.Is(err, io.EOF) || stderrors.Is(err, net.ErrClosed)
}
