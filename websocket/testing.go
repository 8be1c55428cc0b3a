package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aukilabs/gecko/camera"
	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

// NewTestingEnv starts a camera endpoint served by handlers from newHandler
// and dials it. It returns the connected client and a function that closes
// the environment. Logs are routed to t until the environment is closed.
func NewTestingEnv(t *testing.T, newHandler func() Handler) (*websocket.Conn, func()) {
	var mutex sync.Mutex
	logger := t.Log

	logs.Encoder = func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}

	logs.SetLogger(func(e logs.Entry) {
		mutex.Lock()
		defer mutex.Unlock()

		if logger != nil {
			logger(e)
		}
	})

	client, close := newTestingEnv(t, newHandler)
	return client, func() {
		mutex.Lock()
		defer mutex.Unlock()
		logger = nil
		close()
	}
}

func newTestingEnv(t *testing.T, newHandler func() Handler) (*websocket.Conn, func()) {
	server := httptest.NewServer(websocket.Server{
		Handshake: func(c *websocket.Config, r *http.Request) error {
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			handler := newHandler()
			defer handler.Close()

			Handle(context.Background(), conn, handler)
		},
	})

	config, err := websocket.NewConfig(
		strings.ReplaceAll(server.URL, "http://", "ws://"),
		"http://localhost",
	)
	if err != nil {
		t.Fatalf("error initializing web socket: %s", err)
	}

	config.Header.Set("User-Agent", "ted")
	config.Header.Set("X-Forwarded-For", "192.0.0.0")
	config.Header.Set(HeaderClientID, uuid.NewString())

	client, err := websocket.DialConfig(config)
	if err != nil {
		t.Fatalf("error dialing web socket: %s", err)
	}

	return client, func() {
		client.Close()
		server.Close()
	}
}

// SendTestMsg sends a message from a testing client.
func SendTestMsg(conn *websocket.Conn, msgType string, requestID uint32, data any) error {
	msg, err := protocol.NewMsg(msgType, requestID, data)
	if err != nil {
		return err
	}

	b, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return websocket.Message.Send(conn, string(b))
}

// ReceiveTestMsg waits for the next message of the given type on a testing
// client. Messages of other types are dropped.
func ReceiveTestMsg(conn *websocket.Conn, msgType string, timeout time.Duration) (protocol.Msg, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return protocol.Msg{}, err
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		var b []byte
		if err := websocket.Message.Receive(conn, &b); err != nil {
			return protocol.Msg{}, errors.New("receiving test message failed").
				WithTag("msg_type", msgType).
				Wrap(err)
		}

		msg, err := protocol.Decode(b)
		if err != nil {
			return protocol.Msg{}, err
		}
		if msg.Type == msgType {
			return msg, nil
		}
	}
}

func newTestHandler(sessionStore *models.SessionStore, fieldInfo scalarfield.Info, newModule ...func() modules.Module) func() Handler {
	return func() Handler {
		modules := make([]modules.Module, len(newModule))
		for i, nm := range newModule {
			modules[i] = nm()
		}

		var h Handler = &RealtimeHandler{
			ClientIdleTimeout: time.Minute,
			Sessions:          sessionStore,
			Modules:           modules,
			FieldInfo:         fieldInfo,
			NewCamera: func() *camera.Orbit {
				return camera.NewOrbit(camera.DefaultFrom, camera.DefaultAt)
			},
		}

		h = HandlerWithLogs(h, time.Millisecond*100)
		h = HandlerWithMetrics(h, "https://gecko-test.com")
		return h
	}
}
