package websocket

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/stretchr/testify/require"
)

func TestHandlerWithLogsCount(t *testing.T) {
	h := HandlerWithLogs(&RealtimeHandler{}, time.Minute).(*handlerWithLogs)
	defer h.Close()

	h.count(h.received, "ping")
	h.count(h.sent, "pong")
	h.count(h.sent, "pong")
	require.Equal(t, 1, h.received["ping"])
	require.Equal(t, 2, h.sent["pong"])
}

func TestHandlerWithLogsReceiver(t *testing.T) {
	h := HandlerWithLogs(&RealtimeHandler{}, time.Minute).(*handlerWithLogs)
	defer h.Close()

	results := []error{
		nil,
		errors.New("bad frame").WithType(protocol.ErrTypeInvalidMsg),
	}
	h.Handler = receiverHandler{
		Handler: h.Handler,
		receive: func() (protocol.Msg, int, error) {
			err := results[0]
			results = results[1:]
			return protocol.Msg{Type: "orbit_zoom"}, 10, err
		},
	}

	receive := h.Receiver()
	receive()
	receive()

	require.Equal(t, 1, h.received["orbit_zoom"])
	require.Equal(t, 1, h.received["invalid"])
}

type receiverHandler struct {
	Handler
	receive protocol.Receiver
}

func (h receiverHandler) Receiver() protocol.Receiver {
	return h.receive
}

func TestHandlerWithLogsLogSummary(t *testing.T) {
	testClientID := "test-client"
	h := HandlerWithLogs(&RealtimeHandler{clientID: testClientID}, time.Minute).(*handlerWithLogs)
	defer h.Close()

	h.setSession("testx1", "uuid-1")
	h.count(h.received, "ping")
	h.count(h.received, "ping")
	h.count(h.received, "orbit_zoom")
	h.count(h.sent, "orbit_view")

	var b strings.Builder
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		fmt.Fprint(&b, e)
	})

	h.logSummary()
	require.Empty(t, h.received)
	require.Empty(t, h.sent)

	logString := b.String()
	require.Contains(t, logString, `"ping":2`)
	require.Contains(t, logString, `"orbit_zoom":1`)
	require.Contains(t, logString, `"orbit_view":1`)
	require.Contains(t, logString, fmt.Sprintf(`"%s":"%s"`, logs.ClientIDTag, testClientID))
	require.Contains(t, logString, `"session_id":"testx1"`)
	t.Log(logString)
}

func TestHandlerWithLogsStartSummaryWorker(t *testing.T) {
	var wg sync.WaitGroup
	var once sync.Once

	var mutex sync.Mutex
	var b strings.Builder
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		mutex.Lock()
		defer mutex.Unlock()

		fmt.Fprint(&b, e)
		once.Do(wg.Done)
	})

	wg.Add(1)
	h := HandlerWithLogs(&RealtimeHandler{}, time.Millisecond).(*handlerWithLogs)
	defer h.Close()

	// No summary is logged until a counter is incremented.
	h.count(h.received, "ping")

	wg.Wait()

	mutex.Lock()
	defer mutex.Unlock()

	out := b.String()
	require.NotEmpty(t, out)
	t.Log(out)
}
