package smoketest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aukilabs/gecko/geometry"
	geckohttp "github.com/aukilabs/gecko/http"
	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/modules/orbit"
	"github.com/aukilabs/gecko/scalarfield"
	geckowebsocket "github.com/aukilabs/gecko/websocket"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	f, err := scalarfield.New(geometry.Constant3[float32](-1), geometry.Constant3[float32](1), 4, 4, 4, float32(1))
	require.NoError(t, err)

	fieldHandler := geckohttp.NewFieldHandler(f, nil)
	sessions := models.SessionStore{ServerID: "test"}

	var mux http.ServeMux
	fieldHandler.Register(&mux)
	mux.Handle("/camera", websocket.Server{
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			h := geckowebsocket.HandlerWithLogs(&geckowebsocket.RealtimeHandler{
				ClientIdleTimeout: time.Minute,
				Sessions:          &sessions,
				Modules: []modules.Module{
					&orbit.Module{Model: f.ModelMatrix()},
				},
				FieldInfo: fieldHandler.Info,
			}, time.Minute)
			defer h.Close()

			geckowebsocket.Handle(context.Background(), conn, h)
		},
	})

	server := httptest.NewServer(&mux)
	t.Cleanup(server.Close)
	return server
}

func TestRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := newTestServer(t)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := Run(ctx, server.URL+"/", Options{UserAgent: "smoke"})
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Equal(t, 64, res.FieldLen)
		require.Equal(t, "testx1", res.SessionID)
		require.Positive(t, res.Duration)
	})

	t.Run("no camera endpoint", func(t *testing.T) {
		f, err := scalarfield.New(geometry.Zero3[float32](), geometry.Constant3[float32](1), 3, 3, 3, float32(0))
		require.NoError(t, err)

		var mux http.ServeMux
		geckohttp.NewFieldHandler(f, nil).Register(&mux)
		server := httptest.NewServer(&mux)
		defer server.Close()

		res, err := Run(context.Background(), server.URL, Options{})
		require.True(t, errors.IsType(err, ErrTypeSmokeTestFailed))
		require.False(t, res.Success)
		require.Equal(t, 27, res.FieldLen)
		require.NotEmpty(t, res.Error)
	})
}

func TestHandleSmokeTest(t *testing.T) {
	t.Run("smoke test success", func(t *testing.T) {
		server := newTestServer(t)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		ctx = context.WithValue(ctx, testCtxKeyValue, testContext{
			Context: ctx,
			Cancel:  cancel,
		})

		var gotResult bool
		smokeTest := HandleSmokeTest(ctx, Options{
			Endpoint: "http://localgecko",
			SendResult: func(_ context.Context, res Result) error {
				require.Equal(t, server.URL, res.Endpoint)
				require.True(t, res.Success)
				require.Empty(t, res.Error)
				gotResult = true
				return nil
			},
		})

		body, err := json.Marshal(Request{
			Endpoint: server.URL,
			Timeout:  time.Second,
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "http://localgecko/smoke-test", bytes.NewBuffer(body))

		smokeTest.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		<-ctx.Done()
		require.True(t, gotResult)
	})

	t.Run("smoke test failed - offline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		ctx = context.WithValue(ctx, testCtxKeyValue, testContext{
			Context: ctx,
			Cancel:  cancel,
		})

		var gotResult bool
		smokeTest := HandleSmokeTest(ctx, Options{
			Endpoint: "http://localgecko",
			SendResult: func(_ context.Context, res Result) error {
				require.Equal(t, "http://othergecko.invalid", res.Endpoint)
				require.False(t, res.Success)
				require.NotEmpty(t, res.Error)
				gotResult = true
				return nil
			},
		})

		body, err := json.Marshal(Request{
			Endpoint: "http://othergecko.invalid",
			Timeout:  time.Second,
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "http://localgecko/smoke-test", bytes.NewBuffer(body))

		smokeTest.ServeHTTP(rec, req)

		<-ctx.Done()
		require.True(t, gotResult)
	})

	t.Run("invalid body", func(t *testing.T) {
		smokeTest := HandleSmokeTest(context.Background(), Options{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "http://localgecko/smoke-test", bytes.NewBufferString("{"))

		smokeTest.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
