package smoketest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	ErrTypeSmokeTestFailed = "smoke_test_failed"

	defaultTimeout = time.Second * 10
)

type Options struct {
	// The endpoint tested when a request does not name one.
	Endpoint   string
	UserAgent  string
	Transport  http.RoundTripper
	SendResult func(context.Context, Result) error
}

// Request is the optional body of a smoke test request.
type Request struct {
	Endpoint string        `json:"endpoint"`
	Timeout  time.Duration `json:"timeout"`
}

// Result reports a smoke test run.
type Result struct {
	Endpoint  string        `json:"endpoint"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	FieldLen  int           `json:"field_len"`
	SessionID string        `json:"session_id,omitempty"`
	Duration  time.Duration `json:"duration"`
}

type testCtxKey string

var testCtxKeyValue testCtxKey = "test-context"

type testContext struct {
	context.Context
	Cancel func()
}

func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		req := Request{
			Endpoint: opts.Endpoint,
			Timeout:  defaultTimeout,
		}
		if len(b) != 0 {
			if err := json.Unmarshal(b, &req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}
		if req.Timeout <= 0 {
			req.Timeout = defaultTimeout
		}

		go func() {
			defer func() {
				// if context is of testContext
				// cancel context on exit to signal function exited
				// this is used for testing
				if tctx := ctx.Value(testCtxKeyValue); tctx != nil {
					testCtx := tctx.(testContext)
					if testCtx.Cancel != nil {
						testCtx.Cancel()
					}
				}
			}()

			runCtx, cancel := context.WithTimeout(ctx, req.Timeout)
			defer cancel()

			res, err := Run(runCtx, req.Endpoint, opts)
			if err != nil {
				logs.WithTag("from_endpoint", opts.Endpoint).
					WithTag("to_endpoint", req.Endpoint).
					Warn(err)
			} else {
				logs.WithTag("to_endpoint", req.Endpoint).
					WithTag("duration", res.Duration).
					Info("smoke test succeeded")
			}

			if opts.SendResult == nil {
				return
			}
			if err := opts.SendResult(ctx, res); err != nil {
				logs.WithTag("from_endpoint", opts.Endpoint).
					WithTag("to_endpoint", req.Endpoint).
					Warn(errors.New("sending smoke test result failed").Wrap(err))
			}
		}()

		w.WriteHeader(http.StatusOK)
	}
}

// Run checks that the server at endpoint describes its field and answers a
// camera session.
func Run(ctx context.Context, endpoint string, opts Options) (Result, error) {
	start := time.Now()
	res := Result{Endpoint: endpoint}

	err := run(ctx, endpoint, opts, &res)
	res.Duration = time.Since(start)
	if err != nil {
		err = errors.New("smoke test failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", endpoint).
			Wrap(err)
		res.Error = err.Error()
		return res, err
	}

	res.Success = true
	return res, nil
}

func run(ctx context.Context, endpoint string, opts Options, res *Result) error {
	endpoint = strings.TrimSuffix(endpoint, "/")

	info, err := fetchFieldInfo(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if info.Len == 0 {
		return errors.New("field is empty")
	}
	res.FieldLen = info.Len

	config, err := websocket.NewConfig(toWebsocketURL(endpoint)+"/camera", endpoint)
	if err != nil {
		return errors.New("creating websocket config failed").Wrap(err)
	}
	if opts.UserAgent != "" {
		config.Header.Set("User-Agent", opts.UserAgent)
	}

	conn, err := config.DialContext(ctx)
	if err != nil {
		return errors.New("dialing camera websocket failed").Wrap(err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	var session protocol.SessionStartResponse
	if err := roundTrip(conn, protocol.MsgTypeSessionStartRequest, 1, protocol.MsgTypeSessionStartResponse, &session); err != nil {
		return err
	}
	res.SessionID = session.GlobalSessionID

	var view protocol.OrbitView
	if err := roundTrip(conn, protocol.MsgTypeOrbitViewRequest, 2, protocol.MsgTypeOrbitView, &view); err != nil {
		return err
	}
	if view.Radius <= 0 {
		return errors.New("invalid camera view").WithTag("radius", view.Radius)
	}
	return nil
}

func fetchFieldInfo(ctx context.Context, endpoint string, opts Options) (scalarfield.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/field", nil)
	if err != nil {
		return scalarfield.Info{}, errors.New("creating field request failed").Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	client := http.Client{Transport: opts.Transport}
	res, err := client.Do(req)
	if err != nil {
		return scalarfield.Info{}, errors.New("fetching field info failed").Wrap(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return scalarfield.Info{}, errors.New("fetching field info failed").
			WithTag("status", res.StatusCode)
	}

	var info scalarfield.Info
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return scalarfield.Info{}, errors.New("decoding field info failed").Wrap(err)
	}
	return info, nil
}

func roundTrip(conn *websocket.Conn, reqType string, requestID uint32, resType string, v any) error {
	msg, err := protocol.NewMsg(reqType, requestID, nil)
	if err != nil {
		return err
	}

	b, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if err := websocket.Message.Send(conn, string(b)); err != nil {
		return errors.New("sending message failed").
			WithTag("msg_type", reqType).
			Wrap(err)
	}

	for {
		var b []byte
		if err := websocket.Message.Receive(conn, &b); err != nil {
			return errors.New("receiving message failed").
				WithTag("msg_type", resType).
				Wrap(err)
		}

		msg, err := protocol.Decode(b)
		if err != nil {
			return err
		}

		switch {
		case msg.Type == protocol.MsgTypeErrorResponse && msg.RequestID == requestID:
			var res protocol.ErrorResponse
			msg.DataTo(&res)
			return errors.New("server answered with an error").
				WithTag("msg_type", reqType).
				WithTag("code", res.Code).
				WithTag("message", res.Message)

		case msg.Type == resType && msg.RequestID == requestID:
			return msg.DataTo(v)
		}
	}
}

func toWebsocketURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")

	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")

	default:
		return endpoint
	}
}
