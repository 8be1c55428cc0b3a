package http

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long open requests and websocket connections are
// given to finish once the context is done.
var ShutdownTimeout = time.Second * 10

// ListenAndServe runs the given servers until ctx is done, then shuts them
// down.
func ListenAndServe(ctx context.Context, servers ...*http.Server) {
	var g errgroup.Group

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				logs.Warn(errors.New("shutting down the server failed").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}
		return nil
	})

	for _, s := range servers {
		g.Go(func() error {
			logs.WithTag("addr", s.Addr).Info("starting server")

			err := s.ListenAndServe()
			if err == nil || stderrors.Is(err, http.ErrServerClosed) {
				logs.WithTag("addr", s.Addr).Info("stopping server")
				return nil
			}

			logs.Warn(errors.New("server stopped").
				WithTag("addr", s.Addr).
				Wrap(err))
			return nil
		})
	}

	g.Wait()
}

// MetricsPathFormatter drops the path of redirected, rejected and unmatched
// requests so that arbitrary paths do not become metric labels. Field routes
// are reported by their route, without extensions.
func MetricsPathFormatter(statusCode int, path string) string {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusMethodNotAllowed:
		return ""
	}

	if strings.HasPrefix(path, "/field/") {
		return strings.TrimSuffix(path, ".png")
	}
	return path
}
