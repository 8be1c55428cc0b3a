package procedural

import (
	"context"
	"runtime"
	"time"

	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/sync/errgroup"
)

const (
	ErrTypeFillCanceled = "fill_canceled"
)

// Fill sets every sample of f to the largest value of the gaussians at the
// sample position.
//
// Slices of constant k are filled concurrently by at most workers goroutines,
// GOMAXPROCS when workers is not positive. Each slice covers a disjoint range
// of the backing store so the writes need no synchronization. Fill stops
// scheduling slices once ctx is done.
func Fill(ctx context.Context, f *scalarfield.Field[float32], gaussians []Gaussian, workers int) error {
	start := time.Now()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for k := 0; k < f.ZSize(); k++ {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fillSlice(f, gaussians, k)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	instrumentFill(start, f.Len(), err)

	if err != nil {
		return errors.New("filling field failed").
			WithType(ErrTypeFillCanceled).
			WithTag("slices", f.ZSize()).
			Wrap(err)
	}

	logs.WithTag("samples", f.Len()).
		WithTag("gaussians", len(gaussians)).
		WithTag("workers", workers).
		WithTag("duration", time.Since(start).String()).
		Debug("field filled")
	return nil
}

func fillSlice(f *scalarfield.Field[float32], gaussians []Gaussian, k int) {
	for j := 0; j < f.YSize(); j++ {
		for i := 0; i < f.XSize(); i++ {
			*f.Ref(i, j, k) = MaxValue(gaussians, f.ElementPosition(i, j, k))
		}
	}
}
