package procedural

import (
	"context"
	"math"
	"testing"

	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestGaussianValue(t *testing.T) {
	g := Gaussian{Center: geometry.V3[float32](1, 0, 0), Amplitude: 2, Width: 0.5}

	require.Equal(t, float32(2), g.Value(g.Center))

	// One width away the bell is at exp(-1/2) of its amplitude.
	v := g.Value(geometry.V3[float32](1.5, 0, 0))
	require.InDelta(t, 2*math.Exp(-0.5), v, 1e-6)

	require.Less(t, g.Value(geometry.V3[float32](3, 0, 0)), v)
}

func TestMaxValue(t *testing.T) {
	gaussians := DefaultGaussians()
	require.Len(t, gaussians, 4)

	for _, g := range gaussians {
		require.GreaterOrEqual(t, MaxValue(gaussians, g.Center), g.Amplitude)
	}

	require.Zero(t, MaxValue(nil, geometry.Zero3[float32]()))
}

func newTestField(t *testing.T) *scalarfield.Field[float32] {
	f, err := scalarfield.New(geometry.V3[float32](-1, -1, -2), geometry.V3[float32](1, 1, 2), 9, 9, 17, float32(-1))
	require.NoError(t, err)
	return f
}

func TestFill(t *testing.T) {
	t.Run("every sample is the max over gaussians", func(t *testing.T) {
		f := newTestField(t)
		gaussians := DefaultGaussians()

		err := Fill(context.Background(), f, gaussians, 3)
		require.NoError(t, err)

		for k := 0; k < f.ZSize(); k++ {
			for j := 0; j < f.YSize(); j++ {
				for i := 0; i < f.XSize(); i++ {
					v, err := f.At(i, j, k)
					require.NoError(t, err)
					require.Equal(t, MaxValue(gaussians, f.ElementPosition(i, j, k)), v)
				}
			}
		}
	})

	t.Run("worker count does not change the result", func(t *testing.T) {
		a := newTestField(t)
		b := newTestField(t)

		require.NoError(t, Fill(context.Background(), a, DefaultGaussians(), 1))
		require.NoError(t, Fill(context.Background(), b, DefaultGaussians(), 0))
		require.Equal(t, a.Data(), b.Data())
	})

	t.Run("canceled context", func(t *testing.T) {
		f := newTestField(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Fill(ctx, f, DefaultGaussians(), 2)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeFillCanceled))
	})
}
