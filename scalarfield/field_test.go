package scalarfield

import (
	"math"
	"strconv"
	"testing"

	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newUnitField(t *testing.T) *Field[float32] {
	f, err := New(geometry.Constant3[float32](-1), geometry.Constant3[float32](1), 3, 3, 3, float32(0))
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	t.Run("every sample has the default value", func(t *testing.T) {
		f, err := New(geometry.V3[float32](0, 0, 0), geometry.V3[float32](1, 2, 3), 4, 5, 6, 7)
		require.NoError(t, err)
		require.Equal(t, 4*5*6, f.Len())
		require.Len(t, f.Data(), 4*5*6)
		for _, v := range f.Data() {
			require.Equal(t, 7, v)
		}
		require.Equal(t, 4, f.XSize())
		require.Equal(t, 5, f.YSize())
		require.Equal(t, 6, f.ZSize())
		require.Equal(t, geometry.V3(4, 5, 6), f.Count())
	})

	t.Run("too few samples", func(t *testing.T) {
		counts := [][3]int{{2, 3, 3}, {3, 2, 3}, {3, 3, 2}, {0, 3, 3}, {3, 3, -4}}
		for _, c := range counts {
			f, err := New(geometry.Zero3[float32](), geometry.Constant3[float32](1), c[0], c[1], c[2], 0.0)
			require.Error(t, err)
			require.Nil(t, f)
			require.Equal(t, ErrTypeInvalidConfiguration, errors.Type(err))
		}
	})

	t.Run("too many samples", func(t *testing.T) {
		// n*n*3 wraps around to zero in int arithmetic.
		n := 1 << (strconv.IntSize / 2)

		counts := [][3]int{
			{n, n, 3},
			{1024, 1024, 1025},
			{math.MaxInt, 3, 3},
			{3, math.MaxInt, math.MaxInt},
		}
		for _, c := range counts {
			f, err := New(geometry.Zero3[float32](), geometry.Constant3[float32](1), c[0], c[1], c[2], float32(0))
			require.Nil(t, f)
			require.Equal(t, ErrTypeInvalidConfiguration, errors.Type(err), "count %v", c)
		}
	})

	t.Run("inverted bounds", func(t *testing.T) {
		f, err := New(geometry.V3[float32](1, 0, 0), geometry.V3[float32](-1, 1, 1), 3, 3, 3, 0.0)
		require.Error(t, err)
		require.Nil(t, f)
		require.Equal(t, ErrTypeDegenerateBounds, errors.Type(err))

		_, err = New(geometry.V3[float32](0, 0, 0), geometry.V3[float32](1, 1, -0.5), 3, 3, 3, 0.0)
		require.True(t, errors.IsType(err, ErrTypeDegenerateBounds))
	})

	t.Run("flat bounds are accepted", func(t *testing.T) {
		f, err := New(geometry.Zero3[float32](), geometry.V3[float32](1, 0, 1), 3, 3, 3, 0)
		require.NoError(t, err)
		require.Equal(t, float32(0), f.Spacing().Y())
	})
}

func TestFieldSpacing(t *testing.T) {
	f, err := New(geometry.V3[float32](-1, -1, -2), geometry.V3[float32](1, 1, 2), 5, 3, 9, uint8(0))
	require.NoError(t, err)
	require.Equal(t, geometry.V3[float32](0.5, 1, 0.5), f.Spacing())
	require.Equal(t, geometry.V3[float32](2, 2, 4), f.Diagonal())
	require.Equal(t, geometry.V3[float32](0, 0, 0), f.Center())
	require.Equal(t, geometry.V3[float32](-1, -1, -2), f.Min())
	require.Equal(t, geometry.V3[float32](1, 1, 2), f.Max())
}

func TestFieldElementPosition(t *testing.T) {
	f := newUnitField(t)

	require.Equal(t, geometry.V3[float32](-1, -1, -1), f.ElementPosition(0, 0, 0))
	require.Equal(t, geometry.V3[float32](1, 1, 1), f.ElementPosition(2, 2, 2))
	require.Equal(t, geometry.V3[float32](0, 0, 0), f.ElementPosition(1, 1, 1))
	require.Equal(t, geometry.V3[float32](1, -1, 0), f.ElementPosition(2, 0, 1))

	t.Run("safe", func(t *testing.T) {
		p, err := f.ElementPositionSafe(2, 0, 1)
		require.NoError(t, err)
		require.Equal(t, f.ElementPosition(2, 0, 1), p)

		_, err = f.ElementPositionSafe(0, 3, 0)
		require.Equal(t, ErrTypeOutOfRange, errors.Type(err))
	})
}

func TestFieldAccess(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		f := newUnitField(t)
		require.NoError(t, f.Set(1, 2, 0, 42))

		v, err := f.At(1, 2, 0)
		require.NoError(t, err)
		require.Equal(t, float32(42), v)
		require.Equal(t, float32(42), *f.Ref(1, 2, 0))
	})

	t.Run("set then get every sample", func(t *testing.T) {
		f, err := New(geometry.Zero3[float32](), geometry.Constant3[float32](1), 3, 4, 5, -1)
		require.NoError(t, err)

		for k := 0; k < f.ZSize(); k++ {
			for j := 0; j < f.YSize(); j++ {
				for i := 0; i < f.XSize(); i++ {
					require.NoError(t, f.Set(i, j, k, i+10*j+100*k))
				}
			}
		}

		for k := 0; k < f.ZSize(); k++ {
			for j := 0; j < f.YSize(); j++ {
				for i := 0; i < f.XSize(); i++ {
					v, err := f.At(i, j, k)
					require.NoError(t, err)
					require.Equal(t, i+10*j+100*k, v)
				}
			}
		}
	})

	t.Run("unchecked access past an axis aliases the next row", func(t *testing.T) {
		f := newUnitField(t)

		*f.Ref(3, 0, 0) = 9
		v, err := f.At(0, 1, 0)
		require.NoError(t, err)
		require.Equal(t, float32(9), v)

		require.Equal(t, f.ElementPosition(0, 0, 0).Add(geometry.V3[float32](3, 0, 0)), f.ElementPosition(3, 0, 0))
	})

	t.Run("linear layout with x fastest", func(t *testing.T) {
		f, err := New(geometry.Zero3[float32](), geometry.Constant3[float32](1), 3, 4, 5, -1)
		require.NoError(t, err)

		for k := 0; k < f.ZSize(); k++ {
			for j := 0; j < f.YSize(); j++ {
				for i := 0; i < f.XSize(); i++ {
					*f.Ref(i, j, k) = i + 10*j + 100*k
				}
			}
		}

		data := f.Data()
		require.Equal(t, 0, data[0])
		require.Equal(t, 1, data[1])
		require.Equal(t, 10, data[3])
		require.Equal(t, 100, data[12])
		require.Equal(t, 2+30+400, data[len(data)-1])
	})

	t.Run("out of range", func(t *testing.T) {
		f := newUnitField(t)

		indexes := [][3]int{{-1, 0, 0}, {3, 0, 0}, {0, -1, 0}, {0, 3, 0}, {0, 0, -1}, {0, 0, 3}}
		for _, idx := range indexes {
			_, err := f.At(idx[0], idx[1], idx[2])
			require.Error(t, err)
			require.Equal(t, ErrTypeOutOfRange, errors.Type(err))

			err = f.Set(idx[0], idx[1], idx[2], 1)
			require.Equal(t, ErrTypeOutOfRange, errors.Type(err))
		}

		for _, v := range f.Data() {
			require.Zero(t, v)
		}
	})

	t.Run("ref writes through", func(t *testing.T) {
		f := newUnitField(t)
		p := f.Ref(2, 1, 0)
		*p = 3
		v, err := f.At(2, 1, 0)
		require.NoError(t, err)
		require.Equal(t, float32(3), v)
	})
}

func TestFieldModelMatrix(t *testing.T) {
	f, err := New(geometry.V3[float32](-1, -1, -2), geometry.V3[float32](1, 1, 2), 3, 3, 3, float32(0))
	require.NoError(t, err)

	m := f.ModelMatrix()
	require.Equal(t, f.Min(), m.TransformPoint(geometry.Zero3[float32]()))
	require.Equal(t, f.Max(), m.TransformPoint(geometry.Constant3[float32](1)))
	require.Equal(t, f.Center(), m.TransformPoint(geometry.Constant3[float32](0.5)))
}

func TestFieldClone(t *testing.T) {
	original := newUnitField(t)
	require.NoError(t, original.Set(0, 0, 0, 5))

	clone := original.Clone()
	require.Equal(t, original.Data(), clone.Data())
	require.Equal(t, original.Spacing(), clone.Spacing())

	require.NoError(t, clone.Set(0, 0, 0, 9))

	v, err := original.At(0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, float32(5), v)

	v, err = clone.At(0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, float32(9), v)
}

func TestDescribe(t *testing.T) {
	f, err := New(geometry.V3[float32](0, 0, 0), geometry.V3[float32](2, 2, 2), 3, 3, 3, 1.0)
	require.NoError(t, err)
	require.NoError(t, f.Set(0, 0, 0, -25))
	require.NoError(t, f.Set(2, 2, 2, 27))

	got := Describe(f)
	want := Info{
		Count:     [3]int{3, 3, 3},
		BoundsMin: [3]float32{0, 0, 0},
		BoundsMax: [3]float32{2, 2, 2},
		Spacing:   [3]float32{1, 1, 1},
		Center:    [3]float32{1, 1, 1},
		Len:       27,
		ValueMin:  -25,
		ValueMax:  27,
		ValueMean: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected info (-want +got):\n%s", diff)
	}
}
