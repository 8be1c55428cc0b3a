package camera

import (
	"math"
	"testing"

	"github.com/aukilabs/gecko/geometry"
	"github.com/stretchr/testify/require"
)

func TestNewOrbit(t *testing.T) {
	t.Run("spherical coordinates", func(t *testing.T) {
		o := NewOrbit(geometry.V3[float32](0, 0, 10), geometry.Zero3[float32]())
		require.InDelta(t, 10, o.Radius(), 1e-9)
		require.InDelta(t, math.Pi/2, o.Phi(), 1e-9)
		require.InDelta(t, math.Pi/2, o.Theta(), 1e-9)
		require.True(t, o.Eye().ApproxEqual(geometry.V3[float32](0, 0, 10), 1e-5))
	})

	t.Run("eye round trip", func(t *testing.T) {
		froms := []geometry.Vec3[float32]{
			geometry.V3[float32](3, 4, 5),
			geometry.V3[float32](-2, 1, -7),
			geometry.V3[float32](0.5, -3, 0),
		}
		at := geometry.V3[float32](1, 1, 1)
		for _, from := range froms {
			o := NewOrbit(from, at)
			require.True(t, o.Eye().ApproxEqual(from, 1e-4), "%v != %v", o.Eye(), from)
			require.Equal(t, at, o.At())
		}
	})

	t.Run("minimum radius", func(t *testing.T) {
		o := NewOrbit(geometry.Zero3[float32](), geometry.Zero3[float32]())
		require.Equal(t, MinRadius, o.Radius())
	})
}

func TestOrbitRotate(t *testing.T) {
	t.Run("phi wraps", func(t *testing.T) {
		o := NewOrbit(geometry.V3[float32](1, 0, 0), geometry.Zero3[float32]())
		require.InDelta(t, 0, o.Phi(), 1e-9)

		o.RotateVertical(-math.Pi / 2)
		require.InDelta(t, 3*math.Pi/2, o.Phi(), 1e-9)

		o.RotateVertical(math.Pi)
		require.InDelta(t, math.Pi/2, o.Phi(), 1e-9)

		for i := 0; i < 100; i++ {
			o.RotateVertical(0.7)
			require.GreaterOrEqual(t, o.Phi(), 0.0)
			require.Less(t, o.Phi(), 2*math.Pi)
		}
	})

	t.Run("theta is clamped", func(t *testing.T) {
		o := NewOrbit(geometry.V3[float32](0, 0, 5), geometry.Zero3[float32]())

		o.RotateHorizontal(10)
		require.InDelta(t, math.Pi, o.Theta(), 1e-2)
		require.Less(t, o.Theta(), math.Pi)

		o.RotateHorizontal(-20)
		require.InDelta(t, 0, o.Theta(), 1e-2)
		require.Greater(t, o.Theta(), 0.0)

		_, view := o.EyeAndView()
		for _, v := range view {
			require.False(t, math.IsNaN(float64(v)))
		}
	})

	t.Run("rotation keeps the distance", func(t *testing.T) {
		at := geometry.V3[float32](1, 2, 3)
		o := NewOrbit(geometry.V3[float32](1, 2, 8), at)
		o.RotateVertical(0.4)
		o.RotateHorizontal(-0.3)
		require.InDelta(t, 5, o.Eye().Sub(at).Norm(), 1e-4)
	})
}

func TestOrbitChangeRadius(t *testing.T) {
	o := NewOrbit(geometry.V3[float32](0, 0, 10), geometry.Zero3[float32]())

	o.ChangeRadius(-4)
	require.InDelta(t, 6, o.Radius(), 1e-9)
	require.True(t, o.Eye().ApproxEqual(geometry.V3[float32](0, 0, 6), 1e-5))

	o.ChangeRadius(-100)
	require.Equal(t, MinRadius, o.Radius())
}

func TestOrbitPan(t *testing.T) {
	o := NewOrbit(geometry.V3[float32](0, 0, 10), geometry.Zero3[float32]())

	o.MoveRight(2)
	require.True(t, o.At().ApproxEqual(geometry.V3[float32](2, 0, 0), 1e-5), "%v", o.At())
	require.True(t, o.Eye().ApproxEqual(geometry.V3[float32](2, 0, 10), 1e-5), "%v", o.Eye())

	o.MoveUp(3)
	require.True(t, o.At().ApproxEqual(geometry.V3[float32](2, 3, 0), 1e-5), "%v", o.At())

	o.ResetAt()
	require.Equal(t, geometry.Zero3[float32](), o.At())
}

func TestOrbitViewMatrix(t *testing.T) {
	o := NewOrbit(geometry.V3[float32](4, 3, -2), geometry.V3[float32](0, 1, 0))
	o.RotateVertical(1)

	eye, view := o.EyeAndView()
	require.Equal(t, view, o.ViewMatrix())
	require.True(t, view.TransformPoint(eye).ApproxEqual(geometry.Zero3[float32](), 1e-4))

	p := view.TransformPoint(o.At())
	require.InDelta(t, 0, p.X(), 1e-4)
	require.InDelta(t, 0, p.Y(), 1e-4)
	require.Less(t, p.Z(), float32(0))
}
