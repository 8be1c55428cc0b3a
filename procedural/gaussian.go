// Package procedural populates scalar fields from analytic functions.
package procedural

import (
	"math"

	"github.com/aukilabs/gecko/geometry"
)

// Gaussian is an isotropic bell centered on Center.
type Gaussian struct {
	Center    geometry.Vec3[float32] `json:"center"`
	Amplitude float32                `json:"amplitude"`
	Width     float32                `json:"width"`
}

// Value returns the Gaussian evaluated at p.
func (g Gaussian) Value(p geometry.Vec3[float32]) float32 {
	d2 := float64(g.Center.Sub(p).SquaredNorm())
	w := float64(g.Width)
	return g.Amplitude * float32(math.Exp(-d2/(2*w*w)))
}

// DefaultGaussians returns the four blobs used to populate the demo field.
func DefaultGaussians() []Gaussian {
	return []Gaussian{
		{Center: geometry.V3[float32](-0.6, -0.5, -1.5), Amplitude: 3, Width: 1.2},
		{Center: geometry.V3[float32](0.3, 0.5, 0.3), Amplitude: 1, Width: 0.3},
		{Center: geometry.V3[float32](0.8, 0.8, -0.1), Amplitude: 2, Width: 0.1},
		{Center: geometry.V3[float32](-0.2, -0.3, 1.2), Amplitude: 5, Width: 0.6},
	}
}

// MaxValue returns the largest value of the gaussians at p, or 0 when there
// are none.
func MaxValue(gaussians []Gaussian, p geometry.Vec3[float32]) float32 {
	var v float32
	for i, g := range gaussians {
		if gv := g.Value(p); i == 0 || gv > v {
			v = gv
		}
	}
	return v
}
