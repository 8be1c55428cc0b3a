// Package camera implements an orbit camera that turns around a look-at
// point on a sphere.
package camera

import (
	"math"

	"github.com/aukilabs/gecko/geometry"
)

const (
	// MinRadius is the closest the camera gets to its look-at point.
	MinRadius = 0.05

	// Keeps the camera off the poles where the view direction is parallel to
	// the up vector.
	poleEpsilon = 1e-3
)

var (
	// DefaultFrom and DefaultAt place a camera ten units in front of the
	// origin.
	DefaultFrom = geometry.V3[float32](0, 0, 10)
	DefaultAt   = geometry.Zero3[float32]()

	worldUp = geometry.V3[float32](0, 1, 0)
)

// Orbit is a camera placed in spherical coordinates around a look-at point.
//
// Phi is the azimuth around the y axis, measured from the x axis toward the z
// axis. Theta is the polar angle measured from the y axis.
type Orbit struct {
	at        geometry.Vec3[float32]
	initialAt geometry.Vec3[float32]
	phi       float64
	theta     float64
	radius    float64
}

// NewOrbit creates a camera at from, looking at at.
func NewOrbit(from, at geometry.Vec3[float32]) *Orbit {
	d := geometry.Cast3[float64](from.Sub(at))
	radius := max(d.Norm(), MinRadius)

	o := &Orbit{
		at:        at,
		initialAt: at,
		phi:       wrapAngle(math.Atan2(d.Z(), d.X())),
		theta:     math.Acos(clamp(d.Y()/radius, -1, 1)),
		radius:    radius,
	}
	o.theta = clampTheta(o.theta)
	return o
}

func (o *Orbit) Phi() float64               { return o.phi }
func (o *Orbit) Theta() float64             { return o.theta }
func (o *Orbit) Radius() float64            { return o.radius }
func (o *Orbit) At() geometry.Vec3[float32] { return o.at }

// RotateVertical turns the camera around the y axis. Phi wraps to [0, 2π).
func (o *Orbit) RotateVertical(dphi float64) {
	o.phi = wrapAngle(o.phi + dphi)
}

// RotateHorizontal tilts the camera toward or away from the poles. Theta
// stops just short of 0 and π.
func (o *Orbit) RotateHorizontal(dtheta float64) {
	o.theta = clampTheta(o.theta + dtheta)
}

// ChangeRadius moves the camera toward or away from the look-at point.
func (o *Orbit) ChangeRadius(dr float64) {
	o.radius = max(o.radius+dr, MinRadius)
}

// MoveRight pans the look-at point, and the camera with it, along the view
// right vector.
func (o *Orbit) MoveRight(d float32) {
	right, _ := o.basis()
	o.at.AddAssign(right.Mul(d))
}

// MoveUp pans the look-at point, and the camera with it, along the view up
// vector.
func (o *Orbit) MoveUp(d float32) {
	_, up := o.basis()
	o.at.AddAssign(up.Mul(d))
}

// ResetAt moves the look-at point back to where it was when the camera was
// created.
func (o *Orbit) ResetAt() {
	o.at = o.initialAt
}

// Eye returns the camera position.
func (o *Orbit) Eye() geometry.Vec3[float32] {
	sinTheta, cosTheta := math.Sincos(o.theta)
	sinPhi, cosPhi := math.Sincos(o.phi)

	offset := geometry.V3(sinTheta*cosPhi, cosTheta, sinTheta*sinPhi).Mul(o.radius)
	return o.at.Add(geometry.Cast3[float32](offset))
}

// ViewMatrix returns the world-to-camera matrix looking from Eye to the
// target.
func (o *Orbit) ViewMatrix() geometry.Mat4 {
	return geometry.LookAt(o.Eye(), o.at, worldUp)
}

// EyeAndView returns both the camera position and the view matrix.
func (o *Orbit) EyeAndView() (geometry.Vec3[float32], geometry.Mat4) {
	eye := o.Eye()
	return eye, geometry.LookAt(eye, o.at, worldUp)
}

func (o *Orbit) basis() (right, up geometry.Vec3[float32]) {
	forward := o.at.Sub(o.Eye()).Normalized()
	right = forward.Cross(worldUp).Normalized()
	up = right.Cross(forward)
	return right, up
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

func clampTheta(theta float64) float64 {
	return clamp(theta, poleEpsilon, math.Pi-poleEpsilon)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
