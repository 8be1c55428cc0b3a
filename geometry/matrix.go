package geometry

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	ErrTypeSingularMatrix = "singular_matrix"
)

// Mat4 is a 4x4 float32 matrix in column-major order, the layout expected by
// shader uniforms.
//
// m[4*c + r] is the element in the r'th row and c'th column.
type Mat4 [16]float32

func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Translate returns a matrix that translates points by v.
func Translate(v Vec3[float32]) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v[0], v[1], v[2]
	return m
}

// ScaleMatrix returns a matrix that scales each axis by the matching
// component of v.
func ScaleMatrix(v Vec3[float32]) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v[0], v[1], v[2]
	return m
}

func (m Mat4) At(row, col int) float32 {
	return m[4*col+row]
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[4*k+row] * o[4*c+k]
			}
			r[4*c+row] = sum
		}
	}
	return r
}

func (m Mat4) MulVec4(v Vec4[float32]) Vec4[float32] {
	var r Vec4[float32]
	for row := 0; row < 4; row++ {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}

// TransformPoint applies m to the point p (w = 1) and divides by the
// resulting w when it is not zero.
func (m Mat4) TransformPoint(p Vec3[float32]) Vec3[float32] {
	r := m.MulVec4(V4(p[0], p[1], p[2], 1))
	if r[3] != 0 && r[3] != 1 {
		return r.XYZ().Div(r[3])
	}
	return r.XYZ()
}

// Inverse returns the inverse of m. It returns an error typed
// ErrTypeSingularMatrix when m cannot be inverted.
func (m Mat4) Inverse() (Mat4, error) {
	a := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a.Set(r, c, float64(m.At(r, c)))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Mat4{}, errors.New("matrix is not invertible").
			WithType(ErrTypeSingularMatrix).
			Wrap(err)
	}

	var r Mat4
	for row := 0; row < 4; row++ {
		for c := 0; c < 4; c++ {
			r[4*c+row] = float32(inv.At(row, c))
		}
	}
	return r, nil
}

func (m Mat4) ApproxEqual(o Mat4, epsilon float64) bool {
	for i := range m {
		if !EqualWithEpsilon(m[i], o[i], epsilon) {
			return false
		}
	}
	return true
}

// LookAt returns a right-handed view matrix for an eye looking at center.
func LookAt(eye, center, up Vec3[float32]) Mat4 {
	f := center.Sub(eye).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)

	m := Identity()
	m[0], m[4], m[8] = s[0], s[1], s[2]
	m[1], m[5], m[9] = u[0], u[1], u[2]
	m[2], m[6], m[10] = -f[0], -f[1], -f[2]
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	return m
}

// PerspectiveFov returns a right-handed perspective projection mapping depth
// to [-1, 1]. fovy is in radians.
func PerspectiveFov(fovy, width, height, near, far float32) Mat4 {
	h := float32(math.Cos(0.5*float64(fovy)) / math.Sin(0.5*float64(fovy)))
	w := h * height / width

	var m Mat4
	m[0] = w
	m[5] = h
	m[10] = -(far + near) / (far - near)
	m[11] = -1
	m[14] = -(2 * far * near) / (far - near)
	return m
}
