// Package geometry implements the fixed-size vectors and the 4x4 matrices
// used to place and look at a scalar field.
//
// Vector arity is part of the type: Vec2, Vec3 and Vec4 are arrays, so a
// vector never allocates, copies like any other value and cannot be built
// with the wrong number of elements. Accessors that need a minimum arity,
// like Z or W, and operations that only make sense for one arity, like
// Cross, only exist on the types that support them.
package geometry

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scalar is the set of element types a vector can hold.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Vector is the set of vector types. It is used to share the element-wise
// kernels between arities.
type Vector[T Scalar] interface {
	Vec2[T] | Vec3[T] | Vec4[T]
}

// Scale returns s * v. It is the scalar-first counterpart of the Mul methods.
func Scale[V Vector[T], T Scalar](s T, v V) V {
	return apply(v, func(e T) T { return s * e })
}

// EqualWithEpsilon reports whether a and b are at most epsilon apart.
func EqualWithEpsilon[T Scalar](a, b T, epsilon float64) bool {
	return math.Abs(float64(a)-float64(b)) <= epsilon
}

func apply[V Vector[T], T Scalar](v V, f func(T) T) V {
	var r V
	for i := 0; i < len(v); i++ {
		r[i] = f(v[i])
	}
	return r
}

func ewise[V Vector[T], T Scalar](a, b V, f func(T, T) T) V {
	var r V
	for i := 0; i < len(a); i++ {
		r[i] = f(a[i], b[i])
	}
	return r
}

// reduce folds the elements of v with combine, which must be associative
// and commutative so that the folding order does not matter.
func reduce[V Vector[T], T Scalar](v V, combine func(T, T) T) T {
	acc := v[0]
	for i := 1; i < len(v); i++ {
		acc = combine(acc, v[i])
	}
	return acc
}

func approxEqual[V Vector[T], T Scalar](a, b V, epsilon float64) bool {
	for i := 0; i < len(a); i++ {
		if !EqualWithEpsilon(a[i], b[i], epsilon) {
			return false
		}
	}
	return true
}

func add[T Scalar](a, b T) T { return a + b }
func sub[T Scalar](a, b T) T { return a - b }
func mul[T Scalar](a, b T) T { return a * b }
func div[T Scalar](a, b T) T { return a / b }
func neg[T Scalar](a T) T    { return -a }

func minOf[T Scalar](a, b T) T { return min(a, b) }
func maxOf[T Scalar](a, b T) T { return max(a, b) }

func abs[T Scalar](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func exp[T Scalar](a T) T {
	return T(math.Exp(float64(a)))
}

func sqrt[T Scalar](a T) T {
	return T(math.Sqrt(float64(a)))
}
