package geometry

// Vec3 is a 3-component vector.
type Vec3[T Scalar] [3]T

// V3 returns the vector (x, y, z).
func V3[T Scalar](x, y, z T) Vec3[T] {
	return Vec3[T]{x, y, z}
}

// Constant3 returns a vector with every component set to v.
func Constant3[T Scalar](v T) Vec3[T] {
	return Vec3[T]{v, v, v}
}

// Zero3 returns the zero vector.
func Zero3[T Scalar]() Vec3[T] {
	return Constant3(T(0))
}

// Cast3 converts every component of v to U.
func Cast3[U, T Scalar](v Vec3[T]) Vec3[U] {
	return Vec3[U]{U(v[0]), U(v[1]), U(v[2])}
}

// X returns the first component.
func (v Vec3[T]) X() T { return v[0] }

// Y returns the second component.
func (v Vec3[T]) Y() T { return v[1] }

// Z returns the third component.
func (v Vec3[T]) Z() T { return v[2] }

// AddAssign adds o to v in place.
func (v *Vec3[T]) AddAssign(o Vec3[T]) *Vec3[T] {
	*v = v.Add(o)
	return v
}

// SubAssign subtracts o from v in place.
func (v *Vec3[T]) SubAssign(o Vec3[T]) *Vec3[T] {
	*v = v.Sub(o)
	return v
}

// MulAssign scales v by s in place.
func (v *Vec3[T]) MulAssign(s T) *Vec3[T] {
	*v = v.Mul(s)
	return v
}

// DivAssign divides v by s in place.
func (v *Vec3[T]) DivAssign(s T) *Vec3[T] {
	*v = v.Div(s)
	return v
}

// Add returns v + o.
func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] { return ewise(v, o, add[T]) }

// Sub returns v - o.
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] { return ewise(v, o, sub[T]) }

// Neg returns -v.
func (v Vec3[T]) Neg() Vec3[T] { return apply(v, neg[T]) }

// Mul returns v * s.
func (v Vec3[T]) Mul(s T) Vec3[T] { return apply(v, func(e T) T { return e * s }) }

// Div returns v / s.
func (v Vec3[T]) Div(s T) Vec3[T] { return apply(v, func(e T) T { return e / s }) }

// MulElem returns the element-wise (Hadamard) product of v and o.
func (v Vec3[T]) MulElem(o Vec3[T]) Vec3[T] { return ewise(v, o, mul[T]) }

// DivElem returns the element-wise quotient of v and o.
func (v Vec3[T]) DivElem(o Vec3[T]) Vec3[T] { return ewise(v, o, div[T]) }

// MinElem returns the element-wise minimum of v and o.
func (v Vec3[T]) MinElem(o Vec3[T]) Vec3[T] { return ewise(v, o, minOf[T]) }

// MaxElem returns the element-wise maximum of v and o.
func (v Vec3[T]) MaxElem(o Vec3[T]) Vec3[T] { return ewise(v, o, maxOf[T]) }

// Abs returns the element-wise absolute value of v.
func (v Vec3[T]) Abs() Vec3[T] { return apply(v, abs[T]) }

// Exp returns the element-wise exponential of v.
func (v Vec3[T]) Exp() Vec3[T] { return apply(v, exp[T]) }

// Cross returns the right-handed cross product v × o.
func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// MinElement returns the smallest component of v.
func (v Vec3[T]) MinElement() T { return reduce(v, minOf[T]) }

// MaxElement returns the largest component of v.
func (v Vec3[T]) MaxElement() T { return reduce(v, maxOf[T]) }

// Dot returns the dot product of v and o.
func (v Vec3[T]) Dot(o Vec3[T]) T { return reduce(v.MulElem(o), add[T]) }

// SquaredNorm returns the squared euclidean length of v.
func (v Vec3[T]) SquaredNorm() T { return reduce(v.MulElem(v), add[T]) }

// Norm returns the euclidean length of v.
func (v Vec3[T]) Norm() T { return sqrt(v.SquaredNorm()) }

// Normalized returns v divided by its length. A zero vector yields NaNs.
func (v Vec3[T]) Normalized() Vec3[T] { return v.Div(v.Norm()) }

// FastNormalized returns v multiplied by the inverse of its length, trading
// three divisions for one.
func (v Vec3[T]) FastNormalized() Vec3[T] { return v.Mul(1 / v.Norm()) }

// ApproxEqual reports whether every component of v is at most epsilon away
// from the matching component of o.
func (v Vec3[T]) ApproxEqual(o Vec3[T], epsilon float64) bool {
	return approxEqual[Vec3[T], T](v, o, epsilon)
}
