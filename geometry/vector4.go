package geometry

// Vec4 is a 4-component vector. Colors and homogeneous coordinates use it.
type Vec4[T Scalar] [4]T

func V4[T Scalar](x, y, z, w T) Vec4[T] {
	return Vec4[T]{x, y, z, w}
}

func Constant4[T Scalar](v T) Vec4[T] {
	return Vec4[T]{v, v, v, v}
}

func Zero4[T Scalar]() Vec4[T] {
	return Constant4(T(0))
}

// Cast4 converts every component of v to U.
func Cast4[U, T Scalar](v Vec4[T]) Vec4[U] {
	return Vec4[U]{U(v[0]), U(v[1]), U(v[2]), U(v[3])}
}

// X returns the first component.
func (v Vec4[T]) X() T { return v[0] }

// Y returns the second component.
func (v Vec4[T]) Y() T { return v[1] }

// Z returns the third component.
func (v Vec4[T]) Z() T { return v[2] }

// W returns the fourth component.
func (v Vec4[T]) W() T { return v[3] }

// XYZ drops the w component.
func (v Vec4[T]) XYZ() Vec3[T] { return Vec3[T]{v[0], v[1], v[2]} }

func (v *Vec4[T]) AddAssign(o Vec4[T]) *Vec4[T] {
	*v = v.Add(o)
	return v
}

func (v *Vec4[T]) SubAssign(o Vec4[T]) *Vec4[T] {
	*v = v.Sub(o)
	return v
}

func (v *Vec4[T]) MulAssign(s T) *Vec4[T] {
	*v = v.Mul(s)
	return v
}

func (v *Vec4[T]) DivAssign(s T) *Vec4[T] {
	*v = v.Div(s)
	return v
}

func (v Vec4[T]) Add(o Vec4[T]) Vec4[T]     { return ewise(v, o, add[T]) }
func (v Vec4[T]) Sub(o Vec4[T]) Vec4[T]     { return ewise(v, o, sub[T]) }
func (v Vec4[T]) Neg() Vec4[T]              { return apply(v, neg[T]) }
func (v Vec4[T]) Mul(s T) Vec4[T]           { return apply(v, func(e T) T { return e * s }) }
func (v Vec4[T]) Div(s T) Vec4[T]           { return apply(v, func(e T) T { return e / s }) }
func (v Vec4[T]) MulElem(o Vec4[T]) Vec4[T] { return ewise(v, o, mul[T]) }
func (v Vec4[T]) DivElem(o Vec4[T]) Vec4[T] { return ewise(v, o, div[T]) }
func (v Vec4[T]) MinElem(o Vec4[T]) Vec4[T] { return ewise(v, o, minOf[T]) }
func (v Vec4[T]) MaxElem(o Vec4[T]) Vec4[T] { return ewise(v, o, maxOf[T]) }
func (v Vec4[T]) Abs() Vec4[T]              { return apply(v, abs[T]) }
func (v Vec4[T]) Exp() Vec4[T]              { return apply(v, exp[T]) }

func (v Vec4[T]) MinElement() T       { return reduce(v, minOf[T]) }
func (v Vec4[T]) MaxElement() T       { return reduce(v, maxOf[T]) }
func (v Vec4[T]) Dot(o Vec4[T]) T     { return reduce(v.MulElem(o), add[T]) }
func (v Vec4[T]) SquaredNorm() T      { return reduce(v.MulElem(v), add[T]) }
func (v Vec4[T]) Norm() T             { return sqrt(v.SquaredNorm()) }
func (v Vec4[T]) Normalized() Vec4[T] { return v.Div(v.Norm()) }

func (v Vec4[T]) FastNormalized() Vec4[T] { return v.Mul(1 / v.Norm()) }

func (v Vec4[T]) ApproxEqual(o Vec4[T], epsilon float64) bool {
	return approxEqual[Vec4[T], T](v, o, epsilon)
}
