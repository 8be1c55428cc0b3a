package geometry

// Vec2 is a 2-component vector.
type Vec2[T Scalar] [2]T

func V2[T Scalar](x, y T) Vec2[T] {
	return Vec2[T]{x, y}
}

func Constant2[T Scalar](v T) Vec2[T] {
	return Vec2[T]{v, v}
}

func Zero2[T Scalar]() Vec2[T] {
	return Constant2(T(0))
}

// Cast2 converts every component of v to U.
func Cast2[U, T Scalar](v Vec2[T]) Vec2[U] {
	return Vec2[U]{U(v[0]), U(v[1])}
}

// X returns the first component.
func (v Vec2[T]) X() T { return v[0] }

// Y returns the second component.
func (v Vec2[T]) Y() T { return v[1] }

func (v *Vec2[T]) AddAssign(o Vec2[T]) *Vec2[T] {
	*v = v.Add(o)
	return v
}

func (v *Vec2[T]) SubAssign(o Vec2[T]) *Vec2[T] {
	*v = v.Sub(o)
	return v
}

func (v *Vec2[T]) MulAssign(s T) *Vec2[T] {
	*v = v.Mul(s)
	return v
}

func (v *Vec2[T]) DivAssign(s T) *Vec2[T] {
	*v = v.Div(s)
	return v
}

func (v Vec2[T]) Add(o Vec2[T]) Vec2[T]     { return ewise(v, o, add[T]) }
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T]     { return ewise(v, o, sub[T]) }
func (v Vec2[T]) Neg() Vec2[T]              { return apply(v, neg[T]) }
func (v Vec2[T]) Mul(s T) Vec2[T]           { return apply(v, func(e T) T { return e * s }) }
func (v Vec2[T]) Div(s T) Vec2[T]           { return apply(v, func(e T) T { return e / s }) }
func (v Vec2[T]) MulElem(o Vec2[T]) Vec2[T] { return ewise(v, o, mul[T]) }
func (v Vec2[T]) DivElem(o Vec2[T]) Vec2[T] { return ewise(v, o, div[T]) }
func (v Vec2[T]) MinElem(o Vec2[T]) Vec2[T] { return ewise(v, o, minOf[T]) }
func (v Vec2[T]) MaxElem(o Vec2[T]) Vec2[T] { return ewise(v, o, maxOf[T]) }
func (v Vec2[T]) Abs() Vec2[T]              { return apply(v, abs[T]) }
func (v Vec2[T]) Exp() Vec2[T]              { return apply(v, exp[T]) }

func (v Vec2[T]) MinElement() T       { return reduce(v, minOf[T]) }
func (v Vec2[T]) MaxElement() T       { return reduce(v, maxOf[T]) }
func (v Vec2[T]) Dot(o Vec2[T]) T     { return reduce(v.MulElem(o), add[T]) }
func (v Vec2[T]) SquaredNorm() T      { return reduce(v.MulElem(v), add[T]) }
func (v Vec2[T]) Norm() T             { return sqrt(v.SquaredNorm()) }
func (v Vec2[T]) Normalized() Vec2[T] { return v.Div(v.Norm()) }

func (v Vec2[T]) FastNormalized() Vec2[T] { return v.Mul(1 / v.Norm()) }

func (v Vec2[T]) ApproxEqual(o Vec2[T], epsilon float64) bool {
	return approxEqual[Vec2[T], T](v, o, epsilon)
}
