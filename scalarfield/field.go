// Package scalarfield implements a dense 3D grid of samples placed in an
// axis-aligned world-space box.
//
// A Field is a passive container: it does not interpolate, filter or solve
// anything. It is populated by its owner through indexed access and read in
// bulk through Data.
package scalarfield

import (
	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidConfiguration = "invalid_configuration"
	ErrTypeDegenerateBounds     = "degenerate_bounds"
	ErrTypeOutOfRange           = "out_of_range"
)

const (
	// MinCount is the smallest sample count accepted on each axis.
	MinCount = 3

	// MaxLen is the largest number of samples a field holds.
	MaxLen = 1 << 30
)

var axisNames = [3]string{"x", "y", "z"}

// Field is a grid of count.X * count.Y * count.Z values of type T spanning
// the box [min, max].
//
// Sample (i, j, k) is stored at index i + nx*(j + k*ny) and sits at the world
// position min + (i, j, k) * spacing.
//
// A Field must not be copied by value: pass a *Field to hand it over, and
// use Clone to get an independent copy.
type Field[T any] struct {
	noCopy noCopy

	min     geometry.Vec3[float32]
	max     geometry.Vec3[float32]
	count   geometry.Vec3[int]
	spacing geometry.Vec3[float32]
	data    []T
}

// New creates a field spanning [boundsMin, boundsMax] with the given number
// of samples per axis, every sample set to defaultValue.
//
// It returns an error typed ErrTypeInvalidConfiguration when a count is lower
// than MinCount or the sample total exceeds MaxLen, and
// ErrTypeDegenerateBounds when a component of boundsMax is lower than the
// matching one of boundsMin.
func New[T any](boundsMin, boundsMax geometry.Vec3[float32], countX, countY, countZ int, defaultValue T) (*Field[T], error) {
	count := geometry.V3(countX, countY, countZ)
	for axis, n := range count {
		if n < MinCount {
			return nil, errors.New("not enough samples").
				WithType(ErrTypeInvalidConfiguration).
				WithTag("axis", axisNames[axis]).
				WithTag("count", n).
				WithTag("min_count", MinCount)
		}
	}

	length := 1
	for _, n := range count {
		if n > MaxLen/length {
			return nil, errors.New("too many samples").
				WithType(ErrTypeInvalidConfiguration).
				WithTag("count", count).
				WithTag("max_len", MaxLen)
		}
		length *= n
	}

	for axis := range boundsMin {
		if boundsMax[axis] < boundsMin[axis] {
			return nil, errors.New("bounds max is lower than bounds min").
				WithType(ErrTypeDegenerateBounds).
				WithTag("axis", axisNames[axis]).
				WithTag("min", boundsMin[axis]).
				WithTag("max", boundsMax[axis])
		}
	}

	data := make([]T, length)
	for i := range data {
		data[i] = defaultValue
	}

	return &Field[T]{
		min:     boundsMin,
		max:     boundsMax,
		count:   count,
		spacing: boundsMax.Sub(boundsMin).DivElem(geometry.Cast3[float32](count.Sub(geometry.Constant3(1)))),
		data:    data,
	}, nil
}

// Min returns the lower corner of the bounds.
func (f *Field[T]) Min() geometry.Vec3[float32] { return f.min }

// Max returns the upper corner of the bounds.
func (f *Field[T]) Max() geometry.Vec3[float32] { return f.max }

// Count returns the number of samples along each axis.
func (f *Field[T]) Count() geometry.Vec3[int] { return f.count }

// Spacing returns the distance between neighbouring samples along each axis.
func (f *Field[T]) Spacing() geometry.Vec3[float32] { return f.spacing }

// XSize returns the number of samples along x.
func (f *Field[T]) XSize() int { return f.count[0] }

// YSize returns the number of samples along y.
func (f *Field[T]) YSize() int { return f.count[1] }

// ZSize returns the number of samples along z.
func (f *Field[T]) ZSize() int { return f.count[2] }

// Len returns the number of samples.
func (f *Field[T]) Len() int {
	return len(f.data)
}

// At returns the sample at (i, j, k).
func (f *Field[T]) At(i, j, k int) (T, error) {
	if err := f.checkIndex(i, j, k); err != nil {
		var zero T
		return zero, err
	}
	return f.data[f.index(i, j, k)], nil
}

// Set replaces the sample at (i, j, k).
func (f *Field[T]) Set(i, j, k int, v T) error {
	if err := f.checkIndex(i, j, k); err != nil {
		return err
	}
	f.data[f.index(i, j, k)] = v
	return nil
}

// Ref returns a pointer to the sample at (i, j, k) without checking the
// indexes. The result for an index outside the grid is undefined: it may
// point to another sample or panic.
func (f *Field[T]) Ref(i, j, k int) *T {
	return &f.data[f.index(i, j, k)]
}

// ElementPosition returns the world position of the sample at (i, j, k)
// without checking the indexes.
func (f *Field[T]) ElementPosition(i, j, k int) geometry.Vec3[float32] {
	ijk := geometry.V3(float32(i), float32(j), float32(k))
	return f.min.Add(ijk.MulElem(f.spacing))
}

// ElementPositionSafe is ElementPosition with the same index checks as At.
func (f *Field[T]) ElementPositionSafe(i, j, k int) (geometry.Vec3[float32], error) {
	if err := f.checkIndex(i, j, k); err != nil {
		return geometry.Vec3[float32]{}, err
	}
	return f.ElementPosition(i, j, k), nil
}

// Diagonal returns max minus min.
func (f *Field[T]) Diagonal() geometry.Vec3[float32] {
	return f.max.Sub(f.min)
}

// Center returns the midpoint of the bounds.
func (f *Field[T]) Center() geometry.Vec3[float32] {
	return f.min.Add(f.max).Mul(0.5)
}

// ModelMatrix returns the transform that maps the unit cube [0, 1]^3 onto the
// field bounds.
func (f *Field[T]) ModelMatrix() geometry.Mat4 {
	return geometry.Translate(f.min).Mul(geometry.ScaleMatrix(f.Diagonal()))
}

// Data returns the backing store, x varying fastest. The slice is shared
// with the field.
func (f *Field[T]) Data() []T {
	return f.data
}

// Clone returns a deep copy of the field.
func (f *Field[T]) Clone() *Field[T] {
	data := make([]T, len(f.data))
	copy(data, f.data)

	return &Field[T]{
		min:     f.min,
		max:     f.max,
		count:   f.count,
		spacing: f.spacing,
		data:    data,
	}
}

func (f *Field[T]) index(i, j, k int) int {
	return i + f.count[0]*(j+k*f.count[1])
}

func (f *Field[T]) checkIndex(i, j, k int) error {
	for axis, v := range [3]int{i, j, k} {
		if v < 0 || v >= f.count[axis] {
			return errors.New("sample index out of range").
				WithType(ErrTypeOutOfRange).
				WithTag("axis", axisNames[axis]).
				WithTag("index", v).
				WithTag("count", f.count[axis])
		}
	}
	return nil
}

// noCopy makes go vet report copies of the structs that embed it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
