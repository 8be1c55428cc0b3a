package scalarfield

import (
	"github.com/aukilabs/gecko/geometry"
)

// Info summarizes a numeric field.
type Info struct {
	Count     [3]int     `json:"count"`
	BoundsMin [3]float32 `json:"bounds_min"`
	BoundsMax [3]float32 `json:"bounds_max"`
	Spacing   [3]float32 `json:"spacing"`
	Center    [3]float32 `json:"center"`
	Len       int        `json:"len"`
	ValueMin  float64    `json:"value_min"`
	ValueMax  float64    `json:"value_max"`
	ValueMean float64    `json:"value_mean"`
}

// Describe returns the layout of f along with the min, max and mean of its
// samples.
func Describe[T geometry.Scalar](f *Field[T]) Info {
	data := f.Data()

	valueMin := float64(data[0])
	valueMax := valueMin
	var sum float64
	for _, v := range data {
		fv := float64(v)
		valueMin = min(valueMin, fv)
		valueMax = max(valueMax, fv)
		sum += fv
	}

	return Info{
		Count:     f.Count(),
		BoundsMin: f.Min(),
		BoundsMax: f.Max(),
		Spacing:   f.Spacing(),
		Center:    f.Center(),
		Len:       len(data),
		ValueMin:  valueMin,
		ValueMax:  valueMax,
		ValueMean: sum / float64(len(data)),
	}
}
