package render

import (
	"io"
	"strconv"

	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	heatMapColors = 64
	heatMapSize   = 6 * vg.Inch
)

// sliceGrid exposes the samples of constant k as a plotter.GridXYZ, with
// columns along x and rows along y.
type sliceGrid struct {
	field *scalarfield.Field[float32]
	k     int
}

func (g sliceGrid) Dims() (c, r int) {
	return g.field.XSize(), g.field.YSize()
}

func (g sliceGrid) Z(c, r int) float64 {
	return float64(*g.field.Ref(c, r, g.k))
}

func (g sliceGrid) X(c int) float64 {
	return float64(g.field.ElementPosition(c, 0, g.k).X())
}

func (g sliceGrid) Y(r int) float64 {
	return float64(g.field.ElementPosition(0, r, g.k).Y())
}

// WriteSliceHeatMap writes a PNG heat map of the samples of constant k.
//
// It returns an error typed scalarfield.ErrTypeOutOfRange when k is not a
// slice of f.
func WriteSliceHeatMap(w io.Writer, f *scalarfield.Field[float32], k int) error {
	pos, err := f.ElementPositionSafe(0, 0, k)
	if err != nil {
		return err
	}

	grid := sliceGrid{field: f, k: k}
	heatMap := plotter.NewHeatMap(grid, palette.Heat(heatMapColors, 1))
	if heatMap.Min == heatMap.Max {
		heatMap.Max = heatMap.Min + 1
	}

	p := plot.New()
	p.Title.Text = "z = " + strconv.FormatFloat(float64(pos.Z()), 'g', 4, 32) + " (k = " + strconv.Itoa(k) + ")"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(heatMap)

	wt, err := p.WriterTo(heatMapSize, heatMapSize, "png")
	if err != nil {
		return errors.New("creating heat map writer failed").Wrap(err)
	}

	if _, err := wt.WriteTo(w); err != nil {
		return errors.New("writing heat map failed").
			WithTag("k", k).
			Wrap(err)
	}
	return nil
}
