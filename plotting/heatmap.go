package plotting

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wakelab/pivwake/wake"
)

// stitchedGrid adapts a stitched wake quantity to the plotter.GridXYZ
// interface. Coordinates are the chord-normalized stitched X and Y.
type stitchedGrid struct {
	w     *wake.StitchedWake
	field func(i, j int) float64
}

func (g stitchedGrid) Dims() (c, r int) {
	nr, nc := g.w.U.Dims()
	return nc, nr
}

func (g stitchedGrid) Z(c, r int) float64 { return g.field(r, c) }
func (g stitchedGrid) X(c int) float64    { return g.w.X.At(0, c) }
func (g stitchedGrid) Y(r int) float64    { return g.w.Y.At(r, 0) }

// VorticityHeatMap writes a PNG heat map of the stitched vorticity field,
// the standard visual check that the seams line up.
func VorticityHeatMap(w *wake.StitchedWake, filename string) error {
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(stitchedGrid{w: w, field: w.Vort.At}, pal)

	p := plot.New()
	p.Title.Text = "Stitched wake vorticity"
	p.X.Label.Text = "x/c"
	p.Y.Label.Text = "y/c"
	p.Add(hm)
	return p.Save(12*vg.Inch, 4*vg.Inch, filename)
}

// SwirlHeatMap writes the swirl-strength companion plot, highlighting the
// rotation-dominated cores of the shed vortices.
func SwirlHeatMap(w *wake.StitchedWake, filename string) error {
	pal := moreland.ExtendedBlackBody().Palette(255)
	hm := plotter.NewHeatMap(stitchedGrid{w: w, field: w.Swirl.At}, pal)

	p := plot.New()
	p.Title.Text = "Stitched wake swirl strength"
	p.X.Label.Text = "x/c"
	p.Y.Label.Text = "y/c"
	p.Add(hm)
	return p.Save(12*vg.Inch, 4*vg.Inch, filename)
}
