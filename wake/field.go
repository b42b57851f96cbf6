package wake

import (
	"github.com/wakelab/pivwake/utils"
)

// Grid holds the physical coordinates of one PIV imaging window. After
// Normalize it is canonical: origin at the bottom-left, x increasing
// rightward, y increasing upward and recentered about its vertical midpoint,
// Dx and Dy both positive. The coordinate matrices are read-only from then on.
type Grid struct {
	X, Y   utils.Matrix // meters
	Dx, Dy float64      // cell spacing, meters
}

func (g Grid) Dims() (nr, nc int) {
	return g.X.Dims()
}

// Frame holds every tracked quantity of one PIV snapshot on the shared Grid.
// U and V are set by Normalize, UF and VF by DecomposeFluctuations, the
// gradients and vorticity by ComputeGradients.
type Frame struct {
	U, V                   utils.Matrix // m/s
	UF, VF                 utils.Matrix // fluctuation components, m/s
	DUDX, DUDY, DVDX, DVDY utils.Matrix // 1/s
	Vort                   utils.Matrix // dvdx - dudy, 1/s
}

// FrameSequence is the normalized input dataset: one Grid shared by an
// ordered series of frames separated by a fixed frame interval.
type FrameSequence struct {
	Grid    Grid
	Frames  []*Frame
	FrameDT float64 // seconds between frames
}

// RawDataset is the pre-normalization input contract: pixel-indexed
// coordinates and per-frame velocity components straight from the PIV vendor
// stack. Dy carries the sign encoding the vendor's vertical axis convention.
type RawDataset struct {
	X, Y   utils.Matrix   // pixel coordinates
	U, V   []utils.Matrix // m/s, one per frame
	Dx, Dy float64        // pixel spacing; Dy sign encodes axis origin
}

// ComputeGradients fills the four velocity-gradient components and the
// vorticity of every frame using the supplied gradient service. The service
// contract requires the vertical spacing passed negative.
func (fs *FrameSequence) ComputeGradients(grad GradientFunc) {
	for _, f := range fs.Frames {
		f.DUDX, f.DUDY = grad(f.U, fs.Grid.Dx, -fs.Grid.Dy)
		f.DVDX, f.DVDY = grad(f.V, fs.Grid.Dx, -fs.Grid.Dy)
		f.Vort = f.DVDX.Copy().Subtract(f.DUDY)
	}
}
