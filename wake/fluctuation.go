package wake

import (
	"github.com/wakelab/pivwake/utils"
)

// DecomposeFluctuations subtracts the per-cell time mean of u and v over the
// whole sequence from every frame, filling the UF and VF components.
func (fs *FrameSequence) DecomposeFluctuations() error {
	if len(fs.Frames) == 0 {
		return dimErrf("DecomposeFluctuations", "empty frame sequence")
	}
	var (
		nr, nc = fs.Grid.Dims()
		uMean  = utils.NewMatrix(nr, nc)
		vMean  = utils.NewMatrix(nr, nc)
		scale  = 1. / float64(len(fs.Frames))
	)
	for _, f := range fs.Frames {
		uMean.Add(f.U)
		vMean.Add(f.V)
	}
	uMean.Scale(scale)
	vMean.Scale(scale)
	for _, f := range fs.Frames {
		f.UF = f.U.Copy().Subtract(uMean)
		f.VF = f.V.Copy().Subtract(vMean)
	}
	return nil
}
