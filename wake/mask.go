package wake

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/wakelab/pivwake/utils"
)

// MaskMode selects how the vorticity threshold is interpreted.
type MaskMode uint8

const (
	AbsoluteThreshold MaskMode = iota // threshold in 1/s
	RelativeThreshold                 // threshold as a fraction of max |vorticity|
)

func NewMaskMode(label string) MaskMode {
	switch label {
	case "absolute":
		return AbsoluteThreshold
	case "relative":
		return RelativeThreshold
	default:
		err := fmt.Errorf("unknown mask mode: [%s]", label)
		panic(err)
	}
}

// MaskSpec zeroes rectangular regions regardless of threshold, used to
// blank reflections and wing-shadow artifacts. Ranges are half-open.
type MaskSpec struct {
	Rows [][2]int
	Cols [][2]int
}

// ThresholdVorticity is the vorticity masking collaborator: cells whose
// offset-corrected magnitude falls below the threshold are zeroed, along
// with every cell inside the mask regions. The surviving cells are staged in
// a sparse DOK matrix (thresholded fields are mostly zero) and densified on
// return, preserving the input shape.
func ThresholdVorticity(vort utils.Matrix, offset float64, mode MaskMode, threshold float64, mask MaskSpec) (R utils.Matrix) {
	var (
		nr, nc = vort.Dims()
		cut    = threshold
		dok    = sparse.NewDOK(nr, nc)
	)
	if mode == RelativeThreshold {
		vMax := math.Max(math.Abs(vort.Max()), math.Abs(vort.Min()))
		cut = threshold * vMax
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			val := vort.At(i, j) - offset
			if math.Abs(val) >= cut && !masked(i, j, mask) {
				dok.Set(i, j, val)
			}
		}
	}
	R = utils.NewMatrix(nr, nc)
	dok.ToCSR().DoNonZero(func(i, j int, v float64) {
		R.M.Set(i, j, v)
	})
	return
}

func masked(i, j int, mask MaskSpec) bool {
	for _, r := range mask.Rows {
		if i >= r[0] && i < r[1] {
			return true
		}
	}
	for _, c := range mask.Cols {
		if j >= c[0] && j < c[1] {
			return true
		}
	}
	return false
}
