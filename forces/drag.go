package forces

import (
	"gonum.org/v1/gonum/floats"

	"github.com/wakelab/pivwake/wake"
)

// ForceSeries is an ordered-by-time sequence of force coefficients: XC is
// streamwise distance normalized by chord, Time is seconds since the start
// of the wingbeat cycle. Index 0 is the wing-nearest station.
type ForceSeries struct {
	XC    []float64
	Time  []float64
	Coeff []float64
}

// DragEstimator integrates momentum deficit (steady) and streamwise
// acceleration (unsteady) over the per-frame fields of one wingbeat cycle.
// Both coefficients are normalized by 0.5*rho*chord*UInf^2, a per-meter-span
// 2D convention.
type DragEstimator struct {
	Seq          *wake.FrameSequence
	UInf         float64 // m/s
	Rho          float64 // kg/m^3
	Chord        float64 // m
	InitialFrame int     // n_i
	FinalFrame   int     // n_f
}

func (de *DragEstimator) checkWindow() error {
	if de.InitialFrame < 0 || de.FinalFrame >= len(de.Seq.Frames) || de.InitialFrame >= de.FinalFrame {
		return &wake.ConfigurationError{Detail: "drag cycle window out of range"}
	}
	return nil
}

// Steady produces the steady 2D drag coefficient per frame: the momentum
// deficit rho*(UInf-u)*u integrated over the rows of each column, averaged
// across the frame's columns, times the row spacing.
func (de *DragEstimator) Steady() (fs ForceSeries, err error) {
	if err = de.checkWindow(); err != nil {
		return
	}
	var (
		norm = 0.5 * de.Rho * de.Chord * de.UInf * de.UInf
		dy   = de.Seq.Grid.Dy
	)
	for n := de.InitialFrame; n <= de.FinalFrame; n++ {
		var (
			f      = de.Seq.Frames[n]
			nr, nc = f.U.Dims()
			colSum = make([]float64, nc)
		)
		for j := 0; j < nc; j++ {
			for i := 0; i < nr; i++ {
				u := f.U.At(i, j)
				colSum[j] += de.Rho * (de.UInf - u) * u
			}
		}
		drag := floats.Sum(colSum) / float64(nc) * dy
		de.appendStation(&fs, n, drag/norm)
	}
	de.flip(&fs)
	return
}

// Unsteady produces the unsteady 2D drag coefficient per frame from the
// streamwise acceleration, a centered difference of u over the adjacent
// frames divided by 2*dt, summed over the frame and scaled by the cell area
// and density, negated.
func (de *DragEstimator) Unsteady() (fs ForceSeries, err error) {
	if err = de.checkWindow(); err != nil {
		return
	}
	var (
		norm     = 0.5 * de.Rho * de.Chord * de.UInf * de.UInf
		cellArea = de.Seq.Grid.Dx * de.Seq.Grid.Dy
		inv2dt   = 1. / (2 * de.Seq.FrameDT)
	)
	for n := de.InitialFrame; n <= de.FinalFrame; n++ {
		if n-1 < 0 || n+1 >= len(de.Seq.Frames) {
			continue // centered difference needs both neighbors
		}
		accel := de.Seq.Frames[n+1].U.Copy().Subtract(de.Seq.Frames[n-1].U).Scale(inv2dt)
		drag := -de.Rho * accel.Sum() * cellArea
		de.appendStation(&fs, n, drag/norm)
	}
	de.flip(&fs)
	return
}

func (de *DragEstimator) appendStation(fs *ForceSeries, n int, cd float64) {
	t := float64(n-de.InitialFrame) * de.Seq.FrameDT
	fs.Time = append(fs.Time, t)
	fs.XC = append(fs.XC, de.UInf*t/de.Chord)
	fs.Coeff = append(fs.Coeff, cd)
}

// flip reverses the series so physical time increases moving away from the
// wing, matching the reverse-chronological stitched wake orientation.
func (de *DragEstimator) flip(fs *ForceSeries) {
	floats.Reverse(fs.XC)
	floats.Reverse(fs.Time)
	floats.Reverse(fs.Coeff)
}
