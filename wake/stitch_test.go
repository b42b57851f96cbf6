package wake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// translatedSeq builds nFrames frames of deterministic noise where each
// earlier frame is the later frame advected by exactly shiftX cells, and
// prepares fluctuations and gradients.
func translatedSeq(nr, nc, nFrames, shiftX int, dx, dy, frameDT float64) (fs *FrameSequence) {
	fs = &FrameSequence{
		Grid:    testGrid(nr, nc, dx, dy),
		FrameDT: frameDT,
	}
	for n := 0; n < nFrames; n++ {
		// frame index decreases moving away from the wing: frame n is
		// offset by shiftX for every step below the latest frame
		f := noiseFrame(nr, nc, (nFrames-1-n)*shiftX, 0)
		fs.Frames = append(fs.Frames, f)
	}
	fs.DecomposeFluctuations()
	fs.ComputeGradients(LSGradient)
	return
}

func constantSeq(nr, nc, nFrames int, uVal, dx, dy, frameDT float64) (fs *FrameSequence) {
	fs = &FrameSequence{
		Grid:    testGrid(nr, nc, dx, dy),
		FrameDT: frameDT,
	}
	for n := 0; n < nFrames; n++ {
		fs.Frames = append(fs.Frames, &Frame{
			U: constMatrix(nr, nc, uVal),
			V: constMatrix(nr, nc, 0),
		})
	}
	fs.DecomposeFluctuations()
	fs.ComputeGradients(LSGradient)
	return
}

func newTestStitcher(fs *FrameSequence, uInf, chord float64, b ShiftBounds) *Stitcher {
	return &Stitcher{
		Seq: fs,
		Estimator: &ShiftEstimator{
			Bounds:   b,
			Quantity: Velocity,
			UInf:     uInf,
			FrameDT:  fs.FrameDT,
			Dx:       fs.Grid.Dx,
		},
		Config: StitchConfig{
			Chord:        chord,
			InitialFrame: 0,
			FinalFrame:   len(fs.Frames) - 1,
		},
	}
}

func TestStitchTranslatedPair(t *testing.T) {
	var (
		nr, nc = 10, 12
		fs     = translatedSeq(nr, nc, 2, 3, 0.01, 0.01, 0.5)
		st     = newTestStitcher(fs, 1, 0.05, ShiftBounds{MinX: 1, MaxX: 5, MinY: -2, MaxY: 2})
	)
	w, err := st.Run()
	assert.NoError(t, err)

	// One pair, shift (3,0): the overlap window spans L..L+2
	assert.Equal(t, 1, len(w.Shifts))
	assert.Equal(t, 3, w.Shifts[0].ShiftX)
	assert.Equal(t, 0, w.Shifts[0].ShiftY)
	assert.True(t, w.Shifts[0].Valid)
	assert.Equal(t, 0, len(w.Events))

	wnr, wnc := w.U.Dims()
	assert.Equal(t, nr, wnr)
	assert.Equal(t, 3, wnc)

	// The window content comes from the later frame's midpoint columns
	L := nc / 2
	assert.True(t, near(w.U.At(4, 0), fs.Frames[1].U.At(4, L)))
	assert.True(t, near(w.V.At(4, 1), fs.Frames[1].V.At(4, L+1)))
}

func TestStitchAccumulation(t *testing.T) {
	var (
		nr, nc = 10, 14
		chord  = 0.05
		fs     = translatedSeq(nr, nc, 4, 3, 0.01, 0.01, 0.5)
		st     = newTestStitcher(fs, 1, chord, ShiftBounds{MinX: 1, MaxX: 5, MinY: -2, MaxY: 2})
	)
	w, err := st.Run()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(w.Shifts))

	// First window contributes shiftX columns, each later pair shiftX-1
	_, wnc := w.U.Dims()
	assert.Equal(t, 3+2+2, wnc)

	// Chord-normalized coordinates, monotonically non-decreasing in x
	for j := 1; j < wnc; j++ {
		assert.True(t, w.X.At(0, j) >= w.X.At(0, j-1))
	}
	assert.True(t, near(w.X.At(0, 1)-w.X.At(0, 0), fs.Grid.Dx/chord))

	// Post-stitch vorticity must equal dvdx - dudy cell for cell
	wnr, _ := w.Vort.Dims()
	for i := 0; i < wnr; i++ {
		for j := 0; j < wnc; j++ {
			assert.True(t, near(w.Vort.At(i, j), w.DVDX.At(i, j)-w.DUDY.At(i, j)))
		}
	}
}

func TestStitchIdempotentUnderZeroRelativeMotion(t *testing.T) {
	// Identical frames carry no correlation signal: every pair falls back
	// to the advection shift, and the stitched output must reproduce the
	// single-frame values for every quantity.
	var (
		nr, nc = 10, 12
		uVal   = 2.0
		fs     = constantSeq(nr, nc, 3, uVal, 0.01, 0.01, 0.02)
		// advection shift = 2 m/s * 0.02 s / 0.01 m = 4 cells
		st = newTestStitcher(fs, uVal, 0.05, ShiftBounds{MinX: 1, MaxX: 5, MinY: -1, MaxY: 1})
	)
	w, err := st.Run()
	assert.NoError(t, err)

	// Both pairs reported the fallback
	assert.Equal(t, 2, len(w.Shifts))
	for _, s := range w.Shifts {
		assert.False(t, s.Valid)
		assert.Equal(t, 4, s.ShiftX)
		assert.Equal(t, 0, s.ShiftY)
	}
	assert.Equal(t, 2, len(w.Events))
	for _, ev := range w.Events {
		assert.Equal(t, CorrelationFallback, ev.Kind)
	}

	// 4 columns from the first pair, 3 from the second
	wnr, wnc := w.U.Dims()
	assert.Equal(t, 7, wnc)
	for i := 0; i < wnr; i++ {
		for j := 0; j < wnc; j++ {
			assert.True(t, near(w.U.At(i, j), uVal))
			assert.True(t, near(w.V.At(i, j), 0))
			assert.True(t, near(w.UF.At(i, j), 0))
			assert.True(t, near(w.Vort.At(i, j), 0))
			assert.True(t, near(w.Swirl.At(i, j), 0))
		}
	}
}

func TestStitchBoundaryOverflow(t *testing.T) {
	// Advection pushes the right seam bound past the trimmed width: the
	// stitcher must clamp, continue, and surface the overflow
	var (
		fs = constantSeq(10, 12, 2, 4.0, 0.01, 0.01, 0.02)
		// fallback shift = 4*0.02/0.01 = 8; R = 6+8-1 = 13 > 11
		st = newTestStitcher(fs, 4.0, 0.05, ShiftBounds{MinX: 1, MaxX: 9, MinY: -1, MaxY: 1})
	)
	w, err := st.Run()
	assert.NoError(t, err)

	overflow := 0
	for _, ev := range w.Events {
		if ev.Kind == BoundaryOverflow {
			overflow++
		}
	}
	assert.Equal(t, 1, overflow)
	_, wnc := w.U.Dims()
	assert.Equal(t, 12-12/2, wnc) // clamped window [6, 11]
}

func TestStitchEmptyOverlap(t *testing.T) {
	// A one-cell shift leaves no window at all: fatal dimension error
	var (
		fs = constantSeq(10, 12, 2, 0.5, 0.01, 0.01, 0.02)
		// fallback shift = 0.5*0.02/0.01 = 1; R = L
		st = newTestStitcher(fs, 0.5, 0.05, ShiftBounds{MinX: 1, MaxX: 5, MinY: -1, MaxY: 1})
	)
	_, err := st.Run()
	var dimErr *DimensionError
	assert.ErrorAs(t, err, &dimErr)
}

func TestStitchConfigErrors(t *testing.T) {
	fs := constantSeq(10, 12, 3, 2, 0.01, 0.01, 0.02)
	st := newTestStitcher(fs, 2, 0.05, ShiftBounds{MinX: 1, MaxX: 5, MinY: -1, MaxY: 1})

	st.Config.Chord = 0
	var cfgErr *ConfigurationError
	_, err := st.Run()
	assert.ErrorAs(t, err, &cfgErr)

	st.Config.Chord = 0.05
	st.Config.FinalFrame = 5
	var dimErr *DimensionError
	_, err = st.Run()
	assert.ErrorAs(t, err, &dimErr)
}

func TestSwirlStrength(t *testing.T) {
	// Pure rotation du/dy = -w, dv/dx = +w has eigenvalues +/- iw
	var (
		nr, nc = 3, 3
		omega  = 2.5
		zero   = constMatrix(nr, nc, 0)
		dudy   = constMatrix(nr, nc, -omega)
		dvdx   = constMatrix(nr, nc, omega)
	)
	S := SwirlStrength(zero, dudy, dvdx, zero)
	assert.True(t, near(S.At(1, 1), omega))

	// Pure shear has a real eigenvalue: zero swirl
	S = SwirlStrength(zero, constMatrix(nr, nc, omega), zero, zero)
	assert.True(t, near(S.At(0, 0), 0))
}
