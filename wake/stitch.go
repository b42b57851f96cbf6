package wake

import (
	"fmt"
	"math/cmplx"

	"github.com/wakelab/pivwake/utils"
)

// StitchConfig bounds the stitching loop to one wingbeat cycle and carries
// the chord used for the final coordinate normalization.
type StitchConfig struct {
	Chord        float64 // reference chord, meters
	InitialFrame int     // n_i, earliest frame of the cycle window
	FinalFrame   int     // n_f, latest frame of the cycle window
	LogProgress  bool
}

// StitchedWake is the cumulative concatenation of per-pair overlap windows
// along the spatial x axis. All quantity matrices share the same evolving
// column count. X and Y are chord-normalized after the loop completes.
type StitchedWake struct {
	X, Y                   utils.Matrix
	U, V                   utils.Matrix
	UF, VF                 utils.Matrix
	DUDX, DUDY, DVDX, DVDY utils.Matrix
	Vort                   utils.Matrix // recomputed post-stitch as dvdx - dudy
	Swirl                  utils.Matrix // complex-eigenvalue criterion

	Shifts []ShiftEstimate // ordered, latest pair first
	Events []Event
}

// Stitcher merges consecutive frame pairs into one continuous wake field.
// Pairs are processed in reverse chronological order: physical time flows
// from the wing toward the far wake, and frame index decreases moving away
// from the wing.
type Stitcher struct {
	Seq       *FrameSequence
	Estimator *ShiftEstimator
	Config    StitchConfig
}

// segment is the mutable per-iteration workspace: the resampled overlap
// window of every tracked quantity plus its coordinates.
type segment struct {
	x, y                   utils.Matrix
	u, v, uf, vf           utils.Matrix
	dudx, dudy, dvdx, dvdy utils.Matrix
	vort                   utils.Matrix
}

// Run executes the stitching loop over (FinalFrame - InitialFrame) frame
// pairs and finalizes the result. Recoverable conditions (correlation
// fallback, boundary overflow) are recorded as events and never abort the
// run; dimension problems do.
func (st *Stitcher) Run() (w *StitchedWake, err error) {
	var (
		cfg    = st.Config
		frames = st.Seq.Frames
	)
	if cfg.Chord <= 0 {
		return nil, &ConfigurationError{Detail: "chord must be positive"}
	}
	if cfg.InitialFrame < 0 || cfg.FinalFrame >= len(frames) || cfg.InitialFrame >= cfg.FinalFrame {
		return nil, dimErrf("Stitch", "cycle window [%d,%d] invalid for %d frames",
			cfg.InitialFrame, cfg.FinalFrame, len(frames))
	}
	for n := cfg.InitialFrame; n <= cfg.FinalFrame; n++ {
		if frames[n].DUDX.M == nil || frames[n].UF.M == nil {
			return nil, dimErrf("Stitch",
				"frame %d not prepared: run DecomposeFluctuations and ComputeGradients first", n)
		}
	}

	w = &StitchedWake{}
	for n := cfg.FinalFrame; n > cfg.InitialFrame; n-- {
		f1, f2 := frames[n], frames[n-1]
		est, eErr := st.Estimator.Estimate(f1, f2)
		if eErr != nil {
			return nil, eErr
		}
		if !est.Valid {
			ev := Event{
				Kind:      CorrelationFallback,
				FramePair: n,
				Detail: fmt.Sprintf("degenerate correlation optimum, advection shift %d substituted",
					est.ShiftX),
			}
			w.Events = append(w.Events, ev)
			fmt.Printf("%s\n", ev)
		}
		if err = st.mergePair(w, f1, f2, est, n); err != nil {
			return nil, err
		}
		w.Shifts = append(w.Shifts, est)
		if cfg.LogProgress {
			fmt.Printf("pair[%d->%d]: shift = (%d,%d), Cuv = %8.5f, valid = %v\n",
				n, n-1, est.ShiftX, est.ShiftY, est.Score, est.Valid)
		}
	}

	st.finalize(w)
	return
}

// mergePair resamples the seam column of one frame pair and concatenates the
// overlap window [L, R] onto the growing wake.
func (st *Stitcher) mergePair(w *StitchedWake, f1, f2 *Frame, est ShiftEstimate, pairIdx int) error {
	var (
		grid   = st.Seq.Grid
		nr, nc = grid.Dims()
		L      = nc / 2
		R      = L + est.ShiftX - 1
	)
	if R > nc-1 {
		ev := Event{
			Kind:      BoundaryOverflow,
			FramePair: pairIdx,
			Detail:    fmt.Sprintf("right seam bound %d exceeds trimmed width %d, clamped", R, nc),
		}
		w.Events = append(w.Events, ev)
		fmt.Printf("%s\n", ev)
		R = nc - 1
	}
	if R <= L {
		return dimErrf("Stitch", "empty overlap window [%d,%d] for pair %d", L, R, pairIdx)
	}

	seg := segment{
		x:    grid.X.Slice(0, nr, L, R+1),
		y:    grid.Y.Slice(0, nr, L, R+1),
		u:    resampleWindow(f1.U, f2.U, L, R, est),
		v:    resampleWindow(f1.V, f2.V, L, R, est),
		uf:   resampleWindow(f1.UF, f2.UF, L, R, est),
		vf:   resampleWindow(f1.VF, f2.VF, L, R, est),
		dudx: resampleWindow(f1.DUDX, f2.DUDX, L, R, est),
		dudy: resampleWindow(f1.DUDY, f2.DUDY, L, R, est),
		dvdx: resampleWindow(f1.DVDX, f2.DVDX, L, R, est),
		dvdy: resampleWindow(f1.DVDY, f2.DVDY, L, R, est),
		vort: resampleWindow(f1.Vort, f2.Vort, L, R, est),
	}

	if w.U.M == nil {
		w.X, w.Y = seg.x, seg.y
		w.U, w.V, w.UF, w.VF = seg.u, seg.v, seg.uf, seg.vf
		w.DUDX, w.DUDY, w.DVDX, w.DVDY = seg.dudx, seg.dudy, seg.dvdx, seg.dvdy
		w.Vort = seg.vort
		return nil
	}

	// Later segments share their first column with the previous segment's
	// seam; drop it and restart their x at the current rightmost station.
	var (
		_, segNC = seg.x.Dims()
		xOffset  = w.X.Max() - seg.x.At(0, 0)
	)
	tail := func(M utils.Matrix) utils.Matrix { return M.Slice(0, nr, 1, segNC) }
	segX := tail(seg.x).AddScalar(xOffset)

	w.X = w.X.Hstack(segX)
	w.Y = w.Y.Hstack(tail(seg.y))
	w.U = w.U.Hstack(tail(seg.u))
	w.V = w.V.Hstack(tail(seg.v))
	w.UF = w.UF.Hstack(tail(seg.uf))
	w.VF = w.VF.Hstack(tail(seg.vf))
	w.DUDX = w.DUDX.Hstack(tail(seg.dudx))
	w.DUDY = w.DUDY.Hstack(tail(seg.dudy))
	w.DVDX = w.DVDX.Hstack(tail(seg.dvdx))
	w.DVDY = w.DVDY.Hstack(tail(seg.dvdy))
	w.Vort = w.Vort.Hstack(tail(seg.vort))
	return nil
}

// resampleWindow extracts the overlap window [L, R] of the later frame with
// its seam column at R rebuilt by bilinear interpolation between the two
// frames, applied identically to every quantity. For the rows the vertical
// shift pushes out of range the later frame's value is kept as is.
func resampleWindow(q1, q2 utils.Matrix, L, R int, est ShiftEstimate) (W utils.Matrix) {
	var (
		nr, nc = q1.Dims()
		sy     = est.ShiftY
		c2     = R - est.ShiftX // seam column in the earlier frame
	)
	W = q1.Slice(0, nr, L, R+1)
	if c2 < 0 || c2 > nc-1 {
		return
	}
	r0, r1 := seamRowRange(nr, sy)
	for r := r0; r <= r1; r++ {
		// Integer shifts place the seam midway between the two frames'
		// samples, so the local coordinates are (0.5, 0) and the four
		// corners collapse pairwise onto the two contributing rows.
		val := bilerp(
			q1.At(r, R), q2.At(r+sy, c2),
			q1.At(clampIndex(r+1, nr), R), q2.At(clampIndex(r+sy+1, nr), c2),
			0.5, 0)
		W.Set(r, R-L, val)
	}
	return
}

// seamRowRange is the inclusive row span resampled at the seam: rows
// [2, nr-1-sy] for sy > 0 and [2+|sy|, nr-1] otherwise, 1-based in the
// upstream convention, converted to 0-based here.
func seamRowRange(nr, sy int) (r0, r1 int) {
	if sy > 0 {
		return 1, nr - 2 - sy
	}
	return 1 - sy, nr - 2
}

// bilerp evaluates the bilinear form through four corner values at local
// coordinates (tx, ty) in the unit square.
func bilerp(q11, q21, q12, q22, tx, ty float64) float64 {
	return q11*(1-tx)*(1-ty) + q21*tx*(1-ty) + q12*(1-tx)*ty + q22*tx*ty
}

// finalize normalizes the accumulated coordinates by the chord and runs the
// post-pass: vorticity recomputed from the stitched gradients (seam
// interpolation is linear, so per-frame vorticity does not survive
// stitching exactly) and the swirl-strength field.
func (st *Stitcher) finalize(w *StitchedWake) {
	inv := 1. / st.Config.Chord
	w.X.Scale(inv)
	w.Y.Scale(inv)
	w.Vort = w.DVDX.Copy().Subtract(w.DUDY)
	w.Swirl = SwirlStrength(w.DUDX, w.DUDY, w.DVDX, w.DVDY)
}

// SwirlStrength is the imaginary part of the complex eigenvalue of the local
// velocity-gradient tensor. Cells with a real eigenvalue (non-negative
// discriminant argument) carry zero swirl.
func SwirlStrength(dudx, dudy, dvdx, dvdy utils.Matrix) (S utils.Matrix) {
	var (
		nr, nc = dudx.Dims()
	)
	S = utils.NewMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			var (
				a   = dudx.At(i, j)
				b   = dudy.At(i, j)
				c   = dvdx.At(i, j)
				d   = dvdy.At(i, j)
				arg = 0.25*(a+d)*(a+d) + b*c - a*d
			)
			S.M.Set(i, j, imag(cmplx.Sqrt(complex(arg, 0))))
		}
	}
	return
}
