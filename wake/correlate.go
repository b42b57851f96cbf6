package wake

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/wakelab/pivwake/utils"
)

// CorrelationQuantity selects which fields feed the shift search.
type CorrelationQuantity uint8

const (
	Velocity CorrelationQuantity = iota
	VelocityFluctuations
)

func NewCorrelationQuantity(label string) CorrelationQuantity {
	switch label {
	case "velocity":
		return Velocity
	case "velocity_fluctuations":
		return VelocityFluctuations
	default:
		err := fmt.Errorf("unknown correlation quantity: [%s]", label)
		panic(err)
	}
}

// ShiftBounds is the candidate search window in grid cells.
type ShiftBounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// ShiftEstimate is the accepted inter-frame advection shift for one pair.
// The joint (u,v) optimum is authoritative; the per-component optima are
// diagnostic only. Valid is false when the correlation search degenerated
// and the advection prediction was substituted.
type ShiftEstimate struct {
	ShiftX, ShiftY int
	Score          float64
	Valid          bool

	ShiftXCu, ShiftYCu int
	ScoreCu            float64
	ShiftXCv, ShiftYCv int
	ScoreCv            float64
}

// ShiftEstimator finds the integer shift best aligning the later frame onto
// the earlier frame's trailing edge by maximizing normalized cross-correlation
// over the bounded candidate grid.
type ShiftEstimator struct {
	Bounds   ShiftBounds
	Quantity CorrelationQuantity
	UInf     float64 // freestream velocity, m/s
	FrameDT  float64 // seconds between frames
	Dx       float64 // cell spacing, meters
	NWorkers int     // candidate scoring pool size, defaults to NumCPU
}

// AdvectionShift is the x shift predicted by pure freestream advection,
// rounded to whole cells.
func (se *ShiftEstimator) AdvectionShift() int {
	return int(math.Round(se.UInf * se.FrameDT / se.Dx))
}

type shiftCandidate struct {
	sx, sy      int
	cu, cv, cuv float64
}

// Estimate runs the bounded correlation search for one frame pair. The
// overlap windows compare f1 columns [sx, nc) against f2 columns [0, nc-sx),
// row-shifted by sy. Candidates are scored in a worker pool (first pass);
// the optima are selected sequentially in candidate order (second pass) so
// results are deterministic.
func (se *ShiftEstimator) Estimate(f1, f2 *Frame) (est ShiftEstimate, err error) {
	var (
		a1, b1 = se.fields(f1)
		a2, b2 = se.fields(f2)
		nr, nc = a1.Dims()
	)
	if r2, c2 := a2.Dims(); r2 != nr || c2 != nc {
		err = dimErrf("Estimate", "frame pair shapes mismatch: %dx%d vs %dx%d", nr, nc, r2, c2)
		return
	}
	if se.Bounds.MaxX >= nc || se.Bounds.MinX < 0 {
		err = dimErrf("Estimate", "shift bounds [%d,%d] exceed %d columns",
			se.Bounds.MinX, se.Bounds.MaxX, nc)
		return
	}

	candidates := make([]shiftCandidate, 0,
		(se.Bounds.MaxX-se.Bounds.MinX+1)*(se.Bounds.MaxY-se.Bounds.MinY+1))
	for sy := se.Bounds.MinY; sy <= se.Bounds.MaxY; sy++ {
		for sx := se.Bounds.MinX; sx <= se.Bounds.MaxX; sx++ {
			candidates = append(candidates, shiftCandidate{sx: sx, sy: sy})
		}
	}
	se.scoreCandidates(candidates, a1, b1, a2, b2)

	var (
		bestCuv, bestCu, bestCv = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	)
	// Seed from the first candidate so a fully degenerate search (every
	// window constant) still resolves to the minimum bound and trips the
	// advection fallback below.
	for i, c := range candidates {
		if i == 0 || c.cuv > bestCuv {
			bestCuv = c.cuv
			est.ShiftX, est.ShiftY, est.Score = c.sx, c.sy, c.cuv
		}
		if i == 0 || c.cu > bestCu {
			bestCu = c.cu
			est.ShiftXCu, est.ShiftYCu, est.ScoreCu = c.sx, c.sy, c.cu
		}
		if i == 0 || c.cv > bestCv {
			bestCv = c.cv
			est.ShiftXCv, est.ShiftYCv, est.ScoreCv = c.sx, c.sy, c.cv
		}
	}

	// A joint optimum stuck at the minimum allowed shift means there was no
	// coherent wake signal to lock onto. Fall back to pure advection.
	if est.ShiftX == se.Bounds.MinX {
		est.ShiftX = se.AdvectionShift()
		est.ShiftY = 0
		est.Valid = false
		return
	}
	est.Valid = true
	return
}

func (se *ShiftEstimator) fields(f *Frame) (a, b utils.Matrix) {
	if se.Quantity == VelocityFluctuations {
		return f.UF, f.VF
	}
	return f.U, f.V
}

// scoreCandidates computes the three correlation statistics of every
// candidate in place, using a pool of workers over an index channel.
func (se *ShiftEstimator) scoreCandidates(candidates []shiftCandidate, a1, b1, a2, b2 utils.Matrix) {
	var (
		wg       sync.WaitGroup
		jobs     = make(chan int, len(candidates))
		nWorkers = se.NWorkers
	)
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := &candidates[i]
				c.cu, c.cv, c.cuv = scoreShift(a1, b1, a2, b2, c.sx, c.sy)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// scoreShift computes the Pearson correlation of the overlap windows for the
// first component, the second component, and their concatenation.
func scoreShift(a1, b1, a2, b2 utils.Matrix, sx, sy int) (cu, cv, cuv float64) {
	var (
		nr, nc = a1.Dims()
		r0, r1 = rowOverlap(nr, sy)
		w      = nc - sx
	)
	if w < 1 || r1 <= r0 {
		return math.Inf(-1), math.Inf(-1), math.Inf(-1)
	}
	n := (r1 - r0) * w
	wa1 := make([]float64, 0, n)
	wa2 := make([]float64, 0, n)
	wb1 := make([]float64, 0, n)
	wb2 := make([]float64, 0, n)
	for r := r0; r < r1; r++ {
		for c := 0; c < w; c++ {
			wa1 = append(wa1, a1.At(r, c+sx))
			wa2 = append(wa2, a2.At(r+sy, c))
			wb1 = append(wb1, b1.At(r, c+sx))
			wb2 = append(wb2, b2.At(r+sy, c))
		}
	}
	cu = correlationOrNegInf(wa1, wa2)
	cv = correlationOrNegInf(wb1, wb2)
	cuv = correlationOrNegInf(append(append([]float64{}, wa1...), wb1...),
		append(append([]float64{}, wa2...), wb2...))
	return
}

func rowOverlap(nr, sy int) (r0, r1 int) {
	r0 = 0
	r1 = nr
	if sy > 0 {
		r1 = nr - sy
	} else if sy < 0 {
		r0 = -sy
	}
	return
}

// correlationOrNegInf guards against constant windows, whose zero variance
// makes the Pearson statistic undefined.
func correlationOrNegInf(x, y []float64) float64 {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return math.Inf(-1)
	}
	return r
}
