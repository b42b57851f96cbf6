package wake

import (
	"github.com/wakelab/pivwake/utils"
)

// GradientFunc is the gradient service contract. Given a 2D scalar field and
// the cell spacings it returns (d/dx, d/dy) fields of identical shape.
//
// Sign convention: callers always pass the vertical spacing NEGATIVE. The
// service negates it internally to recover the physical spacing of the
// canonical bottom-up row ordering. This mirrors the upstream PIV toolchain,
// whose gradient operator was written against image-style top-down rows.
type GradientFunc func(F utils.Matrix, dx, dySignedNegative float64) (ddx, ddy utils.Matrix)

// LSGradient is the default gradient service: a three-point least-squares
// fit per cell, equivalent to a centered difference in the interior and a
// one-sided two-point fit at the borders.
func LSGradient(F utils.Matrix, dx, dySignedNegative float64) (ddx, ddy utils.Matrix) {
	var (
		nr, nc = F.Dims()
		dy     = -dySignedNegative
	)
	ddx = utils.NewMatrix(nr, nc)
	ddy = utils.NewMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			ddx.M.Set(i, j, lsDeriv(
				F.At(i, clampIndex(j-1, nc)), F.At(i, j), F.At(i, clampIndex(j+1, nc)),
				j, nc, dx))
			ddy.M.Set(i, j, lsDeriv(
				F.At(clampIndex(i-1, nr), j), F.At(i, j), F.At(clampIndex(i+1, nr), j),
				i, nr, dy))
		}
	}
	return
}

// lsDeriv evaluates the least-squares slope through up to three samples
// centered at index k of an axis with n cells and spacing h.
func lsDeriv(fm, f0, fp float64, k, n int, h float64) float64 {
	switch {
	case k == 0:
		return (fp - f0) / h
	case k == n-1:
		return (f0 - fm) / h
	default:
		return (fp - fm) / (2 * h)
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
