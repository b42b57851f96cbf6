package wake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wakelab/pivwake/utils"
)

func TestThresholdVorticityAbsolute(t *testing.T) {
	vort := utils.NewMatrix(3, 4, []float64{
		0.5, -3.0, 1.0, 0.0,
		2.0, 0.1, -0.2, 4.0,
		-1.5, 0.0, 2.5, -0.4,
	})
	R := ThresholdVorticity(vort, 0, AbsoluteThreshold, 1.5, MaskSpec{})
	nr, nc := R.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 4, nc)

	// Survivors keep their value, everything under the cut goes to zero
	assert.True(t, near(R.At(0, 1), -3.0))
	assert.True(t, near(R.At(1, 0), 2.0))
	assert.True(t, near(R.At(1, 3), 4.0))
	assert.True(t, near(R.At(2, 0), -1.5))
	assert.True(t, near(R.At(2, 2), 2.5))
	assert.True(t, near(R.At(0, 0), 0))
	assert.True(t, near(R.At(0, 2), 0))
	assert.True(t, near(R.At(2, 3), 0))

	// The input is untouched
	assert.True(t, near(vort.At(0, 2), 1.0))
}

func TestThresholdVorticityOffset(t *testing.T) {
	// A uniform background offset shifts every cell before the magnitude test
	vort := constMatrix(2, 2, 3.0)
	vort.Set(0, 0, 10.0)

	R := ThresholdVorticity(vort, 3.0, AbsoluteThreshold, 1.0, MaskSpec{})
	assert.True(t, near(R.At(0, 0), 7.0))
	assert.True(t, near(R.At(0, 1), 0))
	assert.True(t, near(R.At(1, 1), 0))
}

func TestThresholdVorticityRelative(t *testing.T) {
	vort := utils.NewMatrix(2, 3, []float64{
		10, 4, -6,
		1, -10, 5,
	})
	// cut = 0.5 * max|vort| = 5
	R := ThresholdVorticity(vort, 0, RelativeThreshold, 0.5, MaskSpec{})
	assert.True(t, near(R.At(0, 0), 10))
	assert.True(t, near(R.At(0, 2), -6))
	assert.True(t, near(R.At(1, 1), -10))
	assert.True(t, near(R.At(1, 2), 5))
	assert.True(t, near(R.At(0, 1), 0))
	assert.True(t, near(R.At(1, 0), 0))
}

func TestThresholdVorticityMask(t *testing.T) {
	vort := constMatrix(4, 4, 8.0)
	mask := MaskSpec{
		Rows: [][2]int{{0, 1}},
		Cols: [][2]int{{2, 4}},
	}
	R := ThresholdVorticity(vort, 0, AbsoluteThreshold, 1.0, mask)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == 0 || j >= 2 {
				assert.True(t, near(R.At(i, j), 0))
			} else {
				assert.True(t, near(R.At(i, j), 8.0))
			}
		}
	}
}

func TestNewMaskMode(t *testing.T) {
	assert.Equal(t, AbsoluteThreshold, NewMaskMode("absolute"))
	assert.Equal(t, RelativeThreshold, NewMaskMode("relative"))
	assert.Panics(t, func() { NewMaskMode("bogus") })
}
