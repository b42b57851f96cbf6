package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wakelab/pivwake/wake"
)

var validYAML = []byte(`
LaserDT: 0.0004
PixelsPerCM: 12.5
FrameDT: 0.008
Chord: 0.052
Wingspan: 0.24
BodyLength: 0.11
BodyWidth: 0.02
Weight: 0.27
FreestreamVelocity: 2.5
AirDensity: 1.204
AirViscosity: 1.81e-05
HorizontalCut: 4
VerticalCut: 2
CycleStartFrame: 3
CycleEndFrame: 27
`)

func TestParse(t *testing.T) {
	var wp WakeParameters
	assert.NoError(t, wp.Parse(validYAML))
	assert.Equal(t, 0.0004, wp.LaserDT)
	assert.Equal(t, 12.5, wp.PixelsPerCM)
	assert.Equal(t, 0.052, wp.Chord)
	assert.Equal(t, 1.81e-05, wp.AirViscosity)
	assert.Equal(t, 4, wp.HorizontalCut)
	assert.Equal(t, 3, wp.CycleStartFrame)
	assert.Equal(t, 27, wp.CycleEndFrame)

	assert.Error(t, wp.Parse([]byte("LaserDT: [not a number]")))
}

func TestFromVector(t *testing.T) {
	v := []float64{
		0.0004, 12.5, 0.008, 0.052, 0.24,
		0.11, 0.02, 0.27, 2.5, 1.204,
		1.81e-05, 4, 2, 3, 27,
	}
	var wp WakeParameters
	assert.NoError(t, wp.FromVector(v))
	assert.Equal(t, 0.008, wp.FrameDT)
	assert.Equal(t, 2.5, wp.FreestreamVelocity)
	assert.Equal(t, 2, wp.VerticalCut)
	assert.Equal(t, 27, wp.CycleEndFrame)

	var cfgErr *wake.ConfigurationError
	assert.ErrorAs(t, wp.FromVector(v[:NumParameters-1]), &cfgErr)
}

func TestValidate(t *testing.T) {
	base := func() (wp WakeParameters) {
		assert.NoError(t, wp.Parse(validYAML))
		return
	}
	var cfgErr *wake.ConfigurationError

	wp := base()
	wp.LaserDT = 0
	assert.ErrorAs(t, wp.Validate(), &cfgErr)

	wp = base()
	wp.FreestreamVelocity = -1
	assert.ErrorAs(t, wp.Validate(), &cfgErr)

	wp = base()
	wp.HorizontalCut = -1
	assert.ErrorAs(t, wp.Validate(), &cfgErr)

	wp = base()
	wp.CycleEndFrame = wp.CycleStartFrame
	assert.ErrorAs(t, wp.Validate(), &cfgErr)
}
