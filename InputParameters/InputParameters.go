package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/wakelab/pivwake/wake"
)

// NumParameters is the length of the flat experiment parameter vector.
const NumParameters = 15

// WakeParameters are the experiment constants obtained from the YAML input
// file, in the fixed order of the flat parameter vector.
type WakeParameters struct {
	LaserDT            float64 `yaml:"LaserDT"`            // s between laser pulses
	PixelsPerCM        float64 `yaml:"PixelsPerCM"`        // imaging scale
	FrameDT            float64 `yaml:"FrameDT"`            // s between frames
	Chord              float64 `yaml:"Chord"`              // m
	Wingspan           float64 `yaml:"Wingspan"`           // m
	BodyLength         float64 `yaml:"BodyLength"`         // m
	BodyWidth          float64 `yaml:"BodyWidth"`          // m
	Weight             float64 `yaml:"Weight"`             // N
	FreestreamVelocity float64 `yaml:"FreestreamVelocity"` // m/s
	AirDensity         float64 `yaml:"AirDensity"`         // kg/m^3
	AirViscosity       float64 `yaml:"AirViscosity"`       // kg/(m s)
	HorizontalCut      int     `yaml:"HorizontalCut"`      // columns trimmed per edge
	VerticalCut        int     `yaml:"VerticalCut"`        // rows trimmed per edge
	CycleStartFrame    int     `yaml:"CycleStartFrame"`    // n_i
	CycleEndFrame      int     `yaml:"CycleEndFrame"`      // n_f
}

func (wp *WakeParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, wp); err != nil {
		return err
	}
	return wp.Validate()
}

// FromVector fills the parameters from the flat fifteen-scalar vector in
// fixed order, the contract used by callers driving the pipeline directly.
func (wp *WakeParameters) FromVector(v []float64) error {
	if len(v) != NumParameters {
		return &wake.ConfigurationError{
			Detail: fmt.Sprintf("parameter vector has %d entries, want %d", len(v), NumParameters),
		}
	}
	wp.LaserDT = v[0]
	wp.PixelsPerCM = v[1]
	wp.FrameDT = v[2]
	wp.Chord = v[3]
	wp.Wingspan = v[4]
	wp.BodyLength = v[5]
	wp.BodyWidth = v[6]
	wp.Weight = v[7]
	wp.FreestreamVelocity = v[8]
	wp.AirDensity = v[9]
	wp.AirViscosity = v[10]
	wp.HorizontalCut = int(v[11])
	wp.VerticalCut = int(v[12])
	wp.CycleStartFrame = int(v[13])
	wp.CycleEndFrame = int(v[14])
	return wp.Validate()
}

func (wp *WakeParameters) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return &wake.ConfigurationError{Detail: fmt.Sprintf(format, args...)}
	}
	switch {
	case wp.LaserDT <= 0:
		return fail("LaserDT must be positive, got %v", wp.LaserDT)
	case wp.PixelsPerCM <= 0:
		return fail("PixelsPerCM must be positive, got %v", wp.PixelsPerCM)
	case wp.FrameDT <= 0:
		return fail("FrameDT must be positive, got %v", wp.FrameDT)
	case wp.Chord <= 0:
		return fail("Chord must be positive, got %v", wp.Chord)
	case wp.FreestreamVelocity <= 0:
		return fail("FreestreamVelocity must be positive, got %v", wp.FreestreamVelocity)
	case wp.AirDensity <= 0:
		return fail("AirDensity must be positive, got %v", wp.AirDensity)
	case wp.AirViscosity <= 0:
		return fail("AirViscosity must be positive, got %v", wp.AirViscosity)
	case wp.HorizontalCut < 0 || wp.VerticalCut < 0:
		return fail("cuts must be non-negative, got (%d,%d)", wp.HorizontalCut, wp.VerticalCut)
	case wp.CycleStartFrame < 0 || wp.CycleEndFrame <= wp.CycleStartFrame:
		return fail("cycle window [%d,%d] invalid", wp.CycleStartFrame, wp.CycleEndFrame)
	}
	return nil
}

func (wp *WakeParameters) Print() {
	fmt.Printf("%8.6f\t= LaserDT (s)\n", wp.LaserDT)
	fmt.Printf("%8.3f\t= PixelsPerCM\n", wp.PixelsPerCM)
	fmt.Printf("%8.6f\t= FrameDT (s)\n", wp.FrameDT)
	fmt.Printf("%8.5f\t= Chord (m)\n", wp.Chord)
	fmt.Printf("%8.5f\t= Wingspan (m)\n", wp.Wingspan)
	fmt.Printf("%8.5f\t= BodyLength (m)\n", wp.BodyLength)
	fmt.Printf("%8.5f\t= BodyWidth (m)\n", wp.BodyWidth)
	fmt.Printf("%8.5f\t= Weight (N)\n", wp.Weight)
	fmt.Printf("%8.4f\t= FreestreamVelocity (m/s)\n", wp.FreestreamVelocity)
	fmt.Printf("%8.4f\t= AirDensity (kg/m^3)\n", wp.AirDensity)
	fmt.Printf("%8.2e\t= AirViscosity (kg/m/s)\n", wp.AirViscosity)
	fmt.Printf("[%d]\t\t= HorizontalCut\n", wp.HorizontalCut)
	fmt.Printf("[%d]\t\t= VerticalCut\n", wp.VerticalCut)
	fmt.Printf("[%d,%d]\t\t= Cycle window\n", wp.CycleStartFrame, wp.CycleEndFrame)
}
