package wake

import "fmt"

// DimensionError is fatal: grid extents cannot support the requested
// operation (trim cuts too large, mismatched frame shapes, empty overlap).
type DimensionError struct {
	Op     string
	Detail string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension error in %s: %s", e.Op, e.Detail)
}

func dimErrf(op, format string, args ...interface{}) *DimensionError {
	return &DimensionError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// ConfigurationError is fatal: the parameter set cannot describe a valid run.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Detail)
}

// EventKind tags the recoverable conditions surfaced during stitching.
type EventKind uint8

const (
	CorrelationFallback EventKind = iota
	BoundaryOverflow
)

func (k EventKind) String() string {
	switch k {
	case CorrelationFallback:
		return "CorrelationFallback"
	case BoundaryOverflow:
		return "BoundaryOverflow"
	default:
		return "Unknown"
	}
}

// Event records a recovered condition for one frame pair. Events never abort
// the pipeline; they are appended to the run's ordered event log and printed
// as they occur.
type Event struct {
	Kind      EventKind
	FramePair int // index of the later frame of the pair
	Detail    string
}

func (e Event) String() string {
	return fmt.Sprintf("%s[pair %d]: %s", e.Kind, e.FramePair, e.Detail)
}
