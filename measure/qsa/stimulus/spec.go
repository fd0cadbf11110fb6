package stimulus

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-qsa/measure/qsa/grid"
)

// Errors returned by spec validation.
var (
	ErrNoFundamentals    = errors.New("stimulus: frequency grid has no fundamentals")
	ErrAmplitudeCount    = errors.New("stimulus: one amplitude per fundamental is required")
	ErrPhaseCount        = errors.New("stimulus: one phase per fundamental is required")
	ErrNegativeDelay     = errors.New("stimulus: delays and pauses must not be negative")
	ErrInvalidDelay      = errors.New("stimulus: delays and pauses must be finite")
	ErrNonFinite         = errors.New("stimulus: amplitudes, phases and levels must be finite")
	ErrTooManySamples    = errors.New("stimulus: waveform exceeds the sample limit")
	ErrInvalidTraceCount = errors.New("stimulus: trace count must be at least 1")
)

// MaxSamples bounds the length of a precomputed waveform.
const MaxSamples = 1 << 30

// Spec is the immutable configuration of a stimulus.
//
// Amplitudes and Phases are indexed like Grid.Fundamentals. A negative
// TraceAlternance inverts the multisine polarity on every odd trace.
type Spec struct {
	Grid            grid.Grid
	Amplitudes      []float64
	Phases          []float64 // radians
	RestLevel       float64
	StepLevel       float64
	StepDelay       float64 // seconds
	DropDelay       float64 // seconds
	TraceCount      int
	TracePause      float64 // seconds
	TraceAlternance int
}

// Validate checks the spec for consistency.
func (s Spec) Validate() error {
	if err := s.Grid.Validate(); err != nil {
		return err
	}

	n := s.Grid.Len()
	if n == 0 {
		return ErrNoFundamentals
	}

	if len(s.Amplitudes) != n {
		return ErrAmplitudeCount
	}

	if len(s.Phases) != n {
		return ErrPhaseCount
	}

	if !finite(s.RestLevel) || !finite(s.StepLevel) || !allFinite(s.Amplitudes) || !allFinite(s.Phases) {
		return ErrNonFinite
	}

	for _, d := range []float64{s.StepDelay, s.DropDelay, s.TracePause} {
		if !finite(d) {
			return ErrInvalidDelay
		}
		if d < 0 {
			return ErrNegativeDelay
		}
	}

	if s.TraceCount < 1 {
		return ErrInvalidTraceCount
	}

	// Counted in ticks as a float so that oversized settings cannot wrap.
	dt := s.Grid.Dt()
	perTrace := (2*s.StepDelay + 2*s.Grid.Duration() + s.DropDelay + s.TracePause) / dt
	if !(perTrace*float64(s.TraceCount) <= MaxSamples) {
		return ErrTooManySamples
	}

	return nil
}

// Clone returns a copy of s that shares no slices with it.
func (s Spec) Clone() Spec {
	s.Amplitudes = append([]float64(nil), s.Amplitudes...)
	s.Phases = append([]float64(nil), s.Phases...)
	return s
}

// Ticks converts a duration in seconds to a sample count on the grid. The
// result is clamped to [0, MaxSamples]; NaN counts as zero.
func (s Spec) Ticks(seconds float64) int {
	x := math.Round(seconds / s.Grid.Dt())
	switch {
	case !(x > 0):
		return 0
	case x > MaxSamples:
		return MaxSamples
	}
	return int(x)
}

// TraceSamples returns the number of samples in one trace.
func (s Spec) TraceSamples() int {
	return 2*s.Ticks(s.StepDelay) +
		s.Ticks(2*s.Grid.Duration()) +
		s.Ticks(s.DropDelay) +
		s.Ticks(s.TracePause)
}

// Samples returns the number of samples over all traces.
func (s Spec) Samples() int {
	return s.TraceSamples() * s.TraceCount
}

// Polarity returns the multisine sign applied to the trace with the given
// zero-based index.
func (s Spec) Polarity(trace int) float64 {
	if s.TraceAlternance < 0 && trace%2 != 0 {
		return -1
	}
	return 1
}

// String returns a human-readable summary of the spec.
func (s Spec) String() string {
	var sb strings.Builder

	line := func(label string, v float64) {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(formatFloat(v))
		sb.WriteByte('\n')
	}
	list := func(label string, vs []float64) {
		sb.WriteString(label)
		sb.WriteByte(':')
		for _, v := range vs {
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(v))
		}
		sb.WriteByte('\n')
	}

	line("Dt (s)", s.Grid.Dt())
	line("Duration (s)", s.Grid.Duration())
	list("Frequencies (Hz)", s.Grid.Fundamentals())
	list("Amplitudes", s.Amplitudes)
	list("Phases", s.Phases)
	line("Rest level", s.RestLevel)
	line("Step level", s.StepLevel)
	line("Step delay (s)", s.StepDelay)
	line("Drop delay (s)", s.DropDelay)
	sb.WriteString("Trace count: " + strconv.Itoa(s.TraceCount) + "\n")
	line("Trace pause (s)", s.TracePause)
	sb.WriteString("Trace alternance: " + strconv.Itoa(s.TraceAlternance) + "\n")

	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}
