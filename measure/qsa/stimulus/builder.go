package stimulus

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-qsa/internal/seed"
	"github.com/cwbudde/algo-qsa/measure/qsa/grid"
	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
)

// Builder accumulates user-facing stimulus parameters and turns them into a
// [Spec]: frequencies are given as a band in Hz, phases are randomized and
// a single amplitude is shared by every fundamental.
//
// Seeds of 0 draw system entropy. Explicit generators set with
// SetFrequencyRand or SetPhaseRand take precedence over the seeds.
type Builder struct {
	dt              float64
	duration        float64
	minFrequency    float64
	maxFrequency    float64
	amplitude       float64
	frequencySeed   int64
	phaseSeed       int64
	restLevel       float64
	stepLevel       float64
	stepDelay       float64
	dropDelay       float64
	traceCount      int
	tracePause      float64
	traceAlternance int

	frequencyRand *rand.Rand
	phaseRand     *rand.Rand
}

// NewBuilder returns a builder with default parameters. The sample
// interval has no default and must be set before building.
//
// The step delay defaults to zero, which yields a waveform without a step
// segment. A recorder only starts on a step edge, so set a
// positive step delay with SetStepDelay when the stimulus is to be recorded.
func NewBuilder() *Builder {
	return &Builder{
		duration:        1,
		minFrequency:    1,
		maxFrequency:    1,
		amplitude:       1,
		dropDelay:       1,
		traceCount:      1,
		traceAlternance: 1,
	}
}

// SetDt sets the sample interval in seconds.
func (b *Builder) SetDt(dt float64) *Builder { b.dt = dt; return b }

// SetDuration sets the base multisine duration in seconds. The frequency
// resolution is 1/duration.
func (b *Builder) SetDuration(duration float64) *Builder { b.duration = duration; return b }

// SetMinFrequency sets the lower edge of the frequency band in Hz.
func (b *Builder) SetMinFrequency(f float64) *Builder { b.minFrequency = f; return b }

// SetMaxFrequency sets the upper edge of the frequency band in Hz.
func (b *Builder) SetMaxFrequency(f float64) *Builder { b.maxFrequency = f; return b }

// SetAmplitude sets the amplitude shared by all fundamentals.
func (b *Builder) SetAmplitude(amplitude float64) *Builder { b.amplitude = amplitude; return b }

// SetFrequencySeed sets the seed of the generator selection.
func (b *Builder) SetFrequencySeed(s int64) *Builder { b.frequencySeed = s; return b }

// SetPhaseSeed sets the seed of the phase randomization.
func (b *Builder) SetPhaseSeed(s int64) *Builder { b.phaseSeed = s; return b }

// SetFrequencyRand injects the generator used for frequency selection.
func (b *Builder) SetFrequencyRand(rng *rand.Rand) *Builder { b.frequencyRand = rng; return b }

// SetPhaseRand injects the generator used for phase randomization.
func (b *Builder) SetPhaseRand(rng *rand.Rand) *Builder { b.phaseRand = rng; return b }

// SetRestLevel sets the level held outside step and multisine segments.
func (b *Builder) SetRestLevel(level float64) *Builder { b.restLevel = level; return b }

// SetStepLevel sets the baseline level of the step and multisine segments.
func (b *Builder) SetStepLevel(level float64) *Builder { b.stepLevel = level; return b }

// SetStepDelay sets the length of each step segment in seconds. Zero
// drops the step segment and with it the edge that starts a recording.
func (b *Builder) SetStepDelay(d float64) *Builder { b.stepDelay = d; return b }

// SetDropDelay sets the length of the drop segment in seconds.
func (b *Builder) SetDropDelay(d float64) *Builder { b.dropDelay = d; return b }

// SetTraceCount sets how many traces are presented.
func (b *Builder) SetTraceCount(n int) *Builder { b.traceCount = n; return b }

// SetTracePause sets the rest time after each trace in seconds.
func (b *Builder) SetTracePause(d float64) *Builder { b.tracePause = d; return b }

// SetTraceAlternance sets the polarity flag; negative values invert every
// odd trace.
func (b *Builder) SetTraceAlternance(sign int) *Builder { b.traceAlternance = sign; return b }

// Spec selects generators from the configured band, draws one phase per
// fundamental in [0, 2π) and returns the validated spec.
func (b *Builder) Spec() (Spec, error) {
	if !(b.duration > 0) {
		return Spec{}, grid.ErrInvalidDuration
	}

	df := 1 / b.duration
	lo := int(math.Round(b.minFrequency / df))
	hi := int(math.Round(b.maxFrequency / df))

	frequencyRand := b.frequencyRand
	if frequencyRand == nil {
		frequencyRand = seed.New(b.frequencySeed)
	}

	g, err := grid.New(intermod.MakeRange(lo, hi, frequencyRand), b.dt, b.duration)
	if err != nil {
		return Spec{}, err
	}

	n := g.Len()
	amplitudes := make([]float64, n)
	for i := range amplitudes {
		amplitudes[i] = b.amplitude
	}

	spec := Spec{
		Grid:            g,
		Amplitudes:      amplitudes,
		Phases:          b.phases(n),
		RestLevel:       b.restLevel,
		StepLevel:       b.stepLevel,
		StepDelay:       b.stepDelay,
		DropDelay:       b.dropDelay,
		TraceCount:      b.traceCount,
		TracePause:      b.tracePause,
		TraceAlternance: b.traceAlternance,
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}

	return spec, nil
}

// Build is Spec followed by [NewWaveform].
func (b *Builder) Build() (*Waveform, error) {
	spec, err := b.Spec()
	if err != nil {
		return nil, err
	}
	return NewWaveform(spec)
}

func (b *Builder) phases(n int) []float64 {
	rng := b.phaseRand
	if rng == nil {
		rng = seed.New(b.phaseSeed)
	}

	phases := make([]float64, n)
	for i := range phases {
		phases[i] = 2 * math.Pi * rng.Float64()
	}
	return phases
}
