package stimulus

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Waveform is the precomputed sample sequence of a [Spec] over all traces.
// It is read-only after construction and may be shared between players.
type Waveform struct {
	spec   Spec
	output []float64
	sync   []Sync
}

// NewWaveform validates spec and precomputes every output and sync sample.
func NewWaveform(spec Spec) (*Waveform, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	w := &Waveform{spec: spec.Clone()}
	w.precompute()

	return w, nil
}

// Spec returns a copy of the configuration the waveform was computed from.
func (w *Waveform) Spec() Spec { return w.spec.Clone() }

// Len returns the total number of samples.
func (w *Waveform) Len() int { return len(w.output) }

// Duration returns the total playback time in seconds.
func (w *Waveform) Duration() float64 {
	return float64(len(w.output)) * w.spec.Grid.Dt()
}

// At returns sample i. It panics when i is out of range.
func (w *Waveform) At(i int) (float64, Sync) {
	return w.output[i], w.sync[i]
}

// Samples returns copies of the output and sync sequences.
func (w *Waveform) Samples() ([]float64, []Sync) {
	return append([]float64(nil), w.output...), append([]Sync(nil), w.sync...)
}

func (w *Waveform) precompute() {
	s := w.spec

	stepSize := s.Ticks(s.StepDelay)
	multisineSize := s.Ticks(2 * s.Grid.Duration())
	dropSize := s.Ticks(s.DropDelay)
	pauseSize := s.Ticks(s.TracePause)

	total := s.Samples()
	w.output = make([]float64, 0, total)
	w.sync = make([]Sync, 0, total)

	// The sinusoid sum is identical for every trace up to its polarity.
	sum := multisine(s, multisineSize)

	for i := 0; i < s.TraceCount; i++ {
		w.fill(stepSize, s.StepLevel, SyncStep)

		sign := s.Polarity(i)
		for j, v := range sum {
			sync := SyncMultisine
			if j < multisineSize/2 {
				sync = SyncIgnore
			}
			w.output = append(w.output, s.StepLevel+sign*v)
			w.sync = append(w.sync, sync)
		}

		w.fill(stepSize, s.StepLevel, SyncIgnore)
		w.fill(dropSize, s.RestLevel, SyncDrop)
		w.fill(pauseSize, s.RestLevel, SyncIgnore)
	}
}

func (w *Waveform) fill(n int, level float64, sync Sync) {
	for range n {
		w.output = append(w.output, level)
		w.sync = append(w.sync, sync)
	}
}

// multisine returns n samples of Σ a[k]·sin(2π·f[k]·t + φ[k]) / N, with t
// counted from the start of the segment.
func multisine(s Spec, n int) []float64 {
	out := make([]float64, n)
	block := make([]float64, n)

	dt := s.Grid.Dt()
	norm := 1 / float64(s.Grid.Len())

	for k := range s.Grid.Len() {
		omega := 2 * math.Pi * s.Grid.Fundamental(k)
		phase := s.Phases[k]

		for j := range block {
			block[j] = math.Sin(omega*float64(j)*dt + phase)
		}

		vecmath.ScaleBlock(block, block, s.Amplitudes[k]*norm)
		vecmath.AddBlockInPlace(out, block)
	}

	return out
}
