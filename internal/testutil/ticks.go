package testutil

import "math"

// Run is a stretch of identical sync codes.
type Run struct {
	Code  float64
	Count int
}

// Ticks expands runs into a per-tick sync sequence.
func Ticks(runs ...Run) []float64 {
	n := 0
	for _, r := range runs {
		n += r.Count
	}

	out := make([]float64, 0, n)
	for _, r := range runs {
		for range r.Count {
			out = append(out, r.Code)
		}
	}
	return out
}

// Multitone returns n samples, dt apart, of Σ amps[k]·sin(2π·freqs[k]·t + phases[k]).
func Multitone(dt float64, n int, freqs, amps, phases []float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) * dt
		for k, f := range freqs {
			out[i] += amps[k] * math.Sin(2*math.Pi*f*t+phases[k])
		}
	}
	return out
}
