// Package grid maps a generator selection onto physical frequencies.
//
// A generator index k corresponds to k periods over the base duration, so
// its fundamental is k/duration hertz and the grid resolution is 1/duration.
package grid

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
)

// Errors returned by grid construction.
var (
	ErrInvalidDt       = errors.New("grid: sample interval must be positive and finite")
	ErrInvalidDuration = errors.New("grid: duration must be positive and finite")
)

// Grid holds a generator selection, the sample interval and the base
// duration, together with the derived fundamentals. It is immutable.
type Grid struct {
	im           intermod.Intermodulation
	dt           float64
	duration     float64
	fundamentals []float64
}

// New builds a grid. dt and duration are in seconds and must be positive.
func New(im intermod.Intermodulation, dt, duration float64) (Grid, error) {
	g := Grid{im: im, dt: dt, duration: duration}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}

	generators := im.Generators()
	g.fundamentals = make([]float64, len(generators))
	for i, k := range generators {
		g.fundamentals[i] = float64(k) / duration
	}

	return g, nil
}

// Validate checks that the sample interval and duration are positive and
// finite.
func (g Grid) Validate() error {
	if !(g.dt > 0) || math.IsInf(g.dt, 1) {
		return ErrInvalidDt
	}
	if !(g.duration > 0) || math.IsInf(g.duration, 1) {
		return ErrInvalidDuration
	}
	return nil
}

// Dt returns the sample interval in seconds.
func (g Grid) Dt() float64 { return g.dt }

// Duration returns the base duration in seconds.
func (g Grid) Duration() float64 { return g.duration }

// Resolution returns the frequency spacing between adjacent indices in Hz.
func (g Grid) Resolution() float64 { return 1 / g.duration }

// Len returns the number of fundamentals.
func (g Grid) Len() int { return len(g.fundamentals) }

// Fundamentals returns the generator frequencies in Hz, ascending.
func (g Grid) Fundamentals() []float64 {
	return append([]float64(nil), g.fundamentals...)
}

// Fundamental returns the i-th fundamental in Hz.
func (g Grid) Fundamental(i int) float64 { return g.fundamentals[i] }

// Intermodulation returns the generator selection the grid was built from.
func (g Grid) Intermodulation() intermod.Intermodulation { return g.im }
