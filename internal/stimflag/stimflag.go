// Package stimflag registers the stimulus parameters shared by the
// command-line tools.
package stimflag

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-qsa/measure/qsa/codec"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// Flags holds parsed stimulus parameters. Defaults follow a typical
// current-clamp protocol.
type Flags struct {
	Dt           float64
	Duration     float64
	MinFrequency float64
	MaxFrequency float64
	Amplitude    float64
	FreqSeed     int64
	PhaseSeed    int64
	RestLevel    float64
	StepLevel    float64
	StepDelay    float64
	DropDelay    float64
	TraceCount   int
	TracePause   float64
	Alternance   int
	// In names a codec text file that replaces all other parameters.
	In string
}

// Register defines the stimulus flags on fs.
func Register(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.Float64Var(&f.Dt, "dt", 1e-4, "sample interval in seconds")
	fs.Float64Var(&f.Duration, "duration", 2, "multisine period in seconds")
	fs.Float64Var(&f.MinFrequency, "fmin", 1, "lowest generator frequency in Hz")
	fs.Float64Var(&f.MaxFrequency, "fmax", 5, "highest generator frequency in Hz")
	fs.Float64Var(&f.Amplitude, "amplitude", 2e-6, "amplitude per fundamental")
	fs.Int64Var(&f.FreqSeed, "seed-frequencies", 0, "frequency selection seed (0 draws entropy)")
	fs.Int64Var(&f.PhaseSeed, "seed-phases", 0, "phase seed (0 draws entropy)")
	fs.Float64Var(&f.RestLevel, "rest", -8e-6, "rest level")
	fs.Float64Var(&f.StepLevel, "step", -4e-6, "step level")
	fs.Float64Var(&f.StepDelay, "step-delay", 1, "step settling time in seconds")
	fs.Float64Var(&f.DropDelay, "drop-delay", 1, "drop recovery time in seconds")
	fs.IntVar(&f.TraceCount, "traces", 1, "number of presentations")
	fs.Float64Var(&f.TracePause, "pause", 1, "pause between presentations in seconds")
	fs.IntVar(&f.Alternance, "alternance", 1, "negative to invert every odd presentation")
	fs.StringVar(&f.In, "in", "", "read the stimulus from a codec text file instead")
	return f
}

// Builder returns a builder configured from the flags.
func (f *Flags) Builder() *stimulus.Builder {
	return stimulus.NewBuilder().
		SetDt(f.Dt).
		SetDuration(f.Duration).
		SetMinFrequency(f.MinFrequency).
		SetMaxFrequency(f.MaxFrequency).
		SetAmplitude(f.Amplitude).
		SetFrequencySeed(f.FreqSeed).
		SetPhaseSeed(f.PhaseSeed).
		SetRestLevel(f.RestLevel).
		SetStepLevel(f.StepLevel).
		SetStepDelay(f.StepDelay).
		SetDropDelay(f.DropDelay).
		SetTraceCount(f.TraceCount).
		SetTracePause(f.TracePause).
		SetTraceAlternance(f.Alternance)
}

// Spec returns the stimulus described by the flags, or parsed from the
// -in file when one is given.
func (f *Flags) Spec() (stimulus.Spec, error) {
	if f.In == "" {
		return f.Builder().Spec()
	}

	text, err := os.ReadFile(f.In)
	if err != nil {
		return stimulus.Spec{}, fmt.Errorf("stimflag: %w", err)
	}
	return codec.Parse(string(text))
}
