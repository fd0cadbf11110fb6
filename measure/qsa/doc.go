// Package qsa groups the building blocks of Quadratic Sinusoidal Analysis,
// a system identification method that probes a system around an operating
// point with a sum of sinusoids and separates its linear and quadratic
// responses in the frequency domain.
//
// The workflow spans several subpackages:
//
//   - intermod selects generator frequencies whose pairwise sums,
//     differences and doublings never collide.
//   - grid maps generator indices to hertz for a sample interval and a
//     multisine period.
//   - stimulus precomputes the presentation waveform (step, multisine,
//     drop and pause, repeated per trace) with its sync codes, and plays it
//     back in real time.
//   - codec prints and parses the stimulus configuration as text.
//   - record captures applied stimulus and measured response per trace and
//     persists them as JSON.
//   - analysis turns recorded multisine phases into linear transfer values
//     at generators and quadratic responses at products.
//
// Typical use:
//
//	w, err := stimulus.NewBuilder().
//	    SetDt(1e-4).SetDuration(2).
//	    SetMinFrequency(1).SetMaxFrequency(5).
//	    SetStepDelay(1).SetDropDelay(1).
//	    Build()
//	player := stimulus.NewPlayer(w)
//	rec, err := record.NewRecorder(w.Spec())
//	rec.Start()
//	player.Apply()
//	// per tick: out, sync := player.Evaluate(t); rec.Push(out, measure(out), sync.Level())
//	res, err := analysis.AnalyzeTraces(rec.Spec(), rec.Traces())
package qsa
