// Package stimulus synthesizes the QSA stimulus waveform and plays it back
// one real-time tick at a time.
//
// Every trace of an experiment is laid out as five consecutive segments:
//
//	step (pre)   step level, SyncStep,                  StepDelay seconds
//	multisine    step level + Σ sinusoids,              2 × Duration seconds
//	             (SyncIgnore for the first half, SyncMultisine for the second)
//	step (post)  step level, SyncIgnore,                StepDelay seconds
//	drop         rest level, SyncDrop,                  DropDelay seconds
//	pause        rest level, SyncIgnore,                TracePause seconds
//
// The first half of the multisine primes the system under test so that the
// second half, which is the one analyzed, is in periodic steady state.
//
// Configuration and playback are separate types. A [Spec] is an immutable
// description; [NewWaveform] validates it and precomputes the full output
// and sync sequence for all traces once. A [Player] holds the only
// time-varying state, the applying flag, and maps elapsed time to a sample
// in O(1) without allocating:
//
//	w, err := stimulus.NewBuilder().
//	    SetDt(1e-4).
//	    SetDuration(2).
//	    SetMinFrequency(1).
//	    SetMaxFrequency(5).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	p := stimulus.NewPlayer(w)
//	p.Apply()
//	for tick := 0; ; tick++ {
//	    out, sync := p.Evaluate(float64(tick) * 1e-4)
//	    // write out and sync.Level() to the analog outputs
//	    if sync == stimulus.SyncOff {
//	        break
//	    }
//	}
//
// After the last precomputed sample the player switches itself off and
// keeps returning the rest level with [SyncOff] until applied again.
package stimulus
