package stimulus

// Player plays a [Waveform] back against elapsed time. It is meant to be
// driven from a single real-time loop; Evaluate never allocates.
type Player struct {
	output   []float64
	sync     []Sync
	dt       float64
	rest     float64
	applying bool
}

// NewPlayer returns an idle player for w.
func NewPlayer(w *Waveform) *Player {
	return &Player{
		output: w.output,
		sync:   w.sync,
		dt:     w.spec.Grid.Dt(),
		rest:   w.spec.RestLevel,
	}
}

// Apply starts playback. Elapsed time passed to Evaluate is measured from
// the moment of this call. Playback stops by itself after the last sample.
func (p *Player) Apply() { p.applying = true }

// Applying reports whether playback is in progress.
func (p *Player) Applying() bool { return p.applying }

// Evaluate returns the output level and sync code for elapsed time t in
// seconds. While idle it returns the rest level with [SyncOff]. The first
// call past the end of the waveform, or before its start, ends playback.
func (p *Player) Evaluate(t float64) (float64, Sync) {
	if !p.applying {
		return p.rest, SyncOff
	}

	x := t / p.dt
	if x >= 0 && x < float64(len(p.output)) {
		i := int(x)
		return p.output[i], p.sync[i]
	}

	p.applying = false
	return p.rest, SyncOff
}
