package record

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// ErrNoTraces is returned when a document is requested before any trace
// was captured.
var ErrNoTraces = errors.New("record: no traces captured")

// Phase is one captured segment: time since the segment started, applied
// stimulus and measured response, sample by sample.
type Phase struct {
	Time     []float64 `json:"time"`
	Stimulus []float64 `json:"stimulation"`
	Response []float64 `json:"response"`
}

// Len returns the number of samples.
func (p *Phase) Len() int { return len(p.Time) }

func (p *Phase) append(t, applied, measured float64) {
	p.Time = append(p.Time, t)
	p.Stimulus = append(p.Stimulus, applied)
	p.Response = append(p.Response, measured)
}

func (p *Phase) reset(capacity int) {
	p.Time = grow(p.Time, capacity)
	p.Stimulus = grow(p.Stimulus, capacity)
	p.Response = grow(p.Response, capacity)
}

func (p Phase) clone() Phase {
	return Phase{
		Time:     append([]float64(nil), p.Time...),
		Stimulus: append([]float64(nil), p.Stimulus...),
		Response: append([]float64(nil), p.Response...),
	}
}

// Trace is the capture of a single stimulus presentation.
type Trace struct {
	Step      Phase `json:"step"`
	Multisine Phase `json:"multisine"`
	Drop      Phase `json:"drop"`
}

// Recorder is the capture state machine. It is driven by one goroutine;
// results may be read once Started and Stopped both report true.
type Recorder struct {
	spec    stimulus.Spec
	dt      float64
	epsilon float64

	stepTicks      int
	multisineTicks int
	dropTicks      int

	session   uuid.UUID
	mode      stimulus.Sync
	cycles    int
	recording bool
	started   bool
	stopped   bool
	traces    []Trace
}

// NewRecorder returns an idle recorder for spec.
func NewRecorder(spec stimulus.Spec) (*Recorder, error) {
	r := &Recorder{}
	if err := r.SetSpec(spec); err != nil {
		return nil, err
	}
	return r, nil
}

// SetSpec replaces the stimulus configuration and returns the recorder to
// idle. Start must be called before recording again.
func (r *Recorder) SetSpec(spec stimulus.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	r.spec = spec.Clone()
	r.dt = spec.Grid.Dt()
	r.epsilon = r.dt / 2
	r.stepTicks = spec.Ticks(spec.StepDelay)
	r.multisineTicks = spec.Ticks(spec.Grid.Duration())
	r.dropTicks = spec.Ticks(spec.DropDelay)

	r.mode = stimulus.SyncOff
	r.cycles = 0
	r.recording = false
	r.started = false
	r.stopped = false
	r.traces = r.traces[:0]

	return nil
}

// Spec returns a copy of the stimulus configuration being recorded.
func (r *Recorder) Spec() stimulus.Spec { return r.spec.Clone() }

// Start clears previous traces and arms the recorder. Recording begins at
// the next step edge. Trace storage is reused, so slices obtained from
// Traces before Start must not be used afterwards.
func (r *Recorder) Start() {
	n := r.spec.TraceCount
	if cap(r.traces) < n {
		r.traces = make([]Trace, 0, n)
	}

	all := r.traces[:cap(r.traces)]
	for i := range all {
		r.resetTrace(&all[i])
	}

	r.traces = r.traces[:0]
	r.session = uuid.New()
	r.mode = stimulus.SyncOff
	r.cycles = 0
	r.recording = true
	r.started = false
	r.stopped = false
}

// Stop cancels recording, with the same effect as receiving the off code.
func (r *Recorder) Stop() {
	r.cycles = 0
	r.mode = stimulus.SyncOff
	if r.started {
		r.stopped = true
	}
}

// Session returns the identifier assigned by the last Start.
func (r *Recorder) Session() uuid.UUID { return r.session }

// Recording reports whether the recorder is armed.
func (r *Recorder) Recording() bool { return r.recording }

// Started reports whether a step edge has been seen since Start.
func (r *Recorder) Started() bool { return r.started }

// Stopped reports whether recording ended after having started.
func (r *Recorder) Stopped() bool { return r.stopped }

// Mode returns the phase the recorder is currently in.
func (r *Recorder) Mode() stimulus.Sync { return r.mode }

// Traces returns the captured traces. The slice is owned by the recorder
// and valid until the next Start.
func (r *Recorder) Traces() []Trace { return r.traces }

// Push consumes one tick. Ticks before Start or after the recorder stopped
// are ignored, as are sync values that match no code.
func (r *Recorder) Push(applied, measured, sync float64) {
	if !r.recording || r.stopped {
		return
	}

	switch {
	case r.near(sync, stimulus.SyncStep):
		r.pushStep(applied, measured)
	case r.near(sync, stimulus.SyncMultisine):
		r.pushMultisine(applied, measured)
	case r.near(sync, stimulus.SyncDrop):
		r.pushDrop(applied, measured)
	case r.near(sync, stimulus.SyncOff):
		r.Stop()
	case r.near(sync, stimulus.SyncIgnore):
		r.mode = stimulus.SyncIgnore
	}
}

func (r *Recorder) near(sync float64, code stimulus.Sync) bool {
	return math.Abs(sync-code.Level()) < r.epsilon
}

func (r *Recorder) pushStep(applied, measured float64) {
	if r.mode != stimulus.SyncStep {
		// A step edge opens a new presentation.
		r.started = true
		r.newTrace()
		r.cycles = r.stepTicks
		r.mode = stimulus.SyncStep
	}
	if r.cycles >= 0 {
		r.active().Step.append(r.elapsed(r.stepTicks), applied, measured)
		r.cycles--
	}
}

func (r *Recorder) pushMultisine(applied, measured float64) {
	if r.mode != stimulus.SyncMultisine {
		r.cycles = r.multisineTicks
		r.mode = stimulus.SyncMultisine
	}
	if r.cycles >= 0 {
		if tr := r.active(); tr != nil {
			tr.Multisine.append(r.elapsed(r.multisineTicks), applied, measured)
		}
		r.cycles--
	}
}

func (r *Recorder) pushDrop(applied, measured float64) {
	if r.mode != stimulus.SyncDrop {
		r.cycles = r.dropTicks
		r.mode = stimulus.SyncDrop
	}
	if r.cycles >= 0 {
		if tr := r.active(); tr != nil {
			tr.Drop.append(r.elapsed(r.dropTicks), applied, measured)
		}
		r.cycles--
	}
}

// elapsed returns the time since the current phase started.
func (r *Recorder) elapsed(ticks int) float64 {
	return float64(ticks-r.cycles) * r.dt
}

// active returns the trace being filled, or nil when recording started
// in the middle of a presentation.
func (r *Recorder) active() *Trace {
	if len(r.traces) == 0 {
		return nil
	}
	return &r.traces[len(r.traces)-1]
}

func (r *Recorder) newTrace() {
	n := len(r.traces)
	if n < cap(r.traces) {
		r.traces = r.traces[:n+1]
	} else {
		r.traces = append(r.traces, Trace{})
	}
	r.resetTrace(&r.traces[n])
}

func (r *Recorder) resetTrace(tr *Trace) {
	tr.Step.reset(r.stepTicks + 1)
	tr.Multisine.reset(r.multisineTicks + 1)
	tr.Drop.reset(r.dropTicks + 1)
}

// grow returns buf emptied, with room for at least n elements.
func grow(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:0]
	}
	return make([]float64, 0, n)
}
