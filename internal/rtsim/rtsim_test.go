package rtsim

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/cwbudde/algo-qsa/measure/qsa/analysis"
	"github.com/cwbudde/algo-qsa/measure/qsa/record"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

func testWaveform(t *testing.T) *stimulus.Waveform {
	t.Helper()

	w, err := stimulus.NewBuilder().
		SetDt(1.0 / 128).
		SetDuration(1).
		SetMinFrequency(2).
		SetMaxFrequency(12).
		SetAmplitude(0.4).
		SetFrequencySeed(7).
		SetPhaseSeed(11).
		SetRestLevel(-0.2).
		SetStepLevel(0.1).
		SetStepDelay(0.25).
		SetDropDelay(0.25).
		SetTraceCount(2).
		SetTracePause(0.125).
		SetTraceAlternance(-1).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func newRecorder(t *testing.T, w *stimulus.Waveform) *record.Recorder {
	t.Helper()

	rec, err := record.NewRecorder(w.Spec())
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestApplyOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := ApplyOptions(WithLogger(logger), WithMaxTicks(100), WithLeadIn(5))
	if cfg.Logger != logger || cfg.MaxTicks != 100 || cfg.LeadIn != 5 {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyOptions(WithLogger(nil), WithMaxTicks(-1), WithLeadIn(-3), nil)
	def := DefaultConfig()
	if cfg.MaxTicks != def.MaxTicks || cfg.LeadIn != def.LeadIn || cfg.Logger == nil {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestQuadratic(t *testing.T) {
	q := Quadratic{Gain: 2, Quad: 0.5, Offset: 1}
	if got := q.Respond(2); got != 7 {
		t.Fatalf("Respond(2) = %v, want 7", got)
	}
	if got := q.LinearTransfer(0.1); got != 2.1 {
		t.Fatalf("LinearTransfer(0.1) = %v, want 2.1", got)
	}
	if got := SystemFunc(func(x float64) float64 { return -x }).Respond(3); got != -3 {
		t.Fatalf("SystemFunc.Respond(3) = %v, want -3", got)
	}
}

func TestRunCompletes(t *testing.T) {
	for _, leadIn := range []int{0, 17} {
		w := testWaveform(t)
		rec := newRecorder(t, w)

		stats, err := Run(context.Background(), w, rec, Quadratic{Gain: 1}, WithLeadIn(leadIn))
		if err != nil {
			t.Fatalf("lead-in %d: %v", leadIn, err)
		}

		if want := leadIn + w.Len() + 1; stats.Ticks != want {
			t.Fatalf("lead-in %d: Ticks = %d, want %d", leadIn, stats.Ticks, want)
		}
		if stats.Traces != 2 || len(rec.Traces()) != 2 {
			t.Fatalf("lead-in %d: Traces = %d, want 2", leadIn, stats.Traces)
		}

		spec := w.Spec()
		n := spec.Ticks(spec.Grid.Duration())
		for i, tr := range rec.Traces() {
			if tr.Multisine.Len() != n {
				t.Fatalf("trace %d: %d multisine samples, want %d", i, tr.Multisine.Len(), n)
			}
		}
	}
}

func TestRunTickBudget(t *testing.T) {
	w := testWaveform(t)
	rec := newRecorder(t, w)

	stats, err := Run(context.Background(), w, rec, Quadratic{Gain: 1}, WithMaxTicks(50))
	if !errors.Is(err, ErrTickBudget) {
		t.Fatalf("Run() error = %v, want %v", err, ErrTickBudget)
	}
	if stats.Ticks != 50 {
		t.Fatalf("Ticks = %d, want 50", stats.Ticks)
	}
	if !rec.Started() || rec.Stopped() {
		t.Fatalf("Started/Stopped = %v/%v, want true/false", rec.Started(), rec.Stopped())
	}
}

func TestRunCancelled(t *testing.T) {
	w := testWaveform(t)
	rec := newRecorder(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Run(ctx, w, rec, Quadratic{Gain: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if stats.Ticks != 0 {
		t.Fatalf("Ticks = %d, want 0", stats.Ticks)
	}
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := testWaveform(t)
	rec := newRecorder(t, w)

	if _, err := Run(context.Background(), w, rec, Quadratic{Gain: 1}, WithLogger(logger)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, msg := range []string{"run armed", "recording started", "recording complete", rec.Session().String()} {
		if !strings.Contains(out, msg) {
			t.Fatalf("log lacks %q:\n%s", msg, out)
		}
	}
}

func TestRunAnalysis(t *testing.T) {
	w := testWaveform(t)
	rec := newRecorder(t, w)
	sys := Quadratic{Gain: 1.5, Quad: 0.8, Offset: 0.05}

	if _, err := Run(context.Background(), w, rec, sys); err != nil {
		t.Fatal(err)
	}

	res, err := analysis.AnalyzeTraces(rec.Spec(), rec.Traces())
	if err != nil {
		t.Fatal(err)
	}

	want := complex(sys.LinearTransfer(w.Spec().StepLevel), 0)
	for i, h := range res.Linear {
		if d := cmplx.Abs(h - want); d > 1e-9 {
			t.Fatalf("H1[%d] = %v, want %v", i, h, want)
		}
	}
	if len(res.Quadratic) == 0 {
		t.Fatal("no quadratic products")
	}
}
