package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-qsa/internal/testutil"
	"github.com/cwbudde/algo-qsa/measure/qsa/grid"
	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
	"github.com/cwbudde/algo-qsa/measure/qsa/record"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

const tol = 1e-9

// testSpec uses generators {3, 5} over one second. Per-fundamental
// amplitudes after normalization are 0.5 and 0.25.
func testSpec(t *testing.T, samples int, stepLevel float64) stimulus.Spec {
	t.Helper()

	g, err := grid.New(intermod.Make([]int{3, 5}), 1/float64(samples), 1)
	if err != nil {
		t.Fatal(err)
	}

	return stimulus.Spec{
		Grid:            g,
		Amplitudes:      []float64{1, 0.5},
		Phases:          []float64{0.3, 2.1},
		StepLevel:       stepLevel,
		StepDelay:       0.25,
		DropDelay:       0.25,
		TraceCount:      2,
		TraceAlternance: -1,
	}
}

// multisineTrace cuts the recorded multisine phase of the given trace out
// of the waveform and passes it through system.
func multisineTrace(t *testing.T, spec stimulus.Spec, trace int, system func(float64) float64) record.Trace {
	t.Helper()

	w, err := stimulus.NewWaveform(spec)
	if err != nil {
		t.Fatal(err)
	}
	output, _ := w.Samples()

	n := spec.Ticks(spec.Grid.Duration())
	start := trace*spec.TraceSamples() + spec.Ticks(spec.StepDelay) + n

	var tr record.Trace
	for i, v := range output[start : start+n] {
		tr.Multisine.Time = append(tr.Multisine.Time, float64(i)*spec.Grid.Dt())
		tr.Multisine.Stimulus = append(tr.Multisine.Stimulus, v)
		tr.Multisine.Response = append(tr.Multisine.Response, system(v))
	}
	return tr
}

func quadratic(g, q float64) func(float64) float64 {
	return func(x float64) float64 { return g*x + q*x*x }
}

func TestSpectrumSinusoid(t *testing.T) {
	for _, n := range []int{64, 60} {
		s := testutil.Multitone(1/float64(n), n, []float64{4}, []float64{0.7}, []float64{math.Pi / 2})
		for i := range s {
			s[i] += 0.25
		}

		bins, err := Spectrum(s)
		if err != nil {
			t.Fatal(err)
		}
		if len(bins) != n/2+1 {
			t.Fatalf("n=%d: len(bins) = %d, want %d", n, len(bins), n/2+1)
		}

		testutil.RequireComplexNear(t, "DC", bins[0], 0.25, tol)
		// A cosine of amplitude 0.7 reads 0.7 on its bin.
		testutil.RequireComplexNear(t, "bin 4", bins[4], 0.7, tol)
		if m := cmplx.Abs(bins[5]); m > tol {
			t.Fatalf("n=%d: leakage into bin 5: %v", n, m)
		}
	}
}

func TestSpectrumEmpty(t *testing.T) {
	if _, err := Spectrum(nil); !errors.Is(err, ErrEmptyTrace) {
		t.Fatalf("Spectrum(nil) error = %v, want %v", err, ErrEmptyTrace)
	}
}

func TestAnalyzeTraceQuadraticSystem(t *testing.T) {
	tests := []struct {
		name      string
		samples   int
		stepLevel float64
		wantH1    float64
	}{
		{"power of two", 256, 0, 2},
		{"mixed radix", 300, 0, 2},
		{"step offset", 256, 0.3, 2 + 2*0.5*0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec(t, tt.samples, tt.stepLevel)
			res, err := AnalyzeTrace(spec, multisineTrace(t, spec, 0, quadratic(2, 0.5)))
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireSliceNearlyEqual(t, res.Frequencies, []float64{3, 5}, 0)
			for _, h := range res.Linear {
				testutil.RequireComplexNear(t, "H1", h, complex(tt.wantH1, 0), tol)
			}

			// Products other than generators: 5-3, 2·3, 3+5, 2·5.
			testutil.RequireSliceNearlyEqual(t, res.ProductFrequencies, []float64{2, 6, 8, 10}, 0)

			a, b := 0.5, 0.25
			want := []float64{0.5 * a * b, 0.5 * a * a / 2, 0.5 * a * b, 0.5 * b * b / 2}
			testutil.RequireSliceNearlyEqual(t, res.QuadraticMagnitude(), want, tol)
		})
	}
}

func TestAnalyzeTraceOffset(t *testing.T) {
	spec := testSpec(t, 256, 0)
	res, err := AnalyzeTrace(spec, multisineTrace(t, spec, 0, quadratic(1, 0.5)))
	if err != nil {
		t.Fatal(err)
	}

	// Mean of q·x² is q·Σ A²/2.
	want := 0.5 * (0.25 + 0.0625) / 2
	if math.Abs(res.Offset-want) > tol {
		t.Fatalf("Offset = %v, want %v", res.Offset, want)
	}
}

func TestAnalyzeTracesAlternance(t *testing.T) {
	spec := testSpec(t, 256, 0)
	system := quadratic(-1.5, 0.2)

	traces := []record.Trace{
		multisineTrace(t, spec, 0, system),
		multisineTrace(t, spec, 1, system),
	}

	// The second trace is inverted; its stimulus must differ in sign.
	if d := traces[0].Multisine.Stimulus[7] + traces[1].Multisine.Stimulus[7]; math.Abs(d) > 1e-12 {
		t.Fatalf("traces are not alternating: sum %v", d)
	}

	res, err := AnalyzeTraces(spec, traces)
	if err != nil {
		t.Fatal(err)
	}
	if res.Traces != 2 {
		t.Fatalf("Traces = %d, want 2", res.Traces)
	}

	single, err := AnalyzeTrace(spec, traces[0])
	if err != nil {
		t.Fatal(err)
	}

	for i := range res.Linear {
		testutil.RequireComplexNear(t, "H1", res.Linear[i], -1.5, tol)
	}
	for i := range res.Quadratic {
		testutil.RequireComplexNear(t, "quadratic", res.Quadratic[i], single.Quadratic[i], tol)
	}
}

func TestAnalyzeTraceErrors(t *testing.T) {
	spec := testSpec(t, 256, 0)
	full := multisineTrace(t, spec, 0, quadratic(1, 0))

	short := full
	short.Multisine = record.Phase{
		Time:     full.Multisine.Time[:100],
		Stimulus: full.Multisine.Stimulus[:100],
		Response: full.Multisine.Response[:100],
	}

	aliasSpec := testSpec(t, 16, 0)

	invalid := spec
	invalid.TraceCount = 0

	tests := []struct {
		name    string
		spec    stimulus.Spec
		trace   record.Trace
		wantErr error
	}{
		{"empty", spec, record.Trace{}, ErrEmptyTrace},
		{"short", spec, short, ErrShortTrace},
		{"aliased", aliasSpec, multisineTrace(t, aliasSpec, 0, quadratic(1, 0)), ErrAliased},
		{"invalid spec", invalid, full, stimulus.ErrInvalidTraceCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AnalyzeTrace(tt.spec, tt.trace); !errors.Is(err, tt.wantErr) {
				t.Fatalf("AnalyzeTrace() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeTracesErrors(t *testing.T) {
	spec := testSpec(t, 256, 0)

	if _, err := AnalyzeTraces(spec, nil); !errors.Is(err, ErrEmptyTrace) {
		t.Fatalf("AnalyzeTraces(nil) error = %v, want %v", err, ErrEmptyTrace)
	}

	traces := []record.Trace{multisineTrace(t, spec, 0, quadratic(1, 0)), {}}
	if _, err := AnalyzeTraces(spec, traces); !errors.Is(err, ErrEmptyTrace) {
		t.Fatalf("AnalyzeTraces() error = %v, want %v", err, ErrEmptyTrace)
	}
}

func TestCombine(t *testing.T) {
	a := Result{
		Frequencies:        []float64{1},
		Linear:             []complex128{2},
		ProductFrequencies: []float64{2},
		Quadratic:          []complex128{1i},
		Offset:             1,
		Traces:             1,
	}
	b := Result{
		Frequencies:        []float64{1},
		Linear:             []complex128{5},
		ProductFrequencies: []float64{2},
		Quadratic:          []complex128{4i},
		Offset:             4,
		Traces:             2,
	}

	got, err := Combine([]Result{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if got.Traces != 3 {
		t.Fatalf("Traces = %d, want 3", got.Traces)
	}
	testutil.RequireComplexNear(t, "Linear", got.Linear[0], 4, tol)
	testutil.RequireComplexNear(t, "Quadratic", got.Quadratic[0], 3i, tol)
	if math.Abs(got.Offset-3) > tol {
		t.Fatalf("Offset = %v, want 3", got.Offset)
	}

	// Inputs are not aliased by the result.
	got.Frequencies[0] = 9
	if a.Frequencies[0] != 1 {
		t.Fatal("Combine aliased the input frequencies")
	}
}

func TestCombineErrors(t *testing.T) {
	if _, err := Combine(nil); !errors.Is(err, ErrEmptyTrace) {
		t.Fatalf("Combine(nil) error = %v, want %v", err, ErrEmptyTrace)
	}

	a := Result{Frequencies: []float64{1}, Linear: []complex128{1}, Traces: 1}
	b := Result{Frequencies: []float64{2}, Linear: []complex128{1}, Traces: 1}
	if _, err := Combine([]Result{a, b}); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Combine() error = %v, want %v", err, ErrMismatch)
	}
}

func TestMagnitude(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t, Magnitude([]complex128{3 + 4i, -2, 0}), []float64{5, 2, 0}, 1e-12)
	if Magnitude(nil) != nil {
		t.Fatal("Magnitude(nil) != nil")
	}
}
