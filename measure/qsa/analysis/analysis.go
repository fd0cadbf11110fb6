package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/algo-qsa/measure/qsa/record"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// Errors returned by trace analysis.
var (
	ErrEmptyTrace = errors.New("analysis: trace has no multisine samples")
	ErrShortTrace = errors.New("analysis: multisine phase shorter than one period")
	ErrAliased    = errors.New("analysis: intermodulation product above Nyquist")
	ErrMismatch   = errors.New("analysis: results cover different frequency sets")
)

// Result is the decomposition of one or more traces.
//
// Linear holds the transfer Y/U at each generator; Quadratic holds the
// response amplitude Y at each product that is not a generator.
type Result struct {
	Frequencies        []float64 // Hz, one per generator
	Linear             []complex128
	ProductFrequencies []float64 // Hz, products excluding generators
	Quadratic          []complex128
	Offset             float64 // mean response level
	Traces             int
}

// LinearMagnitude returns |H1| per generator.
func (r Result) LinearMagnitude() []float64 { return Magnitude(r.Linear) }

// QuadraticMagnitude returns |Y| per product.
func (r Result) QuadraticMagnitude() []float64 { return Magnitude(r.Quadratic) }

// Magnitude returns |X[k]| for each bin.
func Magnitude(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}

	out := make([]float64, len(bins))
	re := make([]float64, len(bins))
	im := make([]float64, len(bins))
	for i, c := range bins {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	return out
}

// Spectrum returns the one-sided amplitude spectrum of a real block: bins
// 0..N/2, scaled so that a sinusoid of amplitude A on bin k reads |X[k]| = A.
// The DC bin is scaled by 1/N.
func Spectrum(samples []float64) ([]complex128, error) {
	n := len(samples)
	if n == 0 {
		return nil, ErrEmptyTrace
	}

	full, err := transform(samples)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, n/2+1)
	scale := complex(2/float64(n), 0)
	for k := range out {
		out[k] = full[k] * scale
	}
	out[0] /= 2

	return out, nil
}

// transform runs a forward DFT, preferring an algo-fft plan and falling
// back to go-dsp for sizes the planner does not support.
func transform(samples []float64) ([]complex128, error) {
	n := len(samples)

	plan, err := algofft.NewPlan64(n)
	if err == nil {
		in := make([]complex128, n)
		for i, v := range samples {
			in[i] = complex(v, 0)
		}

		out := make([]complex128, n)
		if err = plan.Forward(out, in); err == nil {
			return out, nil
		}
	}

	out := fft.FFTReal(samples)
	if len(out) != n {
		return nil, fmt.Errorf("analysis: fft of %d samples returned %d bins", n, len(out))
	}
	return out, nil
}

// AnalyzeTrace decomposes the multisine phase of one trace. The first
// period of the captured phase is analyzed; any extra samples are ignored.
func AnalyzeTrace(spec stimulus.Spec, tr record.Trace) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}

	ms := tr.Multisine
	if ms.Len() == 0 {
		return Result{}, ErrEmptyTrace
	}

	n := spec.Ticks(spec.Grid.Duration())
	if ms.Len() < n || len(ms.Response) < n {
		return Result{}, fmt.Errorf("%w: %d of %d samples", ErrShortTrace, ms.Len(), n)
	}

	im := spec.Grid.Intermodulation()
	generators := im.Generators()
	products := quadraticProducts(im.Products(), im.IsGenerator)

	if top := products[len(products)-1]; 2*top >= n {
		return Result{}, fmt.Errorf("%w: bin %d with %d samples", ErrAliased, top, n)
	}

	u, err := Spectrum(ms.Stimulus[:n])
	if err != nil {
		return Result{}, err
	}
	y, err := Spectrum(ms.Response[:n])
	if err != nil {
		return Result{}, err
	}

	df := spec.Grid.Resolution()
	res := Result{
		Frequencies:        spec.Grid.Fundamentals(),
		Linear:             make([]complex128, len(generators)),
		ProductFrequencies: make([]float64, len(products)),
		Quadratic:          make([]complex128, len(products)),
		Offset:             real(y[0]),
		Traces:             1,
	}

	for i, k := range generators {
		if u[k] == 0 {
			res.Linear[i] = cmplx.NaN()
			continue
		}
		res.Linear[i] = y[k] / u[k]
	}

	for i, p := range products {
		res.ProductFrequencies[i] = float64(p) * df
		res.Quadratic[i] = y[p]
	}

	return res, nil
}

// AnalyzeTraces analyzes every trace and averages the results.
func AnalyzeTraces(spec stimulus.Spec, traces []record.Trace) (Result, error) {
	if len(traces) == 0 {
		return Result{}, ErrEmptyTrace
	}

	results := make([]Result, 0, len(traces))
	for i, tr := range traces {
		res, err := AnalyzeTrace(spec, tr)
		if err != nil {
			return Result{}, fmt.Errorf("analysis: trace %d: %w", i, err)
		}
		results = append(results, res)
	}

	return Combine(results)
}

// Combine averages per-trace results, weighted by their trace counts.
//
// The linear transfer does not depend on the multisine polarity. Quadratic
// responses are even in the stimulus, so averaging traces of alternating
// polarity also cancels odd-order distortion landing on product bins.
func Combine(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, ErrEmptyTrace
	}

	first := results[0]
	out := Result{
		Frequencies:        append([]float64(nil), first.Frequencies...),
		Linear:             make([]complex128, len(first.Linear)),
		ProductFrequencies: append([]float64(nil), first.ProductFrequencies...),
		Quadratic:          make([]complex128, len(first.Quadratic)),
	}

	for _, r := range results {
		if !sameFrequencies(r.Frequencies, first.Frequencies) ||
			!sameFrequencies(r.ProductFrequencies, first.ProductFrequencies) ||
			len(r.Linear) != len(out.Linear) || len(r.Quadratic) != len(out.Quadratic) {
			return Result{}, ErrMismatch
		}

		w := float64(max(r.Traces, 1))
		for i, v := range r.Linear {
			out.Linear[i] += v * complex(w, 0)
		}
		for i, v := range r.Quadratic {
			out.Quadratic[i] += v * complex(w, 0)
		}
		out.Offset += r.Offset * w
		out.Traces += int(w)
	}

	inv := 1 / float64(out.Traces)
	for i := range out.Linear {
		out.Linear[i] *= complex(inv, 0)
	}
	for i := range out.Quadratic {
		out.Quadratic[i] *= complex(inv, 0)
	}
	out.Offset *= inv

	return out, nil
}

func quadraticProducts(products []int, isGenerator func(int) bool) []int {
	out := products[:0]
	for _, p := range products {
		if !isGenerator(p) {
			out = append(out, p)
		}
	}
	return out
}

func sameFrequencies(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}
