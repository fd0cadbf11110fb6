// Package analysis decomposes recorded QSA traces into their linear and
// quadratic components.
//
// The multisine phase of a trace holds exactly one period of every
// fundamental, so each generator and each intermodulation product falls on
// its own DFT bin without leakage. Because the generator set is free of
// collisions, the response at a generator bin is purely linear and the
// response at a product bin is purely quadratic (up to higher orders).
//
// # Usage
//
//	res, err := analysis.AnalyzeTraces(rec.Spec(), rec.Traces())
//	for i, f := range res.Frequencies {
//	    fmt.Printf("%g Hz: |H1| = %g\n", f, cmplx.Abs(res.Linear[i]))
//	}
package analysis
