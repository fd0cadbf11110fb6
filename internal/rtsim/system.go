package rtsim

// System is a memoryless system under test.
type System interface {
	Respond(x float64) float64
}

// SystemFunc adapts a function to [System].
type SystemFunc func(x float64) float64

// Respond calls f(x).
func (f SystemFunc) Respond(x float64) float64 { return f(x) }

// Quadratic is y = Offset + Gain·x + Quad·x².
type Quadratic struct {
	Gain   float64
	Quad   float64
	Offset float64
}

// Respond evaluates the polynomial at x.
func (q Quadratic) Respond(x float64) float64 {
	return q.Offset + x*(q.Gain+q.Quad*x)
}

// LinearTransfer returns the small-signal gain around the operating point
// x0, which is what a QSA analysis reports at generator frequencies.
func (q Quadratic) LinearTransfer(x0 float64) float64 {
	return q.Gain + 2*q.Quad*x0
}
