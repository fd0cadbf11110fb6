// Package codec converts a stimulus configuration to and from its
// line-oriented text form, used to hand a configuration from the
// generating side to the recording side:
//
//	dt: 0.0001
//	duration: 2
//	generators: 3 8 10
//	amplitudes: 2e-06 2e-06 2e-06
//	phases: 0.51 4.2 1.9
//	rest_level: -8e-06
//	step_level: -4e-06
//	step_delay: 1
//	drop_delay: 1
//	trace_count: 1
//	trace_pause: 1
//	trace_alternance: 1
//
// Keys appear in exactly this order. Reals are printed with the shortest
// representation that parses back to the same float64, so Parse(Print(s))
// reproduces s bit for bit.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-qsa/measure/qsa/grid"
	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// Errors returned by Parse.
var (
	ErrSyntax     = errors.New("codec: malformed stimulus text")
	ErrGenerators = errors.New("codec: generators are not an ascending collision-free set")
)

// Key order of the text form.
const (
	keyDt              = "dt"
	keyDuration        = "duration"
	keyGenerators      = "generators"
	keyAmplitudes      = "amplitudes"
	keyPhases          = "phases"
	keyRestLevel       = "rest_level"
	keyStepLevel       = "step_level"
	keyStepDelay       = "step_delay"
	keyDropDelay       = "drop_delay"
	keyTraceCount      = "trace_count"
	keyTracePause      = "trace_pause"
	keyTraceAlternance = "trace_alternance"
)

// Print encodes spec. Every key is always written.
func Print(spec stimulus.Spec) string {
	var sb strings.Builder

	scalar := func(key, value string) {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	vector := func(key string, values []string) {
		sb.WriteString(key)
		sb.WriteByte(':')
		for _, v := range values {
			sb.WriteByte(' ')
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}

	generators := spec.Grid.Intermodulation().Generators()
	tokens := make([]string, len(generators))
	for i, g := range generators {
		tokens[i] = strconv.Itoa(g)
	}

	scalar(keyDt, formatFloat(spec.Grid.Dt()))
	scalar(keyDuration, formatFloat(spec.Grid.Duration()))
	vector(keyGenerators, tokens)
	vector(keyAmplitudes, formatFloats(spec.Amplitudes))
	vector(keyPhases, formatFloats(spec.Phases))
	scalar(keyRestLevel, formatFloat(spec.RestLevel))
	scalar(keyStepLevel, formatFloat(spec.StepLevel))
	scalar(keyStepDelay, formatFloat(spec.StepDelay))
	scalar(keyDropDelay, formatFloat(spec.DropDelay))
	scalar(keyTraceCount, strconv.Itoa(spec.TraceCount))
	scalar(keyTracePause, formatFloat(spec.TracePause))
	scalar(keyTraceAlternance, strconv.Itoa(spec.TraceAlternance))

	return sb.String()
}

// Parse decodes text produced by Print. Parsing is strict: a missing or
// misplaced key, a malformed token or an invalid configuration yields the
// zero Spec and an error. No partial result is ever returned.
func Parse(text string) (stimulus.Spec, error) {
	r := reader{lines: strings.Split(text, "\n")}

	dt, err := r.float(keyDt)
	if err != nil {
		return stimulus.Spec{}, err
	}
	duration, err := r.float(keyDuration)
	if err != nil {
		return stimulus.Spec{}, err
	}
	generators, err := r.integers(keyGenerators)
	if err != nil {
		return stimulus.Spec{}, err
	}
	amplitudes, err := r.floats(keyAmplitudes)
	if err != nil {
		return stimulus.Spec{}, err
	}
	phases, err := r.floats(keyPhases)
	if err != nil {
		return stimulus.Spec{}, err
	}
	restLevel, err := r.float(keyRestLevel)
	if err != nil {
		return stimulus.Spec{}, err
	}
	stepLevel, err := r.float(keyStepLevel)
	if err != nil {
		return stimulus.Spec{}, err
	}
	stepDelay, err := r.float(keyStepDelay)
	if err != nil {
		return stimulus.Spec{}, err
	}
	dropDelay, err := r.float(keyDropDelay)
	if err != nil {
		return stimulus.Spec{}, err
	}
	traceCount, err := r.integer(keyTraceCount)
	if err != nil {
		return stimulus.Spec{}, err
	}
	tracePause, err := r.float(keyTracePause)
	if err != nil {
		return stimulus.Spec{}, err
	}
	traceAlternance, err := r.integer(keyTraceAlternance)
	if err != nil {
		return stimulus.Spec{}, err
	}

	if !sort.IntsAreSorted(generators) {
		return stimulus.Spec{}, ErrGenerators
	}
	im := intermod.Make(generators)
	if im.Len() != len(generators) {
		return stimulus.Spec{}, ErrGenerators
	}

	g, err := grid.New(im, dt, duration)
	if err != nil {
		return stimulus.Spec{}, err
	}

	spec := stimulus.Spec{
		Grid:            g,
		Amplitudes:      amplitudes,
		Phases:          phases,
		RestLevel:       restLevel,
		StepLevel:       stepLevel,
		StepDelay:       stepDelay,
		DropDelay:       dropDelay,
		TraceCount:      traceCount,
		TracePause:      tracePause,
		TraceAlternance: traceAlternance,
	}
	if err := spec.Validate(); err != nil {
		return stimulus.Spec{}, err
	}

	return spec, nil
}

// reader walks the lines of a text form in key order.
type reader struct {
	lines []string
	next  int
}

// value returns the text after "key:" on the next line.
func (r *reader) value(key string) (string, error) {
	if r.next >= len(r.lines) {
		return "", fmt.Errorf("%w: missing key %q", ErrSyntax, key)
	}
	line := strings.TrimSuffix(r.lines[r.next], "\r")
	r.next++

	k, v, ok := strings.Cut(line, ":")
	if !ok || k != key {
		return "", fmt.Errorf("%w: line %d: expected key %q", ErrSyntax, r.next, key)
	}
	return strings.TrimSpace(v), nil
}

func (r *reader) float(key string) (float64, error) {
	v, err := r.value(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSyntax, key, err)
	}
	return f, nil
}

func (r *reader) integer(key string) (int, error) {
	v, err := r.value(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSyntax, key, err)
	}
	return n, nil
}

func (r *reader) floats(key string) ([]float64, error) {
	v, err := r.value(key)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(v)
	out := make([]float64, len(fields))
	for i, tok := range fields {
		if out[i], err = strconv.ParseFloat(tok, 64); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrSyntax, key, i, err)
		}
	}
	return out, nil
}

func (r *reader) integers(key string) ([]int, error) {
	v, err := r.value(key)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(v)
	out := make([]int, len(fields))
	for i, tok := range fields {
		if out[i], err = strconv.Atoi(tok); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrSyntax, key, i, err)
		}
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}
