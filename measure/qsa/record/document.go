package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cwbudde/algo-qsa/measure/qsa/grid"
	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// Version identifies the document layout.
const Version = "1.0"

// ErrInvalidDocument is returned when a document does not describe a
// valid stimulus.
var ErrInvalidDocument = errors.New("record: invalid document")

// Document is the persisted form of one recording session: the
// originating stimulus configuration and every captured trace.
type Document struct {
	Version         string    `json:"version"`
	Session         string    `json:"session"`
	Dt              float64   `json:"dt"`
	Duration        float64   `json:"duration"`
	Generators      []int     `json:"generators"`
	Frequencies     []float64 `json:"frequencies"`
	Amplitudes      []float64 `json:"amplitudes"`
	Phases          []float64 `json:"phases"`
	RestLevel       float64   `json:"rest_level"`
	StepLevel       float64   `json:"step_level"`
	StepDelay       float64   `json:"step_delay"`
	DropDelay       float64   `json:"drop_delay"`
	TraceCount      int       `json:"trace_count"`
	TracePause      float64   `json:"trace_pause"`
	TraceAlternance int       `json:"trace_alternance"`
	Traces          []Trace   `json:"traces"`
}

// Document returns a copy of the session, or [ErrNoTraces] when nothing
// was captured.
func (r *Recorder) Document() (Document, error) {
	if len(r.traces) == 0 {
		return Document{}, ErrNoTraces
	}

	s := r.spec.Clone()
	doc := Document{
		Version:         Version,
		Session:         r.session.String(),
		Dt:              s.Grid.Dt(),
		Duration:        s.Grid.Duration(),
		Generators:      s.Grid.Intermodulation().Generators(),
		Frequencies:     s.Grid.Fundamentals(),
		Amplitudes:      s.Amplitudes,
		Phases:          s.Phases,
		RestLevel:       s.RestLevel,
		StepLevel:       s.StepLevel,
		StepDelay:       s.StepDelay,
		DropDelay:       s.DropDelay,
		TraceCount:      s.TraceCount,
		TracePause:      s.TracePause,
		TraceAlternance: s.TraceAlternance,
		Traces:          make([]Trace, len(r.traces)),
	}
	for i, tr := range r.traces {
		doc.Traces[i] = Trace{
			Step:      tr.Step.clone(),
			Multisine: tr.Multisine.clone(),
			Drop:      tr.Drop.clone(),
		}
	}

	return doc, nil
}

// Save writes the session as JSON. Nothing is written when no trace was
// captured; [ErrNoTraces] is returned instead.
func (r *Recorder) Save(w io.Writer) error {
	doc, err := r.Document()
	if err != nil {
		return err
	}
	return doc.Write(w)
}

// Write encodes the document as JSON.
func (d Document) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("record: encode document: %w", err)
	}
	return nil
}

// ReadDocument decodes a JSON document.
func ReadDocument(rd io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("record: decode document: %w", err)
	}
	return doc, nil
}

// Spec rebuilds the stimulus configuration the document was recorded with.
func (d Document) Spec() (stimulus.Spec, error) {
	im := intermod.Make(d.Generators)
	if !sort.IntsAreSorted(d.Generators) || im.Len() != len(d.Generators) {
		return stimulus.Spec{}, fmt.Errorf("%w: generators %v collide", ErrInvalidDocument, d.Generators)
	}

	g, err := grid.New(im, d.Dt, d.Duration)
	if err != nil {
		return stimulus.Spec{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	spec := stimulus.Spec{
		Grid:            g,
		Amplitudes:      d.Amplitudes,
		Phases:          d.Phases,
		RestLevel:       d.RestLevel,
		StepLevel:       d.StepLevel,
		StepDelay:       d.StepDelay,
		DropDelay:       d.DropDelay,
		TraceCount:      d.TraceCount,
		TracePause:      d.TracePause,
		TraceAlternance: d.TraceAlternance,
	}
	if err := spec.Validate(); err != nil {
		return stimulus.Spec{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return spec, nil
}
