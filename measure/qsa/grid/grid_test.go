package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-qsa/measure/qsa/intermod"
)

func TestNewValidation(t *testing.T) {
	im := intermod.Make([]int{1, 7})

	tests := []struct {
		name     string
		dt       float64
		duration float64
		wantErr  error
	}{
		{"valid", 1e-3, 2, nil},
		{"zero dt", 0, 2, ErrInvalidDt},
		{"negative dt", -1e-3, 2, ErrInvalidDt},
		{"nan dt", math.NaN(), 2, ErrInvalidDt},
		{"zero duration", 1e-3, 0, ErrInvalidDuration},
		{"negative duration", 1e-3, -2, ErrInvalidDuration},
		{"infinite dt", math.Inf(1), 2, ErrInvalidDt},
		{"infinite duration", 1e-3, math.Inf(1), ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(im, tt.dt, tt.duration)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFundamentals(t *testing.T) {
	g, err := New(intermod.Make([]int{7, 1}), 1e-3, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.5, 3.5}
	got := g.Fundamentals()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fundamentals()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if g.Resolution() != 0.5 {
		t.Fatalf("Resolution() = %v, want 0.5", g.Resolution())
	}
	if g.Len() != 2 || g.Fundamental(1) != 3.5 {
		t.Fatalf("Len()/Fundamental() mismatch: %d %v", g.Len(), g.Fundamental(1))
	}
}

func TestZeroGridInvalid(t *testing.T) {
	var g Grid
	if err := g.Validate(); !errors.Is(err, ErrInvalidDt) {
		t.Fatalf("Validate() = %v, want %v", err, ErrInvalidDt)
	}
}
