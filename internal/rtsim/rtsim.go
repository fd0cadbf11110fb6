// Package rtsim drives a stimulus through a system under test into a
// recorder, tick by tick, the way a fixed-period real-time host would.
package rtsim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-qsa/measure/qsa/record"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

// ErrTickBudget is returned when the recorder has not stopped within the
// configured number of ticks.
var ErrTickBudget = errors.New("rtsim: tick budget exhausted before recording stopped")

// ctxCheckInterval is the number of ticks between context checks.
const ctxCheckInterval = 1024

// Stats summarizes a run.
type Stats struct {
	Ticks   int
	Traces  int
	Elapsed float64 // simulated seconds
}

// Run arms rec, applies w after the lead-in and feeds every tick through
// sys until the recorder reports a complete recording. Each tick the
// player is sampled at the centre of the tick interval.
func Run(ctx context.Context, w *stimulus.Waveform, rec *record.Recorder, sys System, opts ...Option) (Stats, error) {
	cfg := ApplyOptions(opts...)
	log := cfg.Logger

	dt := w.Spec().Grid.Dt()
	budget := cfg.MaxTicks
	if budget == 0 {
		budget = cfg.LeadIn + w.Len() + 1
	}

	player := stimulus.NewPlayer(w)
	rec.Start()

	log.Debug("run armed",
		slog.String("session", rec.Session().String()),
		slog.Int("samples", w.Len()),
		slog.Int("budget", budget),
		slog.Float64("dt", dt),
	)

	var stats Stats
	started := false

	for tick := range budget {
		if tick%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("rtsim: %w", err)
			}
		}

		if tick == cfg.LeadIn {
			player.Apply()
		}

		out, sync := player.Evaluate((float64(tick-cfg.LeadIn) + 0.5) * dt)
		rec.Push(out, sys.Respond(out), sync.Level())

		stats.Ticks++
		stats.Elapsed = float64(stats.Ticks) * dt

		if rec.Started() && !started {
			started = true
			log.Debug("recording started", slog.Int("tick", tick))
		}

		if rec.Started() && rec.Stopped() {
			stats.Traces = len(rec.Traces())
			log.Info("recording complete",
				slog.String("session", rec.Session().String()),
				slog.Int("ticks", stats.Ticks),
				slog.Int("traces", stats.Traces),
			)
			return stats, nil
		}
	}

	stats.Traces = len(rec.Traces())
	log.Warn("tick budget exhausted",
		slog.Int("ticks", stats.Ticks),
		slog.Int("traces", stats.Traces),
	)
	return stats, ErrTickBudget
}
