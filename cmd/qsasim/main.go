// Command qsasim presents a QSA stimulus to a simulated quadratic system,
// records the response and reports the linear and quadratic components.
//
// Usage:
//
//	qsasim [flags]
//
// Examples:
//
//	qsasim -seed-frequencies 7 -out traces.json
//	qsasim -dt 0.001 -fmax 20 -gain 2 -quad 0.5 -traces 4 -alternance -1 -v
//	qsasim -in stim.txt -out -
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/cmplx"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/cwbudde/algo-qsa/internal/rtsim"
	"github.com/cwbudde/algo-qsa/internal/stimflag"
	"github.com/cwbudde/algo-qsa/measure/qsa/analysis"
	"github.com/cwbudde/algo-qsa/measure/qsa/record"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

type options struct {
	system  rtsim.Quadratic
	leadIn  int
	out     string
	verbose bool
}

func main() {
	stim := stimflag.Register(flag.CommandLine)

	var opts options
	flag.Float64Var(&opts.system.Gain, "gain", 1e6, "linear gain of the simulated system")
	flag.Float64Var(&opts.system.Quad, "quad", 1e9, "quadratic coefficient of the simulated system")
	flag.Float64Var(&opts.system.Offset, "offset", -0.065, "output offset of the simulated system")
	flag.IntVar(&opts.leadIn, "lead-in", 0, "idle ticks before the stimulus is applied")
	flag.StringVar(&opts.out, "out", "", "write the recorded document to this file (- for stdout)")
	flag.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qsasim [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Records a QSA stimulus applied to y = offset + gain·x + quad·x².\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, stim, opts); err != nil {
		logger.Error("qsasim failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, stim *stimflag.Flags, opts options) error {
	spec, err := stim.Spec()
	if err != nil {
		return err
	}

	w, err := stimulus.NewWaveform(spec)
	if err != nil {
		return err
	}
	logger.Info("stimulus built",
		slog.Int("generators", spec.Grid.Len()),
		slog.Int("samples", w.Len()),
		slog.Float64("seconds", w.Duration()),
	)

	rec, err := record.NewRecorder(spec)
	if err != nil {
		return err
	}

	if _, err := rtsim.Run(ctx, w, rec, opts.system,
		rtsim.WithLogger(logger),
		rtsim.WithLeadIn(opts.leadIn),
	); err != nil {
		return err
	}

	if err := save(rec, opts.out); err != nil {
		return err
	}

	res, err := analysis.AnalyzeTraces(spec, rec.Traces())
	if err != nil {
		return err
	}
	logger.Debug("analysis done",
		slog.Int("traces", res.Traces),
		slog.Float64("offset", res.Offset),
	)

	if opts.out == "-" {
		return nil
	}
	return report(os.Stdout, res)
}

func save(rec *record.Recorder, path string) error {
	switch path {
	case "":
		return nil
	case "-":
		return rec.Save(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func report(w io.Writer, res analysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Kind\tFrequency [Hz]\tMagnitude\tPhase [rad]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t--------------\t---------\t-----------\n"); err != nil {
		return err
	}

	rows := func(kind string, freqs []float64, bins []complex128) error {
		mags := analysis.Magnitude(bins)
		for i, f := range freqs {
			if _, err := fmt.Fprintf(tw, "%s\t%.4f\t%.6g\t%.4f\n", kind, f, mags[i], cmplx.Phase(bins[i])); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rows("linear", res.Frequencies, res.Linear); err != nil {
		return err
	}
	if err := rows("quadratic", res.ProductFrequencies, res.Quadratic); err != nil {
		return err
	}

	return tw.Flush()
}
