// Command qsainfo builds a QSA stimulus and prints its properties.
//
// Usage:
//
//	qsainfo [flags]
//
// Examples:
//
//	qsainfo -fmin 1 -fmax 20 -seed-frequencies 7
//	qsainfo -dt 0.001 -traces 4 -alternance -1
//	qsainfo -codec -seed-frequencies 7 -seed-phases 3 > stim.txt
//	qsainfo -in stim.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-qsa/internal/stimflag"
	"github.com/cwbudde/algo-qsa/measure/qsa/codec"
	"github.com/cwbudde/algo-qsa/measure/qsa/stimulus"
)

func main() {
	stim := stimflag.Register(flag.CommandLine)
	text := flag.Bool("codec", false, "print the stimulus in codec text form only")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qsainfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Builds a QSA stimulus and prints its frequency sets and timing.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  qsainfo -fmin 1 -fmax 20 -seed-frequencies 7\n")
		fmt.Fprintf(os.Stderr, "  qsainfo -codec -seed-frequencies 7 -seed-phases 3 > stim.txt\n")
		fmt.Fprintf(os.Stderr, "  qsainfo -in stim.txt\n")
	}
	flag.Parse()

	spec, err := stim.Spec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *text {
		fmt.Print(codec.Print(spec))
		return
	}

	if err := printInfo(os.Stdout, spec); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printInfo(w io.Writer, spec stimulus.Spec) error {
	if _, err := fmt.Fprint(w, spec.String(), "\n"); err != nil {
		return err
	}

	im := spec.Grid.Intermodulation()
	freqs := spec.Grid.Fundamentals()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Index\tFrequency [Hz]\tAmplitude\tPhase [rad]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-----\t--------------\t---------\t-----------\n"); err != nil {
		return err
	}
	for i, k := range im.Generators() {
		if _, err := fmt.Fprintf(tw, "%d\t%.4f\t%g\t%.4f\n", k, freqs[i], spec.Amplitudes[i], spec.Phases[i]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nProducts: %s\nSamples per trace: %d\nTotal samples: %d (%.3f s)\n",
		joinInts(im.Products()),
		spec.TraceSamples(),
		spec.Samples(),
		float64(spec.Samples())*spec.Grid.Dt(),
	)
	return err
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
