package main // import "powerflow/cmd/powerflow"

import (
	"flag"
	"fmt"
	"log"
	"os"

	"powerflow/pkg/caseio"
	"powerflow/pkg/engine"
	"powerflow/pkg/util"
)

func main() {
	caseName := flag.String("case", "two-bus", "toy network: two-bus | three-bus-ring | trafo-tap")
	mode := flag.String("mode", "ac", "solve mode: ac | dc")
	maxIter := flag.Int("max-iter", 20, "Newton-Raphson iteration limit")
	tol := flag.Float64("tol", 1e-8, "Newton-Raphson mismatch tolerance")
	flag.Parse()

	e, err := buildCase(*caseName)
	if err != nil {
		log.Fatalf("building case %q: %v", *caseName, err)
	}

	n := e.BusCount()
	flatStart := make([]complex128, n)
	for i := range flatStart {
		flatStart[i] = 1
	}

	switch *mode {
	case "ac":
		ok, err := e.ComputeNewton(flatStart, *maxIter, *tol)
		if err != nil || !ok {
			fmt.Fprintf(os.Stderr, "newton did not converge: %v\n", err)
			os.Exit(1)
		}
	case "dc":
		p := make([]float64, n)
		if _, err := e.ComputeDC(p, 0); err != nil {
			fmt.Fprintf(os.Stderr, "dc solve failed: %v\n", err)
			os.Exit(1)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	printResults(e)
}

func buildCase(name string) (*engine.Engine, error) {
	switch name {
	case "two-bus":
		return caseio.TwoBusLine()
	case "three-bus-ring":
		return caseio.ThreeBusRing()
	case "trafo-tap":
		return caseio.TransformerTap()
	default:
		return nil, fmt.Errorf("unknown case %q", name)
	}
}

func printResults(e *engine.Engine) {
	vm := e.GetVm()
	va := e.GetVa()
	fmt.Println("\nPower Flow Results:")
	fmt.Println("===================")
	for i := range vm {
		fmt.Println(util.FormatMagnitudePhase(fmt.Sprintf("V(%d)", i), vm[i], va[i]))
	}
}
