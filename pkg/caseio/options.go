// Package caseio provides SolveOptions (the caller-tunable knobs around a
// solve) and a handful of toy-network builders used by the demo CLI and by
// tests. No file formats are read or written here.
package caseio

import "powerflow/internal/pfconst"

// SolveOptions bundles the per-call knobs a solve needs, with the usual
// Go defaulting: a zero value means "use the package default".
type SolveOptions struct {
	MaxIter int
	Tol     float64
	BaseMVA float64
}

// WithDefaults fills unset (zero-value) fields with pfconst's defaults.
func (o SolveOptions) WithDefaults() SolveOptions {
	if o.MaxIter <= 0 {
		o.MaxIter = pfconst.DefaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = pfconst.DefaultTol
	}
	if o.BaseMVA <= 0 {
		o.BaseMVA = pfconst.DefaultBaseMVA
	}
	return o
}
