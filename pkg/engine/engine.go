// Package engine is the top-level orchestrator: it owns the ElementSets,
// the BusIndex, the last-built admittance matrices, and the last solve's
// results.
package engine

import (
	"io"
	"log/slog"
	"math"

	"powerflow/internal/pfconst"
	"powerflow/pkg/admittance"
	"powerflow/pkg/busindex"
	"powerflow/pkg/matrix"
	"powerflow/pkg/network"
	"powerflow/pkg/results"
	"powerflow/pkg/solver"
	"powerflow/pfe"
)

// Engine is not safe for concurrent use by multiple goroutines: one solve
// runs at a time per instance, and distinct instances share no mutable
// state.
type Engine struct {
	buses   *network.BusSet
	lines   *network.LineSet
	trafos  *network.TransformerSet
	shunts  *network.ShuntSet
	loads   *network.LoadSet
	gens    *network.GeneratorSet
	sgens   *network.StaticGeneratorSet
	slackID int
	hasSlack bool

	baseMVA float64
	log     *slog.Logger

	built   bool
	idx     busindex.Index
	acRes   admittance.Result
	dcRes   admittance.Result

	converged bool
	vSolver   []complex128
	lastMode  string // "ac" or "dc", for Get* accessors' empty-on-reset behavior
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithBaseMVA overrides the default system apparent-power base used when
// scaling reported MW/MVAr.
func WithBaseMVA(mva float64) Option {
	return func(e *Engine) { e.baseMVA = mva }
}

// WithLogger attaches a structured logger; the default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{baseMVA: pfconst.DefaultBaseMVA, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) invalidate() {
	e.built = false
	e.converged = false
	e.vSolver = nil
	e.lastMode = ""
}

// SetBus replaces the bus table. All-or-nothing: on validation failure the
// engine's prior state is untouched.
func (e *Engine) SetBus(vnKV []float64) error {
	buses, err := network.NewBusSet(vnKV)
	if err != nil {
		return err
	}
	e.buses = buses
	e.invalidate()
	return nil
}

func (e *Engine) SetLines(r, x []float64, h []complex128, from, to []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	lines, err := network.NewLineSet(r, x, h, from, to, e.buses)
	if err != nil {
		return err
	}
	e.lines = lines
	e.invalidate()
	return nil
}

func (e *Engine) SetTrafos(r, x []float64, h []complex128, tapPct, tapPos []float64, tapHV []bool, hv, lv []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	trafos, err := network.NewTransformerSet(r, x, h, tapPct, tapPos, tapHV, hv, lv, e.buses)
	if err != nil {
		return err
	}
	e.trafos = trafos
	e.invalidate()
	return nil
}

func (e *Engine) SetShunts(p, q []float64, bus []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	shunts, err := network.NewShuntSet(p, q, bus, e.buses)
	if err != nil {
		return err
	}
	e.shunts = shunts
	e.invalidate()
	return nil
}

func (e *Engine) SetLoads(p, q []float64, bus []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	loads, err := network.NewLoadSet(p, q, bus, e.buses)
	if err != nil {
		return err
	}
	e.loads = loads
	e.invalidate()
	return nil
}

func (e *Engine) SetGens(p, vset []float64, bus []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	gens, err := network.NewGeneratorSet(p, vset, bus, e.buses)
	if err != nil {
		return err
	}
	e.gens = gens
	e.invalidate()
	return nil
}

// SetStaticGens sets the PQ-only injection table for static generators:
// fixed P/Q sources that never promote a bus to PV.
func (e *Engine) SetStaticGens(p, q []float64, bus []int) error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	sgens, err := network.NewStaticGeneratorSet(p, q, bus, e.buses)
	if err != nil {
		return err
	}
	e.sgens = sgens
	e.invalidate()
	return nil
}

func (e *Engine) SetSlack(id int) error {
	if e.buses == nil || !e.buses.InRange(id) {
		return pfe.NewShapeError("slack_id", pfe.ErrIndexOutOfRange)
	}
	e.slackID = id
	e.hasSlack = true
	e.invalidate()
	return nil
}

// SetLoadP / SetLoadQ / SetShuntP / SetShuntQ / SetGenP / SetGenVSet mutate
// one element's value in place; they fail immediately if the element is
// disconnected, and invalidate cached Y/S/results without touching
// ElementSet shape.
func (e *Engine) SetLoadP(id int, p float64) error {
	if e.loads == nil {
		return pfe.NewShapeError("loads", pfe.ErrIndexOutOfRange)
	}
	if err := e.loads.SetP(id, p); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

func (e *Engine) SetLoadQ(id int, q float64) error {
	if e.loads == nil {
		return pfe.NewShapeError("loads", pfe.ErrIndexOutOfRange)
	}
	if err := e.loads.SetQ(id, q); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

func (e *Engine) SetShuntP(id int, p float64) error {
	if e.shunts == nil {
		return pfe.NewShapeError("shunts", pfe.ErrIndexOutOfRange)
	}
	if err := e.shunts.SetP(id, p); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

func (e *Engine) SetShuntQ(id int, q float64) error {
	if e.shunts == nil {
		return pfe.NewShapeError("shunts", pfe.ErrIndexOutOfRange)
	}
	if err := e.shunts.SetQ(id, q); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

func (e *Engine) SetGenP(id int, p float64) error {
	if e.gens == nil {
		return pfe.NewShapeError("generators", pfe.ErrIndexOutOfRange)
	}
	if err := e.gens.SetP(id, p); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

func (e *Engine) SetGenVSet(id int, v float64) error {
	if e.gens == nil {
		return pfe.NewShapeError("generators", pfe.ErrIndexOutOfRange)
	}
	if err := e.gens.SetVSet(id, v); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

// inputs bundles the current ElementSets into the shape admittance.Build
// and ResultsProjector consume.
func (e *Engine) inputs() admittance.Inputs {
	return admittance.Inputs{
		Buses: e.buses, Lines: e.lines, Trafos: e.trafos,
		Shunts: e.shunts, Loads: e.loads, Gens: e.gens, SGens: e.sgens,
		SlackID: e.slackID,
	}
}

// Rebuild asks BusIndex for a fresh mapping and admittance.Build for a
// fresh Y/S (AC) and B (DC). It must succeed before ComputeNewton or
// ComputeDC can run.
func (e *Engine) Rebuild() error {
	if e.buses == nil {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	if !e.hasSlack {
		return pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	idx, err := busindex.Build(e.buses.Active, e.slackID)
	if err != nil {
		return err
	}
	e.idx = idx
	e.acRes = admittance.Build(e.inputs(), idx, true)
	e.dcRes = admittance.Build(e.inputs(), idx, false)
	e.built = true
	e.converged = false
	e.vSolver = nil
	e.lastMode = ""
	e.log.Debug("rebuilt admittance", "active_buses", idx.Len())
	return nil
}

// ComputeNewton runs the AC Newton-Raphson path. v0 is grid-space; at PV
// buses its magnitude is replaced by the generator voltage setpoint (its
// angle is kept). On failure, cached ElementSets and Y/S survive untouched
// (callers can retry with different v0); only the result cache is reset.
func (e *Engine) ComputeNewton(v0 []complex128, maxIter int, tol float64) (bool, error) {
	if !e.built {
		return false, pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	if maxIter <= 0 {
		maxIter = pfconst.DefaultMaxIter
	}
	if tol <= 0 {
		tol = pfconst.DefaultTol
	}

	v0Solver := e.toSolverSpace(v0)
	for _, s := range e.acRes.PV {
		if vset, ok := admittance.PVVoltage(e.gens, e.idx, s); ok {
			a := cphase(v0Solver[s])
			v0Solver[s] = complex(vset*math.Cos(a), vset*math.Sin(a))
		}
	}
	nr, err := solver.SolveNewton(e.acRes.Y, e.acRes.S, e.acRes.PV, e.acRes.PQ, e.idx.SlackSolver, v0Solver, maxIter, tol)
	if err != nil {
		e.converged = false
		e.vSolver = nil
		e.lastMode = ""
		e.log.Warn("newton did not converge", "error", err)
		return false, err
	}
	e.converged = true
	e.vSolver = nr.V
	e.lastMode = "ac"
	return true, nil
}

// ComputeDC runs the reduced-system DC path. P and vaRef are grid-space;
// vaRef only sets the slack reference phase. Returns the grid-space
// voltage vector, or nil on failure.
func (e *Engine) ComputeDC(p []float64, vaRef float64) ([]complex128, error) {
	if !e.built {
		return nil, pfe.NewTopologyError(pfe.ErrNoActiveSlack)
	}
	n := e.idx.Len()
	pSolver := make([]float64, n)
	v0Solver := make([]complex128, n)
	for s := 0; s < n; s++ {
		g := e.idx.SolverToGrid[s]
		pSolver[s] = p[g]
		v0Solver[s] = complex(1, 0)
	}
	v0Solver[e.idx.SlackSolver] = complex(math.Cos(vaRef), math.Sin(vaRef))

	vSolver, err := solver.SolveDC(e.dcRes.B, pSolver, v0Solver, e.idx, e.gens)
	if err != nil {
		e.converged = false
		e.vSolver = nil
		e.lastMode = ""
		return nil, err
	}
	e.converged = true
	e.vSolver = vSolver
	e.lastMode = "dc"
	return e.toGridSpace(vSolver), nil
}

// toSolverSpace reindexes a grid-space complex vector into solver space
// using the current BusIndex; inactive buses are dropped.
func (e *Engine) toSolverSpace(vGrid []complex128) []complex128 {
	out := make([]complex128, e.idx.Len())
	for s := 0; s < e.idx.Len(); s++ {
		out[s] = vGrid[e.idx.SolverToGrid[s]]
	}
	return out
}

// toGridSpace expands a solver-space vector back to grid space, leaving
// zero at deactivated buses.
func (e *Engine) toGridSpace(vSolver []complex128) []complex128 {
	out := make([]complex128, e.buses.Len())
	for s, g := range e.idx.SolverToGrid {
		out[g] = vSolver[s]
	}
	return out
}

// Converged reports whether the last compute call succeeded.
func (e *Engine) Converged() bool { return e.converged }

// BusCount returns the number of grid-space buses set via SetBus.
func (e *Engine) BusCount() int {
	if e.buses == nil {
		return 0
	}
	return e.buses.Len()
}

// GetY returns the last-built AC admittance matrix, or nil if Rebuild has
// not run.
func (e *Engine) GetY() *matrix.ComplexMatrix {
	if !e.built {
		return nil
	}
	return e.acRes.Y
}

// GetPV and GetPQ return solver-space PV/PQ bus ids from the last rebuild.
func (e *Engine) GetPV() []int {
	if !e.built {
		return nil
	}
	return e.acRes.PV
}

func (e *Engine) GetPQ() []int {
	if !e.built {
		return nil
	}
	return e.acRes.PQ
}

// GetVm and GetVa return grid-space voltage magnitude/angle. They return
// nil when no successful solve has occurred since the last reset.
func (e *Engine) GetVm() []float64 {
	if !e.converged {
		return nil
	}
	vGrid := e.toGridSpace(e.vSolver)
	out := make([]float64, len(vGrid))
	for i, v := range vGrid {
		out[i] = cabs(v)
	}
	return out
}

func (e *Engine) GetVa() []float64 {
	if !e.converged {
		return nil
	}
	vGrid := e.toGridSpace(e.vSolver)
	out := make([]float64, len(vGrid))
	for i, v := range vGrid {
		out[i] = cphase(v)
	}
	return out
}

// GetResults projects the last solve into grid-space per-element reports.
// It returns the zero Results value when no successful solve has occurred.
func (e *Engine) GetResults() results.Results {
	if !e.converged {
		return results.Results{}
	}
	var y = e.acRes.Y
	if e.lastMode == "dc" {
		y = nil
	}
	return results.Project(e.lastMode == "ac", e.vSolver, y, e.idx, e.inputs(), e.baseMVA)
}

func cabs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}

func cphase(v complex128) float64 {
	return math.Atan2(imag(v), real(v))
}
