// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypstep

import (
	"math"
	"sync/atomic"

	"github.com/cpmech/hypexpl/hypeq"
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/indicator"
	"github.com/cpmech/hypexpl/limiter"
	"github.com/cpmech/hypexpl/offline"
	"github.com/cpmech/hypexpl/stencil"
	"github.com/cpmech/gosl/chk"
)

// StageContribution is a read-only Runge-Kutta stage state with its weight:
// the high-order flux of a step becomes (1-sum w_s)*F(U^n) + sum w_s*F(U^s).
type StageContribution struct {
	U      [][]float64
	Weight float64
}

// Module owns the per-step storage (precomputed tuples, graph viscosity,
// limiter matrices) and performs the sweeps of one explicit update: the
// system's precompute cycles, the d_ij/tau_max edge sweep, the low-order forward
// Euler update, the high-order antidiffusive correction, and the iterated
// convex limiter. It is created once at prepare() time, sized from
// offline.Data, and reused across every step; the state vector U stays
// owned by the caller.
type Module struct {
	Eq   *hypeq.Equation
	Off  *offline.Data
	Kern *stencil.Kernel
	Red  Reducer
	Ctrl *Controller

	// LimiterIters is N_iter, the number of compute-bounds/solve-l/apply
	// passes per step; each pass tightens the bounds around the newly
	// limited state.
	LimiterIters int

	n, ncomp, dim, nprec int
	rev                  [][]int

	precomp     [][]float64
	precompPrev [][]float64
	etaOld      []float64
	lastDt      float64

	alpha  []float64
	dij    [][]float64
	dDiag  []float64
	pij    [][][]float64
	lij    [][]float64
	uLow   [][]float64
	uNew   [][]float64
	rhoMin []float64
	rhoMax []float64
	entMin []float64

	tauBits  uint64 // atomic float64 bits of the running tau_max minimum
	violated int32  // set by any thread that finds an inadmissible node
}

// BlockPrecomputer is the batched variant of precompute cycle 0: systems
// whose EOS prefers the vector interface (PreferVectorEOS) implement it to
// gather a whole block of states into scratch arrays and fill the pressures
// with one out-of-lane call.
type BlockPrecomputer interface {
	PrecomputeBlock0(U [][]float64, precomp [][]float64, lo, hi int)
}

// Reducer is the collective-operation contract the module needs from the
// ensemble layer: a global minimum for tau_max and a ghost
// refresh for distributed vectors. ensemble.Reducer implements it. A nil
// Reducer is accepted and treated as a single-rank run, which is how the
// tests build their modules.
type Reducer interface {
	Distributed() bool
	MinReduce(x float64) float64
	SumReduce(vec []float64)
}

// NewModule allocates every per-step matrix and vector sized from off and
// validates the inputs that must be sane before the first sweep: a
// non-positive lumped mass is a programmer error, not a transient one.
func NewModule(eq *hypeq.Equation, off *offline.Data, red Reducer, ctrl *Controller, limiterIters int) *Module {
	if eq == nil || off == nil || ctrl == nil {
		chk.Panic("hypstep: equation, offline data and controller must not be nil")
	}
	n := off.Pattern.NumNodes
	if off.OwnStart == 0 && off.OwnEnd == 0 {
		off.OwnEnd = n
	}
	for i, m := range off.LumpedMass {
		if m <= 0 {
			chk.Panic("hypstep: non-positive lumped mass %g at node %d", m, i)
		}
	}
	if limiterIters <= 0 {
		limiterIters = 2
	}
	o := &Module{
		Eq:           eq,
		Off:          off,
		Kern:         stencil.NewKernel(n, off.Pattern.Neighbors),
		Red:          red,
		Ctrl:         ctrl,
		LimiterIters: limiterIters,
		n:            n,
		ncomp:        eq.System.NumComponents(),
		dim:          eq.System.ProblemDimension(),
		nprec:        eq.System.NumPrecomputed(),
		rev:          off.Pattern.ReverseIndex(),
	}
	alloc2 := func(cols int) [][]float64 {
		m := make([][]float64, n)
		for i := range m {
			m[i] = make([]float64, cols)
		}
		return m
	}
	o.precomp = alloc2(o.nprec)
	o.precompPrev = alloc2(o.nprec)
	o.etaOld = make([]float64, n)
	o.alpha = make([]float64, n)
	o.dDiag = make([]float64, n)
	o.rhoMin = make([]float64, n)
	o.rhoMax = make([]float64, n)
	o.entMin = make([]float64, n)
	o.uLow = alloc2(o.ncomp)
	o.uNew = alloc2(o.ncomp)
	o.dij = make([][]float64, n)
	o.lij = make([][]float64, n)
	o.pij = make([][][]float64, n)
	for i := 0; i < n; i++ {
		row := len(off.Pattern.Neighbors[i])
		o.dij[i] = make([]float64, row)
		o.lij[i] = make([]float64, row)
		o.pij[i] = make([][]float64, row)
		for k := range o.pij[i] {
			o.pij[i][k] = make([]float64, o.ncomp)
		}
	}
	return o
}

// Alpha returns the indicator vector of the last attempted step.
func (o *Module) Alpha() []float64 { return o.alpha }

// Dij returns the graph-viscosity value for row i's k-th neighbor, and
// DDiag the diagonal d_ii = -sum_j d_ij; both reflect the last attempted
// step and exist for verification.
func (o *Module) Dij(i, k int) float64 { return o.dij[i][k] }
func (o *Module) DDiag(i int) float64  { return o.dDiag[i] }

// constrained reports whether node i is a constrained degree of freedom
// (stencil row of length one, i.e. no off-diagonal neighbors); every sweep
// skips those rows.
func (o *Module) constrained(i int) bool { return len(o.Off.Pattern.Neighbors[i]) == 0 }

// cancel is the dispatch_check hook: sweeps poll it at block boundaries and
// stop early once any thread has flagged an inadmissible node.
func (o *Module) cancel() bool { return atomic.LoadInt32(&o.violated) == 1 }

// PrepareStateVector applies the boundary operators to U in place and
// refreshes its ghost region; call it once on the initial condition before
// the first Step (boundaries are re-applied after every accepted step
// automatically).
func (o *Module) PrepareStateVector(U [][]float64) {
	for _, b := range o.Off.Boundaries {
		U[b.Node] = o.Eq.System.BoundaryOperator(b.Kind, U[b.Node], b.Normal, b.State)
	}
	o.syncGhosts(U)
}

// syncGhosts refreshes the ghost rows of V from their owners: each rank
// scatters its owned rows into a zeroed full-length buffer and an
// all-reduce sum reconstructs every rank's view. Outside MPI this is a
// no-op.
func (o *Module) syncGhosts(V [][]float64) {
	if o.Red == nil || !o.Red.Distributed() {
		return
	}
	buffer := make([]float64, o.n)
	for c := 0; c < len(V[0]); c++ {
		for i := range buffer {
			buffer[i] = 0
		}
		for i := o.Off.OwnStart; i < o.Off.OwnEnd; i++ {
			buffer[i] = V[i][c]
		}
		o.Red.SumReduce(buffer)
		for i := 0; i < o.n; i++ {
			if i < o.Off.OwnStart || i >= o.Off.OwnEnd {
				V[i][c] = buffer[i]
			}
		}
	}
}

// syncGhostScalars is syncGhosts for a per-node scalar (the indicator).
func (o *Module) syncGhostScalars(v []float64) {
	if o.Red == nil || !o.Red.Distributed() {
		return
	}
	buffer := make([]float64, o.n)
	for i := o.Off.OwnStart; i < o.Off.OwnEnd; i++ {
		buffer[i] = v[i]
	}
	o.Red.SumReduce(buffer)
	for i := 0; i < o.n; i++ {
		if i < o.Off.OwnStart || i >= o.Off.OwnEnd {
			v[i] = buffer[i]
		}
	}
}

// Step advances U by one accepted explicit step of at most dtProposed,
// returning the dt actually taken. stages, if non-empty, are read-only
// Runge-Kutta stage contributions blended into the high-order flux. On
// success U holds the new state with boundary operators applied and ghosts
// refreshed; on error U is untouched. ErrRestart asks the caller to call
// Step again with a smaller dt (Ctrl.TauMax holds the last computed CFL=1
// step).
func (o *Module) Step(U [][]float64, dtProposed float64, stages []StageContribution) (dt float64, err error) {
	stage := Stage{
		Precompute:   func() error { o.precompute(U); return nil },
		MaxWaveSpeed: func() (float64, error) { return o.computeDijAndTau(U) },
		LowOrder:     func(dt float64) error { o.lowOrder(U, dt); return nil },
		HighOrderAndLimit: func(dt float64) error {
			o.highOrderAndLimit(U, dt, stages)
			return nil
		},
		IsAdmissible: func() bool { return o.verifyAdmissible() },
	}
	dt, err = o.Ctrl.Step(stage, dtProposed)
	if err != nil {
		return 0, err
	}

	// accept: publish the limited state, remember the entropies for the
	// next step's commutator, re-apply boundaries.
	for i := 0; i < o.n; i++ {
		copy(U[i], o.uNew[i])
		o.etaOld[i] = o.Eq.System.HartenEntropy(o.precomp[i])
	}
	o.lastDt = dt
	o.PrepareStateVector(U)
	return dt, nil
}

// precompute runs the system's precompute cycles as barrier-separated node
// sweeps. Cycle c reads the one-ring tuples exactly as they stood at the
// end of cycle c-1: the tuples are double-buffered between cycles so a
// neighbor's concurrent cycle-c write can never be observed.
func (o *Module) precompute(U [][]float64) {
	atomic.StoreInt32(&o.violated, 0)
	sys := o.Eq.System
	cycles := sys.NumPrecomputationCycles()
	for cycle := 0; cycle < cycles; cycle++ {
		if cycle > 0 {
			o.Kern.ForEachNode(func(i int) {
				copy(o.precompPrev[i], o.precomp[i])
			}, nil)
		}
		c := cycle
		if bp, ok := sys.(BlockPrecomputer); ok && c == 0 && sys.PreferVectorEOS() {
			// vector-EOS path: one gathered EOS call per block, with
			// block-local scratch owned by the executing goroutine
			o.Kern.ForEachBlock(func(lo, hi int) {
				bp.PrecomputeBlock0(U, o.precomp, lo, hi)
			}, nil)
			continue
		}
		o.Kern.ForEachNode(func(i int) {
			if o.constrained(i) {
				return
			}
			var ring [][]float64
			if c > 0 {
				nbs := o.Off.Pattern.Neighbors[i]
				ring = make([][]float64, 0, len(nbs)+1)
				ring = append(ring, o.precompPrev[i])
				for _, j := range nbs {
					ring = append(ring, o.precompPrev[j])
				}
			}
			sys.PrecomputeCycle(c, U[i], o.precomp[i], ring)
		}, nil)
	}
}

// computeDijAndTau fills the graph-viscosity matrix over the strict upper
// triangle (the lower triangle and diagonal follow by symmetry), tightens
// the thread-shared tau_max by compare-and-swap, and min-reduces it across
// ranks. The returned tau_max is the CFL=1 step; the controller applies the
// CFL number, so tau(CFL=c) == c*tau(CFL=1) exactly.
func (o *Module) computeDijAndTau(U [][]float64) (float64, error) {
	sys := o.Eq.System
	pat := o.Off.Pattern
	atomic.StoreUint64(&o.tauBits, math.Float64bits(math.Inf(1)))

	o.Kern.ForEachEdgeStrictUpper(func(i, k, j int) {
		norm := pat.CijNorm(i, k)
		if norm == 0 {
			o.dij[i][k] = 0
			o.dij[j][o.rev[i][k]] = 0
			return
		}
		nij := make([]float64, o.dim)
		for c := range nij {
			nij[c] = pat.Cij[i][k][c] / norm
		}
		resIJ := o.Eq.Riemann.Compute(
			sys.RiemannData(U[i], o.precomp[i], nij),
			sys.RiemannData(U[j], o.precomp[j], nij),
		)
		d := resIJ.LambdaMax * norm

		kj := o.rev[i][k]
		normJI := pat.CijNorm(j, kj)
		if normJI > 0 {
			nji := make([]float64, o.dim)
			for c := range nji {
				nji[c] = pat.Cij[j][kj][c] / normJI
			}
			resJI := o.Eq.Riemann.Compute(
				sys.RiemannData(U[j], o.precomp[j], nji),
				sys.RiemannData(U[i], o.precomp[i], nji),
			)
			if dj := resJI.LambdaMax * normJI; dj > d {
				d = dj
			}
		}
		o.dij[i][k] = d
		o.dij[j][kj] = d
	}, nil)

	// diagonal and the CFL=1 time step, tightened across threads by CAS.
	o.Kern.ForEachNode(func(i int) {
		if o.constrained(i) {
			return
		}
		sum := 0.0
		for _, d := range o.dij[i] {
			sum += d
		}
		o.dDiag[i] = -sum
		if sum <= 0 {
			return
		}
		tau := o.Off.LumpedMass[i] / (2 * sum)
		for {
			oldBits := atomic.LoadUint64(&o.tauBits)
			if tau >= math.Float64frombits(oldBits) {
				break
			}
			if atomic.CompareAndSwapUint64(&o.tauBits, oldBits, math.Float64bits(tau)) {
				break
			}
		}
	}, nil)

	tau := math.Float64frombits(atomic.LoadUint64(&o.tauBits))
	if o.Red != nil {
		tau = o.Red.MinReduce(tau)
	}
	if math.IsInf(tau, 1) {
		return 0, chk.Err("hypstep: no admissible time step: every stencil row is constrained or the wave speeds vanished")
	}
	return tau, nil
}

// lowOrder assembles the graph-viscosity forward-Euler update into uLow:
//
//	uLow_i = U_i - dt/m_i * sum_j [ (F_j - F_i).c_ij - d_ij (U_j - U_i) ]
//
// The flux difference form uses only off-diagonal c_ij and is algebraically
// identical to the full Galerkin divergence because sum_j c_ij = 0 over the
// one-ring including i itself.
func (o *Module) lowOrder(U [][]float64, dt float64) {
	sys := o.Eq.System
	pat := o.Off.Pattern
	o.Kern.ForEachNode(func(i int) {
		copy(o.uLow[i], U[i])
		if o.constrained(i) {
			return
		}
		inv := dt / o.Off.LumpedMass[i]
		for k, j := range pat.Neighbors[i] {
			norm := pat.CijNorm(i, k)
			if norm == 0 {
				continue
			}
			nij := make([]float64, o.dim)
			for c := range nij {
				nij[c] = pat.Cij[i][k][c] / norm
			}
			fj := sys.Flux(U[j], nij)
			fi := sys.Flux(U[i], nij)
			d := o.dij[i][k]
			for c := 0; c < o.ncomp; c++ {
				o.uLow[i][c] += inv * (d*(U[j][c]-U[i][c]) - norm*(fj[c]-fi[c]))
			}
		}
	}, o.cancel)
}

// highOrderAndLimit builds the limited high-order state in uNew: indicator
// sweep, antidiffusive edge fluxes p_ij, optional stage-flux blending, then
// LimiterIters rounds of bounds / l_ij / apply.
func (o *Module) highOrderAndLimit(U [][]float64, dt float64, stages []StageContribution) {
	o.computeAlpha(U)
	o.computePij(U)
	o.applyStageFluxes(U, dt, stages)
	o.limitLoop(dt)
}

// computeAlpha runs the indicator over every unconstrained node and
// synchronizes the ghost entries, so alpha_ij = min(alpha_i, alpha_j) is
// identical on every rank that shares the edge.
func (o *Module) computeAlpha(U [][]float64) {
	sys := o.Eq.System
	pat := o.Off.Pattern
	ind := o.Eq.Indicator
	o.Kern.ForEachNode(func(i int) {
		if o.constrained(i) {
			o.alpha[i] = 0
			return
		}
		self := indicatorSample(sys, U[i], o.precomp[i], o.etaOld[i], o.lastDt)
		ring := make([]indicator.Neighbor, 0, len(pat.Neighbors[i]))
		for k, j := range pat.Neighbors[i] {
			ring = append(ring, indicator.Neighbor{
				Cij:    pat.Cij[i][k],
				Sample: indicatorSample(sys, U[j], o.precomp[j], o.etaOld[j], o.lastDt),
			})
		}
		o.alpha[i] = ind.Compute(self, ring)
	}, o.cancel)
	o.syncGhostScalars(o.alpha)
}

// computePij fills the antidiffusive edge fluxes over the strict upper
// triangle with the lower triangle set to the negation:
//
//	p_ij = min(alpha_i, alpha_j) * d_ij * (U_j - U_i),   p_ji = -p_ij
func (o *Module) computePij(U [][]float64) {
	o.Kern.ForEachEdgeStrictUpper(func(i, k, j int) {
		a := o.alpha[i]
		if o.alpha[j] < a {
			a = o.alpha[j]
		}
		d := o.dij[i][k]
		kj := o.rev[i][k]
		for c := 0; c < o.ncomp; c++ {
			p := a * d * (U[j][c] - U[i][c])
			o.pij[i][k][c] = p
			o.pij[j][kj][c] = -p
		}
	}, o.cancel)
}

// applyStageFluxes seeds uNew from uLow plus the Runge-Kutta stage flux
// blending: with weights w_s, the high-order flux difference gains
// sum_s w_s * [ (G_j - G_i).c_ij ] where G = F(U^s) - F(U^n). The blending
// is a consistent Galerkin term rather than antidiffusion, so it enters the
// high-order baseline directly and the limiter sees it through the bounds
// it computes from that baseline.
func (o *Module) applyStageFluxes(U [][]float64, dt float64, stages []StageContribution) {
	sys := o.Eq.System
	pat := o.Off.Pattern
	o.Kern.ForEachNode(func(i int) {
		copy(o.uNew[i], o.uLow[i])
		if o.constrained(i) || len(stages) == 0 {
			return
		}
		inv := dt / o.Off.LumpedMass[i]
		for k, j := range pat.Neighbors[i] {
			norm := pat.CijNorm(i, k)
			if norm == 0 {
				continue
			}
			nij := make([]float64, o.dim)
			for c := range nij {
				nij[c] = pat.Cij[i][k][c] / norm
			}
			fj := sys.Flux(U[j], nij)
			fi := sys.Flux(U[i], nij)
			for _, s := range stages {
				sj := sys.Flux(s.U[j], nij)
				si := sys.Flux(s.U[i], nij)
				for c := 0; c < o.ncomp; c++ {
					gj := s.Weight * (sj[c] - fj[c])
					gi := s.Weight * (si[c] - fi[c])
					o.uNew[i][c] -= inv * norm * (gj - gi)
				}
			}
		}
	}, o.cancel)
}

// limitLoop runs LimiterIters rounds of: one-ring bounds from the current
// candidate, per-edge l_ij with l_ij = l_ji = min, apply the limited
// increment, and shrink the leftover antidiffusion by (1-l) for the next
// round.
func (o *Module) limitLoop(dt float64) {
	sys := o.Eq.System
	pat := o.Off.Pattern
	lim := o.Eq.Limiter
	for iter := 0; iter < o.LimiterIters; iter++ {
		// (a) one-ring bounds on the current candidate, relaxed per config
		o.Kern.ForEachNode(func(i int) {
			if o.constrained(i) {
				return
			}
			gmin := sys.GammaMin(o.precomp[i])
			rho := sys.Density(o.uNew[i])
			ent := sys.EntropyFromState(o.uNew[i], gmin)
			b := limiter.Bounds{RhoMin: rho, RhoMax: rho, EntropyMin: ent}
			for _, j := range pat.Neighbors[i] {
				rhoJ := sys.Density(o.uNew[j])
				if rhoJ < b.RhoMin {
					b.RhoMin = rhoJ
				}
				if rhoJ > b.RhoMax {
					b.RhoMax = rhoJ
				}
				if entJ := sys.EntropyFromState(o.uNew[j], gmin); entJ < b.EntropyMin {
					b.EntropyMin = entJ
				}
			}
			b = lim.Relax(b)
			o.rhoMin[i], o.rhoMax[i], o.entMin[i] = b.RhoMin, b.RhoMax, b.EntropyMin
		}, o.cancel)

		// (b) per-edge coefficient, symmetrized to the minimum
		o.Kern.ForEachEdgeStrictUpper(func(i, k, j int) {
			scaleI := dt / o.Off.LumpedMass[i]
			scaleJ := dt / o.Off.LumpedMass[j]
			kj := o.rev[i][k]
			pI := make([]float64, o.ncomp)
			pJ := make([]float64, o.ncomp)
			for c := 0; c < o.ncomp; c++ {
				pI[c] = scaleI * o.pij[i][k][c]
				pJ[c] = scaleJ * o.pij[j][kj][c]
			}
			li := lim.LimitEdge(o.uNew[i], pI, o.boundsAt(i), sys.GammaMin(o.precomp[i]))
			lj := lim.LimitEdge(o.uNew[j], pJ, o.boundsAt(j), sys.GammaMin(o.precomp[j]))
			l := limiter.SymmetrizeEdge(li, lj)
			o.lij[i][k] = l
			o.lij[j][kj] = l
		}, o.cancel)

		// (c) apply the limited increments
		o.Kern.ForEachNode(func(i int) {
			if o.constrained(i) {
				return
			}
			inv := dt / o.Off.LumpedMass[i]
			for k := range pat.Neighbors[i] {
				l := o.lij[i][k]
				for c := 0; c < o.ncomp; c++ {
					o.uNew[i][c] += inv * l * o.pij[i][k][c]
				}
			}
		}, o.cancel)

		// leftover antidiffusion for the next round
		if iter+1 < o.LimiterIters {
			o.Kern.ForEachEdgeStrictUpper(func(i, k, j int) {
				l := o.lij[i][k]
				kj := o.rev[i][k]
				for c := 0; c < o.ncomp; c++ {
					o.pij[i][k][c] *= 1 - l
					o.pij[j][kj][c] *= 1 - l
				}
			}, o.cancel)
		}
	}
	o.syncGhosts(o.uNew)
}

func (o *Module) boundsAt(i int) limiter.Bounds {
	return limiter.Bounds{RhoMin: o.rhoMin[i], RhoMax: o.rhoMax[i], EntropyMin: o.entMin[i]}
}

// indicatorSample packages one node's fields for the indicator strategies.
func indicatorSample(sys hypsys.System, u, precomp []float64, etaOld, lastDt float64) indicator.Sample {
	return indicator.Sample{
		Entropy:     sys.HartenEntropy(precomp),
		EntropyOld:  etaOld,
		EntropyFlux: sys.EntropyFlux(u, precomp),
		Scalar:      sys.Density(u),
		Dt:          lastDt,
	}
}

// verifyAdmissible sweeps the limited candidate; any thread that finds an
// inadmissible node raises the shared flag, which the dispatch_check hook
// turns into prompt cancellation of the remaining blocks.
func (o *Module) verifyAdmissible() bool {
	atomic.StoreInt32(&o.violated, 0)
	sys := o.Eq.System
	o.Kern.ForEachNode(func(i int) {
		if o.constrained(i) {
			return
		}
		if i < o.Off.OwnStart || i >= o.Off.OwnEnd {
			return
		}
		if !sys.IsAdmissible(o.uNew[i]) {
			atomic.StoreInt32(&o.violated, 1)
		}
	}, o.cancel)
	ok := atomic.LoadInt32(&o.violated) == 0
	atomic.StoreInt32(&o.violated, 0)
	return ok
}
