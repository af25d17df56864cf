// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package limiter implements the convex limiter: given a
// low-order update U_L and, for each graph edge (i,j), an antidiffusive flux
// P_ij, find the largest l_ij in [0,1] such that U_L + l_ij*P_ij stays inside
// the invariant domain (density bound, internal-energy positivity, entropy
// inequality), then symmetrize l_ij = l_ji = min(l_ij, l_ji).
package limiter

import (
	"math"

	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

// System is the subset of hypsys.System the limiter needs to evaluate its
// three bounds on a trial state.
type System interface {
	Density(u []float64) float64
	InternalEnergyDensity(u []float64) float64
	EntropyFromState(u []float64, gammaMin float64) float64
}

// Bounds carries the local min/max density and min entropy bounds assembled
// by the caller from the one-ring of node i; they track the current
// low-order candidate rather than being frozen at t^n. The internal-energy
// bound is not part of Bounds: LimitEdge uses a fixed floor of 0.
type Bounds struct {
	RhoMin     float64
	RhoMax     float64
	EntropyMin float64
}

// Config collects the limiter's tunables.
type Config struct {
	// NewtonMaxIter switches the Newton refinement that follows the
	// bisection bracket: a positive value enables it and a value <= 0
	// disables it (bisection bound only); SetDefault, called by NewLimiter,
	// replaces 0 with 4. The value does not limit the number of Newton
	// iterations, which num.NlSolver runs under its own settings.
	NewtonMaxIter int
	// NewtonTol is the acceptance tolerance for the refined root: a refined
	// l whose residual is below -NewtonTol is discarded in favor of the
	// bisection bound. It is not passed to num.NlSolver.
	NewtonTol float64
	// RelaxBounds widens the one-ring bounds by this factor times the local
	// oscillation, trading invariant-domain strictness for less aggressive
	// limiting; 0 keeps the bounds strict.
	RelaxBounds float64
	// RelaxOrder raises the relative oscillation to this power inside the
	// relaxation, so the widening vanishes faster where the solution is
	// already smooth. 1 relaxes proportionally to the oscillation itself.
	RelaxOrder int
}

// SetDefault fills unset (zero) fields with the reference values used by the
// single-cell, single-step regression tests.
func (o *Config) SetDefault() {
	if o.NewtonMaxIter == 0 {
		o.NewtonMaxIter = 4
	}
	if o.NewtonTol == 0 {
		o.NewtonTol = 1e-10
	}
	if o.RelaxOrder == 0 {
		o.RelaxOrder = 1
	}
}

// Limiter holds the configuration and the system used to evaluate bounds.
type Limiter struct {
	Sys    System
	Config Config
}

// NewLimiter constructs a Limiter with a validated Config.
func NewLimiter(sys System, cfg Config) *Limiter {
	if sys == nil {
		chk.Panic("limiter: system must not be nil")
	}
	cfg.SetDefault()
	return &Limiter{Sys: sys, Config: cfg}
}

// LimitEdge returns l_ij in [0,1], the largest fraction of the antidiffusive
// flux Pij that keeps uL+l*Pij inside the bounds (density, internal-energy
// positivity, entropy). gammaMin is the node's gamma_min (ignored by systems,
// like shallow water, whose EntropyFromState ignores it).
func (o *Limiter) LimitEdge(uL, Pij []float64, bounds Bounds, gammaMin float64) float64 {
	lo := o.limitDensity(uL, Pij, bounds)
	lo = math.Min(lo, o.limitInternalEnergy(uL, Pij, lo))
	lo = math.Min(lo, o.limitEntropy(uL, Pij, bounds.EntropyMin, gammaMin, lo))
	if lo < 0 {
		return 0
	}
	if lo > 1 {
		return 1
	}
	return lo
}

// SymmetrizeEdge returns min(lij, lji), the edge-pair limiting coefficient
// that keeps P_ij's contribution to node i and node j consistent.
func SymmetrizeEdge(lij, lji float64) float64 {
	return math.Min(lij, lji)
}

// Relax widens b by Config.RelaxBounds times the local density oscillation
// (raised to Config.RelaxOrder in relative form), per the relax_bounds
// option: the bounds stay pinned to the one-ring values where the solution
// is smooth and open up only where it already oscillates.
func (o *Limiter) Relax(b Bounds) Bounds {
	r := o.Config.RelaxBounds
	if r == 0 {
		return b
	}
	osc := b.RhoMax - b.RhoMin
	scale := math.Abs(b.RhoMax) + math.Abs(b.RhoMin)
	relOsc := hypsys.SafeDivisionKeepSignZero(osc, scale)
	factor := r * osc
	for p := 1; p < o.Config.RelaxOrder; p++ {
		factor *= relOsc
	}
	b.RhoMin -= factor
	b.RhoMax += factor
	b.EntropyMin -= r * math.Abs(b.EntropyMin) * relOsc
	return b
}

// limitDensity solves rho(uL + l*P) = rhoMin or rhoMax for the largest
// admissible l, linear in l since density is itself a conserved component.
func (o *Limiter) limitDensity(uL, Pij []float64, bounds Bounds) float64 {
	rhoL := o.Sys.Density(uL)
	rhoP := o.Sys.Density(Pij)
	l := 1.0
	if rhoP < 0 {
		l = math.Min(l, hypsys.SafeDivisionKeepSign(bounds.RhoMin-rhoL, rhoP))
	} else if rhoP > 0 {
		l = math.Min(l, hypsys.SafeDivisionKeepSign(bounds.RhoMax-rhoL, rhoP))
	}
	return l
}

// limitInternalEnergy finds the largest l in [0, upperBound] such that the
// internal-energy density along uL+l*Pij stays non-negative, bisecting and
// then Newton-refining the (generally nonlinear, since internal energy is a
// quadratic form of the conserved state) scalar root.
func (o *Limiter) limitInternalEnergy(uL, Pij []float64, upperBound float64) float64 {
	residual := func(l float64) float64 {
		return o.trialState(uL, Pij, l, func(u []float64) float64 {
			return o.Sys.InternalEnergyDensity(u)
		})
	}
	if residual(upperBound) >= 0 {
		return upperBound
	}
	if residual(0) < 0 {
		// already inadmissible at l=0; the caller's bounds are inconsistent,
		// nothing this edge alone can do.
		return 0
	}
	return o.bisectThenNewton(residual, 0, upperBound)
}

// limitEntropy finds the largest l in [0, upperBound] such that
// entropy(uL+l*Pij) stays above entropyMin.
func (o *Limiter) limitEntropy(uL, Pij []float64, entropyMin, gammaMin, upperBound float64) float64 {
	residual := func(l float64) float64 {
		return o.trialState(uL, Pij, l, func(u []float64) float64 {
			return o.Sys.EntropyFromState(u, gammaMin)
		}) - entropyMin
	}
	if residual(upperBound) >= 0 {
		return upperBound
	}
	if residual(0) < 0 {
		return 0
	}
	return o.bisectThenNewton(residual, 0, upperBound)
}

// trialState evaluates f(uL+l*Pij) without allocating a persistent scratch
// buffer per call site; d is sized implicitly from uL.
func (o *Limiter) trialState(uL, Pij []float64, l float64, f func(u []float64) float64) float64 {
	trial := make([]float64, len(uL))
	for k := range uL {
		trial[k] = uL[k] + l*Pij[k]
	}
	return f(trial)
}

// bisectThenNewton brackets a monotonically-decreasing-in-l residual (whose
// sign is known to be >=0 at lo and <0 at hi) down to a coarse bracket and
// then Newton-refines using gosl/num.NlSolver, following the same call
// pattern as the scalar nonlinear solves in ana (RiemannExact.Solve,
// DamBreak.Solve): Init(1, ffcn, nil, Jfcn, true, false, nil) then
// Solve. NlSolver needs an analytic or numerical Jacobian; since the
// residual here is only available as a closure (it wraps an arbitrary
// System method, not a fixed formula), the Jacobian is supplied via a
// central finite difference, matching gosl/num's documented fallback for
// problems without a hand-derived derivative.
func (o *Limiter) bisectThenNewton(residual func(float64) float64, lo, hi float64) float64 {
	for i := 0; i < 40 && hi-lo > 1e-13; i++ {
		mid := 0.5 * (lo + hi)
		if residual(mid) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	if o.Config.NewtonMaxIter <= 0 {
		return lo
	}

	const h = 1e-7
	ffcn := func(fx, x []float64) error {
		fx[0] = residual(x[0])
		return nil
	}
	jfcn := func(dfdx [][]float64, x []float64) error {
		dfdx[0][0] = (residual(x[0]+h) - residual(x[0]-h)) / (2 * h)
		return nil
	}

	var nls num.NlSolver
	defer nls.Clean()
	X := []float64{lo}
	nls.Init(1, ffcn, nil, jfcn, true, false, nil)
	nls.Solve(X, true)

	refined := X[0]
	if refined < lo || refined > hi || math.IsNaN(refined) {
		return lo
	}
	if residual(refined) < -o.Config.NewtonTol {
		return lo
	}
	return refined
}
