// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package riemann implements the approximate Riemann solver:
// an upper bound on the maximum wave speed of a 1-D Riemann problem formed
// from the normal-projected states of two neighboring nodes. The bound must
// never underestimate the true maximum wave speed, which is what keeps the
// graph-viscosity scheme invariant-domain preserving.
package riemann

import (
	"math"
)

// pressureFloor guards the two-rarefaction closure against non-positive
// pressures (a van der Waals EOS admits them).
const pressureFloor = 1e-14

// Data holds the 1-D Riemann data extracted from a conserved state along a
// unit normal: density, normal velocity, pressure, and sound speed, plus the
// local surrogate gamma used by the two-rarefaction/two-shock closure.
type Data struct {
	Rho        float64
	VelN       float64
	Pressure   float64
	SoundSpeed float64
	Gamma      float64
}

// Result is the outcome of one Compute call.
type Result struct {
	LambdaMax  float64 // upper bound on the maximum wave speed
	PStar      float64 // the (possibly Newton-refined) star-region pressure
	Iterations int     // number of Newton iterations actually taken
}

// Solver is the Guermond-Popov approximate Riemann solver.
type Solver struct {
	NewtonMaxIter int     // NEWTON_MAX_ITER
	NewtonEps     float64 // relative-update exit tolerance (1e-10 double, 1e-5 single)
}

// NewSolver returns a Solver with the given Newton refinement settings.
func NewSolver(newtonMaxIter int, newtonEps float64) *Solver {
	return &Solver{NewtonMaxIter: newtonMaxIter, NewtonEps: newtonEps}
}

// Compute bounds the maximum wave speed in four steps:
//  1. left/right 1-D Riemann data are already formed by the caller (Data).
//  2. a cheap two-rarefaction upper bound lambda_max^(0) is computed.
//  3. up to NewtonMaxIter Newton steps refine the star pressure, monotonically
//     bracketed so the bound can only tighten, never undershoot.
//  4. the max of the final left/right wave speeds is returned.
func (o *Solver) Compute(left, right Data) Result {
	// pressureless (dust / linear advection) data: every wave is a contact
	// moving with the material, so the bound is just the normal velocities.
	if left.SoundSpeed == 0 && right.SoundSpeed == 0 {
		return Result{LambdaMax: math.Max(0, math.Max(-left.VelN, right.VelN))}
	}

	// a van der Waals EOS can legitimately report a non-positive pressure;
	// the two-rarefaction closure needs p > 0, so the data (not the physics)
	// is floored here. The resulting bound can only grow, never shrink.
	left.Pressure = math.Max(left.Pressure, pressureFloor)
	right.Pressure = math.Max(right.Pressure, pressureFloor)

	gamma := math.Min(left.Gamma, right.Gamma)
	pMin := math.Min(left.Pressure, right.Pressure)
	pMax := math.Max(left.Pressure, right.Pressure)

	pStar := twoRarefactionPressure(left, right, gamma)
	if pStar < pMin*1e-8 {
		pStar = pMin * 1e-8
	}

	iter := 0
	if o.NewtonMaxIter > 0 {
		pStar, iter = o.newtonRefine(left, right, gamma, pStar, pMin, pMax)
	}

	lambdaLeft := left.VelN - left.SoundSpeed*waveSpeedFactor(pStar, left.Pressure, gamma)
	lambdaRight := right.VelN + right.SoundSpeed*waveSpeedFactor(pStar, right.Pressure, gamma)
	lambdaMax := math.Max(-lambdaLeft, lambdaRight)
	if lambdaMax < 0 {
		lambdaMax = 0
	}
	return Result{LambdaMax: lambdaMax, PStar: pStar, Iterations: iter}
}

// twoRarefactionPressure is the cheap closed-form upper bound on p* obtained
// by assuming both waves are rarefactions.
func twoRarefactionPressure(l, r Data, gamma float64) float64 {
	z := (gamma - 1) / (2 * gamma)
	numerator := l.SoundSpeed + r.SoundSpeed - 0.5*(gamma-1)*(r.VelN-l.VelN)
	if numerator <= 0 {
		numerator = 1e-12
	}
	denominator := l.SoundSpeed/math.Pow(l.Pressure, z) + r.SoundSpeed/math.Pow(r.Pressure, z)
	return math.Pow(numerator/denominator, 1/z)
}

// waveSpeedFactor returns the factor multiplying the sound speed in the
// left/right characteristic speed estimate: 1 for a rarefaction (p* <= p),
// and the standard shock-strength factor for p* > p.
func waveSpeedFactor(pStar, p, gamma float64) float64 {
	ratio := (pStar - p) / p
	if ratio <= 0 {
		return 1
	}
	return math.Sqrt(1 + (gamma+1)/(2*gamma)*ratio)
}

// pressureFunction and its derivative implement the classic exact
// Riemann-solver closure (shock branch: Rankine-Hugoniot; rarefaction
// branch: isentropic), used here only to refine the cheap two-rarefaction
// estimate by a handful of Newton steps, never to solve the Riemann
// problem exactly.
func pressureFunction(p float64, d Data, gamma float64) (f, df float64) {
	if p > d.Pressure {
		// shock
		a := 2.0 / ((gamma + 1) * d.Rho)
		b := (gamma - 1) / (gamma + 1) * d.Pressure
		f = (p - d.Pressure) * math.Sqrt(a/(p+b))
		df = math.Sqrt(a/(p+b)) * (1 - 0.5*(p-d.Pressure)/(p+b))
		return
	}
	// rarefaction
	z := (gamma - 1) / (2 * gamma)
	f = 2 * d.SoundSpeed / (gamma - 1) * (math.Pow(p/d.Pressure, z) - 1)
	df = 1.0 / (d.Rho * d.SoundSpeed) * math.Pow(p/d.Pressure, -(gamma+1)/(2*gamma))
	return
}

// newtonRefine runs up to o.NewtonMaxIter Newton iterations on
// f(p) = fL(p) + fR(p) + (uR - uL), bracketing p into [pMin*1e-8, 2*pMax]
// after every step so a bad step can never produce a non-physical (negative
// or wildly overshot) pressure, and exiting early once the relative update
// falls below o.NewtonEps. This mirrors the monotone
// Newton-with-bracket structure gosl/num.NlSolver provides (see
// ana.RiemannExact.Solve for that pattern), hand-rolled here because the
// per-call NewtonMaxIter / NewtonEps configuration needs finer
// control than NlSolver's Init signature exposes.
func (o *Solver) newtonRefine(left, right Data, gamma, p0, pMin, pMax float64) (pStar float64, iterations int) {
	lo := pMin * 1e-8
	hi := 2 * pMax

	p := p0
	for iterations = 0; iterations < o.NewtonMaxIter; iterations++ {
		fL, dfL := pressureFunction(p, left, gamma)
		fR, dfR := pressureFunction(p, right, gamma)
		f := fL + fR + (right.VelN - left.VelN)
		df := dfL + dfR
		if df == 0 {
			break
		}
		step := f / df
		pNew := p - step
		if pNew < lo {
			pNew = 0.5 * (p + lo)
		}
		if pNew > hi {
			pNew = 0.5 * (p + hi)
		}
		relUpdate := math.Abs(pNew-p) / math.Max(pNew, lo)
		p = pNew
		if relUpdate < o.NewtonEps {
			iterations++
			break
		}
	}
	pStar = p
	if math.IsNaN(pStar) || math.IsInf(pStar, 0) {
		pStar = p0
	}
	return
}
