// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shallow implements the shallow-water hyperbolic-system view: a
// structurally simpler sibling of hypsys/euler (no equation of state, a
// single precompute cycle) that exercises the same hypsys.System contract.
package shallow

import (
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/riemann"
	"github.com/cpmech/gosl/chk"
)

const (
	slotHydrostaticPressure = 0
	slotEnergy              = 1 // doubles as both "specific entropy" and Harten entropy surrogate
	numPrecomputed          = 2
)

// System implements hypsys.System for the shallow-water equations,
// U = (h, h*u), in dim in {1,2} horizontal dimensions.
type System struct {
	Dim     int
	Gravity float64 // g
}

// NewSystem validates dim (1 or 2 for shallow water) and the gravitational
// constant.
func NewSystem(dim int, gravity float64) *System {
	if dim < 1 || dim > 2 {
		chk.Panic("shallow: dimension out of range: %d (accepted: 1, 2)", dim)
	}
	if gravity <= 0 {
		chk.Panic("shallow: gravity must be positive, got %g", gravity)
	}
	return &System{Dim: dim, Gravity: gravity}
}

func (o *System) ProblemDimension() int        { return o.Dim }
func (o *System) NumComponents() int           { return 1 + o.Dim }
func (o *System) NumPrecomputed() int          { return numPrecomputed }
func (o *System) NumPrecomputationCycles() int { return 1 }
func (o *System) PreferVectorEOS() bool        { return false }

// ToPrimitive decomposes U=(h, h*u) into (h, u).
func (o *System) ToPrimitive(u []float64) (h float64, v []float64) {
	h = u[0]
	v = make([]float64, o.Dim)
	for k, mk := range u[1 : 1+o.Dim] {
		v[k] = hypsys.SafeDivisionKeepSignZero(mk, h)
	}
	return
}

// FromPrimitive is the exact inverse of ToPrimitive.
func (o *System) FromPrimitive(h float64, v []float64) []float64 {
	u := make([]float64, o.NumComponents())
	u[0] = h
	for k, vk := range v {
		u[1+k] = h * vk
	}
	return u
}

func (o *System) IsAdmissible(u []float64) bool {
	return u[0] > 0
}

// Flux returns F.n = [h*(v.n), h*v*(v.n) + 0.5*g*h^2*n].
func (o *System) Flux(u []float64, n []float64) []float64 {
	h, v := o.ToPrimitive(u)
	vn := hypsys.Dot(v, n)
	p := 0.5 * o.Gravity * h * h // hydrostatic pressure term
	F := make([]float64, o.NumComponents())
	F[0] = h * vn
	for k := 0; k < o.Dim; k++ {
		F[1+k] = u[1+k]*vn + p*n[k]
	}
	return F
}

// PrecomputeCycle fills the hydrostatic pressure and the mechanical energy
// (used both as the "specific entropy" and "Harten entropy" surrogates for
// the limiter and indicator, since shallow water has a single convex
// mathematical entropy rather than an EOS-dependent family). Shallow water
// needs only a single cycle: there is no gamma_min to propagate from the
// one-ring.
func (o *System) PrecomputeCycle(cycle int, u []float64, precomp []float64, oneRingPrecomp [][]float64) {
	if cycle != 0 {
		chk.Panic("shallow: precompute cycle out of range: %d", cycle)
	}
	h, v := o.ToPrimitive(u)
	precomp[slotHydrostaticPressure] = 0.5 * o.Gravity * h * h
	speedSq := hypsys.Dot(v, v)
	precomp[slotEnergy] = 0.5*h*speedSq + 0.5*o.Gravity*h*h
}

// Density returns h = u[0].
func (o *System) Density(u []float64) float64 { return u[0] }

// InternalEnergyDensity returns the mechanical energy density
// 0.5*h*|v|^2 + 0.5*g*h^2, the same quantity precomp[slotEnergy] holds at a
// node, evaluated here on an arbitrary trial state for the limiter's bound
// (2) root find.
func (o *System) InternalEnergyDensity(u []float64) float64 {
	h, v := o.ToPrimitive(u)
	return 0.5*h*hypsys.Dot(v, v) + 0.5*o.Gravity*h*h
}

// EntropyFromState mirrors InternalEnergyDensity: shallow water has a single
// mechanical-energy entropy, so gammaMin is ignored.
func (o *System) EntropyFromState(u []float64, gammaMin float64) float64 {
	return o.InternalEnergyDensity(u)
}

func (o *System) Pressure(precomp []float64) float64        { return precomp[slotHydrostaticPressure] }
func (o *System) GammaMin(precomp []float64) float64        { return 0 }
func (o *System) SpecificEntropy(precomp []float64) float64 { return precomp[slotEnergy] }
func (o *System) HartenEntropy(precomp []float64) float64   { return precomp[slotEnergy] }

// WaveSpeed returns the shallow-water characteristic speed sqrt(g*h), used
// by the shallow-water Riemann solver as the analogue of the Euler sound
// speed.
func (o *System) WaveSpeed(h float64) float64 {
	return hypsys.ClampSqrt(o.Gravity * h)
}

// EntropyFlux returns the flux of the mechanical energy, (E + p)*v, the
// shallow-water entropy flux used by the commutator indicator.
func (o *System) EntropyFlux(u []float64, precomp []float64) []float64 {
	_, v := o.ToPrimitive(u)
	total := precomp[slotEnergy] + precomp[slotHydrostaticPressure]
	f := make([]float64, o.Dim)
	for k := 0; k < o.Dim; k++ {
		f[k] = total * v[k]
	}
	return f
}

// RiemannData projects u onto n. The shallow-water equations are formally
// the isentropic Euler equations with p = g*h^2/2, for which the polytropic
// exponent is 2; the Guermond-Popov wave-speed closure is reused with
// Gamma = 2 and a = sqrt(g*h).
func (o *System) RiemannData(u []float64, precomp []float64, n []float64) riemann.Data {
	h, v := o.ToPrimitive(u)
	return riemann.Data{
		Rho:        h,
		VelN:       hypsys.Dot(v, n),
		Pressure:   0.5 * o.Gravity * h * h,
		SoundSpeed: o.WaveSpeed(h),
		Gamma:      2,
	}
}

// BoundaryOperator implements the subset of boundary kinds meaningful for
// shallow water: Dirichlet (replace h and momentum), Slip (remove normal
// momentum, used for solid walls), NoSlip (zero momentum). DirichletMomentum
// and Dynamic are not meaningful without a gas-dynamics sound speed and are
// rejected with a configuration-error panic rather than silently degrading.
func (o *System) BoundaryOperator(kind hypsys.BoundaryKind, u []float64, n []float64, boundaryState []float64) []float64 {
	switch kind {
	case hypsys.Dirichlet:
		out := make([]float64, len(boundaryState))
		copy(out, boundaryState)
		return out
	case hypsys.Slip:
		out := make([]float64, len(u))
		copy(out, u)
		mn := hypsys.Dot(u[1:1+o.Dim], n)
		for k := 0; k < o.Dim; k++ {
			out[1+k] -= mn * n[k]
		}
		return out
	case hypsys.NoSlip:
		out := make([]float64, len(u))
		copy(out, u)
		for k := 0; k < o.Dim; k++ {
			out[1+k] = 0
		}
		return out
	default:
		chk.Panic("shallow: boundary kind %d is not supported for the shallow water system", int(kind))
		return nil
	}
}
