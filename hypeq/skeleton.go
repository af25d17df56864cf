// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypeq

import (
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/indicator"
	"github.com/cpmech/hypexpl/limiter"
	"github.com/cpmech/hypexpl/riemann"
)

// skeletonSystem is the minimal hypsys.System implementation used only to
// smoke-test the stencil kernel and step controller without depending on the
// full Euler or shallow-water physics: a single scalar u advected by a fixed
// velocity, u_t + a.grad(u) = 0. It has no equation of state and no
// meaningful entropy family; EntropyFromState simply returns u^2/2, the
// convex entropy of linear advection.
type skeletonSystem struct {
	Dim      int
	Velocity []float64
}

// NewSkeletonSystem returns a linear-advection hypsys.System with the given
// constant velocity, used to build the "skeleton" Equation registered by
// NewSkeletonEquation.
func NewSkeletonSystem(velocity []float64) hypsys.System {
	return &skeletonSystem{Dim: len(velocity), Velocity: velocity}
}

func (o *skeletonSystem) ProblemDimension() int        { return o.Dim }
func (o *skeletonSystem) NumComponents() int           { return 1 }
func (o *skeletonSystem) NumPrecomputed() int          { return 1 }
func (o *skeletonSystem) NumPrecomputationCycles() int { return 1 }
func (o *skeletonSystem) PreferVectorEOS() bool        { return false }

func (o *skeletonSystem) IsAdmissible(u []float64) bool { return true }

func (o *skeletonSystem) Density(u []float64) float64             { return u[0] }
func (o *skeletonSystem) InternalEnergyDensity(u []float64) float64 { return 0.5 * u[0] * u[0] }
func (o *skeletonSystem) EntropyFromState(u []float64, gammaMin float64) float64 {
	return 0.5 * u[0] * u[0]
}

func (o *skeletonSystem) Flux(u []float64, n []float64) []float64 {
	return []float64{u[0] * hypsys.Dot(o.Velocity, n)}
}

func (o *skeletonSystem) EntropyFlux(u []float64, precomp []float64) []float64 {
	f := make([]float64, o.Dim)
	for k := 0; k < o.Dim; k++ {
		f[k] = precomp[0] * o.Velocity[k]
	}
	return f
}

// RiemannData reports a pressureless state: linear advection has a single
// characteristic moving at Velocity.n, which the Riemann solver's
// pressureless path turns into lambda_max = |Velocity.n|.
func (o *skeletonSystem) RiemannData(u []float64, precomp []float64, n []float64) riemann.Data {
	return riemann.Data{Rho: u[0], VelN: hypsys.Dot(o.Velocity, n)}
}

func (o *skeletonSystem) PrecomputeCycle(cycle int, u []float64, precomp []float64, oneRingPrecomp [][]float64) {
	precomp[0] = 0.5 * u[0] * u[0]
}

func (o *skeletonSystem) SpecificEntropy(precomp []float64) float64 { return precomp[0] }
func (o *skeletonSystem) HartenEntropy(precomp []float64) float64   { return precomp[0] }
func (o *skeletonSystem) Pressure(precomp []float64) float64 { return 0 }
func (o *skeletonSystem) GammaMin(precomp []float64) float64 { return 0 }

func (o *skeletonSystem) BoundaryOperator(kind hypsys.BoundaryKind, u []float64, n []float64, boundaryState []float64) []float64 {
	switch kind {
	case hypsys.Dirichlet:
		out := make([]float64, len(boundaryState))
		copy(out, boundaryState)
		return out
	default:
		out := make([]float64, len(u))
		copy(out, u)
		return out
	}
}

// NewSkeletonEquation builds the trivial linear-advection Equation used to
// smoke-test the stencil kernel and step controller without wiring a full
// physics package: no limiting ever engages (Zero indicator), and the
// Riemann solver degenerates to comparing the scalar advection speed along n.
func NewSkeletonEquation(velocity []float64) *Equation {
	sys := NewSkeletonSystem(velocity)
	return &Equation{
		Name:      "skeleton",
		System:    sys,
		Limiter:   limiter.NewLimiter(sys.(limiter.System), limiter.Config{}),
		Indicator: indicator.Zero{},
		Riemann:   riemann.NewSolver(0, 1e-10),
	}
}
