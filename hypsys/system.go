// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hypsys defines the hyperbolic-system-view contract shared by every
// conservation law this module can advance (Euler, Euler-AEOS, shallow water)
// and the small numeric helpers ("safe division", "positive part") that the
// per-equation packages build their EOS and entropy surrogates on top of.
package hypsys

import (
	"math"

	"github.com/cpmech/hypexpl/riemann"
)

// BoundaryKind enumerates the boundary operators a System must be able to apply.
type BoundaryKind int

const (
	// Dirichlet replaces the full state with the prescribed boundary state.
	Dirichlet BoundaryKind = iota
	// DirichletMomentum replaces the momentum components only.
	DirichletMomentum
	// Slip subtracts the normal momentum component, leaving the tangential part.
	Slip
	// NoSlip zeros the momentum components.
	NoSlip
	// Dynamic decomposes into Riemann characteristics and reconstructs
	// depending on the normal velocity relative to the sound speed.
	Dynamic
)

// System is the per-equation physics contract. An implementation
// is a lightweight, non-owning handle: it carries compile-time-ish scalar
// parameters (EOS choice, reference density, dimension) but no per-step
// state. Per-node state flows through the precomputed vector, which the
// stencil kernel owns.
type System interface {
	// ProblemDimension returns d, the number of momentum/velocity components.
	ProblemDimension() int

	// NumComponents returns P, the number of conserved components (2+d for
	// Euler, 1+d for shallow water).
	NumComponents() int

	// NumPrecomputed returns the fixed per-node tuple length (e.g. 4 for
	// every Euler EOS, polytropic included: p, gamma_min, s, eta; 2 for
	// shallow water).
	NumPrecomputed() int

	// NumPrecomputationCycles returns the number of precompute sweeps needed
	// before the per-node tuple is complete (2 for Euler family: pressure+
	// surrogate gamma, then gamma_min-dependent entropies).
	NumPrecomputationCycles() int

	// IsAdmissible reports whether u satisfies the invariant-domain bounds
	// (density positivity, EOS-shifted internal energy positivity).
	IsAdmissible(u []float64) bool

	// Density returns the first conserved component (rho for Euler, h for
	// shallow water) of an arbitrary (not necessarily precomputed) state.
	Density(u []float64) float64

	// InternalEnergyDensity returns the quantity the limiter's positivity
	// bound (2) is imposed on, for an arbitrary candidate state u that may
	// not correspond to any node's precomputed tuple (e.g. a trial
	// low-order-plus-l*increment state during the limiter's root find).
	InternalEnergyDensity(u []float64) float64

	// EntropyFromState returns s(u) directly from a conserved state and a
	// gamma_min (ignored by systems, like shallow water, that have no
	// EOS-dependent entropy family), used by the limiter's bound (3) root
	// find on trial states.
	EntropyFromState(u []float64, gammaMin float64) float64

	// Flux returns the conserved flux tensor contracted with the unit normal n.
	Flux(u []float64, n []float64) []float64

	// EntropyFlux returns the entropy flux vector (length ProblemDimension)
	// of the system's entropy surrogate (eta*v for Euler, (E+p)*v for shallow
	// water), used by the entropy-viscosity
	// commutator indicator. precomp is this node's precomputed tuple.
	EntropyFlux(u []float64, precomp []float64) []float64

	// RiemannData projects u onto the unit normal n and returns the 1-D
	// Riemann data (density, normal velocity, pressure, sound speed,
	// surrogate gamma) the approximate Riemann solver consumes. precomp is
	// this node's precomputed tuple; passing nil asks for pressure and
	// surrogate gamma to be recomputed from u alone, for a state that has no
	// precomputed tuple.
	RiemannData(u []float64, precomp []float64, n []float64) riemann.Data

	// PrecomputeCycle fills precomp (length NumPrecomputed()) for node state u
	// during precompute cycle "cycle" (0-based). For cycle > 0, precomp
	// already holds the results of earlier cycles for u itself, and
	// oneRingPrecomp holds the same tuple (as filled at cycle-1) for every
	// node in the one-ring, used e.g. to take gamma_min = min over the ring.
	PrecomputeCycle(cycle int, u []float64, precomp []float64, oneRingPrecomp [][]float64)

	// SpecificEntropy and HartenEntropy read back already-precomputed values;
	// they exist as a contract so the limiter and indicator can query them
	// without depending on how the tuple is laid out internally.
	SpecificEntropy(precomp []float64) float64
	HartenEntropy(precomp []float64) float64
	Pressure(precomp []float64) float64

	// GammaMin returns the one-ring minimum surrogate gamma from the
	// precomputed tuple; systems without an EOS-dependent entropy family
	// return 0 (their EntropyFromState ignores it).
	GammaMin(precomp []float64) float64

	// BoundaryOperator applies one of the BoundaryKind operators and returns
	// the resulting state.
	BoundaryOperator(kind BoundaryKind, u []float64, n []float64, boundaryState []float64) []float64

	// PreferVectorEOS reports whether this system's equation of state wants
	// to be called in batched (vector) form rather than inlined per lane.
	PreferVectorEOS() bool
}

// SafeDivision implements the clamped division used throughout the
// Euler-AEOS surrogate formulas: numerator clamped to >= 0, denominator
// clamped to >= eps. This never panics and never returns a signed infinity
// from a near-zero denominator.
func SafeDivision(numerator, denominator, eps float64) float64 {
	n := PositivePart(numerator)
	d := denominator
	if d < eps {
		d = eps
	}
	return n / d
}

// SafeDivisionKeepSign divides without clamping the numerator's sign (used
// where the quantity being divided is legitimately allowed to go negative,
// e.g. a van der Waals pressure term or an entropy bracket), only guarding
// against a vanishing denominator.
func SafeDivisionKeepSign(numerator, denominator float64) float64 {
	const eps = 1e-14
	d := denominator
	if d >= 0 && d < eps {
		d = eps
	} else if d < 0 && d > -eps {
		d = -eps
	}
	return numerator / d
}

// SafeDivisionKeepSignZero is SafeDivisionKeepSign's cousin for ratios like
// velocity = momentum/density that should read as exactly zero in a vacuum
// (density ~ 0) rather than blow up.
func SafeDivisionKeepSignZero(numerator, denominator float64) float64 {
	const eps = 1e-14
	if denominator < eps {
		return 0
	}
	return numerator / denominator
}

// PositivePart returns max(x, 0).
func PositivePart(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// ClampSqrt returns sqrt(max(x,0)); negative radicands are clamped rather
// than propagating NaN.
func ClampSqrt(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}

// Norm2 returns the Euclidean norm of a small fixed-size vector (momentum,
// normals); d is at most 3 in this module so no allocation-heavy approach is
// warranted.
func Norm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// Dot returns the dot product of two equal-length vectors.
func Dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
