// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package indicator implements the per-node smoothness indicator:
// alpha_i in [0,1], blending the low-order-only (0) and high-order
// (1) updates. Four strategies are provided: the reference
// entropy-viscosity commutator, a Persson-Peraire-style smoothness jump, and
// the Zero/One indicators used for regression tests.
package indicator

import "math"

// Sample bundles everything an Indicator might need about one node and its
// one-ring neighbors. Not every field is used by every strategy.
type Sample struct {
	Entropy     float64   // eta_i at the current state
	EntropyOld  float64   // eta_i at the previous accepted step (for the commutator's time derivative)
	EntropyFlux []float64 // entropy flux vector at this node, f(eta_i) (dimension d)
	Scalar      float64   // the scalar field used by smoothness-jump indicators (rho, rho*e, or p)
	Dt          float64
}

// Neighbor bundles the geometric coefficient c_ij and the neighbor's Sample.
type Neighbor struct {
	Cij    []float64
	Sample Sample
}

// Indicator is the contract every strategy implements.
type Indicator interface {
	// Compute returns alpha_i in [0,1] for the node described by self, given
	// its one-ring neighbors.
	Compute(self Sample, oneRing []Neighbor) float64
}

// EntropyViscosityCommutator is the reference indicator: the absolute
// residual of a discrete entropy equation, normalized by a local maximum of
// the entropy flux divergence.
//
//	residual_i = (eta_i - eta_i_old)/dt + sum_j c_ij . f(eta_j)
//	ratio_i    = min(1, |residual_i| / (threshold * normalization_i))
//
// ratio measures roughness (large near shocks); alpha follows this
// package's 0 = low-order-only, 1 = full-high-order convention, so
// Compute returns 1 - ratio: the high-order correction is switched off
// exactly where the entropy residual says the solution is not smooth.
type EntropyViscosityCommutator struct {
	Threshold float64
}

func (o EntropyViscosityCommutator) Compute(self Sample, oneRing []Neighbor) float64 {
	timeDerivative := 0.0
	if self.Dt > 0 {
		timeDerivative = (self.Entropy - self.EntropyOld) / self.Dt
	}
	divergence := 0.0
	normalization := 1e-12
	for _, nb := range oneRing {
		contribution := dot(nb.Cij, nb.Sample.EntropyFlux)
		divergence += contribution
		if abs := math.Abs(contribution); abs > normalization {
			normalization = abs
		}
	}
	residual := math.Abs(timeDerivative + divergence)
	threshold := o.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	ratio := residual / (threshold * normalization)
	return 1 - clamp01(ratio)
}

// Smoothness is a Persson-Peraire-style jump indicator on a scalar field
// (density, rho*e, or pressure, selected by whatever the caller puts in
// Sample.Scalar). It is an alternative to the entropy-viscosity commutator,
// selectable at configuration time. Like the commutator it returns the
// complement of the measured jump ratio: uniform field -> 1 (high order),
// strong jump -> 0 (low order).
type Smoothness struct {
	Exponent float64 // jump sensitivity; 2 is the Persson-Peraire default
}

func (o Smoothness) Compute(self Sample, oneRing []Neighbor) float64 {
	exponent := o.Exponent
	if exponent <= 0 {
		exponent = 2
	}
	jumpSq := 0.0
	energy := 1e-12
	for _, nb := range oneRing {
		diff := self.Scalar - nb.Sample.Scalar
		jumpSq += diff * diff
		energy += self.Scalar*self.Scalar + nb.Sample.Scalar*nb.Sample.Scalar
	}
	ratio := jumpSq / energy
	return 1 - clamp01(math.Pow(ratio, 1/exponent)*float64(len(oneRing)))
}

// Zero always returns 0 (fully low-order); used for regression tests.
type Zero struct{}

func (Zero) Compute(Sample, []Neighbor) float64 { return 0 }

// One always returns 1 (fully high-order); used for regression tests.
type One struct{}

func (One) Compute(Sample, []Neighbor) float64 { return 1 }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		if i >= len(b) {
			break
		}
		s += a[i] * b[i]
	}
	return s
}
