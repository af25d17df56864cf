// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package euler implements the compressible Euler hyperbolic-system view
// for an arbitrary equation of state (Euler-AEOS), of which the
// polytropic gas is a specialization (constant gamma, q=0, pInfty=0, b=0).
package euler

import (
	"math"

	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/hypexpl/riemann"
	"github.com/cpmech/gosl/chk"
)

// precomputed-tuple slot layout, fixed for the whole Euler family.
const (
	slotPressure   = 0
	slotGammaOrMin = 1 // raw surrogate gamma after cycle 0; gamma_min after cycle 1
	slotEntropy    = 2
	slotHarten     = 3
	numPrecomputed = 4
)

// System implements hypsys.System for the Euler / Euler-AEOS equations in
// dim in {1,2,3} spatial dimensions. It is a non-owning handle: EOS and the
// scalar physical parameters are read-only for the lifetime of a step.
type System struct {
	Dim                 int
	EOS                 EOS
	ReferenceDensity    float64
	VacuumSmall         float64 // small-vacuum relaxation density
	VacuumLarge         float64 // large-vacuum relaxation density
	ComputeStrictBounds bool
}

// NewSystem validates dim and constructs a System; it panics (a
// configuration error) rather than returning an error because
// dimension is a compile-time-ish, startup-fatal parameter.
func NewSystem(dim int, eos EOS) *System {
	if dim < 1 || dim > 3 {
		chk.Panic("euler: dimension out of range: %d (accepted: 1, 2, 3)", dim)
	}
	if eos == nil {
		chk.Panic("euler: equation of state must not be nil")
	}
	return &System{Dim: dim, EOS: eos, VacuumSmall: 1e-14, VacuumLarge: 1e-7}
}

func (o *System) ProblemDimension() int        { return o.Dim }
func (o *System) NumComponents() int           { return 2 + o.Dim }
func (o *System) NumPrecomputed() int          { return numPrecomputed }
func (o *System) NumPrecomputationCycles() int { return 2 }
func (o *System) PreferVectorEOS() bool        { return o.EOS.PreferVectorInterface() }

// ToPrimitive decomposes a conserved state into (rho, velocity, specific
// internal energy e).
func (o *System) ToPrimitive(u []float64) (rho float64, v []float64, e float64) {
	rho = u[0]
	m := u[1 : 1+o.Dim]
	v = make([]float64, o.Dim)
	momSq := 0.0
	for k, mk := range m {
		v[k] = hypsys.SafeDivisionKeepSignZero(mk, rho)
		momSq += mk * mk
	}
	E := u[1+o.Dim]
	rhoE := E - 0.5*hypsys.SafeDivisionKeepSignZero(momSq, rho)
	e = hypsys.SafeDivisionKeepSignZero(rhoE, rho)
	return
}

// FromPrimitive is the exact inverse of ToPrimitive; round-tripping through
// it must reproduce the original conserved state exactly.
func (o *System) FromPrimitive(rho float64, v []float64, e float64) []float64 {
	u := make([]float64, o.NumComponents())
	u[0] = rho
	momSq := 0.0
	for k, vk := range v {
		u[1+k] = rho * vk
		momSq += vk * vk
	}
	u[1+o.Dim] = rho*e + 0.5*rho*momSq
	return u
}

// internalEnergyDensity returns rho*e = E - 0.5|m|^2/rho.
func (o *System) internalEnergyDensity(u []float64) float64 {
	m := u[1 : 1+o.Dim]
	momSq := 0.0
	for _, mk := range m {
		momSq += mk * mk
	}
	E := u[1+o.Dim]
	return E - 0.5*hypsys.SafeDivisionKeepSignZero(momSq, u[0])
}

// IsAdmissible checks positivity of density (above the small-vacuum
// relaxation threshold VacuumSmall*ReferenceDensity, which is 0 when no
// reference density is configured) and the EOS-shifted internal energy
// inequality (rho e) >= rho*q + pInfty*(1 - b*rho).
func (o *System) IsAdmissible(u []float64) bool {
	return u[0] > o.VacuumSmall*o.ReferenceDensity && o.InternalEnergyDensity(u) >= 0
}

// Flux returns the conserved flux contracted with unit normal n:
// F.n = [rho*vn, m*vn + p*n, vn*(E+p)].
func (o *System) Flux(u []float64, n []float64) []float64 {
	rho, v, e := o.ToPrimitive(u)
	p := o.EOS.Pressure(rho, e)
	vn := hypsys.Dot(v, n)
	E := u[1+o.Dim]
	F := make([]float64, o.NumComponents())
	F[0] = rho * vn
	for k := 0; k < o.Dim; k++ {
		F[1+k] = u[1+k]*vn + p*n[k]
	}
	F[1+o.Dim] = vn * (E + p)
	return F
}

// PrecomputeCycle implements the two-cycle precompute loop.
//
// Cycle 0 writes p and the raw surrogate gamma for this node only (reading
// only u, not the one-ring) into precomp[slotPressure] and
// precomp[slotGammaOrMin].
//
// Cycle 1 reads every one-ring tuple as it stood at the end of cycle 0
// (the sweep driver hands in a snapshot, so a neighbor's concurrent
// cycle-1 write can never be observed) to form gamma_min, then overwrites
// precomp[slotGammaOrMin] with gamma_min and fills the entropy slots.
func (o *System) PrecomputeCycle(cycle int, u []float64, precomp []float64, oneRingPrecomp [][]float64) {
	rho, _, e := o.ToPrimitive(u)
	q, pInfty, b := o.EOS.ReferenceParameters()
	switch cycle {
	case 0:
		p := o.EOS.Pressure(rho, e)
		precomp[slotPressure] = p
		precomp[slotGammaOrMin] = o.surrogateGamma(rho, e, p, q, pInfty, b)
	case 1:
		gammaMin := precomp[slotGammaOrMin]
		for _, nb := range oneRingPrecomp {
			if nb[slotGammaOrMin] < gammaMin {
				gammaMin = nb[slotGammaOrMin]
			}
		}
		precomp[slotGammaOrMin] = gammaMin
		precomp[slotEntropy] = o.specificEntropy(rho, e, gammaMin, q, pInfty, b)
		precomp[slotHarten] = o.hartenEntropy(rho, e, gammaMin, q, pInfty, b)
	default:
		chk.Panic("euler: precompute cycle out of range: %d", cycle)
	}
}

// PrecomputeBlock0 is the batched (vector-EOS) variant of precompute cycle
// 0 for the node range [lo, hi): rho and e are gathered into block-local
// scratch arrays, a single VectorPressure call fills the pressures, and the
// results are scattered back together with the surrogate gammas. The sweep
// driver selects this path when the EOS prefers the vector interface.
func (o *System) PrecomputeBlock0(U [][]float64, precomp [][]float64, lo, hi int) {
	n := hi - lo
	rho := make([]float64, n)
	e := make([]float64, n)
	p := make([]float64, n)
	for k := 0; k < n; k++ {
		rho[k], _, e[k] = o.ToPrimitive(U[lo+k])
	}
	o.EOS.VectorPressure(rho, e, p)
	q, pInfty, b := o.EOS.ReferenceParameters()
	for k := 0; k < n; k++ {
		precomp[lo+k][slotPressure] = p[k]
		precomp[lo+k][slotGammaOrMin] = o.surrogateGamma(rho[k], e[k], p[k], q, pInfty, b)
	}
}

// Density returns rho = u[0].
func (o *System) Density(u []float64) float64 { return u[0] }

// InternalEnergyDensity returns the EOS-shifted internal energy density
// rho*e - rho*q - pInfty*(1-b*rho), the quantity whose positivity defines
// admissibility and whose lower bound the limiter enforces on trial states.
// For a polytropic gas the shift vanishes and this is plain rho*e.
func (o *System) InternalEnergyDensity(u []float64) float64 {
	rho := u[0]
	q, pInfty, b := o.EOS.ReferenceParameters()
	return o.internalEnergyDensity(u) - rho*q - pInfty*(1-b*rho)
}

// EntropyFromState computes s(u) directly (not from a precomputed tuple),
// for the limiter's bound (3) root find on trial states U_L + l*P.
func (o *System) EntropyFromState(u []float64, gammaMin float64) float64 {
	rho, _, e := o.ToPrimitive(u)
	q, pInfty, b := o.EOS.ReferenceParameters()
	return o.specificEntropy(rho, e, gammaMin, q, pInfty, b)
}

func (o *System) Pressure(precomp []float64) float64       { return precomp[slotPressure] }
func (o *System) SpecificEntropy(precomp []float64) float64 { return precomp[slotEntropy] }
func (o *System) HartenEntropy(precomp []float64) float64   { return precomp[slotHarten] }
func (o *System) GammaMin(precomp []float64) float64        { return precomp[slotGammaOrMin] }

// surrogateGamma implements gamma(rho,e,p) = 1 + (p+pInfty)(1-b rho) /
// (rho(e-q) - pInfty(1-b rho)), with the numerator of the ratio clamped
// >=0 and the denominator clamped >=eps.
func (o *System) surrogateGamma(rho, e, p, q, pInfty, b float64) float64 {
	covolume := 1 - b*rho
	num := (p + pInfty) * covolume
	den := rho*(e-q) - pInfty*covolume
	return 1 + hypsys.SafeDivision(num, den, epsDivision)
}

// SurrogatePressure inverts surrogateGamma exactly for the given gamma;
// round-tripping surrogateGamma then SurrogatePressure must reproduce p to
// machine precision.
func (o *System) SurrogatePressure(rho, e, gamma, q, pInfty, b float64) float64 {
	covolume := 1 - b*rho
	den := rho*(e-q) - pInfty*covolume
	return (gamma-1)*hypsys.SafeDivisionKeepSign(den, covolume) - pInfty
}

// SoundSpeedSquared implements the surrogate sound speed squared formula.
// The result is not clamped and can be negative; callers take the square
// root with hypsys.ClampSqrt, which maps a negative radicand to zero.
func (o *System) SoundSpeedSquared(rho, e, gamma, q, pInfty, b float64) float64 {
	covolume := 1 - b*rho
	bracket := rho*(e-q) - pInfty*covolume
	num := gamma * (gamma - 1) * bracket
	den := rho * covolume * covolume
	return hypsys.SafeDivisionKeepSign(num, den)
}

func (o *System) specificEntropy(rho, e, gammaMin, q, pInfty, b float64) float64 {
	covolume := 1 - b*rho
	bracket := rho*(e-q) - pInfty*covolume
	specificVolumeShift := hypsys.SafeDivisionKeepSignZero(1, rho) - b
	return hypsys.SafeDivisionKeepSign(bracket*math.Pow(specificVolumeShift, gammaMin), covolume)
}

func (o *System) hartenEntropy(rho, e, gammaMin, q, pInfty, b float64) float64 {
	covolume := 1 - b*rho
	bracket := hypsys.PositivePart(rho*rho*(e-q) - rho*pInfty*covolume)
	base := bracket * math.Pow(covolume, gammaMin-1)
	if base <= 0 {
		return 0
	}
	return math.Pow(base, 1/(gammaMin+1))
}

// EntropyFlux returns eta*v, the flux of the Harten entropy surrogate, for
// the entropy-viscosity commutator indicator. precomp must already hold the
// cycle-1 results for this node.
func (o *System) EntropyFlux(u []float64, precomp []float64) []float64 {
	_, v, _ := o.ToPrimitive(u)
	eta := precomp[slotHarten]
	f := make([]float64, o.Dim)
	for k := 0; k < o.Dim; k++ {
		f[k] = eta * v[k]
	}
	return f
}

// RiemannData projects u onto n and packages the 1-D Riemann data for the
// approximate Riemann solver. With a non-nil precomp, the pressure and
// gamma_min come from the precomputed tuple (so the wave-speed closure uses
// the same surrogate the entropies use); with nil precomp both are
// recomputed from u.
func (o *System) RiemannData(u []float64, precomp []float64, n []float64) riemann.Data {
	rho, v, e := o.ToPrimitive(u)
	q, pInfty, b := o.EOS.ReferenceParameters()
	var p, gamma float64
	if precomp != nil {
		p = precomp[slotPressure]
		gamma = precomp[slotGammaOrMin]
	} else {
		p = o.EOS.Pressure(rho, e)
		gamma = o.surrogateGamma(rho, e, p, q, pInfty, b)
	}
	a := hypsys.ClampSqrt(o.SoundSpeedSquared(rho, e, gamma, q, pInfty, b))
	return riemann.Data{
		Rho:        rho,
		VelN:       hypsys.Dot(v, n),
		Pressure:   p,
		SoundSpeed: a,
		Gamma:      gamma,
	}
}

// BoundaryOperator applies the boundary operator of the given kind.
// boundaryState is the prescribed exterior state (for dirichlet variants) or
// nil (for slip/no_slip, which only need u and n).
func (o *System) BoundaryOperator(kind hypsys.BoundaryKind, u []float64, n []float64, boundaryState []float64) []float64 {
	switch kind {
	case hypsys.Dirichlet:
		out := make([]float64, len(boundaryState))
		copy(out, boundaryState)
		return out
	case hypsys.DirichletMomentum:
		out := make([]float64, len(u))
		copy(out, u)
		copy(out[1:1+o.Dim], boundaryState[1:1+o.Dim])
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
	case hypsys.Dynamic:
		return o.dynamicBoundary(u, n, boundaryState)
	default:
		chk.Panic("euler: unknown boundary kind: %d", int(kind))
		return nil
	}
}

// dynamicBoundary implements the characteristic-decomposition boundary
// operator. It computes the two Riemann invariants R1 = vn - 2a/(gamma-1)
// and R2 = vn + 2a/(gamma-1) for the interior state and the prescribed
// far-field state, then reconstructs depending on vn vs +-a:
//
//	supersonic inflow  (vn <= -a): full Dirichlet (far-field state)
//	subsonic inflow    (-a < vn <= 0): replace R2 with the far-field R2
//	subsonic outflow   (0 < vn < a): replace R1 with the far-field R1
//	supersonic outflow (vn >= a): identity (interior state)
//
// If the reconstructed R2 < R1 this "hopes for the best" rather
// than silently clamping: it is guarded by an assertion-style panic in
// keeping with the source's documented behavior, not a silent clamp.
func (o *System) dynamicBoundary(u, n, farField []float64) []float64 {
	rho, v, e := o.ToPrimitive(u)

	// characteristic reconstruction is meaningless in near-vacuum: fall
	// back to the far-field state below the large relaxation threshold.
	if rho <= o.VacuumLarge*o.ReferenceDensity {
		out := make([]float64, len(farField))
		copy(out, farField)
		return out
	}
	q, pInfty, b := o.EOS.ReferenceParameters()
	p := o.EOS.Pressure(rho, e)
	gamma := o.surrogateGamma(rho, e, p, q, pInfty, b)
	a := hypsys.ClampSqrt(o.SoundSpeedSquared(rho, e, gamma, q, pInfty, b))
	vn := hypsys.Dot(v, n)

	rhoF, vF, eF := o.ToPrimitive(farField)
	pF := o.EOS.Pressure(rhoF, eF)
	gammaF := o.surrogateGamma(rhoF, eF, pF, q, pInfty, b)
	aF := hypsys.ClampSqrt(o.SoundSpeedSquared(rhoF, eF, gammaF, q, pInfty, b))
	vnF := hypsys.Dot(vF, n)

	switch {
	case vn <= -a:
		// supersonic inflow
		out := make([]float64, len(farField))
		copy(out, farField)
		return out
	case vn <= 0:
		// subsonic inflow: replace R2 using far-field data, keep interior R1
		r1 := riemannInvariant1(vn, a, gamma)
		r2 := riemannInvariant2(vnF, aF, gammaF)
		if r2 < r1 {
			chk.Panic("euler: dynamic boundary produced R2 < R1 at subsonic inflow (vn=%g, a=%g); numerical data is inconsistent", vn, a)
		}
		return reconstructFromInvariants(o, rho, v, n, r1, r2, gamma, q, pInfty, b)
	case vn < a:
		// subsonic outflow: replace R1 using far-field data, keep interior R2
		r1 := riemannInvariant1(vnF, aF, gammaF)
		r2 := riemannInvariant2(vn, a, gamma)
		if r2 < r1 {
			chk.Panic("euler: dynamic boundary produced R2 < R1 at subsonic outflow (vn=%g, a=%g); numerical data is inconsistent", vn, a)
		}
		return reconstructFromInvariants(o, rho, v, n, r1, r2, gamma, q, pInfty, b)
	default:
		// supersonic outflow: identity
		out := make([]float64, len(u))
		copy(out, u)
		return out
	}
}

func riemannInvariant1(vn, a, gamma float64) float64 { return vn - 2*a/(gamma-1) }
func riemannInvariant2(vn, a, gamma float64) float64 { return vn + 2*a/(gamma-1) }

// reconstructFromInvariants rebuilds a state whose normal velocity and sound
// speed satisfy the given R1, R2, keeping the interior density and
// tangential velocity unchanged and setting the specific internal energy
// from the new sound speed at that density.
func reconstructFromInvariants(o *System, rho float64, v, n []float64, r1, r2, gamma, q, pInfty, b float64) []float64 {
	vnNew := 0.5 * (r1 + r2)
	aNew := 0.25 * (gamma - 1) * (r2 - r1)
	vnOld := hypsys.Dot(v, n)
	vNew := make([]float64, o.Dim)
	for k := 0; k < o.Dim; k++ {
		vNew[k] = v[k] + (vnNew-vnOld)*n[k]
	}
	// e follows from a^2 at the interior density via the surrogate
	// sound-speed relation, inverted for e at fixed rho.
	covolume := 1 - b*rho
	eNew := q + hypsys.SafeDivisionKeepSign(aNew*aNew*covolume*covolume, gamma*(gamma-1)) + pInfty*covolume/rho
	return o.FromPrimitive(rho, vNew, eNew)
}
