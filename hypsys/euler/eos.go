// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package euler

import (
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/gosl/chk"
)

// small value used to clamp denominators in the surrogate-gamma family of
// formulas.
const epsDivision = 1e-14

// EOS abstracts the equation of state used to close the Euler system. Every
// implementation must be able to compute pressure from (rho, e) and report
// whether it would rather be called through the batched (vector) interface.
type EOS interface {
	// Name identifies the EOS for error messages and configuration dispatch.
	Name() string

	// Pressure returns p(rho, e) for a single node (the "scalar" interface).
	Pressure(rho, e float64) float64

	// PreferVectorInterface reports whether the precompute sweep should
	// gather rho,e into scratch arrays and call VectorPressure once per
	// SIMD block instead of calling Pressure per lane.
	PreferVectorInterface() bool

	// VectorPressure fills p[k] = Pressure(rho[k], e[k]) for a whole block;
	// implementations that do not prefer the vector interface may still
	// implement it trivially (it is only invoked when PreferVectorInterface
	// is true).
	VectorPressure(rho, e, p []float64)

	// SpecificEnergy inverts Pressure at fixed density: it returns the e
	// with Pressure(rho, e) == p, used to turn primitive initial data into
	// conserved states.
	SpecificEnergy(rho, p float64) float64

	// ReferenceParameters returns (q, pInfty, covolumeB): the NASG-family
	// shift, stiffening pressure, and covolume used by the surrogate-gamma
	// and entropy formulas. A polytropic EOS returns (0, 0, 0).
	ReferenceParameters() (q, pInfty, covolumeB float64)
}

// Polytropic is the ideal/polytropic gas law p = (gamma-1) * rho * e.
type Polytropic struct {
	Gamma float64
}

func (o Polytropic) Name() string { return "polytropic gas" }

func (o Polytropic) Pressure(rho, e float64) float64 {
	return (o.Gamma - 1) * rho * e
}

func (o Polytropic) SpecificEnergy(rho, p float64) float64 {
	return hypsys.SafeDivisionKeepSign(p, (o.Gamma-1)*rho)
}

func (o Polytropic) PreferVectorInterface() bool { return false }

func (o Polytropic) VectorPressure(rho, e, p []float64) {
	for k := range rho {
		p[k] = o.Pressure(rho[k], e[k])
	}
}

func (o Polytropic) ReferenceParameters() (q, pInfty, covolumeB float64) { return 0, 0, 0 }

// VanDerWaals implements the van der Waals equation of state. It admits
// negative pressures; callers must not assume p+pInfty stays positive
// (see DESIGN.md).
type VanDerWaals struct {
	Gamma        float64
	A            float64 // "a" attraction parameter
	CovolumeB    float64 // "b" covolume parameter
	GasConstantR float64
}

func (o VanDerWaals) Name() string { return "van der waals" }

func (o VanDerWaals) Pressure(rho, e float64) float64 {
	// p = (gamma-1) * rho * (e - a*rho) / (1 - b*rho)  - a*rho^2
	covolume := 1 - o.CovolumeB*rho
	return hypsys.SafeDivisionKeepSign((o.Gamma-1)*rho*(e-o.A*rho), covolume) - o.A*rho*rho
}

func (o VanDerWaals) SpecificEnergy(rho, p float64) float64 {
	covolume := 1 - o.CovolumeB*rho
	return o.A*rho + hypsys.SafeDivisionKeepSign((p+o.A*rho*rho)*covolume, (o.Gamma-1)*rho)
}

func (o VanDerWaals) PreferVectorInterface() bool { return false }

func (o VanDerWaals) VectorPressure(rho, e, p []float64) {
	for k := range rho {
		p[k] = o.Pressure(rho[k], e[k])
	}
}

func (o VanDerWaals) ReferenceParameters() (q, pInfty, covolumeB float64) {
	// interpolation_pinfty_ is left unset by the source for van der Waals;
	// modeled here as pInfty == 0 and the caller must not assume p+pInfty>0.
	return 0, 0, o.CovolumeB
}

// NobleAbelStiffenedGas implements the NASG equation of state, the most
// general of the three and the one the surrogate-gamma formulas in
// hypsys/euler/system.go are written against directly.
type NobleAbelStiffenedGas struct {
	Gamma     float64
	CovolumeB float64
	PInfty    float64
	Q         float64
}

func (o NobleAbelStiffenedGas) Name() string { return "noble abel stiffened gas" }

func (o NobleAbelStiffenedGas) Pressure(rho, e float64) float64 {
	covolume := 1 - o.CovolumeB*rho
	num := (o.Gamma - 1) * rho * (e - o.Q) * covolume
	return hypsys.SafeDivisionKeepSign(num, covolume*covolume) - o.PInfty
}

func (o NobleAbelStiffenedGas) SpecificEnergy(rho, p float64) float64 {
	covolume := 1 - o.CovolumeB*rho
	return o.Q + hypsys.SafeDivisionKeepSign((p+o.PInfty)*covolume, (o.Gamma-1)*rho)
}

func (o NobleAbelStiffenedGas) PreferVectorInterface() bool { return false }

func (o NobleAbelStiffenedGas) VectorPressure(rho, e, p []float64) {
	for k := range rho {
		p[k] = o.Pressure(rho[k], e[k])
	}
}

func (o NobleAbelStiffenedGas) ReferenceParameters() (q, pInfty, covolumeB float64) {
	return o.Q, o.PInfty, o.CovolumeB
}

// Tabulated is a table-lookup EOS; it always prefers the vector interface
// since a single batched lookup amortizes the interpolation search.
type Tabulated struct {
	RhoGrid, EGrid []float64
	PTable         [][]float64 // PTable[i][j] == p(RhoGrid[i], EGrid[j])
}

func (o *Tabulated) Name() string { return "tabulated" }

func (o *Tabulated) PreferVectorInterface() bool { return true }

func (o *Tabulated) Pressure(rho, e float64) float64 {
	var p [1]float64
	var r, ee [1]float64
	r[0], ee[0] = rho, e
	o.VectorPressure(r[:], ee[:], p[:])
	return p[0]
}

func (o *Tabulated) VectorPressure(rho, e, p []float64) {
	if len(o.RhoGrid) < 2 || len(o.EGrid) < 2 {
		chk.Panic("tabulated EOS requires at least a 2x2 grid")
	}
	for k := range rho {
		i := bracket(o.RhoGrid, rho[k])
		j := bracket(o.EGrid, e[k])
		p[k] = bilinear(o.RhoGrid, o.EGrid, o.PTable, i, j, rho[k], e[k])
	}
}

func (o *Tabulated) ReferenceParameters() (q, pInfty, covolumeB float64) { return 0, 0, 0 }

// SpecificEnergy scans the energy grid for the bracket where the tabulated
// pressure crosses p at this density and interpolates linearly inside it;
// the table must be monotone in e for the result to be meaningful.
func (o *Tabulated) SpecificEnergy(rho, p float64) float64 {
	i := bracket(o.RhoGrid, rho)
	j := 0
	for j < len(o.EGrid)-2 {
		pHere := bilinear(o.RhoGrid, o.EGrid, o.PTable, i, j, rho, o.EGrid[j+1])
		if pHere >= p {
			break
		}
		j++
	}
	p0 := bilinear(o.RhoGrid, o.EGrid, o.PTable, i, j, rho, o.EGrid[j])
	p1 := bilinear(o.RhoGrid, o.EGrid, o.PTable, i, j, rho, o.EGrid[j+1])
	t := hypsys.SafeDivisionKeepSign(p-p0, p1-p0)
	return o.EGrid[j] + t*(o.EGrid[j+1]-o.EGrid[j])
}

func bracket(grid []float64, x float64) int {
	i := 0
	for i < len(grid)-2 && grid[i+1] < x {
		i++
	}
	return i
}

func bilinear(xg, yg []float64, f [][]float64, i, j int, x, y float64) float64 {
	x0, x1 := xg[i], xg[i+1]
	y0, y1 := yg[j], yg[j+1]
	tx := hypsys.SafeDivisionKeepSign(x-x0, x1-x0)
	ty := hypsys.SafeDivisionKeepSign(y-y0, y1-y0)
	f00, f10 := f[i][j], f[i+1][j]
	f01, f11 := f[i][j+1], f[i+1][j+1]
	return f00*(1-tx)*(1-ty) + f10*tx*(1-ty) + f01*(1-tx)*ty + f11*tx*ty
}
