// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions used as references by the
// explicit hyperbolic solver's verification tests: the exact solution of
// the 1-D polytropic Euler Riemann problem (Sod and friends), the Stoker
// wet-bed dam break, and the isentropic vortex.
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/num"
)

// RiemannExact solves the 1-D polytropic Euler Riemann problem exactly:
// two constant states (RhoL,VL,PL) and (RhoR,VR,PR) separated at x=0,
// polytropic exponent Gamma. After Solve, Eval samples the self-similar
// solution at any xi = x/t.
type RiemannExact struct {

	// input
	RhoL, VL, PL float64
	RhoR, VR, PR float64
	Gamma        float64

	// derived by Solve
	aL, aR float64 // sound speeds of the outer states
	PStar  float64 // pressure in the star region
	VStar  float64 // velocity of the contact

	solved bool
}

// Init sets the problem data from a parameter list; unset entries keep the
// Sod defaults (rhol=1, pl=1, rhor=0.125, pr=0.1, vl=vr=0, gamma=1.4).
func (o *RiemannExact) Init(prms fun.Prms) {

	// default values: Sod's shock tube
	o.RhoL, o.VL, o.PL = 1.0, 0.0, 1.0
	o.RhoR, o.VR, o.PR = 0.125, 0.0, 0.1
	o.Gamma = 1.4

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rhol":
			o.RhoL = p.V
		case "vl":
			o.VL = p.V
		case "pl":
			o.PL = p.V
		case "rhor":
			o.RhoR = p.V
		case "vr":
			o.VR = p.V
		case "pr":
			o.PR = p.V
		case "gamma":
			o.Gamma = p.V
		}
	}

	if o.RhoL <= 0 || o.RhoR <= 0 || o.PL <= 0 || o.PR <= 0 {
		chk.Panic("ana: Riemann data must have positive densities and pressures")
	}
	o.aL = math.Sqrt(o.Gamma * o.PL / o.RhoL)
	o.aR = math.Sqrt(o.Gamma * o.PR / o.RhoR)
	o.solved = false
}

// fK is the classic pressure function of the K-side wave (shock branch:
// Rankine-Hugoniot; rarefaction branch: isentropic) and its derivative.
func (o *RiemannExact) fK(p, rhoK, pK, aK float64) (f, df float64) {
	g := o.Gamma
	if p > pK {
		A := 2.0 / ((g + 1) * rhoK)
		B := (g - 1) / (g + 1) * pK
		f = (p - pK) * math.Sqrt(A/(p+B))
		df = math.Sqrt(A/(p+B)) * (1 - 0.5*(p-pK)/(p+B))
		return
	}
	z := (g - 1) / (2 * g)
	f = 2 * aK / (g - 1) * (math.Pow(p/pK, z) - 1)
	df = 1 / (rhoK * aK) * math.Pow(p/pK, -(g+1)/(2*g))
	return
}

// Solve computes the star-region pressure and velocity with a scalar Newton
// solve on fL(p) + fR(p) + (vR - vL) = 0, seeded by the two-rarefaction
// estimate.
func (o *RiemannExact) Solve() {
	g := o.Gamma
	z := (g - 1) / (2 * g)

	// two-rarefaction seed
	num0 := o.aL + o.aR - 0.5*(g-1)*(o.VR-o.VL)
	den0 := o.aL/math.Pow(o.PL, z) + o.aR/math.Pow(o.PR, z)
	p0 := math.Pow(math.Max(num0, 1e-12)/den0, 1/z)
	if p0 < 1e-12 {
		p0 = 1e-12
	}

	ffcn := func(fx, x []float64) error {
		fL, _ := o.fK(x[0], o.RhoL, o.PL, o.aL)
		fR, _ := o.fK(x[0], o.RhoR, o.PR, o.aR)
		fx[0] = fL + fR + (o.VR - o.VL)
		return nil
	}
	jfcn := func(dfdx [][]float64, x []float64) error {
		_, dL := o.fK(x[0], o.RhoL, o.PL, o.aL)
		_, dR := o.fK(x[0], o.RhoR, o.PR, o.aR)
		dfdx[0][0] = dL + dR
		return nil
	}

	var nls num.NlSolver
	defer nls.Clean()
	Res := []float64{p0}
	nls.Init(1, ffcn, nil, jfcn, true, false, nil)
	nls.Solve(Res, true)

	o.PStar = Res[0]
	fL, _ := o.fK(o.PStar, o.RhoL, o.PL, o.aL)
	fR, _ := o.fK(o.PStar, o.RhoR, o.PR, o.aR)
	o.VStar = 0.5*(o.VL+o.VR) + 0.5*(fR-fL)
	o.solved = true
}

// Eval samples the self-similar solution at xi = x/t and returns the
// primitive state (rho, v, p). Solve must have been called first.
func (o *RiemannExact) Eval(xi float64) (rho, v, p float64) {
	if !o.solved {
		chk.Panic("ana: RiemannExact.Eval called before Solve")
	}
	g := o.Gamma
	if xi <= o.VStar {
		// left of the contact
		if o.PStar > o.PL {
			// left shock
			sL := o.VL - o.aL*math.Sqrt((g+1)/(2*g)*o.PStar/o.PL+(g-1)/(2*g))
			if xi <= sL {
				return o.RhoL, o.VL, o.PL
			}
			ratio := o.PStar / o.PL
			rho = o.RhoL * (ratio + (g-1)/(g+1)) / (ratio*(g-1)/(g+1) + 1)
			return rho, o.VStar, o.PStar
		}
		// left rarefaction
		aStarL := o.aL * math.Pow(o.PStar/o.PL, (g-1)/(2*g))
		head := o.VL - o.aL
		tail := o.VStar - aStarL
		switch {
		case xi <= head:
			return o.RhoL, o.VL, o.PL
		case xi >= tail:
			rho = o.RhoL * math.Pow(o.PStar/o.PL, 1/g)
			return rho, o.VStar, o.PStar
		default:
			// inside the fan
			v = 2 / (g + 1) * (o.aL + 0.5*(g-1)*o.VL + xi)
			a := 2 / (g + 1) * (o.aL + 0.5*(g-1)*(o.VL-xi))
			rho = o.RhoL * math.Pow(a/o.aL, 2/(g-1))
			p = o.PL * math.Pow(a/o.aL, 2*g/(g-1))
			return rho, v, p
		}
	}
	// right of the contact
	if o.PStar > o.PR {
		// right shock
		sR := o.VR + o.aR*math.Sqrt((g+1)/(2*g)*o.PStar/o.PR+(g-1)/(2*g))
		if xi >= sR {
			return o.RhoR, o.VR, o.PR
		}
		ratio := o.PStar / o.PR
		rho = o.RhoR * (ratio + (g-1)/(g+1)) / (ratio*(g-1)/(g+1) + 1)
		return rho, o.VStar, o.PStar
	}
	// right rarefaction
	aStarR := o.aR * math.Pow(o.PStar/o.PR, (g-1)/(2*g))
	head := o.VR + o.aR
	tail := o.VStar + aStarR
	switch {
	case xi >= head:
		return o.RhoR, o.VR, o.PR
	case xi <= tail:
		rho = o.RhoR * math.Pow(o.PStar/o.PR, 1/g)
		return rho, o.VStar, o.PStar
	default:
		v = 2 / (g + 1) * (-o.aR + 0.5*(g-1)*o.VR + xi)
		a := 2 / (g + 1) * (o.aR - 0.5*(g-1)*(o.VR-xi))
		rho = o.RhoR * math.Pow(a/o.aR, 2/(g-1))
		p = o.PR * math.Pow(a/o.aR, 2*g/(g-1))
		return rho, v, p
	}
}
