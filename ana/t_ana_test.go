// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

func Test_riemann01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("riemann01. Sod shock tube, exact solution")

	var sol RiemannExact
	sol.Init(nil) // Sod defaults
	sol.Solve()

	// star-region reference values (Toro, Table 4.1)
	chk.Scalar(tst, "p*", 1e-4, sol.PStar, 0.30313)
	chk.Scalar(tst, "v*", 1e-4, sol.VStar, 0.92745)

	// far field recovers the outer states
	rho, v, p := sol.Eval(-10)
	chk.Scalar(tst, "rho left", 1e-14, rho, 1.0)
	chk.Scalar(tst, "v left", 1e-14, v, 0.0)
	chk.Scalar(tst, "p left", 1e-14, p, 1.0)
	rho, v, p = sol.Eval(10)
	chk.Scalar(tst, "rho right", 1e-14, rho, 0.125)
	chk.Scalar(tst, "p right", 1e-14, p, 0.1)

	// densities beside the contact (Toro, Table 4.1)
	rho, _, _ = sol.Eval(sol.VStar - 1e-8)
	chk.Scalar(tst, "rho*L", 1e-3, rho, 0.42632)
	rho, _, _ = sol.Eval(sol.VStar + 1e-8)
	chk.Scalar(tst, "rho*R", 1e-3, rho, 0.26557)

	if chk.Verbose {
		np := 201
		Xi := utl.LinSpace(-2, 2, np)
		R := make([]float64, np)
		for i, xi := range Xi {
			R[i], _, _ = sol.Eval(xi)
		}
		plt.SetForEps(0.8, 455)
		plt.Plot(Xi, R, "'b-', label='rho'")
		plt.Gll("$x/t$", `$\rho$`, "")
		plt.SaveD("/tmp/hypexpl", "ana_riemann01.eps")
	}
}

func Test_riemann02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("riemann02. identical states give the constant solution")

	var sol RiemannExact
	sol.Init([]*fun.Prm{
		&fun.Prm{N: "rhol", V: 1.0},
		&fun.Prm{N: "pl", V: 1.0},
		&fun.Prm{N: "rhor", V: 1.0},
		&fun.Prm{N: "pr", V: 1.0},
	})
	sol.Solve()

	for _, xi := range []float64{-3, -1, 0, 1, 3} {
		rho, v, p := sol.Eval(xi)
		chk.Scalar(tst, "rho", 1e-10, rho, 1.0)
		chk.Scalar(tst, "v", 1e-10, v, 0.0)
		chk.Scalar(tst, "p", 1e-10, p, 1.0)
	}
}

func Test_dambreak01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dambreak01. Stoker wet-bed dam break")

	var sol DamBreak
	sol.Init(nil) // hl=1, hr=0.1, g=9.81
	sol.Solve()

	// middle depth sits strictly between the initial depths
	if sol.Hm <= sol.HR || sol.Hm >= sol.HL {
		tst.Errorf("middle depth %g must lie in (%g, %g)", sol.Hm, sol.HR, sol.HL)
		return
	}

	// matching condition holds at the solved depth
	cL := math.Sqrt(sol.G * sol.HL)
	cm := math.Sqrt(sol.G * sol.Hm)
	uRar := 2 * (cL - cm)
	uBore := (sol.Hm - sol.HR) * math.Sqrt(0.5*sol.G*(sol.Hm+sol.HR)/(sol.Hm*sol.HR))
	chk.Scalar(tst, "rarefaction-bore matching", 1e-8, uRar, uBore)

	// the bore outruns the middle state
	if sol.S <= sol.Um {
		tst.Errorf("bore speed %g must exceed the middle velocity %g", sol.S, sol.Um)
		return
	}

	// continuity at the fan edges
	h, u := sol.Eval(-cL + 1e-12)
	chk.Scalar(tst, "h at fan head", 1e-6, h, sol.HL)
	chk.Scalar(tst, "u at fan head", 1e-6, u, 0)
	h, u = sol.Eval(sol.Um - cm - 1e-12)
	chk.Scalar(tst, "h at fan tail", 1e-6, h, sol.Hm)
	chk.Scalar(tst, "u at fan tail", 1e-6, u, sol.Um)
}

func Test_vortex01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vortex01. isentropic vortex invariants")

	var sol IsentropicVortex
	sol.Init(nil)

	// isentropy: p == rho^gamma everywhere
	for _, pos := range [][2]float64{{0, 0}, {1, 0.5}, {-2, 3}, {4.9, -4.9}} {
		rho, _, _, p := sol.Eval(pos[0], pos[1], 0)
		chk.Scalar(tst, "p = rho^gamma", 1e-12, p, math.Pow(rho, sol.Gamma))
	}

	// far from the center the background state is recovered
	rho, vx, vy, p := sol.Eval(0.5*sol.Period, 0.5*sol.Period, 0)
	chk.Scalar(tst, "rho inf", 1e-6, rho, 1.0)
	chk.Scalar(tst, "vx inf", 1e-6, vx, sol.VInfX)
	chk.Scalar(tst, "vy inf", 1e-6, vy, sol.VInfY)
	chk.Scalar(tst, "p inf", 1e-6, p, 1.0)

	// advecting for one full period reproduces the initial field
	rho0, vx0, vy0, p0 := sol.Eval(1.25, -0.75, 0)
	rho1, vx1, vy1, p1 := sol.Eval(1.25, -0.75, sol.Period)
	chk.Scalar(tst, "rho periodic", 1e-12, rho1, rho0)
	chk.Scalar(tst, "vx periodic", 1e-12, vx1, vx0)
	chk.Scalar(tst, "vy periodic", 1e-12, vy1, vy0)
	chk.Scalar(tst, "p periodic", 1e-12, p1, p0)
}
