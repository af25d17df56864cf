// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// IsentropicVortex is the smooth 2-D Euler solution used for convergence
// studies: a vortex of strength Beta superposed on a uniform flow
// (VInfX, VInfY), advected without deformation. Eval returns the primitive
// state at (x, y, t) on a domain that is Period-periodic in both directions.
type IsentropicVortex struct {

	// input
	Gamma        float64
	Beta         float64 // vortex strength
	VInfX, VInfY float64 // background advection velocity
	X0, Y0       float64 // vortex center at t=0
	Period       float64 // domain period (0 disables wrapping)
}

// Init sets the vortex data from a parameter list; unset entries keep
// gamma=1.4, beta=5, vinfx=1, vinfy=1, period=10.
func (o *IsentropicVortex) Init(prms fun.Prms) {
	o.Gamma, o.Beta = 1.4, 5.0
	o.VInfX, o.VInfY = 1.0, 1.0
	o.X0, o.Y0 = 0.0, 0.0
	o.Period = 10.0
	for _, p := range prms {
		switch p.N {
		case "gamma":
			o.Gamma = p.V
		case "beta":
			o.Beta = p.V
		case "vinfx":
			o.VInfX = p.V
		case "vinfy":
			o.VInfY = p.V
		case "x0":
			o.X0 = p.V
		case "y0":
			o.Y0 = p.V
		case "period":
			o.Period = p.V
		}
	}
}

// wrap maps d into (-Period/2, Period/2].
func (o *IsentropicVortex) wrap(d float64) float64 {
	if o.Period <= 0 {
		return d
	}
	for d > 0.5*o.Period {
		d -= o.Period
	}
	for d <= -0.5*o.Period {
		d += o.Period
	}
	return d
}

// Eval returns (rho, vx, vy, p) at position (x, y) and time t.
func (o *IsentropicVortex) Eval(x, y, t float64) (rho, vx, vy, p float64) {
	g := o.Gamma
	dx := o.wrap(x - o.X0 - o.VInfX*t)
	dy := o.wrap(y - o.Y0 - o.VInfY*t)
	r2 := dx*dx + dy*dy
	factor := o.Beta / (2 * math.Pi) * math.Exp(0.5*(1-r2))
	dT := -(g - 1) * factor * factor / (2 * g)
	T := 1 + dT
	rho = math.Pow(T, 1/(g-1))
	vx = o.VInfX - factor*dy
	vy = o.VInfY + factor*dx
	p = math.Pow(T, g/(g-1))
	return
}
