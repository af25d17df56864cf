// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/num"
)

// DamBreak is Stoker's exact solution of the shallow-water dam break over a
// wet bed: still water of depth HL left of x=0 and HR < HL right of it.
// After Solve, Eval samples (h, u) at any xi = x/t, and FrontSpeed returns
// the bore propagation speed.
type DamBreak struct {

	// input
	HL, HR float64 // initial depths, HL > HR > 0
	G      float64 // gravitational acceleration

	// derived by Solve
	Hm, Um float64 // depth and velocity of the middle state
	S      float64 // bore (front) speed

	solved bool
}

// Init sets the problem data from a parameter list; unset entries keep
// hl=1, hr=0.1, g=9.81.
func (o *DamBreak) Init(prms fun.Prms) {
	o.HL, o.HR, o.G = 1.0, 0.1, 9.81
	for _, p := range prms {
		switch p.N {
		case "hl":
			o.HL = p.V
		case "hr":
			o.HR = p.V
		case "g":
			o.G = p.V
		}
	}
	if o.HR <= 0 || o.HL <= o.HR {
		chk.Panic("ana: dam break requires hl > hr > 0, got hl=%g hr=%g", o.HL, o.HR)
	}
	o.solved = false
}

// Solve finds the middle depth Hm from the matching condition between the
// left rarefaction and the right bore, then the middle velocity and the
// bore speed from the Rankine-Hugoniot relations.
func (o *DamBreak) Solve() {
	g := o.G
	cL := math.Sqrt(g * o.HL)

	// rarefaction: u = 2(cL - cm); bore: u = (hm-hr)*sqrt(g/2*(hm+hr)/(hm*hr))
	ffcn := func(fx, x []float64) error {
		hm := x[0]
		cm := math.Sqrt(g * hm)
		uRar := 2 * (cL - cm)
		uBore := (hm - o.HR) * math.Sqrt(0.5*g*(hm+o.HR)/(hm*o.HR))
		fx[0] = uRar - uBore
		return nil
	}
	jfcn := func(dfdx [][]float64, x []float64) error {
		const dh = 1e-8
		fp := make([]float64, 1)
		fm := make([]float64, 1)
		ffcn(fp, []float64{x[0] + dh})
		ffcn(fm, []float64{x[0] - dh})
		dfdx[0][0] = (fp[0] - fm[0]) / (2 * dh)
		return nil
	}

	var nls num.NlSolver
	defer nls.Clean()
	Res := []float64{0.5 * (o.HL + o.HR)} // initial value
	nls.Init(1, ffcn, nil, jfcn, true, false, nil)
	nls.Solve(Res, true)

	o.Hm = Res[0]
	cm := math.Sqrt(g * o.Hm)
	o.Um = 2 * (cL - cm)
	o.S = o.Um * o.Hm / (o.Hm - o.HR) // mass Rankine-Hugoniot across the bore
	o.solved = true
}

// FrontSpeed returns the bore speed; Solve must have been called first.
func (o *DamBreak) FrontSpeed() float64 {
	if !o.solved {
		chk.Panic("ana: DamBreak.FrontSpeed called before Solve")
	}
	return o.S
}

// Eval samples the self-similar solution at xi = x/t.
func (o *DamBreak) Eval(xi float64) (h, u float64) {
	if !o.solved {
		chk.Panic("ana: DamBreak.Eval called before Solve")
	}
	g := o.G
	cL := math.Sqrt(g * o.HL)
	cm := math.Sqrt(g * o.Hm)
	switch {
	case xi <= -cL:
		return o.HL, 0
	case xi <= o.Um-cm:
		// inside the rarefaction fan: u follows the characteristic xi = u-c
		// with the invariant u + 2c = 2cL of the undisturbed left state
		u = (2.0 / 3.0) * (cL + xi)
		c := cL - 0.5*u
		h = c * c / g
		return h, u
	case xi <= o.S:
		return o.Hm, o.Um
	default:
		return o.HR, 0
	}
}
