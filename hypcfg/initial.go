// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypcfg

import (
	"math"

	"github.com/cpmech/hypexpl/hypsys/euler"
	"github.com/cpmech/hypexpl/hypsys/shallow"
	"github.com/cpmech/gosl/chk"
)

// InitialConfig describes the initial state of one equation: a named
// configuration ("uniform" uses Left everywhere; "contrast" splits Left and
// Right at the plane x.Direction = Position), an optional sinusoidal
// density perturbation, and the primitive states themselves. For the euler
// system a primitive state is (rho, v_1..v_d, p); for shallow water it is
// (h, v_1..v_d).
type InitialConfig struct {
	Configuration string    `json:"configuration"`
	Direction     []float64 `json:"direction"`
	Position      float64   `json:"position"`
	Perturbation  float64   `json:"perturbation"`
	Left          []float64 `json:"left"`
	Right         []float64 `json:"right"`
}

// SetDefault fills the Sod shock tube defaults: a contrast at x=0.5 with
// (1,0,1) left and (0.125,0,0.1) right, no perturbation.
func (o *InitialConfig) SetDefault() {
	if o.Configuration == "" {
		o.Configuration = "contrast"
	}
	if len(o.Direction) == 0 {
		o.Direction = []float64{1}
	}
	if o.Position == 0 {
		o.Position = 0.5
	}
	if len(o.Left) == 0 {
		o.Left = []float64{1, 0, 1}
	}
	if len(o.Right) == 0 {
		o.Right = []float64{0.125, 0, 0.1}
	}
}

// BuildInitialState evaluates the initial condition at every coordinate in
// coords (one point per node, each of length ProblemDimension) and returns
// the conserved states. The equation's system converts the configured
// primitive tuples.
func (o *EquationConfig) BuildInitialState(coords [][]float64) [][]float64 {
	ini := &o.Initial
	sys := o.System.Build()
	dim := sys.ProblemDimension()

	primitiveAt := func(x []float64) []float64 {
		prim := ini.Left
		if ini.Configuration == "contrast" {
			s := 0.0
			for k := 0; k < dim && k < len(ini.Direction); k++ {
				s += x[k] * ini.Direction[k]
			}
			if s > ini.Position {
				prim = ini.Right
			}
		}
		out := append([]float64(nil), prim...)
		if ini.Perturbation != 0 {
			out[0] += ini.Perturbation * math.Sin(2*math.Pi*x[0])
		}
		return out
	}

	U := make([][]float64, len(coords))
	switch s := sys.(type) {
	case *euler.System:
		eos := o.System.EOS.Build()
		for i, x := range coords {
			prim := primitiveAt(x)
			if len(prim) != dim+2 {
				chk.Panic("hypcfg: euler initial state needs %d primitives (rho, v, p), got %d", dim+2, len(prim))
			}
			rho, v, p := prim[0], prim[1:1+dim], prim[1+dim]
			U[i] = s.FromPrimitive(rho, v, eos.SpecificEnergy(rho, p))
		}
	case *shallow.System:
		for i, x := range coords {
			prim := primitiveAt(x)
			if len(prim) != dim+1 {
				chk.Panic("hypcfg: shallow initial state needs %d primitives (h, v), got %d", dim+1, len(prim))
			}
			U[i] = s.FromPrimitive(prim[0], prim[1:1+dim])
		}
	default:
		chk.Panic("hypcfg: no initial-state builder for system kind %q", o.System.Kind)
	}
	return U
}

// InitialState builds the initial condition of the named equation on a
// uniform 1-D mesh of npoints nodes over [0,1].
func (o *Config) InitialState(eqname string, npoints int) [][]float64 {
	for i := range o.Equations {
		if o.Equations[i].Name == eqname {
			h := 1.0 / float64(npoints-1)
			coords := make([][]float64, npoints)
			for j := range coords {
				coords[j] = []float64{float64(j) * h}
			}
			return o.Equations[i].BuildInitialState(coords)
		}
	}
	chk.Panic("hypcfg: equation %q is not defined in this configuration", eqname)
	return nil
}
