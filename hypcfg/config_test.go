// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypcfg

import "testing"

func TestEquationConfigDefaultsBuildEulerPolytropic(t *testing.T) {
	cfg := EquationConfig{Name: "air"}
	cfg.SetDefault()
	eq := cfg.Build()
	if eq.Name != "air" {
		t.Fatalf("expected name %q, got %q", "air", eq.Name)
	}
	if eq.System == nil || eq.Limiter == nil || eq.Indicator == nil || eq.Riemann == nil {
		t.Fatalf("expected every Equation field to be populated, got %+v", eq)
	}
}

func TestEquationConfigBuildsShallowWater(t *testing.T) {
	cfg := EquationConfig{Name: "flood", System: SystemConfig{Kind: "shallow"}}
	cfg.SetDefault()
	eq := cfg.Build()
	u := []float64{2.0, 0.5}
	if rho := eq.System.Density(u); rho != 2.0 {
		t.Fatalf("expected shallow-water Density=h=2.0, got %g", rho)
	}
}

func TestInitialStateSodContrast(t *testing.T) {
	cfg := EquationConfig{Name: "euler"}
	cfg.SetDefault()
	coords := [][]float64{{0.0}, {0.25}, {0.75}, {1.0}}
	U := cfg.BuildInitialState(coords)
	if len(U) != 4 {
		t.Fatalf("expected 4 states, got %d", len(U))
	}
	// left of the contrast: rho=1, E = p/(gamma-1) = 2.5
	if U[0][0] != 1.0 || U[1][0] != 1.0 {
		t.Fatalf("left density must be 1.0, got %g, %g", U[0][0], U[1][0])
	}
	if d := U[0][2] - 2.5; d > 1e-14 || d < -1e-14 {
		t.Fatalf("left total energy must be 2.5, got %g", U[0][2])
	}
	// right of it: rho=0.125
	if U[2][0] != 0.125 || U[3][0] != 0.125 {
		t.Fatalf("right density must be 0.125, got %g, %g", U[2][0], U[3][0])
	}
}

func TestInitialStateShallowNeedsMatchingPrimitives(t *testing.T) {
	cfg := EquationConfig{Name: "flood", System: SystemConfig{Kind: "shallow"}}
	cfg.SetDefault()
	cfg.Initial.Left = []float64{1.0, 0.0}
	cfg.Initial.Right = []float64{0.1, 0.0}
	U := cfg.BuildInitialState([][]float64{{0.0}, {1.0}})
	if U[0][0] != 1.0 || U[1][0] != 0.1 {
		t.Fatalf("expected depths 1.0 and 0.1, got %g and %g", U[0][0], U[1][0])
	}
}

func TestEOSConfigBuildNASG(t *testing.T) {
	eosCfg := EOSConfig{Kind: "nasg", Gamma: 1.4, PInfty: 1e8}
	eosCfg.SetDefault()
	eos := eosCfg.Build()
	if eos.Name() != "noble abel stiffened gas" {
		t.Fatalf("expected nasg EOS, got %q", eos.Name())
	}
}
