// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypstep

import (
	"math"
	"testing"

	"github.com/cpmech/hypexpl/hypeq"
	"github.com/cpmech/hypexpl/hypsys/euler"
	"github.com/cpmech/hypexpl/indicator"
	"github.com/cpmech/hypexpl/limiter"
	"github.com/cpmech/hypexpl/offline"
	"github.com/cpmech/hypexpl/riemann"
)

// sodModule builds a 1-D polytropic Euler module over a uniform mesh with
// the classic Sod initial data: (rho,v,p) = (1,0,1) left of the midpoint,
// (0.125,0,0.1) right of it.
func sodModule(n int, cfg Config) (*Module, [][]float64, *euler.System) {
	h := 1.0 / float64(n-1)
	off := offline.NewUniform1D(n, h)
	sys := euler.NewSystem(1, euler.Polytropic{Gamma: 1.4})
	eq := &hypeq.Equation{
		Name:      "euler",
		System:    sys,
		Limiter:   limiter.NewLimiter(sys, limiter.Config{}),
		Indicator: indicator.EntropyViscosityCommutator{Threshold: 1},
		Riemann:   riemann.NewSolver(2, 1e-10),
	}
	mod := NewModule(eq, off, nil, NewController(cfg), 2)
	U := make([][]float64, n)
	gamma := 1.4
	for i := 0; i < n; i++ {
		x := float64(i) * h
		rho, p := 1.0, 1.0
		if x > 0.5 {
			rho, p = 0.125, 0.1
		}
		e := p / ((gamma - 1) * rho)
		U[i] = sys.FromPrimitive(rho, []float64{0}, e)
	}
	mod.PrepareStateVector(U)
	return mod, U, sys
}

func totalMassAndEnergy(off *offline.Data, U [][]float64) (mass, energy float64) {
	for i, u := range U {
		mass += off.LumpedMass[i] * u[0]
		energy += off.LumpedMass[i] * u[2]
	}
	return
}

func TestStepKeepsSodAdmissibleAndConservative(t *testing.T) {
	// WarnAndContinue clamps the oversized proposed dt to CFL*tau_max
	// without counting a restart, so NRestarts below measures only
	// invariant-domain rejections.
	mod, U, sys := sodModule(101, Config{CFL: 0.5, TauStrategy: WarnAndContinue})
	mass0, energy0 := totalMassAndEnergy(mod.Off, U)
	for step := 0; step < 20; step++ {
		dt, err := mod.Step(U, 1.0, nil)
		if err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
		if dt <= 0 {
			t.Fatalf("step %d returned non-positive dt %g", step, dt)
		}
		for i, u := range U {
			if !sys.IsAdmissible(u) {
				t.Fatalf("step %d produced inadmissible state at node %d: %v", step, i, u)
			}
		}
	}
	if mod.Ctrl.NRestarts != 0 {
		t.Fatalf("a CFL=0.5 Sod run must not restart, got %d restarts", mod.Ctrl.NRestarts)
	}
	// slip walls with v=0 there: mass and energy conserved to roundoff
	mass1, energy1 := totalMassAndEnergy(mod.Off, U)
	if d := math.Abs(mass1 - mass0); d > 1e-10 {
		t.Fatalf("total mass drifted by %g", d)
	}
	if d := math.Abs(energy1 - energy0); d > 1e-10 {
		t.Fatalf("total energy drifted by %g", d)
	}
}

func TestDijSymmetryAndDiagonal(t *testing.T) {
	mod, U, _ := sodModule(31, Config{CFL: 0.5})
	mod.precompute(U)
	if _, err := mod.computeDijAndTau(U); err != nil {
		t.Fatalf("computeDijAndTau: %v", err)
	}
	pat := mod.Off.Pattern
	for i := 0; i < pat.NumNodes; i++ {
		sum := 0.0
		for k, j := range pat.Neighbors[i] {
			d := mod.Dij(i, k)
			if d < 0 {
				t.Fatalf("d_ij must be non-negative, got %g at (%d,%d)", d, i, j)
			}
			sum += d
			dT := mod.Dij(j, mod.rev[i][k])
			if d != dT {
				t.Fatalf("d_ij != d_ji at (%d,%d): %g vs %g", i, j, d, dT)
			}
		}
		if len(pat.Neighbors[i]) > 0 {
			if got := mod.DDiag(i); math.Abs(got+sum) > 1e-14 {
				t.Fatalf("d_ii must equal -sum_j d_ij, got %g vs %g", got, -sum)
			}
		}
	}
}

func TestTauMaxScalesExactlyWithCFL(t *testing.T) {
	modA, UA, _ := sodModule(41, Config{CFL: 1.0, TauStrategy: WarnAndContinue})
	modB, UB, _ := sodModule(41, Config{CFL: 0.25, TauStrategy: WarnAndContinue})
	dtA, err := modA.Step(UA, 1e9, nil)
	if err != nil {
		t.Fatalf("CFL=1 step: %v", err)
	}
	dtB, err := modB.Step(UB, 1e9, nil)
	if err != nil {
		t.Fatalf("CFL=0.25 step: %v", err)
	}
	if dtB != 0.25*dtA {
		t.Fatalf("tau_max(CFL=c) must equal c*tau_max(CFL=1) exactly: %g vs %g", dtB, 0.25*dtA)
	}
}

func TestOversizedTauEmitsExactlyOneRestartThenSucceeds(t *testing.T) {
	// scenario: propose tau = 10*tau_max under the raise strategy. The
	// first Step call is terminal: it must return ErrRestart after exactly
	// one recorded restart and leave U untouched. The caller's second call
	// at tau = CFL*tau_max must then be accepted with an admissible state.
	mod, U, sys := sodModule(51, Config{CFL: 0.5, TauStrategy: RaiseRestart})
	U0 := make([][]float64, len(U))
	for i := range U {
		U0[i] = append([]float64(nil), U[i]...)
	}

	probe, Uprobe, _ := sodModule(51, Config{CFL: 0.5, TauStrategy: WarnAndContinue})
	tau, err := probe.Step(Uprobe, 1e9, nil)
	if err != nil {
		t.Fatalf("probe step: %v", err)
	}

	if _, err = mod.Step(U, 10*tau, nil); err != ErrRestart {
		t.Fatalf("expected ErrRestart from the oversized first call, got %v", err)
	}
	if mod.Ctrl.NRestarts != 1 {
		t.Fatalf("expected exactly one restart, got %d", mod.Ctrl.NRestarts)
	}
	if math.Abs(mod.Ctrl.Config.CFL*mod.Ctrl.TauMax-tau) > 1e-15 {
		t.Fatalf("controller must report the admissible step %g, got %g", tau, mod.Ctrl.Config.CFL*mod.Ctrl.TauMax)
	}
	for i := range U {
		for c := range U[i] {
			if U[i][c] != U0[i][c] {
				t.Fatalf("a rejected call must leave U untouched, node %d comp %d changed", i, c)
			}
		}
	}

	// retry at tau = CFL*tau_max: accepted, one restart total
	dt, err := mod.Step(U, tau, nil)
	if err != nil {
		t.Fatalf("retry at tau_max: %v", err)
	}
	if mod.Ctrl.NRestarts != 1 {
		t.Fatalf("the retry must not record further restarts, got %d", mod.Ctrl.NRestarts)
	}
	if math.Abs(dt-tau) > 1e-15 {
		t.Fatalf("retry must run at tau_max=%g, got %g", tau, dt)
	}
	for i, u := range U {
		if !sys.IsAdmissible(u) {
			t.Fatalf("retried step left an inadmissible state at node %d", i)
		}
	}
}

func TestAlphaVectorStaysInUnitInterval(t *testing.T) {
	mod, U, _ := sodModule(61, Config{CFL: 0.5, TauStrategy: WarnAndContinue})
	for step := 0; step < 3; step++ {
		if _, err := mod.Step(U, 1.0, nil); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
	for i, a := range mod.Alpha() {
		if a < 0 || a > 1 {
			t.Fatalf("alpha[%d]=%g outside [0,1]", i, a)
		}
	}
}

func TestSkeletonAdvectionPreservesUniformState(t *testing.T) {
	n := 20
	h := 1.0 / float64(n-1)
	off := offline.NewUniform1D(n, h)
	off.Boundaries = nil // periodic-like: leave the scalar untouched at ends
	eq := hypeq.NewSkeletonEquation([]float64{1})
	mod := NewModule(eq, off, nil, NewController(Config{CFL: 0.5, TauStrategy: WarnAndContinue}), 1)
	U := make([][]float64, n)
	for i := range U {
		U[i] = []float64{3.5}
	}
	if _, err := mod.Step(U, 1.0, nil); err != nil {
		t.Fatalf("skeleton step: %v", err)
	}
	for i, u := range U {
		if math.Abs(u[0]-3.5) > 1e-13 {
			t.Fatalf("a constant state must be a fixed point of the update, got U[%d]=%g", i, u[0])
		}
	}
}

func TestStageContributionsBlendIntoHighOrderFlux(t *testing.T) {
	// a stage identical to U^n must reproduce the no-stage update exactly:
	// G = F(U^s) - F(U^n) vanishes term by term.
	modA, UA, _ := sodModule(41, Config{CFL: 0.5, TauStrategy: WarnAndContinue})
	modB, UB, _ := sodModule(41, Config{CFL: 0.5, TauStrategy: WarnAndContinue})
	stage := make([][]float64, len(UB))
	for i := range UB {
		stage[i] = append([]float64(nil), UB[i]...)
	}
	dtA, err := modA.Step(UA, 1.0, nil)
	if err != nil {
		t.Fatalf("no-stage step: %v", err)
	}
	dtB, err := modB.Step(UB, 1.0, []StageContribution{{U: stage, Weight: 0.5}})
	if err != nil {
		t.Fatalf("stage step: %v", err)
	}
	if dtA != dtB {
		t.Fatalf("identical data must give identical dt, got %g vs %g", dtA, dtB)
	}
	for i := range UA {
		for c := range UA[i] {
			if math.Abs(UA[i][c]-UB[i][c]) > 1e-12 {
				t.Fatalf("stage == U^n must not change the update, node %d comp %d: %g vs %g", i, c, UA[i][c], UB[i][c])
			}
		}
	}
}
