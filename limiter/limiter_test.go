// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package limiter

import (
	"testing"

	"github.com/cpmech/hypexpl/hypsys/euler"
)

func TestLimitEdgeFullFluxStaysInBounds(t *testing.T) {
	eos := euler.Polytropic{Gamma: 1.4}
	sys := euler.NewSystem(1, eos)
	lim := NewLimiter(sys, Config{})

	uL := sys.FromPrimitive(1.0, []float64{0.0}, 2.5)
	// an antidiffusive flux small enough that the full (l=1) update is
	// already admissible: the limiter must not clip it.
	Pij := []float64{0.01, 0.002, 0.01}
	bounds := Bounds{RhoMin: 0.9, RhoMax: 1.1, EntropyMin: -1e9}
	l := lim.LimitEdge(uL, Pij, bounds, 1.4)
	if l < 1-1e-9 {
		t.Fatalf("expected no limiting for a safely admissible update, got l=%g", l)
	}
}

func TestLimitEdgeClipsDensityViolation(t *testing.T) {
	eos := euler.Polytropic{Gamma: 1.4}
	sys := euler.NewSystem(1, eos)
	lim := NewLimiter(sys, Config{})

	uL := sys.FromPrimitive(1.0, []float64{0.0}, 2.5)
	// a flux that would drive density below rhoMin at l=1.
	Pij := []float64{-0.5, 0.0, 0.0}
	bounds := Bounds{RhoMin: 0.9, RhoMax: 1.1, EntropyMin: -1e9}
	l := lim.LimitEdge(uL, Pij, bounds, 1.4)
	if l <= 0 || l >= 1 {
		t.Fatalf("expected a clipped l in (0,1), got %g", l)
	}
	rhoAt := sys.Density(uL) + l*Pij[0]
	if rhoAt < bounds.RhoMin-1e-9 {
		t.Fatalf("limited density %g fell below rhoMin %g", rhoAt, bounds.RhoMin)
	}
}

func TestLimitEdgeNeverReturnsOutsideUnitInterval(t *testing.T) {
	eos := euler.Polytropic{Gamma: 1.4}
	sys := euler.NewSystem(1, eos)
	lim := NewLimiter(sys, Config{})

	uL := sys.FromPrimitive(1.0, []float64{0.0}, 2.5)
	Pij := []float64{-5, 0, -5}
	bounds := Bounds{RhoMin: 0.9, RhoMax: 1.1, EntropyMin: 1e9}
	l := lim.LimitEdge(uL, Pij, bounds, 1.4)
	if l < 0 || l > 1 {
		t.Fatalf("l must stay in [0,1], got %g", l)
	}
}

func TestSymmetrizeEdgeTakesMin(t *testing.T) {
	if got := SymmetrizeEdge(0.3, 0.7); got != 0.3 {
		t.Fatalf("expected min(0.3,0.7)=0.3, got %g", got)
	}
}

func TestLimitEdgeIsIdempotentForSameBounds(t *testing.T) {
	eos := euler.Polytropic{Gamma: 1.4}
	sys := euler.NewSystem(1, eos)
	lim := NewLimiter(sys, Config{})

	uL := sys.FromPrimitive(1.0, []float64{0.1}, 2.5)
	Pij := []float64{-0.4, 0.05, -0.3}
	bounds := Bounds{RhoMin: 0.8, RhoMax: 1.2, EntropyMin: 0.5}
	l1 := lim.LimitEdge(uL, Pij, bounds, 1.4)
	l2 := lim.LimitEdge(uL, Pij, bounds, 1.4)
	if l1 != l2 {
		t.Fatalf("limiting twice with identical inputs must agree exactly: %g vs %g", l1, l2)
	}
}

func TestRelaxWidensProportionallyToOscillation(t *testing.T) {
	eos := euler.Polytropic{Gamma: 1.4}
	sys := euler.NewSystem(1, eos)
	lim := NewLimiter(sys, Config{RelaxBounds: 0.5})

	tight := Bounds{RhoMin: 1.0, RhoMax: 1.0, EntropyMin: 2.0}
	relaxed := lim.Relax(tight)
	if relaxed.RhoMin != 1.0 || relaxed.RhoMax != 1.0 {
		t.Fatalf("zero oscillation must not widen the bounds, got %+v", relaxed)
	}

	wide := Bounds{RhoMin: 0.5, RhoMax: 1.5, EntropyMin: 2.0}
	relaxed = lim.Relax(wide)
	if relaxed.RhoMin >= wide.RhoMin || relaxed.RhoMax <= wide.RhoMax {
		t.Fatalf("oscillating bounds must widen, got %+v", relaxed)
	}
}
