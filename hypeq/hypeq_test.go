// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hypeq

import "testing"

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	eq := NewSkeletonEquation([]float64{1, 0})
	reg.Register(eq)

	got, ok := reg.Get("skeleton")
	if !ok {
		t.Fatalf("expected to find the registered equation")
	}
	if got != eq {
		t.Fatalf("expected Get to return the exact registered pointer")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatalf("expected no entry for an unregistered name")
	}
}

func TestRegistryNamesReflectsRegistrations(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewSkeletonEquation([]float64{1}))
	names := reg.Names()
	if len(names) != 1 || names[0] != "skeleton" {
		t.Fatalf("expected exactly [\"skeleton\"], got %v", names)
	}
}

func TestSkeletonEquationFluxIsLinear(t *testing.T) {
	eq := NewSkeletonEquation([]float64{2, 0})
	u := []float64{3}
	n := []float64{1, 0}
	F := eq.System.Flux(u, n)
	if F[0] != 6 {
		t.Fatalf("expected flux 2*3=6, got %g", F[0])
	}
}
