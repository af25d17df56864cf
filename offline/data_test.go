// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package offline

import (
	"testing"

	"github.com/cpmech/hypexpl/hypsys"
)

func TestNewUniform1DGraphIsTridiagonal(t *testing.T) {
	d := NewUniform1D(5, 0.1)
	if d.Pattern.NumNodes != 5 {
		t.Fatalf("expected 5 nodes, got %d", d.Pattern.NumNodes)
	}
	if len(d.Pattern.Neighbors[0]) != 1 {
		t.Fatalf("boundary node 0 should have exactly 1 neighbor, got %d", len(d.Pattern.Neighbors[0]))
	}
	if len(d.Pattern.Neighbors[2]) != 2 {
		t.Fatalf("interior node 2 should have exactly 2 neighbors, got %d", len(d.Pattern.Neighbors[2]))
	}
}

func TestNewUniform1DLumpedMassSumsToLength(t *testing.T) {
	n, h := 10, 0.2
	d := NewUniform1D(n, h)
	sum := 0.0
	for _, m := range d.LumpedMass {
		sum += m
	}
	want := float64(n-1) * h
	if diff := sum - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("lumped mass should sum to the domain length %g, got %g", want, sum)
	}
}

func TestNewUniform1DBoundariesAreSlip(t *testing.T) {
	d := NewUniform1D(4, 0.5)
	if len(d.Boundaries) != 2 {
		t.Fatalf("expected exactly 2 boundary nodes, got %d", len(d.Boundaries))
	}
	for _, b := range d.Boundaries {
		if b.Kind != hypsys.Slip {
			t.Fatalf("boundary node %d: expected slip, got kind %d", b.Node, int(b.Kind))
		}
	}
}
