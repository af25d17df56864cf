// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ensemble

import "testing"

// These tests exercise only the single-rank fast paths: mpi.Start is never
// called in this module's test binary, so mpi.IsOn() is false and every
// collective degenerates to a local no-op, exactly as a serial (non-MPI)
// run of the explicit solver would.

func TestMinReduceIsIdentityWhenNotDistributed(t *testing.T) {
	r := NewReducer()
	if r.Distributed() {
		t.Skip("running under mpirun; single-rank fast path not exercised")
	}
	if got := r.MinReduce(0.25); got != 0.25 {
		t.Fatalf("expected MinReduce to be the identity outside MPI, got %g", got)
	}
}

func TestSumReduceIsNoOpWhenNotDistributed(t *testing.T) {
	r := NewReducer()
	if r.Distributed() {
		t.Skip("running under mpirun; single-rank fast path not exercised")
	}
	vec := []float64{1, 2, 3}
	r.SumReduce(vec)
	if vec[0] != 1 || vec[1] != 2 || vec[2] != 3 {
		t.Fatalf("expected SumReduce to leave vec unchanged outside MPI, got %v", vec)
	}
}

func TestRankAndSizeAreSaneOutsideMPI(t *testing.T) {
	r := NewReducer()
	if r.Distributed() {
		t.Skip("running under mpirun")
	}
	if r.Size() < 1 {
		t.Fatalf("expected Size() >= 1, got %d", r.Size())
	}
}
