// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ensemble implements the ensemble reducer: the MPI-style
// collectives the step controller needs across mesh partitions, min-reducing
// tau_max and exchanging ghost-node values. It is a thin domain-specific
// wrapper over gosl/mpi.
package ensemble

import (
	"github.com/cpmech/gosl/mpi"
)

// Reducer bundles the collectives a distributed explicit step needs.
type Reducer struct{}

// NewReducer returns a Reducer; mpi.Start must already have been called by
// main.
func NewReducer() *Reducer { return &Reducer{} }

// Distributed reports whether this process is part of an MPI run; a single
// rank run takes cheaper, allocation-free local paths for every reduction.
func (o *Reducer) Distributed() bool { return mpi.IsOn() }

// Rank and Size expose the calling process's position in the ensemble.
func (o *Reducer) Rank() int { return mpi.Rank() }
func (o *Reducer) Size() int { return mpi.Size() }

// MinReduce returns the minimum of tauMax across every rank, the collective
// that guarantees a single global CFL-stable step even though each rank only
// computed the wave speed bound over its own mesh partition.
func (o *Reducer) MinReduce(tauMax float64) float64 {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return tauMax
	}
	local := []float64{tauMax}
	global := make([]float64, 1)
	mpi.AllReduceMin(local, global)
	return global[0]
}

// SumReduce sums vec elementwise across every rank in place.
func (o *Reducer) SumReduce(vec []float64) {
	if !mpi.IsOn() || mpi.Size() == 1 {
		return
	}
	workspace := make([]float64, len(vec))
	mpi.AllReduceSum(vec, workspace)
}

