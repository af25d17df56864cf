// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stencil implements the sparse stencil kernel: the
// block-parallel sweeps over nodes and edges that the step controller drives
// once per precompute cycle and once per low-order/high-order update. Work
// is fanned out as goroutines over blocks of contiguous rows sized to
// GOMAXPROCS, with a cancellation hook polled at block boundaries.
package stencil

import (
	"runtime"
	"sync"
)

// NodeTask is applied to every node index in [0, numNodes).
type NodeTask func(i int)

// EdgeTask is applied to every edge (i,j) with j in the one-ring of i; k is
// j's position inside Neighbors[i], so edge-valued storage laid out row-wise
// alongside the pattern (d_ij, l_ij, p_ij) can be addressed without a search.
type EdgeTask func(i, k, j int)

// Kernel drives node- and edge-indexed parallel-for sweeps over a fixed
// sparse graph. It owns no state beyond the graph itself so a single Kernel
// can be reused across every precompute cycle and update stage of a step.
type Kernel struct {
	NumNodes  int
	Neighbors [][]int // Neighbors[i] = one-ring of node i

	// Workers bounds the number of goroutines a ForEachNode/ForEachEdge call
	// spawns; 0 means runtime.GOMAXPROCS(0).
	Workers int
}

// NewKernel returns a Kernel over the given graph.
func NewKernel(numNodes int, neighbors [][]int) *Kernel {
	return &Kernel{NumNodes: numNodes, Neighbors: neighbors}
}

func (o *Kernel) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ForEachBlock invokes task once per contiguous block of rows, one
// goroutine per block, with block count bounded by workers(). cancel, if
// non-nil, is polled once per block (the dispatch_check hook) and stops
// launching new blocks once it returns true; blocks already in flight still
// run to completion. Scratch storage allocated inside task is block-local
// by construction.
func (o *Kernel) ForEachBlock(task func(lo, hi int), cancel func() bool) {
	n := o.NumNodes
	workers := o.workers()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if cancel != nil && cancel() {
			return
		}
		if n > 0 {
			task(0, n)
		}
		return
	}

	blockSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += blockSize {
		if cancel != nil && cancel() {
			break
		}
		end := start + blockSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			task(lo, hi)
		}(start, end)
	}
	wg.Wait()
}

// ForEachNode applies task to every node, partitioned into contiguous
// blocks via ForEachBlock.
func (o *Kernel) ForEachNode(task NodeTask, cancel func() bool) {
	if o.workers() <= 1 || o.NumNodes <= 1 {
		// keep per-node cancellation granularity on the serial path
		for i := 0; i < o.NumNodes; i++ {
			if cancel != nil && cancel() {
				return
			}
			task(i)
		}
		return
	}
	o.ForEachBlock(func(lo, hi int) {
		for i := lo; i < hi; i++ {
			task(i)
		}
	}, cancel)
}

// ForEachEdgeFullRow applies task(i,j) once for every ordered pair (i,j) with
// j in Neighbors[i], parallelized over the row index i exactly like
// ForEachNode. Use this form when the per-edge computation is not
// symmetric in (i,j) (e.g. accumulating a row-owned residual contribution).
func (o *Kernel) ForEachEdgeFullRow(task EdgeTask, cancel func() bool) {
	o.ForEachNode(func(i int) {
		for k, j := range o.Neighbors[i] {
			task(i, k, j)
		}
	}, cancel)
}

// ForEachEdgeStrictUpper applies task(i,k,j) exactly once per undirected
// edge (i<j), for computations like d_ij and l_ij whose lower triangle the
// caller sets by symmetry. The symmetry write into row j touches a
// lower-triangle slot row j's own goroutine never writes during this sweep,
// so the pass stays race-free without locks.
func (o *Kernel) ForEachEdgeStrictUpper(task EdgeTask, cancel func() bool) {
	o.ForEachNode(func(i int) {
		for k, j := range o.Neighbors[i] {
			if j > i {
				task(i, k, j)
			}
		}
	}, cancel)
}

// ConstrainedRows marks a subset of node indices (e.g. essential-boundary
// rows under a Dirichlet condition already enforced elsewhere) to be
// skipped by SkipConstrained.
type ConstrainedRows map[int]bool

// SkipConstrained wraps a NodeTask so that rows in rows are never invoked.
func SkipConstrained(rows ConstrainedRows, task NodeTask) NodeTask {
	return func(i int) {
		if rows[i] {
			return
		}
		task(i)
	}
}
