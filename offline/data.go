// Copyright 2016 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package offline holds the mesh- and quadrature-derived data that never
// changes during time stepping: the sparse graph pattern c_ij, the lumped
// mass matrix, and boundary node metadata. It is assembled once, ahead of
// the explicit time loop.
package offline

import (
	"github.com/cpmech/hypexpl/hypsys"
	"github.com/cpmech/gosl/chk"
)

// BoundaryInfo attaches a boundary kind and outward normal to a node that
// lies on the domain boundary. State carries the prescribed exterior state
// for the dirichlet and dynamic kinds and is nil otherwise.
type BoundaryInfo struct {
	Node   int
	Kind   hypsys.BoundaryKind
	Normal []float64
	State  []float64
}

// Pattern is the sparse one-ring graph: for node i, Neighbors[i] lists every
// j != i with a nonzero c_ij (node i itself is not listed, so a constrained
// row has no entries), and Cij[i] holds the corresponding geometric
// coefficient vectors (length d each). The row-wise layout is what every
// sweep consumes directly; edge-valued storage (d_ij, l_ij, p_ij) is laid
// out alongside it, addressed by the neighbor position k.
type Pattern struct {
	NumNodes  int
	Neighbors [][]int
	Cij       [][][]float64
}

// Data bundles everything the stencil kernel and step controller need that
// does not change between explicit steps: the sparse graph, lumped mass,
// and boundary metadata.
type Data struct {
	Pattern    *Pattern
	LumpedMass []float64
	Boundaries []BoundaryInfo

	// OwnStart/OwnEnd delimit the contiguous node range this rank owns;
	// nodes outside it are ghost copies refreshed by the ensemble reducer.
	// A single-process run owns [0, NumNodes).
	OwnStart, OwnEnd int
}

// NewPattern validates the row-wise graph data and wraps it in a Pattern.
func NewPattern(numNodes int, neighbors [][]int, cij [][][]float64) *Pattern {
	if len(neighbors) != numNodes || len(cij) != numNodes {
		chk.Panic("offline: neighbors/cij length must equal numNodes (%d), got %d/%d", numNodes, len(neighbors), len(cij))
	}
	for i, nb := range neighbors {
		if len(cij[i]) != len(nb) {
			chk.Panic("offline: row %d has %d neighbors but %d c_ij vectors", i, len(nb), len(cij[i]))
		}
	}
	return &Pattern{
		NumNodes:  numNodes,
		Neighbors: neighbors,
		Cij:       cij,
	}
}

// NewUniform1D builds the Pattern and Data for a uniform 1-D mesh of n nodes
// and spacing h: a tridiagonal graph with c_{i,i+1} = 1/2, c_{i,i-1} = -1/2
// (the standard P1 continuous-Galerkin coefficient int phi_i phi_j' dx for
// the first derivative, independent of h), and lumped mass h (interior) /
// h/2 (boundary). It exists to
// drive the stencil kernel, step controller and limiter tests without
// depending on a real mesh reader.
func NewUniform1D(n int, h float64) *Data {
	if n < 2 {
		chk.Panic("offline: NewUniform1D requires at least 2 nodes, got %d", n)
	}
	neighbors := make([][]int, n)
	cij := make([][][]float64, n)
	lumped := make([]float64, n)
	coef := 0.5
	for i := 0; i < n; i++ {
		var nb []int
		var c [][]float64
		if i > 0 {
			nb = append(nb, i-1)
			c = append(c, []float64{-coef})
		}
		if i < n-1 {
			nb = append(nb, i+1)
			c = append(c, []float64{coef})
		}
		neighbors[i] = nb
		cij[i] = c
		if i == 0 || i == n-1 {
			lumped[i] = h / 2
		} else {
			lumped[i] = h
		}
	}
	boundaries := []BoundaryInfo{
		{Node: 0, Kind: hypsys.Slip, Normal: []float64{-1}},
		{Node: n - 1, Kind: hypsys.Slip, Normal: []float64{1}},
	}
	return &Data{
		Pattern:    NewPattern(n, neighbors, cij),
		LumpedMass: lumped,
		Boundaries: boundaries,
		OwnEnd:     n,
	}
}

// CijNorm returns ||c_ij|| for row i's k-th neighbor.
func (o *Pattern) CijNorm(i, k int) float64 {
	return hypsys.Norm2(o.Cij[i][k])
}

// ReverseIndex builds rev with rev[i][k] = the position of i inside
// Neighbors[Neighbors[i][k]], the lookup the symmetry pass needs to write
// d_ji and l_ji from the strict-upper edge sweep without a search.
func (o *Pattern) ReverseIndex() [][]int {
	rev := make([][]int, o.NumNodes)
	for i := 0; i < o.NumNodes; i++ {
		rev[i] = make([]int, len(o.Neighbors[i]))
		for k, j := range o.Neighbors[i] {
			rev[i][k] = -1
			for kk, jj := range o.Neighbors[j] {
				if jj == i {
					rev[i][k] = kk
					break
				}
			}
			if rev[i][k] < 0 {
				chk.Panic("offline: sparse pattern is not structurally symmetric: %d in row %d but not vice versa", j, i)
			}
		}
	}
	return rev
}
