//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package graph holds the adjacency representation that is fed into and
// produced by the compressor.
package graph

import (
	"fmt"
	"sort"
)

// Provider gives random access to the neighbor lists of a graph with vertex
// ids 0..NumVertices()-1. Neighbors must be strictly ascending for the CGR
// encoder and must not be modified by the caller.
type Provider interface {
	NumVertices() uint32
	NumEdges() uint64
	Degree(v uint32) uint32
	Neighbors(v uint32) []uint32
}

// CSR is the compressed sparse row form: the neighbors of v are
// edges[offsets[v]:offsets[v+1]].
type CSR struct {
	offsets []uint64
	edges   []uint32
}

var _ Provider = (*CSR)(nil)

// NewCSR checks the offsets and takes ownership of both slices.
func NewCSR(offsets []uint64, edges []uint32) (*CSR, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("csr: offsets must hold at least one entry")
	}
	if uint64(len(offsets)-1) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("csr: %d vertices exceed the 32 bit id space", len(offsets)-1)
	}
	if offsets[0] != 0 {
		return nil, fmt.Errorf("csr: first offset must be 0, got %d", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("csr: offsets decrease at vertex %d", i-1)
		}
	}
	if last := offsets[len(offsets)-1]; last != uint64(len(edges)) {
		return nil, fmt.Errorf("csr: last offset %d does not match %d edges", last, len(edges))
	}
	return &CSR{offsets: offsets, edges: edges}, nil
}

// FromAdjacency copies a list of neighbor lists into a CSR. The lists are
// used in the given order.
func FromAdjacency(adj [][]uint32) *CSR {
	offsets := make([]uint64, len(adj)+1)
	for v, list := range adj {
		offsets[v+1] = offsets[v] + uint64(len(list))
	}
	edges := make([]uint32, 0, offsets[len(adj)])
	for _, list := range adj {
		edges = append(edges, list...)
	}
	return &CSR{offsets: offsets, edges: edges}
}

func (g *CSR) NumVertices() uint32 {
	return uint32(len(g.offsets) - 1)
}

func (g *CSR) NumEdges() uint64 {
	return uint64(len(g.edges))
}

func (g *CSR) Degree(v uint32) uint32 {
	return uint32(g.offsets[v+1] - g.offsets[v])
}

func (g *CSR) Neighbors(v uint32) []uint32 {
	return g.edges[g.offsets[v]:g.offsets[v+1]]
}

func (g *CSR) Offsets() []uint64 {
	return g.offsets
}

func (g *CSR) Edges() []uint32 {
	return g.edges
}

// Sorted reports the first vertex whose list is not strictly ascending.
func (g *CSR) Sorted() (uint32, bool) {
	for v := uint32(0); v < g.NumVertices(); v++ {
		list := g.Neighbors(v)
		for i := 1; i < len(list); i++ {
			if list[i] <= list[i-1] {
				return v, false
			}
		}
	}
	return 0, true
}

// Normalize sorts every list and drops duplicate neighbors in place.
func (g *CSR) Normalize() {
	out := uint64(0)
	start := uint64(0)
	for v := 0; v < len(g.offsets)-1; v++ {
		end := g.offsets[v+1]
		list := g.edges[start:end]
		sort.Slice(list, func(a, b int) bool { return list[a] < list[b] })

		g.offsets[v] = out
		for i, n := range list {
			if i > 0 && n == list[i-1] {
				continue
			}
			g.edges[out] = n
			out++
		}
		start = end
	}
	g.offsets[len(g.offsets)-1] = out
	g.edges = g.edges[:out]
}

// Equal compares two providers vertex by vertex and names the first
// difference.
func Equal(a, b Provider) error {
	if a.NumVertices() != b.NumVertices() {
		return fmt.Errorf("vertex count differs: %d != %d", a.NumVertices(), b.NumVertices())
	}
	for v := uint32(0); v < a.NumVertices(); v++ {
		la, lb := a.Neighbors(v), b.Neighbors(v)
		if len(la) != len(lb) {
			return fmt.Errorf("vertex %d: degree differs: %d != %d", v, len(la), len(lb))
		}
		for i := range la {
			if la[i] != lb[i] {
				return fmt.Errorf("vertex %d: neighbor %d differs: %d != %d", v, i, la[i], lb[i])
			}
		}
	}
	return nil
}
