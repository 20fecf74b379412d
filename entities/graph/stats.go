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

package graph

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/spaolacci/murmur3"
	"gonum.org/v1/gonum/stat"
)

// Fingerprint hashes the vertex count and every neighbor list in vertex
// order. Two providers with the same adjacency have the same fingerprint.
func Fingerprint(p Provider) uint64 {
	h := murmur3.New64()

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], p.NumVertices())
	h.Write(buf[:])

	scratch := make([]byte, 0, 4096)
	for v := uint32(0); v < p.NumVertices(); v++ {
		list := p.Neighbors(v)
		scratch = binary.LittleEndian.AppendUint32(scratch[:0], uint32(len(list)))
		for _, n := range list {
			scratch = binary.LittleEndian.AppendUint32(scratch, n)
		}
		h.Write(scratch)
	}
	return h.Sum64()
}

// DegreeSummary describes the degree distribution of a graph.
type DegreeSummary struct {
	Vertices uint32
	Edges    uint64
	Isolated uint32
	Mean     float64
	StdDev   float64
	P50      float64
	P99      float64
	Max      uint32
}

func SummarizeDegrees(p Provider) DegreeSummary {
	s := DegreeSummary{Vertices: p.NumVertices(), Edges: p.NumEdges()}
	if s.Vertices == 0 {
		return s
	}

	degrees := make([]float64, s.Vertices)
	for v := uint32(0); v < s.Vertices; v++ {
		d := p.Degree(v)
		degrees[v] = float64(d)
		if d == 0 {
			s.Isolated++
		}
		s.Max = max(s.Max, d)
	}

	s.Mean, s.StdDev = stat.MeanStdDev(degrees, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}

	sort.Float64s(degrees)
	s.P50 = stat.Quantile(0.5, stat.Empirical, degrees, nil)
	s.P99 = stat.Quantile(0.99, stat.Empirical, degrees, nil)
	return s
}
