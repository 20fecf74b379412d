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

package encoding

import (
	"fmt"
	"math"
)

// MapFirst encodes a neighbor relative to its own vertex. Neighbors at or
// after the vertex map to even values, neighbors before it to odd values, so
// near-diagonal edges stay small.
func MapFirst(node, neighbor uint32) uint64 {
	if neighbor >= node {
		return 2 * uint64(neighbor-node)
	}
	return 2*uint64(node-neighbor) - 1
}

// UnmapFirst is the inverse of MapFirst.
func UnmapFirst(node uint32, x uint64) (uint32, error) {
	dist := x >> 1
	if x&1 == 1 {
		if dist+1 > uint64(node) {
			return 0, fmt.Errorf("first neighbor %d before vertex %d underflows: %w", dist+1, node, ErrCorruptRecord)
		}
		return node - uint32(dist) - 1, nil
	}

	if uint64(node)+dist > math.MaxUint32 {
		return 0, fmt.Errorf("first neighbor %d after vertex %d overflows: %w", dist, node, ErrCorruptRecord)
	}
	return node + uint32(dist), nil
}

// gap is the unsigned distance between two strictly ascending ids.
func gap(prev, next uint32) uint64 {
	return uint64(next) - uint64(prev) - 1
}

func ungap(prev uint32, g uint64) (uint32, error) {
	next := uint64(prev) + g + 1
	if next > math.MaxUint32 {
		return 0, fmt.Errorf("gap %d after %d overflows: %w", g, prev, ErrCorruptRecord)
	}
	return uint32(next), nil
}
