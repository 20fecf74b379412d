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

package cgr

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const minPrefixChunk = 1 << 16

// BuildRowPointers returns the exclusive prefix sum of sizes with the total
// appended: out[0] is 0 and out[i+1]-out[i] is sizes[i]. Large inputs are
// summed per chunk in parallel, then the chunk offsets are applied in a
// second parallel pass.
func BuildRowPointers(ctx context.Context, sizes []uint64, workers int,
	logger logrus.FieldLogger,
) ([]uint64, error) {
	n := len(sizes)
	out := make([]uint64, n+1)

	_, count := chunks(n, workers, minPrefixChunk)
	sums := make([]uint64, count)
	err := parallelFor(ctx, logger, n, workers, minPrefixChunk, func(_ context.Context, c, lo, hi int) error {
		var sum uint64
		for _, s := range sizes[lo:hi] {
			sum += s
		}
		sums[c] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sum chunks: %w", err)
	}

	bases := make([]uint64, count)
	for c := 1; c < count; c++ {
		bases[c] = bases[c-1] + sums[c-1]
	}

	err = parallelFor(ctx, logger, n, workers, minPrefixChunk, func(_ context.Context, c, lo, hi int) error {
		acc := bases[c]
		for i := lo; i < hi; i++ {
			acc += sizes[i]
			out[i+1] = acc
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply chunk offsets: %w", err)
	}

	return out, nil
}

// checkRowPointers verifies the invariants a reader relies on.
func checkRowPointers(rowptr []uint64) error {
	if len(rowptr) == 0 {
		return fmt.Errorf("row pointers: need at least one entry")
	}
	if rowptr[0] != 0 {
		return fmt.Errorf("row pointers: first entry is %d, expected 0", rowptr[0])
	}
	for i := 1; i < len(rowptr); i++ {
		if rowptr[i] < rowptr[i-1] {
			return fmt.Errorf("row pointers: decrease at vertex %d (%d < %d)", i-1, rowptr[i], rowptr[i-1])
		}
	}
	return nil
}
