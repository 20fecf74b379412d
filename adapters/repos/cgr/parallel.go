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

	"github.com/sirupsen/logrus"

	enterrors "github.com/weaviate/cgr/entities/errors"
)

// chunks splits [0, n) into at most workers ranges of at least minChunk
// items and returns the range size and the number of ranges.
func chunks(n, workers, minChunk int) (size, count int) {
	if n == 0 {
		return 0, 0
	}
	workers = max(workers, 1)
	size = max((n+workers-1)/workers, minChunk, 1)
	return size, (n + size - 1) / size
}

// parallelFor runs fn on every range of chunks(n, workers, minChunk) with at
// most workers goroutines. Ranges are disjoint, fn may write to per range
// state indexed by chunk without locking. The first error cancels ctx.
func parallelFor(ctx context.Context, logger logrus.FieldLogger, n, workers, minChunk int,
	fn func(ctx context.Context, chunk, lo, hi int) error,
) error {
	size, count := chunks(n, workers, minChunk)
	if count <= 1 {
		if count == 1 {
			return fn(ctx, 0, 0, n)
		}
		return nil
	}

	eg, ctx := enterrors.NewErrorGroupWithContextWrapper(ctx, logger)
	eg.SetLimit(workers)
	for c := 0; c < count; c++ {
		lo, hi := c*size, min((c+1)*size, n)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, c, lo, hi)
		}, lo, hi)
	}
	return eg.Wait()
}
