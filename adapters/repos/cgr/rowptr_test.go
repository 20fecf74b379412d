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
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRowPointers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		rowptr, err := BuildRowPointers(ctx, nil, 4, logger)
		require.Nil(t, err)
		assert.Equal(t, []uint64{0}, rowptr)
	})

	t.Run("small", func(t *testing.T) {
		rowptr, err := BuildRowPointers(ctx, []uint64{7, 0, 8, 3}, 4, logger)
		require.Nil(t, err)
		assert.Equal(t, []uint64{0, 7, 7, 15, 18}, rowptr)
	})

	t.Run("parallel matches sequential", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		sizes := make([]uint64, 5*minPrefixChunk+17)
		var total uint64
		for i := range sizes {
			if r.Intn(5) > 0 {
				sizes[i] = uint64(r.Intn(1000))
			}
			total += sizes[i]
		}

		sequential, err := BuildRowPointers(ctx, sizes, 1, logger)
		require.Nil(t, err)
		parallel, err := BuildRowPointers(ctx, sizes, 4, logger)
		require.Nil(t, err)

		require.Equal(t, sequential, parallel)
		assert.Equal(t, uint64(0), parallel[0])
		assert.Equal(t, total, parallel[len(sizes)])
		for i := range sizes {
			require.Equal(t, sizes[i], parallel[i+1]-parallel[i])
		}
		assert.Nil(t, checkRowPointers(parallel))
	})
}

func TestCheckRowPointers(t *testing.T) {
	assert.Nil(t, checkRowPointers([]uint64{0, 0, 4, 4}))
	assert.NotNil(t, checkRowPointers(nil))
	assert.NotNil(t, checkRowPointers([]uint64{1, 2}))
	assert.NotNil(t, checkRowPointers([]uint64{0, 4, 3}))
}

func TestChunks(t *testing.T) {
	size, count := chunks(0, 4, 10)
	assert.Equal(t, 0, count)

	size, count = chunks(100, 4, 10)
	assert.Equal(t, 25, size)
	assert.Equal(t, 4, count)

	size, count = chunks(100, 4, 60)
	assert.Equal(t, 60, size)
	assert.Equal(t, 2, count)

	size, count = chunks(5, 0, 1)
	assert.Equal(t, 5, size)
	assert.Equal(t, 1, count)
}
