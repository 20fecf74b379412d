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
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/cgr/adapters/repos/cgr/encoding"
	"github.com/weaviate/cgr/entities/graph"
	"github.com/weaviate/cgr/usecases/config"
	"github.com/weaviate/cgr/usecases/monitoring"
)

// randomGraph mixes runs around the vertex id with ids from the whole range,
// so intervals, small gaps and large gaps all show up.
func randomGraph(seed int64, n int, maxDegree int) *graph.CSR {
	r := rand.New(rand.NewSource(seed))
	adj := make([][]uint32, n)
	for v := range adj {
		degree := r.Intn(maxDegree + 1)
		if r.Intn(10) == 0 {
			degree = 0
		}
		set := map[uint32]struct{}{}
		for len(set) < degree {
			switch r.Intn(3) {
			case 0:
				start, run := max(v-r.Intn(8), 0), r.Intn(6)+1
				for i := 0; i < run && len(set) < degree; i++ {
					if start+i < n {
						set[uint32(start+i)] = struct{}{}
					}
				}
			default:
				set[uint32(r.Intn(n))] = struct{}{}
			}
		}
		list := make([]uint32, 0, len(set))
		for id := range set {
			list = append(list, id)
		}
		sort.Slice(list, func(a, b int) bool { return list[a] < list[b] })
		adj[v] = list
	}
	return graph.FromAdjacency(adj)
}

func exampleGraph() *graph.CSR {
	return graph.FromAdjacency([][]uint32{{1, 2}, {}, {0}})
}

func gammaConfig(alignment config.Alignment) config.Compression {
	cfg := config.DefaultCompression()
	cfg.ZetaK = 1
	cfg.Alignment = alignment
	return cfg
}

func compress(t *testing.T, cfg config.Compression, g graph.Provider) *Compressed {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := NewCompressor(cfg, nil, logger, nil)
	require.Nil(t, err)
	out, err := c.Compress(context.Background(), g)
	require.Nil(t, err)
	return out
}

func TestCompressExampleGraph(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("unaligned", func(t *testing.T) {
		out := compress(t, gammaConfig(config.AlignNone), exampleGraph())

		// vertex 1 has no neighbors and takes no bits
		assert.Equal(t, []uint64{0, 7, 7, 15}, out.RowPtr)
		// 011 011 1 | 010 00100
		assert.Equal(t, []byte{0x6E, 0x88}, out.Edges)
		assert.Nil(t, out.Degrees)

		g, err := FromCompressed(out, logger)
		require.Nil(t, err)

		list, err := g.Neighbors(0)
		require.Nil(t, err)
		assert.Equal(t, []uint32{1, 2}, list)

		list, err = g.Neighbors(1)
		require.Nil(t, err)
		assert.Empty(t, list)

		list, err = g.Neighbors(2)
		require.Nil(t, err)
		assert.Equal(t, []uint32{0}, list)

		_, err = g.Neighbors(3)
		assert.ErrorIs(t, err, ErrVertexOutOfRange)
	})

	t.Run("byte aligned", func(t *testing.T) {
		out := compress(t, gammaConfig(config.AlignByte), exampleGraph())
		assert.Equal(t, []uint64{0, 1, 1, 2}, out.RowPtr)
		assert.Equal(t, []byte{0x6E, 0x44}, out.Edges)
	})

	t.Run("word aligned", func(t *testing.T) {
		out := compress(t, gammaConfig(config.AlignWord), exampleGraph())
		assert.Equal(t, []uint64{0, 1, 1, 2}, out.RowPtr)
		assert.Equal(t, []byte{0x6E, 0, 0, 0, 0x44, 0, 0, 0}, out.Edges)
	})

	t.Run("word aligned and permutated", func(t *testing.T) {
		cfg := gammaConfig(config.AlignWord)
		cfg.Permutate = true
		out := compress(t, cfg, exampleGraph())
		assert.Equal(t, []uint64{0, 1, 1, 2}, out.RowPtr)
		assert.Equal(t, []byte{0, 0, 0, 0x6E, 0, 0, 0, 0x44}, out.Edges)

		g, err := FromCompressed(out, logger)
		require.Nil(t, err)
		decoded, err := g.Decompress(context.Background())
		require.Nil(t, err)
		assert.Nil(t, graph.Equal(exampleGraph(), decoded))
	})
}

func roundTripConfigs() map[string]config.Compression {
	configs := map[string]config.Compression{}
	for _, k := range []int{1, 2, 3, 5} {
		for _, interval := range []bool{false, true} {
			for _, alignment := range []config.Alignment{config.AlignNone, config.AlignByte, config.AlignWord} {
				cfg := config.DefaultCompression()
				cfg.ZetaK = k
				cfg.UseInterval = interval
				cfg.Alignment = alignment
				cfg.Workers = 4
				configs[name(cfg)] = cfg

				if alignment == config.AlignWord {
					cfg.Permutate = true
					configs[name(cfg)] = cfg
				}
			}
		}
	}

	for _, threshold := range []uint32{0, 3, 32} {
		cfg := config.DefaultCompression()
		cfg.Scheme = config.SchemeHybrid
		cfg.Alignment = config.AlignWord
		cfg.Permutate = true
		cfg.UseInterval = threshold == 3
		cfg.DegreeThreshold = threshold
		cfg.Workers = 3
		configs[name(cfg)] = cfg
	}

	for _, alignment := range []config.Alignment{config.AlignNone, config.AlignWord} {
		cfg := config.DefaultCompression()
		cfg.Scheme = config.SchemeFallback
		cfg.Alignment = alignment
		cfg.Workers = 2
		configs[name(cfg)] = cfg
	}
	return configs
}

func name(cfg config.Compression) string {
	out := fmt.Sprintf("%s_%s", cfg.Scheme, cfg.Alignment)
	if cfg.Scheme.UsesCGR() {
		out += fmt.Sprintf("_k%d", cfg.ZetaK)
	}
	if cfg.UseInterval {
		out += "_interval"
	}
	if cfg.Permutate {
		out += "_permutated"
	}
	if cfg.Scheme == config.SchemeHybrid {
		out += fmt.Sprintf("_threshold%d", cfg.DegreeThreshold)
	}
	return out
}

func TestCompressRoundTrip(t *testing.T) {
	logger, _ := test.NewNullLogger()
	source := randomGraph(42, 3000, 48)

	for name, cfg := range roundTripConfigs() {
		t.Run(name, func(t *testing.T) {
			out := compress(t, cfg, source)

			require.Len(t, out.RowPtr, int(source.NumVertices())+1)
			assert.Equal(t, uint64(0), out.RowPtr[0])
			for i := 1; i < len(out.RowPtr); i++ {
				require.GreaterOrEqual(t, out.RowPtr[i], out.RowPtr[i-1])
			}
			totalBits := out.RowPtr[len(out.RowPtr)-1] * cfg.UnitBits()
			assert.Equal(t, (totalBits+7)/8, uint64(len(out.Edges)))

			g, err := FromCompressed(out, logger)
			require.Nil(t, err)
			decoded, err := g.Decompress(context.Background())
			require.Nil(t, err)
			require.Nil(t, graph.Equal(source, decoded))
			assert.Equal(t, graph.Fingerprint(source), out.Fingerprint)
		})
	}
}

func TestAlignmentOfRecords(t *testing.T) {
	source := randomGraph(7, 500, 20)

	for _, alignment := range []config.Alignment{config.AlignByte, config.AlignWord} {
		t.Run(alignment.String(), func(t *testing.T) {
			cfg := config.DefaultCompression()
			cfg.Alignment = alignment
			logger, _ := test.NewNullLogger()
			c, err := NewCompressor(cfg, nil, logger, nil)
			require.Nil(t, err)

			records, sizes, _, err := c.encode(context.Background(), source, 2)
			require.Nil(t, err)

			unit := alignment.UnitBits()
			for v, r := range records {
				require.Equal(t, (r.SizeBits()+unit-1)/unit, sizes[v])
				// the padding never reaches a whole unit
				assert.GreaterOrEqual(t, sizes[v]*unit, r.SizeBits())
				assert.Less(t, sizes[v]*unit-r.SizeBits(), unit)
			}
		})
	}
}

func TestHybridDispatch(t *testing.T) {
	d := NewDispatcher(config.SchemeHybrid, 4)
	assert.False(t, d.UseFallback(0))
	assert.False(t, d.UseFallback(3))
	assert.False(t, d.UseFallback(4))
	assert.True(t, d.UseFallback(5))
	assert.True(t, d.NeedsDegrees())

	assert.False(t, NewDispatcher(config.SchemeCGR, 0).UseFallback(1000))
	assert.True(t, NewDispatcher(config.SchemeFallback, 1000).UseFallback(0))

	t.Run("reader derives the same kinds", func(t *testing.T) {
		// degrees 3, 4 and 5 straddle the threshold
		source := graph.FromAdjacency([][]uint32{
			{1, 2, 3},
			{0, 2, 3, 4},
			{0, 1, 3, 4, 5},
			{},
			{9},
			{0, 1, 2, 3, 4, 6, 7, 8, 9},
			{}, {}, {}, {},
		})

		cfg := config.DefaultCompression()
		cfg.Scheme = config.SchemeHybrid
		cfg.Alignment = config.AlignWord
		cfg.Permutate = true
		cfg.DegreeThreshold = 4

		out := compress(t, cfg, source)
		assert.Equal(t, uint64(2), out.Stats.FallbackVertices)
		assert.Equal(t, uint64(8), out.Stats.CGRVertices)
		assert.Equal(t, uint64(5), out.Stats.TrivialVertices)
		assert.Equal(t, uint64(14), out.Stats.FallbackAdjacencies)

		logger, _ := test.NewNullLogger()
		g, err := FromCompressed(out, logger)
		require.Nil(t, err)
		for v := uint32(0); v < source.NumVertices(); v++ {
			assert.Equal(t, d.Kind(source.Degree(v)), g.Kind(v), "vertex %d", v)

			list, err := g.Neighbors(v)
			require.Nil(t, err)
			assert.Equal(t, source.Neighbors(v), list)
		}
	})
}

func TestCompressStatsAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewCompressionMetrics(reg)
	logger, hook := test.NewNullLogger()

	c, err := NewCompressor(gammaConfig(config.AlignNone), nil, logger, metrics)
	require.Nil(t, err)
	out, err := c.Compress(context.Background(), exampleGraph())
	require.Nil(t, err)

	assert.Equal(t, Stats{
		CGRVertices:     3,
		TrivialVertices: 1,
		CGRAdjacencies:  3,
		CGRBits:         15,
	}, out.Stats)
	assert.Equal(t, uint64(2), out.Stats.CGRBytes())
	assert.InDelta(t, 6.0, out.Stats.CGRRate(), 1e-9)
	assert.Equal(t, 0.0, out.Stats.FallbackRate())

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Vertices.WithLabelValues("cgr")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Vertices.WithLabelValues("trivial")))

	var actions []interface{}
	for _, e := range hook.AllEntries() {
		actions = append(actions, e.Data["action"])
	}
	assert.Contains(t, actions, "cgr_compress_start")
	assert.Contains(t, actions, "cgr_compress_stats")
	assert.Contains(t, actions, "cgr_compress_complete")
}

func TestCompressRejectsUnsortedNeighbors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c, err := NewCompressor(config.DefaultCompression(), nil, logger, nil)
	require.Nil(t, err)

	_, err = c.Compress(context.Background(), graph.FromAdjacency([][]uint32{{2, 1}, {}, {}}))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, encoding.ErrUnsortedNeighbors))
}

func TestCompressCancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.DefaultCompression()
	cfg.Workers = 2
	c, err := NewCompressor(cfg, nil, logger, nil)
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Compress(ctx, randomGraph(1, 5000, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCompressorRejectsInvalidConfig(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := config.DefaultCompression()
	cfg.Scheme = config.SchemeHybrid

	_, err := NewCompressor(cfg, nil, logger, nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "hybrid scheme must be word aligned")
}
