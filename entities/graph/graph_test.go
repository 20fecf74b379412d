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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSR(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		g, err := NewCSR([]uint64{0, 2, 2, 3}, []uint32{1, 2, 0})
		require.Nil(t, err)
		assert.Equal(t, uint32(3), g.NumVertices())
		assert.Equal(t, uint64(3), g.NumEdges())
		assert.Equal(t, []uint32{1, 2}, g.Neighbors(0))
		assert.Empty(t, g.Neighbors(1))
		assert.Equal(t, uint32(1), g.Degree(2))
	})

	for name, offsets := range map[string][]uint64{
		"empty offsets":      {},
		"first not zero":     {1, 3},
		"decreasing":         {0, 2, 1, 3},
		"edge count differs": {0, 1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSR(offsets, []uint32{1, 2, 0})
			assert.NotNil(t, err)
		})
	}
}

func TestNormalize(t *testing.T) {
	g := FromAdjacency([][]uint32{{3, 1, 3, 2}, {}, {0, 0}, {1}})
	_, ok := g.Sorted()
	require.False(t, ok)

	g.Normalize()
	_, ok = g.Sorted()
	require.True(t, ok)

	assert.Equal(t, []uint32{1, 2, 3}, g.Neighbors(0))
	assert.Empty(t, g.Neighbors(1))
	assert.Equal(t, []uint32{0}, g.Neighbors(2))
	assert.Equal(t, []uint32{1}, g.Neighbors(3))
	assert.Equal(t, uint64(5), g.NumEdges())
}

func TestEqual(t *testing.T) {
	a := FromAdjacency([][]uint32{{1, 2}, {}, {0}})
	assert.Nil(t, Equal(a, FromAdjacency([][]uint32{{1, 2}, {}, {0}})))
	assert.EqualError(t, Equal(a, FromAdjacency([][]uint32{{1, 2}, {}, {1}})),
		"vertex 2: neighbor 0 differs: 0 != 1")
	assert.NotNil(t, Equal(a, FromAdjacency([][]uint32{{1, 2}, {}})))
}

func TestReadEdgeList(t *testing.T) {
	input := `# a comment
% another comment
0 2
0 1
0 1

2 0
`
	t.Run("directed", func(t *testing.T) {
		g, err := ReadEdgeList(strings.NewReader(input), false)
		require.Nil(t, err)
		assert.Nil(t, Equal(g, FromAdjacency([][]uint32{{1, 2}, {}, {0}})))
	})

	t.Run("symmetrized", func(t *testing.T) {
		g, err := ReadEdgeList(strings.NewReader(input), true)
		require.Nil(t, err)
		assert.Nil(t, Equal(g, FromAdjacency([][]uint32{{1, 2}, {0}, {0}})))
	})

	t.Run("empty", func(t *testing.T) {
		g, err := ReadEdgeList(strings.NewReader(""), false)
		require.Nil(t, err)
		assert.Equal(t, uint32(0), g.NumVertices())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ReadEdgeList(strings.NewReader("0 1\n2\n"), false)
		assert.ErrorContains(t, err, "line 2")

		_, err = ReadEdgeList(strings.NewReader("0 x\n"), false)
		assert.NotNil(t, err)
	})
}

func TestCSRBinaryRoundTrip(t *testing.T) {
	g := FromAdjacency([][]uint32{{1, 2, 3}, {0}, {}, {0, 1, 2}})

	var buf bytes.Buffer
	require.Nil(t, WriteCSRBinary(&buf, g))
	assert.Equal(t, 16+5*8+7*4, buf.Len())

	read, err := ReadCSRBinary(bytes.NewReader(buf.Bytes()))
	require.Nil(t, err)
	assert.Nil(t, Equal(g, read))

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadCSRBinary(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
		assert.NotNil(t, err)
	})

	t.Run("neighbor out of range", func(t *testing.T) {
		bad := FromAdjacency([][]uint32{{5}})
		var out bytes.Buffer
		require.Nil(t, WriteCSRBinary(&out, bad))
		_, err := ReadCSRBinary(&out)
		assert.ErrorContains(t, err, "points to vertex 5")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.txt")
	require.Nil(t, os.WriteFile(path, []byte("0 1\n1 2\n"), 0o644))

	format, err := ParseFormat("auto", path)
	require.Nil(t, err)
	require.Equal(t, FormatEdgeList, format)

	var read int64
	g, err := LoadFile(path, format, false, func(n, _ int64) { read += n })
	require.Nil(t, err)
	assert.Equal(t, uint32(3), g.NumVertices())
	assert.Equal(t, int64(8), read)

	format, err = ParseFormat("", "graph.csr")
	require.Nil(t, err)
	assert.Equal(t, FormatCSR, format)

	_, err = ParseFormat("parquet", path)
	assert.NotNil(t, err)
}

func TestFingerprint(t *testing.T) {
	a := FromAdjacency([][]uint32{{1, 2}, {}, {0}})
	b := FromAdjacency([][]uint32{{1, 2}, {}, {0}})
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	// moving a neighbor to another vertex changes the hash
	c := FromAdjacency([][]uint32{{1}, {2}, {0}})
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))

	assert.NotEqual(t, Fingerprint(FromAdjacency(nil)), Fingerprint(FromAdjacency([][]uint32{{}})))
}

func TestSummarizeDegrees(t *testing.T) {
	s := SummarizeDegrees(FromAdjacency([][]uint32{{1, 2, 3}, {}, {0}, {0, 1, 2}}))
	assert.Equal(t, uint32(4), s.Vertices)
	assert.Equal(t, uint64(7), s.Edges)
	assert.Equal(t, uint32(1), s.Isolated)
	assert.Equal(t, uint32(3), s.Max)
	assert.InDelta(t, 1.75, s.Mean, 1e-9)
	assert.InDelta(t, 1, s.P50, 1e-9)
	assert.InDelta(t, 3, s.P99, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)

	empty := SummarizeDegrees(FromAdjacency(nil))
	assert.Equal(t, DegreeSummary{}, empty)

	single := SummarizeDegrees(FromAdjacency([][]uint32{{0}}))
	assert.Equal(t, 0.0, single.StdDev)
}
