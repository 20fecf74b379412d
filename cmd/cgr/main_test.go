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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/cgr/entities/graph"
	"github.com/weaviate/cgr/usecases/config"
)

// unsetFlags mirrors the flag defaults of the parser.
func unsetFlags() config.Flags {
	return config.Flags{ZetaK: -1, DegreeThreshold: -1}
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "graph.txt")
	require.Nil(t, os.WriteFile(input, []byte("# tiny graph\n0 1\n0 2\n2 0\n3 4\n3 5\n3 6\n"), 0o644))
	prefix := filepath.Join(dir, "out")
	metricsFile := filepath.Join(dir, "cgr.prom")

	opts = Options{LogLevel: "error", LogFormat: "json", MetricsFile: metricsFile}
	compressionFlags := config.Flags{Scheme: "hybrid", Alignment: "word", Permutate: true, DegreeThreshold: 2, ZetaK: 2}

	compress := CompressCommand{Compression: compressionFlags, Graph: GraphFlags{Format: "auto"}}
	compress.Args.Input = input
	compress.Args.Prefix = prefix
	require.Nil(t, compress.Execute(nil))

	for _, suffix := range []string{".vertex.bin", ".edge.bin", ".degree.bin", ".meta.msgpack"} {
		_, err := os.Stat(prefix + suffix)
		require.Nil(t, err, suffix)
	}
	metrics, err := os.ReadFile(metricsFile)
	require.Nil(t, err)
	assert.Contains(t, string(metrics), `cgr_vertices_total{kind="fallback"} 1`)

	verify := VerifyCommand{Graph: GraphFlags{Format: "edgelist"}, Source: input}
	verify.Compression = unsetFlags()
	verify.Args.Prefix = prefix
	require.Nil(t, verify.Execute(nil))

	output := filepath.Join(dir, "decoded.csr")
	decode := DecodeCommand{Compression: unsetFlags()}
	decode.Args.Prefix = prefix
	decode.Args.Output = output
	require.Nil(t, decode.Execute(nil))

	decoded, err := graph.LoadFile(output, graph.FormatCSR, false, nil)
	require.Nil(t, err)
	assert.Nil(t, graph.Equal(graph.FromAdjacency([][]uint32{{1, 2}, {}, {0}, {4, 5, 6}, {}, {}, {}}), decoded))

	t.Run("verify fails against a different graph", func(t *testing.T) {
		other := filepath.Join(dir, "other.txt")
		require.Nil(t, os.WriteFile(other, []byte("0 1\n2 0\n3 4\n3 5\n3 6\n"), 0o644))

		verify := VerifyCommand{Graph: GraphFlags{Format: "edgelist"}, Source: other}
		verify.Compression = unsetFlags()
		verify.Args.Prefix = prefix
		assert.NotNil(t, verify.Execute(nil))
	})

	t.Run("invalid configuration", func(t *testing.T) {
		flags := unsetFlags()
		flags.Scheme = "hybrid"
		compress := CompressCommand{Compression: flags}
		compress.Args.Input = input
		compress.Args.Prefix = filepath.Join(dir, "invalid")
		assert.NotNil(t, compress.Execute(nil))
	})

	t.Run("zero zeta parameter", func(t *testing.T) {
		flags := unsetFlags()
		flags.ZetaK = 0
		compress := CompressCommand{Compression: flags, Graph: GraphFlags{Format: "auto"}}
		compress.Args.Input = input
		compress.Args.Prefix = filepath.Join(dir, "zeta0")
		err := compress.Execute(nil)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "zeta_k must be between 1 and 32, got 0")
	})
}
