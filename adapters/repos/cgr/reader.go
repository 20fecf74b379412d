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
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
	"github.com/weaviate/cgr/adapters/repos/cgr/encoding"
	"github.com/weaviate/cgr/adapters/repos/cgr/fallback"
	"github.com/weaviate/cgr/entities/concurrency"
	"github.com/weaviate/cgr/entities/diskio"
	"github.com/weaviate/cgr/entities/graph"
	"github.com/weaviate/cgr/usecases/config"
	"github.com/weaviate/cgr/usecases/monitoring"
)

var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
	ErrDegreeMismatch   = errors.New("decoded degree does not match stored degree")
	ErrFingerprint      = errors.New("fingerprint mismatch")
	ErrClosed           = errors.New("compressed graph is closed")
)

const minDecodeChunk = 1 << 10

// CompressedGraph answers neighbor queries on compressed files without
// decompressing the whole graph. It is read-only, Neighbors may be called
// from many goroutines.
type CompressedGraph struct {
	config   config.Compression
	rowptr   []uint64
	degrees  []uint32
	blob     []byte
	unitBits uint64

	words    *bitcodec.WordBuffer
	decoder  *encoding.VertexDecoder
	dispatch Dispatcher
	codec    IntegerCodec

	meta    *Meta
	closed  bool
	mapped  []*diskio.MappedFile
	logger  logrus.FieldLogger
	metrics *monitoring.CompressionMetrics
}

// NewCompressedGraph wraps in-memory row pointers, edge blob and, for the
// hybrid scheme, degrees. A nil codec selects stream-vbyte.
func NewCompressedGraph(cfg config.Compression, rowptr []uint64, edges []byte, degrees []uint32,
	codec IntegerCodec, logger logrus.FieldLogger,
) (*CompressedGraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid compression config")
	}
	if err := checkRowPointers(rowptr); err != nil {
		return nil, err
	}
	if codec == nil {
		codec = fallback.NewStreamVByte()
	}

	g := &CompressedGraph{
		config:   cfg,
		rowptr:   rowptr,
		degrees:  degrees,
		blob:     edges,
		unitBits: cfg.UnitBits(),
		dispatch: NewDispatcher(cfg.Scheme, cfg.DegreeThreshold),
		codec:    codec,
		logger:   logger,
	}

	totalBits := rowptr[len(rowptr)-1] * g.unitBits
	if totalBits > uint64(len(edges))*8 {
		return nil, fmt.Errorf("row pointers address %d bits, edge blob holds %d", totalBits, len(edges)*8)
	}
	if g.dispatch.NeedsDegrees() && len(degrees) != len(rowptr)-1 {
		return nil, fmt.Errorf("hybrid scheme needs %d degrees, got %d", len(rowptr)-1, len(degrees))
	}

	if cfg.Scheme.UsesCGR() {
		code, err := bitcodec.NewResidualCode(cfg.ZetaK)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "residual code")
		}
		g.decoder = encoding.NewVertexDecoder(code, cfg.UseInterval)

		var order binary.ByteOrder = binary.BigEndian
		if cfg.Permutate {
			order = binary.LittleEndian
		}
		g.words = bitcodec.NewWordBuffer(edges, order)
	}

	return g, nil
}

// FromCompressed wraps the result of a compression run.
func FromCompressed(c *Compressed, logger logrus.FieldLogger) (*CompressedGraph, error) {
	return NewCompressedGraph(c.Config, c.RowPtr, c.Edges, c.Degrees, nil, logger)
}

// Open maps the files under prefix. The sidecar decides the configuration
// when it exists, cfg is used otherwise. Close releases the mappings.
func Open(prefix string, cfg *config.Compression, logger logrus.FieldLogger,
	metrics *monitoring.CompressionMetrics,
) (*CompressedGraph, error) {
	meta, err := ReadMeta(prefix)
	if err != nil {
		return nil, err
	}

	var effective config.Compression
	switch {
	case meta != nil:
		effective, err = meta.Compression()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "meta")
		}
		if cfg != nil {
			effective.Workers = cfg.Workers
		}
	case cfg != nil:
		effective = *cfg
	default:
		return nil, fmt.Errorf("%s%s not found and no configuration given", prefix, MetaFileSuffix)
	}

	var mapped []*diskio.MappedFile
	release := func() {
		for _, m := range mapped {
			m.Close()
		}
	}
	mapFile := func(suffix string) ([]byte, error) {
		m, err := diskio.MapFile(prefix + suffix)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, m)
		return m.Bytes(), nil
	}

	vertexData, err := mapFile(VertexFileSuffix)
	if err != nil {
		release()
		return nil, err
	}
	rowptr, err := uint64sFromLE(vertexData)
	if err != nil {
		release()
		return nil, pkgerrors.Wrap(err, "row pointers")
	}

	edges, err := mapFile(EdgeFileSuffix)
	if err != nil {
		release()
		return nil, err
	}

	var degrees []uint32
	if effective.Scheme == config.SchemeHybrid {
		degreeData, err := mapFile(DegreeFileSuffix)
		if err != nil {
			release()
			return nil, err
		}
		degrees, err = uint32sFromLE(degreeData)
		if err != nil {
			release()
			return nil, pkgerrors.Wrap(err, "degrees")
		}
	}

	if meta != nil && uint64(meta.Vertices)+1 != uint64(len(rowptr)) {
		release()
		return nil, fmt.Errorf("meta lists %d vertices, row pointer file holds %d entries", meta.Vertices, len(rowptr))
	}

	g, err := NewCompressedGraph(effective, rowptr, edges, degrees, nil, logger)
	if err != nil {
		release()
		return nil, err
	}
	g.meta = meta
	g.mapped = mapped
	g.metrics = metrics

	if cb := metrics.ReadCallback(); cb != nil {
		for _, m := range mapped {
			cb(int64(m.Len()), 0)
		}
	}
	logger.WithFields(logrus.Fields{
		"action":     "cgr_open",
		"prefix":     prefix,
		"scheme":     effective.Scheme.String(),
		"vertices":   g.NumVertices(),
		"edge_bytes": len(edges),
	}).Debug("opened compressed graph")

	return g, nil
}

// Close unmaps the files of a graph returned by Open. Later queries fail
// with ErrClosed. Close must not race with queries.
func (g *CompressedGraph) Close() error {
	var firstErr error
	for _, m := range g.mapped {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.mapped = nil
	g.blob = nil
	g.words = nil
	g.closed = true
	return firstErr
}

func (g *CompressedGraph) Config() config.Compression {
	return g.config
}

// Meta is nil unless the graph was opened from files with a sidecar.
func (g *CompressedGraph) Meta() *Meta {
	return g.meta
}

func (g *CompressedGraph) NumVertices() uint32 {
	return uint32(len(g.rowptr) - 1)
}

func (g *CompressedGraph) RowPointers() []uint64 {
	return g.rowptr
}

// Kind is the record kind of v as derived from the persisted degrees.
func (g *CompressedGraph) Kind(v uint32) RecordKind {
	var degree uint32
	if g.degrees != nil {
		degree = g.degrees[v]
	}
	return g.dispatch.Kind(degree)
}

// Neighbors decodes the ascending neighbor list of v.
func (g *CompressedGraph) Neighbors(v uint32) ([]uint32, error) {
	return g.AppendNeighbors(nil, v)
}

// AppendNeighbors decodes the neighbors of v and appends them to dst.
func (g *CompressedGraph) AppendNeighbors(dst []uint32, v uint32) ([]uint32, error) {
	if g.closed {
		return dst, ErrClosed
	}
	if v >= g.NumVertices() {
		return dst, fmt.Errorf("vertex %d of %d: %w", v, g.NumVertices(), ErrVertexOutOfRange)
	}

	start, end := g.rowptr[v]*g.unitBits, g.rowptr[v+1]*g.unitBits
	before := len(dst)

	var err error
	switch g.Kind(v) {
	case KindFallback:
		var values []uint32
		values, err = g.codec.Decode(g.blob[start/8 : end/8])
		if err != nil {
			err = fmt.Errorf("vertex %d: %w", v, err)
		}
		dst = append(dst, values...)
	default:
		dst, err = g.decoder.Decode(dst, bitcodec.NewCursor(g.words, start, end), v)
	}
	if err != nil {
		g.metrics.DecodeError()
		return dst, err
	}

	if g.degrees != nil {
		if got := uint32(len(dst) - before); got != g.degrees[v] {
			g.metrics.DecodeError()
			return dst, fmt.Errorf("vertex %d: decoded %d neighbors, stored degree is %d: %w",
				v, got, g.degrees[v], ErrDegreeMismatch)
		}
	}
	return dst, nil
}

// Decompress decodes every vertex in parallel into a CSR.
func (g *CompressedGraph) Decompress(ctx context.Context) (*graph.CSR, error) {
	started := time.Now()
	n := int(g.NumVertices())
	workers := concurrency.BudgetFromCtx(ctx, max(g.config.Workers, 1))

	lists := make([][]uint32, n)
	err := parallelFor(ctx, g.logger, n, workers, minDecodeChunk, func(ctx context.Context, _, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if (i-lo)%minDecodeChunk == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			list, err := g.Neighbors(uint32(i))
			if err != nil {
				return err
			}
			lists[i] = list
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "decode vertices")
	}

	out := graph.FromAdjacency(lists)
	g.metrics.AddDecoded(uint64(n))
	g.metrics.TrackPhase("decompress", started)
	g.logger.WithFields(logrus.Fields{
		"action":   "cgr_decompress",
		"vertices": n,
		"edges":    out.NumEdges(),
		"took":     time.Since(started),
	}).Info("decompression completed")

	return out, nil
}

// Verify decompresses the graph and compares it with source when given and
// with the fingerprint of the sidecar when there is one.
func (g *CompressedGraph) Verify(ctx context.Context, source graph.Provider) (*graph.CSR, error) {
	decoded, err := g.Decompress(ctx)
	if err != nil {
		return nil, err
	}

	if source != nil {
		if err := graph.Equal(source, decoded); err != nil {
			return decoded, pkgerrors.Wrap(err, "compare with source graph")
		}
	}
	if g.meta != nil {
		if g.meta.Edges != decoded.NumEdges() {
			return decoded, fmt.Errorf("meta lists %d edges, decoded %d", g.meta.Edges, decoded.NumEdges())
		}
		if fp := graph.Fingerprint(decoded); fp != g.meta.Fingerprint {
			return decoded, fmt.Errorf("decoded %016x, meta %016x: %w", fp, g.meta.Fingerprint, ErrFingerprint)
		}
	}
	return decoded, nil
}
