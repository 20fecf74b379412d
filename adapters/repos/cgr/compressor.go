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
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
	"github.com/weaviate/cgr/adapters/repos/cgr/encoding"
	"github.com/weaviate/cgr/adapters/repos/cgr/fallback"
	"github.com/weaviate/cgr/entities/concurrency"
	enterrors "github.com/weaviate/cgr/entities/errors"
	"github.com/weaviate/cgr/entities/graph"
	"github.com/weaviate/cgr/usecases/config"
	"github.com/weaviate/cgr/usecases/monitoring"
)

const (
	minEncodeChunk   = 1 << 10
	progressInterval = 5 * time.Second
)

// Compressed is the in-memory result of a compression run.
type Compressed struct {
	Config config.Compression
	Codec  string
	// RowPtr has one entry per vertex plus the total, in units of
	// Config.UnitBits().
	RowPtr []uint64
	Edges  []byte
	// Degrees is only set for the hybrid scheme.
	Degrees     []uint32
	NumEdges    uint64
	Fingerprint uint64
	Stats       Stats
	Degree      graph.DegreeSummary
}

func (c *Compressed) NumVertices() uint32 {
	return uint32(len(c.RowPtr) - 1)
}

// Compressor runs the encode, row pointer and assembly phases over a graph.
//
// The phases are separated by barriers: the row pointers need every record
// size and the assembly needs every row pointer. Within a phase vertices are
// processed in parallel and only write to their own slots.
type Compressor struct {
	config   config.Compression
	code     bitcodec.ResidualCode
	dispatch Dispatcher
	codec    IntegerCodec
	logger   logrus.FieldLogger
	metrics  *monitoring.CompressionMetrics
}

// NewCompressor validates cfg. A nil codec selects stream-vbyte, metrics may
// be nil.
func NewCompressor(cfg config.Compression, codec IntegerCodec, logger logrus.FieldLogger,
	metrics *monitoring.CompressionMetrics,
) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid compression config")
	}
	if codec == nil {
		codec = fallback.NewStreamVByte()
	}

	c := &Compressor{
		config:   cfg,
		dispatch: NewDispatcher(cfg.Scheme, cfg.DegreeThreshold),
		codec:    codec,
		logger:   logger,
		metrics:  metrics,
	}
	if cfg.Scheme.UsesCGR() {
		code, err := bitcodec.NewResidualCode(cfg.ZetaK)
		if err != nil {
			return nil, errors.Wrap(err, "residual code")
		}
		c.code = code
	}
	return c, nil
}

func (c *Compressor) workers(ctx context.Context) int {
	def := c.config.Workers
	if def <= 0 {
		def = concurrency.NumCPU()
	}
	return concurrency.BudgetFromCtx(ctx, def)
}

// Compress encodes every vertex of g. Nothing is written to disk.
func (c *Compressor) Compress(ctx context.Context, g graph.Provider) (*Compressed, error) {
	workers := c.workers(ctx)
	n := int(g.NumVertices())
	started := time.Now()

	c.logger.WithFields(logrus.Fields{
		"action":       "cgr_compress_start",
		"scheme":       c.config.Scheme.String(),
		"zeta_k":       c.config.ZetaK,
		"use_interval": c.config.UseInterval,
		"alignment":    c.config.Alignment.String(),
		"permutate":    c.config.Permutate,
		"vertices":     n,
		"edges":        g.NumEdges(),
		"workers":      workers,
	}).Info("start compression")

	phase := time.Now()
	records, sizes, stats, err := c.encode(ctx, g, workers)
	if err != nil {
		return nil, errors.Wrap(err, "encode vertices")
	}
	c.finishPhase("encode", phase)

	phase = time.Now()
	rowptr, err := BuildRowPointers(ctx, sizes, workers, c.logger)
	if err != nil {
		return nil, errors.Wrap(err, "build row pointers")
	}
	c.finishPhase("row_pointers", phase)

	phase = time.Now()
	edges, err := assemble(ctx, c.logger, c.config, records, rowptr, workers)
	if err != nil {
		return nil, errors.Wrap(err, "assemble edge blob")
	}
	c.finishPhase("assemble", phase)

	out := &Compressed{
		Config:      c.config,
		Codec:       c.codec.Name(),
		RowPtr:      rowptr,
		Edges:       edges,
		NumEdges:    g.NumEdges(),
		Fingerprint: graph.Fingerprint(g),
		Stats:       stats,
		Degree:      graph.SummarizeDegrees(g),
	}
	if c.dispatch.NeedsDegrees() {
		out.Degrees = make([]uint32, n)
		for v := range out.Degrees {
			out.Degrees[v] = g.Degree(uint32(v))
		}
	}

	stats.log(c.logger)
	stats.report(c.metrics)
	c.logger.WithFields(logrus.Fields{
		"action":        "cgr_compress_complete",
		"edge_bytes":    len(edges),
		"degree_mean":   out.Degree.Mean,
		"degree_stddev": out.Degree.StdDev,
		"degree_p50":    out.Degree.P50,
		"degree_p99":    out.Degree.P99,
		"degree_max":    out.Degree.Max,
		"took":          time.Since(started),
	}).Info("compression completed")

	return out, nil
}

func (c *Compressor) finishPhase(name string, start time.Time) {
	c.metrics.TrackPhase(name, start)
	c.logger.WithFields(logrus.Fields{
		"action": "cgr_compress_" + name,
		"took":   time.Since(start),
	}).Debug("phase completed")
}

// encode fills one record and one size per vertex. Each chunk owns an
// encoder and a Stats value, the stats are summed after the barrier.
func (c *Compressor) encode(ctx context.Context, g graph.Provider, workers int,
) ([]Record, []uint64, Stats, error) {
	n := int(g.NumVertices())
	records := make([]Record, n)
	sizes := make([]uint64, n)
	unitBits := c.config.UnitBits()

	_, count := chunks(n, workers, minEncodeChunk)
	partial := make([]Stats, count)

	var done atomic.Uint64
	stop := make(chan struct{})
	defer close(stop)
	c.reportProgress(&done, n, stop)

	err := parallelFor(ctx, c.logger, n, workers, minEncodeChunk, func(ctx context.Context, chunk, lo, hi int) error {
		var enc *encoding.VertexEncoder
		if c.config.Scheme.UsesCGR() {
			enc = encoding.NewVertexEncoder(c.code, c.config.UseInterval)
		}

		local := &partial[chunk]
		for i := lo; i < hi; i++ {
			if (i-lo)%minEncodeChunk == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			v := uint32(i)
			degree := g.Degree(v)
			neighbors := g.Neighbors(v)

			var r Record
			if c.dispatch.UseFallback(degree) {
				r = Record{Kind: KindFallback, Words: padToWord(c.codec.Encode(neighbors))}
			} else {
				bits, err := enc.Encode(v, neighbors)
				if err != nil {
					return err
				}
				r = Record{Kind: KindCGR, Bits: bits}
			}

			records[i] = r
			sizes[i] = r.Units(unitBits)
			local.add(r, degree)
		}
		done.Add(uint64(hi - lo))
		return nil
	})
	if err != nil {
		return nil, nil, Stats{}, err
	}

	var stats Stats
	for _, s := range partial {
		stats.Merge(s)
	}
	return records, sizes, stats, nil
}

// reportProgress logs the number of encoded vertices until stop is closed.
func (c *Compressor) reportProgress(done *atomic.Uint64, total int, stop <-chan struct{}) {
	enterrors.GoWrapper(func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.logger.WithFields(logrus.Fields{
					"action": "cgr_compress_progress",
					"done":   done.Load(),
					"total":  total,
				}).Info("vertices compressed")
			}
		}
	}, c.logger)
}

func padToWord(data []byte) []byte {
	if rest := len(data) % bitcodec.WordBytes; rest != 0 {
		return append(data, make([]byte, bitcodec.WordBytes-rest)...)
	}
	return data
}

// CompressToFiles runs Compress and writes the result under prefix.
func (c *Compressor) CompressToFiles(ctx context.Context, g graph.Provider, prefix string) (*Compressed, error) {
	out, err := c.Compress(ctx, g)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := WriteFiles(prefix, out, c.metrics); err != nil {
		return nil, fmt.Errorf("write %q: %w", prefix, err)
	}
	c.finishPhase("write", start)
	c.logger.WithFields(logrus.Fields{
		"action": "cgr_compress_write",
		"prefix": prefix,
	}).Info("compressed graph written to disk")

	return out, nil
}
