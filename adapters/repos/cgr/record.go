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
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
	"github.com/weaviate/cgr/usecases/monitoring"
)

// Record is the encoded neighbor list of one vertex. It is written once in
// the encode phase and read by the row pointer and assembly phases.
type Record struct {
	Kind RecordKind
	// Bits holds a KindCGR record.
	Bits bitcodec.Bits
	// Words holds a KindFallback record, a multiple of 4 bytes.
	Words []byte
}

// SizeBits is the unpadded size of the record.
func (r Record) SizeBits() uint64 {
	if r.Kind == KindFallback {
		return uint64(len(r.Words)) * 8
	}
	return r.Bits.Len()
}

// Units is the size of the record rounded up to whole units of unitBits.
func (r Record) Units(unitBits uint64) uint64 {
	return (r.SizeBits() + unitBits - 1) / unitBits
}

// Stats is the reduction of the encode phase. Every worker fills its own
// value, they are summed after the phase.
type Stats struct {
	CGRVertices      uint64
	FallbackVertices uint64
	// TrivialVertices have degree zero. They are also counted by kind.
	TrivialVertices uint64

	CGRAdjacencies      uint64
	FallbackAdjacencies uint64

	CGRBits       uint64
	FallbackBytes uint64
}

func (s *Stats) add(r Record, degree uint32) {
	if degree == 0 {
		s.TrivialVertices++
	}
	switch r.Kind {
	case KindFallback:
		s.FallbackVertices++
		s.FallbackAdjacencies += uint64(degree)
		s.FallbackBytes += uint64(len(r.Words))
	default:
		s.CGRVertices++
		s.CGRAdjacencies += uint64(degree)
		s.CGRBits += r.Bits.Len()
	}
}

func (s *Stats) Merge(other Stats) {
	s.CGRVertices += other.CGRVertices
	s.FallbackVertices += other.FallbackVertices
	s.TrivialVertices += other.TrivialVertices
	s.CGRAdjacencies += other.CGRAdjacencies
	s.FallbackAdjacencies += other.FallbackAdjacencies
	s.CGRBits += other.CGRBits
	s.FallbackBytes += other.FallbackBytes
}

func (s Stats) Vertices() uint64 {
	return s.CGRVertices + s.FallbackVertices
}

func (s Stats) CGRBytes() uint64 {
	return (s.CGRBits + 7) / 8
}

// CGRRate is the size of the CGR encoded neighbors as plain 32 bit ids
// divided by their encoded size. Zero when nothing was encoded.
func (s Stats) CGRRate() float64 {
	return rate(s.CGRAdjacencies, s.CGRBytes())
}

func (s Stats) FallbackRate() float64 {
	return rate(s.FallbackAdjacencies, s.FallbackBytes)
}

func rate(adjacencies, bytes uint64) float64 {
	if bytes == 0 {
		return 0
	}
	return float64(adjacencies) * 4 / float64(bytes)
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fallback vertices: %d, cgr vertices: %d, trivial vertices: %d; ",
		s.FallbackVertices, s.CGRVertices, s.TrivialVertices)
	fmt.Fprintf(&b, "fallback: %.2f MB of %.2f MB, rate %.3f; ",
		mb(s.FallbackBytes), mb(s.FallbackAdjacencies*4), s.FallbackRate())
	fmt.Fprintf(&b, "cgr: %.2f MB of %.2f MB, rate %.3f",
		mb(s.CGRBytes()), mb(s.CGRAdjacencies*4), s.CGRRate())
	return b.String()
}

func mb(bytes uint64) float64 {
	return float64(bytes) / 1024 / 1024
}

func (s Stats) log(logger logrus.FieldLogger) {
	logger.WithFields(logrus.Fields{
		"action":               "cgr_compress_stats",
		"cgr_vertices":         s.CGRVertices,
		"fallback_vertices":    s.FallbackVertices,
		"trivial_vertices":     s.TrivialVertices,
		"cgr_adjacencies":      s.CGRAdjacencies,
		"fallback_adjacencies": s.FallbackAdjacencies,
		"cgr_bytes":            s.CGRBytes(),
		"fallback_bytes":       s.FallbackBytes,
		"cgr_rate":             s.CGRRate(),
		"fallback_rate":        s.FallbackRate(),
	}).Info(s.String())
}

func (s Stats) report(metrics *monitoring.CompressionMetrics) {
	metrics.AddEncoded(KindCGR.String(), s.CGRVertices, s.CGRAdjacencies, s.CGRBytes())
	metrics.AddEncoded(KindFallback.String(), s.FallbackVertices, s.FallbackAdjacencies, s.FallbackBytes)
	metrics.AddEncoded("trivial", s.TrivialVertices, 0, 0)
	metrics.SetRate(KindCGR.String(), s.CGRRate())
	metrics.SetRate(KindFallback.String(), s.FallbackRate())
}
