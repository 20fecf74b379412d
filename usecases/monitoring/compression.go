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

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CompressionMetrics collects the counters of compression and decode runs.
// All helpers are safe to call on a nil receiver.
type CompressionMetrics struct {
	// Encode side, labelled by record kind: cgr, fallback or trivial
	Vertices     *prometheus.CounterVec
	Adjacencies  *prometheus.CounterVec
	EncodedBytes *prometheus.CounterVec
	Rate         *prometheus.GaugeVec

	PhaseDurations *prometheus.SummaryVec

	// I/O
	BytesWritten *prometheus.CounterVec
	BytesRead    prometheus.Counter

	// Decode side
	DecodedVertices prometheus.Counter
	DecodeErrors    prometheus.Counter
}

// NewCompressionMetrics registers the collectors with reg. A nil reg
// registers nothing.
func NewCompressionMetrics(reg prometheus.Registerer) *CompressionMetrics {
	if reg == nil {
		reg = noop
	}

	return &CompressionMetrics{
		Vertices: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cgr_vertices_total",
			Help: "Number of encoded vertices by record kind",
		}, []string{"kind"}),
		Adjacencies: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cgr_adjacencies_total",
			Help: "Number of encoded neighbor ids by record kind",
		}, []string{"kind"}),
		EncodedBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cgr_encoded_bytes_total",
			Help: "Encoded size in bytes by record kind, before alignment",
		}, []string{"kind"}),
		Rate: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "cgr_compression_rate",
			Help: "Uncompressed 32 bit neighbor ids divided by encoded bytes",
		}, []string{"kind"}),
		PhaseDurations: promauto.With(reg).NewSummaryVec(prometheus.SummaryOpts{
			Name: "cgr_phase_duration_seconds",
			Help: "Duration of the phases of a compression or decode run",
		}, []string{"phase"}),
		BytesWritten: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cgr_file_bytes_written_total",
			Help: "Bytes written per output file kind",
		}, []string{"file"}),
		BytesRead: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cgr_file_bytes_read_total",
			Help: "Bytes read from input graph files",
		}),
		DecodedVertices: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cgr_decoded_vertices_total",
			Help: "Number of decoded vertices",
		}),
		DecodeErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cgr_decode_errors_total",
			Help: "Number of vertices that failed to decode",
		}),
	}
}

func (m *CompressionMetrics) AddEncoded(kind string, vertices, adjacencies, bytes uint64) {
	if m == nil {
		return
	}

	m.Vertices.WithLabelValues(kind).Add(float64(vertices))
	m.Adjacencies.WithLabelValues(kind).Add(float64(adjacencies))
	m.EncodedBytes.WithLabelValues(kind).Add(float64(bytes))
}

func (m *CompressionMetrics) SetRate(kind string, rate float64) {
	if m == nil {
		return
	}

	m.Rate.WithLabelValues(kind).Set(rate)
}

// TrackPhase observes the time since start for phase.
func (m *CompressionMetrics) TrackPhase(phase string, start time.Time) {
	if m == nil {
		return
	}

	m.PhaseDurations.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// WriteCallback returns a callback for diskio writers that counts into the
// given file label.
func (m *CompressionMetrics) WriteCallback(file string) func(int64) {
	if m == nil {
		return nil
	}

	c := m.BytesWritten.WithLabelValues(file)
	return func(n int64) {
		c.Add(float64(n))
	}
}

// ReadCallback returns a callback for diskio readers.
func (m *CompressionMetrics) ReadCallback() func(int64, int64) {
	if m == nil {
		return nil
	}

	return func(n, _ int64) {
		m.BytesRead.Add(float64(n))
	}
}

func (m *CompressionMetrics) AddDecoded(vertices uint64) {
	if m == nil {
		return
	}

	m.DecodedVertices.Add(float64(vertices))
}

func (m *CompressionMetrics) DecodeError() {
	if m == nil {
		return
	}

	m.DecodeErrors.Inc()
}
