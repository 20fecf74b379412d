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

// Package cgr compresses graph adjacency into a row pointer array and an edge
// blob and reads single vertices back from them.
package cgr

import (
	"github.com/weaviate/cgr/adapters/repos/cgr/fallback"
	"github.com/weaviate/cgr/usecases/config"
)

// IntegerCodec is the word aligned codec of fallback records. Encode must be
// deterministic and return a multiple of 4 bytes, Decode must accept the
// output of Encode followed by any number of trailing bytes.
type IntegerCodec interface {
	Name() string
	Encode(values []uint32) []byte
	Decode(data []byte) ([]uint32, error)
}

var _ IntegerCodec = fallback.StreamVByte{}

// RecordKind is the encoding of one vertex record.
type RecordKind uint8

const (
	KindCGR RecordKind = iota
	KindFallback
)

func (k RecordKind) String() string {
	switch k {
	case KindCGR:
		return "cgr"
	case KindFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Dispatcher picks the record kind of a vertex. The choice only depends on
// the degree, so a reader with the persisted degrees makes the same choice.
type Dispatcher struct {
	scheme    config.Scheme
	threshold uint32
}

func NewDispatcher(scheme config.Scheme, threshold uint32) Dispatcher {
	return Dispatcher{scheme: scheme, threshold: threshold}
}

// UseFallback is true when a vertex of the given degree is written with the
// fallback codec.
func (d Dispatcher) UseFallback(degree uint32) bool {
	switch d.scheme {
	case config.SchemeFallback:
		return true
	case config.SchemeHybrid:
		return degree > d.threshold
	default:
		return false
	}
}

func (d Dispatcher) Kind(degree uint32) RecordKind {
	if d.UseFallback(degree) {
		return KindFallback
	}
	return KindCGR
}

// NeedsDegrees is true for the schemes whose reader has to know every
// degree up front.
func (d Dispatcher) NeedsDegrees() bool {
	return d.scheme == config.SchemeHybrid
}
