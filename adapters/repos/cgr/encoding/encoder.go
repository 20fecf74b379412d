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

package encoding

import (
	"errors"
	"fmt"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
)

var (
	ErrUnsortedNeighbors = errors.New("neighbor list is not strictly ascending")
	ErrCorruptRecord     = errors.New("corrupt vertex record")
)

// VertexEncoder turns one sorted neighbor list into a self-delimiting bit
// record:
//
//	[#intervals, (start, len-2)...]   only with intervals enabled
//	#residuals
//	map_first(v, r0), r1-r0-1, r2-r1-1, ...
//
// Every number is written with the residual code. A vertex without
// neighbors produces an empty record.
//
// A VertexEncoder reuses an internal writer and must not be shared between
// goroutines.
type VertexEncoder struct {
	code        bitcodec.ResidualCode
	useInterval bool
	w           *bitcodec.Writer
}

func NewVertexEncoder(code bitcodec.ResidualCode, useInterval bool) *VertexEncoder {
	return &VertexEncoder{
		code:        code,
		useInterval: useInterval,
		w:           bitcodec.NewWriter(64),
	}
}

// Encode returns the record of vertex v.
func (e *VertexEncoder) Encode(v uint32, neighbors []uint32) (bitcodec.Bits, error) {
	if len(neighbors) == 0 {
		return bitcodec.Bits{}, nil
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i] <= neighbors[i-1] {
			return bitcodec.Bits{}, fmt.Errorf("vertex %d at position %d (%d after %d): %w",
				v, i, neighbors[i], neighbors[i-1], ErrUnsortedNeighbors)
		}
	}

	e.w.Reset()
	residuals := neighbors
	if e.useInterval {
		var intervals []Interval
		intervals, residuals = DetectIntervals(neighbors, MinIntervalLen)
		if err := e.encodeIntervals(v, intervals); err != nil {
			return bitcodec.Bits{}, fmt.Errorf("vertex %d intervals: %w", v, err)
		}
	}
	if err := e.encodeResiduals(v, residuals); err != nil {
		return bitcodec.Bits{}, fmt.Errorf("vertex %d residuals: %w", v, err)
	}

	return e.w.Bits()
}

func (e *VertexEncoder) encodeIntervals(v uint32, intervals []Interval) error {
	if err := e.code.Write(e.w, uint64(len(intervals))); err != nil {
		return err
	}
	for i, itv := range intervals {
		start := MapFirst(v, itv.Start)
		if i > 0 {
			// maximal runs are separated by at least one missing id
			start = uint64(itv.Start) - uint64(intervals[i-1].last()) - 2
		}
		if err := e.code.Write(e.w, start); err != nil {
			return err
		}
		if err := e.code.Write(e.w, uint64(itv.Len-MinIntervalLen)); err != nil {
			return err
		}
	}
	return nil
}

func (e *VertexEncoder) encodeResiduals(v uint32, residuals []uint32) error {
	if err := e.code.Write(e.w, uint64(len(residuals))); err != nil {
		return err
	}
	for i, r := range residuals {
		x := MapFirst(v, r)
		if i > 0 {
			x = gap(residuals[i-1], r)
		}
		if err := e.code.Write(e.w, x); err != nil {
			return err
		}
	}
	return nil
}
