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
	"fmt"
	"math"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
)

// VertexDecoder reads records written by VertexEncoder. It holds no mutable
// state and is safe for concurrent use.
type VertexDecoder struct {
	code        bitcodec.ResidualCode
	useInterval bool
}

func NewVertexDecoder(code bitcodec.ResidualCode, useInterval bool) *VertexDecoder {
	return &VertexDecoder{code: code, useInterval: useInterval}
}

// Decode reads the record of vertex v at the cursor and appends its
// neighbors to dst. An empty cursor window is a vertex without neighbors.
func (d *VertexDecoder) Decode(dst []uint32, c *bitcodec.Cursor, v uint32) ([]uint32, error) {
	if c.Remaining() == 0 {
		return dst, nil
	}

	var intervals []Interval
	if d.useInterval {
		var err error
		intervals, err = d.decodeIntervals(c, v)
		if err != nil {
			return dst, fmt.Errorf("vertex %d intervals: %w", v, err)
		}
	}

	residuals, err := d.decodeResiduals(c, v)
	if err != nil {
		return dst, fmt.Errorf("vertex %d residuals: %w", v, err)
	}

	if len(intervals) == 0 {
		return append(dst, residuals...), nil
	}
	return mergeIntervals(dst, intervals, residuals), nil
}

func (d *VertexDecoder) readCount(c *bitcodec.Cursor) (int, error) {
	n, err := d.code.Read(c)
	if err != nil {
		return 0, err
	}
	// every counted item takes at least one bit
	if n > c.Remaining() {
		return 0, fmt.Errorf("count %d exceeds %d remaining bits: %w", n, c.Remaining(), ErrCorruptRecord)
	}
	return int(n), nil
}

func (d *VertexDecoder) decodeIntervals(c *bitcodec.Cursor, v uint32) ([]Interval, error) {
	count, err := d.readCount(c)
	if err != nil {
		return nil, err
	}

	intervals := make([]Interval, 0, count)
	for i := 0; i < count; i++ {
		x, err := d.code.Read(c)
		if err != nil {
			return nil, err
		}

		var start uint32
		if i == 0 {
			start, err = UnmapFirst(v, x)
			if err != nil {
				return nil, err
			}
		} else {
			next := uint64(intervals[i-1].last()) + 2 + x
			if next > math.MaxUint32 {
				return nil, fmt.Errorf("interval start %d: %w", next, ErrCorruptRecord)
			}
			start = uint32(next)
		}

		l, err := d.code.Read(c)
		if err != nil {
			return nil, err
		}
		length := l + MinIntervalLen
		if uint64(start)+length-1 > math.MaxUint32 {
			return nil, fmt.Errorf("interval [%d, +%d): %w", start, length, ErrCorruptRecord)
		}
		intervals = append(intervals, Interval{Start: start, Len: uint32(length)})
	}

	return intervals, nil
}

func (d *VertexDecoder) decodeResiduals(c *bitcodec.Cursor, v uint32) ([]uint32, error) {
	count, err := d.readCount(c)
	if err != nil {
		return nil, err
	}

	residuals := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		x, err := d.code.Read(c)
		if err != nil {
			return nil, err
		}

		var id uint32
		if i == 0 {
			id, err = UnmapFirst(v, x)
		} else {
			id, err = ungap(residuals[i-1], x)
		}
		if err != nil {
			return nil, err
		}
		residuals = append(residuals, id)
	}

	return residuals, nil
}
