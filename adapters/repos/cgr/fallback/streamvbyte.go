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

// Package fallback holds the word aligned integer codec used for vertices
// that are not CGR encoded.
//
// The layout of one encoded list is
//
//	count     uint32, little endian
//	control   ceil(count/4) bytes, 2 bits per value: byte length - 1, low bits first
//	data      1 to 4 little endian bytes per value
//	padding   zero bytes up to a multiple of 4
package fallback

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	countBytes = 4
	wordBytes  = 4
)

var ErrTruncated = errors.New("stream-vbyte data truncated")

// StreamVByte is deterministic and keeps no state between calls.
type StreamVByte struct{}

func NewStreamVByte() StreamVByte {
	return StreamVByte{}
}

func (StreamVByte) Name() string {
	return "streamvbyte"
}

func encodedLength(v uint32) int {
	switch {
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	case v < 1<<24:
		return 3
	default:
		return 4
	}
}

// Encode returns the encoded values, always a whole number of words.
func (StreamVByte) Encode(values []uint32) []byte {
	controlLen := (len(values) + 3) / 4

	size := countBytes + controlLen
	for _, v := range values {
		size += encodedLength(v)
	}
	size = (size + wordBytes - 1) / wordBytes * wordBytes

	out := make([]byte, size)
	binary.LittleEndian.PutUint32(out, uint32(len(values)))

	control := out[countBytes : countBytes+controlLen]
	pos := countBytes + controlLen
	for i, v := range values {
		length := encodedLength(v)
		control[i/4] |= byte(length-1) << ((i % 4) * 2)
		for b := 0; b < length; b++ {
			out[pos] = byte(v >> (8 * b))
			pos++
		}
	}

	return out
}

// Decode reads one list written by Encode from the start of data. Trailing
// bytes past the list are ignored.
func (s StreamVByte) Decode(data []byte) ([]uint32, error) {
	if len(data) < countBytes {
		return nil, fmt.Errorf("count header: %w", ErrTruncated)
	}
	count := int(binary.LittleEndian.Uint32(data))
	controlLen := (count + 3) / 4
	if len(data)-countBytes < controlLen {
		return nil, fmt.Errorf("%d control bytes: %w", controlLen, ErrTruncated)
	}

	control := data[countBytes : countBytes+controlLen]
	payload := data[countBytes+controlLen:]

	// full control bytes may overstate the last group, check the exact size
	need := 0
	for i := 0; i < count; i++ {
		need += int((control[i/4]>>((i%4)*2))&0x3) + 1
	}
	if need > len(payload) {
		return nil, fmt.Errorf("%d data bytes for %d values: %w", need, count, ErrTruncated)
	}

	out := make([]uint32, count)
	pos := 0
	for i := range out {
		length := int((control[i/4]>>((i%4)*2))&0x3) + 1
		var v uint32
		for b := 0; b < length; b++ {
			v |= uint32(payload[pos]) << (8 * b)
			pos++
		}
		out[i] = v
	}

	return out, nil
}
