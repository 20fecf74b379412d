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

package bitcodec

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrOutOfBounds  = errors.New("bit offset past end of record")
	ErrFixedTooWide = errors.New("fixed width read wider than 32 bits")
	ErrZeroZeta     = errors.New("zeta parameter must be at least 1")
	ErrCorruptCode  = errors.New("corrupt code")
)

// maxCodeBits bounds the payload of a single gamma or zeta code.
const maxCodeBits = 64

// Cursor reads codes from a WordBuffer between a start and an end bit
// offset. The offset only moves forward.
type Cursor struct {
	buf    *WordBuffer
	offset uint64
	end    uint64
}

// NewCursor positions a cursor at start. Reads may not cross end, which is
// clamped to the buffer's data.
func NewCursor(buf *WordBuffer, start, end uint64) *Cursor {
	if end > buf.DataBits() {
		end = buf.DataBits()
	}
	return &Cursor{buf: buf, offset: start, end: end}
}

func (c *Cursor) Offset() uint64 {
	return c.offset
}

func (c *Cursor) End() uint64 {
	return c.end
}

// Remaining is the number of bits left before end.
func (c *Cursor) Remaining() uint64 {
	if c.offset >= c.end {
		return 0
	}
	return c.end - c.offset
}

// Window returns the 32 bits at the current offset, left justified. Bits
// past end are returned as they are stored; callers bound their reads.
func (c *Cursor) Window() (uint32, error) {
	if c.offset >= c.end {
		return 0, ErrOutOfBounds
	}
	return c.buf.window(c.offset), nil
}

// Skip advances the offset by n bits.
func (c *Cursor) Skip(n uint64) error {
	if c.offset+n > c.end {
		return fmt.Errorf("skip %d bits at %d: %w", n, c.offset, ErrOutOfBounds)
	}
	c.offset += n
	return nil
}

// DecodeUnary counts the zero bits up to the next one bit and returns that
// count plus one. The terminating one bit is not consumed.
func (c *Cursor) DecodeUnary() (uint64, error) {
	var zeros uint64
	for {
		w, err := c.Window()
		if err != nil {
			return 0, fmt.Errorf("unary at %d: %w", c.offset, err)
		}
		if w == 0 {
			zeros += WordBits
			c.offset += WordBits
			continue
		}

		lz := uint64(bits.LeadingZeros32(w))
		if c.offset+lz >= c.end {
			return 0, fmt.Errorf("unary terminator at %d: %w", c.offset+lz, ErrOutOfBounds)
		}
		c.offset += lz
		return zeros + lz + 1, nil
	}
}

// DecodeFixed reads n bits as an unsigned integer, n at most 32.
func (c *Cursor) DecodeFixed(n int) (uint64, error) {
	if n > WordBits {
		return 0, fmt.Errorf("width %d: %w", n, ErrFixedTooWide)
	}
	if n <= 0 {
		return 0, nil
	}
	if c.offset+uint64(n) > c.end {
		return 0, fmt.Errorf("fixed %d bits at %d: %w", n, c.offset, ErrOutOfBounds)
	}

	v := c.buf.window(c.offset) >> (WordBits - n)
	c.offset += uint64(n)
	return uint64(v), nil
}

// decodeWide reads up to 64 bits as two fixed reads.
func (c *Cursor) decodeWide(n int) (uint64, error) {
	if n > maxCodeBits {
		return 0, fmt.Errorf("code of %d bits at %d: %w", n, c.offset, ErrCorruptCode)
	}
	if n <= WordBits {
		return c.DecodeFixed(n)
	}

	hi, err := c.DecodeFixed(n - WordBits)
	if err != nil {
		return 0, err
	}
	lo, err := c.DecodeFixed(WordBits)
	if err != nil {
		return 0, err
	}
	return hi<<WordBits | lo, nil
}

// DecodeGamma is the inverse of Writer.WriteGamma.
func (c *Cursor) DecodeGamma() (uint64, error) {
	h, err := c.DecodeUnary()
	if err != nil {
		return 0, err
	}
	x, err := c.decodeWide(int(h))
	if err != nil {
		return 0, err
	}
	return x - 1, nil
}

// DecodeZeta is the inverse of Writer.WriteZeta. After the unary block count
// the separator bit is skipped and h*k bits of n+1 follow.
func (c *Cursor) DecodeZeta(k int) (uint64, error) {
	if k < 1 {
		return 0, ErrZeroZeta
	}
	h, err := c.DecodeUnary()
	if err != nil {
		return 0, err
	}
	if err := c.Skip(1); err != nil {
		return 0, err
	}
	if h > maxCodeBits {
		return 0, fmt.Errorf("zeta block count %d: %w", h, ErrCorruptCode)
	}
	x, err := c.decodeWide(int(h) * k)
	if err != nil {
		return 0, err
	}
	if x == 0 {
		return 0, fmt.Errorf("zero zeta payload at %d: %w", c.offset, ErrCorruptCode)
	}
	return x - 1, nil
}
