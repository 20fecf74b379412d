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
	"bytes"
	"math/bits"

	"github.com/icza/bitio"
)

// Bits is an immutable MSB-first bit sequence. The last byte is zero padded
// when Len is not a multiple of 8.
type Bits struct {
	data []byte
	n    uint64
}

// NewBits wraps already packed MSB-first bytes holding n bits.
func NewBits(data []byte, n uint64) Bits {
	return Bits{data: data, n: n}
}

// Len returns the number of bits in the sequence.
func (b Bits) Len() uint64 {
	return b.n
}

// Bytes returns the packed bytes, ceil(Len/8) of them.
func (b Bits) Bytes() []byte {
	return b.data
}

// Bit returns the i-th bit, counted from the most significant bit of the
// first byte.
func (b Bits) Bit(i uint64) bool {
	return b.data[i>>3]&(0x80>>(i&7)) != 0
}

// Writer accumulates codes MSB first on top of a bitio.Writer. Len is
// tracked separately so the size of a record is known before its bytes are
// taken.
type Writer struct {
	buf bytes.Buffer
	bw  *bitio.Writer
	n   uint64
}

func NewWriter(sizeHint int) *Writer {
	w := &Writer{}
	w.buf.Grow(sizeHint)
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 {
	return w.n
}

// Reset empties the writer but keeps the allocated buffer.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.bw = bitio.NewWriter(&w.buf)
	w.n = 0
}

// Bits pads the stream to a byte boundary and returns a copy of it. The
// writer has to be Reset before it is used for the next record.
func (w *Writer) Bits() (Bits, error) {
	if w.n == 0 {
		return Bits{}, nil
	}
	if _, err := w.bw.Align(); err != nil {
		return Bits{}, err
	}
	return Bits{data: bytes.Clone(w.buf.Bytes()), n: w.n}, nil
}

// WriteFixed emits the low n bits of v, most significant first. Widths above
// 64 are zero extended.
func (w *Writer) WriteFixed(v uint64, n int) error {
	if n <= 0 {
		return nil
	}
	if n > 64 {
		if err := w.writeZeros(uint64(n - 64)); err != nil {
			return err
		}
		n = 64
	}
	if n < 64 {
		v &= (uint64(1) << n) - 1
	}
	if err := w.bw.WriteBits(v, uint8(n)); err != nil {
		return err
	}
	w.n += uint64(n)
	return nil
}

func (w *Writer) writeZeros(n uint64) error {
	for ; n >= 8; n -= 8 {
		if err := w.bw.WriteByte(0); err != nil {
			return err
		}
		w.n += 8
	}
	if n == 0 {
		return nil
	}
	if err := w.bw.WriteBits(0, uint8(n)); err != nil {
		return err
	}
	w.n += n
	return nil
}

// WriteUnary emits n-1 zero bits followed by a one bit. n must be at least 1.
func (w *Writer) WriteUnary(n uint64) error {
	if err := w.writeZeros(n - 1); err != nil {
		return err
	}
	return w.WriteFixed(1, 1)
}

// WriteGamma emits the Elias gamma code of n+1: the bit length h of n+1 as
// h-1 zeros, then the h bits of n+1. Its leading one doubles as the unary
// terminator.
func (w *Writer) WriteGamma(n uint64) error {
	x := n + 1
	h := bits.Len64(x)
	if err := w.writeZeros(uint64(h - 1)); err != nil {
		return err
	}
	return w.WriteFixed(x, h)
}

// WriteZeta emits the zeta(k) code of n: h in unary, then n+1 in h*k bits,
// where h is the smallest block count such that n+1 fits into h*k bits.
// k must be in [1, 32].
func (w *Writer) WriteZeta(n uint64, k int) error {
	x := n + 1
	h := ZetaBlocks(x, k)
	if err := w.WriteUnary(uint64(h)); err != nil {
		return err
	}
	return w.WriteFixed(x, h*k)
}

// ZetaBlocks returns the number of k-bit blocks the zeta code uses for x.
func ZetaBlocks(x uint64, k int) int {
	l := bits.Len64(x)
	h := (l + k - 1) / k
	if h == 0 {
		h = 1
	}
	return h
}
