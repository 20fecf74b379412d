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
	"encoding/binary"
)

const (
	WordBits  = 32
	WordBytes = 4
)

// WordBuffer is the word array the decoder reads from. It always holds one
// zero sentinel word past the data, so a 32-bit window starting anywhere in
// the data can be served from two adjacent words.
type WordBuffer struct {
	words     []uint32
	dataWords int
}

// NewWordBuffer converts a packed byte blob into words. order is
// binary.BigEndian for blobs written MSB first and binary.LittleEndian for
// blobs whose bytes were permuted per word. A partial trailing word is zero
// padded.
func NewWordBuffer(blob []byte, order binary.ByteOrder) *WordBuffer {
	dataWords := (len(blob) + WordBytes - 1) / WordBytes
	words := make([]uint32, dataWords+1)

	full := len(blob) / WordBytes
	for i := 0; i < full; i++ {
		words[i] = order.Uint32(blob[i*WordBytes:])
	}
	if rest := blob[full*WordBytes:]; len(rest) > 0 {
		var tail [WordBytes]byte
		copy(tail[:], rest)
		words[full] = order.Uint32(tail[:])
	}

	return &WordBuffer{words: words, dataWords: dataWords}
}

// NewWordBufferFromWords copies words and appends the sentinel.
func NewWordBufferFromWords(in []uint32) *WordBuffer {
	words := make([]uint32, len(in)+1)
	copy(words, in)
	return &WordBuffer{words: words, dataWords: len(in)}
}

// DataWords is the number of words excluding the sentinel.
func (b *WordBuffer) DataWords() int {
	return b.dataWords
}

// DataBits is the number of addressable bits.
func (b *WordBuffer) DataBits() uint64 {
	return uint64(b.dataWords) * WordBits
}

// Words exposes the backing array including the sentinel.
func (b *WordBuffer) Words() []uint32 {
	return b.words
}

// window returns the 32 bits starting at offset, left justified. offset must
// be below DataBits.
func (b *WordBuffer) window(offset uint64) uint32 {
	chunk := offset / WordBits
	value := uint64(b.words[chunk])<<32 | uint64(b.words[chunk+1])
	return uint32((value << (offset % WordBits)) >> 32)
}
