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

	"github.com/sirupsen/logrus"

	"github.com/weaviate/cgr/adapters/repos/cgr/bitcodec"
	"github.com/weaviate/cgr/usecases/config"
)

const (
	minCopyChunk    = 1 << 12
	minPermuteChunk = 1 << 18
)

// PermutateBytesByWord reverses the 4 bytes of every word in place. The
// codec writes bits MSB first, after the permutation a word read in little
// endian order carries the bits in codec order. Applying it twice restores
// the input.
func PermutateBytesByWord(buf []byte) error {
	if len(buf)%bitcodec.WordBytes != 0 {
		return fmt.Errorf("permutate %d bytes: not a multiple of %d", len(buf), bitcodec.WordBytes)
	}
	for i := 0; i < len(buf); i += bitcodec.WordBytes {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = buf[i+3], buf[i+2], buf[i+1], buf[i]
	}
	return nil
}

// permutateParallel is PermutateBytesByWord split over workers on word
// boundaries.
func permutateParallel(ctx context.Context, logger logrus.FieldLogger, buf []byte, workers int) error {
	if len(buf)%bitcodec.WordBytes != 0 {
		return PermutateBytesByWord(buf)
	}
	words := len(buf) / bitcodec.WordBytes
	return parallelFor(ctx, logger, words, workers, minPermuteChunk, func(_ context.Context, _, lo, hi int) error {
		return PermutateBytesByWord(buf[lo*bitcodec.WordBytes : hi*bitcodec.WordBytes])
	})
}

// orBitsAt ORs the bits of src into dst starting at bit offset. dst must be
// zeroed in the target range.
func orBitsAt(dst []byte, offset uint64, src bitcodec.Bits) {
	data := src.Bytes()
	base := offset / 8
	shift := offset % 8
	if shift == 0 {
		copy(dst[base:], data)
		return
	}
	for i, b := range data {
		pos := base + uint64(i)
		dst[pos] |= b >> shift
		if next := pos + 1; next < uint64(len(dst)) {
			dst[next] |= b << (8 - shift)
		}
	}
}

// assemble lays every record out at its row pointer. unitBits is the row
// pointer unit of the run.
func assemble(ctx context.Context, logger logrus.FieldLogger, cfg config.Compression,
	records []Record, rowptr []uint64, workers int,
) ([]byte, error) {
	unitBits := cfg.UnitBits()
	totalBits := rowptr[len(rowptr)-1] * unitBits
	blob := make([]byte, (totalBits+7)/8)

	if unitBits == 1 {
		// unaligned records share bytes with their neighbors
		for v, r := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			orBitsAt(blob, rowptr[v], r.Bits)
		}
		return blob, nil
	}

	unitBytes := unitBits / 8
	permutate := cfg.Permutate && cfg.Alignment == config.AlignWord && cfg.Scheme.UsesCGR()
	// fallback records are native little endian words and keep their order
	perRecord := permutate && cfg.Scheme == config.SchemeHybrid
	err := parallelFor(ctx, logger, len(records), workers, minCopyChunk, func(_ context.Context, _, lo, hi int) error {
		for v := lo; v < hi; v++ {
			start, end := rowptr[v]*unitBytes, rowptr[v+1]*unitBytes
			r := records[v]
			if r.Kind == KindFallback {
				copy(blob[start:end], r.Words)
				continue
			}

			copy(blob[start:end], r.Bits.Bytes())
			if perRecord {
				if err := PermutateBytesByWord(blob[start:end]); err != nil {
					return fmt.Errorf("vertex %d: %w", v, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if permutate && !perRecord {
		if err := permutateParallel(ctx, logger, blob, workers); err != nil {
			return nil, err
		}
	}
	return blob, nil
}
