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

import "fmt"

const MaxZetaK = 32

// ResidualCode is the code used for every gap, count and run length of a
// record. The code family is chosen once, when the code is built.
type ResidualCode struct {
	k      int
	encode func(w *Writer, n uint64) error
	decode func(c *Cursor) (uint64, error)
}

// NewResidualCode returns gamma for k == 1 and zeta(k) for 1 < k <= 32.
func NewResidualCode(k int) (ResidualCode, error) {
	switch {
	case k < 1:
		return ResidualCode{}, ErrZeroZeta
	case k > MaxZetaK:
		return ResidualCode{}, fmt.Errorf("zeta parameter %d exceeds %d", k, MaxZetaK)
	case k == 1:
		return ResidualCode{
			k:      1,
			encode: (*Writer).WriteGamma,
			decode: (*Cursor).DecodeGamma,
		}, nil
	default:
		return ResidualCode{
			k:      k,
			encode: func(w *Writer, n uint64) error { return w.WriteZeta(n, k) },
			decode: func(c *Cursor) (uint64, error) { return c.DecodeZeta(k) },
		}, nil
	}
}

// K is the zeta block size, 1 meaning gamma.
func (r ResidualCode) K() int {
	return r.k
}

func (r ResidualCode) Write(w *Writer, n uint64) error {
	return r.encode(w, n)
}

func (r ResidualCode) Read(c *Cursor) (uint64, error) {
	return r.decode(c)
}
