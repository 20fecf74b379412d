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

// MinIntervalLen is the shortest run of consecutive ids stored as an
// interval.
const MinIntervalLen = 2

// Interval is a run of Len consecutive ids starting at Start.
type Interval struct {
	Start uint32
	Len   uint32
}

func (i Interval) last() uint32 {
	return i.Start + i.Len - 1
}

// DetectIntervals splits a strictly ascending id list into maximal runs of at
// least minLen consecutive ids and the residual ids not covered by a run.
// Both outputs keep the ascending order of the input.
func DetectIntervals(sorted []uint32, minLen int) ([]Interval, []uint32) {
	var (
		intervals []Interval
		residuals []uint32
	)

	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[j-1]+1 {
			j++
		}

		if j-i >= minLen {
			intervals = append(intervals, Interval{Start: sorted[i], Len: uint32(j - i)})
		} else {
			residuals = append(residuals, sorted[i:j]...)
		}
		i = j
	}

	return intervals, residuals
}

// mergeIntervals writes the ids of the intervals and the residuals into dst
// in ascending order. Both inputs are ascending and disjoint.
func mergeIntervals(dst []uint32, intervals []Interval, residuals []uint32) []uint32 {
	r := 0
	for _, itv := range intervals {
		for r < len(residuals) && residuals[r] < itv.Start {
			dst = append(dst, residuals[r])
			r++
		}
		for id := uint64(itv.Start); id < uint64(itv.Start)+uint64(itv.Len); id++ {
			dst = append(dst, uint32(id))
		}
	}
	return append(dst, residuals[r:]...)
}
