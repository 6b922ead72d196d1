package rlbwttesting

import (
	"slices"
)

// NaiveBWT computes, by sorting rotations, the transform the online engine
// holds after every byte of fed has been passed to Extend in order.
//
// The engine prepends each character, so the indexed text is reverse(fed)
// followed by an end marker that sorts below every byte value. The returned
// bwt omits that marker and last is the row it occupies.
//
// This is O(n^2 log n) and only suitable for short inputs.
func NaiveBWT(fed []byte) (bwt []byte, last uint64) {
	x := Reversed(fed)
	m := len(x) + 1

	// at returns the symbol at i of x$, with -1 for the marker.
	at := func(i int) int {
		if i == len(x) {
			return -1
		}
		return int(x[i])
	}

	rows := make([]int, m)
	for i := range rows {
		rows[i] = i
	}
	slices.SortFunc(rows, func(a, b int) int {
		for k := 0; k < m; k++ {
			ca, cb := at((a+k)%m), at((b+k)%m)
			if ca != cb {
				return ca - cb
			}
		}
		return 0
	})

	bwt = make([]byte, 0, len(x))
	for row, start := range rows {
		prev := (start + m - 1) % m
		if prev == len(x) {
			last = uint64(row)
			continue
		}
		bwt = append(bwt, x[prev])
	}
	return bwt, last
}

// Reversed returns a reversed copy of b.
func Reversed(b []byte) []byte {
	r := slices.Clone(b)
	slices.Reverse(r)
	return r
}
