package laneskip

import (
	"cmp"

	"github.com/emirpasic/gods/utils"
	"github.com/facette/natsort"
)

// Order is the total order a SkipList keeps its lanes sorted by.
//
// Compare returns a negative number when a sorts before b, zero when they are
// equal and a positive number otherwise. Sentinels never reach Compare: the
// head and tail are ranked by their bound kind, so K needs no -∞/+∞ values of
// its own (strings and structs work just as well as numbers).
type Order[K any] struct {
	Compare func(a, b K) int
}

// Ordered returns the natural order of any cmp.Ordered type.
func Ordered[K cmp.Ordered]() Order[K] {
	return Order[K]{Compare: cmp.Compare[K]}
}

// NaturalStrings orders strings the way a human would: "file2" before "file10".
func NaturalStrings() Order[string] {
	return Order[string]{
		Compare: func(a, b string) int {
			if a == b {
				return 0
			}
			// natsort reports "a01" < "a1" and "a1" < "a01" alike, so only a
			// one-sided answer is trusted. Ties fall back to bytes.
			lt, gt := natsort.Compare(a, b), natsort.Compare(b, a)
			switch {
			case lt && !gt:
				return -1
			case gt && !lt:
				return 1
			default:
				return cmp.Compare(a, b)
			}
		},
	}
}

// FromComparator adapts an untyped gods comparator such as utils.IntComparator.
// The comparator must accept values of dynamic type K.
func FromComparator[K any](c utils.Comparator) Order[K] {
	return Order[K]{
		Compare: func(a, b K) int { return c(a, b) },
	}
}
