package laneskip

import (
	"cmp"
	"fmt"
	"log/slog"
)

// Entry is one key for Build together with its top level.
type Entry[K any] struct {
	Value    K
	TopLevel int
}

// Build creates a skip list and inserts entries in the given order.
//
// Example:
//
//	sl, err := Build([]Entry[int]{{1, 3}, {5, 0}, {4, 2}})
func Build[K cmp.Ordered](entries []Entry[K]) (*SkipList[K], error) {
	return BuildWithOrder(Ordered[K](), entries)
}

// BuildWithOrder is Build for keys sorted by a custom order.
//
// All levels are checked before the first insert, so an error never leaves a
// half-built list behind.
func BuildWithOrder[K any](order Order[K], entries []Entry[K]) (*SkipList[K], error) {
	for i, e := range entries {
		if e.TopLevel < 0 || e.TopLevel > TopLevel {
			return nil, fmt.Errorf("entry %d: %w: %d not in [0, %d]", i, ErrInvalidLevel, e.TopLevel, TopLevel)
		}
	}

	slog.Debug("building skip list", slog.Int("entries", len(entries)))

	sl := NewWithOrder(order)
	for i, e := range entries {
		if err := sl.Insert(NewKeyNode(e.Value), e.TopLevel); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return sl, nil
}
