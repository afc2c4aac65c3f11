package laneskip

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Lane yields the keys of one lane from head to tail, sentinels excluded.
// Every range over the result starts again from the head. An out-of-range
// level yields nothing.
func (sl *SkipList[K]) Lane(level int) iter.Seq[K] {
	return func(yield func(K) bool) {
		if level < 0 || level > TopLevel {
			return
		}
		for e := sl.head.lanes[level].Next; !e.Owner.IsSentinel(); e = e.Next {
			if !yield(e.Owner.Value) {
				return
			}
		}
	}
}

// LaneBackward yields the keys of one lane from tail to head over the Prev
// links.
func (sl *SkipList[K]) LaneBackward(level int) iter.Seq[K] {
	return func(yield func(K) bool) {
		if level < 0 || level > TopLevel {
			return
		}
		for e := sl.tail.lanes[level].Prev; !e.Owner.IsSentinel(); e = e.Prev {
			if !yield(e.Owner.Value) {
				return
			}
		}
	}
}

// TraverseForward collects every lane head to tail, indexed by level.
func (sl *SkipList[K]) TraverseForward() [Levels][]K {
	return sl.collect(sl.Lane)
}

// TraverseBackward collects every lane tail to head, indexed by level.
func (sl *SkipList[K]) TraverseBackward() [Levels][]K {
	return sl.collect(sl.LaneBackward)
}

func (sl *SkipList[K]) collect(lane func(int) iter.Seq[K]) [Levels][]K {
	var lanes [Levels][]K
	for level := range Levels {
		lanes[level] = []K{}
		for v := range lane(level) {
			lanes[level] = append(lanes[level], v)
		}
	}
	return lanes
}

// Dump writes one line per lane, sparsest lane first:
//
//	level 3: 1
//	level 2: 1 -> 4 -> 6
//
// With backward set, each lane is written tail to head joined by "<-".
func (sl *SkipList[K]) Dump(w io.Writer, backward bool) error {
	lanes, arrow := sl.TraverseForward(), " -> "
	if backward {
		lanes, arrow = sl.TraverseBackward(), " <- "
	}

	for level := TopLevel; level >= 0; level-- {
		keys := make([]string, len(lanes[level]))
		for i, v := range lanes[level] {
			keys[i] = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintf(w, "level %d: %s\n", level, strings.Join(keys, arrow)); err != nil {
			return err
		}
	}
	return nil
}

// String renders the forward dump.
func (sl *SkipList[K]) String() string {
	var b strings.Builder
	_ = sl.Dump(&b, false)
	return b.String()
}

// ═══════════════════════════════════════════════════════════════════════════════
// ITERATOR
// ═══════════════════════════════════════════════════════════════════════════════

// Iterator walks lane 0 in order.
//
// USAGE:
// ------
//
//	it := sl.Iterator()
//	for it.HasNext() {
//	    v := it.Next()
//	    fmt.Println(v)
//	}
type Iterator[K any] struct {
	current *LaneEntry[K] // The entry Next returned last (head before the first call)
}

// Iterator returns an iterator positioned before the smallest key.
func (sl *SkipList[K]) Iterator() *Iterator[K] {
	return &Iterator[K]{current: sl.head.lanes[0]}
}

// HasNext reports whether another key follows.
func (it *Iterator[K]) HasNext() bool {
	return !it.current.Next.Owner.IsSentinel()
}

// Next advances and returns the key, or the zero value once exhausted.
func (it *Iterator[K]) Next() K {
	if !it.HasNext() {
		var zero K
		return zero
	}
	it.current = it.current.Next
	return it.current.Owner.Value
}
