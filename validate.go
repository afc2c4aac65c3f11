package laneskip

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STRUCTURAL AUDIT
// ═══════════════════════════════════════════════════════════════════════════════
// Every key gets a RANK: its 0-based position in lane 0. Each lane is then
// described by a roaring bitmap of the ranks it contains:
//
//	lane 0: {0,1,2,3,4,5,6,7,8,9}
//	lane 1: {0,2,3,5,8}
//	lane 2: {0,3,5}
//	lane 3: {0}
//
// "Lane k is a subset of lane k-1" becomes a single bitmap difference,
// lane[k] AND NOT lane[k-1], which must be empty.
// ═══════════════════════════════════════════════════════════════════════════════

// Membership walks every lane and returns, per level, the lane-0 ranks of the
// keys in that lane. It fails when a lane cannot be walked consistently.
func (sl *SkipList[K]) Membership() ([Levels]*roaring.Bitmap, error) {
	lanes, _, err := sl.membership()
	return lanes, err
}

// Validate checks every structural invariant and returns an error wrapping
// ErrInvariant for the first one that does not hold:
//
//   - each lane runs from its head sentinel to its tail sentinel
//   - Next and Prev links mirror each other
//   - each entry's Level is its lane and its owner has it registered there
//   - keys never decrease along a lane
//   - lane 0 holds exactly Len() keys
//   - lane k is a subset of lane k-1, and every key's lanes are 0..TopLevel()
func (sl *SkipList[K]) Validate() error {
	lanes, ranks, err := sl.membership()
	if err != nil {
		return err
	}

	if n := lanes[0].GetCardinality(); n != uint64(sl.size) {
		return fmt.Errorf("%w: lane 0 holds %d keys, expected %d", ErrInvariant, n, sl.size)
	}

	for level := 1; level < Levels; level++ {
		if extra := roaring.AndNot(lanes[level], lanes[level-1]); !extra.IsEmpty() {
			return fmt.Errorf("%w: lane %d has ranks %v missing from lane %d",
				ErrInvariant, level, extra.ToArray(), level-1)
		}
	}

	for node, rank := range ranks {
		top := node.TopLevel()
		for level := 0; level < Levels; level++ {
			if lanes[level].Contains(rank) != (level <= top) {
				return fmt.Errorf("%w: key %s (top level %d) is wrongly placed in lane %d",
					ErrInvariant, node, top, level)
			}
		}
	}

	return nil
}

func (sl *SkipList[K]) membership() ([Levels]*roaring.Bitmap, map[*KeyNode[K]]uint32, error) {
	var lanes [Levels]*roaring.Bitmap
	ranks := make(map[*KeyNode[K]]uint32, sl.size)

	for level := 0; level < Levels; level++ {
		lanes[level] = roaring.NewBitmap()

		err := sl.walkLane(level, func(e *LaneEntry[K]) error {
			if level == 0 {
				ranks[e.Owner] = uint32(len(ranks))
			}
			rank, ok := ranks[e.Owner]
			if !ok {
				return fmt.Errorf("%w: key %s in lane %d is missing from lane 0", ErrInvariant, e.Owner, level)
			}
			lanes[level].Add(rank)
			return nil
		})
		if err != nil {
			return lanes, nil, err
		}
	}

	return lanes, ranks, nil
}

// walkLane visits the finite entries of one lane, checking links and order on
// the way. The walk is bounded so a cycle cannot hang it.
func (sl *SkipList[K]) walkLane(level int, visit func(*LaneEntry[K]) error) error {
	head, tail := sl.head.lanes[level], sl.tail.lanes[level]
	if head.Prev != nil || tail.Next != nil {
		return fmt.Errorf("%w: lane %d sentinels are not at the lane ends", ErrInvariant, level)
	}

	prev := head
	for steps := 0; ; steps++ {
		if steps > sl.size {
			return fmt.Errorf("%w: lane %d does not reach its tail", ErrInvariant, level)
		}

		e := prev.Next
		switch {
		case e == nil:
			return fmt.Errorf("%w: lane %d is cut after %s", ErrInvariant, level, prev.Owner)
		case e.Prev != prev:
			return fmt.Errorf("%w: lane %d: %s does not link back to %s", ErrInvariant, level, e.Owner, prev.Owner)
		case e.Level != level:
			return fmt.Errorf("%w: entry for %s sits in lane %d but has level %d", ErrInvariant, e.Owner, level, e.Level)
		case e.Owner.LaneEntryAt(level) != e:
			return fmt.Errorf("%w: %s does not own its lane %d entry", ErrInvariant, e.Owner, level)
		}

		if e == tail {
			return nil
		}
		if e.Owner.IsSentinel() {
			return fmt.Errorf("%w: sentinel %s inside lane %d", ErrInvariant, e.Owner, level)
		}
		if prev != head && sl.order.Compare(prev.Owner.Value, e.Owner.Value) > 0 {
			return fmt.Errorf("%w: lane %d is out of order at %s -> %s", ErrInvariant, level, prev.Owner, e.Owner)
		}

		if err := visit(e); err != nil {
			return err
		}
		prev = e
	}
}
