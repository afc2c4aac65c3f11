package laneskip

import (
	"cmp"
	"errors"
	"fmt"
)

// ═══════════════════════════════════════════════════════════════════════════════
// WHAT IS A LANE SKIP LIST?
// ═══════════════════════════════════════════════════════════════════════════════
// A skip list is a sorted linked list with "express lanes" stacked on top of
// it. This one has exactly four lanes, and every lane is a doubly linked chain
// fenced by two permanent sentinels:
//
// Level 3: -∞ <-> [1] <---------------------------------------------------> +∞
// Level 2: -∞ <-> [1] <-----------> [4] <-----> [6] <---------------------> +∞
// Level 1: -∞ <-> [1] <-> [3] <---> [4] <-----> [6] <-------------> [9] <-> +∞
// Level 0: -∞ <-> [1] <-> [2] <-> [3] <-> [4] <-> [5] <-> [6] ... [9] <-> [10] <-> +∞
//
// HOW IT DIFFERS FROM A CLASSIC SKIP LIST:
// ----------------------------------------
// - The number of lanes is fixed at four (levels 0..3)
// - The CALLER picks each key's top level at insertion time; nothing is
//   randomized unless the caller asks for it through a LevelPolicy
// - Each key is a KeyNode that owns one LaneEntry per lane it is in, and every
//   LaneEntry points back at its KeyNode. Dropping a lane means going
//   entry -> KeyNode -> entry one level down.
//
// SEARCH EXAMPLE (finding 5 in the picture above):
// ------------------------------------------------
// 1. Level 3: 1 < 5, advance; +∞ stops the scan. Back off to [1], drop a lane
// 2. Level 2: 1, 4 < 5, advance; 6 stops the scan. Back off to [4], drop
// 3. Level 1: 4 < 5, advance; 6 stops the scan. Back off to [4], drop
// 4. Level 0: 4 < 5, advance; 5 == 5. Found!
//
// The back-off step matters: the scan always stops one entry PAST the target
// position, so the lower lane has to resume from the entry before it.
//
// Time Complexity: O(log n) expected when levels are drawn geometrically,
// O(n) when the caller's level choice is poor. There is no rebalancing.
// ═══════════════════════════════════════════════════════════════════════════════

const (
	Levels   = 4          // Number of lanes
	TopLevel = Levels - 1 // Index of the sparsest lane
)

var (
	ErrInvalidLevel  = errors.New("top level out of range")
	ErrNilNode       = errors.New("nil key node")
	ErrAlreadyLinked = errors.New("key node is already linked")
	ErrNilPolicy     = errors.New("nil level policy")

	// Invariant violations. These are raised with panic, never returned.
	ErrInvariant     = errors.New("skip list invariant violated")
	ErrLevelTaken    = fmt.Errorf("%w: lane level registered twice", ErrInvariant)
	ErrBrokenDescent = fmt.Errorf("%w: predecessor missing from lower lane", ErrInvariant)
)

// SkipList is a four-lane skip list ordered by an Order[K].
//
// It is not safe for concurrent use; wrap it in a mutex if you need that.
type SkipList[K any] struct {
	order Order[K]
	head  *KeyNode[K] // -∞, linked into every lane
	tail  *KeyNode[K] // +∞, linked into every lane
	size  int
}

// New creates an empty skip list over a cmp.Ordered key type.
func New[K cmp.Ordered]() *SkipList[K] {
	return NewWithOrder(Ordered[K]())
}

// NewWithOrder creates an empty skip list that sorts keys with order.
//
// Both sentinels get one entry per lane and every lane starts out as the
// two-entry chain head <-> tail.
func NewWithOrder[K any](order Order[K]) *SkipList[K] {
	sl := &SkipList[K]{
		order: order,
		head:  newSentinel[K](lowerBound),
		tail:  newSentinel[K](upperBound),
	}

	for level := 0; level < Levels; level++ {
		first := newLaneEntry(sl.head, level)
		last := newLaneEntry(sl.tail, level)
		first.Next = last
		last.Prev = first
	}

	return sl
}

// Len returns the number of inserted keys.
func (sl *SkipList[K]) Len() int {
	return sl.size
}

// compare ranks a lane member against key. The head is below every key and
// the tail above every key, so neither ever compares equal.
func (sl *SkipList[K]) compare(n *KeyNode[K], key K) int {
	switch n.bound {
	case lowerBound:
		return -1
	case upperBound:
		return 1
	}
	return sl.order.Compare(n.Value, key)
}

// ═══════════════════════════════════════════════════════════════════════════════
// INSERTION
// ═══════════════════════════════════════════════════════════════════════════════

// Insert links node into lanes 0 through topLevel.
//
// ALGORITHM (per lane, from level 0 upwards):
// -------------------------------------------
//  1. Create a LaneEntry for (node, level) and register it on node
//  2. From the lane head, walk right while the NEXT entry is strictly less
//     than node.Value (the tail always stops the walk)
//  3. Splice the new entry right after where the walk stopped
//
// Because the walk uses strict less-than, a duplicate lands in front of the
// first equal key already in the lane.
//
// Bad input is rejected before anything is linked: ErrNilNode, ErrInvalidLevel
// for a topLevel outside 0..TopLevel, and ErrAlreadyLinked for a node that
// was inserted before.
func (sl *SkipList[K]) Insert(node *KeyNode[K], topLevel int) error {
	if node == nil {
		return ErrNilNode
	}
	if topLevel < 0 || topLevel > TopLevel {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidLevel, topLevel, TopLevel)
	}
	if node.TopLevel() >= 0 || node.IsSentinel() {
		return ErrAlreadyLinked
	}

	for level := 0; level <= topLevel; level++ {
		entry := newLaneEntry(node, level)

		current := sl.head.lanes[level]
		for sl.compare(current.Next.Owner, node.Value) < 0 {
			current = current.Next
		}

		spliceAfter(current, entry)
	}

	sl.size++
	return nil
}

// InsertValue wraps value in a new KeyNode and inserts it.
func (sl *SkipList[K]) InsertValue(value K, topLevel int) (*KeyNode[K], error) {
	node := NewKeyNode(value)
	if err := sl.Insert(node, topLevel); err != nil {
		return nil, err
	}
	return node, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// LOOKUP
// ═══════════════════════════════════════════════════════════════════════════════

// Step is one stop of a lookup: the lane it was in and the key it rested on.
type Step[K any] struct {
	Level int
	Value K
}

// Lookup returns key's stored value and true, or the zero value and false.
//
// Example:
//
//	sl, _ := Build([]Entry[int]{{1, 3}, {4, 2}, {5, 0}})
//	v, ok := sl.Lookup(5) // 5, true
//	_, ok = sl.Lookup(7)  // false
func (sl *SkipList[K]) Lookup(key K) (K, bool) {
	entry := sl.descend(key, nil)
	if entry == nil {
		var zero K
		return zero, false
	}
	return entry.Owner.Value, true
}

// LookupPath runs the same search as Lookup and also returns every key the
// search rested on, lane by lane. A key is listed again after each drop since
// the lower lane resumes from it.
func (sl *SkipList[K]) LookupPath(key K) ([]Step[K], bool) {
	var path []Step[K]

	entry := sl.descend(key, func(e *LaneEntry[K]) {
		path = append(path, Step[K]{Level: e.Level, Value: e.Owner.Value})
	})

	return path, entry != nil
}

// descend is the search behind Lookup and LookupPath. visit, when set, sees
// every non-sentinel entry the cursor rests on.
func (sl *SkipList[K]) descend(key K, visit func(*LaneEntry[K])) *LaneEntry[K] {
	level := TopLevel
	current := sl.head.lanes[level]

	for {
		// Scan right until the cursor reaches the first entry >= key.
		for sl.compare(current.Owner, key) < 0 {
			if visit != nil && !current.Owner.IsSentinel() {
				visit(current)
			}
			current = current.Next
		}

		if sl.compare(current.Owner, key) == 0 {
			if visit != nil {
				visit(current)
			}
			return current
		}

		if level == 0 {
			return nil
		}

		current = sl.dropLane(current.Prev)
		level--
	}
}

// dropLane moves from entry to its key's entry one lane down. Every key in
// lane k is also in lane k-1, so a miss means the structure is corrupt.
func (sl *SkipList[K]) dropLane(entry *LaneEntry[K]) *LaneEntry[K] {
	lower := entry.Owner.LaneEntryAt(entry.Level - 1)
	if lower == nil {
		panic(fmt.Errorf("%w: %s has no entry at level %d", ErrBrokenDescent, entry.Owner, entry.Level-1))
	}
	return lower
}

// ═══════════════════════════════════════════════════════════════════════════════
// MIN / MAX
// ═══════════════════════════════════════════════════════════════════════════════

// Min returns the smallest key in O(1), or false when the list is empty.
func (sl *SkipList[K]) Min() (K, bool) {
	return sl.finiteValue(sl.head.lanes[0].Next)
}

// Max returns the largest key in O(1), or false when the list is empty.
func (sl *SkipList[K]) Max() (K, bool) {
	return sl.finiteValue(sl.tail.lanes[0].Prev)
}

func (sl *SkipList[K]) finiteValue(entry *LaneEntry[K]) (K, bool) {
	if entry.Owner.IsSentinel() {
		var zero K
		return zero, false
	}
	return entry.Owner.Value, true
}
