package laneskip

import "fmt"

// bound tells the two sentinels apart from real keys.
type bound int8

const (
	finite     bound = iota // an inserted key
	lowerBound              // head sentinel, -∞
	upperBound              // tail sentinel, +∞
)

// KeyNode is one inserted key. It owns one LaneEntry per lane it takes part
// in, indexed by level, so a search can drop from lane k to lane k-1 by going
// through the node.
type KeyNode[K any] struct {
	Value K

	bound bound
	lanes [Levels]*LaneEntry[K]
}

// LaneEntry is a key's occurrence in exactly one lane.
type LaneEntry[K any] struct {
	Owner *KeyNode[K] // The key this entry stands for (not owned)
	Level int        // Lane index, 0..TopLevel

	Next *LaneEntry[K]
	Prev *LaneEntry[K]
}

// NewKeyNode wraps a value so it can be inserted. The node is not part of any
// lane until SkipList.Insert links it.
func NewKeyNode[K any](value K) *KeyNode[K] {
	return &KeyNode[K]{Value: value}
}

func newSentinel[K any](b bound) *KeyNode[K] {
	return &KeyNode[K]{bound: b}
}

// ConnectToLevel registers entry at entry.Level.
//
// Registering the same level twice, a level outside 0..TopLevel, or an entry
// that belongs to another node means the lane structure is already wrong, so
// it panics instead of returning an error.
func (n *KeyNode[K]) ConnectToLevel(entry *LaneEntry[K]) {
	if entry.Level < 0 || entry.Level > TopLevel {
		panic(fmt.Errorf("%w: lane entry has level %d", ErrInvariant, entry.Level))
	}
	if entry.Owner != n {
		panic(fmt.Errorf("%w: lane entry at level %d belongs to another node", ErrInvariant, entry.Level))
	}
	if n.lanes[entry.Level] != nil {
		panic(fmt.Errorf("%w: level %d", ErrLevelTaken, entry.Level))
	}

	n.lanes[entry.Level] = entry
}

// LaneEntryAt returns the node's entry in the given lane, or nil when the node
// does not take part in it.
func (n *KeyNode[K]) LaneEntryAt(level int) *LaneEntry[K] {
	if level < 0 || level > TopLevel {
		return nil
	}
	return n.lanes[level]
}

// TopLevel returns the highest lane the node is linked into, or -1.
func (n *KeyNode[K]) TopLevel() int {
	for level := TopLevel; level >= 0; level-- {
		if n.lanes[level] != nil {
			return level
		}
	}
	return -1
}

// IsSentinel reports whether n is a lane's head or tail marker.
func (n *KeyNode[K]) IsSentinel() bool {
	return n.bound != finite
}

func (n *KeyNode[K]) String() string {
	switch n.bound {
	case lowerBound:
		return "-inf"
	case upperBound:
		return "+inf"
	}
	return fmt.Sprint(n.Value)
}

// newLaneEntry creates an unlinked entry for owner at level and registers it.
func newLaneEntry[K any](owner *KeyNode[K], level int) *LaneEntry[K] {
	entry := &LaneEntry[K]{Owner: owner, Level: level}
	owner.ConnectToLevel(entry)
	return entry
}

// spliceAfter links entry directly after prev in prev's lane.
func spliceAfter[K any](prev, entry *LaneEntry[K]) {
	entry.Next = prev.Next
	entry.Prev = prev
	prev.Next = entry
	entry.Next.Prev = entry
}
