package laneskip

import (
	"errors"
	"testing"
)

func mustPanicWith(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("no panic, want %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic = %v, want %v", r, target)
		}
	}()
	f()
}

func TestKeyNode_ConnectToLevel(t *testing.T) {
	node := NewKeyNode("k")

	if got := node.TopLevel(); got != -1 {
		t.Errorf("TopLevel() of unlinked node = %d, want -1", got)
	}

	for level := 0; level < 3; level++ {
		entry := &LaneEntry[string]{Owner: node, Level: level}
		node.ConnectToLevel(entry)

		if got := node.LaneEntryAt(level); got != entry {
			t.Errorf("LaneEntryAt(%d) = %p, want %p", level, got, entry)
		}
	}

	if got := node.TopLevel(); got != 2 {
		t.Errorf("TopLevel() = %d, want 2", got)
	}
	if got := node.LaneEntryAt(3); got != nil {
		t.Errorf("LaneEntryAt(3) = %v, want nil", got)
	}
}

func TestKeyNode_ConnectToLevel_Violations(t *testing.T) {
	tests := []struct {
		name  string
		entry func(n *KeyNode[int]) *LaneEntry[int]
		want  error
	}{
		{
			"level registered twice",
			func(n *KeyNode[int]) *LaneEntry[int] { return &LaneEntry[int]{Owner: n, Level: 0} },
			ErrLevelTaken,
		},
		{
			"level above top",
			func(n *KeyNode[int]) *LaneEntry[int] { return &LaneEntry[int]{Owner: n, Level: Levels} },
			ErrInvariant,
		},
		{
			"negative level",
			func(n *KeyNode[int]) *LaneEntry[int] { return &LaneEntry[int]{Owner: n, Level: -1} },
			ErrInvariant,
		},
		{
			"entry owned by another node",
			func(*KeyNode[int]) *LaneEntry[int] { return &LaneEntry[int]{Owner: NewKeyNode(2), Level: 1} },
			ErrInvariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := NewKeyNode(1)
			node.ConnectToLevel(&LaneEntry[int]{Owner: node, Level: 0})

			mustPanicWith(t, tt.want, func() { node.ConnectToLevel(tt.entry(node)) })
		})
	}
}

func TestKeyNode_LaneEntryAt_OutOfRange(t *testing.T) {
	node := NewKeyNode(1)
	for _, level := range []int{-1, Levels, 100} {
		if got := node.LaneEntryAt(level); got != nil {
			t.Errorf("LaneEntryAt(%d) = %v, want nil", level, got)
		}
	}
}

func TestKeyNode_String(t *testing.T) {
	tests := []struct {
		node *KeyNode[int]
		want string
	}{
		{NewKeyNode(12), "12"},
		{newSentinel[int](lowerBound), "-inf"},
		{newSentinel[int](upperBound), "+inf"},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeyNode_IsSentinel(t *testing.T) {
	sl := New[int]()
	if !sl.head.IsSentinel() || !sl.tail.IsSentinel() {
		t.Error("head/tail not reported as sentinels")
	}
	if NewKeyNode(0).IsSentinel() {
		t.Error("zero-valued key reported as sentinel")
	}
}
