package laneskip

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/spaolacci/murmur3"
	"golang.org/x/exp/rand"
)

// LevelPolicy picks a key's top level for InsertWithPolicy. Insert itself
// never consults a policy: there the caller's level is final.
type LevelPolicy[K any] interface {
	Level(key K) int
}

// LevelFunc adapts a plain function to LevelPolicy.
type LevelFunc[K any] func(key K) int

func (f LevelFunc[K]) Level(key K) int { return f(key) }

// Fixed puts every key at the same top level.
func Fixed[K any](level int) LevelPolicy[K] {
	return LevelFunc[K](func(K) int { return level })
}

// RandomLevels draws levels from a seeded generator. A key climbs one more
// lane with probability 1/4, so lane k holds about n/4^k keys.
type RandomLevels[K any] struct {
	rng *rand.Rand
}

// NewRandomLevels returns a policy whose sequence of levels depends only on
// seed.
func NewRandomLevels[K any](seed uint64) *RandomLevels[K] {
	return &RandomLevels[K]{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomLevels[K]) Level(K) int {
	level := 0
	for level < TopLevel && p.rng.Intn(4) == 0 {
		level++
	}
	return level
}

// HashLevels derives a key's level from the murmur3 hash of its encoding, so
// the same key always gets the same level no matter when it is inserted.
// Every two trailing zero bits of the hash lift the key one lane.
type HashLevels[K any] struct {
	Encode func(key K) []byte
	Seed   uint32
}

func (p HashLevels[K]) Level(key K) int {
	h := murmur3.Sum32WithSeed(p.Encode(key), p.Seed)
	return min(bits.TrailingZeros32(h)/2, TopLevel)
}

// HashStrings is a HashLevels for string keys.
func HashStrings(seed uint32) HashLevels[string] {
	return HashLevels[string]{
		Encode: func(s string) []byte { return []byte(s) },
		Seed:   seed,
	}
}

// HashInts is a HashLevels for int keys, hashed as 8 big-endian bytes.
func HashInts(seed uint32) HashLevels[int] {
	return HashLevels[int]{
		Encode: func(v int) []byte { return binary.BigEndian.AppendUint64(nil, uint64(v)) },
		Seed:   seed,
	}
}

// InsertWithPolicy asks policy for node's top level and inserts it there.
// It returns the level used.
func (sl *SkipList[K]) InsertWithPolicy(node *KeyNode[K], policy LevelPolicy[K]) (int, error) {
	if node == nil {
		return 0, ErrNilNode
	}
	if policy == nil {
		return 0, ErrNilPolicy
	}

	level := policy.Level(node.Value)
	if err := sl.Insert(node, level); err != nil {
		return level, fmt.Errorf("policy level: %w", err)
	}
	return level, nil
}
