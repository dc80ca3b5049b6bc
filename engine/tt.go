package engine

import (
	"math/bits"

	"github.com/FitzOReilly/fatalii/movegen"
)

// Bound classifies a stored score relative to the search window.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundExact Bound = 1
	BoundLower Bound = 2
	BoundUpper Bound = 3
)

type ttEntry struct {
	key   uint64
	move  movegen.Move
	score int16
	depth int8
	age   uint8
	bound Bound
}

const bucketSize = 4

type ttBucket [bucketSize]ttEntry

// TranspositionTable is a fixed-size bucketed hash table keyed by Zobrist
// hash. Replacement prefers entries from older searches, then shallower
// entries; an entry from the current search is never displaced by a
// shallower one.
type TranspositionTable struct {
	buckets []ttBucket
	shift   uint
	age     uint8
}

const (
	MinHashMB     = 1
	MaxHashMB     = 16384
	DefaultHashMB = 64
)

// NewTranspositionTable allocates a table of roughly the given size in
// mebibytes, rounded down to a power of two bucket count. Sizes outside the
// supported range are clamped.
func NewTranspositionTable(mb int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(mb)
	return tt
}

// bucketCount maps a requested size in MiB, clamped to the supported
// range, to a power-of-two bucket count so the index is a shift of the
// hash.
func bucketCount(mb int) uint64 {
	if mb < MinHashMB {
		mb = MinHashMB
	} else if mb > MaxHashMB {
		mb = MaxHashMB
	}
	bucketBytes := bucketSize * 24
	n := uint64(mb) * 1024 * 1024 / uint64(bucketBytes)
	return 1 << (63 - bits.LeadingZeros64(n))
}

// Resize reallocates the table for the given size in MiB and clears it.
func (tt *TranspositionTable) Resize(mb int) {
	n := bucketCount(mb)
	tt.buckets = make([]ttBucket, n)
	tt.shift = uint(64 - bits.TrailingZeros64(n))
	tt.age = 0
}

// Clear wipes all entries and resets the age counter.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
}

// NextAge marks the start of a new search. Entries stored before this call
// become eviction candidates ahead of current-search entries.
func (tt *TranspositionTable) NextAge() {
	tt.age++
}

func (tt *TranspositionTable) bucket(hash uint64) *ttBucket {
	return &tt.buckets[hash>>tt.shift]
}

// Probe looks up the position hash. On a hit it returns the stored move,
// score (still in TT form, mate scores unadjusted), depth and bound.
func (tt *TranspositionTable) Probe(hash uint64) (movegen.Move, int32, int, Bound, bool) {
	b := tt.bucket(hash)
	for i := range b {
		e := &b[i]
		if e.bound != BoundNone && e.key == hash {
			e.age = tt.age
			return e.move, int32(e.score), int(e.depth), e.bound, true
		}
	}
	return movegen.NoMove, 0, 0, BoundNone, false
}

// Store records a search result. An existing entry for the same position is
// updated in place. Otherwise the victim is an empty slot if one exists,
// else the entry with the oldest age, ties broken by shallowest depth. If
// every slot holds a current-age entry deeper than the incoming one, the
// store is skipped.
func (tt *TranspositionTable) Store(hash uint64, move movegen.Move, score int32, depth int, bound Bound) {
	b := tt.bucket(hash)

	victim := -1
	for i := range b {
		e := &b[i]
		if e.bound != BoundNone && e.key == hash {
			// Keep the old move if the new result has none.
			if move == movegen.NoMove {
				move = e.move
			}
			victim = i
			break
		}
	}
	if victim == -1 {
		for i := range b {
			e := &b[i]
			if e.bound == BoundNone {
				victim = i
				break
			}
			if victim == -1 {
				victim = i
				continue
			}
			v := &b[victim]
			if e.age != v.age {
				if ageBefore(e.age, v.age, tt.age) {
					victim = i
				}
			} else if e.depth < v.depth {
				victim = i
			}
		}
	}

	v := &b[victim]
	if v.bound != BoundNone && v.key != hash && v.age == tt.age && int(v.depth) > depth {
		return
	}
	if depth > 127 {
		depth = 127
	}
	*v = ttEntry{
		key:   hash,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		age:   tt.age,
		bound: bound,
	}
}

// ageBefore reports whether age a is further from the current age than b,
// accounting for uint8 wraparound.
func ageBefore(a, b, cur uint8) bool {
	return cur-a > cur-b
}

// Hashfull estimates table occupancy in permille, sampled from the first
// thousand entries.
func (tt *TranspositionTable) Hashfull() int {
	used, seen := 0, 0
	for i := range tt.buckets {
		for j := range tt.buckets[i] {
			if seen == 1000 {
				return used
			}
			seen++
			if tt.buckets[i][j].bound != BoundNone && tt.buckets[i][j].age == tt.age {
				used++
			}
		}
	}
	if seen == 0 {
		return 0
	}
	return used * 1000 / seen
}

// Mate scores are stored relative to the probing node so they stay valid at
// any ply. scoreToTT converts a search score at the given ply into TT form;
// scoreFromTT reverses it.
func scoreToTT(score int32, ply int) int32 {
	if score > mateThreshold {
		return score + int32(ply)
	}
	if score < -mateThreshold {
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	if score > mateThreshold {
		return score - int32(ply)
	}
	if score < -mateThreshold {
		return score + int32(ply)
	}
	return score
}
