package engine

import (
	"time"

	"github.com/FitzOReilly/fatalii/movegen"
)

// Limits describes how long and how deep a search may run. Zero values mean
// "no limit" for that dimension; Infinite overrides everything except an
// explicit Stop.
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration

	WTime time.Duration
	BTime time.Duration
	WInc  time.Duration
	BInc  time.Duration

	MovesToGo int
	Infinite  bool
}

// searchTimer turns Limits into a soft deadline, consulted between
// iterative deepening rounds, and a hard deadline checked inside the tree.
type searchTimer struct {
	start time.Time
	soft  time.Time
	hard  time.Time

	maxDepth int
	maxNodes uint64
	infinite bool
}

const (
	// softFraction caps the soft budget at this share of the remaining
	// clock so one move never drains the whole allotment.
	softFraction = 4
	hardFraction = 2
)

func newSearchTimer(lim Limits, stm movegen.Side, overhead time.Duration) *searchTimer {
	t := &searchTimer{
		start:    time.Now(),
		maxDepth: lim.Depth,
		maxNodes: lim.Nodes,
		infinite: lim.Infinite,
	}
	if t.maxDepth <= 0 || t.maxDepth > MaxPly {
		t.maxDepth = MaxPly
	}
	if lim.Infinite {
		return t
	}

	if lim.MoveTime > 0 {
		budget := lim.MoveTime - overhead
		if budget < 0 {
			budget = 0
		}
		t.soft = t.start.Add(budget)
		t.hard = t.soft
		return t
	}

	remaining := lim.WTime
	inc := lim.WInc
	if stm == movegen.Black {
		remaining = lim.BTime
		inc = lim.BInc
	}
	if remaining <= 0 {
		// No clock given: depth/node limited only.
		return t
	}

	remaining -= overhead
	if remaining < 0 {
		remaining = 0
	}

	movesLeft := lim.MovesToGo
	if movesLeft <= 0 {
		movesLeft = 30
	}
	ideal := remaining/time.Duration(movesLeft) + inc

	if most := remaining / softFraction; ideal > most {
		ideal = most
	}
	t.soft = t.start.Add(ideal)

	hard := 3 * ideal
	if most := remaining / hardFraction; hard > most {
		hard = most
	}
	t.hard = t.start.Add(hard)
	return t
}

func (t *searchTimer) elapsed() time.Duration {
	return time.Since(t.start)
}

// startNextDepth reports whether a new iterative deepening round should
// begin. A round that starts past the soft deadline rarely finishes.
func (t *searchTimer) startNextDepth(depth int) bool {
	if depth > t.maxDepth {
		return false
	}
	// Depth one always runs so a move exists even on an empty clock.
	if depth == 1 || t.infinite || t.soft.IsZero() {
		return true
	}
	return time.Now().Before(t.soft)
}

// expired is the hard check performed inside the search tree.
func (t *searchTimer) expired(nodes uint64) bool {
	if t.maxNodes > 0 && nodes >= t.maxNodes {
		return true
	}
	if t.infinite || t.hard.IsZero() {
		return false
	}
	return !time.Now().Before(t.hard)
}
