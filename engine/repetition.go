package engine

import "github.com/FitzOReilly/fatalii/movegen"

// historyEntry records one position reached in the game or in the current
// search line. rule50 is the halfmove clock at that point; a repetition can
// only reach back as far as the last irreversible move.
type historyEntry struct {
	hash   uint64
	rule50 int
}

// gameHistory tracks position hashes for repetition detection. rootIndex
// marks where the search line begins: a single repetition inside the search
// line already counts as a draw, while positions from the actual game must
// occur twice before.
type gameHistory struct {
	stack     []historyEntry
	rootIndex int
}

func (h *gameHistory) reset() {
	h.stack = h.stack[:0]
	h.rootIndex = 0
}

func (h *gameHistory) push(p *movegen.Position) {
	h.stack = append(h.stack, historyEntry{hash: p.Hash(), rule50: p.HalfmoveClock()})
}

func (h *gameHistory) pop() {
	h.stack = h.stack[:len(h.stack)-1]
}

// markRoot freezes the boundary between game moves and search moves.
func (h *gameHistory) markRoot() {
	h.rootIndex = len(h.stack)
}

// isRepetitionDraw reports whether the current position (already pushed)
// counts as a draw by repetition: twofold within the search line, or
// threefold including game history.
func (h *gameHistory) isRepetitionDraw() bool {
	top := len(h.stack) - 1
	cur := h.stack[top]
	count := 0
	// Hashes only repeat while the halfmove clock keeps counting up, so the
	// scan can stop after rule50 plies.
	limit := top - cur.rule50
	if limit < 0 {
		limit = 0
	}
	for i := top - 2; i >= limit; i -= 2 {
		if h.stack[i].hash == cur.hash {
			count++
			if i >= h.rootIndex || count >= 2 {
				return true
			}
		}
	}
	return false
}

// isDraw combines repetition, the fifty-move rule and insufficient material.
func (h *gameHistory) isDraw(p *movegen.Position) bool {
	if p.FiftyMoveRule() && !p.IsCheckmate() {
		return true
	}
	if p.InsufficientMaterial() {
		return true
	}
	return h.isRepetitionDraw()
}
