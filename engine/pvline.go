package engine

import (
	"strings"

	"github.com/FitzOReilly/fatalii/movegen"
)

// pvLine collects the principal variation with the triangular array scheme:
// each ply owns a slice and prepends its best move to the child's line.
type pvLine struct {
	moves [MaxPly + 1]movegen.Move
	size  int
}

func (pv *pvLine) clear() {
	pv.size = 0
}

// extend sets the line to m followed by the child line.
func (pv *pvLine) extend(m movegen.Move, child *pvLine) {
	pv.moves[0] = m
	copy(pv.moves[1:], child.moves[:child.size])
	pv.size = child.size + 1
}

func (pv *pvLine) best() movegen.Move {
	if pv.size == 0 {
		return movegen.NoMove
	}
	return pv.moves[0]
}

func (pv *pvLine) ponder() movegen.Move {
	if pv.size < 2 {
		return movegen.NoMove
	}
	return pv.moves[1]
}

// Line returns a copy of the variation.
func (pv *pvLine) Line() []movegen.Move {
	out := make([]movegen.Move, pv.size)
	copy(out, pv.moves[:pv.size])
	return out
}

func (pv *pvLine) String() string {
	var sb strings.Builder
	for i := 0; i < pv.size; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(pv.moves[i].String())
	}
	return sb.String()
}
