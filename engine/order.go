package engine

import (
	"github.com/FitzOReilly/fatalii/movegen"
)

// Ordering score bands. Within a band moves are ranked by MVV-LVA or
// history; bands never overlap.
const (
	scoreTTMove     = 1_000_000
	scoreQueenPromo = 900_000
	scoreCapture    = 800_000
	scoreKiller0    = 700_000
	scoreKiller1    = 699_999
	scoreCounter    = 600_000
	scoreQuiet      = 300_000

	historyMax = 16_384
)

// mvvLva[victim][attacker]: most valuable victim first, least valuable
// attacker breaking ties.
var mvvLva [7][7]int32

func init() {
	for victim := movegen.Pawn; victim <= movegen.Queen; victim++ {
		for attacker := movegen.Pawn; attacker <= movegen.King; attacker++ {
			mvvLva[victim][attacker] = int32(victim)*10 - int32(attacker)
		}
	}
}

// movePicker hands out the moves of one node in descending ordering score,
// selecting lazily so nodes that cut off early never pay for a full sort.
type movePicker struct {
	moves  []movegen.Move
	scores []int32
	next   int
}

func (mp *movePicker) init(s *Searcher, p *movegen.Position, moves []movegen.Move, scores []int32, ttMove movegen.Move, ply int, prev movegen.Move) {
	mp.moves = moves
	mp.scores = scores[:len(moves)]
	mp.next = 0

	stm := p.SideToMove()
	var counter movegen.Move
	if prev != movegen.NoMove {
		counter = s.counters[stm][prev.From()][prev.To()]
	}

	for i, m := range moves {
		switch {
		case m == ttMove:
			mp.scores[i] = scoreTTMove
		case m.Promotion().Type() == movegen.Queen:
			mp.scores[i] = scoreQueenPromo + mvvLva[m.Captured().Type()][movegen.Pawn]
		case m.Promotion() != movegen.NoPiece:
			// Under-promotions almost never beat the queen promotion.
			mp.scores[i] = int32(m.Promotion().Type())
		case m.IsCapture():
			mp.scores[i] = scoreCapture + mvvLva[m.Captured().Type()][m.Piece().Type()]
		case m == s.killers[ply][0]:
			mp.scores[i] = scoreKiller0
		case m == s.killers[ply][1]:
			mp.scores[i] = scoreKiller1
		case m == counter:
			mp.scores[i] = scoreCounter
		default:
			mp.scores[i] = scoreQuiet + s.history[stm][m.Piece().Type()][m.To()]
		}
	}
}

// pick returns the highest-scored remaining move, or NoMove when exhausted.
func (mp *movePicker) pick() movegen.Move {
	if mp.next >= len(mp.moves) {
		return movegen.NoMove
	}
	best := mp.next
	for i := mp.next + 1; i < len(mp.moves); i++ {
		if mp.scores[i] > mp.scores[best] {
			best = i
		}
	}
	mp.moves[best], mp.moves[mp.next] = mp.moves[mp.next], mp.moves[best]
	mp.scores[best], mp.scores[mp.next] = mp.scores[mp.next], mp.scores[best]
	m := mp.moves[mp.next]
	mp.next++
	return m
}

// storeKiller records a quiet move that produced a beta cutoff.
func (s *Searcher) storeKiller(ply int, m movegen.Move) {
	if s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

// updateHistory rewards the cutoff move and punishes the quiets tried before
// it, keeping values within the band budget.
func (s *Searcher) updateHistory(stm movegen.Side, m movegen.Move, depth int, tried []movegen.Move) {
	bonus := int32(depth * depth)
	bump(&s.history[stm][m.Piece().Type()][m.To()], bonus)
	for _, q := range tried {
		if q != m {
			bump(&s.history[stm][q.Piece().Type()][q.To()], -bonus)
		}
	}
}

func bump(v *int32, delta int32) {
	*v += delta - *v*abs(delta)/historyMax
}

// decayHistory halves all history scores between iterative deepening
// rounds so stale information fades.
func (s *Searcher) decayHistory() {
	for side := range s.history {
		for pt := range s.history[side] {
			for sq := range s.history[side][pt] {
				s.history[side][pt][sq] /= 2
			}
		}
	}
}
