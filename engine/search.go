package engine

import (
	"sync/atomic"
	"time"

	"github.com/FitzOReilly/fatalii/movegen"
)

// Info is one iterative deepening progress report.
type Info struct {
	Depth    int
	SelDepth int
	Score    int32
	Nodes    uint64
	Time     time.Duration
	NPS      uint64
	Hashfull int
	PV       []movegen.Move
}

// Result is the final outcome of a search.
type Result struct {
	BestMove movegen.Move
	Ponder   movegen.Move
	Score    int32
	Depth    int
	Nodes    uint64
}

// Searcher runs one search at a time over a position. All heuristic state
// (killers, history, countermoves) lives here rather than in globals, so
// separate Searcher values never interfere.
type Searcher struct {
	pos     *movegen.Position
	tt      *TranspositionTable
	weights *Weights
	hist    *gameHistory
	timer   *searchTimer

	stop           atomic.Bool
	nodes          uint64
	seldepth       int
	completedDepth int

	killers  [MaxPly + 2][2]movegen.Move
	history  [2][7][64]int32
	counters [2][64][64]movegen.Move

	moveBuf   [MaxPly + 2][220]movegen.Move
	scoreBuf  [MaxPly + 2][220]int32
	quietBuf  [MaxPly + 2][64]movegen.Move
	pvStack   [MaxPly + 2]pvLine
	evalStack [MaxPly + 2]int32

	moveOverhead time.Duration
	progress     func(Info)
}

const (
	aspirationWindow = 25
	deltaMargin      = 200
	nullMinDepth     = 3
	maxPruneDepth    = 7
)

var rfpMargin = [maxPruneDepth + 1]int32{0, 100, 200, 300, 400, 500, 600, 700}
var futilityMargin = [maxPruneDepth + 1]int32{0, 120, 220, 320, 420, 520, 620, 720}
var lmpCount = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

// lmrTable[depth][moveCount] is the late move reduction in plies.
var lmrTable [MaxPly + 1][64]int8

func init() {
	for d := 1; d <= MaxPly; d++ {
		for m := 1; m < 64; m++ {
			r := 1 + d/8 + m/16
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int8(r)
		}
	}
}

// run drives iterative deepening with aspiration windows and returns the
// best result completed before the limits cut the search off.
func (s *Searcher) run(lim Limits) Result {
	s.timer = newSearchTimer(lim, s.pos.SideToMove(), s.moveOverhead)
	s.nodes = 0
	s.completedDepth = 0
	s.killers = [MaxPly + 2][2]movegen.Move{}
	s.decayHistory()
	s.tt.NextAge()
	s.hist.markRoot()

	rootMoves := s.pos.LegalMovesInto(s.moveBuf[MaxPly+1][:0])
	if len(rootMoves) == 0 {
		return Result{BestMove: movegen.NoMove}
	}
	// A legal fallback so even a zero-time search answers with a move.
	res := Result{BestMove: rootMoves[0]}

	var prevScore int32
	for depth := 1; s.timer.startNextDepth(depth); depth++ {
		s.seldepth = 0
		alpha, beta := -Infinity, Infinity
		window := int32(aspirationWindow)
		if depth >= 4 {
			alpha = max(prevScore-window, -Infinity)
			beta = min(prevScore+window, Infinity)
		}

		var score int32
		for {
			score = s.alphabeta(depth, 0, alpha, beta, &s.pvStack[0], movegen.NoMove, false)
			if s.stop.Load() {
				break
			}
			if score <= alpha && alpha > -Infinity {
				window *= 2
				alpha = max(score-window, -Infinity)
				continue
			}
			if score >= beta && beta < Infinity {
				window *= 2
				beta = min(score+window, Infinity)
				continue
			}
			break
		}
		if s.stop.Load() {
			break
		}

		s.completedDepth = depth
		prevScore = score
		pv := &s.pvStack[0]
		if pv.best() != movegen.NoMove {
			res.BestMove = pv.best()
			res.Ponder = pv.ponder()
		}
		res.Score = score
		res.Depth = depth
		res.Nodes = s.nodes
		s.report(depth, score, pv)
	}
	res.Nodes = s.nodes
	return res
}

func (s *Searcher) report(depth int, score int32, pv *pvLine) {
	if s.progress == nil {
		return
	}
	elapsed := s.timer.elapsed()
	var nps uint64
	if us := elapsed.Microseconds(); us > 0 {
		nps = s.nodes * 1_000_000 / uint64(us)
	}
	s.progress(Info{
		Depth:    depth,
		SelDepth: s.seldepth,
		Score:    score,
		Nodes:    s.nodes,
		Time:     elapsed,
		NPS:      nps,
		Hashfull: s.tt.Hashfull(),
		PV:       pv.Line(),
	})
}

func (s *Searcher) checkLimits() {
	if s.timer.maxNodes > 0 && s.nodes >= s.timer.maxNodes {
		s.stop.Store(true)
		return
	}
	// Never time out before one full iteration has produced a move.
	if s.completedDepth >= 1 && s.timer.expired(s.nodes) {
		s.stop.Store(true)
	}
}

func (s *Searcher) alphabeta(depth, ply int, alpha, beta int32, pv *pvLine, prev movegen.Move, nullOK bool) int32 {
	pv.clear()
	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	s.nodes++
	if s.nodes&2047 == 0 {
		s.checkLimits()
	}
	if s.stop.Load() {
		return 0
	}

	pvNode := beta-alpha > 1
	root := ply == 0
	pos := s.pos

	if !root {
		if s.hist.isDraw(pos) {
			return DrawScore
		}
		if ply >= MaxPly {
			return Evaluate(pos, s.weights)
		}
		// Mate distance pruning.
		alpha = max(alpha, -MateScore+int32(ply))
		beta = min(beta, MateScore-int32(ply)-1)
		if alpha >= beta {
			return alpha
		}
	}

	ttMove, ttScore, ttDepth, ttBound, ttHit := s.tt.Probe(pos.Hash())
	if ttHit && !pvNode && ttDepth >= depth {
		score := scoreFromTT(ttScore, ply)
		switch ttBound {
		case BoundExact:
			return score
		case BoundLower:
			if score >= beta {
				return score
			}
		case BoundUpper:
			if score <= alpha {
				return score
			}
		}
	}

	stm := pos.SideToMove()
	inCheck := pos.InCheck(stm)
	if inCheck {
		depth++
	}

	staticEval := Evaluate(pos, s.weights)
	s.evalStack[ply] = staticEval
	improving := !inCheck && ply >= 2 && staticEval > s.evalStack[ply-2]

	if !pvNode && !inCheck && abs(beta) < mateThreshold {
		if depth <= maxPruneDepth {
			margin := rfpMargin[depth]
			if !improving {
				margin -= 50
			}
			if staticEval-margin >= beta {
				return staticEval
			}
		}

		if nullOK && depth >= nullMinDepth && staticEval >= beta && pos.NonPawnMaterial(stm) {
			r := 3 + depth/3
			if depth > 6 {
				r++
			}
			u := pos.ApplyNull()
			s.hist.push(pos)
			score := -s.alphabeta(depth-1-r, ply+1, -beta, -beta+1, &s.pvStack[ply+1], movegen.NoMove, false)
			s.hist.pop()
			pos.RevertNull(u)
			if s.stop.Load() {
				return 0
			}
			if score >= beta {
				// Do not trust mates found with a side skipping its turn.
				if score > mateThreshold {
					score = beta
				}
				return score
			}
		}
	}

	moves := pos.LegalMovesInto(s.moveBuf[ply][:0])
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return DrawScore
	}

	var mp movePicker
	mp.init(s, pos, moves, s.scoreBuf[ply][:], ttMove, ply, prev)

	childPV := &s.pvStack[ply+1]
	quietsTried := s.quietBuf[ply][:0]
	best := -Infinity
	bestMove := movegen.NoMove
	bound := BoundUpper
	moveCount := 0

	for m := mp.pick(); m != movegen.NoMove; m = mp.pick() {
		isQuiet := m.IsQuiet()

		if !root && best > -mateThreshold && isQuiet && !inCheck && !pvNode {
			// Late move pruning.
			if depth < len(lmpCount) {
				limit := lmpCount[depth]
				if !improving {
					limit = limit * 2 / 3
				}
				if moveCount >= limit {
					continue
				}
			}
			// Futility pruning.
			if depth <= maxPruneDepth && staticEval+futilityMargin[depth] <= alpha {
				continue
			}
		}

		u, ok := pos.Apply(m)
		if !ok {
			continue
		}
		s.hist.push(pos)
		moveCount++

		var score int32
		if moveCount == 1 {
			score = -s.alphabeta(depth-1, ply+1, -beta, -alpha, childPV, m, true)
		} else {
			r := 0
			if depth >= 3 && isQuiet && !inCheck {
				r = int(lmrTable[min(depth, MaxPly)][min(moveCount, 63)])
				if pvNode && r > 0 {
					r--
				}
				if !improving {
					r++
				}
				r = clamp(r, 0, depth-2)
			}
			score = -s.alphabeta(depth-1-r, ply+1, -(alpha + 1), -alpha, childPV, m, true)
			if score > alpha && r > 0 {
				score = -s.alphabeta(depth-1, ply+1, -(alpha + 1), -alpha, childPV, m, true)
			}
			if score > alpha && score < beta {
				score = -s.alphabeta(depth-1, ply+1, -beta, -alpha, childPV, m, true)
			}
		}

		s.hist.pop()
		pos.Revert(m, u)
		if s.stop.Load() {
			return 0
		}

		if isQuiet {
			quietsTried = append(quietsTried, m)
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				pv.extend(m, childPV)
				if alpha >= beta {
					bound = BoundLower
					if isQuiet {
						s.storeKiller(ply, m)
						s.updateHistory(stm, m, depth, quietsTried)
						if prev != movegen.NoMove {
							s.counters[stm][prev.From()][prev.To()] = m
						}
					}
					break
				}
			}
		}
	}

	// Every move may have been pruned away; fail low without polluting
	// the table.
	if best == -Infinity {
		return alpha
	}

	s.tt.Store(pos.Hash(), bestMove, scoreToTT(best, ply), depth, bound)
	return best
}

func (s *Searcher) quiescence(ply int, alpha, beta int32) int32 {
	s.nodes++
	if s.nodes&4095 == 0 {
		s.checkLimits()
	}
	if s.stop.Load() {
		return 0
	}
	if ply > s.seldepth {
		s.seldepth = ply
	}

	pos := s.pos
	if ply >= MaxPly {
		return Evaluate(pos, s.weights)
	}

	stm := pos.SideToMove()
	inCheck := pos.InCheck(stm)

	best := -Infinity
	if !inCheck {
		best = Evaluate(pos, s.weights)
		if best >= beta {
			return best
		}
		if best > alpha {
			alpha = best
		}
	}

	var moves []movegen.Move
	if inCheck {
		moves = pos.LegalMovesInto(s.moveBuf[ply][:0])
		if len(moves) == 0 {
			return -MateScore + int32(ply)
		}
	} else {
		moves = pos.CapturesInto(s.moveBuf[ply][:0])
	}

	var mp movePicker
	mp.init(s, pos, moves, s.scoreBuf[ply][:], movegen.NoMove, ply, movegen.NoMove)

	standPat := best
	for m := mp.pick(); m != movegen.NoMove; m = mp.pick() {
		if !inCheck {
			// Delta pruning: even winning this piece cannot lift alpha.
			if m.Promotion() == movegen.NoPiece &&
				standPat+seeValue[m.Captured().Type()]+deltaMargin <= alpha {
				continue
			}
			if SEE(pos, m) < 0 {
				continue
			}
		}

		u, ok := pos.Apply(m)
		if !ok {
			continue
		}
		score := -s.quiescence(ply+1, -beta, -alpha)
		pos.Revert(m, u)
		if s.stop.Load() {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}
