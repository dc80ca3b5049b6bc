package engine

import (
	"math/bits"

	"github.com/FitzOReilly/fatalii/movegen"
)

// Game phase contributions per piece type. A full opening position sums to
// totalPhase; the tapered score interpolates between middlegame and endgame
// terms as material comes off the board.
var phaseOf = [7]int32{0, 0, 1, 1, 2, 4, 0}

const totalPhase = 24

var fileMask [8]uint64
var adjacentMask [8]uint64

// passedMask[s][sq] covers the squares a pawn of side s on sq must find free
// of enemy pawns to count as passed: its file and both adjacent files, from
// the rank in front of it to the promotion rank.
var passedMask [2][64]uint64

// supportMask[s][sq] covers the squares on adjacent files at or behind sq
// from side s's perspective. A friendly pawn there can defend sq's stop
// square now or after advancing, so the pawn on sq is not backward.
var supportMask [2][64]uint64

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = 0x0101010101010101 << f
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentMask[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentMask[f] |= fileMask[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		span := fileMask[sq&7] | adjacentMask[sq&7]
		var front uint64
		for r := sq>>3 + 1; r < 8; r++ {
			front |= 0xFF << (8 * r)
		}
		passedMask[movegen.White][sq] = span & front
		front = 0
		for r := 0; r < sq>>3; r++ {
			front |= 0xFF << (8 * r)
		}
		passedMask[movegen.Black][sq] = span & front
	}
	for sq := 0; sq < 64; sq++ {
		adj := adjacentMask[sq&7]
		var behind uint64
		for r := 0; r <= sq>>3; r++ {
			behind |= 0xFF << (8 * r)
		}
		supportMask[movegen.White][sq] = adj & behind
		behind = 0
		for r := sq >> 3; r < 8; r++ {
			behind |= 0xFF << (8 * r)
		}
		supportMask[movegen.Black][sq] = adj & behind
	}
}

// relativeRank is the rank of sq from side s's own perspective.
func relativeRank(s movegen.Side, sq movegen.Square) int {
	r := sq.Rank()
	if s == movegen.Black {
		r = 7 - r
	}
	return r
}

// Evaluate scores the position from the side to move's perspective using a
// tapered middlegame/endgame interpolation of the given weight set.
func Evaluate(p *movegen.Position, w *Weights) int32 {
	var mg, eg, phase int32
	occ := p.AllOccupied()

	for s := movegen.White; s <= movegen.Black; s++ {
		sign := int32(1)
		flip := movegen.Square(0)
		if s == movegen.Black {
			sign = -1
			flip = 56
		}
		own := p.Occupied(s)
		theirPawns := p.Pieces(s.Other(), movegen.Pawn)
		ownPawns := p.Pieces(s, movegen.Pawn)

		for pt := movegen.Pawn; pt <= movegen.King; pt++ {
			bb := p.Pieces(s, pt)
			phase += phaseOf[pt] * int32(bits.OnesCount64(bb))
			for bb != 0 {
				sq := movegen.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1
				psq := sq ^ flip

				mg += sign * (w.MaterialMG[pt] + w.PSQTMG[pt][psq])
				eg += sign * (w.MaterialEG[pt] + w.PSQTEG[pt][psq])

				var att uint64
				switch pt {
				case movegen.Knight:
					att = movegen.KnightAttacks(sq)
				case movegen.Bishop:
					att = movegen.BishopAttacks(sq, occ)
				case movegen.Rook:
					att = movegen.RookAttacks(sq, occ)
				case movegen.Queen:
					att = movegen.QueenAttacks(sq, occ)
				case movegen.Pawn:
					if passedMask[s][sq]&theirPawns == 0 {
						r := relativeRank(s, sq)
						mg += sign * w.PassedPawnMG[r]
						eg += sign * w.PassedPawnEG[r]
					}
					if adjacentMask[sq.File()]&ownPawns == 0 {
						mg += sign * w.IsolatedPawnMG
						eg += sign * w.IsolatedPawnEG
					}
					// Backward: no friendly pawn can ever defend the stop
					// square and an enemy pawn attacks it right now.
					stop := sq + 8
					if s == movegen.Black {
						stop = sq - 8
					}
					if supportMask[s][sq]&ownPawns == 0 &&
						movegen.PawnCaptures(s, stop)&theirPawns != 0 {
						mg += sign * w.BackwardPawnMG
						eg += sign * w.BackwardPawnEG
					}
					continue
				default:
					continue
				}
				mob := int32(bits.OnesCount64(att &^ own))
				mg += sign * mob * w.MobilityMG[pt]
				eg += sign * mob * w.MobilityEG[pt]
			}
		}

		for f := 0; f < 8; f++ {
			if n := bits.OnesCount64(ownPawns & fileMask[f]); n > 1 {
				mg += sign * int32(n-1) * w.DoubledPawnMG
				eg += sign * int32(n-1) * w.DoubledPawnEG
			}
		}

		if bits.OnesCount64(p.Pieces(s, movegen.Bishop)) >= 2 {
			mg += sign * w.BishopPairMG
			eg += sign * w.BishopPairEG
		}
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	if p.SideToMove() == movegen.Black {
		score = -score
	}
	return score + w.Tempo
}
