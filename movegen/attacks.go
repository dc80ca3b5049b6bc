package movegen

import "math/bits"

// Precomputed attack tables, filled once at package init.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnCaptures  [2][64]uint64 // squares a pawn of that side attacks from sq

	// betweenBB[a][b] holds the squares strictly between a and b when they
	// share a rank, file or diagonal, and is zero otherwise.
	betweenBB [64][64]uint64

	// lineBB[a][b] holds the full line through a and b (including both),
	// zero when unaligned.
	lineBB [64][64]uint64

	rookOccMask   [64]uint64
	bishopOccMask [64]uint64
	rookTable     [64][]uint64
	bishopTable   [64][]uint64
)

var rookDirs = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
var bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

func init() {
	initLeaperTables()
	initLineTables()
	initSliderTables()
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets := [8][2]int{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		for _, o := range knightOffsets {
			if tf, tr := f+o[0], r+o[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				knightAttacks[sq] |= 1 << uint(tr<<3|tf)
			}
		}
		for _, o := range kingOffsets {
			if tf, tr := f+o[0], r+o[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				kingAttacks[sq] |= 1 << uint(tr<<3|tf)
			}
		}
		if r < 7 {
			if f > 0 {
				pawnCaptures[White][sq] |= 1 << uint(sq+7)
			}
			if f < 7 {
				pawnCaptures[White][sq] |= 1 << uint(sq+9)
			}
		}
		if r > 0 {
			if f > 0 {
				pawnCaptures[Black][sq] |= 1 << uint(sq-9)
			}
			if f < 7 {
				pawnCaptures[Black][sq] |= 1 << uint(sq-7)
			}
		}
	}
}

// walkRay collects the squares from sq in direction (df, dr), stopping at the
// board edge. When trim is set, the square adjacent to the edge is dropped,
// which is the shape occupancy masks need.
func walkRay(sq, df, dr int, trim bool) uint64 {
	var ray uint64
	f, r := sq&7+df, sq>>3+dr
	for f >= 0 && f < 8 && r >= 0 && r < 8 {
		ray |= 1 << uint(r<<3|f)
		f += df
		r += dr
	}
	if trim && ray != 0 {
		// Drop the edge square; square indices grow along the ray exactly
		// when the rank step is positive, or zero with a positive file step.
		if dr > 0 || (dr == 0 && df > 0) {
			ray &^= 1 << uint(63-bits.LeadingZeros64(ray))
		} else {
			ray &^= ray & -ray
		}
	}
	return ray
}

func initLineTables() {
	allDirs := append(append([][2]int{}, rookDirs[:]...), bishopDirs[:]...)
	for a := 0; a < 64; a++ {
		for _, d := range allDirs {
			f, r := a&7+d[0], a>>3+d[1]
			var between uint64
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				b := r<<3 | f
				betweenBB[a][b] = between
				lineBB[a][b] = walkRay(a, d[0], d[1], false) |
					walkRay(a, -d[0], -d[1], false) | 1<<uint(a)
				between |= 1 << uint(b)
				f += d[0]
				r += d[1]
			}
		}
	}
}

// slidingAttacks computes slider attacks by ray walking; used only to fill
// the lookup tables.
func slidingAttacks(sq int, occ uint64, dirs [4][2]int) uint64 {
	var att uint64
	for _, d := range dirs {
		f, r := sq&7+d[0], sq>>3+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			b := uint64(1) << uint(r<<3|f)
			att |= b
			if occ&b != 0 {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return att
}

// initSliderTables enumerates every occupancy subset of each square's
// relevance mask and stores the resulting attack sets, indexed by a software
// pext of the occupancy.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		var rm, bm uint64
		for _, d := range rookDirs {
			rm |= walkRay(sq, d[0], d[1], true)
		}
		for _, d := range bishopDirs {
			bm |= walkRay(sq, d[0], d[1], true)
		}
		rookOccMask[sq] = rm
		bishopOccMask[sq] = bm

		rookTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(rm)))
		for idx := range rookTable[sq] {
			rookTable[sq][idx] = slidingAttacks(sq, pdep(uint64(idx), rm), rookDirs)
		}
		bishopTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(bm)))
		for idx := range bishopTable[sq] {
			bishopTable[sq][idx] = slidingAttacks(sq, pdep(uint64(idx), bm), bishopDirs)
		}
	}
}

// pext packs the bits of x selected by mask into the low bits of the result.
func pext(x, mask uint64) uint64 {
	var res uint64
	for i := uint(0); mask != 0; i++ {
		if x&mask&-mask != 0 {
			res |= 1 << i
		}
		mask &= mask - 1
	}
	return res
}

// pdep scatters the low bits of x into the set positions of mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	for i := uint(0); mask != 0; i++ {
		if x>>i&1 != 0 {
			res |= mask & -mask
		}
		mask &= mask - 1
	}
	return res
}

// RookAttacks returns the rook attack set from sq under the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rookTable[sq][pext(occ, rookOccMask[sq])]
}

// BishopAttacks returns the bishop attack set from sq under the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return bishopTable[sq][pext(occ, bishopOccMask[sq])]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

// PawnCaptures returns the squares a pawn of the given side attacks from sq.
func PawnCaptures(s Side, sq Square) uint64 { return pawnCaptures[s][sq] }

// Between returns the squares strictly between two aligned squares.
func Between(a, b Square) uint64 { return betweenBB[a][b] }

// Attacked reports whether sq is attacked by any piece of the given side.
func (p *Position) Attacked(sq Square, by Side) bool {
	return p.attackedWithOcc(int(sq), by, p.AllOccupied())
}

// AttackersTo returns the bitboard of all pieces of both sides that attack
// sq under the given occupancy. Used by static exchange evaluation.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	att := pawnCaptures[Black][sq] & p.pieceBB[White][Pawn]
	att |= pawnCaptures[White][sq] & p.pieceBB[Black][Pawn]
	att |= knightAttacks[sq] & (p.pieceBB[White][Knight] | p.pieceBB[Black][Knight])
	att |= kingAttacks[sq] & (p.pieceBB[White][King] | p.pieceBB[Black][King])
	rq := p.pieceBB[White][Rook] | p.pieceBB[Black][Rook] |
		p.pieceBB[White][Queen] | p.pieceBB[Black][Queen]
	bq := p.pieceBB[White][Bishop] | p.pieceBB[Black][Bishop] |
		p.pieceBB[White][Queen] | p.pieceBB[Black][Queen]
	att |= RookAttacks(sq, occ) & rq
	att |= BishopAttacks(sq, occ) & bq
	return att
}

func (p *Position) attackedWithOcc(sq int, by Side, occ uint64) bool {
	// Pawn attacks are probed with the reverse table: the squares a pawn of
	// the defending side would attack from sq are exactly the squares an
	// attacking pawn must occupy.
	if pawnCaptures[by.Other()][sq]&p.pieceBB[by][Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&p.pieceBB[by][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&p.pieceBB[by][King] != 0 {
		return true
	}
	if RookAttacks(Square(sq), occ)&(p.pieceBB[by][Rook]|p.pieceBB[by][Queen]) != 0 {
		return true
	}
	if BishopAttacks(Square(sq), occ)&(p.pieceBB[by][Bishop]|p.pieceBB[by][Queen]) != 0 {
		return true
	}
	return false
}

// checksAndPins scans the position from the king of the given side.
// It returns the bitboard of checking pieces and the mask of squares a
// non-king move may target while in single check (checker plus blocking
// squares), and fills pinLine with per-square pin rays: a pinned piece may
// only move along pinLine[sq]. Zero entries mean the piece is unpinned.
func (p *Position) checksAndPins(s Side, occ uint64, pinLine *[64]uint64) (checkers, checkMask uint64) {
	them := s.Other()
	ks := p.KingSquare(s)

	checkers = pawnCaptures[s][ks] & p.pieceBB[them][Pawn]
	checkers |= knightAttacks[ks] & p.pieceBB[them][Knight]

	rq := p.pieceBB[them][Rook] | p.pieceBB[them][Queen]
	bq := p.pieceBB[them][Bishop] | p.pieceBB[them][Queen]
	checkers |= RookAttacks(ks, occ) & rq
	checkers |= BishopAttacks(ks, occ) & bq

	if checkers != 0 && checkers&(checkers-1) == 0 {
		c := Square(bits.TrailingZeros64(checkers))
		checkMask = betweenBB[ks][c] | squareBB(c)
	}

	// Snipers: enemy sliders aligned with the king through any occupancy.
	// A single friendly piece between a sniper and the king is pinned.
	snipers := RookAttacks(ks, 0)&rq | BishopAttacks(ks, 0)&bq
	for snipers != 0 {
		sn := Square(popLSB(&snipers))
		blockers := betweenBB[ks][sn] & occ
		if blockers != 0 && blockers&(blockers-1) == 0 && blockers&p.occupied[s] != 0 {
			pinLine[bits.TrailingZeros64(blockers)] = betweenBB[ks][sn] | squareBB(sn)
		}
	}
	return checkers, checkMask
}
