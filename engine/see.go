package engine

import (
	"math/bits"

	"github.com/FitzOReilly/fatalii/movegen"
)

// Exchange values used by static exchange evaluation and delta pruning.
// Kings get a value large enough that winning one ends any exchange.
var seeValue = [7]int32{0, 100, 320, 330, 500, 900, 20000}

// SEE statically resolves the capture sequence on the move's target square
// and returns the material balance from the mover's point of view, assuming
// both sides keep capturing with their least valuable attacker while it
// profits them.
func SEE(p *movegen.Position, m movegen.Move) int32 {
	if m.Kind() == movegen.KindCastle {
		return 0
	}

	from, to := m.From(), m.To()
	var gain [32]int32
	depth := 0

	target := m.Captured().Type()
	if m.Kind() == movegen.KindEnPassant {
		target = movegen.Pawn
	}
	gain[0] = seeValue[target]

	attacker := m.Piece().Type()
	occ := p.AllOccupied() &^ (uint64(1) << uint(from))
	if m.Kind() == movegen.KindEnPassant {
		occ &^= uint64(1) << uint(movegen.SquareAt(to.File(), from.Rank()))
	}

	attackers := p.AttackersTo(to, occ) & occ
	side := p.SideToMove().Other()

	for {
		ours := attackers & p.Occupied(side)
		if ours == 0 {
			break
		}
		depth++
		gain[depth] = seeValue[attacker] - gain[depth-1]
		// Neither side recaptures into a guaranteed loss.
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attacker, occ = popLeastValuable(p, ours, occ, side)
		// Removing a piece from the line may expose an xray attacker.
		attackers = p.AttackersTo(to, occ) & occ
		side = side.Other()
	}

	for depth > 0 {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
		depth--
	}
	return gain[0]
}

// popLeastValuable removes side's least valuable attacker from occ and
// returns its type together with the updated occupancy.
func popLeastValuable(p *movegen.Position, ours, occ uint64, side movegen.Side) (movegen.PieceType, uint64) {
	for pt := movegen.Pawn; pt <= movegen.King; pt++ {
		pieces := ours & p.Pieces(side, pt)
		if pieces != 0 {
			sq := bits.TrailingZeros64(pieces)
			return pt, occ &^ (uint64(1) << uint(sq))
		}
	}
	return movegen.King, occ
}
