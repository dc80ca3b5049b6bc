package movegen

type genFilter uint8

const (
	genAll genFilter = iota
	genCaptures
	genQuiets
)

// LegalMoves returns every legal move in a freshly allocated slice.
func (p *Position) LegalMoves() []Move { return p.LegalMovesInto(make([]Move, 0, 64)) }

// LegalMovesInto appends every legal move for the side to move into dst
// (reusing its capacity) and returns the extended slice.
func (p *Position) LegalMovesInto(dst []Move) []Move { return p.generate(dst, genAll) }

// CapturesInto appends legal captures, capture promotions and en passant.
func (p *Position) CapturesInto(dst []Move) []Move { return p.generate(dst, genCaptures) }

// QuietsInto appends legal non-captures, including quiet promotions and castling.
func (p *Position) QuietsInto(dst []Move) []Move { return p.generate(dst, genQuiets) }

var pieceOrder = [4]PieceType{Knight, Bishop, Rook, Queen}

func (p *Position) generate(dst []Move, filter genFilter) []Move {
	moves := dst[:0]
	us := p.sideToMove
	them := us.Other()
	own := p.occupied[us]
	opp := p.occupied[them]
	occ := own | opp
	ks := p.KingSquare(us)

	var pinLine [64]uint64
	checkers, checkMask := p.checksAndPins(us, occ, &pinLine)
	inCheck := checkers != 0
	doubleCheck := checkers&(checkers-1) != 0

	// Only the king moves out of double check.
	if !doubleCheck {
		moves = p.pawnMoves(moves, filter, occ, opp, inCheck, checkMask, &pinLine)

		for _, pt := range pieceOrder {
			pc := PieceOf(us, pt)
			fromBB := p.pieceBB[us][pt]
			for fromBB != 0 {
				from := Square(popLSB(&fromBB))
				var targets uint64
				switch pt {
				case Knight:
					targets = knightAttacks[from]
				case Bishop:
					targets = BishopAttacks(from, occ)
				case Rook:
					targets = RookAttacks(from, occ)
				case Queen:
					targets = QueenAttacks(from, occ)
				}
				targets &^= own
				if pin := pinLine[from]; pin != 0 {
					targets &= pin
				}
				if inCheck {
					targets &= checkMask
				}
				switch filter {
				case genCaptures:
					targets &= opp
				case genQuiets:
					targets &^= opp
				}
				for targets != 0 {
					to := Square(popLSB(&targets))
					moves = append(moves, MakeMove(from, to, pc, p.squares[to], NoPiece, KindNormal))
				}
			}
		}
	}

	// King steps: probe each destination with the king lifted off the board
	// so attacks through its current square are seen.
	king := PieceOf(us, King)
	occNoKing := occ &^ squareBB(ks)
	targets := kingAttacks[ks] &^ own
	switch filter {
	case genCaptures:
		targets &= opp
	case genQuiets:
		targets &^= opp
	}
	for targets != 0 {
		to := Square(popLSB(&targets))
		if p.attackedWithOcc(int(to), them, occNoKing|squareBB(to)) {
			continue
		}
		moves = append(moves, MakeMove(ks, to, king, p.squares[to], NoPiece, KindNormal))
	}

	if filter != genCaptures && !inCheck {
		moves = p.castlingMoves(moves, occ)
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square, pc, captured Piece, us Side) []Move {
	return append(moves,
		MakeMove(from, to, pc, captured, PieceOf(us, Queen), KindNormal),
		MakeMove(from, to, pc, captured, PieceOf(us, Rook), KindNormal),
		MakeMove(from, to, pc, captured, PieceOf(us, Bishop), KindNormal),
		MakeMove(from, to, pc, captured, PieceOf(us, Knight), KindNormal),
	)
}

func (p *Position) pawnMoves(moves []Move, filter genFilter, occ, opp uint64, inCheck bool, checkMask uint64, pinLine *[64]uint64) []Move {
	us := p.sideToMove
	pc := PieceOf(us, Pawn)
	up, promoRank, startRank := 8, 7, 1
	if us == Black {
		up, promoRank, startRank = -8, 0, 6
	}

	pawns := p.pieceBB[us][Pawn]
	for pawns != 0 {
		from := Square(popLSB(&pawns))
		pin := pinLine[from]

		// Pushes.
		if filter != genCaptures {
			one := from + Square(up)
			if occ&squareBB(one) == 0 {
				oneOK := (pin == 0 || pin&squareBB(one) != 0) &&
					(!inCheck || checkMask&squareBB(one) != 0)
				if one.Rank() == promoRank {
					if oneOK {
						moves = appendPromotions(moves, from, one, pc, NoPiece, us)
					}
				} else {
					if oneOK {
						moves = append(moves, MakeMove(from, one, pc, NoPiece, NoPiece, KindNormal))
					}
					if from.Rank() == startRank {
						two := one + Square(up)
						if occ&squareBB(two) == 0 &&
							(pin == 0 || pin&squareBB(two) != 0) &&
							(!inCheck || checkMask&squareBB(two) != 0) {
							moves = append(moves, MakeMove(from, two, pc, NoPiece, NoPiece, KindDoublePush))
						}
					}
				}
			}
		}

		// Captures.
		caps := pawnCaptures[us][from]
		if filter != genQuiets {
			capTargets := caps & opp
			for capTargets != 0 {
				to := Square(popLSB(&capTargets))
				if pin != 0 && pin&squareBB(to) == 0 {
					continue
				}
				if inCheck && checkMask&squareBB(to) == 0 {
					continue
				}
				if to.Rank() == promoRank {
					moves = appendPromotions(moves, from, to, pc, p.squares[to], us)
				} else {
					moves = append(moves, MakeMove(from, to, pc, p.squares[to], NoPiece, KindNormal))
				}
			}

			if ep := p.enPassant; ep != NoSquare && caps&squareBB(ep) != 0 {
				if pin == 0 || pin&squareBB(ep) != 0 {
					capSq := ep - Square(up)
					if p.enPassantLegal(from, ep, capSq, occ) {
						moves = append(moves, MakeMove(from, ep, pc, PieceOf(us.Other(), Pawn), NoPiece, KindEnPassant))
					}
				}
			}
		}
	}
	return moves
}

// enPassantLegal verifies an en-passant capture by probing the king with
// both the capturing and the captured pawn lifted off the board. This also
// covers the capture of a double-pushed pawn that is giving check.
func (p *Position) enPassantLegal(from, ep, capSq Square, occ uint64) bool {
	us := p.sideToMove
	them := us.Other()
	ks := p.KingSquare(us)
	occ2 := occ&^squareBB(from)&^squareBB(capSq) | squareBB(ep)

	if pawnCaptures[us][ks]&(p.pieceBB[them][Pawn]&^squareBB(capSq)) != 0 {
		return false
	}
	if knightAttacks[ks]&p.pieceBB[them][Knight] != 0 {
		return false
	}
	if RookAttacks(ks, occ2)&(p.pieceBB[them][Rook]|p.pieceBB[them][Queen]) != 0 {
		return false
	}
	if BishopAttacks(ks, occ2)&(p.pieceBB[them][Bishop]|p.pieceBB[them][Queen]) != 0 {
		return false
	}
	return true
}

var kingCastleTargets = [2][2]Square{
	White: {Kingside: SquareAt(6, 0), Queenside: SquareAt(2, 0)},
	Black: {Kingside: SquareAt(6, 7), Queenside: SquareAt(2, 7)},
}

var rookCastleTargets = [2][2]Square{
	White: {Kingside: SquareAt(5, 0), Queenside: SquareAt(3, 0)},
	Black: {Kingside: SquareAt(5, 7), Queenside: SquareAt(3, 7)},
}

func (p *Position) castlingMoves(moves []Move, occ uint64) []Move {
	us := p.sideToMove
	them := us.Other()
	king := PieceOf(us, King)
	rook := PieceOf(us, Rook)

	for wing := Kingside; wing <= Queenside; wing++ {
		if p.castling&RightOf(us, wing) == 0 {
			continue
		}
		rFrom := p.rookStart[us][wing]
		if rFrom == NoSquare || p.squares[rFrom] != rook {
			continue
		}
		if occ&p.castlePath[us][wing] != 0 {
			continue
		}
		// King transit squares are probed with the castling rook lifted,
		// which matters when the rook shields its own king's path.
		occX := occ &^ squareBB(rFrom)
		safe := p.castleSafe[us][wing]
		attacked := false
		for safe != 0 {
			if p.attackedWithOcc(popLSB(&safe), them, occX) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}
		moves = append(moves, MakeMove(p.kingStart[us], kingCastleTargets[us][wing], king, NoPiece, NoPiece, KindCastle))
	}
	return moves
}

// initCastleGeometry recomputes the blocked and transit masks from the
// tracked king and rook origin squares. Called after FEN setup.
func (p *Position) initCastleGeometry() {
	for s := White; s <= Black; s++ {
		for wing := Kingside; wing <= Queenside; wing++ {
			p.castlePath[s][wing] = 0
			p.castleSafe[s][wing] = 0
			if p.castling&RightOf(s, wing) == 0 {
				continue
			}
			kFrom := p.kingStart[s]
			rFrom := p.rookStart[s][wing]
			if kFrom == NoSquare || rFrom == NoSquare {
				continue
			}
			kTo := kingCastleTargets[s][wing]
			rTo := rookCastleTargets[s][wing]
			path := betweenBB[kFrom][kTo] | squareBB(kTo) |
				betweenBB[rFrom][rTo] | squareBB(rTo)
			path &^= squareBB(kFrom) | squareBB(rFrom)
			p.castlePath[s][wing] = path
			p.castleSafe[s][wing] = betweenBB[kFrom][kTo] | squareBB(kTo)
		}
	}
}

// kingRayUnion is the set of squares sharing a rank, file or diagonal with
// sq; used to gate the post-move self-check test.
func kingRayUnion(sq Square) uint64 {
	return RookAttacks(sq, 0) | BishopAttacks(sq, 0)
}
