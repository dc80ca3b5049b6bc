package movegen

// Undo carries the irreversible state needed to take a move back.
type Undo struct {
	captured  Piece
	castling  CastlingRights
	enPassant Square
	halfmove  int
	fullmove  int
	hash      uint64
}

// NullUndo carries the state needed to take a null move back.
type NullUndo struct {
	enPassant Square
	halfmove  int
	hash      uint64
}

// castleWing classifies a castling move by its king destination file.
func castleWing(m Move) int {
	if m.To().File() == 6 {
		return Kingside
	}
	return Queenside
}

// shiftPiece moves a piece between squares with XOR updates; the destination
// must be empty.
func (p *Position) shiftPiece(pc Piece, from, to Square) {
	s := pc.Side()
	ft := squareBB(from) | squareBB(to)
	p.pieceBB[s][pc.Type()] ^= ft
	p.occupied[s] ^= ft
	p.squares[from] = NoPiece
	p.squares[to] = pc
	p.hash ^= zobristPiece[pc][from] ^ zobristPiece[pc][to]
}

// Apply plays the move. It reports ok=false and leaves the position
// unchanged if the move would expose the mover's own king; moves produced
// by the generator always succeed.
func (p *Position) Apply(m Move) (Undo, bool) {
	u := Undo{
		captured:  NoPiece,
		castling:  p.castling,
		enPassant: p.enPassant,
		halfmove:  p.halfmoveClock,
		fullmove:  p.fullmoveNumber,
		hash:      p.hash,
	}
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pc := m.Piece()

	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}
	p.enPassant = NoSquare

	switch m.Kind() {
	case KindCastle:
		// Take both pieces off first: in Chess960 the king and rook
		// destinations can overlap their origins.
		wing := castleWing(m)
		rFrom := p.rookStart[us][wing]
		kingPc := p.takePiece(from)
		rookPc := p.takePiece(rFrom)
		p.putPiece(to, kingPc)
		p.putPiece(rookCastleTargets[us][wing], rookPc)

	case KindEnPassant:
		capSq := SquareAt(to.File(), from.Rank())
		u.captured = p.takePiece(capSq)
		p.shiftPiece(pc, from, to)

	default:
		if m.Captured() != NoPiece {
			u.captured = p.takePiece(to)
		}
		if promo := m.Promotion(); promo != NoPiece {
			p.takePiece(from)
			p.putPiece(to, promo)
		} else {
			p.shiftPiece(pc, from, to)
		}
		if m.Kind() == KindDoublePush {
			ep := Square((int(from) + int(to)) / 2)
			p.enPassant = ep
			p.hash ^= zobristEnPassant[ep.File()]
		}
	}

	// Castling rights decay by origin square: while a right is held its
	// rook is guaranteed to sit on the tracked start square.
	newCR := p.castling
	if newCR != 0 {
		if pc.Type() == King {
			newCR &^= RightOf(us, Kingside) | RightOf(us, Queenside)
		}
		if from == p.rookStart[us][Kingside] {
			newCR &^= RightOf(us, Kingside)
		}
		if from == p.rookStart[us][Queenside] {
			newCR &^= RightOf(us, Queenside)
		}
		if to == p.rookStart[them][Kingside] {
			newCR &^= RightOf(them, Kingside)
		}
		if to == p.rookStart[them][Queenside] {
			newCR &^= RightOf(them, Queenside)
		}
	}
	if newCR != p.castling {
		p.hash ^= zobristCastling[p.castling] ^ zobristCastling[newCR]
		p.castling = newCR
	}

	p.sideToMove = them
	p.hash ^= zobristSide

	// Self-check gate. Skipped when the move cannot uncover an attack on
	// our king: not a king move, not en passant, and the origin square is
	// off every ray through the king.
	ks := p.KingSquare(us)
	needCheck := pc.Type() == King || m.Kind() == KindEnPassant ||
		kingRayUnion(ks)&squareBB(from) != 0
	if needCheck && p.attackedWithOcc(int(ks), them, p.AllOccupied()) {
		p.Revert(m, u)
		return u, false
	}

	if pc.Type() == Pawn || u.captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if us == Black {
		p.fullmoveNumber++
	}
	return u, true
}

// Revert takes back a move previously played with Apply, restoring the
// position exactly, hash included.
func (p *Position) Revert(m Move, u Undo) {
	us := m.Piece().Side()
	from, to := m.From(), m.To()

	switch m.Kind() {
	case KindCastle:
		wing := castleWing(m)
		rookPc := p.takePiece(rookCastleTargets[us][wing])
		kingPc := p.takePiece(to)
		p.putPiece(from, kingPc)
		p.putPiece(p.rookStart[us][wing], rookPc)

	case KindEnPassant:
		p.shiftPiece(m.Piece(), to, from)
		p.putPiece(SquareAt(to.File(), from.Rank()), u.captured)

	default:
		if promo := m.Promotion(); promo != NoPiece {
			p.takePiece(to)
			p.putPiece(from, m.Piece())
		} else {
			p.shiftPiece(m.Piece(), to, from)
		}
		if u.captured != NoPiece {
			p.putPiece(to, u.captured)
		}
	}

	p.sideToMove = us
	p.castling = u.castling
	p.enPassant = u.enPassant
	p.halfmoveClock = u.halfmove
	p.fullmoveNumber = u.fullmove
	p.hash = u.hash
}

// ApplyNull switches the side to move without moving a piece. Used by
// null-move pruning; never called while in check.
func (p *Position) ApplyNull() NullUndo {
	u := NullUndo{enPassant: p.enPassant, halfmove: p.halfmoveClock, hash: p.hash}
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
		p.enPassant = NoSquare
	}
	p.halfmoveClock++
	p.sideToMove = p.sideToMove.Other()
	p.hash ^= zobristSide
	return u
}

// RevertNull takes back a null move.
func (p *Position) RevertNull(u NullUndo) {
	p.sideToMove = p.sideToMove.Other()
	p.enPassant = u.enPassant
	p.halfmoveClock = u.halfmove
	p.hash = u.hash
}
