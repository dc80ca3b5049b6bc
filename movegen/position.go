// Package movegen implements the position model and legal move generation:
// bitboard board representation, FEN parsing, Zobrist hashing, make/unmake
// and perft. It has no knowledge of searching or evaluation.
package movegen

import "math/bits"

// Side identifies a player.
type Side uint8

const (
	White Side = 0
	Black Side = 1
)

// Other returns the opposing side.
func (s Side) Other() Side { return s ^ 1 }

// PieceType is a colorless piece kind, usable as a table index.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

// Piece encodes a colored piece in 4 bits: the low 3 bits hold the type,
// bit 3 is set for Black. This keeps piece codes usable as Zobrist indices.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// Type strips the color bit.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Side returns the owner of the piece. NoPiece reports White.
func (p Piece) Side() Side {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceOf combines a side and a piece type.
func PieceOf(s Side, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(s<<3)
}

// Square indexes the board 0..63, a1=0, h1=7, a8=56.
type Square int8

const NoSquare Square = -1

// File returns the square's file 0..7.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the square's rank 0..7.
func (sq Square) Rank() int { return int(sq) >> 3 }

// String renders the square in algebraic coordinates, e.g. "e4".
func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// SquareAt builds a square from file and rank, both 0..7.
func SquareAt(file, rank int) Square { return Square(rank<<3 | file) }

// Castling wings.
const (
	Kingside  = 0
	Queenside = 1
)

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingside  CastlingRights = 1 << 0
	WhiteQueenside CastlingRights = 1 << 1
	BlackKingside  CastlingRights = 1 << 2
	BlackQueenside CastlingRights = 1 << 3
	AllCastling    CastlingRights = 15
)

// RightOf returns the castling-rights bit for a side and wing.
func RightOf(s Side, wing int) CastlingRights {
	return CastlingRights(1) << (uint(s)*2 + uint(wing))
}

// Position is a complete chess position. All piece placement is kept in
// per-(side,type) bitboards plus a redundant square-indexed array; the
// Zobrist hash is maintained incrementally by every mutation.
type Position struct {
	pieceBB  [2][7]uint64 // [side][PieceType], index 0 unused
	occupied [2]uint64
	squares  [64]Piece

	sideToMove     Side
	castling       CastlingRights
	enPassant      Square
	halfmoveClock  int
	fullmoveNumber int
	hash           uint64

	// Castling geometry. Tracked per right so positions with rooks on
	// non-standard files (Chess960, or mid-game FENs) castle correctly.
	kingStart  [2]Square
	rookStart  [2][2]Square
	castlePath [2][2]uint64 // must be empty
	castleSafe [2][2]uint64 // king transit squares, must not be attacked
	chess960   bool
}

// SideToMove reports whose turn it is.
func (p *Position) SideToMove() Side { return p.sideToMove }

// Hash returns the incrementally maintained Zobrist key.
func (p *Position) Hash() uint64 { return p.hash }

// HalfmoveClock returns the number of half-moves since the last capture or
// pawn move.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// FullmoveNumber returns the full move counter, incremented after Black moves.
func (p *Position) FullmoveNumber() int { return p.fullmoveNumber }

// EnPassantSquare returns the en-passant target square or NoSquare.
func (p *Position) EnPassantSquare() Square { return p.enPassant }

// CastlingRights returns the remaining castling permissions.
func (p *Position) CastlingRights() CastlingRights { return p.castling }

// Chess960 reports whether the position was set up in Chess960 mode.
func (p *Position) Chess960() bool { return p.chess960 }

// RookStart returns the origin square of the castling rook for a side and
// wing. It is only meaningful while the corresponding right is held.
func (p *Position) RookStart(s Side, wing int) Square { return p.rookStart[s][wing] }

// PieceOn returns the piece occupying a square.
func (p *Position) PieceOn(sq Square) Piece { return p.squares[sq] }

// Pieces returns the bitboard of one side's pieces of the given type.
func (p *Position) Pieces(s Side, pt PieceType) uint64 { return p.pieceBB[s][pt] }

// Occupied returns the occupancy bitboard of one side.
func (p *Position) Occupied(s Side) uint64 { return p.occupied[s] }

// AllOccupied returns the bitboard of every occupied square.
func (p *Position) AllOccupied() uint64 { return p.occupied[White] | p.occupied[Black] }

// KingSquare returns the square of the given side's king.
func (p *Position) KingSquare(s Side) Square {
	return Square(bits.TrailingZeros64(p.pieceBB[s][King]))
}

func squareBB(sq Square) uint64 { return 1 << uint(sq) }

// popLSB removes the least significant set bit from mask and returns its index.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// putPiece places a piece on an empty square, updating bitboards and hash.
func (p *Position) putPiece(sq Square, pc Piece) {
	s := pc.Side()
	bbSq := squareBB(sq)
	p.squares[sq] = pc
	p.occupied[s] |= bbSq
	p.pieceBB[s][pc.Type()] |= bbSq
	p.hash ^= zobristPiece[pc][sq]
}

// takePiece removes and returns the piece on a square.
func (p *Position) takePiece(sq Square) Piece {
	pc := p.squares[sq]
	if pc == NoPiece {
		return NoPiece
	}
	s := pc.Side()
	bbSq := squareBB(sq)
	p.squares[sq] = NoPiece
	p.occupied[s] &^= bbSq
	p.pieceBB[s][pc.Type()] &^= bbSq
	p.hash ^= zobristPiece[pc][sq]
	return pc
}

// InCheck reports whether the given side's king is attacked.
func (p *Position) InCheck(s Side) bool {
	kingBB := p.pieceBB[s][King]
	if kingBB == 0 {
		return false
	}
	ks := bits.TrailingZeros64(kingBB)
	return p.attackedWithOcc(ks, s.Other(), p.AllOccupied())
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var buf [64]Move
	return len(p.LegalMovesInto(buf[:0])) > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.sideToMove) && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no moves but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.sideToMove) && !p.HasLegalMoves()
}

// FiftyMoveRule reports whether the half-move clock has reached 100.
func (p *Position) FiftyMoveRule() bool { return p.halfmoveClock >= 100 }

// InsufficientMaterial reports positions where neither side can possibly
// deliver mate: bare kings, a lone minor piece, or same-colored bishops only.
func (p *Position) InsufficientMaterial() bool {
	for s := White; s <= Black; s++ {
		if p.pieceBB[s][Pawn]|p.pieceBB[s][Rook]|p.pieceBB[s][Queen] != 0 {
			return false
		}
	}
	knights := p.pieceBB[White][Knight] | p.pieceBB[Black][Knight]
	bishops := p.pieceBB[White][Bishop] | p.pieceBB[Black][Bishop]
	minors := bits.OnesCount64(knights | bishops)
	if minors <= 1 {
		return true
	}
	// Any number of bishops on a single square color cannot mate.
	if knights == 0 {
		const darkSquares = 0xAA55AA55AA55AA55
		if bishops&darkSquares == 0 || bishops&^darkSquares == 0 {
			return true
		}
	}
	return false
}

// NonPawnMaterial reports whether the given side owns any piece besides
// pawns and the king. Null-move pruning is disabled without it.
func (p *Position) NonPawnMaterial(s Side) bool {
	return p.pieceBB[s][Knight]|p.pieceBB[s][Bishop]|p.pieceBB[s][Rook]|p.pieceBB[s][Queen] != 0
}

// Validate cross-checks the redundant board representations and the
// incremental hash against a from-scratch recomputation.
func (p *Position) Validate() bool {
	var occ [2]uint64
	var byType [2][7]uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		s := pc.Side()
		occ[s] |= squareBB(sq)
		byType[s][pc.Type()] |= squareBB(sq)
	}
	if occ != p.occupied || byType != p.pieceBB {
		return false
	}
	if bits.OnesCount64(p.pieceBB[White][King]) != 1 || bits.OnesCount64(p.pieceBB[Black][King]) != 1 {
		return false
	}
	return p.hash == p.computeHash()
}
