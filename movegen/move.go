package movegen

import (
	"errors"
	"fmt"
)

// Move packs a move into 32 bits:
//
//	bits  0..5   origin square
//	bits  6..11  destination square
//	bits 12..15  moving piece
//	bits 16..19  captured piece (NoPiece if none)
//	bits 20..23  promotion piece (NoPiece if none)
//	bits 24..25  kind
//
// Castling stores the king origin and king destination; the rook relocation
// is derived from the position's castling geometry when the move is applied.
type Move uint32

// NoMove is the zero value; no legal move encodes to it because a real move
// always carries a non-zero moving piece.
const NoMove Move = 0

// Move kinds.
const (
	KindNormal     = 0
	KindCastle     = 1
	KindEnPassant  = 2
	KindDoublePush = 3
)

const (
	moveToShift    = 6
	movePieceShift = 12
	moveCapShift   = 16
	movePromoShift = 20
	moveKindShift  = 24
)

// MakeMove assembles a move from its components.
func MakeMove(from, to Square, piece, captured, promo Piece, kind uint8) Move {
	return Move(uint32(from)&0x3F |
		uint32(to)&0x3F<<moveToShift |
		uint32(piece)&0xF<<movePieceShift |
		uint32(captured)&0xF<<moveCapShift |
		uint32(promo)&0xF<<movePromoShift |
		uint32(kind)&0x3<<moveKindShift)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> moveToShift & 0x3F) }

// Piece returns the moving piece.
func (m Move) Piece() Piece { return Piece(m >> movePieceShift & 0xF) }

// Captured returns the captured piece, or NoPiece.
func (m Move) Captured() Piece { return Piece(m >> moveCapShift & 0xF) }

// Promotion returns the promotion piece, or NoPiece.
func (m Move) Promotion() Piece { return Piece(m >> movePromoShift & 0xF) }

// Kind returns the move kind.
func (m Move) Kind() uint8 { return uint8(m >> moveKindShift & 0x3) }

// IsCapture reports whether the move captures a piece, including en passant.
func (m Move) IsCapture() bool { return m.Captured() != NoPiece }

// IsQuiet reports a non-capturing, non-promoting move.
func (m Move) IsQuiet() bool { return m.Captured() == NoPiece && m.Promotion() == NoPiece }

var promoLetter = [7]byte{Queen: 'q', Rook: 'r', Bishop: 'b', Knight: 'n'}

// String renders the move in coordinate notation, e.g. "e2e4" or "e7e8q".
// Castling prints as the king's relocation regardless of variant.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.Promotion().Type(); pt != NoPieceType {
		s += string(promoLetter[pt])
	}
	return s
}

// ErrIllegalMove is returned when a parsed move is not legal in the position.
var ErrIllegalMove = errors.New("illegal move")

// ParseMove interprets coordinate notation against the current position and
// returns the matching legal move. In Chess960 mode a castling move is
// written king-takes-rook; in standard mode as the king's two-square hop.
func (p *Position) ParseMove(text string) (Move, error) {
	if len(text) < 4 || len(text) > 5 {
		return NoMove, fmt.Errorf("malformed move %q", text)
	}
	from, err := parseSquare(text[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("malformed move %q: %w", text, err)
	}
	to, err := parseSquare(text[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("malformed move %q: %w", text, err)
	}
	promo := NoPieceType
	if len(text) == 5 {
		switch text[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoMove, fmt.Errorf("malformed move %q: bad promotion piece", text)
		}
	}

	var buf [256]Move
	for _, m := range p.LegalMovesInto(buf[:0]) {
		if m.From() != from || m.Promotion().Type() != promo {
			continue
		}
		if m.To() == to && m.Kind() != KindCastle {
			return m, nil
		}
		if m.Kind() == KindCastle {
			if m.To() == to && !p.chess960 {
				return m, nil
			}
			// King-takes-rook notation.
			if to == p.rookStart[p.sideToMove][castleWing(m)] {
				return m, nil
			}
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, text)
}

// MoveText renders a move for the wire, honoring the position's variant:
// Chess960 castling is written king-takes-rook.
func (p *Position) MoveText(m Move) string {
	if p.chess960 && m.Kind() == KindCastle {
		return m.From().String() + p.rookStart[m.Piece().Side()][castleWing(m)].String()
	}
	return m.String()
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}
