package movegen

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceChars = [2]string{"-PNBRQK", "-pnbrqk"}

func pieceFromChar(ch rune) Piece {
	for s := White; s <= Black; s++ {
		if idx := strings.IndexRune(pieceChars[s], ch); idx > 0 {
			return PieceOf(s, PieceType(idx))
		}
	}
	return NoPiece
}

func charFromPiece(pc Piece) byte {
	return pieceChars[pc.Side()][pc.Type()]
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFEN parses a FEN record. Castling rights accept both the conventional
// KQkq letters and Shredder-style file letters (AHah); file letters, or a
// setup whose castling rooks are off the classic corners, mark the position
// as Chess960.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN %q: expected at least 4 fields", fen)
	}

	p := &Position{
		enPassant:      NoSquare,
		fullmoveNumber: 1,
		kingStart:      [2]Square{NoSquare, NoSquare},
		rookStart: [2][2]Square{
			{NoSquare, NoSquare},
			{NoSquare, NoSquare},
		},
	}

	// Piece placement.
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: %d ranks", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			default:
				pc := pieceFromChar(ch)
				if pc == NoPiece {
					return nil, fmt.Errorf("invalid FEN: piece character %q", ch)
				}
				if file > 7 {
					return nil, fmt.Errorf("invalid FEN: rank %d overflows", rank+1)
				}
				p.putPiece(SquareAt(file, rank), pc)
				file++
			}
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}
	for s := White; s <= Black; s++ {
		if bits.OnesCount64(p.pieceBB[s][King]) != 1 {
			return nil, fmt.Errorf("invalid FEN: side must have exactly one king")
		}
		p.kingStart[s] = p.KingSquare(s)
	}

	// Side to move.
	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("invalid FEN: side to move %q", fields[1])
	}

	// Castling rights.
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			if err := p.addCastlingRight(ch); err != nil {
				return nil, err
			}
		}
	}
	p.initCastleGeometry()
	if !p.classicCastling() {
		p.chess960 = true
	}

	// En passant.
	if fields[3] != "-" {
		ep, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant square %q", fields[3])
		}
		p.enPassant = ep
	}

	// Clocks.
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid FEN: halfmove clock %q", fields[4])
		}
		p.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid FEN: fullmove number %q", fields[5])
		}
		p.fullmoveNumber = n
	}

	p.hash = p.computeHash()
	return p, nil
}

func (p *Position) addCastlingRight(ch rune) error {
	var s Side
	switch {
	case ch >= 'A' && ch <= 'Z':
		s = White
	case ch >= 'a' && ch <= 'z':
		s = Black
	default:
		return fmt.Errorf("invalid FEN: castling character %q", ch)
	}
	backRank := 0
	if s == Black {
		backRank = 7
	}
	kingFile := p.kingStart[s].File()
	rook := PieceOf(s, Rook)

	var rookSq Square
	var wing int
	switch lower := ch | 0x20; {
	case lower == 'k':
		wing = Kingside
		rookSq = NoSquare
		for f := 7; f > kingFile; f-- {
			if p.squares[SquareAt(f, backRank)] == rook {
				rookSq = SquareAt(f, backRank)
				break
			}
		}
	case lower == 'q':
		wing = Queenside
		rookSq = NoSquare
		for f := 0; f < kingFile; f++ {
			if p.squares[SquareAt(f, backRank)] == rook {
				rookSq = SquareAt(f, backRank)
				break
			}
		}
	case lower >= 'a' && lower <= 'h':
		f := int(lower - 'a')
		rookSq = SquareAt(f, backRank)
		if p.squares[rookSq] != rook {
			rookSq = NoSquare
		}
		if f > kingFile {
			wing = Kingside
		} else {
			wing = Queenside
		}
	default:
		return fmt.Errorf("invalid FEN: castling character %q", ch)
	}
	if rookSq == NoSquare {
		return fmt.Errorf("invalid FEN: no castling rook for %q", ch)
	}
	p.castling |= RightOf(s, wing)
	p.rookStart[s][wing] = rookSq
	return nil
}

// classicCastling reports whether every held right matches the orthodox
// setup (king on the e-file, rooks on the corners).
func (p *Position) classicCastling() bool {
	for s := White; s <= Black; s++ {
		backRank := 0
		if s == Black {
			backRank = 7
		}
		hasRight := p.castling&(RightOf(s, Kingside)|RightOf(s, Queenside)) != 0
		if hasRight && p.kingStart[s] != SquareAt(4, backRank) {
			return false
		}
		if p.castling&RightOf(s, Kingside) != 0 && p.rookStart[s][Kingside] != SquareAt(7, backRank) {
			return false
		}
		if p.castling&RightOf(s, Queenside) != 0 && p.rookStart[s][Queenside] != SquareAt(0, backRank) {
			return false
		}
	}
	return true
}

// SetChess960 switches the variant flag, which affects castling notation in
// FEN output and on the wire.
func (p *Position) SetChess960(on bool) { p.chess960 = on }

// FEN renders the position as a FEN record.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[SquareAt(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		std := [4]byte{'K', 'Q', 'k', 'q'}
		for i, right := range [4]CastlingRights{WhiteKingside, WhiteQueenside, BlackKingside, BlackQueenside} {
			if p.castling&right == 0 {
				continue
			}
			if p.chess960 {
				s := Side(i / 2)
				letter := byte('A' + p.rookStart[s][i%2].File())
				if s == Black {
					letter |= 0x20
				}
				sb.WriteByte(letter)
			} else {
				sb.WriteByte(std[i])
			}
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}
