package movegen

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// Standard perft suite. Counts from the chessprogramming wiki.
var perftCases = []struct {
	name   string
	fen    string
	counts []uint64
}{
	{
		name:   "startpos",
		fen:    StartFEN,
		counts: []uint64{20, 400, 8902, 197281, 4865609},
	},
	{
		name:   "kiwipete",
		fen:    "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		counts: []uint64{48, 2039, 97862},
	},
	{
		name:   "endgame",
		fen:    "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		counts: []uint64{14, 191, 2812, 43238},
	},
	{
		name:   "mirror",
		fen:    "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		counts: []uint64{6, 264, 9467},
	},
	{
		name:   "talkchess",
		fen:    "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		counts: []uint64{44, 1486, 62379},
	},
	{
		name:   "steven",
		fen:    "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		counts: []uint64{46, 2079, 89890},
	},
	{
		// En passant is illegal here: both pawns leaving the fourth rank
		// would expose the king to the queen.
		name:   "ep pin",
		fen:    "8/8/8/8/k2Pp2Q/8/8/3K4 b - d3 0 1",
		counts: []uint64{6},
	},
	{
		// The double-pushed pawn gives check and may be captured en passant.
		name:   "ep check evasion",
		fen:    "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
		counts: []uint64{9},
	},
	{
		name:   "promotion",
		fen:    "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
		counts: []uint64{24, 496, 9483},
	},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := FromFEN(tc.fen)
			if err != nil {
				t.Fatalf("FromFEN(%q): %v", tc.fen, err)
			}
			for depth, want := range tc.counts {
				if testing.Short() && want > 100000 {
					break
				}
				got := Perft(pos, depth+1)
				if got != want {
					t.Fatalf("perft(%d) of %q = %d, want %d", depth+1, tc.fen, got, want)
				}
			}
		})
	}
}

// TestPerftCrossCheck compares node counts against an independent move
// generator on every suite position.
func TestPerftCrossCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("cross-check is slow")
	}
	for _, tc := range perftCases {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		board := dragontoothmg.ParseFen(tc.fen)
		for depth := 1; depth <= 3; depth++ {
			got := Perft(pos, depth)
			want := uint64(dragontoothmg.Perft(&board, depth))
			if got != want {
				t.Errorf("%s: perft(%d) = %d, reference says %d", tc.name, depth, got, want)
			}
		}
	}
}

// TestLegalMovesCrossCheck compares the exact legal move sets against the
// reference generator.
func TestLegalMovesCrossCheck(t *testing.T) {
	for _, tc := range perftCases {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		board := dragontoothmg.ParseFen(tc.fen)

		var mine []string
		for _, m := range pos.LegalMoves() {
			mine = append(mine, m.String())
		}
		var ref []string
		for _, m := range board.GenerateLegalMoves() {
			ref = append(ref, m.String())
		}
		sort.Strings(mine)
		sort.Strings(ref)

		if len(mine) != len(ref) {
			t.Errorf("%s: %d moves, reference has %d\nmine: %v\nref:  %v",
				tc.name, len(mine), len(ref), mine, ref)
			continue
		}
		for i := range mine {
			if mine[i] != ref[i] {
				t.Errorf("%s: move list differs at %d: %s vs %s", tc.name, i, mine[i], ref[i])
			}
		}
	}
}

func TestPerftSplitSumsToPerft(t *testing.T) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	split := PerftSplit(pos, 3)
	var total uint64
	for _, n := range split {
		total += n
	}
	if want := Perft(pos, 3); total != want {
		t.Fatalf("split total %d, perft %d", total, want)
	}
	if len(split) != 48 {
		t.Fatalf("split has %d root moves, want 48", len(split))
	}
}

func BenchmarkPerftStartpos(b *testing.B) {
	pos := StartPosition()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if Perft(pos, 4) != 197281 {
			b.Fatal("bad perft count")
		}
	}
}

func BenchmarkLegalMoves(b *testing.B) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		b.Fatalf("FromFEN: %v", err)
	}
	buf := make([]Move, 0, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = pos.LegalMovesInto(buf[:0])
	}
	_ = buf
}
