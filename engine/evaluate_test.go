package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FitzOReilly/fatalii/movegen"
)

// mirrorFEN flips a position vertically and swaps colors, which must negate
// nothing: the evaluation is from the side to move, so both views agree.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	flipped := make([]string, 8)
	for i, r := range ranks {
		var sb strings.Builder
		for _, ch := range r {
			switch {
			case ch >= 'a' && ch <= 'z':
				sb.WriteRune(ch - 'a' + 'A')
			case ch >= 'A' && ch <= 'Z':
				sb.WriteRune(ch - 'A' + 'a')
			default:
				sb.WriteRune(ch)
			}
		}
		flipped[7-i] = sb.String()
	}
	stm := "w"
	if fields[1] == "w" {
		stm = "b"
	}
	return strings.Join(flipped, "/") + " " + stm + " - - 0 1"
}

func TestEvaluateSymmetry(t *testing.T) {
	fens := []string{
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w - - 4 4",
		"4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1",
		"6k1/5ppp/4p3/8/8/1B6/5PPP/6K1 w - - 0 1",
		"8/2p5/3p4/1P5r/1R3p1k/8/4P1P1/K7 b - - 0 1",
	}
	w := DefaultWeights()
	for _, fen := range fens {
		pos, err := movegen.FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		mpos, err := movegen.FromFEN(mirrorFEN(t, fen))
		if err != nil {
			t.Fatalf("mirror of %q: %v", fen, err)
		}
		if got, want := Evaluate(mpos, w), Evaluate(pos, w); got != want {
			t.Errorf("%q: mirrored eval %d, original %d", fen, got, want)
		}
	}
}

func TestEvaluateStartposBalanced(t *testing.T) {
	w := DefaultWeights()
	score := Evaluate(movegen.StartPosition(), w)
	// Both sides are identical, so only the tempo bonus remains.
	if score != w.Tempo {
		t.Fatalf("startpos evaluates to %d, want tempo %d", score, w.Tempo)
	}
}

func TestEvaluateMaterialDominates(t *testing.T) {
	w := DefaultWeights()
	pos, err := movegen.FromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if score := Evaluate(pos, w); score < 800 {
		t.Fatalf("queen up scores only %d", score)
	}
	// Same position from the loser's seat.
	pos, err = movegen.FromFEN("4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if score := Evaluate(pos, w); score > -800 {
		t.Fatalf("queen down scores %d", score)
	}
}

func TestEvaluateTapering(t *testing.T) {
	w := DefaultWeights()
	// With heavy material on the board a centralized king is a liability;
	// the middlegame king table must dominate the blend.
	mg, err := movegen.FromFEN("rnbqkbnr/pppppppp/8/4K3/8/8/PPPPPPPP/RNBQ1BNR w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	centralKingMG := Evaluate(mg, w)

	cornerMG, err := movegen.FromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if Evaluate(cornerMG, w) <= centralKingMG {
		t.Fatal("a centralized king should score worse with heavy material on")
	}
}

func TestEvaluateBackwardPawn(t *testing.T) {
	// Only the backward term is weighted, so scores count backward pawns.
	var w Weights
	w.BackwardPawnEG = -10

	// The pawn on c2 can never be defended by another pawn and its stop
	// square c3 is covered by the pawn on d4. b3, d4 and e5 are all
	// defensible or unattacked.
	pos, err := movegen.FromFEN("4k3/8/8/4p3/3p4/1P6/2P5/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if got := Evaluate(pos, &w); got != -10 {
		t.Errorf("one backward pawn scores %d, want -10", got)
	}

	// A phalanx defends both members' stop squares, so neither white pawn
	// is backward; both black pawns are.
	pos, err = movegen.FromFEN("4k3/8/8/8/1p1p4/8/1PP5/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if got := Evaluate(pos, &w); got != 20 {
		t.Errorf("phalanx position scores %d, want 20", got)
	}
}

func TestWeightsJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")

	w := DefaultWeights()
	w.Tempo = 17
	w.PSQTMG[movegen.Knight][42] = -123
	if err := SaveWeights(path, w); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}
	got, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if *got != *w {
		t.Fatal("weights changed across save/load")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file left behind")
	}
}

func TestLoadWeightsErrors(t *testing.T) {
	if _, err := LoadWeights(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file must error")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWeights(path); err == nil {
		t.Fatal("malformed JSON must error")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	pos, err := movegen.FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		b.Fatalf("FromFEN: %v", err)
	}
	w := DefaultWeights()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(pos, w)
	}
}
