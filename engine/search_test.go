package engine

import (
	"testing"
	"time"

	"github.com/FitzOReilly/fatalii/movegen"
)

func searchFEN(t *testing.T, fen string, lim Limits) Result {
	t.Helper()
	e := New()
	if err := e.SetPosition(fen); err != nil {
		t.Fatalf("SetPosition(%q): %v", fen, err)
	}
	return e.Search(lim, nil)
}

func TestSearchMateInOne(t *testing.T) {
	cases := []struct {
		fen  string
		move string
	}{
		{"6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8"},
		{"3qk3/8/8/8/8/8/5PPP/6K1 b - - 0 1", "d8d1"},
		{"6k1/8/6KQ/8/8/8/8/8 w - - 0 1", "h6g7"},
	}
	for _, tc := range cases {
		res := searchFEN(t, tc.fen, Limits{Depth: 4})
		if got := res.BestMove.String(); got != tc.move {
			t.Errorf("%q: best move %s, want %s", tc.fen, got, tc.move)
		}
		if !IsMateScore(res.Score) || MateDistance(res.Score) != 1 {
			t.Errorf("%q: score %d is not mate in 1", tc.fen, res.Score)
		}
	}
}

func TestSearchMateInTwo(t *testing.T) {
	// 1.Kb6 boxes the king in, 2.Rh8 mates on the back rank.
	res := searchFEN(t, "k7/8/2K5/8/8/8/8/7R w - - 0 1", Limits{Depth: 6})
	if !IsMateScore(res.Score) {
		t.Fatalf("score %d is not a mate score", res.Score)
	}
	if d := MateDistance(res.Score); d != 2 {
		t.Fatalf("mate distance %d, want 2", d)
	}
}

func TestSearchAvoidsBeingMated(t *testing.T) {
	// Black must stop the back rank mate with a rook trade.
	res := searchFEN(t, "r5k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1", Limits{Depth: 4})
	if IsMateScore(res.Score) {
		t.Fatalf("balanced position scored as mate: %d", res.Score)
	}
}

func TestSearchZeroMovetimeStillMoves(t *testing.T) {
	// One millisecond is below the move overhead, so the effective budget
	// is zero; depth 1 must still complete.
	res := searchFEN(t, movegen.StartFEN, Limits{MoveTime: time.Millisecond})
	if res.BestMove == movegen.NoMove {
		t.Fatal("no move returned under a zero time budget")
	}
	pos := movegen.StartPosition()
	if _, err := pos.ParseMove(res.BestMove.String()); err != nil {
		t.Fatalf("returned move %s is not legal: %v", res.BestMove, err)
	}
	if res.Depth > 1 && res.Nodes == 0 {
		t.Fatal("inconsistent result")
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	res := searchFEN(t, movegen.StartFEN, Limits{Nodes: 5000, Depth: 64})
	if res.BestMove == movegen.NoMove {
		t.Fatal("no move under node limit")
	}
	// The counter is only checked every few thousand nodes, so allow slack.
	if res.Nodes > 20000 {
		t.Fatalf("searched %d nodes with a 5000 node limit", res.Nodes)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	// Checkmated side to move.
	res := searchFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", Limits{Depth: 3})
	if res.BestMove != movegen.NoMove {
		t.Fatalf("returned %s from a mated position", res.BestMove)
	}
	// Stalemated side to move.
	res = searchFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Limits{Depth: 3})
	if res.BestMove != movegen.NoMove {
		t.Fatalf("returned %s from a stalemate", res.BestMove)
	}
}

func TestSearchDeterministicAtFixedDepth(t *testing.T) {
	fen := "r1bqkb1r/pppp1ppp/2n2n2/4p3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 4 4"
	first := searchFEN(t, fen, Limits{Depth: 5})
	for i := 0; i < 2; i++ {
		again := searchFEN(t, fen, Limits{Depth: 5})
		if again.BestMove != first.BestMove || again.Score != first.Score {
			t.Fatalf("run %d: got %s/%d, first run %s/%d",
				i, again.BestMove, again.Score, first.BestMove, first.Score)
		}
	}
}

func TestSearchReportsProgress(t *testing.T) {
	e := New()
	var infos []Info
	res := e.Search(Limits{Depth: 4}, func(info Info) {
		infos = append(infos, info)
	})
	if len(infos) != 4 {
		t.Fatalf("%d progress reports, want 4", len(infos))
	}
	for i, info := range infos {
		if info.Depth != i+1 {
			t.Fatalf("report %d has depth %d", i, info.Depth)
		}
		if len(info.PV) == 0 || info.PV[0] == movegen.NoMove {
			t.Fatalf("report %d has no PV", i)
		}
	}
	last := infos[len(infos)-1]
	if last.PV[0] != res.BestMove {
		t.Fatalf("final PV starts with %s, result says %s", last.PV[0], res.BestMove)
	}
}

func TestSearchStopFromAnotherGoroutine(t *testing.T) {
	e := New()
	done := make(chan Result, 1)
	go func() {
		done <- e.Search(Limits{Infinite: true}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	e.Stop()
	select {
	case res := <-done:
		if res.BestMove == movegen.NoMove {
			t.Fatal("stopped search returned no move")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop")
	}
}

func TestStopRightAfterStartSearch(t *testing.T) {
	// A stop that lands before the search loop is even scheduled must
	// still end the search instead of being clobbered by its startup.
	for i := 0; i < 10; i++ {
		e := New()
		done := make(chan Result, 1)
		e.StartSearch(Limits{Infinite: true}, nil, func(res Result) { done <- res })
		e.Stop()
		select {
		case res := <-done:
			if res.BestMove == movegen.NoMove {
				t.Fatal("stopped search returned no move")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("stop issued right after StartSearch was lost")
		}
	}
}

func TestSearchScoresWinningCapture(t *testing.T) {
	// White wins a free queen; the search must see at least that much.
	res := searchFEN(t, "4k3/8/8/3q4/8/8/8/3QK3 w - - 0 1", Limits{Depth: 4})
	if got := res.BestMove.String(); got != "d1d5" {
		t.Fatalf("best move %s, want d1d5", got)
	}
	if res.Score < 500 {
		t.Fatalf("winning a queen scores only %d", res.Score)
	}
}

func TestRepetitionDraw(t *testing.T) {
	e := New()
	if err := e.SetPosition("4k3/8/8/8/8/8/8/R3K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	// Shuffle the rook and kings back and forth twice.
	for _, text := range []string{
		"a1b1", "e8d8", "b1a1", "d8e8",
		"a1b1", "e8d8", "b1a1", "d8e8",
	} {
		if err := e.ApplyMove(text); err != nil {
			t.Fatalf("ApplyMove(%s): %v", text, err)
		}
	}
	if !e.IsDraw() {
		t.Fatal("threefold repetition not detected")
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	e := New()
	if err := e.SetPosition("4k3/8/8/8/8/8/8/R3K3 w - - 100 80"); err != nil {
		t.Fatal(err)
	}
	if !e.IsDraw() {
		t.Fatal("fifty move rule not detected")
	}
	if err := e.SetPosition("4k3/8/8/8/8/8/8/R3K3 w - - 99 80"); err != nil {
		t.Fatal(err)
	}
	if e.IsDraw() {
		t.Fatal("draw claimed one halfmove early")
	}
}

func TestEngineNewGameResets(t *testing.T) {
	e := New()
	if err := e.ApplyMove("e2e4"); err != nil {
		t.Fatal(err)
	}
	e.NewGame()
	if got := e.Position().FEN(); got != movegen.StartFEN {
		t.Fatalf("NewGame left position %q", got)
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	e := New()
	if err := e.ApplyMove("e2e5"); err == nil {
		t.Fatal("illegal move accepted")
	}
	if err := e.ApplyMove("zzzz"); err == nil {
		t.Fatal("garbage move accepted")
	}
}

func BenchmarkSearchDepth6(b *testing.B) {
	e := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.NewGame()
		e.Search(Limits{Depth: 6}, nil)
	}
}
