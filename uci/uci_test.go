package uci

import (
	"bytes"
	"strings"
	"testing"
)

func runCommands(t *testing.T, commands ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	var out bytes.Buffer
	srv := New(in, &out)
	if err := srv.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestHandshake(t *testing.T) {
	out := runCommands(t, "uci", "isready", "quit")
	for _, want := range []string{"id name", "id author", "option name Hash", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGoDepthProducesBestmove(t *testing.T) {
	out := runCommands(t,
		"position startpos moves e2e4 e7e5",
		"go depth 3",
		"quit",
	)
	if !strings.Contains(out, "info depth 3") {
		t.Errorf("missing depth 3 info line:\n%s", out)
	}
	if !strings.Contains(out, "bestmove ") {
		t.Errorf("missing bestmove:\n%s", out)
	}
	if !strings.Contains(out, " pv ") || !strings.Contains(out, " nps ") {
		t.Errorf("info line missing fields:\n%s", out)
	}
}

func TestPositionFEN(t *testing.T) {
	out := runCommands(t,
		"position fen 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1 moves b4b1",
		"go depth 2",
		"quit",
	)
	if !strings.Contains(out, "bestmove ") {
		t.Errorf("missing bestmove:\n%s", out)
	}
}

func TestMalformedCommandsAreReported(t *testing.T) {
	out := runCommands(t,
		"position fen not a fen",
		"position startpos moves e2e5",
		"setoption name Hash value soup",
		"flarp",
		"quit",
	)
	if got := strings.Count(out, "info string"); got < 4 {
		t.Errorf("want 4 diagnostics, got %d:\n%s", got, out)
	}
	if strings.Contains(out, "bestmove") {
		t.Errorf("no search was requested:\n%s", out)
	}
}

func TestSetOptions(t *testing.T) {
	out := runCommands(t,
		"setoption name Hash value 8",
		"setoption name Move Overhead value 50",
		"setoption name UCI_Chess960 value true",
		"ucinewgame",
		"go depth 1",
		"quit",
	)
	if strings.Contains(out, "info string") {
		t.Errorf("valid options produced diagnostics:\n%s", out)
	}
	if !strings.Contains(out, "bestmove ") {
		t.Errorf("missing bestmove:\n%s", out)
	}
}

func TestEvalWaitsForRunningSearch(t *testing.T) {
	out := runCommands(t,
		"position startpos",
		"go depth 5",
		"eval",
		"quit",
	)
	best := strings.Index(out, "bestmove ")
	eval := strings.Index(out, "static eval")
	if best < 0 || eval < 0 {
		t.Fatalf("missing bestmove or eval output:\n%s", out)
	}
	// eval must not read the position while the search goroutine runs.
	if eval < best {
		t.Errorf("eval answered before the search finished:\n%s", out)
	}
}

func TestPerftCommand(t *testing.T) {
	out := runCommands(t, "position startpos", "perft 2", "quit")
	if !strings.Contains(out, "Nodes searched: 400") {
		t.Errorf("perft 2 output wrong:\n%s", out)
	}
}
