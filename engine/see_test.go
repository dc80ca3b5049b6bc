package engine

import (
	"testing"

	"github.com/FitzOReilly/fatalii/movegen"
)

func mustMove(t *testing.T, pos *movegen.Position, text string) movegen.Move {
	t.Helper()
	m, err := pos.ParseMove(text)
	if err != nil {
		t.Fatalf("ParseMove(%s): %v", text, err)
	}
	return m
}

func TestSEE(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int32
	}{
		{
			name: "free pawn",
			fen:  "4k3/8/8/4p3/3B4/8/8/4K3 w - - 0 1",
			move: "d4e5",
			want: 100,
		},
		{
			name: "defended pawn loses the bishop",
			fen:  "4k3/8/3p4/4p3/8/2B5/8/4K3 w - - 0 1",
			move: "c3e5",
			want: 100 - 330,
		},
		{
			name: "rook takes defended rook",
			fen:  "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
			move: "e2e7",
			want: 0, // RxR, KxR is even material
		},
		{
			name: "recapture chain stops while winning",
			fen:  "2k5/2q5/2r5/8/2R5/2R5/8/2K5 w - - 0 1",
			move: "c4c6",
			want: 500,
		},
		{
			name: "en passant",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			move: "e5d6",
			want: 100,
		},
		{
			name: "quiet move hangs the queen",
			fen:  "4k3/4r3/8/8/8/8/4Q3/4K3 w - - 0 1",
			move: "e2e5",
			want: -900,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := movegen.FromFEN(tc.fen)
			if err != nil {
				t.Fatalf("FromFEN(%q): %v", tc.fen, err)
			}
			m := mustMove(t, pos, tc.move)
			if got := SEE(pos, m); got != tc.want {
				t.Fatalf("SEE(%s) = %d, want %d", tc.move, got, tc.want)
			}
		})
	}
}
