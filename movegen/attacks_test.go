package movegen

import (
	"math/rand"
	"testing"
)

// TestSliderTablesMatchRayWalk compares the precomputed subset tables
// against the direct ray walker on random occupancies.
func TestSliderTablesMatchRayWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		occ := rng.Uint64() & rng.Uint64()
		sq := Square(rng.Intn(64))
		if got, want := RookAttacks(sq, occ), slidingAttacks(int(sq), occ, rookDirs); got != want {
			t.Fatalf("rook on %s occ %#x: table %#x, ray walk %#x", sq, occ, got, want)
		}
		if got, want := BishopAttacks(sq, occ), slidingAttacks(int(sq), occ, bishopDirs); got != want {
			t.Fatalf("bishop on %s occ %#x: table %#x, ray walk %#x", sq, occ, got, want)
		}
	}
}

func TestBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want []string
	}{
		{"a1", "a4", []string{"a2", "a3"}},
		{"a1", "h8", []string{"b2", "c3", "d4", "e5", "f6", "g7"}},
		{"e4", "e5", nil},
		{"a1", "b3", nil}, // not aligned
	}
	for _, tc := range cases {
		a, _ := parseSquare(tc.a)
		b, _ := parseSquare(tc.b)
		var want uint64
		for _, s := range tc.want {
			sq, _ := parseSquare(s)
			want |= squareBB(sq)
		}
		if got := Between(a, b); got != want {
			t.Errorf("Between(%s, %s) = %#x, want %#x", tc.a, tc.b, got, want)
		}
		if got := Between(b, a); got != want {
			t.Errorf("Between(%s, %s) = %#x, want %#x", tc.b, tc.a, got, want)
		}
	}
}

func TestAttacked(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/8/2n5/8/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	cases := []struct {
		sq   string
		by   Side
		want bool
	}{
		{"a8", White, true},  // rook file
		{"d1", White, true},  // rook rank and king
		{"b1", Black, true},  // knight on c3
		{"e4", Black, true},  // knight on c3 and king? e4: knight c3 attacks e4
		{"h8", White, false},
		{"e2", Black, true}, // knight c3 covers e2
	}
	for _, tc := range cases {
		sq, _ := parseSquare(tc.sq)
		if got := pos.Attacked(sq, tc.by); got != tc.want {
			t.Errorf("Attacked(%s, by %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}
}
