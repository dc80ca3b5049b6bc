package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights holds every tunable evaluation term. The evaluator is a pure
// function of a position and a Weights value, so alternative weight sets
// (hand-tuned or produced by a tuner) can be loaded from JSON at runtime.
type Weights struct {
	MaterialMG [7]int32     `json:"material_mg"`
	MaterialEG [7]int32     `json:"material_eg"`
	PSQTMG     [7][64]int32 `json:"psqt_mg"`
	PSQTEG     [7][64]int32 `json:"psqt_eg"`

	MobilityMG [7]int32 `json:"mobility_mg"`
	MobilityEG [7]int32 `json:"mobility_eg"`

	BishopPairMG int32 `json:"bishop_pair_mg"`
	BishopPairEG int32 `json:"bishop_pair_eg"`

	// Passed pawn bonus indexed by rank from the pawn's own perspective.
	PassedPawnMG [8]int32 `json:"passed_pawn_mg"`
	PassedPawnEG [8]int32 `json:"passed_pawn_eg"`

	IsolatedPawnMG int32 `json:"isolated_pawn_mg"`
	IsolatedPawnEG int32 `json:"isolated_pawn_eg"`
	BackwardPawnMG int32 `json:"backward_pawn_mg"`
	BackwardPawnEG int32 `json:"backward_pawn_eg"`
	DoubledPawnMG  int32 `json:"doubled_pawn_mg"`
	DoubledPawnEG  int32 `json:"doubled_pawn_eg"`

	Tempo int32 `json:"tempo"`
}

// LoadWeights reads a JSON weight file.
func LoadWeights(path string) (*Weights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	w := new(Weights)
	if err := json.Unmarshal(raw, w); err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}
	return w, nil
}

// SaveWeights writes the weight set as indented JSON, replacing the target
// atomically.
func SaveWeights(path string, w *Weights) error {
	raw, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Piece-square tables below are written visually, eighth rank first, and
// remapped to a1=0 ordering in DefaultWeights.
var pawnMG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	30, 30, 30, 30, 30, 30, 30, 30,
	15, 15, 15, 15, 15, 15, 15, 15,
	5, 5, 5, 5, 5, 5, 5, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightMG = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopMG = [64]int32{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookMG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenMG = [64]int32{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMG = [64]int32{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEG = [64]int32{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// fromVisual converts a table written eighth rank first into a1=0 ordering.
func fromVisual(t [64]int32) (out [64]int32) {
	for sq := 0; sq < 64; sq++ {
		out[sq] = t[sq^56]
	}
	return out
}

// DefaultWeights returns the built-in hand-tuned weight set.
func DefaultWeights() *Weights {
	w := &Weights{
		MaterialMG:     [7]int32{0, 100, 320, 330, 500, 950, 0},
		MaterialEG:     [7]int32{0, 120, 300, 320, 550, 980, 0},
		MobilityMG:     [7]int32{0, 0, 4, 4, 2, 1, 0},
		MobilityEG:     [7]int32{0, 0, 3, 3, 4, 2, 0},
		BishopPairMG:   25,
		BishopPairEG:   45,
		PassedPawnMG:   [8]int32{0, 5, 10, 15, 25, 45, 80, 0},
		PassedPawnEG:   [8]int32{0, 10, 20, 30, 50, 90, 140, 0},
		IsolatedPawnMG: -12,
		IsolatedPawnEG: -8,
		BackwardPawnMG: -8,
		BackwardPawnEG: -12,
		DoubledPawnMG:  -10,
		DoubledPawnEG:  -18,
		Tempo:          12,
	}
	w.PSQTMG[1] = fromVisual(pawnMG)
	w.PSQTMG[2] = fromVisual(knightMG)
	w.PSQTMG[3] = fromVisual(bishopMG)
	w.PSQTMG[4] = fromVisual(rookMG)
	w.PSQTMG[5] = fromVisual(queenMG)
	w.PSQTMG[6] = fromVisual(kingMG)

	w.PSQTEG[1] = fromVisual(pawnEG)
	w.PSQTEG[2] = fromVisual(knightMG)
	w.PSQTEG[3] = fromVisual(bishopMG)
	w.PSQTEG[4] = fromVisual(rookMG)
	w.PSQTEG[5] = fromVisual(queenMG)
	w.PSQTEG[6] = fromVisual(kingEG)
	return w
}
