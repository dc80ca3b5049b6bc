package engine

import "fmt"

// Score bounds. Mate scores are encoded relative to the root: a mate found
// ply half-moves into the search scores MateScore-ply, so shorter mates
// always compare higher.
const (
	Infinity  int32 = 32500
	MateScore int32 = 32000
	DrawScore int32 = 0

	// MaxPly bounds the search stack depth.
	MaxPly = 100

	// Scores beyond this threshold denote forced mates.
	mateThreshold = MateScore - 2*MaxPly
)

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return score > mateThreshold || score < -mateThreshold
}

// MateDistance returns the number of full moves to mate for a mate score,
// negative when the side to move is being mated.
func MateDistance(score int32) int {
	if score > 0 {
		return (int(MateScore-score) + 1) / 2
	}
	return -(int(MateScore+score) + 1) / 2
}

// FormatScore renders a score in UCI notation, "cp <n>" or "mate <n>".
func FormatScore(score int32) string {
	if IsMateScore(score) {
		return fmt.Sprintf("mate %d", MateDistance(score))
	}
	return fmt.Sprintf("cp %d", score)
}
