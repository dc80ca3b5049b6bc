package movegen

// Perft counts the leaf nodes reachable from the position in exactly depth
// half-moves. A per-depth buffer pool keeps the walk allocation-free after
// the first visit of each depth.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	return perft(p, depth, bufs)
}

func perft(p *Position, depth int, bufs [][]Move) uint64 {
	if bufs[depth] == nil {
		bufs[depth] = make([]Move, 0, 256)
	}
	moves := p.LegalMovesInto(bufs[depth][:0])
	bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u, ok := p.Apply(m)
		if !ok {
			continue
		}
		nodes += perft(p, depth-1, bufs)
		p.Revert(m, u)
	}
	return nodes
}

// PerftSplit returns the per-root-move leaf counts at the given depth,
// useful for pinpointing generator disagreements.
func PerftSplit(p *Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range p.LegalMoves() {
		u, ok := p.Apply(m)
		if !ok {
			continue
		}
		out[m.String()] = Perft(p, depth-1)
		p.Revert(m, u)
	}
	return out
}
