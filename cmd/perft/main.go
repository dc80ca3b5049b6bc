// Command perft counts leaf nodes of the move generator for a position,
// optionally split by root move.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/FitzOReilly/fatalii/movegen"
)

func main() {
	fen := flag.String("fen", movegen.StartFEN, "position to count from")
	depth := flag.Int("depth", 5, "perft depth")
	split := flag.Bool("split", false, "print per-root-move counts")
	flag.Parse()

	pos, err := movegen.FromFEN(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	start := time.Now()
	var total uint64
	if *split {
		counts := movegen.PerftSplit(pos, *depth)
		moves := make([]string, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, counts[m])
			total += counts[m]
		}
	} else {
		total = movegen.Perft(pos, *depth)
	}
	elapsed := time.Since(start)

	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %d in %v (%.0f nodes/s)\n", *depth, total, elapsed.Round(time.Millisecond), nps)
}
