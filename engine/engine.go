// Package engine implements search and evaluation on top of the movegen
// position model: a tapered evaluation with JSON-loadable weights, a
// transposition table and an iterative deepening alpha-beta search with
// principal variation search and the usual pruning heuristics.
package engine

import (
	"fmt"
	"time"

	"github.com/FitzOReilly/fatalii/movegen"
)

// DefaultMoveOverhead covers transport latency between the engine and its
// operator so the clock is never overstepped.
const DefaultMoveOverhead = 10 * time.Millisecond

// Engine owns a game: the current position, the move history used for
// repetition detection, the transposition table and the searcher. It is not
// safe for concurrent use except for Stop, which may be called from another
// goroutine while Search runs.
type Engine struct {
	pos      *movegen.Position
	tt       *TranspositionTable
	weights  *Weights
	hist     gameHistory
	searcher Searcher
	chess960 bool
}

// New returns an engine set up on the starting position with default
// weights and a default-sized transposition table.
func New() *Engine {
	e := &Engine{
		tt:      NewTranspositionTable(DefaultHashMB),
		weights: DefaultWeights(),
	}
	e.searcher.moveOverhead = DefaultMoveOverhead
	e.setPosition(movegen.StartPosition())
	return e
}

func (e *Engine) setPosition(p *movegen.Position) {
	p.SetChess960(p.Chess960() || e.chess960)
	e.pos = p
	e.hist.reset()
	e.hist.push(p)
	e.hist.markRoot()
}

// NewGame clears all state carried between searches of the same game.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.searcher.history = [2][7][64]int32{}
	e.searcher.counters = [2][64][64]movegen.Move{}
	e.setPosition(movegen.StartPosition())
}

// Position returns the current position.
func (e *Engine) Position() *movegen.Position { return e.pos }

// SetStartPosition resets the board to the standard starting position
// without touching the table or heuristics.
func (e *Engine) SetStartPosition() {
	e.setPosition(movegen.StartPosition())
}

// SetPosition loads a FEN (or Shredder-FEN) position.
func (e *Engine) SetPosition(fen string) error {
	p, err := movegen.FromFEN(fen)
	if err != nil {
		return err
	}
	e.setPosition(p)
	return nil
}

// ApplyMove plays a move given in coordinate notation on the current
// position and records it for repetition detection.
func (e *Engine) ApplyMove(text string) error {
	m, err := e.pos.ParseMove(text)
	if err != nil {
		return err
	}
	if _, ok := e.pos.Apply(m); !ok {
		return fmt.Errorf("illegal move %q", text)
	}
	e.hist.push(e.pos)
	e.hist.markRoot()
	return nil
}

// Search runs a blocking search under the given limits, invoking progress
// after each completed depth. It always returns a legal move when one
// exists, even with a zero time budget.
func (e *Engine) Search(lim Limits, progress func(Info)) Result {
	e.searcher.stop.Store(false)
	return e.search(lim, progress)
}

// StartSearch runs Search on a new goroutine, delivering the result to
// done. The stop flag is cleared before the goroutine is spawned, so a
// Stop issued any time after StartSearch returns cancels the search even
// when it arrives before the search loop gets scheduled.
func (e *Engine) StartSearch(lim Limits, progress func(Info), done func(Result)) {
	e.searcher.stop.Store(false)
	go func() { done(e.search(lim, progress)) }()
}

func (e *Engine) search(lim Limits, progress func(Info)) Result {
	s := &e.searcher
	s.pos = e.pos
	s.tt = e.tt
	s.weights = e.weights
	s.hist = &e.hist
	s.progress = progress
	return s.run(lim)
}

// Stop cancels a running search. The search still returns the best result
// found so far.
func (e *Engine) Stop() {
	e.searcher.stop.Store(true)
}

// SetHashSize resizes the transposition table to roughly mb mebibytes.
// Out-of-range sizes are clamped rather than rejected.
func (e *Engine) SetHashSize(mb int) {
	e.tt.Resize(mb)
}

// SetMoveOverhead adjusts the per-move latency reserve.
func (e *Engine) SetMoveOverhead(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.searcher.moveOverhead = d
}

// SetChess960 switches castling move notation between standard and
// king-takes-rook form.
func (e *Engine) SetChess960(on bool) {
	e.chess960 = on
	e.pos.SetChess960(on)
}

// LoadEvalFile replaces the evaluation weights with a set loaded from a
// JSON file. The current weights stay in place on error.
func (e *Engine) LoadEvalFile(path string) error {
	w, err := LoadWeights(path)
	if err != nil {
		return err
	}
	e.weights = w
	return nil
}

// Evaluate scores the current position from the side to move's view.
func (e *Engine) Evaluate() int32 {
	return Evaluate(e.pos, e.weights)
}

// IsDraw reports whether the current position is drawn by repetition, the
// fifty-move rule or insufficient material.
func (e *Engine) IsDraw() bool {
	return e.hist.isDraw(e.pos)
}
