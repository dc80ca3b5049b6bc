// Package uci speaks the Universal Chess Interface on a reader/writer
// pair, translating protocol commands into engine calls.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FitzOReilly/fatalii/engine"
	"github.com/FitzOReilly/fatalii/movegen"
)

const (
	Name    = "Fatalii"
	Version = "0.1.0"
	Author  = "FitzOReilly"
)

// Server runs the UCI loop. Searches run on their own goroutine so stop and
// quit stay responsive while the engine thinks.
type Server struct {
	eng *engine.Engine
	in  *bufio.Scanner
	out io.Writer

	mu        sync.Mutex
	searching sync.WaitGroup
}

// New builds a server around a fresh engine.
func New(in io.Reader, out io.Writer) *Server {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<20)
	return &Server{eng: engine.New(), in: sc, out: out}
}

func (s *Server) send(format string, args ...any) {
	s.mu.Lock()
	fmt.Fprintf(s.out, format+"\n", args...)
	s.mu.Unlock()
}

// Run processes commands until quit or EOF.
func (s *Server) Run() error {
	for s.in.Scan() {
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "uci":
			s.identify()
		case "isready":
			s.send("readyok")
		case "ucinewgame":
			s.eng.Stop()
			s.searching.Wait()
			s.eng.NewGame()
		case "position":
			s.position(fields[1:])
		case "go":
			s.go_(fields[1:])
		case "stop":
			s.eng.Stop()
		case "setoption":
			s.setOption(fields[1:])
		case "perft":
			s.perft(fields[1:])
		case "eval":
			s.searching.Wait()
			s.send("info string static eval %s", engine.FormatScore(s.eng.Evaluate()))
		case "quit":
			s.eng.Stop()
			s.searching.Wait()
			return nil
		default:
			s.send("info string Unknown command %q", fields[0])
		}
	}
	s.eng.Stop()
	s.searching.Wait()
	return s.in.Err()
}

func (s *Server) identify() {
	s.send("id name %s %s", Name, Version)
	s.send("id author %s", Author)
	s.send("option name Hash type spin default %d min %d max %d",
		engine.DefaultHashMB, engine.MinHashMB, engine.MaxHashMB)
	s.send("option name Move Overhead type spin default %d min 0 max 5000",
		engine.DefaultMoveOverhead/time.Millisecond)
	s.send("option name UCI_Chess960 type check default false")
	s.send("option name EvalFile type string default <default>")
	s.send("uciok")
}

func (s *Server) position(args []string) {
	s.searching.Wait()
	i := 0
	switch {
	case len(args) > 0 && args[0] == "startpos":
		s.eng.SetStartPosition()
		i = 1
	case len(args) > 0 && args[0] == "fen":
		end := len(args)
		for j := 1; j < len(args); j++ {
			if args[j] == "moves" {
				end = j
				break
			}
		}
		if err := s.eng.SetPosition(strings.Join(args[1:end], " ")); err != nil {
			s.send("info string Malformed position: %v", err)
			return
		}
		i = end
	default:
		s.send("info string Malformed position command")
		return
	}

	if i < len(args) && args[i] == "moves" {
		for _, text := range args[i+1:] {
			if err := s.eng.ApplyMove(text); err != nil {
				s.send("info string Malformed position: %v", err)
				return
			}
		}
	}
}

func (s *Server) go_(args []string) {
	var lim engine.Limits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			lim.Infinite = true
		case "depth":
			lim.Depth, i = nextInt(args, i)
		case "nodes":
			var n int
			n, i = nextInt(args, i)
			lim.Nodes = uint64(n)
		case "movetime":
			lim.MoveTime, i = nextMillis(args, i)
			// "movetime 0" still asks for a move, not an endless search.
			if lim.MoveTime <= 0 {
				lim.MoveTime = time.Millisecond
			}
		case "wtime":
			lim.WTime, i = nextMillis(args, i)
		case "btime":
			lim.BTime, i = nextMillis(args, i)
		case "winc":
			lim.WInc, i = nextMillis(args, i)
		case "binc":
			lim.BInc, i = nextMillis(args, i)
		case "movestogo":
			lim.MovesToGo, i = nextInt(args, i)
		}
	}

	s.searching.Wait()
	s.searching.Add(1)
	s.eng.StartSearch(lim, s.reportInfo, func(res engine.Result) {
		defer s.searching.Done()
		if res.BestMove == movegen.NoMove {
			s.send("bestmove 0000")
			return
		}
		// Render through the position so Chess960 castling comes out in
		// king-takes-rook form.
		pos := *s.eng.Position()
		best := pos.MoveText(res.BestMove)
		if res.Ponder != movegen.NoMove {
			if _, ok := pos.Apply(res.BestMove); ok {
				s.send("bestmove %s ponder %s", best, pos.MoveText(res.Ponder))
				return
			}
		}
		s.send("bestmove %s", best)
	})
}

func (s *Server) reportInfo(info engine.Info) {
	var pv strings.Builder
	for i, m := range info.PV {
		if i > 0 {
			pv.WriteByte(' ')
		}
		pv.WriteString(m.String())
	}
	s.send("info depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		info.Depth, info.SelDepth, engine.FormatScore(info.Score),
		info.Nodes, info.NPS, info.Hashfull, info.Time.Milliseconds(), pv.String())
}

func (s *Server) setOption(args []string) {
	// setoption name <id with spaces> [value <v with spaces>]
	if len(args) == 0 || args[0] != "name" {
		s.send("info string Malformed setoption command")
		return
	}
	var nameParts, valueParts []string
	inValue := false
	for _, a := range args[1:] {
		if a == "value" && !inValue {
			inValue = true
			continue
		}
		if inValue {
			valueParts = append(valueParts, a)
		} else {
			nameParts = append(nameParts, a)
		}
	}
	name := strings.ToLower(strings.Join(nameParts, " "))
	value := strings.Join(valueParts, " ")

	s.searching.Wait()
	switch name {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			s.send("info string Malformed Hash value %q", value)
			return
		}
		s.eng.SetHashSize(mb)
	case "move overhead":
		ms, err := strconv.Atoi(value)
		if err != nil {
			s.send("info string Malformed Move Overhead value %q", value)
			return
		}
		s.eng.SetMoveOverhead(time.Duration(ms) * time.Millisecond)
	case "uci_chess960":
		s.eng.SetChess960(value == "true")
	case "evalfile":
		if err := s.eng.LoadEvalFile(value); err != nil {
			s.send("info string %v", err)
		}
	default:
		s.send("info string Unknown option %q", strings.Join(nameParts, " "))
	}
}

func (s *Server) perft(args []string) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}
	s.searching.Wait()
	pos := s.eng.Position()
	start := time.Now()
	split := movegen.PerftSplit(pos, depth)
	var total uint64
	for _, n := range split {
		total += n
	}
	for _, m := range pos.LegalMoves() {
		s.send("%s: %d", m, split[m.String()])
	}
	s.send("Nodes searched: %d in %v", total, time.Since(start).Round(time.Millisecond))
}

func nextInt(args []string, i int) (int, int) {
	if i+1 < len(args) {
		if n, err := strconv.Atoi(args[i+1]); err == nil {
			return n, i + 1
		}
	}
	return 0, i
}

func nextMillis(args []string, i int) (time.Duration, int) {
	n, j := nextInt(args, i)
	return time.Duration(n) * time.Millisecond, j
}
