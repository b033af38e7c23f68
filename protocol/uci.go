// Package protocol implements the UCI text protocol loop that drives an
// engine.Handle from stdin/stdout: uci/isready/ucinewgame/position/go/
// stop/quit, per-iteration info lines, and the final bestmove.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/engine"
	"github.com/arjunp/knightfall/san"
	"github.com/arjunp/knightfall/search"
	"github.com/arjunp/knightfall/types"
)

const (
	engineName   = "Knightfall"
	engineAuthor = "arjunp"
)

// Options configures UCIWithOptions. The zero value matches UCI's behavior.
type Options struct {
	// SAN additionally prints each completed iteration's principal
	// variation in Standard Algebraic Notation as an "info string" line,
	// a human-readable debug aid that plays no part in the protocol
	// itself (GUIs ignore unrecognized info subtypes).
	SAN bool
}

// UCI runs the protocol loop, reading commands from in and writing
// responses to out, until "quit" or EOF.
func UCI(h *engine.Handle, in io.Reader, out io.Writer) {
	UCIWithOptions(h, in, out, Options{})
}

// UCIWithOptions is UCI with debug-output knobs; cmd/knightfall's -san flag
// drives the SAN option.
//
// "go" runs the search on its own goroutine so "stop" can interrupt it
// mid-iteration through the engine's cooperative stop flag; every other
// command waits for an in-flight search to finish first, so the board is
// never mutated under a running search and output lines never interleave.
func UCIWithOptions(h *engine.Handle, in io.Reader, out io.Writer, opts Options) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var searching sync.WaitGroup

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "uci":
			searching.Wait()
			fmt.Fprintf(out, "id name %s\n", engineName)
			fmt.Fprintf(out, "id author %s\n", engineAuthor)
			fmt.Fprintln(out, "uciok")
		case "isready":
			searching.Wait()
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			searching.Wait()
			h.NewGame()
		case "position":
			searching.Wait()
			handlePosition(h, args, out)
		case "go":
			searching.Wait()
			searching.Add(1)
			go func(goArgs []string) {
				defer searching.Done()
				handleGo(h, goArgs, out, opts)
			}(args)
		case "stop":
			h.Stop()
		case "quit":
			// Let an in-flight search finish and emit its bestmove; a host
			// that wants to abandon the search sends "stop" first.
			searching.Wait()
			return
		}
	}

	// EOF: nobody is left to send "stop", so abandon any running search.
	h.Stop()
	searching.Wait()
}

func handlePosition(h *engine.Handle, args []string, out io.Writer) {
	if len(args) == 0 {
		return
	}

	i := 0
	switch args[0] {
	case "startpos":
		h.NewGame()
		i = 1
	case "fen":
		end := 1
		for end < len(args) && args[end] != "moves" {
			end++
		}
		fen := strings.Join(args[1:end], " ")
		if !h.SetPositionFEN(fen) {
			fmt.Fprintf(out, "info string invalid fen %q\n", fen)
			return
		}
		i = end
	default:
		return
	}

	if i < len(args) && args[i] == "moves" {
		for _, uci := range args[i+1:] {
			if !h.ApplyMove(uci) {
				return
			}
		}
	}
}

func handleGo(h *engine.Handle, args []string, out io.Writer, opts Options) {
	depth := 0
	var movetime time.Duration
	infinite := false
	var wtime, btime, winc, binc time.Duration
	movesToGo := 0
	haveClock := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				i++
				depth, _ = strconv.Atoi(args[i])
			}
		case "movetime":
			if i+1 < len(args) {
				i++
				ms, _ := strconv.Atoi(args[i])
				movetime = time.Duration(ms) * time.Millisecond
			}
		case "wtime":
			if i+1 < len(args) {
				i++
				ms, _ := strconv.Atoi(args[i])
				wtime = time.Duration(ms) * time.Millisecond
				haveClock = true
			}
		case "btime":
			if i+1 < len(args) {
				i++
				ms, _ := strconv.Atoi(args[i])
				btime = time.Duration(ms) * time.Millisecond
				haveClock = true
			}
		case "winc":
			if i+1 < len(args) {
				i++
				ms, _ := strconv.Atoi(args[i])
				winc = time.Duration(ms) * time.Millisecond
			}
		case "binc":
			if i+1 < len(args) {
				i++
				ms, _ := strconv.Atoi(args[i])
				binc = time.Duration(ms) * time.Millisecond
			}
		case "movestogo":
			if i+1 < len(args) {
				i++
				movesToGo, _ = strconv.Atoi(args[i])
			}
		case "infinite":
			infinite = true
		}
	}

	limits := search.Limits{Depth: depth, MoveTime: movetime, Infinite: infinite}
	if limits.MoveTime == 0 && !infinite && haveClock {
		remaining, increment := wtime, winc
		if h.SideToMove() == types.Black {
			remaining, increment = btime, binc
		}
		limits.MoveTime = search.Allocate(search.TimeControl{
			Remaining:    remaining,
			Increment:    increment,
			MovesToGo:    movesToGo,
			HasMovesToGo: movesToGo > 0,
		})
	}
	if limits.Depth == 0 && limits.MoveTime == 0 && !infinite {
		limits.Depth = 6
	}

	onInfo := func(info search.Info) {
		fmt.Fprintf(out, "info depth %d %s nodes %d time %d pv %s\n",
			info.Depth, scoreToken(info), info.Nodes, info.Elapsed.Milliseconds(), pvString(info.PV))
		if opts.SAN {
			if b, err := board.FromFEN(h.GetFEN()); err == nil {
				fmt.Fprintf(out, "info string san %s\n", san.Line(b, info.PV))
			}
		}
	}

	outcome := h.SearchWithInfo(limits, onInfo)
	fmt.Fprintf(out, "bestmove %s\n", outcome.BestMove)
}

func scoreToken(info search.Info) string {
	if info.IsMate {
		return fmt.Sprintf("score mate %d", info.MateIn)
	}
	return fmt.Sprintf("score cp %d", info.Score)
}

func pvString(pv []types.Move) string {
	var b strings.Builder
	for i, m := range pv {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.UCI())
	}
	return b.String()
}
