// Command bench runs perft node counts against the move generator, with
// optional CPU profiling and a divide mode for bisecting mismatches
// against a reference engine.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/types"
	"github.com/fatih/color"
	"github.com/pkg/profile"
)

func main() {
	depth := flag.Int("depth", 5, "perft depth")
	fen := flag.String("fen", board.StartFEN, "position to benchmark, as FEN")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to ./cpu.pprof")
	divide := flag.Bool("divide", false, "print per-root-move node counts")
	suite := flag.Bool("suite", false, "run the bundled fixture suite, stored Huffman-packed, instead of -fen")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if *suite {
		runSuite(*depth)
		return
	}

	b, err := board.FromFEN(*fen)
	if err != nil {
		color.Red("invalid FEN: %v", err)
		return
	}

	start := time.Now()
	var nodes int
	if *divide {
		nodes = perftDivide(b, *depth)
	} else {
		nodes = perft(b, *depth)
	}
	elapsed := time.Since(start)

	color.Green("depth %d: %d nodes in %s (%.0f nodes/sec)",
		*depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}

// fixtureFENs are the canonical perft stress positions, kept Huffman-packed
// (board.PackPosition) rather than as FEN strings so the suite format
// matches what a real fixture file on disk would store: runSuite packs
// each position once, simulating the compact on-disk form, then unpacks it
// the same way a saved fixture would be read back before perft runs.
var fixtureFENs = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

// runSuite packs each fixture position, unpacks it back, and perfts it,
// exercising board.PackPosition/UnpackPosition the way a saved fixture
// file would be read, instead of re-parsing FEN on every run.
func runSuite(depth int) {
	for _, fen := range fixtureFENs {
		src, err := board.FromFEN(fen)
		if err != nil {
			color.Red("invalid fixture FEN: %v", err)
			return
		}
		packed := board.PackPosition(src)

		b, err := board.UnpackPosition(packed)
		if err != nil {
			color.Red("unpacking fixture: %v", err)
			return
		}

		start := time.Now()
		nodes := perft(b, depth)
		elapsed := time.Since(start)
		color.Green("%s: depth %d: %d nodes in %s (%d packed bytes vs %d FEN bytes)",
			fen, depth, nodes, elapsed, len(packed), len(fen))
	}
}

// perft walks the legal-move tree to depth, counting leaf positions
// (https://www.chessprogramming.org/Perft_Results).
func perft(b *board.Board, depth int) int {
	if depth == 0 {
		return 1
	}

	var list types.MoveList
	movegen.Legal(b, &list)

	if depth == 1 {
		return list.Count
	}

	nodes := 0
	for _, m := range list.Slice() {
		b.Make(m)
		nodes += perft(b, depth-1)
		b.Unmake()
	}
	return nodes
}

// perftDivide prints the node count contributed by each root move, the
// standard way to bisect a perft mismatch against a reference engine.
func perftDivide(b *board.Board, depth int) int {
	var list types.MoveList
	movegen.Legal(b, &list)

	total := 0
	for _, m := range list.Slice() {
		b.Make(m)
		n := perft(b, depth-1)
		b.Unmake()
		fmt.Printf("%s: %d\n", m.UCI(), n)
		total += n
	}
	return total
}
