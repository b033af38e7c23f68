// Package eval implements the PeSTO tapered evaluator: a midgame and an
// endgame piece-square score, blended by a phase derived from remaining
// non-pawn material.
package eval

import (
	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/types"
)

var kindIndex = [7]int{types.NoKind: 0, types.Pawn: pawn, types.Knight: knight,
	types.Bishop: bishop, types.Rook: rook, types.Queen: queen, types.King: king}

// Evaluate scores b from the side to move's perspective (negamax
// convention): positive means the side to move is better.
func Evaluate(b *board.Board) int {
	var mg, eg, phase int

	for p := types.WPawn; p <= types.BKing; p++ {
		bb := b.Piece(p)
		kind := p.Kind()
		idx := kindIndex[kind]
		phase += bb.PopCount() * phaseWeight[idx]

		for bb != 0 {
			sq := types.Square(bb.PopLSB())
			// The published PeSTO tables are laid out a8..h1 (Black's home
			// rank first), so they index Black squares directly; White
			// squares must be flipped before indexing.
			pst := sq
			sign := 1
			if p.Color() == types.White {
				pst = sq.Flip()
			} else {
				sign = -1
			}
			mg += sign * (mgValue[idx] + mgTables[idx][pst])
			eg += sign * (egValue[idx] + egTables[idx][pst])
		}
	}

	if phase > totalPhase {
		phase = totalPhase
	}

	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase
	if b.SideToMove == types.Black {
		score = -score
	}
	return score
}
