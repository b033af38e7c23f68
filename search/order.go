package search

import (
	"sort"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/types"
)

// pieceValue ranks kinds for MVV-LVA; king is never a capture victim, and
// as an attacker its entry of 0 ranks king captures first among captures
// of the same victim.
var pieceValue = [7]int{types.NoKind: 0, types.Pawn: 1, types.Knight: 3,
	types.Bishop: 3, types.Rook: 5, types.Queen: 9, types.King: 0}

// orderMoves sorts moves by search priority: TT best move, then captures
// by MVV-LVA, then killer moves for this ply, then remaining quiets in
// generation order.
func orderMoves(b *board.Board, moves []types.Move, ttMove types.Move, killers [2]types.Move) []types.Move {
	scored := make([]types.Move, len(moves))
	copy(scored, moves)

	score := func(m types.Move) int {
		switch {
		case m == ttMove && !ttMove.IsNull():
			return 1_000_000
		case m.Flag().IsCapture():
			victim := b.PieceAt(m.To())
			attacker := b.PieceAt(m.From())
			victimValue := 0
			if victim != types.NoPiece {
				victimValue = pieceValue[victim.Kind()]
			}
			attackerValue := pieceValue[attacker.Kind()]
			return 100_000 + victimValue*10 - attackerValue
		case m == killers[0]:
			return 50_000
		case m == killers[1]:
			return 49_000
		default:
			return 0
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return score(scored[i]) > score(scored[j])
	})
	return scored
}
