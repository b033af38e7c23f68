package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/eval"
)

// TestStartposIsBalanced checks that the symmetric initial position scores
// to zero regardless of whose move it is.
func TestStartposIsBalanced(t *testing.T) {
	b := board.NewGame()
	require.Zero(t, eval.Evaluate(b))
}

// TestPeSTOSymmetry checks that mirroring a position vertically and
// swapping every piece's color negates the evaluation, holding
// side-to-move fixed so the negamax sign flip isn't also in play.
func TestPeSTOSymmetry(t *testing.T) {
	const fen = "r3k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	const mirrored = "4k3/4p3/8/8/8/8/8/R3K3 w - - 0 1"

	b, err := board.FromFEN(fen)
	require.NoError(t, err)
	m, err := board.FromFEN(mirrored)
	require.NoError(t, err)

	require.Equal(t, eval.Evaluate(b), -eval.Evaluate(m))
}

// TestMaterialAdvantageIsPositive checks that being up a queen scores
// positively for the side to move.
func TestMaterialAdvantageIsPositive(t *testing.T) {
	b, err := board.FromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	require.Positive(t, eval.Evaluate(b))
}

// TestEvaluateNegatesForBlackToMove checks the negamax sign convention: the
// same material imbalance scores oppositely depending on who is to move.
func TestEvaluateNegatesForBlackToMove(t *testing.T) {
	white, err := board.FromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	black, err := board.FromFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	require.NoError(t, err)

	require.Equal(t, eval.Evaluate(white), -eval.Evaluate(black))
}
