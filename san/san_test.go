package san

import (
	"testing"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/types"
)

func TestMoveDisambiguatesByFile(t *testing.T) {
	b, err := board.FromFEN("k7/8/8/8/8/2N5/8/4K1N1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m := types.NewMove(types.SquareFromString("c3"), types.SquareFromString("e2"), types.Quiet)
	if got, want := Move(b, m), "Nce2"; got != want {
		t.Errorf("Move() = %q, want %q", got, want)
	}
}

func TestMoveOmitsDisambiguationWhenUnambiguous(t *testing.T) {
	b, err := board.FromFEN("k7/8/8/8/1b6/2N5/8/4K1N1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	// The knight on g1 is the only piece that can legally reach e2 here
	// (c3's knight is pinned along the b4-e1 diagonal by the bishop).
	m := types.NewMove(types.SquareFromString("g1"), types.SquareFromString("e2"), types.Quiet)
	if got, want := Move(b, m), "Ne2"; got != want {
		t.Errorf("Move() = %q, want %q", got, want)
	}
}

func TestMoveCaptureAndCheckmate(t *testing.T) {
	b, err := board.FromFEN("2k5/Qr6/Q7/8/8/8/8/3R3K w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m := types.NewMove(types.SquareFromString("a6"), types.SquareFromString("b7"), types.Capture)
	if got, want := Move(b, m), "Q6xb7#"; got != want {
		t.Errorf("Move() = %q, want %q", got, want)
	}
}

func TestMovePawnCapturePromotion(t *testing.T) {
	b, err := board.FromFEN("4b3/3P1P2/8/8/8/8/8/4K2k w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m := types.NewMove(types.SquareFromString("d7"), types.SquareFromString("e8"),
		types.PromoFlagFor(types.Queen, true))
	if got, want := Move(b, m), "dxe8=Q"; got != want {
		t.Errorf("Move() = %q, want %q", got, want)
	}
}

func TestMoveCastling(t *testing.T) {
	b, err := board.FromFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m := types.NewMove(types.SquareFromString("e1"), types.SquareFromString("g1"), types.KingCastle)
	if got, want := Move(b, m), "O-O"; got != want {
		t.Errorf("Move() = %q, want %q", got, want)
	}
}

func TestLineRendersSpaceSeparatedMoves(t *testing.T) {
	b := board.NewGame()
	pv := []types.Move{
		types.NewMove(types.SquareFromString("e2"), types.SquareFromString("e4"), types.DoublePawnPush),
		types.NewMove(types.SquareFromString("e7"), types.SquareFromString("e5"), types.DoublePawnPush),
	}
	if got, want := Line(b, pv), "e4 e5"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}
