package board

import "testing"

func TestFromFENStartPosition(t *testing.T) {
	b, err := FromFEN(StartFEN)
	if err != nil {
		t.Fatalf("FromFEN(start) returned error: %v", err)
	}
	if b.FEN() != StartFEN {
		t.Fatalf("FEN() = %q, want %q", b.FEN(), StartFEN)
	}
	if !b.VerifyKey() {
		t.Fatalf("incremental key does not match recomputed key for start position")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
	}
	for _, fen := range fens {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q) returned error: %v", fen, err)
		}
		if got := b.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
		if !b.VerifyKey() {
			t.Errorf("VerifyKey() = false for %q", fen)
		}
	}
}

func TestFromFENRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a fen string",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0", // 5 fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",        // 7 ranks
		"8/8/8/8/8/8/8/8 w KQkq - 0 1",                            // no kings
		"k7/8/8/8/8/8/8/K7 x KQkq - 0 1",                          // bad side to move
		"k7/8/8/8/8/8/8/K7 w ZZ - 0 1",                             // bad castling
		"k7/8/8/8/8/8/8/K7 w - z9 0 1",                             // bad en-passant square
		"k6P/8/8/8/8/8/8/K6p w - - 0 1",                           // pawn on rank 8/1
	}
	for _, fen := range cases {
		if _, err := FromFEN(fen); err == nil {
			t.Errorf("FromFEN(%q) should have returned an error", fen)
		}
	}
}

func TestNewGameMatchesStartFEN(t *testing.T) {
	b := NewGame()
	if b.FEN() != StartFEN {
		t.Fatalf("NewGame().FEN() = %q, want %q", b.FEN(), StartFEN)
	}
	if b.SideToMove != 0 {
		t.Fatalf("expected White to move at game start")
	}
}
