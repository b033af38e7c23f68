package board

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		src, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		packed := PackPosition(src)
		got, err := UnpackPosition(packed)
		if err != nil {
			t.Fatalf("UnpackPosition(%q): %v", fen, err)
		}

		if got.FEN() != fen {
			t.Errorf("round trip %q: got FEN %q", fen, got.FEN())
		}
		if !got.VerifyKey() {
			t.Errorf("round trip %q: unpacked key does not match recomputed key", fen)
		}
	}
}

func TestPackPositionSmallerThanFEN(t *testing.T) {
	b := NewGame()
	packed := PackPosition(b)
	if len(packed) >= len(StartFEN) {
		t.Errorf("packed start position (%d bytes) should be smaller than its FEN (%d bytes)",
			len(packed), len(StartFEN))
	}
}

func TestUnpackPositionRejectsTruncatedData(t *testing.T) {
	if _, err := UnpackPosition([]byte{0x00, 0x01}); err == nil {
		t.Fatalf("UnpackPosition should reject a truncated buffer")
	}
}

func TestPackPositionPreservesEnPassantSquare(t *testing.T) {
	b, err := FromFEN("rnbqkbnr/1ppppppp/8/p7/4P3/8/PPPP1PPP/RNBQKBNR w KQkq a6 0 2")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	got, err := UnpackPosition(PackPosition(b))
	if err != nil {
		t.Fatalf("UnpackPosition: %v", err)
	}
	if got.EPSquare != b.EPSquare {
		t.Errorf("EPSquare = %v, want %v", got.EPSquare, b.EPSquare)
	}
}
