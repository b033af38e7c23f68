package movegen_test

import (
	"os"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/types"
)

// perft walks the legal-move tree and counts leaf positions, checked
// against published reference node counts.
func perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var list types.MoveList
	movegen.Legal(b, &list)
	if depth == 1 {
		return uint64(list.Count)
	}
	var nodes uint64
	for _, m := range list.Slice() {
		if !b.Make(m) {
			continue
		}
		nodes += perft(b, depth-1)
		b.Unmake()
	}
	return nodes
}

// TestPerftInitialPosition checks the published initial-position perft
// counts.
func TestPerftInitialPosition(t *testing.T) {
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, c := range cases {
		b := board.NewGame()
		got := perft(b, c.depth)
		require.Equalf(t, c.want, got, "perft(startpos, %d)", c.depth)
	}
}

// TestPerftInitialPositionDeep runs the depth-5 initial-position count
// separately since it is by far the most expensive of the mandatory cases.
func TestPerftInitialPositionDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth-5 perft in -short mode")
	}
	b := board.NewGame()
	require.Equal(t, uint64(4865609), perft(b, 5))
}

// perftCase is one entry of testdata/perft.yaml.
type perftCase struct {
	Name   string        `yaml:"name"`
	FEN    string        `yaml:"fen"`
	Depths map[int]uint64 `yaml:"depths"`
}

// TestPerftFromFixture runs the shallow-depth perft table in
// testdata/perft.yaml, a data-driven cross-check alongside the hardcoded
// depth-4/depth-5 cases below.
func TestPerftFromFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/perft.yaml")
	require.NoError(t, err)

	var cases []perftCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			b, err := board.FromFEN(c.FEN)
			require.NoError(t, err)
			for depth := 1; depth <= len(c.Depths); depth++ {
				want, ok := c.Depths[depth]
				require.Truef(t, ok, "fixture %q missing depth %d", c.Name, depth)
				require.Equalf(t, want, perft(b, depth), "%s perft(%d)", c.Name, depth)
			}
		})
	}
}

// TestPerftKiwipete checks the "Kiwipete" stress position, which exercises
// castling, en passant and promotions together.
func TestPerftKiwipete(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b, err := board.FromFEN(fen)
	require.NoError(t, err)
	require.Equal(t, uint64(4085603), perft(b, 4))
}

// TestPerftPosition3 checks a rook-and-pawns endgame stress position,
// which exercises en-passant discovered checks.
func TestPerftPosition3(t *testing.T) {
	const fen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	b, err := board.FromFEN(fen)
	require.NoError(t, err)
	require.Equal(t, uint64(674624), perft(b, 5))
}

// TestCastlingRequiresEmptySquares checks that castling is withheld when a
// piece occupies one of the squares between king and rook.
func TestCastlingRequiresEmptySquares(t *testing.T) {
	b, err := board.FromFEN("r3k2r/8/8/8/8/8/8/R2NK2R w KQkq - 0 1")
	require.NoError(t, err)

	var list types.MoveList
	movegen.Legal(b, &list)
	for _, m := range list.Slice() {
		require.NotEqual(t, types.QueenCastle, m.Flag(), "queenside castle should be blocked by the knight on d1")
	}
}

// TestCastlingRequiresSafeTransit checks that castling through an attacked
// square is rejected.
func TestCastlingRequiresSafeTransit(t *testing.T) {
	// Without a black rook, kingside castling is available; the second
	// position adds a black rook on f8 that attacks f1, the white king's
	// transit square.
	b, err := board.FromFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)
	var withRook types.MoveList
	movegen.Legal(b, &withRook)
	sawCastle := false
	for _, m := range withRook.Slice() {
		if m.Flag() == types.KingCastle {
			sawCastle = true
		}
	}
	require.True(t, sawCastle, "kingside castle should be legal with nothing attacking the transit squares")

	b2, err := board.FromFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)
	var blocked types.MoveList
	movegen.Legal(b2, &blocked)
	for _, m := range blocked.Slice() {
		require.NotEqual(t, types.KingCastle, m.Flag(), "castling through an attacked square must be rejected")
	}
}

// TestEnPassantCaptureLegality: from startpos moves e2e4 a7a6 e4e5 d7d5,
// e5d6 must be a legal en-passant capture.
func TestEnPassantCaptureLegality(t *testing.T) {
	b := board.NewGame()
	for _, uci := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		applyUCI(t, b, uci)
	}
	require.Equal(t, types.SquareFromString("d6"), b.EPSquare)

	var list types.MoveList
	movegen.Legal(b, &list)
	found := false
	for _, m := range list.Slice() {
		if m.UCI() == "e5d6" {
			found = true
			require.Equal(t, types.EnPassant, m.Flag())
		}
	}
	require.True(t, found, "e5d6 should be a legal en-passant capture")
}

// TestLegalMatchesPseudoFilteredManually checks that movegen.Legal agrees,
// move for move, with independently filtering movegen.Pseudo's output by
// hand through Make/Unmake, run on the Kiwipete position, which
// exercises castling, en passant and promotions together.
func TestLegalMatchesPseudoFilteredManually(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b, err := board.FromFEN(fen)
	require.NoError(t, err)

	var got types.MoveList
	movegen.Legal(b, &got)

	var pseudo types.MoveList
	movegen.Pseudo(b, &pseudo)
	var want []string
	for _, m := range pseudo.Slice() {
		if b.Make(m) {
			b.Unmake()
			want = append(want, m.UCI())
		}
	}

	gotUCI := make([]string, 0, got.Count)
	for _, m := range got.Slice() {
		gotUCI = append(gotUCI, m.UCI())
	}

	sort.Strings(want)
	sort.Strings(gotUCI)
	require.Empty(t, cmp.Diff(want, gotUCI), "Legal() moves should match a manual pseudo+filter pass")
}

func applyUCI(t *testing.T, b *board.Board, uci string) {
	t.Helper()
	var list types.MoveList
	movegen.Legal(b, &list)
	for _, m := range list.Slice() {
		if m.UCI() == uci {
			require.True(t, b.Make(m), "Make(%s) unexpectedly rejected", uci)
			return
		}
	}
	t.Fatalf("no legal move matches %q", uci)
}
