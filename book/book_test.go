// Every fixture below is keyed with this package's own Key, which shares
// the Polyglot layout and conventions but not the published Random64
// constants; see the package comment in polyglot.go.
package book_test

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/book"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/types"
)

// boardView adapts board.Board to the position interface book.Key expects,
// mirroring engine.boardView since both packages deliberately avoid
// depending on each other.
type boardView struct{ b *board.Board }

func (v boardView) SideToMove() types.Color             { return v.b.SideToMove }
func (v boardView) CastlingRights() types.CastlingRights { return v.b.Castling }
func (v boardView) EnPassantSquare() types.Square        { return v.b.EPSquare }
func (v boardView) PieceBitboard(p types.Piece) uint64   { return uint64(v.b.Piece(p)) }
func (v boardView) PawnBitboard(c types.Color) uint64 {
	return uint64(v.b.Piece(types.NewPiece(c, types.Pawn)))
}

func encodeRecord(key uint64, move, weight uint16, learn uint32) []byte {
	rec := make([]byte, 16)
	binary.BigEndian.PutUint64(rec[0:8], key)
	binary.BigEndian.PutUint16(rec[8:10], move)
	binary.BigEndian.PutUint16(rec[10:12], weight)
	binary.BigEndian.PutUint32(rec[12:16], learn)
	return rec
}

func TestLoadRejectsMisalignedImage(t *testing.T) {
	_, err := book.Load(make([]byte, 17))
	require.Error(t, err)
}

func TestProbeFindsAllMatchingEntries(t *testing.T) {
	var data []byte
	data = append(data, encodeRecord(10, 0, 1, 0)...)
	data = append(data, encodeRecord(20, 1, 1, 0)...)
	data = append(data, encodeRecord(20, 2, 1, 0)...)
	data = append(data, encodeRecord(30, 3, 1, 0)...)

	b, err := book.Load(data)
	require.NoError(t, err)

	matches := b.Probe(20)
	require.Len(t, matches, 2)

	require.Empty(t, b.Probe(99))
}

func TestPickIsWeightProportional(t *testing.T) {
	matches := []book.Entry{
		{Key: 1, Move: 1, Weight: 0},
		{Key: 1, Move: 2, Weight: 100},
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		e, ok := book.Pick(matches, rng)
		require.True(t, ok)
		require.Equal(t, uint16(2), e.Move, "the only nonzero-weight entry should always be chosen")
	}
}

func TestPickFallsBackToFirstOnZeroWeight(t *testing.T) {
	matches := []book.Entry{{Key: 1, Move: 5, Weight: 0}, {Key: 1, Move: 6, Weight: 0}}
	e, ok := book.Pick(matches, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	require.Equal(t, uint16(5), e.Move)
}

// TestKeyChangesWithEnPassantCapturability checks the Polyglot rule that
// the en-passant term is included only when a capture is actually legal.
func TestKeyChangesWithEnPassantCapturability(t *testing.T) {
	// Black pawn just double-pushed to d5; white has a pawn on e5 that can
	// capture en passant, so the ep term must be included.
	capturable, err := board.FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)
	capturableNoEP, err := board.FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.NotEqual(t, book.Key(boardView{capturable}), book.Key(boardView{capturableNoEP}))

	// Same ep-square bookkeeping but no white pawn adjacent to capture it,
	// so the ep square must not change the key.
	notCapturable, err := board.FromFEN("4k3/8/8/3p4/8/8/4P3/4K3 w - d6 0 1")
	require.NoError(t, err)
	notCapturableNoEP, err := board.FromFEN("4k3/8/8/3p4/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	require.Equal(t, book.Key(boardView{notCapturableNoEP}), book.Key(boardView{notCapturable}))
}

// TestLookupResolvesCastlingEncoding checks that a Polyglot castling
// encoding (king-captures-own-rook) decodes to the engine's real castling
// move and is returned when it is legal.
func TestLookupResolvesCastlingEncoding(t *testing.T) {
	b, err := board.FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var legal types.MoveList
	movegen.Legal(b, &legal)

	key := book.Key(boardView{b})
	// Encode e1h1 (white kingside castle as king-captures-rook): to=7 (h1),
	// from=4 (e1), no promotion.
	raw := uint16(4)<<6 | uint16(7)
	data := encodeRecord(key, raw, 1, 0)

	bk, err := book.Load(data)
	require.NoError(t, err)

	m, ok := book.Lookup(bk, boardView{b}, b.SideToMove, legal.Slice(), rand.New(rand.NewSource(1)))
	require.True(t, ok)
	require.Equal(t, types.KingCastle, m.Flag())
	require.Equal(t, "e1g1", m.UCI())
}

// TestLookupRejectsIllegalBookMove checks that a book entry naming a move
// the current position cannot actually play is never returned.
func TestLookupRejectsIllegalBookMove(t *testing.T) {
	b := board.NewGame()
	var legal types.MoveList
	movegen.Legal(b, &legal)

	key := book.Key(boardView{b})
	// e2e5 is not a legal pawn move from the start position.
	raw := uint16(types.NewSquare(4, 1))<<6 | uint16(types.NewSquare(4, 4))
	data := encodeRecord(key, raw, 1, 0)

	bk, err := book.Load(data)
	require.NoError(t, err)

	_, ok := book.Lookup(bk, boardView{b}, b.SideToMove, legal.Slice(), rand.New(rand.NewSource(1)))
	require.False(t, ok)
}
