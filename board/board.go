// Package board implements the aggregate chess position: the 12 piece
// bitboards, derived occupancies, side to move, castling rights,
// en-passant target, move counters, an incrementally-maintained Zobrist
// key, and the history stack that make/unmake requires.
//
// Moves are undone in place: Make pushes a minimal per-move history frame
// and Unmake reverses it field by field, so the hot path never copies the
// whole position or re-parses a FEN string.
package board

import (
	"github.com/arjunp/knightfall/attacks"
	"github.com/arjunp/knightfall/bitboard"
	"github.com/arjunp/knightfall/types"
	"github.com/arjunp/knightfall/zobrist"
)

// undoFrame carries exactly the state make/unmake needs to reverse one
// move: the fields Board.Make cannot recompute from the move alone.
type undoFrame struct {
	castling       types.CastlingRights
	epSquare       types.Square
	halfmoveClock  int
	capturedPiece  types.Piece
	capturedSquare types.Square
	key            uint64
	move           types.Move
}

// Board is the mutable chess position. Zero value is not valid; use
// NewGame or FromFEN.
type Board struct {
	pieces [12]bitboard.Bitboard // indexed by types.Piece (WPawn..BKing)

	SideToMove     types.Color
	Castling       types.CastlingRights
	EPSquare       types.Square
	HalfmoveClock  int
	FullmoveNumber int
	Key            uint64

	history []undoFrame
}

func init() {
	attacks.Init()
	zobrist.Init()
}

// StartFEN is the initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewGame returns a Board set to the standard starting position.
func NewGame() *Board {
	b, err := FromFEN(StartFEN)
	if err != nil {
		panic("board: invalid built-in start FEN: " + err.Error())
	}
	return b
}

// Piece returns the bitboard for the given piece index.
func (b *Board) Piece(p types.Piece) bitboard.Bitboard { return b.pieces[p] }

// Occupancy returns the combined occupancy of one color.
func (b *Board) Occupancy(c types.Color) bitboard.Bitboard {
	var occ bitboard.Bitboard
	for k := types.Pawn; k <= types.King; k++ {
		occ |= b.pieces[types.NewPiece(c, k)]
	}
	return occ
}

// All returns the total occupancy of both colors.
func (b *Board) All() bitboard.Bitboard {
	return b.Occupancy(types.White) | b.Occupancy(types.Black)
}

// PieceAt returns the piece occupying sq, or types.NoPiece if empty.
func (b *Board) PieceAt(sq types.Square) types.Piece {
	bb := bitboard.FromSquare(int(sq))
	for p := types.WPawn; p <= types.BKing; p++ {
		if b.pieces[p]&bb != 0 {
			return p
		}
	}
	return types.NoPiece
}

// KingSquare returns the square of color c's king.
func (b *Board) KingSquare(c types.Color) types.Square {
	kb := b.pieces[types.NewPiece(c, types.King)]
	if kb == 0 {
		return types.NoSquare
	}
	return types.Square(kb.LSB())
}

// IsAttacked reports whether sq is attacked by color c in the board's
// current occupancy.
func (b *Board) IsAttacked(sq types.Square, c types.Color) bool {
	occ := b.All()
	return attacks.IsAttacked(sq, occ, c,
		b.pieces[types.NewPiece(c, types.Pawn)],
		b.pieces[types.NewPiece(c, types.Knight)],
		b.pieces[types.NewPiece(c, types.King)],
		b.pieces[types.NewPiece(c, types.Bishop)]|b.pieces[types.NewPiece(c, types.Queen)],
		b.pieces[types.NewPiece(c, types.Rook)]|b.pieces[types.NewPiece(c, types.Queen)],
	)
}

// InCheck reports whether the side to move's king is attacked.
func (b *Board) InCheck() bool {
	return b.IsAttacked(b.KingSquare(b.SideToMove), b.SideToMove.Other())
}

func (b *Board) place(p types.Piece, sq types.Square) {
	b.pieces[p] |= bitboard.FromSquare(int(sq))
	b.Key ^= zobrist.Piece(p, sq)
}

func (b *Board) remove(p types.Piece, sq types.Square) {
	b.pieces[p] &^= bitboard.FromSquare(int(sq))
	b.Key ^= zobrist.Piece(p, sq)
}

// recomputeKey recomputes the Zobrist key from scratch; FromFEN and
// UnpackPosition use it to set the initial key, and VerifyKey compares it
// with the incrementally-maintained key.
func (b *Board) recomputeKey() uint64 {
	var key uint64
	for p := types.WPawn; p <= types.BKing; p++ {
		bb := b.pieces[p]
		for bb != 0 {
			sq := types.Square(bb.PopLSB())
			key ^= zobrist.Piece(p, sq)
		}
	}
	if b.EPSquare != types.NoSquare {
		key ^= zobrist.EnPassantFile(b.EPSquare.File())
	}
	key ^= zobrist.Castling(b.Castling)
	if b.SideToMove == types.Black {
		key ^= zobrist.SideToMove()
	}
	return key
}

// VerifyKey reports whether the incrementally-maintained key matches a
// from-scratch recomputation.
func (b *Board) VerifyKey() bool { return b.Key == b.recomputeKey() }

// Clone returns a deep copy sharing no mutable state with b; used by SAN
// rendering and by tests, never on the hot make/unmake path.
func (b *Board) Clone() *Board {
	c := *b
	c.history = append([]undoFrame(nil), b.history...)
	return &c
}
