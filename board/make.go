package board

import (
	"github.com/arjunp/knightfall/bitboard"
	"github.com/arjunp/knightfall/types"
	"github.com/arjunp/knightfall/zobrist"
)

// castlingLoss maps a square to the castling rights forfeited the moment
// either a piece leaves it or an enemy piece captures on it: the king's
// home square forfeits both rights on that side, a rook's home square
// forfeits just its own.
var castlingLoss = map[types.Square]types.CastlingRights{
	4:  types.WhiteKingside | types.WhiteQueenside,
	0:  types.WhiteQueenside,
	7:  types.WhiteKingside,
	60: types.BlackKingside | types.BlackQueenside,
	56: types.BlackQueenside,
	63: types.BlackKingside,
}

type rookHop struct {
	from, to types.Square
}

// castlingRookHop returns the rook's own from/to squares for a given
// castling flag and the side that is castling.
func castlingRookHop(flag types.MoveFlag, c types.Color) rookHop {
	if c == types.White {
		if flag == types.KingCastle {
			return rookHop{7, 5}
		}
		return rookHop{0, 3}
	}
	if flag == types.KingCastle {
		return rookHop{63, 61}
	}
	return rookHop{56, 59}
}

// Make applies m to the board and reports whether the move was legal: a
// move that leaves its own side's king attacked is rejected and undone
// before Make returns. Callers must restrict m to moves produced by
// movegen's pseudo-legal generator.
func (b *Board) Make(m types.Move) bool {
	mover := b.SideToMove
	from, to, flag := m.From(), m.To(), m.Flag()
	piece := b.PieceAt(from)

	frame := undoFrame{
		castling:       b.Castling,
		epSquare:       b.EPSquare,
		halfmoveClock:  b.HalfmoveClock,
		capturedPiece:  types.NoPiece,
		capturedSquare: types.NoSquare,
		key:            b.Key,
		move:           m,
	}

	// En-passant ep key is only live between the double push and the next
	// move; clear it now, restored below only if this move sets a new one.
	if b.EPSquare != types.NoSquare {
		b.Key ^= zobrist.EnPassantFile(b.EPSquare.File())
	}

	if flag.IsCapture() {
		capSq := to
		if flag == types.EnPassant {
			if mover == types.White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		capturedPiece := b.PieceAt(capSq)
		frame.capturedPiece = capturedPiece
		frame.capturedSquare = capSq
		b.remove(capturedPiece, capSq)
		if r, ok := castlingLoss[capSq]; ok {
			b.Castling &^= r
		}
	}

	b.remove(piece, from)
	if flag.IsPromotion() {
		b.place(types.NewPiece(mover, flag.PromotedKind()), to)
	} else {
		b.place(piece, to)
	}

	if flag == types.KingCastle || flag == types.QueenCastle {
		hop := castlingRookHop(flag, mover)
		rook := types.NewPiece(mover, types.Rook)
		b.remove(rook, hop.from)
		b.place(rook, hop.to)
	}

	if r, ok := castlingLoss[from]; ok {
		b.Castling &^= r
	}

	b.EPSquare = types.NoSquare
	if flag == types.DoublePawnPush {
		var epSq types.Square
		if mover == types.White {
			epSq = from + 8
		} else {
			epSq = from - 8
		}
		b.EPSquare = epSq
		b.Key ^= zobrist.EnPassantFile(epSq.File())
	}

	b.Key ^= zobrist.Castling(frame.castling)
	b.Key ^= zobrist.Castling(b.Castling)

	if piece.Kind() == types.Pawn || flag.IsCapture() {
		b.HalfmoveClock = 0
	} else {
		b.HalfmoveClock++
	}

	if mover == types.Black {
		b.FullmoveNumber++
	}

	b.SideToMove = mover.Other()
	b.Key ^= zobrist.SideToMove()

	b.history = append(b.history, frame)

	if b.IsAttacked(b.KingSquare(mover), mover.Other()) {
		b.Unmake()
		return false
	}
	return true
}

// Unmake reverses the most recent Make call. Calling it with an empty
// history is a programming error and panics.
func (b *Board) Unmake() {
	n := len(b.history)
	if n == 0 {
		panic("board: Unmake called with empty history")
	}
	frame := b.history[n-1]
	b.history = b.history[:n-1]

	m := frame.move
	from, to, flag := m.From(), m.To(), m.Flag()
	mover := b.SideToMove.Other()

	if mover == types.Black {
		b.FullmoveNumber--
	}
	b.SideToMove = mover

	if flag == types.KingCastle || flag == types.QueenCastle {
		hop := castlingRookHop(flag, mover)
		rook := types.NewPiece(mover, types.Rook)
		b.pieces[rook] &^= bitboard.FromSquare(int(hop.to))
		b.pieces[rook] |= bitboard.FromSquare(int(hop.from))
	}

	var movedPiece types.Piece
	if flag.IsPromotion() {
		promoted := types.NewPiece(mover, flag.PromotedKind())
		b.pieces[promoted] &^= bitboard.FromSquare(int(to))
		movedPiece = types.NewPiece(mover, types.Pawn)
	} else {
		movedPiece = b.PieceAt(to)
		b.pieces[movedPiece] &^= bitboard.FromSquare(int(to))
	}
	b.pieces[movedPiece] |= bitboard.FromSquare(int(from))

	if frame.capturedPiece != types.NoPiece {
		b.pieces[frame.capturedPiece] |= bitboard.FromSquare(int(frame.capturedSquare))
	}

	b.Castling = frame.castling
	b.EPSquare = frame.epSquare
	b.HalfmoveClock = frame.halfmoveClock
	b.Key = frame.key
}
