// Package movegen generates chess moves from a board.Board: a pseudo-legal
// generator for every piece type plus castling, and a legal filter built
// on board.Board's make/unmake.
package movegen

import (
	"github.com/arjunp/knightfall/attacks"
	"github.com/arjunp/knightfall/bitboard"
	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/types"
)

// Legal generates every legal move for the side to move.
//
// It first generates the pseudo-legal move set, then plays each one on b
// via Make and keeps it only if Make reports the move legal (own king not
// left in check); Make already undoes rejected moves.
func Legal(b *board.Board, list *types.MoveList) {
	list.Count = 0

	var pseudo types.MoveList
	Pseudo(b, &pseudo)

	for _, m := range pseudo.Slice() {
		if b.Make(m) {
			b.Unmake()
			list.Push(m)
		}
	}
}

// Pseudo generates every pseudo-legal move: moves that are correct modulo
// leaving the mover's own king in check.
func Pseudo(b *board.Board, list *types.MoveList) {
	list.Count = 0
	genPawnMoves(b, list, false)
	genPieceMoves(b, list, false)
	genKingMoves(b, list)
}

// Captures generates pseudo-legal captures (every capture-promotion
// included) and non-capturing queen promotions only, for the search
// package's quiescence pass. Non-capturing under-promotions are not emitted.
func Captures(b *board.Board, list *types.MoveList) {
	list.Count = 0
	genPawnMoves(b, list, true)
	genPieceMoves(b, list, true)
	genKingCaptures(b, list)
}

func genPawnMoves(b *board.Board, list *types.MoveList, capturesOnly bool) {
	c := b.SideToMove
	pawn := types.NewPiece(c, types.Pawn)
	pawns := b.Piece(pawn)
	occ := b.All()
	enemies := b.Occupancy(c.Other())

	var ep bitboard.Bitboard
	if b.EPSquare != types.NoSquare {
		ep = bitboard.FromSquare(int(b.EPSquare))
	}

	dir := 8
	initRank := bitboard.Rank2
	promoRank := bitboard.Rank8
	if c == types.Black {
		dir = -8
		initRank = bitboard.Rank7
		promoRank = bitboard.Rank1
	}

	for pawns != 0 {
		from := types.Square(pawns.PopLSB())
		sq := bitboard.FromSquare(int(from))

		fwd := from + types.Square(dir)
		fwdBB := bitboard.FromSquare(int(fwd))
		fwdEmpty := fwdBB&occ == 0

		if !capturesOnly {
			if fwdEmpty {
				if fwdBB&promoRank != 0 {
					pushPromotions(list, from, fwd, false)
				} else {
					list.Push(types.NewMove(from, fwd, types.Quiet))
				}
				if sq&initRank != 0 {
					dbl := from + types.Square(2*dir)
					if bitboard.FromSquare(int(dbl))&occ == 0 {
						list.Push(types.NewMove(from, dbl, types.DoublePawnPush))
					}
				}
			}
		} else if fwdEmpty && fwdBB&promoRank != 0 {
			// Quiescence still must see a non-capturing queen promotion:
			// under-promotions stay excluded here, but promoting to a queen
			// is too large a material swing for the horizon to miss.
			list.Push(types.NewMove(from, fwd, types.PromoFlagFor(types.Queen, false)))
		}

		targets := attacks.Pawn(c, from) & (enemies | ep)
		for targets != 0 {
			to := types.Square(targets.PopLSB())
			toBB := bitboard.FromSquare(int(to))
			switch {
			case toBB&promoRank != 0:
				pushPromotions(list, from, to, true)
			case toBB&ep != 0 && ep != 0:
				list.Push(types.NewMove(from, to, types.EnPassant))
			default:
				list.Push(types.NewMove(from, to, types.Capture))
			}
		}
	}
}

func pushPromotions(list *types.MoveList, from, to types.Square, capture bool) {
	for _, k := range [...]types.PieceKind{types.Knight, types.Bishop, types.Rook, types.Queen} {
		list.Push(types.NewMove(from, to, types.PromoFlagFor(k, capture)))
	}
}

func genPieceMoves(b *board.Board, list *types.MoveList, capturesOnly bool) {
	c := b.SideToMove
	occ := b.All()
	allies := b.Occupancy(c)
	enemies := b.Occupancy(c.Other())

	for _, kind := range [...]types.PieceKind{types.Knight, types.Bishop, types.Rook, types.Queen} {
		pieces := b.Piece(types.NewPiece(c, kind))
		for pieces != 0 {
			from := types.Square(pieces.PopLSB())

			var dests bitboard.Bitboard
			switch kind {
			case types.Knight:
				dests = attacks.Knight(from)
			case types.Bishop:
				dests = attacks.Bishop(from, occ)
			case types.Rook:
				dests = attacks.Rook(from, occ)
			case types.Queen:
				dests = attacks.Queen(from, occ)
			}
			dests &^= allies
			if capturesOnly {
				dests &= enemies
			}

			for dests != 0 {
				to := types.Square(dests.PopLSB())
				flag := types.Quiet
				if bitboard.FromSquare(int(to))&enemies != 0 {
					flag = types.Capture
				}
				list.Push(types.NewMove(from, to, flag))
			}
		}
	}
}

func genKingMoves(b *board.Board, list *types.MoveList) {
	genKingStep(b, list, false)
	genCastling(b, list)
}

func genKingCaptures(b *board.Board, list *types.MoveList) {
	genKingStep(b, list, true)
}

func genKingStep(b *board.Board, list *types.MoveList, capturesOnly bool) {
	c := b.SideToMove
	from := b.KingSquare(c)
	allies := b.Occupancy(c)
	enemies := b.Occupancy(c.Other())

	dests := attacks.King(from) &^ allies
	if capturesOnly {
		dests &= enemies
	}

	for dests != 0 {
		to := types.Square(dests.PopLSB())
		flag := types.Quiet
		if bitboard.FromSquare(int(to))&enemies != 0 {
			flag = types.Capture
		}
		list.Push(types.NewMove(from, to, flag))
	}
}

// genCastling appends pseudo-legal castling moves, checking that the
// castling right is still held, the squares between king and rook are
// empty, and the king does not start, pass through, or land on an attacked
// square. The rook's own transit square need not be safe.
func genCastling(b *board.Board, list *types.MoveList) {
	c := b.SideToMove
	occ := b.All()
	from := b.KingSquare(c)
	enemy := c.Other()

	if b.InCheck() {
		return
	}

	if c == types.White {
		if b.Castling&types.WhiteKingside != 0 &&
			occ&(bitboard.FromSquare(5)|bitboard.FromSquare(6)) == 0 &&
			!b.IsAttacked(5, enemy) && !b.IsAttacked(6, enemy) {
			list.Push(types.NewMove(from, 6, types.KingCastle))
		}
		if b.Castling&types.WhiteQueenside != 0 &&
			occ&(bitboard.FromSquare(1)|bitboard.FromSquare(2)|bitboard.FromSquare(3)) == 0 &&
			!b.IsAttacked(3, enemy) && !b.IsAttacked(2, enemy) {
			list.Push(types.NewMove(from, 2, types.QueenCastle))
		}
		return
	}

	if b.Castling&types.BlackKingside != 0 &&
		occ&(bitboard.FromSquare(61)|bitboard.FromSquare(62)) == 0 &&
		!b.IsAttacked(61, enemy) && !b.IsAttacked(62, enemy) {
		list.Push(types.NewMove(from, 62, types.KingCastle))
	}
	if b.Castling&types.BlackQueenside != 0 &&
		occ&(bitboard.FromSquare(57)|bitboard.FromSquare(58)|bitboard.FromSquare(59)) == 0 &&
		!b.IsAttacked(59, enemy) && !b.IsAttacked(58, enemy) {
		list.Push(types.NewMove(from, 58, types.QueenCastle))
	}
}
