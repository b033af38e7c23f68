// Package san renders moves in Standard Algebraic Notation for
// human-readable PV display. The UCI loop uses it only for its optional
// "info string san" debug line; the pv field and façade results stay in
// UCI long algebraic notation.
package san

import (
	"strings"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/types"
)

var pieceLetters = [7]byte{
	types.NoKind: 0,
	types.Pawn:   0,
	types.Knight: 'N',
	types.Bishop: 'B',
	types.Rook:   'R',
	types.Queen:  'Q',
	types.King:   'K',
}

// Move renders m, played from position b (before m is applied), in SAN.
// b is left unmodified: Move plays m on a clone to derive check/checkmate
// suffixes, then discards the clone.
func Move(b *board.Board, m types.Move) string {
	if m.Flag() == types.KingCastle {
		return suffixed(b, m, "O-O")
	}
	if m.Flag() == types.QueenCastle {
		return suffixed(b, m, "O-O-O")
	}

	piece := b.PieceAt(m.From())
	kind := piece.Kind()
	isCapture := m.Flag().IsCapture()

	var s strings.Builder
	if letter := pieceLetters[kind]; letter != 0 {
		s.WriteByte(letter)
	}

	if kind != types.Pawn {
		if d, ok := disambiguation(b, m, piece); ok {
			s.WriteByte(d)
		}
	}

	if isCapture {
		if kind == types.Pawn {
			s.WriteByte("abcdefgh"[m.From().File()])
		}
		s.WriteByte('x')
	}

	s.WriteString(m.To().String())

	if m.Flag().IsPromotion() {
		s.WriteByte('=')
		s.WriteByte(pieceLetters[m.Flag().PromotedKind()])
	}

	return suffixed(b, m, s.String())
}

// Line renders a sequence of moves (e.g. a principal variation) played one
// after another from b, space-separated, leaving b unmodified.
func Line(b *board.Board, moves []types.Move) string {
	clone := b.Clone()
	parts := make([]string, 0, len(moves))
	for _, m := range moves {
		parts = append(parts, Move(clone, m))
		if !clone.Make(m) {
			break
		}
	}
	return strings.Join(parts, " ")
}

// suffixed plays m on a clone of b to determine whether it delivers check
// or checkmate, and appends the matching SAN suffix.
func suffixed(b *board.Board, m types.Move, core string) string {
	clone := b.Clone()
	if !clone.Make(m) {
		return core
	}
	if !clone.InCheck() {
		return core
	}
	var list types.MoveList
	movegen.Legal(clone, &list)
	if list.Count == 0 {
		return core + "#"
	}
	return core + "+"
}

// disambiguation resolves the ambiguity that arises when another piece of
// the same kind and color can also legally reach m.To(): prefer the
// originating file, falling back to the rank.
func disambiguation(b *board.Board, m types.Move, piece types.Piece) (byte, bool) {
	var list types.MoveList
	movegen.Legal(b, &list)

	sameFile, sameRank := false, false
	found := false
	for _, other := range list.Slice() {
		if other == m {
			continue
		}
		if other.To() != m.To() {
			continue
		}
		if b.PieceAt(other.From()) != piece {
			continue
		}
		found = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if !found {
		return 0, false
	}
	if !sameFile {
		return "abcdefgh"[m.From().File()], true
	}
	if !sameRank {
		return "12345678"[m.From().Rank()], true
	}
	// Distinguishable only by both file and rank together; SAN falls back
	// to the file, which combined with the destination square is still
	// locally unambiguous in this rare triple-ambiguity case.
	return "abcdefgh"[m.From().File()], true
}
