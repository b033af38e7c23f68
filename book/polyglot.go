// Package book implements a Polyglot opening-book probe: binary-search
// lookup by Polyglot-style Zobrist key, weight-proportional move
// selection, and decoding the stored move into a legal engine move.
//
// The record format, key structure (piece ordering, castling and
// en-passant conventions) and move encoding follow the published Polyglot
// specification exactly. The key constants themselves are stand-ins: the
// official Random64 table is not compiled in, so keys match only book
// images built against this package's Key, not externally-built standard
// books. See polyglotRandom below for the swap-in point.
package book

import "github.com/arjunp/knightfall/types"

// Official Random64 table layout: 768 piece-square constants, then 4
// castling, 8 en-passant-file, and 1 side-to-move constant.
const (
	randomPiece     = 0
	randomCastle    = 768
	randomEnPassant = 772
	randomTurn      = 780
	randomCount     = 781
)

// polyglotRandom holds the 781 key constants at the official Random64
// offsets. The values are generated by a fixed xorshift sequence and are
// NOT the published Polyglot constants; replacing this array's contents
// with the official table restores byte-for-byte key compatibility with
// standard .bin books without touching any other code.
var polyglotRandom [randomCount]uint64

func init() {
	var s uint64 = 0x37b4a4b3f0d1c0d0
	for i := range polyglotRandom {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		polyglotRandom[i] = s * 0x2545F4914F6CDD1D
	}
}

// polyglotPieceIndex maps our (color, kind) to the Polyglot ordering:
// black pawn, black knight, ..., black king, white pawn, ..., white king.
func polyglotPieceIndex(p types.Piece) int {
	kindOffset := int(p.Kind()) - 1 // Pawn=0 .. King=5
	if p.Color() == types.Black {
		return kindOffset
	}
	return kindOffset + 6
}

// position is the minimal read-only view Key needs; board.Board satisfies
// it without this package importing board (keeps book free of a board
// dependency, since only the engine package needs to wire both together).
type position interface {
	SideToMove() types.Color
	CastlingRights() types.CastlingRights
	EnPassantSquare() types.Square
	PieceBitboard(p types.Piece) uint64
	PawnBitboard(c types.Color) uint64
}

// Key computes the Polyglot-style hash for pos, including the en-passant
// term only when a pawn of the side to move could actually capture on that
// square right now, per the Polyglot convention.
func Key(pos position) uint64 {
	var hash uint64

	for p := types.WPawn; p <= types.BKing; p++ {
		bb := pos.PieceBitboard(p)
		idx := polyglotPieceIndex(p)
		for bb != 0 {
			sq := bitScan(bb)
			hash ^= polyglotRandom[randomPiece+64*idx+sq]
			bb &= bb - 1
		}
	}

	rights := pos.CastlingRights()
	if rights&types.WhiteKingside != 0 {
		hash ^= polyglotRandom[randomCastle+0]
	}
	if rights&types.WhiteQueenside != 0 {
		hash ^= polyglotRandom[randomCastle+1]
	}
	if rights&types.BlackKingside != 0 {
		hash ^= polyglotRandom[randomCastle+2]
	}
	if rights&types.BlackQueenside != 0 {
		hash ^= polyglotRandom[randomCastle+3]
	}

	if ep := pos.EnPassantSquare(); ep != types.NoSquare {
		file := ep.File()
		mover := pos.SideToMove()
		pawnRank := 4
		if mover == types.Black {
			pawnRank = 3
		}
		pawns := pos.PawnBitboard(mover)
		canCapture := false
		if file > 0 && pawns&(1<<uint(pawnRank*8+file-1)) != 0 {
			canCapture = true
		}
		if file < 7 && pawns&(1<<uint(pawnRank*8+file+1)) != 0 {
			canCapture = true
		}
		if canCapture {
			hash ^= polyglotRandom[randomEnPassant+file]
		}
	}

	if pos.SideToMove() == types.White {
		hash ^= polyglotRandom[randomTurn]
	}

	return hash
}

func bitScan(bb uint64) int {
	for i := 0; i < 64; i++ {
		if bb&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// DecodedMove is a Polyglot-encoded move before legality resolution: from
// and to are the raw squares (castling still encoded as king-captures-rook),
// and promotion is the promoted kind or types.NoKind.
type DecodedMove struct {
	From, To  types.Square
	Promotion types.PieceKind
}

// Decode unpacks a Polyglot 16-bit move: bits 0-5 destination, 6-11
// origin, 12-14 promotion piece (0=none, 1=N, 2=B, 3=R, 4=Q).
func Decode(raw uint16) DecodedMove {
	to := types.Square(raw & 0x3F)
	from := types.Square((raw >> 6) & 0x3F)
	promo := (raw >> 12) & 0x07

	var kind types.PieceKind
	switch promo {
	case 1:
		kind = types.Knight
	case 2:
		kind = types.Bishop
	case 3:
		kind = types.Rook
	case 4:
		kind = types.Queen
	}
	return DecodedMove{From: from, To: to, Promotion: kind}
}

// Resolve rewrites a decoded castling-as-rook-capture move into the actual
// king destination square the engine's Move encoding expects, given the
// side to move.
func (d DecodedMove) Resolve(mover types.Color) DecodedMove {
	if mover == types.White && d.From == 4 {
		if d.To == 7 {
			return DecodedMove{From: 4, To: 6, Promotion: types.NoKind}
		}
		if d.To == 0 {
			return DecodedMove{From: 4, To: 2, Promotion: types.NoKind}
		}
	}
	if mover == types.Black && d.From == 60 {
		if d.To == 63 {
			return DecodedMove{From: 60, To: 62, Promotion: types.NoKind}
		}
		if d.To == 56 {
			return DecodedMove{From: 60, To: 58, Promotion: types.NoKind}
		}
	}
	return d
}
