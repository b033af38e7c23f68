// Package types declares the shared value types of the engine: squares,
// colors, piece kinds, castling rights, and the compact move encoding.
//
// None of the types here depend on the board representation; they are pure
// values shared by attacks, zobrist, board, movegen, eval, tt, search and
// book.
package types

// Color identifies a side to move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind is a chess piece type, independent of color.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a concrete (color, kind) pair, used as an index into the
// board's 12 piece bitboards: WPawn, BPawn, WKnight, BKnight, ... WKing, BKing.
type Piece uint8

const (
	WPawn Piece = iota
	BPawn
	WKnight
	BKnight
	WBishop
	BBishop
	WRook
	BRook
	WQueen
	BQueen
	WKing
	BKing
	NoPiece Piece = 255
)

// NewPiece builds the Piece index for a (color, kind) pair.
func NewPiece(c Color, k PieceKind) Piece {
	return Piece(2*(int(k)-1) + int(c))
}

// Color returns the color encoded in the piece index.
func (p Piece) Color() Color { return Color(p & 1) }

// Kind returns the piece kind encoded in the piece index.
func (p Piece) Kind() PieceKind { return PieceKind(p/2 + 1) }

// Symbol returns the FEN letter for the piece ('P','n', ...).
func (p Piece) Symbol() byte {
	return pieceSymbols[p]
}

var pieceSymbols = [12]byte{
	'P', 'p', 'N', 'n', 'B', 'b', 'R', 'r', 'Q', 'q', 'K', 'k',
}

// Square is a board square index: 0 = a1, 63 = h8, index = rank*8 + file.
type Square int8

const NoSquare Square = -1

// NewSquare builds a square from 0-based file and rank.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

// Flip mirrors the square vertically (rank 1 <-> rank 8); eval uses it to
// index its a8-first piece-square tables for White pieces.
func (s Square) Flip() Square { return s ^ 56 }

func (s Square) IsValid() bool { return s >= 0 && s <= 63 }

func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return squareNames[s]
}

var squareNames = [64]string{
	"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1",
	"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2",
	"a3", "b3", "c3", "d3", "e3", "f3", "g3", "h3",
	"a4", "b4", "c4", "d4", "e4", "f4", "g4", "h4",
	"a5", "b5", "c5", "d5", "e5", "f5", "g5", "h5",
	"a6", "b6", "c6", "d6", "e6", "f6", "g6", "h6",
	"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7",
	"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8",
}

// SquareFromString parses algebraic square notation ("e4") or "-" for NoSquare.
func SquareFromString(s string) Square {
	if s == "-" || len(s) != 2 {
		return NoSquare
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	return NewSquare(file, rank)
}

// CastlingRights is a 4-bit mask: WK, WQ, BK, BQ.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	AllCastling = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// MoveFlag enumerates every way a move can affect the board. It fits in 4
// bits, matching spec's Move encoding (origin 6 + destination 6 + flag 4).
type MoveFlag uint8

const (
	Quiet MoveFlag = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	Capture
	EnPassant
	_reserved6
	_reserved7
	PromoKnight
	PromoBishop
	PromoRook
	PromoQueen
	PromoCaptureKnight
	PromoCaptureBishop
	PromoCaptureRook
	PromoCaptureQueen
)

// IsCapture reports whether the flag removes an enemy piece (including en
// passant and capture-promotions).
func (f MoveFlag) IsCapture() bool {
	return f == Capture || f == EnPassant || f >= PromoCaptureKnight
}

// IsPromotion reports whether the flag promotes a pawn.
func (f MoveFlag) IsPromotion() bool {
	return f >= PromoKnight && f != _reserved6 && f != _reserved7
}

// PromotedKind returns the piece kind a promotion flag promotes to.
// Only valid when IsPromotion() is true.
func (f MoveFlag) PromotedKind() PieceKind {
	switch f {
	case PromoKnight, PromoCaptureKnight:
		return Knight
	case PromoBishop, PromoCaptureBishop:
		return Bishop
	case PromoRook, PromoCaptureRook:
		return Rook
	case PromoQueen, PromoCaptureQueen:
		return Queen
	}
	return NoKind
}

// PromoFlagFor builds the right promotion flag for a promoted kind, capture
// or not.
func PromoFlagFor(k PieceKind, capture bool) MoveFlag {
	var base MoveFlag
	switch k {
	case Knight:
		base = PromoKnight
	case Bishop:
		base = PromoBishop
	case Rook:
		base = PromoRook
	case Queen:
		base = PromoQueen
	}
	if capture {
		return base + (PromoCaptureKnight - PromoKnight)
	}
	return base
}

// Move is a chess move encoded as a 16-bit value:
//
//	0-5:   destination square
//	6-11:  origin square
//	12-15: MoveFlag
type Move uint16

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(to) | uint16(from)<<6 | uint16(flag)<<12)
}

func (m Move) To() Square     { return Square(m & 0x3F) }
func (m Move) From() Square   { return Square((m >> 6) & 0x3F) }
func (m Move) Flag() MoveFlag { return MoveFlag((m >> 12) & 0xF) }

func (m Move) IsNull() bool { return m == 0 }

// UCI renders the move in long algebraic notation (e.g. "e2e4", "e7e8q").
// The null move renders as "0000" per the UCI convention.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.Flag().IsPromotion() {
		switch m.Flag().PromotedKind() {
		case Knight:
			s += "n"
		case Bishop:
			s += "b"
		case Rook:
			s += "r"
		case Queen:
			s += "q"
		}
	}
	return s
}

// MoveList is a fixed-capacity move buffer: the maximum legal move count in
// any reachable chess position is 218, so a slice-backed array avoids
// allocation on the hot move-generation path.
type MoveList struct {
	Moves [256]Move
	Count int
}

func (l *MoveList) Push(m Move) {
	l.Moves[l.Count] = m
	l.Count++
}

func (l *MoveList) Slice() []Move { return l.Moves[:l.Count] }

// Bound is the kind of score stored in a transposition-table entry.
type Bound uint8

const (
	Exact Bound = iota
	LowerBound
	UpperBound
)

// GameStatus is the outcome of a position as reported by the façade.
type GameStatus string

const (
	StatusActive            GameStatus = "active"
	StatusCheckmate         GameStatus = "checkmate"
	StatusStalemate         GameStatus = "stalemate"
	StatusDrawThreefold     GameStatus = "draw_threefold"
	StatusDrawFiftyMove     GameStatus = "draw_50move"
	StatusDrawFivefold      GameStatus = "draw_fivefold"
	StatusDrawSeventyFiveMv GameStatus = "draw_75move"
	StatusDrawInsufficient  GameStatus = "draw_dead"
)
