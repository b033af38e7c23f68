package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arjunp/knightfall/bitboard"
	"github.com/arjunp/knightfall/types"
)

// FromFEN parses a standard six-field FEN string into a new Board,
// rejecting malformed input with an error rather than a panic.
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("board: FEN must have 6 fields, got %d", len(fields))
	}

	b := &Board{EPSquare: types.NoSquare}

	if err := b.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.SideToMove = types.White
	case "b":
		b.SideToMove = types.Black
	default:
		return nil, fmt.Errorf("board: invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				b.Castling |= types.WhiteKingside
			case 'Q':
				b.Castling |= types.WhiteQueenside
			case 'k':
				b.Castling |= types.BlackKingside
			case 'q':
				b.Castling |= types.BlackQueenside
			default:
				return nil, fmt.Errorf("board: invalid castling rights %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq := types.SquareFromString(fields[3])
		if sq == types.NoSquare {
			return nil, fmt.Errorf("board: invalid en-passant square %q", fields[3])
		}
		b.EPSquare = sq
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return nil, fmt.Errorf("board: invalid halfmove clock %q", fields[4])
	}
	b.HalfmoveClock = half

	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, fmt.Errorf("board: invalid fullmove number %q", fields[5])
	}
	b.FullmoveNumber = full

	if err := b.validate(); err != nil {
		return nil, err
	}

	b.Key = b.recomputeKey()
	return b, nil
}

func (b *Board) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("board: piece placement must have 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			if file > 8 {
				return fmt.Errorf("board: rank %d overflows 8 files", rank+1)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromSymbol(byte(c))
			if !ok {
				return fmt.Errorf("board: invalid piece symbol %q", c)
			}
			if file >= 8 {
				return fmt.Errorf("board: rank %d overflows 8 files", rank+1)
			}
			sq := types.NewSquare(file, rank)
			b.pieces[p] |= bitboard.FromSquare(int(sq))
			file++
		}
		if file != 8 {
			return fmt.Errorf("board: rank %d does not sum to 8 files", rank+1)
		}
	}
	return nil
}

func pieceFromSymbol(c byte) (types.Piece, bool) {
	switch c {
	case 'P':
		return types.WPawn, true
	case 'p':
		return types.BPawn, true
	case 'N':
		return types.WKnight, true
	case 'n':
		return types.BKnight, true
	case 'B':
		return types.WBishop, true
	case 'b':
		return types.BBishop, true
	case 'R':
		return types.WRook, true
	case 'r':
		return types.BRook, true
	case 'Q':
		return types.WQueen, true
	case 'q':
		return types.BQueen, true
	case 'K':
		return types.WKing, true
	case 'k':
		return types.BKing, true
	}
	return 0, false
}

// validate checks the invariants every Board must satisfy between calls:
// exactly one king per color, no pawns on the back ranks.
func (b *Board) validate() error {
	if b.pieces[types.WKing].PopCount() != 1 {
		return fmt.Errorf("board: expected exactly one white king")
	}
	if b.pieces[types.BKing].PopCount() != 1 {
		return fmt.Errorf("board: expected exactly one black king")
	}
	pawns := b.pieces[types.WPawn] | b.pieces[types.BPawn]
	if pawns&(bitboard.Rank1|bitboard.Rank8) != 0 {
		return fmt.Errorf("board: pawn on rank 1 or rank 8")
	}
	return nil
}

// FEN serializes the board into canonical FEN form.
func (b *Board) FEN() string {
	var out strings.Builder
	out.Grow(72)

	out.WriteString(b.placementFEN())
	out.WriteByte(' ')

	if b.SideToMove == types.White {
		out.WriteByte('w')
	} else {
		out.WriteByte('b')
	}
	out.WriteByte(' ')

	any := false
	if b.Castling&types.WhiteKingside != 0 {
		out.WriteByte('K')
		any = true
	}
	if b.Castling&types.WhiteQueenside != 0 {
		out.WriteByte('Q')
		any = true
	}
	if b.Castling&types.BlackKingside != 0 {
		out.WriteByte('k')
		any = true
	}
	if b.Castling&types.BlackQueenside != 0 {
		out.WriteByte('q')
		any = true
	}
	if !any {
		out.WriteByte('-')
	}
	out.WriteByte(' ')

	if b.EPSquare == types.NoSquare {
		out.WriteByte('-')
	} else {
		out.WriteString(b.EPSquare.String())
	}
	out.WriteByte(' ')

	out.WriteString(strconv.Itoa(b.HalfmoveClock))
	out.WriteByte(' ')
	out.WriteString(strconv.Itoa(b.FullmoveNumber))

	return out.String()
}

func (b *Board) placementFEN() string {
	var squares [64]byte
	for p := types.WPawn; p <= types.BKing; p++ {
		bb := b.pieces[p]
		for bb != 0 {
			sq := bb.PopLSB()
			squares[sq] = p.Symbol()
		}
	}

	var out strings.Builder
	out.Grow(64)
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := rank*8 + file
			c := squares[sq]
			if c == 0 {
				empty++
				continue
			}
			if empty > 0 {
				out.WriteByte('0' + byte(empty))
				empty = 0
			}
			out.WriteByte(c)
		}
		if empty > 0 {
			out.WriteByte('0' + byte(empty))
		}
		if rank != 0 {
			out.WriteByte('/')
		}
	}
	return out.String()
}
