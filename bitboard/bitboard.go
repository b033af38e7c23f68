// Package bitboard implements the 64-bit set operations the rest of the
// engine builds on: population count, least-significant-bit extraction,
// and the file/rank masks used throughout attack generation.
package bitboard

// Bitboard is a 64-bit bitmap, one bit per square (bit i = square i).
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101
	FileH Bitboard = 0x8080808080808080
	Rank1 Bitboard = 0x00000000000000FF
	Rank2 Bitboard = 0x000000000000FF00
	Rank4 Bitboard = 0x00000000FF000000
	Rank5 Bitboard = 0x000000FF00000000
	Rank7 Bitboard = 0x00FF000000000000
	Rank8 Bitboard = 0xFF00000000000000

	NotFileA = ^FileA
	NotFileH = ^FileH
	NotFileAB = ^(FileA | (FileA << 1))
	NotFileGH = ^(FileH | (FileH >> 1))
	NotRank1 = ^Rank1
	NotRank8 = ^Rank8

	Full  Bitboard = 0xFFFFFFFFFFFFFFFF
	Empty Bitboard = 0
)

// bitscanMagic and the lookup table implement the De Bruijn bitscan: the
// isolated LSB of any nonzero 64-bit value, multiplied by this constant,
// has a unique value in its top 6 bits.
// See http://pradu.us/old/Nov27_2008/Buzz/research/magic/Bitboards.pdf §3.2.
const bitscanMagic uint64 = 0x07EDD5E59A4E28C2

var bitscanLookup = [64]int{
	63, 0, 58, 1, 59, 47, 53, 2,
	60, 39, 48, 27, 54, 33, 42, 3,
	61, 51, 37, 40, 49, 18, 28, 20,
	55, 30, 34, 11, 43, 14, 22, 4,
	62, 57, 46, 52, 38, 26, 32, 41,
	50, 36, 17, 19, 29, 10, 13, 21,
	56, 45, 25, 31, 35, 16, 9, 12,
	44, 24, 15, 8, 23, 7, 6, 5,
}

// LSB returns the index of the least-significant set bit. Undefined (63)
// for an empty bitboard; callers must check Bitboard != 0 first.
func (b Bitboard) LSB() int {
	v := uint64(b)
	return bitscanLookup[(v&-v)*bitscanMagic>>58]
}

// PopLSB clears the least-significant set bit and returns its index.
func (b *Bitboard) PopLSB() int {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	v := uint64(b)
	cnt := 0
	for ; v != 0; cnt++ {
		v &= v - 1
	}
	return cnt
}

func (b Bitboard) Has(sq int) bool { return b&(1<<uint(sq)) != 0 }

func FromSquare(sq int) Bitboard { return 1 << uint(sq) }
