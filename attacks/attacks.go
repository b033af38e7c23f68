// Package attacks pre-computes non-slider attack sets (king, knight, pawn)
// and builds the magic-bitboard lookup tables for rook and bishop slider
// attacks. Queen attacks compose from the two slider tables.
package attacks

import (
	"sync"

	"github.com/arjunp/knightfall/bitboard"
	"github.com/arjunp/knightfall/types"
)

var (
	pawnAttacks   [2][64]bitboard.Bitboard
	knightAttacks [64]bitboard.Bitboard
	kingAttacks   [64]bitboard.Bitboard

	bishopMasks [64]bitboard.Bitboard
	rookMasks   [64]bitboard.Bitboard

	bishopMagics [64]uint64
	rookMagics   [64]uint64

	bishopTable [64][]bitboard.Bitboard
	rookTable   [64][]bitboard.Bitboard

	initOnce sync.Once
)

// Init publishes the global attack tables. Safe to call more than once;
// only the first call does work. The tables are read-only after
// publication, so no locking is needed on the lookup path.
func Init() {
	initOnce.Do(initTables)
}

func initTables() {
	bishopMagics, rookMagics = loadMagics()

	for sq := 0; sq < 64; sq++ {
		bb := bitboard.FromSquare(sq)

		pawnAttacks[types.White][sq] = pawnAttackSet(bb, types.White)
		pawnAttacks[types.Black][sq] = pawnAttackSet(bb, types.Black)
		knightAttacks[sq] = knightAttackSet(bb)
		kingAttacks[sq] = kingAttackSet(bb)

		bishopMasks[sq] = bishopRelevantMask(sq)
		rookMasks[sq] = rookRelevantMask(sq)
	}

	for sq := 0; sq < 64; sq++ {
		bits := bishopRelevantBits[sq]
		table := make([]bitboard.Bitboard, 1<<uint(bits))
		for i := 0; i < 1<<uint(bits); i++ {
			occ := occupancySubset(i, bits, bishopMasks[sq])
			idx := magicIndex(occ, bishopMagics[sq], bits)
			table[idx] = bishopRayAttacks(sq, occ)
		}
		bishopTable[sq] = table

		bits = rookRelevantBits[sq]
		table = make([]bitboard.Bitboard, 1<<uint(bits))
		for i := 0; i < 1<<uint(bits); i++ {
			occ := occupancySubset(i, bits, rookMasks[sq])
			idx := magicIndex(occ, rookMagics[sq], bits)
			table[idx] = rookRayAttacks(sq, occ)
		}
		rookTable[sq] = table
	}
}

func magicIndex(occ bitboard.Bitboard, magic uint64, bits int) uint64 {
	return (uint64(occ) * magic) >> uint(64-bits)
}

// King returns the king attack set from sq.
func King(sq types.Square) bitboard.Bitboard { return kingAttacks[sq] }

// Knight returns the knight attack set from sq.
func Knight(sq types.Square) bitboard.Bitboard { return knightAttacks[sq] }

// Pawn returns the pawn capture set for a pawn of the given color on sq.
func Pawn(c types.Color, sq types.Square) bitboard.Bitboard { return pawnAttacks[c][sq] }

// Bishop returns the bishop attack set from sq given the current occupancy.
func Bishop(sq types.Square, occ bitboard.Bitboard) bitboard.Bitboard {
	masked := occ & bishopMasks[sq]
	idx := magicIndex(masked, bishopMagics[sq], bishopRelevantBits[sq])
	return bishopTable[sq][idx]
}

// Rook returns the rook attack set from sq given the current occupancy.
func Rook(sq types.Square, occ bitboard.Bitboard) bitboard.Bitboard {
	masked := occ & rookMasks[sq]
	idx := magicIndex(masked, rookMagics[sq], rookRelevantBits[sq])
	return rookTable[sq][idx]
}

// Queen composes rook and bishop attacks at the same square and occupancy.
func Queen(sq types.Square, occ bitboard.Bitboard) bitboard.Bitboard {
	return Bishop(sq, occ) | Rook(sq, occ)
}

// IsAttacked reports whether sq is attacked by color c, given the total
// occupancy and c's piece bitboards, by OR-ing pawn, knight, king and
// slider attacks from sq.
func IsAttacked(sq types.Square, occ bitboard.Bitboard, c types.Color,
	pawns, knights, king, bishopsQueens, rooksQueens bitboard.Bitboard) bool {

	if Pawn(c.Other(), sq)&pawns != 0 {
		return true
	}
	if Knight(sq)&knights != 0 {
		return true
	}
	if King(sq)&king != 0 {
		return true
	}
	if Bishop(sq, occ)&bishopsQueens != 0 {
		return true
	}
	if Rook(sq, occ)&rooksQueens != 0 {
		return true
	}
	return false
}

func pawnAttackSet(pawn bitboard.Bitboard, c types.Color) bitboard.Bitboard {
	if c == types.White {
		return (pawn & bitboard.NotFileA << 7) | (pawn & bitboard.NotFileH << 9)
	}
	return (pawn & bitboard.NotFileA >> 9) | (pawn & bitboard.NotFileH >> 7)
}

func knightAttackSet(n bitboard.Bitboard) bitboard.Bitboard {
	return (n & bitboard.NotFileA >> 17) |
		(n & bitboard.NotFileH >> 15) |
		(n & bitboard.NotFileAB >> 10) |
		(n & bitboard.NotFileGH >> 6) |
		(n & bitboard.NotFileAB << 6) |
		(n & bitboard.NotFileGH << 10) |
		(n & bitboard.NotFileA << 15) |
		(n & bitboard.NotFileH << 17)
}

func kingAttackSet(k bitboard.Bitboard) bitboard.Bitboard {
	return (k & bitboard.NotFileA >> 9) |
		(k >> 8) |
		(k & bitboard.NotFileH >> 7) |
		(k & bitboard.NotFileA >> 1) |
		(k & bitboard.NotFileH << 1) |
		(k & bitboard.NotFileA << 7) |
		(k << 8) |
		(k & bitboard.NotFileH << 9)
}

// bishopRelevantMask enumerates blocker squares on a bishop's diagonals,
// excluding the ray's own edge square (it never blocks anything further).
func bishopRelevantMask(sq int) bitboard.Bitboard {
	var occ bitboard.Bitboard
	bishop := bitboard.FromSquare(sq)
	notAnot1 := bitboard.NotFileA & bitboard.NotRank1
	notHnot1 := bitboard.NotFileH & bitboard.NotRank1
	notAnot8 := bitboard.NotFileA & bitboard.NotRank8
	notHnot8 := bitboard.NotFileH & bitboard.NotRank8

	for i := bishop & bitboard.NotFileA >> 9; i&notAnot1 != 0; i >>= 9 {
		occ |= i
	}
	for i := bishop & bitboard.NotFileH >> 7; i&notHnot1 != 0; i >>= 7 {
		occ |= i
	}
	for i := bishop & bitboard.NotFileA << 7; i&notAnot8 != 0; i <<= 7 {
		occ |= i
	}
	for i := bishop & bitboard.NotFileH << 9; i&notHnot8 != 0; i <<= 9 {
		occ |= i
	}
	return occ
}

func rookRelevantMask(sq int) bitboard.Bitboard {
	var occ bitboard.Bitboard
	rook := bitboard.FromSquare(sq)

	for i := rook & bitboard.NotRank1 >> 8; i&bitboard.NotRank1 != 0; i >>= 8 {
		occ |= i
	}
	for i := rook & bitboard.NotFileA >> 1; i&bitboard.NotFileA != 0; i >>= 1 {
		occ |= i
	}
	for i := rook & bitboard.NotFileH << 1; i&bitboard.NotFileH != 0; i <<= 1 {
		occ |= i
	}
	for i := rook & bitboard.NotRank8 << 8; i&bitboard.NotRank8 != 0; i <<= 8 {
		occ |= i
	}
	return occ
}

// occupancySubset enumerates the key-th subset of the relevant-bits-sized
// mask, used to populate every blocker combination during table init.
func occupancySubset(key, relevantBits int, mask bitboard.Bitboard) bitboard.Bitboard {
	var occ bitboard.Bitboard
	for i := 0; i < relevantBits; i++ {
		sq := mask.PopLSB()
		if key&(1<<uint(i)) != 0 {
			occ |= bitboard.FromSquare(sq)
		}
	}
	return occ
}

// bishopRayAttacks ray-scans from sq in all four diagonal directions,
// stopping at (and including) the first blocker: the full, un-masked
// attack set for a given occupancy, used only to populate the magic table.
func bishopRayAttacks(sq int, occ bitboard.Bitboard) (attacks bitboard.Bitboard) {
	bishop := bitboard.FromSquare(sq)

	for i := bishop & bitboard.NotFileA >> 9; i&bitboard.NotFileH != 0; i >>= 9 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := bishop & bitboard.NotFileH >> 7; i&bitboard.NotFileA != 0; i >>= 7 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := bishop & bitboard.NotFileA << 7; i&bitboard.NotFileH != 0; i <<= 7 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := bishop & bitboard.NotFileH << 9; i&bitboard.NotFileA != 0; i <<= 9 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	return attacks
}

func rookRayAttacks(sq int, occ bitboard.Bitboard) (attacks bitboard.Bitboard) {
	rook := bitboard.FromSquare(sq)

	for i := rook & bitboard.NotFileA >> 1; i&bitboard.NotFileH != 0; i >>= 1 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := rook & bitboard.NotFileH << 1; i&bitboard.NotFileA != 0; i <<= 1 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := rook & bitboard.NotRank1 >> 8; i&bitboard.NotRank8 != 0; i >>= 8 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	for i := rook & bitboard.NotRank8 << 8; i&bitboard.NotRank1 != 0; i <<= 8 {
		attacks |= i
		if i&occ != 0 {
			break
		}
	}
	return attacks
}
