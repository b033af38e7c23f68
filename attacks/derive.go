//go:build derive

package attacks

import (
	"math/rand"

	"github.com/arjunp/knightfall/bitboard"
)

// loadMagics re-derives every square's magic multiplier by rejection
// sampling instead of using the compiled-in tables.go values, for
// reproducibility experiments against a from-scratch search. It reuses the
// occupancy-mask and ray-attack helpers initTables uses to populate the
// lookup tables.
func loadMagics() (bishop, rook [64]uint64) {
	for sq := 0; sq < 64; sq++ {
		bishop[sq] = findMagic(sq, bishopRelevantMask(sq), bishopRelevantBits[sq], bishopRayAttacks)
		rook[sq] = findMagic(sq, rookRelevantMask(sq), rookRelevantBits[sq], rookRayAttacks)
	}
	return bishop, rook
}

// findMagic searches for a magic multiplier under which every blocker
// subset of mask maps (subset*magic)>>(64-bits) to an index whose stored
// attack set either is unused or already agrees with this subset's attacks
// (a constructive collision, which a valid magic may have).
func findMagic(sq int, mask bitboard.Bitboard, bits int,
	rayAttacks func(sq int, occ bitboard.Bitboard) bitboard.Bitboard) uint64 {

	size := 1 << uint(bits)
	occs := make([]bitboard.Bitboard, size)
	refAttacks := make([]bitboard.Bitboard, size)
	for i := 0; i < size; i++ {
		occs[i] = occupancySubset(i, bits, mask)
		refAttacks[i] = rayAttacks(sq, occs[i])
	}

	table := make([]bitboard.Bitboard, size)
	seen := make([]bool, size)
	rng := rand.New(rand.NewSource(int64(sq)*2 + 1))

	for attempt := 0; attempt < 100_000_000; attempt++ {
		magic := sparseRandom(rng)
		if bitboard.Bitboard(uint64(mask)*magic>>56).PopCount() < 6 {
			continue
		}

		for i := range seen {
			seen[i] = false
		}
		ok := true
		for i := 0; i < size && ok; i++ {
			idx := (uint64(occs[i]) * magic) >> uint(64-bits)
			if !seen[idx] {
				seen[idx] = true
				table[idx] = refAttacks[i]
			} else if table[idx] != refAttacks[i] {
				ok = false
			}
		}
		if ok {
			return magic
		}
	}
	panic("attacks: rejection sampling failed to find a magic number for square")
}

// sparseRandom returns a random uint64 with relatively few set bits.
// Sparse candidates are far more likely to yield a valid magic than
// uniformly random 64-bit values, the standard trick for this search.
func sparseRandom(rng *rand.Rand) uint64 {
	return rng.Uint64() & rng.Uint64() & rng.Uint64()
}
