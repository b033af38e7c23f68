//go:build !derive

package attacks

// loadMagics returns the compiled-in magic multiplier tables from tables.go.
// Build with -tags derive to re-derive them by rejection sampling instead
// (see derive.go), for reproducibility experiments.
func loadMagics() (bishop, rook [64]uint64) {
	return defaultBishopMagics, defaultRookMagics
}
