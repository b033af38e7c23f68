package tt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunp/knightfall/tt"
	"github.com/arjunp/knightfall/types"
)

func TestStoreThenProbeRoundTrips(t *testing.T) {
	table := tt.New(1 << 16)
	const key = 0x1234567890abcdef
	move := types.NewMove(types.NewSquare(4, 1), types.NewSquare(4, 3), types.DoublePawnPush)

	table.Store(key, types.Exact, 6, 42, move, 0)

	entry, ok := table.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, types.Exact, entry.Bound)
	require.Equal(t, int32(42), entry.Score)
	require.Equal(t, move, entry.Move)
	require.EqualValues(t, 6, entry.Depth)
}

func TestProbeMissOnDifferentKey(t *testing.T) {
	table := tt.New(1 << 16)
	table.Store(1, types.Exact, 4, 10, 0, 0)

	_, ok := table.Probe(2, 0)
	require.False(t, ok)
}

// TestReplacementKeepsDeeperEntry checks that a shallower same-age store
// does not overwrite a deeper entry already occupying the slot.
func TestReplacementKeepsDeeperEntry(t *testing.T) {
	table := tt.New(1 << 16)
	const key = 7

	table.Store(key, types.Exact, 10, 100, 0, 0)
	table.Store(key, types.Exact, 3, 999, 0, 0)

	entry, ok := table.Probe(key, 0)
	require.True(t, ok)
	require.EqualValues(t, 10, entry.Depth)
	require.Equal(t, int32(100), entry.Score)
}

// TestReplacementOverwritesOnGreaterOrEqualDepth checks the other half of
// the policy: a new entry with depth >= the stored one always replaces.
func TestReplacementOverwritesOnGreaterOrEqualDepth(t *testing.T) {
	table := tt.New(1 << 16)
	const key = 7

	table.Store(key, types.Exact, 4, 100, 0, 0)
	table.Store(key, types.Exact, 4, 200, 0, 0)

	entry, ok := table.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, int32(200), entry.Score)
}

// TestNewSearchAgeOverridesDepthPolicy checks that an entry from a stale
// search age is replaced even by a shallower new entry.
func TestNewSearchAgeOverridesDepthPolicy(t *testing.T) {
	table := tt.New(1 << 16)
	const key = 7

	table.Store(key, types.Exact, 10, 100, 0, 0)
	table.NewSearch()
	table.Store(key, types.Exact, 1, 7, 0, 0)

	entry, ok := table.Probe(key, 0)
	require.True(t, ok)
	require.EqualValues(t, 1, entry.Depth)
	require.Equal(t, int32(7), entry.Score)
}

// TestMateScoreAdjustsByPly checks the mate-distance adjustment: a mate
// score stored at one ply and probed at another must shift so it stays
// meaningful relative to the search root.
func TestMateScoreAdjustsByPly(t *testing.T) {
	table := tt.New(1 << 16)
	const key = 99
	const rootMateScore = 999_500 // a "mate in a few" score near search.Mate

	table.Store(key, types.Exact, 5, rootMateScore, 0, 3)

	// Reached again two plies deeper, the same mate is two plies further
	// from the root.
	entry, ok := table.Probe(key, 5)
	require.True(t, ok)
	require.Equal(t, int32(rootMateScore-2), entry.Score)
}

func TestClearEmptiesTable(t *testing.T) {
	table := tt.New(1 << 16)
	table.Store(1, types.Exact, 4, 10, 0, 0)
	table.Clear()

	_, ok := table.Probe(1, 0)
	require.False(t, ok)
}
