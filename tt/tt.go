// Package tt implements the transposition table: a power-of-two array of
// entries keyed by the low bits of a Zobrist key, tagged with the key's
// high bits to detect collisions, storing a bound, depth, score and best
// move. The search is sequential, so a plain flat slice suffices; there
// are no concurrent writers to guard against.
package tt

import "github.com/arjunp/knightfall/types"

// Entry is one transposition-table slot. Sized to stay small and cache
// friendly: key tag, score, move, depth, bound and age all fit in 16 bytes.
type Entry struct {
	tag   uint32
	Score int32
	Move  types.Move
	Depth int16
	Bound types.Bound
	Age   uint8
	valid bool
}

// Table is a fixed-size, non-resizable transposition table.
type Table struct {
	entries []Entry
	mask    uint64
	age     uint8
}

// New allocates a table sized to the largest power of two whose entries
// fit within sizeBytes.
func New(sizeBytes int) *Table {
	const entrySize = 16
	n := sizeBytes / entrySize
	if n < 1 {
		n = 1
	}
	count := 1
	for count*2 <= n {
		count *= 2
	}
	return &Table{
		entries: make([]Entry, count),
		mask:    uint64(count - 1),
	}
}

// NewSearch bumps the table's age; called once per root search so the
// replacement policy can distinguish stale entries from the current
// search's own entries.
func (t *Table) NewSearch() { t.age++ }

func (t *Table) index(key uint64) uint64 { return key & t.mask }

func tag(key uint64) uint32 { return uint32(key >> 32) }

// mateScore marks scores close enough to a mate constant that they must be
// ply-adjusted when stored/retrieved, since a mate score found N plies from
// the TT probe's position is N plies further from the search root.
const mateScore = 1_000_000

func isMateScore(score int) bool {
	return score > mateScore-1000 || score < -mateScore+1000
}

// Probe looks up key and, on a tag match, returns the entry adjusted for
// ply (mate scores are distance-to-root, not distance-to-this-node).
func (t *Table) Probe(key uint64, ply int) (Entry, bool) {
	e := t.entries[t.index(key)]
	if !e.valid || e.tag != tag(key) {
		return Entry{}, false
	}
	out := e
	if isMateScore(int(e.Score)) {
		if e.Score > 0 {
			out.Score = e.Score - int32(ply)
		} else {
			out.Score = e.Score + int32(ply)
		}
	}
	return out, true
}

// Store writes an entry, replacing the current occupant when the new entry
// has greater-or-equal depth or the stored entry is from a previous search
// age.
func (t *Table) Store(key uint64, bound types.Bound, depth int, score int, move types.Move, ply int) {
	idx := t.index(key)
	cur := &t.entries[idx]

	if isMateScore(score) {
		if score > 0 {
			score += ply
		} else {
			score -= ply
		}
	}

	if cur.valid && int(cur.Depth) > depth && cur.Age == t.age {
		return
	}

	*cur = Entry{
		tag:   tag(key),
		Score: int32(score),
		Move:  move,
		Depth: int16(depth),
		Bound: bound,
		Age:   t.age,
		valid: true,
	}
}

// Clear empties every entry, used by "ucinewgame" to avoid stale lines
// bleeding across unrelated games.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
}
