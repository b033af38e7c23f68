package book

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"

	"github.com/arjunp/knightfall/types"
)

// Entry is one 16-byte Polyglot book record: an 8-byte key, 2-byte encoded
// move, 2-byte weight, and a 4-byte learn field the engine never
// interprets.
type Entry struct {
	Key    uint64
	Move   uint16
	Weight uint16
	Learn  uint32
}

const entrySize = 16

// Book holds Polyglot entries sorted ascending by key, ready for binary
// search.
type Book struct {
	entries []Entry
}

// Load parses a Polyglot book image. Records are expected sorted by key per
// the format, but Load sorts defensively so a malformed image still probes
// correctly.
func Load(data []byte) (*Book, error) {
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("book: image length %d is not a multiple of %d", len(data), entrySize)
	}
	n := len(data) / entrySize
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		rec := data[i*entrySize : (i+1)*entrySize]
		entries[i] = Entry{
			Key:    binary.BigEndian.Uint64(rec[0:8]),
			Move:   binary.BigEndian.Uint16(rec[8:10]),
			Weight: binary.BigEndian.Uint16(rec[10:12]),
			Learn:  binary.BigEndian.Uint32(rec[12:16]),
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return &Book{entries: entries}, nil
}

// Probe returns every entry matching key via binary search over the sorted
// entries.
func (b *Book) Probe(key uint64) []Entry {
	if b == nil {
		return nil
	}
	idx := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= key })

	var matches []Entry
	for idx < len(b.entries) && b.entries[idx].Key == key {
		matches = append(matches, b.entries[idx])
		idx++
	}
	return matches
}

// Pick selects one entry by weight-proportional sampling; when every
// matching entry has zero weight the first is chosen.
func Pick(matches []Entry, rng *rand.Rand) (Entry, bool) {
	if len(matches) == 0 {
		return Entry{}, false
	}
	var total uint32
	for _, e := range matches {
		total += uint32(e.Weight)
	}
	if total == 0 {
		return matches[0], true
	}

	r := rng.Uint32() % total
	var cumulative uint32
	for _, e := range matches {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e, true
		}
	}
	return matches[len(matches)-1], true
}

// Lookup computes pos's Polyglot key, probes b, and resolves the chosen
// entry against legalMoves so only a move the current position can
// actually play is ever returned.
func Lookup(b *Book, pos position, mover types.Color, legalMoves []types.Move, rng *rand.Rand) (types.Move, bool) {
	if b == nil {
		return 0, false
	}
	key := Key(pos)
	matches := b.Probe(key)
	if len(matches) == 0 {
		return 0, false
	}
	entry, ok := Pick(matches, rng)
	if !ok {
		return 0, false
	}

	decoded := Decode(entry.Move).Resolve(mover)
	for _, m := range legalMoves {
		if m.From() != decoded.From || m.To() != decoded.To {
			continue
		}
		if decoded.Promotion != types.NoKind && (!m.Flag().IsPromotion() || m.Flag().PromotedKind() != decoded.Promotion) {
			continue
		}
		if decoded.Promotion == types.NoKind && m.Flag().IsPromotion() {
			continue
		}
		return m, true
	}
	return 0, false
}
