// Package bpe implements byte-level byte-pair encoding: learning merge
// rules from a corpus, applying them to text, and inverting them.
//
// Token ids 0-255 are raw bytes. The Nth learned merge is assigned id
// 255+N, so a merge's id doubles as its rank: lower ids were learned
// earlier and are applied first when encoding.
package bpe

import (
	"errors"
	"fmt"
	"sort"
)

// ByteTokens is the number of ids reserved for raw bytes.
const ByteTokens = 256

var ErrInvalidTable = errors.New("bpe: invalid merge table")

// Table is a frozen set of merge rules. The forward view (pair -> id)
// and the inverse view (id -> pair) are built together and never change,
// so a Table can be shared by concurrent encoders and decoders.
type Table struct {
	ids    map[Pair]int
	merges []Pair // merges[id-ByteTokens]
}

// NewTable builds a table from merges in rank order; merges[i] gets id
// 256+i. Each merge must reference only ids smaller than its own, and no
// pair may appear twice.
func NewTable(merges []Pair) (*Table, error) {
	t := &Table{
		ids:    make(map[Pair]int, len(merges)),
		merges: make([]Pair, 0, len(merges)),
	}
	for i, p := range merges {
		id := ByteTokens + i
		if p.Left < 0 || p.Right < 0 || p.Left >= id || p.Right >= id {
			return nil, fmt.Errorf("%w: merge %s -> %d references an id not below %d", ErrInvalidTable, p, id, id)
		}
		if prev, ok := t.ids[p]; ok {
			return nil, fmt.Errorf("%w: pair %s assigned twice (%d and %d)", ErrInvalidTable, p, prev, id)
		}
		t.ids[p] = id
		t.merges = append(t.merges, p)
	}
	return t, nil
}

// TableFromMap builds a table from a pair -> id mapping such as one read
// back from disk. Ids must be exactly 256..256+len(m)-1.
func TableFromMap(m map[Pair]int) (*Table, error) {
	type entry struct {
		pair Pair
		id   int
	}
	entries := make([]entry, 0, len(m))
	for p, id := range m {
		entries = append(entries, entry{pair: p, id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	merges := make([]Pair, len(entries))
	for i, e := range entries {
		if want := ByteTokens + i; e.id != want {
			return nil, fmt.Errorf("%w: expected id %d, found %d for pair %s", ErrInvalidTable, want, e.id, e.pair)
		}
		merges[i] = e.pair
	}
	return NewTable(merges)
}

// Len returns the number of merges.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.merges)
}

// VocabSize is the number of ids the table can produce, bytes included.
func (t *Table) VocabSize() int {
	return ByteTokens + t.Len()
}

// ID returns the id assigned to p.
func (t *Table) ID(p Pair) (int, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.ids[p]
	return id, ok
}

// Pair returns the pair that id was merged from. Byte ids and unknown
// ids report false.
func (t *Table) Pair(id int) (Pair, bool) {
	if t == nil || id < ByteTokens || id >= ByteTokens+len(t.merges) {
		return Pair{}, false
	}
	return t.merges[id-ByteTokens], true
}

// Merges returns the merges in rank order.
func (t *Table) Merges() []Pair {
	if t == nil {
		return nil
	}
	return append([]Pair(nil), t.merges...)
}

// Equal reports whether both tables hold the same merges in the same order.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		if t.merges[i] != o.merges[i] {
			return false
		}
	}
	return true
}

// builder grows a table append-only during training.
type builder struct {
	ids    map[Pair]int
	merges []Pair
}

func newBuilder() *builder {
	return &builder{ids: make(map[Pair]int)}
}

func (b *builder) add(p Pair) int {
	id := ByteTokens + len(b.merges)
	b.ids[p] = id
	b.merges = append(b.merges, p)
	return id
}

func (b *builder) len() int { return len(b.merges) }

func (b *builder) freeze() *Table {
	return &Table{ids: b.ids, merges: b.merges}
}
