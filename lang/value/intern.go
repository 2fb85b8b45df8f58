package value

// tableMaxLoad is the load factor past which the string table grows.
const tableMaxLoad = 0.75

type tableEntry struct {
	key       *String
	tombstone bool
}

// stringTable is an open-addressing hash set of interned strings (spec
// §4.5): linear probing from hash mod capacity, tombstones left behind by
// deletions so probe chains through a deleted slot are not broken, and
// growth by rehashing into a fresh backing array once the load factor
// crosses 0.75.
type stringTable struct {
	entries []tableEntry
	count   int // live entries plus tombstones, for load-factor accounting
}

// findEntry locates the slot for (hash, chars) in entries: either the
// entry that already holds an equal string, or the first empty-or-tombstone
// slot on its probe chain (preferring the earliest tombstone seen, so
// repeated insert/delete cycles don't grow the chain unnecessarily).
func findEntry(entries []tableEntry, hash uint32, chars string) int {
	mask := uint32(len(entries) - 1)
	idx := hash & mask
	tombstoneIdx := -1
	for {
		e := &entries[idx]
		switch {
		case e.key == nil && !e.tombstone:
			if tombstoneIdx != -1 {
				return tombstoneIdx
			}
			return int(idx)
		case e.key == nil: // tombstone
			if tombstoneIdx == -1 {
				tombstoneIdx = int(idx)
			}
		case e.key.Hash == hash && e.key.Chars == chars:
			return int(idx)
		}
		idx = (idx + 1) & mask
	}
}

func (t *stringTable) adjustCapacity(newCap int) {
	newEntries := make([]tableEntry, newCap)
	t.count = 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		idx := findEntry(newEntries, e.key.Hash, e.key.Chars)
		newEntries[idx].key = e.key
		t.count++
	}
	t.entries = newEntries
}

// set interns s into the table, growing first if needed. It reports
// whether s was a new key (it always is, in practice, since callers only
// call set after a failed find).
func (t *stringTable) set(s *String) bool {
	if len(t.entries) == 0 || float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		newCap := 8
		if len(t.entries) > 0 {
			newCap = len(t.entries) * 2
		}
		t.adjustCapacity(newCap)
	}
	idx := findEntry(t.entries, s.Hash, s.Chars)
	e := &t.entries[idx]
	isNew := e.key == nil
	if isNew && !e.tombstone {
		t.count++
	}
	e.key = s
	e.tombstone = false
	return isNew
}

// find returns the canonical interned *String equal to chars, or nil.
func (t *stringTable) find(chars string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	idx := findEntry(t.entries, hash, chars)
	return t.entries[idx].key
}

// delete removes s's entry, leaving a tombstone so later probes for other
// keys on the same chain still succeed.
func (t *stringTable) delete(s *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := findEntry(t.entries, s.Hash, s.Chars)
	e := &t.entries[idx]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.tombstone = true
	return true
}
