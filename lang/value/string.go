package value

// String is an immutable, interned byte sequence. Every String reachable
// from a Value is the unique canonical copy held by the owning Heap's
// string table (spec invariant 4); equality of strings is therefore pointer
// equality, never content comparison.
type String struct {
	Header
	Chars string
	Hash  uint32
}

func (s *String) ObjKind() ObjKind { return ObjKindString }
