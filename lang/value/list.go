package value

// List is a growable, heterogeneous sequence of Values.
type List struct {
	Header
	Items []Value
}

func (l *List) ObjKind() ObjKind { return ObjKindList }
