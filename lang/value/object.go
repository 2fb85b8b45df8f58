package value

// ObjKind identifies the concrete type of a heap object.
type ObjKind uint8

const (
	ObjKindString ObjKind = iota
	ObjKindFunction
	ObjKindNative
	ObjKindList
)

func (k ObjKind) String() string {
	switch k {
	case ObjKindString:
		return "string"
	case ObjKindFunction:
		return "function"
	case ObjKindNative:
		return "native"
	case ObjKindList:
		return "list"
	default:
		return "unknown object"
	}
}

// Header is embedded in every heap object. It threads the object into the
// Heap's intrusive allocation list, used for the single bulk free at VM
// shutdown (spec invariant 5) — there is no tracing collector.
type Header struct {
	next Object
}

func (h *Header) setNext(o Object) { h.next = o }
func (h *Header) getNext() Object  { return h.next }

// Object is implemented by every heap-allocated value: strings, lists,
// functions, and natives.
type Object interface {
	ObjKind() ObjKind
	setNext(Object)
	getNext() Object
}
