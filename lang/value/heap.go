package value

import "github.com/arlyon/fen/lang/compiler"

// fnvOffsetBasis and fnvPrime are the 32-bit FNV-1a constants used to hash
// interned strings.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

func hashBytes(s string) uint32 {
	hash := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= fnvPrime
	}
	return hash
}

// Heap owns every object allocated over a VM's lifetime: the intrusive
// linked list used to free them all in one bulk pass at shutdown, and the
// string intern table that canonicalizes every string value.
type Heap struct {
	objects Object
	strings stringTable
}

// NewHeap returns an empty heap.
func NewHeap() *Heap { return &Heap{} }

func (h *Heap) track(o Object) {
	o.setNext(h.objects)
	h.objects = o
}

// InternString returns the canonical *String equal to s, allocating and
// tracking a new one only if no equal string has been interned yet.
func (h *Heap) InternString(s string) *String {
	hash := hashBytes(s)
	if existing := h.strings.find(s, hash); existing != nil {
		return existing
	}
	str := &String{Chars: s, Hash: hash}
	h.track(str)
	h.strings.set(str)
	return str
}

// NewList allocates a list wrapping items (ownership of the slice passes to
// the list).
func (h *Heap) NewList(items []Value) *List {
	l := &List{Items: items}
	h.track(l)
	return l
}

// NewFunction wraps a compiled function prototype, plus its already
// materialized constant pool, as a callable object. Materialization (boxing
// numbers, interning strings, recursively wrapping nested prototypes) is
// the caller's responsibility, since it requires this same Heap to intern
// into — see the machine package's loadFunction.
func (h *Heap) NewFunction(proto *compiler.FunctionProto, constants []Value) *Function {
	f := &Function{Name: proto.Name, Arity: proto.Arity, Chunk: proto.Chunk, Constants: constants}
	h.track(f)
	return f
}

// NewNative wraps a Go callback as a callable native value.
func (h *Heap) NewNative(name string, fn NativeFn) *Native {
	n := &Native{Name: name, Fn: fn}
	h.track(n)
	return n
}

// Free releases every tracked object and clears the string table in a
// single bulk pass, matching the source's freeVM — there is no tracing
// collector to run incrementally.
func (h *Heap) Free() {
	h.objects = nil
	h.strings = stringTable{}
}
