// Package value implements the runtime value model: a tagged union over
// {none, bool, number, object}, the heap-allocated object kinds (strings,
// lists, functions, natives), string interning, and value printing.
package value

// Kind identifies which alternative of the tagged union a Value holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindNumber
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union manipulated by the machine's stacks and by each
// Function's materialized constant pool. Only one of the payload fields is meaningful,
// selected by Kind: num holds the bool (0/1) or number payload, Obj holds
// the heap handle.
type Value struct {
	Kind Kind
	num  float64
	Obj  Object
}

// None is the singular none value.
var None = Value{Kind: KindNone}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	var n float64
	if b {
		n = 1
	}
	return Value{Kind: KindBool, num: n}
}

// Number constructs a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, num: n} }

// FromObject wraps a heap object as a Value.
func FromObject(o Object) Value { return Value{Kind: KindObject, Obj: o} }

// AsBool returns the boolean payload. Only meaningful when Kind == KindBool.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns the numeric payload. Only meaningful when Kind == KindNumber.
func (v Value) AsNumber() float64 { return v.num }

// AsString reports whether v holds a *String, returning it if so.
func (v Value) AsString() (*String, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	s, ok := v.Obj.(*String)
	return s, ok
}

// AsList reports whether v holds a *List, returning it if so.
func (v Value) AsList() (*List, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	l, ok := v.Obj.(*List)
	return l, ok
}

// AsFunction reports whether v holds a *Function, returning it if so.
func (v Value) AsFunction() (*Function, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	f, ok := v.Obj.(*Function)
	return f, ok
}

// AsNative reports whether v holds a *Native, returning it if so.
func (v Value) AsNative() (*Native, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	n, ok := v.Obj.(*Native)
	return n, ok
}

// Callable reports whether v can be the target of a CALL instruction, i.e.
// whether it holds a *Function or a *Native.
func (v Value) Callable() bool {
	if v.Kind != KindObject {
		return false
	}
	switch v.Obj.(type) {
	case *Function, *Native:
		return true
	default:
		return false
	}
}

// TypeName names v's type the way runtime error messages do.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		switch v.Obj.(type) {
		case *String:
			return "string"
		case *List:
			return "list"
		case *Function:
			return "function"
		case *Native:
			return "native"
		}
	}
	return "unknown"
}

// IsFalsey implements the spec's truthiness rule: none, false, numeric
// zero (either IEEE-754 sign), the empty string, and the empty list are
// falsey; everything else is truthy.
func IsFalsey(v Value) bool {
	switch v.Kind {
	case KindNone:
		return true
	case KindBool:
		return !v.AsBool()
	case KindNumber:
		return v.AsNumber() == 0
	case KindObject:
		switch o := v.Obj.(type) {
		case *String:
			return len(o.Chars) == 0
		case *List:
			return len(o.Items) == 0
		}
	}
	return false
}

// Equal implements values_equal: false across differing kinds; otherwise
// by value for none/bool/number, and by pointer identity for objects
// (valid for strings because they are interned).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindBool:
		return a.AsBool() == b.AsBool()
	case KindNumber:
		return a.AsNumber() == b.AsNumber()
	case KindObject:
		return a.Obj == b.Obj
	default:
		return false
	}
}
