package value

// NativeFn is the signature of a native (built-in) callable. Natives
// validate their own argument count and types and return an error for the
// machine to surface as a runtime error — the native registry itself does
// not enforce arity.
type NativeFn func(args []Value) (Value, error)

// Native wraps a Go function so it can be called like any other function
// value.
type Native struct {
	Header
	Name string
	Fn   NativeFn
}

func (n *Native) ObjKind() ObjKind { return ObjKindNative }
