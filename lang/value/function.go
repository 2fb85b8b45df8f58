package value

import "github.com/arlyon/fen/lang/compiler"

// Function is an immutable, compiled function value: an arity, an optional
// name (empty for the top-level script, printed as "<script>"), the chunk
// of bytecode produced by the compiler for its body, and that chunk's
// constant pool materialized into runtime Values (numbers boxed, strings
// interned, nested function prototypes recursively wrapped as Functions).
type Function struct {
	Header
	Name      string
	Arity     int
	Chunk     *compiler.Chunk
	Constants []Value
}

func (f *Function) ObjKind() ObjKind { return ObjKindFunction }
