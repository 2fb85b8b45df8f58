package machine

import (
	"fmt"

	"github.com/arlyon/fen/lang/compiler"
	"github.com/arlyon/fen/lang/value"
)

// loadFunction materializes a compiled prototype's constant pool into
// runtime Values — boxing numbers, interning strings, and recursively
// wrapping nested prototypes as Functions of their own — and returns the
// resulting callable object. Each prototype is wrapped exactly once, when
// it is first reached as a CONSTANT of its enclosing function.
func (vm *VM) loadFunction(proto *compiler.FunctionProto) *value.Function {
	constants := make([]value.Value, len(proto.Chunk.Constants))
	for i, c := range proto.Chunk.Constants {
		switch cv := c.(type) {
		case float64:
			constants[i] = value.Number(cv)
		case string:
			constants[i] = value.FromObject(vm.heap.InternString(cv))
		case *compiler.FunctionProto:
			constants[i] = value.FromObject(vm.loadFunction(cv))
		default:
			panic(fmt.Sprintf("unexpected constant %T: %#v", c, c))
		}
	}
	return vm.heap.NewFunction(proto, constants)
}
