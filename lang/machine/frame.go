package machine

import "github.com/arlyon/fen/lang/value"

// MaxFrames is the deepest nesting of call frames the machine allows
// (spec invariant 6).
const MaxFrames = 64

// MaxStack is the deepest the value stack may grow: MaxFrames frames times
// the largest number of local slots a single frame may hold.
const MaxStack = MaxFrames * 256

// callFrame is a single activation record: the function being executed, its
// instruction pointer (an index into fn.Chunk.Code), and slotsBase, the
// index into the shared value stack of this frame's slot 0 (the called
// function's own value, followed by its arguments, followed by its
// locals).
type callFrame struct {
	fn        *value.Function
	ip        int
	slotsBase int
}
