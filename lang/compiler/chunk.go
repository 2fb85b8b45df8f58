package compiler

import "github.com/arlyon/fen/lang/token"

// MaxConstants is the largest number of constants a single chunk may hold;
// constant indices are encoded as a single byte.
const MaxConstants = 256

// MaxJumpOffset is the largest distance a JUMP/JUMP_IF_FALSE/LOOP may cover;
// offsets are encoded as a 2-byte unsigned operand.
const MaxJumpOffset = 1<<16 - 1

// A Chunk is a function's compiled body: an append-only byte stream, a
// parallel per-byte line table (spec invariant 1: lines[p] is the source
// line that emitted the instruction at p), and a constant pool.
//
// Constants are raw Go values at this layer, not yet interned or boxed:
// float64 for numbers, string for string literals, and *FunctionProto for
// nested function definitions. The machine package materializes these into
// runtime values (interning strings, wrapping protos in callable objects)
// when a Function is built from a FunctionProto, so the compiler never needs to
// know about the runtime value representation.
type Chunk struct {
	Code      []byte
	Lines     []token.Pos
	Constants []any
}

// Write appends a single byte to the chunk, recording the source line that
// produced it.
func (c *Chunk) Write(b byte, line token.Pos) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index. There is
// no deduplication beyond what string interning provides at load time.
func (c *Chunk) AddConstant(v any) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// FunctionProto is the compile-time representation of a function: its
// arity, optional name (empty for the top-level script), and compiled body.
// Functions are immutable after compilation.
type FunctionProto struct {
	Name   string
	Arity  int
	Chunk  *Chunk
}
