package compiler

import "fmt"

// Opcode identifies a single bytecode instruction. Every opcode is encoded
// as exactly one byte; opcodes that take an operand are followed by that
// operand's bytes immediately (no padding, no variable-length encoding) —
// unlike a freevars/cells-aware bytecode, this language has no closures, so
// every instruction's operand width is fixed and known from the opcode
// alone.
type Opcode uint8

//nolint:revive
const (
	NOP Opcode = iota

	NONE // push the none value
	TRUE // push true
	FALSE // push false
	POP  // discard the top of stack

	EQUAL   // pop b,a; push a == b
	GREATER // pop b,a; push a > b
	LESS    // pop b,a; push a < b

	ADD      // pop b,a; push a + b (numbers or strings)
	SUBTRACT // pop b,a; push a - b
	MULTIPLY // pop b,a; push a * b
	DIVIDE   // pop b,a; push a / b
	INTDIV   // pop b,a; push floor(a / b)
	MOD      // pop b,a; push a mod b (sign of b)
	POW      // pop b,a; push a ** b

	BAND   // pop b,a; push a & b (as int64)
	BOR    // pop b,a; push a | b
	BXOR   // pop b,a; push a ^ b
	BNOT   // pop a; push ^a
	LSHIFT // pop b,a; push a << b
	RSHIFT // pop b,a; push a >> b

	NOT    // pop a; push is_falsey(a)
	NEGATE // pop a; push -a

	INDEX_SUBSCR // pop index,list; push list[index]
	STORE_SUBSCR // pop value,index,list; list[index] = value; push value

	RETURN // pop result, pop frame, resume caller (or halt at the top level)

	// OpcodeArgMin is the first opcode that reads an operand from the code
	// stream; every opcode below it carries no operand. All operand-carrying
	// opcodes are grouped contiguously from here to opcodeMax.

	CONSTANT // CONSTANT<k:1> — push constants[k]

	GET_LOCAL     // GET_LOCAL<slot:1> — push frame.slots[slot]
	SET_LOCAL     // SET_LOCAL<slot:1> — frame.slots[slot] = peek(0), does not pop
	GET_GLOBAL    // GET_GLOBAL<k:1> — push globals[constants[k]]
	DEFINE_GLOBAL // DEFINE_GLOBAL<k:1> — globals[constants[k]] = pop()
	SET_GLOBAL    // SET_GLOBAL<k:1> — globals[constants[k]] = peek(0), does not pop

	BUILD_LIST // BUILD_LIST<n:1> — pop n values, push a new list containing them in order

	JUMP          // JUMP<off:2> — ip += off
	JUMP_IF_FALSE // JUMP_IF_FALSE<off:2> — if is_falsey(peek(0)) then ip += off; does not pop
	LOOP          // LOOP<off:2> — ip -= off

	CALL // CALL<n:1> — call callee at peek(n) with n arguments

	opcodeMax
)

// OpcodeArgMin is the first opcode that reads an operand from the code
// stream. Opcodes before it carry no operand.
const OpcodeArgMin = CONSTANT

var opcodeNames = [...]string{
	NOP:           "nop",
	CONSTANT:      "constant",
	NONE:          "none",
	TRUE:          "true",
	FALSE:         "false",
	POP:           "pop",
	GET_LOCAL:     "get_local",
	SET_LOCAL:     "set_local",
	GET_GLOBAL:    "get_global",
	DEFINE_GLOBAL: "define_global",
	SET_GLOBAL:    "set_global",
	EQUAL:         "equal",
	GREATER:       "greater",
	LESS:          "less",
	ADD:           "add",
	SUBTRACT:      "subtract",
	MULTIPLY:      "multiply",
	DIVIDE:        "divide",
	INTDIV:        "intdiv",
	MOD:           "mod",
	POW:           "pow",
	BAND:          "band",
	BOR:           "bor",
	BXOR:          "bxor",
	BNOT:          "bnot",
	LSHIFT:        "lshift",
	RSHIFT:        "rshift",
	NOT:           "not",
	NEGATE:        "negate",
	BUILD_LIST:    "build_list",
	INDEX_SUBSCR:  "index_subscr",
	STORE_SUBSCR:  "store_subscr",
	JUMP:          "jump",
	JUMP_IF_FALSE: "jump_if_false",
	LOOP:          "loop",
	CALL:          "call",
	RETURN:        "return",
}

func (op Opcode) String() string {
	if op < opcodeMax {
		if s := opcodeNames[op]; s != "" {
			return s
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}

// jump opcodes take a fixed 2-byte big-endian operand (spec invariant 2);
// every other opcode at or above OpcodeArgMin takes a single byte (a
// constant index, a local slot, or an argument count).
func isJump(op Opcode) bool {
	return op == JUMP || op == JUMP_IF_FALSE || op == LOOP
}

// OperandSize returns the number of bytes occupied by op's operand, or 0 if
// op takes no operand.
func OperandSize(op Opcode) int {
	switch {
	case isJump(op):
		return 2
	case op >= OpcodeArgMin:
		return 1
	default:
		return 0
	}
}
