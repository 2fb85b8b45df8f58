package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders proto and every function nested in its constant pool
// as human-readable text: one line per instruction, decoded operands, and a
// listing of the constant pool. It is ambient tooling only — nothing on the
// compile/execute path calls it — used by tests and the disasm CLI
// subcommand.
func Disassemble(proto *FunctionProto) string {
	var b strings.Builder
	disassembleFunction(&b, proto)
	return b.String()
}

func disassembleFunction(b *strings.Builder, proto *FunctionProto) {
	name := proto.Name
	if name == "" {
		name = "<script>"
	}
	fmt.Fprintf(b, "function: %s arity=%d\n", name, proto.Arity)

	if len(proto.Chunk.Constants) > 0 {
		b.WriteString("\tconstants:\n")
		for i, c := range proto.Chunk.Constants {
			switch c := c.(type) {
			case float64:
				fmt.Fprintf(b, "\t\tfloat\t%g\t# %03d\n", c, i)
			case string:
				fmt.Fprintf(b, "\t\tstring\t%q\t# %03d\n", c, i)
			case *FunctionProto:
				fmt.Fprintf(b, "\t\tfunction\t%s\t# %03d\n", c.Name, i)
			default:
				fmt.Fprintf(b, "\t\t?\t%v\t# %03d\n", c, i)
			}
		}
	}

	b.WriteString("\tcode:\n")
	code := proto.Chunk.Code
	for offset := 0; offset < len(code); {
		offset = disassembleInstruction(b, proto, offset)
	}

	var nested []*FunctionProto
	for _, c := range proto.Chunk.Constants {
		if fp, ok := c.(*FunctionProto); ok {
			nested = append(nested, fp)
		}
	}
	for _, fp := range nested {
		b.WriteString("\n")
		disassembleFunction(b, fp)
	}
}

// disassembleInstruction writes one decoded instruction starting at offset
// and returns the offset of the next one.
func disassembleInstruction(b *strings.Builder, proto *FunctionProto, offset int) int {
	code := proto.Chunk.Code
	op := Opcode(code[offset])
	line := proto.Chunk.Lines[offset]

	fmt.Fprintf(b, "\t\t%04d line=%d %s", offset, line, op)

	switch size := OperandSize(op); {
	case size == 2:
		arg := readUint16(code, offset+1)
		fmt.Fprintf(b, " %d", arg)
		b.WriteString("\n")
		return offset + 1 + size
	case op == CONSTANT:
		idx := code[offset+1]
		fmt.Fprintf(b, " %d (%s)", idx, formatConstant(proto.Chunk.Constants[idx]))
		b.WriteString("\n")
		return offset + 1 + size
	case size == 1:
		arg := code[offset+1]
		fmt.Fprintf(b, " %d", arg)
		b.WriteString("\n")
		return offset + 1 + size
	default:
		b.WriteString("\n")
		return offset + 1
	}
}

func formatConstant(c any) string {
	switch c := c.(type) {
	case float64:
		return fmt.Sprintf("%g", c)
	case string:
		return fmt.Sprintf("%q", c)
	case *FunctionProto:
		if c.Name == "" {
			return "<script>"
		}
		return "<fn " + c.Name + ">"
	default:
		return fmt.Sprintf("%v", c)
	}
}

func readUint16(code []byte, at int) int {
	return int(code[at])<<8 | int(code[at+1])
}
