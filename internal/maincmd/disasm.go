package maincmd

import (
	"context"
	"fmt"

	"github.com/arlyon/fen/lang/compiler"
	"github.com/mna/mainer"
)

// Disasm compiles a single file and prints the disassembly of its
// top-level chunk and every nested function's chunk.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	_ = ctx

	source, err := readSourceFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	proto, err := compiler.Compile(source)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return &exitCodeError{code: exitCompileError, err: err}
	}

	fmt.Fprint(stdio.Stdout, compiler.Disassemble(proto))
	return nil
}
