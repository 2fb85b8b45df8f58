package maincmd

import (
	"context"
	"fmt"

	"github.com/arlyon/fen/lang/machine"
	"github.com/arlyon/fen/lang/sanitizer"
	"github.com/mna/mainer"
)

// Run reads, optionally sanitizes, compiles and executes a single file,
// reporting the VM's InterpretResult as the process exit code (spec §6:
// 0 on success, 65 on compile error, 70 on runtime error).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	_ = ctx // interpretation is synchronous; no cancellation point exists yet

	source, err := readSourceFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if !c.NoSanitize {
		source = sanitizer.Sanitize(source)
	}

	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr

	result, err := vm.Interpret(source)
	switch result {
	case machine.InterpretOK:
		return nil
	case machine.InterpretCompileError:
		return &exitCodeError{code: exitCompileError, err: err}
	default:
		return &exitCodeError{code: exitRuntimeError, err: err}
	}
}
