package machine

import (
	"errors"
	"fmt"
	"strings"
)

// runtimeError formats msg, prints it to stderr together with a stack
// trace (innermost frame first, spec §7.2), resets both VM stacks, and
// returns the error so the dispatch loop can report InterpretRuntimeError.
func (vm *VM) runtimeError(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	var trace strings.Builder
	trace.WriteString(msg)
	trace.WriteByte('\n')
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fr := vm.frames[i]
		line := fr.fn.Chunk.Lines[fr.ip-1]
		if fr.fn.Name == "" {
			fmt.Fprintf(&trace, "[line %d] in script\n", line)
		} else {
			fmt.Fprintf(&trace, "[line %d] in %s()\n", line, fr.fn.Name)
		}
	}

	fmt.Fprint(vm.stderr(), trace.String())
	vm.resetStack()
	return errors.New(msg)
}
