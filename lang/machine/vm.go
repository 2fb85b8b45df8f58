// Package machine implements the stack-based virtual machine that executes
// compiled chunks: instruction dispatch, the value and call-frame stacks,
// the globals table, the native function registry, and the object heap
// (via the value package).
package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/arlyon/fen/lang/compiler"
	"github.com/arlyon/fen/lang/value"
	"github.com/dolthub/swiss"
)

// VM is a single, sequential interpreter instance. It owns its own heap,
// globals table, and stacks; nothing about it is safe to drive from two
// goroutines at once (the language has no concurrency model).
type VM struct {
	// Stdout and Stderr are where print output and runtime-error stack
	// traces are written, respectively. os.Stdout/os.Stderr are used if nil.
	Stdout io.Writer
	Stderr io.Writer

	heap    *value.Heap
	globals *swiss.Map[string, value.Value]

	frames []callFrame
	stack  []value.Value
}

// New returns a VM with its native registry already installed.
func New() *VM {
	vm := &VM{
		heap:    value.NewHeap(),
		globals: swiss.NewMap[string, value.Value](8),
		frames:  make([]callFrame, 0, MaxFrames),
		stack:   make([]value.Value, 0, MaxStack),
	}
	vm.defineNatives()
	return vm
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

func (vm *VM) stderr() io.Writer {
	if vm.Stderr != nil {
		return vm.Stderr
	}
	return os.Stderr
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
}

// Interpret compiles source and, if compilation succeeds, runs it to
// completion (or to the first unrecovered runtime error).
func (vm *VM) Interpret(source string) (InterpretResult, error) {
	proto, err := compiler.Compile(source)
	if err != nil {
		fmt.Fprintln(vm.stderr(), err)
		return InterpretCompileError, err
	}

	fn := vm.loadFunction(proto)
	vm.push(value.FromObject(fn))
	vm.frames = append(vm.frames, callFrame{fn: fn, ip: 0, slotsBase: 0})

	return vm.run()
}
