package machine

import (
	"errors"
	"fmt"
	"time"

	"github.com/arlyon/fen/lang/value"
)

var processStart = time.Now()

// defineNatives installs the fixed native registry: print, clock, append,
// delete. Unlike the source this is based on, every native validates its
// own argument count and types explicitly and returns an error rather than
// silently doing nothing on bad input.
func (vm *VM) defineNatives() {
	vm.defineNative("print", vm.nativePrint)
	vm.defineNative("clock", nativeClock)
	vm.defineNative("append", nativeAppend)
	vm.defineNative("delete", nativeDelete)
}

func (vm *VM) defineNative(name string, fn value.NativeFn) {
	native := vm.heap.NewNative(name, fn)
	vm.globals.Put(name, value.FromObject(native))
}

func (vm *VM) nativePrint(args []value.Value) (value.Value, error) {
	for _, a := range args {
		fmt.Fprint(vm.stdout(), value.FormatValue(a))
	}
	return value.None, nil
}

func nativeClock(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.None, fmt.Errorf("clock() expects 0 arguments, got %d", len(args))
	}
	return value.Number(time.Since(processStart).Seconds()), nil
}

func nativeAppend(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.None, fmt.Errorf("append() expects 2 arguments, got %d", len(args))
	}
	list, ok := args[0].AsList()
	if !ok {
		return value.None, errors.New("append() expects a list as its first argument")
	}
	list.Items = append(list.Items, args[1])
	return value.None, nil
}

func nativeDelete(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.None, fmt.Errorf("delete() expects 2 arguments, got %d", len(args))
	}
	list, ok := args[0].AsList()
	if !ok {
		return value.None, errors.New("delete() expects a list as its first argument")
	}
	if !args[1].IsNumber() {
		return value.None, errors.New("delete() expects a number as its second argument")
	}
	idx := int(args[1].AsNumber())
	if idx < 0 || idx >= len(list.Items) {
		return value.None, errors.New("delete() index out of range")
	}
	list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
	return value.None, nil
}
