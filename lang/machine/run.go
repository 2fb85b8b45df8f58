package machine

import (
	"math"

	"github.com/arlyon/fen/lang/compiler"
	"github.com/arlyon/fen/lang/value"
)

// run is the instruction-dispatch loop: a tight `for { switch op }` reading
// a flat byte slice through an explicit program counter, exactly the shape
// the bytecode format is designed for. It returns once the top-level frame
// returns (InterpretOK) or an opcode raises a runtime error.
func (vm *VM) run() (InterpretResult, error) {
	for {
		frame := &vm.frames[len(vm.frames)-1]
		code := frame.fn.Chunk.Code

		op := compiler.Opcode(code[frame.ip])
		frame.ip++

		switch op {
		case compiler.NOP:
			// no-op

		case compiler.CONSTANT:
			idx := code[frame.ip]
			frame.ip++
			vm.push(frame.fn.Constants[idx])

		case compiler.NONE:
			vm.push(value.None)
		case compiler.TRUE:
			vm.push(value.Bool(true))
		case compiler.FALSE:
			vm.push(value.Bool(false))
		case compiler.POP:
			vm.pop()

		case compiler.GET_LOCAL:
			slot := int(code[frame.ip])
			frame.ip++
			vm.push(vm.stack[frame.slotsBase+slot])
		case compiler.SET_LOCAL:
			slot := int(code[frame.ip])
			frame.ip++
			vm.stack[frame.slotsBase+slot] = vm.peek(0)

		case compiler.GET_GLOBAL:
			name := vm.constantName(frame, code)
			v, ok := vm.globals.Get(name)
			if !ok {
				return InterpretRuntimeError, vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.push(v)
		case compiler.DEFINE_GLOBAL:
			name := vm.constantName(frame, code)
			vm.globals.Put(name, vm.peek(0))
			vm.pop()
		case compiler.SET_GLOBAL:
			name := vm.constantName(frame, code)
			if _, ok := vm.globals.Get(name); !ok {
				return InterpretRuntimeError, vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.globals.Put(name, vm.peek(0))

		case compiler.EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case compiler.GREATER:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Bool(a > b))
		case compiler.LESS:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Bool(a < b))

		case compiler.ADD:
			if err := vm.add(); err != nil {
				return InterpretRuntimeError, err
			}
		case compiler.SUBTRACT:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(a - b))
		case compiler.MULTIPLY:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(a * b))
		case compiler.DIVIDE:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(a / b))
		case compiler.INTDIV:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(math.Floor(a / b)))
		case compiler.MOD:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(a - b*math.Floor(a/b)))
		case compiler.POW:
			a, b, err := vm.popNumberPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(math.Pow(a, b)))

		case compiler.BAND:
			a, b, err := vm.popIntPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(float64(a & b)))
		case compiler.BOR:
			a, b, err := vm.popIntPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(float64(a | b)))
		case compiler.BXOR:
			a, b, err := vm.popIntPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(float64(a ^ b)))
		case compiler.LSHIFT:
			a, b, err := vm.popIntPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(float64(a << uint64(b&63))))
		case compiler.RSHIFT:
			a, b, err := vm.popIntPair()
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(value.Number(float64(a >> uint64(b&63))))
		case compiler.BNOT:
			v := vm.pop()
			if !v.IsNumber() {
				return InterpretRuntimeError, vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(float64(^int64(v.AsNumber()))))

		case compiler.NOT:
			vm.push(value.Bool(value.IsFalsey(vm.pop())))
		case compiler.NEGATE:
			v := vm.peek(0)
			if !v.IsNumber() {
				return InterpretRuntimeError, vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(value.Number(-v.AsNumber()))

		case compiler.BUILD_LIST:
			n := int(code[frame.ip])
			frame.ip++
			items := make([]value.Value, n)
			copy(items, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(value.FromObject(vm.heap.NewList(items)))

		case compiler.INDEX_SUBSCR:
			if err := vm.indexSubscr(); err != nil {
				return InterpretRuntimeError, err
			}
		case compiler.STORE_SUBSCR:
			if err := vm.storeSubscr(); err != nil {
				return InterpretRuntimeError, err
			}

		case compiler.JUMP:
			off := readShort(code, frame.ip)
			frame.ip += 2 + off
		case compiler.JUMP_IF_FALSE:
			off := readShort(code, frame.ip)
			frame.ip += 2
			if value.IsFalsey(vm.peek(0)) {
				frame.ip += off
			}
		case compiler.LOOP:
			off := readShort(code, frame.ip)
			frame.ip += 2 - off

		case compiler.CALL:
			argCount := int(code[frame.ip])
			frame.ip++
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return InterpretRuntimeError, err
			}

		case compiler.RETURN:
			result := vm.pop()
			finishedBase := vm.frames[len(vm.frames)-1].slotsBase
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop() // the top-level function itself
				return InterpretOK, nil
			}
			vm.stack = vm.stack[:finishedBase]
			vm.push(result)

		default:
			return InterpretRuntimeError, vm.runtimeError("illegal opcode %d", op)
		}
	}
}

func (vm *VM) constantName(frame *callFrame, code []byte) string {
	idx := code[frame.ip]
	frame.ip++
	s, _ := frame.fn.Constants[idx].AsString()
	return s.Chars
}

func readShort(code []byte, at int) int {
	return int(code[at])<<8 | int(code[at+1])
}

func (vm *VM) popNumberPair() (a, b float64, err error) {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return 0, 0, vm.runtimeError("Operands must be numbers.")
	}
	bv := vm.pop()
	av := vm.pop()
	return av.AsNumber(), bv.AsNumber(), nil
}

func (vm *VM) popIntPair() (a, b int64, err error) {
	af, bf, err := vm.popNumberPair()
	if err != nil {
		return 0, 0, err
	}
	return int64(af), int64(bf), nil
}

func (vm *VM) add() error {
	bs, bIsStr := vm.peek(0).AsString()
	as, aIsStr := vm.peek(1).AsString()
	if aIsStr && bIsStr {
		vm.pop()
		vm.pop()
		vm.push(value.FromObject(vm.heap.InternString(as.Chars + bs.Chars)))
		return nil
	}
	if vm.peek(0).IsNumber() && vm.peek(1).IsNumber() {
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
		return nil
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}

func (vm *VM) indexSubscr() error {
	idxVal := vm.pop()
	listVal := vm.pop()
	list, ok := listVal.AsList()
	if !ok {
		return vm.runtimeError("Invalid type to index into.")
	}
	if !idxVal.IsNumber() {
		return vm.runtimeError("List index is not a number.")
	}
	idx := int(idxVal.AsNumber())
	if idx < 0 || idx >= len(list.Items) {
		return vm.runtimeError("List index out of range.")
	}
	vm.push(list.Items[idx])
	return nil
}

func (vm *VM) storeSubscr() error {
	item := vm.pop()
	idxVal := vm.pop()
	listVal := vm.pop()
	list, ok := listVal.AsList()
	if !ok {
		return vm.runtimeError("Cannot store value in a non-list.")
	}
	if !idxVal.IsNumber() {
		return vm.runtimeError("List index is not a number.")
	}
	idx := int(idxVal.AsNumber())
	if idx < 0 || idx >= len(list.Items) {
		return vm.runtimeError("Invalid list index.")
	}
	list.Items[idx] = item
	vm.push(item)
	return nil
}

func (vm *VM) callValue(callee value.Value, argCount int) error {
	if fn, ok := callee.AsFunction(); ok {
		return vm.call(fn, argCount)
	}
	if native, ok := callee.AsNative(); ok {
		args := vm.stack[len(vm.stack)-argCount:]
		result, err := native.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		vm.push(result)
		return nil
	}
	return vm.runtimeError("Can only call functions and classes.")
}

func (vm *VM) call(fn *value.Function, argCount int) error {
	if argCount != fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if len(vm.frames) >= MaxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames = append(vm.frames, callFrame{fn: fn, ip: 0, slotsBase: len(vm.stack) - argCount - 1})
	return nil
}
