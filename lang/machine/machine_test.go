package machine_test

import (
	"bytes"
	"testing"

	"github.com/arlyon/fen/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (stdout, stderr string, result machine.InterpretResult) {
	t.Helper()
	var out, errBuf bytes.Buffer
	vm := machine.New()
	vm.Stdout = &out
	vm.Stderr = &errBuf
	res, _ := vm.Interpret(source)
	return out.String(), errBuf.String(), res
}

func TestArithmeticPrecedence(t *testing.T) {
	out, _, res := run(t, "print(1 + 2 * 3);")
	require.Equal(t, machine.InterpretOK, res)
	assert.Equal(t, "7", out)
}

func TestMultiVarDeclarationAndAssignment(t *testing.T) {
	out, _, res := run(t, "var a, b = 10; a = b + 1; print(a);")
	require.Equal(t, machine.InterpretOK, res)
	assert.Equal(t, "11", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, stderr, res := run(t, `
def fib(n):
  if n < 2: return n; end
  return fib(n-1) + fib(n-2);
end
print(fib(10));
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "55", out)
}

func TestListMutationAndSubscript(t *testing.T) {
	out, stderr, res := run(t, `
var xs = [1,2,3];
append(xs, 4);
xs[0] = 9;
print(xs);
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "[9, 2, 3, 4]", out)
}

func TestWhileBreak(t *testing.T) {
	out, stderr, res := run(t, `
var i = 0;
while i < 5:
  if i == 3: break; end
  i = i + 1;
end
print(i);
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "3", out)
}

func TestStringConcatAndEscapes(t *testing.T) {
	out, stderr, res := run(t, `print("foo" + "bar");`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "foobar", out)

	out2, stderr2, res2 := run(t, `print("a\nb");`)
	require.Equal(t, machine.InterpretOK, res2, stderr2)
	assert.Equal(t, "a\nb", out2)
}

func TestWhileContinue(t *testing.T) {
	out, stderr, res := run(t, `
var i = 0;
var total = 0;
while i < 5:
  i = i + 1;
  if i == 3: continue; end
  total = total + i;
end
print(total);
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "12", out) // 1+2+4+5, skipping 3
}

func TestShortCircuitAnd(t *testing.T) {
	out, stderr, res := run(t, `
def sideEffect():
  print("called");
  return true;
end
false and sideEffect();
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "", out, "rhs of 'and' must not run when lhs is falsey")
}

func TestShortCircuitOr(t *testing.T) {
	out, stderr, res := run(t, `
def sideEffect():
  print("called");
  return true;
end
true or sideEffect();
`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "", out, "rhs of 'or' must not run when lhs is truthy")
}

func TestUndefinedGlobalRead(t *testing.T) {
	_, stderr, res := run(t, `print(missing);`)
	assert.Equal(t, machine.InterpretRuntimeError, res)
	assert.Contains(t, stderr, "Undefined variable 'missing'.")
	assert.Contains(t, stderr, "[line 1] in script")
}

func TestTypeMismatchArithmetic(t *testing.T) {
	_, stderr, res := run(t, `print(1 + true);`)
	assert.Equal(t, machine.InterpretRuntimeError, res)
	assert.Contains(t, stderr, "Operands must be two numbers or two strings.")
}

func TestCallArityMismatch(t *testing.T) {
	_, stderr, res := run(t, `
def f(a, b): return a + b; end
f(1);
`)
	assert.Equal(t, machine.InterpretRuntimeError, res)
	assert.Contains(t, stderr, "Expected 2 arguments but got 1.")
}

func TestListIndexOutOfRange(t *testing.T) {
	_, stderr, res := run(t, `
var xs = [1,2];
print(xs[5]);
`)
	assert.Equal(t, machine.InterpretRuntimeError, res)
	assert.Contains(t, stderr, "List index out of range.")
}

func TestModOperator(t *testing.T) {
	out, stderr, res := run(t, `print(-7 % 3);`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "2", out, "mod takes the sign of the divisor")
}

func TestExponentRightAssociative(t *testing.T) {
	out, stderr, res := run(t, `print(2 ** 3 ** 2);`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "512", out, "2**(3**2) == 512, not (2**3)**2 == 64")
}

func TestBitwiseOperators(t *testing.T) {
	out, stderr, res := run(t, `print(6 & 3); print(6 | 1); print(5 ^ 1); print(1 << 4); print(256 >> 4); print(~0);`)
	require.Equal(t, machine.InterpretOK, res, stderr)
	assert.Equal(t, "2741616-1", out)
}

func TestCompileErrorReturnsNilAndReports(t *testing.T) {
	_, stderr, res := run(t, `var = ;`)
	assert.Equal(t, machine.InterpretCompileError, res)
	assert.NotEmpty(t, stderr)
}
