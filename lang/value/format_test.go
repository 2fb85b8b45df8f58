package value_test

import (
	"testing"

	"github.com/arlyon/fen/lang/compiler"
	"github.com/arlyon/fen/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumberWholeVsFractional(t *testing.T) {
	assert.Equal(t, "7", value.FormatValue(value.Number(7)))
	assert.Equal(t, "55", value.FormatValue(value.Number(55)))
	assert.Equal(t, "0.333333", value.FormatValue(value.Number(1.0/3.0)))
}

func TestFormatBoolAndNone(t *testing.T) {
	assert.Equal(t, "true", value.FormatValue(value.Bool(true)))
	assert.Equal(t, "false", value.FormatValue(value.Bool(false)))
	assert.Equal(t, "none", value.FormatValue(value.None))
}

func TestFormatStringNoEscapes(t *testing.T) {
	h := value.NewHeap()
	v := value.FromObject(h.InternString("foobar"))
	assert.Equal(t, "foobar", value.FormatValue(v))
}

func TestFormatStringProcessesEscapes(t *testing.T) {
	h := value.NewHeap()
	v := value.FromObject(h.InternString(`a\nb`))
	assert.Equal(t, "a\nb", value.FormatValue(v))
}

func TestFormatStringUnrecognizedEscapePrintsBackslashLiteral(t *testing.T) {
	h := value.NewHeap()
	v := value.FromObject(h.InternString(`a\qb`))
	assert.Equal(t, `a\qb`, value.FormatValue(v))
}

func TestFormatStringOctalAndHexEscapes(t *testing.T) {
	h := value.NewHeap()
	// \0dd takes exactly the 3 digits starting with the literal '0', so the
	// reachable range is octal 000-077 (decimal 0-63); \077 is '?' (0x3F).
	v := value.FromObject(h.InternString(`\077`))
	assert.Equal(t, "?", value.FormatValue(v))

	vx := value.FromObject(h.InternString(`\x41`))
	assert.Equal(t, "A", value.FormatValue(vx))
}

func TestFormatListNested(t *testing.T) {
	h := value.NewHeap()
	inner := h.NewList([]value.Value{value.Number(1), value.Number(2), value.Number(3), value.Number(4)})
	assert.Equal(t, "[1, 2, 3, 4]", value.FormatValue(value.FromObject(inner)))
}

func TestFormatFunction(t *testing.T) {
	h := value.NewHeap()
	script := h.NewFunction(&compiler.FunctionProto{Chunk: &compiler.Chunk{}}, nil)
	assert.Equal(t, "<script>", value.FormatValue(value.FromObject(script)))

	named := h.NewFunction(&compiler.FunctionProto{Name: "fib", Arity: 1, Chunk: &compiler.Chunk{}}, nil)
	assert.Equal(t, "<fn fib>", value.FormatValue(value.FromObject(named)))
}
