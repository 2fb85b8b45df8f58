package value_test

import (
	"testing"

	"github.com/arlyon/fen/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestIsFalsey(t *testing.T) {
	h := value.NewHeap()
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"none", value.None, true},
		{"false", value.Bool(false), true},
		{"true", value.Bool(true), false},
		{"zero", value.Number(0), true},
		{"neg zero", value.Number(-0.0), true},
		{"nonzero", value.Number(1), false},
		{"empty string", value.FromObject(h.InternString("")), true},
		{"nonempty string", value.FromObject(h.InternString("a")), false},
		{"empty list", value.FromObject(h.NewList(nil)), true},
		{"nonempty list", value.FromObject(h.NewList([]value.Value{value.Number(1)})), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, value.IsFalsey(c.v))
		})
	}
}

func TestEqualDiffersByKind(t *testing.T) {
	assert.False(t, value.Equal(value.None, value.Bool(false)))
	assert.False(t, value.Equal(value.Number(0), value.Bool(false)))
}

func TestEqualNone(t *testing.T) {
	assert.True(t, value.Equal(value.None, value.None))
}

func TestEqualNumbersAndBools(t *testing.T) {
	assert.True(t, value.Equal(value.Number(3), value.Number(3)))
	assert.False(t, value.Equal(value.Number(3), value.Number(4)))
	assert.True(t, value.Equal(value.Bool(true), value.Bool(true)))
}

func TestEqualStringsByInternedIdentity(t *testing.T) {
	h := value.NewHeap()
	a := value.FromObject(h.InternString("hello"))
	b := value.FromObject(h.InternString("hello"))
	assert.True(t, value.Equal(a, b))
}

func TestEqualListsByIdentityNotContent(t *testing.T) {
	h := value.NewHeap()
	a := value.FromObject(h.NewList([]value.Value{value.Number(1)}))
	b := value.FromObject(h.NewList([]value.Value{value.Number(1)}))
	assert.False(t, value.Equal(a, b), "distinct list objects with equal contents are not equal")
	assert.True(t, value.Equal(a, a))
}

func TestTypeName(t *testing.T) {
	h := value.NewHeap()
	assert.Equal(t, "none", value.None.TypeName())
	assert.Equal(t, "bool", value.Bool(true).TypeName())
	assert.Equal(t, "number", value.Number(1).TypeName())
	assert.Equal(t, "string", value.FromObject(h.InternString("x")).TypeName())
	assert.Equal(t, "list", value.FromObject(h.NewList(nil)).TypeName())
}
