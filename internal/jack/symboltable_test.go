package jack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableClassScope(t *testing.T) {
	st := NewSymbolTable()
	st.Define("x", "int", Field)
	st.Define("y", "int", Field)
	st.Define("count", "int", Static)

	sym, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Symbol{Name: "x", Type: "int", Kind: Field, Index: 0}, sym)

	sym, ok = st.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, MachineWord(1), sym.Index)

	assert.Equal(t, MachineWord(2), st.VarCount(Field))
	assert.Equal(t, MachineWord(1), st.VarCount(Static))
}

func TestSymbolTableSubroutineScopeShadowsClassScope(t *testing.T) {
	st := NewSymbolTable()
	st.Define("x", "int", Field)

	st.StartSubroutine()
	st.Define("x", "boolean", Var)

	sym, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Var, sym.Kind)
	assert.Equal(t, "boolean", sym.Type)
}

func TestSymbolTableStartSubroutineClearsOnlySubroutineScope(t *testing.T) {
	st := NewSymbolTable()
	st.Define("field1", "int", Field)

	st.StartSubroutine()
	st.Define("arg1", "int", Arg)
	st.StartSubroutine()

	_, ok := st.Lookup("arg1")
	assert.False(t, ok, "subroutine scope should be cleared by StartSubroutine")

	_, ok = st.Lookup("field1")
	assert.True(t, ok, "class scope survives StartSubroutine")

	assert.Equal(t, MachineWord(0), st.VarCount(Arg))
}

func TestSymbolTableLookupMiss(t *testing.T) {
	st := NewSymbolTable()
	_, ok := st.Lookup("nope")
	assert.False(t, ok)
}

func TestKindVMSegment(t *testing.T) {
	assert.Equal(t, SegStatic, Static.VMSegment())
	assert.Equal(t, SegThis, Field.VMSegment())
	assert.Equal(t, SegArgument, Arg.VMSegment())
	assert.Equal(t, SegLocal, Var.VMSegment())
}
