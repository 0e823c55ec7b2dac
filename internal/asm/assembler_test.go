package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bklein/n2t/internal/testutil"
)

// addTwoConstants is the classic "2+3, store at 0" add program, grounded
// on spec.md §8's concrete scenario list.
const addTwoConstants = `
@2
D=A
@3
D=D+A
@0
M=D
`

func TestAssembleAddTwoConstants(t *testing.T) {
	commands, err := Parse(strings.NewReader(addTwoConstants), "Add.asm")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Assemble(commands, &out))

	testutil.DiffGolden(t, "testdata/add_two_constants.hack", out.String())
}

func TestAssembleAllocatesVariablesStartingAt16(t *testing.T) {
	src := `
@foo
M=0
@bar
M=0
@foo
D=M
`
	commands, err := Parse(strings.NewReader(src), "Vars.asm")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Assemble(commands, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	// @foo (16) -> 0000000000010000
	assert.Equal(t, "0000000000010000", lines[0])
	// @bar (17) -> 0000000000010001
	assert.Equal(t, "0000000000010001", lines[2])
	// @foo referenced again resolves to the same address
	assert.Equal(t, lines[0], lines[4])
}

func TestAssembleResolvesForwardLabelReferences(t *testing.T) {
	src := `
@LOOP
0;JMP
(LOOP)
@LOOP
0;JMP
`
	commands, err := Parse(strings.NewReader(src), "Loop.asm")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Assemble(commands, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	// LOOP is bound to ROM address 2 (the instruction right after the
	// first jump, since the label declaration itself consumes no word).
	assert.Equal(t, "0000000000000010", lines[0])
	assert.Equal(t, lines[0], lines[2])
}

func TestAssembleAllLinesAre16Bits(t *testing.T) {
	commands, err := Parse(strings.NewReader(addTwoConstants), "Add.asm")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Assemble(commands, &out))

	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.Len(t, line, 16)
		for _, r := range line {
			assert.Contains(t, "01", string(r))
		}
	}
}

func TestAssembleRejectsOutOfRangeAddress(t *testing.T) {
	// A decimal literal out of [0, 32767] is a resolve-time error, not a
	// parse-time one: the parser doesn't distinguish symbols from
	// literals by range.
	commands, err := Parse(strings.NewReader("@99999\n"), "bad.asm")
	require.NoError(t, err)

	var out strings.Builder
	assert.Error(t, Assemble(commands, &out))
}
