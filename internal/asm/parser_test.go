package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicProgram(t *testing.T) {
	src := `
// bootstrap
@256
D=A
@SP
M=D
(LOOP)
  @i // inline comment
  D=M
  @END
  D;JEQ
  @LOOP
  0;JMP
(END)
`
	commands, err := Parse(strings.NewReader(src), "test.asm")
	require.NoError(t, err)

	require.Len(t, commands, 12)
	assert.Equal(t, AInstruction{Value: "256"}, commands[0])
	assert.Equal(t, CInstruction{Dest: "D", Comp: "A"}, commands[1])
	assert.Equal(t, LabelDecl{Name: "LOOP"}, commands[4])
	assert.Equal(t, AInstruction{Value: "i"}, commands[5])
	assert.Equal(t, CInstruction{Dest: "D", Comp: "M"}, commands[6])
	assert.Equal(t, CInstruction{Comp: "0", Jump: "JMP"}, commands[10])
	assert.Equal(t, LabelDecl{Name: "END"}, commands[11])
}

func TestParseRejectsUnknownComp(t *testing.T) {
	_, err := Parse(strings.NewReader("D=Q\n"), "bad.asm")
	assert.Error(t, err)
}

func TestParseRejectsUnknownDest(t *testing.T) {
	_, err := Parse(strings.NewReader("XYZ=D\n"), "bad.asm")
	assert.Error(t, err)
}

func TestParseRejectsEmptyLabel(t *testing.T) {
	_, err := Parse(strings.NewReader("()\n"), "bad.asm")
	assert.Error(t, err)
}
