package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkipsBlankLinesAndComments(t *testing.T) {
	src := `
// push two constants and add them
push constant 7

push constant 8 // inline
add
`
	commands, err := Parse(strings.NewReader(src), "Add.vm")
	require.NoError(t, err)
	require.Len(t, commands, 3)
	assert.Equal(t, Push{Segment: Constant, Index: 7}, commands[0])
	assert.Equal(t, Push{Segment: Constant, Index: 8}, commands[1])
	assert.Equal(t, Arithmetic{Op: Add}, commands[2])
}

func TestParseAllCommandForms(t *testing.T) {
	src := `
push local 0
pop argument 1
label LOOP
goto LOOP
if-goto LOOP
function Main.run 2
call Main.helper 1
return
`
	commands, err := Parse(strings.NewReader(src), "t.vm")
	require.NoError(t, err)
	require.Len(t, commands, 8)
	assert.Equal(t, Push{Segment: Local, Index: 0}, commands[0])
	assert.Equal(t, Pop{Segment: Argument, Index: 1}, commands[1])
	assert.Equal(t, Label{Name: "LOOP"}, commands[2])
	assert.Equal(t, Goto{Name: "LOOP"}, commands[3])
	assert.Equal(t, If{Name: "LOOP"}, commands[4])
	assert.Equal(t, Function{Name: "Main.run", NLocals: 2}, commands[5])
	assert.Equal(t, Call{Name: "Main.helper", NArgs: 1}, commands[6])
	assert.Equal(t, Return{}, commands[7])
}

func TestParseRejectsPopConstant(t *testing.T) {
	_, err := Parse(strings.NewReader("pop constant 0\n"), "bad.vm")
	assert.Error(t, err)
}

func TestParseRejectsUnknownSegment(t *testing.T) {
	_, err := Parse(strings.NewReader("push nowhere 0\n"), "bad.vm")
	assert.Error(t, err)
}

func TestParseRejectsMalformedArithmetic(t *testing.T) {
	_, err := Parse(strings.NewReader("add 1\n"), "bad.vm")
	assert.Error(t, err)
}
