package jack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIntValueRange(t *testing.T) {
	v, err := Token{Type: IntConst, Text: "32767"}.IntValue()
	assert.NoError(t, err)
	assert.Equal(t, MachineWord(32767), v)

	_, err = Token{Type: IntConst, Text: "32768"}.IntValue()
	assert.Error(t, err)

	_, err = Token{Type: Identifier, Text: "x"}.IntValue()
	assert.Error(t, err)
}

func TestTokenIs(t *testing.T) {
	tok := Token{Type: Keyword, Text: "class"}
	assert.True(t, tok.Is("class", "function"))
	assert.False(t, tok.Is("var"))

	str := Token{Type: StringConst, Text: "class"}
	assert.False(t, str.Is("class"))
}
