package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeC(t *testing.T) {
	code, err := EncodeC("D", "D+A", "")
	require.NoError(t, err)
	assert.Equal(t, uint16(0b1110000010010000), code)

	code, err = EncodeC("", "0", "JMP")
	require.NoError(t, err)
	assert.Equal(t, uint16(0b1110101010000111), code)
}

func TestEncodeCUnknownFields(t *testing.T) {
	_, err := EncodeC("", "bogus", "")
	assert.Error(t, err)

	_, err = EncodeC("XX", "0", "")
	assert.Error(t, err)

	_, err = EncodeC("", "0", "JXX")
	assert.Error(t, err)
}

func TestEncodeA(t *testing.T) {
	assert.Equal(t, uint16(0), EncodeA(0))
	assert.Equal(t, uint16(256), EncodeA(256))
	assert.Equal(t, uint16(32767), EncodeA(32767))
}

func TestShiftCompsAreDistinctFromStandardTable(t *testing.T) {
	seen := make(map[uint8]string)
	for mnemonic, code := range compTable {
		if other, ok := seen[code]; ok {
			t.Fatalf("comp code %07b shared by %q and %q", code, mnemonic, other)
		}
		seen[code] = mnemonic
	}
}

func TestBuiltinSymbols(t *testing.T) {
	syms := NewSymbolTable()
	cases := map[string]uint16{
		"SP": 0, "LCL": 1, "ARG": 2, "THIS": 3, "THAT": 4,
		"R0": 0, "R15": 15, "SCREEN": 16384, "KBD": 24576,
	}
	for name, want := range cases {
		got, ok := syms.Lookup(name)
		require.True(t, ok, "missing predefined symbol %q", name)
		assert.Equal(t, want, got)
	}
}
