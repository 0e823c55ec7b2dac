package asm

import (
	"strconv"

	"github.com/pkg/errors"
)

func newUnknownFieldError(field, value string) error {
	return errors.Errorf("unknown %s field %q", field, value)
}

// compTable maps a C-instruction's comp mnemonic to its 7-bit code — the
// a-bit (selects A vs M) followed by the six c-bits — per the Hack ISA.
// The 28 standard entries are split by the a-bit: the 18 a=0 entries
// operate on A, the 10 a=1 entries substitute M for A.
//
// shiftleft/shiftright (M<< and M>>) are this toolchain's one platform
// extension beyond the textbook ISA (spec.md §4.6): there is no official
// Hack encoding for them, so they are assigned two 7-bit codes from the
// unused region of the a=1 half, consistent with how the rest of the
// table is laid out.
var compTable = map[string]uint8{
	// a = 0 (operand is A)
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,

	// a = 1 (operand is M)
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,

	// platform extension: shift (spec.md §4.6)
	"M<<": 0b1100000,
	"M>>": 0b1000001,
}

// destTable maps a dest mnemonic to its 3 bits (d1 d2 d3 = A D M).
var destTable = map[string]uint8{
	"":    0b000,
	"M":   0b001,
	"D":   0b010,
	"MD":  0b011,
	"A":   0b100,
	"AM":  0b101,
	"AD":  0b110,
	"AMD": 0b111,
}

// jumpTable maps a jump mnemonic to its 3 bits (j1 j2 j3 = < = >, i.e.
// less/equal/greater than zero).
var jumpTable = map[string]uint8{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

// EncodeC assembles a C-instruction's dest/comp/jump mnemonics into its
// 16-bit code: 111 followed by the 7 comp bits, 3 dest bits, 3 jump bits.
func EncodeC(dest, comp, jump string) (uint16, error) {
	c, ok := compTable[comp]
	if !ok {
		return 0, newUnknownFieldError("comp", comp)
	}
	d, ok := destTable[dest]
	if !ok {
		return 0, newUnknownFieldError("dest", dest)
	}
	j, ok := jumpTable[jump]
	if !ok {
		return 0, newUnknownFieldError("jump", jump)
	}
	return 0b111<<13 | uint16(c)<<6 | uint16(d)<<3 | uint16(j), nil
}

// EncodeA assembles an A-instruction's resolved numeric address into its
// 16-bit code: a single 0 bit followed by the 15-bit address.
func EncodeA(address uint16) uint16 {
	return address &^ (1 << 15)
}

// builtinSymbols is the Hack platform's 23 predefined symbols (spec.md
// §4.6): the virtual registers, the four segment pointers, and the two
// memory-mapped I/O addresses.
func builtinSymbols() map[string]uint16 {
	syms := map[string]uint16{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": 16384,
		"KBD":    24576,
	}
	for i := 0; i < 16; i++ {
		syms[registerName(i)] = uint16(i)
	}
	return syms
}

func registerName(i int) string {
	return "R" + strconv.Itoa(i)
}
