package asm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Assemble translates commands into Hack machine code, writing one
// 16-character binary line per A/C-instruction to w (label declarations
// consume no output). It runs the three passes spec.md §4.6 describes:
//
//  1. Walk the commands counting ROM words, binding every label
//     declaration to the ROM address of the instruction that follows it.
//  2. Walk again, allocating a RAM address (starting at 16) to every
//     symbolic A-instruction operand not already known — not a label
//     from pass one, not a predefined symbol, and not a decimal literal.
//  3. Walk a third time, emitting each A/C-instruction's 16-bit code.
func Assemble(commands []Command, w io.Writer) error {
	symbols := NewSymbolTable()

	bindLabels(commands, symbols)
	if err := allocateVariables(commands, symbols); err != nil {
		return err
	}
	return emit(commands, symbols, w)
}

func bindLabels(commands []Command, symbols *SymbolTable) {
	romAddr := uint16(0)
	for _, cmd := range commands {
		switch v := cmd.(type) {
		case LabelDecl:
			symbols.Define(v.Name, romAddr)
		case AInstruction, CInstruction:
			romAddr++
		}
	}
}

func allocateVariables(commands []Command, symbols *SymbolTable) error {
	nextRAM := uint16(16)
	for _, cmd := range commands {
		a, ok := cmd.(AInstruction)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(a.Value); err == nil {
			continue // numeric literal, not a symbol
		}
		if symbols.Contains(a.Value) {
			continue // already a label or predefined symbol
		}
		if nextRAM >= 16384 {
			return errors.Errorf("variable %q exceeds available RAM", a.Value)
		}
		symbols.Define(a.Value, nextRAM)
		nextRAM++
	}
	return nil
}

func emit(commands []Command, symbols *SymbolTable, w io.Writer) error {
	for _, cmd := range commands {
		switch v := cmd.(type) {
		case LabelDecl:
			continue
		case AInstruction:
			address, err := resolveAddress(v.Value, symbols)
			if err != nil {
				return err
			}
			if err := writeLine(w, EncodeA(address)); err != nil {
				return err
			}
		case CInstruction:
			code, err := EncodeC(v.Dest, v.Comp, v.Jump)
			if err != nil {
				return errors.Wrapf(err, "encoding dest=%q comp=%q jump=%q", v.Dest, v.Comp, v.Jump)
			}
			if err := writeLine(w, code); err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown command %T", cmd)
		}
	}
	return nil
}

func resolveAddress(value string, symbols *SymbolTable) (uint16, error) {
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n > 32767 {
			return 0, errors.Errorf("address %d out of range [0, 32767]", n)
		}
		return uint16(n), nil
	}
	addr, ok := symbols.Lookup(value)
	if !ok {
		return 0, errors.Errorf("unresolved symbol %q", value)
	}
	return addr, nil
}

func writeLine(w io.Writer, code uint16) error {
	_, err := fmt.Fprintf(w, "%016b\n", code)
	return err
}
