package asm

// SymbolTable resolves Hack assembly symbols to RAM/ROM addresses. It
// starts pre-seeded with the platform's 23 predefined symbols and grows
// as labels are bound (pass one) and variables are allocated (pass two).
// Symbols are case-sensitive: only C-instruction mnemonics are normalized
// elsewhere, never user symbols.
type SymbolTable struct {
	addresses map[string]uint16
}

// NewSymbolTable returns a SymbolTable pre-seeded with SP, LCL, ARG, THIS,
// THAT, R0-R15, SCREEN, and KBD.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addresses: builtinSymbols()}
}

// Define binds name to address, overwriting any previous binding.
func (t *SymbolTable) Define(name string, address uint16) {
	t.addresses[name] = address
}

// Contains reports whether name has a binding.
func (t *SymbolTable) Contains(name string) bool {
	_, ok := t.addresses[name]
	return ok
}

// Lookup returns name's bound address, if any.
func (t *SymbolTable) Lookup(name string) (uint16, bool) {
	addr, ok := t.addresses[name]
	return addr, ok
}
