package jack

// SymbolTable holds two scopes — class scope (Static, Field; lifetime the
// entire class) and subroutine scope (Arg, Var; lifetime one subroutine) —
// each with its own monotonically-increasing per-kind counter.
//
// Lookups try subroutine scope first, then class scope, so subroutine
// names shadow class names.
type SymbolTable struct {
	class      map[string]Symbol
	subroutine map[string]Symbol

	nStatic, nField, nArg, nVar MachineWord
}

// NewSymbolTable returns an empty SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		class:      make(map[string]Symbol),
		subroutine: make(map[string]Symbol),
	}
}

// StartSubroutine clears subroutine scope and resets the Arg/Var counters
// to 0. Class scope and its counters are untouched.
func (s *SymbolTable) StartSubroutine() {
	s.subroutine = make(map[string]Symbol)
	s.nArg = 0
	s.nVar = 0
}

// Define inserts name into the scope implied by kind (class scope for
// Static/Field, subroutine scope for Arg/Var), assigning it the next index
// for that kind, and returns the resulting Symbol.
func (s *SymbolTable) Define(name, varType string, kind Kind) Symbol {
	var index MachineWord
	switch kind {
	case Static:
		index = s.nStatic
		s.nStatic++
	case Field:
		index = s.nField
		s.nField++
	case Arg:
		index = s.nArg
		s.nArg++
	case Var:
		index = s.nVar
		s.nVar++
	}

	sym := Symbol{Name: name, Type: varType, Kind: kind, Index: index}
	if kind == Static || kind == Field {
		s.class[name] = sym
	} else {
		s.subroutine[name] = sym
	}
	return sym
}

// VarCount returns the number of variables of kind defined so far in the
// scope that owns it.
func (s *SymbolTable) VarCount(kind Kind) MachineWord {
	switch kind {
	case Static:
		return s.nStatic
	case Field:
		return s.nField
	case Arg:
		return s.nArg
	case Var:
		return s.nVar
	default:
		return 0
	}
}

// Lookup returns the Symbol for name, trying subroutine scope first, then
// class scope, and reports whether it was found. A false result is not
// necessarily an error: callers (subroutine-call resolution) interpret it
// as "this name is probably a class name", per spec.md §9.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	if sym, ok := s.subroutine[name]; ok {
		return sym, true
	}
	if sym, ok := s.class[name]; ok {
		return sym, true
	}
	return Symbol{}, false
}
