package jack

// Kind is the closed set of Jack variable kinds, each with its own
// lifetime and counter, and each mapping onto exactly one VM segment
// (see VMSegment below).
type Kind int

const (
	InvalidKind Kind = iota
	Static
	Field
	Arg
	Var
)

// VMSegment returns the fixed VM memory segment backing variables of this
// kind (spec.md §3's Kind→VMSegment mapping).
func (k Kind) VMSegment() Segment {
	switch k {
	case Static:
		return SegStatic
	case Field:
		return SegThis
	case Arg:
		return SegArgument
	case Var:
		return SegLocal
	default:
		return ""
	}
}

// Symbol is one entry in a SymbolTable: a declared name's type, kind, and
// its index within that kind's scope at the time it was declared.
type Symbol struct {
	Name  string
	Type  string
	Kind  Kind
	Index MachineWord
}
