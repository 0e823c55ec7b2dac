package jack

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/bklein/n2t/internal/panicerr"
)

// SubroutineKind is the closed set of Jack subroutine declaration forms.
type SubroutineKind int

const (
	invalidSubroutine SubroutineKind = iota
	constructorSubroutine
	functionSubroutine
	methodSubroutine
)

// TokenScanner is the cursor interface a CompilationEngine consumes tokens
// through; *Tokenizer implements it, and tests may supply a fake.
type TokenScanner interface {
	Scan() bool
	Token() Token
	Err() error
}

// CompilationEngine is a recursive-descent parser for the Jack grammar
// (spec.md §6) with exactly one token of lookahead, emitting VM code as it
// parses rather than building an intermediate tree.
type CompilationEngine struct {
	scanner TokenScanner
	symbols *SymbolTable
	out     *VMWriter

	current   Token
	className string
	nextLabel uint64
}

// NewCompilationEngine returns a CompilationEngine reading tokens from
// scanner and emitting VM commands to out.
func NewCompilationEngine(scanner TokenScanner, out *VMWriter) *CompilationEngine {
	return &CompilationEngine{
		scanner: scanner,
		symbols: NewSymbolTable(),
		out:     out,
	}
}

// Compile parses exactly one Jack class from the token stream and emits
// its VM translation. The first syntactic violation is fatal and is
// returned as an error; there is no error recovery.
func (c *CompilationEngine) Compile() error {
	return panicerr.RecoverErr(func() error {
		c.advance()
		c.compileClass()
		return nil
	})
}

func (c *CompilationEngine) fail(format string, args ...interface{}) {
	panic(errors.Errorf(format, args...))
}

func (c *CompilationEngine) advance() {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			panic(err)
		}
		c.fail("unexpected end of input")
	}
	c.current = c.scanner.Token()
}

// consume checks that the current token's text matches each of terminals
// in turn, advancing past each one; with no arguments it just advances
// past whatever the current token is.
func (c *CompilationEngine) consume(terminals ...string) {
	if len(terminals) == 0 {
		c.advance()
		return
	}
	for _, term := range terminals {
		if !c.current.Is(term) {
			c.fail("expected %q but got %q", term, c.current.Text)
		}
		c.advance()
	}
}

func (c *CompilationEngine) expectIdentifier() string {
	if c.current.Type != Identifier {
		c.fail("expected identifier but got %q", c.current.Text)
	}
	name := c.current.Text
	c.advance()
	return name
}

// newLabelID returns a fresh, monotonically-increasing id used to make
// generated labels unique across the entire class (spec.md §4.3).
func (c *CompilationEngine) newLabelID() uint64 {
	id := c.nextLabel
	c.nextLabel++
	return id
}

// ----------------------------------------------------------------------------
// class := 'class' id '{' classVarDec* subroutineDec* '}'

func (c *CompilationEngine) compileClass() {
	c.consume("class")
	c.className = c.expectIdentifier()
	c.consume("{")

	for c.current.Is("static", "field") {
		c.compileClassVarDec()
	}
	for c.current.Is("constructor", "function", "method") {
		c.compileSubroutine()
	}

	if !c.current.Is("}") {
		c.fail("expected \"}\" but got %q", c.current.Text)
	}
	if c.scanner.Scan() {
		c.fail("unexpected token %q after end of class", c.scanner.Token().Text)
	}
}

// classVarDec := ('static'|'field') type id (',' id)* ';'

func (c *CompilationEngine) compileClassVarDec() {
	var kind Kind
	switch {
	case c.current.Is("static"):
		kind = Static
	case c.current.Is("field"):
		kind = Field
	default:
		c.fail("expected \"static\" or \"field\" but got %q", c.current.Text)
	}
	c.advance()

	varType := c.expectType()
	for {
		name := c.expectIdentifier()
		c.symbols.Define(name, varType, kind)
		if c.current.Is(",") {
			c.consume(",")
			continue
		}
		break
	}
	c.consume(";")
}

func (c *CompilationEngine) expectType() string {
	if c.current.Is("int", "char", "boolean") {
		t := c.current.Text
		c.advance()
		return t
	}
	return c.expectIdentifier()
}

// subroutine := ('constructor'|'function'|'method') ('void'|type) id
//               '(' paramList ')' '{' varDec* statements '}'

func (c *CompilationEngine) compileSubroutine() {
	c.symbols.StartSubroutine()

	var kind SubroutineKind
	switch {
	case c.current.Is("constructor"):
		kind = constructorSubroutine
	case c.current.Is("function"):
		kind = functionSubroutine
	case c.current.Is("method"):
		kind = methodSubroutine
	}
	c.advance()

	if kind == methodSubroutine {
		c.symbols.Define("this", c.className, Arg)
	}

	// return type: 'void' or a type; neither is needed for codegen.
	if c.current.Is("void") {
		c.advance()
	} else {
		c.expectType()
	}

	name := c.expectIdentifier()

	c.consume("(")
	if !c.current.Is(")") {
		c.compileParameterList()
	}
	c.consume(")")

	c.consume("{")
	var nLocals MachineWord
	for c.current.Is("var") {
		nLocals += c.compileVarDec()
	}

	c.out.WriteFunction(c.className+"."+name, nLocals)

	switch kind {
	case constructorSubroutine:
		nFields := c.symbols.VarCount(Field)
		c.out.WritePush(SegConstant, nFields)
		c.out.WriteCall("Memory.alloc", 1)
		c.out.WritePop(SegPointer, 0)
	case methodSubroutine:
		c.out.WritePush(SegArgument, 0)
		c.out.WritePop(SegPointer, 0)
	}

	c.compileStatements()
	c.consume("}")
}

// paramList := (type id (',' type id)*)?

func (c *CompilationEngine) compileParameterList() {
	for {
		varType := c.expectType()
		name := c.expectIdentifier()
		c.symbols.Define(name, varType, Arg)
		if c.current.Is(",") {
			c.consume(",")
			continue
		}
		break
	}
}

// varDec := 'var' type id (',' id)* ';'

func (c *CompilationEngine) compileVarDec() (count MachineWord) {
	c.consume("var")
	varType := c.expectType()
	for {
		name := c.expectIdentifier()
		c.symbols.Define(name, varType, Var)
		count++
		if c.current.Is(",") {
			c.consume(",")
			continue
		}
		break
	}
	c.consume(";")
	return count
}

// statement := let | if | while | do | return

func (c *CompilationEngine) compileStatements() {
	for {
		switch {
		case c.current.Is("let"):
			c.compileLet()
		case c.current.Is("if"):
			c.compileIf()
		case c.current.Is("while"):
			c.compileWhile()
		case c.current.Is("do"):
			c.compileDo()
		case c.current.Is("return"):
			c.compileReturn()
		default:
			return
		}
	}
}

func (c *CompilationEngine) compileLet() {
	c.consume("let")
	name := c.expectIdentifier()

	if c.current.Is("[") {
		c.consume("[")
		c.compileArrayAddress(name)
		c.consume("]")

		c.consume("=")
		c.compileExpression()
		c.consume(";")

		// Mandatory ordering (spec.md §4.3): the destination address stays
		// on the stack, not in pointer 1, while the rhs is evaluated, since
		// the rhs may itself contain array accesses that set THAT. The rhs
		// value is then parked in temp 0 so the address can go to pointer 1.
		c.out.WritePop(SegTemp, 0)
		c.out.WritePop(SegPointer, 1)
		c.out.WritePush(SegTemp, 0)
		c.out.WritePop(SegThat, 0)
		return
	}

	c.consume("=")
	c.compileExpression()
	c.consume(";")

	segment, index := c.variableAccess(name)
	c.out.WritePop(segment, index)
}

// compileArrayAddress pushes base+index for `name[<current expr>]` onto
// the stack, leaving the cursor just past the index expression.
func (c *CompilationEngine) compileArrayAddress(name string) {
	segment, index := c.variableAccess(name)
	c.out.WritePush(segment, index)
	c.compileExpression()
	c.out.WriteArithmetic(OpAdd)
}

func (c *CompilationEngine) compileIf() {
	c.consume("if", "(")
	id := c.newLabelID()
	trueLabel := fmt.Sprintf("IF_TRUE%d", id)
	falseLabel := fmt.Sprintf("IF_FALSE%d", id)
	endLabel := fmt.Sprintf("IF_END%d", id)

	c.compileExpression()
	c.consume(")")

	c.out.WriteIf(trueLabel)
	c.out.WriteGoto(falseLabel)
	c.out.WriteLabel(trueLabel)

	c.consume("{")
	c.compileStatements()
	c.consume("}")

	if c.current.Is("else") {
		c.out.WriteGoto(endLabel)
		c.out.WriteLabel(falseLabel)
		c.consume("else", "{")
		c.compileStatements()
		c.consume("}")
		c.out.WriteLabel(endLabel)
	} else {
		c.out.WriteLabel(falseLabel)
	}
}

func (c *CompilationEngine) compileWhile() {
	c.consume("while", "(")
	id := c.newLabelID()
	startLabel := fmt.Sprintf("WHILE_START%d", id)
	endLabel := fmt.Sprintf("WHILE_END%d", id)

	c.out.WriteLabel(startLabel)
	c.compileExpression()
	c.consume(")")

	c.out.WriteArithmetic(OpNot)
	c.out.WriteIf(endLabel)

	c.consume("{")
	c.compileStatements()
	c.consume("}")

	c.out.WriteGoto(startLabel)
	c.out.WriteLabel(endLabel)
}

func (c *CompilationEngine) compileDo() {
	c.consume("do")
	name := c.expectIdentifier()
	c.compileSubroutineCall(name)
	c.out.WritePop(SegTemp, 0)
	c.consume(";")
}

func (c *CompilationEngine) compileReturn() {
	c.consume("return")
	if c.current.Is(";") {
		c.out.WritePush(SegConstant, 0)
	} else {
		c.compileExpression()
	}
	c.out.WriteReturn()
	c.consume(";")
}

// ----------------------------------------------------------------------------
// Expressions

var binaryOps = map[string]Op{
	"+": OpAdd, "-": OpSub, "&": OpAnd, "|": OpOr, "<": OpLt, ">": OpGt, "=": OpEq,
}

func (c *CompilationEngine) compileExpression() {
	c.compileTerm()
	for {
		switch {
		case c.current.Is("+", "-", "&", "|", "<", ">", "="):
			op := binaryOps[c.current.Text]
			c.advance()
			c.compileTerm()
			c.out.WriteArithmetic(op)
		case c.current.Is("*"):
			c.advance()
			c.compileTerm()
			c.out.WriteCall("Math.multiply", 2)
		case c.current.Is("/"):
			c.advance()
			c.compileTerm()
			c.out.WriteCall("Math.divide", 2)
		default:
			return
		}
	}
}

// compileExpressionList compiles "(expression (',' expression)*)?" and
// returns the number of expressions compiled.
func (c *CompilationEngine) compileExpressionList() MachineWord {
	if c.current.Is(")") {
		return 0
	}
	var n MachineWord
	for {
		c.compileExpression()
		n++
		if c.current.Is(",") {
			c.consume(",")
			continue
		}
		break
	}
	return n
}

// term := intConst | strConst | kwConst | id | id '[' expr ']'
//       | subCall | '(' expr ')' | unaryOp term

func (c *CompilationEngine) compileTerm() {
	switch {
	case c.current.Type == IntConst:
		v, err := c.current.IntValue()
		if err != nil {
			panic(err)
		}
		c.out.WritePush(SegConstant, v)
		c.advance()

	case c.current.Type == StringConst:
		c.compileStringConstant(c.current.Text)
		c.advance()

	case c.current.Is("true"):
		c.out.WritePush(SegConstant, 0)
		c.out.WriteArithmetic(OpNot)
		c.advance()
	case c.current.Is("false", "null"):
		c.out.WritePush(SegConstant, 0)
		c.advance()
	case c.current.Is("this"):
		c.out.WritePush(SegPointer, 0)
		c.advance()

	case c.current.Is("("):
		c.consume("(")
		c.compileExpression()
		c.consume(")")

	case c.current.Is("-"):
		c.advance()
		c.compileTerm()
		c.out.WriteArithmetic(OpNeg)
	case c.current.Is("~"):
		c.advance()
		c.compileTerm()
		c.out.WriteArithmetic(OpNot)
	case c.current.Is("^"):
		c.advance()
		c.compileTerm()
		c.out.WriteArithmetic(OpShiftLeft)
	case c.current.Is("#"):
		c.advance()
		c.compileTerm()
		c.out.WriteArithmetic(OpShiftRight)

	case c.current.Type == Identifier:
		name := c.expectIdentifier()
		switch {
		case c.current.Is("["):
			c.consume("[")
			c.compileArrayAddress(name)
			c.consume("]")
			c.out.WritePop(SegPointer, 1)
			c.out.WritePush(SegThat, 0)
		case c.current.Is("(", "."):
			c.compileSubroutineCall(name)
		default:
			segment, index := c.variableAccess(name)
			c.out.WritePush(segment, index)
		}

	default:
		c.fail("unexpected token %q", c.current.Text)
	}
}

func (c *CompilationEngine) compileStringConstant(s string) {
	runes := []rune(s)
	c.out.WritePush(SegConstant, MachineWord(len(runes)))
	c.out.WriteCall("String.new", 1)
	for _, r := range runes {
		c.out.WritePush(SegConstant, MachineWord(r))
		c.out.WriteCall("String.appendChar", 2)
	}
}

// compileSubroutineCall resolves one of the three call forms described in
// spec.md §4.3:
//
//   - name(args)       — implicit method call on `this`
//   - X.name(args)      — X resolves as a variable: method call on X
//   - X.name(args)      — X does not resolve: static call on class X
func (c *CompilationEngine) compileSubroutineCall(name string) {
	if c.current.Is(".") {
		c.consume(".")
		method := c.expectIdentifier()

		var nArgs MachineWord
		var callee string
		if sym, ok := c.symbols.Lookup(name); ok {
			segment, index := c.variableAccess(name)
			c.out.WritePush(segment, index)
			nArgs++
			callee = sym.Type + "." + method
		} else {
			callee = name + "." + method
		}

		c.consume("(")
		nArgs += c.compileExpressionList()
		c.consume(")")

		c.out.WriteCall(callee, nArgs)
		return
	}

	if c.current.Is("(") {
		c.out.WritePush(SegPointer, 0)
		c.consume("(")
		nArgs := 1 + c.compileExpressionList()
		c.consume(")")
		c.out.WriteCall(c.className+"."+name, nArgs)
		return
	}

	c.fail("expected \"(\" or \".\" but got %q", c.current.Text)
}

// variableAccess resolves name to the VM segment/index backing it. An
// unresolved name here (unlike in compileSubroutineCall) is always an
// error: a bare identifier used as a value must be a declared variable.
func (c *CompilationEngine) variableAccess(name string) (Segment, MachineWord) {
	sym, ok := c.symbols.Lookup(name)
	if !ok {
		c.fail("undeclared variable %q", name)
	}
	return sym.Kind.VMSegment(), sym.Index
}
