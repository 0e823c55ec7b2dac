package vm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// segPointer gives the base-pointer register backing an indirect segment.
var segPointer = map[Segment]string{
	Local:    "LCL",
	Argument: "ARG",
	This:     "THIS",
	That:     "THAT",
}

// CodeWriter translates a stream of VM Commands into Hack assembly
// (spec.md §4.5). One CodeWriter accumulates output for an entire program:
// call SetFileName once per input file (for static-variable namespacing)
// and Write per command.
type CodeWriter struct {
	out         io.Writer
	fileBase    string
	currentFunc string
	labelSeq    int
	callSeq     int
}

// NewCodeWriter returns a CodeWriter emitting assembly to w.
func NewCodeWriter(w io.Writer) *CodeWriter {
	return &CodeWriter{out: w}
}

// SetFileName records the base name (no directory, no extension) of the
// VM source file whose commands follow, so that `static i` resolves to the
// symbol `<file>.i` and stays distinct across files translated into one
// assembly program.
func (c *CodeWriter) SetFileName(base string) {
	c.fileBase = base
}

func (c *CodeWriter) emit(lines ...string) {
	for _, l := range lines {
		io.WriteString(c.out, l)
		io.WriteString(c.out, "\n")
	}
}

func (c *CodeWriter) emitf(format string, args ...interface{}) {
	c.emit(fmt.Sprintf(format, args...))
}

// WriteBootstrap emits the standard program prologue: SP=256 followed by a
// call to Sys.init with 0 arguments (spec.md §4.5). It must be the first
// thing written to the output, before any translated file's commands.
func (c *CodeWriter) WriteBootstrap() {
	c.emit(
		"@256",
		"D=A",
		"@SP",
		"M=D",
	)
	c.writeCall("Sys.init", 0)
}

// Write translates a single command, appending assembly to the output.
func (c *CodeWriter) Write(cmd Command) error {
	switch v := cmd.(type) {
	case Arithmetic:
		return c.writeArithmetic(v.Op)
	case Push:
		return c.writePush(v.Segment, v.Index)
	case Pop:
		return c.writePop(v.Segment, v.Index)
	case Label:
		c.writeLabel(v.Name)
	case Goto:
		c.writeGoto(v.Name)
	case If:
		c.writeIf(v.Name)
	case Function:
		c.writeFunction(v.Name, v.NLocals)
	case Call:
		c.writeCall(v.Name, v.NArgs)
	case Return:
		c.writeReturn()
	default:
		return errors.Errorf("unknown VM command %T", cmd)
	}
	return nil
}

// functionLabel namespaces a bare label name under the currently-open
// function, since VM labels are scoped to their enclosing function
// (spec.md §4.5).
func (c *CodeWriter) functionLabel(name string) string {
	if c.currentFunc == "" {
		return name
	}
	return c.currentFunc + "$" + name
}

func (c *CodeWriter) writeLabel(name string) {
	c.emitf("(%s)", c.functionLabel(name))
}

func (c *CodeWriter) writeGoto(name string) {
	c.emitf("@%s", c.functionLabel(name))
	c.emit("0;JMP")
}

func (c *CodeWriter) writeIf(name string) {
	c.popD()
	c.emitf("@%s", c.functionLabel(name))
	c.emit("D;JNE")
}

// popD pops the top stack value into D, decrementing SP.
func (c *CodeWriter) popD() {
	c.emit(
		"@SP",
		"AM=M-1",
		"D=M",
	)
}

// pushD pushes D onto the stack, incrementing SP.
func (c *CodeWriter) pushD() {
	c.emit(
		"@SP",
		"M=M+1",
		"A=M-1",
		"M=D",
	)
}

func (c *CodeWriter) writePush(seg Segment, index int) error {
	switch seg {
	case Constant:
		c.emitf("@%d", index)
		c.emit("D=A")
	case Local, Argument, This, That:
		c.emitf("@%s", segPointer[seg])
		c.emit("D=M")
		c.emitf("@%d", index)
		c.emit("A=D+A", "D=M")
	case Pointer:
		c.emitf("@%s", pointerReg(index))
		c.emit("D=M")
	case Temp:
		c.emitf("@%d", 5+index)
		c.emit("D=M")
	case Static:
		c.emitf("@%s.%d", c.fileBase, index)
		c.emit("D=M")
	default:
		return errors.Errorf("unknown segment %q", seg)
	}
	c.pushD()
	return nil
}

func (c *CodeWriter) writePop(seg Segment, index int) error {
	switch seg {
	case Local, Argument, This, That:
		c.emitf("@%s", segPointer[seg])
		c.emit("D=M")
		c.emitf("@%d", index)
		c.emit("D=D+A", "@R13", "M=D")
		c.popD()
		c.emit("@R13", "A=M", "M=D")
	case Pointer:
		c.popD()
		c.emitf("@%s", pointerReg(index))
		c.emit("M=D")
	case Temp:
		c.popD()
		c.emitf("@%d", 5+index)
		c.emit("M=D")
	case Static:
		c.popD()
		c.emitf("@%s.%d", c.fileBase, index)
		c.emit("M=D")
	default:
		return errors.Errorf("unknown segment %q", seg)
	}
	return nil
}

func pointerReg(index int) string {
	if index == 0 {
		return "THIS"
	}
	return "THAT"
}

func (c *CodeWriter) writeArithmetic(op ArithOp) error {
	switch op {
	case Add:
		c.binaryTo("D+M")
	case Sub:
		c.binaryTo("M-D")
	case And:
		c.binaryTo("D&M")
	case Or:
		c.binaryTo("D|M")
	case Neg:
		c.unaryTo("-M")
	case Not:
		c.unaryTo("!M")
	case ShiftLeft:
		c.unaryTo("M<<")
	case ShiftRight:
		c.unaryTo("M>>")
	case Eq:
		c.comparison("JEQ")
	case Gt:
		c.comparison("JGT")
	case Lt:
		c.comparison("JLT")
	default:
		return errors.Errorf("unknown arithmetic op %q", op)
	}
	return nil
}

// binaryTo pops the top operand y into D and addresses the operand below
// it, x, as M, computes comp, and stores the result back in x's slot, the
// single remaining top of stack. comp must reference D for y and M for x.
func (c *CodeWriter) binaryTo(comp string) {
	c.emit(
		"@SP",
		"AM=M-1",
		"D=M",
		"A=A-1",
		"M="+comp,
	)
}

func (c *CodeWriter) unaryTo(comp string) {
	c.emit(
		"@SP",
		"A=M-1",
		"M="+comp,
	)
}

// comparison implements eq/gt/lt so that the result is correct even when
// x-y would overflow a 16-bit subtraction (spec.md §4.5). When the two
// operands have differing signs, the comparison's outcome follows from
// the signs alone — no subtraction is needed and no overflow is possible.
// Only the same-sign case ever subtracts.
func (c *CodeWriter) comparison(jump string) {
	id := c.labelSeq
	c.labelSeq++
	xNegLabel := fmt.Sprintf("CMP_XNEG%d", id)
	sameSignLabel := fmt.Sprintf("CMP_SAMESIGN%d", id)
	trueLabel := fmt.Sprintf("CMP_TRUE%d", id)
	falseLabel := fmt.Sprintf("CMP_FALSE%d", id)
	endLabel := fmt.Sprintf("CMP_END%d", id)

	// Pop y into R14, then read x (now at SP-1) into D and R13. SP is left
	// one past x's slot, and the boolean result is ultimately written to
	// SP-1 — the usual "binary op nets one pop" bookkeeping.
	c.emit(
		"@SP", "AM=M-1", "D=M", "@R14", "M=D",
		"@SP", "A=M-1", "D=M", "@R13", "M=D",
	)

	// D still holds x from the read above.
	c.emitf("@%s", xNegLabel)
	c.emit("D;JLT")

	// x >= 0: same sign as y only if y >= 0 too.
	c.emit("@R14", "D=M")
	c.emitf("@%s", sameSignLabel)
	c.emit("D;JGE")
	// x >= 0, y < 0: x > y always, regardless of magnitude.
	c.jumpToOutcome(jump == "JGT", trueLabel, falseLabel)

	c.emitf("(%s)", xNegLabel)
	c.emit("@R14", "D=M")
	c.emitf("@%s", sameSignLabel)
	c.emit("D;JLT")
	// x < 0, y >= 0: x < y always, regardless of magnitude.
	c.jumpToOutcome(jump == "JLT", trueLabel, falseLabel)

	c.emitf("(%s)", sameSignLabel)
	// Same sign: x - y cannot overflow a 16-bit register.
	c.emit("@R13", "D=M", "@R14", "D=D-M")
	c.emitf("@%s", trueLabel)
	c.emit("D;" + jump)
	c.emitf("@%s", falseLabel)
	c.emit("0;JMP")

	c.emitf("(%s)", trueLabel)
	c.emit("D=-1")
	c.emitf("@%s", endLabel)
	c.emit("0;JMP")

	c.emitf("(%s)", falseLabel)
	c.emit("D=0")

	c.emitf("(%s)", endLabel)
	c.emit("@SP", "A=M-1", "M=D")
}

func (c *CodeWriter) jumpToOutcome(outcome bool, trueLabel, falseLabel string) {
	target := falseLabel
	if outcome {
		target = trueLabel
	}
	c.emitf("@%s", target)
	c.emit("0;JMP")
}

// writeFunction emits the function entry point and zero-initializes its
// local variables (spec.md §4.5).
func (c *CodeWriter) writeFunction(name string, nLocals int) {
	c.currentFunc = name
	c.emitf("(%s)", name)
	for i := 0; i < nLocals; i++ {
		c.emit("@SP", "M=M+1", "A=M-1", "M=0")
	}
}

// writeCall implements the standard 5-word call frame: save the caller's
// LCL/ARG/THIS/THAT and the return address, reposition ARG and LCL for the
// callee, then jump. The return address is pushed first so that it sits
// at FRAME-5, where writeReturn reads it back.
func (c *CodeWriter) writeCall(name string, nArgs int) {
	id := c.callSeq
	c.callSeq++
	returnLabel := fmt.Sprintf("RETURN_%s_%d", sanitizeLabel(name), id)

	c.emitf("@%s", returnLabel)
	c.emit("D=A")
	c.pushD()
	for _, seg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		c.emitf("@%s", seg)
		c.emit("D=M")
		c.pushD()
	}

	// ARG = SP - 5 - nArgs
	c.emit("@SP", "D=M")
	c.emitf("@%d", 5+nArgs)
	c.emit("D=D-A", "@ARG", "M=D")

	// LCL = SP
	c.emit("@SP", "D=M", "@LCL", "M=D")

	c.emitf("@%s", name)
	c.emit("0;JMP")

	c.emitf("(%s)", returnLabel)
}

// writeReturn implements the standard return sequence: capture FRAME and
// the return address before the return value is written to *ARG (with zero
// arguments ARG points at FRAME-5, the return address's own slot),
// reposition the return value at ARG's old location, restore SP and the
// caller's segment pointers, and jump back.
func (c *CodeWriter) writeReturn() {
	// R13 = FRAME = LCL
	c.emit("@LCL", "D=M", "@R13", "M=D")
	// R14 = return address = *(FRAME-5)
	c.emit("@5", "A=D-A", "D=M", "@R14", "M=D")
	// *ARG = pop()
	c.popD()
	c.emit("@ARG", "A=M", "M=D")
	// SP = ARG + 1
	c.emit("@ARG", "D=M+1", "@SP", "M=D")
	for i, seg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		c.emitf("@%d", i+1)
		c.emit("D=A", "@R13", "A=M-D", "D=M")
		c.emitf("@%s", seg)
		c.emit("M=D")
	}
	c.emit("@R14", "A=M", "0;JMP")
}

func sanitizeLabel(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
