package jack

import (
	"fmt"
	"io"
	"strconv"
)

// Segment is one of the eight named VM memory segments.
type Segment string

const (
	SegConstant Segment = "constant"
	SegArgument Segment = "argument"
	SegLocal    Segment = "local"
	SegStatic   Segment = "static"
	SegThis     Segment = "this"
	SegThat     Segment = "that"
	SegPointer  Segment = "pointer"
	SegTemp     Segment = "temp"
)

// Op is one of the 11 VM arithmetic/logical commands (spec.md §3). Note
// that '*' and '/' are deliberately absent: the Jack compiler lowers them
// to Math.multiply/Math.divide calls itself (see compiler.go), so they
// never reach the VM writer as an "arithmetic" command.
type Op string

const (
	OpAdd        Op = "add"
	OpSub        Op = "sub"
	OpNeg        Op = "neg"
	OpEq         Op = "eq"
	OpGt         Op = "gt"
	OpLt         Op = "lt"
	OpAnd        Op = "and"
	OpOr         Op = "or"
	OpNot        Op = "not"
	OpShiftLeft  Op = "shiftleft"
	OpShiftRight Op = "shiftright"
)

// VMWriter is a pure emitter: one text line per VM command, no state
// beyond the output sink.
type VMWriter struct {
	output io.Writer
}

// NewVMWriter returns a VMWriter that writes commands to w.
func NewVMWriter(w io.Writer) *VMWriter {
	return &VMWriter{output: w}
}

func (w *VMWriter) writeLine(line string) {
	io.WriteString(w.output, line)
	io.WriteString(w.output, "\n")
}

// WritePush emits "push <segment> <index>".
func (w *VMWriter) WritePush(segment Segment, index MachineWord) {
	w.writeLine(fmt.Sprintf("push %s %d", segment, index))
}

// WritePop emits "pop <segment> <index>".
func (w *VMWriter) WritePop(segment Segment, index MachineWord) {
	w.writeLine(fmt.Sprintf("pop %s %d", segment, index))
}

// WriteArithmetic emits a bare arithmetic/logical command.
func (w *VMWriter) WriteArithmetic(op Op) {
	w.writeLine(string(op))
}

// WriteLabel emits "label <name>".
func (w *VMWriter) WriteLabel(name string) {
	w.writeLine("label " + name)
}

// WriteGoto emits "goto <name>".
func (w *VMWriter) WriteGoto(name string) {
	w.writeLine("goto " + name)
}

// WriteIf emits "if-goto <name>".
func (w *VMWriter) WriteIf(name string) {
	w.writeLine("if-goto " + name)
}

// WriteCall emits "call <name> <nArgs>".
func (w *VMWriter) WriteCall(name string, nArgs MachineWord) {
	w.writeLine("call " + name + " " + strconv.Itoa(int(nArgs)))
}

// WriteFunction emits "function <name> <nLocals>".
func (w *VMWriter) WriteFunction(name string, nLocals MachineWord) {
	w.writeLine("function " + name + " " + strconv.Itoa(int(nLocals)))
}

// WriteReturn emits "return".
func (w *VMWriter) WriteReturn() {
	w.writeLine("return")
}
