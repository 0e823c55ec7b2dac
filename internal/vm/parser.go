package vm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var arithOps = map[string]ArithOp{
	"add":        Add,
	"sub":        Sub,
	"neg":        Neg,
	"eq":         Eq,
	"gt":         Gt,
	"lt":         Lt,
	"and":        And,
	"or":         Or,
	"not":        Not,
	"shiftleft":  ShiftLeft,
	"shiftright": ShiftRight,
}

var segments = map[string]Segment{
	"constant": Constant,
	"local":    Local,
	"argument": Argument,
	"this":     This,
	"that":     That,
	"pointer":  Pointer,
	"temp":     Temp,
	"static":   Static,
}

// Parse reads source line by line, stripping blank lines and "//" comments,
// and returns one Command per remaining line (spec.md §4.4). r's file name
// (for diagnostics) is fname.
func Parse(r io.Reader, fname string) ([]Command, error) {
	var commands []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseLine(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", fname, lineNo)
		}
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	return commands, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLine(fields []string) (Command, error) {
	op := fields[0]
	if arith, ok := arithOps[op]; ok {
		if len(fields) != 1 {
			return nil, errors.Errorf("arithmetic command %q takes no arguments", op)
		}
		return Arithmetic{Op: arith}, nil
	}

	switch op {
	case "push", "pop":
		if len(fields) != 3 {
			return nil, errors.Errorf("%q requires a segment and an index", op)
		}
		seg, ok := segments[fields[1]]
		if !ok {
			return nil, errors.Errorf("unknown segment %q", fields[1])
		}
		index, err := strconv.Atoi(fields[2])
		if err != nil || index < 0 {
			return nil, errors.Errorf("invalid index %q", fields[2])
		}
		if op == "push" {
			return Push{Segment: seg, Index: index}, nil
		}
		if seg == Constant {
			return nil, errors.New("cannot pop into constant segment")
		}
		return Pop{Segment: seg, Index: index}, nil

	case "label":
		if len(fields) != 2 {
			return nil, errors.New("label requires a name")
		}
		return Label{Name: fields[1]}, nil

	case "goto":
		if len(fields) != 2 {
			return nil, errors.New("goto requires a name")
		}
		return Goto{Name: fields[1]}, nil

	case "if-goto":
		if len(fields) != 2 {
			return nil, errors.New("if-goto requires a name")
		}
		return If{Name: fields[1]}, nil

	case "function":
		if len(fields) != 3 {
			return nil, errors.New("function requires a name and a local count")
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid local count %q", fields[2])
		}
		return Function{Name: fields[1], NLocals: n}, nil

	case "call":
		if len(fields) != 3 {
			return nil, errors.New("call requires a name and an argument count")
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid argument count %q", fields[2])
		}
		return Call{Name: fields[1], NArgs: n}, nil

	case "return":
		if len(fields) != 1 {
			return nil, errors.New("return takes no arguments")
		}
		return Return{}, nil

	default:
		return nil, errors.Errorf("unknown command %q", op)
	}
}
