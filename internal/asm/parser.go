package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads Hack assembly source line by line, stripping whitespace and
// "//" comments, and returns one Command per remaining line. The grammar
// is flat — no line's meaning depends on any other line's syntax — so a
// hand-rolled per-line scan is used rather than a combinator-based parser:
// there is no recursive structure to combine. fname names the source for
// diagnostics.
func Parse(r io.Reader, fname string) ([]Command, error) {
	var commands []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, err := parseLine(line)
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

func parseLine(line string) (Command, error) {
	switch {
	case strings.HasPrefix(line, "@"):
		value := strings.TrimSpace(line[1:])
		if value == "" {
			return nil, errors.New("empty A-instruction")
		}
		return AInstruction{Value: value}, nil

	case strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")"):
		name := strings.TrimSpace(line[1 : len(line)-1])
		if name == "" {
			return nil, errors.New("empty label declaration")
		}
		return LabelDecl{Name: name}, nil

	default:
		return parseCInstruction(line)
	}
}

func parseCInstruction(line string) (Command, error) {
	var dest, comp, jump string

	rest := line
	if i := strings.Index(rest, "="); i >= 0 {
		dest = strings.TrimSpace(rest[:i])
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		comp = strings.TrimSpace(rest[:i])
		jump = strings.TrimSpace(rest[i+1:])
	} else {
		comp = strings.TrimSpace(rest)
	}
	// Mnemonics are a fixed machine vocabulary, so their case is normalized;
	// user symbols in A-instructions and labels keep their case.
	dest, comp, jump = strings.ToUpper(dest), strings.ToUpper(comp), strings.ToUpper(jump)

	if comp == "" {
		return nil, errors.Errorf("malformed instruction %q", line)
	}
	if dest != "" {
		if err := validDest(dest); err != nil {
			return nil, errors.Wrapf(err, "in %q", line)
		}
	}
	if jump != "" {
		if err := validJump(jump); err != nil {
			return nil, errors.Wrapf(err, "in %q", line)
		}
	}
	if _, ok := compTable[comp]; !ok {
		return nil, errors.Errorf("unknown comp field %q in %q", comp, line)
	}

	return CInstruction{Dest: dest, Comp: comp, Jump: jump}, nil
}

func validDest(dest string) error {
	if _, ok := destTable[dest]; !ok {
		return errors.Errorf("unknown dest field %q", dest)
	}
	return nil
}

func validJump(jump string) error {
	if _, ok := jumpTable[jump]; !ok {
		return errors.Errorf("unknown jump field %q", jump)
	}
	return nil
}
