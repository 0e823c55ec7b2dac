package jack

import (
	"strconv"

	"github.com/pkg/errors"
)

// MachineWord is a 16-bit signed Hack machine word, used throughout the
// compiler for constants, indices and counters.
type MachineWord = int16

// TokenType is the closed set of lexical categories produced by the
// Tokenizer.
type TokenType int

const (
	InvalidToken TokenType = iota
	Keyword
	SymbolToken
	IntConst
	StringConst
	Identifier
)

func (t TokenType) String() string {
	switch t {
	case Keyword:
		return "keyword"
	case SymbolToken:
		return "symbol"
	case IntConst:
		return "integerConstant"
	case StringConst:
		return "stringConstant"
	case Identifier:
		return "identifier"
	default:
		return "invalid"
	}
}

// Token is a single lexeme: its category and its literal text (for
// StringConst, the text between the quotes, unescaped).
type Token struct {
	Type TokenType
	Text string
}

// Is reports whether t is a Symbol or Keyword token whose text equals one
// of terminals.
func (t Token) Is(terminals ...string) bool {
	if t.Type != Keyword && t.Type != SymbolToken {
		return false
	}
	for _, term := range terminals {
		if t.Text == term {
			return true
		}
	}
	return false
}

// IntValue parses an IntConst token's text as a MachineWord in [0, 32767].
// It is an error to call this on a token that is not an IntConst.
func (t Token) IntValue() (MachineWord, error) {
	if t.Type != IntConst {
		return 0, errors.Errorf("token %q is not an integer constant", t.Text)
	}
	n, err := strconv.Atoi(t.Text)
	if err != nil || n < 0 || n > 32767 {
		return 0, errors.Errorf("integer constant %q out of range [0, 32767]", t.Text)
	}
	return MachineWord(n), nil
}

// keywords is the fixed closed set of 21 Jack keywords.
var keywords = map[string]bool{
	"class": true, "constructor": true, "function": true, "method": true,
	"field": true, "static": true, "var": true, "int": true, "char": true,
	"boolean": true, "void": true, "true": true, "false": true, "null": true,
	"this": true, "let": true, "do": true, "if": true, "else": true,
	"while": true, "return": true,
}

// symbols is the fixed closed set of 21 Jack symbol characters.
var symbols = map[rune]bool{
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	'.': true, ',': true, ';': true, '+': true, '-': true, '*': true,
	'/': true, '&': true, '|': true, '<': true, '>': true, '=': true,
	'~': true, '^': true, '#': true,
}
