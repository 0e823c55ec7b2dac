package jack

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Tokenizer turns Jack source text into a replayable sequence of tokens.
// All tokens are produced eagerly at construction time; Scan/Token/Err
// expose a single-cursor advance model over that sequence.
type Tokenizer struct {
	tokens []Token
	pos    int // index of the token last returned by Scan, -1 before first Scan
	err    error
}

// NewTokenizer reads all of r, strips comments, and tokenizes the result.
// A lexical error (unterminated string, illegal character, out-of-range
// integer constant) is returned immediately; no tokens are available in
// that case.
func NewTokenizer(r io.Reader) (*Tokenizer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}

	cleaned, err := stripComments(string(raw))
	if err != nil {
		return nil, err
	}

	tokens, err := scan(cleaned)
	if err != nil {
		return nil, err
	}

	return &Tokenizer{tokens: tokens, pos: -1}, nil
}

// HasMore reports whether another token is available via Scan.
func (t *Tokenizer) HasMore() bool {
	return t.pos+1 < len(t.tokens)
}

// Scan advances the cursor to the next token and reports whether one was
// available.
func (t *Tokenizer) Scan() bool {
	if !t.HasMore() {
		return false
	}
	t.pos++
	return true
}

// Token returns the token at the current cursor position. Calling it
// before the first successful Scan is a programming error.
func (t *Tokenizer) Token() Token {
	return t.tokens[t.pos]
}

// Err returns any error encountered; tokenization errors are all reported
// at construction time, so this is always nil after NewTokenizer succeeds.
func (t *Tokenizer) Err() error {
	return t.err
}

// stripComments removes "// line" and "/* block */" comments from source,
// leaving string literals untouched (comment markers inside a string are
// not comments).
func stripComments(source string) (string, error) {
	var out strings.Builder
	runes := []rune(source)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '"':
			out.WriteRune(c)
			i++
			start := i
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\n' {
					return "", errors.Errorf("unterminated string literal starting at position %d", start)
				}
				out.WriteRune(runes[i])
				i++
			}
			if i >= len(runes) {
				return "", errors.Errorf("unterminated string literal starting at position %d", start)
			}
			out.WriteRune('"') // closing quote
			i++
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			closed := false
			for i+1 < len(runes) {
				if runes[i] == '*' && runes[i+1] == '/' {
					i += 2
					closed = true
					break
				}
				i++
			}
			if !closed {
				return "", errors.New("unterminated block comment")
			}
			out.WriteRune(' ')
		default:
			out.WriteRune(c)
			i++
		}
	}
	return out.String(), nil
}

// scan performs the actual left-to-right tokenization of comment-free
// source, as described in spec.md §4.1.
func scan(source string) ([]Token, error) {
	var tokens []Token
	runes := []rune(source)
	i := 0
	n := len(runes)

	for i < n {
		c := runes[i]

		switch {
		case unicode.IsSpace(c):
			i++

		case c == '"':
			start := i
			i++
			var sb strings.Builder
			for i < n && runes[i] != '"' {
				sb.WriteRune(runes[i])
				i++
			}
			if i >= n {
				return nil, errors.Errorf("unterminated string literal starting at position %d", start)
			}
			i++ // closing quote
			tokens = append(tokens, Token{Type: StringConst, Text: sb.String()})

		case symbols[c]:
			tokens = append(tokens, Token{Type: SymbolToken, Text: string(c)})
			i++

		case unicode.IsDigit(c):
			start := i
			for i < n && unicode.IsDigit(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			if v, err := strconv.Atoi(text); err != nil || v > 32767 {
				return nil, errors.Errorf("integer constant %q out of range [0, 32767]", text)
			}
			tokens = append(tokens, Token{Type: IntConst, Text: text})

		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < n && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			text := string(runes[start:i])
			if keywords[text] {
				tokens = append(tokens, Token{Type: Keyword, Text: text})
			} else {
				tokens = append(tokens, Token{Type: Identifier, Text: text})
			}

		default:
			return nil, errors.Errorf("illegal character %q at position %d", c, i)
		}
	}

	return tokens, nil
}
