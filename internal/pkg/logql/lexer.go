package logql

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokQuoted
	tokColon
	tokNeq
	tokTilde
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
)

var kindNames = [...]string{
	tokEOF:    "end of query",
	tokWord:   "word",
	tokQuoted: "quoted string",
	tokColon:  "':'",
	tokNeq:    "'!='",
	tokTilde:  "'~'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokAnd:    "AND",
	tokOr:     "OR",
	tokNot:    "NOT",
}

func (k tokenKind) String() string { return kindNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the query
}

// SyntaxError reports where a query stopped making sense.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("col %d: %s", e.Pos+1, e.Msg)
}

// scan splits input into tokens, ending with a tokEOF.
func scan(input string) ([]token, error) {
	var toks []token
	i := 0
	for {
		for i < len(input) && unicode.IsSpace(rune(input[i])) {
			i++
		}
		if i >= len(input) {
			return append(toks, token{kind: tokEOF, pos: i}), nil
		}

		start := i
		switch c := input[i]; {
		case c == ':':
			toks = append(toks, token{tokColon, ":", start})
			i++
		case c == '~':
			toks = append(toks, token{tokTilde, "~", start})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", start})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", start})
			i++
		case c == '!' && i+1 < len(input) && input[i+1] == '=':
			toks = append(toks, token{tokNeq, "!=", start})
			i += 2
		case c == '!':
			toks = append(toks, token{tokNot, "!", start})
			i++
		case c == '"':
			text, next, ok := readQuoted(input, i)
			if !ok {
				return nil, &SyntaxError{Pos: start, Msg: "unterminated string"}
			}
			toks = append(toks, token{tokQuoted, text, start})
			i = next
		case isWordByte(c):
			for i < len(input) && isWordByte(input[i]) {
				i++
			}
			toks = append(toks, wordToken(input[start:i], start))
		default:
			return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
}

// readQuoted reads the string opening at input[i], resolving backslash
// escapes. It returns the offset just past the closing quote.
func readQuoted(input string, i int) (string, int, bool) {
	var sb strings.Builder
	for i++; i < len(input); i++ {
		switch input[i] {
		case '"':
			return sb.String(), i + 1, true
		case '\\':
			if i+1 < len(input) {
				i++
			}
		}
		sb.WriteByte(input[i])
	}
	return "", i, false
}

func wordToken(text string, pos int) token {
	switch strings.ToUpper(text) {
	case "AND":
		return token{tokAnd, text, pos}
	case "OR":
		return token{tokOr, text, pos}
	case "NOT":
		return token{tokNot, text, pos}
	}
	return token{tokWord, text, pos}
}

// Tags are free-form, so words take every printable byte apart from the
// operators. Bytes of multi-byte runes always belong to words.
func isWordByte(c byte) bool {
	if c >= 0x80 {
		return true
	}
	switch c {
	case ':', '~', '(', ')', '"', '!':
		return false
	}
	return c > ' ' && c < 0x7f
}
