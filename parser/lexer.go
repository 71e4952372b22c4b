package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokString
	tokAtom
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) run() ([]token, error) {
	var tokens []token
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.input) {
			return tokens, nil
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case r == '(':
			l.pos += size
			tokens = append(tokens, token{kind: tokOpen, offset: start})
		case r == ')':
			l.pos += size
			tokens = append(tokens, token{kind: tokClose, offset: start})
		case r == '"':
			text, err := l.scanString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: text, offset: start})
		default:
			tokens = append(tokens, token{kind: tokAtom, text: l.scanAtom(), offset: start})
		}
	}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case r == ';':
			// line comment
			if nl := strings.IndexByte(l.input[l.pos:], '\n'); nl >= 0 {
				l.pos += nl + 1
			} else {
				l.pos = len(l.input)
			}
		default:
			return
		}
	}
}

func (l *lexer) scanString() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.pos += size
		switch r {
		case '"':
			return sb.String(), nil
		case '\\':
			if l.pos >= len(l.input) {
				return "", fmt.Errorf("unterminated escape at offset %d", l.pos)
			}
			esc, escSize := utf8.DecodeRuneInString(l.input[l.pos:])
			l.pos += escSize
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return "", fmt.Errorf("unknown escape \\%c at offset %d", esc, l.pos-escSize)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return "", fmt.Errorf("unterminated string starting at offset %d", start)
}

func (l *lexer) scanAtom() string {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ';' {
			break
		}
		l.pos += size
	}
	return l.input[start:l.pos]
}
