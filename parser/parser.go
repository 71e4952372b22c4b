// Package parser turns the smart-contract code text carried inside a command
// payload into expression nodes. The verifier depends only on the Parser
// interface; Default returns the built-in s-expression reader so the library
// is usable without an external language frontend.
package parser

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Parser converts raw code text into top-level expression nodes.
type Parser interface {
	Parse(code string) ([]Expr, error)
}

// NodeKind tags the variant of an expression node.
type NodeKind string

const (
	KindSymbol NodeKind = "symbol"
	KindString NodeKind = "string"
	KindNumber NodeKind = "number"
	KindBool   NodeKind = "bool"
	KindList   NodeKind = "list"
)

// Expr is one parsed expression node. Exactly the fields for its Kind are set.
type Expr struct {
	Kind NodeKind         `json:"kind"`
	Text string           `json:"text,omitempty"` // symbol name or string literal
	Num  *decimal.Decimal `json:"num,omitempty"`
	Bool bool             `json:"bool,omitempty"`
	List []Expr           `json:"list,omitempty"`
}

func (e Expr) String() string {
	switch e.Kind {
	case KindSymbol:
		return e.Text
	case KindString:
		return fmt.Sprintf("%q", e.Text)
	case KindNumber:
		return e.Num.String()
	case KindBool:
		if e.Bool {
			return "true"
		}
		return "false"
	case KindList:
		s := "("
		for i, sub := range e.List {
			if i > 0 {
				s += " "
			}
			s += sub.String()
		}
		return s + ")"
	default:
		return ""
	}
}

// Default returns the built-in s-expression parser.
func Default() Parser {
	return sexpParser{}
}

type sexpParser struct{}

func (sexpParser) Parse(code string) ([]Expr, error) {
	lex := &lexer{input: code}
	tokens, err := lex.run()
	if err != nil {
		return nil, err
	}

	var exprs []Expr
	pos := 0
	for pos < len(tokens) {
		expr, next, err := parseExpr(tokens, pos)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		pos = next
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("empty code")
	}
	return exprs, nil
}

func parseExpr(tokens []token, pos int) (Expr, int, error) {
	tok := tokens[pos]
	switch tok.kind {
	case tokOpen:
		var list []Expr
		pos++
		for {
			if pos >= len(tokens) {
				return Expr{}, pos, fmt.Errorf("unclosed list starting at offset %d", tok.offset)
			}
			if tokens[pos].kind == tokClose {
				return Expr{Kind: KindList, List: list}, pos + 1, nil
			}
			sub, next, err := parseExpr(tokens, pos)
			if err != nil {
				return Expr{}, pos, err
			}
			list = append(list, sub)
			pos = next
		}
	case tokClose:
		return Expr{}, pos, fmt.Errorf("unexpected ) at offset %d", tok.offset)
	case tokString:
		return Expr{Kind: KindString, Text: tok.text}, pos + 1, nil
	case tokAtom:
		return atomExpr(tok.text), pos + 1, nil
	default:
		return Expr{}, pos, fmt.Errorf("unexpected token at offset %d", tok.offset)
	}
}

func atomExpr(text string) Expr {
	switch text {
	case "true":
		return Expr{Kind: KindBool, Bool: true}
	case "false":
		return Expr{Kind: KindBool, Bool: false}
	}
	if num, err := decimal.NewFromString(text); err == nil {
		return Expr{Kind: KindNumber, Num: &num}
	}
	return Expr{Kind: KindSymbol, Text: text}
}
