package logql

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a query. An empty or blank query yields a nil Node, which
// matches every record. Errors are *SyntaxError.
func Parse(input string) (Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	toks, err := scan(input)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	node, err := p.or()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s after expression", describe(t))
	}
	return node, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(t token, msg string, args ...any) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(msg, args...)}
}

// or := and { OR and }
func (p *parser) or() (Node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// and := unary { [AND] unary }
func (p *parser) and() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokAnd:
			p.next()
		case tokWord, tokQuoted, tokLParen, tokNot:
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
}

// unary := NOT unary | primary
func (p *parser) unary() (Node, error) {
	if p.peek().kind != tokNot {
		return p.primary()
	}
	p.next()
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	return NotExpr{Expr: expr}, nil
}

// primary := '(' or ')' | quoted | word [op value]
func (p *parser) primary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		expr, err := p.or()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')' to close '(' at col %d, got %s", t.pos+1, describe(closing))
		}
		return expr, nil

	case tokQuoted:
		return MatchExpr{Field: FieldText, Op: OpContains, Value: t.text}, nil

	case tokWord:
		var op Op
		switch p.peek().kind {
		case tokColon:
			op = OpEq
		case tokNeq:
			op = OpNeq
		case tokTilde:
			op = OpContains
		default:
			return MatchExpr{Field: FieldText, Op: OpContains, Value: t.text}, nil
		}
		field, ok := fieldNames[strings.ToLower(t.text)]
		if !ok {
			return nil, p.errorf(t, "unknown field %q", t.text)
		}
		p.next()

		v := p.next()
		if v.kind != tokWord && v.kind != tokQuoted {
			return nil, p.errorf(v, "expected value after %s%s, got %s", t.text, op, describe(v))
		}
		return MatchExpr{Field: field, Op: op, Value: v.text}, nil

	default:
		return nil, p.errorf(t, "expected a term, got %s", describe(t))
	}
}

func describe(t token) string {
	if t.kind == tokWord || t.kind == tokQuoted {
		return t.kind.String() + " " + strconv.Quote(t.text)
	}
	return t.kind.String()
}
