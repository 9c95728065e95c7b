package expr

import (
	"fmt"
	"strconv"

	"nfscript/internal/diag"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// binding power of infix operators, low to high
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precCompare
	precAdditive
	precMultiplicative
)

func infixPrec(k token.Kind) int {
	switch k {
	case token.OrOr, token.KwOr:
		return precOr
	case token.AndAnd, token.KwAnd:
		return precAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCompare
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return precNone
}

type parser struct {
	toks  []token.Token
	pos   int
	depth int // bracket nesting; LineEnd is skipped inside
	opts  Options
}

// Options tune one parse.
type Options struct {
	// Lambda, if set, is called for every lambda literal as soon as its
	// parameters and body tokens are known; it fills Lambda.Body.
	Lambda func(*Lambda) error
}

// Parse parses exactly one expression covering all of toks.
func Parse(toks []token.Token) (Expr, error) {
	return Options{}.Parse(toks)
}

// ParseList parses comma-separated expressions covering all of toks.
func ParseList(toks []token.Token) ([]Expr, error) {
	return Options{}.ParseList(toks)
}

func (o Options) Parse(toks []token.Token) (Expr, error) {
	toks = trimLineEnds(toks)
	if len(toks) == 0 {
		return nil, diag.Syntax(diag.SynExpectExpression, 0, "expected an expression")
	}
	p := &parser{toks: toks, opts: o}
	e, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf(diag.SynUnexpectedToken, "unexpected %s after expression", describe(p.peek()))
	}
	return e, nil
}

func (o Options) ParseList(toks []token.Token) ([]Expr, error) {
	toks = trimLineEnds(toks)
	if len(toks) == 0 {
		return nil, nil
	}
	p := &parser{toks: toks, opts: o}
	var out []Expr
	for {
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.atEnd() {
			return out, nil
		}
		if !p.eat(token.Comma) {
			return nil, p.errorf(diag.SynUnexpectedToken, "expected ',' between expressions, got %s", describe(p.peek()))
		}
	}
}

func trimLineEnds(toks []token.Token) []token.Token {
	for len(toks) > 0 && (toks[len(toks)-1].Kind == token.LineEnd || toks[len(toks)-1].Kind == token.EOF) {
		toks = toks[:len(toks)-1]
	}
	for len(toks) > 0 && toks[0].Kind == token.LineEnd {
		toks = toks[1:]
	}
	return toks
}

func (p *parser) atEnd() bool {
	p.skipNewlines()
	return p.pos >= len(p.toks)
}

func (p *parser) peek() token.Token {
	p.skipNewlines()
	if p.pos >= len(p.toks) {
		line := 0
		if len(p.toks) > 0 {
			line = p.toks[len(p.toks)-1].Line
		}
		return token.Token{Kind: token.EOF, Line: line}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) eat(k token.Kind) bool {
	if p.peek().Kind == k {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipNewlines() {
	if p.depth == 0 {
		return
	}
	for p.pos < len(p.toks) && p.toks[p.pos].Kind == token.LineEnd {
		p.pos++
	}
}

func (p *parser) expect(k token.Kind) error {
	if p.eat(k) {
		return nil
	}
	want, _ := k.Lexeme()
	return p.errorf(diag.SynUnexpectedToken, "expected '%s', got %s", want, describe(p.peek()))
}

func (p *parser) errorf(code diag.Code, format string, args ...any) *diag.SyntaxError {
	t := p.peek()
	return diag.Syntaxf(code, t.Line, format, args...).
		At(t.Span).
		WithSnippet(token.Join(p.toks))
}

func (p *parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		prec := infixPrec(op.Kind)
		if prec == precNone || prec < minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		kind := op.Kind
		switch kind {
		case token.KwAnd:
			kind = token.AndAnd
		case token.KwOr:
			kind = token.OrOr
		}
		left = &Binary{pos: pos{op.Line}, Op: kind, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.Kind == token.Minus || t.Kind == token.Bang {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{pos: pos{t.Line}, Op: t.Kind, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		switch t.Kind {
		case token.LParen:
			p.pos++
			args, err := p.parseSeq(token.RParen)
			if err != nil {
				return nil, err
			}
			e = &Call{pos: pos{t.Line}, Fn: e, Args: args}
		case token.LBracket:
			p.pos++
			p.depth++
			idx, err := p.parseExpr(precOr)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			p.depth--
			e = &Index{pos: pos{t.Line}, X: e, Index: idx}
		default:
			return e, nil
		}
	}
	return e, nil
}

// parseSeq reads comma-separated expressions up to closing; the opener is
// already consumed. A trailing comma is allowed.
func (p *parser) parseSeq(closing token.Kind) ([]Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	var out []Expr
	for {
		if p.eat(closing) {
			return out, nil
		}
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.eat(token.Comma) {
			continue
		}
		if err := p.expect(closing); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	at := pos{t.Line}
	switch t.Kind {
	case token.IntLit:
		n, err := value.ParseInt(t.Text)
		if err != nil {
			return nil, diag.Syntaxf(diag.SynExpectExpression, t.Line, "integer literal %s out of range", t.Text).At(t.Span)
		}
		return &Lit{pos: at, Value: n}, nil
	case token.FloatLit:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, diag.Syntaxf(diag.SynExpectExpression, t.Line, "bad float literal %s", t.Text).At(t.Span)
		}
		return &Lit{pos: at, Value: f}, nil
	case token.StringLit:
		return &Lit{pos: at, Value: t.Text}, nil
	case token.TemplateLit:
		return parseTemplate(t)
	case token.KwTrue:
		return &Lit{pos: at, Value: true}, nil
	case token.KwFalse:
		return &Lit{pos: at, Value: false}, nil
	case token.KwNull:
		return &Lit{pos: at, Value: nil}, nil
	case token.Ident:
		return &Ident{pos: at, Name: t.Text}, nil
	case token.LParen:
		if p.atLambda() {
			return p.parseLambda(t)
		}
		p.depth++
		e, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		p.depth--
		return e, nil
	case token.LBracket:
		items, err := p.parseSeq(token.RBracket)
		if err != nil {
			return nil, err
		}
		return &ListLit{pos: at, Items: items}, nil
	case token.LBrace:
		return p.parseMap(at)
	case token.EOF:
		p.pos = len(p.toks)
		return nil, p.errorf(diag.SynExpectExpression, "expected an expression, got end of line")
	}
	p.pos--
	return nil, p.errorf(diag.SynExpectExpression, "expected an expression, got %s", describe(t))
}

// atLambda looks past the `(` just consumed for `ident, … ) ->`.
func (p *parser) atLambda() bool {
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind != token.RParen {
		switch p.toks[i].Kind {
		case token.Ident, token.Comma, token.LineEnd:
			i++
		default:
			return false
		}
	}
	return i+1 < len(p.toks) && p.toks[i+1].Kind == token.Arrow
}

// parseLambda - (a, b) -> { body }; open is the `(`.
func (p *parser) parseLambda(open token.Token) (Expr, error) {
	l := &Lambda{pos: pos{open.Line}}
	p.depth++
	for !p.eat(token.RParen) {
		name := p.next()
		if name.Kind != token.Ident {
			p.pos--
			return nil, p.errorf(diag.SynExpectIdentifier, "expected a lambda parameter name, got %s", describe(name))
		}
		for _, prev := range l.Params {
			if prev == name.Text {
				p.pos--
				return nil, p.errorf(diag.SynDuplicateVariable, "lambda parameter '%s' is declared twice", name.Text)
			}
		}
		l.Params = append(l.Params, name.Text)
		if !p.eat(token.Comma) && p.peek().Kind != token.RParen {
			return nil, p.errorf(diag.SynUnexpectedToken, "expected ',' or ')' in lambda parameters, got %s", describe(p.peek()))
		}
	}
	p.depth--
	p.next() // ->
	if p.peek().Kind != token.LBrace {
		return nil, p.errorf(diag.SynMissingBlock, "lambda body must be a block, got %s", describe(p.peek()))
	}
	from := p.pos + 1
	depth := 0
	for ; p.pos < len(p.toks); p.pos++ {
		switch p.toks[p.pos].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return nil, diag.Syntax(diag.SynUnclosedBlock, open.Line, "lambda body is never closed").
			At(open.Span).
			WithSnippet(token.Join(p.toks)).
			WithHint("add a closing '}'")
	}
	l.Tokens = p.toks[from:p.pos]
	p.pos++
	if p.opts.Lambda != nil {
		if err := p.opts.Lambda(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (p *parser) parseMap(at pos) (Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	m := &MapLit{pos: at}
	for {
		if p.eat(token.RBrace) {
			return m, nil
		}
		k, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if !p.eat(token.Colon) {
			return nil, p.errorf(diag.SynExpectColon, "expected ':' after map key, got %s", describe(p.peek()))
		}
		v, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, k)
		m.Values = append(m.Values, v)
		if p.eat(token.Comma) {
			continue
		}
		if err := p.expect(token.RBrace); err != nil {
			return nil, err
		}
		return m, nil
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of expression"
	case token.LineEnd:
		return "end of line"
	}
	return fmt.Sprintf("'%s'", t.Source())
}
