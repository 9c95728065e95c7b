package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// parseLine classifies one logical line that does not start a block
// construct.
func (p *Parser) parseLine(s *Stream) (Node, error) {
	toks := s.Tokens()
	start := s.Pos()
	end := cutLine(toks, start)
	if end == start {
		end++
	}
	line := toks[start:end]
	s.Seek(end)

	head := line[0]
	switch head.Kind {
	case token.KwVar:
		return p.parseVar(line)
	case token.KwEcho:
		args, err := p.exprs().ParseList(line[1:])
		if err != nil {
			return nil, err
		}
		return &Echo{base: base{At: head.Line}, Args: args}, nil
	case token.KwReturn:
		vals, err := p.exprs().ParseList(line[1:])
		if err != nil {
			return nil, err
		}
		return &Return{base: base{At: head.Line}, Values: vals}, nil
	case token.KwBreak, token.KwContinue, token.KwBreakAll:
		return p.parseLoopControl(line)
	}

	if startsType(line, 0) {
		return p.parseTypedDecl(line)
	}
	if len(line) > 1 && line[1].Kind == token.Assign {
		return p.parseAssign(line)
	}
	x, err := p.exprs().Parse(line)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{base: base{At: head.Line}, X: x}, nil
}

// parseVar - var a [, b …] [: T] [= e]
func (p *Parser) parseVar(line []token.Token) (Node, error) {
	kw := line[0]
	rest := line[1:]
	node := &VarDecl{base: base{At: kw.Line}, Type: value.Any}

	lhs := rest
	if eq := indexTop(rest, token.Assign); eq >= 0 {
		lhs = rest[:eq]
		rhs := rest[eq+1:]
		if len(rhs) == 0 {
			return nil, diag.Syntax(diag.SynExpectExpression, kw.Line, "missing value after '='").
				At(rest[eq].Span).
				WithSnippet(token.Join(line)).
				WithHint(token.Join(line) + " 0")
		}
		x, err := p.exprs().Parse(rhs)
		if err != nil {
			return nil, err
		}
		node.Value = x
	}

	names := lhs
	if colon := indexTop(lhs, token.Colon); colon >= 0 {
		names = lhs[:colon]
		typ, i, err := parseType(lhs, colon+1)
		if err != nil {
			return nil, err
		}
		if i != len(lhs) {
			return nil, badDecl(line, lhs[i], "unexpected '"+lhs[i].Source()+"' after the declared type")
		}
		node.Type = typ
	}
	if len(names) == 0 {
		return nil, badDecl(line, kw, "'var' needs at least one name")
	}

	var decl []token.Token
	for _, part := range splitTop(names, false) {
		if len(part) != 1 {
			return nil, badDecl(line, first(part), "expected a single name per declared variable")
		}
		if err := checkName(part[0], "a variable name"); err != nil {
			return nil, err
		}
		decl = append(decl, part[0])
		node.Names = append(node.Names, part[0].Text)
	}
	for _, d := range decl {
		if err := p.declare(d); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseTypedDecl - T x [= e]
func (p *Parser) parseTypedDecl(line []token.Token) (Node, error) {
	typ, i, err := parseType(line, 0)
	if err != nil {
		return nil, err
	}
	name := line[i]
	if err := checkName(name, "a variable name"); err != nil {
		return nil, err
	}
	node := &VarDecl{base: base{At: line[0].Line}, Names: []string{name.Text}, Type: typ}
	i++
	if i < len(line) {
		if line[i].Kind != token.Assign {
			return nil, badDecl(line, line[i], "expected '=' or end of line after '"+name.Text+"'")
		}
		if i+1 == len(line) {
			return nil, diag.Syntax(diag.SynExpectExpression, name.Line, "missing value after '='").
				At(line[i].Span).
				WithSnippet(token.Join(line))
		}
		node.Value, err = p.exprs().Parse(line[i+1:])
		if err != nil {
			return nil, err
		}
	}
	if err := p.declare(name); err != nil {
		return nil, err
	}
	return node, nil
}

// parseAssign - x = e
func (p *Parser) parseAssign(line []token.Token) (Node, error) {
	name := line[0]
	if err := checkName(name, "an assignment target"); err != nil {
		return nil, err
	}
	if len(line) == 2 {
		return nil, diag.Syntax(diag.SynExpectExpression, name.Line, "missing value after '='").
			At(line[1].Span).
			WithSnippet(token.Join(line)).
			WithHint(name.Text + " = 0")
	}
	x, err := p.exprs().Parse(line[2:])
	if err != nil {
		return nil, err
	}
	p.track.touch(name.Text, name.Line)
	return &Assign{base: base{At: name.Line}, Name: name.Text, Value: x}, nil
}

func (p *Parser) parseLoopControl(line []token.Token) (Node, error) {
	kw := line[0]
	if len(line) > 1 {
		return nil, diag.Syntaxf(diag.SynUnexpectedToken, kw.Line, "'%s' must stand alone on its line", kw.Text).
			At(line[1].Span).
			WithSnippet(token.Join(line)).
			WithHint(kw.Text)
	}
	if p.loopDepth == 0 {
		p.warn(diag.SynLoopControlOutsideLoop, kw, "'"+kw.Text+"' outside of a loop has no effect")
	}
	b := base{At: kw.Line}
	switch kw.Kind {
	case token.KwBreak:
		return &Break{b}, nil
	case token.KwContinue:
		return &Continue{b}, nil
	default:
		return &BreakAll{b}, nil
	}
}

func badDecl(line []token.Token, at token.Token, detail string) error {
	return diag.Syntax(diag.SynBadDeclaration, at.Line, detail).
		At(at.Span).
		WithSnippet(token.Join(line)).
		WithHint("var name: Type = value")
}
