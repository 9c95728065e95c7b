package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// parseSwitch - switch x { case 1, 2 … default … }
func (p *Parser) parseSwitch(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Next()
	blk, err := scanBlock(toks, s.Pos(), kw)
	if err != nil {
		return nil, err
	}
	node := &Switch{base: base{At: kw.Line}}
	node.Scrutinee, err = scrutinee(kw, toks[s.Pos():blk.Open])
	if err != nil {
		return nil, err
	}

	secs, err := scanSections(toks, blk.Open+2, blk.Close)
	if err != nil {
		return nil, err
	}
	for i, sec := range secs {
		head := toks[sec.Head:sec.HeadEnd]
		body, err := p.body(toks, block{Open: sec.BodyFrom - 2, Close: sec.End})
		if err != nil {
			return nil, err
		}
		if sec.Kw.Kind == token.KwDefault {
			if node.HasDefault || i != len(secs)-1 {
				return nil, diag.Syntax(diag.SynSwitchDefaultNotLast, sec.Kw.Line, "'default' must be the last section of a switch and appear once").
					At(sec.Kw.Span).
					WithSnippet(token.Join(headerLine(toks, sec.Head-1))).
					WithHint("move 'default' after every 'case'")
			}
			if len(head) > 0 {
				return nil, diag.Syntax(diag.SynSwitchBadCase, sec.Kw.Line, "'default' takes no values").
					At(head[0].Span).
					WithSnippet(token.Join(headerLine(toks, sec.Head-1))).
					WithHint("default:")
			}
			node.HasDefault = true
			node.Default = body
			continue
		}
		vals, err := caseValues(sec.Kw, head)
		if err != nil {
			return nil, err
		}
		node.Cases = append(node.Cases, Case{Line: sec.Kw.Line, Values: vals, Body: body})
	}
	s.Seek(blk.Close + 1)
	return node, nil
}

func scrutinee(kw token.Token, toks []token.Token) (expr.Expr, error) {
	ok := false
	switch len(toks) {
	case 1:
		t := toks[0]
		ok = t.Kind == token.Ident || (t.IsLiteral() && t.Kind != token.TemplateLit && t.Kind != token.KwNull)
	case 2:
		ok = toks[0].Kind == token.Minus && (toks[1].Kind == token.IntLit || toks[1].Kind == token.FloatLit)
	}
	if !ok {
		at := kw
		if len(toks) > 0 {
			at = toks[0]
		}
		return nil, diag.Syntax(diag.SynSwitchBadScrutinee, kw.Line, "switch value must be a variable or a literal").
			At(at.Span).
			WithSnippet(token.Join(append([]token.Token{kw}, toks...))).
			WithHint("v = <expression>; switch v {")
	}
	return expr.Parse(toks)
}

func caseValues(kw token.Token, head []token.Token) ([]value.Value, error) {
	parts := splitTop(head, false)
	if len(parts) == 0 {
		return nil, diag.Syntax(diag.SynSwitchBadCase, kw.Line, "'case' needs at least one value").
			At(kw.Span).
			WithSnippet(kw.Text).
			WithHint("case 1, 2:")
	}
	vals := make([]value.Value, 0, len(parts))
	for _, part := range parts {
		var v value.Value
		lit := false
		if len(part) > 0 && first(part).Kind != token.TemplateLit {
			if e, err := expr.Parse(part); err == nil {
				v, lit = expr.IsLiteral(e)
			}
		}
		if !lit {
			at := kw
			if len(part) > 0 {
				at = part[0]
			}
			return nil, diag.Syntaxf(diag.SynSwitchBadCase, kw.Line, "case value '%s' is not a literal", token.Join(part)).
				At(at.Span).
				WithSnippet(token.Join(append([]token.Token{kw}, head...))).
				WithHint("case 1, \"two\", 3.0:")
		}
		vals = append(vals, v)
	}
	return vals, nil
}
