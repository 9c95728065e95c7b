package syntax

import (
	"fmt"

	"nfscript/internal/diag"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// parseFor - for i in a..b { … } | for x in src { … } | for k, v in src { … }
func (p *Parser) parseFor(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Next()
	blk, err := scanBlock(toks, s.Pos(), kw)
	if err != nil {
		return nil, err
	}
	node := &For{base: base{At: kw.Line}}
	if err := p.forHeader(kw, toks[s.Pos():blk.Open], node); err != nil {
		return nil, err
	}
	seed := []string{node.Var}
	if node.Value != "" {
		seed = append(seed, node.Value)
	}
	node.Body, err = p.loopBody(toks, blk, seed...)
	if err != nil {
		return nil, err
	}
	s.Seek(blk.Close + 1)
	return node, nil
}

func (p *Parser) forHeader(kw token.Token, hdr []token.Token, node *For) error {
	snippet := token.Join(append([]token.Token{kw}, hdr...))
	bad := func(code diag.Code, at token.Token, detail, hint string) error {
		return diag.Syntax(code, kw.Line, detail).At(at.Span).WithSnippet(snippet).WithHint(hint)
	}
	if len(hdr) == 0 {
		return bad(diag.SynForBadHeader, kw, "missing loop header", "for i in 0..10 {")
	}
	in := indexTop(hdr, token.KwIn)
	if in < 0 {
		return bad(diag.SynForMissingIn, hdr[0], "expected 'in' between the loop variable and its source",
			fmt.Sprintf("for %s in 0..10 {", hdr[0].Source()))
	}

	vars := hdr[:in]
	switch {
	case len(vars) == 1:
	case len(vars) == 3 && vars[1].Kind == token.Comma:
		vars = []token.Token{vars[0], vars[2]}
	default:
		return bad(diag.SynForBadHeader, first(vars), "expected one loop variable or 'key, value' before 'in'", "for k, v in m {")
	}
	for _, v := range vars {
		if err := checkName(v, "a loop variable"); err != nil {
			return err
		}
	}
	node.Var = vars[0].Text
	if len(vars) == 2 {
		if vars[0].Text == vars[1].Text {
			return bad(diag.SynForBadHeader, vars[1], "key and value variables must differ", "for k, v in m {")
		}
		node.Value = vars[1].Text
	}

	src := hdr[in+1:]
	if len(src) == 0 {
		return bad(diag.SynForBadHeader, hdr[in], "missing loop source after 'in'", fmt.Sprintf("for %s in items {", node.Var))
	}

	dots := indexTop(src, token.DotDot)
	if dots < 0 {
		node.Mode = ForIter
		var err error
		node.Source, err = p.exprs().Parse(src)
		return err
	}

	node.Mode = ForRange
	if node.Value != "" {
		return bad(diag.SynForBadHeader, vars[1], "a range loop takes exactly one variable", fmt.Sprintf("for %s in 0..10 {", node.Var))
	}
	lo, okLo := parseBound(src[:dots])
	hi, okHi := parseBound(src[dots+1:])
	if !okLo || !okHi {
		return bad(diag.SynForBadRange, src[dots], "range bounds must be integer literals or variable names",
			fmt.Sprintf("for %s in 0..n {", node.Var))
	}
	if !lo.IsVar() && !hi.IsVar() && lo.Value > hi.Value {
		return bad(diag.SynForBadRange, src[0],
			fmt.Sprintf("range start %d is greater than end %d", lo.Value, hi.Value),
			fmt.Sprintf("for %s in %d..%d {", node.Var, hi.Value, lo.Value))
	}
	node.Start, node.End = lo, hi
	return nil
}

// parseBound accepts INT, -INT or IDENT.
func parseBound(toks []token.Token) (Bound, bool) {
	neg := false
	if len(toks) == 2 && toks[0].Kind == token.Minus {
		neg = true
		toks = toks[1:]
	}
	if len(toks) != 1 {
		return Bound{}, false
	}
	t := toks[0]
	switch t.Kind {
	case token.IntLit:
		n, err := value.ParseInt(t.Text)
		if err != nil {
			return Bound{}, false
		}
		if neg {
			n = -n
		}
		return Bound{Value: n}, true
	case token.Ident:
		if neg || token.IsReservedName(t.Text) {
			return Bound{}, false
		}
		return Bound{Name: t.Text}, true
	}
	return Bound{}, false
}
