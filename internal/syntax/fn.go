package syntax

import (
	"fmt"

	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// parseFun - fun name(T a, T... rest) R1, R2 { … }
func (p *Parser) parseFun(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Next()
	blk, err := scanBlock(toks, s.Pos(), kw)
	if err != nil {
		return nil, err
	}
	hdr := toks[s.Pos():blk.Open]
	snippet := token.Join(append([]token.Token{kw}, hdr...))

	if len(hdr) == 0 || hdr[0].Kind != token.Ident || token.IsReservedName(hdr[0].Text) || hdr[0].Text[0] == '$' {
		at := kw
		what := "missing function name"
		if len(hdr) > 0 {
			at = hdr[0]
			what = "'" + at.Source() + "' cannot be used as a function name"
		}
		return nil, diag.Syntax(diag.SynFunBadName, kw.Line, what).
			At(at.Span).
			WithSnippet(snippet).
			WithHint("fun name(int a) int {")
	}
	name := hdr[0]
	if len(hdr) < 2 || hdr[1].Kind != token.LParen {
		return nil, diag.Syntaxf(diag.SynFunBadSignature, kw.Line, "expected '(' after function name '%s'", name.Text).
			At(name.Span).
			WithSnippet(snippet).
			WithHint("fun " + name.Text + "() {")
	}
	closeAt := matchParen(hdr, 1)
	if closeAt < 0 {
		return nil, diag.Syntaxf(diag.SynFunBadSignature, kw.Line, "parameter list of '%s' is not closed", name.Text).
			At(hdr[1].Span).
			WithSnippet(snippet).
			WithHint("fun " + name.Text + "(int a) {")
	}

	params, names, err := parseParams(hdr[2:closeAt])
	if err != nil {
		return nil, err
	}
	returns, err := parseReturns(hdr[closeAt+1:])
	if err != nil {
		return nil, err
	}

	node := &FuncDef{base: base{At: kw.Line}, Name: name.Text, Params: params, Returns: returns}
	if prev, seen := p.funcLines[name.Text]; seen {
		p.warn(diag.SynDuplicateFunction, name, fmt.Sprintf("function '%s' is already defined on line %d; the first definition is used", name.Text, prev))
	} else {
		p.funcLines[name.Text] = name.Line
	}
	p.funcs = append(p.funcs, node)

	seed := make([]string, len(names))
	for i, n := range names {
		seed[i] = n.Text
	}
	savedLoops := p.loopDepth
	p.loopDepth = 0
	p.track.push(frameFunction, seed...)
	node.Body, err = p.statements(blk.body(toks))
	p.track.pop()
	p.loopDepth = savedLoops
	if err != nil {
		return nil, err
	}
	s.Seek(blk.Close + 1)
	return node, nil
}

func parseReturns(toks []token.Token) ([]value.Type, error) {
	var out []value.Type
	for _, part := range splitTop(toks, true) {
		typ, i, err := parseType(part, 0)
		if err != nil {
			return nil, err
		}
		if i != len(part) {
			extra := part[i]
			return nil, diag.Syntaxf(diag.SynFunBadSignature, extra.Line, "unexpected '%s' in return types", extra.Source()).
				At(extra.Span).
				WithSnippet(token.Join(toks)).
				WithHint("separate return types with ','")
		}
		out = append(out, typ)
	}
	return out, nil
}

// matchParen returns the index of the ')' closing toks[open].
func matchParen(toks []token.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// exprs returns the expression options of this parser: lambda bodies are
// built as function bodies.
func (p *Parser) exprs() expr.Options {
	return expr.Options{Lambda: p.lambdaBody}
}

func (p *Parser) lambdaBody(l *expr.Lambda) error {
	for _, name := range l.Params {
		if token.IsReservedName(name) || name[0] == '$' {
			return diag.Syntaxf(diag.SynReservedName, l.Line(), "'%s' is reserved and cannot be used as a lambda parameter", name).
				WithSnippet(l.String())
		}
	}
	savedLoops := p.loopDepth
	p.loopDepth = 0
	p.track.push(frameFunction, l.Params...)
	body, err := p.statements(l.Tokens)
	p.track.pop()
	p.loopDepth = savedLoops
	if err != nil {
		return err
	}
	l.Body = body
	return nil
}
