package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/token"
)

// parseIf - if cond { … } [else if cond { … }]* [else { … }]
func (p *Parser) parseIf(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Peek()
	links, end, err := scanIfChain(toks, s.Pos())
	if err != nil {
		return nil, err
	}
	node := &If{base: base{At: kw.Line}}
	for _, l := range links {
		br := Branch{Kind: l.kind, Line: l.kw.Line}
		if l.kind != BranchElse {
			br.Cond, err = p.condition(l.kw, l.cond, l.kind.String()+" x > 0 {")
			if err != nil {
				return nil, err
			}
		}
		br.Body, err = p.body(toks, l.block)
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, br)
	}
	s.Seek(end)
	return node, nil
}

// parseWhile - while cond { … }
func (p *Parser) parseWhile(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Next()
	blk, err := scanBlock(toks, s.Pos(), kw)
	if err != nil {
		return nil, err
	}
	cond, err := p.condition(kw, toks[s.Pos():blk.Open], "while i < 10 {")
	if err != nil {
		return nil, err
	}
	body, err := p.loopBody(toks, blk)
	if err != nil {
		return nil, err
	}
	s.Seek(blk.Close + 1)
	return &While{base: base{At: kw.Line}, Cond: cond, Body: body}, nil
}

// parseDoWhile - do { … } while cond
func (p *Parser) parseDoWhile(s *Stream) (Node, error) {
	toks := s.Tokens()
	kw := s.Next()
	if !opensBlock(toks, s.Pos()) {
		return nil, diag.Syntax(diag.SynMissingBlock, kw.Line, "expected '{' followed by a line break right after 'do'").
			At(kw.Span).
			WithSnippet(token.Join(headerLine(toks, s.Pos()-1))).
			WithHint("do {")
	}
	blk, err := scanBlock(toks, s.Pos(), kw)
	if err != nil {
		return nil, err
	}
	body, err := p.loopBody(toks, blk)
	if err != nil {
		return nil, err
	}

	closing := toks[blk.Close]
	s.Seek(blk.Close + 1)
	if !s.At(token.KwWhile) {
		return nil, diag.Syntax(diag.SynDoMissingWhile, closing.Line, "'do' block must be followed by 'while <condition>' on the closing line").
			At(closing.Span).
			WithSnippet(token.Join(headerLine(toks, blk.Close))).
			WithHint("} while i < 10")
	}
	wkw := s.Next()
	end := cutLine(toks, s.Pos())
	var cond expr.Expr
	cond, err = p.condition(wkw, toks[s.Pos():end], "} while i < 10")
	if err != nil {
		return nil, err
	}
	s.Seek(end)
	return &DoWhile{base: base{At: kw.Line}, Cond: cond, Body: body}, nil
}
