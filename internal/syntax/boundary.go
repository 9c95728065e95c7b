package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
)

// block is a `{` LINE_END ... `}` region inside a token buffer. Body is
// toks[Open+2 : Close].
type block struct {
	Open  int
	Close int
}

func (b block) body(toks []token.Token) []token.Token {
	return toks[min(b.Open+2, b.Close):b.Close]
}

// isBlockOpen: a statement block opens with `{` immediately followed by
// LINE_END; any other `{` belongs to an expression.
func isBlockOpen(toks []token.Token, i int) bool {
	return toks[i].Kind == token.LBrace && i+1 < len(toks) && toks[i+1].Kind == token.LineEnd
}

// isEmptyBlock matches `{}` written on the header line.
func isEmptyBlock(toks []token.Token, i int) bool {
	return toks[i].Kind == token.LBrace && i+1 < len(toks) && toks[i+1].Kind == token.RBrace
}

func opensBlock(toks []token.Token, i int) bool {
	return i < len(toks) && (isBlockOpen(toks, i) || isEmptyBlock(toks, i))
}

// scanBlock finds the block whose opener sits on the header line starting at
// from. The opener must appear before the header's LINE_END (brackets of
// the header expression are skipped). Nesting then counts statement blocks
// only; the construct ends at the `}` that brings the depth back to zero.
// A header ending in `{}` yields an empty block.
func scanBlock(toks []token.Token, from int, kw token.Token) (block, error) {
	open := -1
	nest := 0
	for i := from; i < len(toks) && open < 0; i++ {
		switch toks[i].Kind {
		case token.LParen, token.LBracket:
			nest++
		case token.RParen, token.RBracket:
			nest--
		case token.LBrace:
			if nest == 0 && isEmptyBlock(toks, i) {
				return block{Open: i, Close: i + 1}, nil
			}
			if nest == 0 && isBlockOpen(toks, i) {
				open = i
				continue
			}
			nest++
		case token.RBrace:
			nest--
		case token.LineEnd, token.EOF:
			if nest <= 0 {
				return block{}, missingBlock(toks, from, i, kw)
			}
		}
		if i == len(toks)-1 {
			return block{}, missingBlock(toks, from, len(toks), kw)
		}
	}
	if open < 0 {
		return block{}, missingBlock(toks, from, len(toks), kw)
	}

	depth, exprDepth := 1, 0
	for i := open + 2; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LBrace:
			if isBlockOpen(toks, i) {
				depth++
			} else {
				exprDepth++
			}
		case token.RBrace:
			if exprDepth > 0 {
				exprDepth--
				continue
			}
			depth--
			if depth == 0 {
				return block{Open: open, Close: i}, nil
			}
		}
	}
	return block{}, diag.Syntaxf(diag.SynUnclosedBlock, kw.Line, "'%s' block opened on line %d is never closed", kw.Text, toks[open].Line).
		At(toks[open].Span).
		WithSnippet(token.Join(append([]token.Token{kw}, headerLine(toks, from)...))).
		WithHint("add a closing '}' on its own line")
}

func missingBlock(toks []token.Token, from, at int, kw token.Token) error {
	hdr := append([]token.Token{kw}, toks[from:min(at, len(toks))]...)
	return diag.Syntaxf(diag.SynMissingBlock, kw.Line, "expected '{' followed by a line break to open the '%s' body", kw.Text).
		At(kw.Span).
		WithSnippet(token.Join(hdr)).
		WithHint(token.Join(hdr) + " {")
}

// headerLine returns tokens from `from` up to (excluding) the next LINE_END.
func headerLine(toks []token.Token, from int) []token.Token {
	for i := from; i < len(toks); i++ {
		if toks[i].Kind == token.LineEnd || toks[i].Kind == token.EOF {
			return toks[from:i]
		}
	}
	return toks[from:]
}

// chainLink is one peeled arm of an if chain.
type chainLink struct {
	kind   BranchKind
	kw     token.Token // the `if` or `else` token
	cond   []token.Token
	block  block
	isLast bool
}

// scanIfChain peels `if c {…}`, any `else if c {…}` and an optional
// `else {…}`. `else` may follow `}` on the same line or start the next one.
// from points at the `if` keyword.
func scanIfChain(toks []token.Token, from int) ([]chainLink, int, error) {
	var links []chainLink
	kind := BranchIf
	kw := toks[from]
	at := from + 1
	for {
		blk, err := scanBlock(toks, at, kw)
		if err != nil {
			return nil, 0, err
		}
		links = append(links, chainLink{kind: kind, kw: kw, cond: toks[at:blk.Open], block: blk})
		if kind == BranchElse {
			return links, blk.Close + 1, nil
		}

		next := blk.Close + 1
		if next < len(toks) && toks[next].Kind == token.LineEnd && next+1 < len(toks) && toks[next+1].Kind == token.KwElse {
			next++
		}
		if next >= len(toks) || toks[next].Kind != token.KwElse {
			return links, blk.Close + 1, nil
		}

		elseTok := toks[next]
		switch {
		case next+1 < len(toks) && toks[next+1].Kind == token.KwIf:
			kind, kw, at = BranchElseIf, toks[next+1], next+2
		case opensBlock(toks, next+1):
			kind, kw, at = BranchElse, elseTok, next+1
		default:
			return nil, 0, diag.Syntax(diag.SynDanglingElse, elseTok.Line, "'else' must be followed by '{' and a line break or by 'if'").
				At(elseTok.Span).
				WithSnippet(token.Join(headerLine(toks, next))).
				WithHint("} else {")
		}
	}
}

// section is one `case`/`default` part of a switch body, as absolute
// indices into the buffer: header tokens [Head, HeadEnd), body
// [BodyFrom, End).
type section struct {
	Kw       token.Token
	Head     int
	HeadEnd  int
	BodyFrom int
	End      int
}

// scanSections splits a switch body into case/default sections. A section
// ends at the next `case`/`default` that sits at nesting depth zero or at
// the end of the body. A section header ends at its first `:` or LINE_END.
func scanSections(toks []token.Token, from, to int) ([]section, error) {
	var out []section
	i := from
	for i < to && toks[i].Kind == token.LineEnd {
		i++
	}
	if i < to && toks[i].Kind != token.KwCase && toks[i].Kind != token.KwDefault {
		t := toks[i]
		return nil, diag.Syntaxf(diag.SynSwitchBadCase, t.Line, "expected 'case' or 'default' inside switch, got '%s'", t.Source()).
			At(t.Span).
			WithSnippet(token.Join(headerLine(toks, i))).
			WithHint("case <value>")
	}
	for i < to {
		sec := section{Kw: toks[i], Head: i + 1}
		j := i + 1
		for j < to && toks[j].Kind != token.LineEnd && toks[j].Kind != token.Colon {
			j++
		}
		sec.HeadEnd = j
		sec.BodyFrom = min(j+1, to)
		depth, exprDepth := 0, 0
		k := sec.BodyFrom
		for ; k < to; k++ {
			t := toks[k]
			if depth == 0 && exprDepth == 0 && (t.Kind == token.KwCase || t.Kind == token.KwDefault) {
				break
			}
			switch t.Kind {
			case token.LBrace:
				if isBlockOpen(toks, k) {
					depth++
				} else {
					exprDepth++
				}
			case token.RBrace:
				if exprDepth > 0 {
					exprDepth--
				} else {
					depth--
				}
			}
		}
		sec.End = k
		out = append(out, sec)
		i = k
	}
	return out, nil
}

// cutLine returns the end (exclusive) of the logical line starting at from:
// the first LINE_END outside (), [] and expression {}.
func cutLine(toks []token.Token, from int) int {
	nest := 0
	for i := from; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			nest++
		case token.RParen, token.RBracket, token.RBrace:
			if nest == 0 {
				return i
			}
			nest--
		case token.LineEnd, token.EOF:
			if nest == 0 {
				return i
			}
		}
	}
	return len(toks)
}
