package syntax

import (
	"strings"

	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/token"
)

// splitTop cuts toks at commas outside (), [], {} and <> of type
// annotations. An empty input yields no parts.
func splitTop(toks []token.Token, angles bool) [][]token.Token {
	if len(toks) == 0 {
		return nil
	}
	var out [][]token.Token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.Lt:
			if angles {
				depth++
			}
		case token.Gt:
			if angles {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				out = append(out, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(out, toks[start:])
}

// indexTop returns the index of the first token of kind k outside brackets.
func indexTop(toks []token.Token, k token.Kind) int {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		default:
			if depth == 0 && t.Kind == k {
				return i
			}
		}
	}
	return -1
}

// checkName validates a user-declared identifier.
func checkName(t token.Token, what string) error {
	if t.Kind != token.Ident {
		if t.IsKeyword() {
			return diag.Syntaxf(diag.SynReservedName, t.Line, "'%s' is reserved and cannot be used as %s", t.Source(), what).
				At(t.Span).
				WithSnippet(t.Source())
		}
		return diag.Syntaxf(diag.SynExpectIdentifier, t.Line, "expected %s, got '%s'", what, t.Source()).
			At(t.Span).
			WithSnippet(t.Source())
	}
	if token.IsReservedName(t.Text) {
		return diag.Syntaxf(diag.SynReservedName, t.Line, "'%s' is reserved and cannot be used as %s", t.Text, what).
			At(t.Span).
			WithSnippet(t.Text)
	}
	if strings.HasPrefix(t.Text, "$") {
		return diag.Syntaxf(diag.SynReservedName, t.Line, "names starting with '$' are reserved, cannot use '%s' as %s", t.Text, what).
			At(t.Span).
			WithSnippet(t.Text).
			WithHint(strings.TrimLeft(t.Text, "$"))
	}
	return nil
}

// declare registers a new name in the tracker and reports redeclaration.
func (p *Parser) declare(t token.Token) error {
	if prev, dup := p.track.declare(t.Text, t.Line); dup {
		detail := "variable '" + t.Text + "' is already declared in this scope"
		if prev > 0 {
			return diag.Syntaxf(diag.SynDuplicateVariable, t.Line, "%s (line %d)", detail, prev).
				At(t.Span).
				WithSnippet(t.Text).
				WithHint(t.Text + " = ...")
		}
		return diag.Syntax(diag.SynDuplicateVariable, t.Line, detail).
			At(t.Span).
			WithSnippet(t.Text).
			WithHint(t.Text + " = ...")
	}
	return nil
}

// condition parses a header condition; an empty run is an error attributed
// to kw.
func (p *Parser) condition(kw token.Token, toks []token.Token, hint string) (expr.Expr, error) {
	if len(toks) == 0 {
		return nil, diag.Syntaxf(diag.SynEmptyCondition, kw.Line, "'%s' needs a condition", kw.Text).
			At(kw.Span).
			WithSnippet(kw.Text).
			WithHint(hint)
	}
	return p.exprs().Parse(toks)
}

func first(toks []token.Token) token.Token {
	if len(toks) == 0 {
		return token.Token{Kind: token.EOF}
	}
	return toks[0]
}

func last(toks []token.Token) token.Token {
	if len(toks) == 0 {
		return token.Token{Kind: token.EOF}
	}
	return toks[len(toks)-1]
}
