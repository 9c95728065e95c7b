package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// parseType reads a type annotation at toks[i]: NAME, NAME<T, …> or
// Fun<P1, P2 : R>. It returns the type and the index just past it.
// Signatures are kept for Fun only; List<String> and friends are accepted
// and checked by kind.
func parseType(toks []token.Token, i int) (value.Type, int, error) {
	if i >= len(toks) {
		at := last(toks)
		return value.Type{}, i, diag.Syntax(diag.SynExpectType, at.Line, "expected a type").
			At(at.Span).
			WithSnippet(token.Join(toks))
	}
	t := toks[i]
	if t.Kind != token.Ident {
		code := diag.SynExpectType
		if t.IsKeyword() {
			code = diag.SynReservedName
		}
		return value.Type{}, i, diag.Syntaxf(code, t.Line, "expected a type, got '%s'", t.Source()).
			At(t.Span).
			WithSnippet(token.Join(toks))
	}
	typ, ok := value.LookupType(t.Text)
	if !ok {
		return value.Type{}, i, diag.Syntaxf(diag.SynExpectType, t.Line, "unknown type '%s'", t.Text).
			At(t.Span).
			WithSnippet(token.Join(toks)).
			WithHint("int, float, String, boolean, List, Set, Map, Object or Fun<int : int>")
	}
	i++
	if i >= len(toks) || toks[i].Kind != token.Lt {
		return typ, i, nil
	}
	if typ.Kind == value.KindFunc {
		return parseFunType(toks, i)
	}

	// List<String>, Map<String, int>: параметры только проверяются
	open := toks[i]
	i++
	for {
		var err error
		if _, i, err = parseType(toks, i); err != nil {
			return value.Type{}, i, err
		}
		if i < len(toks) && toks[i].Kind == token.Comma {
			i++
			continue
		}
		if i < len(toks) && toks[i].Kind == token.Gt {
			return typ, i + 1, nil
		}
		return value.Type{}, i, unclosedAngle(toks, open, "List<String>")
	}
}

// parseFunType reads `<P1, P2... : R1, R2>` after Fun; toks[i] is the `<`.
// The parameter list may be empty; the result is a type list or Void.
func parseFunType(toks []token.Token, i int) (value.Type, int, error) {
	open := toks[i]
	i++
	sig := &value.Signature{}
	for i < len(toks) && toks[i].Kind != token.Colon {
		if toks[i].Kind == token.Gt {
			return value.Type{}, i, diag.Syntax(diag.SynExpectType, open.Line, "function type needs ':' between parameter and result types").
				At(toks[i].Span).
				WithSnippet(token.Join(toks)).
				WithHint("Fun<int, int : int>")
		}
		if sig.Variadic {
			return value.Type{}, i, diag.Syntax(diag.SynVariadicMustBeLast, open.Line, "only the last parameter type can be variadic").
				At(toks[i].Span).
				WithSnippet(token.Join(toks))
		}
		p, next, err := parseType(toks, i)
		if err != nil {
			return value.Type{}, next, err
		}
		sig.Params = append(sig.Params, p)
		i = next
		if i < len(toks) && toks[i].Kind == token.DotDotDot {
			sig.Variadic = true
			i++
		}
		if i < len(toks) && toks[i].Kind == token.Comma {
			i++
			continue
		}
		if i >= len(toks) || toks[i].Kind != token.Colon && toks[i].Kind != token.Gt {
			return value.Type{}, i, unclosedAngle(toks, open, "Fun<int, int : int>")
		}
	}
	if i >= len(toks) {
		return value.Type{}, i, unclosedAngle(toks, open, "Fun<int, int : int>")
	}
	i++ // ':'

	if i < len(toks) && toks[i].Kind == token.Ident && toks[i].Text == "Void" {
		i++
	} else {
		for {
			r, next, err := parseType(toks, i)
			if err != nil {
				return value.Type{}, next, err
			}
			sig.Returns = append(sig.Returns, r)
			i = next
			if i < len(toks) && toks[i].Kind == token.Comma {
				i++
				continue
			}
			break
		}
	}
	if i >= len(toks) || toks[i].Kind != token.Gt {
		return value.Type{}, i, unclosedAngle(toks, open, "Fun<int, int : int>")
	}
	return value.Type{Kind: value.KindFunc, Func: sig}, i + 1, nil
}

func unclosedAngle(toks []token.Token, open token.Token, hint string) error {
	return diag.Syntax(diag.SynExpectType, open.Line, "unclosed '<' in type annotation").
		At(open.Span).
		WithSnippet(token.Join(toks)).
		WithHint(hint)
}

// startsType reports whether toks[i] begins a declaration type followed by
// a name: `int x`, `Fun<int : int> f`.
func startsType(toks []token.Token, i int) bool {
	if i >= len(toks) || toks[i].Kind != token.Ident || !value.IsTypeName(toks[i].Text) {
		return false
	}
	_, j, err := parseType(toks, i)
	return err == nil && j < len(toks) && toks[j].Kind == token.Ident
}
