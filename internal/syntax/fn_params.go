package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
)

// parseParams разбирает `T a, T... rest` между скобками сигнатуры.
func parseParams(toks []token.Token) ([]Param, []token.Token, error) {
	var params []Param
	var names []token.Token
	parts := splitTop(toks, true)
	for idx, part := range parts {
		if len(part) == 0 {
			at := first(toks)
			return nil, nil, diag.Syntax(diag.SynFunBadParam, at.Line, "empty parameter").
				At(at.Span).
				WithSnippet(token.Join(toks)).
				WithHint("remove the extra ','")
		}
		typ, i, err := parseType(part, 0)
		if err != nil {
			return nil, nil, err
		}
		pr := Param{Type: typ}
		if i < len(part) && part[i].Kind == token.DotDotDot {
			pr.Variadic = true
			i++
		}
		if i >= len(part) {
			return nil, nil, diag.Syntaxf(diag.SynFunBadParam, part[0].Line, "parameter of type %s has no name", typ).
				At(last(part).Span).
				WithSnippet(token.Join(part)).
				WithHint(token.Join(part) + " name")
		}
		name := part[i]
		if err := checkName(name, "a parameter name"); err != nil {
			return nil, nil, err
		}
		if i+1 != len(part) {
			extra := part[i+1]
			return nil, nil, diag.Syntaxf(diag.SynFunBadParam, extra.Line, "unexpected '%s' after parameter '%s'", extra.Source(), name.Text).
				At(extra.Span).
				WithSnippet(token.Join(part))
		}
		if pr.Variadic && idx != len(parts)-1 {
			return nil, nil, diag.Syntaxf(diag.SynVariadicMustBeLast, name.Line, "variadic parameter '%s' must be the last one", name.Text).
				At(name.Span).
				WithSnippet(token.Join(toks))
		}
		for _, prev := range names {
			if prev.Text == name.Text {
				return nil, nil, diag.Syntaxf(diag.SynDuplicateVariable, name.Line, "parameter '%s' is declared twice", name.Text).
					At(name.Span).
					WithSnippet(token.Join(toks))
			}
		}
		pr.Name = name.Text
		params = append(params, pr)
		names = append(names, name)
	}
	return params, names, nil
}
