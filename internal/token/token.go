package token

import (
	"strings"

	"nfscript/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Line int // 1-based
	Span source.Span
}

// IsLiteral reports whether the token is a numeric, boolean, null or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, TemplateLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwIf && t.Kind <= KwOr
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// Source renders the token the way it would appear in a script.
func (t Token) Source() string {
	switch t.Kind {
	case StringLit:
		return quote(t.Text)
	case TemplateLit:
		return "```" + t.Text + "```"
	case LineEnd:
		return ";"
	case EOF:
		return ""
	}
	if s, ok := t.Kind.Lexeme(); ok {
		return s
	}
	return t.Text
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// Join reconstructs a readable snippet from tokens, following the spacing
// rules scripts are usually written with.
func Join(toks []Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if t.Kind == LineEnd {
			if i != len(toks)-1 {
				sb.WriteString("; ")
			}
			continue
		}
		if i > 0 && needsSpace(toks[i-1], t) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Source())
	}
	return strings.TrimSpace(sb.String())
}

func needsSpace(prev, cur Token) bool {
	switch prev.Kind {
	case LParen, LBracket, DotDot, DotDotDot, LineEnd, Bang:
		return false
	}
	switch cur.Kind {
	case RParen, RBracket, Comma, Colon, DotDot, DotDotDot:
		return false
	case LParen, LBracket:
		// вызов и индекс: f(x), a[i]
		return prev.Kind != Ident && prev.Kind != RParen && prev.Kind != RBracket
	}
	return true
}
