package lexer

import (
	"fmt"

	"nfscript/internal/diag"
	"nfscript/internal/token"
)

var (
	ops3 = map[string]token.Kind{
		"...": token.DotDotDot,
	}
	ops2 = map[string]token.Kind{
		"..": token.DotDot,
		"==": token.EqEq,
		"!=": token.BangEq,
		"<=": token.LtEq,
		">=": token.GtEq,
		"&&": token.AndAnd,
		"||": token.OrOr,
		"->": token.Arrow,
	}
	ops1 = map[byte]token.Kind{
		'+': token.Plus,
		'-': token.Minus,
		'*': token.Star,
		'/': token.Slash,
		'%': token.Percent,
		'=': token.Assign,
		'!': token.Bang,
		'<': token.Lt,
		'>': token.Gt,
		':': token.Colon,
		',': token.Comma,
		'(': token.LParen,
		')': token.RParen,
		'{': token.LBrace,
		'}': token.RBrace,
		'[': token.LBracket,
		']': token.RBracket,
	}
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, n := range [...]int{3, 2} {
		if lx.cursor.Off+uint32(n) > lx.cursor.Limit {
			continue
		}
		text := string(lx.file.Content[lx.cursor.Off : lx.cursor.Off+uint32(n)])
		table := ops2
		if n == 3 {
			table = ops3
		}
		if k, ok := table[text]; ok {
			lx.cursor.BumpN(n)
			return token.Token{Kind: k, Text: text}
		}
	}

	if k, ok := ops1[lx.cursor.Peek()]; ok {
		ch := lx.cursor.Bump()
		return token.Token{Kind: k, Text: string(ch)}
	}

	// неизвестный символ
	lx.bumpRune()
	text := lx.textFrom(start)
	lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("line %d: unknown character %q", start.line, text))
	return token.Token{Kind: token.Invalid, Text: text}
}
