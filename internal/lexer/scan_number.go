package lexer

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
)

// Поддержка: 0, 123, 0x1F, 1.5, 1e-3, 2.5E+10. `1..3` остаётся INT DotDot INT.
// Text хранит исходный срез; значение разбирает парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.BumpN(2)
		if !isHex(lx.cursor.Peek()) {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected hex digit after 0x")
			return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
		}
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть: точка, за которой цифра, но не '..'
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.finishNumber(start, kind)
}

// finishNumber rejects literals glued to identifier characters, like 12ab.
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "malformed number literal")
		return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
	}
	return token.Token{Kind: kind, Text: lx.textFrom(start)}
}

func (lx *Lexer) textFrom(m Mark) string {
	return string(lx.file.Content[m.off:lx.cursor.Off])
}
