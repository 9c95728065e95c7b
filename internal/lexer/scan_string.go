package lexer

import (
	"strconv"
	"strings"

	"nfscript/internal/diag"
	"nfscript/internal/token"
)

// scanString reads a '"' or '\'' quoted literal. Text holds the decoded value.
// Escapes: \n \t \r \0 \\ \" \' \uXXXX. Перевод строки внутри - ошибка.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	var b strings.Builder
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		switch c {
		case quote:
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Text: lx.normalize(b.String())}
		case '\n':
			lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "newline in string literal")
			return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
		case '\\':
			lx.cursor.Bump()
			if !lx.scanEscape(&b) {
				return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
			}
		default:
			r, _ := lx.peekRune()
			b.WriteRune(r)
			lx.bumpRune()
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
}

func (lx *Lexer) scanEscape(b *strings.Builder) bool {
	escStart := lx.cursor.Mark()
	c := lx.cursor.Bump()
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '0':
		b.WriteByte(0)
	case '\\', '"', '\'', '`', '{', '}':
		b.WriteByte(c)
	case 'u':
		hex := make([]byte, 0, 4)
		for range 4 {
			if !isHex(lx.cursor.Peek()) {
				lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(escStart), "\\u escape needs four hex digits")
				return false
			}
			hex = append(hex, lx.cursor.Bump())
		}
		v, _ := strconv.ParseUint(string(hex), 16, 32)
		b.WriteRune(rune(v))
	case 0:
		lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(escStart), "unterminated string literal")
		return false
	default:
		// неизвестный escape сохраняем как есть
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return true
}

// scanTemplate reads a ```...``` block. The body is kept raw, placeholders
// {expr} are resolved by the expression parser. Templates may span lines.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	bodyStart := lx.cursor.Off
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '\\' {
			lx.cursor.BumpN(2)
			continue
		}
		if lx.cursor.HasPrefix("```") {
			body := string(lx.file.Content[bodyStart:lx.cursor.Off])
			lx.cursor.BumpN(3)
			return token.Token{Kind: token.TemplateLit, Text: lx.normalize(body)}
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedTemplate, lx.cursor.SpanFrom(start), "unterminated template string")
	return token.Token{Kind: token.Invalid, Text: lx.textFrom(start)}
}
