package lexer

import (
	"nfscript/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые. Text идентификатора нормализуется в NFC.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off

	r, sz := lx.peekRune()
	if sz == 0 || (r >= utf8RuneSelf && !isIdentStartRune(r)) {
		return lx.scanOperatorOrPunct()
	}
	lx.bumpRune()
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 {
			break
		}
		if r2 < utf8RuneSelf {
			if !isIdentContinueByte(byte(r2)) {
				break
			}
		} else if !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	text := string(lx.file.Content[start:lx.cursor.Off])
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Text: text}
	}
	return token.Token{Kind: token.Ident, Text: lx.normalize(text)}
}
