package lexer

import (
	"nfscript/internal/diag"
	"nfscript/internal/source"
)

// maxTokenLength caps a single token in bytes. Longer input is reported and
// the lexer skips to EOF.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// NoNormalize disables NFC normalisation of identifiers and strings.
	NoNormalize bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
