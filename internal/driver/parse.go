package driver

import (
	"nfscript/internal/diag"
	"nfscript/internal/observ"
	"nfscript/internal/source"
	"nfscript/internal/syntax"
	"nfscript/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *syntax.Program // nil when lexing or parsing failed
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Parse lexes and parses path. Syntax errors end up in Bag; the returned
// error is reserved for I/O failures.
func Parse(path string, opts Options) (*ParseResult, error) {
	timer := observ.NewTimer(path)
	var tok *TokenizeResult
	err := timer.Measure("lex", func() error {
		var err error
		tok, err = Tokenize(path, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return parseTokens(tok, timer, opts), nil
}

// ParseSource parses an in-memory script.
func ParseSource(name string, src []byte, opts Options) *ParseResult {
	timer := observ.NewTimer(name)
	var tok *TokenizeResult
	_ = timer.Measure("lex", func() error {
		tok = TokenizeSource(name, src, opts)
		return nil
	})
	return parseTokens(tok, timer, opts)
}

func parseTokens(tok *TokenizeResult, timer *observ.Timer, opts Options) *ParseResult {
	res := &ParseResult{FileSet: tok.FileSet, File: tok.File, Bag: tok.Bag, Timer: timer}
	if res.Bag.HasErrors() {
		return res
	}

	span := trace.Begin(opts.tracer(), trace.ScopePhase, "parse", 0).WithExtra("file", tok.File.Path)
	_ = timer.Measure("parse", func() error {
		prog, err := syntax.Parse(tok.Tokens, syntax.Options{Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})})
		if err != nil {
			res.Bag.Add(fileDiagnostic(err, tok.File, diag.SynUnexpectedToken))
			return err
		}
		res.Program = prog
		return nil
	})
	note := "ok"
	if res.Program == nil {
		note = "error"
	}
	span.End(note)
	return res
}

// fileDiagnostic converts a parse or run failure into a diagnostic bound to
// file. Errors of those phases carry a line but usually no span.
func fileDiagnostic(err error, file *source.File, fallback diag.Code) diag.Diagnostic {
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		d = diag.NewError(fallback, source.Span{}, err.Error())
	}
	if d.Primary.Empty() && d.Primary.File == 0 {
		d.Primary.File = file.ID
		for i := range d.Notes {
			d.Notes[i].Span.File = file.ID
		}
	}
	return d
}
