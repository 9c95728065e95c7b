package driver

import (
	"nfscript/internal/diag"
	"nfscript/internal/lexer"
	"nfscript/internal/source"
	"nfscript/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Cached  bool // tokens came from the token cache
}

// Tokenize loads path and lexes it.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), opts), nil
}

// TokenizeSource lexes an in-memory script (REPL input, host strings).
func TokenizeSource(name string, src []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.Get(fs.AddVirtual(name, src)), opts)
}

func tokenizeFile(fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	res := &TokenizeResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}

	if toks, ok := opts.Cache.Get(file, opts.NoNormalize); ok {
		res.Tokens, res.Cached = toks, true
		return res
	}

	lx := lexer.New(file, lexer.Options{
		Reporter:    diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag}),
		NoNormalize: opts.NoNormalize,
	})
	res.Tokens = lx.All()

	// только чистые потоки токенов попадают в кэш
	if !res.Bag.HasErrors() {
		if err := opts.Cache.Put(file, opts.NoNormalize, res.Tokens); err != nil {
			res.Bag.Add(diag.NewWarning(diag.IOLoadFileError, source.Span{}, "token cache: "+err.Error()))
		}
	}
	return res
}
