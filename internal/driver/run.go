package driver

import (
	"context"
	"errors"
	"io"

	"nfscript/internal/diag"
	"nfscript/internal/interp"
	"nfscript/internal/observ"
	"nfscript/internal/source"
	"nfscript/internal/trace"
)

// RunResult is the outcome of one script. Err holds the parse or run
// failure; it is also recorded in Bag.
type RunResult struct {
	Path    string
	FileSet *source.FileSet
	Bag     *diag.Bag
	Result  interp.Result
	Timer   *observ.Timer
	Output  []byte // echo output captured in batch runs
	Err     error
}

// Failed reports whether the script did not run to completion.
func (r *RunResult) Failed() bool {
	return r.Err != nil || r.Bag.HasErrors()
}

// Run parses and executes path with a fresh interpreter.
func Run(ctx context.Context, path string, opts Options) (*RunResult, error) {
	pr, err := Parse(path, opts)
	if err != nil {
		return nil, err
	}
	return execute(ctx, pr, newInterpreter(opts, opts.Stdout), opts), nil
}

// RunSource executes an in-memory script on in; the REPL keeps one
// interpreter across inputs.
func RunSource(ctx context.Context, in *interp.Interpreter, name string, src []byte, opts Options) *RunResult {
	return execute(ctx, ParseSource(name, src, opts), in, opts)
}

func newInterpreter(opts Options, out io.Writer) *interp.Interpreter {
	return interp.New(interp.Options{
		Timeout:      opts.Timeout,
		MaxCallDepth: opts.MaxCallDepth,
		Stdout:       out,
		Tracer:       opts.Tracer,
	})
}

// NewInterpreter builds an interpreter configured like driver runs.
func NewInterpreter(opts Options) *interp.Interpreter {
	return newInterpreter(opts, opts.Stdout)
}

func execute(ctx context.Context, pr *ParseResult, in *interp.Interpreter, opts Options) *RunResult {
	res := &RunResult{Path: pr.File.Path, FileSet: pr.FileSet, Bag: pr.Bag, Timer: pr.Timer}
	if pr.Program == nil {
		res.Err = errParse
		return res
	}

	ctx = trace.WithScript(trace.WithTracer(ctx, opts.tracer()), pr.File.Path)
	err := pr.Timer.Measure("run", func() error {
		var err error
		res.Result, err = in.Run(ctx, pr.Program)
		return err
	})
	if err != nil {
		res.Err = err
		res.Bag.Add(fileDiagnostic(err, pr.File, diag.RunError))
	}
	return res
}

var errParse = errors.New("script has syntax errors")

// IsParseFailure reports whether a RunResult error came from lexing or parsing.
func IsParseFailure(err error) bool { return errors.Is(err, errParse) }
