// Package interp executes parsed scripts.
//
// One Interpreter owns a scope tree, a function registry and the run-time
// limits. It is not safe for concurrent use; batch runs create one
// interpreter per script.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ztrue/tracerr"

	"nfscript/internal/diag"
	"nfscript/internal/scope"
	"nfscript/internal/syntax"
	"nfscript/internal/token"
	"nfscript/internal/trace"
	"nfscript/internal/value"
)

const (
	DefaultTimeout      = 5 * time.Minute
	DefaultMaxCallDepth = 512
)

type Options struct {
	Timeout      time.Duration // per Run; 0 means DefaultTimeout
	MaxCallDepth int           // 0 means DefaultMaxCallDepth
	Stdout       io.Writer     // echo output; nil means os.Stdout
	Tracer       trace.Tracer  // nil means trace.Nop
}

// Result is the outcome of a successful Run.
type Result struct {
	// Returned is set when the script ended with a top-level return.
	Returned bool
	Values   []value.Value
}

// Interpreter runs programs against a persistent root scope.
type Interpreter struct {
	opts     Options
	out      io.Writer
	scopes   *scope.Tree
	funcs    *Registry
	builtins map[string]*Builtin

	ctx      context.Context
	deadline time.Time
	depth    int

	tracer     trace.Tracer
	traceNodes bool
	span       uint64
}

func New(opts Options) *Interpreter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	in := &Interpreter{
		opts:     opts,
		out:      opts.Stdout,
		scopes:   scope.NewTree(),
		funcs:    NewRegistry(),
		builtins: builtins(),
		tracer:   opts.Tracer,
		ctx:      context.Background(),
	}
	if in.out == nil {
		in.out = os.Stdout
	}
	if in.tracer == nil {
		in.tracer = trace.Nop
	}
	in.traceNodes = in.tracer.Enabled() && in.tracer.Level().ShouldEmit(trace.ScopeNode)
	return in
}

// Set binds a host variable in the root scope. Host names may start with
// '$'; keywords are rejected.
func (in *Interpreter) Set(name string, v any) error {
	if name == "" {
		return fmt.Errorf("empty variable name")
	}
	if _, kw := token.LookupKeyword(name); kw {
		return fmt.Errorf("%q is a keyword", name)
	}
	return in.scopes.Declare(in.scopes.Root(), name, value.FromGo(v), value.Any, false)
}

// Global returns a root-scope binding.
func (in *Interpreter) Global(name string) (value.Value, bool) {
	b, ok := in.scopes.LookupLocal(in.scopes.Root(), name)
	if !ok {
		return nil, false
	}
	return b.Value, true
}

// Vars snapshots the root scope.
func (in *Interpreter) Vars() map[string]value.Value {
	root := in.scopes.Root()
	names := in.scopes.Names(root)
	out := make(map[string]value.Value, len(names))
	for _, n := range names {
		if b, ok := in.scopes.LookupLocal(root, n); ok {
			out[n] = b.Value
		}
	}
	return out
}

// Functions exposes the registry.
func (in *Interpreter) Functions() *Registry { return in.funcs }

// Define installs a host function; it shadows a builtin of the same name.
func (in *Interpreter) Define(name string, fn HostFunc) {
	in.builtins[name] = &Builtin{name: name, fn: func(_ *Interpreter, args []value.Value, _ int) (value.Value, error) {
		return fn(args)
	}}
}

// Reset drops every binding and registered function.
func (in *Interpreter) Reset() {
	in.scopes.Reset()
	in.funcs.reset()
}

// Run executes prog. Functions of prog are registered before the first
// statement runs. The deadline starts at Run and is checked at every loop
// iteration together with ctx.
func (in *Interpreter) Run(ctx context.Context, prog *syntax.Program) (res Result, err error) {
	if prog == nil {
		return Result{}, diag.Runtime(diag.RunInternal, 0, "nil program")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx = ctx
	in.deadline = time.Now().Add(in.opts.Timeout)
	in.depth = 0

	span := trace.Begin(in.tracer, trace.ScopePhase, "run", trace.ParentFrom(ctx))
	if script := trace.ScriptFrom(ctx); script != "" {
		span.WithExtra("script", script)
	}
	in.span = span.ID()
	defer func() {
		detail := "ok"
		if err != nil {
			detail = "error"
		}
		span.WithExtra("scopes", fmt.Sprint(in.scopes.Live())).End(detail)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = diag.WrapRuntime(diag.RunInternal, 0, tracerr.Errorf("interpreter panic: %v", r))
		}
	}()

	if err := in.register(prog); err != nil {
		return Result{}, err
	}

	fr := &frame{scope: in.scopes.Root()}
	sig, err := in.runFrame(fr, prog.Nodes, fr.scope)
	if err != nil {
		return Result{}, err
	}
	if sig == SigReturn {
		return Result{Returned: true, Values: fr.ret}, nil
	}
	return Result{}, nil
}

// register is the definition pre-pass: every function in prog is added to
// the registry (first wins) and its reference bound final in the root.
func (in *Interpreter) register(prog *syntax.Program) error {
	root := in.scopes.Root()
	for _, fd := range prog.Funcs {
		def, added := in.funcs.Register(newFunctionDef(fd))
		if !added {
			continue
		}
		if b, ok := in.scopes.LookupLocal(root, def.Name); ok && b.Final {
			continue
		}
		if err := in.scopes.Declare(root, def.Name, &FunctionRef{Def: def}, value.Any, true); err != nil {
			return scopeError(err, fd.Line(), def.Name)
		}
	}
	return nil
}

// poll is the cooperative check done at every loop iteration.
func (in *Interpreter) poll(line int) error {
	if err := in.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return diag.Runtime(diag.RunTimeout, line, "script timed out: %v", err)
		}
		return diag.Runtime(diag.RunCanceled, line, "script canceled: %v", err)
	}
	if time.Now().After(in.deadline) {
		return diag.Runtime(diag.RunTimeout, line, "script exceeded timeout of %s", in.opts.Timeout)
	}
	return nil
}

func (in *Interpreter) echo(args []value.Value) error {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(value.Format(a))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(in.out, b.String())
	return err
}
