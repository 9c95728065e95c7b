package interp

import (
	"fmt"

	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/scope"
	"nfscript/internal/syntax"
	"nfscript/internal/trace"
	"nfscript/internal/value"
)

// env adapts the interpreter to expr.Env for one scope.
type env struct {
	in *Interpreter
	fr *frame
	sc scope.ID
}

func (e *env) Lookup(name string) (value.Value, bool) {
	b, _, ok := e.in.scopes.Lookup(e.sc, name)
	if !ok {
		return nil, false
	}
	return b.Value, true
}

// CallNamed resolves name as: a visible variable holding a function, a
// registered script function, a host function or builtin.
func (e *env) CallNamed(name string, args []value.Value, line int) (value.Value, error) {
	if b, _, ok := e.in.scopes.Lookup(e.sc, name); ok {
		if _, callable := b.Value.(value.Callable); callable {
			return e.in.callValue(b.Value, args, line)
		}
	}
	if def, ok := e.in.funcs.Lookup(name); ok {
		return e.in.call(def, args, line)
	}
	if bi, ok := e.in.builtins[name]; ok {
		return bi.fn(e.in, args, line)
	}
	return nil, diag.Runtime(diag.RunUndefinedFunction, line, "undefined function %q", name)
}

// Closure turns a lambda literal into a function value. Bindings of the
// enclosing local scopes are copied; globals stay live through the root.
func (e *env) Closure(l *expr.Lambda) (value.Value, error) {
	body, ok := l.Body.([]syntax.Node)
	if !ok && l.Body != nil {
		return nil, internalf(l.Line(), "lambda body has type %T", l.Body)
	}
	return &FunctionRef{Def: newLambda(l, body, e.in.captureLocals(e.sc))}, nil
}

// captureLocals copies the bindings visible from sc below the root; the
// nearest binding of a name wins.
func (in *Interpreter) captureLocals(sc scope.ID) []capture {
	var out []capture
	seen := make(map[string]bool)
	root := in.scopes.Root()
	for cur := sc; cur.IsValid() && cur != root; cur = in.scopes.Parent(cur) {
		for _, name := range in.scopes.Names(cur) {
			if seen[name] {
				continue
			}
			seen[name] = true
			b, _ := in.scopes.LookupLocal(cur, name)
			out = append(out, capture{name: name, val: b.Value, typ: b.Type})
		}
	}
	return out
}

func (e *env) CallValue(fn value.Value, args []value.Value, line int) (value.Value, error) {
	return e.in.callValue(fn, args, line)
}

func (in *Interpreter) callValue(fn value.Value, args []value.Value, line int) (value.Value, error) {
	switch f := fn.(type) {
	case *FunctionRef:
		return in.call(f.Def, args, line)
	case *Builtin:
		return f.fn(in, args, line)
	case nil:
		return nil, diag.Runtime(diag.RunTypeMismatch, line, "cannot call null")
	}
	return nil, diag.Runtime(diag.RunTypeMismatch, line, "%s is not callable", value.KindOf(fn))
}

// Call invokes a registered script function from the host.
func (in *Interpreter) Call(name string, args ...any) (value.Value, error) {
	def, ok := in.funcs.Lookup(name)
	if !ok {
		return nil, diag.Runtime(diag.RunUndefinedFunction, 0, "undefined function %q", name)
	}
	vals := make([]value.Value, len(args))
	for i, a := range args {
		vals[i] = value.FromGo(a)
	}
	return in.call(def, vals, 0)
}

// call runs def in a Function scope whose parent is the root. Parameters are
// type-checked on binding; a variadic tail is collected into a List.
func (in *Interpreter) call(def *FunctionDef, args []value.Value, line int) (res value.Value, err error) {
	if in.depth >= in.opts.MaxCallDepth {
		return nil, diag.Runtime(diag.RunCallDepth, line, "call depth limit %d exceeded in %q", in.opts.MaxCallDepth, def.Name)
	}
	if n := def.minArgs(); len(args) < n || (!def.sig.Variadic && len(args) > n) {
		want := fmt.Sprint(n)
		if def.sig.Variadic {
			want = fmt.Sprintf("at least %d", n)
		}
		return nil, diag.Runtime(diag.RunArity, line, "%s expects %s arguments, got %d", def.Name, want, len(args))
	}

	in.depth++
	defer func() { in.depth-- }()
	span := trace.Begin(in.tracer, trace.ScopeCall, "call:"+def.Name, in.span)
	defer span.End("")

	fr := &frame{def: def}
	fr.scope = in.scopes.Open(in.scopes.Root(), scope.KindFunction)
	defer func() {
		if rerr := in.scopes.Release(fr.scope); rerr != nil && err == nil {
			res, err = nil, internal(line, rerr)
		}
	}()

	for _, c := range def.captured {
		if err := in.scopes.Declare(fr.scope, c.name, c.val, c.typ, false); err != nil {
			return nil, internal(line, err)
		}
	}
	for i, p := range def.Params {
		if p.Variadic {
			rest := value.NewList()
			for _, a := range args[i:] {
				stored, ok := p.Type.Accepts(a)
				if !ok {
					return nil, paramMismatch(def, p.Name, p.Type, a, line)
				}
				rest.Append(stored)
			}
			if err := in.scopes.Declare(fr.scope, p.Name, rest, value.Any, false); err != nil {
				return nil, scopeError(err, line, p.Name)
			}
			break
		}
		if err := in.scopes.Declare(fr.scope, p.Name, args[i], p.Type, false); err != nil {
			return nil, paramMismatch(def, p.Name, p.Type, args[i], line)
		}
	}

	if _, err := in.runFrame(fr, def.Body, fr.scope); err != nil {
		return nil, err
	}
	return in.results(def, fr.ret, line)
}

func paramMismatch(def *FunctionDef, name string, typ value.Type, v value.Value, line int) error {
	return diag.Runtime(diag.RunTypeMismatch, line, "%s: parameter %s expects %s, got %s", def.Name, name, typ, value.TypeName(v))
}

// results checks declared return types and packs several values into a
// Tuple.
func (in *Interpreter) results(def *FunctionDef, vals []value.Value, line int) (value.Value, error) {
	if len(def.Returns) > 0 {
		if len(vals) != len(def.Returns) {
			return nil, diag.Runtime(diag.RunReturnMismatch, line, "%s must return %d values, got %d", def.Name, len(def.Returns), len(vals))
		}
		for i, typ := range def.Returns {
			stored, ok := typ.Accepts(vals[i])
			if !ok {
				return nil, diag.Runtime(diag.RunReturnMismatch, line, "%s: return value %d expects %s, got %s", def.Name, i+1, typ, value.KindOf(vals[i]))
			}
			vals[i] = stored
		}
	}
	switch len(vals) {
	case 0:
		return nil, nil
	case 1:
		return vals[0], nil
	}
	return value.Tuple(vals), nil
}
