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

// exec dispatches one statement.
func (in *Interpreter) exec(fr *frame, n syntax.Node, sc scope.ID) (Signal, error) {
	if in.traceNodes {
		trace.Point(in.tracer, trace.ScopeNode, "node:"+n.Kind().String(), fmt.Sprintf("line %d", n.Line()), in.span)
	}
	switch n := n.(type) {
	case *syntax.If:
		return in.execIf(fr, n, sc)
	case *syntax.For:
		if n.Mode == syntax.ForRange {
			return in.execRange(fr, n, sc)
		}
		return in.execIter(fr, n, sc)
	case *syntax.While:
		return in.execWhile(fr, n, sc)
	case *syntax.DoWhile:
		return in.execDoWhile(fr, n, sc)
	case *syntax.Switch:
		return in.execSwitch(fr, n, sc)
	case *syntax.FuncDef:
		return SigNormal, in.execFuncDef(n, sc)
	case *syntax.VarDecl:
		return SigNormal, in.execVarDecl(fr, n, sc)
	case *syntax.Assign:
		v, err := in.eval(fr, n.Value, sc)
		if err != nil {
			return SigNormal, err
		}
		if err := in.scopes.Assign(sc, n.Name, v); err != nil {
			return SigNormal, scopeError(err, n.Line(), n.Name)
		}
		return SigNormal, nil
	case *syntax.Echo:
		vals, err := in.evalAll(fr, n.Args, sc)
		if err != nil {
			return SigNormal, err
		}
		if err := in.echo(vals); err != nil {
			return SigNormal, diag.WrapRuntime(diag.RunError, n.Line(), err)
		}
		return SigNormal, nil
	case *syntax.Return:
		vals, err := in.evalAll(fr, n.Values, sc)
		if err != nil {
			return SigNormal, err
		}
		fr.ret = vals
		return SigReturn, nil
	case *syntax.Break:
		return SigBreak, nil
	case *syntax.Continue:
		return SigContinue, nil
	case *syntax.BreakAll:
		return SigBreakAll, nil
	case *syntax.ExprStmt:
		_, err := in.eval(fr, n.X, sc)
		return SigNormal, err
	}
	return SigNormal, internalf(n.Line(), "unknown statement node %T", n)
}

func (in *Interpreter) eval(fr *frame, e expr.Expr, sc scope.ID) (value.Value, error) {
	return expr.Eval(e, &env{in: in, fr: fr, sc: sc})
}

func (in *Interpreter) evalAll(fr *frame, list []expr.Expr, sc scope.ID) ([]value.Value, error) {
	return expr.EvalAll(list, &env{in: in, fr: fr, sc: sc})
}

// execFuncDef binds the registered reference where the definition stands,
// unless the name is already visible there.
func (in *Interpreter) execFuncDef(n *syntax.FuncDef, sc scope.ID) error {
	if _, _, ok := in.scopes.Lookup(sc, n.Name); ok {
		return nil
	}
	def, ok := in.funcs.Lookup(n.Name)
	if !ok {
		return internalf(n.Line(), "function %q was not registered", n.Name)
	}
	if err := in.scopes.Declare(sc, n.Name, &FunctionRef{Def: def}, value.Any, true); err != nil {
		return scopeError(err, n.Line(), n.Name)
	}
	return nil
}

func (in *Interpreter) execVarDecl(fr *frame, n *syntax.VarDecl, sc scope.ID) error {
	var v value.Value
	if n.Value != nil {
		var err error
		if v, err = in.eval(fr, n.Value, sc); err != nil {
			return err
		}
	}
	if len(n.Names) == 1 {
		if err := in.scopes.Declare(sc, n.Names[0], v, n.Type, false); err != nil {
			return scopeError(err, n.Line(), n.Names[0])
		}
		return nil
	}

	// var a, b = f()
	var parts []value.Value
	switch x := v.(type) {
	case nil:
		parts = make([]value.Value, len(n.Names))
		if n.Value != nil {
			return diag.Runtime(diag.RunTypeMismatch, n.Line(), "cannot unpack null into %d variables", len(n.Names))
		}
	case value.Tuple:
		parts = x
	case *value.List:
		parts = x.Items
	default:
		return diag.Runtime(diag.RunTypeMismatch, n.Line(), "cannot unpack %s into %d variables", value.KindOf(v), len(n.Names))
	}
	if len(parts) != len(n.Names) {
		return diag.Runtime(diag.RunTypeMismatch, n.Line(), "expected %d values to unpack, got %d", len(n.Names), len(parts))
	}
	for i, name := range n.Names {
		if err := in.scopes.Declare(sc, name, parts[i], n.Type, false); err != nil {
			return scopeError(err, n.Line(), name)
		}
	}
	return nil
}
